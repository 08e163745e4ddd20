package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-data-bot/internal/domain"
	"telegram-data-bot/internal/domain/model"
	"telegram-data-bot/internal/domain/ports/repository"
)

var _ repository.EntryRepository = (*PostgresEntryRepo)(nil)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS user_data (
    id         BIGSERIAL PRIMARY KEY,
    chat_id    BIGINT NOT NULL,
    username   VARCHAR(255),
    data_text  TEXT NOT NULL CHECK (length(btrim(data_text)) > 0),
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE INDEX IF NOT EXISTS user_data_created_at_idx ON user_data (created_at DESC, id DESC)`,
}

// PostgresEntryRepo stores entries in the user_data table.
type PostgresEntryRepo struct {
	pool    *pgxpool.Pool
	tm      *TxManager
	timeout time.Duration
}

// NewPostgresEntryRepo bounds every statement by timeout (no bound when timeout <= 0).
func NewPostgresEntryRepo(pool *pgxpool.Pool, timeout time.Duration) *PostgresEntryRepo {
	return &PostgresEntryRepo{pool: pool, tm: NewTxManager(pool), timeout: timeout}
}

func (r *PostgresEntryRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresEntryRepo) EnsureSchema(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		for _, stmt := range schemaStatements {
			if _, err := execSQL(ctx, r.pool, tx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("ensure user_data schema: %w", err)
	}
	return nil
}

func (r *PostgresEntryRepo) Insert(ctx context.Context, tx repository.Tx, e *model.Entry) error {
	if e == nil {
		return domain.ErrInvalidArgument
	}
	if strings.TrimSpace(e.Text) == "" {
		return domain.ErrEmptyPayload
	}
	const q = `
INSERT INTO user_data (chat_id, username, data_text)
VALUES ($1, $2, $3)
RETURNING id, created_at`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	row, err := pickRow(ctx, r.pool, tx, q, e.ChatID, e.Username, e.Text)
	if err != nil {
		return err
	}
	if err := row.Scan(&e.ID, &e.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		// class 23: integrity constraint violation
		if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23") {
			return fmt.Errorf("insert entry: %w: %w", domain.ErrConstraintViolation, err)
		}
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

func (r *PostgresEntryRepo) ListRecent(ctx context.Context, tx repository.Tx, limit int) ([]*model.Entry, error) {
	if limit <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	const q = `
SELECT id, chat_id, COALESCE(username, ''), data_text, created_at
  FROM user_data
 ORDER BY created_at DESC, id DESC
 LIMIT $1`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := queryRows(ctx, r.pool, tx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent entries: %w", err)
	}
	defer rows.Close()

	out := make([]*model.Entry, 0, limit)
	for rows.Next() {
		var e model.Entry
		if err := rows.Scan(&e.ID, &e.ChatID, &e.Username, &e.Text, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrReadDatabaseRow, err)
		}
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list recent entries: %w", err)
	}
	return out, nil
}

// IsConnected pings the pool with a short deadline.
func (r *PostgresEntryRepo) IsConnected(ctx context.Context) bool {
	if r.pool == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return r.pool.Ping(ctx) == nil
}

// Pool exposes the underlying pool for stats collection.
func (r *PostgresEntryRepo) Pool() *pgxpool.Pool { return r.pool }

// PoolStats reports total, idle and acquired connections.
func (r *PostgresEntryRepo) PoolStats() (total, idle, inUse int32) {
	if r.pool == nil {
		return 0, 0, 0
	}
	st := r.pool.Stat()
	return st.TotalConns(), st.IdleConns(), st.AcquiredConns()
}
