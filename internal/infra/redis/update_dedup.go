package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// UpdateDeduper remembers Telegram update ids for ttl so a redelivered update
// is acknowledged without being processed twice.
type UpdateDeduper struct {
	cli RedisClient
	ttl time.Duration
	log *zerolog.Logger
}

func NewUpdateDeduper(cli RedisClient, ttl time.Duration, logger *zerolog.Logger) *UpdateDeduper {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &UpdateDeduper{cli: cli, ttl: ttl, log: logger}
}

func UpdateKey(updateID int) string {
	return fmt.Sprintf("tg_update:%d", updateID)
}

// FirstSeen claims updateID and reports whether this call was the first.
// Redis errors fail open: the update is processed.
func (d *UpdateDeduper) FirstSeen(ctx context.Context, updateID int) bool {
	ok, err := d.cli.SetNX(ctx, UpdateKey(updateID), time.Now().Unix(), d.ttl)
	if err != nil {
		d.log.Warn().Err(err).Int("update_id", updateID).Msg("update dedup unavailable; processing anyway")
		return true
	}
	return ok
}

// Forget releases updateID so a later delivery is processed again.
func (d *UpdateDeduper) Forget(ctx context.Context, updateID int) {
	if err := d.cli.Del(ctx, UpdateKey(updateID)); err != nil {
		d.log.Warn().Err(err).Int("update_id", updateID).Msg("failed to release update id")
	}
}
