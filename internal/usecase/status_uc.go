package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"telegram-data-bot/internal/domain/model"
	"telegram-data-bot/internal/domain/ports/repository"
	"telegram-data-bot/internal/infra/logging"
)

// StatusTracker owns the process-wide ProcessStatus. Every write bumps the
// version, so readers can tell two snapshots apart.
type StatusTracker struct {
	mu  sync.RWMutex
	cur model.ProcessStatus
}

func NewStatusTracker() *StatusTracker {
	return &StatusTracker{cur: model.NewProcessStatus()}
}

// Record replaces the current status and returns the stored value.
func (t *StatusTracker) Record(label string, at time.Time) model.ProcessStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cur = t.cur.Next(label, at)
	return t.cur
}

func (t *StatusTracker) Snapshot() model.ProcessStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cur
}

// StatusReport is the status snapshot merged with live store connectivity.
type StatusReport struct {
	Status      model.ProcessStatus
	DBConnected bool
}

// Compile-time check
var _ StatusUseCase = (*statusUC)(nil)

type StatusUseCase interface {
	Report(ctx context.Context) StatusReport
}

type statusUC struct {
	tracker *StatusTracker
	entries repository.EntryRepository
	log     *zerolog.Logger
}

func NewStatusUseCase(tracker *StatusTracker, entries repository.EntryRepository, logger *zerolog.Logger) *statusUC {
	return &statusUC{tracker: tracker, entries: entries, log: logger}
}

// Report never fails: connectivity problems show up as DBConnected=false.
func (s *statusUC) Report(ctx context.Context) StatusReport {
	defer logging.TraceDuration(s.log, "StatusUC.Report")()
	return StatusReport{
		Status:      s.tracker.Snapshot(),
		DBConnected: s.entries.IsConnected(ctx),
	}
}
