//go:build !integration

package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"telegram-data-bot/internal/domain/model"
	"telegram-data-bot/internal/usecase"
)

func TestStatusTracker(t *testing.T) {
	t.Run("starts with the started label and no timestamp", func(t *testing.T) {
		st := usecase.NewStatusTracker().Snapshot()
		if st.Label != model.StatusStarted || st.Timestamp != "" || st.Version != 0 {
			t.Errorf("unexpected initial status: %+v", st)
		}
	})

	t.Run("record formats the timestamp", func(t *testing.T) {
		tr := usecase.NewStatusTracker()
		at := time.Date(2024, 3, 5, 7, 8, 9, 0, time.UTC)
		got := tr.Record(model.StatusSuccess, at)
		if got.Timestamp != "2024-03-05 07:08:09" {
			t.Errorf("timestamp = %q", got.Timestamp)
		}
		if tr.Snapshot() != got {
			t.Error("snapshot should equal the last recorded value")
		}
	})

	t.Run("concurrent writers produce one version per write", func(t *testing.T) {
		tr := usecase.NewStatusTracker()
		const writers = 64
		var wg sync.WaitGroup
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				tr.Record(model.StatusSuccess, time.Now())
				_ = tr.Snapshot()
			}()
		}
		wg.Wait()
		if v := tr.Snapshot().Version; v != writers {
			t.Errorf("expected version %d, got %d", writers, v)
		}
	})
}

func TestStatusUseCase_Report(t *testing.T) {
	ctx := context.Background()
	tr := usecase.NewStatusTracker()
	connected := false
	repo := &MockEntryRepo{IsConnectedFunc: func(ctx context.Context) bool { return connected }}
	uc := usecase.NewStatusUseCase(tr, repo, newTestLogger())

	r := uc.Report(ctx)
	if r.DBConnected || r.Status.Label != model.StatusStarted {
		t.Errorf("unexpected report: %+v", r)
	}

	connected = true
	tr.Record(model.StatusSuccess, time.Now())
	r = uc.Report(ctx)
	if !r.DBConnected || r.Status.Label != model.StatusSuccess || r.Status.Timestamp == "" {
		t.Errorf("unexpected report after save: %+v", r)
	}
}
