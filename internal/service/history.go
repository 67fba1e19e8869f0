package service

import (
	"context"
	"log/slog"

	"github.com/gridrush/tictactoe-server/internal/entity"
)

const recordBuffer = 64

type historyRepo interface {
	Insert(ctx context.Context, record *entity.GameRecord) error
}

// HistorySink forwards terminal game summaries to durable storage without
// making the coordinator wait. Insert failures are logged and swallowed: the
// authoritative outcome is already terminal by the time a record gets here.
type HistorySink struct {
	logger  *slog.Logger
	repo    historyRepo
	records chan entity.GameRecord
}

func NewHistorySink(logger *slog.Logger, repo historyRepo) *HistorySink {
	return &HistorySink{
		logger:  logger.With("component", "history-sink"),
		repo:    repo,
		records: make(chan entity.GameRecord, recordBuffer),
	}
}

// Run - drains the record queue until the context is canceled.
func (that *HistorySink) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case record := <-that.records:
			if err := that.repo.Insert(ctx, &record); err != nil {
				that.logger.Error("failed to persist game record", "gameID", record.ID, "error", err)
			}
		}
	}
}

// Record - hands off a summary for persistence; never blocks the caller.
func (that *HistorySink) Record(record entity.GameRecord) {
	select {
	case that.records <- record:
	default:
		that.logger.Warn("record queue is full, dropping game record", "gameID", record.ID)
	}
}
