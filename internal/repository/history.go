package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gridrush/tictactoe-server/internal/entity"
)

// MaxRecentGames caps how many finished games a recent-history listing returns.
const MaxRecentGames = 20

type HistoryRepository interface {
	Insert(ctx context.Context, record *entity.GameRecord) error
	ListRecent(ctx context.Context, limit int) ([]entity.GameRecord, error)
}

type historyRepository struct {
	conn *sql.DB
}

func NewHistoryRepository(conn *sql.DB) HistoryRepository {
	return &historyRepository{
		conn: conn,
	}
}

func (that *historyRepository) Insert(ctx context.Context, record *entity.GameRecord) error {
	query := `INSERT INTO games (id, outcome, created_at, ended_at, moves, board) VALUES (?, ?, ?, ?, ?, ?)`

	_, err := that.conn.ExecContext(ctx, query,
		record.ID, record.Outcome, record.CreatedAt, record.EndedAt, record.Moves, record.FinalBoard)
	if err != nil {
		return fmt.Errorf("can't save game record: %w", err)
	}

	return nil
}

func (that *historyRepository) ListRecent(ctx context.Context, limit int) ([]entity.GameRecord, error) {
	if limit <= 0 || limit > MaxRecentGames {
		limit = MaxRecentGames
	}

	query := `SELECT id, outcome, created_at, ended_at, moves, board FROM games ORDER BY ended_at DESC LIMIT ?`

	rows, err := that.conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("can't list game records: %w", err)
	}
	defer rows.Close()

	records := make([]entity.GameRecord, 0, limit)

	for rows.Next() {
		var record entity.GameRecord
		if err = rows.Scan(&record.ID, &record.Outcome, &record.CreatedAt, &record.EndedAt, &record.Moves, &record.FinalBoard); err != nil {
			return nil, fmt.Errorf("can't scan game record: %w", err)
		}

		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't read game records: %w", err)
	}

	return records, nil
}
