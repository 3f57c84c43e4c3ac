package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"so4tdelete/internal/deletion/model"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const createHistoryTable = `
CREATE TABLE IF NOT EXISTS deletion_history (
	id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	base_url TEXT NOT NULL,
	batch_index INTEGER NOT NULL,
	account_ids TEXT NOT NULL,
	outcome TEXT NOT NULL,
	status_code INTEGER NOT NULL,
	failed_account_ids TEXT NOT NULL,
	error_messages TEXT NOT NULL,
	elapsed_ms INTEGER NOT NULL,
	created_at INTEGER NOT NULL
)`

// SQLiteHistoryRepository implements HistoryRepository on a local SQLite file
type SQLiteHistoryRepository struct {
	db *sql.DB
}

// OpenSQLiteHistoryRepository opens (and creates) the history database at path.
func OpenSQLiteHistoryRepository(path string) (*SQLiteHistoryRepository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("history db path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(createHistoryTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create history table: %w", err)
	}
	return &SQLiteHistoryRepository{db: db}, nil
}

func (r *SQLiteHistoryRepository) EnsureHistoryIndexes(ctx context.Context) error {
	stmts := []string{
		`CREATE INDEX IF NOT EXISTS idx_run_batch ON deletion_history (run_id, batch_index)`,
		`CREATE INDEX IF NOT EXISTS idx_site_created_at ON deletion_history (base_url, created_at DESC)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

func (r *SQLiteHistoryRepository) CreateHistory(ctx context.Context, history *model.DeletionHistory) error {
	if history.ID == "" {
		history.ID = uuid.NewString()
	}
	if history.CreatedAt.IsZero() {
		history.CreatedAt = time.Now()
	}

	accountIDs, err := encodeList(history.AccountIDs)
	if err != nil {
		return err
	}
	failed, err := encodeList(history.FailedAccountIDs)
	if err != nil {
		return err
	}
	messages, err := encodeList(history.ErrorMessages)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO deletion_history (
	id, run_id, base_url, batch_index, account_ids, outcome, status_code,
	failed_account_ids, error_messages, elapsed_ms, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		history.ID,
		history.RunID,
		history.BaseURL,
		history.BatchIndex,
		accountIDs,
		history.Outcome,
		history.StatusCode,
		failed,
		messages,
		history.ElapsedMillis,
		history.CreatedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

func (r *SQLiteHistoryRepository) FindHistory(ctx context.Context, filter model.HistoryFilter) ([]*model.DeletionHistory, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	query := `SELECT id, run_id, base_url, batch_index, account_ids, outcome, status_code,
	failed_account_ids, error_messages, elapsed_ms, created_at FROM deletion_history`
	var where []string
	var args []any
	if filter.RunID != "" {
		where = append(where, "run_id = ?")
		args = append(args, filter.RunID)
	}
	if filter.BaseURL != "" {
		where = append(where, "base_url = ?")
		args = append(args, filter.BaseURL)
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, batch_index DESC LIMIT ?"
	args = append(args, filter.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var results []*model.DeletionHistory
	for rows.Next() {
		var (
			h                            model.DeletionHistory
			accountIDs, failed, messages string
			createdAt                    int64
		)
		if err := rows.Scan(&h.ID, &h.RunID, &h.BaseURL, &h.BatchIndex, &accountIDs, &h.Outcome,
			&h.StatusCode, &failed, &messages, &h.ElapsedMillis, &createdAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		if err := decodeList(accountIDs, &h.AccountIDs); err != nil {
			return nil, err
		}
		if err := decodeList(failed, &h.FailedAccountIDs); err != nil {
			return nil, err
		}
		if err := decodeList(messages, &h.ErrorMessages); err != nil {
			return nil, err
		}
		h.CreatedAt = time.UnixMilli(createdAt).UTC()
		results = append(results, &h)
	}
	return results, rows.Err()
}

func (r *SQLiteHistoryRepository) Close(context.Context) error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func encodeList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	b, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("encode list: %w", err)
	}
	return string(b), nil
}

func decodeList(raw string, out *[]string) error {
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("decode list: %w", err)
	}
	if len(*out) == 0 {
		*out = nil
	}
	return nil
}
