package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// SQLStore keeps a collection as JSONB documents in a Postgres table, one
// row per record with an insertion position. Save replaces the whole table
// contents inside a single transaction, preserving the store contract's
// all-or-nothing write guarantee; Load returns records in insertion order.
//
// Table names come from the migrations in this repo, never from callers.
type SQLStore[T any] struct {
	db     *sql.DB
	table  string
	logger *zap.Logger
	mu     sync.Mutex
}

// NewSQLStore creates a Postgres-backed store over the named document table.
func NewSQLStore[T any](db *sql.DB, table string, logger *zap.Logger) *SQLStore[T] {
	return &SQLStore[T]{db: db, table: table, logger: logger}
}

func (s *SQLStore[T]) Load(ctx context.Context) ([]T, error) {
	return s.load(ctx, s.db)
}

// querier covers both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *SQLStore[T]) load(ctx context.Context, q querier) ([]T, error) {
	rows, err := q.QueryContext(ctx,
		fmt.Sprintf(`SELECT doc FROM %s ORDER BY pos`, s.table))
	if err != nil {
		s.logger.Warn("Collection unreadable, treating as empty",
			zap.String("table", s.table),
			zap.Error(err),
		)
		return []T{}, nil
	}
	defer rows.Close()

	records := []T{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			s.logger.Warn("Collection row unreadable, treating as empty",
				zap.String("table", s.table),
				zap.Error(err),
			)
			return []T{}, nil
		}
		var record T
		if err := json.Unmarshal(doc, &record); err != nil {
			s.logger.Warn("Collection document malformed, treating as empty",
				zap.String("table", s.table),
				zap.Error(err),
			)
			return []T{}, nil
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		s.logger.Warn("Collection scan failed, treating as empty",
			zap.String("table", s.table),
			zap.Error(err),
		)
		return []T{}, nil
	}
	return records, nil
}

func (s *SQLStore[T]) Save(ctx context.Context, records []T) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin tx: %v", ErrWriteFailed, err)
	}
	if err := s.replace(ctx, tx, records); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit %s: %v", ErrWriteFailed, s.table, err)
	}
	return nil
}

func (s *SQLStore[T]) replace(ctx context.Context, tx *sql.Tx, records []T) error {
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, s.table)); err != nil {
		return fmt.Errorf("%w: clear %s: %v", ErrWriteFailed, s.table, err)
	}
	for pos, record := range records {
		doc, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("%w: marshal %s: %v", ErrWriteFailed, s.table, err)
		}
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf(`INSERT INTO %s (pos, doc) VALUES ($1, $2)`, s.table),
			pos, doc,
		); err != nil {
			return fmt.Errorf("%w: insert %s: %v", ErrWriteFailed, s.table, err)
		}
	}
	return nil
}

// Update runs load-mutate-replace in one transaction, serialized per store.
func (s *SQLStore[T]) Update(ctx context.Context, mutate func(records []T) ([]T, error)) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: begin tx: %v", ErrWriteFailed, err)
	}

	records, err := s.load(ctx, tx)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	next, err := mutate(records)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := s.replace(ctx, tx, next); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit %s: %v", ErrWriteFailed, s.table, err)
	}
	return next, nil
}
