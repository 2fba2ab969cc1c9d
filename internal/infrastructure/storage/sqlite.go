package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/google/uuid"
	"github.com/grocerybot/backend/internal/domain"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLiteStore keeps grocery lists in a local SQLite file
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the database at path and runs migrations
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	return nil
}

// Save writes the list and its items in one transaction
func (s *SQLiteStore) Save(ctx context.Context, list *domain.GroceryList) (string, error) {
	if list == nil {
		return "", domain.ErrInvalidRequest
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	id := uuid.NewString()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO grocery_lists (id, created_at, amount, invoice) VALUES (?, ?, ?, ?)`,
		id, list.Date.UTC(), list.Amount, list.Invoice)
	if err != nil {
		return "", fmt.Errorf("insert list: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO grocery_items (list_id, position, name, category, quantity, note, taken, file, pic)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare item insert: %w", err)
	}
	defer stmt.Close()

	for i, item := range list.Items {
		var quantity sql.NullInt64
		if item.Quantity != nil {
			quantity = sql.NullInt64{Int64: int64(*item.Quantity), Valid: true}
		}
		var file sql.NullString
		if item.File != nil {
			file = sql.NullString{String: *item.File, Valid: true}
		}

		if _, err := stmt.ExecContext(ctx, id, i, item.Name, item.Category, quantity, item.Note, item.Taken, file, item.Pic); err != nil {
			return "", fmt.Errorf("insert item %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	return id, nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
