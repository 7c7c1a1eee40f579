package services

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/anonto42/nano-feed/backend/internal/repositories"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	return db, mock
}

func TestStorageFailureRollsBack(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := New(db, Options{})

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "notifications"`).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := svc.Notifications.MarkAllRead(context.Background(), 1)
	expectKind(t, err, ErrStorage)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestWithinTxKeepsTypedErrors(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := store.WithinTx(context.Background(), "test", func(*repositories.Repositories) error {
		return notFoundError("test", "missing")
	})
	expectKind(t, err, ErrNotFound)
	if errors.Is(err, ErrStorage) {
		t.Fatalf("typed error must not become a storage error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestReadFailureIsStorageError(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := New(db, Options{})

	mock.ExpectQuery(`SELECT count\(\*\) FROM "notifications"`).WillReturnError(errors.New("timeout"))

	_, err := svc.Notifications.UnreadCount(context.Background(), 3)
	expectKind(t, err, ErrStorage)
	if Message(err) == "" {
		t.Fatalf("expected a message")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}
