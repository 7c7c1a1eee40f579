package services

import (
	"context"

	"github.com/anonto42/nano-feed/backend/internal/repositories"
	"gorm.io/gorm"
)

// Store hands out repositories bound to a request scope
type Store struct {
	db *gorm.DB
}

// NewStore creates a Store over db
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Read returns repositories bound to ctx for read-only work
func (s *Store) Read(ctx context.Context) *repositories.Repositories {
	return repositories.New(s.db.WithContext(ctx))
}

// WithinTx runs fn with repositories bound to a single transaction. The
// transaction commits when fn returns nil and rolls back on error or panic.
func (s *Store) WithinTx(ctx context.Context, op string, fn func(repos *repositories.Repositories) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(repositories.New(tx))
	})
	return storageError(op, err)
}
