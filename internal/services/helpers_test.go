package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/anonto42/nano-feed/backend/internal/models"
	"github.com/anonto42/nano-feed/backend/internal/repositories"
	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPassword = "Secret1!"

// testClock starts at a fixed instant and moves one second per reading
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB: %v", err)
	}
	// one connection keeps every session on the same in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := repositories.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func setupTestServices(t *testing.T) (*Services, *testClock) {
	t.Helper()
	clock := newTestClock()
	svc := New(setupTestDB(t), Options{
		Clock:       clock.Now,
		Hasher:      NewBcryptHasher(bcrypt.MinCost),
		MaxPageSize: 50,
	})
	return svc, clock
}

// countRows counts rows of model matching query directly in the database
func countRows(t *testing.T, svc *Services, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var count int64
	if err := svc.Store.db.Model(model).Where(query, args...).Count(&count).Error; err != nil {
		t.Fatalf("count %T: %v", model, err)
	}
	return count
}

func mustSignup(t *testing.T, svc *Services, name string) *models.User {
	t.Helper()
	email := fmt.Sprintf("%s@example.com", name)
	user, err := svc.Auth.Signup(context.Background(), email, name, testPassword)
	if err != nil {
		t.Fatalf("signup %s: %v", name, err)
	}
	return user
}

func mustTweet(t *testing.T, svc *Services, authorID uint, text string) *models.Tweet {
	t.Helper()
	tweet, err := svc.Content.CreateTweet(context.Background(), authorID, text)
	if err != nil {
		t.Fatalf("create tweet %q: %v", text, err)
	}
	return tweet
}

func mustFollow(t *testing.T, svc *Services, followerID, targetID uint) {
	t.Helper()
	if _, err := svc.Follows.Follow(context.Background(), followerID, targetID); err != nil {
		t.Fatalf("follow %d -> %d: %v", followerID, targetID, err)
	}
}

func expectKind(t *testing.T, err, kind error) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("expected %v, got %v", kind, err)
	}
}

func tweetIDs(tweets []models.Tweet) []uint {
	ids := make([]uint, len(tweets))
	for i := range tweets {
		ids[i] = tweets[i].ID
	}
	return ids
}

func equalIDs(a, b []uint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
