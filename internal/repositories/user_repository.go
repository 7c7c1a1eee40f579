package repositories

import (
	"strings"

	"github.com/anonto42/nano-feed/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUsersByIDs(ids []uint) ([]models.User, error)
	CountByEmail(email string) (int64, error)
	UpdatePassword(id uint, hash string) (int64, error)
	UpdateProfile(id uint, name, bio string) (int64, error)
	SearchByNamePrefix(query string, limit int) ([]models.User, error)
	SearchByNameSubstring(query string, limit int) ([]models.User, error)
}

type gormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

// GetUserByID returns gorm.ErrRecordNotFound when no user has the id
func (r *gormUserRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormUserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormUserRepository) GetUsersByIDs(ids []uint) ([]models.User, error) {
	var users []models.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.db.Where("id IN ?", ids).Order("name ASC").Order("id ASC").Find(&users).Error
	return users, err
}

func (r *gormUserRepository) CountByEmail(email string) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count, err
}

func (r *gormUserRepository) UpdatePassword(id uint, hash string) (int64, error) {
	res := r.db.Model(&models.User{}).Where("id = ?", id).Update("password", hash)
	return res.RowsAffected, res.Error
}

func (r *gormUserRepository) UpdateProfile(id uint, name, bio string) (int64, error) {
	res := r.db.Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name": name,
		"bio":  bio,
	})
	return res.RowsAffected, res.Error
}

// SearchByNamePrefix matches names starting with query, case-insensitively
func (r *gormUserRepository) SearchByNamePrefix(query string, limit int) ([]models.User, error) {
	return r.searchByName(escapeLike(strings.ToLower(query))+"%", limit)
}

// SearchByNameSubstring matches names containing query, case-insensitively
func (r *gormUserRepository) SearchByNameSubstring(query string, limit int) ([]models.User, error) {
	return r.searchByName("%"+escapeLike(strings.ToLower(query))+"%", limit)
}

func (r *gormUserRepository) searchByName(pattern string, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern).
		Order("name ASC").Order("id ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}
