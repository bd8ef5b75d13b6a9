package repository

import (
	"github.com/zenwiki/zenwiki-backend/internal/domain"
	"gorm.io/gorm"
)

// UserRepository persists wiki accounts
type UserRepository interface {
	FindByID(id int64) (*domain.User, error)
	FindByDiscordID(discordID string) (*domain.User, error)
	Create(user *domain.User) error
	Update(user *domain.User) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(id int64) (*domain.User, error) {
	var user domain.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByDiscordID(discordID string) (*domain.User, error) {
	var user domain.User
	if err := r.db.Where("discord_id = ?", discordID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Create(user *domain.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) Update(user *domain.User) error {
	return r.db.Save(user).Error
}
