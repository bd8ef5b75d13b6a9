package repository

import (
	"github.com/zenwiki/zenwiki-backend/internal/domain"
	"gorm.io/gorm"
)

// PageHistoryRepository reads revision snapshots. Snapshots are written
// by PageRepository inside the same transaction as the page mutation.
type PageHistoryRepository interface {
	FindByPageID(pageID int64) ([]*domain.PageHistory, error)
}

type pageHistoryRepository struct {
	db *gorm.DB
}

// NewPageHistoryRepository creates a PageHistoryRepository
func NewPageHistoryRepository(db *gorm.DB) PageHistoryRepository {
	return &pageHistoryRepository{db: db}
}

// FindByPageID returns snapshots for a page, newest first
func (r *pageHistoryRepository) FindByPageID(pageID int64) ([]*domain.PageHistory, error) {
	var histories []*domain.PageHistory
	err := r.db.
		Preload("Author").
		Where("page_id = ?", pageID).
		Order("created_at DESC, id DESC").
		Find(&histories).Error
	if err != nil {
		return nil, err
	}
	return histories, nil
}
