package repository

import (
	"github.com/zenwiki/zenwiki-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PageRepository persists wiki pages and their revision snapshots
type PageRepository interface {
	FindPublished() ([]*domain.Page, error)
	FindPublishedBySlug(slug string) (*domain.Page, error)
	FindByID(id int64) (*domain.Page, error)
	ExistsBySlug(slug string) (bool, error)
	ExistsBySlugExcluding(slug string, excludeID int64) (bool, error)
	Search(query string, limit int) ([]*domain.Page, error)

	// Create persists the page together with its initial revision snapshot
	Create(page *domain.Page, initial *domain.PageHistory) error
	// Update saves the page; when snapshot is non-nil the pre-change
	// content is recorded in the same transaction.
	Update(page *domain.Page, snapshot *domain.PageHistory) error
	// Delete removes the page, cascades to its history rows, and
	// detaches any menu entries pointing at it (menu rows survive with
	// page_id set to NULL). All in one transaction.
	Delete(id int64) error
}

type pageRepository struct {
	db *gorm.DB
}

// NewPageRepository creates a PageRepository
func NewPageRepository(db *gorm.DB) PageRepository {
	return &pageRepository{db: db}
}

// FindPublished returns published pages, most recently updated first
func (r *pageRepository) FindPublished() ([]*domain.Page, error) {
	var pages []*domain.Page
	err := r.db.
		Preload("Author").
		Where("is_published = ?", true).
		Order("updated_at DESC").
		Find(&pages).Error
	if err != nil {
		return nil, err
	}
	return pages, nil
}

// FindPublishedBySlug returns a published page by slug
func (r *pageRepository) FindPublishedBySlug(slug string) (*domain.Page, error) {
	var page domain.Page
	err := r.db.
		Preload("Author").
		Where("slug = ? AND is_published = ?", slug, true).
		First(&page).Error
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// FindByID returns a page regardless of published state
func (r *pageRepository) FindByID(id int64) (*domain.Page, error) {
	var page domain.Page
	if err := r.db.Preload("Author").First(&page, id).Error; err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *pageRepository) ExistsBySlug(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Page{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (r *pageRepository) ExistsBySlugExcluding(slug string, excludeID int64) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Page{}).
		Where("slug = ? AND id <> ?", slug, excludeID).
		Count(&count).Error
	return count > 0, err
}

// Search matches the query as a substring of title or content over
// published pages, most recently updated first.
func (r *pageRepository) Search(query string, limit int) ([]*domain.Page, error) {
	var pages []*domain.Page
	pattern := "%" + query + "%"
	err := r.db.
		Preload("Author").
		Where("is_published = ?", true).
		Where("title LIKE ? OR content LIKE ?", pattern, pattern).
		Order("updated_at DESC").
		Limit(limit).
		Find(&pages).Error
	if err != nil {
		return nil, err
	}
	return pages, nil
}

func (r *pageRepository) Create(page *domain.Page, initial *domain.PageHistory) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(page).Error; err != nil {
			return err
		}
		initial.PageID = page.ID
		return tx.Create(initial).Error
	})
}

func (r *pageRepository) Update(page *domain.Page, snapshot *domain.PageHistory) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if snapshot != nil {
			snapshot.PageID = page.ID
			if err := tx.Create(snapshot).Error; err != nil {
				return err
			}
		}
		return tx.Omit(clause.Associations).Save(page).Error
	})
}

func (r *pageRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("page_id = ?", id).Delete(&domain.PageHistory{}).Error; err != nil {
			return err
		}
		// Menu nodes keep their place in the tree, they just lose the link
		if err := tx.Model(&domain.Menu{}).Where("page_id = ?", id).
			Update("page_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Page{}, id).Error
	})
}
