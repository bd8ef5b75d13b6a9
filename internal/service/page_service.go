package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zenwiki/zenwiki-backend/internal/common"
	"github.com/zenwiki/zenwiki-backend/internal/domain"
	"github.com/zenwiki/zenwiki-backend/internal/repository"
	"github.com/zenwiki/zenwiki-backend/pkg/cache"
	"github.com/zenwiki/zenwiki-backend/pkg/markdown"
	"github.com/zenwiki/zenwiki-backend/pkg/slug"
	"gorm.io/gorm"
)

// maxSearchResults caps substring search output
const maxSearchResults = 20

// PageService is the CRUD and revision-history layer over wiki pages
type PageService interface {
	ListPublished() ([]domain.PageResponse, error)
	GetBySlug(ctx context.Context, pageSlug string, renderHTML bool) (*domain.PageResponse, error)
	CreatePage(ctx context.Context, req *domain.CreatePageRequest, authorID int64) (*domain.PageResponse, error)
	UpdatePage(ctx context.Context, id int64, req *domain.UpdatePageRequest, editorID int64) (*domain.PageResponse, error)
	DeletePage(ctx context.Context, id int64) error
	GetHistory(id int64) ([]domain.PageHistoryResponse, error)
	Search(ctx context.Context, query string) ([]domain.PageResponse, error)
}

type pageService struct {
	repo        repository.PageRepository
	historyRepo repository.PageHistoryRepository
	cache       cache.Service
}

// NewPageService creates a PageService
func NewPageService(repo repository.PageRepository, historyRepo repository.PageHistoryRepository, cacheSvc cache.Service) PageService {
	return &pageService{repo: repo, historyRepo: historyRepo, cache: cacheSvc}
}

// ListPublished returns published pages, most recently updated first
func (s *pageService) ListPublished() ([]domain.PageResponse, error) {
	pages, err := s.repo.FindPublished()
	if err != nil {
		return nil, err
	}
	return toPageResponses(pages), nil
}

// GetBySlug returns a published page. With renderHTML the Markdown body
// is additionally rendered into the html field.
func (s *pageService) GetBySlug(ctx context.Context, pageSlug string, renderHTML bool) (*domain.PageResponse, error) {
	var resp domain.PageResponse

	if err := s.cache.Get(ctx, cache.PrefixPage+pageSlug, &resp); err != nil {
		page, err := s.repo.FindPublishedBySlug(pageSlug)
		if err != nil {
			if isNotFound(err) {
				return nil, common.ErrPageNotFound
			}
			return nil, err
		}
		resp = page.ToResponse()
		_ = s.cache.SetPage(ctx, pageSlug, resp)
	}

	if renderHTML {
		html, err := markdown.ToHTML(resp.Content)
		if err != nil {
			return nil, err
		}
		resp.HTML = html
	}
	return &resp, nil
}

// CreatePage derives a unique slug, persists the page, and records the
// initial revision snapshot in the same transaction.
func (s *pageService) CreatePage(ctx context.Context, req *domain.CreatePageRequest, authorID int64) (*domain.PageResponse, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, common.ErrInvalidInput
	}

	pageSlug := req.Slug
	if pageSlug == "" {
		pageSlug = slug.Make(req.Title)
	}
	pageSlug, err := s.uniqueSlug(pageSlug)
	if err != nil {
		return nil, err
	}

	page := &domain.Page{
		Title:       req.Title,
		Slug:        pageSlug,
		Content:     req.Content,
		AuthorID:    authorID,
		IsPublished: true,
	}
	initial := &domain.PageHistory{
		Content:  req.Content,
		AuthorID: authorID,
	}
	if err := s.repo.Create(page, initial); err != nil {
		return nil, err
	}

	_ = s.cache.InvalidateSearches(ctx)
	return s.respond(page.ID)
}

// UpdatePage applies a partial update. A content change snapshots the
// pre-change content first, so history always holds the undo trail.
func (s *pageService) UpdatePage(ctx context.Context, id int64, req *domain.UpdatePageRequest, editorID int64) (*domain.PageResponse, error) {
	page, err := s.repo.FindByID(id)
	if err != nil {
		if isNotFound(err) {
			return nil, common.ErrPageNotFound
		}
		return nil, err
	}

	oldSlug := page.Slug
	oldContent := page.Content

	if req.Title != nil {
		page.Title = *req.Title
	}
	if req.Slug != nil && *req.Slug != page.Slug {
		taken, err := s.repo.ExistsBySlugExcluding(*req.Slug, page.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, common.ErrSlugTaken
		}
		page.Slug = *req.Slug
	}
	if req.IsPublished != nil {
		page.IsPublished = *req.IsPublished
	}

	var snapshot *domain.PageHistory
	if req.Content != nil && *req.Content != oldContent {
		page.Content = *req.Content
		snapshot = &domain.PageHistory{
			Content:  oldContent, // pre-change content is the snapshot
			AuthorID: editorID,
		}
	}

	if err := s.repo.Update(page, snapshot); err != nil {
		return nil, err
	}

	_ = s.cache.InvalidatePage(ctx, oldSlug)
	_ = s.cache.InvalidatePage(ctx, page.Slug)
	_ = s.cache.InvalidateSearches(ctx)
	_ = s.cache.InvalidateMenuTree(ctx) // menu entries embed the page slug
	return s.respond(page.ID)
}

// DeletePage hard deletes a page, its history, and detaches menu links
func (s *pageService) DeletePage(ctx context.Context, id int64) error {
	page, err := s.repo.FindByID(id)
	if err != nil {
		if isNotFound(err) {
			return common.ErrPageNotFound
		}
		return err
	}

	if err := s.repo.Delete(id); err != nil {
		return err
	}

	_ = s.cache.InvalidatePage(ctx, page.Slug)
	_ = s.cache.InvalidateSearches(ctx)
	_ = s.cache.InvalidateMenuTree(ctx)
	return nil
}

// GetHistory returns a page's revision snapshots, newest first
func (s *pageService) GetHistory(id int64) ([]domain.PageHistoryResponse, error) {
	if _, err := s.repo.FindByID(id); err != nil {
		if isNotFound(err) {
			return nil, common.ErrPageNotFound
		}
		return nil, err
	}

	histories, err := s.historyRepo.FindByPageID(id)
	if err != nil {
		return nil, err
	}

	responses := make([]domain.PageHistoryResponse, len(histories))
	for i, h := range histories {
		responses[i] = h.ToResponse()
	}
	return responses, nil
}

// Search matches the query as a substring of title or content across
// published pages. An empty query returns an empty result set.
func (s *pageService) Search(ctx context.Context, query string) ([]domain.PageResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.PageResponse{}, nil
	}

	cacheKey := cache.PrefixSearch + query
	var cached []domain.PageResponse
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	}

	pages, err := s.repo.Search(query, maxSearchResults)
	if err != nil {
		return nil, err
	}

	responses := toPageResponses(pages)
	_ = s.cache.Set(ctx, cacheKey, responses, cache.TTLSearch)
	return responses, nil
}

// uniqueSlug appends -1, -2, ... until the slug is free
func (s *pageService) uniqueSlug(base string) (string, error) {
	candidate := base
	for counter := 1; ; counter++ {
		taken, err := s.repo.ExistsBySlug(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, counter)
	}
}

func (s *pageService) respond(id int64) (*domain.PageResponse, error) {
	page, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	resp := page.ToResponse()
	return &resp, nil
}

func toPageResponses(pages []*domain.Page) []domain.PageResponse {
	responses := make([]domain.PageResponse, len(pages))
	for i, page := range pages {
		responses[i] = page.ToResponse()
	}
	return responses
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
