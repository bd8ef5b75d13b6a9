package service

import (
	"context"
	"errors"
	"strings"

	"github.com/zenwiki/zenwiki-backend/internal/common"
	"github.com/zenwiki/zenwiki-backend/internal/domain"
	"github.com/zenwiki/zenwiki-backend/internal/repository"
	"github.com/zenwiki/zenwiki-backend/pkg/cache"
	"gorm.io/gorm"
)

// MenuService is the navigation tree engine: it owns the ordering and
// shape invariants of the menu forest.
type MenuService interface {
	GetTree(ctx context.Context) ([]domain.MenuResponse, error)
	CreateMenu(ctx context.Context, req *domain.CreateMenuRequest) (*domain.MenuResponse, error)
	UpdateMenu(ctx context.Context, id int64, req *domain.UpdateMenuRequest) (*domain.MenuResponse, error)
	DeleteMenu(ctx context.Context, id int64) error
	MoveMenu(ctx context.Context, id int64, req *domain.MoveMenuRequest) (*domain.MenuResponse, error)
	ReorderMenus(ctx context.Context, req *domain.ReorderMenusRequest) error
}

type menuService struct {
	repo     repository.MenuRepository
	pageRepo repository.PageRepository
	cache    cache.Service
}

// NewMenuService creates a MenuService
func NewMenuService(repo repository.MenuRepository, pageRepo repository.PageRepository, cacheSvc cache.Service) MenuService {
	return &menuService{repo: repo, pageRepo: pageRepo, cache: cacheSvc}
}

// GetTree returns the visible navigation forest: active roots with all
// of their children expanded, ordered by order_index at every level.
func (s *menuService) GetTree(ctx context.Context) ([]domain.MenuResponse, error) {
	var cached []domain.MenuResponse
	if err := s.cache.Get(ctx, cache.KeyMenuTree, &cached); err == nil {
		return cached, nil
	}

	menus, err := s.repo.GetTree()
	if err != nil {
		return nil, err
	}

	responses := make([]domain.MenuResponse, len(menus))
	for i, menu := range menus {
		responses[i] = menu.ToResponse()
	}

	_ = s.cache.SetMenuTree(ctx, responses)
	return responses, nil
}

// CreateMenu validates references and appends the node to its sibling
// group at max(order_index)+1.
func (s *menuService) CreateMenu(ctx context.Context, req *domain.CreateMenuRequest) (*domain.MenuResponse, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, common.ErrInvalidInput
	}

	if req.PageID != nil {
		if _, err := s.pageRepo.FindByID(*req.PageID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, common.ErrPageNotFound
			}
			return nil, err
		}
	}

	if req.ParentID != nil {
		if _, err := s.repo.FindByID(*req.ParentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, common.ErrParentNotFound
			}
			return nil, err
		}
	}

	maxOrder, err := s.repo.MaxOrderIndex(req.ParentID)
	if err != nil {
		return nil, err
	}

	menu := &domain.Menu{
		Title:      req.Title,
		PageID:     req.PageID,
		ParentID:   req.ParentID,
		OrderIndex: maxOrder + 1,
		IsActive:   true,
	}
	if err := s.repo.Create(menu); err != nil {
		return nil, err
	}

	_ = s.cache.InvalidateMenuTree(ctx)
	return s.respond(menu.ID)
}

// UpdateMenu applies a partial update: any subset of title, page link,
// and active flag; omitted fields are unchanged.
func (s *menuService) UpdateMenu(ctx context.Context, id int64, req *domain.UpdateMenuRequest) (*domain.MenuResponse, error) {
	menu, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrMenuNotFound
		}
		return nil, err
	}

	if req.Title != nil {
		menu.Title = *req.Title
	}
	if req.PageID.Set {
		if req.PageID.Value != nil {
			if _, err := s.pageRepo.FindByID(*req.PageID.Value); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, common.ErrPageNotFound
				}
				return nil, err
			}
		}
		menu.PageID = req.PageID.Value
		menu.Page = nil
	}
	if req.IsActive != nil {
		menu.IsActive = *req.IsActive
	}

	if err := s.repo.Save(menu); err != nil {
		return nil, err
	}

	_ = s.cache.InvalidateMenuTree(ctx)
	return s.respond(menu.ID)
}

// DeleteMenu removes a childless node. Surviving siblings are not
// renumbered, so the group may keep a gap.
func (s *menuService) DeleteMenu(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.ErrMenuNotFound
		}
		return err
	}

	hasChildren, err := s.repo.HasChildren(id)
	if err != nil {
		return err
	}
	if hasChildren {
		return common.ErrHasChildren
	}

	if err := s.repo.Delete(id); err != nil {
		return err
	}

	_ = s.cache.InvalidateMenuTree(ctx)
	return nil
}

// MoveMenu relocates a node to a new parent and/or slot atomically
func (s *menuService) MoveMenu(ctx context.Context, id int64, req *domain.MoveMenuRequest) (*domain.MenuResponse, error) {
	moved, err := s.repo.Move(id, req.ParentID, req.OrderIndex)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrMenuNotFound
		}
		return nil, err
	}

	_ = s.cache.InvalidateMenuTree(ctx)
	return s.respond(moved.ID)
}

// ReorderMenus applies a client-submitted full ordering as one batch
func (s *menuService) ReorderMenus(ctx context.Context, req *domain.ReorderMenusRequest) error {
	if err := s.repo.ReorderBulk(req.Menus); err != nil {
		return err
	}

	_ = s.cache.InvalidateMenuTree(ctx)
	return nil
}

// respond re-reads the node so the response carries the linked page slug
func (s *menuService) respond(id int64) (*domain.MenuResponse, error) {
	menu, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	resp := menu.ToResponse()
	return &resp, nil
}
