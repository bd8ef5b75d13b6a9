package repository

import (
	"errors"
	"strconv"

	"github.com/zenwiki/zenwiki-backend/internal/common"
	"github.com/zenwiki/zenwiki-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MenuRepository persists the navigation forest and carries the
// transactional tree operations. Structural validation that must see a
// consistent snapshot (cycle checks, sibling renumbering) runs inside
// these transactions; request-level validation lives in the service.
type MenuRepository interface {
	GetTree() ([]*domain.Menu, error)
	FindByID(id int64) (*domain.Menu, error)
	HasChildren(id int64) (bool, error)
	MaxOrderIndex(parentID *int64) (int, error)
	Create(menu *domain.Menu) error
	Save(menu *domain.Menu) error
	Delete(id int64) error

	// Move relocates one node: closes the gap in the old sibling group,
	// makes room in (or appends to) the new one, and re-parents the
	// node, atomically. Fails with ErrParentNotFound or ErrCyclicMove.
	Move(id int64, newParentID *int64, newOrderIndex *int) (*domain.Menu, error)

	// ReorderBulk applies a full ordering submitted by the client.
	// Entries missing id or order_index are skipped and unknown ids are
	// ignored, but the whole batch is rejected when the resulting
	// forest would contain a cycle or a touched sibling group would
	// hold duplicate order_index values.
	ReorderBulk(items []domain.ReorderMenuItem) error
}

type menuRepository struct {
	db *gorm.DB
}

// NewMenuRepository creates a MenuRepository
func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepository{db: db}
}

// GetTree returns active root nodes with their full subtrees. Only the
// root level filters on is_active; nested children are included
// regardless of their active flag. Every level is ordered by
// order_index.
func (r *menuRepository) GetTree() ([]*domain.Menu, error) {
	var menus []*domain.Menu
	err := r.db.
		Preload("Page").
		Order("order_index ASC").
		Find(&menus).Error
	if err != nil {
		return nil, err
	}
	return buildHierarchy(menus), nil
}

// buildHierarchy assembles the flat row set into a forest using an
// id-indexed map, so nodes never hold back-references to their parents.
func buildHierarchy(menus []*domain.Menu) []*domain.Menu {
	menuMap := make(map[int64]*domain.Menu, len(menus))
	for _, menu := range menus {
		menu.Children = make([]*domain.Menu, 0)
		menuMap[menu.ID] = menu
	}

	roots := make([]*domain.Menu, 0)
	for _, menu := range menus {
		if menu.ParentID == nil {
			if menu.IsActive {
				roots = append(roots, menu)
			}
		} else if parent, exists := menuMap[*menu.ParentID]; exists {
			parent.Children = append(parent.Children, menu)
		}
	}

	return roots
}

func (r *menuRepository) FindByID(id int64) (*domain.Menu, error) {
	var menu domain.Menu
	if err := r.db.Preload("Page").First(&menu, id).Error; err != nil {
		return nil, err
	}
	return &menu, nil
}

func (r *menuRepository) HasChildren(id int64) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Menu{}).Where("parent_id = ?", id).Count(&count).Error
	return count > 0, err
}

// MaxOrderIndex returns the largest order_index in a sibling group,
// or 0 when the group is empty.
func (r *menuRepository) MaxOrderIndex(parentID *int64) (int, error) {
	return maxOrderIndexTx(r.db, parentID)
}

func maxOrderIndexTx(tx *gorm.DB, parentID *int64) (int, error) {
	var maxOrder int
	query := tx.Model(&domain.Menu{}).Select("COALESCE(MAX(order_index), 0)")
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}
	if err := query.Scan(&maxOrder).Error; err != nil {
		return 0, err
	}
	return maxOrder, nil
}

func (r *menuRepository) Create(menu *domain.Menu) error {
	return r.db.Omit(clause.Associations).Create(menu).Error
}

func (r *menuRepository) Save(menu *domain.Menu) error {
	return r.db.Omit(clause.Associations).Save(menu).Error
}

// Delete removes a node without renumbering the surviving siblings, so
// a gap in order_index may remain.
func (r *menuRepository) Delete(id int64) error {
	return r.db.Delete(&domain.Menu{}, id).Error
}

// siblingsOf scopes a query to one sibling group
func siblingsOf(tx *gorm.DB, parentID *int64) *gorm.DB {
	q := tx.Model(&domain.Menu{})
	if parentID == nil {
		return q.Where("parent_id IS NULL")
	}
	return q.Where("parent_id = ?", *parentID)
}

func (r *menuRepository) Move(id int64, newParentID *int64, newOrderIndex *int) (*domain.Menu, error) {
	var moved *domain.Menu

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var menu domain.Menu
		if err := tx.First(&menu, id).Error; err != nil {
			return err
		}

		if newParentID != nil {
			var parent domain.Menu
			if err := tx.First(&parent, *newParentID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return common.ErrParentNotFound
				}
				return err
			}

			// Walk parent pointers upward from the new parent; hitting
			// the moving node means we would create a cycle.
			descendant, err := isDescendantTx(tx, *newParentID, id)
			if err != nil {
				return err
			}
			if descendant {
				return common.ErrCyclicMove
			}
		}

		// Close the gap in the old sibling group
		err := siblingsOf(tx, menu.ParentID).
			Where("order_index > ?", menu.OrderIndex).
			UpdateColumn("order_index", gorm.Expr("order_index - 1")).Error
		if err != nil {
			return err
		}

		var target int
		if newOrderIndex != nil {
			// Make room at the requested slot
			err = siblingsOf(tx, newParentID).
				Where("order_index >= ?", *newOrderIndex).
				UpdateColumn("order_index", gorm.Expr("order_index + 1")).Error
			if err != nil {
				return err
			}
			target = *newOrderIndex
		} else {
			// Append after the current maximum
			maxOrder, err := maxOrderIndexTx(tx, newParentID)
			if err != nil {
				return err
			}
			target = maxOrder + 1
		}

		menu.ParentID = newParentID
		menu.OrderIndex = target
		if err := tx.Omit(clause.Associations).Save(&menu).Error; err != nil {
			return err
		}

		moved = &menu
		return nil
	})
	if err != nil {
		return nil, err
	}
	return moved, nil
}

// isDescendantTx reports whether candidateID equals nodeID or sits in
// nodeID's subtree, by walking parent pointers up to the root.
func isDescendantTx(tx *gorm.DB, candidateID, nodeID int64) (bool, error) {
	current := &candidateID
	for current != nil {
		if *current == nodeID {
			return true, nil
		}
		var menu domain.Menu
		if err := tx.Select("id", "parent_id").First(&menu, *current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}
			return false, err
		}
		current = menu.ParentID
	}
	return false, nil
}

func (r *menuRepository) ReorderBulk(items []domain.ReorderMenuItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var menus []*domain.Menu
		if err := tx.Find(&menus).Error; err != nil {
			return err
		}

		byID := make(map[int64]*domain.Menu, len(menus))
		for _, m := range menus {
			byID[m.ID] = m
		}

		// Stage the batch against the in-memory snapshot
		applied := make(map[int64]bool)
		for _, item := range items {
			if item.ID == nil || item.OrderIndex == nil {
				continue
			}
			menu, ok := byID[*item.ID]
			if !ok {
				continue
			}
			menu.ParentID = item.ParentID
			menu.OrderIndex = *item.OrderIndex
			applied[menu.ID] = true
		}
		if len(applied) == 0 {
			return nil
		}

		// The resulting parent relation must stay a forest
		for _, start := range menus {
			seen := map[int64]bool{start.ID: true}
			current := start
			for current.ParentID != nil {
				next, ok := byID[*current.ParentID]
				if !ok {
					break
				}
				if seen[next.ID] {
					return common.ErrCyclicMove
				}
				seen[next.ID] = true
				current = next
			}
		}

		// Every sibling group the batch touched must be duplicate-free
		touched := make(map[string]bool)
		for _, m := range menus {
			if applied[m.ID] {
				touched[groupKey(m.ParentID)] = true
			}
		}
		seenOrder := make(map[string]map[int]bool)
		for _, m := range menus {
			key := groupKey(m.ParentID)
			if !touched[key] {
				continue
			}
			if seenOrder[key] == nil {
				seenOrder[key] = make(map[int]bool)
			}
			if seenOrder[key][m.OrderIndex] {
				return common.ErrBadReorder
			}
			seenOrder[key][m.OrderIndex] = true
		}

		for _, m := range menus {
			if !applied[m.ID] {
				continue
			}
			err := tx.Model(&domain.Menu{}).Where("id = ?", m.ID).
				Updates(map[string]interface{}{
					"parent_id":   m.ParentID,
					"order_index": m.OrderIndex,
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// groupKey identifies a sibling group (the root group when parentID is nil)
func groupKey(parentID *int64) string {
	if parentID == nil {
		return "root"
	}
	return strconv.FormatInt(*parentID, 10)
}
