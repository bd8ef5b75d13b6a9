package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zenwiki/zenwiki-backend/internal/common"
	"github.com/zenwiki/zenwiki-backend/internal/domain"
	"github.com/zenwiki/zenwiki-backend/internal/repository"
	"github.com/zenwiki/zenwiki-backend/pkg/cache"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.Page{}, &domain.PageHistory{}, &domain.Menu{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func setupMenuService(t *testing.T) (MenuService, repository.MenuRepository, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	menuRepo := repository.NewMenuRepository(db)
	pageRepo := repository.NewPageRepository(db)
	svc := NewMenuService(menuRepo, pageRepo, cache.NewService(nil))
	return svc, menuRepo, db
}

func mustCreateMenu(t *testing.T, svc MenuService, title string, parentID *int64) *domain.MenuResponse {
	t.Helper()
	resp, err := svc.CreateMenu(context.Background(), &domain.CreateMenuRequest{
		Title:    title,
		ParentID: parentID,
	})
	require.NoError(t, err)
	return resp
}

func orderOf(t *testing.T, repo repository.MenuRepository, id int64) int {
	t.Helper()
	menu, err := repo.FindByID(id)
	require.NoError(t, err)
	return menu.OrderIndex
}

func TestCreateMenu_FirstSiblingGetsIndexOne(t *testing.T) {
	svc, _, _ := setupMenuService(t)

	// With no siblings the max is 0, so the first node lands at 1
	resp := mustCreateMenu(t, svc, "Docs", nil)
	assert.Equal(t, 1, resp.OrderIndex)
}

func TestCreateMenu_AppendsAfterMaxSibling(t *testing.T) {
	svc, _, _ := setupMenuService(t)

	first := mustCreateMenu(t, svc, "First", nil)
	second := mustCreateMenu(t, svc, "Second", nil)
	child := mustCreateMenu(t, svc, "Child", &first.ID)

	assert.Equal(t, 2, second.OrderIndex)
	// New sibling group under First starts over at 1
	assert.Equal(t, 1, child.OrderIndex)
}

func TestCreateMenu_BlankTitle(t *testing.T) {
	svc, _, _ := setupMenuService(t)

	_, err := svc.CreateMenu(context.Background(), &domain.CreateMenuRequest{Title: "   "})
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestCreateMenu_UnknownPage(t *testing.T) {
	svc, _, _ := setupMenuService(t)

	missing := int64(999)
	_, err := svc.CreateMenu(context.Background(), &domain.CreateMenuRequest{
		Title:  "Broken",
		PageID: &missing,
	})
	assert.ErrorIs(t, err, common.ErrPageNotFound)
}

func TestCreateMenu_UnknownParent(t *testing.T) {
	svc, _, _ := setupMenuService(t)

	missing := int64(999)
	_, err := svc.CreateMenu(context.Background(), &domain.CreateMenuRequest{
		Title:    "Orphan",
		ParentID: &missing,
	})
	assert.ErrorIs(t, err, common.ErrParentNotFound)
}

func TestUpdateMenu_PartialFields(t *testing.T) {
	svc, repo, _ := setupMenuService(t)
	ctx := context.Background()

	created := mustCreateMenu(t, svc, "Old Title", nil)

	newTitle := "New Title"
	inactive := false
	updated, err := svc.UpdateMenu(ctx, created.ID, &domain.UpdateMenuRequest{
		Title:    &newTitle,
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "New Title", updated.Title)
	assert.False(t, updated.IsActive)

	// Omitted fields stay put
	menu, err := repo.FindByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.OrderIndex, menu.OrderIndex)
	assert.Nil(t, menu.PageID)
}

func TestUpdateMenu_ClearPageLink(t *testing.T) {
	svc, repo, db := setupMenuService(t)
	ctx := context.Background()

	page := &domain.Page{Title: "Linked", Slug: "linked", AuthorID: 1, IsPublished: true}
	require.NoError(t, db.Create(page).Error)

	created, err := svc.CreateMenu(ctx, &domain.CreateMenuRequest{Title: "Node", PageID: &page.ID})
	require.NoError(t, err)
	assert.Equal(t, "linked", created.PageSlug)

	// page_id: null detaches the page without touching anything else
	_, err = svc.UpdateMenu(ctx, created.ID, &domain.UpdateMenuRequest{
		PageID: domain.OptionalID{Set: true, Value: nil},
	})
	require.NoError(t, err)

	menu, err := repo.FindByID(created.ID)
	require.NoError(t, err)
	assert.Nil(t, menu.PageID)
	assert.Equal(t, "Node", menu.Title)
}

func TestUpdateMenu_NotFound(t *testing.T) {
	svc, _, _ := setupMenuService(t)

	title := "x"
	_, err := svc.UpdateMenu(context.Background(), 12345, &domain.UpdateMenuRequest{Title: &title})
	assert.ErrorIs(t, err, common.ErrMenuNotFound)
}

func TestDeleteMenu_WithChildrenRejected(t *testing.T) {
	svc, repo, _ := setupMenuService(t)

	parent := mustCreateMenu(t, svc, "Parent", nil)
	child := mustCreateMenu(t, svc, "Child", &parent.ID)

	err := svc.DeleteMenu(context.Background(), parent.ID)
	assert.ErrorIs(t, err, common.ErrHasChildren)

	// Tree unchanged
	_, err = repo.FindByID(parent.ID)
	assert.NoError(t, err)
	_, err = repo.FindByID(child.ID)
	assert.NoError(t, err)
}

func TestDeleteMenu_LeavesOrderGap(t *testing.T) {
	svc, repo, _ := setupMenuService(t)
	ctx := context.Background()

	a := mustCreateMenu(t, svc, "A", nil) // 1
	b := mustCreateMenu(t, svc, "B", nil) // 2
	c := mustCreateMenu(t, svc, "C", nil) // 3

	require.NoError(t, svc.DeleteMenu(ctx, b.ID))

	// Surviving siblings are not renumbered
	assert.Equal(t, 1, orderOf(t, repo, a.ID))
	assert.Equal(t, 3, orderOf(t, repo, c.ID))
}

func TestDeleteMenu_NotFound(t *testing.T) {
	svc, _, _ := setupMenuService(t)
	assert.ErrorIs(t, svc.DeleteMenu(context.Background(), 999), common.ErrMenuNotFound)
}

func TestMoveMenu_IntoOwnDescendantRejected(t *testing.T) {
	svc, repo, _ := setupMenuService(t)
	ctx := context.Background()

	root := mustCreateMenu(t, svc, "Root", nil)
	child := mustCreateMenu(t, svc, "Child", &root.ID)
	grandchild := mustCreateMenu(t, svc, "Grandchild", &child.ID)

	_, err := svc.MoveMenu(ctx, root.ID, &domain.MoveMenuRequest{ParentID: &grandchild.ID})
	assert.ErrorIs(t, err, common.ErrCyclicMove)

	// Rejected move leaves the tree untouched
	menu, err := repo.FindByID(root.ID)
	require.NoError(t, err)
	assert.Nil(t, menu.ParentID)
	assert.Equal(t, root.OrderIndex, menu.OrderIndex)
}

func TestMoveMenu_SelfParentRejected(t *testing.T) {
	svc, _, _ := setupMenuService(t)

	node := mustCreateMenu(t, svc, "Node", nil)
	_, err := svc.MoveMenu(context.Background(), node.ID, &domain.MoveMenuRequest{ParentID: &node.ID})
	assert.ErrorIs(t, err, common.ErrCyclicMove)
}

func TestMoveMenu_UnknownParent(t *testing.T) {
	svc, _, _ := setupMenuService(t)

	node := mustCreateMenu(t, svc, "Node", nil)
	missing := int64(999)
	_, err := svc.MoveMenu(context.Background(), node.ID, &domain.MoveMenuRequest{ParentID: &missing})
	assert.ErrorIs(t, err, common.ErrParentNotFound)
}

func TestMoveMenu_NotFound(t *testing.T) {
	svc, _, _ := setupMenuService(t)
	_, err := svc.MoveMenu(context.Background(), 999, &domain.MoveMenuRequest{})
	assert.ErrorIs(t, err, common.ErrMenuNotFound)
}

// Moving a child in front of its former root: the child takes slot 0
// and the old occupant shifts right.
func TestMoveMenu_ChildToRootFront(t *testing.T) {
	svc, repo, db := setupMenuService(t)
	ctx := context.Background()

	// Seeded layout: root A at 0, child B under A
	a := &domain.Menu{Title: "A", OrderIndex: 0, IsActive: true}
	require.NoError(t, db.Create(a).Error)
	b := &domain.Menu{Title: "B", ParentID: &a.ID, OrderIndex: 1, IsActive: true}
	require.NoError(t, db.Create(b).Error)

	zero := 0
	moved, err := svc.MoveMenu(ctx, b.ID, &domain.MoveMenuRequest{OrderIndex: &zero})
	require.NoError(t, err)

	assert.Nil(t, moved.ParentID)
	assert.Equal(t, 0, moved.OrderIndex)
	assert.Equal(t, 1, orderOf(t, repo, a.ID))
}

func TestMoveMenu_OldGroupStaysContiguous(t *testing.T) {
	svc, repo, db := setupMenuService(t)
	ctx := context.Background()

	parent := mustCreateMenu(t, svc, "Parent", nil)
	other := mustCreateMenu(t, svc, "Other", nil)

	// Children at 0..3 under parent
	var children []*domain.Menu
	for i, title := range []string{"c0", "c1", "c2", "c3"} {
		child := &domain.Menu{Title: title, ParentID: &parent.ID, OrderIndex: i, IsActive: true}
		require.NoError(t, db.Create(child).Error)
		children = append(children, child)
	}

	_, err := svc.MoveMenu(ctx, children[1].ID, &domain.MoveMenuRequest{ParentID: &other.ID})
	require.NoError(t, err)

	// Old group closes the gap: 0, 1, 2
	assert.Equal(t, 0, orderOf(t, repo, children[0].ID))
	assert.Equal(t, 1, orderOf(t, repo, children[2].ID))
	assert.Equal(t, 2, orderOf(t, repo, children[3].ID))
}

func TestMoveMenu_AppendWithoutIndex(t *testing.T) {
	svc, repo, db := setupMenuService(t)
	ctx := context.Background()

	parent := mustCreateMenu(t, svc, "Parent", nil)
	sibling := &domain.Menu{Title: "Sibling", ParentID: &parent.ID, OrderIndex: 4, IsActive: true}
	require.NoError(t, db.Create(sibling).Error)
	loose := mustCreateMenu(t, svc, "Loose", nil)

	moved, err := svc.MoveMenu(ctx, loose.ID, &domain.MoveMenuRequest{ParentID: &parent.ID})
	require.NoError(t, err)

	assert.Equal(t, 5, moved.OrderIndex)
	assert.Equal(t, 4, orderOf(t, repo, sibling.ID))
}

func TestMoveMenu_NoDuplicateOrderInNewGroup(t *testing.T) {
	svc, _, db := setupMenuService(t)
	ctx := context.Background()

	parent := mustCreateMenu(t, svc, "Parent", nil)
	for i := 0; i < 3; i++ {
		child := &domain.Menu{Title: "child", ParentID: &parent.ID, OrderIndex: i, IsActive: true}
		require.NoError(t, db.Create(child).Error)
	}
	loose := mustCreateMenu(t, svc, "Loose", nil)

	one := 1
	_, err := svc.MoveMenu(ctx, loose.ID, &domain.MoveMenuRequest{ParentID: &parent.ID, OrderIndex: &one})
	require.NoError(t, err)

	var orders []int
	require.NoError(t, db.Model(&domain.Menu{}).
		Where("parent_id = ?", parent.ID).
		Order("order_index ASC").
		Pluck("order_index", &orders).Error)
	assert.Equal(t, []int{0, 1, 2, 3}, orders)
}

func TestReorderMenus_AppliesBatch(t *testing.T) {
	svc, repo, _ := setupMenuService(t)
	ctx := context.Background()

	a := mustCreateMenu(t, svc, "A", nil) // 1
	b := mustCreateMenu(t, svc, "B", nil) // 2

	zero, one := 0, 1
	err := svc.ReorderMenus(ctx, &domain.ReorderMenusRequest{Menus: []domain.ReorderMenuItem{
		{ID: &b.ID, OrderIndex: &zero},
		{ID: &a.ID, OrderIndex: &one},
	}})
	require.NoError(t, err)

	assert.Equal(t, 0, orderOf(t, repo, b.ID))
	assert.Equal(t, 1, orderOf(t, repo, a.ID))
}

func TestReorderMenus_SkipsIncompleteAndUnknown(t *testing.T) {
	svc, repo, _ := setupMenuService(t)
	ctx := context.Background()

	a := mustCreateMenu(t, svc, "A", nil)
	unknown := int64(999)
	five := 5

	err := svc.ReorderMenus(ctx, &domain.ReorderMenusRequest{Menus: []domain.ReorderMenuItem{
		{ID: &a.ID},                          // missing order_index: skipped
		{OrderIndex: &five},                  // missing id: skipped
		{ID: &unknown, OrderIndex: &five},    // unknown id: ignored
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, orderOf(t, repo, a.ID))
}

func TestReorderMenus_DuplicateOrderRejected(t *testing.T) {
	svc, repo, _ := setupMenuService(t)
	ctx := context.Background()

	_ = mustCreateMenu(t, svc, "A", nil) // 1
	b := mustCreateMenu(t, svc, "B", nil) // 2

	one := 1
	err := svc.ReorderMenus(ctx, &domain.ReorderMenusRequest{Menus: []domain.ReorderMenuItem{
		{ID: &b.ID, OrderIndex: &one}, // collides with A's existing 1
	}})
	assert.ErrorIs(t, err, common.ErrBadReorder)

	// Whole batch rejected, nothing applied
	assert.Equal(t, 2, orderOf(t, repo, b.ID))
}

func TestReorderMenus_CycleRejected(t *testing.T) {
	svc, repo, _ := setupMenuService(t)
	ctx := context.Background()

	parent := mustCreateMenu(t, svc, "Parent", nil)
	child := mustCreateMenu(t, svc, "Child", &parent.ID)

	one := 1
	err := svc.ReorderMenus(ctx, &domain.ReorderMenusRequest{Menus: []domain.ReorderMenuItem{
		{ID: &parent.ID, OrderIndex: &one, ParentID: &child.ID},
	}})
	assert.ErrorIs(t, err, common.ErrCyclicMove)

	menu, err := repo.FindByID(parent.ID)
	require.NoError(t, err)
	assert.Nil(t, menu.ParentID)
}

func TestGetTree_FiltersInactiveRootsOnly(t *testing.T) {
	svc, _, db := setupMenuService(t)
	ctx := context.Background()

	active := &domain.Menu{Title: "Active", OrderIndex: 0, IsActive: true}
	require.NoError(t, db.Create(active).Error)
	hidden := &domain.Menu{Title: "Hidden", OrderIndex: 1, IsActive: false}
	require.NoError(t, db.Create(hidden).Error)
	// Inactive child still shows up under an active root
	inactiveChild := &domain.Menu{Title: "Child", ParentID: &active.ID, OrderIndex: 0, IsActive: false}
	require.NoError(t, db.Create(inactiveChild).Error)

	tree, err := svc.GetTree(ctx)
	require.NoError(t, err)

	require.Len(t, tree, 1)
	assert.Equal(t, "Active", tree[0].Title)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "Child", tree[0].Children[0].Title)
}

func TestGetTree_OrderedByOrderIndex(t *testing.T) {
	svc, _, db := setupMenuService(t)
	ctx := context.Background()

	for i, title := range []string{"third", "first", "second"} {
		order := []int{2, 0, 1}[i]
		require.NoError(t, db.Create(&domain.Menu{Title: title, OrderIndex: order, IsActive: true}).Error)
	}

	tree, err := svc.GetTree(ctx)
	require.NoError(t, err)

	require.Len(t, tree, 3)
	assert.Equal(t, "first", tree[0].Title)
	assert.Equal(t, "second", tree[1].Title)
	assert.Equal(t, "third", tree[2].Title)
}
