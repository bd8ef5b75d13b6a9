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
	"gorm.io/gorm"
)

func setupPageService(t *testing.T) (PageService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	author := &domain.User{DiscordID: "100", Username: "writer", Role: domain.RoleEditor}
	require.NoError(t, db.Create(author).Error)
	svc := NewPageService(
		repository.NewPageRepository(db),
		repository.NewPageHistoryRepository(db),
		cache.NewService(nil),
	)
	return svc, db
}

func mustCreatePage(t *testing.T, svc PageService, title, content string) *domain.PageResponse {
	t.Helper()
	resp, err := svc.CreatePage(context.Background(), &domain.CreatePageRequest{
		Title:   title,
		Content: content,
	}, 1)
	require.NoError(t, err)
	return resp
}

func TestCreatePage_SlugFromTitle(t *testing.T) {
	svc, _ := setupPageService(t)

	resp := mustCreatePage(t, svc, "Getting Started!", "hello")
	assert.Equal(t, "getting-started", resp.Slug)
}

func TestCreatePage_CollisionSuffix(t *testing.T) {
	svc, _ := setupPageService(t)

	first := mustCreatePage(t, svc, "Home", "a")
	second := mustCreatePage(t, svc, "Home", "b")
	third := mustCreatePage(t, svc, "Home", "c")

	assert.Equal(t, "home", first.Slug)
	assert.Equal(t, "home-1", second.Slug)
	assert.Equal(t, "home-2", third.Slug)
}

func TestCreatePage_CustomSlugKept(t *testing.T) {
	svc, _ := setupPageService(t)

	resp, err := svc.CreatePage(context.Background(), &domain.CreatePageRequest{
		Title: "Anything",
		Slug:  "custom-path",
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, "custom-path", resp.Slug)
}

func TestCreatePage_WritesInitialHistory(t *testing.T) {
	svc, _ := setupPageService(t)

	page := mustCreatePage(t, svc, "Home", "first draft")

	history, err := svc.GetHistory(page.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "first draft", history[0].Content)
}

func TestGetBySlug_RendersMarkdown(t *testing.T) {
	svc, _ := setupPageService(t)

	mustCreatePage(t, svc, "Home", "# Heading")

	resp, err := svc.GetBySlug(context.Background(), "home", true)
	require.NoError(t, err)
	assert.Contains(t, resp.HTML, "<h1")
	assert.Equal(t, "# Heading", resp.Content)

	raw, err := svc.GetBySlug(context.Background(), "home", false)
	require.NoError(t, err)
	assert.Empty(t, raw.HTML)
}

func TestGetBySlug_UnpublishedHidden(t *testing.T) {
	svc, _ := setupPageService(t)

	page := mustCreatePage(t, svc, "Draft", "wip")
	published := false
	_, err := svc.UpdatePage(context.Background(), page.ID, &domain.UpdatePageRequest{
		IsPublished: &published,
	}, 1)
	require.NoError(t, err)

	_, err = svc.GetBySlug(context.Background(), "draft", false)
	assert.ErrorIs(t, err, common.ErrPageNotFound)
}

func TestGetBySlug_NotFound(t *testing.T) {
	svc, _ := setupPageService(t)
	_, err := svc.GetBySlug(context.Background(), "nope", false)
	assert.ErrorIs(t, err, common.ErrPageNotFound)
}

func TestUpdatePage_SnapshotOnContentChangeOnly(t *testing.T) {
	svc, _ := setupPageService(t)
	ctx := context.Background()

	page := mustCreatePage(t, svc, "Home", "v1")

	// Title-only edits do not snapshot
	newTitle := "Home Sweet Home"
	_, err := svc.UpdatePage(ctx, page.ID, &domain.UpdatePageRequest{Title: &newTitle}, 1)
	require.NoError(t, err)

	history, err := svc.GetHistory(page.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	// Content edits snapshot the pre-change text
	v2 := "v2"
	_, err = svc.UpdatePage(ctx, page.ID, &domain.UpdatePageRequest{Content: &v2}, 1)
	require.NoError(t, err)

	history, err = svc.GetHistory(page.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	// Newest first
	assert.Equal(t, "v1", history[0].Content)
}

func TestUpdatePage_SlugConflict(t *testing.T) {
	svc, _ := setupPageService(t)
	ctx := context.Background()

	mustCreatePage(t, svc, "Home", "a")
	other := mustCreatePage(t, svc, "About", "b")

	taken := "home"
	_, err := svc.UpdatePage(ctx, other.ID, &domain.UpdatePageRequest{Slug: &taken}, 1)
	assert.ErrorIs(t, err, common.ErrSlugTaken)

	// Keeping your own slug is not a conflict
	same := "about"
	_, err = svc.UpdatePage(ctx, other.ID, &domain.UpdatePageRequest{Slug: &same}, 1)
	assert.NoError(t, err)
}

func TestUpdatePage_NotFound(t *testing.T) {
	svc, _ := setupPageService(t)
	title := "x"
	_, err := svc.UpdatePage(context.Background(), 999, &domain.UpdatePageRequest{Title: &title}, 1)
	assert.ErrorIs(t, err, common.ErrPageNotFound)
}

func TestDeletePage_CascadesHistoryAndDetachesMenus(t *testing.T) {
	svc, db := setupPageService(t)
	ctx := context.Background()

	page := mustCreatePage(t, svc, "Home", "v1")
	menu := &domain.Menu{Title: "Home", PageID: &page.ID, OrderIndex: 0, IsActive: true}
	require.NoError(t, db.Create(menu).Error)

	require.NoError(t, svc.DeletePage(ctx, page.ID))

	var historyCount int64
	require.NoError(t, db.Model(&domain.PageHistory{}).Where("page_id = ?", page.ID).Count(&historyCount).Error)
	assert.Zero(t, historyCount)

	// The menu entry survives but loses its page link
	var survivor domain.Menu
	require.NoError(t, db.First(&survivor, menu.ID).Error)
	assert.Nil(t, survivor.PageID)
}

func TestDeletePage_NotFound(t *testing.T) {
	svc, _ := setupPageService(t)
	assert.ErrorIs(t, svc.DeletePage(context.Background(), 999), common.ErrPageNotFound)
}

func TestGetHistory_NewestFirst(t *testing.T) {
	svc, _ := setupPageService(t)
	ctx := context.Background()

	page := mustCreatePage(t, svc, "Home", "v1")
	for _, content := range []string{"v2", "v3"} {
		c := content
		_, err := svc.UpdatePage(ctx, page.ID, &domain.UpdatePageRequest{Content: &c}, 1)
		require.NoError(t, err)
	}

	history, err := svc.GetHistory(page.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "v2", history[0].Content)
	assert.Equal(t, "v1", history[1].Content)
	assert.Equal(t, "v1", history[2].Content)
}

func TestGetHistory_NotFound(t *testing.T) {
	svc, _ := setupPageService(t)
	_, err := svc.GetHistory(999)
	assert.ErrorIs(t, err, common.ErrPageNotFound)
}

func TestSearch_MatchesTitleAndContent(t *testing.T) {
	svc, _ := setupPageService(t)
	ctx := context.Background()

	mustCreatePage(t, svc, "Server Rules", "be nice")
	mustCreatePage(t, svc, "Welcome", "rules are posted elsewhere")
	mustCreatePage(t, svc, "Unrelated", "nothing here")

	results, err := svc.Search(ctx, "rules")
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearch_EmptyQuery(t *testing.T) {
	svc, _ := setupPageService(t)

	results, err := svc.Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_ExcludesUnpublished(t *testing.T) {
	svc, _ := setupPageService(t)
	ctx := context.Background()

	page := mustCreatePage(t, svc, "Secret Rules", "hidden")
	published := false
	_, err := svc.UpdatePage(ctx, page.ID, &domain.UpdatePageRequest{IsPublished: &published}, 1)
	require.NoError(t, err)

	results, err := svc.Search(ctx, "rules")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_LimitsResults(t *testing.T) {
	svc, _ := setupPageService(t)
	ctx := context.Background()

	for i := 0; i < maxSearchResults+5; i++ {
		mustCreatePage(t, svc, "Guide", "common topic")
	}

	results, err := svc.Search(ctx, "topic")
	require.NoError(t, err)
	assert.Len(t, results, maxSearchResults)
}

func TestListPublished_SkipsDrafts(t *testing.T) {
	svc, _ := setupPageService(t)
	ctx := context.Background()

	mustCreatePage(t, svc, "Visible", "a")
	draft := mustCreatePage(t, svc, "Draft", "b")
	published := false
	_, err := svc.UpdatePage(ctx, draft.ID, &domain.UpdatePageRequest{IsPublished: &published}, 1)
	require.NoError(t, err)

	pages, err := svc.ListPublished()
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "Visible", pages[0].Title)
}
