package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/zenwiki/zenwiki-backend/internal/common"
	"github.com/zenwiki/zenwiki-backend/internal/domain"
	"github.com/zenwiki/zenwiki-backend/internal/middleware"
	"github.com/zenwiki/zenwiki-backend/internal/service"
)

// PageHandler handles HTTP requests for wiki pages
type PageHandler struct {
	service service.PageService
}

// NewPageHandler creates a new PageHandler
func NewPageHandler(service service.PageService) *PageHandler {
	return &PageHandler{service: service}
}

// List returns all published pages
// @Summary List published pages
// @Tags pages
// @Produce json
// @Success 200 {object} common.APIResponse
// @Router /pages [get]
func (h *PageHandler) List(c *gin.Context) {
	pages, err := h.service.ListPublished()
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, pages, nil)
}

// Get returns a published page by slug. Pass render=html to include
// the Markdown body rendered to HTML.
// GET /api/pages/:slug
func (h *PageHandler) Get(c *gin.Context) {
	renderHTML := c.Query("render") == "html"

	page, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"), renderHTML)
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, page, nil)
}

// Create adds a page, recording the author and an initial revision
// POST /api/pages
func (h *PageHandler) Create(c *gin.Context) {
	var req domain.CreatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	authorID, ok := middleware.UserID(c)
	if !ok {
		common.ErrorResponse(c, http.StatusUnauthorized, "authorization required", nil)
		return
	}

	page, err := h.service.CreatePage(c.Request.Context(), &req, authorID)
	if err != nil {
		respondError(c, err)
		return
	}
	common.CreatedResponse(c, page)
}

// Update edits a page, snapshotting the old content when it changes
// PUT /api/pages/:id
func (h *PageHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req domain.UpdatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	editorID, ok := middleware.UserID(c)
	if !ok {
		common.ErrorResponse(c, http.StatusUnauthorized, "authorization required", nil)
		return
	}

	page, err := h.service.UpdatePage(c.Request.Context(), id, &req, editorID)
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, page, nil)
}

// Delete removes a page along with its revision history
// DELETE /api/pages/:id
func (h *PageHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.service.DeletePage(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"deleted": id}, nil)
}

// History returns a page's revisions, newest first.
// GET /api/pages/:slug/history — the parameter is the numeric page id;
// it shares the :slug name because gin keeps one route tree per method.
func (h *PageHandler) History(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("slug"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid id", nil)
		return
	}

	history, err := h.service.GetHistory(id)
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, history, nil)
}

// Search finds published pages matching the query
// @Summary Search published pages
// @Tags pages
// @Produce json
// @Param q query string false "search text"
// @Success 200 {object} common.APIResponse
// @Router /pages/search [get]
func (h *PageHandler) Search(c *gin.Context) {
	query := c.Query("q")

	results, err := h.service.Search(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, results, &common.Meta{Query: query, Total: int64(len(results))})
}
