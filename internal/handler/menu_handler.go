package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/zenwiki/zenwiki-backend/internal/common"
	"github.com/zenwiki/zenwiki-backend/internal/domain"
	"github.com/zenwiki/zenwiki-backend/internal/service"
)

// MenuHandler handles HTTP requests for the menu tree
type MenuHandler struct {
	service service.MenuService
}

// NewMenuHandler creates a new MenuHandler
func NewMenuHandler(service service.MenuService) *MenuHandler {
	return &MenuHandler{service: service}
}

// GetTree returns the full menu forest
// @Summary Get menu tree
// @Tags menus
// @Produce json
// @Success 200 {object} common.APIResponse
// @Router /menus [get]
func (h *MenuHandler) GetTree(c *gin.Context) {
	tree, err := h.service.GetTree(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, tree, nil)
}

// Create adds a menu entry
// POST /api/menus
func (h *MenuHandler) Create(c *gin.Context) {
	var req domain.CreateMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	menu, err := h.service.CreateMenu(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	common.CreatedResponse(c, menu)
}

// Update changes a menu's title, page link, or visibility
// PUT /api/menus/:id
func (h *MenuHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req domain.UpdateMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	menu, err := h.service.UpdateMenu(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, menu, nil)
}

// Delete removes a childless menu entry
// DELETE /api/menus/:id
func (h *MenuHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteMenu(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"deleted": id}, nil)
}

// Move reparents and/or repositions a menu entry
// PUT /api/menus/:id/move
func (h *MenuHandler) Move(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req domain.MoveMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	menu, err := h.service.MoveMenu(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, menu, nil)
}

// Reorder applies a batch of order/parent changes atomically
// PUT /api/menus/reorder
func (h *MenuHandler) Reorder(c *gin.Context) {
	var req domain.ReorderMenusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.service.ReorderMenus(c.Request.Context(), &req); err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"reordered": true}, nil)
}

// paramID parses the :id route parameter, writing a 400 on failure
func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid id", nil)
		return 0, false
	}
	return id, true
}
