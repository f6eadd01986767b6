package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/homestash/internal/middleware"
	"github.com/homestash/internal/service"
	"github.com/homestash/pkg/response"
)

// CategoryHandler handles category API requests
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

// List returns the user's categories with item counts
// GET /api/categories
func (h *CategoryHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	categories, err := h.categoryService.List(userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, categories)
}

// Get returns one category with its items
// GET /api/categories/:id
func (h *CategoryHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	category, err := h.categoryService.Get(id, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, category)
}

// Create creates a category
// POST /api/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req service.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	category, err := h.categoryService.Create(userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, category)
}

// Update applies a partial update to a category
// PUT /api/categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req service.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	category, err := h.categoryService.Update(id, userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, category)
}

// Delete removes a category; refused while items still reference it
// DELETE /api/categories/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.categoryService.Delete(id, userID); err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// RegisterRoutes registers category routes
func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	categories := rg.Group("/categories")
	{
		categories.GET("", h.List)
		categories.GET("/:id", h.Get)
		categories.POST("", h.Create)
		categories.PUT("/:id", h.Update)
		categories.DELETE("/:id", h.Delete)
	}
}
