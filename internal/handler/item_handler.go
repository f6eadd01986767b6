package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/homestash/internal/middleware"
	"github.com/homestash/internal/repository"
	"github.com/homestash/internal/service"
	"github.com/homestash/internal/upload"
	"github.com/homestash/pkg/response"
)

// ItemHandler handles item API requests
type ItemHandler struct {
	itemService *service.ItemService
	uploads     *upload.Store
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(itemService *service.ItemService, uploads *upload.Store) *ItemHandler {
	return &ItemHandler{
		itemService: itemService,
		uploads:     uploads,
	}
}

// List returns the user's items newest first. ?search matches name,
// description and barcode; ?category_id, ?container_id and ?location_id
// narrow the listing.
// GET /api/items
func (h *ItemHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	filter := repository.ItemFilter{Search: c.Query("search")}
	var ok bool
	if filter.CategoryID, ok = parseOptionalUint(c, "category_id"); !ok {
		return
	}
	if filter.ContainerID, ok = parseOptionalUint(c, "container_id"); !ok {
		return
	}
	if filter.LocationID, ok = parseOptionalUint(c, "location_id"); !ok {
		return
	}

	items, err := h.itemService.List(userID, filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, items)
}

// Get returns one item with its display names resolved
// GET /api/items/:id
func (h *ItemHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	item, err := h.itemService.Get(id, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, item)
}

// Create creates an item. Accepts JSON or multipart form; a multipart
// "image" part is stored and recorded on the item.
// POST /api/items
func (h *ItemHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req service.CreateItemRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if file, err := c.FormFile("image"); err == nil {
			path, err := h.uploads.Save(c, file)
			if err != nil {
				response.BadRequest(c, err.Error())
				return
			}
			req.ImagePath = path
		}
	}

	item, err := h.itemService.Create(userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, item)
}

// Update applies a partial update to an item. category_id, container_id
// and location_id each accept null to clear the reference.
// PUT /api/items/:id
func (h *ItemHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req service.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	item, err := h.itemService.Update(id, userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, item)
}

// UploadImage attaches an image to an existing item
// POST /api/items/:id/image
func (h *ItemHandler) UploadImage(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		response.BadRequest(c, "image file is required")
		return
	}
	path, err := h.uploads.Save(c, file)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	item, err := h.itemService.Update(id, userID, &service.UpdateItemRequest{
		ImagePath: &path,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, item)
}

// Delete removes an item
// DELETE /api/items/:id
func (h *ItemHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.itemService.Delete(id, userID); err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// RegisterRoutes registers item routes
func (h *ItemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	items := rg.Group("/items")
	{
		items.GET("", h.List)
		items.GET("/:id", h.Get)
		items.POST("", h.Create)
		items.PUT("/:id", h.Update)
		items.POST("/:id/image", h.UploadImage)
		items.DELETE("/:id", h.Delete)
	}
}
