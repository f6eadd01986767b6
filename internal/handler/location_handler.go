package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/homestash/internal/middleware"
	"github.com/homestash/internal/service"
	"github.com/homestash/internal/upload"
	"github.com/homestash/pkg/response"
)

// LocationHandler handles location API requests
type LocationHandler struct {
	locationService *service.LocationService
	uploads         *upload.Store
}

// NewLocationHandler creates a new LocationHandler
func NewLocationHandler(locationService *service.LocationService, uploads *upload.Store) *LocationHandler {
	return &LocationHandler{
		locationService: locationService,
		uploads:         uploads,
	}
}

// List returns the user's locations. The default shape is a forest of
// root locations with children nested; ?flat=true returns a flat list.
// GET /api/locations
func (h *LocationHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	flat := c.Query("flat") == "true"

	locations, err := h.locationService.List(userID, flat)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, locations)
}

// Get returns one location with parent, children, containers and items
// GET /api/locations/:id
func (h *LocationHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	detail, err := h.locationService.Get(id, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, detail)
}

// Create creates a location. Accepts JSON or multipart form; a multipart
// "image" part is stored and recorded on the location.
// POST /api/locations
func (h *LocationHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req service.CreateLocationRequest
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

	location, err := h.locationService.Create(userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, location)
}

// Update applies a partial update to a location. Setting
// parent_location_id to null detaches it; re-parenting into the
// location's own subtree is rejected.
// PUT /api/locations/:id
func (h *LocationHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req service.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	location, err := h.locationService.Update(id, userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, location)
}

// UploadImage attaches an image to an existing location
// POST /api/locations/:id/image
func (h *LocationHandler) UploadImage(c *gin.Context) {
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

	location, err := h.locationService.Update(id, userID, &service.UpdateLocationRequest{
		ImagePath: &path,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, location)
}

// Delete removes a location; refused while child locations, containers
// or items still depend on it
// DELETE /api/locations/:id
func (h *LocationHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.locationService.Delete(id, userID); err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// RegisterRoutes registers location routes
func (h *LocationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	locations := rg.Group("/locations")
	{
		locations.GET("", h.List)
		locations.GET("/:id", h.Get)
		locations.POST("", h.Create)
		locations.PUT("/:id", h.Update)
		locations.POST("/:id/image", h.UploadImage)
		locations.DELETE("/:id", h.Delete)
	}
}
