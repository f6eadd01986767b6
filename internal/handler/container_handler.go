package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/homestash/internal/middleware"
	"github.com/homestash/internal/service"
	"github.com/homestash/internal/upload"
	"github.com/homestash/pkg/response"
)

// ContainerHandler handles container API requests
type ContainerHandler struct {
	containerService *service.ContainerService
	uploads          *upload.Store
}

// NewContainerHandler creates a new ContainerHandler
func NewContainerHandler(containerService *service.ContainerService, uploads *upload.Store) *ContainerHandler {
	return &ContainerHandler{
		containerService: containerService,
		uploads:          uploads,
	}
}

// List returns the user's containers with counts. ?location_id narrows
// to one location; ?flat=true skips the nesting.
// GET /api/containers
func (h *ContainerHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	flat := c.Query("flat") == "true"
	locationID, ok := parseOptionalUint(c, "location_id")
	if !ok {
		return
	}

	containers, err := h.containerService.List(userID, locationID, flat)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, containers)
}

// Get returns one container with parent, children and items
// GET /api/containers/:id
func (h *ContainerHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	detail, err := h.containerService.Get(id, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, detail)
}

// GetByBarcode returns the container carrying a barcode, with its items
// GET /api/containers/barcode/:barcode
func (h *ContainerHandler) GetByBarcode(c *gin.Context) {
	userID := middleware.GetUserID(c)
	barcode := c.Param("barcode")

	detail, err := h.containerService.GetByBarcode(barcode, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, detail)
}

// Create creates a container. Accepts JSON or multipart form; a
// multipart "image" part is stored and recorded on the container.
// POST /api/containers
func (h *ContainerHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req service.CreateContainerRequest
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

	container, err := h.containerService.Create(userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, container)
}

// Update applies a partial update to a container. Both location_id and
// parent_container_id accept null to detach; nesting a container inside
// its own subtree is rejected.
// PUT /api/containers/:id
func (h *ContainerHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req service.UpdateContainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	container, err := h.containerService.Update(id, userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, container)
}

// UploadImage attaches an image to an existing container
// POST /api/containers/:id/image
func (h *ContainerHandler) UploadImage(c *gin.Context) {
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

	container, err := h.containerService.Update(id, userID, &service.UpdateContainerRequest{
		ImagePath: &path,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, container)
}

// Delete removes a container; refused while child containers or items
// are still inside
// DELETE /api/containers/:id
func (h *ContainerHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.containerService.Delete(id, userID); err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// RegisterRoutes registers container routes
func (h *ContainerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	containers := rg.Group("/containers")
	{
		containers.GET("", h.List)
		containers.GET("/:id", h.Get)
		containers.GET("/barcode/:barcode", h.GetByBarcode)
		containers.POST("", h.Create)
		containers.PUT("/:id", h.Update)
		containers.POST("/:id/image", h.UploadImage)
		containers.DELETE("/:id", h.Delete)
	}
}
