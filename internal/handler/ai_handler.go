package handler

import (
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/homestash/internal/middleware"
	"github.com/homestash/internal/oracle"
	"github.com/homestash/internal/service"
	"github.com/homestash/pkg/response"
)

// AIHandler handles AI identification API requests
type AIHandler struct {
	aiService *service.AIService
}

// NewAIHandler creates a new AIHandler
func NewAIHandler(aiService *service.AIService) *AIHandler {
	return &AIHandler{
		aiService: aiService,
	}
}

// Identify guesses what an item is from a photo, a description, a
// barcode, or any combination. Accepts multipart form (image +
// description/barcode fields) or plain JSON.
// POST /api/ai/identify
func (h *AIHandler) Identify(c *gin.Context) {
	req := &service.IdentifyRequest{}

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		req.Description = c.PostForm("description")
		req.Barcode = c.PostForm("barcode")
		req.BarcodeType = c.PostForm("barcode_type")

		if file, err := c.FormFile("image"); err == nil {
			if file.Size > maxScanImageBytes {
				response.BadRequest(c, "image too large")
				return
			}
			f, err := file.Open()
			if err != nil {
				response.BadRequest(c, "failed to read image")
				return
			}
			image, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				response.BadRequest(c, "failed to read image")
				return
			}
			req.Image = image
		}
	} else {
		var body struct {
			Description string `json:"description"`
			Barcode     string `json:"barcode"`
			BarcodeType string `json:"barcode_type"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		req.Description = body.Description
		req.Barcode = body.Barcode
		req.BarcodeType = body.BarcodeType
	}

	result, err := h.aiService.Identify(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, result)
}

// SuggestPlacement asks where an identified item should be stored,
// choosing among the user's existing locations and containers
// POST /api/ai/suggest-placement
func (h *AIHandler) SuggestPlacement(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var item oracle.ItemGuess
	if err := c.ShouldBindJSON(&item); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	placement, err := h.aiService.SuggestPlacement(c.Request.Context(), userID, item)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, placement)
}

// Query answers a free-text question about the inventory
// POST /api/ai/query
func (h *AIHandler) Query(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req struct {
		Query string `json:"query" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	answer, err := h.aiService.Query(c.Request.Context(), userID, req.Query)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, answer)
}

// RegisterRoutes registers AI routes
func (h *AIHandler) RegisterRoutes(rg *gin.RouterGroup) {
	ai := rg.Group("/ai")
	{
		ai.POST("/identify", h.Identify)
		ai.POST("/suggest-placement", h.SuggestPlacement)
		ai.POST("/query", h.Query)
	}
}
