package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/homestash/internal/middleware"
	"github.com/homestash/internal/service"
	"github.com/homestash/pkg/response"
)

// Scanned label photos are small; anything bigger is not a label
const maxScanImageBytes = 10 << 20

// BarcodeHandler handles barcode API requests
type BarcodeHandler struct {
	barcodeService *service.BarcodeService
}

// NewBarcodeHandler creates a new BarcodeHandler
func NewBarcodeHandler(barcodeService *service.BarcodeService) *BarcodeHandler {
	return &BarcodeHandler{
		barcodeService: barcodeService,
	}
}

// Validate checks a barcode against the format rules of its type
// POST /api/barcodes/validate
func (h *BarcodeHandler) Validate(c *gin.Context) {
	var req struct {
		Barcode     string `json:"barcode" binding:"required"`
		BarcodeType string `json:"barcode_type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.barcodeService.ValidateBarcode(req.Barcode, req.BarcodeType); err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"valid": true})
}

// Lookup resolves a barcode against the external product databases
// GET /api/barcodes/lookup/:barcode
func (h *BarcodeHandler) Lookup(c *gin.Context) {
	barcode := c.Param("barcode")

	product, err := h.barcodeService.LookupProduct(c.Request.Context(), barcode)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if product == nil {
		response.NotFound(c, "no product database knows this barcode")
		return
	}
	response.Success(c, product)
}

// Register creates an item keyed by barcode; the product databases fill
// in a name when none is given
// POST /api/barcodes/register
func (h *BarcodeHandler) Register(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req service.RegisterItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	registered, err := h.barcodeService.RegisterItem(c.Request.Context(), userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, registered)
}

// Find resolves a barcode to the item or container carrying it, with the
// path to where it lives
// GET /api/barcodes/find/:barcode
func (h *BarcodeHandler) Find(c *gin.Context) {
	userID := middleware.GetUserID(c)
	barcode := c.Param("barcode")

	match, err := h.barcodeService.FindByBarcode(barcode, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, match)
}

// Scan reads barcode candidates off a photographed label
// POST /api/barcodes/scan
func (h *BarcodeHandler) Scan(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		response.BadRequest(c, "image file is required")
		return
	}
	if file.Size > maxScanImageBytes {
		response.BadRequest(c, "image too large")
		return
	}

	f, err := file.Open()
	if err != nil {
		response.BadRequest(c, "failed to read image")
		return
	}
	defer f.Close()
	image, err := io.ReadAll(f)
	if err != nil {
		response.BadRequest(c, "failed to read image")
		return
	}

	codes, err := h.barcodeService.ScanImage(c.Request.Context(), image)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"barcodes": codes})
}

// RegisterRoutes registers barcode routes
func (h *BarcodeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	barcodes := rg.Group("/barcodes")
	{
		barcodes.POST("/validate", h.Validate)
		barcodes.GET("/lookup/:barcode", h.Lookup)
		barcodes.POST("/register", h.Register)
		barcodes.GET("/find/:barcode", h.Find)
		barcodes.POST("/scan", h.Scan)
	}
}
