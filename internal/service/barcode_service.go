package service

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/homestash/internal/models"
	"github.com/homestash/internal/oracle"
	"github.com/homestash/internal/repository"
)

// Barcode format validation patterns. Code-39 allows its quiet-zone
// asterisks; Code-128 accepts any ASCII payload.
var barcodePatterns = map[string]*regexp.Regexp{
	"UPC-A":    regexp.MustCompile(`^\d{12}$`),
	"UPC-E":    regexp.MustCompile(`^\d{8}$`),
	"EAN-13":   regexp.MustCompile(`^\d{13}$`),
	"EAN-8":    regexp.MustCompile(`^\d{8}$`),
	"CODE-39":  regexp.MustCompile(`^[A-Z0-9\-. $/+%*]+$`),
	"CODE-128": regexp.MustCompile(`^[\x00-\x7F]+$`),
	"ITF":      regexp.MustCompile(`^\d+$`),
}

// digitsRe matches barcode-length digit runs in OCR output
var digitsRe = regexp.MustCompile(`\d{8,14}`)

const productCacheTTL = 24 * time.Hour

// BarcodeService validates barcodes, resolves them against external
// product databases (with a Redis cache in front), and drives the
// barcode-based item registration and lookup flows.
type BarcodeService struct {
	itemRepo      *repository.ItemRepository
	containerRepo *repository.ContainerRepository
	locationRepo  *repository.LocationRepository
	itemService   *ItemService
	lookup        oracle.ProductLookup
	vision        oracle.Vision
	redis         *redis.Client
}

// NewBarcodeService creates a new BarcodeService. redisClient and the
// oracles may be nil; the corresponding capabilities degrade gracefully.
func NewBarcodeService(
	itemRepo *repository.ItemRepository,
	containerRepo *repository.ContainerRepository,
	locationRepo *repository.LocationRepository,
	itemService *ItemService,
	lookup oracle.ProductLookup,
	vision oracle.Vision,
	redisClient *redis.Client,
) *BarcodeService {
	return &BarcodeService{
		itemRepo:      itemRepo,
		containerRepo: containerRepo,
		locationRepo:  locationRepo,
		itemService:   itemService,
		lookup:        lookup,
		vision:        vision,
		redis:         redisClient,
	}
}

// ValidateBarcode checks a code against the format rules of its type.
// Unknown types are rejected; check digits are verified for EAN/UPC.
func (s *BarcodeService) ValidateBarcode(code, codeType string) error {
	if code == "" {
		return validationf("barcode is required")
	}
	normalized := strings.ToUpper(strings.TrimSpace(codeType))
	pattern, ok := barcodePatterns[normalized]
	if !ok {
		return validationf("unsupported barcode type: %s", codeType)
	}
	if !pattern.MatchString(code) {
		return validationf("barcode %q is not a valid %s code", code, normalized)
	}

	switch normalized {
	case "UPC-A", "EAN-13", "EAN-8":
		if !VerifyCheckDigit(code) {
			return validationf("barcode %q has an invalid check digit", code)
		}
	}
	return nil
}

// CalculateCheckDigit computes the EAN/UPC modulo-10 check digit for the
// payload (the code without its final digit). Weights alternate 1 and 3
// starting from the rightmost payload digit with weight 3.
func CalculateCheckDigit(payload string) (int, error) {
	if payload == "" {
		return 0, errors.New("empty barcode payload")
	}
	sum := 0
	weight := 3
	for i := len(payload) - 1; i >= 0; i-- {
		d := payload[i]
		if d < '0' || d > '9' {
			return 0, errors.New("barcode payload must be numeric")
		}
		sum += int(d-'0') * weight
		if weight == 3 {
			weight = 1
		} else {
			weight = 3
		}
	}
	return (10 - sum%10) % 10, nil
}

// VerifyCheckDigit reports whether a full EAN/UPC code carries the
// correct trailing check digit
func VerifyCheckDigit(code string) bool {
	if len(code) < 2 {
		return false
	}
	want, err := CalculateCheckDigit(code[:len(code)-1])
	if err != nil {
		return false
	}
	return int(code[len(code)-1]-'0') == want
}

// LookupProduct resolves a barcode against the external product
// databases, serving repeat lookups from Redis for a day. A nil product
// with nil error means no database knows the code.
func (s *BarcodeService) LookupProduct(ctx context.Context, barcode string) (*oracle.Product, error) {
	if s.lookup == nil {
		return nil, &DependencyError{Service: "product lookup", Err: oracle.ErrUnavailable}
	}

	cacheKey := "product:" + barcode
	if s.redis != nil {
		if data, err := s.redis.Get(ctx, cacheKey).Bytes(); err == nil {
			var product oracle.Product
			if json.Unmarshal(data, &product) == nil {
				return &product, nil
			}
		}
	}

	product, err := s.lookup.Lookup(ctx, barcode)
	if err != nil {
		if errors.Is(err, oracle.ErrUnavailable) {
			return nil, &DependencyError{Service: "product lookup", Err: err}
		}
		return nil, err
	}
	if product == nil {
		return nil, nil
	}

	if s.redis != nil {
		if data, err := json.Marshal(product); err == nil {
			s.redis.Set(ctx, cacheKey, data, productCacheTTL)
		}
	}
	return product, nil
}

// RegisterItemRequest represents barcode-based item registration
type RegisterItemRequest struct {
	Barcode     string `json:"barcode" binding:"required,max=100"`
	BarcodeType string `json:"barcode_type" binding:"required,max=20"`
	Name        string `json:"name" binding:"max=200"`
	Quantity    *int   `json:"quantity"`
	CategoryID  *uint  `json:"category_id"`
	ContainerID *uint  `json:"container_id"`
	LocationID  *uint  `json:"location_id"`
}

// RegisteredItem pairs the created item with whatever the product
// databases knew about its code
type RegisteredItem struct {
	Item    *models.Item    `json:"item"`
	Product *oracle.Product `json:"product,omitempty"`
}

// RegisterItem creates an item keyed by barcode. The code must validate,
// must not already be registered for this user, and when no name is given
// the product databases fill one in.
func (s *BarcodeService) RegisterItem(ctx context.Context, userID uint, req *RegisterItemRequest) (*RegisteredItem, error) {
	if err := s.ValidateBarcode(req.Barcode, req.BarcodeType); err != nil {
		return nil, err
	}

	if existing, err := s.itemRepo.GetByBarcode(req.Barcode, userID); err == nil {
		return nil, conflictf(ConflictDuplicateCode, 0,
			"barcode %s is already registered to item %q", req.Barcode, existing.Name)
	} else if !errors.Is(err, repository.ErrItemNotFound) {
		return nil, err
	}

	var product *oracle.Product
	name := req.Name
	description := ""
	if name == "" {
		// Best-effort: registration still succeeds when every product
		// database is down.
		product, _ = s.LookupProduct(ctx, req.Barcode)
		if product != nil {
			name = product.Name
			if product.Brand != "" && !strings.Contains(strings.ToLower(name), strings.ToLower(product.Brand)) {
				name = product.Brand + " " + name
			}
			description = product.Description
		}
	}
	if name == "" {
		name = "Unknown item (" + req.Barcode + ")"
	}

	item, err := s.itemService.Create(userID, &CreateItemRequest{
		Name:        name,
		Description: description,
		Quantity:    req.Quantity,
		CategoryID:  req.CategoryID,
		ContainerID: req.ContainerID,
		LocationID:  req.LocationID,
		Barcode:     req.Barcode,
		BarcodeType: strings.ToUpper(strings.TrimSpace(req.BarcodeType)),
	})
	if err != nil {
		return nil, err
	}
	return &RegisteredItem{Item: item, Product: product}, nil
}

// BarcodeMatch is what a barcode resolves to within a user's inventory
type BarcodeMatch struct {
	Type         string            `json:"type"` // "item" or "container"
	Item         *models.Item      `json:"item,omitempty"`
	Container    *models.Container `json:"container,omitempty"`
	LocationPath string            `json:"location_path,omitempty"`
}

// FindByBarcode resolves a barcode to the item or container carrying it,
// with a human-readable "Location > Container" path to where it lives.
// Items are checked before containers.
func (s *BarcodeService) FindByBarcode(barcode string, userID uint) (*BarcodeMatch, error) {
	item, err := s.itemRepo.GetByBarcode(barcode, userID)
	if err == nil {
		return &BarcodeMatch{
			Type:         "item",
			Item:         item,
			LocationPath: s.itemPath(item, userID),
		}, nil
	}
	if !errors.Is(err, repository.ErrItemNotFound) {
		return nil, err
	}

	container, err := s.containerRepo.GetByBarcode(barcode, userID)
	if err == nil {
		return &BarcodeMatch{
			Type:         "container",
			Container:    container,
			LocationPath: s.containerPath(container, userID),
		}, nil
	}
	if !errors.Is(err, repository.ErrContainerNotFound) {
		return nil, err
	}
	return nil, notFound("barcode")
}

func (s *BarcodeService) itemPath(item *models.Item, userID uint) string {
	var parts []string
	if item.LocationID != nil {
		if loc, err := s.locationRepo.GetByIDAndUserID(*item.LocationID, userID); err == nil {
			parts = append(parts, loc.Name)
		}
	}
	if item.ContainerID != nil {
		if c, err := s.containerRepo.GetByIDAndUserID(*item.ContainerID, userID); err == nil {
			if len(parts) == 0 && c.LocationID != nil {
				if loc, err := s.locationRepo.GetByIDAndUserID(*c.LocationID, userID); err == nil {
					parts = append(parts, loc.Name)
				}
			}
			parts = append(parts, c.Name)
		}
	}
	return strings.Join(parts, " > ")
}

func (s *BarcodeService) containerPath(container *models.Container, userID uint) string {
	var parts []string
	if container.LocationID != nil {
		if loc, err := s.locationRepo.GetByIDAndUserID(*container.LocationID, userID); err == nil {
			parts = append(parts, loc.Name)
		}
	}
	parts = append(parts, container.Name)
	return strings.Join(parts, " > ")
}

// ScanImage reads barcode candidates off a photographed label via OCR.
// Returned codes are digit runs of plausible barcode length, deduplicated
// in detection order.
func (s *BarcodeService) ScanImage(ctx context.Context, image []byte) ([]string, error) {
	if s.vision == nil {
		return nil, &DependencyError{Service: "vision", Err: oracle.ErrUnavailable}
	}
	texts, err := s.vision.DetectText(ctx, image)
	if err != nil {
		if errors.Is(err, oracle.ErrUnavailable) {
			return nil, &DependencyError{Service: "vision", Err: err}
		}
		return nil, err
	}

	seen := make(map[string]bool)
	var codes []string
	for _, text := range texts {
		for _, match := range digitsRe.FindAllString(text, -1) {
			if !seen[match] {
				seen[match] = true
				codes = append(codes, match)
			}
		}
	}
	return codes, nil
}
