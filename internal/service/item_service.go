package service

import (
	"errors"

	"github.com/homestash/internal/models"
	"github.com/homestash/internal/repository"
)

// ItemService performs validated item CRUD scoped to an owner
type ItemService struct {
	itemRepo      *repository.ItemRepository
	categoryRepo  *repository.CategoryRepository
	containerRepo *repository.ContainerRepository
	locationRepo  *repository.LocationRepository
}

// NewItemService creates a new ItemService
func NewItemService(
	itemRepo *repository.ItemRepository,
	categoryRepo *repository.CategoryRepository,
	containerRepo *repository.ContainerRepository,
	locationRepo *repository.LocationRepository,
) *ItemService {
	return &ItemService{
		itemRepo:      itemRepo,
		categoryRepo:  categoryRepo,
		containerRepo: containerRepo,
		locationRepo:  locationRepo,
	}
}

// CreateItemRequest represents the item creation request
type CreateItemRequest struct {
	Name         string   `json:"name" form:"name" binding:"required,max=200"`
	Description  string   `json:"description" form:"description" binding:"max=1000"`
	Quantity     *int     `json:"quantity" form:"quantity"`
	CategoryID   *uint    `json:"category_id" form:"category_id"`
	ContainerID  *uint    `json:"container_id" form:"container_id"`
	LocationID   *uint    `json:"location_id" form:"location_id"`
	Barcode      string   `json:"barcode" form:"barcode" binding:"max=100"`
	BarcodeType  string   `json:"barcode_type" form:"barcode_type" binding:"max=20"`
	AIIdentified bool     `json:"ai_identified" form:"ai_identified"`
	AIConfidence *float64 `json:"ai_confidence" form:"ai_confidence"`
	ImagePath    string   `json:"-" form:"-"`
}

// UpdateItemRequest represents a partial item update
type UpdateItemRequest struct {
	Name        *string     `json:"name"`
	Description *string     `json:"description"`
	Quantity    *int        `json:"quantity"`
	CategoryID  OptionalRef `json:"category_id"`
	ContainerID OptionalRef `json:"container_id"`
	LocationID  OptionalRef `json:"location_id"`
	Barcode     *string     `json:"barcode"`
	BarcodeType *string     `json:"barcode_type"`
	ImagePath   *string     `json:"-"`
}

// List returns the user's items, filtered and enriched with display names
func (s *ItemService) List(userID uint, filter repository.ItemFilter) ([]*models.Item, error) {
	items, err := s.itemRepo.List(userID, filter)
	if err != nil {
		return nil, err
	}
	if err := s.attachNames(userID, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Get returns one item enriched with display names
func (s *ItemService) Get(id, userID uint) (*models.Item, error) {
	item, err := s.itemRepo.GetByIDAndUserID(id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, notFound("item")
		}
		return nil, err
	}
	if err := s.attachNames(userID, []*models.Item{item}); err != nil {
		return nil, err
	}
	return item, nil
}

// GetByBarcode returns the item carrying a barcode
func (s *ItemService) GetByBarcode(barcode string, userID uint) (*models.Item, error) {
	item, err := s.itemRepo.GetByBarcode(barcode, userID)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, notFound("item")
		}
		return nil, err
	}
	if err := s.attachNames(userID, []*models.Item{item}); err != nil {
		return nil, err
	}
	return item, nil
}

// Create inserts an item after validating quantity and every supplied
// reference (existence and ownership)
func (s *ItemService) Create(userID uint, req *CreateItemRequest) (*models.Item, error) {
	if req.Name == "" {
		return nil, validationf("item name is required")
	}

	quantity := 1
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return nil, validationf("quantity must not be negative")
		}
		quantity = *req.Quantity
	}

	if err := s.validateRefs(userID, req.CategoryID, req.ContainerID, req.LocationID); err != nil {
		return nil, err
	}

	item := &models.Item{
		UserID:       userID,
		Name:         req.Name,
		Description:  req.Description,
		Quantity:     quantity,
		CategoryID:   req.CategoryID,
		ContainerID:  req.ContainerID,
		LocationID:   req.LocationID,
		Barcode:      req.Barcode,
		BarcodeType:  req.BarcodeType,
		AIIdentified: req.AIIdentified,
		AIConfidence: req.AIConfidence,
		ImagePath:    req.ImagePath,
	}
	if err := s.itemRepo.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

// Update applies a partial update with the same reference validation as
// Create for any pointer being set
func (s *ItemService) Update(id, userID uint, req *UpdateItemRequest) (*models.Item, error) {
	item, err := s.itemRepo.GetByIDAndUserID(id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, notFound("item")
		}
		return nil, err
	}

	if req.Quantity != nil && *req.Quantity < 0 {
		return nil, validationf("quantity must not be negative")
	}

	var categoryID, containerID, locationID *uint
	if req.CategoryID.Set {
		categoryID = req.CategoryID.Value
	}
	if req.ContainerID.Set {
		containerID = req.ContainerID.Value
	}
	if req.LocationID.Set {
		locationID = req.LocationID.Value
	}
	if err := s.validateRefs(userID, categoryID, containerID, locationID); err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != "" {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	if req.CategoryID.Set {
		item.CategoryID = req.CategoryID.Value
	}
	if req.ContainerID.Set {
		item.ContainerID = req.ContainerID.Value
	}
	if req.LocationID.Set {
		item.LocationID = req.LocationID.Value
	}
	if req.Barcode != nil {
		item.Barcode = *req.Barcode
	}
	if req.BarcodeType != nil {
		item.BarcodeType = *req.BarcodeType
	}
	if req.ImagePath != nil {
		item.ImagePath = *req.ImagePath
	}

	if err := s.itemRepo.Update(item); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes an item
func (s *ItemService) Delete(id, userID uint) error {
	if _, err := s.itemRepo.GetByIDAndUserID(id, userID); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return notFound("item")
		}
		return err
	}
	return s.itemRepo.Delete(id, userID)
}

func (s *ItemService) validateRefs(userID uint, categoryID, containerID, locationID *uint) error {
	if categoryID != nil {
		if _, err := s.categoryRepo.GetByIDAndUserID(*categoryID, userID); err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return validationf("category not found")
			}
			return err
		}
	}
	if containerID != nil {
		if _, err := s.containerRepo.GetByIDAndUserID(*containerID, userID); err != nil {
			if errors.Is(err, repository.ErrContainerNotFound) {
				return validationf("container not found")
			}
			return err
		}
	}
	if locationID != nil {
		if _, err := s.locationRepo.GetByIDAndUserID(*locationID, userID); err != nil {
			if errors.Is(err, repository.ErrLocationNotFound) {
				return validationf("location not found")
			}
			return err
		}
	}
	return nil
}

func (s *ItemService) attachNames(userID uint, items []*models.Item) error {
	if len(items) == 0 {
		return nil
	}

	categoryNames, err := s.categoryRepo.NamesByUserID(userID)
	if err != nil {
		return err
	}
	containerNames, err := s.containerRepo.NamesByUserID(userID)
	if err != nil {
		return err
	}
	locationNames, err := s.locationRepo.NamesByUserID(userID)
	if err != nil {
		return err
	}

	for _, item := range items {
		if item.CategoryID != nil {
			item.CategoryName = categoryNames[*item.CategoryID]
		}
		if item.ContainerID != nil {
			item.ContainerName = containerNames[*item.ContainerID]
		}
		if item.LocationID != nil {
			item.LocationName = locationNames[*item.LocationID]
		}
	}
	return nil
}
