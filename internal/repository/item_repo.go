package repository

import (
	"errors"

	"github.com/homestash/internal/models"
	"gorm.io/gorm"
)

var (
	ErrItemNotFound = errors.New("item not found")
)

// ItemFilter narrows an owner-scoped item listing
type ItemFilter struct {
	Search      string // substring match over name, description and barcode
	CategoryID  *uint
	ContainerID *uint
	LocationID  *uint
}

// ItemRepository handles item data access
type ItemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a new ItemRepository
func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// Create creates a new item
func (r *ItemRepository) Create(item *models.Item) error {
	return r.db.Create(item).Error
}

// GetByIDAndUserID retrieves an item scoped to its owner
func (r *ItemRepository) GetByIDAndUserID(id, userID uint) (*models.Item, error) {
	var item models.Item
	result := r.db.Where("id = ? AND user_id = ?", id, userID).First(&item)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, result.Error
	}
	return &item, nil
}

// GetByBarcode retrieves an item by barcode scoped to its owner
func (r *ItemRepository) GetByBarcode(barcode string, userID uint) (*models.Item, error) {
	var item models.Item
	result := r.db.Where("barcode = ? AND user_id = ?", barcode, userID).First(&item)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, result.Error
	}
	return &item, nil
}

// List retrieves the user's items newest first, narrowed by the filter
func (r *ItemRepository) List(userID uint, filter ItemFilter) ([]*models.Item, error) {
	query := r.db.Where("user_id = ?", userID)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR description LIKE ? OR barcode LIKE ?",
			pattern, pattern, pattern)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.ContainerID != nil {
		query = query.Where("container_id = ?", *filter.ContainerID)
	}
	if filter.LocationID != nil {
		query = query.Where("location_id = ?", *filter.LocationID)
	}

	var items []*models.Item
	result := query.Order("created_at DESC").Find(&items)
	if result.Error != nil {
		return nil, result.Error
	}
	return items, nil
}

// ListByContainer retrieves the items directly inside a container
func (r *ItemRepository) ListByContainer(containerID, userID uint) ([]models.Item, error) {
	var items []models.Item
	result := r.db.Where("container_id = ? AND user_id = ?", containerID, userID).Find(&items)
	if result.Error != nil {
		return nil, result.Error
	}
	return items, nil
}

// ListByLocation retrieves the items placed directly in a location
func (r *ItemRepository) ListByLocation(locationID, userID uint) ([]models.Item, error) {
	var items []models.Item
	result := r.db.Where("location_id = ? AND user_id = ?", locationID, userID).Find(&items)
	if result.Error != nil {
		return nil, result.Error
	}
	return items, nil
}

// ListByCategory retrieves the items labeled with a category
func (r *ItemRepository) ListByCategory(categoryID, userID uint) ([]models.Item, error) {
	var items []models.Item
	result := r.db.Where("category_id = ? AND user_id = ?", categoryID, userID).Find(&items)
	if result.Error != nil {
		return nil, result.Error
	}
	return items, nil
}

// CountByCategory counts a user's items labeled with a category
func (r *ItemRepository) CountByCategory(categoryID, userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Item{}).
		Where("category_id = ? AND user_id = ?", categoryID, userID).Count(&count).Error
	return count, err
}

// CountByContainer counts items referencing a container
func (r *ItemRepository) CountByContainer(containerID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Item{}).
		Where("container_id = ?", containerID).Count(&count).Error
	return count, err
}

// CountByLocation counts items referencing a location
func (r *ItemRepository) CountByLocation(locationID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Item{}).
		Where("location_id = ?", locationID).Count(&count).Error
	return count, err
}

// Summaries retrieves a bounded id/name/category sample of the user's
// items for oracle context
func (r *ItemRepository) Summaries(userID uint, limit int) ([]models.Item, error) {
	var items []models.Item
	result := r.db.Select("id", "name", "category_id").
		Where("user_id = ?", userID).Limit(limit).Find(&items)
	if result.Error != nil {
		return nil, result.Error
	}
	return items, nil
}

// Update persists item changes
func (r *ItemRepository) Update(item *models.Item) error {
	return r.db.Save(item).Error
}

// Delete removes an item
func (r *ItemRepository) Delete(id, userID uint) error {
	return r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Item{}).Error
}
