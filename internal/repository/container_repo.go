package repository

import (
	"errors"

	"github.com/homestash/internal/models"
	"gorm.io/gorm"
)

var (
	ErrContainerNotFound = errors.New("container not found")
)

// ContainerRepository handles container data access
type ContainerRepository struct {
	db *gorm.DB
}

// NewContainerRepository creates a new ContainerRepository
func NewContainerRepository(db *gorm.DB) *ContainerRepository {
	return &ContainerRepository{db: db}
}

// Create creates a new container
func (r *ContainerRepository) Create(container *models.Container) error {
	return r.db.Create(container).Error
}

// GetByIDAndUserID retrieves a container scoped to its owner
func (r *ContainerRepository) GetByIDAndUserID(id, userID uint) (*models.Container, error) {
	var container models.Container
	result := r.db.Where("id = ? AND user_id = ?", id, userID).First(&container)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrContainerNotFound
		}
		return nil, result.Error
	}
	return &container, nil
}

// GetByBarcode retrieves a container by barcode scoped to its owner
func (r *ContainerRepository) GetByBarcode(barcode string, userID uint) (*models.Container, error) {
	var container models.Container
	result := r.db.Where("barcode = ? AND user_id = ?", barcode, userID).First(&container)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrContainerNotFound
		}
		return nil, result.Error
	}
	return &container, nil
}

// ListByUserID retrieves the user's flat container list ordered by name,
// optionally filtered to one location
func (r *ContainerRepository) ListByUserID(userID uint, locationID *uint) ([]*models.Container, error) {
	query := r.db.Where("user_id = ?", userID)
	if locationID != nil {
		query = query.Where("location_id = ?", *locationID)
	}

	var containers []*models.Container
	result := query.Order("name").Find(&containers)
	if result.Error != nil {
		return nil, result.Error
	}
	return containers, nil
}

// ChildrenOf retrieves the direct sub-containers of a container
func (r *ContainerRepository) ChildrenOf(id, userID uint) ([]models.Container, error) {
	var children []models.Container
	result := r.db.Where("parent_container_id = ? AND user_id = ?", id, userID).
		Order("name").Find(&children)
	if result.Error != nil {
		return nil, result.Error
	}
	return children, nil
}

// ChildCount counts direct sub-containers
func (r *ContainerRepository) ChildCount(id uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Container{}).
		Where("parent_container_id = ?", id).Count(&count).Error
	return count, err
}

// ChildCounts returns sub-container counts grouped by parent for a user
func (r *ContainerRepository) ChildCounts(userID uint) (map[uint]int64, error) {
	type row struct {
		Ref   uint
		Count int64
	}
	var rows []row
	err := r.db.Model(&models.Container{}).
		Select("parent_container_id as ref, count(*) as count").
		Where("user_id = ? AND parent_container_id IS NOT NULL", userID).
		Group("parent_container_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.Ref] = r.Count
	}
	return counts, nil
}

// ItemCounts returns item counts grouped by container for a user
func (r *ContainerRepository) ItemCounts(userID uint) (map[uint]int64, error) {
	return groupedCounts(r.db, userID, "container_id")
}

// NamesByUserID maps the user's container ids to display names
func (r *ContainerRepository) NamesByUserID(userID uint) (map[uint]string, error) {
	var containers []models.Container
	if err := r.db.Select("id", "name").Where("user_id = ?", userID).Find(&containers).Error; err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(containers))
	for _, c := range containers {
		names[c.ID] = c.Name
	}
	return names, nil
}

// Update persists container changes
func (r *ContainerRepository) Update(container *models.Container) error {
	return r.db.Save(container).Error
}

// Delete removes a container
func (r *ContainerRepository) Delete(id, userID uint) error {
	return r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Container{}).Error
}
