package repository

import (
	"errors"

	"github.com/homestash/internal/models"
	"gorm.io/gorm"
)

var (
	ErrLocationNotFound = errors.New("location not found")
)

// LocationRepository handles location data access
type LocationRepository struct {
	db *gorm.DB
}

// NewLocationRepository creates a new LocationRepository
func NewLocationRepository(db *gorm.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// Create creates a new location
func (r *LocationRepository) Create(location *models.Location) error {
	return r.db.Create(location).Error
}

// GetByIDAndUserID retrieves a location scoped to its owner
func (r *LocationRepository) GetByIDAndUserID(id, userID uint) (*models.Location, error) {
	var location models.Location
	result := r.db.Where("id = ? AND user_id = ?", id, userID).First(&location)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, result.Error
	}
	return &location, nil
}

// ListByUserID retrieves the user's full flat location list ordered by name
func (r *LocationRepository) ListByUserID(userID uint) ([]*models.Location, error) {
	var locations []*models.Location
	result := r.db.Where("user_id = ?", userID).Order("name").Find(&locations)
	if result.Error != nil {
		return nil, result.Error
	}
	return locations, nil
}

// ChildrenOf retrieves the direct sub-locations of a location
func (r *LocationRepository) ChildrenOf(id, userID uint) ([]models.Location, error) {
	var children []models.Location
	result := r.db.Where("parent_location_id = ? AND user_id = ?", id, userID).
		Order("name").Find(&children)
	if result.Error != nil {
		return nil, result.Error
	}
	return children, nil
}

// ChildCount counts direct sub-locations
func (r *LocationRepository) ChildCount(id uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Location{}).
		Where("parent_location_id = ?", id).Count(&count).Error
	return count, err
}

// ContainerCounts returns container counts grouped by location for a user
func (r *LocationRepository) ContainerCounts(userID uint) (map[uint]int64, error) {
	type row struct {
		Ref   uint
		Count int64
	}
	var rows []row
	err := r.db.Model(&models.Container{}).
		Select("location_id as ref, count(*) as count").
		Where("user_id = ? AND location_id IS NOT NULL", userID).
		Group("location_id").
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

// ItemCounts returns item counts grouped by location for a user
func (r *LocationRepository) ItemCounts(userID uint) (map[uint]int64, error) {
	return groupedCounts(r.db, userID, "location_id")
}

// NamesByUserID maps the user's location ids to display names
func (r *LocationRepository) NamesByUserID(userID uint) (map[uint]string, error) {
	var locations []models.Location
	if err := r.db.Select("id", "name").Where("user_id = ?", userID).Find(&locations).Error; err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(locations))
	for _, l := range locations {
		names[l.ID] = l.Name
	}
	return names, nil
}

// Update persists location changes
func (r *LocationRepository) Update(location *models.Location) error {
	return r.db.Save(location).Error
}

// Delete removes a location
func (r *LocationRepository) Delete(id, userID uint) error {
	return r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Location{}).Error
}
