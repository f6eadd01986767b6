package repository

import (
	"errors"

	"github.com/homestash/internal/models"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
)

// CategoryRepository handles category data access
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create creates a new category
func (r *CategoryRepository) Create(category *models.Category) error {
	return r.db.Create(category).Error
}

// GetByIDAndUserID retrieves a category scoped to its owner
func (r *CategoryRepository) GetByIDAndUserID(id, userID uint) (*models.Category, error) {
	var category models.Category
	result := r.db.Where("id = ? AND user_id = ?", id, userID).First(&category)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, result.Error
	}
	return &category, nil
}

// GetByNameAndUserID retrieves a category by exact name for an owner
func (r *CategoryRepository) GetByNameAndUserID(name string, userID uint) (*models.Category, error) {
	var category models.Category
	result := r.db.Where("name = ? AND user_id = ?", name, userID).First(&category)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, result.Error
	}
	return &category, nil
}

// ListByUserID retrieves all categories for a user ordered by name
func (r *CategoryRepository) ListByUserID(userID uint) ([]models.Category, error) {
	var categories []models.Category
	result := r.db.Where("user_id = ?", userID).Order("name").Find(&categories)
	if result.Error != nil {
		return nil, result.Error
	}
	return categories, nil
}

// ItemCounts returns item counts grouped by category for a user
func (r *CategoryRepository) ItemCounts(userID uint) (map[uint]int64, error) {
	return groupedCounts(r.db, userID, "category_id")
}

// NamesByUserID maps the user's category ids to display names
func (r *CategoryRepository) NamesByUserID(userID uint) (map[uint]string, error) {
	var categories []models.Category
	if err := r.db.Select("id", "name").Where("user_id = ?", userID).Find(&categories).Error; err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names, nil
}

// Update persists category changes
func (r *CategoryRepository) Update(category *models.Category) error {
	return r.db.Save(category).Error
}

// Delete removes a category
func (r *CategoryRepository) Delete(id, userID uint) error {
	return r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Category{}).Error
}

// groupedCounts counts a user's items grouped by the given nullable
// reference column, skipping unset references.
func groupedCounts(db *gorm.DB, userID uint, column string) (map[uint]int64, error) {
	type row struct {
		Ref   uint
		Count int64
	}
	var rows []row
	err := db.Model(&models.Item{}).
		Select(column+" as ref, count(*) as count").
		Where("user_id = ? AND "+column+" IS NOT NULL", userID).
		Group(column).
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
