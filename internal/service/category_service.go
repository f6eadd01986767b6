package service

import (
	"errors"

	"github.com/homestash/internal/models"
	"github.com/homestash/internal/repository"
)

// CategoryService performs validated category CRUD scoped to an owner
type CategoryService struct {
	categoryRepo *repository.CategoryRepository
	itemRepo     *repository.ItemRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo *repository.CategoryRepository, itemRepo *repository.ItemRepository) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		itemRepo:     itemRepo,
	}
}

// CreateCategoryRequest represents the category creation request
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// UpdateCategoryRequest represents a partial category update
type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// List returns the user's categories with item counts
func (s *CategoryService) List(userID uint) ([]models.Category, error) {
	categories, err := s.categoryRepo.ListByUserID(userID)
	if err != nil {
		return nil, err
	}

	counts, err := s.categoryRepo.ItemCounts(userID)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		categories[i].ItemCount = counts[categories[i].ID]
	}
	return categories, nil
}

// Get returns one category with its items
func (s *CategoryService) Get(id, userID uint) (*models.Category, error) {
	category, err := s.categoryRepo.GetByIDAndUserID(id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, notFound("category")
		}
		return nil, err
	}

	items, err := s.itemRepo.ListByCategory(id, userID)
	if err != nil {
		return nil, err
	}
	category.Items = items
	return category, nil
}

// Create inserts a category; names are unique per owner
func (s *CategoryService) Create(userID uint, req *CreateCategoryRequest) (*models.Category, error) {
	if req.Name == "" {
		return nil, validationf("category name is required")
	}

	if _, err := s.categoryRepo.GetByNameAndUserID(req.Name, userID); err == nil {
		return nil, conflictf(ConflictDuplicateName, 0, "category with this name already exists")
	} else if !errors.Is(err, repository.ErrCategoryNotFound) {
		return nil, err
	}

	category := &models.Category{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Update applies a partial update; unspecified fields retain prior values
func (s *CategoryService) Update(id, userID uint, req *UpdateCategoryRequest) (*models.Category, error) {
	category, err := s.categoryRepo.GetByIDAndUserID(id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, notFound("category")
		}
		return nil, err
	}

	if req.Name != nil && *req.Name != "" && *req.Name != category.Name {
		if existing, err := s.categoryRepo.GetByNameAndUserID(*req.Name, userID); err == nil && existing.ID != id {
			return nil, conflictf(ConflictDuplicateName, 0, "category with this name already exists")
		} else if err != nil && !errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, err
		}
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}

	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes a category; refused while items still reference it
func (s *CategoryService) Delete(id, userID uint) error {
	if _, err := s.categoryRepo.GetByIDAndUserID(id, userID); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return notFound("category")
		}
		return err
	}

	itemCount, err := s.itemRepo.CountByCategory(id, userID)
	if err != nil {
		return err
	}
	if itemCount > 0 {
		return conflictf(ConflictItems, itemCount,
			"cannot delete category with %d item(s); reassign or delete them first", itemCount)
	}

	return s.categoryRepo.Delete(id, userID)
}
