package service

import (
	"errors"

	"github.com/homestash/internal/hierarchy"
	"github.com/homestash/internal/models"
	"github.com/homestash/internal/repository"
)

// LocationService performs validated location CRUD and maintains the
// location tree invariants
type LocationService struct {
	locationRepo  *repository.LocationRepository
	containerRepo *repository.ContainerRepository
	itemRepo      *repository.ItemRepository
}

// NewLocationService creates a new LocationService
func NewLocationService(
	locationRepo *repository.LocationRepository,
	containerRepo *repository.ContainerRepository,
	itemRepo *repository.ItemRepository,
) *LocationService {
	return &LocationService{
		locationRepo:  locationRepo,
		containerRepo: containerRepo,
		itemRepo:      itemRepo,
	}
}

// CreateLocationRequest represents the location creation request
type CreateLocationRequest struct {
	Name             string `json:"name" form:"name" binding:"required,max=100"`
	Description      string `json:"description" form:"description" binding:"max=500"`
	ParentLocationID *uint  `json:"parent_location_id" form:"parent_location_id"`
	ImagePath        string `json:"-" form:"-"`
}

// UpdateLocationRequest represents a partial location update
type UpdateLocationRequest struct {
	Name             *string     `json:"name"`
	Description      *string     `json:"description"`
	ParentLocationID OptionalRef `json:"parent_location_id"`
	ImagePath        *string     `json:"-"`
}

// List returns the user's locations with counts, flat or as a forest
func (s *LocationService) List(userID uint, flat bool) ([]*models.Location, error) {
	locations, err := s.locationRepo.ListByUserID(userID)
	if err != nil {
		return nil, err
	}

	containerCounts, err := s.locationRepo.ContainerCounts(userID)
	if err != nil {
		return nil, err
	}
	itemCounts, err := s.locationRepo.ItemCounts(userID)
	if err != nil {
		return nil, err
	}
	for _, l := range locations {
		l.ContainerCount = containerCounts[l.ID]
		l.ItemCount = itemCounts[l.ID]
	}

	if flat {
		return locations, nil
	}
	return hierarchy.Forest(locations, func(parent *models.Location, children []*models.Location) {
		parent.Children = children
	}), nil
}

// Get returns one location enriched with parent, children and contents
func (s *LocationService) Get(id, userID uint) (*models.LocationDetail, error) {
	location, err := s.locationRepo.GetByIDAndUserID(id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return nil, notFound("location")
		}
		return nil, err
	}

	detail := &models.LocationDetail{Location: *location}

	if location.ParentLocationID != nil {
		parent, err := s.locationRepo.GetByIDAndUserID(*location.ParentLocationID, userID)
		if err == nil {
			detail.Parent = &models.NodeRef{ID: parent.ID, Name: parent.Name}
		} else if !errors.Is(err, repository.ErrLocationNotFound) {
			return nil, err
		}
	}

	if detail.ChildLocations, err = s.locationRepo.ChildrenOf(id, userID); err != nil {
		return nil, err
	}

	containers, err := s.containerRepo.ListByUserID(userID, &id)
	if err != nil {
		return nil, err
	}
	detail.Containers = make([]models.Container, 0, len(containers))
	for _, c := range containers {
		detail.Containers = append(detail.Containers, *c)
	}

	if detail.Items, err = s.itemRepo.ListByLocation(id, userID); err != nil {
		return nil, err
	}

	return detail, nil
}

// Create inserts a location after validating the optional parent
func (s *LocationService) Create(userID uint, req *CreateLocationRequest) (*models.Location, error) {
	if req.Name == "" {
		return nil, validationf("location name is required")
	}

	if req.ParentLocationID != nil {
		if _, err := s.locationRepo.GetByIDAndUserID(*req.ParentLocationID, userID); err != nil {
			if errors.Is(err, repository.ErrLocationNotFound) {
				return nil, validationf("parent location not found")
			}
			return nil, err
		}
	}

	location := &models.Location{
		UserID:           userID,
		Name:             req.Name,
		Description:      req.Description,
		ParentLocationID: req.ParentLocationID,
		ImagePath:        req.ImagePath,
	}
	if err := s.locationRepo.Create(location); err != nil {
		return nil, err
	}
	return location, nil
}

// Update applies a partial update. Changing the parent runs the full
// re-parent validation: the new parent must exist, belong to the same
// user, and lie outside this location's subtree.
func (s *LocationService) Update(id, userID uint, req *UpdateLocationRequest) (*models.Location, error) {
	location, err := s.locationRepo.GetByIDAndUserID(id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return nil, notFound("location")
		}
		return nil, err
	}

	if req.ParentLocationID.Set && req.ParentLocationID.Value != nil {
		newParent := *req.ParentLocationID.Value

		if _, err := s.locationRepo.GetByIDAndUserID(newParent, userID); err != nil {
			if errors.Is(err, repository.ErrLocationNotFound) {
				return nil, validationf("parent location not found")
			}
			return nil, err
		}

		if newParent == id {
			return nil, conflictf(ConflictCycle, 0, "location cannot be its own parent")
		}
		all, err := s.locationRepo.ListByUserID(userID)
		if err != nil {
			return nil, err
		}
		if err := hierarchy.ValidateReparent(all, id, newParent); err != nil {
			return nil, conflictf(ConflictCycle, 0,
				"cannot set a descendant location as parent (circular reference)")
		}
	}

	if req.Name != nil && *req.Name != "" {
		location.Name = *req.Name
	}
	if req.Description != nil {
		location.Description = *req.Description
	}
	if req.ParentLocationID.Set {
		location.ParentLocationID = req.ParentLocationID.Value
	}
	if req.ImagePath != nil {
		location.ImagePath = *req.ImagePath
	}

	if err := s.locationRepo.Update(location); err != nil {
		return nil, err
	}
	return location, nil
}

// Delete removes a location once nothing depends on it: no child
// locations, no containers placed here, no items placed here.
func (s *LocationService) Delete(id, userID uint) error {
	if _, err := s.locationRepo.GetByIDAndUserID(id, userID); err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return notFound("location")
		}
		return err
	}

	childCount, err := s.locationRepo.ChildCount(id)
	if err != nil {
		return err
	}
	if childCount > 0 {
		return conflictf(ConflictChildLocations, childCount,
			"cannot delete location with %d child location(s); delete or move them first", childCount)
	}

	containerCounts, err := s.locationRepo.ContainerCounts(userID)
	if err != nil {
		return err
	}
	if count := containerCounts[id]; count > 0 {
		return conflictf(ConflictContainers, count,
			"cannot delete location with %d container(s); move or delete them first", count)
	}

	itemCount, err := s.itemRepo.CountByLocation(id)
	if err != nil {
		return err
	}
	if itemCount > 0 {
		return conflictf(ConflictItems, itemCount,
			"cannot delete location with %d item(s); move or delete them first", itemCount)
	}

	return s.locationRepo.Delete(id, userID)
}
