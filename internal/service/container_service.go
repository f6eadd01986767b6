package service

import (
	"errors"

	"github.com/homestash/internal/hierarchy"
	"github.com/homestash/internal/models"
	"github.com/homestash/internal/repository"
)

// ContainerService performs validated container CRUD and maintains the
// container tree invariants. Nesting and location placement are
// independent: both, either, or neither may be set.
type ContainerService struct {
	containerRepo *repository.ContainerRepository
	locationRepo  *repository.LocationRepository
	itemRepo      *repository.ItemRepository
}

// NewContainerService creates a new ContainerService
func NewContainerService(
	containerRepo *repository.ContainerRepository,
	locationRepo *repository.LocationRepository,
	itemRepo *repository.ItemRepository,
) *ContainerService {
	return &ContainerService{
		containerRepo: containerRepo,
		locationRepo:  locationRepo,
		itemRepo:      itemRepo,
	}
}

// CreateContainerRequest represents the container creation request
type CreateContainerRequest struct {
	Name              string `json:"name" form:"name" binding:"required,max=100"`
	Description       string `json:"description" form:"description" binding:"max=500"`
	LocationID        *uint  `json:"location_id" form:"location_id"`
	ParentContainerID *uint  `json:"parent_container_id" form:"parent_container_id"`
	Barcode           string `json:"barcode" form:"barcode" binding:"max=100"`
	BarcodeType       string `json:"barcode_type" form:"barcode_type" binding:"max=20"`
	ImagePath         string `json:"-" form:"-"`
}

// UpdateContainerRequest represents a partial container update
type UpdateContainerRequest struct {
	Name              *string     `json:"name"`
	Description       *string     `json:"description"`
	LocationID        OptionalRef `json:"location_id"`
	ParentContainerID OptionalRef `json:"parent_container_id"`
	Barcode           *string     `json:"barcode"`
	BarcodeType       *string     `json:"barcode_type"`
	ImagePath         *string     `json:"-"`
}

// List returns the user's containers with counts and location names,
// optionally filtered to one location, flat or as a forest
func (s *ContainerService) List(userID uint, locationID *uint, flat bool) ([]*models.Container, error) {
	containers, err := s.containerRepo.ListByUserID(userID, locationID)
	if err != nil {
		return nil, err
	}

	itemCounts, err := s.containerRepo.ItemCounts(userID)
	if err != nil {
		return nil, err
	}
	childCounts, err := s.containerRepo.ChildCounts(userID)
	if err != nil {
		return nil, err
	}
	locationNames, err := s.locationRepo.NamesByUserID(userID)
	if err != nil {
		return nil, err
	}
	for _, c := range containers {
		c.ItemCount = itemCounts[c.ID]
		c.ChildCount = childCounts[c.ID]
		if c.LocationID != nil {
			c.LocationName = locationNames[*c.LocationID]
		}
	}

	if flat {
		return containers, nil
	}
	return hierarchy.Forest(containers, func(parent *models.Container, children []*models.Container) {
		parent.Children = children
	}), nil
}

// Get returns one container enriched with parent, children and contents
func (s *ContainerService) Get(id, userID uint) (*models.ContainerDetail, error) {
	container, err := s.containerRepo.GetByIDAndUserID(id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrContainerNotFound) {
			return nil, notFound("container")
		}
		return nil, err
	}

	detail := &models.ContainerDetail{Container: *container}
	if err := s.decorate(&detail.Container, userID); err != nil {
		return nil, err
	}

	if container.ParentContainerID != nil {
		parent, err := s.containerRepo.GetByIDAndUserID(*container.ParentContainerID, userID)
		if err == nil {
			detail.Parent = &models.NodeRef{ID: parent.ID, Name: parent.Name}
		} else if !errors.Is(err, repository.ErrContainerNotFound) {
			return nil, err
		}
	}

	if detail.ChildContainers, err = s.containerRepo.ChildrenOf(id, userID); err != nil {
		return nil, err
	}
	if detail.Items, err = s.itemRepo.ListByContainer(id, userID); err != nil {
		return nil, err
	}

	return detail, nil
}

// GetByBarcode returns the container carrying a barcode, with its items
func (s *ContainerService) GetByBarcode(barcode string, userID uint) (*models.ContainerDetail, error) {
	container, err := s.containerRepo.GetByBarcode(barcode, userID)
	if err != nil {
		if errors.Is(err, repository.ErrContainerNotFound) {
			return nil, notFound("container")
		}
		return nil, err
	}

	detail := &models.ContainerDetail{Container: *container}
	if err := s.decorate(&detail.Container, userID); err != nil {
		return nil, err
	}
	if detail.Items, err = s.itemRepo.ListByContainer(container.ID, userID); err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *ContainerService) decorate(container *models.Container, userID uint) error {
	if container.LocationID == nil {
		return nil
	}
	location, err := s.locationRepo.GetByIDAndUserID(*container.LocationID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return nil
		}
		return err
	}
	container.LocationName = location.Name
	return nil
}

// Create inserts a container after validating the optional location and
// parent references
func (s *ContainerService) Create(userID uint, req *CreateContainerRequest) (*models.Container, error) {
	if req.Name == "" {
		return nil, validationf("container name is required")
	}

	if req.LocationID != nil {
		if _, err := s.locationRepo.GetByIDAndUserID(*req.LocationID, userID); err != nil {
			if errors.Is(err, repository.ErrLocationNotFound) {
				return nil, validationf("location not found")
			}
			return nil, err
		}
	}
	if req.ParentContainerID != nil {
		if _, err := s.containerRepo.GetByIDAndUserID(*req.ParentContainerID, userID); err != nil {
			if errors.Is(err, repository.ErrContainerNotFound) {
				return nil, validationf("parent container not found")
			}
			return nil, err
		}
	}

	container := &models.Container{
		UserID:            userID,
		Name:              req.Name,
		Description:       req.Description,
		LocationID:        req.LocationID,
		ParentContainerID: req.ParentContainerID,
		Barcode:           req.Barcode,
		BarcodeType:       req.BarcodeType,
		ImagePath:         req.ImagePath,
	}
	if err := s.containerRepo.Create(container); err != nil {
		return nil, err
	}
	return container, nil
}

// Update applies a partial update. Changing the parent runs the full
// re-parent validation; changing the location re-checks existence and
// ownership.
func (s *ContainerService) Update(id, userID uint, req *UpdateContainerRequest) (*models.Container, error) {
	container, err := s.containerRepo.GetByIDAndUserID(id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrContainerNotFound) {
			return nil, notFound("container")
		}
		return nil, err
	}

	if req.ParentContainerID.Set && req.ParentContainerID.Value != nil {
		newParent := *req.ParentContainerID.Value

		if _, err := s.containerRepo.GetByIDAndUserID(newParent, userID); err != nil {
			if errors.Is(err, repository.ErrContainerNotFound) {
				return nil, validationf("parent container not found")
			}
			return nil, err
		}

		if newParent == id {
			return nil, conflictf(ConflictCycle, 0, "container cannot be its own parent")
		}
		all, err := s.containerRepo.ListByUserID(userID, nil)
		if err != nil {
			return nil, err
		}
		if err := hierarchy.ValidateReparent(all, id, newParent); err != nil {
			return nil, conflictf(ConflictCycle, 0,
				"cannot set a descendant container as parent (circular reference)")
		}
	}

	if req.LocationID.Set && req.LocationID.Value != nil {
		if _, err := s.locationRepo.GetByIDAndUserID(*req.LocationID.Value, userID); err != nil {
			if errors.Is(err, repository.ErrLocationNotFound) {
				return nil, validationf("location not found")
			}
			return nil, err
		}
	}

	if req.Name != nil && *req.Name != "" {
		container.Name = *req.Name
	}
	if req.Description != nil {
		container.Description = *req.Description
	}
	if req.LocationID.Set {
		container.LocationID = req.LocationID.Value
	}
	if req.ParentContainerID.Set {
		container.ParentContainerID = req.ParentContainerID.Value
	}
	if req.Barcode != nil {
		container.Barcode = *req.Barcode
	}
	if req.BarcodeType != nil {
		container.BarcodeType = *req.BarcodeType
	}
	if req.ImagePath != nil {
		container.ImagePath = *req.ImagePath
	}

	if err := s.containerRepo.Update(container); err != nil {
		return nil, err
	}
	return container, nil
}

// Delete removes a container once nothing depends on it: no child
// containers and no items inside.
func (s *ContainerService) Delete(id, userID uint) error {
	if _, err := s.containerRepo.GetByIDAndUserID(id, userID); err != nil {
		if errors.Is(err, repository.ErrContainerNotFound) {
			return notFound("container")
		}
		return err
	}

	childCount, err := s.containerRepo.ChildCount(id)
	if err != nil {
		return err
	}
	if childCount > 0 {
		return conflictf(ConflictChildContainers, childCount,
			"cannot delete container with %d child container(s); delete or move them first", childCount)
	}

	itemCount, err := s.itemRepo.CountByContainer(id)
	if err != nil {
		return err
	}
	if itemCount > 0 {
		return conflictf(ConflictItems, itemCount,
			"cannot delete container with %d item(s); move or delete them first", itemCount)
	}

	return s.containerRepo.Delete(id, userID)
}
