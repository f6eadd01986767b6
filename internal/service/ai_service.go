package service

import (
	"context"
	"strings"

	"github.com/homestash/internal/oracle"
	"github.com/homestash/internal/repository"
)

// Free-text questions get a bounded inventory sample, not the whole store
const queryContextLimit = 100

// AIService drives the oracle-backed identification flows. A single
// failing oracle degrades the answer; only a request left with no signal
// at all fails.
type AIService struct {
	assistant     oracle.Assistant
	vision        oracle.Vision
	itemRepo      *repository.ItemRepository
	categoryRepo  *repository.CategoryRepository
	locationRepo  *repository.LocationRepository
	containerRepo *repository.ContainerRepository
}

// NewAIService creates a new AIService. Either oracle may be nil when
// unconfigured.
func NewAIService(
	assistant oracle.Assistant,
	vision oracle.Vision,
	itemRepo *repository.ItemRepository,
	categoryRepo *repository.CategoryRepository,
	locationRepo *repository.LocationRepository,
	containerRepo *repository.ContainerRepository,
) *AIService {
	return &AIService{
		assistant:     assistant,
		vision:        vision,
		itemRepo:      itemRepo,
		categoryRepo:  categoryRepo,
		locationRepo:  locationRepo,
		containerRepo: containerRepo,
	}
}

// IdentifyRequest carries the inputs for item identification. At least
// one of Description, Image or Barcode must be present.
type IdentifyRequest struct {
	Description string
	Image       []byte
	Barcode     string
	BarcodeType string
}

// IdentifyResult is the identification outcome plus the raw vision
// signal it was built from
type IdentifyResult struct {
	Guess  *oracle.ItemGuess  `json:"guess"`
	Vision *oracle.VisionData `json:"vision,omitempty"`
}

// Identify guesses what an item is from a photo, a description, a
// barcode, or any combination. Vision failure falls back to text-only
// identification; assistant failure falls back to a low-confidence guess
// built from the vision labels. Only when no oracle produced anything
// does the call fail.
func (s *AIService) Identify(ctx context.Context, req *IdentifyRequest) (*IdentifyResult, error) {
	if req.Description == "" && len(req.Image) == 0 && req.Barcode == "" {
		return nil, validationf("provide a description, an image, or a barcode")
	}

	var visionData *oracle.VisionData
	if len(req.Image) > 0 && s.vision != nil {
		if data, err := s.vision.Analyze(ctx, req.Image); err == nil {
			visionData = data
		}
	}

	if s.assistant != nil {
		var guess *oracle.ItemGuess
		var err error
		if req.Barcode != "" {
			guess, err = s.assistant.EnhanceBarcode(ctx, req.Barcode, req.BarcodeType, visionData)
		} else {
			guess, err = s.assistant.IdentifyItem(ctx, req.Description, visionData)
		}
		if err == nil {
			return &IdentifyResult{Guess: guess, Vision: visionData}, nil
		}
	}

	if guess := guessFromVision(visionData); guess != nil {
		return &IdentifyResult{Guess: guess, Vision: visionData}, nil
	}
	return nil, &DependencyError{Service: "identification", Err: oracle.ErrUnavailable}
}

// guessFromVision builds a last-resort guess from raw vision output when
// the assistant is down. Confidence is capped low so callers can tell it
// apart from a real identification.
func guessFromVision(data *oracle.VisionData) *oracle.ItemGuess {
	if data == nil {
		return nil
	}

	name := ""
	if len(data.Objects) > 0 {
		name = data.Objects[0].Name
	} else if len(data.Labels) > 0 {
		name = data.Labels[0].Description
	}
	if name == "" {
		return nil
	}

	var labels []string
	for _, l := range data.Labels {
		labels = append(labels, l.Description)
	}
	guess := &oracle.ItemGuess{
		Name:       name,
		Confidence: 30,
	}
	if len(labels) > 0 {
		guess.Description = "Possibly: " + strings.Join(labels, ", ")
	}
	if len(data.Logos) > 0 {
		guess.Brand = data.Logos[0]
	}
	return guess
}

// SuggestPlacement asks the assistant where an identified item should be
// stored, choosing among the user's existing locations and containers
func (s *AIService) SuggestPlacement(ctx context.Context, userID uint, item oracle.ItemGuess) (*oracle.Placement, error) {
	if item.Name == "" {
		return nil, validationf("item name is required")
	}
	if s.assistant == nil {
		return nil, &DependencyError{Service: "assistant", Err: oracle.ErrUnavailable}
	}

	locations, err := s.locationRepo.ListByUserID(userID)
	if err != nil {
		return nil, err
	}
	containers, err := s.containerRepo.ListByUserID(userID, nil)
	if err != nil {
		return nil, err
	}
	locationNames, err := s.locationRepo.NamesByUserID(userID)
	if err != nil {
		return nil, err
	}
	if len(locations) == 0 && len(containers) == 0 {
		return nil, validationf("no locations or containers to choose from; create some first")
	}

	candidateLocations := make([]oracle.CandidateLocation, 0, len(locations))
	for _, l := range locations {
		candidateLocations = append(candidateLocations, oracle.CandidateLocation{
			ID:          l.ID,
			Name:        l.Name,
			Description: l.Description,
		})
	}
	candidateContainers := make([]oracle.CandidateContainer, 0, len(containers))
	for _, c := range containers {
		cand := oracle.CandidateContainer{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
		}
		if c.LocationID != nil {
			cand.LocationName = locationNames[*c.LocationID]
		}
		candidateContainers = append(candidateContainers, cand)
	}

	placement, err := s.assistant.SuggestPlacement(ctx, item, candidateLocations, candidateContainers)
	if err != nil {
		return nil, &DependencyError{Service: "assistant", Err: err}
	}

	// The assistant answers with ids it was shown; drop anything it
	// hallucinated outside the candidate set.
	if placement.LocationID != nil && !containsLocation(candidateLocations, *placement.LocationID) {
		placement.LocationID = nil
	}
	if placement.ContainerID != nil && !containsContainer(candidateContainers, *placement.ContainerID) {
		placement.ContainerID = nil
	}
	return placement, nil
}

func containsLocation(candidates []oracle.CandidateLocation, id uint) bool {
	for _, c := range candidates {
		if c.ID == id {
			return true
		}
	}
	return false
}

func containsContainer(candidates []oracle.CandidateContainer, id uint) bool {
	for _, c := range candidates {
		if c.ID == id {
			return true
		}
	}
	return false
}

// Query answers a free-text question about the user's inventory
func (s *AIService) Query(ctx context.Context, userID uint, query string) (*oracle.Answer, error) {
	if strings.TrimSpace(query) == "" {
		return nil, validationf("query is required")
	}
	if s.assistant == nil {
		return nil, &DependencyError{Service: "assistant", Err: oracle.ErrUnavailable}
	}

	items, err := s.itemRepo.Summaries(userID, queryContextLimit)
	if err != nil {
		return nil, err
	}
	categoryNames, err := s.categoryRepo.NamesByUserID(userID)
	if err != nil {
		return nil, err
	}
	locationNames, err := s.locationRepo.NamesByUserID(userID)
	if err != nil {
		return nil, err
	}

	inv := oracle.InventoryContext{ItemCount: len(items)}
	for _, name := range categoryNames {
		inv.CategoryNames = append(inv.CategoryNames, name)
	}
	for _, name := range locationNames {
		inv.LocationNames = append(inv.LocationNames, name)
	}

	answer, err := s.assistant.AnswerQuery(ctx, query, inv)
	if err != nil {
		return nil, &DependencyError{Service: "assistant", Err: err}
	}
	return answer, nil
}
