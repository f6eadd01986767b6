package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homestash/internal/oracle"
)

type fakeAssistant struct {
	guess     *oracle.ItemGuess
	placement *oracle.Placement
	answer    *oracle.Answer
	down      bool

	lastQuery string
	lastInv   oracle.InventoryContext
}

func (f *fakeAssistant) IdentifyItem(ctx context.Context, description string, vision *oracle.VisionData) (*oracle.ItemGuess, error) {
	if f.down {
		return nil, oracle.ErrUnavailable
	}
	return f.guess, nil
}

func (f *fakeAssistant) EnhanceBarcode(ctx context.Context, barcode, barcodeType string, vision *oracle.VisionData) (*oracle.ItemGuess, error) {
	if f.down {
		return nil, oracle.ErrUnavailable
	}
	return f.guess, nil
}

func (f *fakeAssistant) SuggestPlacement(ctx context.Context, item oracle.ItemGuess, locations []oracle.CandidateLocation, containers []oracle.CandidateContainer) (*oracle.Placement, error) {
	if f.down {
		return nil, oracle.ErrUnavailable
	}
	return f.placement, nil
}

func (f *fakeAssistant) AnswerQuery(ctx context.Context, query string, inv oracle.InventoryContext) (*oracle.Answer, error) {
	if f.down {
		return nil, oracle.ErrUnavailable
	}
	f.lastQuery = query
	f.lastInv = inv
	return f.answer, nil
}

func (env *testEnv) newAIService(assistant oracle.Assistant, vision oracle.Vision) *AIService {
	return NewAIService(
		assistant, vision,
		env.itemRepo, env.categoryRepo, env.locationRepo, env.containerRepo,
	)
}

func TestIdentifyRequiresInput(t *testing.T) {
	env := newTestEnv(t)
	svc := env.newAIService(&fakeAssistant{}, nil)

	_, err := svc.Identify(context.Background(), &IdentifyRequest{})
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestIdentifyFromDescription(t *testing.T) {
	env := newTestEnv(t)
	assistant := &fakeAssistant{guess: &oracle.ItemGuess{
		Name:       "Cordless drill",
		Category:   "Tools",
		Confidence: 85,
	}}
	svc := env.newAIService(assistant, nil)

	result, err := svc.Identify(context.Background(), &IdentifyRequest{
		Description: "yellow power tool with a chuck",
	})
	require.NoError(t, err)
	assert.Equal(t, "Cordless drill", result.Guess.Name)
	assert.Equal(t, 85, result.Guess.Confidence)
	assert.Nil(t, result.Vision)
}

func TestIdentifyFallsBackToVisionWhenAssistantDown(t *testing.T) {
	env := newTestEnv(t)
	vision := &fakeVision{data: &oracle.VisionData{
		Labels:  []oracle.VisionLabel{{Description: "power tool", Confidence: 92}},
		Objects: []oracle.VisionObject{{Name: "Drill", Confidence: 88}},
		Logos:   []string{"DeWalt"},
	}}
	svc := env.newAIService(&fakeAssistant{down: true}, vision)

	result, err := svc.Identify(context.Background(), &IdentifyRequest{Image: []byte("img")})
	require.NoError(t, err)
	assert.Equal(t, "Drill", result.Guess.Name)
	assert.Equal(t, "DeWalt", result.Guess.Brand)
	assert.LessOrEqual(t, result.Guess.Confidence, 30)
	require.NotNil(t, result.Vision)
}

func TestIdentifyFailsOnlyWithNoSignal(t *testing.T) {
	env := newTestEnv(t)

	// Assistant down, no image: nothing to fall back on
	svc := env.newAIService(&fakeAssistant{down: true}, nil)
	_, err := svc.Identify(context.Background(), &IdentifyRequest{Description: "a thing"})
	var depErr *DependencyError
	assert.ErrorAs(t, err, &depErr)

	// Assistant down AND vision down
	svc = env.newAIService(&fakeAssistant{down: true}, &fakeVision{down: true})
	_, err = svc.Identify(context.Background(), &IdentifyRequest{Image: []byte("img")})
	assert.ErrorAs(t, err, &depErr)

	// Barcode-only with the assistant down: no partial guess is invented
	svc = env.newAIService(&fakeAssistant{down: true}, nil)
	_, err = svc.Identify(context.Background(), &IdentifyRequest{
		Barcode:     "4006381333931",
		BarcodeType: "EAN-13",
	})
	assert.ErrorAs(t, err, &depErr)
}

func TestSuggestPlacementDropsUnknownIDs(t *testing.T) {
	env := newTestEnv(t)
	garage := env.mustLocation(t, "Garage", nil)
	box := env.mustContainer(t, "Box 1", &garage.ID, nil)

	bogus := uint(9999)
	assistant := &fakeAssistant{placement: &oracle.Placement{
		LocationID:  &garage.ID,
		ContainerID: &bogus,
		Reasoning:   "tools live in the garage",
	}}
	svc := env.newAIService(assistant, nil)

	placement, err := svc.SuggestPlacement(context.Background(), env.userID, oracle.ItemGuess{Name: "Drill"})
	require.NoError(t, err)
	require.NotNil(t, placement.LocationID)
	assert.Equal(t, garage.ID, *placement.LocationID)
	assert.Nil(t, placement.ContainerID) // hallucinated id dropped

	// A known container id survives
	assistant.placement = &oracle.Placement{ContainerID: &box.ID}
	placement, err = svc.SuggestPlacement(context.Background(), env.userID, oracle.ItemGuess{Name: "Drill"})
	require.NoError(t, err)
	require.NotNil(t, placement.ContainerID)
	assert.Equal(t, box.ID, *placement.ContainerID)
}

func TestSuggestPlacementValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := env.newAIService(&fakeAssistant{}, nil)

	_, err := svc.SuggestPlacement(context.Background(), env.userID, oracle.ItemGuess{})
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)

	// Nothing to choose from yet
	_, err = svc.SuggestPlacement(context.Background(), env.userID, oracle.ItemGuess{Name: "Drill"})
	assert.ErrorAs(t, err, &validationErr)

	svc = env.newAIService(nil, nil)
	_, err = svc.SuggestPlacement(context.Background(), env.userID, oracle.ItemGuess{Name: "Drill"})
	var depErr *DependencyError
	assert.ErrorAs(t, err, &depErr)
}

func TestQueryBuildsInventoryContext(t *testing.T) {
	env := newTestEnv(t)

	tools, err := env.categories.Create(env.userID, &CreateCategoryRequest{Name: "Tools"})
	require.NoError(t, err)
	env.mustLocation(t, "Garage", nil)
	env.mustItem(t, "Drill", CreateItemRequest{CategoryID: &tools.ID})
	env.mustItem(t, "Hammer", CreateItemRequest{})

	assistant := &fakeAssistant{answer: &oracle.Answer{Text: "two items", Confidence: 70}}
	svc := env.newAIService(assistant, nil)

	answer, err := svc.Query(context.Background(), env.userID, "what do I own?")
	require.NoError(t, err)
	assert.Equal(t, "two items", answer.Text)
	assert.Equal(t, "what do I own?", assistant.lastQuery)
	assert.Equal(t, 2, assistant.lastInv.ItemCount)
	assert.Contains(t, assistant.lastInv.CategoryNames, "Tools")
	assert.Contains(t, assistant.lastInv.LocationNames, "Garage")

	_, err = svc.Query(context.Background(), env.userID, "   ")
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)

	down := env.newAIService(&fakeAssistant{down: true}, nil)
	_, err = down.Query(context.Background(), env.userID, "anything")
	var depErr *DependencyError
	assert.ErrorAs(t, err, &depErr)
}
