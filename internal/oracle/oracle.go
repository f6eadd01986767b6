// Package oracle defines the contracts for the external identification
// services (LLM assistant, image analysis, barcode product lookup). The
// rest of the system only depends on these interfaces; any fake satisfying
// them is substitutable, including deterministic fixtures in tests.
package oracle

import (
	"context"
	"errors"
)

// ErrUnavailable marks an oracle that is unconfigured, unreachable, or
// returned an unusable response. Callers decide whether a partial signal
// from another oracle still makes the overall request answerable.
var ErrUnavailable = errors.New("oracle unavailable")

// VisionData is the distilled output of image analysis
type VisionData struct {
	Labels  []VisionLabel  `json:"labels"`
	Objects []VisionObject `json:"objects"`
	Text    string         `json:"text,omitempty"`
	Logos   []string       `json:"logos,omitempty"`
}

// VisionLabel is a scene/content label with confidence 0-100
type VisionLabel struct {
	Description string `json:"description"`
	Confidence  int    `json:"confidence"`
}

// VisionObject is a localized object with confidence 0-100
type VisionObject struct {
	Name       string `json:"name"`
	Confidence int    `json:"confidence"`
}

// Vision analyzes images
type Vision interface {
	// Analyze extracts labels, objects, text and logos from an image.
	Analyze(ctx context.Context, image []byte) (*VisionData, error)
	// DetectText returns raw text fragments found in an image, used for
	// reading barcodes off labels.
	DetectText(ctx context.Context, image []byte) ([]string, error)
}

// ItemGuess is the assistant's best-effort item identification
type ItemGuess struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Brand       string `json:"brand,omitempty"`
	Confidence  int    `json:"confidence"` // 0-100
}

// CandidateLocation is a storage place offered to the assistant
type CandidateLocation struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CandidateContainer is a container offered to the assistant
type CandidateContainer struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	LocationName string `json:"location_name,omitempty"`
}

// Placement is the assistant's storage suggestion
type Placement struct {
	LocationID   *uint    `json:"location_id"`
	ContainerID  *uint    `json:"container_id"`
	Reasoning    string   `json:"reasoning"`
	Alternatives []string `json:"alternatives"`
}

// InventoryContext summarizes a user's inventory for free-text questions
type InventoryContext struct {
	ItemCount     int
	CategoryNames []string
	LocationNames []string
}

// Answer is the assistant's response to a free-text question
type Answer struct {
	Text       string `json:"text"`
	Confidence int    `json:"confidence"`
}

// Assistant is the LLM-backed identification and reasoning oracle
type Assistant interface {
	// IdentifyItem guesses an item from a free-text description and/or
	// vision output. Either input may be nil/empty but not both.
	IdentifyItem(ctx context.Context, description string, vision *VisionData) (*ItemGuess, error)
	// EnhanceBarcode guesses a product from a barcode, optionally
	// augmented with vision output.
	EnhanceBarcode(ctx context.Context, barcode, barcodeType string, vision *VisionData) (*ItemGuess, error)
	// SuggestPlacement picks a storage spot for an item from the user's
	// candidate locations and containers.
	SuggestPlacement(ctx context.Context, item ItemGuess, locations []CandidateLocation, containers []CandidateContainer) (*Placement, error)
	// AnswerQuery answers a free-text question about the inventory.
	AnswerQuery(ctx context.Context, query string, inv InventoryContext) (*Answer, error)
}

// Product is what a barcode database knows about a code
type Product struct {
	Name        string `json:"name"`
	Brand       string `json:"brand,omitempty"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Barcode     string `json:"barcode"`
	BarcodeType string `json:"barcode_type,omitempty"`
	Source      string `json:"source,omitempty"`
}

// ProductLookup resolves barcodes against external product databases
type ProductLookup interface {
	// Lookup returns (nil, nil) when no database knows the code, and
	// ErrUnavailable when no database could be asked at all.
	Lookup(ctx context.Context, barcode string) (*Product, error)
}
