// Package gemini implements the assistant oracle on the Google Generative
// Language REST API. The model answers in prose with an embedded JSON
// object; the client extracts and parses that object, falling back to a
// low-confidence guess when extraction fails.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/homestash/internal/oracle"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-pro"
)

var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

// Client calls the Generative Language API
type Client struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
}

// NewClient creates a gemini client. An empty apiKey yields a client whose
// calls all fail with oracle.ErrUnavailable.
func NewClient(apiKey string, timeout time.Duration) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		model:   defaultModel,
		http:    &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// generate sends one prompt and returns the model's text
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("gemini: no api key: %w", oracle.ErrUnavailable)
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini: %v: %w", err, oracle.ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini: status %d: %w", resp.StatusCode, oracle.ErrUnavailable)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("gemini: decode: %v: %w", err, oracle.ErrUnavailable)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: empty response: %w", oracle.ErrUnavailable)
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}

// extractJSON pulls the first {...} block out of model prose
func extractJSON(text string, v interface{}) bool {
	block := jsonBlockRe.FindString(text)
	if block == "" {
		return false
	}
	return json.Unmarshal([]byte(block), v) == nil
}

func appendVision(b *strings.Builder, vision *oracle.VisionData) {
	if vision == nil {
		return
	}
	if len(vision.Labels) > 0 {
		labels := make([]string, 0, len(vision.Labels))
		for _, l := range vision.Labels {
			labels = append(labels, l.Description)
		}
		fmt.Fprintf(b, "Image labels detected: %s\n", strings.Join(labels, ", "))
	}
	if len(vision.Objects) > 0 {
		objects := make([]string, 0, len(vision.Objects))
		for _, o := range vision.Objects {
			objects = append(objects, o.Name)
		}
		fmt.Fprintf(b, "Objects detected: %s\n", strings.Join(objects, ", "))
	}
	if vision.Text != "" {
		fmt.Fprintf(b, "Text detected: %s\n", vision.Text)
	}
	if len(vision.Logos) > 0 {
		fmt.Fprintf(b, "Logos detected: %s\n", strings.Join(vision.Logos, ", "))
	}
}

// IdentifyItem implements oracle.Assistant
func (c *Client) IdentifyItem(ctx context.Context, description string, vision *oracle.VisionData) (*oracle.ItemGuess, error) {
	var b strings.Builder
	b.WriteString("You are an expert at identifying items for inventory management.\n")
	b.WriteString("Based on the following information, identify the item and provide a clear name, ")
	b.WriteString("a brief description, a suggested category and a confidence level (0-100).\n\n")
	if description != "" {
		fmt.Fprintf(&b, "User description: %s\n\n", description)
	}
	appendVision(&b, vision)
	b.WriteString("\nRespond in JSON: {\"name\": \"...\", \"description\": \"...\", \"category\": \"...\", \"confidence\": 85}")

	text, err := c.generate(ctx, b.String())
	if err != nil {
		return nil, err
	}

	guess := &oracle.ItemGuess{}
	if !extractJSON(text, guess) {
		return &oracle.ItemGuess{
			Name:        "Unknown Item",
			Description: truncate(text, 200),
			Category:    "Uncategorized",
			Confidence:  30,
		}, nil
	}
	if guess.Name == "" {
		guess.Name = "Unknown Item"
	}
	if guess.Category == "" {
		guess.Category = "Uncategorized"
	}
	if guess.Confidence == 0 {
		guess.Confidence = 50
	}
	return guess, nil
}

// EnhanceBarcode implements oracle.Assistant
func (c *Client) EnhanceBarcode(ctx context.Context, barcode, barcodeType string, vision *oracle.VisionData) (*oracle.ItemGuess, error) {
	var b strings.Builder
	b.WriteString("Based on the following barcode and image data, provide detailed information about this product.\n\n")
	fmt.Fprintf(&b, "Barcode: %s\nBarcode Type: %s\n\n", orNA(barcode), orNA(barcodeType))
	appendVision(&b, vision)
	b.WriteString("\nRespond in JSON: {\"name\": \"...\", \"description\": \"...\", \"category\": \"...\", \"brand\": \"...\", \"confidence\": 85}")

	text, err := c.generate(ctx, b.String())
	if err != nil {
		return nil, err
	}

	guess := &oracle.ItemGuess{}
	if !extractJSON(text, guess) {
		return &oracle.ItemGuess{
			Name:        "Unknown Product",
			Description: truncate(text, 200),
			Category:    "Uncategorized",
			Confidence:  40,
		}, nil
	}
	return guess, nil
}

// SuggestPlacement implements oracle.Assistant
func (c *Client) SuggestPlacement(ctx context.Context, item oracle.ItemGuess, locations []oracle.CandidateLocation, containers []oracle.CandidateContainer) (*oracle.Placement, error) {
	var b strings.Builder
	b.WriteString("You are an expert at organizing inventory and suggesting optimal storage locations.\n\n")
	fmt.Fprintf(&b, "Item to store:\n- Name: %s\n- Description: %s\n- Category: %s\n\n",
		item.Name, orNA(item.Description), orNA(item.Category))

	b.WriteString("Available locations:\n")
	for _, l := range locations {
		fmt.Fprintf(&b, "- id %d: %s (%s)\n", l.ID, l.Name, orNA(l.Description))
	}
	b.WriteString("\nAvailable containers:\n")
	for _, ct := range containers {
		fmt.Fprintf(&b, "- id %d: %s (%s), in location: %s\n", ct.ID, ct.Name, orNA(ct.Description), orNA(ct.LocationName))
	}

	b.WriteString("\nRespond in JSON: {\"location_id\": null or id, \"container_id\": null or id, \"reasoning\": \"...\", \"alternatives\": [\"...\"]}")

	text, err := c.generate(ctx, b.String())
	if err != nil {
		return nil, err
	}

	placement := &oracle.Placement{}
	if !extractJSON(text, placement) {
		return &oracle.Placement{Reasoning: text, Alternatives: []string{}}, nil
	}
	if placement.Alternatives == nil {
		placement.Alternatives = []string{}
	}
	return placement, nil
}

// AnswerQuery implements oracle.Assistant
func (c *Client) AnswerQuery(ctx context.Context, query string, inv oracle.InventoryContext) (*oracle.Answer, error) {
	var b strings.Builder
	b.WriteString("You are an AI assistant for a personal inventory management system. ")
	b.WriteString("Answer the user's question about their inventory.\n\n")
	fmt.Fprintf(&b, "User question: %s\n\n", query)
	fmt.Fprintf(&b, "User has %d items in inventory.\n", inv.ItemCount)
	if len(inv.CategoryNames) > 0 {
		fmt.Fprintf(&b, "Categories: %s\n", strings.Join(inv.CategoryNames, ", "))
	}
	if len(inv.LocationNames) > 0 {
		fmt.Fprintf(&b, "Locations: %s\n", strings.Join(inv.LocationNames, ", "))
	}
	b.WriteString("\nProvide a helpful, concise response. If you need more specific information to answer accurately, ask for clarification.")

	text, err := c.generate(ctx, b.String())
	if err != nil {
		return nil, err
	}
	return &oracle.Answer{Text: text, Confidence: 80}, nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
