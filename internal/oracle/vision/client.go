// Package vision implements image analysis on the Cloud Vision REST API
// (images:annotate with an API key).
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/homestash/internal/oracle"
)

const defaultEndpoint = "https://vision.googleapis.com/v1/images:annotate"

// Client calls the Cloud Vision API
type Client struct {
	apiKey   string
	endpoint string
	http     *http.Client
}

// NewClient creates a vision client. An empty apiKey yields a client whose
// calls all fail with oracle.ErrUnavailable.
func NewClient(apiKey string, timeout time.Duration) *Client {
	return &Client{
		apiKey:   apiKey,
		endpoint: defaultEndpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

type annotateRequest struct {
	Requests []imageRequest `json:"requests"`
}

type imageRequest struct {
	Image    imageContent `json:"image"`
	Features []feature    `json:"features"`
}

type imageContent struct {
	Content string `json:"content"` // base64
}

type feature struct {
	Type       string `json:"type"`
	MaxResults int    `json:"maxResults,omitempty"`
}

type annotateResponse struct {
	Responses []struct {
		LabelAnnotations []struct {
			Description string  `json:"description"`
			Score       float64 `json:"score"`
		} `json:"labelAnnotations"`
		LocalizedObjectAnnotations []struct {
			Name  string  `json:"name"`
			Score float64 `json:"score"`
		} `json:"localizedObjectAnnotations"`
		TextAnnotations []struct {
			Description string `json:"description"`
		} `json:"textAnnotations"`
		LogoAnnotations []struct {
			Description string `json:"description"`
		} `json:"logoAnnotations"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	} `json:"responses"`
}

func (c *Client) annotate(ctx context.Context, image []byte, features []feature) (*annotateResponse, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("vision: no api key: %w", oracle.ErrUnavailable)
	}

	body, err := json.Marshal(annotateRequest{
		Requests: []imageRequest{{
			Image:    imageContent{Content: base64.StdEncoding.EncodeToString(image)},
			Features: features,
		}},
	})
	if err != nil {
		return nil, err
	}

	url := c.endpoint + "?key=" + c.apiKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vision: %v: %w", err, oracle.ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vision: status %d: %w", resp.StatusCode, oracle.ErrUnavailable)
	}

	var out annotateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("vision: decode: %v: %w", err, oracle.ErrUnavailable)
	}
	if len(out.Responses) == 0 {
		return nil, fmt.Errorf("vision: empty response: %w", oracle.ErrUnavailable)
	}
	if e := out.Responses[0].Error; e != nil {
		return nil, fmt.Errorf("vision: %s: %w", e.Message, oracle.ErrUnavailable)
	}
	return &out, nil
}

// Analyze implements oracle.Vision
func (c *Client) Analyze(ctx context.Context, image []byte) (*oracle.VisionData, error) {
	out, err := c.annotate(ctx, image, []feature{
		{Type: "LABEL_DETECTION", MaxResults: 10},
		{Type: "OBJECT_LOCALIZATION", MaxResults: 10},
		{Type: "TEXT_DETECTION"},
		{Type: "LOGO_DETECTION"},
	})
	if err != nil {
		return nil, err
	}

	r := out.Responses[0]
	data := &oracle.VisionData{}
	for _, l := range r.LabelAnnotations {
		data.Labels = append(data.Labels, oracle.VisionLabel{
			Description: l.Description,
			Confidence:  int(l.Score*100 + 0.5),
		})
	}
	for _, o := range r.LocalizedObjectAnnotations {
		data.Objects = append(data.Objects, oracle.VisionObject{
			Name:       o.Name,
			Confidence: int(o.Score*100 + 0.5),
		})
	}
	// The first text annotation is the full detected block.
	if len(r.TextAnnotations) > 0 {
		data.Text = r.TextAnnotations[0].Description
	}
	for _, l := range r.LogoAnnotations {
		data.Logos = append(data.Logos, l.Description)
	}
	return data, nil
}

// DetectText implements oracle.Vision
func (c *Client) DetectText(ctx context.Context, image []byte) ([]string, error) {
	out, err := c.annotate(ctx, image, []feature{{Type: "TEXT_DETECTION"}})
	if err != nil {
		return nil, err
	}

	var texts []string
	for _, t := range out.Responses[0].TextAnnotations {
		texts = append(texts, t.Description)
		if len(texts) >= 5 {
			break
		}
	}
	return texts, nil
}
