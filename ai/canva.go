package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/viper"
)

// CanvaClient pushes generated decks to the Canva design API. The
// exact schema varies per partner plan, so the create URL is
// configurable and the raw response is passed through to the caller.
type CanvaClient struct {
	HTTP        *http.Client
	CreateURL   string
	AccessToken string
}

func NewCanvaClient() *CanvaClient {
	return &CanvaClient{
		HTTP:        &http.Client{Timeout: 60 * time.Second},
		CreateURL:   viper.GetString("canva.create_url"),
		AccessToken: viper.GetString("canva.access_token"),
	}
}

var ErrCanvaNotConnected = errors.New("no canva access token configured")

type CanvaResult struct {
	DesignID string          `json:"design_id"`
	ShareURL string          `json:"share_url"`
	Raw      json.RawMessage `json:"raw"`
}

type canvaPage struct {
	Elements []map[string]any `json:"elements"`
	Notes    string           `json:"notes"`
}

// Payload builds the design request body for a deck: a cover page
// followed by one page per slide.
func Payload(p Presentation) map[string]any {
	pages := []canvaPage{{
		Elements: []map[string]any{
			{"type": "heading", "text": p.Title},
			{"type": "subheading", "text": "AI tarafından oluşturulan sunum"},
		},
	}}

	for _, s := range p.Slides {
		pages = append(pages, canvaPage{
			Elements: []map[string]any{
				{"type": "heading", "text": s.Title},
				{"type": "bulleted_list", "items": s.Bullets},
			},
			Notes: s.Notes,
		})
	}

	return map[string]any{
		"title":        p.Title,
		"documentType": "presentation",
		"pages":        pages,
	}
}

func (c *CanvaClient) Push(ctx context.Context, p Presentation) (*CanvaResult, error) {
	if c.AccessToken == "" {
		return nil, ErrCanvaNotConnected
	}

	body, err := json.Marshal(Payload(p))
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.CreateURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+c.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("canva request failed, %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("canva API answered with status %d", resp.StatusCode)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode canva response, %w", err)
	}

	var fields struct {
		ID       string `json:"id"`
		DesignID string `json:"design_id"`
		ShareURL string `json:"share_url"`
		URL      string `json:"url"`
	}
	// raw is known-valid JSON at this point and every field is
	// optional, a shape mismatch just leaves them empty
	_ = json.Unmarshal(raw, &fields)

	res := &CanvaResult{
		DesignID: fields.ID,
		ShareURL: fields.ShareURL,
		Raw:      raw,
	}

	if res.DesignID == "" {
		res.DesignID = fields.DesignID
	}

	if res.ShareURL == "" {
		res.ShareURL = fields.URL
	}

	return res, nil
}
