package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kytseng/bankbook/pkg/config"
)

// Client talks to the recognition sidecar over HTTP. The sidecar owns the
// model weights and the image-enhancement front end; one client instance is
// shared by every parser.
type Client struct {
	baseURL          string
	defaultBeamWidth int
	httpClient       *http.Client
}

// NewClient creates a recognizer client from configuration.
func NewClient(cfg config.OCRConfig) *Client {
	return &Client{
		baseURL:          cfg.BaseURL,
		defaultBeamWidth: cfg.BeamWidth,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

type readTextRequest struct {
	Image     string `json:"image"`
	Paragraph bool   `json:"paragraph"`
	BeamWidth int    `json:"beam_width,omitempty"`
	Enhance   bool   `json:"enhance"`
}

type readTextResponse struct {
	Lines []string `json:"lines"`
}

// ReadText submits one image for recognition and returns the ordered
// recognized strings.
func (c *Client) ReadText(ctx context.Context, image []byte, opts ReadOptions) ([]string, error) {
	beamWidth := opts.BeamWidth
	if beamWidth == 0 {
		beamWidth = c.defaultBeamWidth
	}

	body, err := json.Marshal(readTextRequest{
		Image:     base64.StdEncoding.EncodeToString(image),
		Paragraph: opts.Paragraph,
		BeamWidth: beamWidth,
		Enhance:   opts.Enhance,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode readtext request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/readtext", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build readtext request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("recognition engine unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("recognition engine returned status %d", resp.StatusCode)
	}

	var decoded readTextResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode readtext response: %w", err)
	}
	return decoded.Lines, nil
}
