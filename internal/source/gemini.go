package source

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"google.golang.org/genai"

	"github.com/octobees/movescout/internal/entity"
)

// GeminiConfig configures the Gemini answerer.
type GeminiConfig struct {
	APIKey string
	Model  string

	// BaseURL overrides the Gemini API endpoint.
	BaseURL string
}

// GeminiAnswerer answers queries with Gemini grounded on Google Search. It
// also serves as the market-research collaborator.
type GeminiAnswerer struct {
	client *genai.Client
	model  string
}

// NewGeminiAnswerer connects to the Gemini API.
func NewGeminiAnswerer(ctx context.Context, cfg GeminiConfig) (*GeminiAnswerer, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("gemini: %w: GEMINI_API_KEY is empty", ErrNotConfigured)
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("gemini: %w: GEMINI_MODEL is empty", ErrNotConfigured)
	}

	cc := &genai.ClientConfig{
		APIKey:  strings.TrimSpace(cfg.APIKey),
		Backend: genai.BackendGeminiAPI,
	}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		cc.HTTPOptions.BaseURL = strings.TrimSpace(cfg.BaseURL)
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &GeminiAnswerer{client: client, model: strings.TrimSpace(cfg.Model)}, nil
}

func (g *GeminiAnswerer) Name() string { return NameGemini }

func (g *GeminiAnswerer) Answer(ctx context.Context, query string) (Answer, error) {
	prompt := "Search the web and answer with the names, websites and phone numbers of moving companies for: " + strings.TrimSpace(query)
	resp, err := g.generate(ctx, prompt)
	if err != nil {
		return Answer{}, err
	}

	var out Answer
	if text := strings.TrimSpace(resp.Text()); text != "" {
		out.Text = &text
	}
	out.Sources = groundingSources(resp)
	return out, nil
}

// Research returns a free-text summary of typical prices for the move.
func (g *GeminiAnswerer) Research(ctx context.Context, req entity.CustomerRequest) (string, error) {
	prompt := fmt.Sprintf(
		"Summarise typical moving costs for a %s apartment from %s to %s around %s. "+
			"Quote price ranges in US dollars, for example $800-$1,200, and list common additional fees.",
		req.ApartmentSize, req.CurrentAddress, req.DestinationAddress, req.MoveOutDate,
	)
	resp, err := g.generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text()), nil
}

func (g *GeminiAnswerer) generate(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error) {
	resp, err := g.client.Models.GenerateContent(
		ctx,
		g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			Tools:          []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
			CandidateCount: 1,
		},
	)
	if err != nil {
		return nil, classifyErr(err)
	}
	return resp, nil
}

func classifyErr(err error) error {
	if err == nil {
		return nil
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == 429 || apiErr.Code/100 == 5 {
			return &TransientError{Err: err}
		}
		return err
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &TransientError{Err: err}
	}
	return err
}

func groundingSources(resp *genai.GenerateContentResponse) []Cited {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil
	}
	meta := resp.Candidates[0].GroundingMetadata
	if meta == nil {
		return nil
	}

	seen := make(map[string]struct{})
	var out []Cited
	for _, chunk := range meta.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		uri := strings.TrimSpace(chunk.Web.URI)
		if uri == "" {
			continue
		}
		if _, dup := seen[uri]; dup {
			continue
		}
		seen[uri] = struct{}{}
		out = append(out, Cited{Name: strings.TrimSpace(chunk.Web.Title), URL: uri})
	}
	return out
}
