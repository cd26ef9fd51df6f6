package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const linkupSearchPath = "/v1/search"

// LinkupClient queries the Linkup search API for sourced answers.
type LinkupClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewLinkupClient builds a client. A nil httpClient uses http.DefaultClient;
// per-call deadlines come from the caller's context.
func NewLinkupClient(apiKey, baseURL string, httpClient *http.Client) *LinkupClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &LinkupClient{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  httpClient,
	}
}

func (c *LinkupClient) Name() string { return NameLinkup }

type linkupRequest struct {
	Query      string `json:"q"`
	Depth      string `json:"depth"`
	OutputType string `json:"outputType"`
}

type linkupResponse struct {
	Answer  *string `json:"answer"`
	Sources []Cited `json:"sources"`
}

func (c *LinkupClient) Answer(ctx context.Context, query string) (Answer, error) {
	if c.apiKey == "" || c.baseURL == "" {
		return Answer{}, ErrNotConfigured
	}

	payload, err := json.Marshal(linkupRequest{Query: query, Depth: "deep", OutputType: "sourcedAnswer"})
	if err != nil {
		return Answer{}, fmt.Errorf("encode linkup request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+linkupSearchPath, bytes.NewReader(payload))
	if err != nil {
		return Answer{}, fmt.Errorf("build linkup request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return Answer{}, fmt.Errorf("call linkup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return Answer{}, &StatusError{Code: resp.StatusCode}
	}

	var decoded linkupResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Answer{}, fmt.Errorf("decode linkup response: %w", err)
	}

	sources := decoded.Sources[:0]
	for _, s := range decoded.Sources {
		if strings.TrimSpace(s.Name) == "" && strings.TrimSpace(s.URL) == "" {
			continue
		}
		sources = append(sources, s)
	}
	return Answer{Text: decoded.Answer, Sources: sources}, nil
}
