package source

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/genai"
)

type timeoutNetErr struct{}

func (timeoutNetErr) Error() string   { return "i/o timeout" }
func (timeoutNetErr) Timeout() bool   { return true }
func (timeoutNetErr) Temporary() bool { return false }

func TestClassifyErr(t *testing.T) {
	tests := []struct {
		name          string
		in            error
		wantTransient bool
	}{
		{name: "nil", in: nil, wantTransient: false},
		{name: "api_429", in: genai.APIError{Code: 429}, wantTransient: true},
		{name: "api_503", in: genai.APIError{Code: 503}, wantTransient: true},
		{name: "api_403", in: genai.APIError{Code: 403}, wantTransient: false},
		{name: "net_timeout", in: timeoutNetErr{}, wantTransient: true},
		{name: "plain", in: errors.New("boom"), wantTransient: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyErr(tt.in)
			if isTransient(got) != tt.wantTransient {
				t.Fatalf("transient=%v want=%v (err=%T %v)", isTransient(got), tt.wantTransient, got, got)
			}
		})
	}
}

func TestGroundingSources(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			GroundingMetadata: &genai.GroundingMetadata{
				GroundingChunks: []*genai.GroundingChunk{
					{Web: &genai.GroundingChunkWeb{URI: "https://ozmoving.com", Title: "Oz Moving"}},
					{Web: &genai.GroundingChunkWeb{URI: "https://ozmoving.com", Title: "dup"}},
					nil,
					{Web: &genai.GroundingChunkWeb{URI: " "}},
				},
			},
		}},
	}
	got := groundingSources(resp)
	if len(got) != 1 || got[0].Name != "Oz Moving" || got[0].URL != "https://ozmoving.com" {
		t.Fatalf("unexpected sources %+v", got)
	}
	if groundingSources(nil) != nil {
		t.Fatalf("expected nil for nil response")
	}
}

func TestNewGeminiAnswererRequiresCredentials(t *testing.T) {
	if _, err := NewGeminiAnswerer(context.Background(), GeminiConfig{Model: "m"}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if _, err := NewGeminiAnswerer(context.Background(), GeminiConfig{APIKey: "k"}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
