package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/octobees/movescout/internal/auth"
	"github.com/octobees/movescout/internal/config"
	"github.com/octobees/movescout/internal/entity"
	"github.com/octobees/movescout/internal/service"
	"github.com/octobees/movescout/internal/source"
)

func testPlanner() *service.QueryPlanner {
	return service.NewQueryPlanner(config.DefaultVocabulary())
}

func sourceNames(sources []source.Source) []string {
	out := make([]string, 0, len(sources))
	for _, s := range sources {
		out = append(out, s.Name())
	}
	return out
}

func TestBuildSources_Offline(t *testing.T) {
	cfg := &config.Config{Offline: true}
	sources, research, closeFn := buildSources(context.Background(), cfg, testPlanner(), zaptest.NewLogger(t))
	defer closeFn()

	if names := sourceNames(sources); len(names) != 1 || names[0] != source.NameFixture {
		t.Fatalf("expected fixture only, got %v", names)
	}
	if research != nil {
		t.Fatalf("expected no market research offline")
	}
}

func TestBuildSources_WithoutCredentials(t *testing.T) {
	cfg := &config.Config{
		AnswerProvider:  config.ProviderLinkup,
		ScrapeSearchURL: "https://html.duckduckgo.com/html/",
		RequestTimeout:  time.Second,
	}
	sources, research, closeFn := buildSources(context.Background(), cfg, testPlanner(), zaptest.NewLogger(t))
	defer closeFn()

	names := sourceNames(sources)
	if len(names) != 2 || names[0] != source.NameScraped || names[1] != source.NameFixture {
		t.Fatalf("unexpected chain %v", names)
	}
	if !source.IsOpenWeb(sources[0]) {
		t.Fatalf("expected guarded scraped source to stay open web")
	}

	cfg.DirectoryURL = source.DefaultDirectoryURL
	sources, _, closeDir := buildSources(context.Background(), cfg, testPlanner(), zaptest.NewLogger(t))
	defer closeDir()
	names = sourceNames(sources)
	want := []string{source.NameScraped, source.NameDirectory, source.NameFixture}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, names)
	}
	if source.IsOpenWeb(sources[1]) {
		t.Fatalf("expected guarded directory source to skip relevance filtering")
	}
	if research != nil {
		t.Fatalf("expected no market research without a gemini key")
	}
}

func TestBuildSources_Linkup(t *testing.T) {
	cfg := &config.Config{
		AnswerProvider: config.ProviderLinkup,
		LinkupAPIKey:   "key",
		LinkupBaseURL:  "https://api.linkup.so",
		DirectoryURL:   source.DefaultDirectoryURL,
		RequestTimeout: time.Second,
	}
	sources, _, closeFn := buildSources(context.Background(), cfg, testPlanner(), zaptest.NewLogger(t))
	defer closeFn()

	names := sourceNames(sources)
	want := []string{source.NameLinkup, source.NameScraped, source.NameDirectory, source.NameFixture}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, names)
	}
}

func TestBuildStore(t *testing.T) {
	ctx := context.Background()

	store, closeFn, err := buildStore(ctx, &config.Config{StoreDriver: config.StoreMemory})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	closeFn()
	if store == nil {
		t.Fatalf("expected memory store")
	}

	cfg := &config.Config{StoreDriver: config.StoreSQLite, SQLitePath: filepath.Join(t.TempDir(), "sessions.db")}
	store, closeFn, err = buildStore(ctx, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer closeFn()

	session, err := store.Open(ctx, sampleRequest())
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	if session.Status != entity.SessionOpen {
		t.Fatalf("unexpected status %s", session.Status)
	}
}

func TestDiscoverCommand_Offline(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("OFFLINE", "true")
	t.Setenv("REPORT_DIR", dir)
	t.Setenv("SESSION_STORE", "memory")
	t.Setenv("LOG_LEVEL", "error")

	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{"discover", "--sample", "--size", "3BR"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "found 5 moving companies") {
		t.Fatalf("unexpected output:\n%s", text)
	}
	if !strings.Contains(text, "1. Brooklyn Moving Company") || !strings.Contains(text, "Report saved to "+dir) {
		t.Fatalf("unexpected output:\n%s", text)
	}
}

func TestDiscoverCommand_MissingAddress(t *testing.T) {
	t.Setenv("OFFLINE", "true")
	t.Setenv("REPORT_DIR", t.TempDir())
	t.Setenv("LOG_LEVEL", "error")

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"discover", "--from", "somewhere"})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected missing destination to fail")
	}
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")

	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{"token", "--subject", "dispatch"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := auth.NewJWTManager("cli-secret", time.Hour).ParseToken(strings.TrimSpace(out.String()))
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.Subject != "dispatch" || claims.Role != auth.RoleOperator {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestApplySample(t *testing.T) {
	cmd := newDiscoverCmd()
	if err := cmd.ParseFlags([]string{"--to", "9 Elm St, Queens, New York"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	req := applySample(entity.CustomerRequest{DestinationAddress: "9 Elm St, Queens, New York"}, cmd)
	if req.DestinationAddress != "9 Elm St, Queens, New York" {
		t.Fatalf("expected explicit flag to win, got %q", req.DestinationAddress)
	}
	if req.CurrentAddress != sampleRequest().CurrentAddress || !req.PackingNeeded {
		t.Fatalf("expected sample defaults, got %+v", req)
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{"version"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out.String()) != "movescout v"+version {
		t.Fatalf("unexpected version output %q", out.String())
	}
}
