package linkodin

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/jordanhubbard/linkodin/internal/generation"
	"github.com/jordanhubbard/linkodin/internal/interactor"
	"github.com/jordanhubbard/linkodin/pkg/config"
	"github.com/jordanhubbard/linkodin/pkg/models"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Storage.DataDir = t.TempDir()
	cfg.Generation.Provider = config.ProviderMock
	return cfg
}

func samplePersona(t *testing.T) *models.Persona {
	t.Helper()
	p, err := models.NewPersona(models.Persona{
		ID:                    "tech-ceo",
		Name:                  "Alex Chen",
		Niche:                 "SaaS leadership",
		TargetAudience:        "startup founders",
		Localization:          "English (US)",
		Tone:                  "inspirational",
		Industry:              "Technology",
		PersonalBrandKeywords: []string{"servant leadership"},
	})
	if err != nil {
		t.Fatalf("NewPersona: %v", err)
	}
	return p
}

func TestNewFileBackendGeneratesAndPersists(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Metrics.TextfilePath = filepath.Join(cfg.Storage.DataDir, "metrics", "linkodin.prom")

	l, err := New(ctx, cfg, WithInteractorOptions(
		interactor.WithIDGenerator(func() string { return "post-1" }),
		interactor.WithClock(func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) }),
	))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := l.Personas.Create(ctx, samplePersona(t)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	req, _ := models.NewPostGenerationRequest("tech-ceo", "startup lessons", "")
	post, err := l.GeneratePost(ctx, req)
	if err != nil {
		t.Fatalf("GeneratePost: %v", err)
	}
	if post.ID != "post-1" || post.Content == "" || post.ImagePrompt == "" || post.MarketAnalysis == "" {
		t.Errorf("incomplete post: %+v", post)
	}
	if got := testutil.ToFloat64(l.Metrics().PostsGenerated.WithLabelValues("tech-ceo")); got != 1 {
		t.Errorf("posts generated = %v, want 1", got)
	}
	l.Close(ctx)
	l.Close(ctx)

	for _, name := range []string{"personas.json", "posts.json", filepath.Join("metrics", "linkodin.prom")} {
		if _, err := os.Stat(filepath.Join(cfg.Storage.DataDir, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}

	// A second instance over the same directory sees the stored data.
	again, err := New(ctx, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer again.Close(ctx)
	stored, err := again.Posts.GetPost(ctx, "post-1")
	if err != nil || stored == nil {
		t.Fatalf("GetPost after reopen: %+v %v", stored, err)
	}
	if stored.Content != post.Content {
		t.Errorf("content changed across reopen")
	}
}

func TestNewMemoryBackend(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Storage.Backend = config.BackendMemory

	l, err := New(ctx, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer l.Close(ctx)

	personas, err := l.Personas.List(ctx)
	if err != nil || len(personas) != 0 {
		t.Errorf("expected empty memory store, got %d (%v)", len(personas), err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Storage.DataDir, "personas.json")); !os.IsNotExist(err) {
		t.Errorf("memory backend should not touch the data directory")
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Backend = "sqlite"
	if _, err := New(context.Background(), cfg); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestLiveProviderWithoutKeyFailsLazily(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Generation.Provider = config.ProviderOpenAI
	cfg.Generation.APIKey = ""

	l, err := New(ctx, cfg)
	if err != nil {
		t.Fatalf("construction must not need a key: %v", err)
	}
	defer l.Close(ctx)

	if err := l.Personas.Create(ctx, samplePersona(t)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	req, _ := models.NewPostGenerationRequest("tech-ceo", "", "")
	_, err = l.GeneratePost(ctx, req)

	var cfgErr *generation.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if cfgErr.Setting != "OPENAI_API_KEY" {
		t.Errorf("setting = %q", cfgErr.Setting)
	}
	posts, _ := l.Posts.GetAllPosts(ctx)
	if len(posts) != 0 {
		t.Errorf("no post should be stored, got %d", len(posts))
	}
}

func TestUnreachableEventsAreOptional(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Storage.Backend = config.BackendMemory
	cfg.Events.NATSURL = "nats://127.0.0.1:1"

	l, err := New(ctx, cfg)
	if err != nil {
		t.Fatalf("unreachable NATS must not fail construction: %v", err)
	}
	defer l.Close(ctx)
	if l.bus != nil {
		t.Error("bus should be disabled")
	}
}

func TestWithGeneratorIsInstrumented(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Storage.Backend = config.BackendMemory

	l, err := New(ctx, cfg, WithGenerator(generation.NewMockService()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer l.Close(ctx)
	_ = l.Personas.Create(ctx, samplePersona(t))
	req, _ := models.NewPostGenerationRequest("tech-ceo", "", "")
	if _, err := l.GeneratePost(ctx, req); err != nil {
		t.Fatalf("GeneratePost: %v", err)
	}

	count := testutil.CollectAndCount(l.Metrics().StageRequests)
	if count != 3 {
		t.Errorf("expected 3 stage series, got %d", count)
	}
	if l.Config() != cfg {
		t.Errorf("config not retained")
	}
}
