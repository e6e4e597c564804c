package interactor

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/jordanhubbard/linkodin/pkg/models"
)

var fixedTime = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func newTestPipeline(gen *mockGenerator, personas ...*models.Persona) (*PostGenerationInteractor, *mockPostRepo) {
	posts := &mockPostRepo{}
	pgi := NewPostGenerationInteractor(newMockPersonaRepo(personas...), posts, gen,
		WithIDGenerator(func() string { return "post-1" }),
		WithClock(func() time.Time { return fixedTime }),
	)
	return pgi, posts
}

func TestGenerateRunsStagesInOrder(t *testing.T) {
	gen := &mockGenerator{}
	pgi, posts := newTestPipeline(gen, testPersona("p1"))

	req, err := models.NewPostGenerationRequest("p1", "AI adoption", "Q3 launch")
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	post, err := pgi.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if want := []string{"analysis", "content", "image"}; !reflect.DeepEqual(gen.calls, want) {
		t.Errorf("stage order = %v, want %v", gen.calls, want)
	}
	if gen.topicHint != "AI adoption" || gen.additionalContext != "Q3 launch" {
		t.Errorf("request fields not forwarded: %q %q", gen.topicHint, gen.additionalContext)
	}
	if gen.contentPrompt != "prompt text" {
		t.Errorf("stage 2 received %q", gen.contentPrompt)
	}
	if gen.imageContent != "post body" || gen.imageAnalysis != "analysis text" {
		t.Errorf("stage 3 received %q / %q", gen.imageContent, gen.imageAnalysis)
	}

	if post.ID != "post-1" || post.PersonaID != "p1" {
		t.Errorf("unexpected identity: %+v", post)
	}
	if post.Content != "post body" || post.ImagePrompt != "image prompt" {
		t.Errorf("unexpected content: %+v", post)
	}
	if post.MarketAnalysis != "analysis text" || post.GenerationPrompt != "prompt text" {
		t.Errorf("intermediate outputs not recorded: %+v", post)
	}
	if !post.CreatedAt.Equal(fixedTime) {
		t.Errorf("created_at = %v", post.CreatedAt)
	}
	if post.ImageURL != "" || post.Hashtags != "" {
		t.Errorf("optional fields should stay empty: %+v", post)
	}

	if posts.count() != 1 {
		t.Fatalf("expected 1 saved post, got %d", posts.count())
	}
	saved, _ := pgi.GetPost(context.Background(), "post-1")
	if saved == nil || saved.Content != "post body" {
		t.Errorf("saved post mismatch: %+v", saved)
	}
}

func TestGenerateUnknownPersona(t *testing.T) {
	gen := &mockGenerator{}
	pgi, posts := newTestPipeline(gen)

	req, _ := models.NewPostGenerationRequest("ghost", "", "")
	_, err := pgi.Generate(context.Background(), req)

	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if err.Error() != "persona with ID 'ghost' not found" {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if gen.callCount() != 0 {
		t.Errorf("generation service should not be called, got %v", gen.calls)
	}
	if posts.count() != 0 {
		t.Errorf("nothing should be saved, got %d", posts.count())
	}
}

func TestGenerateStageFailureSavesNothing(t *testing.T) {
	for stage := 1; stage <= 3; stage++ {
		gen := &mockGenerator{failAt: stage}
		pgi, posts := newTestPipeline(gen, testPersona("p1"))

		req, _ := models.NewPostGenerationRequest("p1", "", "")
		_, err := pgi.Generate(context.Background(), req)
		if !errors.Is(err, errStageFailed) {
			t.Errorf("stage %d: expected wrapped stage error, got %v", stage, err)
		}
		if gen.callCount() != stage {
			t.Errorf("stage %d: expected %d calls, got %v", stage, stage, gen.calls)
		}
		if posts.count() != 0 {
			t.Errorf("stage %d: expected no saved post, got %d", stage, posts.count())
		}
	}
}

func TestGenerateSaveFailure(t *testing.T) {
	gen := &mockGenerator{}
	pgi, posts := newTestPipeline(gen, testPersona("p1"))
	posts.saveErr = errors.New("disk full")

	req, _ := models.NewPostGenerationRequest("p1", "", "")
	post, err := pgi.Generate(context.Background(), req)
	if !errors.Is(err, posts.saveErr) {
		t.Fatalf("expected save error, got %v", err)
	}
	if post != nil {
		t.Errorf("expected no post on failure, got %+v", post)
	}
}

func TestGenerateRejectsInvalidRequest(t *testing.T) {
	gen := &mockGenerator{}
	pgi, _ := newTestPipeline(gen, testPersona("p1"))

	_, err := pgi.Generate(context.Background(), &models.PostGenerationRequest{})
	var ve *models.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if gen.callCount() != 0 {
		t.Errorf("no stage should run for an invalid request")
	}
}

func TestPostQueries(t *testing.T) {
	ctx := context.Background()
	gen := &mockGenerator{}
	posts := &mockPostRepo{}
	n := 0
	pgi := NewPostGenerationInteractor(newMockPersonaRepo(testPersona("p1"), testPersona("p2")), posts, gen,
		WithIDGenerator(func() string { n++; return "post-" + string(rune('0'+n)) }),
	)

	for _, id := range []string{"p1", "p2", "p1"} {
		req, _ := models.NewPostGenerationRequest(id, "", "")
		if _, err := pgi.Generate(ctx, req); err != nil {
			t.Fatalf("Generate(%s): %v", id, err)
		}
	}

	byPersona, err := pgi.GetPostsByPersona(ctx, "p1")
	if err != nil {
		t.Fatalf("GetPostsByPersona: %v", err)
	}
	if len(byPersona) != 2 {
		t.Errorf("expected 2 posts for p1, got %d", len(byPersona))
	}

	none, _ := pgi.GetPostsByPersona(ctx, "p3")
	if len(none) != 0 {
		t.Errorf("expected no posts for p3, got %d", len(none))
	}

	all, _ := pgi.GetAllPosts(ctx)
	if len(all) != 3 {
		t.Errorf("expected 3 posts, got %d", len(all))
	}

	missing, err := pgi.GetPost(ctx, "nope")
	if err != nil || missing != nil {
		t.Errorf("expected nil, nil for missing post, got %+v %v", missing, err)
	}
}
