package messagebus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jordanhubbard/linkodin/internal/storage"
	"github.com/jordanhubbard/linkodin/pkg/models"
)

type mockPublisher struct {
	events []*PostGeneratedEvent
	err    error
}

func (m *mockPublisher) PublishPostGenerated(_ context.Context, event *PostGeneratedEvent) error {
	m.events = append(m.events, event)
	return m.err
}

type mockRecorder struct {
	subjects []string
	errs     []error
}

func (m *mockRecorder) RecordEventPublished(subject string, err error) {
	m.subjects = append(m.subjects, subject)
	m.errs = append(m.errs, err)
}

func testPost() *models.LinkedInPost {
	return &models.LinkedInPost{
		ID:        "post-1",
		PersonaID: "tech-ceo",
		Content:   "hello",
		CreatedAt: time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestPublishingRepositoryPublishesAfterSave(t *testing.T) {
	ctx := context.Background()
	inner := storage.NewMemoryPostRepository()
	pub := &mockPublisher{}
	rec := &mockRecorder{}
	repo := NewPublishingPostRepository(inner, pub, rec)

	if err := repo.Save(ctx, testPost()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if len(pub.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(pub.events))
	}
	ev := pub.events[0]
	if ev.PostID != "post-1" || ev.PersonaID != "tech-ceo" || !ev.CreatedAt.Equal(testPost().CreatedAt) {
		t.Errorf("unexpected event: %+v", ev)
	}
	if len(rec.subjects) != 1 || rec.subjects[0] != SubjectPostGenerated || rec.errs[0] != nil {
		t.Errorf("unexpected recording: %+v %+v", rec.subjects, rec.errs)
	}

	// Reads go straight to the wrapped repository.
	got, err := repo.GetByID(ctx, "post-1")
	if err != nil || got == nil {
		t.Fatalf("GetByID through decorator: %+v %v", got, err)
	}
}

func TestPublishingRepositoryToleratesPublishFailure(t *testing.T) {
	ctx := context.Background()
	inner := storage.NewMemoryPostRepository()
	pub := &mockPublisher{err: errors.New("nats: no responders")}
	rec := &mockRecorder{}
	repo := NewPublishingPostRepository(inner, pub, rec)

	if err := repo.Save(ctx, testPost()); err != nil {
		t.Fatalf("publish failure must not fail Save: %v", err)
	}
	got, _ := inner.GetByID(ctx, "post-1")
	if got == nil {
		t.Fatal("post should be stored")
	}
	if len(rec.errs) != 1 || rec.errs[0] == nil {
		t.Errorf("failure should be recorded: %+v", rec.errs)
	}
}

type failingPostRepo struct {
	*storage.MemoryPostRepository
}

func (f failingPostRepo) Save(context.Context, *models.LinkedInPost) error {
	return errors.New("disk full")
}

func TestPublishingRepositorySkipsPublishWhenSaveFails(t *testing.T) {
	pub := &mockPublisher{}
	repo := NewPublishingPostRepository(failingPostRepo{storage.NewMemoryPostRepository()}, pub, nil)

	if err := repo.Save(context.Background(), testPost()); err == nil {
		t.Fatal("expected save error")
	}
	if len(pub.events) != 0 {
		t.Errorf("no event expected when save fails, got %d", len(pub.events))
	}
}
