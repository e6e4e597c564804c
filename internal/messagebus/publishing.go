package messagebus

import (
	"context"
	"log"

	"github.com/jordanhubbard/linkodin/internal/interactor"
	"github.com/jordanhubbard/linkodin/pkg/models"
)

// PublishResultRecorder observes publish attempts.
type PublishResultRecorder interface {
	RecordEventPublished(subject string, err error)
}

// PublishingPostRepository announces every saved post on the bus. The post is
// already stored when publishing runs, so a publish failure is only logged.
type PublishingPostRepository struct {
	interactor.PostRepository
	publisher EventPublisher
	recorder  PublishResultRecorder
}

// NewPublishingPostRepository wraps repo. recorder may be nil.
func NewPublishingPostRepository(repo interactor.PostRepository, publisher EventPublisher, recorder PublishResultRecorder) *PublishingPostRepository {
	return &PublishingPostRepository{PostRepository: repo, publisher: publisher, recorder: recorder}
}

func (r *PublishingPostRepository) Save(ctx context.Context, post *models.LinkedInPost) error {
	if err := r.PostRepository.Save(ctx, post); err != nil {
		return err
	}

	err := r.publisher.PublishPostGenerated(ctx, &PostGeneratedEvent{
		PostID:    post.ID,
		PersonaID: post.PersonaID,
		CreatedAt: post.CreatedAt,
	})
	if r.recorder != nil {
		r.recorder.RecordEventPublished(SubjectPostGenerated, err)
	}
	if err != nil {
		log.Printf("[Events] Warning: post %s saved but event not published: %v", post.ID, err)
	}
	return nil
}
