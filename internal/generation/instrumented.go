package generation

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/jordanhubbard/linkodin/internal/interactor"
	"github.com/jordanhubbard/linkodin/pkg/models"
)

const (
	StageMarketAnalysis = "market_analysis"
	StagePostContent    = "post_content"
	StageImagePrompt    = "image_prompt"
)

// StageRecorder receives one observation per stage call.
type StageRecorder interface {
	RecordStage(stage string, duration time.Duration, err error)
}

// InstrumentedService wraps a GenerationService with a span and a recorder
// observation around every stage. Results and errors pass through unchanged.
type InstrumentedService struct {
	next      interactor.GenerationService
	tracer    trace.Tracer
	recorders []StageRecorder
}

// Instrumented decorates next. A nil tracer disables spans.
func Instrumented(next interactor.GenerationService, tracer trace.Tracer, recorders ...StageRecorder) *InstrumentedService {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("linkodin")
	}
	return &InstrumentedService{next: next, tracer: tracer, recorders: recorders}
}

func (s *InstrumentedService) observe(ctx context.Context, stage string, persona *models.Persona, fn func(context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, "generation."+stage,
		trace.WithAttributes(attribute.String("persona.id", persona.ID)))
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	for _, r := range s.recorders {
		r.RecordStage(stage, elapsed, err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (s *InstrumentedService) GenerateMarketAnalysisAndPrompt(ctx context.Context, persona *models.Persona, topicHint, additionalContext string) (analysis, prompt string, err error) {
	err = s.observe(ctx, StageMarketAnalysis, persona, func(ctx context.Context) error {
		var stageErr error
		analysis, prompt, stageErr = s.next.GenerateMarketAnalysisAndPrompt(ctx, persona, topicHint, additionalContext)
		return stageErr
	})
	return analysis, prompt, err
}

func (s *InstrumentedService) GeneratePostContent(ctx context.Context, generationPrompt string, persona *models.Persona) (content string, err error) {
	err = s.observe(ctx, StagePostContent, persona, func(ctx context.Context) error {
		var stageErr error
		content, stageErr = s.next.GeneratePostContent(ctx, generationPrompt, persona)
		return stageErr
	})
	return content, err
}

func (s *InstrumentedService) GenerateImagePrompt(ctx context.Context, postContent, marketAnalysis string, persona *models.Persona) (imagePrompt string, err error) {
	err = s.observe(ctx, StageImagePrompt, persona, func(ctx context.Context) error {
		var stageErr error
		imagePrompt, stageErr = s.next.GenerateImagePrompt(ctx, postContent, marketAnalysis, persona)
		return stageErr
	})
	return imagePrompt, err
}
