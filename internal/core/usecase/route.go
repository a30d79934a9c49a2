package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/agents"
	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/domain"
	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/ports"
)

// Retriever is the coordinator contract the router depends on.
type Retriever interface {
	Retrieve(ctx context.Context, query domain.Query) ([]domain.RetrievedItem, error)
}

// RouteUseCase is the orchestration router. It walks one question
// through received -> classified -> dispatched and ends in completed,
// fallback_completed or failed. A handler failure (raised error, empty
// context signal or collaborator failure) triggers exactly one
// fallback dispatch to the general handler with the same retrieved
// context; there are no retries beyond that.
type RouteUseCase struct {
	classifier ports.DomainClassifier
	retriever  Retriever
	registry   *agents.Registry
}

func NewRouteUseCase(
	classifier ports.DomainClassifier,
	retriever Retriever,
	registry *agents.Registry,
) *RouteUseCase {
	return &RouteUseCase{
		classifier: classifier,
		retriever:  retriever,
		registry:   registry,
	}
}

func (uc *RouteUseCase) Route(ctx context.Context, question string, limit int) (*domain.AgentResponse, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "route query", errors.New("question is empty"))
	}

	label := uc.classify(ctx, question)

	items, retrieveErr := uc.retriever.Retrieve(ctx, domain.Query{
		Text:   question,
		Domain: label,
		Limit:  limit,
	})

	handler, _ := uc.registry.Resolve(label)

	var answer string
	var handleErr error
	if retrieveErr != nil {
		// A retrieval failure counts as a handler failure: the
		// dedicated handler never runs, the fallback gets an
		// empty context.
		handleErr = fmt.Errorf("retrieve context: %w", retrieveErr)
		items = nil
	} else {
		answer, handleErr = handler.Handle(ctx, question, items)
	}

	if handleErr == nil {
		return &domain.AgentResponse{
			Domain:       label,
			Answer:       answer,
			Context:      items,
			Handler:      handler.Name(),
			FallbackUsed: false,
			State:        domain.StateCompleted,
		}, nil
	}

	general := uc.registry.General()
	if handler == general && retrieveErr == nil {
		// The mandatory fallback itself failed; retrying it on
		// identical input cannot succeed.
		return nil, &domain.RouteFailure{
			Domain:  label,
			Handler: handler.Name(),
			Cause:   domain.WrapError(domain.ErrFallbackFailed, "route query", handleErr),
		}
	}

	answer, fallbackErr := general.Handle(ctx, question, items)
	if fallbackErr != nil {
		return nil, &domain.RouteFailure{
			Domain:  label,
			Handler: general.Name(),
			Cause: domain.WrapError(
				domain.ErrFallbackFailed,
				"route query",
				fmt.Errorf("handler %q: %v; fallback: %w", handler.Name(), handleErr, fallbackErr),
			),
		}
	}

	return &domain.AgentResponse{
		Domain:       label,
		Answer:       answer,
		Context:      items,
		Handler:      general.Name(),
		FallbackUsed: true,
		State:        domain.StateFallbackCompleted,
	}, nil
}

// classify never fails the request: an ambiguous or erroring
// classification resolves to the general domain.
func (uc *RouteUseCase) classify(ctx context.Context, question string) domain.DomainLabel {
	label, err := uc.classifier.ClassifyQuery(ctx, question)
	if err != nil || !label.Valid() {
		return domain.DomainGeneral
	}
	return label
}
