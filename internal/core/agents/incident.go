package agents

import (
	"context"
	"fmt"

	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/domain"
	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/ports"
)

// IncidentHandler covers fault reports and service notices. A resident
// reporting a burst pipe should get reporting guidance even when
// retrieval finds nothing, so empty context is answered rather than
// escalated.
type IncidentHandler struct {
	generator ports.AnswerGenerator
	prompts   *PromptSet
}

func NewIncidentHandler(generator ports.AnswerGenerator, prompts *PromptSet) *IncidentHandler {
	return &IncidentHandler{generator: generator, prompts: prompts}
}

func (h *IncidentHandler) Name() string { return "incident" }

func (h *IncidentHandler) Domains() []domain.DomainLabel {
	return []domain.DomainLabel{domain.DomainIncidents, domain.DomainNotices}
}

func (h *IncidentHandler) Handle(ctx context.Context, question string, items []domain.RetrievedItem) (string, error) {
	prompt := h.prompts.Render(h.Name(), question, FormatContext(items))
	answer, err := h.generator.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("incident handler: %w", err)
	}
	return answer, nil
}
