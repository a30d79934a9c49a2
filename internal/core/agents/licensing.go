package agents

import (
	"context"
	"fmt"

	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/domain"
	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/ports"
)

// LicensingHandler answers operating-licence and permit questions.
// Licence schedules are tabular, so the structured index is consulted
// alongside the retrieved context. Without any context it signals
// ErrEmptyContext.
type LicensingHandler struct {
	generator  ports.AnswerGenerator
	structured ports.StructuredIndex
	prompts    *PromptSet
}

func NewLicensingHandler(generator ports.AnswerGenerator, structured ports.StructuredIndex, prompts *PromptSet) *LicensingHandler {
	return &LicensingHandler{generator: generator, structured: structured, prompts: prompts}
}

func (h *LicensingHandler) Name() string { return "licensing" }

func (h *LicensingHandler) Domains() []domain.DomainLabel {
	return []domain.DomainLabel{domain.DomainLicensing, domain.DomainByLaws}
}

func (h *LicensingHandler) Handle(ctx context.Context, question string, items []domain.RetrievedItem) (string, error) {
	items = supplementStructured(ctx, h.structured, question, domain.DomainLicensing, items)
	if len(items) == 0 {
		return "", domain.WrapError(domain.ErrEmptyContext, "licensing handler", fmt.Errorf("no licensing context for question"))
	}
	prompt := h.prompts.Render(h.Name(), question, FormatContext(items))
	answer, err := h.generator.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("licensing handler: %w", err)
	}
	return answer, nil
}
