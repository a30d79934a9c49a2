package agents

import (
	"context"
	"fmt"

	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/domain"
	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/ports"
)

// GeneralHandler answers any domain from whatever context retrieval
// produced. It never signals empty context: with nothing retrieved it
// still generates, and the template instructs the model to say the
// information is insufficient. This is what makes it a safe fallback
// target.
type GeneralHandler struct {
	generator ports.AnswerGenerator
	prompts   *PromptSet
}

func NewGeneralHandler(generator ports.AnswerGenerator, prompts *PromptSet) *GeneralHandler {
	return &GeneralHandler{generator: generator, prompts: prompts}
}

func (h *GeneralHandler) Name() string { return "general" }

func (h *GeneralHandler) Domains() []domain.DomainLabel {
	return []domain.DomainLabel{domain.DomainGeneral}
}

func (h *GeneralHandler) Handle(ctx context.Context, question string, items []domain.RetrievedItem) (string, error) {
	prompt := h.prompts.Render(h.Name(), question, FormatContext(items))
	answer, err := h.generator.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("general handler: %w", err)
	}
	return answer, nil
}
