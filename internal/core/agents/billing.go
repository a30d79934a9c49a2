package agents

import (
	"context"
	"fmt"

	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/domain"
	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/ports"
)

// BillingHandler answers billing and account questions. Besides the
// retrieved context it consults the structured index directly, since
// tariffs and payment channels live in tabular records that vector
// search can miss. Without any context it signals ErrEmptyContext
// rather than letting the model guess at amounts.
type BillingHandler struct {
	generator  ports.AnswerGenerator
	structured ports.StructuredIndex
	prompts    *PromptSet
}

func NewBillingHandler(generator ports.AnswerGenerator, structured ports.StructuredIndex, prompts *PromptSet) *BillingHandler {
	return &BillingHandler{generator: generator, structured: structured, prompts: prompts}
}

func (h *BillingHandler) Name() string { return "billing" }

func (h *BillingHandler) Domains() []domain.DomainLabel {
	return []domain.DomainLabel{domain.DomainBilling, domain.DomainUtilities}
}

func (h *BillingHandler) Handle(ctx context.Context, question string, items []domain.RetrievedItem) (string, error) {
	items = supplementStructured(ctx, h.structured, question, domain.DomainBilling, items)
	if len(items) == 0 {
		return "", domain.WrapError(domain.ErrEmptyContext, "billing handler", fmt.Errorf("no billing context for question"))
	}
	prompt := h.prompts.Render(h.Name(), question, FormatContext(items))
	answer, err := h.generator.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("billing handler: %w", err)
	}
	return answer, nil
}

// supplementStructured appends structured records the retrieval pass
// did not already surface. Structured lookup failures are swallowed,
// the retrieved items alone may still carry the answer.
func supplementStructured(
	ctx context.Context,
	index ports.StructuredIndex,
	question string,
	label domain.DomainLabel,
	items []domain.RetrievedItem,
) []domain.RetrievedItem {
	if index == nil {
		return items
	}
	extra, err := index.Search(ctx, question, domain.SearchFilter{Domain: label})
	if err != nil {
		return items
	}
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		seen[item.Ref] = struct{}{}
	}
	for _, item := range extra {
		if _, ok := seen[item.Ref]; ok {
			continue
		}
		items = append(items, item)
	}
	return items
}
