package agents

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/domain"
)

// PromptSet holds the per-handler answer templates. Templates use the
// placeholders {question} and {context}; anything else is sent to the
// generator verbatim.
type PromptSet struct {
	templates map[string]string
}

const defaultTemplate = `You are the Masvingo City Council assistant.
Answer the resident question only from the context below.
If the context is insufficient, say so directly and suggest contacting the council.

Question:
{question}

Context:
{context}
`

var defaultTemplates = map[string]string{
	"general": defaultTemplate,
	"billing": `You are the Masvingo City Council billing assistant.
Answer the resident question about bills, payments, tariffs or accounts
only from the context below. Quote amounts and account steps exactly as
they appear in the context.

Question:
{question}

Context:
{context}
`,
	"licensing": `You are the Masvingo City Council licensing assistant.
Answer the resident question about shop licences, permits and operating
licences only from the context below. State requirements and fees exactly
as they appear in the context.

Question:
{question}

Context:
{context}
`,
	"incident": `You are the Masvingo City Council incident assistant.
Help the resident report or follow up on a municipal fault (burst pipe,
water leak, outage, pothole) using only the context below. If the context
does not cover the fault, tell the resident which department to contact.

Question:
{question}

Context:
{context}
`,
}

// LoadPrompts reads handler templates from a YAML file keyed by handler
// name. Missing handlers fall back to the built-in defaults; an empty
// path returns the defaults only.
func LoadPrompts(path string) (*PromptSet, error) {
	set := &PromptSet{templates: map[string]string{}}
	for name, tpl := range defaultTemplates {
		set.templates[name] = tpl
	}
	if strings.TrimSpace(path) == "" {
		return set, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompts file: %w", err)
	}
	var loaded map[string]string
	if err := yaml.Unmarshal(raw, &loaded); err != nil {
		return nil, fmt.Errorf("parse prompts file: %w", err)
	}
	for name, tpl := range loaded {
		if strings.TrimSpace(tpl) == "" {
			continue
		}
		set.templates[strings.ToLower(strings.TrimSpace(name))] = tpl
	}
	return set, nil
}

// Render fills the handler template with the question and formatted
// context. Unknown handler names use the general template.
func (p *PromptSet) Render(handler, question, context string) string {
	tpl, ok := p.templates[handler]
	if !ok {
		tpl = p.templates["general"]
	}
	replacer := strings.NewReplacer("{question}", question, "{context}", context)
	return replacer.Replace(tpl)
}

// FormatContext renders retrieved items as a numbered context block.
func FormatContext(items []domain.RetrievedItem) string {
	if len(items) == 0 {
		return "(no context available)"
	}
	var builder strings.Builder
	for idx, item := range items {
		builder.WriteString(fmt.Sprintf(
			"[%d] ref=%s domain=%s source=%s score=%.3f\n%s\n\n",
			idx+1,
			item.Ref,
			item.Domain,
			item.Source,
			item.Score,
			item.Text,
		))
	}
	return builder.String()
}
