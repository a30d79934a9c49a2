package classify

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/domain"
)

// domainKeywords holds the trigger terms each service domain owns.
var domainKeywords = map[domain.DomainLabel][]string{
	domain.DomainByLaws:      {"bylaw", "by-law", "law", "regulation", "rule", "ordinance", "code", "statute"},
	domain.DomainLicensing:   {"license", "licence", "permit", "certification", "approval", "registration"},
	domain.DomainBilling:     {"bill", "payment", "fee", "charge", "invoice", "rate", "cost", "owe", "balance"},
	domain.DomainIncidents:   {"incident", "burst", "leak", "outage", "pothole", "report", "emergency", "fault"},
	domain.DomainNotices:     {"notice", "announcement", "public notice", "advisory", "alert"},
	domain.DomainContacts:    {"contact", "phone", "email", "address", "office"},
	domain.DomainDepartments: {"department", "division", "section", "unit", "branch"},
	domain.DomainFAQ:         {"faq", "question", "answer", "frequently", "asked"},
	domain.DomainGlossary:    {"glossary", "term", "definition", "meaning"},
	domain.DomainServices:    {"service", "online", "portal", "application", "form"},
	domain.DomainUtilities:   {"water", "electricity", "utility", "infrastructure", "distribution"},
	domain.DomainGeneral:     {"about", "overview", "introduction", "general", "information"},
}

// filenameDomains maps well-known council file basenames to their domain.
var filenameDomains = map[string]domain.DomainLabel{
	"bylaws":             domain.DomainByLaws,
	"operating_licenses": domain.DomainLicensing,
	"bill_payments":      domain.DomainBilling,
	"incident_reports":   domain.DomainIncidents,
	"public_notices":     domain.DomainNotices,
	"council_contacts":   domain.DomainContacts,
	"departments":        domain.DomainDepartments,
	"faq":                domain.DomainFAQ,
	"glossary":           domain.DomainGlossary,
	"online_services":    domain.DomainServices,
	"water_distribution": domain.DomainUtilities,
	"about_me":           domain.DomainGeneral,
}

// classificationSnippet bounds how much document text keyword scoring reads.
const classificationSnippet = 4000

// KeywordClassifier scores each domain by counting case-insensitive trigger
// term hits. Ties break by domain.DomainPriority; zero hits means general.
type KeywordClassifier struct{}

func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

func (c *KeywordClassifier) ClassifyQuery(_ context.Context, text string) (domain.DomainLabel, error) {
	return scoreKeywords(text), nil
}

func (c *KeywordClassifier) ClassifyDocument(_ context.Context, name, text string) (domain.DomainLabel, error) {
	base := strings.ToLower(strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)))
	if label, ok := filenameDomains[base]; ok {
		return label, nil
	}

	snippet := text
	if len(snippet) > classificationSnippet {
		snippet = snippet[:classificationSnippet]
	}
	if label := scoreKeywords(base + " " + snippet); label != domain.DomainGeneral {
		return label, nil
	}
	return domain.DomainGeneral, nil
}

func scoreKeywords(text string) domain.DomainLabel {
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return domain.DomainGeneral
	}

	best := domain.DomainGeneral
	bestScore := 0
	for _, label := range domain.DomainPriority() {
		score := 0
		for _, keyword := range domainKeywords[label] {
			if strings.Contains(lower, keyword) {
				score++
			}
		}
		// Strictly greater keeps the earlier (more specific) label on ties.
		if score > bestScore {
			best = label
			bestScore = score
		}
	}
	return best
}

// SeedText returns the representative text used to build a domain centroid.
func SeedText(label domain.DomainLabel) string {
	return strings.Join(domainKeywords[label], " ")
}
