// Package structured holds the in-process index over tabular/JSON council
// records: fee schedules, licence registers, contact lists. Records are
// loaded once (or reloaded wholesale) and searched by keyword overlap.
package structured

import (
	"context"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/domain"
)

type Index struct {
	mu      sync.RWMutex
	records []domain.StructuredRecord
}

func NewIndex() *Index {
	return &Index{}
}

// Load replaces the full record set. Partial loads are never visible to
// readers; the swap happens under the write lock.
func (ix *Index) Load(_ context.Context, records []domain.StructuredRecord) error {
	copied := make([]domain.StructuredRecord, len(records))
	copy(copied, records)

	ix.mu.Lock()
	ix.records = copied
	ix.mu.Unlock()
	return nil
}

// Search scores each record by the fraction of query tokens found in its
// field values, so scores land in [0,1]. No match is an empty result, not
// an error.
func (ix *Index) Search(_ context.Context, queryText string, filter domain.SearchFilter) ([]domain.RetrievedItem, error) {
	queryTokens := tokenize(queryText)
	if len(queryTokens) == 0 {
		return nil, nil
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	out := make([]domain.RetrievedItem, 0, 8)
	for _, record := range ix.records {
		if filter.Domain != "" && record.Domain != filter.Domain {
			continue
		}
		score := overlapScore(queryTokens, record)
		if score <= 0 {
			continue
		}
		out = append(out, domain.RetrievedItem{
			Ref:        record.ID,
			DocumentID: record.Source,
			Domain:     record.Domain,
			Text:       FlattenFields(record),
			Score:      score,
			Source:     domain.SourceStructured,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Ref < out[j].Ref
	})
	return out, nil
}

// FlattenFields renders a record as "key: value" lines with stable order.
func FlattenFields(record domain.StructuredRecord) string {
	keys := make([]string, 0, len(record.Fields))
	for key := range record.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		if record.Fields[key] == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(record.Fields[key])
	}
	return b.String()
}

func overlapScore(queryTokens []string, record domain.StructuredRecord) float64 {
	recordTokens := make(map[string]struct{})
	for key, value := range record.Fields {
		for _, token := range tokenize(key) {
			recordTokens[token] = struct{}{}
		}
		for _, token := range tokenize(value) {
			recordTokens[token] = struct{}{}
		}
	}

	matched := 0
	for _, token := range queryTokens {
		if _, ok := recordTokens[token]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(queryTokens))
}

func tokenize(s string) []string {
	if s == "" {
		return nil
	}
	tokens := make([]string, 0, 8)
	var b strings.Builder
	for _, r := range s {
		r = unicode.ToLower(r)
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		tokens = append(tokens, b.String())
	}
	return tokens
}
