package structured

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/domain"
	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/ports"
)

// LoadJSONFile reads a JSON array of objects (a single object is accepted
// and treated as a one-element array) into structured records. The domain
// is inferred from the filename and record content.
func LoadJSONFile(ctx context.Context, path string, classifier ports.DomainClassifier) ([]domain.StructuredRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read json file: %w", err)
	}

	var objects []map[string]any
	if err := json.Unmarshal(raw, &objects); err != nil {
		var single map[string]any
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, domain.WrapError(domain.ErrInvalidInput, "parse json records", err)
		}
		objects = []map[string]any{single}
	}

	source := filepath.Base(path)
	records := make([]domain.StructuredRecord, 0, len(objects))
	for i, object := range objects {
		fields := make(map[string]string, len(object))
		for key, value := range object {
			if value == nil {
				continue
			}
			fields[key] = fmt.Sprintf("%v", value)
		}
		record := domain.StructuredRecord{
			ID:     fmt.Sprintf("%s_%d", source, i),
			Source: source,
			Fields: fields,
		}
		record.Domain = classifyRecord(ctx, classifier, source, record)
		records = append(records, record)
	}
	return records, nil
}

func classifyRecord(ctx context.Context, classifier ports.DomainClassifier, source string, record domain.StructuredRecord) domain.DomainLabel {
	if classifier == nil {
		return domain.DomainGeneral
	}
	label, err := classifier.ClassifyDocument(ctx, source, FlattenFields(record))
	if err != nil {
		return domain.DomainGeneral
	}
	return label
}
