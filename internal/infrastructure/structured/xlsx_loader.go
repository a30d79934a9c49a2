package structured

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/domain"
	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/ports"
)

// LoadXLSXFile reads every sheet of a workbook. The first row of a sheet
// supplies the field names; each following row becomes one record. Rate
// and fee tables published by the council arrive in this shape.
func LoadXLSXFile(ctx context.Context, path string, classifier ports.DomainClassifier) ([]domain.StructuredRecord, error) {
	book, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer book.Close()

	base := filepath.Base(path)
	var records []domain.StructuredRecord
	for _, sheet := range book.GetSheetList() {
		rows, err := book.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		if len(rows) < 2 {
			continue
		}

		headers := rows[0]
		source := fmt.Sprintf("%s/%s", base, sheet)
		for i, row := range rows[1:] {
			fields := make(map[string]string, len(headers))
			for col, header := range headers {
				header = strings.TrimSpace(header)
				if header == "" || col >= len(row) {
					continue
				}
				if value := strings.TrimSpace(row[col]); value != "" {
					fields[header] = value
				}
			}
			if len(fields) == 0 {
				continue
			}
			record := domain.StructuredRecord{
				ID:     fmt.Sprintf("%s_%d", source, i),
				Source: source,
				Fields: fields,
			}
			record.Domain = classifyRecord(ctx, classifier, sheet+" "+base, record)
			records = append(records, record)
		}
	}
	return records, nil
}
