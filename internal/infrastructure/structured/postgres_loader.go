package structured

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/domain"
	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/ports"
)

// PostgresLoader turns rows of the configured tables into structured
// records. Each row becomes one record; the table name seeds the domain
// classification.
type PostgresLoader struct {
	db     *sql.DB
	tables []string
}

func NewPostgresLoader(db *sql.DB, tables []string) *PostgresLoader {
	return &PostgresLoader{db: db, tables: tables}
}

func (l *PostgresLoader) Load(ctx context.Context, classifier ports.DomainClassifier) ([]domain.StructuredRecord, error) {
	var records []domain.StructuredRecord
	for _, table := range l.tables {
		tableRecords, err := l.loadTable(ctx, table, classifier)
		if err != nil {
			return nil, fmt.Errorf("load table %s: %w", table, err)
		}
		records = append(records, tableRecords...)
	}
	return records, nil
}

func (l *PostgresLoader) loadTable(ctx context.Context, table string, classifier ports.DomainClassifier) ([]domain.StructuredRecord, error) {
	// Table names come from configuration, not user input.
	rows, err := l.db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM %q`, table))
	if err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	var records []domain.StructuredRecord
	values := make([]any, len(columns))
	scanTargets := make([]any, len(columns))
	for i := range values {
		scanTargets[i] = &values[i]
	}

	index := 0
	for rows.Next() {
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		fields := make(map[string]string, len(columns))
		for i, column := range columns {
			if values[i] == nil {
				continue
			}
			switch v := values[i].(type) {
			case []byte:
				fields[column] = string(v)
			default:
				fields[column] = fmt.Sprintf("%v", v)
			}
		}
		record := domain.StructuredRecord{
			ID:     fmt.Sprintf("%s_%d", table, index),
			Source: table,
			Fields: fields,
		}
		record.Domain = classifyRecord(ctx, classifier, table, record)
		records = append(records, record)
		index++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return records, nil
}
