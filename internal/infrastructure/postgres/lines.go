package postgres

import (
	"encoding/json"
	"fmt"

	"github.com/jhoicas/devis-factures-api/internal/domain/entity"
)

// Las líneas de devis y facturas se guardan como texto JSON en la columna `lines`.

func encodeLines(lines []entity.LineItem) (string, error) {
	if lines == nil {
		lines = []entity.LineItem{}
	}
	b, err := json.Marshal(lines)
	if err != nil {
		return "", fmt.Errorf("encode lines: %w", err)
	}
	return string(b), nil
}

func decodeLines(s string) ([]entity.LineItem, error) {
	if s == "" {
		return []entity.LineItem{}, nil
	}
	var lines []entity.LineItem
	if err := json.Unmarshal([]byte(s), &lines); err != nil {
		return nil, fmt.Errorf("decode lines: %w", err)
	}
	return lines, nil
}
