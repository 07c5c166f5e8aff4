package ledger

import (
	"fmt"
	"strings"
)

// FormatNumber construye el número visible de un documento: "D" + 1 → "D-0001".
func FormatNumber(prefix string, seq int64) string {
	prefix = strings.TrimRight(strings.TrimSpace(prefix), "-")
	if prefix == "" {
		return fmt.Sprintf("%04d", seq)
	}
	return fmt.Sprintf("%s-%04d", prefix, seq)
}
