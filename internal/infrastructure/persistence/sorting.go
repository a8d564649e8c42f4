package persistence

import (
	"strings"

	"github.com/homelease/backend/internal/domain/shared"
)

// validateSortOrder normalizes the sort direction to ASC or DESC.
// Anything unrecognized falls back to DESC.
func validateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "ASC") {
		return "ASC"
	}
	return "DESC"
}

// validateSortField checks the sort column against an allowlist.
// An empty or unknown column falls back to created_at.
func validateSortField(field string, allowed map[string]bool) string {
	trimmed := strings.TrimSpace(field)
	if trimmed != "" && allowed[trimmed] {
		return trimmed
	}
	return "created_at"
}

// orderClause builds a validated ORDER BY expression from the filter.
// Only allowlisted columns ever reach the SQL string.
func orderClause(filter shared.Filter, allowed map[string]bool) string {
	return validateSortField(filter.OrderBy, allowed) + " " + validateSortOrder(filter.OrderDir)
}
