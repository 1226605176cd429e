package repository

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ErrItemUnavailable is returned by the workflow transactions when an item is
// not in the available status (or soft-deleted) at open time. The whole batch
// rolls back.
var ErrItemUnavailable = errors.New("item not available")

// Migrate creates or updates the schema for every table this package owns.
// Used by cmd/seed and the repository tests; production schemas are managed
// the same way on boot.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel{},
		&itemModel{},
		&loanModel{},
		&loanLineModel{},
		&ticketModel{},
		&ticketLineModel{},
	)
}

// orderClause resolves a caller-supplied sort field against an allowlist,
// falling back to id. Direction defaults to descending, matching the register
// listing screens.
func orderClause(allowed map[string]string, sortBy, sortDir string) string {
	col, ok := allowed[sortBy]
	if !ok {
		col = "id"
	}
	dir := "DESC"
	if strings.EqualFold(sortDir, "asc") {
		dir = "ASC"
	}
	return fmt.Sprintf("%s %s", col, dir)
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	v := s
	return &v
}
