package query

import (
	"fmt"
	"strings"
)

// Sortable maps public sort properties to SQL expressions. Properties not
// in the map are rejected so that request input never reaches ORDER BY.
type Sortable map[string]string

// Check rejects orders over unknown properties.
func (s Sortable) Check(orders []Order) error {
	for _, o := range orders {
		if _, ok := s[o.Property]; !ok {
			return fmt.Errorf("%w: unknown sort property %q", ErrInvalidPageRequest, o.Property)
		}
	}
	return nil
}

// OrderBy renders an ORDER BY list. tiebreak is appended unless an order
// already sorts on it, so that pages stay stable.
func (s Sortable) OrderBy(orders []Order, tiebreak string) (string, error) {
	parts := make([]string, 0, len(orders)+1)
	seenTiebreak := false
	for _, o := range orders {
		col, ok := s[o.Property]
		if !ok {
			return "", fmt.Errorf("%w: unknown sort property %q", ErrInvalidPageRequest, o.Property)
		}
		dir := Asc
		if o.Direction == Desc {
			dir = Desc
		}
		if col == tiebreak {
			seenTiebreak = true
		}
		parts = append(parts, col+" "+string(dir))
	}
	if tiebreak != "" && !seenTiebreak {
		parts = append(parts, tiebreak+" ASC")
	}
	return strings.Join(parts, ", "), nil
}
