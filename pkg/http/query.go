package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// QueryString returns the trimmed value of key, or "" when absent.
func QueryString(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// QueryInt parses key as an integer, returning def when it is absent or blank.
func QueryInt(r *http.Request, key string, def int) (int, error) {
	raw := QueryString(r, key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("query parameter %q must be an integer", key)
	}
	return v, nil
}

// QueryIntPtr parses key as an integer, returning nil when it is absent or blank.
func QueryIntPtr(r *http.Request, key string) (*int, error) {
	raw := QueryString(r, key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("query parameter %q must be an integer", key)
	}
	return &v, nil
}

// QueryValues returns every non-blank value given for key, in order.
func QueryValues(r *http.Request, key string) []string {
	var out []string
	for _, v := range r.URL.Query()[key] {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
