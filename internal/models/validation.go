package models

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationErrors collects per-field input problems detected before any
// transaction opens.
type ValidationErrors map[string][]string

func (v ValidationErrors) Add(field, message string) {
	v[field] = append(v[field], message)
}

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

// OrNil returns the collected errors as an error value, or nil when clean.
func (v ValidationErrors) OrNil() error {
	if v.HasErrors() {
		return v
	}
	return nil
}

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(v[field], "; ")))
	}
	return strings.Join(parts, ", ")
}
