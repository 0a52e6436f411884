// Package taxonomy defines the fixed categorical taxonomies for ad creatives
// (image and video), validates candidate tag sets against them, and builds the
// AI tagging prompts. Prompts are pure functions of the taxonomy and
// regenerate identically on every call.
package taxonomy

import (
	"fmt"
	"strings"
)

// Dimension is one categorical axis of a taxonomy with its closed value set
type Dimension struct {
	Key    string
	Values []string
}

// Result holds the outcome of validating a candidate tag set.
// Errors accumulate; validation never stops at the first violation.
type Result struct {
	Valid  bool
	Errors []string
}

// allows reports whether v is one of the dimension's allowed values
func (d Dimension) allows(v string) bool {
	for _, allowed := range d.Values {
		if v == allowed {
			return true
		}
	}
	return false
}

// validateAgainst checks a candidate tag object against an ordered dimension
// list. The candidate must be a non-null JSON object (map); arrays, nil, and
// scalars fail immediately with a single error.
func validateAgainst(dims []Dimension, candidate any) Result {
	obj, ok := candidate.(map[string]any)
	if !ok || obj == nil {
		return Result{Valid: false, Errors: []string{"Tags must be a non-null object"}}
	}

	var errs []string
	for _, dim := range dims {
		raw, present := obj[dim.Key]
		if !present {
			errs = append(errs, fmt.Sprintf("Missing dimension: %s", dim.Key))
			continue
		}
		value, isString := raw.(string)
		if !isString || !dim.allows(value) {
			errs = append(errs, fmt.Sprintf("Invalid value for %s: %q (allowed: %s)",
				dim.Key, fmt.Sprintf("%v", raw), strings.Join(dim.Values, ", ")))
		}
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}

// quotedValues renders a dimension's values as a comma-separated quoted list
func quotedValues(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return strings.Join(quoted, ", ")
}

// renderDimensionList renders taxonomy dimensions as prompt bullet lines
func renderDimensionList(sb *strings.Builder, dims []Dimension) {
	for _, dim := range dims {
		sb.WriteString(fmt.Sprintf("- %q: one of %s\n", dim.Key, quotedValues(dim.Values)))
	}
}
