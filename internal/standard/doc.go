// Package standard holds the content standard a page is validated against:
// the ordered classification rule table, the canonical section order and the
// rubric thresholds.
//
// A Standard is immutable once built. The validator receives it by injection,
// so a revised content standard is a new file, not a code change. Standards
// load from YAML, TOML or JSONC; Default returns the built-in port-page
// standard.
//
//	std, err := standard.Load("standards/port-2025.yaml")
//	if err != nil {
//	    return err
//	}
//	v := validator.New(std)
package standard
