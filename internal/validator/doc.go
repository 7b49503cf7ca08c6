// Package validator classifies candidate blocks into section categories and
// checks the detected sections against a canonical order.
//
// Both steps are pure functions of their inputs. The rule table and the
// canonical order come from a standard.Standard supplied by the caller; this
// package holds no built-in vocabulary of its own.
//
//	v, err := validator.New(standard.Default())
//	result := v.Validate(doc.Blocks)
//	for _, violation := range result.Violations { ... }
package validator
