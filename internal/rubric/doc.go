// Package rubric turns validation results into findings.
//
// Structural findings come from the order check: order violations, missing
// and duplicate sections, and unrecognized categories. Content findings come
// from the standard's rubric: word counts, first-person narrative voice,
// banned phrases and gallery image credits.
//
// Severity for every finding type is defined once in the model package; this
// package only decides which findings apply.
package rubric
