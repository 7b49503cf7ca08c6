// Package main provides the entry point for the sectioncheck CLI.
//
// sectioncheck validates that the sections of static port pages appear in
// the canonical order of a content standard and reports missing, duplicated
// and out-of-order sections along with content rubric deviations.
//
// Usage:
//
//	sectioncheck validate ports/
//	sectioncheck validate --json "ports/**/*.html"
//
// See --help for all available options.
package main

// main is the entry point for sectioncheck.
func main() {
	Execute()
}
