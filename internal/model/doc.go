// Package model defines the core data structures used throughout sectioncheck.
//
// This package contains the following main types:
//   - Category: a section tag from the closed, ordered category set
//   - Block: a candidate block extracted from an HTML document
//   - Record: the detection record built by the section classifier
//   - OrderViolation: a section that breaks the canonical order
//   - Report: the per-document validation result
//   - Summary: severity counts used by report writers and the history store
//
// Models live in their own package so that extract, validator, rubric,
// report and database can share them without import cycles. All of them
// serialize to JSON for report output and history storage.
package model
