// Package pipeline runs the validation of a document as a sequence of steps.
//
// A document passes through four stages: parse (read the file, fingerprint
// it and extract candidate blocks), classify (build the detection record),
// order (check the record against the canonical order) and rubric (content
// checks). Each stage is a Step that receives the report and adds to it.
//
// Batch validation runs one pipeline per document with a concurrency limit
// managed by errgroup. A failure in one document is recorded on its report
// and never stops the rest of the batch.
package pipeline
