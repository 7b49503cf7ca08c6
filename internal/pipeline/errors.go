package pipeline

import "errors"

// ErrDocumentTooLarge is returned when a document exceeds the size limit.
var ErrDocumentTooLarge = errors.New("document too large")
