package validator

import (
	"fmt"
	"log/slog"

	"github.com/nao1215/sectioncheck/internal/model"
	"github.com/nao1215/sectioncheck/internal/standard"
)

// Result combines the classification record and the order check.
type Result struct {
	Record *model.Record
	OrderResult
}

// Validator classifies blocks and checks their order against one standard.
// It is safe for concurrent use.
type Validator struct {
	std    *standard.Standard
	logger *slog.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithLogger sets the logger for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		v.logger = logger
	}
}

// New creates a Validator for std. The standard is validated up front.
func New(std *standard.Standard, opts ...Option) (*Validator, error) {
	if std == nil {
		return nil, fmt.Errorf("validator: %w", standard.ErrEmptyOrder)
	}
	if err := std.Validate(); err != nil {
		return nil, fmt.Errorf("invalid standard %s: %w", std.ID(), err)
	}

	v := &Validator{
		std:    std,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Standard returns the standard the validator checks against.
func (v *Validator) Standard() *standard.Standard {
	return v.std
}

// Classify runs the section classifier with the validator's rule table.
func (v *Validator) Classify(blocks []model.Block) *model.Record {
	record := Classify(blocks, v.std.Rules)
	for _, d := range record.Detections {
		v.logger.Debug("section detected",
			"category", d.Category,
			"block", d.Block.Index,
			"match", d.Match,
		)
	}
	return record
}

// Validate classifies blocks and checks the resulting record's order.
func (v *Validator) Validate(blocks []model.Block) Result {
	record := v.Classify(blocks)
	result := Result{
		Record:      record,
		OrderResult: ValidateOrder(record, v.std.Order),
	}
	v.logger.Debug("order validated",
		"standard", v.std.ID(),
		"detected", record.Len(),
		"violations", len(result.Violations),
		"missing", len(result.Missing),
	)
	return result
}
