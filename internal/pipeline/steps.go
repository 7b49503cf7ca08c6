package pipeline

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/crypto/sha3"

	"github.com/nao1215/sectioncheck/internal/extract"
	"github.com/nao1215/sectioncheck/internal/model"
	"github.com/nao1215/sectioncheck/internal/rubric"
	"github.com/nao1215/sectioncheck/internal/standard"
	"github.com/nao1215/sectioncheck/internal/validator"
)

// DefaultMaxFileSize is the largest document, in bytes, the parse step reads.
const DefaultMaxFileSize = 10 * 1024 * 1024

// HashLookup returns the content hash stored for path by the previous
// validation, if any.
type HashLookup func(path string) (string, bool)

// ParseStep reads the document, fingerprints it and extracts candidate
// blocks.
type ParseStep struct {
	parser      *extract.Parser
	maxFileSize int64
	lookup      HashLookup
	logger      *slog.Logger
}

// ParseStepOption configures a ParseStep.
type ParseStepOption func(*ParseStep)

// WithMaxFileSize sets the maximum number of bytes read from a document.
func WithMaxFileSize(size int64) ParseStepOption {
	return func(s *ParseStep) {
		if size > 0 {
			s.maxFileSize = size
		}
	}
}

// WithHashLookup enables change detection against stored hashes.
func WithHashLookup(lookup HashLookup) ParseStepOption {
	return func(s *ParseStep) {
		s.lookup = lookup
	}
}

// WithParseLogger sets a custom logger for the parse step.
func WithParseLogger(logger *slog.Logger) ParseStepOption {
	return func(s *ParseStep) {
		s.logger = logger
	}
}

// NewParseStep creates a parse step using parser.
func NewParseStep(parser *extract.Parser, opts ...ParseStepOption) *ParseStep {
	s := &ParseStep{
		parser:      parser,
		maxFileSize: DefaultMaxFileSize,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *ParseStep) Name() string {
	return "parse"
}

// Do executes the parse step.
func (s *ParseStep) Do(_ context.Context, report *model.Report) error {
	data, err := s.read(report.Path)
	if err != nil {
		documentError(report, err)
		return err
	}

	report.ContentHash = ContentHash(data)
	if s.lookup != nil {
		if prev, ok := s.lookup(report.Path); ok && prev == report.ContentHash {
			report.Unchanged = true
			s.logger.Debug("document unchanged", "path", report.Path)
		}
	}

	doc, err := s.parser.Parse(bytes.NewReader(data))
	if err != nil {
		documentError(report, err)
		return err
	}

	report.Title = doc.Title
	report.Blocks = doc.Blocks
	report.BlockCount = len(doc.Blocks)

	s.logger.Debug("document parsed",
		"path", report.Path,
		"title", doc.Title,
		"blocks", len(doc.Blocks),
	)
	return nil
}

func (s *ParseStep) read(path string) ([]byte, error) {
	f, err := os.Open(path) //nolint:gosec // Validating user-supplied paths is the purpose of the tool
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, s.maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	if int64(len(data)) > s.maxFileSize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrDocumentTooLarge, path, s.maxFileSize)
	}
	return data, nil
}

// ContentHash returns the hex SHA3-256 digest of data.
func ContentHash(data []byte) string {
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func documentError(report *model.Report, err error) {
	f := model.NewFinding(model.FindingDocumentError, "Document could not be validated", err.Error())
	f.Location = report.Path
	report.AddFinding(f)
}

// ClassifyStep builds the detection record from the extracted blocks.
type ClassifyStep struct {
	validator *validator.Validator
}

// NewClassifyStep creates a classify step backed by v.
func NewClassifyStep(v *validator.Validator) *ClassifyStep {
	return &ClassifyStep{validator: v}
}

// Name returns the step name.
func (s *ClassifyStep) Name() string {
	return "classify"
}

// Do executes the classify step.
func (s *ClassifyStep) Do(_ context.Context, report *model.Report) error {
	report.Standard = s.validator.Standard().ID()
	report.Record = s.validator.Classify(report.Blocks)
	return nil
}

// OrderStep checks the detection record against the canonical order and
// records the structural findings.
type OrderStep struct {
	std *standard.Standard
}

// NewOrderStep creates an order step for std.
func NewOrderStep(std *standard.Standard) *OrderStep {
	return &OrderStep{std: std}
}

// Name returns the step name.
func (s *OrderStep) Name() string {
	return "order"
}

// Do executes the order step.
func (s *OrderStep) Do(_ context.Context, report *model.Report) error {
	result := validator.ValidateOrder(report.Record, s.std.Order)
	report.Violations = result.Violations
	report.Missing = result.Missing
	report.Unrecognized = result.Unrecognized

	for _, f := range rubric.StructuralFindings(report, s.std.Rubric) {
		report.AddFinding(f)
	}
	return nil
}

// RubricStep runs the content checks. Unchanged documents are skipped.
type RubricStep struct {
	checker *rubric.Checker
	logger  *slog.Logger
}

// NewRubricStep creates a rubric step backed by checker.
func NewRubricStep(checker *rubric.Checker, logger *slog.Logger) *RubricStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &RubricStep{checker: checker, logger: logger}
}

// Name returns the step name.
func (s *RubricStep) Name() string {
	return "rubric"
}

// Do executes the rubric step.
func (s *RubricStep) Do(ctx context.Context, report *model.Report) error {
	if report.Unchanged {
		s.logger.Debug("skipping rubric for unchanged document", "path", report.Path)
		return nil
	}

	findings, err := s.checker.Check(ctx, report)
	for _, f := range findings {
		report.AddFinding(f)
	}
	return err
}

// DefaultPipelineConfig holds configuration for the default pipeline.
type DefaultPipelineConfig struct {
	// MaxFileSize is the largest document, in bytes, that is read.
	MaxFileSize int64

	// SummaryWords is how many leading words identify a headingless container.
	SummaryWords int

	// HashLookup enables change detection when set.
	HashLookup HashLookup

	// SkipRubric disables the content checks, leaving only structure.
	SkipRubric bool
}

// DefaultPipelineOption configures a DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineMaxFileSize sets the maximum document size.
func WithPipelineMaxFileSize(size int64) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.MaxFileSize = size
	}
}

// WithPipelineSummaryWords sets the container summary length.
func WithPipelineSummaryWords(n int) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.SummaryWords = n
	}
}

// WithPipelineHashLookup enables change detection.
func WithPipelineHashLookup(lookup HashLookup) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.HashLookup = lookup
	}
}

// WithPipelineSkipRubric disables the content checks.
func WithPipelineSkipRubric(skip bool) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.SkipRubric = skip
	}
}

// DefaultPipeline creates a pipeline with the parse, classify, order and
// rubric steps for std. It fails only if std itself is invalid.
//
// pipelineOpts configure the Pipeline itself (WithLogger); configOpts
// configure the steps (WithPipelineMaxFileSize, WithPipelineHashLookup).
func DefaultPipeline(std *standard.Standard, pipelineOpts []Option, configOpts ...DefaultPipelineOption) (*Pipeline, error) {
	p := New(pipelineOpts...)

	cfg := &DefaultPipelineConfig{
		MaxFileSize:  DefaultMaxFileSize,
		SummaryWords: extract.DefaultSummaryWords,
	}
	for _, opt := range configOpts {
		opt(cfg)
	}

	v, err := validator.New(std, validator.WithLogger(p.logger))
	if err != nil {
		return nil, err
	}

	parseOpts := []ParseStepOption{
		WithMaxFileSize(cfg.MaxFileSize),
		WithParseLogger(p.logger),
	}
	if cfg.HashLookup != nil {
		parseOpts = append(parseOpts, WithHashLookup(cfg.HashLookup))
	}

	p.AddSteps(
		NewParseStep(extract.NewParser(extract.WithSummaryWords(cfg.SummaryWords)), parseOpts...),
		NewClassifyStep(v),
		NewOrderStep(std),
	)
	if !cfg.SkipRubric {
		p.AddSteps(NewRubricStep(rubric.NewChecker(std.Rubric, rubric.WithLogger(p.logger)), p.logger))
	}

	return p, nil
}
