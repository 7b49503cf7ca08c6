package main

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/nao1215/sectioncheck/internal/config"
	"github.com/nao1215/sectioncheck/internal/pipeline"
	"github.com/nao1215/sectioncheck/internal/standard"
)

// planner resolves the standard and pipeline for each document from
// --standard and the project file. Standards and pipelines are cached, so
// documents sharing settings share one pipeline. It is not safe for
// concurrent use; plan every document before starting a batch.
type planner struct {
	cfg        *config.Config
	logger     *slog.Logger
	configOpts []pipeline.DefaultPipelineOption

	// standards caches loaded standards by file path; "" is the built-in one.
	standards map[string]*standard.Standard

	// pipelines caches pipelines by planKey.
	pipelines map[string]*pipeline.Pipeline
}

func newPlanner(cfg *config.Config, logger *slog.Logger, configOpts ...pipeline.DefaultPipelineOption) *planner {
	return &planner{
		cfg:        cfg,
		logger:     logger,
		configOpts: configOpts,
		standards:  make(map[string]*standard.Standard),
		pipelines:  make(map[string]*pipeline.Pipeline),
	}
}

// pathConfig returns the settings for path. --standard wins over any
// standard named in the project file.
func (p *planner) pathConfig(path string) config.PathConfig {
	var pc config.PathConfig
	if p.cfg.Project != nil {
		pc = p.cfg.Project.GetPathConfig(path)
	}
	if p.cfg.StandardPath != "" {
		pc.Standard = p.cfg.StandardPath
	}
	return pc
}

// Standard returns the standard that applies to path, with the path's
// optional categories merged into its rubric.
func (p *planner) Standard(path string) (*standard.Standard, error) {
	pc := p.pathConfig(path)
	std, err := p.load(pc.Standard)
	if err != nil {
		return nil, err
	}
	return std.WithOptional(pc.OptionalCategories()...), nil
}

// Plan returns the pipeline for path. The boolean is true when the project
// file marks path as ignored, in which case the pipeline is nil.
func (p *planner) Plan(path string) (*pipeline.Pipeline, bool, error) {
	pc := p.pathConfig(path)
	if pc.Ignore {
		return nil, true, nil
	}

	key := planKey(pc)
	if pl, ok := p.pipelines[key]; ok {
		return pl, false, nil
	}

	std, err := p.Standard(path)
	if err != nil {
		return nil, false, err
	}

	pl, err := pipeline.DefaultPipeline(std,
		[]pipeline.Option{pipeline.WithLogger(p.logger)},
		p.configOpts...,
	)
	if err != nil {
		return nil, false, fmt.Errorf("invalid standard %s: %w", std.ID(), err)
	}
	p.pipelines[key] = pl

	p.logger.Debug("planned pipeline",
		"standard", std.ID(),
		"optional", pc.Optional,
		"steps", pl.StepNames(),
	)
	return pl, false, nil
}

// PlanAll plans every path and returns the pipelines by path together with
// the paths that are not ignored, in input order.
func (p *planner) PlanAll(paths []string) (map[string]*pipeline.Pipeline, []string, error) {
	plans := make(map[string]*pipeline.Pipeline, len(paths))
	kept := make([]string, 0, len(paths))
	for _, path := range paths {
		pl, ignored, err := p.Plan(path)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
		if ignored {
			p.logger.Debug("document ignored by project file", "path", path)
			continue
		}
		plans[path] = pl
		kept = append(kept, path)
	}
	return plans, kept, nil
}

// load returns the standard in file, or the built-in standard for "".
func (p *planner) load(file string) (*standard.Standard, error) {
	if std, ok := p.standards[file]; ok {
		return std, nil
	}

	var std *standard.Standard
	if file == "" {
		std = standard.Default()
	} else {
		var err error
		std, err = standard.Load(file)
		if err != nil {
			return nil, fmt.Errorf("failed to load standard: %w", err)
		}
		p.logger.Info("loaded standard", "file", file, "standard", std.ID())
	}

	p.standards[file] = std
	return std, nil
}

// planKey identifies a (standard file, optional categories) combination.
func planKey(pc config.PathConfig) string {
	optional := append([]string(nil), pc.Optional...)
	sort.Strings(optional)
	return pc.Standard + "|" + strings.Join(optional, ",")
}
