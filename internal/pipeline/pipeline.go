// Package pipeline wires the ingest, extraction, engine and store stages
// into the end-to-end document flow the CLI drives.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/factline/factline/internal/cache"
	"github.com/factline/factline/internal/engine"
	"github.com/factline/factline/internal/ingest"
	"github.com/factline/factline/internal/llm"
	"github.com/factline/factline/internal/model"
	"github.com/factline/factline/internal/store"
)

// Pipeline orchestrates the complete scan process for one document
type Pipeline struct {
	scanner  *ingest.Scanner
	engine   *engine.Engine
	store    *store.Store
	renderer *engine.Renderer
	config   *model.Config
}

// New creates a pipeline. storeDir of "" disables persistence.
func New(cfg *model.Config, storeDir string) (*Pipeline, error) {
	eng, err := engine.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("build engine: %w", err)
	}

	var provider llm.Provider
	if cfg.LLM.Provider != "" {
		provider, err = llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			fmt.Printf("Warning: failed to initialize extractor provider: %v\n", err)
		}
	}

	var fetchCache cache.Cache
	if cfg.Cache.Enabled {
		dir := cfg.Cache.Dir
		if dir == "" {
			if home, err := os.UserHomeDir(); err == nil {
				dir = filepath.Join(home, ".factline", "cache")
			}
		}
		if dir != "" {
			fetchCache = cache.NewLayeredCache(cfg.Cache.TTL, dir, cfg.Cache.TTL)
		}
	}

	var st *store.Store
	if storeDir != "" {
		st, err = store.Open(storeDir)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
	}

	scanner := ingest.NewScanner(cfg, provider, fetchCache)
	scanner.SetLanguage(cfg.Language)

	return &Pipeline{
		scanner:  scanner,
		engine:   eng,
		store:    st,
		renderer: engine.NewRenderer(cfg.Output.IncludeFooter),
		config:   cfg,
	}, nil
}

// Run fetches a URL, extracts assertions, and promotes them
func (p *Pipeline) Run(ctx context.Context, url string, hint model.DocumentHint) (*engine.BatchResult, error) {
	batch, err := p.scanner.BuildBatch(ctx, url, hint)
	if err != nil {
		return nil, err
	}
	return p.process(ctx, batch)
}

// RunBatch promotes a pre-extracted batch loaded from a JSON file,
// bypassing fetch and extraction
func (p *Pipeline) RunBatch(ctx context.Context, path string) (*engine.BatchResult, error) {
	batch, err := LoadBatch(path)
	if err != nil {
		return nil, err
	}
	return p.process(ctx, batch)
}

func (p *Pipeline) process(ctx context.Context, batch *model.ExtractionBatch) (*engine.BatchResult, error) {
	result, err := p.engine.ProcessBatch(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("process batch: %w", err)
	}

	if p.store != nil {
		if err := p.store.SaveInformation(result.Information); err != nil {
			return nil, fmt.Errorf("save information: %w", err)
		}
		if err := p.store.AppendLog(batch.DocumentID, result.Log); err != nil {
			return nil, fmt.Errorf("append log: %w", err)
		}
	}
	return result, nil
}

// RenderResult renders the result to the configured outputs
func (p *Pipeline) RenderResult(result *engine.BatchResult, jsonPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(result, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}
	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(result, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}
	p.renderer.RenderSummary(result)
	return nil
}

// LoadBatch reads an extraction batch from a JSON file
func LoadBatch(path string) (*model.ExtractionBatch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}
	var batch model.ExtractionBatch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("parse batch file: %w", err)
	}
	if batch.DocumentID == "" {
		return nil, fmt.Errorf("batch file %s has no document_id", path)
	}
	return &batch, nil
}
