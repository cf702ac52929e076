package ingest

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/factline/factline/internal/cache"
	"github.com/factline/factline/internal/llm"
	"github.com/factline/factline/internal/model"
)

// Scanner assembles a complete extraction batch from a URL: fetch,
// itemize, chunk, then ask the extractor for candidate assertions per
// chunk. Without a provider it still produces the structural batch.
type Scanner struct {
	fetcher  *Fetcher
	chunker  *Chunker
	provider llm.Provider
	llmRate  *rate.Limiter
	language string
}

// NewScanner creates a scanner. provider may be nil, which skips
// extraction; fetchCache may be nil, which skips caching.
func NewScanner(cfg *model.Config, provider llm.Provider, fetchCache cache.Cache) *Scanner {
	perSec := cfg.LLM.RatePerSec
	if perSec <= 0 {
		perSec = 1.0
	}
	return &Scanner{
		fetcher:  NewFetcher(cfg.HTTP, fetchCache),
		chunker:  NewChunker(cfg.Chunking),
		provider: provider,
		llmRate:  rate.NewLimiter(rate.Limit(perSec), 1),
	}
}

// SetLanguage sets the language hint passed to the extractor
func (s *Scanner) SetLanguage(lang string) {
	s.language = lang
}

// BuildBatch fetches a document and assembles its extraction batch
func (s *Scanner) BuildBatch(ctx context.Context, rawURL string, hint model.DocumentHint) (*model.ExtractionBatch, error) {
	fetched, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}

	items, err := Itemize(fetched.Body)
	if err != nil {
		return nil, fmt.Errorf("itemize %s: %w", rawURL, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no visible text in %s", rawURL)
	}

	chunks := s.chunker.Build(items)

	batch := &model.ExtractionBatch{
		DocumentID: fetched.DocumentID,
		Hint:       hint,
		Items:      items,
		Chunks:     chunks,
	}

	if s.provider == nil {
		return batch, nil
	}

	for _, chunk := range chunks {
		if err := s.llmRate.Wait(ctx); err != nil {
			return nil, fmt.Errorf("extractor rate limit: %w", err)
		}
		resp, err := s.provider.Propose(ctx, llm.ProposeRequest{
			Chunk:    chunk,
			Language: s.language,
		})
		if err != nil {
			return nil, fmt.Errorf("propose for %s: %w", chunk.ID, err)
		}
		batch.Assertions = append(batch.Assertions, resp.Assertions...)
	}
	return batch, nil
}
