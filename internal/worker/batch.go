package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/factline/factline/internal/engine"
	"github.com/factline/factline/internal/model"
)

// Runner processes one URL end to end
type Runner interface {
	Run(ctx context.Context, url string, hint model.DocumentHint) (*engine.BatchResult, error)
}

// RunJob is one URL to process
type RunJob struct {
	URL    string
	Hint   model.DocumentHint
	Runner Runner
}

// Execute runs the job
func (j *RunJob) Execute(ctx context.Context) Result {
	result, err := j.Runner.Run(ctx, j.URL, j.Hint)
	return &RunResult{URL: j.URL, Result: result, Error: err}
}

// RunResult is the outcome of one URL
type RunResult struct {
	URL    string
	Result *engine.BatchResult
	Error  error
}

// GetError returns the job error, if any
func (r *RunResult) GetError() error {
	return r.Error
}

// BatchProcessor processes multiple URLs concurrently
type BatchProcessor struct {
	runner      Runner
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(runner Runner, concurrency int) *BatchProcessor {
	return &BatchProcessor{runner: runner, concurrency: concurrency}
}

// ProcessURLs processes the URLs concurrently and returns one result per
// URL, in completion order. Cancelling ctx stops the pool; URLs not yet
// started produce no result.
func (b *BatchProcessor) ProcessURLs(ctx context.Context, urls []string, hint model.DocumentHint) []*RunResult {
	if len(urls) == 0 {
		return []*RunResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, url := range urls {
		pool.Submit(&RunJob{URL: url, Hint: hint, Runner: b.runner})
	}

	results := pool.Wait()
	out := make([]*RunResult, len(results))
	for i, r := range results {
		out[i] = r.(*RunResult)
	}
	return out
}

// ProcessFile reads URLs from a file and processes them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string, hint model.DocumentHint) ([]*RunResult, error) {
	urls, err := ReadURLsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read URLs: %w", err)
	}
	return b.ProcessURLs(ctx, urls, hint), nil
}

// ReadURLsFromFile reads deduplicated URLs from a file, one per line.
// Blank lines and #-comments are skipped.
func ReadURLsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var urls []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			urls = append(urls, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return urls, nil
}
