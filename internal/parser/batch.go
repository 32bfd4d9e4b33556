package parser

import (
	"context"
	"sync"
	"time"

	"github.com/insightdelivered/hsbc-statement-converter/internal/models"
)

// BatchOptions controls ParseBatch.
type BatchOptions struct {
	Workers int
	Timeout time.Duration // per document, 0 = none
}

// ParseBatch parses several statements concurrently. Results are returned
// in the order of paths.
func (p *Parser) ParseBatch(ctx context.Context, paths []string, opts BatchOptions) []*models.ParseResult {
	results := make([]*models.ParseResult, len(paths))
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = p.parseOne(ctx, paths[i], opts.Timeout)
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

func (p *Parser) parseOne(ctx context.Context, path string, timeout time.Duration) *models.ParseResult {
	if timeout <= 0 {
		return p.ParseFileContext(ctx, path)
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.ParseFileContext(ctx, path)
}
