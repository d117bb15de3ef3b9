package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProcessFunc handles one essay source (a file path or URL)
type ProcessFunc[T any] func(ctx context.Context, source string) (T, error)

// BatchResult is the outcome for one source
type BatchResult[T any] struct {
	JobID    string
	Source   string
	Value    T
	Error    error
	Duration time.Duration

	index int
}

// BatchProcessor runs a ProcessFunc over many sources concurrently
type BatchProcessor[T any] struct {
	process     ProcessFunc[T]
	concurrency int
	logger      *zap.Logger
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor[T any](process ProcessFunc[T], concurrency int, logger *zap.Logger) *BatchProcessor[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchProcessor[T]{
		process:     process,
		concurrency: concurrency,
		logger:      logger,
	}
}

// ProcessSources processes every source and returns results in input order
func (b *BatchProcessor[T]) ProcessSources(ctx context.Context, sources []string) []*BatchResult[T] {
	if len(sources) == 0 {
		return []*BatchResult[T]{}
	}

	pool := NewPool[*BatchResult[T]](ctx, b.concurrency)
	pool.Start()

	// results are drained while submitting so a long list cannot fill both queues
	collected := make(chan []*BatchResult[T], 1)
	go func() {
		var out []*BatchResult[T]
		for r := range pool.Results() {
			out = append(out, r)
		}
		collected <- out
	}()

	for i, source := range sources {
		job := b.job(i, source)
		if !pool.Submit(job) {
			break
		}
	}
	pool.Close()

	results := <-collected
	sort.Slice(results, func(i, j int) bool { return results[i].index < results[j].index })
	return results
}

func (b *BatchProcessor[T]) job(index int, source string) Job[*BatchResult[T]] {
	return JobFunc[*BatchResult[T]](func(ctx context.Context) *BatchResult[T] {
		id := uuid.NewString()
		log := b.logger.With(zap.String("job_id", id), zap.String("source", source))
		log.Debug("batch job started")

		start := time.Now()
		value, err := b.process(ctx, source)
		res := &BatchResult[T]{
			JobID:    id,
			Source:   source,
			Value:    value,
			Error:    err,
			Duration: time.Since(start),
			index:    index,
		}
		if err != nil {
			log.Warn("batch job failed", zap.Error(err))
		} else {
			log.Debug("batch job finished", zap.Duration("duration", res.Duration))
		}
		return res
	})
}

// ProcessFile reads sources from a file and processes them concurrently
func (b *BatchProcessor[T]) ProcessFile(ctx context.Context, filePath string) ([]*BatchResult[T], error) {
	sources, err := ReadSourcesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read sources: %w", err)
	}

	return b.ProcessSources(ctx, sources), nil
}

// ReadSourcesFromFile reads essay sources from a file, one per line.
// Blank lines and # comments are skipped; duplicates are dropped.
func ReadSourcesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var sources []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			sources = append(sources, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return sources, nil
}
