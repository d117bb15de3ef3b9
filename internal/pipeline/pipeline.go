package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/ppiankov/essayfb/internal/feedback"
	"github.com/ppiankov/essayfb/internal/llm"
	"github.com/ppiankov/essayfb/internal/model"
	"github.com/ppiankov/essayfb/internal/notation"
	"github.com/ppiankov/essayfb/internal/segment"
	"github.com/ppiankov/essayfb/internal/source"
)

// Pipeline orchestrates load → segment → generate for one essay at a time.
// It is safe for concurrent use; every Run owns its own generator state.
type Pipeline struct {
	loader    *source.Loader
	generator *feedback.Generator
	renderer  *Renderer
	provider  string
	logger    *zap.Logger
	tracer    trace.Tracer
}

// New assembles a pipeline from already-built parts
func New(loader *source.Loader, generator *feedback.Generator, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		loader:    loader,
		generator: generator,
		renderer:  NewRenderer(),
		logger:    logger,
		tracer:    otel.Tracer("github.com/ppiankov/essayfb/pipeline"),
	}
}

// NewPipeline builds the provider chain, loader and generator from cfg
func NewPipeline(ctx context.Context, cfg *model.Config, logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	provider, err := llm.NewFromConfig(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init provider: %w", err)
	}
	if provider == nil {
		logger.Warn("no generation provider configured, feedback will be synthesized locally")
	}

	fetcher := source.NewFetcher(cfg.HTTP, cfg.RateLimiting, logger)
	loader := source.NewLoader(fetcher, cfg.HTTP.MaxBodyBytes)

	generator := feedback.NewGenerator(provider,
		feedback.WithParams(cfg.Generation),
		feedback.WithValidator(notation.NewValidator(nil, cfg.Concurrency.NotationWorkers)),
		feedback.WithLogger(logger),
	)

	p := New(loader, generator, logger)
	if provider != nil {
		p.provider = provider.Name()
	}
	return p, nil
}

// Run loads src and produces a complete report. Only load failures are
// returned as errors; service failures are recorded in the report's rounds.
func (p *Pipeline) Run(ctx context.Context, src string) (*Report, error) {
	doc, err := p.loader.Load(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", src, err)
	}
	return p.RunDocument(ctx, doc), nil
}

// RunText produces a report for essay text supplied directly
func (p *Pipeline) RunText(ctx context.Context, name, text string) *Report {
	return p.RunDocument(ctx, &source.Document{Source: name, Text: text, FetchedAt: time.Now().UTC()})
}

// RunDocument segments an already loaded document and generates feedback
func (p *Pipeline) RunDocument(ctx context.Context, doc *source.Document) *Report {
	ctx, span := p.tracer.Start(ctx, "pipeline.run",
		trace.WithAttributes(attribute.String("essay.source", doc.Source)))
	defer span.End()

	sentences := segment.Segment(doc.Text)
	result := p.generator.Generate(ctx, sentences)

	report := newReport(doc, sentences, result, p.provider)
	if err := result.Err(); err != nil {
		p.logger.Warn("every generation round failed",
			zap.String("source", doc.Source),
			zap.String("run_id", result.RunID),
			zap.Error(err))
	}
	return report
}

// Generate runs the generator over pre-segmented sentences
func (p *Pipeline) Generate(ctx context.Context, sentences []model.Sentence) *feedback.Result {
	return p.generator.Generate(ctx, sentences)
}

// RenderReport writes the requested outputs and prints the stdout summary
func (p *Pipeline) RenderReport(report *Report, jsonPath string, mdPath string, verbose bool) error {
	return p.RenderReportTo(os.Stdout, report, jsonPath, mdPath, verbose)
}

// RenderReportTo is RenderReport with an explicit summary writer
func (p *Pipeline) RenderReportTo(w io.Writer, report *Report, jsonPath string, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	p.renderer.RenderSummary(w, report)
	return nil
}
