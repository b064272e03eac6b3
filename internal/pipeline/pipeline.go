package pipeline

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vburojevic/logstat/internal/aggregator"
	"github.com/vburojevic/logstat/internal/domain"
	"github.com/vburojevic/logstat/internal/parser"
)

// ErrSourceRead marks a source that could not be opened or read. It aborts the run.
var ErrSourceRead = errors.New("cannot read source")

const (
	initialLineBuffer = 64 * 1024
	maxLineLength     = 1024 * 1024
)

// Result is the outcome of one run.
type Result struct {
	Report      *domain.Report
	Sources     int
	ParsedLines int
	FailedLines int
	Elapsed     time.Duration
}

// Runner reads sources, extracts every line and folds the records into a report.
type Runner struct {
	// Workers is the number of sources read at once. Values below 2 fold
	// sources strictly in sequence.
	Workers int

	Diagnostics Diagnostics
	Logger      *zap.Logger
	Clock       clock.Clock
	Extractor   *parser.Extractor
}

// NewRunner creates a sequential runner reporting failures to diag.
func NewRunner(diag Diagnostics, logger *zap.Logger) *Runner {
	if diag == nil {
		diag = Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		Workers:     1,
		Diagnostics: diag,
		Logger:      logger,
		Clock:       clock.New(),
		Extractor:   parser.NewExtractor(),
	}
}

// Run processes every source and finalizes the report. Any source read
// failure aborts the run without a report.
func (r *Runner) Run(ctx context.Context, sources []string) (*Result, error) {
	start := r.Clock.Now()

	var (
		agg    *aggregator.Aggregator
		failed int
		err    error
	)
	if r.Workers > 1 && len(sources) > 1 {
		agg, failed, err = r.runParallel(ctx, sources)
	} else {
		agg, failed, err = r.runSequential(ctx, sources)
	}
	if err != nil {
		return nil, err
	}

	res := &Result{
		Report:      agg.Finalize(),
		Sources:     len(sources),
		ParsedLines: agg.Count(),
		FailedLines: failed,
		Elapsed:     r.Clock.Since(start),
	}
	r.Logger.Debug("run finished",
		zap.Int("sources", res.Sources),
		zap.Int("parsed", res.ParsedLines),
		zap.Int("failed", res.FailedLines),
		zap.Duration("elapsed", res.Elapsed),
	)
	return res, nil
}

func (r *Runner) runSequential(ctx context.Context, sources []string) (*aggregator.Aggregator, int, error) {
	agg := aggregator.New()
	counter := NewCounting(r.Diagnostics)
	for _, src := range sources {
		if _, err := r.ingestFile(ctx, src, agg, counter); err != nil {
			return nil, 0, err
		}
	}
	return agg, counter.Count(), nil
}

// runParallel gives each source its own aggregator and failure buffer, then
// merges them in source order so ties and notices match a sequential run.
// Every source is read to the end; on failure the notices of the sources
// before it, and of the failing source up to the error, are still replayed.
func (r *Runner) runParallel(ctx context.Context, sources []string) (*aggregator.Aggregator, int, error) {
	partials := make([]*aggregator.Aggregator, len(sources))
	recorders := make([]*recorder, len(sources))
	errs := make([]error, len(sources))

	var group errgroup.Group
	group.SetLimit(r.Workers)
	for i, src := range sources {
		group.Go(func() error {
			partials[i] = aggregator.New()
			recorders[i] = &recorder{}
			_, errs[i] = r.ingestFile(ctx, src, partials[i], recorders[i])
			return nil
		})
	}
	_ = group.Wait()

	total := aggregator.New()
	counter := NewCounting(r.Diagnostics)
	for i := range sources {
		recorders[i].replay(counter)
		if errs[i] != nil {
			return nil, 0, errs[i]
		}
		total.Merge(partials[i])
	}
	return total, counter.Count(), nil
}

func (r *Runner) ingestFile(ctx context.Context, path string, agg *aggregator.Aggregator, diag Diagnostics) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrSourceRead, path, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			r.Logger.Debug("close source", zap.String("source", path), zap.Error(err))
		}
	}()

	before := agg.Count()
	failed, err := IngestReader(ctx, f, path, r.Extractor, agg, diag)
	if err != nil {
		return failed, err
	}
	r.Logger.Debug("source ingested",
		zap.String("source", path),
		zap.Int("parsed", agg.Count()-before),
		zap.Int("failed", failed),
	)
	return failed, nil
}

// IngestReader folds every line of src into agg and returns how many lines
// failed extraction. Lines are stripped of surrounding whitespace first.
func IngestReader(ctx context.Context, src io.Reader, name string, ex *parser.Extractor, agg *aggregator.Aggregator, diag Diagnostics) (int, error) {
	if ex == nil {
		ex = parser.NewExtractor()
	}
	if diag == nil {
		diag = Discard
	}

	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, initialLineBuffer), maxLineLength)

	failed := 0
	for index := 0; scanner.Scan(); index++ {
		if err := ctx.Err(); err != nil {
			return failed, err
		}

		line := strings.TrimSpace(scanner.Text())
		rec, err := ex.Extract(line)
		if err != nil {
			failed++
			diag.ParseFailure(name, index, line)
			continue
		}
		agg.Ingest(*rec)
	}
	if err := scanner.Err(); err != nil {
		return failed, fmt.Errorf("%w: %s: %w", ErrSourceRead, name, err)
	}
	return failed, nil
}
