package deps

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/matzehuels/deprep/pkg/errors"
	"github.com/matzehuels/deprep/pkg/observability"
	"github.com/matzehuels/deprep/pkg/versions"
)

const tracerName = "github.com/matzehuels/deprep/pkg/deps"

// Engine resolves declared dependencies against a registry and classifies
// each against its latest version.
type Engine struct {
	res    Resolver
	opts   Options
	tracer trace.Tracer
}

// NewEngine creates an Engine resolving through res.
func NewEngine(res Resolver, opts Options) *Engine {
	return &Engine{
		res:    res,
		opts:   opts.WithDefaults(),
		tracer: otel.Tracer(tracerName),
	}
}

// Analyze resolves every spec concurrently and returns the aggregated report
// once all resolutions have settled. Per-dependency failures are recorded on
// the report and never fail the call.
//
// Resolutions still pending when Options.Timeout elapses fail with
// [errors.ErrCodeTimeout]. If ctx itself is cancelled, the partial report is
// returned together with ctx.Err().
func (e *Engine) Analyze(ctx context.Context, specs Specs) (*Report, error) {
	report := newReport()
	if len(specs) == 0 {
		return report, nil
	}

	registry := e.res.Name()
	ctx, span := e.tracer.Start(ctx, "deps.Analyze", trace.WithAttributes(
		attribute.String("deprep.registry", registry),
		attribute.Int("deprep.specs", len(specs)),
	))
	defer span.End()

	hooks := observability.Engine()
	hooks.OnAnalyzeStart(ctx, registry, len(specs))
	start := time.Now()

	runCtx := ctx
	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	a := &analysis{
		engine:  e,
		ctx:     runCtx,
		jobs:    make(chan Spec),
		results: make(chan outcome, e.opts.Concurrency),
	}
	a.run(specs.Sorted(), report)
	report.seal()

	hooks.OnAnalyzeComplete(ctx, registry, report.Len(), len(report.failures), time.Since(start))
	span.SetAttributes(
		attribute.Int("deprep.resolved", report.Len()),
		attribute.Int("deprep.failed", len(report.failures)),
	)

	if err := ctx.Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return report, err
	}
	span.SetStatus(codes.Ok, "")
	return report, nil
}

type analysis struct {
	engine  *Engine
	ctx     context.Context
	jobs    chan Spec
	results chan outcome
	wg      sync.WaitGroup
}

type outcome struct {
	spec   Spec
	latest string
	cmp    versions.Comparison
	err    error
}

func (a *analysis) run(specs []Spec, report *Report) {
	for range min(a.engine.opts.Concurrency, len(specs)) {
		a.wg.Add(1)
		go a.worker()
	}

	go func() {
		for _, s := range specs {
			a.jobs <- s
		}
		close(a.jobs)
	}()

	go func() {
		a.wg.Wait()
		close(a.results)
	}()

	a.collect(len(specs), report)
}

func (a *analysis) worker() {
	defer a.wg.Done()
	for s := range a.jobs {
		a.results <- a.resolve(s)
	}
}

func (a *analysis) resolve(s Spec) outcome {
	if err := a.ctx.Err(); err != nil {
		return outcome{spec: s, err: interrupted(s.Name, err)}
	}

	e := a.engine
	ctx, span := e.tracer.Start(a.ctx, "deps.Resolve", trace.WithAttributes(
		attribute.String("deprep.package", s.Name),
		attribute.String("deprep.range", s.Range),
	))
	defer span.End()

	start := time.Now()
	latest, err := e.res.Latest(ctx, s.Name)
	if err != nil && a.ctx.Err() != nil {
		err = interrupted(s.Name, a.ctx.Err())
	}

	o := outcome{spec: s, latest: latest, err: err}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		o.cmp = versions.Compare(s.Range, latest)
		span.SetAttributes(
			attribute.String("deprep.latest", latest),
			attribute.Bool("deprep.satisfied", o.cmp.Satisfied),
		)
	}
	observability.Engine().OnResolveComplete(ctx, e.res.Name(), s.Name, string(o.cmp.Change), time.Since(start), err)

	return o
}

// collect is the only writer of report.
func (a *analysis) collect(total int, report *Report) {
	opts := a.engine.opts
	done := 0
	for o := range a.results {
		done++
		if o.err != nil {
			opts.Logger("resolve failed: %s: %v", o.spec.Name, o.err)
			report.fail(Failure{Name: o.spec.Name, From: o.spec.Range, Err: o.err})
		} else {
			report.add(Result{
				Name:      o.spec.Name,
				From:      o.spec.Range,
				To:        o.latest,
				Satisfied: o.cmp.Satisfied,
				Change:    o.cmp.Change,
			})
		}
		opts.Progress(done, total)
	}
}

func interrupted(name string, cause error) error {
	if stderrors.Is(cause, context.DeadlineExceeded) {
		return errors.Wrap(errors.ErrCodeTimeout, cause, "resolution of %s timed out", name)
	}
	return errors.Wrap(errors.ErrCodeCanceled, cause, "resolution of %s cancelled", name)
}
