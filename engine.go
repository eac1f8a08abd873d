// Package engine turns short natural-language requests (mixed Korean and
// English) into an editable infrastructure-topology graph and safely evolves
// that graph through further commands.
//
// The engine is a pure function over its inputs: classification, detection,
// template matching, spec building, diff application, and risk assessment
// all operate synchronously on in-memory structures. The only internal
// state is the component detector's bounded LRU cache, which is lock-guarded
// and owned per engine instance.
package engine

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/archsketch/engine/apply"
	"github.com/archsketch/engine/builder"
	"github.com/archsketch/engine/catalog"
	"github.com/archsketch/engine/command"
	"github.com/archsketch/engine/graph"
	"github.com/archsketch/engine/knowledge"
	"github.com/archsketch/engine/pattern"
	"github.com/archsketch/engine/risk"
)

// ParseRequest is one natural-language request against an optional current
// graph.
type ParseRequest struct {
	Prompt      string        `json:"prompt"`
	CurrentSpec *graph.Graph  `json:"currentSpec,omitempty"`
	Options     *ParseOptions `json:"options,omitempty"`
}

// ParseOptions toggles matcher tiers for create requests. Nil fields keep
// the defaults (both enabled).
type ParseOptions struct {
	UseTemplates          *bool `json:"useTemplates,omitempty"`
	UseComponentDetection *bool `json:"useComponentDetection,omitempty"`
}

func (o *ParseOptions) catalogOptions() catalog.Options {
	opts := catalog.DefaultOptions()
	if o == nil {
		return opts
	}
	if o.UseTemplates != nil {
		opts.UseTemplates = *o.UseTemplates
	}
	if o.UseComponentDetection != nil {
		opts.UseComponentDetection = *o.UseComponentDetection
	}
	return opts
}

// ParseResult is the outcome of a parse. Even unsuccessful results may carry
// a best-effort Spec; IsFallback marks it as a guess rather than a
// confident answer.
type ParseResult struct {
	Success       bool                   `json:"success"`
	Spec          *graph.Graph           `json:"spec,omitempty"`
	TemplateUsed  string                 `json:"templateUsed,omitempty"`
	Confidence    float64                `json:"confidence"`
	Error         string                 `json:"error,omitempty"`
	IsFallback    bool                   `json:"isFallback,omitempty"`
	CommandType   command.Kind           `json:"commandType"`
	Modifications []builder.Modification `json:"modifications,omitempty"`
	Warnings      []knowledge.Warning    `json:"warnings,omitempty"`
	Suggestions   []knowledge.Suggestion `json:"suggestions,omitempty"`
}

// Engine wires the parsing pipeline and the graph-diff tooling together.
// Construct one per tenant; instances share nothing.
type Engine struct {
	registry   *pattern.Registry
	detector   *pattern.Detector
	classifier *command.Classifier
	catalog    *catalog.Catalog
	builder    *builder.Builder
	base       knowledge.Base
	validator  *knowledge.Validator
	assessor   *risk.Assessor

	cacheSize int
	logger    *slog.Logger
	tracer    trace.Tracer
}

// New creates an engine with the default registry, catalog, and knowledge
// base unless overridden by options.
func New(opts ...Option) *Engine {
	e := &Engine{
		registry:  pattern.Default(),
		catalog:   catalog.Default(),
		base:      knowledge.Default(),
		cacheSize: pattern.DefaultCacheSize,
		logger:    slog.New(slog.DiscardHandler),
		tracer:    noop.NewTracerProvider().Tracer("archsketch/engine"),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.detector = pattern.NewDetector(e.registry, e.cacheSize)
	e.classifier = command.NewClassifier()
	e.validator = knowledge.NewValidator(e.base)
	matcher := catalog.NewMatcher(e.catalog, e.detector)
	e.builder = builder.New(e.detector, matcher, e.validator)
	e.assessor = risk.NewAssessor(e.base)
	return e
}

// Detector exposes the component detector, mainly for cache statistics.
func (e *Engine) Detector() *pattern.Detector {
	return e.detector
}

// Parse classifies the prompt and routes it to the matching spec-builder
// handler. It never panics or returns an opaque failure; recognition
// problems come back as low-confidence results with a usable fallback
// graph.
func (e *Engine) Parse(ctx context.Context, req ParseRequest) ParseResult {
	_, span := e.tracer.Start(ctx, "engine.Parse")
	defer span.End()

	kind := e.classifier.Classify(req.Prompt)
	span.SetAttributes(attribute.String("command.kind", string(kind)))

	res := e.builder.BuildWith(kind, req.CurrentSpec, req.Prompt, req.Options.catalogOptions())

	out := ParseResult{
		Success:       res.Success,
		Spec:          res.Graph,
		TemplateUsed:  res.TemplateUsed,
		Confidence:    res.Confidence,
		IsFallback:    res.IsFallback,
		CommandType:   res.CommandKind,
		Modifications: res.Modifications,
		Warnings:      res.Warnings,
		Suggestions:   res.Suggestions,
	}
	if res.Err != nil {
		out.Error = res.Err.Message
	}

	e.logger.Debug("parse finished",
		"command", string(kind),
		"success", out.Success,
		"confidence", out.Confidence,
		"template", out.TemplateUsed,
		"modifications", len(out.Modifications))
	return out
}

// ApplyOperations executes an externally supplied diff against the graph.
// It operates on a deep copy and is best-effort per operation.
func (e *Engine) ApplyOperations(ctx context.Context, g *graph.Graph, ops []apply.Operation) apply.Result {
	_, span := e.tracer.Start(ctx, "engine.ApplyOperations")
	defer span.End()
	span.SetAttributes(attribute.Int("operations", len(ops)))

	res := apply.Apply(g, ops)
	e.logger.Debug("operations applied",
		"applied", res.AppliedOps,
		"errors", len(res.Errors))
	return res
}

// AssessChange produces the risk report for a before/after graph pair.
func (e *Engine) AssessChange(ctx context.Context, before, after *graph.Graph) risk.Assessment {
	_, span := e.tracer.Start(ctx, "engine.AssessChange")
	defer span.End()

	assessment := e.assessor.Assess(before, after)
	span.SetAttributes(
		attribute.String("risk.level", string(assessment.Level)),
		attribute.Int("risk.factors", len(assessment.Factors)))

	e.logger.Debug("change assessed",
		"level", string(assessment.Level),
		"recommendation", string(assessment.Recommendation),
		"factors", len(assessment.Factors))
	return assessment
}
