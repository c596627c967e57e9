package locate

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"go.uber.org/zap"

	"github.com/ironsheep/ui-locator-mcp/internal/detection"
	"github.com/ironsheep/ui-locator-mcp/internal/display"
	"github.com/ironsheep/ui-locator-mcp/internal/feedback"
	"github.com/ironsheep/ui-locator-mcp/internal/geometry"
	"github.com/ironsheep/ui-locator-mcp/internal/logger"
	"github.com/ironsheep/ui-locator-mcp/internal/ocr"
	"github.com/ironsheep/ui-locator-mcp/internal/vision"
)

// Recorder receives every delivered result.
type Recorder interface {
	Record(ctx context.Context, res *detection.Result) feedback.Record
	Statistics() feedback.Stats
}

// Deps are the collaborators of a Resolver. Only Converter and Vision are
// required; a nil Extractor disables text matching, nil Windows makes the
// window strategy fail over, and a nil Capturer crops regions out of the
// request screenshot.
type Deps struct {
	Converter *geometry.Converter
	Vision    vision.Client
	Extractor ocr.Extractor
	Windows   display.WindowProvider
	Capturer  display.Capturer
	Recorder  Recorder
	// Model is used by Resolve; ResolveWithModel overrides it per call.
	Model   vision.ModelConfig
	Options Options
}

// Resolver runs the hybrid pipeline: classify the question, try strategies
// in order until one yields a coordinate, verify it unless it is already
// high confidence, then record it.
type Resolver struct {
	conv       *geometry.Converter
	textMatch  Strategy
	window     Strategy
	fullScreen Strategy
	verifier   *VerificationStrategy
	recorder   Recorder
	model      vision.ModelConfig
}

// NewResolver wires the strategies from deps.
func NewResolver(deps Deps) *Resolver {
	opts := deps.Options.withDefaults()
	r := &Resolver{
		conv:       deps.Converter,
		window:     NewWindowRelativeStrategy(deps.Windows, deps.Capturer, deps.Vision, deps.Converter, opts),
		fullScreen: NewFullScreenStrategy(deps.Vision, deps.Converter, opts),
		verifier:   NewVerificationStrategy(deps.Capturer, deps.Vision, deps.Converter, opts),
		recorder:   deps.Recorder,
		model:      deps.Model.WithDefaults(),
	}
	if deps.Extractor != nil {
		r.textMatch = NewTextMatchStrategy(deps.Extractor, deps.Vision, deps.Converter, opts)
	}
	return r
}

// Converter returns the converter the resolver maps coordinates with.
func (r *Resolver) Converter() *geometry.Converter { return r.conv }

// Resolve locates the element the question describes using the default model.
func (r *Resolver) Resolve(ctx context.Context, screenshot image.Image, question string) (*detection.Result, error) {
	return r.ResolveWithModel(ctx, screenshot, question, r.model)
}

// ResolveWithModel locates the element with an explicit model. The result is
// in physical screen pixels. When no strategy succeeds the error wraps
// detection.ErrNoCoordinate and every strategy failure.
func (r *Resolver) ResolveWithModel(ctx context.Context, screenshot image.Image, question string, model vision.ModelConfig) (*detection.Result, error) {
	start := time.Now()
	model = model.WithDefaults()
	screen := r.conv.Refresh(ctx)
	kind := Classify(question)

	log := logger.L(ctx).With(
		zap.String("element_type", string(kind)),
		zap.String("model", model.QualifiedName()))
	ctx = logger.ContextWithLogger(ctx, log)

	req := Request{Screenshot: screenshot, Question: question, Model: model}

	var (
		res      *detection.Result
		failures []error
	)
	for _, s := range r.chain(kind) {
		out, err := s.Locate(ctx, req)
		if err == nil {
			res = out
			break
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		failures = append(failures, err)
		reason, _ := detection.ReasonOf(err)
		log.Info("strategy failed, falling back",
			zap.String("method", string(s.Method())),
			zap.String("reason", string(reason)),
			zap.Error(err))
	}
	if res == nil {
		log.Warn("no strategy produced a coordinate", zap.Int("attempts", len(failures)))
		return nil, fmt.Errorf("%w: %w", detection.ErrNoCoordinate, errors.Join(failures...))
	}

	// Coordinates mapped against a guessed screen size are not trusted.
	if screen.Fallback {
		res.Confidence = detection.ConfidenceLow
		res.SetMeta("screen_fallback", true)
	}

	if res.Confidence.NeedsVerification() {
		if err := r.verifier.Verify(ctx, req, res); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			log.Info("verification incomplete, keeping candidate", zap.Error(err))
		}
	}

	res.Question = question
	res.ElementType = kind
	res.Model = model.QualifiedName()
	res.Duration = time.Since(start)

	if r.recorder != nil {
		r.recorder.Record(ctx, res)
	}

	log.Info("resolved coordinate",
		zap.Int("x", res.X),
		zap.Int("y", res.Y),
		zap.String("method", string(res.Method)),
		zap.String("confidence", string(res.Confidence)),
		zap.Bool("verified", res.Verified),
		zap.Bool("corrected", res.CorrectionApplied),
		zap.Duration("elapsed", res.Duration))

	return res, nil
}

// chain returns the strategies to try for an element type, in order.
func (r *Resolver) chain(kind detection.ElementType) []Strategy {
	if kind == detection.ElementText && r.textMatch != nil {
		return []Strategy{r.textMatch, r.window, r.fullScreen}
	}
	return []Strategy{r.window, r.fullScreen}
}

// Statistics summarises every recorded result.
func (r *Resolver) Statistics() feedback.Stats {
	if r.recorder == nil {
		return feedback.Stats{
			MethodDistribution:     map[detection.Method]int{},
			ConfidenceDistribution: map[detection.Confidence]int{},
		}
	}
	return r.recorder.Statistics()
}
