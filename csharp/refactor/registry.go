package refactor

import (
	"context"
	"slices"
	"sync"

	"github.com/tliron/commonlog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dhamidi/sharp/csharp/syntax"
	"github.com/dhamidi/sharp/csharp/workspace"
	"github.com/dhamidi/sharp/format"
)

var (
	log    = commonlog.GetLogger("sharp.refactor")
	tracer = otel.Tracer("sharp.refactor")
)

// Registry holds providers by language.
type Registry struct {
	mu        sync.RWMutex
	providers []Provider
	format    format.Options
}

func NewRegistry() *Registry {
	return &Registry{format: format.DefaultOptions()}
}

// DefaultRegistry is the registry providers add themselves to from their
// init functions.
var DefaultRegistry = NewRegistry()

func Register(p Provider) {
	DefaultRegistry.Register(p)
}

func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers = append(r.providers, p)
}

// SetFormatOptions sets the options used to format the result of actions
// computed from now on.
func (r *Registry) SetFormatOptions(opts format.Options) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.format = opts
}

func (r *Registry) ProvidersFor(language string) []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Provider
	for _, p := range r.providers {
		if slices.Contains(p.Languages(), language) {
			out = append(out, p)
		}
	}
	return out
}

// Compute runs every provider for the document's language and returns the
// actions they registered, in provider order. A failing provider is logged
// and skipped.
func (r *Registry) Compute(ctx context.Context, doc *workspace.Document, span syntax.TextSpan) []CodeAction {
	r.mu.RLock()
	opts := r.format
	r.mu.RUnlock()

	var actions []CodeAction
	for _, p := range r.ProvidersFor(doc.Language()) {
		if ctx.Err() != nil {
			break
		}
		c := NewContext(doc, span)
		c.provider = p.Name()
		c.format = opts
		if err := r.run(ctx, p, c); err != nil {
			log.Errorf("provider %s on %s: %s", p.Name(), doc.Path, err)
			continue
		}
		actions = append(actions, c.actions...)
	}
	return actions
}

func (r *Registry) run(ctx context.Context, p Provider, c *Context) error {
	ctx, span := tracer.Start(ctx, "refactor."+p.Name(),
		trace.WithAttributes(
			attribute.String("document.path", c.Document.Path),
			attribute.Int("document.version", int(c.Document.Version)),
			attribute.Int("span.start", c.Span.Start),
			attribute.Int("span.length", c.Span.Length),
		))
	defer span.End()

	if err := p.ComputeRefactorings(ctx, c); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetAttributes(attribute.Int("actions", len(c.actions)))
	span.SetStatus(codes.Ok, "")
	return nil
}
