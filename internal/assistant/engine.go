package assistant

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/govlens/govchat/internal/govapi"
)

// Backend is the slice of the governance API the router consumes.
// *govapi.Client satisfies it; tests substitute a recording mock.
type Backend interface {
	SearchAssets(ctx context.Context, term, assetType string, limit int) ([]govapi.Asset, int, error)
	AssetColumns(ctx context.Context, assetID string) ([]govapi.Column, error)
	PIIPatterns(ctx context.Context) ([]govapi.PIIFinding, error)
	QualityMetrics(ctx context.Context) (*govapi.QualityMetrics, error)
	QualitySummary(ctx context.Context) (*govapi.QualitySummary, error)
	PipelineStats(ctx context.Context) (*govapi.PipelineStats, error)
	CatalogStats(ctx context.Context) (*govapi.CatalogStats, error)
	DataSources(ctx context.Context) ([]govapi.DataSource, error)
}

// Engine routes free-text queries through the ordered rule table. The rule
// table is built once at construction and never mutated.
type Engine struct {
	backend Backend
	rules   []rule
	log     *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger attaches a structured logger.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithRandSeed pins the random source used for greeting selection so tests
// can assert a specific greeting.
func WithRandSeed(seed int64) Option {
	return func(e *Engine) { e.rng = rand.New(rand.NewSource(seed)) }
}

// NewEngine creates a router over the given backend.
func NewEngine(backend Backend, opts ...Option) *Engine {
	e := &Engine{
		backend: backend,
		log:     zap.NewNop(),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.rules = e.buildRules()
	return e
}

// Route maps a query to a response. It never returns an error and never
// panics on malformed input: backend failures and unrecognized queries all
// degrade to guidance text. conv may be nil when no conversation context
// exists; updates to it are visible to the caller for the next turn.
func (e *Engine) Route(ctx context.Context, query string, conv *Context) Response {
	if conv == nil {
		conv = &Context{}
	}

	raw := strings.TrimSpace(query)
	norm := strings.ToLower(raw)
	if norm == "" {
		return Response{Intent: IntentFallback, Markdown: capabilityMenu}
	}

	req := request{raw: raw, norm: norm}
	for _, r := range e.rules {
		if !r.match(norm) {
			continue
		}
		e.log.Debug("intent matched",
			zap.String("intent", r.name),
			zap.Int("query_len", len(raw)))
		return Response{Intent: r.name, Markdown: r.handle(ctx, req, conv)}
	}

	// The fallback rule matches everything, so this is unreachable.
	return Response{Intent: IntentFallback, Markdown: capabilityMenu}
}

// pick returns a uniform random index in [0, n).
func (e *Engine) pick(n int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Intn(n)
}
