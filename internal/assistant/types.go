package assistant

import "context"

// Intent names, in canonical evaluation order. The router tries each rule
// top to bottom and the first match wins; a query containing both quality
// and PII keywords resolves to the PII rule because it is earlier.
const (
	IntentGreeting   = "greeting"
	IntentHelp       = "help"
	IntentStatus     = "status"
	IntentPII        = "pii"
	IntentSchema     = "schema"
	IntentSearch     = "search"
	IntentQuality    = "quality"
	IntentCompliance = "compliance"
	IntentPipeline   = "pipeline"
	IntentSQL        = "sql"
	IntentFallback   = "fallback"
)

// Response is the result of routing one query. Markdown is always non-empty.
type Response struct {
	Intent   string `json:"intent"`
	Markdown string `json:"markdown"`
}

// Context carries the last resolved table and database across turns so
// follow-ups like "show its columns" can be answered. It is passed in
// explicitly and mutated only when a table search succeeds.
type Context struct {
	LastTable    string `json:"last_table,omitempty"`
	LastDatabase string `json:"last_database,omitempty"`
}

// request is one normalized routing request.
type request struct {
	raw  string // trimmed, original casing (used for entity extraction)
	norm string // trimmed and lower-cased (used for matching)
}

// handlerFunc produces the markdown response for a matched rule. Handlers
// never return errors: backend failures degrade to guidance text.
type handlerFunc func(ctx context.Context, req request, conv *Context) string

// rule pairs a match predicate over the normalized query with its handler.
type rule struct {
	name   string
	match  func(norm string) bool
	handle handlerFunc
}
