package assistant

import "regexp"

// Matchers run over the trimmed, lower-cased query. The table below is the
// canonical evaluation order; do not reorder without updating the
// precedence tests.
var (
	reGreeting = regexp.MustCompile(`^(?:hi|hello|hey|yo|howdy)(?:\s+there)?[\s!.,?]*$` +
		`|^good\s+(?:morning|afternoon|evening)[\s!.,?]*$` +
		`|^how\s+are\s+you(?:\s+(?:doing|today))?[\s!.,?]*$` +
		`|^what'?s\s+up[\s!.,?]*$` +
		`|^thank(?:s|\s+you)(?:\s+(?:so\s+much|a\s+lot|very\s+much))?[\s!.,?]*$`)

	reHelp = regexp.MustCompile(`^help[\s!.,?]*$|what\s+can\s+you\s+do|capabilit|^commands?[\s?]*$`)

	reStatus = regexp.MustCompile(`(?:system|platform|overall)\s+(?:status|health)` +
		`|health\s*check|^status[\s?!.]*$|how'?s?\s+(?:is\s+)?everything|everything\s+(?:ok|okay|running)`)

	rePII = regexp.MustCompile(`\bpii\b|sensitive|personally\s+identifiable|personal\s+(?:data|information)|privacy`)

	reSchema = regexp.MustCompile(`\bcolumns?\b|\bschema\b|\bstructure\b|\bdescribe\b|\bfields?\b`)

	reSearch = regexp.MustCompile(`\b(?:find|search|show|list|get|lookup|look\s+up|locate|where\s+is)\b.*\b(?:tables?|datasets?|assets?|views?|catalog)\b` +
		`|\b(?:tables?|datasets?)\b.*\b(?:named|called|containing|about)\b` +
		`|^what\s+tables`)

	reQuality = regexp.MustCompile(`\bquality\b|completeness|accuracy|consistency|timeliness|validity|uniqueness|data\s+issues`)

	reCompliance = regexp.MustCompile(`complian|\bgdpr\b|\bccpa\b|\bhipaa\b|\bsox\b|sarbanes|\bpci(?:-dss)?\b|\bglba\b|regulat|\baudit\b`)

	rePipeline = regexp.MustCompile(`pipelines?|workflows?|\betl\b|ingestion|\bjobs?\b`)

	reSQL = regexp.MustCompile(`\bsql\b|\b(?:write|generate|create|give\s+me)\s+(?:a\s+)?quer(?:y|ies)\b`)

	// Sub-topic detection for the sql rule.
	reSQLPII         = regexp.MustCompile(`\bpii\b|sensitive|personal`)
	reSQLPerformance = regexp.MustCompile(`performance|slow|speed|index|optimi`)
	reSQLLineage     = regexp.MustCompile(`lineage|depends?|dependenc|downstream|upstream`)
)

// sqlIntent reports whether the query asks for SQL generation. Topical
// rules that sit earlier in the table (pii, schema, quality) defer to the
// sql rule when the user is asking for a query rather than for data, so
// "write SQL for quality checks" produces SQL, while "show data quality"
// still reaches the quality rule first.
func sqlIntent(norm string) bool { return reSQL.MatchString(norm) }

// buildRules assembles the static rule table in canonical order.
func (e *Engine) buildRules() []rule {
	return []rule{
		{IntentGreeting, reGreeting.MatchString, e.handleGreeting},
		{IntentHelp, reHelp.MatchString, e.handleHelp},
		{IntentStatus, reStatus.MatchString, e.handleStatus},
		{IntentPII, func(q string) bool { return rePII.MatchString(q) && !sqlIntent(q) }, e.handlePII},
		{IntentSchema, func(q string) bool { return reSchema.MatchString(q) && !sqlIntent(q) }, e.handleSchema},
		{IntentSearch, func(q string) bool { return reSearch.MatchString(q) && !sqlIntent(q) }, e.handleSearch},
		{IntentQuality, func(q string) bool { return reQuality.MatchString(q) && !sqlIntent(q) }, e.handleQuality},
		{IntentCompliance, reCompliance.MatchString, e.handleCompliance},
		{IntentPipeline, func(q string) bool { return rePipeline.MatchString(q) && !sqlIntent(q) }, e.handlePipeline},
		{IntentSQL, reSQL.MatchString, e.handleSQL},
		{IntentFallback, func(string) bool { return true }, e.handleFallback},
	}
}
