package assistant

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/govlens/govchat/internal/govapi"
)

// titleCase upper-cases the first letter of a single lower-case word.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (e *Engine) handleGreeting(_ context.Context, _ request, _ *Context) string {
	return greetings[e.pick(len(greetings))]
}

func (e *Engine) handleHelp(_ context.Context, _ request, _ *Context) string {
	return capabilityMenu
}

// Health score weights. Legs that fail are dropped and the remaining
// weights renormalized, so one dead endpoint doesn't zero the score.
const (
	weightQuality  = 0.5
	weightPipeline = 0.3
	weightCatalog  = 0.2
)

func (e *Engine) handleStatus(ctx context.Context, _ request, _ *Context) string {
	var (
		quality  *govapi.QualityMetrics
		pipeline *govapi.PipelineStats
		catalog  *govapi.CatalogStats
	)

	// All three legs fire concurrently; each failure is swallowed and the
	// leg simply reports nothing.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if m, err := e.backend.QualityMetrics(gctx); err == nil {
			quality = m
		}
		return nil
	})
	g.Go(func() error {
		if p, err := e.backend.PipelineStats(gctx); err == nil {
			pipeline = p
		}
		return nil
	})
	g.Go(func() error {
		if c, err := e.backend.CatalogStats(gctx); err == nil {
			catalog = c
		}
		return nil
	})
	g.Wait()

	if quality == nil && pipeline == nil && catalog == nil {
		return unavailable("platform status", "Try an individual area instead: `show data quality` or `pipeline status`")
	}

	var score, weight float64
	var b strings.Builder
	b.WriteString("## Platform status\n\n")

	if quality != nil {
		score += weightQuality * quality.OverallScore
		weight += weightQuality
		fmt.Fprintf(&b, "**Data quality:** %.1f%% overall", quality.OverallScore)
		if quality.CriticalIssues > 0 {
			fmt.Fprintf(&b, " — %d critical issue(s) open", quality.CriticalIssues)
		}
		b.WriteString("\n")
	} else {
		b.WriteString("**Data quality:** unavailable\n")
	}

	if pipeline != nil {
		rate := pipelineSuccessRate(pipeline)
		score += weightPipeline * rate
		weight += weightPipeline
		fmt.Fprintf(&b, "**Pipelines:** %d active, %d running, %d failed (%.0f%% success)\n",
			pipeline.Active, pipeline.Running, pipeline.Failed, rate)
	} else {
		b.WriteString("**Pipelines:** unavailable\n")
	}

	if catalog != nil {
		catScore := 0.0
		if catalog.Total > 0 {
			catScore = 100.0
		}
		score += weightCatalog * catScore
		weight += weightCatalog
		fmt.Fprintf(&b, "**Catalog:** %d assets (%d tables, %d views) across %d databases\n",
			catalog.Total, catalog.Tables, catalog.Views, catalog.Databases)
	} else {
		b.WriteString("**Catalog:** unavailable\n")
	}

	health := score / weight
	fmt.Fprintf(&b, "\n**Derived health score: %.0f/100** (%s)", health, healthLabel(health))
	return b.String()
}

func pipelineSuccessRate(p *govapi.PipelineStats) float64 {
	total := p.Completed + p.Failed
	if total == 0 {
		return 100.0
	}
	return 100.0 * float64(p.Completed) / float64(total)
}

func healthLabel(score float64) string {
	switch {
	case score >= 90:
		return "healthy"
	case score >= 70:
		return "degraded"
	default:
		return "unhealthy"
	}
}

// PII risk tier keyword sets, matched against the suggested type and the
// column name.
var (
	piiHighKeywords   = []string{"ssn", "social", "credit", "card", "bank", "account", "passport", "tax", "license", "routing", "iban"}
	piiMediumKeywords = []string{"email", "phone", "address", "dob", "birth", "name", "zip", "postal", "gender", "ip"}
)

const maxPIIExamplesPerTier = 5

func piiTier(label string) string {
	l := strings.ToLower(label)
	for _, kw := range piiHighKeywords {
		if strings.Contains(l, kw) {
			return "high"
		}
	}
	for _, kw := range piiMediumKeywords {
		if strings.Contains(l, kw) {
			return "medium"
		}
	}
	return "low"
}

func (e *Engine) handlePII(ctx context.Context, _ request, _ *Context) string {
	findings, err := e.backend.PIIPatterns(ctx)
	if err != nil {
		return unavailable("PII discovery", "Run `write SQL for PII scan` to check a table by hand")
	}
	if len(findings) == 0 {
		msg := "PII discovery ran but found **no fields that look like personal data**. " +
			"If you expected hits, confirm the relevant data sources are connected (`system status`)."
		// Best-effort: show what is connected so the user can spot a
		// missing source without another round trip.
		if sources, err := e.backend.DataSources(ctx); err == nil && len(sources) > 0 {
			var b strings.Builder
			b.WriteString(msg)
			b.WriteString("\n\nConnected sources:\n")
			for _, src := range sources {
				fmt.Fprintf(&b, "- **%s** (%s) — %s\n", src.Name, src.Type, src.Status)
			}
			return b.String()
		}
		return msg
	}

	tiers := map[string][]string{"high": nil, "medium": nil, "low": nil}
	counts := map[string]int{}
	for _, f := range findings {
		for _, p := range f.Patterns {
			for _, col := range p.Columns {
				tier := piiTier(f.TypeSuggestion + " " + col.ColumnName)
				counts[tier]++
				loc := fmt.Sprintf("`%s.%s.%s` (%s, %.0f%% confidence)",
					col.DatabaseName, col.TableName, col.ColumnName,
					f.TypeSuggestion, f.Confidence*100)
				if len(tiers[tier]) < maxPIIExamplesPerTier {
					tiers[tier] = append(tiers[tier], loc)
				}
			}
		}
	}

	var b strings.Builder
	b.WriteString("## PII discovery report\n")
	for _, tier := range []string{"high", "medium", "low"} {
		fmt.Fprintf(&b, "\n### %s risk — %d field(s)\n", titleCase(tier), counts[tier])
		if counts[tier] == 0 {
			b.WriteString("\nNone found.\n")
			continue
		}
		b.WriteString("\n")
		for _, loc := range tiers[tier] {
			fmt.Fprintf(&b, "- %s\n", loc)
		}
		if extra := counts[tier] - len(tiers[tier]); extra > 0 {
			fmt.Fprintf(&b, "- …and %d more\n", extra)
		}
	}
	b.WriteString("\nHigh-risk fields should be masked or encrypted and access-restricted. Ask `tell me about GDPR` for the regulatory angle.")
	return b.String()
}

func (e *Engine) handleSchema(ctx context.Context, req request, conv *Context) string {
	table := extractTableRef(req.raw)
	if table == "" {
		table = conv.LastTable
	}
	if table == "" {
		return clarifyTableName
	}

	assets, _, err := e.backend.SearchAssets(ctx, table, "table", 1)
	if err != nil {
		return unavailable("catalog", fmt.Sprintf("Retry in a moment with `show columns of %s`", table))
	}
	if len(assets) == 0 {
		return fmt.Sprintf("I couldn't find a table matching **%s** in the catalog.\n\n"+
			"- Double-check the spelling, or\n- Search more broadly: `find table %s`", table, table)
	}

	asset := assets[0]
	conv.LastTable = asset.Name
	conv.LastDatabase = asset.DatabaseName

	columns, err := e.backend.AssetColumns(ctx, asset.ID)
	if err != nil {
		return unavailable("column listing", fmt.Sprintf("The table **%s** exists; retry `show columns of %s` shortly", asset.Name, asset.Name))
	}
	if len(columns) == 0 {
		return fmt.Sprintf("**%s** is in the catalog but has no column metadata yet. "+
			"It may still be profiling; check again later.", asset.Name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## %s", asset.Name)
	if asset.DatabaseName != "" {
		fmt.Fprintf(&b, " — %s", asset.DatabaseName)
		if asset.Schema != "" {
			fmt.Fprintf(&b, ".%s", asset.Schema)
		}
	}
	fmt.Fprintf(&b, "\n\n%d column(s):\n\n", len(columns))
	for _, col := range columns {
		fmt.Fprintf(&b, "- **%s** `%s`", col.Name, col.DataType)
		var tags []string
		if col.IsPrimaryKey {
			tags = append(tags, "PK")
		}
		if col.IsForeignKey {
			tags = append(tags, "FK")
		}
		if col.IsPII {
			tags = append(tags, "PII")
		}
		if !col.IsNullable {
			tags = append(tags, "not null")
		}
		if len(tags) > 0 {
			fmt.Fprintf(&b, " [%s]", strings.Join(tags, ", "))
		}
		if col.Description != "" {
			fmt.Fprintf(&b, " — %s", col.Description)
		}
		b.WriteString("\n")
	}
	return b.String()
}

const searchPageSize = 10

func (e *Engine) handleSearch(ctx context.Context, req request, conv *Context) string {
	term := extractEntity(req.raw)
	if term == "" {
		return clarifySearchTerm
	}

	assets, total, err := e.backend.SearchAssets(ctx, term, "", searchPageSize)
	if err != nil {
		return unavailable("catalog search", fmt.Sprintf("Retry in a moment: `find table %s`", term))
	}
	if len(assets) == 0 {
		return fmt.Sprintf("No catalog assets match **%s**.\n\n"+
			"- Try a shorter or partial name\n"+
			"- Put exact names in quotes: `find \"%s\"`\n"+
			"- Check connected sources with `system status`", term, term)
	}

	conv.LastTable = assets[0].Name
	conv.LastDatabase = assets[0].DatabaseName

	var b strings.Builder
	fmt.Fprintf(&b, "## Results for \"%s\" — %d match(es)\n\n", term, total)
	for _, a := range assets {
		fmt.Fprintf(&b, "- **%s**", a.Name)
		if a.Type != "" {
			fmt.Fprintf(&b, " (%s)", a.Type)
		}
		if a.DatabaseName != "" {
			fmt.Fprintf(&b, " in `%s`", a.DatabaseName)
		}
		if a.RowCount > 0 || a.ColumnCount > 0 {
			fmt.Fprintf(&b, " — %d rows, %d columns", a.RowCount, a.ColumnCount)
		}
		if a.QualityScore > 0 {
			fmt.Fprintf(&b, ", quality %.1f%%", a.QualityScore)
		}
		if a.PIIDetected {
			b.WriteString(" ⚠ PII")
		}
		b.WriteString("\n")
	}
	if total > len(assets) {
		fmt.Fprintf(&b, "\nShowing the first %d of %d. Narrow the search to see the rest.", len(assets), total)
	}
	fmt.Fprintf(&b, "\nAsk `show columns of %s` to inspect a table.", assets[0].Name)
	return b.String()
}

// qualityBand labels an overall score. The 85 threshold is the boundary
// between acceptable and needs-attention.
func qualityBand(score float64) string {
	switch {
	case score >= 95:
		return "Excellent"
	case score >= 85:
		return "Good"
	default:
		return "Needs Attention"
	}
}

func (e *Engine) handleQuality(ctx context.Context, _ request, _ *Context) string {
	metrics, err := e.backend.QualityMetrics(ctx)
	if err != nil {
		return unavailable("quality metrics", "Run `write SQL for quality checks` to check a table directly")
	}

	all := []struct {
		name  string
		score float64
	}{
		{"completeness", metrics.Completeness},
		{"accuracy", metrics.Accuracy},
		{"consistency", metrics.Consistency},
		{"timeliness", metrics.Timeliness},
		{"validity", metrics.Validity},
		{"uniqueness", metrics.Uniqueness},
	}

	// Backends report only the dimensions they compute; an absent
	// dimension decodes as zero and must not be ranked as weakest.
	dimensions := all[:0]
	for _, d := range all {
		if d.score > 0 {
			dimensions = append(dimensions, d)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Data quality report\n\n**Overall score: %.1f%%** — %s\n\n",
		metrics.OverallScore, qualityBand(metrics.OverallScore))

	if len(dimensions) > 0 {
		weakest := dimensions[0]
		for _, d := range dimensions[1:] {
			if d.score < weakest.score {
				weakest = d
			}
		}

		b.WriteString("| Dimension | Score |\n|---|---|\n")
		for _, d := range dimensions {
			marker := ""
			if d.name == weakest.name {
				marker = " ⬅ weakest"
			}
			fmt.Fprintf(&b, "| %s | %.1f%%%s |\n", titleCase(d.name), d.score, marker)
		}
		if advice, ok := dimensionRemediation[weakest.name]; ok {
			fmt.Fprintf(&b, "\n**Recommendation:** %s", advice)
		}
	}

	if metrics.CriticalIssues > 0 || metrics.ActiveRules > 0 {
		fmt.Fprintf(&b, "\n%d active rule(s), %d critical issue(s) open.\n", metrics.ActiveRules, metrics.CriticalIssues)
	}

	// Worst-table breakdown is best-effort: older backends lack the
	// summary endpoint.
	if summary, err := e.backend.QualitySummary(ctx); err == nil && len(summary.WorstTables) > 0 {
		b.WriteString("\n\n**Lowest scoring tables:**\n")
		for i, ts := range summary.WorstTables {
			if i >= 5 {
				break
			}
			fmt.Fprintf(&b, "- `%s` — %.1f%%\n", ts.Table, ts.Score)
		}
	}
	return b.String()
}

func (e *Engine) handleCompliance(_ context.Context, req request, _ *Context) string {
	for _, r := range regulationAliases {
		if strings.Contains(req.norm, r.alias) {
			return regulationSheets[r.key]
		}
	}
	return regulationComparison
}

func (e *Engine) handlePipeline(ctx context.Context, _ request, _ *Context) string {
	stats, err := e.backend.PipelineStats(ctx)
	if err != nil {
		return unavailable("pipeline stats", "Check the scheduler UI directly, or retry `pipeline status` shortly")
	}

	rate := pipelineSuccessRate(stats)
	var b strings.Builder
	b.WriteString("## Pipeline status\n\n")
	fmt.Fprintf(&b, "- **Active:** %d\n- **Running now:** %d\n- **Completed:** %d\n- **Failed:** %d\n",
		stats.Active, stats.Running, stats.Completed, stats.Failed)
	fmt.Fprintf(&b, "\nSuccess rate: **%.0f%%**\n", rate)
	if stats.Failed > 0 {
		fmt.Fprintf(&b, "\n%d failed run(s) need attention — failures left unretried go stale quickly.\n", stats.Failed)
	}
	b.WriteString("\n" + pipelineBestPractices)
	return b.String()
}

func (e *Engine) handleSQL(_ context.Context, req request, _ *Context) string {
	table := extractTableRef(req.raw)
	if table == "" {
		table = "your_table"
	}

	switch {
	case reSQLPII.MatchString(req.norm):
		return sqlPIITemplate(table)
	case reSQLPerformance.MatchString(req.norm):
		return sqlPerformanceTemplate(table)
	case reSQLLineage.MatchString(req.norm):
		return sqlLineageTemplate(table)
	default:
		return sqlQualityTemplate(table)
	}
}

// Fallback keyword sets, checked in order.
var fallbackTopics = []struct {
	re   *regexp.Regexp
	menu string
}{
	{regexp.MustCompile(`tables?|datasets?|catalog|assets?`), catalogMenu},
	{regexp.MustCompile(`quality|issues?|accuracy`), qualityMenu},
	{regexp.MustCompile(`pipelines?|etl|jobs?|workflows?`), pipelineMenu},
	{regexp.MustCompile(`security|access|pii|sensitive|protect`), securityMenu},
	{regexp.MustCompile(`governance|policy|policies|steward|compliance`), governanceMenu},
}

func (e *Engine) handleFallback(_ context.Context, req request, _ *Context) string {
	for _, topic := range fallbackTopics {
		if topic.re.MatchString(req.norm) {
			return topic.menu
		}
	}
	return capabilityMenu
}
