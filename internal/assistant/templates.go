package assistant

import "fmt"

// greetings is the fixed pool the greeting rule picks from uniformly at
// random. The randomization is deliberate product behavior; tests pin the
// engine's random source to make the choice deterministic.
var greetings = []string{
	"Hello! I'm your data governance assistant. Ask me about tables, data quality, PII, compliance, or pipelines.",
	"Hi there! I can help you explore the catalog, check data quality, or find sensitive data. What do you need?",
	"Hey! Ready to help with your data governance questions. Try \"find table customers\" or \"show data quality\".",
	"Hello! Ask me anything about your data estate: catalog search, quality metrics, PII discovery, or compliance.",
	"Hi! I'm here to help with data governance. Type \"help\" to see everything I can do.",
}

const capabilityMenu = `## What I can do

**Catalog**
- Find tables and datasets: ` + "`find table customers`" + `
- Show table structure: ` + "`show columns of orders`" + `

**Data Quality**
- Quality overview: ` + "`show data quality`" + `
- Dimension breakdown and weakest areas

**Sensitive Data**
- Discover PII fields: ` + "`find all PII fields`" + `
- Risk-tiered reporting (high / medium / low)

**Compliance**
- Regulation fact sheets: ` + "`tell me about GDPR`" + `
- Side-by-side regulation comparison

**Operations**
- Pipeline health: ` + "`pipeline status`" + `
- Platform overview: ` + "`system status`" + `

**SQL**
- Generate governance SQL: ` + "`write SQL for quality checks`" + `

Ask in plain language; I'll figure out the rest.`

const clarifyTableName = `I couldn't tell which table you mean. Try one of:

- ` + "`show columns of <table name>`" + `
- ` + "`find table <name>`" + `
- Put the name in quotes: ` + "`find \"customer_orders\"`" + ``

const clarifySearchTerm = `What should I search for? Give me a table or dataset name, for example:

- ` + "`find table customers`" + `
- ` + "`search for datasets named billing`" + ``

// unavailable renders the degraded response used when a backend call fails.
// It is guidance, not a raw error: the router contract is that every path
// resolves to helpful text.
func unavailable(what, try string) string {
	return fmt.Sprintf(`The %s service isn't responding right now.

**What you can try:**
- Check that the governance backend is running and reachable
- %s
- Ask me something that doesn't need live data, like "help" or "tell me about GDPR"`, what, try)
}

// Topical menus for the fallback rule.

const catalogMenu = `It sounds like you're interested in the **data catalog**. Try:

- ` + "`find table <name>`" + ` — search the catalog
- ` + "`show columns of <table>`" + ` — inspect structure
- ` + "`system status`" + ` — catalog summary counts`

const qualityMenu = `It sounds like you're interested in **data quality**. Try:

- ` + "`show data quality`" + ` — overall and per-dimension scores
- ` + "`write SQL for quality checks`" + ` — ready-to-run checks
- ` + "`system status`" + ` — platform-wide health`

const pipelineMenu = `It sounds like you're interested in **pipelines**. Try:

- ` + "`pipeline status`" + ` — run counts and failures
- ` + "`system status`" + ` — platform-wide health`

const securityMenu = `It sounds like you're interested in **sensitive data**. Try:

- ` + "`find all PII fields`" + ` — risk-tiered PII discovery
- ` + "`tell me about GDPR`" + ` — regulation fact sheets
- ` + "`write SQL for PII scan`" + ` — detection queries`

const governanceMenu = `It sounds like you're interested in **governance practices**. Try:

- ` + "`tell me about GDPR`" + ` (or CCPA, HIPAA, SOX, PCI-DSS, GLBA)
- ` + "`compare regulations`" + ` — side-by-side view
- ` + "`find all PII fields`" + ` — what needs protecting`

// Regulation fact sheets, keyed by canonical regulation name.
var regulationSheets = map[string]string{
	"gdpr": `## GDPR — General Data Protection Regulation (EU)

- **Scope:** personal data of EU residents, regardless of where it is processed
- **Key rights:** access, rectification, erasure ("right to be forgotten"), portability
- **Breach notification:** within 72 hours to the supervisory authority
- **Penalties:** up to €20M or 4% of global annual revenue, whichever is higher
- **What to check here:** run ` + "`find all PII fields`" + ` and confirm retention and lawful basis for each high-risk field`,

	"ccpa": `## CCPA — California Consumer Privacy Act (US-CA)

- **Scope:** personal information of California residents held by qualifying businesses
- **Key rights:** know, delete, opt out of sale, non-discrimination
- **Penalties:** up to $7,500 per intentional violation; private right of action for breaches
- **What to check here:** inventory consumer-facing tables with ` + "`find all PII fields`" + ` and map them to disclosure categories`,

	"hipaa": `## HIPAA — Health Insurance Portability and Accountability Act (US)

- **Scope:** protected health information (PHI) held by covered entities and business associates
- **Key rules:** Privacy Rule, Security Rule, Breach Notification Rule
- **Penalties:** tiered, up to $1.5M per violation category per year
- **What to check here:** flag clinical and insurance tables, verify encryption at rest and access controls`,

	"sox": `## SOX — Sarbanes-Oxley Act (US)

- **Scope:** financial reporting data of public companies
- **Key requirements:** internal controls (s.302/404), audit trails, data retention (7 years)
- **Penalties:** fines and criminal liability for officers
- **What to check here:** lineage and change history for any table feeding financial reports`,

	"pci-dss": `## PCI-DSS — Payment Card Industry Data Security Standard

- **Scope:** cardholder data (PAN, CVV, expiry) wherever stored, processed, or transmitted
- **Key requirements:** never store CVV, mask PAN, encrypt in transit and at rest, quarterly scans
- **Penalties:** contractual fines from card networks, loss of processing rights
- **What to check here:** search for card-number-shaped columns with ` + "`write SQL for PII scan`" + ``,

	"glba": `## GLBA — Gramm-Leach-Bliley Act (US)

- **Scope:** nonpublic personal information held by financial institutions
- **Key rules:** Safeguards Rule, Privacy Rule, pretexting protections
- **Penalties:** up to $100,000 per violation for institutions, personal liability for officers
- **What to check here:** classify account and transaction tables and restrict access to need-to-know`,
}

// regulationAliases maps mention patterns to fact sheet keys, checked in
// order so a query naming two regulations resolves deterministically.
var regulationAliases = []struct{ alias, key string }{
	{"gdpr", "gdpr"},
	{"ccpa", "ccpa"},
	{"hipaa", "hipaa"},
	{"sarbanes", "sox"},
	{"sox", "sox"},
	{"pci", "pci-dss"},
	{"gramm", "glba"},
	{"glba", "glba"},
}

const regulationComparison = `## Regulation quick comparison

| Regulation | Region | Protects | Max penalty | Breach window |
|---|---|---|---|---|
| GDPR | EU | personal data | €20M / 4% revenue | 72 hours |
| CCPA | US-CA | consumer PI | $7,500 per violation | "expedient" |
| HIPAA | US | health data (PHI) | $1.5M per category/yr | 60 days |
| SOX | US | financial records | criminal liability | n/a |
| PCI-DSS | global | cardholder data | network fines | immediate |
| GLBA | US | financial PI | $100K per violation | prompt |

Ask about any one of them by name for the full fact sheet.`

const pipelineBestPractices = `**Operational tips**

- Alert on first failure, not after retries are exhausted
- Keep idempotent loads so reruns are safe
- Track row-count deltas between runs to catch silent truncation
- Quarantine bad records instead of failing the whole batch`

// Remediation advice keyed by the weakest quality dimension.
var dimensionRemediation = map[string]string{
	"completeness": "Completeness is your weakest dimension. Add NOT NULL constraints where the business requires a value, backfill from source systems, and add a null-rate rule per critical column.",
	"accuracy":     "Accuracy is your weakest dimension. Reconcile against the system of record on a sample, and add range/format rules for the columns that drift most.",
	"consistency":  "Consistency is your weakest dimension. Standardize reference values (one canonical country/currency table) and add cross-table agreement checks.",
	"timeliness":   "Timeliness is your weakest dimension. Check pipeline schedules against SLAs and alert when a table's last-loaded timestamp exceeds its freshness budget.",
	"validity":     "Validity is your weakest dimension. Tighten column types and add pattern rules (emails, phone numbers, codes) so malformed values are rejected at load.",
	"uniqueness":   "Uniqueness is your weakest dimension. Add or repair primary keys and run the duplicate-check SQL (`write SQL for quality checks`) on your key business tables.",
}

// SQL templates for the sql rule. The table placeholder is substituted
// with an extracted table name when the query carries one.

func sqlQualityTemplate(table string) string {
	return fmt.Sprintf("Here are quality-check queries for `%[1]s`:\n\n"+
		"```sql\n"+
		"-- Null check: rate of missing values per critical column\n"+
		"SELECT\n"+
		"  COUNT(*) AS total_rows,\n"+
		"  SUM(CASE WHEN id IS NULL THEN 1 ELSE 0 END) AS null_ids,\n"+
		"  100.0 * SUM(CASE WHEN id IS NULL THEN 1 ELSE 0 END) / COUNT(*) AS null_pct\n"+
		"FROM %[1]s;\n"+
		"\n"+
		"-- Duplicate check: business keys that appear more than once\n"+
		"SELECT id, COUNT(*) AS occurrences\n"+
		"FROM %[1]s\n"+
		"GROUP BY id\n"+
		"HAVING COUNT(*) > 1\n"+
		"ORDER BY occurrences DESC;\n"+
		"\n"+
		"-- Freshness check: most recent load\n"+
		"SELECT MAX(updated_at) AS last_update,\n"+
		"       CURRENT_TIMESTAMP AS checked_at\n"+
		"FROM %[1]s;\n"+
		"```\n\n"+
		"Swap `id` and `updated_at` for your table's key and timestamp columns.", table)
}

func sqlPIITemplate(table string) string {
	return fmt.Sprintf("Here are PII detection queries for `%[1]s`:\n\n"+
		"```sql\n"+
		"-- Columns whose names suggest PII\n"+
		"SELECT column_name, data_type\n"+
		"FROM information_schema.columns\n"+
		"WHERE table_name = '%[1]s'\n"+
		"  AND (column_name ILIKE '%%ssn%%'\n"+
		"    OR column_name ILIKE '%%email%%'\n"+
		"    OR column_name ILIKE '%%phone%%'\n"+
		"    OR column_name ILIKE '%%birth%%'\n"+
		"    OR column_name ILIKE '%%address%%');\n"+
		"\n"+
		"-- Values shaped like US social security numbers\n"+
		"SELECT *\n"+
		"FROM %[1]s\n"+
		"WHERE CAST(ssn AS TEXT) ~ '^\\d{3}-\\d{2}-\\d{4}$'\n"+
		"LIMIT 100;\n"+
		"```\n\n"+
		"Run `find all PII fields` for a catalog-wide discovery instead.", table)
}

func sqlPerformanceTemplate(table string) string {
	return fmt.Sprintf("Here are performance inspection queries for `%[1]s`:\n\n"+
		"```sql\n"+
		"-- Table size and row estimate\n"+
		"SELECT relname, n_live_tup, pg_size_pretty(pg_total_relation_size(relid)) AS total_size\n"+
		"FROM pg_stat_user_tables\n"+
		"WHERE relname = '%[1]s';\n"+
		"\n"+
		"-- Sequential scans that might want an index\n"+
		"SELECT relname, seq_scan, idx_scan\n"+
		"FROM pg_stat_user_tables\n"+
		"WHERE relname = '%[1]s' AND seq_scan > idx_scan;\n"+
		"```", table)
}

func sqlLineageTemplate(table string) string {
	return fmt.Sprintf("Here are lineage discovery queries for `%[1]s`:\n\n"+
		"```sql\n"+
		"-- Views that read from this table\n"+
		"SELECT dependent_ns.nspname AS schema, dependent_view.relname AS view_name\n"+
		"FROM pg_depend d\n"+
		"JOIN pg_rewrite r ON d.objid = r.oid\n"+
		"JOIN pg_class dependent_view ON r.ev_class = dependent_view.oid\n"+
		"JOIN pg_namespace dependent_ns ON dependent_view.relnamespace = dependent_ns.oid\n"+
		"WHERE d.refobjid = '%[1]s'::regclass;\n"+
		"\n"+
		"-- Foreign keys pointing at this table\n"+
		"SELECT conname, conrelid::regclass AS referencing_table\n"+
		"FROM pg_constraint\n"+
		"WHERE confrelid = '%[1]s'::regclass AND contype = 'f';\n"+
		"```", table)
}
