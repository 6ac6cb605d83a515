package assistant

import (
	"regexp"
	"strings"
)

// stopWords are tokens that can never be a table or search term. When a
// capture pattern lands on one of these, the extractor retries with the
// word following it in the original query before moving on.
var stopWords = map[string]bool{
	"me": true, "the": true, "a": true, "an": true, "my": true,
	"all": true, "any": true, "some": true, "with": true, "that": true,
	"this": true, "it": true, "is": true, "are": true, "in": true,
	"of": true, "for": true, "to": true, "and": true, "or": true,
	"table": true, "tables": true, "column": true, "columns": true,
	"dataset": true, "datasets": true, "data": true, "asset": true,
	"assets": true, "view": true, "views": true, "database": true,
	"named": true, "called": true, "containing": true, "contains": true,
	"show": true, "find": true, "search": true, "list": true, "get": true,
	"schema": true, "structure": true, "field": true, "fields": true,
}

// Extraction patterns, most specific first. All run against the original
// (case-preserved) query so captured names keep their casing.
var (
	reQuoted    = regexp.MustCompile(`["'` + "`" + `]([^"'` + "`" + `]+)["'` + "`" + `]`)
	reNamed     = regexp.MustCompile(`(?i)\b(?:named|called|containing|contains|with\s+name)\s+([A-Za-z0-9_.\-]+)`)
	reColumnsOf = regexp.MustCompile(`(?i)\b(?:columns?|schema|structure|fields?)\s+(?:of|for|in|from)\s+(?:the\s+)?([A-Za-z0-9_.\-]+)`)
	reTableX    = regexp.MustCompile(`(?i)\b(?:table|dataset|asset|view)\s+(?:named\s+|called\s+)?([A-Za-z0-9_.\-]+)`)
	reXTable    = regexp.MustCompile(`(?i)\b([A-Za-z0-9_.\-]+)\s+(?:table|dataset)\b`)
	reVerbObj   = regexp.MustCompile(`(?i)\b(?:find|search|show|list|lookup|locate|describe)\s+(?:me\s+)?(?:the\s+)?([A-Za-z0-9_.\-]+)\s*\??$`)

	reToken = regexp.MustCompile(`[A-Za-z0-9_.\-]+`)
)

var extractPatterns = []*regexp.Regexp{
	reQuoted, reNamed, reColumnsOf, reTableX, reXTable, reVerbObj,
}

// extractEntity pulls a candidate table/search term out of a query. It
// tries the capture patterns from most to least specific; a captured stop
// word is replaced by the next word of the query when possible. Returns ""
// when no usable term exists, in which case the caller must ask for
// clarification instead of querying the backend with an empty term.
func extractEntity(raw string) string {
	if term := extractTableRef(raw); term != "" {
		return term
	}

	// Least specific: the last token that is not a stop word.
	tokens := reToken.FindAllString(raw, -1)
	for i := len(tokens) - 1; i >= 0; i-- {
		if len(tokens[i]) > 1 && !stopWords[strings.ToLower(tokens[i])] {
			return tokens[i]
		}
	}
	return ""
}

// extractTableRef is the pattern-only variant used where a wrong guess is
// worse than asking: schema lookups and SQL template substitution.
func extractTableRef(raw string) string {
	for _, re := range extractPatterns {
		m := re.FindStringSubmatchIndex(raw)
		if m == nil {
			continue
		}
		candidate := strings.TrimSpace(raw[m[2]:m[3]])
		if candidate == "" {
			continue
		}
		if !stopWords[strings.ToLower(candidate)] {
			return candidate
		}
		// Stop word captured: try the word right after it.
		if next := nextToken(raw, m[3]); next != "" && !stopWords[strings.ToLower(next)] {
			return next
		}
	}
	return ""
}

// nextToken returns the first token starting at or after offset.
func nextToken(s string, offset int) string {
	if offset >= len(s) {
		return ""
	}
	loc := reToken.FindStringIndex(s[offset:])
	if loc == nil {
		return ""
	}
	return s[offset+loc[0] : offset+loc[1]]
}
