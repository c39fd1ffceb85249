package ai

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/ranqi-ly/soul-matrix-ai/internal/adapter/observability"
	"github.com/ranqi-ly/soul-matrix-ai/internal/domain"
)

// RepairError reports that no bounded sequence of heuristic fixes produced
// parseable JSON. It carries the original and final-attempt text for
// diagnostics; only the message is ever surfaced to callers.
type RepairError struct {
	Original string
	Attempt  string
}

func (e *RepairError) Error() string {
	return fmt.Sprintf("json repair failed after all passes (original %d bytes, attempt %d bytes)",
		len(e.Original), len(e.Attempt))
}

// Unwrap ties repair failures into the schema-invalid error class.
func (e *RepairError) Unwrap() error { return domain.ErrSchemaInvalid }

// URLRule substitutes a known-safe canonical URL for a truncated url value
// whose prefix matches Substring. Truncated article links are a recurring
// upstream failure mode; the rule table is injected, not hardcoded.
type URLRule struct {
	Substring string
	Canonical string
}

// DefaultURLRules covers the article hosts the model is known to truncate.
var DefaultURLRules = []URLRule{
	{Substring: "zhihu.com", Canonical: "https://www.zhihu.com/question/20183837"},
	{Substring: "jiandanxinli.com", Canonical: "https://www.jiandanxinli.com/materials"},
}

// Repairer heuristically fixes malformed JSON text emitted by the model.
// Each pass applies cheap, idempotent fixes and re-parses; the pass count is
// bounded. Safe for concurrent use.
type Repairer struct {
	MaxPasses int
	URLRules  []URLRule
}

// NewRepairer returns a Repairer with the default pass bound and rule table.
func NewRepairer() *Repairer {
	return &Repairer{MaxPasses: 3, URLRules: DefaultURLRules}
}

var (
	bareKeyRe       = regexp.MustCompile(`([{,]\s*)(\w+)(\s*:)`)
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	danglingPairRe  = regexp.MustCompile(`,\s*"[^"]*"\s*:\s*[^,}\]]*$`)
	truncatedURLRe  = regexp.MustCompile(`("url"\s*:\s*")([^"]*)$`)
	fenceRe         = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")
)

// Repair returns text guaranteed to parse as JSON, or a *RepairError when the
// heuristics are exhausted. The postcondition is enforced by a
// parse-check-and-re-repair loop.
func (r *Repairer) Repair(raw string) (string, error) {
	text := extractPayload(raw)
	passes := r.MaxPasses
	if passes <= 0 {
		passes = 3
	}
	for pass := 0; pass < passes; pass++ {
		if json.Valid([]byte(text)) {
			observability.RepairPassesTotal.WithLabelValues("ok").Add(float64(pass))
			return text, nil
		}
		observability.RepairPassesTotal.WithLabelValues("retry").Inc()
		text = r.pass(text)
	}
	if json.Valid([]byte(text)) {
		return text, nil
	}
	// Last resort: the generic repair library catches classes of damage the
	// targeted heuristics above do not, e.g. concatenated fragments. The
	// library happily turns bare prose into a JSON string, which is useless
	// downstream, so the result must still be an object.
	if fixed, err := jsonrepair.JSONRepair(text); err == nil && json.Valid([]byte(fixed)) &&
		strings.HasPrefix(strings.TrimSpace(fixed), "{") {
		slog.Debug("json repaired by fallback library", slog.Int("bytes", len(fixed)))
		return fixed, nil
	}
	observability.RepairFailuresTotal.Inc()
	return "", &RepairError{Original: raw, Attempt: text}
}

// pass runs the full ordered fix pipeline once.
func (r *Repairer) pass(text string) string {
	text = stripControl(text)
	// URL patching must precede string closing: it only recognizes a url
	// value still open at the end of the text.
	text = r.patchTruncatedURL(text)
	text = closeUnterminatedString(text)
	text = bareKeyRe.ReplaceAllString(text, `$1"$2"$3`)
	text = trailingCommaRe.ReplaceAllString(text, "$1")
	text = truncateDanglingObject(text)
	text = balanceBraces(text)
	if json.Valid([]byte(text)) {
		return text
	}
	// Drop a trailing unterminated "key": value pair and close the object.
	if m := danglingPairRe.FindStringIndex(text); m != nil {
		text = text[:m[0]] + "}"
	}
	return text
}

// extractPayload strips markdown fences and leading/trailing prose around the
// outermost JSON object.
func extractPayload(text string) string {
	if m := fenceRe.FindStringSubmatch(text); m != nil {
		text = m[1]
	}
	start := strings.Index(text, "{")
	if start > 0 {
		text = text[start:]
	}
	return strings.TrimSpace(text)
}

// stripControl removes a BOM and replaces control characters with spaces.
// Replacement rather than deletion preserves token boundaries.
func stripControl(text string) string {
	text = strings.TrimPrefix(text, "\uFEFF")
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r <= 0x19 {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// closeUnterminatedString scans for string-open state and, if the scan ends
// mid-string, terminates it so the truncated value survives as a valid
// (shortened) string instead of poisoning the rest of the document.
func closeUnterminatedString(text string) string {
	inString := false
	escaped := false
	for _, r := range text {
		if escaped {
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		if r == '"' {
			inString = !inString
		}
	}
	if inString {
		// A trailing backslash would escape the quote we are about to add.
		text = strings.TrimSuffix(text, `\`)
		return text + `"`
	}
	return text
}

// truncateDanglingObject handles a response cut off inside a trailing object:
// when the last '{' appears after the last '}', the text is rolled back to
// the last complete comma-separated element before that dangling brace.
func truncateDanglingObject(text string) string {
	lastOpen := strings.LastIndex(text, "{")
	lastClose := strings.LastIndex(text, "}")
	if lastOpen <= lastClose || strings.Count(text, "{") <= strings.Count(text, "}") {
		return text
	}
	if cut := strings.LastIndex(text[:lastOpen], ","); cut >= 0 {
		return text[:cut]
	}
	return text
}

// balanceBraces appends closing braces until counts match.
func balanceBraces(text string) string {
	open := strings.Count(text, "{")
	closed := strings.Count(text, "}")
	if open > closed {
		text += strings.Repeat("}", open-closed)
	}
	return text
}

// patchTruncatedURL substitutes a canonical URL for a url value truncated
// mid-string at the end of the text.
func (r *Repairer) patchTruncatedURL(text string) string {
	m := truncatedURLRe.FindStringSubmatch(text)
	if m == nil {
		return text
	}
	for _, rule := range r.URLRules {
		if strings.Contains(m[2], rule.Substring) {
			return truncatedURLRe.ReplaceAllString(text, "${1}"+rule.Canonical+`"`)
		}
	}
	return text
}
