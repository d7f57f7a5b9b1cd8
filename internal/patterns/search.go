package patterns

import (
	"sort"
	"strings"

	"github.com/atestado-tools/atestado-reader/constants"
)

// anchorWindow is how many tokens on each side of a match are scanned for
// anchor keywords when deciding the proximity boost.
const anchorWindow = 5

// Search runs the anchored rules for field over text and returns all
// candidates sorted by descending confidence. A candidate within
// anchorWindow tokens of one of its rule's anchor keywords gets a boost on
// top of the rule weight. Pure function: no state survives between calls.
func (l *Library) Search(field constants.Field, text string) []Candidate {
	fp, ok := l.fields[field]
	if ok && text != "" {
		var out []Candidate
		for _, r := range fp.Rules {
			for _, idx := range r.Pattern.FindAllStringSubmatchIndex(text, -1) {
				if len(idx) < 4 || idx[2] < 0 {
					continue
				}
				c := Candidate{Value: text[idx[2]:idx[3]], Confidence: r.Weight}
				if len(r.Anchors) > 0 && nearAnchor(text, idx[0], idx[1], r.Anchors) {
					c.Confidence += anchorBoost
					if c.Confidence > maxConfidence {
						c.Confidence = maxConfidence
					}
				}
				out = append(out, c)
			}
		}
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Confidence > out[j].Confidence
		})
		return out
	}
	return nil
}

// Baseline runs the anchorless fallback regex for field and returns its
// first match at baseline confidence.
func (l *Library) Baseline(field constants.Field, text string) (Candidate, bool) {
	fp, ok := l.fields[field]
	if !ok || text == "" {
		return Candidate{}, false
	}
	m := fp.Baseline.FindStringSubmatch(text)
	if m == nil || len(m) < 2 || m[1] == "" {
		return Candidate{}, false
	}
	return Candidate{Value: m[1], Confidence: baselineConfidence}, true
}

// nearAnchor reports whether any anchor keyword occurs within anchorWindow
// tokens before or after the match at [start,end).
func nearAnchor(text string, start, end int, anchors []string) bool {
	before := lastTokens(text[:start], anchorWindow)
	after := firstTokens(text[end:], anchorWindow)
	window := strings.ToLower(before + " " + after)
	for _, a := range anchors {
		if strings.Contains(window, strings.ToLower(a)) {
			return true
		}
	}
	return false
}

func lastTokens(s string, n int) string {
	toks := strings.Fields(s)
	if len(toks) > n {
		toks = toks[len(toks)-n:]
	}
	return strings.Join(toks, " ")
}

func firstTokens(s string, n int) string {
	toks := strings.Fields(s)
	if len(toks) > n {
		toks = toks[:n]
	}
	return strings.Join(toks, " ")
}
