package corrector

import (
	"regexp"
	"strings"
)

var (
	reControl    = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]`)
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reTabs       = regexp.MustCompile(`\t+`)
	reMultiSpace = regexp.MustCompile(` {2,}`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)

	// CID-like token with digit/letter look-alikes in the numeric part.
	// Only rewritten when the suffix already contains at least one digit,
	// so ordinary words (OK, OI) are left alone.
	reCIDConfuse = regexp.MustCompile(`\b([A-Z])([0-9OIl]{2,3})((?:\.[0-9OIl]{1,2})?)\b`)

	// dd de <mês> de yyyy, spelled-out Portuguese month.
	reDateExtenso = regexp.MustCompile(`(?i)\b(\d{1,2})\s+de\s+(janeiro|fevereiro|março|marco|abril|maio|junho|julho|agosto|setembro|outubro|novembro|dezembro)\s+de\s+(\d{4})\b`)

	// dd-mm-yyyy with dashes, unified to slashes.
	reDateDashed = regexp.MustCompile(`\b(\d{2})-(\d{2})-(\d{4})\b`)

	reDigit = regexp.MustCompile(`[0-9]`)
)

var confusions = strings.NewReplacer("O", "0", "I", "1", "l", "1")

var monthsPT = map[string]string{
	"janeiro": "01", "fevereiro": "02", "março": "03", "marco": "03",
	"abril": "04", "maio": "05", "junho": "06", "julho": "07",
	"agosto": "08", "setembro": "09", "outubro": "10",
	"novembro": "11", "dezembro": "12",
}

// Clean normalizes raw OCR text before pattern matching: strips control
// characters, collapses noisy whitespace (keeping line breaks), fixes
// digit/letter confusions inside CID-shaped tokens and unifies date formats.
// Idempotent: Clean(Clean(s)) == Clean(s). Unmatched input passes through.
func Clean(s string) string {
	if s == "" {
		return s
	}
	s = reControl.ReplaceAllString(s, "")
	s = reCRLF.ReplaceAllString(s, "\n")
	s = reTabs.ReplaceAllString(s, " ")
	s = reMultiSpace.ReplaceAllString(s, " ")
	s = reMultiBlank.ReplaceAllString(s, "\n\n")

	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	s = strings.Join(lines, "\n")

	s = reCIDConfuse.ReplaceAllStringFunc(s, fixCIDToken)
	s = reDateExtenso.ReplaceAllStringFunc(s, fixSpelledDate)
	s = reDateDashed.ReplaceAllString(s, "$1/$2/$3")

	return strings.TrimSpace(s)
}

func fixCIDToken(tok string) string {
	suffix := tok[1:]
	if !reDigit.MatchString(suffix) {
		return tok
	}
	return tok[:1] + confusions.Replace(suffix)
}

func fixSpelledDate(m string) string {
	parts := reDateExtenso.FindStringSubmatch(m)
	if parts == nil {
		return m
	}
	month, ok := monthsPT[strings.ToLower(parts[2])]
	if !ok {
		return m
	}
	day := parts[1]
	if len(day) == 1 {
		day = "0" + day
	}
	return day + "/" + month + "/" + parts[3]
}
