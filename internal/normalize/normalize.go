// Package normalize cleans raw text extracted from uploaded documents into a
// canonical form the rest of the tailoring pipeline can rely on. Normalization
// is idempotent and never fails: unrecognizable bytes are replaced or dropped,
// not reported.
package normalize

import (
	"strings"
	"unicode"
)

// mojibake maps byte sequences that commonly survive PDF extraction mangled
// (UTF-8 punctuation decoded as Windows-1252, plus the Unicode replacement
// character) to the characters they were meant to be. Longer sequences are
// listed first so they win over their own prefixes.
var mojibake = strings.NewReplacer(
	"â€™", "'", // right single quote
	"â€˜", "'", // left single quote
	"â€œ", "\"", // left double quote
	"â€", "\"", // right double quote
	"â€“", "-", // en dash
	"â€”", "-", // em dash
	"â€¢", "•", // bullet
	"â€¦", "...", // ellipsis
	"Â ", " ", // no-break space with stray Â
	"�", "•", // replacement char: bullets are the usual victim
	"’", "'",
	"‘", "'",
	"“", "\"",
	"”", "\"",
	"–", "-",
	"—", "-",
	"…", "...",
)

// Normalize returns the canonical form of raw: known encoding artifacts
// substituted, control characters removed, runs of spaces and tabs collapsed
// to a single space, every line trimmed, and runs of blank lines capped at
// one. Line breaks separating logical entries are preserved. Calling
// Normalize on its own output returns the same string.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	s := strings.ToValidUTF8(raw, "�")
	s = mojibake.Replace(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	pendingBlank := false
	for _, line := range lines {
		line = cleanLine(line)
		if line == "" {
			pendingBlank = true
			continue
		}
		if pendingBlank && len(out) > 0 {
			out = append(out, "")
		}
		pendingBlank = false
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// cleanLine drops control and format characters, collapses whitespace runs to
// one space, and trims the ends. The input must not contain newlines.
func cleanLine(line string) string {
	var b strings.Builder
	b.Grow(len(line))
	space := false
	for _, r := range line {
		switch {
		case r == ' ' || r == '\t' || unicode.IsSpace(r):
			space = true
		case unicode.IsControl(r) || unicode.Is(unicode.Cf, r):
			// dropped
		default:
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		}
	}
	return b.String()
}
