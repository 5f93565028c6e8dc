// Package sections splits a normalized resume into heading-delimited blocks,
// classifying each as a reorderable skills list or order-preserved prose.
package sections

import (
	"regexp"
	"strings"
	"unicode"
)

// Kind classifies a section: skills sections may be reordered, everything
// else keeps its original order.
type Kind string

const (
	KindSkills Kind = "skills"
	KindOther  Kind = "other"
)

// Item is one atomic unit of resume content. Pos is the item's position in
// the original document, used as the stable tie-break when reordering.
type Item struct {
	Text string
	Pos  int
}

// Section is an ordered run of items under one heading. Joiner records how
// the items were separated in the source so reassembly can keep the layout:
// ", " for inline lists, "\n" for one-item-per-line blocks.
type Section struct {
	Kind    Kind
	Heading string
	Items   []Item
	Joiner  string
}

// Config carries the heading label table. Labels are data, not code; tests
// substitute small fixtures, production uses DefaultConfig.
type Config struct {
	SkillHeadings []string
}

// DefaultConfig returns the production skill-heading labels.
func DefaultConfig() Config {
	return Config{SkillHeadings: []string{
		"technical skills",
		"skills",
		"technologies",
		"programming languages",
		"programming",
		"languages",
		"tools",
		"frameworks",
		"libraries",
	}}
}

var itemSplit = regexp.MustCompile(`[,;•·]+`)

// Parse splits text into sections. A short line that is all caps or ends
// with a colon is a heading; a heading whose label matches the configured
// skill labels opens a skills section, any other heading opens a prose
// section. Text before the first heading is prose. Inside a skills section
// every comma, semicolon, bullet or line break delimits one item, including
// content inline on the heading line itself. Item counts are conserved: no
// content line is dropped.
func Parse(cfg Config, text string) []Section {
	lines := strings.Split(text, "\n")
	var out []Section
	pos := 0

	cur := Section{Kind: KindOther, Joiner: "\n"}
	sawInline := false

	flush := func() {
		if cur.Heading == "" && len(cur.Items) == 0 {
			return
		}
		if cur.Kind == KindSkills && sawInline {
			cur.Joiner = ", "
		}
		out = append(out, cur)
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if label, head, inline, ok := splitHeading(trimmed); ok {
			flush()
			sawInline = false
			if matchesSkillLabel(cfg.SkillHeadings, label) {
				cur = Section{Kind: KindSkills, Heading: head, Joiner: "\n"}
				if inline != "" {
					sawInline = true
					pos = appendSkillItems(&cur, inline, pos)
				}
			} else {
				// Prose headings keep the full line so nothing is lost.
				cur = Section{Kind: KindOther, Heading: trimmed, Joiner: "\n"}
			}
			continue
		}
		if cur.Kind == KindSkills {
			if itemSplit.MatchString(trimmed) {
				sawInline = true
			}
			pos = appendSkillItems(&cur, trimmed, pos)
			continue
		}
		cur.Items = append(cur.Items, Item{Text: trimmed, Pos: pos})
		pos++
	}
	flush()

	if len(out) == 0 {
		return []Section{{Kind: KindOther, Joiner: "\n"}}
	}
	return out
}

// appendSkillItems splits content on list delimiters and appends the
// non-empty parts as items, returning the advanced position counter.
func appendSkillItems(sec *Section, content string, pos int) int {
	for _, part := range itemSplit.Split(content, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		sec.Items = append(sec.Items, Item{Text: part, Pos: pos})
		pos++
	}
	return pos
}

// splitHeading reports whether line looks like a section heading and, if so,
// returns its lowercased label, the heading prefix as written (colon
// included), and any inline content after the colon. Headings are short
// lines that either carry a colon or are written in all caps, the same cues
// the PDF output uses for bold headings.
func splitHeading(line string) (label, head, inline string, ok bool) {
	if i := strings.Index(line, ":"); i >= 0 {
		name := strings.TrimSpace(line[:i])
		if name != "" && len(strings.Fields(name)) <= 4 && len(name) <= 40 {
			return strings.ToLower(name), name + ":", strings.TrimSpace(line[i+1:]), true
		}
		return "", "", "", false
	}
	if isAllCaps(line) && len(strings.Fields(line)) <= 4 && len(line) <= 40 {
		return strings.ToLower(line), line, "", true
	}
	return "", "", "", false
}

// isAllCaps reports whether the line has letters and none of them lowercase.
func isAllCaps(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

// matchesSkillLabel reports whether the heading label names a skills block.
// A label matches exactly or as the trailing words of the heading, so
// "core skills" hits the "skills" entry without its own table row.
func matchesSkillLabel(labels []string, label string) bool {
	for _, want := range labels {
		if label == want || strings.HasSuffix(label, " "+want) {
			return true
		}
	}
	return false
}

// CountItems returns the total number of items across sections. Parsing and
// reordering both conserve this count.
func CountItems(secs []Section) int {
	n := 0
	for _, s := range secs {
		n += len(s.Items)
	}
	return n
}
