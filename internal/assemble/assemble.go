// Package assemble merges reordered sections back into one resume text and
// pairs it with the generated cover letter. Packaging is deterministic: the
// section order is the original one, items rejoin with the separators the
// parser recorded, and the cover letter passes through untouched.
package assemble

import (
	"fmt"
	"strings"

	"tailor-backend/internal/keywords"
	"tailor-backend/internal/sections"
)

const bannerRuleWidth = 80

// bannerKeywordMax caps how many keywords the tailoring banner lists.
const bannerKeywordMax = 5

// Document is the final tailored payload handed to the rendering boundary.
type Document struct {
	ResumeText      string
	CoverLetterText string
}

// Options carries the job metadata for the tailoring banner. Zero value
// means no banner.
type Options struct {
	JobTitle string
	Company  string
	Keywords []keywords.Keyword
}

// Assemble rebuilds the resume from secs and packages it with coverLetter.
// Sections emit in their given order: a heading line when present, then the
// items joined with the section's own joiner. Inline skills lists stay on
// the heading line.
func Assemble(secs []sections.Section, coverLetter string, opts Options) Document {
	blocks := make([]string, 0, len(secs)+1)
	if b := banner(opts); b != "" {
		blocks = append(blocks, b)
	}
	for _, sec := range secs {
		if sec.Heading == "" && len(sec.Items) == 0 {
			continue
		}
		blocks = append(blocks, renderSection(sec))
	}
	return Document{
		ResumeText:      strings.Join(blocks, "\n\n"),
		CoverLetterText: coverLetter,
	}
}

func renderSection(sec sections.Section) string {
	texts := make([]string, len(sec.Items))
	for i, it := range sec.Items {
		texts[i] = it.Text
	}
	body := strings.Join(texts, sec.Joiner)
	switch {
	case sec.Heading == "":
		return body
	case body == "":
		return sec.Heading
	case sec.Joiner == "\n":
		return sec.Heading + "\n" + body
	default:
		return sec.Heading + " " + body
	}
}

// banner formats the tailoring header: the job title and company in caps,
// the top keywords, and a rule of equals signs.
func banner(opts Options) string {
	if opts.JobTitle == "" && opts.Company == "" {
		return ""
	}
	line := fmt.Sprintf("TAILORED FOR %s AT %s",
		strings.ToUpper(strings.TrimSpace(opts.JobTitle)),
		strings.ToUpper(strings.TrimSpace(opts.Company)))
	if terms := keywords.Terms(opts.Keywords); len(terms) > 0 {
		if len(terms) > bannerKeywordMax {
			terms = terms[:bannerKeywordMax]
		}
		line += ": " + strings.Join(terms, ", ")
	}
	return line + "\n" + strings.Repeat("=", bannerRuleWidth)
}
