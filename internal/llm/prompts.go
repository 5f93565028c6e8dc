package llm

import (
	_ "embed"
	"strings"
)

//go:embed prompts/cover_letter_v1.txt
var coverLetterV1 string

// PromptInput carries everything the cover-letter prompt references.
type PromptInput struct {
	JobTitle       string
	Company        string
	JobDescription string
	Keywords       []string
	ResumeText     string
	CoverTemplate  string
}

// BuildCoverLetterPrompt renders the cover-letter prompt from its embedded
// template. The ranked keywords are serialized into the prompt alongside the
// job metadata and both template texts.
func BuildCoverLetterPrompt(in PromptInput) string {
	kws := strings.Join(in.Keywords, ", ")
	if kws == "" {
		kws = "none identified"
	}
	r := strings.NewReplacer(
		"{{RESUME_TEXT}}", strings.TrimSpace(in.ResumeText),
		"{{COVER_TEMPLATE}}", strings.TrimSpace(in.CoverTemplate),
		"{{JOB_TITLE}}", strings.TrimSpace(in.JobTitle),
		"{{COMPANY}}", strings.TrimSpace(in.Company),
		"{{JOB_DESCRIPTION}}", strings.TrimSpace(in.JobDescription),
		"{{KEYWORDS}}", kws,
	)
	return r.Replace(coverLetterV1)
}
