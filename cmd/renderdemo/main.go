package main

// Render a sample tailored resume without the API or queue:
//   go run ./cmd/renderdemo
//   go run ./cmd/renderdemo -pdf -out ./out/tailored_resume.pdf

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tailor-backend/internal/assemble"
	"tailor-backend/internal/keywords"
	"tailor-backend/internal/normalize"
	"tailor-backend/internal/rank"
	"tailor-backend/internal/render"
	"tailor-backend/internal/render/chromedp"
	"tailor-backend/internal/sections"
)

func main() {
	outPath := flag.String("out", "./out/tailored_resume.txt", "output path for the rendered resume")
	usePDF := flag.Bool("pdf", false, "render through headless Chrome instead of plain text")
	topN := flag.Int("top", 10, "number of keywords to extract")
	flag.Parse()

	jd := normalize.Normalize(sampleJobDescription)
	kws := keywords.Extract(keywords.DefaultConfig(), jd, *topN)

	secs := sections.Parse(sections.DefaultConfig(), normalize.Normalize(sampleResume))
	reordered := rank.Reorder(secs, kws)

	doc := assemble.Assemble(reordered, sampleCoverLetter, assemble.Options{
		JobTitle: "Senior Backend Engineer",
		Company:  "Acme Logistics",
		Keywords: kws,
	})

	var renderer render.Renderer = render.TextRenderer{}
	if *usePDF {
		renderer = chromedp.New(30 * time.Second)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	artifact, err := renderer.Render(ctx, render.Input{Title: "Tailored Resume", Body: doc.ResumeText})
	if err != nil {
		fmt.Fprintf(os.Stderr, "render failed: %v\n", err)
		os.Exit(1)
	}

	if err := writeOutputs(*outPath, doc, kws, artifact); err != nil {
		fmt.Fprintf(os.Stderr, "write failed: %v\n", err)
		os.Exit(1)
	}

	if err := validateRendered(*outPath, *usePDF); err != nil {
		fmt.Fprintf(os.Stderr, "render validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("OK: wrote %s (%d keywords)\n", *outPath, len(kws))
}

func writeOutputs(outPath string, doc assemble.Document, kws []keywords.Keyword, artifact []byte) error {
	dir := filepath.Dir(outPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	if err := os.WriteFile(outPath, artifact, 0o644); err != nil {
		return err
	}

	letterPath := filepath.Join(dir, "cover_letter.txt")
	if err := os.WriteFile(letterPath, []byte(doc.CoverLetterText), 0o644); err != nil {
		return err
	}

	keywordsPath := filepath.Join(dir, "keywords.json")
	payload, err := json.MarshalIndent(kws, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(keywordsPath, payload, 0o644)
}

func validateRendered(path string, pdf bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("rendered artifact is empty")
	}
	if pdf {
		if !bytes.HasPrefix(data, []byte("%PDF-")) {
			return fmt.Errorf("output does not look like a PDF")
		}
		return nil
	}
	if !strings.Contains(string(data), "TAILORED FOR") {
		return fmt.Errorf("tailoring banner missing from output")
	}
	return nil
}

const sampleJobDescription = `Acme Logistics is hiring a Senior Backend Engineer for our routing platform.
You will design Go services on Kubernetes, own PostgreSQL schemas, and ship
event pipelines on AWS. Experience with Docker, Terraform and observability
tooling is a strong plus. We value engineers who profile and tune distributed
systems under real load.`

const sampleResume = `Jordan Lee
Austin, TX | jordan.lee@example.com | +1-555-0102

SUMMARY:
Backend engineer with 8+ years building resilient APIs and data services.
Led platform modernization spanning cloud migration and observability adoption.

TECHNICAL SKILLS: Java, Python, Go, PostgreSQL, Redis, Docker, Kubernetes, AWS, Terraform

EXPERIENCE:
Senior Backend Engineer, Acme Logistics (2021-Present)
- Designed a routing service that reduced shipment latency by 18%.
- Implemented distributed tracing to cut incident triage time by 35%.
Backend Engineer, Blue Harbor Systems (2018-2021)
- Built event-driven ingestion pipelines for compliance data feeds.

EDUCATION:
B.S. Computer Science, University of Washington (2017)`

const sampleCoverLetter = `Dear Hiring Team,

I am excited to apply for the Senior Backend Engineer role at Acme Logistics.
My work on routing and ingestion systems maps directly onto your platform,
and I would love to bring that experience to your team.

Sincerely,
Jordan Lee`
