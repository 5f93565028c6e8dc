package main

// Try the cover-letter prompt against a live generator without the API or
// queue:
//   go run ./cmd/prompttest -resume fixtures/resume.pdf -jd fixtures/jd.txt \
//     -title "Staff Engineer" -company "Acme"

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"tailor-backend/internal/extract"
	"tailor-backend/internal/keywords"
	"tailor-backend/internal/llm"
	ollama "tailor-backend/internal/llm/ollama"
	openai "tailor-backend/internal/llm/openai"
	"tailor-backend/internal/normalize"
	"tailor-backend/internal/shared/config"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	resumePath := flag.String("resume", "", "Path to resume file (pdf, docx or txt)")
	jdPath := flag.String("jd", "", "Path to job description file")
	coverPath := flag.String("cover", "", "Path to cover letter template (optional)")
	title := flag.String("title", "", "Job title")
	company := flag.String("company", "", "Company name")
	topN := flag.Int("top", cfg.TopKeywords, "Number of keywords to feed the prompt")
	provider := flag.String("provider", cfg.GeneratorProvider, "Generator provider (ollama, openai, placeholder)")
	model := flag.String("model", cfg.GeneratorModel, "Generator model")
	showPrompt := flag.Bool("show-prompt", false, "Print the rendered prompt before the letter")
	outPath := flag.String("out", "", "Path to write the letter (optional)")
	flag.Parse()

	if strings.TrimSpace(*resumePath) == "" {
		exitErr("resume path is required")
	}
	if strings.TrimSpace(*jdPath) == "" {
		exitErr("job description path is required")
	}

	ctx := context.Background()

	resumeText, err := readDocument(ctx, *resumePath)
	if err != nil {
		exitErr(fmt.Sprintf("read resume: %v", err))
	}

	jdBytes, err := os.ReadFile(*jdPath)
	if err != nil {
		exitErr(fmt.Sprintf("read job description: %v", err))
	}
	jobDescription := normalize.Normalize(string(jdBytes))

	coverTemplate := ""
	if strings.TrimSpace(*coverPath) != "" {
		coverTemplate, err = readDocument(ctx, *coverPath)
		if err != nil {
			exitErr(fmt.Sprintf("read cover template: %v", err))
		}
	}

	kws := keywords.Extract(keywords.DefaultConfig(), jobDescription, *topN)

	prompt := llm.BuildCoverLetterPrompt(llm.PromptInput{
		JobTitle:       *title,
		Company:        *company,
		JobDescription: jobDescription,
		Keywords:       keywords.Terms(kws),
		ResumeText:     resumeText,
		CoverTemplate:  coverTemplate,
	})

	if *showPrompt {
		fmt.Println("--- prompt ---")
		fmt.Println(prompt)
		fmt.Println("--- letter ---")
	}

	client, err := buildClient(cfg, *provider, *model)
	if err != nil {
		exitErr(err.Error())
	}

	letter, err := client.Generate(ctx, prompt)
	if err != nil {
		exitErr(fmt.Sprintf("generate: %v", err))
	}

	if *outPath != "" {
		if err := os.WriteFile(*outPath, []byte(letter), 0o644); err != nil {
			exitErr(fmt.Sprintf("write output: %v", err))
		}
	}

	fmt.Println(letter)
}

func buildClient(cfg config.Config, provider, model string) (llm.Client, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "placeholder":
		return llm.PlaceholderClient{}, nil
	case "openai":
		return openai.NewClient(os.Getenv("OPENAI_API_KEY"), model)
	case "", "ollama":
		return ollama.NewClient(cfg.OllamaURL, model, cfg.OllamaTimeout), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

func readDocument(ctx context.Context, path string) (string, error) {
	mimeType, err := mimeFromExt(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return extract.ExtractTextFromBytes(ctx, data, mimeType, filepath.Base(path))
}

func mimeFromExt(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "application/pdf", nil
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document", nil
	case ".txt", ".md":
		return "text/plain", nil
	default:
		return "", fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
}

func exitErr(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
