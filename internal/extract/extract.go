// Package extract turns uploaded template files into plain text. Resumes and
// cover letters arrive as PDF, DOCX or plain text; everything downstream
// (keyword ranking, section parsing, prompts) works on the extracted text
// only.
package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"tailor-backend/internal/shared/storage/object"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeText = "text/plain"
)

// ExtractText pulls text from a stored object and persists a derived
// .extracted.txt copy next to it. PDF parsing uses github.com/ledongthuc/pdf;
// DOCX is unzipped and walked directly.
func ExtractText(ctx context.Context, store object.ObjectStore, fileKey string, mimeType string, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	body, err := store.Open(ctx, fileKey)
	if err != nil {
		return "", fmt.Errorf("extract text key=%s mime=%s: %w", fileKey, mimeType, err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("extract text key=%s mime=%s: read: %w", fileKey, mimeType, err)
	}

	text, err := ExtractTextFromBytes(ctx, raw, mimeType, fileName)
	if err != nil {
		return "", fmt.Errorf("extract text key=%s mime=%s: %w", fileKey, mimeType, err)
	}

	extractedKey := fileKey + ".extracted.txt"
	if _, err := store.SaveWithKey(ctx, extractedKey, "text/plain; charset=utf-8", strings.NewReader(text)); err != nil {
		return "", fmt.Errorf("extract text key=%s mime=%s: %w", fileKey, mimeType, err)
	}

	return text, nil
}

// ExtractTextFromBytes extracts text from an in-memory payload. The mime
// type is normalized first since browsers and CLIs disagree about what a
// .docx upload is called.
func ExtractTextFromBytes(ctx context.Context, data []byte, mimeType string, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	switch resolveMimeType(mimeType, fileName, data) {
	case mimePDF:
		return extractPDF(data)
	case mimeDOCX:
		return extractDOCX(data)
	case mimeText:
		return extractPlain(data)
	default:
		return "", fmt.Errorf("unsupported mime type: %s", mimeType)
	}
}

func extractPlain(data []byte) (string, error) {
	if !utf8.Valid(data) && bytes.ContainsRune(data, 0) {
		return "", errors.New("binary data submitted as text")
	}
	return string(data), nil
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	doc, err := openDocumentXML(data)
	if err != nil {
		return "", err
	}
	defer doc.Close()

	raw, err := io.ReadAll(doc)
	if err != nil {
		return "", err
	}
	return docxText(string(raw)), nil
}

// openDocumentXML returns a reader over word/document.xml inside a DOCX
// archive.
func openDocumentXML(data []byte) (io.ReadCloser, error) {
	if len(data) == 0 {
		return nil, errors.New("empty docx data")
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			return f.Open()
		}
	}
	return nil, errors.New("document.xml file not found")
}

// docxText flattens WordprocessingML to plain text. Paragraph and explicit
// break ends become newlines; tab runs become a space so columned resume
// lines don't smash together. A malformed body comes back unchanged rather
// than empty.
func docxText(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.Write(t)
		case xml.StartElement:
			if t.Name.Local == "tab" {
				buf.WriteString(" ")
			}
		case xml.EndElement:
			if (t.Name.Local == "p" || t.Name.Local == "br") && buf.Len() > 0 {
				buf.WriteString("\n")
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

// resolveMimeType decides which extractor handles the payload. Declared
// type wins when it is specific; octet-stream and zip fall back to the file
// extension and, for zips, to probing for a WordprocessingML body. This
// service only ever stores resumes and letters, so a zip that is not a DOCX
// is just unsupported.
func resolveMimeType(mimeType string, fileName string, data []byte) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	ext := strings.ToLower(filepath.Ext(fileName))

	if clean == "" || clean == "application/octet-stream" {
		switch ext {
		case ".txt", ".md":
			return mimeText
		case ".pdf":
			return mimePDF
		case ".docx":
			return mimeDOCX
		}
		return clean
	}

	if clean == "application/zip" {
		if isDOCXArchive(data) || ext == ".docx" {
			return mimeDOCX
		}
	}
	return clean
}

// isDOCXArchive reports whether the zip payload carries word/document.xml.
func isDOCXArchive(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			return true
		}
	}
	return false
}
