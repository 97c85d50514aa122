package document

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFContent is the flat result of PDF extraction: the full text plus the
// Info-dictionary metadata worth keeping.
type PDFContent struct {
	Text           string
	Title          string
	Author         string
	PublishingYear *int
}

// yearPattern matches a 4-digit year between 1900 and 2099.
var yearPattern = regexp.MustCompile(`(19|20)\d{2}`)

// sectionDelimiter matches a markdown horizontal rule on its own line.
var sectionDelimiter = regexp.MustCompile(`(?m)^---\s*$`)

type TextExtractor struct{}

func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

// ExtractPDF pulls the plain text of every page and the document metadata
// from the Info dictionary. Pages that fail to render are skipped.
func (te *TextExtractor) ExtractPDF(data []byte) (content PDFContent, err error) {
	// The pdf library panics on some malformed files; report those as a
	// normal extraction error.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return PDFContent{}, fmt.Errorf("failed to create PDF reader: %w", err)
	}

	var fullText strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		fullText.WriteString(text)
		fullText.WriteString("\n")
	}

	content = PDFContent{Text: fullText.String()}

	info := reader.Trailer().Key("Info")
	if !info.IsNull() {
		content.Title = strings.TrimSpace(info.Key("Title").Text())
		content.Author = strings.TrimSpace(info.Key("Author").Text())
		content.PublishingYear = extractPublishingYear(
			info.Key("CreationDate").Text(),
			info.Key("ModDate").Text(),
		)
	}

	return content, nil
}

// SplitMarkdownSections splits markdown content on horizontal-rule
// delimiters, dropping empty sections.
func SplitMarkdownSections(content string) []string {
	var sections []string
	for _, section := range sectionDelimiter.Split(content, -1) {
		section = strings.TrimSpace(section)
		if section != "" {
			sections = append(sections, section)
		}
	}
	return sections
}

// extractPublishingYear scans candidate metadata values for the first
// 4-digit year.
func extractPublishingYear(candidates ...string) *int {
	for _, value := range candidates {
		if value == "" {
			continue
		}
		match := yearPattern.FindString(value)
		if match == "" {
			continue
		}
		year, err := strconv.Atoi(match)
		if err != nil {
			continue
		}
		return &year
	}
	return nil
}
