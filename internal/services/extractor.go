package services

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractError reports a failed extraction together with the document format
// ("PDF" or "DOCX"). The caller decides whether to abort or degrade to a
// placeholder.
type ExtractError struct {
	Format string
	Err    error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("failed to extract %s text: %v", e.Format, e.Err)
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}

type TextExtractorService interface {
	Extract(filePath string) (string, error)
}

type textExtractorService struct{}

func NewTextExtractorService() TextExtractorService {
	return &textExtractorService{}
}

// Extract returns the plain text of a PDF or DOCX file, dispatching on the
// lowercased filename suffix. Any other suffix yields a single space. A
// document that parses but contains no text also yields a single space, so the
// result is always embeddable.
func (t *textExtractorService) Extract(filePath string) (string, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".pdf":
		text, err := extractPDF(filePath)
		if err != nil {
			return "", &ExtractError{Format: "PDF", Err: err}
		}
		return text, nil
	case ".docx":
		text, err := extractDOCX(filePath)
		if err != nil {
			return "", &ExtractError{Format: "DOCX", Err: err}
		}
		return text, nil
	default:
		return " ", nil
	}
}

func extractPDF(filePath string) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var pages []string
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages, keep the rest
			continue
		}

		if strings.TrimSpace(text) != "" {
			pages = append(pages, text)
		}
	}

	if len(pages) == 0 {
		return " ", nil
	}

	return strings.Join(pages, "\n"), nil
}

// extractDOCX reads word/document.xml out of the docx zip container and walks
// its tokens: <w:t> runs carry the text, </w:p> closes a paragraph. Table cell
// text is embedded in the same stream, so it comes out in document order.
func extractDOCX(filePath string) (string, error) {
	zr, err := zip.OpenReader(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX: %w", err)
	}
	defer zr.Close()

	var docXML io.ReadCloser
	for _, file := range zr.File {
		if file.Name == "word/document.xml" {
			docXML, err = file.Open()
			if err != nil {
				return "", fmt.Errorf("failed to open document.xml: %w", err)
			}
			break
		}
	}
	if docXML == nil {
		return "", fmt.Errorf("document.xml not found in archive")
	}
	defer docXML.Close()

	var (
		builder strings.Builder
		inText  bool
	)

	decoder := xml.NewDecoder(docXML)
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse document.xml: %w", err)
		}

		switch el := token.(type) {
		case xml.StartElement:
			if el.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inText = false
			case "p":
				builder.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				builder.Write(el)
			}
		}
	}

	text := strings.TrimSpace(builder.String())
	if text == "" {
		return " ", nil
	}

	return text, nil
}
