package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"path/filepath"
	"strings"

	"AudioFolio/pkg/errors"

	"github.com/ledongthuc/pdf"
)

// Text converts an uploaded document into plain text. The strategy is
// chosen by filename extension; anything unrecognized (including epub)
// fails with UnsupportedFormat. Pure function over the input bytes.
func Text(data []byte, filename string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	switch ext {
	case "txt":
		return checkNonEmpty(string(data))
	case "docx":
		text, err := docxText(data)
		if err != nil {
			return "", err
		}
		return checkNonEmpty(text)
	case "pdf":
		text, err := pdfText(data)
		if err != nil {
			return "", err
		}
		return checkNonEmpty(text)
	default:
		return "", errors.WithCodef(errors.CodeUnsupportedFormat, "unsupported document format: .%s", ext)
	}
}

func checkNonEmpty(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", errors.WithCode(errors.CodeExtractionError, "document contains no extractable text")
	}
	return text, nil
}

// docxText unzips the archive and strips the main document part down to
// paragraph text. Runs are joined with no separator inside a paragraph,
// paragraphs are separated by a blank line.
func docxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.Wrap(errors.CodeExtractionError, err, "docx is not a valid archive")
	}

	var docPart *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docPart = f
			break
		}
	}
	if docPart == nil {
		return "", errors.WithCode(errors.CodeExtractionError, "docx is missing word/document.xml")
	}

	rc, err := docPart.Open()
	if err != nil {
		return "", errors.Wrap(errors.CodeExtractionError, err, "open document part")
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var paragraphs []string
	var current strings.Builder
	inText := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", errors.Wrap(errors.CodeExtractionError, err, "malformed document xml")
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if s := current.String(); strings.TrimSpace(s) != "" {
					paragraphs = append(paragraphs, s)
				}
				current.Reset()
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}
	if s := current.String(); strings.TrimSpace(s) != "" {
		paragraphs = append(paragraphs, s)
	}
	return strings.Join(paragraphs, "\n\n"), nil
}

// pdfText reads the text layer page by page. Text items on a page are
// joined with a space, pages with a blank line.
func pdfText(data []byte) (text string, err error) {
	// the pdf reader panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			err = errors.WithCodef(errors.CodeExtractionError, "malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.Wrap(errors.CodeExtractionError, err, "malformed pdf")
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		var items []string
		for _, item := range page.Content().Text {
			if item.S != "" {
				items = append(items, item.S)
			}
		}
		if len(items) > 0 {
			pages = append(pages, strings.Join(items, " "))
		}
	}
	return strings.Join(pages, "\n\n"), nil
}
