package pipeline

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jhillyerd/enmime"
	pdf "github.com/ledongthuc/pdf"
)

// Recognizer turns one input file into mission text. Confidence is on a
// 0-100 scale.
type Recognizer interface {
	Recognize(path string) (text string, confidence float64, err error)
}

// FileRecognizer reads text layers that need no OCR: plain text, PDF,
// saved HTML pages and .eml messages.
type FileRecognizer struct{}

func (FileRecognizer) Recognize(path string) (string, float64, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return "", 0, err
	}

	var text string
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".txt", ".text":
		text = string(blob)
	case ".pdf":
		text, err = pdfText(blob)
	case ".html", ".htm":
		text, err = htmlText(string(blob))
	case ".eml":
		var msg MessageText
		msg, err = ReadMessage(blob)
		text = msg.Text()
	default:
		return "", 0, fmt.Errorf("unsupported input type: %s", ext)
	}
	if err != nil {
		return "", 0, err
	}

	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if text == "" {
		return "", 0, nil
	}
	return text, 100, nil
}

type MessagePart struct {
	Source string
	Text   string
}

type MessageText struct {
	Subject     string
	Parts       []MessagePart
	Attachments []string
}

func (m MessageText) Text() string {
	texts := make([]string, 0, len(m.Parts))
	for _, p := range m.Parts {
		texts = append(texts, p.Text)
	}
	return strings.Join(texts, "\n\n")
}

// ReadMessage collects the readable parts of a raw mail message: the plain
// body (or the HTML body when there is none) then text and PDF
// attachments, each as its own part.
func ReadMessage(raw []byte) (MessageText, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return MessageText{}, err
	}

	msg := MessageText{Subject: env.GetHeader("Subject")}
	switch {
	case strings.TrimSpace(env.Text) != "":
		msg.Parts = append(msg.Parts, MessagePart{Source: "body", Text: env.Text})
	case env.HTML != "":
		if text, err := htmlText(env.HTML); err == nil {
			msg.Parts = append(msg.Parts, MessagePart{Source: "body", Text: text})
		}
	}

	for _, att := range env.Attachments {
		filename := strings.TrimSpace(att.FileName)
		if filename == "" {
			filename = "attachment"
		}
		msg.Attachments = append(msg.Attachments, filename)

		lower := strings.ToLower(filename)
		switch {
		case strings.HasSuffix(lower, ".txt") || att.ContentType == "text/plain":
			msg.Parts = append(msg.Parts, MessagePart{Source: filename, Text: string(att.Content)})
		case strings.HasSuffix(lower, ".pdf"):
			if text, err := pdfText(att.Content); err == nil {
				msg.Parts = append(msg.Parts, MessagePart{Source: filename, Text: text})
			}
		}
	}

	return msg, nil
}

func pdfText(content []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// htmlText keeps block boundaries as line breaks so the line-break repair
// and the Deliver/Collect patterns see the same shape as a screenshot.
func htmlText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	doc.Find("script,style").Remove()

	lines := []string{}
	doc.Find("p,li,h1,h2,h3,h4,td,div").Each(func(_ int, s *goquery.Selection) {
		if s.Children().Filter("p,li,div,table").Length() > 0 {
			return
		}
		if line := strings.TrimSpace(s.Text()); line != "" {
			lines = append(lines, line)
		}
	})
	if len(lines) == 0 {
		return strings.TrimSpace(doc.Find("body").Text()), nil
	}
	return strings.Join(lines, "\n"), nil
}
