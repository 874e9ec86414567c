package message

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// BodyText returns the visible text of the message body. Non-HTML bodies
// come back verbatim; HTML bodies are parsed and reduced to the text content
// of the document body, falling back to the raw string when parsing fails.
func (m *Message) BodyText() string {
	if m.BodyType != BodyTypeHTML {
		return m.Body
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(m.Body))
	if err != nil {
		return m.Body
	}
	return doc.Find("body").Text()
}

// BodySoup returns the parsed HTML document of the body, or nil when the
// body is not HTML.
func (m *Message) BodySoup() *goquery.Document {
	if m.BodyType != BodyTypeHTML {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(m.Body))
	if err != nil {
		return nil
	}
	return doc
}
