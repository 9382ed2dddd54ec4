package xsd

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// Markdown converts the HTML fragments found in schema documentation into
// markdown. Runs of whitespace collapse to one space, <br> becomes a hard
// line break and inline emphasis and code map to their markdown markers.
// The result is trimmed and NFC normalized.
func Markdown(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))
	w := &mdWriter{lineStart: true}
	var hrefs []string

	for {
		switch z.Next() {
		case html.ErrorToken:
			return norm.NFC.String(strings.TrimSpace(w.b.String()))
		case html.TextToken:
			w.text(string(z.Text()))
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			switch string(name) {
			case "b", "strong":
				w.open("**")
			case "i", "em":
				w.open("*")
			case "code", "tt":
				w.open("`")
			case "br":
				w.lineBreak()
			case "p", "div", "ul", "ol":
				w.paragraph()
			case "li":
				w.listItem()
			case "a":
				href := ""
				for hasAttr {
					var key, val []byte
					key, val, hasAttr = z.TagAttr()
					if string(key) == "href" {
						href = string(val)
					}
				}
				hrefs = append(hrefs, href)
				if href != "" {
					w.open("[")
				}
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "b", "strong":
				w.close("**")
			case "i", "em":
				w.close("*")
			case "code", "tt":
				w.close("`")
			case "p", "div", "ul", "ol":
				w.paragraph()
			case "a":
				if len(hrefs) == 0 {
					continue
				}
				href := hrefs[len(hrefs)-1]
				hrefs = hrefs[:len(hrefs)-1]
				if href != "" {
					w.close("](" + href + ")")
				}
			}
		}
	}
}

type mdWriter struct {
	b         strings.Builder
	pending   bool // whitespace seen but not written yet
	lineStart bool
}

func (w *mdWriter) text(s string) {
	for _, r := range s {
		if unicode.IsSpace(r) {
			w.pending = true
			continue
		}
		w.flush()
		w.b.WriteRune(r)
		w.lineStart = false
	}
}

func (w *mdWriter) flush() {
	if w.pending && !w.lineStart && w.b.Len() > 0 {
		w.b.WriteByte(' ')
	}
	w.pending = false
}

// open writes a marker that attaches to the following text.
func (w *mdWriter) open(marker string) {
	w.flush()
	w.b.WriteString(marker)
	w.lineStart = false
}

// close writes a marker that attaches to the preceding text; pending
// whitespace moves after it.
func (w *mdWriter) close(marker string) {
	w.b.WriteString(marker)
	w.lineStart = false
}

func (w *mdWriter) lineBreak() {
	w.b.WriteString("  \n")
	w.pending = false
	w.lineStart = true
}

func (w *mdWriter) paragraph() {
	w.pending = false
	if w.b.Len() == 0 || strings.HasSuffix(w.b.String(), "\n\n") {
		w.lineStart = true
		return
	}
	if !strings.HasSuffix(w.b.String(), "\n") {
		w.b.WriteByte('\n')
	}
	w.b.WriteByte('\n')
	w.lineStart = true
}

func (w *mdWriter) listItem() {
	w.pending = false
	if w.b.Len() > 0 && !w.lineStart {
		w.b.WriteByte('\n')
	}
	w.b.WriteString("- ")
	w.lineStart = true
}
