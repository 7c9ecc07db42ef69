package insight

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	numberedHeadingRe = regexp.MustCompile(`^(\d+)\.\s+\*\*(.+?)\*\*:?\s*`)
	boldRe            = regexp.MustCompile(`\*\*(.+?)\*\*`)
)

// RenderHTML converts the model's lightly-markdown-formatted prose into
// HTML: numbered **bold** sections become headings, dashed lines become
// list items, everything else becomes paragraphs.
func RenderHTML(text string) string {
	var out strings.Builder
	var paragraph []string
	inList := false

	flushParagraph := func() {
		if len(paragraph) > 0 {
			out.WriteString(fmt.Sprintf("<p>%s</p>", renderInline(strings.Join(paragraph, " "))))
			paragraph = nil
		}
	}
	closeList := func() {
		if inList {
			out.WriteString("</ul>")
			inList = false
		}
	}

	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)

		if line == "" {
			flushParagraph()
			closeList()
			continue
		}

		if m := numberedHeadingRe.FindStringSubmatch(line); m != nil {
			flushParagraph()
			closeList()
			out.WriteString(fmt.Sprintf("<h4>%s. %s</h4>", m[1], m[2]))
			if rest := strings.TrimSpace(line[len(m[0]):]); rest != "" {
				paragraph = append(paragraph, rest)
			}
			continue
		}

		if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "•") {
			flushParagraph()
			if !inList {
				out.WriteString("<ul>")
				inList = true
			}
			item := strings.TrimSpace(strings.TrimLeft(line, "-•"))
			out.WriteString(fmt.Sprintf("<li>%s</li>", renderInline(item)))
			continue
		}

		closeList()
		paragraph = append(paragraph, line)
	}
	flushParagraph()
	closeList()

	if out.Len() == 0 {
		return "<p>No analysis available.</p>"
	}
	return out.String()
}

func renderInline(s string) string {
	return boldRe.ReplaceAllString(s, "<strong>$1</strong>")
}
