package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// SanitizeMotionText reduces HTML-pasted motion text to its visible text.
// Plain text passes through untouched.
func SanitizeMotionText(text string) string {
	if !looksLikeHTML(text) {
		return text
	}

	doc, err := html.Parse(strings.NewReader(text))
	if err != nil {
		return text
	}

	visible := extractVisibleText(doc)
	if strings.TrimSpace(visible) == "" {
		return text
	}
	return visible
}

func looksLikeHTML(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range []string{"<html", "<body", "<div", "<p>", "<p ", "<br", "<span"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// extractVisibleText extracts text nodes from HTML, skipping scripts/styles
func extractVisibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return strings.TrimSpace(buf.String())
}
