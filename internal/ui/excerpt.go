package ui

import (
	"strings"

	"golang.org/x/net/html"
)

// Excerpt turns a knowledge document into a one-line preview of at most
// maxWords words. HTML markup is stripped so pages read as plain text.
func Excerpt(doc string, maxWords int) string {
	text := doc
	if looksLikeHTML(doc) {
		if node, err := html.Parse(strings.NewReader(doc)); err == nil {
			text = extractText(node)
		}
	}
	return truncateWords(cleanText(text), maxWords)
}

func looksLikeHTML(s string) bool {
	i := strings.Index(s, "<")
	return i >= 0 && strings.Contains(s[i:], ">")
}

// extractText collects text nodes, skipping non-content elements
func extractText(n *html.Node) string {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "nav", "footer", "header", "aside", "head":
			return ""
		}
	}

	var text strings.Builder
	if n.Type == html.TextNode {
		text.WriteString(n.Data)
		text.WriteString(" ")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		text.WriteString(extractText(c))
	}
	return text.String()
}

// cleanText collapses runs of whitespace into single spaces
func cleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// truncateWords truncates text to approximately N words
func truncateWords(text string, maxWords int) string {
	if maxWords <= 0 {
		return text
	}
	words := strings.Fields(text)
	if len(words) <= maxWords {
		return text
	}
	return strings.Join(words[:maxWords], " ") + "..."
}

// truncate shortens s to maxLen runes
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen || maxLen < 4 {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
