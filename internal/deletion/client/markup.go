package client

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var ErrTokenNotFound = errors.New("fkey token not found in page")

// The site options module embeds a JSON object carrying the fkey.
const optionsModuleName = "Shared/options.mod"

const fkeyMarker = `"fkey":"`

// ExtractDeletionToken finds the fkey inside the page markup. The options
// script is tried first, then every other script; within a script the value
// is located by plain substring search since the payload is not pure JSON.
func ExtractDeletionToken(markup string) (string, error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}

	var preferred, others []string
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode || n.DataAtom != atom.Script {
			return
		}
		if attr(n, "data-module-name") == optionsModuleName {
			preferred = append(preferred, nodeText(n))
		} else {
			others = append(others, nodeText(n))
		}
	})

	for _, text := range append(preferred, others...) {
		if token, ok := findFkey(text); ok {
			return token, nil
		}
	}
	return "", ErrTokenNotFound
}

func findFkey(text string) (string, bool) {
	_, rest, found := strings.Cut(text, fkeyMarker)
	if !found {
		return "", false
	}
	token, _, found := strings.Cut(rest, `"`)
	if !found || token == "" {
		return "", false
	}
	return token, true
}

// IsLoggedInPage looks for the <li role="none"> entry only rendered for signed-in users.
func IsLoggedInPage(markup string) (bool, error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return false, fmt.Errorf("parse page: %w", err)
	}
	found := false
	walk(doc, func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Li && attr(n, "role") == "none" {
			found = true
		}
	})
	return found, nil
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}
