package webui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Placement directives understood by the frontend injector.
const (
	MoveToStart = "x-move-to-start"
	MoveToEnd   = "x-move-to-end"
	MoveTo      = "x-move-to"
	MoveBefore  = "x-move-before"
	MoveAfter   = "x-move-after"

	componentAttr = "x-data"
)

var placementDirectives = []string{MoveToStart, MoveToEnd, MoveTo, MoveBefore, MoveAfter}

// targetRequired lists directives whose value is a selector.
var targetRequired = map[string]bool{MoveTo: true, MoveBefore: true, MoveAfter: true}

// CheckHTMLFile reads path and checks it with CheckHTML.
func CheckHTMLFile(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return []string{fmt.Sprintf("unreadable: %v", err)}
	}
	defer f.Close()
	return CheckHTML(f)
}

// CheckHTML validates an HTML fragment against the injection contract: a
// single root element carrying x-data, with exactly one placement directive
// on that root. It returns one warning per violation.
func CheckHTML(r io.Reader) []string {
	parent := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(r, parent)
	if err != nil {
		return []string{fmt.Sprintf("unparsable HTML: %v", err)}
	}

	var warnings []string
	var roots []*html.Node
	for _, n := range nodes {
		switch n.Type {
		case html.ElementNode:
			roots = append(roots, n)
		case html.TextNode:
			if strings.TrimSpace(n.Data) != "" {
				warnings = append(warnings, "text outside the root element")
			}
		}
	}

	if len(roots) != 1 {
		return append(warnings, fmt.Sprintf("expected exactly one root element, found %d", len(roots)))
	}
	root := roots[0]

	if _, ok := attr(root, componentAttr); !ok {
		warnings = append(warnings, fmt.Sprintf("root <%s> is missing %s", root.Data, componentAttr))
	}

	var found []string
	for _, d := range placementDirectives {
		value, ok := attr(root, d)
		if !ok {
			continue
		}
		found = append(found, d)
		if targetRequired[d] && strings.TrimSpace(value) == "" {
			warnings = append(warnings, fmt.Sprintf("%s requires a target selector", d))
		}
	}
	switch len(found) {
	case 0:
		warnings = append(warnings, "root has no placement directive")
	case 1:
	default:
		warnings = append(warnings, fmt.Sprintf("root has %d placement directives (%s), expected one", len(found), strings.Join(found, ", ")))
	}

	return warnings
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
