package htmlpath

import (
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/syntreenet/engine/pkg/engine/syntagm"
)

// ExtractFacts parses r as an HTML document and returns one Breadcrumb
// fact per non-empty text node, each carrying the chain of element tag
// names from the document root down to that text. Mirrors the teacher's
// stripHTML walk (cmd/download-hn/main.go), generalized from "collect
// all text" to "collect one breadcrumb per text node".
func ExtractFacts(r io.Reader) ([]syntagm.Sentence, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	var out []syntagm.Sentence
	var walk func(n *html.Node, trail []syntagm.Syntagm)
	walk = func(n *html.Node, trail []syntagm.Syntagm) {
		switch n.Type {
		case html.ElementNode:
			next := append(append([]syntagm.Syntagm{}, trail...), Token(n.Data))
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c, next)
			}
		case html.TextNode:
			text := strings.TrimSpace(n.Data)
			if text == "" || len(trail) == 0 {
				return
			}
			segs := append(append([]syntagm.Syntagm{}, trail...), Token(text))
			out = append(out, Breadcrumb{path: syntagm.Path{Segments: segs}})
		default:
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c, trail)
			}
		}
	}
	walk(doc, nil)
	return out, nil
}
