package document

import (
	"math"
	"strconv"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

var sanitizer = bluemonday.UGCPolicy()

// Result is the outcome of a selector evaluation: either a node-set or, for XPath
// expressions such as count(...), a scalar.
type Result struct {
	nodes    []*html.Node
	scalar   any
	isScalar bool
}

// NewResult wraps nodes as a node-set result.
func NewResult(nodes ...*html.Node) *Result {
	return &Result{nodes: nodes}
}

// Len returns the number of nodes; scalars count as one.
func (r *Result) Len() int {
	if r.isScalar {
		return 1
	}
	return len(r.nodes)
}

// Nodes returns the matched nodes.
func (r *Result) Nodes() []*html.Node {
	return r.nodes
}

// First returns the first matched node, or nil.
func (r *Result) First() *html.Node {
	if len(r.nodes) == 0 {
		return nil
	}
	return r.nodes[0]
}

// Scalar returns the scalar value of an XPath expression that does not select nodes.
func (r *Result) Scalar() (any, bool) {
	return r.scalar, r.isScalar
}

// Text concatenates the text content of every node in the set, untrimmed.
func (r *Result) Text() string {
	if r.isScalar {
		return formatScalar(r.scalar)
	}

	var buf strings.Builder
	for _, n := range r.nodes {
		writeText(&buf, n)
	}
	return buf.String()
}

// HTML renders the outer HTML of every node in the set.
func (r *Result) HTML() string {
	if r.isScalar {
		return html.EscapeString(formatScalar(r.scalar))
	}

	var buf strings.Builder
	for _, n := range r.nodes {
		buf.WriteString(htmlquery.OutputHTML(n, true))
	}
	return buf.String()
}

// SafeHTML renders HTML with scripts, handlers and unsafe attributes removed.
func (r *Result) SafeHTML() string {
	return sanitizer.Sanitize(r.HTML())
}

// Equal reports whether two results select the same nodes, or hold the same scalar.
func (r *Result) Equal(other *Result) bool {
	if r == nil || other == nil {
		return r == other
	}
	if r.isScalar || other.isScalar {
		return r.isScalar == other.isScalar && r.scalar == other.scalar
	}
	if len(r.nodes) != len(other.nodes) {
		return false
	}
	for i := range r.nodes {
		if r.nodes[i] != other.nodes[i] {
			return false
		}
	}
	return true
}

func writeText(buf *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		buf.WriteString(n.Data)
		return
	case html.CommentNode:
		// only a selected comment contributes its text, nested ones are skipped below
		buf.WriteString(n.Data)
		return
	}

	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.TextNode {
			buf.WriteString(c.Data)
		}
		for child := c.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
}

func formatScalar(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	case float64:
		if math.IsNaN(s) {
			return "NaN"
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return ""
	}
}
