package document

import (
	"fmt"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"
)

// compiled selector caches, keyed by expression
var (
	cssCache   sync.Map // string -> goquery.Matcher
	xpathCache sync.Map // string -> *xpathEntry
)

// xpathEntry serializes evaluation, since a compiled expression carries iteration state.
type xpathEntry struct {
	mu   sync.Mutex
	expr *xpath.Expr
}

// QueryCSS returns the descendants of n matching a CSS selector, in document order.
func QueryCSS(n *html.Node, expr string) (*Result, error) {
	m, err := cssMatcher(expr)
	if err != nil {
		return nil, err
	}

	sel := goquery.NewDocumentFromNode(n).FindMatcher(m)
	return &Result{nodes: sel.Nodes}, nil
}

// QueryXPath evaluates an XPath expression with n as the context node. Absolute paths
// ("/", "//") start at the root of the tree n belongs to.
//
// Node-set expressions yield their nodes in document order. Attribute nodes are
// returned as elements holding the attribute value as text. Expressions producing a
// number, string or boolean yield a scalar result.
func QueryXPath(n *html.Node, expr string) (*Result, error) {
	entry, err := xpathExpr(expr)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	switch v := entry.expr.Evaluate(navigatorAt(n)).(type) {
	case *xpath.NodeIterator:
		var nodes []*html.Node
		for v.MoveNext() {
			nav, ok := v.Current().(*htmlquery.NodeNavigator)
			if !ok {
				continue
			}
			nodes = append(nodes, currentNode(nav))
		}
		return &Result{nodes: nodes}, nil
	case float64, string, bool:
		return &Result{scalar: v, isScalar: true}, nil
	default:
		return nil, fmt.Errorf("xpath %q: unsupported result type %T", expr, v)
	}
}

func cssMatcher(expr string) (goquery.Matcher, error) {
	if cached, ok := cssCache.Load(expr); ok {
		return cached.(goquery.Matcher), nil
	}

	compiled, err := cascadia.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("css %q: %w", expr, err)
	}

	var m goquery.Matcher = compiled
	actual, _ := cssCache.LoadOrStore(expr, m)
	return actual.(goquery.Matcher), nil
}

func xpathExpr(expr string) (*xpathEntry, error) {
	if cached, ok := xpathCache.Load(expr); ok {
		return cached.(*xpathEntry), nil
	}

	compiled, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("xpath %q: %w", expr, err)
	}

	actual, _ := xpathCache.LoadOrStore(expr, &xpathEntry{expr: compiled})
	return actual.(*xpathEntry), nil
}

// navigatorAt returns a navigator rooted at the top of n's tree and positioned on n.
func navigatorAt(n *html.Node) *htmlquery.NodeNavigator {
	var path []*html.Node
	top := n
	for top.Parent != nil {
		path = append(path, top)
		top = top.Parent
	}

	nav := htmlquery.CreateXPathNavigator(top)
	for i := len(path) - 1; i >= 0; i-- {
		if !nav.MoveToChild() {
			return htmlquery.CreateXPathNavigator(n)
		}
		for nav.Current() != path[i] {
			if !nav.MoveToNext() {
				return htmlquery.CreateXPathNavigator(n)
			}
		}
	}
	return nav
}

func currentNode(nav *htmlquery.NodeNavigator) *html.Node {
	if nav.NodeType() == xpath.AttributeNode {
		text := &html.Node{Type: html.TextNode, Data: nav.Value()}
		attr := &html.Node{
			Type:       html.ElementNode,
			Data:       nav.LocalName(),
			FirstChild: text,
			LastChild:  text,
		}
		text.Parent = attr
		return attr
	}
	return nav.Current()
}
