package schema

import "fmt"

// Kind is the selector language of an expression.
type Kind string

const (
	KindCSS   Kind = "css"
	KindXPath Kind = "xpath"
)

// Valid reports whether k is a supported selector language.
func (k Kind) Valid() bool {
	return k == KindCSS || k == KindXPath
}

// Selector is a single CSS or XPath expression.
type Selector struct {
	Kind Kind
	Expr string
}

// CSS returns a CSS selector.
func CSS(expr string) Selector {
	return Selector{Kind: KindCSS, Expr: expr}
}

// XPath returns an XPath selector.
func XPath(expr string) Selector {
	return Selector{Kind: KindXPath, Expr: expr}
}

func (s Selector) String() string {
	return fmt.Sprintf("%s(%q)", s.Kind, s.Expr)
}

// ParseSelector converts a selector descriptor into a Selector.
//
// A descriptor is either a Selector or a mapping with exactly one entry whose key is
// "css" or "xpath" and whose value is a string. Mappings may be map[string]string,
// map[string]any or map[any]any, which covers the shapes produced by YAML and TOML decoders.
func ParseSelector(v any) (Selector, bool) {
	switch d := v.(type) {
	case Selector:
		return d, d.Kind.Valid()
	case map[string]string:
		if len(d) != 1 {
			return Selector{}, false
		}
		for k, expr := range d {
			return selectorEntry(k, expr)
		}
	case map[string]any:
		if len(d) != 1 {
			return Selector{}, false
		}
		for k, expr := range d {
			return selectorEntry(k, expr)
		}
	case map[any]any:
		if len(d) != 1 {
			return Selector{}, false
		}
		for k, expr := range d {
			return selectorEntry(k, expr)
		}
	}
	return Selector{}, false
}

func selectorEntry(key, value any) (Selector, bool) {
	k, ok := key.(string)
	if !ok || !Kind(k).Valid() {
		return Selector{}, false
	}
	expr, ok := value.(string)
	if !ok {
		return Selector{}, false
	}
	return Selector{Kind: Kind(k), Expr: expr}, true
}

// isSelectorKey reports whether a descriptor key names a selector language.
func isSelectorKey(key any) bool {
	k, ok := key.(string)
	return ok && Kind(k).Valid()
}
