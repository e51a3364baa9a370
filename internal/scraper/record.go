package scraper

import (
	"errors"
	"fmt"

	"github.com/GriffinCanCode/webschema/internal/document"
	"github.com/GriffinCanCode/webschema/internal/schema"
	"golang.org/x/net/html"
)

// ErrPropertyType is returned by typed accessors when the property is declared with
// a different type.
var ErrPropertyType = errors.New("property has a different type")

// Record is one item node of a resolved document. Records are created by a Scraper
// and never change.
type Record struct {
	node *html.Node
	def  *schema.Definition
}

func newRecord(def *schema.Definition, node *html.Node) *Record {
	return &Record{node: node, def: def}
}

// Node returns the item node the record wraps.
func (r *Record) Node() *html.Node {
	return r.node
}

// Get resolves a declared property. The result is a string, int64, float64 or
// *document.Result depending on the property type. Undeclared names fail with
// *schema.UnknownPropertyError.
func (r *Record) Get(name string) (any, error) {
	prop, ok := r.def.Property(name)
	if !ok {
		return nil, &schema.UnknownPropertyError{Name: name}
	}

	res, err := query(r.node, prop.Selector)
	if err != nil {
		return nil, fmt.Errorf("property %q: %w", name, err)
	}
	return coerce(prop.Type, res), nil
}

// GetString resolves a string property.
func (r *Record) GetString(name string) (string, error) {
	v, err := r.typed(name, schema.TypeString)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// GetInt resolves an integer property.
func (r *Record) GetInt(name string) (int64, error) {
	v, err := r.typed(name, schema.TypeInteger)
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

// GetFloat resolves a float property.
func (r *Record) GetFloat(name string) (float64, error) {
	v, err := r.typed(name, schema.TypeFloat)
	if err != nil {
		return 0, err
	}
	return v.(float64), nil
}

// GetNode resolves a node property.
func (r *Record) GetNode(name string) (*document.Result, error) {
	v, err := r.typed(name, schema.TypeNode)
	if err != nil {
		return nil, err
	}
	return v.(*document.Result), nil
}

func (r *Record) typed(name string, want schema.Type) (any, error) {
	prop, ok := r.def.Property(name)
	if !ok {
		return nil, &schema.UnknownPropertyError{Name: name}
	}
	if prop.Type != want {
		return nil, fmt.Errorf("%w: %q is %s, not %s", ErrPropertyType, name, prop.Type, want)
	}
	return r.Get(name)
}

// Values resolves every declared property.
func (r *Record) Values() (map[string]any, error) {
	props := r.def.Properties()
	values := make(map[string]any, len(props))
	for _, prop := range props {
		v, err := r.Get(prop.Name)
		if err != nil {
			return nil, err
		}
		values[prop.Name] = v
	}
	return values, nil
}

// QueryCSS evaluates an undeclared CSS selector against the record's node.
func (r *Record) QueryCSS(expr string) (*document.Result, error) {
	return document.QueryCSS(r.node, expr)
}

// QueryXPath evaluates an undeclared XPath expression against the record's node.
func (r *Record) QueryXPath(expr string) (*document.Result, error) {
	return document.QueryXPath(r.node, expr)
}

// query dispatches a selector to its evaluator.
func query(n *html.Node, sel schema.Selector) (*document.Result, error) {
	switch sel.Kind {
	case schema.KindCSS:
		return document.QueryCSS(n, sel.Expr)
	case schema.KindXPath:
		return document.QueryXPath(n, sel.Expr)
	default:
		return nil, fmt.Errorf("unsupported selector kind %q", sel.Kind)
	}
}
