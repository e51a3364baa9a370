// Package schema declares how records are extracted from an HTML document.
//
// A schema binds one resource (document location), one base selector that partitions
// the document into item nodes, a set of typed properties evaluated against each item
// node, and a key property used for lookups.
//
// Declarations are accumulated on a Builder and validated at the call site. A failed
// declaration leaves the builder untouched. Build produces an immutable Definition.
//
// Example Usage:
//
//	b := schema.NewBuilder()
//	_ = b.Resource("http://hbswk.hbs.edu/topics/it.html")
//	_ = b.Base(map[string]string{"css": ".tile-medium"})
//	_ = b.Property("title", map[string]string{"xpath": ".//h4/a/text()"})
//	_ = b.Property(map[string]any{"views": "integer", "xpath": ".//h4/span/text()"})
//	_ = b.Key("title")
//	def, err := b.Build()
package schema
