package schema

// Definition is an immutable, validated schema.
type Definition struct {
	resource   string
	base       Selector
	properties map[string]PropertyDef
	order      []string
	key        string
}

// Resource returns the document location.
func (d *Definition) Resource() string { return d.resource }

// Base returns the partition selector.
func (d *Definition) Base() Selector { return d.base }

// Key returns the name of the key property.
func (d *Definition) Key() string { return d.key }

// KeyProperty returns the key property definition.
func (d *Definition) KeyProperty() PropertyDef { return d.properties[d.key] }

// Property looks up a declared property.
func (d *Definition) Property(name string) (PropertyDef, bool) {
	def, ok := d.properties[name]
	return def, ok
}

// Properties returns the declared properties in first-declaration order.
func (d *Definition) Properties() []PropertyDef {
	defs := make([]PropertyDef, 0, len(d.order))
	for _, name := range d.order {
		defs = append(defs, d.properties[name])
	}
	return defs
}
