package schema

import "sync"

// Builder accumulates schema declarations.
//
// Every declaration validates its input before touching the builder, so a failed call
// leaves earlier declarations intact. Re-declaring a property overwrites it.
type Builder struct {
	mu sync.Mutex

	resource    string
	hasResource bool
	base        *Selector
	properties  map[string]PropertyDef
	order       []string
	key         string
	hasKey      bool

	sealed bool
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		properties: make(map[string]PropertyDef),
	}
}

// Resource declares the document location. Any string is accepted, including "".
func (b *Builder) Resource(value any) error {
	location, ok := value.(string)
	if !ok {
		return ErrResourceDefinition
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sealed {
		return ErrSealed
	}

	b.resource = location
	b.hasResource = true
	return nil
}

// Base declares the selector that partitions the document into item nodes.
func (b *Builder) Base(selector any) error {
	sel, ok := ParseSelector(selector)
	if !ok {
		return ErrBaseDefinition
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sealed {
		return ErrSealed
	}

	b.base = &sel
	return nil
}

// Property declares a named property. Two call shapes are accepted:
//
//	b.Property(map[string]any{"views": "integer", "xpath": ".//span/text()"})
//	b.Property("title", map[string]string{"css": "h4 a"})
//
// The second shape defaults the type to string.
func (b *Builder) Property(args ...any) error {
	def, err := parseProperty(args)
	if err != nil {
		return err
	}
	return b.define(def)
}

// Prop declares a property from already typed values.
func (b *Builder) Prop(name string, typ Type, selector Selector) error {
	if !typ.Valid() || !selector.Kind.Valid() {
		return ErrPropertyDefinition
	}
	return b.define(PropertyDef{Name: name, Type: typ, Selector: selector})
}

func (b *Builder) define(def PropertyDef) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sealed {
		return ErrSealed
	}

	if _, exists := b.properties[def.Name]; !exists {
		b.order = append(b.order, def.Name)
	}
	b.properties[def.Name] = def
	return nil
}

// Key declares the property used by lookups. It must name a declared property.
func (b *Builder) Key(name any) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	key, ok := name.(string)
	if !ok {
		return ErrKeyDefinition
	}
	if _, declared := b.properties[key]; !declared {
		return ErrKeyDefinition
	}
	if b.sealed {
		return ErrSealed
	}

	b.key = key
	b.hasKey = true
	return nil
}

// Valid reports whether resource, base and key have all been declared.
func (b *Builder) Valid() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.valid()
}

func (b *Builder) valid() bool {
	return b.hasResource && b.base != nil && b.hasKey
}

// Build returns an immutable snapshot of the declarations.
func (b *Builder) Build() (*Definition, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.valid() {
		return nil, ErrConfiguration
	}

	props := make(map[string]PropertyDef, len(b.properties))
	for name, def := range b.properties {
		props[name] = def
	}
	order := make([]string, len(b.order))
	copy(order, b.order)

	return &Definition{
		resource:   b.resource,
		base:       *b.base,
		properties: props,
		order:      order,
		key:        b.key,
	}, nil
}

// Seal rejects all further declarations with ErrSealed.
func (b *Builder) Seal() {
	b.mu.Lock()
	b.sealed = true
	b.mu.Unlock()
}

// Sealed reports whether the builder still accepts declarations.
func (b *Builder) Sealed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sealed
}

// parseProperty validates both Property call shapes.
func parseProperty(args []any) (PropertyDef, error) {
	var (
		name     any
		typ      any
		selector any
	)

	switch len(args) {
	case 1:
		info, sel, ok := splitDescriptor(args[0])
		if !ok || len(info) != 1 {
			return PropertyDef{}, ErrPropertyDefinition
		}
		for k, v := range info {
			name, typ = k, v
		}
		selector = sel
	case 2:
		name, typ, selector = args[0], TypeString, args[1]
	default:
		return PropertyDef{}, ErrPropertyDefinition
	}

	sel, ok := ParseSelector(selector)
	if !ok {
		return PropertyDef{}, ErrPropertyDefinition
	}
	propName, ok := name.(string)
	if !ok {
		return PropertyDef{}, ErrPropertyDefinition
	}
	propType, ok := ParseType(typ)
	if !ok {
		return PropertyDef{}, ErrPropertyDefinition
	}

	return PropertyDef{Name: propName, Type: propType, Selector: sel}, nil
}

// splitDescriptor separates selector entries from the remaining entries of a mapping.
func splitDescriptor(v any) (info map[any]any, selector map[any]any, ok bool) {
	info = make(map[any]any)
	selector = make(map[any]any)

	put := func(k, val any) {
		if isSelectorKey(k) {
			selector[k] = val
		} else {
			info[k] = val
		}
	}

	switch d := v.(type) {
	case map[string]any:
		for k, val := range d {
			put(k, val)
		}
	case map[string]string:
		for k, val := range d {
			put(k, val)
		}
	case map[any]any:
		for k, val := range d {
			put(k, val)
		}
	default:
		return nil, nil, false
	}
	return info, selector, true
}
