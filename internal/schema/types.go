package schema

// Type is the coercion applied to a property's query result.
type Type string

const (
	TypeString  Type = "string"
	TypeInteger Type = "integer"
	TypeFloat   Type = "float"
	TypeNode    Type = "node"
)

// Valid reports whether t is one of the supported coercions.
func (t Type) Valid() bool {
	switch t {
	case TypeString, TypeInteger, TypeFloat, TypeNode:
		return true
	default:
		return false
	}
}

// ParseType converts a type descriptor (a Type or its string name) into a Type.
func ParseType(v any) (Type, bool) {
	var t Type
	switch d := v.(type) {
	case Type:
		t = d
	case string:
		t = Type(d)
	default:
		return "", false
	}
	return t, t.Valid()
}

// PropertyDef is a named, typed extraction rule applied to one item node.
type PropertyDef struct {
	Name     string
	Type     Type
	Selector Selector
}
