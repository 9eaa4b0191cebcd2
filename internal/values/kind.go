package values

// Kind is one of the value resource types that can be resolved to a literal value.
type Kind int

const (
	String Kind = iota
	Integer
	Bool
	Color
	Dimen
)

// Kinds lists every kind in load order.
var Kinds = []Kind{String, Integer, Bool, Color, Dimen}

// Type returns the resource type name, which is also the XML element name.
func (k Kind) Type() string {
	switch k {
	case String:
		return "string"
	case Integer:
		return "integer"
	case Bool:
		return "bool"
	case Color:
		return "color"
	case Dimen:
		return "dimen"
	default:
		return ""
	}
}

// FileName returns the values file holding this kind.
func (k Kind) FileName() string {
	return k.Type() + "s.xml"
}

func (k Kind) String() string {
	return k.Type()
}

// KindOf maps a resource type name to its Kind.
func KindOf(resType string) (Kind, bool) {
	for _, k := range Kinds {
		if k.Type() == resType {
			return k, true
		}
	}
	return 0, false
}
