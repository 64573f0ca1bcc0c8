package dict

import (
	"fmt"

	"github.com/wkalt/tlmdict/util"
)

/*
dict holds the type catalog: a read-only view of primitive type metadata and
of the structure definitions that compose them. A catalog is loaded once from
the dictionary storage collaborator (sqlite or the text definition format) and
treated as immutable afterward. All validation that can be done without layout
information happens at construction time, in particular rejection of unknown
member types and of structure reference cycles.
*/

////////////////////////////////////////////////////////////////////////////////

// Category is an enumeration of primitive type interpretations.
type Category int

const (
	SignedInt Category = iota + 1
	UnsignedInt
	Float
	Char
	Pointer
	Opaque
)

func (c Category) String() string {
	switch c {
	case SignedInt:
		return "signed"
	case UnsignedInt:
		return "unsigned"
	case Float:
		return "float"
	case Char:
		return "char"
	case Pointer:
		return "pointer"
	case Opaque:
		return "opaque"
	default:
		return "unknown"
	}
}

// MarshalJSON returns the JSON representation of the category.
func (c Category) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`"%s"`, c.String())), nil
}

// ParseCategory maps a category name to its value.
func ParseCategory(s string) (Category, error) {
	switch s {
	case "signed":
		return SignedInt, nil
	case "unsigned":
		return UnsignedInt, nil
	case "float":
		return Float, nil
	case "char":
		return Char, nil
	case "pointer":
		return Pointer, nil
	case "opaque":
		return Opaque, nil
	default:
		return 0, fmt.Errorf("unknown category: %s", s)
	}
}

// Primitive describes one base data type: its name, storage size in bytes,
// and interpretation.
type Primitive struct {
	Name     string   `json:"name"`
	Size     int      `json:"size"`
	Category Category `json:"category"`
}

// Kind discriminates the structure definition variants. The legacy tool
// collapsed telemetry and command tables into one generic name; here the
// variant is an explicit tag on the definition.
type Kind int

const (
	Telemetry Kind = iota + 1
	Command
)

func (k Kind) String() string {
	switch k {
	case Telemetry:
		return "telemetry"
	case Command:
		return "command"
	default:
		return "unknown"
	}
}

// MemberSpec is one member row of a structure definition. ArrayDim of zero
// means a scalar; N means a fixed-length array of N elements. BitLength of
// zero means a whole field; a positive value means a bit-field packed into
// the member's declared primitive width.
type MemberSpec struct {
	Name        string `json:"name"`
	TypeName    string `json:"typeName"`
	ArrayDim    int    `json:"arrayDim,omitempty"`
	BitLength   int    `json:"bitLength,omitempty"`
	Description string `json:"description,omitempty"`
	Units       string `json:"units,omitempty"`
	Enumeration string `json:"enumeration,omitempty"`
}

// Structure is a named composite type definition. A structure may be
// instantiated at multiple points in a tree without duplicating the
// definition. MsgIDName carries the message-ID name field value of root
// telemetry structures; it is blank for non-root definitions.
type Structure struct {
	Name      string       `json:"name"`
	Kind      Kind         `json:"kind"`
	MsgIDName string       `json:"msgIDName,omitempty"`
	Members   []MemberSpec `json:"members"`
}

// Catalog is an immutable collection of primitive and structure definitions.
type Catalog struct {
	primitives map[string]Primitive
	structures map[string]*Structure
	order      []string
}

// NewCatalog builds a catalog from the supplied definitions. Every member
// type name must resolve to a primitive or another structure, and the
// structure reference graph must be acyclic; violations are reported with
// the offending name rather than silently dropped.
func NewCatalog(primitives []Primitive, structures []*Structure) (*Catalog, error) {
	c := &Catalog{
		primitives: make(map[string]Primitive, len(primitives)),
		structures: make(map[string]*Structure, len(structures)),
		order:      make([]string, 0, len(structures)),
	}
	for _, p := range primitives {
		if _, ok := c.primitives[p.Name]; ok {
			return nil, DuplicateDefinitionError{p.Name}
		}
		c.primitives[p.Name] = p
	}
	for _, s := range structures {
		if _, ok := c.structures[s.Name]; ok {
			return nil, DuplicateDefinitionError{s.Name}
		}
		if _, ok := c.primitives[s.Name]; ok {
			return nil, DuplicateDefinitionError{s.Name}
		}
		c.structures[s.Name] = s
		c.order = append(c.order, s.Name)
	}
	for _, s := range structures {
		for _, m := range s.Members {
			if !c.IsPrimitive(m.TypeName) && !c.IsStructure(m.TypeName) {
				return nil, UnresolvedTypeError{s.Name, m.Name, m.TypeName}
			}
		}
	}
	if err := c.checkAcyclic(); err != nil {
		return nil, err
	}
	return c, nil
}

// Primitive returns the named primitive definition.
func (c *Catalog) Primitive(name string) (Primitive, bool) {
	p, ok := c.primitives[name]
	return p, ok
}

// Structure returns the named structure definition.
func (c *Catalog) Structure(name string) (*Structure, bool) {
	s, ok := c.structures[name]
	return s, ok
}

// IsPrimitive returns true if name refers to a primitive type.
func (c *Catalog) IsPrimitive(name string) bool {
	_, ok := c.primitives[name]
	return ok
}

// IsStructure returns true if name refers to a structure definition.
func (c *Catalog) IsStructure(name string) bool {
	_, ok := c.structures[name]
	return ok
}

// Structures returns the structure names in load order.
func (c *Catalog) Structures() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Primitives returns the primitive definitions sorted by name.
func (c *Catalog) Primitives() []Primitive {
	out := make([]Primitive, 0, len(c.primitives))
	for _, name := range util.Okeys(c.primitives) {
		out = append(out, c.primitives[name])
	}
	return out
}

// Roots returns the names of structures that no other structure references.
// These are the root telemetry/command tables layouts are computed against.
func (c *Catalog) Roots() []string {
	referenced := make(map[string]bool)
	for _, name := range c.order {
		for _, m := range c.structures[name].Members {
			if c.IsStructure(m.TypeName) {
				referenced[m.TypeName] = true
			}
		}
	}
	roots := []string{}
	for _, name := range c.order {
		if !referenced[name] {
			roots = append(roots, name)
		}
	}
	return roots
}

func (c *Catalog) checkAcyclic() error {
	done := make(map[string]bool)
	var visit func(name string, stack []string) error
	visit = func(name string, stack []string) error {
		if done[name] {
			return nil
		}
		for _, s := range stack {
			if s == name {
				return CyclicStructureError{append(stack, name)}
			}
		}
		stack = append(stack, name)
		for _, m := range c.structures[name].Members {
			if c.IsStructure(m.TypeName) {
				if err := visit(m.TypeName, stack); err != nil {
					return err
				}
			}
		}
		done[name] = true
		return nil
	}
	for _, name := range c.order {
		if err := visit(name, nil); err != nil {
			return err
		}
	}
	return nil
}

// DefaultPrimitives returns the standard flight-software base types.
func DefaultPrimitives() []Primitive {
	return []Primitive{
		{"int8", 1, SignedInt},
		{"int16", 2, SignedInt},
		{"int32", 4, SignedInt},
		{"int64", 8, SignedInt},
		{"uint8", 1, UnsignedInt},
		{"uint16", 2, UnsignedInt},
		{"uint32", 4, UnsignedInt},
		{"uint64", 8, UnsignedInt},
		{"float", 4, Float},
		{"double", 8, Float},
		{"char", 1, Char},
		{"address", 4, Pointer},
	}
}
