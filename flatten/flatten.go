package flatten

import (
	"fmt"
	"strings"

	"github.com/wkalt/tlmdict/dict"
)

/*
flatten resolves a tree of structure definitions into an ordered list of leaf
variable descriptors with absolute byte offsets. The traversal is depth-first
in member declaration order, which is the canonical iteration order every
downstream consumer relies on - in particular the copy table compiler's
adjacency test, which treats two entries as physically adjacent iff they are
neighbors in this order and the second's offset equals the first's end.

Runs of consecutive bit-field members that share a declared primitive type are
packed into one storage unit. A new unit is only consumed when the accumulated
bit usage would exceed the unit's bit width. Entries packed into one unit
share a byte offset and size and carry the same storage unit id, so consumers
can distinguish deliberate sharing from coincidentally equal offsets.
*/

////////////////////////////////////////////////////////////////////////////////

// PathSegment is one step of a fully-qualified variable path: the structure
// definition being traversed and the member taken within it. Index is the
// array element index, or -1 for scalar members.
type PathSegment struct {
	Structure string
	Member    string
	Index     int
}

func (s PathSegment) String() string {
	if s.Index >= 0 {
		return fmt.Sprintf("%s[%d]", s.Member, s.Index)
	}
	return s.Member
}

// VariableEntry describes one leaf variable: a primitive-typed member, array
// element, or bit-field, with its resolved position within the root
// structure.
type VariableEntry struct {
	Path        []PathSegment
	Type        dict.Primitive
	BitLength   int
	ByteOffset  int
	ByteSize    int
	StorageUnit int
	Description string
	Units       string
	Enumeration string
}

// Name returns the dotted path of the variable below the root structure,
// e.g. "hdr.flags" or "temps[2]".
func (e VariableEntry) Name() string {
	parts := make([]string, len(e.Path))
	for i, seg := range e.Path {
		parts[i] = seg.String()
	}
	return strings.Join(parts, ".")
}

// Root returns the name of the root structure the entry was flattened from.
func (e VariableEntry) Root() string {
	if len(e.Path) == 0 {
		return ""
	}
	return e.Path[0].Structure
}

// Flatten walks the named root structure and returns one entry per leaf
// variable in declaration order. It fails with dict.UnresolvedTypeError if
// the root or any member type is unknown, and with dict.CyclicStructureError
// if expansion revisits a structure already on the expansion stack.
func Flatten(cat *dict.Catalog, root string) ([]VariableEntry, error) {
	def, ok := cat.Structure(root)
	if !ok {
		return nil, dict.UnresolvedTypeError{TypeName: root}
	}
	w := &walker{cat: cat}
	if err := w.structure(def, nil); err != nil {
		return nil, err
	}
	return w.entries, nil
}

// Size returns the total byte size of the named structure, i.e. the cursor
// position after flattening it.
func Size(cat *dict.Catalog, root string) (int, error) {
	entries, err := Flatten(cat, root)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, nil
	}
	last := entries[len(entries)-1]
	return last.ByteOffset + last.ByteSize, nil
}

type walker struct {
	cat     *dict.Catalog
	entries []VariableEntry
	cursor  int
	units   int
	stack   []string

	// Active bit-field run state. runType is empty when no run is open.
	runType   string
	runOffset int
	runBits   int
	runUnit   int
}

func (w *walker) structure(def *dict.Structure, path []PathSegment) error {
	for _, name := range w.stack {
		if name == def.Name {
			return dict.CyclicStructureError{Path: append(append([]string{}, w.stack...), def.Name)}
		}
	}
	w.stack = append(w.stack, def.Name)
	defer func() { w.stack = w.stack[:len(w.stack)-1] }()

	// Bit-field runs never span structure boundaries.
	w.closeRun()
	defer w.closeRun()

	for _, m := range def.Members {
		if err := w.member(def, m, path); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) member(def *dict.Structure, m dict.MemberSpec, path []PathSegment) error {
	if sub, ok := w.cat.Structure(m.TypeName); ok {
		w.closeRun()
		for _, idx := range indices(m.ArrayDim) {
			seg := PathSegment{Structure: def.Name, Member: m.Name, Index: idx}
			if err := w.structure(sub, append(path, seg)); err != nil {
				return err
			}
		}
		return nil
	}
	prim, ok := w.cat.Primitive(m.TypeName)
	if !ok {
		return dict.UnresolvedTypeError{Structure: def.Name, Member: m.Name, TypeName: m.TypeName}
	}
	for _, idx := range indices(m.ArrayDim) {
		seg := PathSegment{Structure: def.Name, Member: m.Name, Index: idx}
		w.leaf(m, prim, append(path, seg))
	}
	return nil
}

func (w *walker) leaf(m dict.MemberSpec, prim dict.Primitive, path []PathSegment) {
	offset := w.cursor
	unit := 0
	if m.BitLength > 0 {
		if w.runType == prim.Name && w.runBits+m.BitLength <= prim.Size*8 {
			// Packs into the open storage unit.
			offset = w.runOffset
			unit = w.runUnit
			w.runBits += m.BitLength
		} else {
			w.closeRun()
			w.units++
			unit = w.units
			w.runType = prim.Name
			w.runOffset = offset
			w.runBits = m.BitLength
			w.runUnit = unit
			w.cursor += prim.Size
		}
	} else {
		w.closeRun()
		w.units++
		unit = w.units
		w.cursor += prim.Size
	}
	w.entries = append(w.entries, VariableEntry{
		Path:        append([]PathSegment{}, path...),
		Type:        prim,
		BitLength:   m.BitLength,
		ByteOffset:  offset,
		ByteSize:    prim.Size,
		StorageUnit: unit,
		Description: m.Description,
		Units:       m.Units,
		Enumeration: m.Enumeration,
	})
}

func (w *walker) closeRun() {
	w.runType = ""
	w.runBits = 0
}

// indices returns the element indices a member expands to: a single -1 for
// scalars, or 0..dim-1 for arrays.
func indices(dim int) []int {
	if dim == 0 {
		return []int{-1}
	}
	out := make([]int, dim)
	for i := range out {
		out[i] = i
	}
	return out
}
