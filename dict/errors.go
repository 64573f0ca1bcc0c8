package dict

import (
	"fmt"
	"strings"
)

// CyclicStructureError indicates the structure graph contains a cycle. The
// path lists the structure names on the expansion stack, ending with the
// repeated one.
type CyclicStructureError struct {
	Path []string
}

func (e CyclicStructureError) Error() string {
	return "cyclic structure reference: " + strings.Join(e.Path, " -> ")
}

func (e CyclicStructureError) Is(target error) bool {
	_, ok := target.(CyclicStructureError)
	return ok
}

// UnresolvedTypeError indicates a member references a type name that is
// neither a known primitive nor a known structure.
type UnresolvedTypeError struct {
	Structure string
	Member    string
	TypeName  string
}

func (e UnresolvedTypeError) Error() string {
	if e.Member == "" {
		return fmt.Sprintf("unresolved type %s", e.TypeName)
	}
	return fmt.Sprintf("unresolved type %s for member %s.%s", e.TypeName, e.Structure, e.Member)
}

func (e UnresolvedTypeError) Is(target error) bool {
	_, ok := target.(UnresolvedTypeError)
	return ok
}

// DuplicateDefinitionError indicates two primitives or two structures were
// loaded under the same name.
type DuplicateDefinitionError struct {
	Name string
}

func (e DuplicateDefinitionError) Error() string {
	return fmt.Sprintf("duplicate definition of %s", e.Name)
}

func (e DuplicateDefinitionError) Is(target error) bool {
	_, ok := target.(DuplicateDefinitionError)
	return ok
}
