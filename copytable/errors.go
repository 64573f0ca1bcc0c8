package copytable

import "fmt"

// UnresolvedVariableError indicates a link references a path not present in
// the flattened root structure.
type UnresolvedVariableError struct {
	Root string
	Path string
}

func (e UnresolvedVariableError) Error() string {
	return fmt.Sprintf("variable %s not found under structure %s", e.Path, e.Root)
}

func (e UnresolvedVariableError) Is(target error) bool {
	_, ok := target.(UnresolvedVariableError)
	return ok
}
