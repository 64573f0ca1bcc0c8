package itos

import "fmt"

// UnencodableTypeError indicates an encoding was requested for a type that is
// not a recognized primitive.
type UnencodableTypeError struct {
	TypeName string
}

func (e UnencodableTypeError) Error() string {
	return fmt.Sprintf("type %s is not encodable", e.TypeName)
}

func (e UnencodableTypeError) Is(target error) bool {
	_, ok := target.(UnencodableTypeError)
	return ok
}

// UnsupportedSizeError indicates a byte-swapped encoding was requested for a
// size with no defined swap pattern.
type UnsupportedSizeError struct {
	TypeName string
	Size     int
}

func (e UnsupportedSizeError) Error() string {
	return fmt.Sprintf("no byte swap pattern for %s (%d bytes)", e.TypeName, e.Size)
}

func (e UnsupportedSizeError) Is(target error) bool {
	_, ok := target.(UnsupportedSizeError)
	return ok
}

// UnknownModeError indicates an unrecognized encoding mode name.
type UnknownModeError struct {
	Mode string
}

func (e UnknownModeError) Error() string {
	return fmt.Sprintf("unknown encoding mode: %s", e.Mode)
}

func (e UnknownModeError) Is(target error) bool {
	_, ok := target.(UnknownModeError)
	return ok
}
