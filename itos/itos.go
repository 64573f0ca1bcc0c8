package itos

import (
	"strconv"
	"strings"

	"github.com/wkalt/tlmdict/dict"
)

/*
itos emits the legacy wire-type tag for a primitive: a single letter naming
the interpretation, optionally followed by digits describing the byte order.
The digit strings are consumed verbatim by downstream ground-system record
files, so generation must match the legacy tool exactly, including the
degenerate single-byte swap case and the "0" suffix for raw types.
*/

////////////////////////////////////////////////////////////////////////////////

// Mode selects the encoding form.
type Mode int

const (
	// SingleChar is the bare interpretation letter, e.g. "U".
	SingleChar Mode = iota + 1
	// TwoChar is the letter plus the byte size, e.g. "U4".
	TwoChar
	// BigEndian appends the digits 1..size, e.g. "U1234".
	BigEndian
	// LittleEndian appends the digits size..1, e.g. "U4321".
	LittleEndian
	// BigEndianSwap is big endian with each adjacent byte pair transposed,
	// e.g. "U2143".
	BigEndianSwap
	// LittleEndianSwap is little endian with each adjacent byte pair
	// transposed, e.g. "U3412".
	LittleEndianSwap
)

func (m Mode) String() string {
	switch m {
	case SingleChar:
		return "SINGLE_CHAR"
	case TwoChar:
		return "TWO_CHAR"
	case BigEndian:
		return "BIG_ENDIAN"
	case LittleEndian:
		return "LITTLE_ENDIAN"
	case BigEndianSwap:
		return "BIG_ENDIAN_SWAP"
	case LittleEndianSwap:
		return "LITTLE_ENDIAN_SWAP"
	default:
		return "unknown"
	}
}

// ParseMode maps a mode name to its value. Matching is case-insensitive to
// accept the legacy spellings.
func ParseMode(s string) (Mode, error) {
	switch strings.ToUpper(s) {
	case "SINGLE_CHAR":
		return SingleChar, nil
	case "TWO_CHAR":
		return TwoChar, nil
	case "BIG_ENDIAN":
		return BigEndian, nil
	case "LITTLE_ENDIAN":
		return LittleEndian, nil
	case "BIG_ENDIAN_SWAP":
		return BigEndianSwap, nil
	case "LITTLE_ENDIAN_SWAP":
		return LittleEndianSwap, nil
	default:
		return 0, UnknownModeError{s}
	}
}

// Encode returns the encoded form of the primitive in the requested mode.
// Opaque primitives encode to the raw sentinel "R", with a literal "0"
// appended in every mode except SingleChar. Swap modes reject sizes other
// than 1, 2, 4 and 8 with UnsupportedSizeError.
func Encode(p dict.Primitive, mode Mode) (string, error) {
	var letter string
	switch p.Category {
	case dict.SignedInt:
		letter = "I"
	case dict.UnsignedInt, dict.Pointer:
		letter = "U"
	case dict.Float:
		letter = "F"
	case dict.Char:
		letter = "S"
	case dict.Opaque:
		if mode == SingleChar {
			return "R", nil
		}
		return "R0", nil
	default:
		return "", UnencodableTypeError{p.Name}
	}

	// Characters and strings always encode with size 1.
	size := p.Size
	if p.Category == dict.Char {
		size = 1
	}

	var sb strings.Builder
	sb.WriteString(letter)
	switch mode {
	case SingleChar:
	case TwoChar:
		sb.WriteString(strconv.Itoa(size))
	case BigEndian:
		for i := 1; i <= size; i++ {
			sb.WriteString(strconv.Itoa(i))
		}
	case LittleEndian:
		for i := size; i > 0; i-- {
			sb.WriteString(strconv.Itoa(i))
		}
	case BigEndianSwap:
		if err := checkSwapSize(p.Name, size); err != nil {
			return "", err
		}
		if size == 1 {
			sb.WriteString("1")
			break
		}
		for i := 1; i <= size; i += 2 {
			sb.WriteString(strconv.Itoa(i + 1))
			sb.WriteString(strconv.Itoa(i))
		}
	case LittleEndianSwap:
		if err := checkSwapSize(p.Name, size); err != nil {
			return "", err
		}
		if size == 1 {
			sb.WriteString("1")
			break
		}
		for i := size; i > 0; i -= 2 {
			sb.WriteString(strconv.Itoa(i - 1))
			sb.WriteString(strconv.Itoa(i))
		}
	default:
		return "", UnknownModeError{mode.String()}
	}
	return sb.String(), nil
}

// EncodeTypeName encodes the named type against the catalog. Structure names
// bypass encoding and are returned unmodified; unknown names fail with
// UnencodableTypeError.
func EncodeTypeName(cat *dict.Catalog, name string, mode Mode) (string, error) {
	if p, ok := cat.Primitive(name); ok {
		return Encode(p, mode)
	}
	if cat.IsStructure(name) {
		return name, nil
	}
	return "", UnencodableTypeError{name}
}

func checkSwapSize(name string, size int) error {
	switch size {
	case 1, 2, 4, 8:
		return nil
	default:
		return UnsupportedSizeError{name, size}
	}
}

// LimitName returns the legacy limit field name for the supplied index:
// 0 = redLow, 1 = yellowLow, 2 = yellowHigh, 3 = redHigh. Out-of-range
// indices return the empty string.
func LimitName(index int) string {
	names := []string{"redLow", "yellowLow", "yellowHigh", "redHigh"}
	if index < 0 || index >= len(names) {
		return ""
	}
	return names[index]
}
