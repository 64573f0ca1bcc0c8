package tbldef

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

/*
This is a grammar for the table definition text format, one of the boundary
formats the dictionary storage collaborator can hand us. A file declares
primitives and structures:

	primitive uint24 3 unsigned

	struct ccsds_header {
	  uint16 stream_id          # comments attach to nothing
	  uint8  sequence : 6
	  uint8  segment  : 2
	  uint8  length[2]
	}

	struct hk_packet : telemetry "HK_TLM_MID" {
	  ccsds_header hdr
	  float temps[4]
	}

Members are one per line: type name, optional fixed array dimension in
brackets, optional bit length after a colon. The optional clause after a
structure name tags the definition kind and message-ID name.
*/

// nolint:gochecknoglobals
var (
	Lexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Comment", Pattern: `#[^\n]*`},
		{Name: "Newline", Pattern: `\s*[\n\r]+`},
		{Name: "Integer", Pattern: `[0-9]+`},
		{Name: "Word", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
		{Name: "String", Pattern: `"[^"]*"`},
		{Name: "Whitespace", Pattern: `[\s\t]+`},
		{Name: "LBrace", Pattern: `\{`},
		{Name: "RBrace", Pattern: `\}`},
		{Name: "LBracket", Pattern: `\[`},
		{Name: "RBracket", Pattern: `\]`},
		{Name: "Colon", Pattern: `:`},
	})

	FileParser = participle.MustBuild[File](
		participle.Lexer(Lexer),
		participle.Unquote("String"),
		participle.Elide("Whitespace", "Newline", "Comment"),
		participle.UseLookahead(1000),
	)
)

type File struct {
	Decls []Decl `parser:"@@*"`
}

type Decl struct {
	Primitive *PrimitiveDecl `parser:"@@"`
	Struct    *StructDecl    `parser:"| @@"`
}

type PrimitiveDecl struct {
	Name     string `parser:"'primitive' @Word"`
	Size     int    `parser:"@Integer"`
	Category string `parser:"@Word"`
}

type StructDecl struct {
	Name    string       `parser:"'struct' @Word"`
	Tag     *StructTag   `parser:"@@?"`
	Members []MemberDecl `parser:"LBrace @@* RBrace"`
}

type StructTag struct {
	Kind      string `parser:"Colon @('telemetry' | 'command')"`
	MsgIDName string `parser:"@String?"`
}

type MemberDecl struct {
	Type      string `parser:"@Word"`
	Name      string `parser:"@Word"`
	ArrayDim  int    `parser:"(LBracket @Integer RBracket)?"`
	BitLength int    `parser:"(Colon @Integer)?"`
}
