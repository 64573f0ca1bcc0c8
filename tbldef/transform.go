package tbldef

import (
	"fmt"

	"github.com/wkalt/tlmdict/dict"
)

/*
This file contains the Parse function, which accepts a []byte-valued table
definition file and returns a dict.Catalog. It calls the participle parser on
the input to create an AST and then transforms the AST into catalog
definitions. The participle AST does not leave the tbldef package.

The default primitive set is always available; primitive declarations in the
file extend it.
*/

////////////////////////////////////////////////////////////////////////////////

// Parse parses a table definition file and returns a catalog built from it.
// Catalog-level validation (unknown member types, structure cycles) happens
// inside dict.NewCatalog and is reported with the offending name.
func Parse(data []byte) (*dict.Catalog, error) {
	ast, err := FileParser.ParseBytes("", data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse table definitions: %w", err)
	}
	primitives := dict.DefaultPrimitives()
	structures := []*dict.Structure{}
	for _, decl := range ast.Decls {
		switch {
		case decl.Primitive != nil:
			p, err := transformPrimitive(*decl.Primitive)
			if err != nil {
				return nil, err
			}
			primitives = append(primitives, p)
		case decl.Struct != nil:
			structures = append(structures, transformStruct(*decl.Struct))
		}
	}
	catalog, err := dict.NewCatalog(primitives, structures)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog: %w", err)
	}
	return catalog, nil
}

func transformPrimitive(decl PrimitiveDecl) (dict.Primitive, error) {
	category, err := dict.ParseCategory(decl.Category)
	if err != nil {
		return dict.Primitive{}, fmt.Errorf("primitive %s: %w", decl.Name, err)
	}
	if decl.Size <= 0 {
		return dict.Primitive{}, fmt.Errorf("primitive %s: size must be positive", decl.Name)
	}
	return dict.Primitive{Name: decl.Name, Size: decl.Size, Category: category}, nil
}

func transformStruct(decl StructDecl) *dict.Structure {
	kind := dict.Telemetry
	msgIDName := ""
	if decl.Tag != nil {
		if decl.Tag.Kind == "command" {
			kind = dict.Command
		}
		msgIDName = decl.Tag.MsgIDName
	}
	members := make([]dict.MemberSpec, 0, len(decl.Members))
	for _, m := range decl.Members {
		members = append(members, dict.MemberSpec{
			Name:      m.Name,
			TypeName:  m.Type,
			ArrayDim:  m.ArrayDim,
			BitLength: m.BitLength,
		})
	}
	return &dict.Structure{
		Name:      decl.Name,
		Kind:      kind,
		MsgIDName: msgIDName,
		Members:   members,
	}
}
