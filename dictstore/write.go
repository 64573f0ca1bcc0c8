package dictstore

import (
	"context"
	"fmt"

	"github.com/wkalt/tlmdict/dict"
	"github.com/wkalt/tlmdict/links"
)

/*
Write paths for importing dictionary content into a project database. The
engine never calls these during compilation; they exist for the import CLI
and for fixtures.
*/

////////////////////////////////////////////////////////////////////////////////

// PutPrimitive stores a primitive definition.
func (s *Store) PutPrimitive(ctx context.Context, p dict.Primitive) error {
	_, err := s.db.ExecContext(ctx, `
	insert into primitives (name, size, category) values ($1, $2, $3)`,
		p.Name, p.Size, p.Category.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to store primitive %s: %w", p.Name, err)
	}
	return nil
}

// PutStructure stores a structure definition and its members.
func (s *Store) PutStructure(ctx context.Context, pos int, def *dict.Structure) error {
	_, err := s.db.ExecContext(ctx, `
	insert into structures (name, kind, msg_id_name, pos) values ($1, $2, $3, $4)`,
		def.Name, def.Kind.String(), def.MsgIDName, pos,
	)
	if err != nil {
		return fmt.Errorf("failed to store structure %s: %w", def.Name, err)
	}
	for i, m := range def.Members {
		_, err := s.db.ExecContext(ctx, `
		insert into members (structure, pos, name, type, array_dim, bit_length, description, units, enumeration)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			def.Name, i, m.Name, m.TypeName, m.ArrayDim, m.BitLength,
			m.Description, m.Units, m.Enumeration,
		)
		if err != nil {
			return fmt.Errorf("failed to store member %s.%s: %w", def.Name, m.Name, err)
		}
	}
	return nil
}

// PutStream stores a stream's messages, links, and variable assignments.
func (s *Store) PutStream(ctx context.Context, stream links.Stream) error {
	for i, m := range stream.Messages {
		_, err := s.db.ExecContext(ctx, `
		insert into messages (stream, pos, name, id_name, id, header_size, rate)
		values ($1, $2, $3, $4, $5, $6, $7)`,
			stream.Name, i, m.Name, m.IDName, m.ID, m.HeaderSize, m.Rate,
		)
		if err != nil {
			return fmt.Errorf("failed to store message %s: %w", m.Name, err)
		}
		for j, l := range m.Links {
			_, err := s.db.ExecContext(ctx, `
			insert into message_links (stream, message, pos, name, root, rate)
			values ($1, $2, $3, $4, $5, $6)`,
				stream.Name, m.Name, j, l.Name, l.Root, l.Rate,
			)
			if err != nil {
				return fmt.Errorf("failed to store link %s: %w", l.Name, err)
			}
			for k, path := range l.Variables {
				_, err := s.db.ExecContext(ctx, `
				insert into link_variables (stream, message, link, pos, path)
				values ($1, $2, $3, $4, $5)`,
					stream.Name, m.Name, l.Name, k, path,
				)
				if err != nil {
					return fmt.Errorf("failed to store variable %s: %w", path, err)
				}
			}
		}
	}
	return nil
}
