package dictstore

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // sqlite driver
	"github.com/wkalt/tlmdict/dict"
	"github.com/wkalt/tlmdict/links"
)

/*
dictstore is the boundary to the dictionary storage collaborator: a sqlite
project database holding primitive definitions, structure definitions with
members, and the link/message stream configuration. The engine only reads
from it; table editing, macro expansion, and search all live on the other
side of this boundary. Data loaded here is assumed already macro-expanded.
*/

////////////////////////////////////////////////////////////////////////////////

// Store reads dictionary content from a project database.
type Store struct {
	db *sql.DB
}

// Open opens the project database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database at %s: %w", path, err)
	}
	return NewStore(db)
}

// NewStore wraps an open database handle, creating the schema if needed.
func NewStore(db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying handle.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

func (s *Store) initialize() error {
	var maxApplied int64
	err := s.db.QueryRow("select max(version) from schema_migrations").Scan(&maxApplied)
	if err == nil && maxApplied == 1 {
		return nil
	}
	if _, err := s.db.Exec(`
	create table if not exists primitives (
		name text not null primary key,
		size int not null,
		category text not null
	);

	create table if not exists structures (
		name text not null primary key,
		kind text not null default 'telemetry',
		msg_id_name text not null default '',
		pos int not null
	);

	create table if not exists members (
		structure text not null references structures(name),
		pos int not null,
		name text not null,
		type text not null,
		array_dim int not null default 0,
		bit_length int not null default 0,
		description text not null default '',
		units text not null default '',
		enumeration text not null default '',
		primary key (structure, pos)
	);

	create table if not exists messages (
		stream text not null,
		pos int not null,
		name text not null,
		id_name text not null,
		id text not null,
		header_size int not null,
		rate int not null,
		primary key (stream, pos)
	);

	create table if not exists message_links (
		stream text not null,
		message text not null,
		pos int not null,
		name text not null,
		root text not null,
		rate int not null,
		primary key (stream, message, pos)
	);

	create table if not exists link_variables (
		stream text not null,
		message text not null,
		link text not null,
		pos int not null,
		path text not null,
		primary key (stream, message, link, pos)
	);

	create table if not exists schema_migrations(
		version bigint not null,
		timestamp text not null default current_timestamp
	);

	insert into schema_migrations(version) values (1);
	`); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// LoadCatalog reads the primitive and structure definitions and builds a
// catalog from them. The default primitives are always present; rows in the
// primitives table extend them.
func (s *Store) LoadCatalog(ctx context.Context) (*dict.Catalog, error) {
	primitives := dict.DefaultPrimitives()
	rows, err := s.db.QueryContext(ctx, `select name, size, category from primitives order by name`)
	if err != nil {
		return nil, fmt.Errorf("failed to read primitives: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name, category string
		var size int
		if err := rows.Scan(&name, &size, &category); err != nil {
			return nil, fmt.Errorf("failed to scan primitive: %w", err)
		}
		cat, err := dict.ParseCategory(category)
		if err != nil {
			return nil, fmt.Errorf("primitive %s: %w", name, err)
		}
		primitives = append(primitives, dict.Primitive{Name: name, Size: size, Category: cat})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read primitives: %w", err)
	}

	structures, err := s.loadStructures(ctx)
	if err != nil {
		return nil, err
	}
	catalog, err := dict.NewCatalog(primitives, structures)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog: %w", err)
	}
	return catalog, nil
}

func (s *Store) loadStructures(ctx context.Context) ([]*dict.Structure, error) {
	rows, err := s.db.QueryContext(ctx, `select name, kind, msg_id_name from structures order by pos`)
	if err != nil {
		return nil, fmt.Errorf("failed to read structures: %w", err)
	}
	defer rows.Close()
	structures := []*dict.Structure{}
	byName := make(map[string]*dict.Structure)
	for rows.Next() {
		var name, kind, msgIDName string
		if err := rows.Scan(&name, &kind, &msgIDName); err != nil {
			return nil, fmt.Errorf("failed to scan structure: %w", err)
		}
		k := dict.Telemetry
		if kind == "command" {
			k = dict.Command
		}
		def := &dict.Structure{Name: name, Kind: k, MsgIDName: msgIDName}
		structures = append(structures, def)
		byName[name] = def
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read structures: %w", err)
	}

	mrows, err := s.db.QueryContext(ctx, `
	select structure, name, type, array_dim, bit_length, description, units, enumeration
	from members order by structure, pos`)
	if err != nil {
		return nil, fmt.Errorf("failed to read members: %w", err)
	}
	defer mrows.Close()
	for mrows.Next() {
		var structure string
		var m dict.MemberSpec
		if err := mrows.Scan(
			&structure, &m.Name, &m.TypeName, &m.ArrayDim, &m.BitLength,
			&m.Description, &m.Units, &m.Enumeration,
		); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		def, ok := byName[structure]
		if !ok {
			return nil, fmt.Errorf("member %s references unknown structure %s", m.Name, structure)
		}
		def.Members = append(def.Members, m)
	}
	if err := mrows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read members: %w", err)
	}
	return structures, nil
}

// LoadStreams reads the stream/message/link configuration.
func (s *Store) LoadStreams(ctx context.Context) ([]links.Stream, error) {
	rows, err := s.db.QueryContext(ctx, `
	select stream, name, id_name, id, header_size, rate from messages order by stream, pos`)
	if err != nil {
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}
	defer rows.Close()
	streams := []links.Stream{}
	streamIdx := make(map[string]int)
	msgIdx := make(map[string]map[string]int)
	for rows.Next() {
		var stream string
		var m links.Message
		if err := rows.Scan(&stream, &m.Name, &m.IDName, &m.ID, &m.HeaderSize, &m.Rate); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		if _, ok := streamIdx[stream]; !ok {
			streamIdx[stream] = len(streams)
			streams = append(streams, links.Stream{Name: stream})
			msgIdx[stream] = make(map[string]int)
		}
		i := streamIdx[stream]
		msgIdx[stream][m.Name] = len(streams[i].Messages)
		streams[i].Messages = append(streams[i].Messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}

	lrows, err := s.db.QueryContext(ctx, `
	select stream, message, name, root, rate from message_links order by stream, message, pos`)
	if err != nil {
		return nil, fmt.Errorf("failed to read links: %w", err)
	}
	defer lrows.Close()
	for lrows.Next() {
		var stream, message string
		var l links.Link
		if err := lrows.Scan(&stream, &message, &l.Name, &l.Root, &l.Rate); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		si, ok := streamIdx[stream]
		if !ok {
			return nil, fmt.Errorf("link %s references unknown stream %s", l.Name, stream)
		}
		mi, ok := msgIdx[stream][message]
		if !ok {
			return nil, fmt.Errorf("link %s references unknown message %s", l.Name, message)
		}
		msg := &streams[si].Messages[mi]
		msg.Links = append(msg.Links, l)
	}
	if err := lrows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read links: %w", err)
	}

	vrows, err := s.db.QueryContext(ctx, `
	select stream, message, link, path from link_variables order by stream, message, link, pos`)
	if err != nil {
		return nil, fmt.Errorf("failed to read link variables: %w", err)
	}
	defer vrows.Close()
	for vrows.Next() {
		var stream, message, link, path string
		if err := vrows.Scan(&stream, &message, &link, &path); err != nil {
			return nil, fmt.Errorf("failed to scan link variable: %w", err)
		}
		si, ok := streamIdx[stream]
		if !ok {
			return nil, fmt.Errorf("variable %s references unknown stream %s", path, stream)
		}
		mi, ok := msgIdx[stream][message]
		if !ok {
			return nil, fmt.Errorf("variable %s references unknown message %s", path, message)
		}
		msg := &streams[si].Messages[mi]
		found := false
		for i := range msg.Links {
			if msg.Links[i].Name == link {
				msg.Links[i].Variables = append(msg.Links[i].Variables, path)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("variable %s references unknown link %s", path, link)
		}
	}
	if err := vrows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read link variables: %w", err)
	}
	return streams, nil
}
