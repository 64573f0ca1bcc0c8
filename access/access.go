package access

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/exp/maps"
	"golang.org/x/sync/errgroup"

	"github.com/wkalt/tlmdict/copytable"
	"github.com/wkalt/tlmdict/flatten"
	"github.com/wkalt/tlmdict/itos"
	"github.com/wkalt/tlmdict/links"
	"github.com/wkalt/tlmdict/util"
)

/*
access is the read facade report generators talk to. It exposes flattened
variable attributes, ITOS type encodings, and copy table compilation over an
immutable snapshot plus the stream configuration. It contains no layout or
packing logic of its own.
*/

////////////////////////////////////////////////////////////////////////////////

// Attributes is the flattened, per-variable view handed to report
// generators.
type Attributes struct {
	Name        string `json:"name"`
	Root        string `json:"root"`
	Type        string `json:"type"`
	ByteOffset  int    `json:"byteOffset"`
	ByteSize    int    `json:"byteSize"`
	BitLength   int    `json:"bitLength,omitempty"`
	Description string `json:"description,omitempty"`
	Units       string `json:"units,omitempty"`
	Enumeration string `json:"enumeration,omitempty"`
	Rate        int    `json:"rate,omitempty"`
}

// Handler serves dictionary queries against one snapshot and one set of
// stream definitions. Handlers are cheap; build a new one when the
// dictionary changes.
type Handler struct {
	snap    *Snapshot
	streams map[string]links.Stream
	rates   map[string]int
}

// NewHandler validates the stream definitions and returns a handler over
// them.
func NewHandler(snap *Snapshot, streams []links.Stream) (*Handler, error) {
	byName := make(map[string]links.Stream, len(streams))
	rates := make(map[string]int)
	for _, stream := range streams {
		if err := stream.Validate(); err != nil {
			return nil, fmt.Errorf("invalid stream %s: %w", stream.Name, err)
		}
		byName[stream.Name] = stream
		for _, m := range stream.Messages {
			for _, l := range m.Links {
				for _, v := range l.Variables {
					rates[l.Root+"/"+v] = l.Rate
				}
			}
		}
	}
	return &Handler{snap: snap, streams: byName, rates: rates}, nil
}

// Snapshot returns the handler's snapshot.
func (h *Handler) Snapshot() *Snapshot {
	return h.snap
}

// DataStreamNames returns the stream names in sorted order.
func (h *Handler) DataStreamNames() []string {
	names := maps.Keys(h.streams)
	sort.Strings(names)
	return names
}

// Stream returns the named stream definition.
func (h *Handler) Stream(name string) (links.Stream, bool) {
	s, ok := h.streams[name]
	return s, ok
}

// Variables returns the attribute view of the named root structure's
// flattened layout.
func (h *Handler) Variables(root string) ([]Attributes, error) {
	entries, err := h.snap.Variables(root)
	if err != nil {
		return nil, err
	}
	return util.Map(func(e flatten.VariableEntry) Attributes {
		return h.attributes(root, e)
	}, entries), nil
}

// Variable returns the attribute view of one variable path.
func (h *Handler) Variable(root string, path string) (Attributes, error) {
	entry, ok := h.snap.Resolve(root, path)
	if !ok {
		return Attributes{}, copytable.UnresolvedVariableError{Root: root, Path: path}
	}
	return h.attributes(root, entry), nil
}

// EncodedType returns the ITOS encoding of the named type. Structure names
// pass through unmodified.
func (h *Handler) EncodedType(typeName string, mode itos.Mode) (string, error) {
	return itos.EncodeTypeName(h.snap.Catalog(), typeName, mode)
}

// CompileMessage builds the copy table for one message of a stream.
func (h *Handler) CompileMessage(stream string, message string, optimize bool) (*copytable.Table, error) {
	s, ok := h.streams[stream]
	if !ok {
		return nil, fmt.Errorf("unknown stream: %s", stream)
	}
	for _, m := range s.Messages {
		if m.Name == message {
			return copytable.Compile(h.snap, m, optimize)
		}
	}
	return nil, fmt.Errorf("unknown message %s in stream %s", message, stream)
}

// CompileStream builds the copy tables for every message of a stream.
// Messages compile in parallel; each reads the shared snapshot and writes
// only its own result. An error in any message aborts only that message's
// table, but is reported for the batch.
func (h *Handler) CompileStream(ctx context.Context, stream string, optimize bool) ([]*copytable.Table, error) {
	s, ok := h.streams[stream]
	if !ok {
		return nil, fmt.Errorf("unknown stream: %s", stream)
	}
	tables := make([]*copytable.Table, len(s.Messages))
	g, ctx := errgroup.WithContext(ctx)
	for i, m := range s.Messages {
		i, m := i, m
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("compilation canceled: %w", err)
			}
			table, err := copytable.Compile(h.snap, m, optimize)
			if err != nil {
				return fmt.Errorf("failed to compile %s: %w", m.Name, err)
			}
			tables[i] = table
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}

func (h *Handler) attributes(root string, e flatten.VariableEntry) Attributes {
	return Attributes{
		Name:        e.Name(),
		Root:        root,
		Type:        e.Type.Name,
		ByteOffset:  e.ByteOffset,
		ByteSize:    e.ByteSize,
		BitLength:   e.BitLength,
		Description: e.Description,
		Units:       e.Units,
		Enumeration: e.Enumeration,
		Rate:        h.rates[root+"/"+e.Name()],
	}
}
