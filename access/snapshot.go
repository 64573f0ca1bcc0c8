package access

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/spaolacci/murmur3"
	"github.com/wkalt/tlmdict/dict"
	"github.com/wkalt/tlmdict/flatten"
)

/*
A Snapshot is an immutable view of the catalog plus lazily-computed flattened
layouts. One snapshot is taken per compilation request; callers that edit the
dictionary build a new snapshot rather than mutating one in flight, so no
partial-layout reads can leak into a copy table. Multiple compilations may
share one snapshot from parallel goroutines; the layout cache is guarded for
that reason, and everything handed out is a copy or immutable.

The legacy tool kept a lazily-built global variable handler rebuilt whenever
an "all variables" flag flipped. Here that is an explicit per-root cache plus
an all-roots aggregate, both scoped to the snapshot and discarded with it.
*/

////////////////////////////////////////////////////////////////////////////////

// Snapshot is an immutable catalog view with cached flattened layouts.
type Snapshot struct {
	catalog *dict.Catalog

	mtx     sync.Mutex
	layouts map[string][]flatten.VariableEntry
	index   map[string]map[string]flatten.VariableEntry
	all     []flatten.VariableEntry
}

// NewSnapshot wraps a catalog. Layouts are computed on first use per root.
func NewSnapshot(catalog *dict.Catalog) *Snapshot {
	return &Snapshot{
		catalog: catalog,
		layouts: make(map[string][]flatten.VariableEntry),
		index:   make(map[string]map[string]flatten.VariableEntry),
	}
}

// Catalog returns the underlying catalog.
func (s *Snapshot) Catalog() *dict.Catalog {
	return s.catalog
}

// Variables returns the flattened layout of the named root structure in
// canonical traversal order.
func (s *Snapshot) Variables(root string) ([]flatten.VariableEntry, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	entries, err := s.variables(root)
	if err != nil {
		return nil, err
	}
	out := make([]flatten.VariableEntry, len(entries))
	copy(out, entries)
	return out, nil
}

// AllVariables returns the flattened layouts of every root structure in the
// catalog, concatenated in catalog order.
func (s *Snapshot) AllVariables() ([]flatten.VariableEntry, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.all == nil {
		all := []flatten.VariableEntry{}
		for _, root := range s.catalog.Roots() {
			entries, err := s.variables(root)
			if err != nil {
				return nil, err
			}
			all = append(all, entries...)
		}
		s.all = all
	}
	out := make([]flatten.VariableEntry, len(s.all))
	copy(out, s.all)
	return out, nil
}

// Resolve returns the entry for a dotted variable path under a root
// structure. It satisfies copytable.Resolver.
func (s *Snapshot) Resolve(root string, path string) (flatten.VariableEntry, bool) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	idx, ok := s.index[root]
	if !ok {
		if _, err := s.variables(root); err != nil {
			return flatten.VariableEntry{}, false
		}
		idx = s.index[root]
	}
	entry, ok := idx[path]
	return entry, ok
}

// MessageIDName returns the message-ID name of a root structure, or "" if
// none is assigned. It satisfies copytable.Resolver.
func (s *Snapshot) MessageIDName(root string) string {
	if def, ok := s.catalog.Structure(root); ok {
		return def.MsgIDName
	}
	return ""
}

// Size returns the total byte size of the named structure.
func (s *Snapshot) Size(root string) (int, error) {
	entries, err := s.Variables(root)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, nil
	}
	last := entries[len(entries)-1]
	return last.ByteOffset + last.ByteSize, nil
}

// Fingerprint hashes the flattened layout of every root structure. Two
// snapshots with identical layouts hash identically, so the fingerprint
// serves as a cheap version tag for compiled artifacts.
func (s *Snapshot) Fingerprint() (uint64, error) {
	entries, err := s.AllVariables()
	if err != nil {
		return 0, fmt.Errorf("failed to flatten layouts: %w", err)
	}
	h := murmur3.New64()
	buf := make([]byte, 8)
	for _, e := range entries {
		_, _ = h.Write([]byte(e.Root()))
		_, _ = h.Write([]byte(e.Name()))
		_, _ = h.Write([]byte(e.Type.Name))
		binary.LittleEndian.PutUint32(buf[:4], uint32(e.ByteOffset))
		binary.LittleEndian.PutUint32(buf[4:], uint32(e.ByteSize)<<8|uint32(e.BitLength))
		_, _ = h.Write(buf)
	}
	return h.Sum64(), nil
}

// variables is the cache fill; callers hold the lock.
func (s *Snapshot) variables(root string) ([]flatten.VariableEntry, error) {
	if entries, ok := s.layouts[root]; ok {
		return entries, nil
	}
	entries, err := flatten.Flatten(s.catalog, root)
	if err != nil {
		return nil, fmt.Errorf("failed to flatten %s: %w", root, err)
	}
	idx := make(map[string]flatten.VariableEntry, len(entries))
	for _, e := range entries {
		idx[e.Name()] = e
	}
	s.layouts[root] = entries
	s.index[root] = idx
	return entries, nil
}
