package copytable

import (
	"fmt"
	"sort"

	"github.com/wkalt/tlmdict/flatten"
	"github.com/wkalt/tlmdict/links"
)

/*
copytable compiles a message's link assignments into the ordered list of
memory-copy instructions that pack its scattered source variables into a
contiguous outbound buffer. Links are authored independently of physical
layout, so members are first stable-sorted by resolved input offset. With
optimization enabled, runs of variables whose input offsets are exactly
contiguous within one source structure collapse into a single instruction.
The destination is always packed with no gaps regardless of input
contiguity, so coalescing changes only the instruction count, never the
total bytes moved.

Tables are rebuilt from scratch on every request. Any edit to a link or to
the structure layout invalidates previously compiled tables; nothing here is
patched in place.
*/

////////////////////////////////////////////////////////////////////////////////

// Resolver supplies flattened layout information for root structures. It is
// satisfied by access.Snapshot.
type Resolver interface {
	// Resolve returns the entry for a dotted variable path under a root
	// structure.
	Resolve(root string, path string) (flatten.VariableEntry, bool)
	// MessageIDName returns the message-ID name assigned to a root
	// structure, or "" if it has none.
	MessageIDName(root string) string
}

// Entry is one copy instruction: ByteCount bytes from InputOffset within the
// source root structure to OutputOffset within the destination message.
// Offsets in the destination are header-relative already shifted by the
// header size. Variables lists every source variable the instruction covers,
// for traceability.
type Entry struct {
	InputID      string   `json:"inputID"`
	InputOffset  uint32   `json:"inputOffset"`
	ByteCount    uint16   `json:"byteCount"`
	OutputID     string   `json:"outputID"`
	OutputOffset uint32   `json:"outputOffset"`
	Root         string   `json:"root"`
	Variables    []string `json:"variables"`
}

// Table is the compiled copy table for one message.
type Table struct {
	Message    string  `json:"message"`
	IDName     string  `json:"idName"`
	ID         string  `json:"id"`
	HeaderSize int     `json:"headerSize"`
	Entries    []Entry `json:"entries"`
}

type member struct {
	entry flatten.VariableEntry
	root  string
	path  string
}

// Compile builds the copy table for a message. Every link path must resolve
// against its root's flattened layout or compilation fails with
// UnresolvedVariableError; a dropped variable would be a packing bug, never
// an acceptable degradation.
func Compile(r Resolver, msg links.Message, optimize bool) (*Table, error) {
	if err := msg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid message %s: %w", msg.Name, err)
	}
	members := []member{}
	for _, l := range msg.Links {
		for _, path := range l.Variables {
			entry, ok := r.Resolve(l.Root, path)
			if !ok {
				return nil, UnresolvedVariableError{Root: l.Root, Path: path}
			}
			members = append(members, member{entry: entry, root: l.Root, path: path})
		}
	}
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].entry.ByteOffset < members[j].entry.ByteOffset
	})

	table := &Table{
		Message:    msg.Name,
		IDName:     msg.IDName,
		ID:         msg.ID,
		HeaderSize: msg.HeaderSize,
		Entries:    []Entry{},
	}

	// Destination offsets are header-relative and stay tightly packed in
	// traversal order.
	cursor := msg.HeaderSize
	var open bool
	var run Entry
	var end int

	flush := func() {
		if !open {
			return
		}
		run.OutputOffset = uint32(cursor)
		table.Entries = append(table.Entries, run)
		cursor += int(run.ByteCount)
		open = false
	}

	for _, m := range members {
		adjacent := open && optimize && m.root == run.Root && m.entry.ByteOffset == end
		if adjacent {
			run.ByteCount += uint16(m.entry.ByteSize)
			run.Variables = append(run.Variables, m.path)
			end += m.entry.ByteSize
			continue
		}
		flush()
		run = Entry{
			InputID:     r.MessageIDName(m.root),
			InputOffset: uint32(m.entry.ByteOffset),
			ByteCount:   uint16(m.entry.ByteSize),
			OutputID:    msg.IDName,
			Root:        m.root,
			Variables:   []string{m.path},
		}
		end = m.entry.ByteOffset + m.entry.ByteSize
		open = true
	}
	flush()
	return table, nil
}

// TotalBytes returns the sum of byte counts over all entries. The total is
// invariant under coalescing.
func (t *Table) TotalBytes() int {
	total := 0
	for _, e := range t.Entries {
		total += int(e.ByteCount)
	}
	return total
}
