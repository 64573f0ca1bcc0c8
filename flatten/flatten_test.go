package flatten_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wkalt/tlmdict/dict"
	"github.com/wkalt/tlmdict/flatten"
)

func newCatalog(t *testing.T, structures ...*dict.Structure) *dict.Catalog {
	t.Helper()
	catalog, err := dict.NewCatalog(dict.DefaultPrimitives(), structures)
	require.NoError(t, err)
	return catalog
}

func offsets(entries []flatten.VariableEntry) map[string][2]int {
	out := make(map[string][2]int, len(entries))
	for _, e := range entries {
		out[e.Name()] = [2]int{e.ByteOffset, e.ByteSize}
	}
	return out
}

func TestFlattenScalars(t *testing.T) {
	catalog := newCatalog(t, &dict.Structure{
		Name: "s",
		Members: []dict.MemberSpec{
			{Name: "a", TypeName: "uint16"},
			{Name: "b", TypeName: "uint16"},
			{Name: "c", TypeName: "uint8"},
		},
	})
	entries, err := flatten.Flatten(catalog, "s")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, map[string][2]int{
		"a": {0, 2},
		"b": {2, 2},
		"c": {4, 1},
	}, offsets(entries))

	size, err := flatten.Size(catalog, "s")
	require.NoError(t, err)
	require.Equal(t, 5, size)
}

func TestFlattenArrays(t *testing.T) {
	catalog := newCatalog(t, &dict.Structure{
		Name: "s",
		Members: []dict.MemberSpec{
			{Name: "temps", TypeName: "float", ArrayDim: 3},
			{Name: "mode", TypeName: "uint8"},
		},
	})
	entries, err := flatten.Flatten(catalog, "s")
	require.NoError(t, err)
	require.Len(t, entries, 4)
	require.Equal(t, "temps[0]", entries[0].Name())
	require.Equal(t, "temps[2]", entries[2].Name())
	require.Equal(t, map[string][2]int{
		"temps[0]": {0, 4},
		"temps[1]": {4, 4},
		"temps[2]": {8, 4},
		"mode":     {12, 1},
	}, offsets(entries))
}

func TestFlattenNested(t *testing.T) {
	catalog := newCatalog(t,
		&dict.Structure{
			Name: "header",
			Members: []dict.MemberSpec{
				{Name: "id", TypeName: "uint16"},
				{Name: "len", TypeName: "uint16"},
			},
		},
		&dict.Structure{
			Name: "packet",
			Members: []dict.MemberSpec{
				{Name: "hdr", TypeName: "header"},
				{Name: "points", TypeName: "header", ArrayDim: 2},
				{Name: "crc", TypeName: "uint32"},
			},
		},
	)
	entries, err := flatten.Flatten(catalog, "packet")
	require.NoError(t, err)
	require.Equal(t, map[string][2]int{
		"hdr.id":        {0, 2},
		"hdr.len":       {2, 2},
		"points[0].id":  {4, 2},
		"points[0].len": {6, 2},
		"points[1].id":  {8, 2},
		"points[1].len": {10, 2},
		"crc":           {12, 4},
	}, offsets(entries))

	// Paths record every structure instance traversed, so identically
	// named members under different parents stay distinguishable.
	require.Equal(t, "packet", entries[0].Root())
	require.Equal(t, []flatten.PathSegment{
		{Structure: "packet", Member: "hdr", Index: -1},
		{Structure: "header", Member: "id", Index: -1},
	}, entries[0].Path)
}

func TestFlattenBitfields(t *testing.T) {
	t.Run("run packs into one storage unit", func(t *testing.T) {
		catalog := newCatalog(t, &dict.Structure{
			Name: "s",
			Members: []dict.MemberSpec{
				{Name: "version", TypeName: "uint8", BitLength: 3},
				{Name: "type", TypeName: "uint8", BitLength: 1},
				{Name: "flags", TypeName: "uint8", BitLength: 4},
				{Name: "count", TypeName: "uint16"},
			},
		})
		entries, err := flatten.Flatten(catalog, "s")
		require.NoError(t, err)
		require.Equal(t, map[string][2]int{
			"version": {0, 1},
			"type":    {0, 1},
			"flags":   {0, 1},
			"count":   {1, 2},
		}, offsets(entries))
		require.Equal(t, entries[0].StorageUnit, entries[1].StorageUnit)
		require.Equal(t, entries[0].StorageUnit, entries[2].StorageUnit)
		require.NotEqual(t, entries[0].StorageUnit, entries[3].StorageUnit)
	})
	t.Run("overflow opens a new unit", func(t *testing.T) {
		catalog := newCatalog(t, &dict.Structure{
			Name: "s",
			Members: []dict.MemberSpec{
				{Name: "a", TypeName: "uint8", BitLength: 5},
				{Name: "b", TypeName: "uint8", BitLength: 5},
			},
		})
		entries, err := flatten.Flatten(catalog, "s")
		require.NoError(t, err)
		require.Equal(t, map[string][2]int{
			"a": {0, 1},
			"b": {1, 1},
		}, offsets(entries))
		require.NotEqual(t, entries[0].StorageUnit, entries[1].StorageUnit)
	})
	t.Run("type change closes the run", func(t *testing.T) {
		catalog := newCatalog(t, &dict.Structure{
			Name: "s",
			Members: []dict.MemberSpec{
				{Name: "a", TypeName: "uint8", BitLength: 2},
				{Name: "b", TypeName: "uint16", BitLength: 2},
			},
		})
		entries, err := flatten.Flatten(catalog, "s")
		require.NoError(t, err)
		require.Equal(t, map[string][2]int{
			"a": {0, 1},
			"b": {1, 2},
		}, offsets(entries))
	})
	t.Run("whole field member closes the run", func(t *testing.T) {
		catalog := newCatalog(t, &dict.Structure{
			Name: "s",
			Members: []dict.MemberSpec{
				{Name: "a", TypeName: "uint8", BitLength: 2},
				{Name: "b", TypeName: "uint8"},
				{Name: "c", TypeName: "uint8", BitLength: 2},
			},
		})
		entries, err := flatten.Flatten(catalog, "s")
		require.NoError(t, err)
		require.Equal(t, map[string][2]int{
			"a": {0, 1},
			"b": {1, 1},
			"c": {2, 1},
		}, offsets(entries))
	})
	t.Run("arrays of bit-fields pack per element", func(t *testing.T) {
		catalog := newCatalog(t, &dict.Structure{
			Name: "s",
			Members: []dict.MemberSpec{
				{Name: "n", TypeName: "uint8", BitLength: 4, ArrayDim: 4},
			},
		})
		entries, err := flatten.Flatten(catalog, "s")
		require.NoError(t, err)
		require.Equal(t, map[string][2]int{
			"n[0]": {0, 1},
			"n[1]": {0, 1},
			"n[2]": {1, 1},
			"n[3]": {1, 1},
		}, offsets(entries))
	})
}

func TestFlattenErrors(t *testing.T) {
	catalog := newCatalog(t, &dict.Structure{
		Name:    "s",
		Members: []dict.MemberSpec{{Name: "a", TypeName: "uint8"}},
	})
	_, err := flatten.Flatten(catalog, "nope")
	require.ErrorIs(t, err, dict.UnresolvedTypeError{})
}

func TestFlattenOrderingInvariant(t *testing.T) {
	catalog := newCatalog(t,
		&dict.Structure{
			Name: "inner",
			Members: []dict.MemberSpec{
				{Name: "a", TypeName: "uint8", BitLength: 3},
				{Name: "b", TypeName: "uint8", BitLength: 3},
				{Name: "c", TypeName: "uint32"},
			},
		},
		&dict.Structure{
			Name: "outer",
			Members: []dict.MemberSpec{
				{Name: "xs", TypeName: "inner", ArrayDim: 3},
				{Name: "tail", TypeName: "double"},
			},
		},
	)
	entries, err := flatten.Flatten(catalog, "outer")
	require.NoError(t, err)
	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1], entries[i]
		require.GreaterOrEqual(t, cur.ByteOffset, prev.ByteOffset)
		if prev.StorageUnit != cur.StorageUnit {
			require.GreaterOrEqual(t, cur.ByteOffset, prev.ByteOffset+prev.ByteSize)
		} else {
			require.Equal(t, prev.ByteOffset, cur.ByteOffset)
		}
	}
}
