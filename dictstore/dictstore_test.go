package dictstore_test

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/wkalt/tlmdict/dict"
	"github.com/wkalt/tlmdict/dictstore"
	"github.com/wkalt/tlmdict/links"
)

func newStore(t *testing.T) *dictstore.Store {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	store, err := dictstore.NewStore(db)
	require.NoError(t, err)
	return store
}

func TestCatalogRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	require.NoError(t, store.PutPrimitive(ctx, dict.Primitive{
		Name: "uint24", Size: 3, Category: dict.UnsignedInt,
	}))
	header := &dict.Structure{
		Name: "header",
		Members: []dict.MemberSpec{
			{Name: "stream_id", TypeName: "uint16"},
			{Name: "sequence", TypeName: "uint16"},
		},
	}
	packet := &dict.Structure{
		Name:      "packet",
		Kind:      dict.Telemetry,
		MsgIDName: "PKT_MID",
		Members: []dict.MemberSpec{
			{Name: "hdr", TypeName: "header"},
			{Name: "reading", TypeName: "uint24", Units: "volts", Description: "bus voltage"},
			{Name: "flags", TypeName: "uint8", BitLength: 3, Enumeration: "FLAG_ENUM"},
			{Name: "spare", TypeName: "uint8", BitLength: 5},
			{Name: "temps", TypeName: "int16", ArrayDim: 4},
		},
	}
	require.NoError(t, store.PutStructure(ctx, 0, header))
	require.NoError(t, store.PutStructure(ctx, 1, packet))

	catalog, err := store.LoadCatalog(ctx)
	require.NoError(t, err)

	p, ok := catalog.Primitive("uint24")
	require.True(t, ok)
	require.Equal(t, dict.Primitive{Name: "uint24", Size: 3, Category: dict.UnsignedInt}, p)

	def, ok := catalog.Structure("packet")
	require.True(t, ok)
	require.Equal(t, packet.MsgIDName, def.MsgIDName)
	require.Equal(t, packet.Members, def.Members)

	// Declaration order survives the round trip.
	require.Equal(t, []string{"header", "packet"}, catalog.Structures())
}

func TestStreamRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	stream := links.Stream{
		Name: "realtime",
		Messages: []links.Message{
			{
				Name: "hk", IDName: "HK_MID", ID: "0x089B", HeaderSize: 12, Rate: 4,
				Links: []links.Link{
					{Name: "fast", Root: "packet", Rate: 4, Variables: []string{"flags", "reading"}},
					{Name: "slow", Root: "packet", Rate: 1, Variables: []string{"temps[0]"}},
				},
			},
			{Name: "diag", IDName: "DIAG_MID", ID: "0x089C", HeaderSize: 12, Rate: 1},
		},
	}
	require.NoError(t, store.PutStream(ctx, stream))

	loaded, err := store.LoadStreams(ctx)
	require.NoError(t, err)
	require.Equal(t, []links.Stream{stream}, loaded)
}

func TestLoadEmptyStore(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	catalog, err := store.LoadCatalog(ctx)
	require.NoError(t, err)
	require.Empty(t, catalog.Structures())
	_, ok := catalog.Primitive("uint32")
	require.True(t, ok)

	streams, err := store.LoadStreams(ctx)
	require.NoError(t, err)
	require.Empty(t, streams)
}

func TestInitializeIsIdempotent(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = dictstore.NewStore(db)
	require.NoError(t, err)
	_, err = dictstore.NewStore(db)
	require.NoError(t, err)

	var count int
	require.NoError(t, db.QueryRow("select count(*) from schema_migrations").Scan(&count))
	require.Equal(t, 1, count)
}
