package layout

import (
	"context"
	"errors"
	"testing"

	"github.com/DrSkyle/stowage/pkg/station"
	"github.com/DrSkyle/stowage/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SaveGetListDelete(t *testing.T) {
	ctx := context.Background()
	blobs := storage.NewLocalStore(t.TempDir())
	s := NewStore(blobs)

	wharf := Layout{
		Name:     "wharf",
		Sunlight: 150,
		Modules: []Entry{
			{Module: "prod_gen_energycells_01", Count: 4},
			{Module: "storage_arg_m_container_01", Count: 1},
		},
	}
	require.NoError(t, s.Save(ctx, wharf))
	require.NoError(t, s.Save(ctx, Layout{Name: "alpha"}))
	// Foreign objects are not layouts.
	require.NoError(t, blobs.Put(ctx, "notes.txt", []byte("x")))
	require.NoError(t, blobs.Put(ctx, "nested/deep.yaml", []byte("name: x")))

	got, err := s.Get(ctx, "wharf")
	require.NoError(t, err)
	assert.Equal(t, wharf, got)

	names, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "wharf"}, names)

	require.NoError(t, s.Delete(ctx, "wharf"))
	_, err = s.Get(ctx, "wharf")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(s.Delete(ctx, "wharf"), ErrNotFound))
}

func TestStore_RejectsBadNames(t *testing.T) {
	s := NewStore(storage.NewLocalStore(t.TempDir()))
	for _, name := range []string{"", "  ", "a/b", `a\b`, "..", "x..y"} {
		assert.ErrorIs(t, s.Save(context.Background(), Layout{Name: name}), ErrInvalidName, name)
		_, err := s.Get(context.Background(), name)
		assert.ErrorIs(t, err, ErrInvalidName, name)
		assert.ErrorIs(t, s.Delete(context.Background(), name), ErrInvalidName, name)
	}
}

func TestParse(t *testing.T) {
	l, err := Parse([]byte(`
name: trade hub
modules:
  - module: storage_arg_l_solid_01
    count: 2
`))
	require.NoError(t, err)
	assert.Equal(t, "trade hub", l.Name)
	assert.Equal(t, []Entry{{Module: "storage_arg_l_solid_01", Count: 2}}, l.Modules)

	_, err = Parse([]byte("modules:\n  - count: 1\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("modules:\n  - module: a\n    count: -1\n"))
	assert.True(t, errors.Is(err, station.ErrInvalidCount))

	_, err = Parse([]byte("modules: [\n"))
	assert.Error(t, err)
}

func TestLoadAndAdd(t *testing.T) {
	st := station.New(nil)
	require.NoError(t, st.Replace([]station.Instance{{ModuleID: "a", Count: 1}}))

	l := Layout{Name: "x", Modules: []Entry{{Module: "a", Count: 2}, {Module: "b", Count: 3}}}

	res, err := Add(context.Background(), st, l)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Incremented)
	assert.Equal(t, 1, res.Appended)

	snap := st.Snapshot()
	require.Len(t, snap.Instances, 2)
	assert.Equal(t, 3, snap.Instances[0].Count)
	assert.Equal(t, 3, snap.Instances[1].Count)

	require.NoError(t, Load(st, l))
	snap = st.Snapshot()
	assert.Equal(t, 2, snap.Instances[0].Count)

	round := FromSnapshot("x", snap, 0)
	assert.Equal(t, l, round)
}
