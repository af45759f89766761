package profile

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/interop/internal/convert"
	"github.com/funvibe/interop/internal/value"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "profile.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndList(t *testing.T) {
	s := openTemp(t)
	fixed := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	node := convert.NewToI1(convert.WithSiteID("cond"), convert.WithLimit(1))
	for _, v := range []value.Value{value.Int32Val(1), value.BoolVal(true), value.TextVal("AB")} {
		node.Execute(v)
	}
	other := convert.NewToDouble(convert.WithSiteID("ratio"))

	ctx := context.Background()
	run := NewRunID()
	require.NoError(t, s.Record(ctx, run, node.Snapshot(), other.Snapshot()))
	require.NoError(t, s.Record(ctx, NewRunID(), node.Snapshot()))

	rows, err := s.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	first := rows[0]
	assert.Equal(t, run, first.RunID)
	assert.True(t, fixed.Equal(first.RecordedAt))
	assert.Equal(t, "cond", first.Site)
	assert.Equal(t, "i1", first.Target)
	assert.Equal(t, 1, first.Limit)
	assert.Equal(t, convert.StateFull, first.State)
	assert.Equal(t, []string{"int32"}, first.Kinds)
	assert.True(t, first.Megamorphic)
	assert.Equal(t, uint64(2), first.Fallbacks)
	assert.Equal(t, uint64(1), first.Failures)

	assert.Equal(t, "ratio", rows[1].Site)
	assert.Equal(t, convert.StateEmpty, rows[1].State)
	assert.Empty(t, rows[1].Kinds)
	assert.NotEqual(t, run, rows[2].RunID)

	rows, err = s.List(ctx, "ratio")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "double", rows[0].Target)
}

func TestOpenReusesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(context.Background(), "r1", convert.NewToI1(convert.WithSiteID("x")).Snapshot()))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	rows, err := s.List(context.Background(), "x")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestOpenFailure(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "profile.db"))
	assert.Error(t, err)
}
