package repo

import (
	"context"
	"testing"

	"Gaspipe/internal/calc/gas"

	"github.com/ansel1/merry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SegmentStore {
	t.Helper()
	db, err := Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := NewSegmentStore("sqlite", db)
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func seed(t *testing.T, s *SegmentStore, segs ...gas.Segment) []int64 {
	t.Helper()
	var ids []int64
	for _, seg := range segs {
		id, err := s.InsertSegment(context.Background(), seg)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func TestGasSegments(t *testing.T) {
	s := newTestStore(t)
	ids := seed(t, s,
		gas.Segment{SystemType: "Natural Gas", FlowMBH: 100, DiameterFt: 1.0 / 12},
		gas.Segment{SystemType: "Domestic Hot Water", FlowMBH: 0, DiameterFt: 0.5 / 12},
		gas.Segment{SystemType: "GAS - Medium Pressure", FlowMBH: 40, DiameterFt: 0.75 / 12},
	)

	all, err := s.GasSegments(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, ids[0], all[0].ID)
	assert.Equal(t, 100.0, all[0].FlowMBH)
	assert.Equal(t, ids[2], all[1].ID)

	selected, err := s.GasSegments(context.Background(), []int64{ids[1], ids[2], 999})
	require.NoError(t, err)
	require.Len(t, selected, 1)
	assert.Equal(t, ids[2], selected[0].ID)
}

func TestWithTx(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ids := seed(t, s, gas.Segment{SystemType: "gas", FlowMBH: 10, DiameterFt: 0.1})

	err := s.WithTx(ctx, func(w Writer) error {
		return w.SetDiameter(ctx, ids[0], 0.25)
	})
	require.NoError(t, err)
	seg, err := s.Segment(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, 0.25, seg.DiameterFt)

	err = s.WithTx(ctx, func(w Writer) error {
		require.NoError(t, w.SetDiameter(ctx, ids[0], 0.5))
		return w.SetDiameter(ctx, 12345, 0.5)
	})
	require.Error(t, err)
	seg, err = s.Segment(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, 0.25, seg.DiameterFt, "failed transaction rolls back")
}

func TestSegmentNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Segment(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, 404, merry.HTTPCode(err))
}

func TestOpenUnsupported(t *testing.T) {
	_, err := Open("mysql", "dsn")
	assert.Error(t, err)
}

func TestUserStore(t *testing.T) {
	db, err := Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	users := NewUserStore("sqlite", db)
	require.NoError(t, users.Migrate(ctx))

	id, err := users.CreateUser(ctx, "engineer", "eng@example.com", "hash")
	require.NoError(t, err)

	got, hash, err := users.GetBylogin(ctx, "engineer")
	require.NoError(t, err)
	assert.Equal(t, id, got)
	assert.Equal(t, "hash", hash)

	_, _, err = users.GetBylogin(ctx, "nobody")
	assert.True(t, merry.Is(err, ErrUserNotFound))

	_, err = users.CreateUser(ctx, "engineer", "other@example.com", "hash")
	assert.Error(t, err)

	require.NoError(t, users.UpdateProfile(ctx, id, "lead@example.com", "Acme Mechanical"))
	prof, err := users.GetProfileByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, Profile{ID: id, Login: "engineer", Email: "lead@example.com", Company: "Acme Mechanical"}, prof)

	_, err = users.GetProfileByID(ctx, id+1)
	assert.True(t, merry.Is(err, ErrProfileNotFound))
	assert.True(t, merry.Is(users.UpdateProfile(ctx, id+1, "x@example.com", ""), ErrProfileNotFound))
}
