package repository_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/cancha/internal/adapters/repository"
	"github.com/okian/cancha/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *repository.SQLiteStore {
	t.Helper()
	store, err := repository.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenSQLite_RequiresPath(t *testing.T) {
	_, err := repository.OpenSQLite("  ")
	require.Error(t, err)
}

func TestSQLiteStore_PlayerRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openSQLite(t)

	want := player("p1", "Obdulio", 74)
	want.Position = model.Defender
	want.Attributes.Def = 88
	want.HasBeenEvaluated = true
	want.OriginalOvr = 70
	require.NoError(t, store.PutPlayer(ctx, want))

	got, err := store.GetPlayer(ctx, "p1")
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("player mismatch (-want +got):\n%s", diff)
	}

	want.Name = "Obdulio Varela"
	want.Ovr = 75
	require.NoError(t, store.PutPlayer(ctx, want))
	got, err = store.GetPlayer(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Obdulio Varela", got.Name)
	assert.Equal(t, 75, got.Ovr)
	assert.Equal(t, 1, store.Count(ctx))

	_, err = store.GetPlayer(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSQLiteStore_Ranking(t *testing.T) {
	ctx := context.Background()
	store := openSQLite(t)

	for _, p := range []*model.Player{
		player("p1", "beto", 70),
		player("p22", "Ana", 70),
		player("p333", "Zoe", 85),
		player("p4444", "carla", 60),
	} {
		require.NoError(t, store.PutPlayer(ctx, p))
	}

	top, err := store.TopPlayers(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"p333", "p22", "p1"}, ids(top))

	all, err := store.ListPlayers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p22", "p333", "p4444"}, ids(all))

	_, err = store.TopPlayers(ctx, 0)
	assert.ErrorIs(t, err, repository.ErrInvalidLimit)
}

func TestSQLiteStore_RankingTiesMatchMemory(t *testing.T) {
	ctx := context.Background()
	sqlite := openSQLite(t)
	memory := repository.NewMemoryStore()

	for _, p := range []*model.Player{
		player("a1", "Ángel", 70),
		player("a2", "álvaro", 70),
		player("a3", "Bruno", 70),
		player("a4", "Zoe", 90),
		player("a5", "Eva", 50),
	} {
		require.NoError(t, sqlite.PutPlayer(ctx, p))
		require.NoError(t, memory.PutPlayer(ctx, p))
	}

	for n := 1; n <= 6; n++ {
		fromSQL, err := sqlite.TopPlayers(ctx, n)
		require.NoError(t, err)
		fromMemory, err := memory.TopPlayers(ctx, n)
		require.NoError(t, err)
		assert.Equal(t, ids(fromMemory), ids(fromSQL), "n=%d", n)
	}

	top, err := sqlite.TopPlayers(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"a4", "a3", "a2"}, ids(top))
}

func TestSQLiteStore_MatchRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openSQLite(t)

	a, b := player("a", "Uno", 70), player("b", "Dos", 68)
	want := match("m1", a, b)
	require.NoError(t, store.PutMatch(ctx, want))

	got, err := store.GetMatch(ctx, "m1")
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("match mismatch (-want +got):\n%s", diff)
	}

	list, err := store.ListMatches(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = store.GetMatch(ctx, "nope")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSQLiteStore_SaveEvaluation(t *testing.T) {
	ctx := context.Background()
	store := openSQLite(t)

	a, b := player("a", "Uno", 70), player("b", "Dos", 68)
	require.NoError(t, store.PutPlayer(ctx, a))
	require.NoError(t, store.PutPlayer(ctx, b))
	m := match("m1", a, b)
	require.NoError(t, store.PutMatch(ctx, m))

	t.Run("missing player rolls back", func(t *testing.T) {
		grown := *a
		grown.Ovr = 80
		err := store.SaveEvaluation(ctx, evaluated(m, epoch), []*model.Player{&grown, player("ghost", "Nadie", 1)})
		assert.ErrorIs(t, err, repository.ErrNotFound)

		got, err := store.GetMatch(ctx, "m1")
		require.NoError(t, err)
		assert.Equal(t, model.MatchGenerated, got.Status)
		p, err := store.GetPlayer(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, 70, p.Ovr)
	})

	t.Run("applies once", func(t *testing.T) {
		grown := *a
		grown.Attributes.Pas = 72
		grown.Ovr = 71
		grown.HasBeenEvaluated = true
		grown.OriginalOvr = 70
		require.NoError(t, store.SaveEvaluation(ctx, evaluated(m, epoch), []*model.Player{&grown}))

		got, err := store.GetMatch(ctx, "m1")
		require.NoError(t, err)
		assert.Equal(t, model.MatchEvaluated, got.Status)
		require.NotNil(t, got.EvaluatedAt)
		assert.True(t, got.EvaluatedAt.Equal(epoch))

		p, err := store.GetPlayer(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, 72, p.Attributes.Pas)
		assert.Equal(t, 1, p.Growth())

		err = store.SaveEvaluation(ctx, evaluated(m, epoch), []*model.Player{&grown})
		assert.ErrorIs(t, err, repository.ErrConflict)
	})

	t.Run("unknown match", func(t *testing.T) {
		err := store.SaveEvaluation(ctx, evaluated(match("m9", a, b), epoch), nil)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestSQLiteStore_File(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cancha.db")

	store, err := repository.OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, store.PutPlayer(ctx, player("p1", name(1), 66)))
	require.NoError(t, store.Close())

	reopened, err := repository.OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, 1, reopened.Count(ctx))
}
