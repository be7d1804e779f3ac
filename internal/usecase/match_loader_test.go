package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openera/rankings/internal/domain/match"
	"github.com/openera/rankings/internal/infrastructure/repository/memory"
	"github.com/openera/rankings/internal/platform/logging"
)

func newLoader(r *testRepos) *MatchLoader {
	return NewMatchLoader(r.players, r.editions, r.matches, logging.NewNop())
}

func buildMatch(t *testing.T, id uint64, editionID uint32, matchNum uint16, winnerID, loserID uint64) *match.Match {
	t.Helper()
	m, err := match.New(id, editionID, matchNum, match.RoundFinal, 3, nil, false, false, false,
		match.Side{PlayerID: winnerID}, match.Side{PlayerID: loserID})
	require.NoError(t, err)
	return m
}

func TestMatchLoader_RejectsDanglingReferences(t *testing.T) {
	t.Parallel()

	r := newTestRepos(t)
	loader := newLoader(r)

	m := buildMatch(t, 1, 9999, 1, memory.PlayerIDFederer, memory.PlayerIDWawrinka)
	require.ErrorIs(t, loader.Add(context.Background(), m), ErrNotFound)

	m = buildMatch(t, 2, editionIDHalle2015, 1, memory.PlayerIDFederer, 999)
	require.ErrorIs(t, loader.Add(context.Background(), m), ErrNotFound)

	require.ErrorIs(t, loader.Add(context.Background(), nil), ErrInvalidInput)
}

func TestMatchLoader_DirectInsertKeepsNumberUnique(t *testing.T) {
	t.Parallel()

	r := newTestRepos(t)
	loader := newLoader(r)

	require.NoError(t, loader.Add(context.Background(), buildMatch(t, 1, editionIDHalle2015, 7, memory.PlayerIDFederer, memory.PlayerIDWawrinka)))
	err := loader.Add(context.Background(), buildMatch(t, 2, editionIDHalle2015, 7, memory.PlayerIDDjokovic, memory.PlayerIDNadal))
	require.Error(t, err)
}

func TestMatchLoader_BatchDefersNumberCheckToFinish(t *testing.T) {
	t.Parallel()

	r := newTestRepos(t)
	loader := newLoader(r)

	loader.Begin()
	require.NoError(t, loader.Add(context.Background(), buildMatch(t, 1, editionIDHalle2015, 7, memory.PlayerIDFederer, memory.PlayerIDWawrinka)))
	// The duplicate number slips through while the batch is open.
	require.NoError(t, loader.Add(context.Background(), buildMatch(t, 2, editionIDHalle2015, 7, memory.PlayerIDDjokovic, memory.PlayerIDNadal)))

	err := loader.Finish(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "edition 501, match 7")
}

func TestMatchLoader_BatchFinishAcceptsUniqueNumbers(t *testing.T) {
	t.Parallel()

	r := newTestRepos(t)
	loader := newLoader(r)

	loader.Begin()
	require.NoError(t, loader.Add(context.Background(), buildMatch(t, 1, editionIDHalle2015, 1, memory.PlayerIDFederer, memory.PlayerIDWawrinka)))
	// The same number at another edition is fine.
	require.NoError(t, loader.Add(context.Background(), buildMatch(t, 2, editionIDWimbledon2015, 1, memory.PlayerIDDjokovic, memory.PlayerIDNadal)))
	require.NoError(t, loader.Finish(context.Background()))

	// A later Finish without Begin is a no-op.
	require.NoError(t, loader.Finish(context.Background()))

	matches, err := r.matches.List(context.Background())
	require.NoError(t, err)
	require.Len(t, matches, 2)
}
