package consultor_test

import (
	"testing"

	"github.com/elsastre/auf-analyzer/internal/consultor"
	"github.com/elsastre/auf-analyzer/internal/league"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeWithStandings(standings map[string]*league.TeamStanding) *league.MockStore {
	store := league.NewMock()
	store.SearchTeamsFunc = func(query string) ([]string, error) {
		for name := range standings {
			if name == query {
				return []string{name}, nil
			}
		}
		return nil, nil
	}
	store.SummaryForTeamFunc = func(season int, stage string, team string) (*league.TeamStanding, error) {
		return standings[team], nil
	}
	return store
}

func TestCompareNamesClearFavorite(t *testing.T) {
	store := storeWithStandings(map[string]*league.TeamStanding{
		"Nacional": {Team: "Nacional", Pts: 35, GD: 18, GF: 30, GA: 12, Yellow: 20, Red: 1, Last5: "WWWWD"},
		"Progreso": {Team: "Progreso", Pts: 12, GD: -10, GF: 11, GA: 21, Yellow: 31, Red: 4, Last5: "LLDLL"},
	})
	svc := consultor.New(store)

	advice, err := svc.Compare(2024, league.StageApertura, "Nacional", "Progreso")
	require.NoError(t, err)

	assert.False(t, advice.Even)
	assert.Equal(t, "Nacional", advice.Favorite)
	assert.Contains(t, advice.Recommendation, "Nacional llega como favorito")
	assert.Contains(t, advice.Recommendation, "gran momento")
	assert.Contains(t, advice.Recommendation, "disciplina de Progreso")
}

func TestCompareEvenMatchup(t *testing.T) {
	store := storeWithStandings(map[string]*league.TeamStanding{
		"Nacional": {Team: "Nacional", Pts: 30, GD: 10, GF: 25, Yellow: 18, Last5: "WWDWL"},
		"Peñarol":  {Team: "Peñarol", Pts: 30, GD: 11, GF: 24, Yellow: 22, Last5: "WDWWL"},
	})
	svc := consultor.New(store)

	advice, err := svc.Compare(2024, league.StageApertura, "Nacional", "Peñarol")
	require.NoError(t, err)

	assert.True(t, advice.Even)
	assert.Empty(t, advice.Favorite)
	assert.Contains(t, advice.Recommendation, "Duelo parejo")
}

func TestCompareUnknownTeam(t *testing.T) {
	store := storeWithStandings(map[string]*league.TeamStanding{
		"Nacional": {Team: "Nacional", Pts: 30},
	})
	svc := consultor.New(store)

	_, err := svc.Compare(2024, league.StageApertura, "Nacional", "Real Madrid")
	require.ErrorIs(t, err, consultor.ErrTeamNotFound)

	_, err = svc.Compare(2024, league.StageApertura, "", "Nacional")
	require.ErrorIs(t, err, consultor.ErrTeamNotFound)
}

func TestCompareMissingStandings(t *testing.T) {
	store := league.NewMock()
	store.SearchTeamsFunc = func(query string) ([]string, error) {
		return []string{query}, nil
	}
	store.SummaryForTeamFunc = func(season int, stage string, team string) (*league.TeamStanding, error) {
		return nil, nil
	}
	svc := consultor.New(store)

	_, err := svc.Compare(1999, league.StageApertura, "Nacional", "Peñarol")
	require.ErrorIs(t, err, consultor.ErrTeamNotFound)
}
