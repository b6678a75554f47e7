package league

import (
	"math/rand"
	"sort"
	"strconv"
	"time"
)

const byeTeam = -1

type pairing struct {
	Home int
	Away int
}

// roundRobin builds a complete single round-robin using the circle method:
// the first participant stays fixed, the rest rotate by one after every
// round, and home/away flips on odd rounds to balance home-game counts.
// An odd participant count gets a bye slot that is stripped from the output.
func roundRobin(teamIDs []int) [][]pairing {
	ids := make([]int, len(teamIDs))
	copy(ids, teamIDs)
	if len(ids)%2 == 1 {
		ids = append(ids, byeTeam)
	}
	n := len(ids)

	rounds := make([][]pairing, 0, n-1)
	for i := 0; i < n-1; i++ {
		var pairings []pairing
		for j := 0; j < n/2; j++ {
			home, away := ids[j], ids[n-1-j]
			if home == byeTeam || away == byeTeam {
				continue
			}
			if i%2 == 0 {
				pairings = append(pairings, pairing{Home: home, Away: away})
			} else {
				pairings = append(pairings, pairing{Home: away, Away: home})
			}
		}
		rounds = append(rounds, pairings)

		// Rotate everything but the fixed first slot.
		rotated := make([]int, 0, n)
		rotated = append(rotated, ids[0], ids[n-1])
		rotated = append(rotated, ids[1:n-1]...)
		ids = rotated
	}
	return rounds
}

// buildRoundRobinSchedule expands a round-robin into dated fixtures with
// pre-drawn scores. Rounds are a week apart. The home side gets a +1 goal
// bonus when the advantage draw exceeds 0.6.
func buildRoundRobinSchedule(teamIDs []int, rng *rand.Rand, startDate time.Time) []fixture {
	rounds := roundRobin(teamIDs)
	var fixtures []fixture
	for idx, pairings := range rounds {
		roundDate := startDate.AddDate(0, 0, 7*idx)
		for _, p := range pairings {
			homeAdvantage := rng.Float64()
			homeGoals := rng.Intn(4)
			if homeAdvantage > 0.6 {
				homeGoals++
			}
			awayGoals := rng.Intn(4)
			fixtures = append(fixtures, fixture{
				Round:     strconv.Itoa(idx + 1),
				Date:      roundDate,
				Kickoff:   kickoffTimes[rng.Intn(len(kickoffTimes))],
				Home:      p.Home,
				Away:      p.Away,
				HomeGoals: homeGoals,
				AwayGoals: awayGoals,
			})
		}
	}
	return fixtures
}

// buildIntermedioSchedule splits the teams into two groups by sorted id,
// plays an independent round-robin within each, and closes with a single
// Final pairing each group's first team, dated after all group rounds.
func buildIntermedioSchedule(teamIDs []int, season int, rng *rand.Rand) []fixture {
	sortedIDs := make([]int, len(teamIDs))
	copy(sortedIDs, teamIDs)
	sort.Ints(sortedIDs)
	half := len(sortedIDs) / 2
	groupA := sortedIDs[:half]
	groupB := sortedIDs[half:]

	startDate := time.Date(season, time.June, 5, 0, 0, 0, 0, time.UTC)
	var fixtures []fixture
	for _, group := range [][]int{groupA, groupB} {
		rounds := roundRobin(group)
		for idx, pairings := range rounds {
			roundDate := startDate.AddDate(0, 0, 7*idx)
			for _, p := range pairings {
				fixtures = append(fixtures, fixture{
					Round:     strconv.Itoa(idx + 1),
					Date:      roundDate,
					Kickoff:   kickoffTimes[rng.Intn(len(kickoffTimes))],
					Home:      p.Home,
					Away:      p.Away,
					HomeGoals: rng.Intn(4),
					AwayGoals: rng.Intn(4),
				})
			}
		}
	}

	fixtures = append(fixtures, fixture{
		Round:     "Final",
		Date:      startDate.AddDate(0, 0, 7*8),
		Kickoff:   kickoffTimes[rng.Intn(len(kickoffTimes))],
		Home:      groupA[0],
		Away:      groupB[0],
		HomeGoals: rng.Intn(4),
		AwayGoals: rng.Intn(4),
	})
	return fixtures
}

// stageFixtures holds one stage's generated fixture block. Stages are kept
// in a slice, not a map, so the PRNG call order stays stable across seeds.
type stageFixtures struct {
	Stage    string
	Fixtures []fixture
}

// generateFixtureBlocks builds the full season: two independent single
// round-robins for apertura and clausura plus the split-group intermedio.
func generateFixtureBlocks(teamIDs []int, season int, rng *rand.Rand) []stageFixtures {
	apertura := buildRoundRobinSchedule(teamIDs, rng, time.Date(season, time.February, 10, 0, 0, 0, 0, time.UTC))
	clausura := buildRoundRobinSchedule(teamIDs, rng, time.Date(season, time.August, 10, 0, 0, 0, 0, time.UTC))
	intermedio := buildIntermedioSchedule(teamIDs, season, rng)
	return []stageFixtures{
		{Stage: StageApertura, Fixtures: apertura},
		{Stage: StageClausura, Fixtures: clausura},
		{Stage: StageIntermedio, Fixtures: intermedio},
	}
}
