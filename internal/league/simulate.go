package league

import (
	"math"
	"math/rand"
)

type eventRow struct {
	MatchID  int64
	Minute   int
	TeamID   int
	PlayerID int64
	Type     string
	Detail   string
}

type statRow struct {
	MatchID       int64
	PlayerID      int64
	TeamID        int
	Minutes       int
	Goals         int
	Assists       int
	Shots         int
	ShotsOnTarget int
	XG            float64
	XA            float64
	Yellow        int
	Red           int
	Starts        int
}

// allocation counts per player while remembering first-seen order, so that
// iterating it is deterministic for a given PRNG sequence.
type allocation struct {
	counts map[int64]int
	order  []int64
}

func newAllocation() *allocation {
	return &allocation{counts: map[int64]int{}}
}

func (a *allocation) add(playerID int64) {
	if _, ok := a.counts[playerID]; !ok {
		a.order = append(a.order, playerID)
	}
	a.counts[playerID]++
}

func (a *allocation) get(playerID int64) int {
	return a.counts[playerID]
}

// attendanceRange returns the home team's attendance bounds. Large-market
// clubs draw big crowds, the solid mid-tier a bit less, everyone else is
// anywhere from near-empty to modest.
func attendanceRange(teamID int) (int, int) {
	switch teamID {
	case 1, 2:
		return 18000, 35000
	case 3, 4, 5, 6, 10:
		return 8000, 18000
	default:
		return 500, 12000
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// randBetween draws uniformly from [lo, hi] inclusive.
func randBetween(rng *rand.Rand, lo, hi int) int {
	return lo + rng.Intn(hi-lo+1)
}

// sample draws k distinct elements from pool without replacement.
func sample(rng *rand.Rand, pool []int64, k int) []int64 {
	ids := make([]int64, len(pool))
	copy(ids, pool)
	if k > len(ids) {
		k = len(ids)
	}
	for i := 0; i < k; i++ {
		j := i + rng.Intn(len(ids)-i)
		ids[i], ids[j] = ids[j], ids[i]
	}
	return ids[:k]
}

// lineupForTeam picks the starting XI and up to three bench substitutes.
// A pool of eleven or fewer all start with no bench.
func lineupForTeam(teamID int, playerMap map[int][]int64, rng *rand.Rand) (starters, bench []int64) {
	players := playerMap[teamID]
	if len(players) <= 11 {
		return players, nil
	}
	starters = sample(rng, players, 11)
	inLineup := make(map[int64]bool, len(starters))
	for _, id := range starters {
		inLineup[id] = true
	}
	var candidates []int64
	for _, id := range players {
		if !inLineup[id] {
			candidates = append(candidates, id)
		}
	}
	bench = sample(rng, candidates, 3)
	return starters, bench
}

// allocateGoals spreads the team's goals over the lineup, one independent
// draw per goal. An empty lineup safely allocates nothing.
func allocateGoals(lineup []int64, goals int, rng *rand.Rand) *allocation {
	result := newAllocation()
	if len(lineup) == 0 || goals == 0 {
		return result
	}
	for i := 0; i < goals; i++ {
		result.add(lineup[rng.Intn(len(lineup))])
	}
	return result
}

// allocateAssists credits one assist per goal to a teammate of the scorer,
// when any eligible teammate exists.
func allocateAssists(lineup []int64, goals *allocation, rng *rand.Rand) *allocation {
	assists := newAllocation()
	for _, scorer := range goals.order {
		for i := 0; i < goals.get(scorer); i++ {
			var candidates []int64
			for _, id := range lineup {
				if id != scorer {
					candidates = append(candidates, id)
				}
			}
			if len(candidates) == 0 {
				continue
			}
			assists.add(candidates[rng.Intn(len(candidates))])
		}
	}
	return assists
}

// randomCards draws a card count (yellows 0-3, reds 0-1) and hands each to
// a uniformly chosen lineup player; recipients may repeat.
func randomCards(lineup []int64, rng *rand.Rand, cardType string) *allocation {
	max := 3
	if cardType == "red" {
		max = 1
	}
	count := randBetween(rng, 0, max)
	result := newAllocation()
	if len(lineup) == 0 {
		return result
	}
	for i := 0; i < count; i++ {
		result.add(lineup[rng.Intn(len(lineup))])
	}
	return result
}

// eventsForTeam emits goal, card and substitution events at plausible
// minutes: goals 5-90, yellows 10-88, reds 30-90, subs 55-75.
func eventsForTeam(matchID int64, teamID int, goals, yellows, reds *allocation, bench []int64, rng *rand.Rand) []eventRow {
	var events []eventRow
	for _, playerID := range goals.order {
		for i := 0; i < goals.get(playerID); i++ {
			events = append(events, eventRow{MatchID: matchID, Minute: randBetween(rng, 5, 90), TeamID: teamID, PlayerID: playerID, Type: "goal"})
		}
	}
	for _, playerID := range yellows.order {
		for i := 0; i < yellows.get(playerID); i++ {
			events = append(events, eventRow{MatchID: matchID, Minute: randBetween(rng, 10, 88), TeamID: teamID, PlayerID: playerID, Type: "yellow"})
		}
	}
	for _, playerID := range reds.order {
		for i := 0; i < reds.get(playerID); i++ {
			events = append(events, eventRow{MatchID: matchID, Minute: randBetween(rng, 30, 90), TeamID: teamID, PlayerID: playerID, Type: "red"})
		}
	}
	for _, playerID := range bench {
		events = append(events, eventRow{MatchID: matchID, Minute: randBetween(rng, 55, 75), TeamID: teamID, PlayerID: playerID, Type: "sub_on"})
	}
	return events
}

// playerStatRows derives per-player match statistics. The team's xG is
// split evenly across everyone who played; starters get extra noise on
// their share, bench players get 80% of it.
func playerStatRows(matchID int64, teamID int, lineup, bench []int64, goals, assists, yellows, reds *allocation, teamXG float64, rng *rand.Rand) []statRow {
	var rows []statRow
	totalPlayers := len(lineup) + len(bench)
	var perPlayerXG float64
	if totalPlayers > 0 {
		perPlayerXG = teamXG / float64(totalPlayers)
	}
	for _, playerID := range lineup {
		g := goals.get(playerID)
		shots := g + randBetween(rng, 0, 3)
		shotsOn := randBetween(rng, 0, shots)
		if shotsOn < g {
			shotsOn = g
		}
		rows = append(rows, statRow{
			MatchID:       matchID,
			PlayerID:      playerID,
			TeamID:        teamID,
			Minutes:       randBetween(rng, 70, 95),
			Goals:         g,
			Assists:       assists.get(playerID),
			Shots:         shots,
			ShotsOnTarget: shotsOn,
			XG:            round2(perPlayerXG + rng.Float64()*0.3),
			XA:            round2(float64(assists.get(playerID)) * 0.15),
			Yellow:        yellows.get(playerID),
			Red:           reds.get(playerID),
			Starts:        1,
		})
	}
	for _, playerID := range bench {
		g := goals.get(playerID)
		shots := g + randBetween(rng, 0, 2)
		shotsOn := randBetween(rng, 0, shots)
		if shotsOn < g {
			shotsOn = g
		}
		rows = append(rows, statRow{
			MatchID:       matchID,
			PlayerID:      playerID,
			TeamID:        teamID,
			Minutes:       randBetween(rng, 10, 35),
			Goals:         g,
			Assists:       assists.get(playerID),
			Shots:         shots,
			ShotsOnTarget: shotsOn,
			XG:            round2(perPlayerXG * 0.8),
			XA:            round2(float64(assists.get(playerID)) * 0.12),
			Yellow:        yellows.get(playerID),
			Red:           reds.get(playerID),
			Starts:        0,
		})
	}
	return rows
}

// simulateSide runs the post-score simulation for one side of a fixture:
// lineup selection, goal/assist/card allocation, events and stat rows.
func simulateSide(matchID int64, teamID, teamGoals int, teamXG float64, playerMap map[int][]int64, rng *rand.Rand) ([]eventRow, []statRow) {
	lineup, bench := lineupForTeam(teamID, playerMap, rng)
	goals := allocateGoals(lineup, teamGoals, rng)
	assists := allocateAssists(lineup, goals, rng)
	yellows := randomCards(lineup, rng, "yellow")
	reds := randomCards(lineup, rng, "red")
	events := eventsForTeam(matchID, teamID, goals, yellows, reds, bench, rng)
	stats := playerStatRows(matchID, teamID, lineup, bench, goals, assists, yellows, reds, teamXG, rng)
	return events, stats
}
