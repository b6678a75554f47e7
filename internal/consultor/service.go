package consultor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/elsastre/auf-analyzer/internal/league"
)

// ErrTeamNotFound indicates a team name could not be resolved against the
// known clubs.
var ErrTeamNotFound = errors.New("team not found")

// evenThreshold is the positioning-score gap below which a matchup is
// called even rather than naming a favorite.
const evenThreshold = 5.0

var _ Consultor = (*service)(nil)

// New creates a new consultor service over the given store.
func New(store league.LeagueStore) Consultor {
	return &service{store: store}
}

// Compare resolves both team names, loads their summaries and builds the
// templated matchup advice.
func (s *service) Compare(season int, stage string, teamA, teamB string) (*Advice, error) {
	nameA, err := s.resolveTeam(teamA)
	if err != nil {
		return nil, err
	}
	nameB, err := s.resolveTeam(teamB)
	if err != nil {
		return nil, err
	}

	standingA, err := s.store.SummaryForTeam(season, stage, nameA)
	if err != nil {
		return nil, fmt.Errorf("failed to load summary for %q: %w", nameA, err)
	}
	standingB, err := s.store.SummaryForTeam(season, stage, nameB)
	if err != nil {
		return nil, fmt.Errorf("failed to load summary for %q: %w", nameB, err)
	}
	if standingA == nil || standingB == nil {
		return nil, fmt.Errorf("%w: no standings for %s vs %s in %s %d", ErrTeamNotFound, nameA, nameB, stage, season)
	}

	advice := &Advice{
		Season: season,
		Stage:  stage,
		TeamA:  standingA,
		TeamB:  standingB,
	}

	scoreA := positioningScore(standingA)
	scoreB := positioningScore(standingB)
	log.Debug("Matchup scored", "teamA", nameA, "scoreA", scoreA, "teamB", nameB, "scoreB", scoreB)

	diff := scoreA - scoreB
	if diff < 0 {
		diff = -diff
	}
	if diff < evenThreshold {
		advice.Even = true
		advice.Recommendation = buildEvenRecommendation(standingA, standingB)
		return advice, nil
	}

	favorite, underdog := standingA, standingB
	if scoreB > scoreA {
		favorite, underdog = standingB, standingA
	}
	advice.Favorite = favorite.Team
	advice.Recommendation = buildFavoriteRecommendation(favorite, underdog)
	return advice, nil
}

// positioningScore weighs points most, then goal difference, then attack.
func positioningScore(t *league.TeamStanding) float64 {
	return float64(t.Pts)*1.5 + float64(t.GD) + float64(t.GF)*0.5
}

func (s *service) resolveTeam(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("%w: empty team name", ErrTeamNotFound)
	}
	matches, err := s.store.SearchTeams(name)
	if err != nil {
		return "", fmt.Errorf("failed to search teams: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: %q", ErrTeamNotFound, name)
	}
	return matches[0], nil
}

func buildEvenRecommendation(a, b *league.TeamStanding) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Duelo parejo entre %s y %s. ", a.Team, b.Team)
	fmt.Fprintf(&sb, "%s suma %d puntos (racha %s), %s suma %d (racha %s). ",
		a.Team, a.Pts, formOrNA(a.Last5), b.Team, b.Pts, formOrNA(b.Last5))
	sb.WriteString("Partido disputado, puede ir para cualquier lado.")
	if hint := disciplineHint(a, b); hint != "" {
		sb.WriteString(" ")
		sb.WriteString(hint)
	}
	return sb.String()
}

func buildFavoriteRecommendation(favorite, underdog *league.TeamStanding) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s llega como favorito: %d puntos y diferencia de gol %+d, contra %d puntos de %s. ",
		favorite.Team, favorite.Pts, favorite.GD, underdog.Pts, underdog.Team)
	fmt.Fprintf(&sb, "Racha reciente: %s.", formOrNA(favorite.Last5))
	if hint := formHint(favorite); hint != "" {
		sb.WriteString(" ")
		sb.WriteString(hint)
	}
	if hint := disciplineHint(favorite, underdog); hint != "" {
		sb.WriteString(" ")
		sb.WriteString(hint)
	}
	return sb.String()
}

// disciplineHint flags the dirtier side when the card totals differ.
func disciplineHint(a, b *league.TeamStanding) string {
	cardsA := a.Yellow + a.Red
	cardsB := b.Yellow + b.Red
	switch {
	case cardsA > cardsB:
		return fmt.Sprintf("Ojo con la disciplina de %s: %d amarillas y %d rojas.", a.Team, a.Yellow, a.Red)
	case cardsB > cardsA:
		return fmt.Sprintf("Ojo con la disciplina de %s: %d amarillas y %d rojas.", b.Team, b.Yellow, b.Red)
	default:
		return ""
	}
}

// formHint comments on the favorite's recent run when it is one-sided.
func formHint(t *league.TeamStanding) string {
	wins := strings.Count(t.Last5, "W")
	losses := strings.Count(t.Last5, "L")
	switch {
	case wins >= 4:
		return fmt.Sprintf("%s atraviesa un gran momento.", t.Team)
	case losses >= 3:
		return fmt.Sprintf("Aunque %s viene de una mala racha.", t.Team)
	default:
		return ""
	}
}

func formOrNA(last5 string) string {
	if last5 == "" {
		return "N/A"
	}
	return last5
}
