package consultor

// Consultor compares two teams over one (season, stage) and produces
// templated advice.
type Consultor interface {
	Compare(season int, stage string, teamA, teamB string) (*Advice, error)
}
