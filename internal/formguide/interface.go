package formguide

import "context"

// FormGuide fetches recent-results form for a team from an external
// provider. It is an alternative data producer; nothing in the seeded
// store depends on it.
type FormGuide interface {
	RecentForm(ctx context.Context, team string) (*Guide, error)
}
