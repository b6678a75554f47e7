package config

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	SeedsDir      string
	Port          string
	AllowReseed   bool
	Slack         SlackConfig
	Turso         TursoConfig
	FormGuide     FormGuideConfig
}

// SlackConfig configures the optional standings digest notifier. An empty
// token disables Slack entirely.
type SlackConfig struct {
	Token     string
	ChannelID string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// FormGuideConfig points at the external form-guide page. An empty base URL
// disables the collaborator.
type FormGuideConfig struct {
	BaseURL string
}
