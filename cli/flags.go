package cli

var (
	verbose bool

	// for server start and replay
	configPath string
)
