package app

// App carries global CLI state into subcommand runners.
type App struct {
	Verbose bool
}
