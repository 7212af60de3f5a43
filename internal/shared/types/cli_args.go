package types

// CLIArgs represents the command-line arguments.
type CLIArgs struct {
	ConfigFile  string
	EnvFile     string
	Month       string
	Year        int
	CenterIDs   []string
	ReportType  string
	Concurrency int
	ReportName  string
	Export      []string
	Dir         string
}
