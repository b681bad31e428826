package types

// CLIArgs represents the command-line arguments shared by every report.
type CLIArgs struct {
	ConfigFile string
	Output     string
	ReportType []string
	Dir        string
	S3URI      string
	AWSProfile string
	Verbose    bool

	RegionName string
	LawdCode   string
	Start      string
	StartYear  int
	End        string
	MinArea    *float64
	MaxArea    *float64
	BuiltAfter int
	StatblID   string
}
