package config

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	DB                string // path to the sqlite database file
	LogLevel          string // sets the log level (zap log level values)
	LogFormat         string // text vs json
	LogConfig         string // zapfilter rules or path to a file with rules
	EnableTelemetry   bool   // enable telemetry
	TelemetryOutput   string // file receiving telemetry data, stderr if empty
	TelemetryInterval string // export interval for metrics
	IfLoaded          string // policy for imports when data is already loaded (replace, reject)
	RebuildSchedule   string // cron spec for full output rebuilds, disabled if empty
	RebuildOnWrite    bool   // rebuild the output row after each write
	HTTPAddr          string // listen addr for the http query server
	DNFSort           bool   // order lists by dnf state
)
