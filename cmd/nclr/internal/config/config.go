// Package config defines the global CLI flags shared across nclr's run,
// independent of per-run Execution Plan flags (those live on the root CLI
// struct in internal/cli, since they feed policy.Request rather than
// logging/output plumbing).
package config

// GlobalConfig holds process-wide concerns: logging verbosity and format.
// Embedded into the root CLI struct.
type GlobalConfig struct {
	Debug    bool   `name:"debug" help:"Enable debug logging and caller reporting."`
	LogLevel string `name:"log-level" enum:"trace,debug,info,warn,error,fatal" default:"info" help:"Minimum log level."`
	Pretty   bool   `name:"pretty" negatable:"" default:"true" help:"Human-readable log output (disable for JSON)."`
}
