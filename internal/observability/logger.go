package observability

import (
	"fmt"
	"os"
	"strings"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/fulmenhq/gofulmen/logging"
	"go.uber.org/zap"
)

// Logger is the logging surface engine components depend on. Both the
// gofulmen loggers and *zap.Logger satisfy it.
type Logger interface {
	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
}

var (
	_ Logger = (*logging.Logger)(nil)
	_ Logger = (*zap.Logger)(nil)
)

var (
	// CLILogger is used for CLI commands (SIMPLE profile)
	CLILogger *logging.Logger

	// ServerLogger is used for HTTP server (STRUCTURED profile)
	ServerLogger *logging.Logger
)

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return zap.NewNop()
}

// Default returns the server logger if initialized, then the CLI logger,
// then a no-op logger.
func Default() Logger {
	if ServerLogger != nil {
		return ServerLogger
	}
	if CLILogger != nil {
		return CLILogger
	}
	return Nop()
}

// Or returns l, or Default when l is nil.
func Or(l Logger) Logger {
	if l != nil {
		return l
	}
	return Default()
}

// InitCLILogger installs the human-readable CLI logger. verbose lowers the
// level to DEBUG.
func InitCLILogger(serviceName string, verbose bool) {
	logger, err := logging.NewCLI(serviceName)
	if err != nil {
		fatal("initialize CLI logger", err)
	}
	if verbose {
		logger.SetLevel(logging.DEBUG)
	}
	CLILogger = logger
}

// InitServerLogger installs the JSON logger used by serve. Every line
// carries a correlation ID and, when given, the telemetry namespace.
func InitServerLogger(serviceName, logLevel string, namespace ...string) {
	static := map[string]any{}
	if len(namespace) > 0 && namespace[0] != "" {
		static["namespace"] = namespace[0]
	}

	logger, err := logging.New(&logging.LoggerConfig{
		Profile:      logging.ProfileStructured,
		DefaultLevel: parseLogLevel(logLevel),
		Service:      serviceName,
		Environment:  "production",
		StaticFields: static,
		Middleware: []logging.MiddlewareConfig{
			{Name: "correlation", Enabled: true, Order: 100, Config: map[string]any{}},
		},
		Sinks: []logging.SinkConfig{{
			Type:    "console",
			Format:  "json",
			Console: &logging.ConsoleSinkConfig{Stream: "stderr"},
		}},
		EnableCaller:     true,
		EnableStacktrace: true,
	})
	if err != nil {
		fatal("initialize server logger", err)
	}
	ServerLogger = logger
}

var logLevels = map[string]string{
	"trace":   "TRACE",
	"debug":   "DEBUG",
	"info":    "INFO",
	"warn":    "WARN",
	"warning": "WARN",
	"error":   "ERROR",
}

func parseLogLevel(level string) string {
	if mapped, ok := logLevels[strings.ToLower(strings.TrimSpace(level))]; ok {
		return mapped
	}
	return "INFO"
}

// fatal reports a logger setup failure on stderr and exits with
// ExitConfigInvalid; no logger exists yet to carry it.
func fatal(what string, err error) {
	code := foundry.ExitConfigInvalid
	fmt.Fprintf(os.Stderr, "FATAL: %s: %v\n", what, err)
	if info, ok := foundry.GetExitCodeInfo(code); ok {
		fmt.Fprintf(os.Stderr, "Exit Code: %d (%s) - %s\n", info.Code, info.Name, info.Description)
	}
	os.Exit(int(code))
}
