package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/sockmount/sockmount/internal/app"
	"github.com/sockmount/sockmount/internal/probe"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// stringList collects a repeatable string flag.
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("sockmount", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
sockmount - mounts directory-discovered connection handlers onto a socket server.

Usage:
  sockmount [options] [MOUNT_DIR ...]

Modes:
  serve (default)
    Scan the mount directories for module manifests, bind the selected
    handler modules and serve a socket.io endpoint on -addr.
  probe
    Connect to -url as a socket.io client and report the first -event received.

Options:
`)
		flagSet.PrintDefaults()
	}

	modeFlag := flagSet.String("mode", app.ModeServe, "Run mode. Options: 'serve' or 'probe'.")
	addrFlag := flagSet.String("addr", app.DefaultAddr, "Listen address for serve mode.")
	rootFlag := flagSet.String("root", "", "Base directory mount paths resolve against. Defaults to the working directory.")
	var mounts stringList
	flagSet.Var(&mounts, "mount", "Handler directory to scan, relative to -root. Repeatable.")
	configFlag := flagSet.String("config", "", "Path to an HCL config file.")
	urlFlag := flagSet.String("url", "", "Socket.io endpoint for probe mode.")
	namespaceFlag := flagSet.String("namespace", "", "Namespace probe mode joins. Empty means the root namespace.")
	eventFlag := flagSet.String("event", app.DefaultEvent, "Event name probe mode waits for.")
	timeoutFlag := flagSet.Duration("timeout", probe.DefaultTimeout, "Timeout for probe mode.")
	insecureFlag := flagSet.Bool("insecure", false, "Skip TLS certificate verification in probe mode.")
	verboseFlag := flagSet.Bool("verbose", false, "Log the binder's discovery and loading steps.")
	continueFlag := flagSet.Bool("continue-on-error", false, "Keep dispatching the remaining handlers after one fails.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	// Positional arguments are extra mount directories.
	mounts = append(mounts, flagSet.Args()...)

	mode := strings.ToLower(*modeFlag)
	if mode == app.ModeServe && len(mounts) == 0 && *configFlag == "" {
		slog.Debug("No mount directories provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		Mode:            mode,
		Addr:            *addrFlag,
		Root:            *rootFlag,
		Mounts:          mounts,
		ConfigPath:      *configFlag,
		ContinueOnError: *continueFlag,
		HealthcheckPort: *healthPortFlag,
		URL:             *urlFlag,
		Namespace:       *namespaceFlag,
		Event:           *eventFlag,
		Timeout:         *timeoutFlag,
		Insecure:        *insecureFlag,
		Verbose:         *verboseFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "mode", config.Mode)
	return config, false, nil
}
