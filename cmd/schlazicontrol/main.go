// Command schlazicontrol is the daemon entrypoint: it parses the CLI
// surface, optionally daemonizes, and hands off to internal/daemon for
// the rest of the process lifecycle — the same thin-main shape as the
// teacher's cmd/thane/main.go.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/lordjaxom/schlazicontrol/internal/buildinfo"
	"github.com/lordjaxom/schlazicontrol/internal/daemon"
	"github.com/lordjaxom/schlazicontrol/internal/logging"
)

const defaultConfigFile = "/etc/schlazicontrol.json"

// daemonizeEnv marks a re-executed, detached child so it doesn't fork
// again; set by this process when -d/--daemonize forks itself.
const daemonizeEnv = "SCHLAZICONTROL_DAEMONIZED"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("schlazicontrol", flag.ContinueOnError)

	var configFile, logFile, pidFile string
	var daemonize, help bool
	fs.StringVar(&configFile, "config-file", defaultConfigFile, "path to the component configuration document")
	fs.StringVar(&configFile, "c", defaultConfigFile, "shorthand for -config-file")
	fs.StringVar(&logFile, "log-file", "", "path to write logs to (default stderr)")
	fs.StringVar(&logFile, "l", "", "shorthand for -log-file")
	fs.StringVar(&pidFile, "pid-file", "", "path to write the process id to")
	fs.StringVar(&pidFile, "p", "", "shorthand for -pid-file")
	fs.BoolVar(&daemonize, "daemonize", false, "detach and run in the background (POSIX only)")
	fs.BoolVar(&daemonize, "d", false, "shorthand for -daemonize")
	fs.BoolVar(&help, "h", false, "show usage")
	fs.BoolVar(&help, "help", false, "show usage")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if help {
		fs.Usage()
		return 0
	}

	if daemonize {
		if runtime.GOOS == "windows" {
			fmt.Fprintln(os.Stderr, "schlazicontrol: -d/--daemonize is not supported on this platform")
			return 1
		}
		if os.Getenv(daemonizeEnv) == "" {
			pid, err := spawnDetached(args)
			if err != nil {
				fmt.Fprintf(os.Stderr, "schlazicontrol: daemonize failed: %v\n", err)
				return 1
			}
			fmt.Printf("schlazicontrol: daemonized as pid %d\n", pid)
			return 0
		}
	}

	logWriter, closeLog, err := openLogWriter(logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "schlazicontrol: %v\n", err)
		return 1
	}
	if closeLog != nil {
		defer closeLog()
	}
	logger := logging.New(logWriter, zerolog.InfoLevel)
	logger.Info().Str("version", buildinfo.Version).Str("commit", buildinfo.GitCommit).Msg("schlazicontrol starting")

	if pidFile != "" {
		if err := os.WriteFile(pidFile, []byte(strconv.Itoa(os.Getpid())), 0644); err != nil {
			logger.Error().Err(err).Str("path", pidFile).Msg("failed to write pid file")
			return 1
		}
		defer os.Remove(pidFile)
	}

	d, err := daemon.New(logger, configFile)
	if err != nil {
		logger.Error().Err(err).Str("path", configFile).Msg("failed to construct component graph")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := d.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("daemon stopped with error")
		return 1
	}
	logger.Info().Msg("schlazicontrol stopped")
	return 0
}

// openLogWriter opens path for appending, or falls back to stderr (via a
// nil io.Writer, which logging.New treats as a colorized console writer)
// when path is empty.
func openLogWriter(path string) (io.Writer, func(), error) {
	if path == "" {
		return nil, nil, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return f, func() { f.Close() }, nil
}

// spawnDetached re-executes the current binary with the same arguments,
// marked so it won't try to daemonize again, detached into its own
// session so it survives the parent's terminal closing.
func spawnDetached(args []string) (int, error) {
	exe, err := os.Executable()
	if err != nil {
		return 0, err
	}
	cmd := exec.Command(exe, args...)
	cmd.Env = append(os.Environ(), daemonizeEnv+"=1")
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		return 0, err
	}
	return cmd.Process.Pid, nil
}
