package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Version information for the scriptopt tools
const (
	Version   = "0.1.0"
	BuildDate = "2026-10-17"
	CommitSHA = "unknown" // Set at build time with -ldflags
)

// VersionInfo contains version and build information
type VersionInfo struct {
	Version   string `json:"version"`
	BuildDate string `json:"build_date"`
	CommitSHA string `json:"commit_sha"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	Arch      string `json:"arch"`
}

// GetVersionInfo returns structured version information
func GetVersionInfo() *VersionInfo {
	return &VersionInfo{
		Version:   Version,
		BuildDate: BuildDate,
		CommitSHA: CommitSHA,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// PrintVersion prints version information to stdout
func PrintVersion(toolName string, jsonOutput bool) {
	FprintVersion(os.Stdout, toolName, jsonOutput)
}

// FprintVersion writes version information to w, as JSON or as plain text
func FprintVersion(w io.Writer, toolName string, jsonOutput bool) {
	info := GetVersionInfo()

	if jsonOutput {
		data, err := json.MarshalIndent(map[string]interface{}{
			"tool":         toolName,
			"version_info": info,
		}, "", "  ")
		if err == nil {
			fmt.Fprintln(w, string(data))
			return
		}
		fmt.Fprintf(os.Stderr, "Error: Failed to marshal version info to JSON: %v\n", err)
	}

	fmt.Fprintf(w, "%s v%s\n", toolName, info.Version)
	fmt.Fprintf(w, "Build Date: %s\n", info.BuildDate)
	if info.CommitSHA != "unknown" && info.CommitSHA != "" {
		fmt.Fprintf(w, "Commit: %s\n", info.CommitSHA)
	}
	fmt.Fprintf(w, "Go Version: %s\n", info.GoVersion)
	fmt.Fprintf(w, "Platform: %s/%s\n", info.Platform, info.Arch)
}

// ExitWithError prints an error message and exits with code 1
func ExitWithError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// ValidateArgs validates command line arguments
func ValidateArgs(args []string, minArgs int, usage string) error {
	if len(args) < minArgs {
		return fmt.Errorf("insufficient arguments\nUsage: %s", usage)
	}
	return nil
}

// Logger provides leveled logging for CLI tools. It is safe for concurrent
// use.
type Logger struct {
	Verbose   bool
	DebugMode bool
	Color     bool      // Colour the level tags
	Out       io.Writer // Defaults to stderr

	mu  sync.Mutex
	now func() time.Time
}

// NewLogger creates a new logger writing to stderr
func NewLogger(verbose, debug bool) *Logger {
	return &Logger{
		Verbose:   verbose,
		DebugMode: debug,
		Out:       os.Stderr,
	}
}

// Log levels accepted by SetLevel
var Levels = []string{"warn", "info", "debug"}

// SetLevel switches the logger to one of Levels. Warnings and errors are
// always printed.
func (l *Logger) SetLevel(level string) error {
	switch strings.ToLower(level) {
	case "warn":
		l.Verbose, l.DebugMode = false, false
	case "info":
		l.Verbose, l.DebugMode = true, false
	case "debug":
		l.Verbose, l.DebugMode = true, true
	default:
		return fmt.Errorf("unknown log level %q (want one of %s)", level, strings.Join(Levels, ", "))
	}
	return nil
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	if l.Verbose {
		l.write("INFO", "\x1b[36m", format, args...)
	}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.DebugMode {
		l.write("DEBUG", "\x1b[90m", format, args...)
	}
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.write("WARN", "\x1b[33m", format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.write("ERROR", "\x1b[31m", format, args...)
}

func (l *Logger) write(level, color, format string, args ...interface{}) {
	now := time.Now
	if l.now != nil {
		now = l.now
	}

	tag := "[" + level + "]"
	if l.Color {
		tag = color + tag + "\x1b[0m"
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	out := l.Out
	if out == nil {
		out = os.Stderr
	}
	fmt.Fprintf(out, "%s %s: %s\n", tag, now().Format("15:04:05"), fmt.Sprintf(format, args...))
}
