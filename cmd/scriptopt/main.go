package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"

	"github.com/xyproto/env/v2"

	"github.com/orizon-lang/scriptopt/internal/cli"
	"github.com/orizon-lang/scriptopt/internal/optconfig"
	"github.com/orizon-lang/scriptopt/internal/optimizer"
)

const toolName = "scriptopt"

func main() {
	var (
		showVersion bool
		jsonOutput  bool
		configFile  string
		level       string
		jobs        int
		execute     bool
		emitDir     string
		watch       bool
		showStats   bool
		verbose     bool
	)

	flag.BoolVar(&showVersion, "version", false, "show version information")
	flag.BoolVar(&jsonOutput, "json", false, "output version in JSON format")
	flag.StringVar(&configFile, "config", "scriptopt.json", "configuration file path")
	flag.StringVar(&level, "O", "", "optimization level (none, basic, default, aggressive or 0-3); overrides the config file")
	flag.IntVar(&jobs, "j", runtime.NumCPU(), "number of files optimized in parallel")
	flag.BoolVar(&execute, "run", false, "execute each optimized tree and print its result")
	flag.StringVar(&emitDir, "emit", "", "write optimized trees as JSON into this directory")
	flag.BoolVar(&watch, "watch", false, "re-optimize whenever the config file changes")
	flag.BoolVar(&showStats, "stats", false, "print rewrite statistics")
	flag.BoolVar(&verbose, "v", false, "verbose output")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] TREE.json...\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Optimizes syntax trees produced by the script parser.\n\n")
		fmt.Fprintf(os.Stderr, "OPTIONS:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nENVIRONMENT:\n")
		fmt.Fprintf(os.Stderr, "  SCRIPTOPT_CONFIG   default for -config\n")
		fmt.Fprintf(os.Stderr, "  SCRIPTOPT_LEVEL    default for -O\n")
		fmt.Fprintf(os.Stderr, "\nEXAMPLES:\n")
		fmt.Fprintf(os.Stderr, "  %s -O aggressive -run main.json     # Optimize and execute\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -emit out -stats *.json          # Write optimized trees\n", os.Args[0])
	}

	flag.Parse()

	if showVersion {
		cli.PrintVersion(toolName, jsonOutput)
		return
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if !set["config"] {
		configFile = env.Str("SCRIPTOPT_CONFIG", configFile)
	}
	if !set["O"] {
		level = env.Str("SCRIPTOPT_LEVEL", level)
	}

	log.SetFlags(0)
	log.SetPrefix(toolName + ": ")

	if err := cli.ValidateArgs(flag.Args(), 1, toolName+" [OPTIONS] TREE.json..."); err != nil {
		flag.Usage()
		os.Exit(2)
	}

	config, err := loadConfig(configFile, level)
	if err != nil {
		cli.ExitWithError("%v", err)
	}

	logger := cli.NewLogger(false, false)
	logger.Color = cli.IsTerminal(os.Stderr)
	if err := logger.SetLevel(config.LogLevel); err != nil {
		cli.ExitWithError("%v", err)
	}
	if verbose || config.Verbose {
		logger.Verbose = true
	}

	pipeline, err := config.Build()
	if err != nil {
		cli.ExitWithError("%v", err)
	}
	pipeline.SetLogger(logger)
	logger.Info("passes: %v", pipeline.Names())

	if jobs < 1 {
		jobs = 1
	}
	opts := options{
		jobs:    jobs,
		execute: execute,
		emitDir: emitDir,
		stats:   showStats,
		color:   cli.IsTerminal(os.Stdout),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := processFiles(ctx, os.Stdout, flag.Args(), pipeline, opts); err != nil {
		if !watch {
			log.Fatalf("%v", err)
		}
		logger.Error("%v", err)
	}

	if watch {
		watchConfig(ctx, configFile, level, flag.Args(), opts, logger)
	}
}

// loadConfig reads the configuration file and applies a level override.
func loadConfig(path, level string) (*optconfig.Config, error) {
	config, err := optconfig.Load(path)
	if err != nil {
		return nil, err
	}
	if level != "" {
		if _, ok := optimizer.ParseLevel(level); !ok {
			return nil, fmt.Errorf("unknown optimization level %q", level)
		}
		config.OptimizeLevel = level
		config.Passes = nil
	}
	return config, nil
}

// watchConfig re-runs the optimizer with every new pipeline until interrupted.
func watchConfig(ctx context.Context, path, level string, files []string, opts options, logger *cli.Logger) {
	w, err := optconfig.Watch(path)
	if err != nil {
		log.Fatalf("watch %s: %v", path, err)
	}
	defer w.Close()

	logger.Info("watching %s", path)
	for {
		select {
		case u, ok := <-w.Updates():
			if !ok {
				return
			}
			pipeline := u.Pipeline
			if level != "" {
				// The command line level still wins over the reloaded file.
				config, err := loadConfig(path, level)
				if err == nil {
					pipeline, err = config.Build()
				}
				if err != nil {
					logger.Error("%v", err)
					continue
				}
			}
			pipeline.SetLogger(logger)
			logger.Info("config reloaded, passes: %v", pipeline.Names())
			if err := processFiles(ctx, os.Stdout, files, pipeline, opts); err != nil {
				logger.Error("%v", err)
			}
		case err := <-w.Errors():
			logger.Warn("config: %v", err)
		case <-ctx.Done():
			return
		}
	}
}
