// Command designer generates spaceship meshes from component templates.
//
//	designer [-config path] <command> [flags]   run one command (see "designer help")
//	designer console                            interactive shell
//	designer run actions.json                   apply a JSON action script
//	designer init                               write the preferences file
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"spaceship-designer/internal/agent"
	"spaceship-designer/internal/commands"
	"spaceship-designer/internal/console"
	"spaceship-designer/internal/designerconfig"
	"spaceship-designer/internal/logger"
	"spaceship-designer/internal/studio"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("designer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", designerconfig.ConfigPath, "preferences file")
	level := fs.String("log-level", "", "override the configured log level")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	prefs, prefsErr := designerconfig.LoadFrom(*configPath)
	envErr := designerconfig.LoadEnvFile(designerconfig.EnvFile)
	if envErr == nil {
		prefs, envErr = designerconfig.ApplyEnv(prefs, os.LookupEnv)
	}
	if *level != "" {
		prefs.Log.Level = *level
	}
	log, closeLog, err := logger.New(logger.Config{
		Level:  prefs.Log.Level,
		Format: prefs.Log.Format,
		File:   prefs.Log.File,
		Output: stderr,
	})
	if err != nil {
		fmt.Fprintln(stderr, "designer:", err)
		return 1
	}
	defer closeLog()
	if prefsErr != nil {
		log.Warn("using default preferences", zap.String("path", *configPath), zap.Error(prefsErr))
	}
	if envErr != nil {
		log.Warn("ignoring environment overrides", zap.Error(envErr))
	}

	metricsReg := prometheus.NewRegistry()
	session, err := studio.Open(prefs, nil, log, metricsReg)
	if err != nil {
		log.Error("open session", zap.Error(err))
		return 1
	}
	reg := commands.NewRegistry(stderr)
	studio.RegisterCommands(reg, session, stdout)
	a := agent.New(log.Named("agent"))
	agent.RegisterStudioHandlers(a, session, reg)

	rest := fs.Args()
	if len(rest) == 0 {
		usage(stdout, reg)
		return 2
	}
	switch rest[0] {
	case "console":
		c := console.New(logger.NewHistory(log), reg, a, stdout)
		if err := c.Run(ctx, stdin, true); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("console", zap.Error(err))
			return 1
		}
		return 0
	case "run":
		if len(rest) != 2 {
			fmt.Fprintln(stderr, "usage: designer run <actions.json>")
			return 2
		}
		script, err := os.ReadFile(rest[1])
		if err != nil {
			log.Error("read script", zap.Error(err))
			return 1
		}
		summary, err := a.Run(ctx, string(script))
		if err != nil {
			log.Error("run script", zap.String("path", rest[1]), zap.Error(err))
			return 1
		}
		fmt.Fprintln(stdout, summary)
		return 0
	case "init":
		if err := designerconfig.SaveTo(*configPath, prefs); err != nil {
			log.Error("write preferences", zap.Error(err))
			return 1
		}
		fmt.Fprintf(stdout, "wrote %s\n", *configPath)
		return 0
	}

	if err := reg.Execute(rest); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, "designer:", err)
		return 1
	}
	return 0
}

func usage(w io.Writer, reg *commands.Registry) {
	fmt.Fprintln(w, "usage: designer [-config path] [-log-level level] <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  console  interactive shell")
	fmt.Fprintln(w, "  run      apply a JSON action script")
	fmt.Fprintln(w, "  init     write the preferences file")
	reg.Usage(w)
}
