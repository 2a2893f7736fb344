// Command vectrace-mcp serves the vectorizer as a Model Context Protocol
// tool over stdin and stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"vectrace/pkg/cfg"
	"vectrace/pkg/log"
	"vectrace/pkg/mcp"
	"vectrace/pkg/vectorize"
)

// Version indicates the current build version.
var Version = "dev"

var (
	configPath = flag.String("config", "", "YAML configuration file")
	logLevel   = flag.String("log-level", "", "Log level: debug, info, warn or error")
)

func main() {
	flag.Parse()

	conf, err := cfg.Load(*configPath)
	if err != nil {
		fatal(err)
	}
	if *logLevel != "" {
		conf.Logging.Level = *logLevel
	}
	// stdout carries the protocol, so logs stay on stderr.
	log.Init(log.Options{
		Level:     conf.Logging.Level,
		Format:    conf.Logging.Format,
		AddSource: conf.Logging.Source,
		File:      conf.Logging.File,
		Output:    os.Stderr,
	})

	opts := vectorize.FromConfig(conf.Vectorize, 0)
	if err := opts.Validate(); err != nil {
		fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := mcp.NewServer(opts, conf.Vectorize.MaxSize, Version)
	log.WithComponent("mcp").Info("serving", "version", Version, "protocol", mcp.ProtocolVersion)
	if err := s.Serve(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		stop()
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "vectrace-mcp: "+err.Error())
	os.Exit(1)
}
