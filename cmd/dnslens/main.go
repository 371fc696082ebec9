package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jroosing/dnslens/internal/config"
	"github.com/jroosing/dnslens/internal/logging"
	"github.com/jroosing/dnslens/internal/server"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to JSON configuration file")
		host       = flag.String("host", "", "Override tap bind host")
		port       = flag.Int("port", 0, "Override tap bind port")
		dbPath     = flag.String("db", "", "Override audit database path")
		noAPI      = flag.Bool("no-api", false, "Disable the management API")
		jsonLogs   = flag.Bool("json-logs", false, "Enable JSON structured logging")
		debug      = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *host != "" {
		cfg.Tap.Host = *host
	}
	if *port != 0 {
		cfg.Tap.Port = *port
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if *noAPI {
		cfg.API.Enabled = false
	}
	if *jsonLogs {
		cfg.Logging.Format = "json"
	}
	if *debug {
		cfg.Logging.Level = "DEBUG"
	}

	logger := logging.Configure(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		IncludePID:  cfg.Logging.IncludePID,
		ExtraFields: cfg.Logging.ExtraFields,
	})
	logger.Info("dnslens starting",
		"host", cfg.Tap.Host,
		"port", cfg.Tap.Port,
		"db", cfg.Database.Path,
		"api", cfg.API.Enabled,
	)

	runner := server.NewRunner(logger)
	if err := runner.Run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "dnslens exited with error: %v\n", err)
		os.Exit(1)
	}
}
