package main

import (
	"fmt"
	"os"
	"time"

	"github.com/nowserver/internal/config"
	"github.com/nowserver/internal/mcpserver"
	"github.com/nowserver/internal/utils"
	"github.com/urfave/cli/v2"
)

func main() {
	nowServer := NewNowServer()

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:  "configure",
			Usage: "Save server configuration and exit",
		},
		&cli.StringFlag{
			Name:  "timezone",
			Usage: "IANA timezone name the time report uses (with --configure)",
		},
		&cli.StringFlag{
			Name:  "time-format",
			Usage: "Go reference-time layout for the time report (with --configure)",
		},
	}

	// Check if we should run in HTTP mode
	httpMode := os.Getenv("MCP_SERVER_MODE") == "http"
	port := os.Getenv("MCP_SERVER_PORT")

	action := func(c *cli.Context) error {
		if c.Bool("configure") {
			return configureAction(c)
		}
		if httpMode {
			return runHTTPServer(nowServer, port)
		}
		return mcpserver.CreateAndRunServer(nowServer)
	}

	app := mcpserver.NewCliApp(nowServer, flags, action)
	app.Commands = []*cli.Command{
		logsCommand(),
		versionCommand(),
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// configureAction validates and saves the server configuration
func configureAction(c *cli.Context) error {
	cfg := &config.Config{
		Timezone:   c.String("timezone"),
		TimeFormat: c.String("time-format"),
	}

	if cfg.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Timezone); err != nil {
			utils.PrintError("Unknown timezone: %s", cfg.Timezone)
			return err
		}
	}

	if err := config.Save(serverName, cfg); err != nil {
		utils.PrintError("Failed to save configuration: %v", err)
		return err
	}

	utils.PrintInfo("Configuration saved")
	return nil
}

// runHTTPServer runs the server in HTTP mode
func runHTTPServer(handler mcpserver.MCPServerHandler, port string) error {
	if port == "" {
		port = "8080"
	}

	s := mcpserver.NewServer(handler.Name(), mcpserver.Version)

	if err := handler.Initialize(s); err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	return s.StartHTTP(port)
}
