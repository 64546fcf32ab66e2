package main

import (
	"github.com/nowserver/internal/utils"
	"github.com/nowserver/internal/version"
	"github.com/urfave/cli/v2"
)

// versionCommand returns the version command
func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print the server version",
		Action: func(c *cli.Context) error {
			utils.PrintInfo("nowserver %s", version.Version)
			return nil
		},
	}
}
