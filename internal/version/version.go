// Package version holds the build metadata advertised during the MCP
// initialize handshake and by the version command.
package version

// Version is the current version of nowserver. Overridable at build
// time with -ldflags "-X github.com/nowserver/internal/version.Version=...".
var Version = "0.1.0"
