package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hpcloud/tail"
	"github.com/nowserver/internal/logging"
	"github.com/nowserver/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// LogEntry represents a parsed log entry with timestamp for sorting
type LogEntry struct {
	PID   int
	Entry *logrus.Entry
	Line  string
}

// LogFile represents a log file with its owning PID
type LogFile struct {
	Path string
	PID  int
}

// logsCommand returns the logs command
func logsCommand() *cli.Command {
	return &cli.Command{
		Name:    "logs",
		Aliases: []string{"log"},
		Usage:   "View server logs",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "follow",
				Aliases: []string{"f"},
				Usage:   "Follow log output",
			},
			&cli.IntFlag{
				Name:    "lines",
				Aliases: []string{"n"},
				Usage:   "Number of lines to show",
				Value:   20,
			},
			&cli.BoolFlag{
				Name:    "all",
				Aliases: []string{"a"},
				Usage:   "Include logs of server processes that have exited",
			},
		},
		Action: logsAction,
	}
}

// logsAction handles the logs command
func logsAction(c *cli.Context) error {
	follow := c.Bool("follow")
	lines := c.Int("lines")
	showAll := c.Bool("all")

	logFiles, err := getLogFiles(showAll)
	if err != nil {
		return err
	}

	if len(logFiles) == 0 {
		utils.PrintError("No logs found")
		return nil
	}

	if follow {
		return followLogs(logFiles)
	}

	return showLogs(logFiles, lines)
}

// showLogs shows the last N lines of logs
func showLogs(logFiles []LogFile, lines int) error {
	formatter := logging.NewColoredFormatter()

	var entries []LogEntry
	for _, logFile := range logFiles {
		lastLines, err := readLastLines(logFile.Path, lines)
		if err != nil {
			utils.PrintError("Failed to read log file %s: %v", logFile.Path, err)
			continue
		}

		for _, line := range lastLines {
			entry, err := logging.ParseJSONLogEntry(line)
			if err != nil {
				// If we can't parse as JSON, just show the raw line
				fmt.Println(line)
				continue
			}

			if _, ok := entry.Data["server"]; !ok {
				entry.Data["server"] = serverName
			}
			if _, ok := entry.Data["pid"]; !ok {
				entry.Data["pid"] = logFile.PID
			}

			entries = append(entries, LogEntry{
				PID:   logFile.PID,
				Entry: entry,
				Line:  line,
			})
		}
	}

	// Sort entries by timestamp
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Entry.Time.Before(entries[j].Entry.Time)
	})

	for _, entry := range entries {
		formatted, err := formatter.Format(entry.Entry)
		if err != nil {
			fmt.Println(entry.Line)
			continue
		}
		fmt.Print(string(formatted))
	}

	return nil
}

// followLogs follows logs in real-time
func followLogs(logFiles []LogFile) error {
	formatter := logging.NewColoredFormatter()
	entryChan := make(chan LogEntry)

	for _, logFile := range logFiles {
		go func(lf LogFile) {
			t, err := tail.TailFile(lf.Path, tail.Config{
				Follow:    true,
				ReOpen:    true,
				MustExist: true,
			})
			if err != nil {
				utils.PrintError("Failed to tail log file %s: %v", lf.Path, err)
				return
			}

			for line := range t.Lines {
				entry, err := logging.ParseJSONLogEntry(line.Text)
				if err != nil {
					entry = &logrus.Entry{
						Logger:  logrus.New(),
						Data:    make(logrus.Fields),
						Time:    time.Now(),
						Level:   logrus.InfoLevel,
						Message: line.Text,
					}
				}

				if _, ok := entry.Data["server"]; !ok {
					entry.Data["server"] = serverName
				}
				if _, ok := entry.Data["pid"]; !ok {
					entry.Data["pid"] = lf.PID
				}

				entryChan <- LogEntry{
					PID:   lf.PID,
					Entry: entry,
					Line:  line.Text,
				}
			}
		}(logFile)
	}

	fmt.Println("Following logs. Press Ctrl+C to exit.")
	for entry := range entryChan {
		formatted, err := formatter.Format(entry.Entry)
		if err != nil {
			fmt.Println(entry.Line)
			continue
		}
		fmt.Print(string(formatted))
	}

	return nil
}

// getLogFiles returns the server's log files, skipping files from
// exited processes unless showAll is set
func getLogFiles(showAll bool) ([]LogFile, error) {
	serverDir, err := logging.GetServerLogDirectory(serverName)
	if err != nil {
		return nil, err
	}

	files, err := os.ReadDir(serverDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var logFiles []LogFile
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".log") {
			continue
		}

		// Extract PID from filename
		var pid int
		if _, err := fmt.Sscanf(file.Name(), "server_%d.log", &pid); err != nil {
			continue
		}

		if !showAll && !utils.IsProcessRunning(pid) {
			continue
		}

		logFiles = append(logFiles, LogFile{
			Path: filepath.Join(serverDir, file.Name()),
			PID:  pid,
		})
	}

	return logFiles, nil
}

// readLastLines reads the last n lines from a file
func readLastLines(filePath string, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	// Ring buffer holding the last n lines
	lines := make([]string, n)
	lineCount := 0

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines[lineCount%n] = scanner.Text()
		lineCount++
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if lineCount < n {
		return lines[:lineCount], nil
	}

	result := make([]string, n)
	for i := 0; i < n; i++ {
		result[i] = lines[(lineCount+i)%n]
	}

	return result, nil
}
