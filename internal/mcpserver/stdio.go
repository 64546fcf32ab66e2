package mcpserver

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/nowserver/internal/protocol"
	"github.com/sirupsen/logrus"
)

// maxLineSize bounds a single request line (1 MiB)
const maxLineSize = 1024 * 1024

// Serve reads one JSON-RPC request per line from r, dispatches it, and
// writes the response to w. Lines that fail to decode — including
// lines exceeding maxLineSize — are logged and skipped; requests are
// processed strictly in order, so responses appear in request order.
// Read and write failures are fatal because the transport is the only
// channel to the client.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	reader := bufio.NewReaderSize(r, 64*1024)

	for {
		line, tooLong, err := readLine(reader)
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read request: %w", err)
		}

		if tooLong {
			s.logger.WithField("limit", maxLineSize).Error("Failed to decode request: line too long")
		} else {
			line = bytes.TrimSpace(line)
			if len(line) > 0 {
				if werr := s.handleLine(line, w); werr != nil {
					return werr
				}
			}
		}

		if err != nil {
			// EOF ends the session
			return nil
		}
	}
}

// handleLine decodes and dispatches one input line. Decode failures
// are logged and swallowed; only write failures are returned.
func (s *Server) handleLine(line []byte, w io.Writer) error {
	req, err := protocol.DecodeRequest(line)
	if err != nil {
		s.logger.WithField("error", err.Error()).Error("Failed to decode request")
		return nil
	}

	resp := s.HandleRequest(context.Background(), req)
	if resp == nil {
		return nil
	}

	data, err := protocol.EncodeResponse(resp)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"method": req.Method,
			"error":  err.Error(),
		}).Error("Failed to encode response")
		return nil
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}

	return nil
}

// readLine reads one line from r. A line longer than maxLineSize is
// reported through the bool and drained to its end, so the session can
// continue at the next line.
func readLine(r *bufio.Reader) ([]byte, bool, error) {
	var buf []byte
	for {
		chunk, isPrefix, err := r.ReadLine()
		if err != nil {
			return buf, false, err
		}

		if len(buf)+len(chunk) > maxLineSize {
			for isPrefix {
				if _, isPrefix, err = r.ReadLine(); err != nil {
					return nil, true, err
				}
			}
			return nil, true, nil
		}

		buf = append(buf, chunk...)
		if !isPrefix {
			return buf, false, nil
		}
	}
}

// ServeStdio serves requests over standard input/output
func (s *Server) ServeStdio() error {
	return s.Serve(os.Stdin, os.Stdout)
}
