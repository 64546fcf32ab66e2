package mcpserver

import (
	"fmt"
	"io"
	"net/http"

	"github.com/nowserver/internal/protocol"
)

// HTTPHandler returns an http.Handler that accepts one JSON-RPC
// request per POST to /message and replies with the encoded response.
// Notifications are acknowledged with 202 Accepted and no body. The
// handler shares the server's registries with any stdio session, which
// is safe because registration completes before serving starts.
func (s *Server) HTTPHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/message", s.handleMessage)
	return mux
}

// handleMessage handles a single JSON-RPC message over HTTP
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxLineSize))
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	req, err := protocol.DecodeRequest(body)
	if err != nil {
		s.logger.WithField("error", err.Error()).Error("Failed to decode request")
		http.Error(w, "invalid json-rpc request", http.StatusBadRequest)
		return
	}

	resp := s.HandleRequest(r.Context(), req)
	if resp == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}

	data, err := protocol.EncodeResponse(resp)
	if err != nil {
		s.logger.WithField("error", err.Error()).Error("Failed to encode response")
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(data); err != nil {
		s.logger.WithField("error", err.Error()).Error("Failed to write response")
	}
}

// StartHTTP serves requests over HTTP on the given port
func (s *Server) StartHTTP(port string) error {
	s.logger.WithField("port", port).Info("HTTP server listening")
	if err := http.ListenAndServe(":"+port, s.HTTPHandler()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
