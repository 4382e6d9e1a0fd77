// Package server — HTTP transport boundary.
// Two addressable paths back the tool set: a streaming-subscribe path and
// a direct-call path, both served by the MCP SSE transport. A well-known
// discovery document describes them; every other path is a 404.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

const (
	SSEPath      = "/sse"
	MessagePath  = "/message"
	ManifestPath = "/.well-known/mcp.json"
)

// Manifest is the static discovery document served at ManifestPath.
type Manifest struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Endpoints   struct {
		SSE     string `json:"sse"`
		Message string `json:"message"`
	} `json:"endpoints"`
}

// Handler mounts the tool server's transport endpoints and the discovery
// manifest on a fresh mux. baseURL is the public URL clients reach the
// server at; it is advertised in the manifest and in SSE endpoint events.
func Handler(s *mcpserver.MCPServer, baseURL string) http.Handler {
	sse := mcpserver.NewSSEServer(s,
		mcpserver.WithBaseURL(baseURL),
		mcpserver.WithSSEEndpoint(SSEPath),
		mcpserver.WithMessageEndpoint(MessagePath),
	)

	manifest := Manifest{Name: Name, Version: Version, Description: description}
	base := strings.TrimSuffix(baseURL, "/")
	manifest.Endpoints.SSE = base + SSEPath
	manifest.Endpoints.Message = base + MessagePath

	mux := http.NewServeMux()
	mux.Handle(SSEPath, sse.SSEHandler())
	mux.Handle(MessagePath, sse.MessageHandler())
	mux.HandleFunc(ManifestPath, manifestHandler(manifest))
	return mux
}

// manifestHandler serves the discovery document on GET and HEAD only;
// other methods get a 405 with an Allow header.
func manifestHandler(m Manifest) http.HandlerFunc {
	body, _ := json.MarshalIndent(m, "", "  ")
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead:
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Content-Length", strconv.Itoa(len(body)))
			if r.Method == http.MethodGet {
				w.Write(body)
			}
		default:
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		}
	}
}
