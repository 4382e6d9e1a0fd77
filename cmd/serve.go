// Package cmd — serve command.
// Builds the pipeline (fetch → normalize/extract → tool surface), then
// serves the tool set over HTTP (SSE + message paths) or stdio.
package cmd

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/cardpipe/core/extract"
	"github.com/gaurav-prasanna/cardpipe/core/fetch"
	"github.com/gaurav-prasanna/cardpipe/server"
)

// Flag variables.
var (
	flagAddr      string
	flagBaseURL   string
	flagOrigin    string
	flagTimeout   time.Duration
	flagLogLevel  string
	flagLogFormat string
	flagStdio     bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the card tool set over MCP",
	Long: `Serve starts the MCP tool server. By default it listens on HTTP with a
streaming-subscribe path (/sse), a direct-call path (/message), and a
discovery manifest (/.well-known/mcp.json).

Examples:
  cardpipe serve
  cardpipe serve --addr :9000 --log_format json
  cardpipe serve --stdio`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&flagAddr, "addr", ":8080", "HTTP listen address")
	serveCmd.Flags().StringVar(&flagBaseURL, "base_url", "", "Public base URL advertised to clients (default: http://localhost<addr>)")
	serveCmd.Flags().StringVar(&flagOrigin, "origin", fetch.DefaultOrigin, "Upstream card site origin")
	serveCmd.Flags().DurationVar(&flagTimeout, "timeout", 30*time.Second, "Upstream HTTP timeout")
	serveCmd.Flags().StringVar(&flagLogLevel, "log_level", "info", "Log level (trace|debug|info|warn|error)")
	serveCmd.Flags().StringVar(&flagLogFormat, "log_format", "console", "Log format (console|json)")
	serveCmd.Flags().BoolVar(&flagStdio, "stdio", false, "Serve over stdio instead of HTTP")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger, err := buildLogger()
	if err != nil {
		return err
	}

	// Validate the origin before anything dials it.
	parsed, err := url.Parse(flagOrigin)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("invalid origin: %s (must include scheme, e.g. https://fabtcg.com)", flagOrigin)
	}

	// Initialize pipeline components.
	fetcher := fetch.New(flagOrigin, flagTimeout)
	extractor := extract.New(fetcher.Origin())

	mcpServer := server.New(server.Deps{
		Fetcher:   fetcher,
		Extractor: extractor,
		Origin:    fetcher.Origin(),
		Logger:    logger,
	})

	if flagStdio {
		logger.Info().
			Str("transport", "stdio").
			Str("origin", fetcher.Origin()).
			Msg("serving card tools")
		return mcpserver.ServeStdio(mcpServer)
	}

	baseURL := flagBaseURL
	if baseURL == "" {
		host := flagAddr
		if strings.HasPrefix(host, ":") {
			host = "localhost" + host
		}
		baseURL = "http://" + host
	}

	logger.Info().
		Str("transport", "http").
		Str("addr", flagAddr).
		Str("base_url", baseURL).
		Str("origin", fetcher.Origin()).
		Msg("serving card tools")

	return http.ListenAndServe(flagAddr, server.Handler(mcpServer, baseURL))
}

// buildLogger constructs the injected structured logger from the flags.
func buildLogger() (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(flagLogLevel)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("invalid log level %q: %w", flagLogLevel, err)
	}

	var w io.Writer
	switch flagLogFormat {
	case "console":
		w = zerolog.ConsoleWriter{Out: os.Stderr}
	case "json":
		w = os.Stderr
	default:
		return zerolog.Logger{}, fmt.Errorf("invalid log format %q (expected console or json)", flagLogFormat)
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}
