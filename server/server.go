// Package server wires the card pipeline into an MCP tool server. Every
// tool handler completes the call: validation and pipeline failures come
// back as error text inside the response envelope, never as protocol
// faults.
package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/gaurav-prasanna/cardpipe/core"
	"github.com/gaurav-prasanna/cardpipe/core/normalize"
	"github.com/gaurav-prasanna/cardpipe/core/render"
)

const (
	// Name and Version identify the server to clients and in the
	// discovery manifest.
	Name    = "cardpipe"
	Version = "1.0.0"

	description = "Search and inspect Flesh and Blood trading cards from fabtcg.com"

	// maxGenericResults caps the generic search tool's output.
	maxGenericResults = 10
)

// Deps carries the pipeline stages a toolset operates on.
type Deps struct {
	Fetcher   core.Fetcher
	Extractor core.Extractor
	Origin    string
	Logger    zerolog.Logger
}

// New builds the MCP server with the full tool set registered.
func New(deps Deps) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer(Name, Version,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithRecovery(),
	)
	registerTools(s, &toolset{deps: deps})
	return s
}

type toolset struct {
	deps Deps
}

func registerTools(s *mcpserver.MCPServer, t *toolset) {
	searchCards := mcp.NewTool("search_fab_cards",
		mcp.WithDescription("Search Flesh and Blood cards by name or rules text"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Free-text search query (e.g. 'Heart of Fyendal')"),
		),
	)
	s.AddTool(searchCards, t.handleSearchCards)

	cardPrints := mcp.NewTool("get_fab_card_prints",
		mcp.WithDescription("List every recorded printing of a card: set, layout, finishes, and images"),
		mcp.WithString("card_id",
			mcp.Required(),
			mcp.Description("Card identifier (e.g. 'WTR001')"),
		),
	)
	s.AddTool(cardPrints, t.handleCardPrints)

	cardDetail := mcp.NewTool("get_card_detail",
		mcp.WithDescription("Fetch a card's detail page and extract localized names, rules text, stats, publication info, and page variants"),
		mcp.WithString("card_id",
			mcp.Required(),
			mcp.Description("Card identifier (e.g. 'WTR001')"),
		),
		mcp.WithString("print_id",
			mcp.Description("Optional print identifier to pin a specific printing (e.g. 'JA_WTR001')"),
		),
	)
	s.AddTool(cardDetail, t.handleCardDetail)

	// The generic pair mirrors the domain tools for simpler client
	// integrations: a keyword search returning lightweight hits and a
	// follow-up fetch by identifier returning one composed document.
	genericSearch := mcp.NewTool("search",
		mcp.WithDescription("Search cards and return up to 10 lightweight results with id, title, text, and url"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Free-text search query"),
		),
	)
	s.AddTool(genericSearch, t.handleGenericSearch)

	genericFetch := mcp.NewTool("fetch",
		mcp.WithDescription("Fetch one card by identifier and return a composed plain-text document with metadata"),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Card identifier from a previous search result"),
		),
	)
	s.AddTool(genericFetch, t.handleGenericFetch)
}

// --- Tool handlers ---

func (t *toolset) handleSearchCards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := requireParam(request, "query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	t.deps.Logger.Info().Str("tool", "search_fab_cards").Str("query", query).Msg("searching cards")

	raw, err := t.deps.Fetcher.Search(ctx, query)
	if err != nil {
		return t.failure("search_fab_cards", err), nil
	}
	cards, err := normalize.SearchResults(t.deps.Origin, raw)
	if err != nil {
		return t.failure("search_fab_cards", err), nil
	}
	return t.success("search_fab_cards", cards)
}

func (t *toolset) handleCardPrints(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID, err := requireParam(request, "card_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	t.deps.Logger.Info().Str("tool", "get_fab_card_prints").Str("card_id", cardID).Msg("listing prints")

	raw, err := t.deps.Fetcher.Prints(ctx, cardID)
	if err != nil {
		return t.failure("get_fab_card_prints", err), nil
	}
	prints, err := normalize.Prints(raw)
	if err != nil {
		return t.failure("get_fab_card_prints", err), nil
	}
	return t.success("get_fab_card_prints", prints)
}

func (t *toolset) handleCardDetail(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID, err := requireParam(request, "card_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	printID := strings.TrimSpace(request.GetString("print_id", ""))

	t.deps.Logger.Info().
		Str("tool", "get_card_detail").
		Str("card_id", cardID).
		Str("print_id", printID).
		Msg("fetching card detail")

	page, err := t.deps.Fetcher.DetailPage(ctx, cardID, printID)
	if err != nil {
		return t.failure("get_card_detail", err), nil
	}
	detail, err := t.deps.Extractor.Extract(page, cardID, printID)
	if err != nil {
		return t.failure("get_card_detail", err), nil
	}
	return t.success("get_card_detail", detail)
}

// searchHit is one lightweight result of the generic search tool.
type searchHit struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url"`
}

type searchPayload struct {
	Results []searchHit `json:"results"`
}

func (t *toolset) handleGenericSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := requireParam(request, "query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	t.deps.Logger.Info().Str("tool", "search").Str("query", query).Msg("generic search")

	cards, err := t.search(ctx, query)
	if err != nil {
		return t.failure("search", err), nil
	}
	if len(cards) > maxGenericResults {
		cards = cards[:maxGenericResults]
	}

	payload := searchPayload{Results: make([]searchHit, 0, len(cards))}
	for _, card := range cards {
		payload.Results = append(payload.Results, searchHit{
			ID:    card.CardID,
			Title: cardTitle(card),
			Text:  render.CardText(card),
			URL:   card.URL,
		})
	}
	return t.success("search", payload)
}

// fetchPayload is the generic fetch tool's citation-style result.
type fetchPayload struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Text     string            `json:"text"`
	URL      string            `json:"url"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func (t *toolset) handleGenericFetch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireParam(request, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	t.deps.Logger.Info().Str("tool", "fetch").Str("id", id).Msg("generic fetch")

	cards, err := t.search(ctx, id)
	if err != nil {
		return t.failure("fetch", err), nil
	}
	match, found := matchByID(cards, id)
	if !found {
		return t.failure("fetch", fmt.Errorf("%w: %s", core.ErrNotFound, id)), nil
	}

	page, err := t.deps.Fetcher.DetailPage(ctx, match.CardID, "")
	if err != nil {
		return t.failure("fetch", err), nil
	}
	detail, err := t.deps.Extractor.Extract(page, match.CardID, "")
	if err != nil {
		return t.failure("fetch", err), nil
	}

	return t.success("fetch", fetchPayload{
		ID:       match.CardID,
		Title:    cardTitle(match),
		Text:     render.Document(detail, match),
		URL:      match.URL,
		Metadata: fetchMetadata(detail),
	})
}

// --- Helpers ---

func (t *toolset) search(ctx context.Context, query string) ([]core.CardSummary, error) {
	raw, err := t.deps.Fetcher.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	return normalize.SearchResults(t.deps.Origin, raw)
}

// success pretty-prints the record as the call's text payload.
func (t *toolset) success(tool string, v any) (*mcp.CallToolResult, error) {
	payload, err := render.PrettyJSON(v)
	if err != nil {
		return t.failure(tool, err), nil
	}
	return mcp.NewToolResultText(payload), nil
}

// failure converts a pipeline error into an in-band error result naming
// the failing operation.
func (t *toolset) failure(tool string, err error) *mcp.CallToolResult {
	t.deps.Logger.Error().Err(err).Str("tool", tool).Msg("tool call failed")
	return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", tool, err))
}

// requireParam fetches a required string argument and rejects blank values
// before any upstream call is made.
func requireParam(request mcp.CallToolRequest, key string) (string, error) {
	value, err := request.RequireString(key)
	if err != nil {
		return "", err
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%s must be a non-empty string", key)
	}
	return value, nil
}

func cardTitle(card core.CardSummary) string {
	if card.DisplayName != "" {
		return card.DisplayName
	}
	return card.Name
}

// matchByID finds the search result whose card identifier matches exactly,
// ignoring case. No fuzzy fallback: the generic fetch contract is a
// follow-up on an identifier the client already holds.
func matchByID(cards []core.CardSummary, id string) (core.CardSummary, bool) {
	for _, card := range cards {
		if strings.EqualFold(card.CardID, id) {
			return card, true
		}
	}
	return core.CardSummary{}, false
}

func fetchMetadata(detail core.CardDetail) map[string]string {
	meta := make(map[string]string)
	set := func(key, value string) {
		if value != "" {
			meta[key] = value
		}
	}
	set("print_id", detail.PrintID)
	set("image", detail.Image)
	set("type", detail.Rules.TypeText)
	set("pitch", detail.Pitch)
	set("cost", detail.Cost)
	set("power", detail.Power)
	set("defense", detail.Defense)
	if pub := detail.Publication; pub != nil {
		set("set", pub.Set)
		set("rarity", pub.Rarity)
		set("artist", pub.Artist)
	}
	if len(meta) == 0 {
		return nil
	}
	return meta
}
