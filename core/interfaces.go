// Package core defines the record types and stage interfaces for cardpipe.
// Each stage of the pipeline is a clean, testable interface.
package core

import "context"

// ImageSet holds the three image renditions served for a print.
type ImageSet struct {
	Small  string `json:"small"`
	Normal string `json:"normal"`
	Large  string `json:"large"`
}

// Descriptor is a machine key paired with its human label, copied through
// from the upstream payload unchanged.
type Descriptor struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// CardSummary is one entry of a card search result.
type CardSummary struct {
	CardID      string `json:"card_id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	URL         string `json:"url"`
	Image       string `json:"image"`
	Pitch       string `json:"pitch,omitempty"`
	Cost        string `json:"cost,omitempty"`
	Power       string `json:"power,omitempty"`
	Defense     string `json:"defense,omitempty"`
	Text        string `json:"text,omitempty"`
	TextHTML    string `json:"text_html,omitempty"`
	TypeText    string `json:"type_text,omitempty"`
}

// PrintVariant is one physical printing of a card.
type PrintVariant struct {
	PrintID     string       `json:"print_id"`
	CardID      string       `json:"card_id"`
	Name        string       `json:"name"`
	DisplayName string       `json:"display_name"`
	Pitch       string       `json:"pitch,omitempty"`
	Image       ImageSet     `json:"image"`
	Layout      Descriptor   `json:"layout"`
	FinishTypes []Descriptor `json:"finish_types"`
}

// RulesText is one language tab's rendering of a card: title, rules text,
// and type line. Each field is independently optional.
type RulesText struct {
	Name     string `json:"name"`
	Text     string `json:"text,omitempty"`
	TypeText string `json:"type_text,omitempty"`
}

// Publication describes where a print was published.
type Publication struct {
	Set    string `json:"set,omitempty"`
	Rarity string `json:"rarity,omitempty"`
	Artist string `json:"artist,omitempty"`
}

// VariantRef is one variant block discovered on a detail page. The list on
// a CardDetail reflects exactly the blocks present on the fetched page, in
// document order; the prints endpoint remains the authoritative catalog.
type VariantRef struct {
	PrintID  string `json:"print_id"`
	Language string `json:"language"`
	Set      string `json:"set"`
	Finish   string `json:"finish"`
	URL      string `json:"url"`
}

// CardDetail is the normalized record extracted from a card detail page.
// PrintID is the print the page actually rendered, which can differ from
// the one requested when the origin defaults it.
type CardDetail struct {
	CardID      string       `json:"card_id"`
	PrintID     string       `json:"print_id"`
	Image       string       `json:"image"`
	Rules       RulesText    `json:"rules"`
	Printed     *RulesText   `json:"printed,omitempty"`
	Pitch       string       `json:"pitch,omitempty"`
	Cost        string       `json:"cost,omitempty"`
	Power       string       `json:"power,omitempty"`
	Defense     string       `json:"defense,omitempty"`
	Publication *Publication `json:"publication,omitempty"`
	Variants    []VariantRef `json:"variants"`
}

// Fetcher retrieves raw payloads from the upstream card site.
type Fetcher interface {
	// Search queries the card search endpoint with a free-text query.
	Search(ctx context.Context, query string) ([]byte, error)
	// Prints lists the printings recorded for one card identifier.
	Prints(ctx context.Context, cardID string) ([]byte, error)
	// DetailPage fetches the HTML card page, optionally pinned to a print.
	DetailPage(ctx context.Context, cardID, printID string) (string, error)
}

// Extractor turns a raw detail-page document into a CardDetail.
type Extractor interface {
	Extract(html, cardID, printID string) (CardDetail, error)
}
