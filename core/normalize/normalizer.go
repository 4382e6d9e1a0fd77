// Package normalize maps raw upstream JSON payloads into the stable record
// types in core. Mapping is permissive by design: a missing or mistyped
// field yields its zero value, never an error. Only a payload that cannot
// be decoded as JSON at all fails.
package normalize

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gaurav-prasanna/cardpipe/core"
)

// SearchResults maps a raw search payload into summaries, one per result
// entry and in upstream order (the upstream ranks by relevance). The image
// is the entry's normal-size rendition; the page URL arrives site-relative
// and is absolutized against the origin.
func SearchResults(origin string, raw []byte) ([]core.CardSummary, error) {
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decoding search payload: %w", err)
	}

	entries := list(payload, "results")
	cards := make([]core.CardSummary, 0, len(entries))
	for _, entry := range entries {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		image := obj(m, "image")
		cards = append(cards, core.CardSummary{
			CardID:      str(m, "card_id"),
			Name:        str(m, "name"),
			DisplayName: str(m, "display_name"),
			URL:         AbsoluteURL(origin, str(m, "url")),
			Image:       str(image, "normal"),
			Pitch:       str(m, "pitch"),
			Cost:        str(m, "cost"),
			Power:       str(m, "power"),
			Defense:     str(m, "defense"),
			Text:        str(m, "text"),
			TextHTML:    str(m, "text_html"),
			TypeText:    str(m, "typebox"),
		})
	}
	return cards, nil
}

// Prints maps a raw prints payload into print variants, in upstream order.
// The layout and finish-type descriptors are copied through unchanged.
func Prints(raw []byte) ([]core.PrintVariant, error) {
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decoding prints payload: %w", err)
	}

	entries := list(payload, "results")
	prints := make([]core.PrintVariant, 0, len(entries))
	for _, entry := range entries {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		image := obj(m, "image")
		layout := obj(m, "layout")
		p := core.PrintVariant{
			PrintID:     str(m, "print_id"),
			CardID:      str(m, "card_id"),
			Name:        str(m, "name"),
			DisplayName: str(m, "display_name"),
			Pitch:       str(m, "pitch"),
			Image: core.ImageSet{
				Small:  str(image, "small"),
				Normal: str(image, "normal"),
				Large:  str(image, "large"),
			},
			Layout: core.Descriptor{
				Key:   str(layout, "key"),
				Label: str(layout, "label"),
			},
		}
		for _, finish := range list(m, "finish_types") {
			fm, ok := finish.(map[string]any)
			if !ok {
				continue
			}
			p.FinishTypes = append(p.FinishTypes, core.Descriptor{
				Key:   str(fm, "key"),
				Label: str(fm, "label"),
			})
		}
		prints = append(prints, p)
	}
	return prints, nil
}

// langPrefix matches the two-uppercase-letter language prefix convention
// in print identifiers, e.g. "JA_WTR001".
var langPrefix = regexp.MustCompile(`^([A-Z]{2})_`)

// LanguageFromPrintID infers the language code embedded in a print
// identifier. Identifiers without the prefix are English stock.
func LanguageFromPrintID(printID string) string {
	if m := langPrefix.FindStringSubmatch(printID); m != nil {
		return m[1]
	}
	return "EN"
}

// AbsoluteURL prefixes the origin onto a site-relative reference.
// Already-absolute references and empty strings pass through unchanged.
func AbsoluteURL(origin, ref string) string {
	if ref == "" || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	if !strings.HasPrefix(ref, "/") {
		ref = "/" + ref
	}
	return strings.TrimSuffix(origin, "/") + ref
}

// --- Permissive field access ---

func str(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		// Numbers decode as float64; cards print small integers.
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

func obj(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	v, _ := m[key].(map[string]any)
	return v
}

func list(m map[string]any, key string) []any {
	if m == nil {
		return nil
	}
	v, _ := m[key].([]any)
	return v
}
