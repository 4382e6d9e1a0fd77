// Package render composes presentation payloads for the tool surface:
// pretty-printed JSON for the domain tools and the citation-style text
// document returned by the generic fetch tool.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/gaurav-prasanna/cardpipe/core"
)

// PrettyJSON serializes v with two-space indentation.
func PrettyJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return string(data), nil
}

// CardText returns the plain rules text for a summary. When only the HTML
// form is present it is converted through Markdown, which reads cleanly as
// plain text.
func CardText(summary core.CardSummary) string {
	if summary.Text != "" {
		return summary.Text
	}
	if summary.TextHTML != "" {
		if md, err := htmltomarkdown.ConvertString(summary.TextHTML); err == nil {
			return strings.TrimSpace(md)
		}
	}
	return ""
}

// Document composes the citation-style plain-text document served by the
// generic fetch tool. It applies no extraction of its own; it only
// concatenates fields already produced by the pipeline, skipping the ones
// that are absent.
func Document(detail core.CardDetail, summary core.CardSummary) string {
	var b strings.Builder

	title := summary.DisplayName
	if title == "" {
		title = detail.Rules.Name
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	if summary.URL != "" {
		fmt.Fprintf(&b, "URL: %s\n", summary.URL)
	}
	if detail.PrintID != "" {
		fmt.Fprintf(&b, "Print: %s\n", detail.PrintID)
	}
	typeText := detail.Rules.TypeText
	if typeText == "" {
		typeText = summary.TypeText
	}
	if typeText != "" {
		fmt.Fprintf(&b, "Type: %s\n", typeText)
	}
	writeAttributes(&b, detail)

	text := detail.Rules.Text
	if text == "" {
		text = CardText(summary)
	}
	if text != "" {
		fmt.Fprintf(&b, "\n%s\n", text)
	}

	if printed := detail.Printed; printed != nil && printed.Name != "" {
		fmt.Fprintf(&b, "\nPrinted name: %s\n", printed.Name)
		if printed.TypeText != "" {
			fmt.Fprintf(&b, "Printed type: %s\n", printed.TypeText)
		}
		if printed.Text != "" {
			fmt.Fprintf(&b, "Printed text: %s\n", printed.Text)
		}
	}

	if pub := detail.Publication; pub != nil {
		b.WriteString("\n")
		if pub.Set != "" {
			fmt.Fprintf(&b, "Set: %s\n", pub.Set)
		}
		if pub.Rarity != "" {
			fmt.Fprintf(&b, "Rarity: %s\n", pub.Rarity)
		}
		if pub.Artist != "" {
			fmt.Fprintf(&b, "Artist: %s\n", pub.Artist)
		}
	}

	if len(detail.Variants) > 0 {
		b.WriteString("\nVariants:\n")
		for _, v := range detail.Variants {
			fmt.Fprintf(&b, "- %s (%s", v.PrintID, v.Language)
			if v.Finish != "" {
				fmt.Fprintf(&b, ", %s", v.Finish)
			}
			b.WriteString(")")
			if v.Set != "" {
				fmt.Fprintf(&b, " %s", v.Set)
			}
			fmt.Fprintf(&b, " %s\n", v.URL)
		}
	}

	return b.String()
}

func writeAttributes(b *strings.Builder, detail core.CardDetail) {
	var parts []string
	for _, attr := range []struct{ label, value string }{
		{"Pitch", detail.Pitch},
		{"Cost", detail.Cost},
		{"Power", detail.Power},
		{"Defense", detail.Defense},
	} {
		if attr.value != "" {
			parts = append(parts, attr.label+" "+attr.value)
		}
	}
	if len(parts) > 0 {
		fmt.Fprintf(b, "Stats: %s\n", strings.Join(parts, ", "))
	}
}
