// Package extract implements the core.Extractor interface. It pulls a
// normalized CardDetail out of a fabtcg card page with independent,
// best-effort rules: a field that fails to match degrades to its empty
// value and never blocks the other rules. The only hard failure is a
// document that cannot be parsed as markup at all.
package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gaurav-prasanna/cardpipe/core"
	"github.com/gaurav-prasanna/cardpipe/core/normalize"
)

// Selector contract against the fabtcg card page structure. These track
// the live markup and are covered by the fixtures under testdata; when the
// site changes, bump them together with the fixtures.
var (
	// cardFaceSelectors locate the image of the primary card face.
	cardFaceSelectors = []string{
		".card-details .card-face img",
		".card-image img",
	}

	// activeVariantSelectors locate the print identifier of the variant
	// entry the page currently renders.
	activeVariantSelectors = []string{
		".card-variants .variant.is-active .print-id",
		".card-variants li.active .print-id",
	}

	// The two language tab regions: "rules" holds the English rendering,
	// "print" holds whatever language the selected print was published in.
	rulesTabSelector = `.card-tabs [data-tab="rules"]`
	printTabSelector = `.card-tabs [data-tab="print"]`

	// Sub-fields inside a language tab, each with its own fallback list.
	tabTitleSelectors = []string{".card-title", "h1", "h2"}
	tabTextSelectors  = []string{".card-blurb", ".card-text"}
	tabTypeSelectors  = []string{".type-line", ".card-footer .type-box"}

	productionSelector   = ".production-details"
	variantBlockSelector = ".variant-block"
)

// attributeRule describes how one corner-badge attribute is located: by
// label text first (the labels differ across language tabs and card
// types), then by positional fallbacks tried in order. The first non-empty
// result wins; reprints and foreign printings omit labels, which is why
// the positional fallbacks exist at all.
type attributeRule struct {
	labels    []string
	fallbacks []string
}

var (
	pitchRule = attributeRule{
		labels: []string{"Pitch:", "ピッチ"},
		fallbacks: []string{
			`[data-tab="rules"] .card-footer .corner:first-of-type span:last-of-type`,
		},
	}
	costRule = attributeRule{
		labels: []string{"Cost:", "コスト"},
		fallbacks: []string{
			`[data-tab="rules"] .card-footer .corner.cost span:last-of-type`,
		},
	}
	powerRule = attributeRule{
		labels: []string{"Power:", "攻撃"},
		fallbacks: []string{
			`[data-tab="rules"] .card-footer .corner.power span:last-of-type`,
		},
	}
	defenseRule = attributeRule{
		labels: []string{"Defense:", "防御"},
		fallbacks: []string{
			`[data-tab="rules"] .card-footer .corner.defense span:last-of-type`,
		},
	}
)

const publicationSeparator = "•"

// HTMLExtractor extracts card details from fabtcg card pages.
type HTMLExtractor struct {
	origin string
}

var _ core.Extractor = (*HTMLExtractor)(nil)

// New creates an HTMLExtractor that absolutizes variant URLs against the
// given origin.
func New(origin string) *HTMLExtractor {
	return &HTMLExtractor{origin: strings.TrimSuffix(origin, "/")}
}

// Extract parses the document once and applies each extraction rule
// independently against the same tree.
func (e *HTMLExtractor) Extract(html, cardID, printID string) (core.CardDetail, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return core.CardDetail{}, &core.ExtractionError{Err: err}
	}

	detail := core.CardDetail{
		CardID:   cardID,
		PrintID:  resolvedPrintID(doc, printID),
		Image:    primaryImage(doc),
		Rules:    rulesText(doc, rulesTabSelector),
		Pitch:    attribute(doc, pitchRule),
		Cost:     attribute(doc, costRule),
		Power:    attribute(doc, powerRule),
		Defense:  attribute(doc, defenseRule),
		Variants: e.variants(doc),
	}
	if printed := rulesText(doc, printTabSelector); printed != (core.RulesText{}) {
		detail.Printed = &printed
	}
	if pub := publication(doc); pub != (core.Publication{}) {
		detail.Publication = &pub
	}
	return detail, nil
}

// primaryImage reads the src of the primary card-face image.
func primaryImage(doc *goquery.Document) string {
	for _, sel := range cardFaceSelectors {
		if src, ok := doc.Find(sel).First().Attr("src"); ok && src != "" {
			return src
		}
	}
	return ""
}

// resolvedPrintID reads the print the page actually rendered from the
// active variant-selector entry. The origin defaults the print when the
// URL omits one, so this can differ from the requested identifier. With
// no active entry the requested identifier stands.
func resolvedPrintID(doc *goquery.Document, requested string) string {
	for _, sel := range activeVariantSelectors {
		if id := strings.TrimSpace(doc.Find(sel).First().Text()); id != "" {
			return id
		}
	}
	return requested
}

// rulesText extracts the title, body, and type line of one language tab.
func rulesText(doc *goquery.Document, tabSelector string) core.RulesText {
	tab := doc.Find(tabSelector).First()
	if tab.Length() == 0 {
		return core.RulesText{}
	}
	return core.RulesText{
		Name:     firstText(tab, tabTitleSelectors),
		Text:     firstText(tab, tabTextSelectors),
		TypeText: firstText(tab, tabTypeSelectors),
	}
}

var nonDigits = regexp.MustCompile(`\D+`)

// attribute resolves one corner-badge attribute. The labeled lookup
// strips everything but digits from the badge text; positional fallbacks
// take the matched node's trimmed text as-is.
func attribute(doc *goquery.Document, rule attributeRule) string {
	var labeled string
	doc.Find(".corner").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		for _, label := range rule.labels {
			if strings.Contains(text, label) {
				if v := nonDigits.ReplaceAllString(text, ""); v != "" {
					labeled = v
					return false
				}
			}
		}
		return true
	})
	if labeled != "" {
		return labeled
	}

	for _, sel := range rule.fallbacks {
		if v := strings.TrimSpace(doc.Find(sel).First().Text()); v != "" {
			return v
		}
	}
	return ""
}

// publication reads the production-details region: the first paragraph
// carries "set • rarity" (rarity absent when there is no separator), the
// last paragraph links the artist.
func publication(doc *goquery.Document) core.Publication {
	region := doc.Find(productionSelector).First()
	if region.Length() == 0 {
		return core.Publication{}
	}

	var pub core.Publication
	if line := strings.TrimSpace(region.Find("p").First().Text()); line != "" {
		if set, rarity, found := strings.Cut(line, publicationSeparator); found {
			pub.Set = strings.TrimSpace(set)
			pub.Rarity = strings.TrimSpace(rarity)
		} else {
			pub.Set = line
		}
	}
	pub.Artist = strings.TrimSpace(region.Find("p").Last().Find("a").First().Text())
	return pub
}

// variants collects every variant block on the page, in document order.
// The URL is carried in the block's text content rather than an href
// attribute, so it is read as text and then absolutized. Blocks missing
// either the print identifier or the URL are dropped; set and finish may
// be empty.
func (e *HTMLExtractor) variants(doc *goquery.Document) []core.VariantRef {
	var refs []core.VariantRef
	doc.Find(variantBlockSelector).Each(func(_ int, s *goquery.Selection) {
		printID := strings.TrimSpace(s.Find(".print-id").First().Text())
		rawURL := strings.TrimSpace(s.Find(".url").First().Text())
		if printID == "" || rawURL == "" {
			return
		}
		refs = append(refs, core.VariantRef{
			PrintID:  printID,
			Language: normalize.LanguageFromPrintID(printID),
			Set:      strings.TrimSpace(s.Find(".set-name").First().Text()),
			Finish:   strings.TrimSpace(s.Find(".finish").First().Text()),
			URL:      normalize.AbsoluteURL(e.origin, rawURL),
		})
	})
	return refs
}

// firstText returns the trimmed text of the first selector in the list
// that matches a node with content.
func firstText(s *goquery.Selection, selectors []string) string {
	for _, sel := range selectors {
		if t := strings.TrimSpace(s.Find(sel).First().Text()); t != "" {
			return t
		}
	}
	return ""
}
