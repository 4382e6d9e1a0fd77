package extract_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/cardpipe/core"
	"github.com/gaurav-prasanna/cardpipe/core/extract"
)

const testOrigin = "https://fabtcg.com"

// loadFixture reads a captured sample page from testdata.
func loadFixture(t *testing.T, name string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err, "expected fixture %s to load", name)
	return string(data)
}

func TestExtract_FullPage(t *testing.T) {
	page := loadFixture(t, "card_page.html")

	detail, err := extract.New(testOrigin).Extract(page, "WTR001", "")
	require.NoError(t, err)

	assert.Equal(t, "WTR001", detail.CardID)
	assert.Equal(t, "WTR001", detail.PrintID, "expected the active variant entry to win")
	assert.Equal(t, "https://dhhim4ltzu1pj.cloudfront.net/media/cards/WTR001.png", detail.Image)

	assert.Equal(t, "Heart of Fyendal", detail.Rules.Name)
	assert.Equal(t, "Once per Turn Action - [1 Resource]: Gain 1 life. Go again", detail.Rules.Text)
	assert.Equal(t, "Generic Resource - Gem", detail.Rules.TypeText)

	require.NotNil(t, detail.Printed)
	assert.Equal(t, "フェンダルの心臓", detail.Printed.Name)
	assert.Equal(t, "汎用 リソース - 宝石", detail.Printed.TypeText)

	assert.Equal(t, "3", detail.Pitch)
	assert.Equal(t, "0", detail.Cost)
	assert.Empty(t, detail.Power)
	assert.Empty(t, detail.Defense)

	require.NotNil(t, detail.Publication)
	assert.Equal(t, "Welcome to Rathe", detail.Publication.Set)
	assert.Equal(t, "Fabled", detail.Publication.Rarity)
	assert.Equal(t, "Sam Yang", detail.Publication.Artist)
}

func TestExtract_Variants(t *testing.T) {
	page := loadFixture(t, "card_page.html")

	detail, err := extract.New(testOrigin).Extract(page, "WTR001", "")
	require.NoError(t, err)

	// The block with an empty URL is dropped; the block with empty set
	// and finish but both identifiers present stays.
	require.Len(t, detail.Variants, 3)

	assert.Equal(t, core.VariantRef{
		PrintID:  "WTR001",
		Language: "EN",
		Set:      "Welcome to Rathe",
		Finish:   "Standard",
		URL:      "https://fabtcg.com/card/heart-of-fyendal/WTR001/",
	}, detail.Variants[0])

	assert.Equal(t, "JA_WTR001", detail.Variants[1].PrintID)
	assert.Equal(t, "JA", detail.Variants[1].Language)

	assert.Equal(t, "EVR001", detail.Variants[2].PrintID)
	assert.Equal(t, "EN", detail.Variants[2].Language)
	assert.Empty(t, detail.Variants[2].Set)
	assert.Empty(t, detail.Variants[2].Finish)
}

func TestExtract_EmptyDocument(t *testing.T) {
	detail, err := extract.New(testOrigin).Extract("<html><body></body></html>", "WTR001", "")
	require.NoError(t, err)

	assert.Equal(t, "WTR001", detail.CardID)
	assert.Empty(t, detail.PrintID, "no active variant and no requested print yields empty")
	assert.Empty(t, detail.Image)
	assert.Empty(t, detail.Rules.Name)
	assert.Empty(t, detail.Rules.Text)
	assert.Nil(t, detail.Printed)
	assert.Nil(t, detail.Publication)
	assert.Empty(t, detail.Variants)
}

func TestExtract_RequestedPrintIDFallback(t *testing.T) {
	detail, err := extract.New(testOrigin).Extract("<html><body></body></html>", "WTR001", "JA_WTR001")
	require.NoError(t, err)

	assert.Equal(t, "JA_WTR001", detail.PrintID)
}

func TestExtract_AttributePositionalFallback(t *testing.T) {
	page := `<html><body>
		<div class="card-tabs">
			<div class="tab-pane" data-tab="rules">
				<div class="card-footer">
					<div class="corner"><span>2</span></div>
				</div>
			</div>
		</div>
	</body></html>`

	detail, err := extract.New(testOrigin).Extract(page, "ARC001", "")
	require.NoError(t, err)

	assert.Equal(t, "2", detail.Pitch, "expected the unlabeled corner to resolve via the positional fallback")
	assert.Empty(t, detail.Cost)
}

func TestExtract_PublicationWithoutSeparator(t *testing.T) {
	page := `<html><body>
		<div class="production-details">
			<p>Welcome to Rathe</p>
		</div>
	</body></html>`

	detail, err := extract.New(testOrigin).Extract(page, "WTR001", "")
	require.NoError(t, err)

	require.NotNil(t, detail.Publication)
	assert.Equal(t, "Welcome to Rathe", detail.Publication.Set)
	assert.Empty(t, detail.Publication.Rarity)
}

func TestExtract_LabeledAttributeStripsNonDigits(t *testing.T) {
	page := `<html><body>
		<div class="corner"><span class="label">Pitch:</span><span> 1 </span></div>
	</body></html>`

	detail, err := extract.New(testOrigin).Extract(page, "WTR002", "")
	require.NoError(t, err)

	assert.Equal(t, "1", detail.Pitch)
}
