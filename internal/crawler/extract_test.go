package crawler

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldSpecExtract(t *testing.T) {
	spec := FieldSpec{
		Name:    "title",
		Pattern: regexp.MustCompile(`<h1>(.*?)</h1>`),
		Group:   1,
	}

	assert.Equal(t, "ピカチュウex", spec.Extract("<h1>ピカチュウex</h1>"))
	assert.Equal(t, "A & B", spec.Extract("<h1>  A &amp; B </h1>"))
	assert.Equal(t, "", spec.Extract("<h2>no match</h2>"))

	// First match wins; later occurrences are ignored
	assert.Equal(t, "first", spec.Extract("<h1>first</h1><h1>second</h1>"))
}

func TestFieldSpecPost(t *testing.T) {
	spec := FieldSpec{
		Name:    "resistance",
		Pattern: regexp.MustCompile(`<td>([^<]+)</td>`),
		Group:   1,
		Post:    dropPlaceholder,
	}

	assert.Equal(t, "-30", spec.Extract("<td>-30</td>"))
	assert.Equal(t, "", spec.Extract("<td>--</td>"))
}

func TestExtractAll(t *testing.T) {
	re := regexp.MustCompile(`<li>(.*?)</li>`)
	matches := extractAll(re, "<li>a</li><li>b</li><li>a</li>", 1)
	assert.Equal(t, []string{"a", "b", "a"}, matches)

	assert.Empty(t, extractAll(re, "<p>none</p>", 1))
}

func TestTypeLabel(t *testing.T) {
	assert.Equal(t, "ほのお", TypeLabel("fire"))
	assert.Equal(t, "でんき", TypeLabel("electric"))
	assert.Equal(t, "かくとう", TypeLabel("FIGHTING"))
	assert.Equal(t, "無色", TypeLabel("colorless"))
	assert.Equal(t, "無色", TypeLabel("none"))
	assert.Equal(t, "不明", TypeLabel("plasma"))
}

func TestRarityLabel(t *testing.T) {
	assert.Equal(t, "RR", RarityLabel("rr"))
	assert.Equal(t, "SAR", RarityLabel("sar"))
	assert.Equal(t, "C", RarityLabel("c"))
	// Unrecognized codes pass through uppercased, never an error
	assert.Equal(t, "ZZ", RarityLabel("zz"))
}

func TestExtractCardType(t *testing.T) {
	html := `<span class="icon-electric icon"></span>`
	assert.Equal(t, "でんき", extractCardType(html))

	// Colorless cost icons before the type icon are skipped
	html = `<span class="icon-none icon"></span><span class="icon-water icon"></span>`
	assert.Equal(t, "みず", extractCardType(html))

	assert.Equal(t, "", extractCardType(`<div>no icons</div>`))
}

func TestExtractRarity(t *testing.T) {
	assert.Equal(t, "RR", extractRarity(`<img src="/images/ic_rare_rr.gif">`))
	assert.Equal(t, "ZZ", extractRarity(`<img src="/images/ic_rare_zz.gif">`))
	assert.Equal(t, "", extractRarity(`<img src="/images/other.gif">`))
}

func TestExtractWeakness(t *testing.T) {
	html := `<table><tr><th>弱点</th></tr><tr><td><span class="icon-fighting icon"></span>×2</td></tr></table>`
	assert.Equal(t, "かくとう×2", extractWeakness(html))

	assert.Equal(t, "", extractWeakness(`<table><tr><th>弱点</th></tr></table>`))
}

func TestExtractRetreatCost(t *testing.T) {
	twoIcons := `<table><tr><th>にげる</th></tr><tr><td class="escape">` +
		`<span class="icon-colorless icon"></span><span class="icon-colorless icon"></span>` +
		`</td></tr></table>`
	cost := extractRetreatCost(twoIcons)
	if assert.NotNil(t, cost) {
		assert.Equal(t, 2, *cost)
	}

	// icon-none short-circuits to a genuine zero
	noCost := `<table><tr><th>にげる</th></tr><tr><td class="escape"><span class="icon-none icon"></span></td></tr></table>`
	cost = extractRetreatCost(noCost)
	if assert.NotNil(t, cost) {
		assert.Equal(t, 0, *cost)
	}

	// Missing cell means absent, not zero
	assert.Nil(t, extractRetreatCost(`<table></table>`))
}

func TestExtractAttack(t *testing.T) {
	html := `<h2 class="mt20">ワザ</h2>` +
		`<h4 class="mt20"><span class="icon-fire icon"></span>ほのおのうず<span class="f_right">30</span></h4>` +
		`<h4 class="mt20"><span class="icon-fire icon"></span>かえんほうしゃ<span class="f_right">0</span></h4>` +
		`<table class="mt20"><tr><th>弱点</th></tr></table>`

	assert.Equal(t, "ほのおのうず(30)", extractAttack(html, 1))
	// Zero damage renders the bare name, no parenthetical
	assert.Equal(t, "かえんほうしゃ", extractAttack(html, 2))
	assert.Equal(t, "", extractAttack(html, 3))
	assert.Equal(t, "", extractAttack(`<div>no attacks</div>`, 1))
}

func TestAttackSectionStopsAtNextHeader(t *testing.T) {
	html := `<h2>ワザ</h2><h4><span class="icon"></span>たいあたり<span class="f_right">10</span></h4>` +
		`<h2>特性</h2><h4><span class="icon"></span>まぎれこみ<span class="f_right">99</span></h4>`

	assert.Equal(t, "たいあたり(10)", extractAttack(html, 1))
	// The block after the next header is not an attack
	assert.Equal(t, "", extractAttack(html, 2))
}

func TestExtractCardID(t *testing.T) {
	assert.Equal(t, "033/106", extractCardID(`<div>&nbsp;033&nbsp;/&nbsp;106&nbsp;</div>`))
	assert.Equal(t, "", extractCardID(`<div>033/106</div>`))
}
