package crawler

import (
	"testing"

	apperr "knagahashi/cardharvester/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullDetailHTML = `<!DOCTYPE html>
<html><body>
<h1 class="Heading1 mt20">ピカチュウex</h1>
<div class="td-r">
	<span class="hp-type">HP</span><span class="hp-num">200</span>
	<span class="icon-electric icon"></span>
</div>
<img class="fit" src="/assets/images/card_images/large/SV8/046373_P_PIKACHIXYUUEX.jpg" alt="ピカチュウex">
<img src="/assets/images/card/regulation_logo_1/SV8.gif">
<img src="/assets/images/card/ic_rare_rr.gif">
<h2 class="mt20">特性</h2>
<h4 class="mt20">がんばりハート</h4>
<p>きぜつさせられるダメージを受けたとき、残りHPが10になる。</p>
<h2 class="mt20">ワザ</h2>
<h4 class="mt20"><span class="icon-electric icon"></span>トパーズボルト<span class="f_right">300</span></h4>
<table class="mt20">
<tr><th>弱点</th><th>抵抗力</th><th>にげる</th></tr>
<tr>
	<td><span class="icon-fighting icon"></span>×2</td>
	<td>--</td>
	<td class="escape"><span class="icon-colorless icon"></span></td>
</tr>
</table>
<div class="subtext">&nbsp;033&nbsp;/&nbsp;106&nbsp;</div>
</body></html>`

func TestDetailParserFullPage(t *testing.T) {
	parser := &DetailParser{BaseURL: "https://www.pokemon-card.com"}
	pageURL := "https://www.pokemon-card.com/card-search/details.php/card/46373/regu/XY"

	record, err := parser.Parse(fullDetailHTML, pageURL)
	require.NoError(t, err)

	assert.Equal(t, "033/106", record.CardID)
	assert.Equal(t, "ピカチュウex", record.Name)
	assert.Equal(t, "https://www.pokemon-card.com/assets/images/card_images/large/SV8/046373_P_PIKACHIXYUUEX.jpg", record.ImageURL)
	assert.Equal(t, pageURL, record.PageURL)
	assert.Equal(t, "SV8", record.Expansion)
	assert.Equal(t, "RR", record.Rarity)
	assert.Equal(t, "でんき", record.CardType)
	assert.Equal(t, "トパーズボルト(300)", record.Attack1)
	assert.Equal(t, "", record.Attack2)
	assert.Equal(t, "がんばりハート", record.Ability)
	assert.Equal(t, "かくとう×2", record.Weakness)
	// "--" cells are absent, not a value
	assert.Equal(t, "", record.Resistance)

	require.NotNil(t, record.HP)
	assert.Equal(t, 200, *record.HP)
	require.NotNil(t, record.RetreatCost)
	assert.Equal(t, 1, *record.RetreatCost)
}

func TestDetailParserOptionalFieldsAbsent(t *testing.T) {
	html := `<html><body>
		<h1 class="Heading1">基本エネルギー</h1>
		<div>&nbsp;094&nbsp;/&nbsp;106&nbsp;</div>
	</body></html>`

	parser := &DetailParser{BaseURL: "https://www.pokemon-card.com"}
	record, err := parser.Parse(html, "https://www.pokemon-card.com/card-search/details.php/card/1")
	require.NoError(t, err)

	assert.Equal(t, "094/106", record.CardID)
	assert.Equal(t, "基本エネルギー", record.Name)
	assert.Equal(t, "", record.ImageURL)
	assert.Equal(t, "", record.Expansion)
	assert.Equal(t, "", record.Rarity)
	assert.Equal(t, "", record.CardType)
	assert.Equal(t, "", record.Attack1)
	assert.Equal(t, "", record.Ability)
	assert.Equal(t, "", record.Weakness)
	assert.Equal(t, "", record.Resistance)
	assert.Nil(t, record.HP)
	assert.Nil(t, record.RetreatCost)
}

func TestDetailParserNameFallback(t *testing.T) {
	html := `<html><body><div>&nbsp;001&nbsp;/&nbsp;106&nbsp;</div></body></html>`

	parser := &DetailParser{BaseURL: "https://www.pokemon-card.com"}
	record, err := parser.Parse(html, "https://www.pokemon-card.com/card-search/details.php/card/1")
	require.NoError(t, err)

	assert.Equal(t, "001/106", record.CardID)
	assert.Equal(t, "不明なカード", record.Name)
}

func TestDetailParserUnparseable(t *testing.T) {
	parser := &DetailParser{BaseURL: "https://www.pokemon-card.com"}

	record, err := parser.Parse("<html><body><p>メンテナンス中</p></body></html>", "https://www.pokemon-card.com/x")
	assert.Nil(t, record)
	assert.Error(t, err)
	assert.True(t, apperr.IsType(err, apperr.ErrorTypeUnparseable))
}

func TestDetailParserZeroHP(t *testing.T) {
	html := `<html><body>
		<h1 class="Heading1">テストカード</h1>
		<span class="hp-num">0</span>
		<div>&nbsp;002&nbsp;/&nbsp;106&nbsp;</div>
	</body></html>`

	parser := &DetailParser{BaseURL: "https://www.pokemon-card.com"}
	record, err := parser.Parse(html, "https://www.pokemon-card.com/card-search/details.php/card/2")
	require.NoError(t, err)

	// Located markup with value zero is present, not absent
	require.NotNil(t, record.HP)
	assert.Equal(t, 0, *record.HP)
}
