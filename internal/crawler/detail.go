package crawler

import (
	"regexp"
	"strconv"

	"knagahashi/cardharvester/helpers"
	apperr "knagahashi/cardharvester/pkg/errors"
)

// unknownCardName is stored when a page has an ID but no parseable name
const unknownCardName = "不明なカード"

var (
	specName      = FieldSpec{Name: "name", Pattern: regexp.MustCompile(`(?is)<h1[^>]*class="Heading1[^"]*"[^>]*>(.*?)</h1>`), Group: 1}
	specHP        = FieldSpec{Name: "hp", Pattern: regexp.MustCompile(`(?i)<span[^>]*class="hp-num"[^>]*>(\d+)</span>`), Group: 1}
	specAbility   = FieldSpec{Name: "ability", Pattern: regexp.MustCompile(`(?is)<h2[^>]*>特性</h2>\s*<h4[^>]*>(.*?)</h4>`), Group: 1}
	specImage     = FieldSpec{Name: "image", Pattern: regexp.MustCompile(`(?i)<img[^>]*class="fit"[^>]*src="([^"]*)"`), Group: 1}
	specExpansion = FieldSpec{Name: "expansion", Pattern: regexp.MustCompile(`(?i)src="/assets/images/card/regulation_logo_1/([^.]+)\.gif"`), Group: 1}
	specResist    = FieldSpec{Name: "resistance", Pattern: regexp.MustCompile(`(?is)<th>抵抗力</th>.*?<td>([^<]+)</td>`), Group: 1, Post: dropPlaceholder}
)

// dropPlaceholder treats the site's "--" cell content as absent
func dropPlaceholder(s string) string {
	if s == "--" {
		return ""
	}
	return s
}

// DetailParser turns one card detail page into a CardRecord
type DetailParser struct {
	// BaseURL resolves relative image paths
	BaseURL string
}

// Parse extracts a CardRecord from a detail page's HTML. pageURL is stored
// as-is; it is the URL the page was fetched from, never parsed out of the
// markup. Individual fields degrade to absent on any extraction failure.
// The only hard failure is a page yielding neither a card ID nor a name.
func (p *DetailParser) Parse(html, pageURL string) (*CardRecord, error) {
	cardID := extractCardID(html)
	name := specName.Extract(html)

	if cardID == "" && name == "" {
		return nil, apperr.NewUnparseable(pageURL)
	}
	if name == "" {
		name = unknownCardName
	}

	record := &CardRecord{
		CardID:      cardID,
		Name:        name,
		ImageURL:    helpers.ResolveURL(p.BaseURL, specImage.Extract(html)),
		PageURL:     pageURL,
		Expansion:   specExpansion.Extract(html),
		Rarity:      extractRarity(html),
		CardType:    extractCardType(html),
		Attack1:     extractAttack(html, 1),
		Attack2:     extractAttack(html, 2),
		Ability:     specAbility.Extract(html),
		Weakness:    extractWeakness(html),
		Resistance:  specResist.Extract(html),
		RetreatCost: extractRetreatCost(html),
	}

	if hp := specHP.Extract(html); hp != "" {
		if v, err := strconv.Atoi(hp); err == nil {
			record.HP = &v
		}
	}

	return record, nil
}
