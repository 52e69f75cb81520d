package crawler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"knagahashi/cardharvester/helpers"

	"github.com/PuerkitoBio/goquery"
)

// FieldSpec describes how one field is embedded in a detail page: a pattern
// with a single capturing group and an optional post-processing step. Site
// format drift is handled by editing the table in detail.go, not the logic
// here.
type FieldSpec struct {
	Name    string
	Pattern *regexp.Regexp
	Group   int
	Post    func(string) string
}

// Extract returns the first match's captured text, entity-decoded and
// trimmed, or "" when the pattern does not match anywhere on the page.
func (f FieldSpec) Extract(html string) string {
	value := extractFirst(f.Pattern, html, f.Group)
	if value == "" {
		return ""
	}
	if f.Post != nil {
		value = f.Post(value)
	}
	return value
}

// extractFirst returns the cleaned capture of the first match, "" on no match.
// Later occurrences on the page are ignored: detail pages carry each field
// once in the primary location.
func extractFirst(re *regexp.Regexp, html string, group int) string {
	m := re.FindStringSubmatch(html)
	if m == nil || len(m) <= group {
		return ""
	}
	return helpers.CleanHTMLText(m[group])
}

// extractAll returns the cleaned captures of every match, in document order.
func extractAll(re *regexp.Regexp, html string, group int) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(html, -1) {
		if len(m) > group {
			out = append(out, helpers.CleanHTMLText(m[group]))
		}
	}
	return out
}

// Icon and filename patterns for fields that are not encoded as text
var (
	reTypeIcon     = regexp.MustCompile(`<span[^>]*class="icon-([a-z]+) icon"[^>]*></span>`)
	reRarityCode   = regexp.MustCompile(`ic_rare_([^_.]+)`)
	reWeakness     = regexp.MustCompile(`(?is)<th>弱点</th>.*?<td><span[^>]*class="icon-([a-z]+)[^>]*></span>×(\d+)</td>`)
	reRetreatCell  = regexp.MustCompile(`(?is)<th>にげる</th>.*?<td[^>]*class="escape"[^>]*>(.*?)</td>`)
	reAttackHeader = regexp.MustCompile(`(?i)<h2[^>]*>ワザ</h2>`)
	reAttackBlock  = regexp.MustCompile(`(?is)<h4[^>]*>(.*?)</h4>`)
	reAttackName   = regexp.MustCompile(`</span>([^<]+)<span[^>]*f_right`)
	reAttackDamage = regexp.MustCompile(`(?i)<span[^>]*f_right[^>]*>(\d+)</span>`)
	reCardSerial   = regexp.MustCompile(`(?i)&nbsp;(\d+)&nbsp;/&nbsp;(\d+)&nbsp;`)
)

// unknownTypeLabel is what TypeLabel returns for unrecognized icon codes.
// Callers treat it as absent.
const unknownTypeLabel = "不明"

var iconTypeLabels = map[string]string{
	"electric":  "でんき",
	"fire":      "ほのお",
	"water":     "みず",
	"grass":     "くさ",
	"fighting":  "かくとう",
	"psychic":   "エスパー",
	"dark":      "あく",
	"steel":     "はがね",
	"fairy":     "フェアリー",
	"dragon":    "ドラゴン",
	"colorless": "無色",
	"none":      "無色",
}

var rarityCodes = map[string]string{
	"sr":  "SR",
	"ur":  "UR",
	"hr":  "HR",
	"rr":  "RR",
	"r":   "R",
	"u":   "U",
	"c":   "C",
	"ar":  "AR",
	"sar": "SAR",
}

// TypeLabel maps an icon class keyword to its display label. Unrecognized
// codes map to the unknown sentinel rather than an error.
func TypeLabel(iconName string) string {
	if label, ok := iconTypeLabels[strings.ToLower(iconName)]; ok {
		return label
	}
	return unknownTypeLabel
}

// RarityLabel maps a rarity code from an icon filename to its canonical
// short code. Unrecognized codes pass through uppercased.
func RarityLabel(code string) string {
	if label, ok := rarityCodes[strings.ToLower(code)]; ok {
		return label
	}
	return strings.ToUpper(code)
}

// extractCardType returns the card's own type from the icon next to the HP
// value. Colorless and unrecognized icons are skipped: they belong to cost
// markup, not the card itself.
func extractCardType(html string) string {
	for _, m := range reTypeIcon.FindAllStringSubmatch(html, -1) {
		if len(m) < 2 {
			continue
		}
		label := TypeLabel(m[1])
		if label != unknownTypeLabel && label != "無色" {
			return label
		}
	}
	return ""
}

// extractRarity returns the canonical rarity code, "" when no rarity icon
// is on the page.
func extractRarity(html string) string {
	code := extractFirst(reRarityCode, html, 1)
	if code == "" {
		return ""
	}
	return RarityLabel(code)
}

// extractWeakness returns "type×multiplier" from the weakness table cell.
func extractWeakness(html string) string {
	m := reWeakness.FindStringSubmatch(html)
	if m == nil || len(m) < 3 {
		return ""
	}
	return TypeLabel(m[1]) + "×" + m[2]
}

// extractRetreatCost counts the cost icons in the retreat table cell.
// An icon-none cell is a genuine zero. A missing cell means absent.
func extractRetreatCost(html string) *int {
	m := reRetreatCell.FindStringSubmatch(html)
	if m == nil || len(m) < 2 {
		return nil
	}
	cell := m[1]

	cost := 0
	if !strings.Contains(cell, "icon-none") {
		cost = countCostIcons(cell)
	}
	return &cost
}

// countCostIcons counts icon spans inside a table cell fragment
func countCostIcons(fragment string) int {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return 0
	}
	return doc.Find("span[class^='icon-']").Length()
}

// attackSection isolates the document between the ワザ header and the next
// header or table. RE2 has no lookahead, so the slice bounds are found by
// scanning forward from the header match.
func attackSection(html string) string {
	loc := reAttackHeader.FindStringIndex(html)
	if loc == nil {
		return ""
	}
	rest := html[loc[1]:]

	end := len(rest)
	if i := strings.Index(rest, "<h2"); i >= 0 && i < end {
		end = i
	}
	if i := strings.Index(rest, "<table"); i >= 0 && i < end {
		end = i
	}
	return rest[:end]
}

// extractAttack returns the combined text for the nth attack (1-based):
// "name(damage)", or just "name" when the damage is zero or missing.
func extractAttack(html string, ordinal int) string {
	section := attackSection(html)
	if section == "" {
		return ""
	}

	blocks := reAttackBlock.FindAllStringSubmatch(section, -1)
	if ordinal < 1 || ordinal > len(blocks) {
		return ""
	}
	block := blocks[ordinal-1][1]

	name := extractFirst(reAttackName, block, 1)
	if name == "" {
		return ""
	}

	damage := 0
	if d := extractFirst(reAttackDamage, block, 1); d != "" {
		damage, _ = strconv.Atoi(d)
	}
	if damage > 0 {
		return fmt.Sprintf("%s(%d)", name, damage)
	}
	return name
}

// extractCardID matches the serial/total pair rendered with non-breaking
// spaces and joins it as "serial/total".
func extractCardID(html string) string {
	m := reCardSerial.FindStringSubmatch(html)
	if m == nil || len(m) < 3 {
		return ""
	}
	return m[1] + "/" + m[2]
}
