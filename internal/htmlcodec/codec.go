// Package htmlcodec extracts the dealer array and the region options embedded
// in the published directory page, and splices updated versions back in.
//
// The page carries its data in two fixed fragments: a JavaScript assignment
// `const dealersData = [...];` and a `<select id="areaSelect">` block of
// self-referential options. Both are located by anchored patterns rather than
// a full HTML parse; anything outside those two spans is passed through
// untouched.
package htmlcodec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/bishnuhaldar/dealerdesk/internal/apperr"
	"github.com/bishnuhaldar/dealerdesk/internal/models"
)

const (
	dealersPrefix = "const dealersData = "

	selectOpen  = `<select class="area-select" id="areaSelect">`
	selectClose = `</select>`

	// Placeholder option that always leads the rebuilt select block.
	regionPlaceholder = `<option value="">-- Choose an area --</option>`

	// Indentation of the option lines and the closing tag in the page source.
	optionIndent = "\n                    "
	closeIndent  = "\n                "

	arrayIndent = "            " // 12 spaces, matching the page's script block
)

var (
	dealersRe = regexp.MustCompile(`(?s)const dealersData = (\[.*?\]);`)
	// Bare object keys after { or , — already-quoted keys do not match, which
	// keeps the rewrite idempotent.
	bareKeyRe = regexp.MustCompile(`([{,]\s*)([A-Za-z_]\w*)\s*:`)
	optionRe  = regexp.MustCompile(`<option value="(\w+)">(\w+)</option>`)
	selectRe  = regexp.MustCompile(`(?s)` + regexp.QuoteMeta(selectOpen) + `.*?` + regexp.QuoteMeta(selectClose))
)

// glyphFixer repairs the three known mis-encodings in the page: the rupee,
// star, and phone glyphs read back as cp1252 after a Latin-1 round trip.
// The star sequence contains a soft hyphen and a C1 control, both invisible
// in most editors. The replacer is a no-op on already-correct text.
var glyphFixer = strings.NewReplacer(
	"â‚¹", "₹", // ₹
	"â­", "⭐", // ⭐
	"ðŸ“ž", "\U0001f4de", // 📞
)

// DecodeDealers extracts the dealer array from the page text.
//
// A missing assignment statement is reported as apperr.ErrTargetNotFound so
// callers can tell "statement absent" apart from a genuinely empty directory,
// which decodes to an empty non-nil slice.
func DecodeDealers(page string) ([]models.Dealer, error) {
	m := dealersRe.FindStringSubmatch(page)
	if m == nil {
		return nil, fmt.Errorf("htmlcodec: dealers assignment: %w", apperr.ErrTargetNotFound)
	}

	raw := glyphFixer.Replace(m[1])
	raw = bareKeyRe.ReplaceAllString(raw, `$1"$2":`)

	dealers := []models.Dealer{}
	if err := json.Unmarshal([]byte(raw), &dealers); err != nil {
		return nil, fmt.Errorf("htmlcodec: parse dealers array: %w", err)
	}
	return dealers, nil
}

// DecodeRegions collects the distinct region labels from the areaSelect
// block. Only options whose value and display text match are regions; the
// empty-valued placeholder is skipped. A page without the block is reported
// as apperr.ErrTargetNotFound.
func DecodeRegions(page string) ([]string, error) {
	block := selectRe.FindString(page)
	if block == "" {
		return nil, fmt.Errorf("htmlcodec: area select block: %w", apperr.ErrTargetNotFound)
	}

	matches := optionRe.FindAllStringSubmatch(block, -1)
	seen := make(map[string]struct{}, len(matches))
	regions := []string{}
	for _, m := range matches {
		// RE2 has no backreferences; enforce value == display here.
		if m[1] == "" || m[1] != m[2] {
			continue
		}
		if _, dup := seen[m[1]]; dup {
			continue
		}
		seen[m[1]] = struct{}{}
		regions = append(regions, m[1])
	}
	return regions, nil
}

// EncodeDealers serializes dealers and splices the result over the existing
// assignment statement. If the statement is absent the page is returned
// unchanged together with apperr.ErrTargetNotFound; callers must treat that
// as a hard failure, not a successful no-op.
func EncodeDealers(page string, dealers []models.Dealer) (string, error) {
	loc := dealersRe.FindStringIndex(page)
	if loc == nil {
		return page, fmt.Errorf("htmlcodec: dealers assignment: %w", apperr.ErrTargetNotFound)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false) // keep glyphs and markup characters verbatim
	enc.SetIndent("", arrayIndent)
	if err := enc.Encode(dealers); err != nil {
		return page, fmt.Errorf("htmlcodec: serialize dealers: %w", err)
	}
	literal := strings.TrimRight(buf.String(), "\n")

	return page[:loc[0]] + dealersPrefix + literal + ";" + page[loc[1]:], nil
}

// EncodeRegions rebuilds the whole areaSelect block: the fixed placeholder
// followed by one option per region, sorted lexicographically and
// deduplicated. If the block is absent the page is returned unchanged
// together with apperr.ErrTargetNotFound.
func EncodeRegions(page string, regions []string) (string, error) {
	loc := selectRe.FindStringIndex(page)
	if loc == nil {
		return page, fmt.Errorf("htmlcodec: area select block: %w", apperr.ErrTargetNotFound)
	}

	sorted := sortedUnique(regions)
	options := make([]string, 0, len(sorted)+1)
	options = append(options, regionPlaceholder)
	for _, r := range sorted {
		options = append(options, fmt.Sprintf(`<option value="%s">%s</option>`, r, r))
	}

	block := selectOpen + optionIndent + strings.Join(options, optionIndent) + closeIndent + selectClose
	return page[:loc[0]] + block + page[loc[1]:], nil
}

func sortedUnique(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
