package htmlcodec

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/bishnuhaldar/dealerdesk/internal/apperr"
	"github.com/bishnuhaldar/dealerdesk/internal/models"
	"github.com/bishnuhaldar/dealerdesk/internal/testutil"
)

func TestDecodeDealers_BareKeys(t *testing.T) {
	page := `<script>const dealersData = [{name:"A",contact:"1",rating:"5",regions:["X"],paddyTypes:[{name:"Rice",price:"100",unit:"per quintal"}]}];</script>`

	dealers, err := DecodeDealers(page)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dealers) != 1 {
		t.Fatalf("len(dealers) = %d, want 1", len(dealers))
	}
	d := dealers[0]
	if d.Name != "A" {
		t.Errorf("name = %q, want A", d.Name)
	}
	if !reflect.DeepEqual(d.Regions, []string{"X"}) {
		t.Errorf("regions = %v, want [X]", d.Regions)
	}
	if len(d.PaddyTypes) != 1 || d.PaddyTypes[0].Name != "Rice" || d.PaddyTypes[0].Price != "100" {
		t.Errorf("paddyTypes = %+v", d.PaddyTypes)
	}
}

func TestDecodeDealers_SampleDocument(t *testing.T) {
	dealers, err := DecodeDealers(testutil.SampleDocument)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dealers) != 1 {
		t.Fatalf("len(dealers) = %d, want 1", len(dealers))
	}
	if dealers[0].Name != "Haldar Traders" {
		t.Errorf("name = %q", dealers[0].Name)
	}
	if dealers[0].PaddyTypes[0].Price != "₹2100" {
		t.Errorf("price = %q, want ₹2100", dealers[0].PaddyTypes[0].Price)
	}
}

func TestDecodeDealers_MissingStatement(t *testing.T) {
	_, err := DecodeDealers("<html><body>no data here</body></html>")
	if !errors.Is(err, apperr.ErrTargetNotFound) {
		t.Fatalf("err = %v, want ErrTargetNotFound", err)
	}
}

func TestDecodeDealers_EmptyArrayIsNotMissing(t *testing.T) {
	dealers, err := DecodeDealers("<script>const dealersData = [];</script>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dealers == nil || len(dealers) != 0 {
		t.Errorf("dealers = %#v, want empty non-nil slice", dealers)
	}
}

func TestDecodeDealers_GlyphRepair(t *testing.T) {
	// The garbled byte sequences the page historically carries: the UTF-8
	// bytes of ₹, ⭐ and 📞 re-read as cp1252.
	page := `const dealersData = [{name:"A",contact:"ðŸ“ž 123",rating:"â­ 4",regions:[],paddyTypes:[{name:"R",price:"â‚¹100",unit:"per quintal"}]}];`

	dealers, err := DecodeDealers(page)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d := dealers[0]
	if d.Contact != "📞 123" {
		t.Errorf("contact = %q, want phone glyph", d.Contact)
	}
	if d.Rating != "⭐ 4" {
		t.Errorf("rating = %q, want star glyph", d.Rating)
	}
	if d.PaddyTypes[0].Price != "₹100" {
		t.Errorf("price = %q, want rupee glyph", d.PaddyTypes[0].Price)
	}
}

func TestDecodeDealers_GlyphRepairIdempotent(t *testing.T) {
	page := `const dealersData = [{name:"A",contact:"📞 1",rating:"⭐ 5",regions:[],paddyTypes:[{name:"R",price:"₹1",unit:"per quintal"}]}];`
	dealers, err := DecodeDealers(page)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dealers[0].Contact != "📞 1" || dealers[0].Rating != "⭐ 5" {
		t.Errorf("correct glyphs were altered: %+v", dealers[0])
	}
}

func TestDealers_RoundTrip(t *testing.T) {
	want := []models.Dealer{
		{
			Name:    "Ghosh & Sons",
			Contact: "📞 99999 00000",
			Rating:  "⭐ 4.8",
			Regions: []string{"Hooghly", "Burdwan"},
			PaddyTypes: []models.PriceEntry{
				{Name: "Miniket", Price: "₹2350", Unit: "per quintal"},
				{Name: "Swarna", Price: "₹2100", Unit: "per quintal"},
			},
		},
		{
			Name:       "Haldar Traders",
			Contact:    "📞 98300 11111",
			Rating:     "⭐ 4.5",
			Regions:    []string{},
			PaddyTypes: []models.PriceEntry{{Name: "Ratna", Price: "₹2000", Unit: "per quintal"}},
		},
	}

	page, err := EncodeDealers(testutil.SampleDocument, want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeDealers(page)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestEncodeDealers_Idempotent(t *testing.T) {
	dealers := []models.Dealer{{
		Name:       "A",
		Contact:    "1",
		Rating:     "5",
		Regions:    []string{"X"},
		PaddyTypes: []models.PriceEntry{{Name: "Rice", Price: "100", Unit: "per quintal"}},
	}}

	first, err := EncodeDealers(testutil.SampleDocument, dealers)
	if err != nil {
		t.Fatalf("first encode: %v", err)
	}
	second, err := EncodeDealers(testutil.SampleDocument, dealers)
	if err != nil {
		t.Fatalf("second encode: %v", err)
	}
	if first != second {
		t.Error("encoding the same list twice produced different output")
	}

	// Re-encoding into the already-updated page must also be stable.
	again, err := EncodeDealers(first, dealers)
	if err != nil {
		t.Fatalf("re-encode: %v", err)
	}
	if again != first {
		t.Error("re-encoding into updated page changed the text")
	}
}

func TestEncodeDealers_MissingStatement(t *testing.T) {
	const page = "<html><body>nothing</body></html>"
	out, err := EncodeDealers(page, nil)
	if !errors.Is(err, apperr.ErrTargetNotFound) {
		t.Fatalf("err = %v, want ErrTargetNotFound", err)
	}
	if out != page {
		t.Error("page was modified despite missing target")
	}
}

func TestEncodeDealers_LeavesRestOfPageIntact(t *testing.T) {
	page, err := EncodeDealers(testutil.SampleDocument, []models.Dealer{})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(page, "<title>Paddy Dealers</title>") {
		t.Error("surrounding markup was lost")
	}
	if !strings.Contains(page, `id="areaSelect"`) {
		t.Error("select block was lost")
	}
	if !strings.Contains(page, "const dealersData = [];") {
		t.Errorf("empty list not spliced in:\n%s", page)
	}
}

func TestDecodeRegions_Sample(t *testing.T) {
	regions, err := DecodeRegions(testutil.SampleDocument)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(regions, []string{"Burdwan", "Hooghly"}) {
		t.Errorf("regions = %v", regions)
	}
}

func TestDecodeRegions_SkipsNonSelfReferential(t *testing.T) {
	page := `<select class="area-select" id="areaSelect">
		<option value="">-- Choose an area --</option>
		<option value="X">Y</option>
		<option value="Z">Z</option>
		<option value="Z">Z</option>
	</select>`
	regions, err := DecodeRegions(page)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(regions, []string{"Z"}) {
		t.Errorf("regions = %v, want [Z]", regions)
	}
}

func TestDecodeRegions_MissingBlock(t *testing.T) {
	_, err := DecodeRegions("<html><select id=\"other\"></select></html>")
	if !errors.Is(err, apperr.ErrTargetNotFound) {
		t.Fatalf("err = %v, want ErrTargetNotFound", err)
	}
}

func TestEncodeRegions_SortedWithPlaceholder(t *testing.T) {
	page, err := EncodeRegions(testutil.SampleDocument, []string{"West", "East"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	iPlaceholder := strings.Index(page, regionPlaceholder)
	iEast := strings.Index(page, `<option value="East">East</option>`)
	iWest := strings.Index(page, `<option value="West">West</option>`)
	if iPlaceholder < 0 || iEast < 0 || iWest < 0 {
		t.Fatalf("missing options in output:\n%s", page)
	}
	if !(iPlaceholder < iEast && iEast < iWest) {
		t.Errorf("option order wrong: placeholder=%d east=%d west=%d", iPlaceholder, iEast, iWest)
	}
	if strings.Contains(page, "Burdwan") && strings.Contains(page, `<option value="Burdwan">`) {
		t.Error("old options survived the rebuild")
	}
}

func TestRegions_RoundTrip(t *testing.T) {
	in := []string{"West", "East", "West", "North"}

	page, err := EncodeRegions(testutil.SampleDocument, in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeRegions(page)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"East", "North", "West"}) {
		t.Errorf("round trip = %v, want sorted unique input", got)
	}
}

func TestEncodeRegions_MissingBlock(t *testing.T) {
	const page = "<html></html>"
	out, err := EncodeRegions(page, []string{"X"})
	if !errors.Is(err, apperr.ErrTargetNotFound) {
		t.Fatalf("err = %v, want ErrTargetNotFound", err)
	}
	if out != page {
		t.Error("page was modified despite missing target")
	}
}
