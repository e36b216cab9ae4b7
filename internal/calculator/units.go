package calculator

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/mmynk/docelucro/internal/models"
)

// unitDef is one row of the conversion table.
type unitDef struct {
	label  string
	factor float64 // displayQuantity * factor = base quantity (g, ml or un)
}

// conversionTable uses kitchen equivalences and does not distinguish mass from
// volume: 1 cup is 240 g or 240 ml.
var conversionTable = map[models.DisplayUnit]unitDef{
	models.DisplayUnitOriginal:   {label: "Original unit", factor: 1},
	models.DisplayUnitCup:        {label: "Cup (240 g/ml)", factor: 240},
	models.DisplayUnitTablespoon: {label: "Tablespoon (15 g/ml)", factor: 15},
	models.DisplayUnitTeaspoon:   {label: "Teaspoon (5 g/ml)", factor: 5},
}

// unitOrder is the order units are presented in.
var unitOrder = []models.DisplayUnit{
	models.DisplayUnitOriginal,
	models.DisplayUnitCup,
	models.DisplayUnitTablespoon,
	models.DisplayUnitTeaspoon,
}

// legacyUnitTags maps the tags stored by the first version of the app.
var legacyUnitTags = map[string]models.DisplayUnit{
	"xicara":      models.DisplayUnitCup,
	"colher-sopa": models.DisplayUnitTablespoon,
	"colher-cha":  models.DisplayUnitTeaspoon,
}

// UnitInfo describes a display unit for clients.
type UnitInfo struct {
	Unit   models.DisplayUnit
	Label  string
	Factor float64
}

// Units returns the conversion table in presentation order.
func Units() []UnitInfo {
	out := make([]UnitInfo, 0, len(unitOrder))
	for _, u := range unitOrder {
		def := conversionTable[u]
		out = append(out, UnitInfo{Unit: u, Label: def.label, Factor: def.factor})
	}
	return out
}

// ParseUnit validates a display-unit tag coming from outside the process.
// An empty tag means "original". Matching ignores case and accents, so
// "Xícara" is a cup.
func ParseUnit(tag string) (models.DisplayUnit, error) {
	t := strings.ToLower(strings.TrimSpace(foldAccents(tag)))
	if t == "" {
		return models.DisplayUnitOriginal, nil
	}
	if u, ok := legacyUnitTags[t]; ok {
		return u, nil
	}
	u := models.DisplayUnit(t)
	if _, ok := conversionTable[u]; !ok {
		return "", models.NewValidationError("display_unit", "unknown unit %q", tag)
	}
	return u, nil
}

// Factor returns the conversion factor for u. Units must come from ParseUnit
// or the package constants; an unknown unit panics.
func Factor(u models.DisplayUnit) float64 {
	def, ok := conversionTable[u]
	if !ok {
		panic(fmt.Sprintf("calculator: unknown display unit %q", u))
	}
	return def.factor
}

// Label returns the human-readable label for u.
func Label(u models.DisplayUnit) string {
	return conversionTable[u].label
}

// Convert turns a display quantity into the ingredient's base unit.
func Convert(displayQuantity float64, u models.DisplayUnit) float64 {
	return displayQuantity * Factor(u)
}

// foldAccents strips combining marks: "colher-chá" becomes "colher-cha".
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
