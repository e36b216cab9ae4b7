package calculator

import (
	"math"
	"testing"

	"github.com/mmynk/docelucro/internal/models"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		unit models.DisplayUnit
		qty  float64
		want float64
	}{
		{models.DisplayUnitOriginal, 125, 125},
		{models.DisplayUnitCup, 2, 480},
		{models.DisplayUnitCup, 0.5, 120},
		{models.DisplayUnitTablespoon, 3, 45},
		{models.DisplayUnitTeaspoon, 1.5, 7.5},
	}

	for _, tt := range tests {
		t.Run(string(tt.unit), func(t *testing.T) {
			if got := Convert(tt.qty, tt.unit); math.Abs(got-tt.want) > tolerance {
				t.Errorf("Convert(%v, %s) = %v, want %v", tt.qty, tt.unit, got, tt.want)
			}
		})
	}
}

func TestConvert_Linear(t *testing.T) {
	quantities := []float64{0.1, 1, 2.5, 33, 1000}
	for _, u := range Units() {
		for _, q := range quantities {
			if got, want := Convert(2*q, u.Unit), 2*Convert(q, u.Unit); math.Abs(got-want) > tolerance {
				t.Errorf("Convert(2*%v, %s) = %v, want %v", q, u.Unit, got, want)
			}
		}
	}
}

func TestParseUnit(t *testing.T) {
	tests := []struct {
		tag     string
		want    models.DisplayUnit
		wantErr bool
	}{
		{"original", models.DisplayUnitOriginal, false},
		{"", models.DisplayUnitOriginal, false},
		{"cup", models.DisplayUnitCup, false},
		{"  Tablespoon ", models.DisplayUnitTablespoon, false},
		{"teaspoon", models.DisplayUnitTeaspoon, false},
		{"xicara", models.DisplayUnitCup, false},
		{"colher-sopa", models.DisplayUnitTablespoon, false},
		{"colher-cha", models.DisplayUnitTeaspoon, false},
		{"Xícara", models.DisplayUnitCup, false},
		{"colher-chá", models.DisplayUnitTeaspoon, false},
		{"pinch", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got, err := ParseUnit(tt.tag)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseUnit(%q) error = %v, wantErr %v", tt.tag, err, tt.wantErr)
			}
			if tt.wantErr {
				if !models.IsValidation(err) {
					t.Errorf("ParseUnit(%q) error type = %T, want validation error", tt.tag, err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseUnit(%q) = %q, want %q", tt.tag, got, tt.want)
			}
		})
	}
}

func TestFactor_UnknownUnitPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown unit")
		}
	}()
	Factor("gallon")
}

func TestUnits(t *testing.T) {
	units := Units()
	if len(units) != 4 {
		t.Fatalf("expected 4 units, got %d", len(units))
	}
	if units[0].Unit != models.DisplayUnitOriginal || units[0].Factor != 1 {
		t.Errorf("first unit = %+v, want original with factor 1", units[0])
	}
	for _, u := range units {
		if u.Label == "" {
			t.Errorf("unit %s has no label", u.Unit)
		}
		if Label(u.Unit) != u.Label {
			t.Errorf("Label(%s) = %q, want %q", u.Unit, Label(u.Unit), u.Label)
		}
	}
}
