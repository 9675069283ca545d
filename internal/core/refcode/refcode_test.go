package refcode

import (
	"strings"
	"testing"
)

func TestPropertyCode(t *testing.T) {
	tests := []struct {
		name string
		city string
		want string
	}{
		{"Malaga-Centro", "Malaga", "malaga-Malaga-Centro-001"},
		{"Casa Azul", "Sevilla", "sevilla-Casa-Azul-001"},
		{"Piso Sol", "", "Piso-Sol-001"},
		// Accents fold before slugging.
		{"Jardín Río", "Málaga", "malaga-Jardin-Rio-001"},
	}

	for _, tt := range tests {
		if got := PropertyCode(tt.name, tt.city); got != tt.want {
			t.Errorf("PropertyCode(%q, %q) = %q; want %q", tt.name, tt.city, got, tt.want)
		}
	}
}

func TestPropertyCodeDeterministic(t *testing.T) {
	a := PropertyCode("Malaga-Centro", "Malaga")
	b := PropertyCode("Malaga-Centro", "Malaga")
	if a != b {
		t.Errorf("PropertyCode is not deterministic: %q != %q", a, b)
	}
}

func TestPropertyCodeDropsCityWhenTooLong(t *testing.T) {
	got := PropertyCode("Residencia Estudiantil", "Torremolinos")
	// "torremolinos-Residencia-Estudiantil-001" is over the ceiling, so the
	// whole city segment goes.
	if got != "Residencia-Estudiantil-001" {
		t.Errorf("PropertyCode = %q; want city segment dropped", got)
	}
}

func TestPropertyCodeLengthCeiling(t *testing.T) {
	inputs := []struct{ name, city string }{
		{"Malaga-Centro", "Malaga"},
		{"Residencia Universitaria del Mar Mediterraneo", "Fuengirola"},
		{strings.Repeat("Appartamento ", 5), "Benalmadena"},
		{"X", "Y"},
		// A single word can be too long on its own; there is no segment
		// left to drop.
		{"Appartamentosuperlargodelmarmediterraneo", "Malaga"},
		{strings.Repeat("a", 200), ""},
	}

	for _, in := range inputs {
		if got := PropertyCode(in.name, in.city); len(got) > MaxLength {
			t.Errorf("PropertyCode(%q, %q) = %q, length %d exceeds %d",
				in.name, in.city, got, len(got), MaxLength)
		}
	}
}

func TestPropertyCodeShortensIrreducibleNames(t *testing.T) {
	a := PropertyCode("Appartamentosuperlargodelmarmediterraneo", "Malaga")
	b := PropertyCode("Appartamentosuperlargodelmarmediterraneoazul", "Malaga")

	if len(a) > MaxLength || len(b) > MaxLength {
		t.Fatalf("shortened codes exceed the ceiling: %q (%d), %q (%d)",
			a, len(a), b, len(b))
	}
	// Distinct names sharing a long prefix must not collide.
	if a == b {
		t.Errorf("distinct names collided on %q", a)
	}
	if a != PropertyCode("Appartamentosuperlargodelmarmediterraneo", "Malaga") {
		t.Errorf("shortened code is not deterministic")
	}
	if !strings.HasSuffix(a, "-001") {
		t.Errorf("shortened code %q lost the property suffix", a)
	}
}

func TestUnitCode(t *testing.T) {
	tests := []struct {
		code  string
		index int
		want  string
	}{
		{"malaga-Malaga-Centro-001", 1, "M-M-C-002"},
		{"malaga-Malaga-Centro-001", 0, "M-M-C-001"},
		{"sevilla-Casa-Azul-001", 11, "S-C-A-012"},
		// No hyphens: the property code is kept whole.
		{"studio42", 0, "studio42-001"},
		// Initials are runes, not bytes: Ø survives accent folding.
		{"øst-Havnefront-001", 0, "Ø-H-001"},
	}

	for _, tt := range tests {
		if got := UnitCode(tt.code, tt.index); got != tt.want {
			t.Errorf("UnitCode(%q, %d) = %q; want %q", tt.code, tt.index, got, tt.want)
		}
	}
}

func TestUnitCodeDeterministic(t *testing.T) {
	a := UnitCode("malaga-Malaga-Centro-001", 3)
	b := UnitCode("malaga-Malaga-Centro-001", 3)
	if a != b {
		t.Errorf("UnitCode is not deterministic: %q != %q", a, b)
	}
}
