package extract

import "testing"

func TestArea(t *testing.T) {
	tests := []struct {
		text string
		want float64
		ok   bool
	}{
		{"Cozy flat, 45m2, bright", 45, true},
		{"Approx. 82 m2 plus terrace", 82, true},
		{"Estudio de 30,5m2 en el centro", 30.5, true},
		{"90m² total", 90, true},
		{"no area here", 0, false},
		{"price is 1200 monthly", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := Area(tt.text)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Area(%q) = %.2f, %v; want %.2f, %v", tt.text, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCost(t *testing.T) {
	tests := []struct {
		text string
		want float64
		ok   bool
	}{
		{"€1,234.56 total", 1234.56, true},
		{"1.234,56€", 1234.56, true},
		{"€850.00 per month", 850, true},
		{"deposit 950€", 950, true},
		{"Fianza: 1.100€", 1100, true},
		{"$2,000.50 charged", 2000.50, true},
		{"call for price", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := Cost(tt.text)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Cost(%q) = %.2f, %v; want %.2f, %v", tt.text, got, ok, tt.want, tt.ok)
		}
	}
}

func TestMonthWindow(t *testing.T) {
	tests := []struct {
		text      string
		wantStart string
		wantEnd   string
		ok        bool
	}{
		{"Available from August 2025", "2025-08-01", "2025-08-31", true},
		{"Disponible desde agosto 2025", "2025-08-01", "2025-08-31", true},
		{"Free in February 2024", "2024-02-01", "2024-02-29", true}, // leap year
		{"February 2025", "2025-02-01", "2025-02-28", true},
		{"Desde Septiembre de 2026", "2026-09-01", "2026-09-30", true},
		{"available soon", "", "", false},
		{"August", "", "", false}, // month with no year
		{"", "", "", false},
	}

	for _, tt := range tests {
		start, end, ok := MonthWindow(tt.text)
		if ok != tt.ok || start != tt.wantStart || end != tt.wantEnd {
			t.Errorf("MonthWindow(%q) = %q, %q, %v; want %q, %q, %v",
				tt.text, start, end, ok, tt.wantStart, tt.wantEnd, tt.ok)
		}
	}
}

func TestCleanDescription(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"<p>Bright   flat</p><br><b>near the beach</b>", "Bright flat near the beach"},
		{"plain text,  double  spaced", "plain text, double spaced"},
		{"<div><ul><li>wifi</li><li>pool</li></ul></div>", "wifipool"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := CleanDescription(tt.in); got != tt.want {
			t.Errorf("CleanDescription(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}

	// Idempotence: cleaning already-clean text changes nothing.
	once := CleanDescription("<p>Two   bedrooms</p>")
	if twice := CleanDescription(once); twice != once {
		t.Errorf("CleanDescription not idempotent: %q != %q", twice, once)
	}
}

func TestFoldAccents(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Málaga", "Malaga"},
		{"habitación con baño", "habitacion con bano"},
		{"Überstraße", "Uberstraße"}, // ß carries no combining mark
		{"plain", "plain"},
	}

	for _, tt := range tests {
		if got := FoldAccents(tt.in); got != tt.want {
			t.Errorf("FoldAccents(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}
