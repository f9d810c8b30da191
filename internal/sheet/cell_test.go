package sheet

import "testing"

func TestCellOf(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind CellKind
	}{
		{"Integer", "42", KindNumber},
		{"Decimal", "3.14", KindNumber},
		{"Negative", "-7", KindNumber},
		{"Scientific", "1e3", KindNumber},
		{"Padded number", "  5 ", KindNumber},
		{"Plain text", "hello", KindText},
		{"Empty", "", KindText},
		{"Whitespace", "   ", KindText},
		{"Mixed", "12abc", KindText},
		{"NaN literal", "NaN", KindText},
		{"Inf literal", "Inf", KindText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CellOf(tt.raw)
			if got.Kind() != tt.kind {
				t.Errorf("CellOf(%q).Kind() = %v; want %v", tt.raw, got.Kind(), tt.kind)
			}
		})
	}
}

func TestCellFloat(t *testing.T) {
	tests := []struct {
		name string
		cell Cell
		want float64
		ok   bool
	}{
		{"Number cell", Number(2.5), 2.5, true},
		{"Numeric text", Text("5"), 5, true},
		{"Padded numeric text", Text(" 7.5 "), 7.5, true},
		{"Plain text", Text("x"), 0, false},
		{"Empty text", Text(""), 0, false},
		{"NaN text", Text("NaN"), 0, false},
		{"Inf text", Text("-Inf"), 0, false},
		{"Zero cell", Cell{}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.cell.Float()
			if ok != tt.ok || got != tt.want {
				t.Errorf("Float() = (%v, %v); want (%v, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestCellString(t *testing.T) {
	tests := []struct {
		name string
		cell Cell
		want string
	}{
		{"Integer number", Number(10), "10"},
		{"Decimal number", Number(2.5), "2.5"},
		{"Text", Text("March"), "March"},
		{"Text keeps spaces", Text(" a "), " a "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cell.String(); got != tt.want {
				t.Errorf("String() = %q; want %q", got, tt.want)
			}
		})
	}
}
