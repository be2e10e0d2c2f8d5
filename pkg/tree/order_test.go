package tree

import "testing"

func TestParseOrder(t *testing.T) {
	tests := []struct {
		in      string
		want    Order
		wantErr bool
	}{
		{"pre", PreOrder, false},
		{"PreOrder", PreOrder, false},
		{"in-order", InOrder, false},
		{" post ", PostOrder, false},
		{"postorder", PostOrder, false},
		{"level", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOrder(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseOrder(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseOrder(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestOrderString(t *testing.T) {
	for _, o := range Orders {
		back, err := ParseOrder(o.String())
		if err != nil || back != o {
			t.Errorf("ParseOrder(%q) = (%v, %v), want %v", o.String(), back, err, o)
		}
	}
	if got := Order(9).String(); got != "Order(9)" {
		t.Errorf("String() = %q, want Order(9)", got)
	}
}

func TestByKey(t *testing.T) {
	pos := map[string]float64{"a": 3, "b": 1, "c": 1}
	f := ByKey(func(id string) float64 { return pos[id] })
	if f("a", "b", "") <= 0 {
		t.Error("a should sort after b")
	}
	if f("b", "c", "") != 0 {
		t.Error("equal keys should compare as zero")
	}
}
