package catalog

import (
	"encoding/json"
	"testing"
)

func TestID_DecodesNumbersStringsAndNull(t *testing.T) {
	var p struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"a":42,"b":"sku-9","c":null}`), &p); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if p.A != "42" || p.B != "sku-9" || !p.C.IsZero() {
		t.Fatalf("decoded ids = %q %q %q, want 42 sku-9 and zero", p.A, p.B, p.C)
	}
}

func TestID_EncodesIntegersAsNumbers(t *testing.T) {
	tests := []struct {
		id   ID
		want string
	}{
		{"3", `3`},
		{"-4", `-4`},
		{"sku-9", `"sku-9"`},
		{"", `""`},
		{"007", `"007"`},
		{"+5", `"+5"`},
		{"-0", `"-0"`},
	}
	for _, tt := range tests {
		got, err := json.Marshal(tt.id)
		if err != nil {
			t.Fatalf("Marshal(%q) returned error: %v", tt.id, err)
		}
		if string(got) != tt.want {
			t.Fatalf("Marshal(%q) = %s, want %s", tt.id, got, tt.want)
		}
	}
}

func TestProduct_MarshalKeepsNonCanonicalIDs(t *testing.T) {
	for _, id := range []ID{"007", "+5", "12"} {
		data, err := json.Marshal(Product{ID: id, Name: "Pen"})
		if err != nil {
			t.Fatalf("Marshal(Product{ID: %q}) returned error: %v", id, err)
		}
		var back Product
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("Unmarshal(%s) returned error: %v", data, err)
		}
		if back.ID != id {
			t.Fatalf("round trip of %q gave %q", id, back.ID)
		}
	}
}

func TestProduct_InputDropsID(t *testing.T) {
	p := Product{ID: "3", Name: "Pen", Price: 10, Description: "blue", Image: "pen.png"}
	want := ProductInput{Name: "Pen", Price: 10, Description: "blue", Image: "pen.png"}
	if got := p.Input(); got != want {
		t.Fatalf("Input = %#v, want %#v", got, want)
	}
}

func TestDecodeList_EmptyBody(t *testing.T) {
	items, err := decodeList([]byte("  "))
	if err != nil || items != nil {
		t.Fatalf("decodeList(empty) = %#v, %v; want nil, nil", items, err)
	}
}
