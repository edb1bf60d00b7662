package fragment

import "testing"

func TestLayoutRealCursor(t *testing.T) {
	frags := []Fragment{
		{Text: "abc"},
		{Text: "de"},
	}

	got := Layout(frags, Padding{}, true)

	if len(got) != 2 {
		t.Fatalf("got %d fragments, want 2", len(got))
	}
	if got[0].Col != 0 || got[0].EndCol != 3 {
		t.Errorf("frag 0: col %d..%d, want 0..3", got[0].Col, got[0].EndCol)
	}
	if got[1].Col != 3 || got[1].EndCol != 5 {
		t.Errorf("frag 1: col %d..%d, want 3..5", got[1].Col, got[1].EndCol)
	}
}

func TestLayoutOverlayDoesNotAdvanceRealCursor(t *testing.T) {
	frags := []Fragment{
		{Text: "✓", Overlay: true},
		{Text: " msg", Overlay: true},
		{Text: "real"},
	}

	got := Layout(frags, Padding{}, true)

	// Overlay fragments anchor at the real cursor (still 0) and advance
	// only the overlay cursor, by display width.
	if got[0].Col != 0 || got[0].EndCol != 0 {
		t.Errorf("overlay 0 anchored at %d..%d, want 0..0", got[0].Col, got[0].EndCol)
	}
	if got[0].OverlayCol != 0 || got[0].OverlayEndCol != 1 {
		t.Errorf("overlay 0 spans %d..%d, want 0..1", got[0].OverlayCol, got[0].OverlayEndCol)
	}
	if got[1].OverlayCol != 1 || got[1].OverlayEndCol != 5 {
		t.Errorf("overlay 1 spans %d..%d, want 1..5", got[1].OverlayCol, got[1].OverlayEndCol)
	}
	if got[2].Col != 0 || got[2].EndCol != 4 {
		t.Errorf("real fragment at %d..%d, want 0..4", got[2].Col, got[2].EndCol)
	}
}

func TestLayoutWideGlyphOverlayWidth(t *testing.T) {
	frags := []Fragment{
		{Text: "日本", Overlay: true}, // two double-width glyphs
		{Text: "x", Overlay: true},
	}

	got := Layout(frags, Padding{}, true)

	if got[0].OverlayEndCol != 4 {
		t.Errorf("wide overlay ends at %d, want 4", got[0].OverlayEndCol)
	}
	if got[1].OverlayCol != 4 {
		t.Errorf("next overlay starts at %d, want 4", got[1].OverlayCol)
	}
}

func TestLayoutPadding(t *testing.T) {
	frags := []Fragment{{Text: "hi"}}

	got := Layout(frags, Padding{Left: 2, Right: 1}, false)

	if len(got) != 3 {
		t.Fatalf("got %d fragments, want 3 (pad + text + pad)", len(got))
	}
	if got[0].Text != "  " {
		t.Errorf("left pad = %q, want two spaces", got[0].Text)
	}
	if got[1].Col != 2 {
		t.Errorf("text starts at col %d, want 2", got[1].Col)
	}
	if got[2].Text != " " {
		t.Errorf("right pad = %q, want one space", got[2].Text)
	}
}

func TestLayoutEmptyInput(t *testing.T) {
	got := Layout(nil, Padding{Left: 1}, false)
	if len(got) != 1 {
		t.Fatalf("got %d fragments, want padding-only output", len(got))
	}

	got = Layout(nil, Padding{}, true)
	if len(got) != 0 {
		t.Fatalf("got %d fragments, want none", len(got))
	}
}

func TestFlattenRoundTrip(t *testing.T) {
	frags := []Fragment{
		{Text: "a"},
		{Text: "b", Overlay: true},
		{Text: "c"},
	}

	computed := Layout(frags, Padding{Left: 3, Right: 3}, true)

	if got := Flatten(computed, true); got != "abc" {
		t.Errorf("Flatten(include overlay) = %q, want %q", got, "abc")
	}
	if got := Flatten(computed, false); got != "ac" {
		t.Errorf("Flatten(real only) = %q, want %q", got, "ac")
	}
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"s", "s"},
		{nil, ""},
		{42, "42"},
		{3.5, "3.5"},
	}
	for _, tt := range tests {
		if got := Coerce(tt.in); got != tt.want {
			t.Errorf("Coerce(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
