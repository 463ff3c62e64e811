package svg

import (
	"strings"
	"testing"

	"github.com/daviddao/agenda_viewer/internal/agenda"
	"github.com/daviddao/agenda_viewer/internal/layout"
)

func testScene(t *testing.T) *layout.Scene {
	t.Helper()
	a := agenda.New()
	main := agenda.NewStage("Main & Co", "")
	if err := a.AddStage(main); err != nil {
		t.Fatal(err)
	}
	shows := []agenda.Show{
		agenda.NewShow("Opener", []string{"Alpha"}, main, agenda.At(9, 0), agenda.At(10, 0)),
		agenda.NewShow("<Overlap>", []string{"Beta"}, main, agenda.At(9, 30), agenda.At(10, 30)),
	}
	for _, s := range shows {
		if err := a.AddShow(s); err != nil {
			t.Fatal(err)
		}
	}
	return layout.Build(a, layout.Params{
		Geometry:  layout.DefaultGeometry(),
		HourWidth: 60,
		Palette:   layout.DefaultPalette(),
	})
}

func TestRenderDocument(t *testing.T) {
	out := Render(testScene(t), Options{Title: "Day 1"})

	if !strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Error("missing XML declaration")
	}
	if !strings.Contains(out, `viewBox="-100 -50 1540 180"`) {
		t.Errorf("unexpected view box in:\n%s", out[:200])
	}
	if !strings.HasSuffix(out, "</svg>\n") {
		t.Error("document not closed")
	}
	for _, want := range []string{"<title>Day 1</title>", ">0.00<", ">23.00<", ">Opener<"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRenderEscapesText(t *testing.T) {
	out := Render(testScene(t), Options{})
	if strings.Contains(out, "<Overlap>") || strings.Contains(out, "Main & Co") {
		t.Error("text must be XML-escaped")
	}
	if !strings.Contains(out, "Main &amp; Co") {
		t.Error("escaped stage label missing")
	}
}

func TestRenderConflictOverlays(t *testing.T) {
	out := Render(testScene(t), Options{})
	if got := strings.Count(out, `class="conflict"`); got != 2 {
		t.Errorf("conflict overlays = %d, want 2", got)
	}
	if !strings.Contains(out, `<rect class="conflict" x="570" y="5" width="30" height="70" fill="#E64545"/>`) {
		t.Error("overlap region not drawn at the intersection")
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		text  string
		width float64
		want  string
	}{
		{"short", 100, "short"},
		{"a long show name", 60, "a long ..."},
		{"anything", 10, ""},
	}
	for _, tt := range tests {
		if got := fit(tt.text, tt.width, 10); got != tt.want {
			t.Errorf("fit(%q, %v) = %q, want %q", tt.text, tt.width, got, tt.want)
		}
	}
}

func TestNum(t *testing.T) {
	for in, want := range map[float64]string{0: "0", -100: "-100", 60.5: "60.5", 75.8333: "75.83"} {
		if got := num(in); got != want {
			t.Errorf("num(%v) = %q, want %q", in, got, want)
		}
	}
}
