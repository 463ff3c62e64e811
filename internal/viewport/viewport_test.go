package viewport

import (
	"math"
	"math/rand"
	"testing"

	"github.com/daviddao/agenda_viewer/internal/layout"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeBounds(t *testing.T) {
	g := layout.DefaultGeometry()
	tests := []struct {
		name     string
		w, h     float64
		rows     int
		span, hw float64
		want     Bounds
		wantHour float64
	}{
		{"narrow canvas keeps hour", 800, 300, 2, 24, 60, Bounds{-100, 1440, -50, 300}, 60},
		{"wide canvas fills", 1920, 300, 2, 24, 60, Bounds{-100, 1820, -50, 300}, 1820.0 / 24},
		{"tall content", 800, 100, 3, 24, 60, Bounds{-100, 1440, -50, 290}, 60},
		{"content equal to canvas", 800, 160, 2, 24, 60, Bounds{-100, 1440, -50, 210}, 60},
		{"span fallback", 800, 300, 1, 0, 60, Bounds{-100, 1440, -50, 300}, 60},
		{"zoomed", 800, 300, 1, 24, 120, Bounds{-100, 2880, -50, 300}, 120},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, hw := ComputeBounds(tt.w, tt.h, tt.rows, tt.span, tt.hw, g)
			if !near(hw, tt.wantHour) {
				t.Errorf("hour width = %v, want %v", hw, tt.wantHour)
			}
			if !near(b.MinX, tt.want.MinX) || !near(b.MaxX, tt.want.MaxX) ||
				!near(b.MinY, tt.want.MinY) || !near(b.MaxY, tt.want.MaxY) {
				t.Errorf("bounds = %+v, want %+v", b, tt.want)
			}
		})
	}
}

func newTestViewport() Viewport {
	v := New(layout.DefaultGeometry())
	v.Resize(800, 300, 2)
	return v
}

func TestNewStartsIdleAtOrigin(t *testing.T) {
	v := newTestViewport()
	tr := v.Transform()
	if tr.TX != 0 || tr.TY != 0 || tr.SX != 1 || tr.SY != 1 {
		t.Errorf("Transform() = %+v, want origin with unit scale", tr)
	}
	if v.Mode() != Idle {
		t.Errorf("Mode() = %v, want idle", v.Mode())
	}
	if v.HourWidth() != 60 {
		t.Errorf("HourWidth() = %v, want 60", v.HourWidth())
	}
}

func TestProposePanAcceptsInBounds(t *testing.T) {
	v := newTestViewport()
	if !v.ProposePan(-30, -30) {
		t.Fatal("pan inside bounds rejected")
	}
	if tr := v.Transform(); tr.TX != -30 || tr.TY != -30 {
		t.Errorf("Transform() = %+v, want (-30, -30)", tr)
	}
}

func TestProposePanRejectsWholeDelta(t *testing.T) {
	v := newTestViewport()
	// x is fine, y would pass the top edge: neither axis may move.
	if v.ProposePan(-30, 30) {
		t.Fatal("pan past the top edge accepted")
	}
	if tr := v.Transform(); tr.TX != 0 || tr.TY != 0 {
		t.Errorf("rejected pan moved the camera: %+v", tr)
	}
}

func TestProposePanEdges(t *testing.T) {
	v := newTestViewport()
	// Upper bound is inclusive at 1.
	if !v.ProposePan(1, 1) {
		t.Error("translation of exactly 1 should be accepted")
	}
	v.Reset()
	// Lower bound: -(1440 - -100 - 800) = -740 on x, -(300+50-300) = -50 on y.
	if !v.ProposePan(-740, -50) {
		t.Error("pan to the far corner should be accepted")
	}
	if v.ProposePan(-1, 0) {
		t.Error("pan past the right edge accepted")
	}
	if v.ProposePan(0, -1) {
		t.Error("pan past the bottom edge accepted")
	}
}

func TestPanSequencesStayInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for run := 0; run < 50; run++ {
		v := New(layout.DefaultGeometry())
		v.Resize(float64(200+rng.Intn(2000)), float64(100+rng.Intn(600)), rng.Intn(12))
		for i := 0; i < 200; i++ {
			v.ProposePan(rng.Float64()*400-200, rng.Float64()*400-200)
			tr := v.Transform()
			b := v.Bounds()
			w, h := v.Canvas()
			if tr.TX > 1 || tr.TX < -(b.MaxX-b.MinX-w)-1e-9 || tr.TY > 1 || tr.TY < -(b.MaxY-b.MinY-h)-1e-9 {
				t.Fatalf("run %d step %d: transform %+v escaped bounds %+v (canvas %vx%v)", run, i, tr, b, w, h)
			}
		}
	}
}

func TestProposeZoom(t *testing.T) {
	v := newTestViewport()
	v.ProposePan(-100, -20)

	if !v.ProposeZoom(2) {
		t.Fatal("zoom rejected")
	}
	tr := v.Transform()
	if tr.SX != 2 || tr.SY != 1 {
		t.Errorf("scale = (%v, %v), want (2, 1)", tr.SX, tr.SY)
	}
	if tr.TX != 0 || tr.TY != 0 {
		t.Errorf("zoom should reset translation, got (%v, %v)", tr.TX, tr.TY)
	}
	if v.HourWidth() != 120 {
		t.Errorf("HourWidth() = %v, want 120", v.HourWidth())
	}
	if v.Bounds().MaxX != 2880 {
		t.Errorf("MaxX = %v, want 2880", v.Bounds().MaxX)
	}
}

func TestProposeZoomIgnoresNonPositive(t *testing.T) {
	v := newTestViewport()
	for _, f := range []float64{0, -1} {
		if v.ProposeZoom(f) {
			t.Errorf("ProposeZoom(%v) accepted", f)
		}
	}
	if v.Transform().SX != 1 {
		t.Errorf("SX = %v, want 1", v.Transform().SX)
	}
}

func TestZoomOutIsRefilled(t *testing.T) {
	v := newTestViewport()
	v.ProposeZoom(0.1)
	// 24 hours of 6 units do not fill 800-100 units, so the hour widens.
	if want := 700.0 / 24; !near(v.HourWidth(), want) {
		t.Errorf("HourWidth() = %v, want %v", v.HourWidth(), want)
	}
	if want := 700.0 / 24 / 60; !near(v.Transform().SX, want) {
		t.Errorf("SX = %v, want %v", v.Transform().SX, want)
	}
}

func TestReset(t *testing.T) {
	v := newTestViewport()
	v.ProposeZoom(3)
	v.ProposePan(-50, -10)
	v.Reset()
	if tr := v.Transform(); tr != (Transform{SX: 1, SY: 1}) {
		t.Errorf("Transform() after Reset = %+v", tr)
	}
	if v.HourWidth() != 60 {
		t.Errorf("HourWidth() after Reset = %v", v.HourWidth())
	}
}

func TestResizeClampsTranslation(t *testing.T) {
	v := newTestViewport()
	v.ProposePan(-700, -40)
	v.Resize(1400, 300, 2)
	// New x limit: -(1440+100-1400) = -140.
	if tr := v.Transform(); tr.TX != -140 || tr.TY != -40 {
		t.Errorf("Transform() after Resize = %+v, want (-140, -40)", tr)
	}
}

func TestDragStateMachine(t *testing.T) {
	v := newTestViewport()

	if v.DragTo(10, 10) {
		t.Error("DragTo outside Panning should do nothing")
	}

	v.BeginPan(100, 100)
	if v.Mode() != Panning {
		t.Fatalf("Mode() = %v, want panning", v.Mode())
	}
	if !v.DragTo(80, 90) {
		t.Error("drag inside bounds rejected")
	}
	if tr := v.Transform(); tr.TX != -20 || tr.TY != -10 {
		t.Errorf("after drag: %+v, want (-20, -10)", tr)
	}
	// Dragging down would pass the top edge; rejected, but the drag point
	// still advances.
	if v.DragTo(80, 200) {
		t.Error("drag past the top edge accepted")
	}
	if !v.DragTo(70, 200) {
		t.Error("drag from the advanced point rejected")
	}
	if tr := v.Transform(); tr.TX != -30 || tr.TY != -10 {
		t.Errorf("after second drag: %+v, want (-30, -10)", tr)
	}
	if !v.EndPan() {
		t.Error("EndPan should report movement")
	}
	if v.Mode() != Idle {
		t.Errorf("Mode() after EndPan = %v, want idle", v.Mode())
	}
}

func TestPanWithoutMovementIsClick(t *testing.T) {
	v := newTestViewport()
	v.BeginPan(40, 40)
	v.DragTo(40, 40)
	if v.EndPan() {
		t.Error("press and release in place should be a click")
	}
}

func TestScreenToLayout(t *testing.T) {
	v := newTestViewport()
	x, y := v.ScreenToLayout(0, 0)
	if x != -100 || y != -50 {
		t.Errorf("ScreenToLayout(0,0) = (%v,%v), want (-100,-50)", x, y)
	}
	v.ProposePan(-200, -30)
	x, y = v.ScreenToLayout(640, 55)
	if x != 740 || y != 35 {
		t.Errorf("ScreenToLayout(640,55) = (%v,%v), want (740,35)", x, y)
	}
	sx, sy := v.LayoutToScreen(x, y)
	if sx != 640 || sy != 55 {
		t.Errorf("LayoutToScreen round trip = (%v,%v)", sx, sy)
	}
}
