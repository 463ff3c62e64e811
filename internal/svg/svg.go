// Package svg renders a layout scene as a standalone SVG document.
package svg

import (
	"fmt"
	"html"
	"strings"

	"github.com/daviddao/agenda_viewer/internal/layout"
)

// Options controls the document styling.
type Options struct {
	Title      string
	FontFamily string
	FontSize   int
	Background string
	Stripe     string // fill of every other hour column
	Line       string // stage separators
	Text       string
}

// DefaultOptions returns the stock styling.
func DefaultOptions() Options {
	return Options{
		FontFamily: "sans-serif",
		FontSize:   12,
		Background: "#FFFFFF",
		Stripe:     "#EEEEEE",
		Line:       "#999999",
		Text:       "#000000",
	}
}

func (o Options) normalize() Options {
	d := DefaultOptions()
	if o.FontFamily == "" {
		o.FontFamily = d.FontFamily
	}
	if o.FontSize <= 0 {
		o.FontSize = d.FontSize
	}
	if o.Background == "" {
		o.Background = d.Background
	}
	if o.Stripe == "" {
		o.Stripe = d.Stripe
	}
	if o.Line == "" {
		o.Line = d.Line
	}
	if o.Text == "" {
		o.Text = d.Text
	}
	return o
}

// Render draws the whole day of sc. The view box starts at the scene's
// margins so layout coordinates are used unchanged.
func Render(sc *layout.Scene, opts Options) string {
	o := opts.normalize()
	g := sc.Geometry

	minX, minY := g.LeftMargin, g.TopMargin
	maxX := g.SpanHours * sc.HourWidth
	maxY := float64(sc.Rows())*g.RowHeight + g.BottomMargin
	w, h := maxX-minX, maxY-minY

	var svg strings.Builder
	svg.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg width="%s" height="%s" viewBox="%s %s %s %s" xmlns="http://www.w3.org/2000/svg">
`, num(w), num(h), num(minX), num(minY), num(w), num(h)))
	if o.Title != "" {
		svg.WriteString(fmt.Sprintf("<title>%s</title>\n", html.EscapeString(o.Title)))
	}
	svg.WriteString(fmt.Sprintf(`<defs>
<style>
.hour { font-family: %s; font-size: %dpx; fill: %s; text-anchor: middle; }
.stage { font-family: %s; font-size: %dpx; font-weight: bold; fill: %s; dominant-baseline: middle; }
.show { font-family: %s; font-size: %dpx; fill: %s; }
.artists { font-family: %s; font-size: %dpx; fill: %s; }
</style>
</defs>
`, o.FontFamily, o.FontSize, o.Text,
		o.FontFamily, o.FontSize, o.Text,
		o.FontFamily, o.FontSize, o.Text,
		o.FontFamily, o.FontSize-2, o.Text))
	svg.WriteString(fmt.Sprintf(`<rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
		num(minX), num(minY), num(w), num(h), o.Background))

	// Hour stripes and labels.
	for i, l := range sc.HourLabels {
		if i%2 == 0 {
			svg.WriteString(fmt.Sprintf(`<rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
				num(float64(i)*sc.HourWidth), num(minY), num(sc.HourWidth), num(h), o.Stripe))
		}
		svg.WriteString(fmt.Sprintf(`<text class="hour" x="%s" y="%s">%s</text>`+"\n",
			num(l.X), num(l.Y), html.EscapeString(l.Text)))
	}

	// Stage rows.
	for i, y := range sc.RowLines {
		svg.WriteString(fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s"/>`+"\n",
			num(minX), num(y), num(maxX), num(y), o.Line))
		l := sc.Labels[i]
		svg.WriteString(fmt.Sprintf(`<text class="stage" x="%s" y="%s">%s</text>`+"\n",
			num(l.X), num(l.Y), html.EscapeString(fit(l.Text, -minX-10, float64(o.FontSize)))))
	}

	// Shows, each followed by its conflict overlay.
	overlays := make(map[int]layout.Region, len(sc.Conflicts))
	for _, c := range sc.Conflicts {
		overlays[c.Index] = c
	}
	for i, r := range sc.Rects {
		svg.WriteString(fmt.Sprintf(`<rect x="%s" y="%s" width="%s" height="%s" fill="%s" stroke="%s"><title>%s</title></rect>`+"\n",
			num(r.X), num(r.Y), num(max(r.W, 0)), num(r.H), r.Color, o.Line,
			html.EscapeString(r.Show.Name+" ("+r.Show.Start.String()+"-"+r.Show.End.String()+")")))
		if c, ok := overlays[i]; ok {
			svg.WriteString(fmt.Sprintf(`<rect class="conflict" x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
				num(c.X), num(c.Y), num(c.W), num(c.H), c.Color))
		}
		svg.WriteString(fmt.Sprintf(`<text class="show" x="%s" y="%s">%s</text>`+"\n",
			num(r.X+3), num(r.Y+17), html.EscapeString(fit(r.Show.Name, r.W-6, float64(o.FontSize)))))
		svg.WriteString(fmt.Sprintf(`<text class="artists" x="%s" y="%s">%s</text>`+"\n",
			num(r.X+3), num(r.Y+40), html.EscapeString(fit(r.Show.ArtistLine(), r.W-6, float64(o.FontSize-2)))))
	}

	svg.WriteString("</svg>\n")
	return svg.String()
}

// fit cuts text to the width available, ending it with "...". Character
// width is estimated at 0.6 of the font size.
func fit(text string, width, fontSize float64) string {
	chars := int(width / (fontSize * 0.6))
	r := []rune(text)
	if len(r) <= chars {
		return text
	}
	if chars <= 3 {
		return ""
	}
	return string(r[:chars-3]) + "..."
}

func num(f float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", f), "0"), ".")
}
