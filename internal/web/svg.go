package web

import (
	"fmt"
	"html"
	"strings"
	"time"

	"planline/internal/timeline"
)

// SVG layout constants. The session uses the same numbers to translate
// pointer coordinates back into band rows.
const (
	svgTopPad    = 48
	svgRowHeight = 28
	svgBarHeight = 20
	svgAxisPad   = 26
	svgSubGap    = 18
)

var svgPalette = []string{
	"#2563eb", // blue
	"#0d9488", // teal
	"#d97706", // orange
	"#7c3aed", // purple
	"#16a34a", // green
	"#dc2626", // red
}

func svgBarColor(explicit, id string) string {
	if c := strings.TrimSpace(explicit); c != "" {
		return c
	}
	h := 0
	for _, r := range id {
		h = h*31 + int(r)
	}
	if h < 0 {
		h = -h
	}
	return svgPalette[h%len(svgPalette)]
}

// rowAt translates a pointer Y coordinate into a main-band row index, -1 for
// positions outside the band.
func rowAt(y int, rows int) int {
	if rows < 1 {
		rows = 1
	}
	r := (y - svgTopPad) / svgRowHeight
	if y < svgTopPad || r >= rows {
		return -1
	}
	return r
}

func svgHeight(f timeline.Frame) int {
	rows := f.Rows
	if rows < 1 {
		rows = 1
	}
	h := svgTopPad + rows*svgRowHeight + svgAxisPad
	if f.SubBand != nil {
		subRows := f.SubBand.Rows
		if subRows < 1 {
			subRows = 1
		}
		h += svgSubGap + subRows*svgRowHeight
	}
	return h
}

// renderSVG turns one engine frame into a standalone SVG document.
func renderSVG(f timeline.Frame, now time.Time) string {
	width := f.Width
	height := svgHeight(f)
	rows := f.Rows
	if rows < 1 {
		rows = 1
	}
	bandBottom := svgTopPad + rows*svgRowHeight

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		width, height, width, height)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="#fafaf9"/>`, width, height)

	// Header: zoom, navigation position, visible window (RTL: later on the
	// left).
	nav := "no scheduled tasks"
	if f.NavTotal > 0 {
		nav = fmt.Sprintf("task %d/%d", f.NavPos, f.NavTotal)
	}
	header := fmt.Sprintf("%s · %s · %s ← %s",
		f.Zoom.Label(), nav, svgTime(f.VisibleEnd), svgTime(f.VisibleStart))
	fmt.Fprintf(&b, `<text x="8" y="18" font-size="13" fill="#44403c">%s</text>`, html.EscapeString(header))

	hints := ""
	if f.LaterCount > 0 {
		hints = fmt.Sprintf("← %d later", f.LaterCount)
	}
	if f.EarlierCount > 0 {
		if hints != "" {
			hints += "   "
		}
		hints += fmt.Sprintf("%d earlier →", f.EarlierCount)
	}
	if hints != "" {
		fmt.Fprintf(&b, `<text x="8" y="36" font-size="12" fill="#a8a29e">%s</text>`, html.EscapeString(hints))
	}

	// Ticks: vertical gridlines through the band plus labels on the axis.
	for _, t := range f.Ticks {
		if t.X < 0 || t.X >= width {
			continue
		}
		fmt.Fprintf(&b, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#e7e5e4"/>`,
			t.X, svgTopPad, t.X, bandBottom)
		fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="11" fill="#78716c" text-anchor="middle">%s</text>`,
			t.X, bandBottom+16, html.EscapeString(t.Label))
	}
	fmt.Fprintf(&b, `<line x1="0" y1="%d" x2="%d" y2="%d" stroke="#d6d3d1"/>`, bandBottom, width, bandBottom)

	// "Now" marker.
	nowMS := now.UnixMilli() - f.VisibleStart.UnixMilli()
	nowX := f.Width - int(nowMS/f.Zoom.TimePerPixel())
	if nowX >= 0 && nowX < width {
		fmt.Fprintf(&b, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#dc2626" stroke-width="2"/>`,
			nowX, svgTopPad, nowX, bandBottom)
	}

	for _, bar := range f.Bars {
		writeBar(&b, bar, svgTopPad, width)
	}

	if f.SubBand != nil {
		subTop := bandBottom + svgAxisPad + svgSubGap
		subRows := f.SubBand.Rows
		if subRows < 1 {
			subRows = 1
		}
		title := f.SubBand.Task.Title
		if strings.TrimSpace(title) == "" {
			title = f.SubBand.Task.ID
		}
		fmt.Fprintf(&b, `<text x="8" y="%d" font-size="12" fill="#78716c">%s: %s ← %s</text>`,
			subTop-4, html.EscapeString(title), svgTime(f.SubBand.End), svgTime(f.SubBand.Start))
		for _, bar := range f.SubBand.Bars {
			writeBar(&b, bar, subTop, width)
		}
	}

	b.WriteString(`</svg>`)
	return b.String()
}

func writeBar(b *strings.Builder, bar timeline.Bar, top, width int) {
	y := top + bar.Row*svgRowHeight + (svgRowHeight-svgBarHeight)/2
	color := svgBarColor(bar.Color, bar.TaskID)

	opacity := "1"
	if bar.Dimmed {
		opacity = "0.35"
	}

	if bar.IsPoint {
		cx := (bar.StartX + bar.EndX) / 2
		cy := y + svgBarHeight/2
		stroke := "none"
		if bar.Focused {
			stroke = "#1c1917"
		}
		fmt.Fprintf(b, `<circle cx="%d" cy="%d" r="6" fill="%s" stroke="%s" stroke-width="2" opacity="%s" data-task="%s"/>`,
			cx, cy, color, stroke, opacity, html.EscapeString(bar.TaskID))
		return
	}

	x := bar.StartX
	if x < 0 {
		x = 0
	}
	end := bar.EndX
	if end > width {
		end = width
	}
	w := end - x
	if w < 2 {
		w = 2
	}
	stroke := "none"
	if bar.Focused {
		stroke = "#1c1917"
	}
	fmt.Fprintf(b, `<rect x="%d" y="%d" width="%d" height="%d" rx="4" fill="%s" stroke="%s" stroke-width="2" opacity="%s" data-task="%s"/>`,
		x, y, w, svgBarHeight, color, stroke, opacity, html.EscapeString(bar.TaskID))

	if bar.Task != nil && w > 60 {
		fmt.Fprintf(b, `<text x="%d" y="%d" font-size="11" fill="#ffffff" opacity="%s">%s</text>`,
			x+6, y+14, opacity, html.EscapeString(bar.Task.Title))
	}
}

func svgTime(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 {
		return t.Format("2 Jan 2006")
	}
	return t.Format("2 Jan 15:04")
}
