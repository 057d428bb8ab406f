package web

import (
	"strings"
	"testing"
	"time"

	"planline/internal/store"
)

func TestRowAt(t *testing.T) {
	if got := rowAt(svgTopPad-1, 3); got != -1 {
		t.Fatalf("header area should map to no row; got %d", got)
	}
	if got := rowAt(svgTopPad, 3); got != 0 {
		t.Fatalf("band top should be row 0; got %d", got)
	}
	if got := rowAt(svgTopPad+svgRowHeight+5, 3); got != 1 {
		t.Fatalf("expected row 1; got %d", got)
	}
	if got := rowAt(svgTopPad+3*svgRowHeight, 3); got != -1 {
		t.Fatalf("below the band should be no row; got %d", got)
	}
}

func TestRenderSVGContainsBarsAndTicks(t *testing.T) {
	sess, _ := newTestSession(t, false)
	f := sess.engine.Render(800)
	svg := renderSVG(f, webTestNow)

	if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("expected a standalone SVG document")
	}
	if !strings.Contains(svg, `data-task="task_aaaaaaaaaaaa"`) {
		t.Fatal("expected the Build bar in the frame")
	}
	if !strings.Contains(svg, "<circle") {
		t.Fatal("expected the Demo point marker")
	}
	if !strings.Contains(svg, `stroke="#dc2626"`) {
		t.Fatal("expected the now marker")
	}
	if !strings.Contains(svg, "task 1/2") && !strings.Contains(svg, "task 2/2") {
		t.Fatal("expected the navigation position in the header")
	}
}

func TestRenderSVGEscapesTitles(t *testing.T) {
	s := store.Store{Dir: t.TempDir()}
	st := webTestState()
	st.Projects[0].Milestones[0].Title = `<script>"Build"</script>`
	if err := s.Save(st); err != nil {
		t.Fatalf("save state: %v", err)
	}
	sess, err := newSession(s, "proj_000000000001", false)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	sess.engine.Now = func() time.Time { return webTestNow }

	svg := renderSVG(sess.engine.Render(800), webTestNow)
	if strings.Contains(svg, "<script>") {
		t.Fatal("task titles must be escaped")
	}
}

func TestRenderSVGSubBand(t *testing.T) {
	sess, _ := newTestSession(t, false)
	sess.engine.ToggleExpand("task_aaaaaaaaaaaa")

	f := sess.engine.Render(800)
	if f.SubBand == nil {
		t.Fatal("expected a sub-band after expansion")
	}
	svg := renderSVG(f, webTestNow)
	if !strings.Contains(svg, `data-task="task_bbbbbbbbbbbb"`) {
		t.Fatal("expected the subtask bar in the sub-band")
	}
	if got := svgHeight(f); got <= svgTopPad+f.Rows*svgRowHeight+svgAxisPad {
		t.Fatalf("expected the sub-band to add height; got %d", got)
	}
}
