package timeline

import "testing"

func mkBars(spans ...[2]int) []Bar {
	bars := make([]Bar, len(spans))
	for i, s := range spans {
		bars[i] = Bar{TaskID: string(rune('A' + i)), StartX: s[0], EndX: s[1]}
	}
	return bars
}

func TestPackRowsReusesFreedRows(t *testing.T) {
	// A=[0,50] B=[30,80] C=[60,100]: C reuses row 0 once A has ended.
	bars := mkBars([2]int{0, 50}, [2]int{30, 80}, [2]int{60, 100})
	rows := packRows(bars)
	if rows != 2 {
		t.Fatalf("expected 2 rows, got %d", rows)
	}
	want := []int{0, 1, 0}
	for i, b := range bars {
		if b.Row != want[i] {
			t.Fatalf("bar %s: expected row %d, got %d", b.TaskID, want[i], b.Row)
		}
	}
}

func TestPackRowsNoOverlapWithinRow(t *testing.T) {
	bars := mkBars(
		[2]int{0, 40}, [2]int{10, 20}, [2]int{15, 90}, [2]int{40, 60},
		[2]int{41, 55}, [2]int{70, 120}, [2]int{90, 95}, [2]int{5, 100},
	)
	packRows(bars)
	for i := range bars {
		for j := i + 1; j < len(bars); j++ {
			a, b := bars[i], bars[j]
			if a.Row != b.Row {
				continue
			}
			if a.StartX < b.EndX && b.StartX < a.EndX {
				t.Fatalf("bars %s and %s share row %d and overlap: [%d,%d] vs [%d,%d]",
					a.TaskID, b.TaskID, a.Row, a.StartX, a.EndX, b.StartX, b.EndX)
			}
		}
	}
}

func TestPackRowsDisjointBarsShareOneRow(t *testing.T) {
	bars := mkBars([2]int{60, 80}, [2]int{0, 20}, [2]int{30, 50})
	if rows := packRows(bars); rows != 1 {
		t.Fatalf("disjoint bars should share a row, got %d rows", rows)
	}
}

func TestPackRowsIsDeterministic(t *testing.T) {
	spans := [][2]int{{0, 30}, {0, 30}, {10, 50}, {25, 60}}
	a := mkBars(spans...)
	b := mkBars(spans...)
	packRows(a)
	packRows(b)
	for i := range a {
		if a[i].Row != b[i].Row {
			t.Fatalf("packing not deterministic at bar %d: %d vs %d", i, a[i].Row, b[i].Row)
		}
	}
}

func TestPackRowsEmpty(t *testing.T) {
	if rows := packRows(nil); rows != 0 {
		t.Fatalf("expected 0 rows for no bars, got %d", rows)
	}
}
