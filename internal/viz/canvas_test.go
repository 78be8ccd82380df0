package viz

import (
	"strings"
	"testing"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(4, 2)

	c.Set(0, 0)
	if c.Grid[0][0] != 0x2801 {
		t.Errorf("expected dot 1 set, got %#x", c.Grid[0][0])
	}

	c.Set(1, 3)
	if c.Grid[0][0] != 0x2801|0x80 {
		t.Errorf("expected dot 8 added, got %#x", c.Grid[0][0])
	}

	// Out-of-range coordinates are dropped silently.
	c.Set(-1, 0)
	c.Set(0, -1)
	c.Set(8, 0)
	c.Set(0, 8)
	if c.Grid[0][0] != 0x2801|0x80 {
		t.Errorf("out-of-range set changed the grid: %#x", c.Grid[0][0])
	}
}

func TestCanvasClear(t *testing.T) {
	c := NewCanvas(3, 3)
	c.Set(2, 2)
	c.Clear()

	for i := range c.Grid {
		for j := range c.Grid[i] {
			if c.Grid[i][j] != 0x2800 {
				t.Fatalf("cell (%d,%d) not cleared: %#x", i, j, c.Grid[i][j])
			}
		}
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(8, 4)
	c.DrawLine(0, 0, 15, 15)

	set := 0
	for _, row := range c.Grid {
		for _, cell := range row {
			if cell != 0x2800 {
				set++
			}
		}
	}
	if set == 0 {
		t.Error("diagonal line set no cells")
	}

	// Endpoints must be lit.
	if c.Grid[0][0] == 0x2800 {
		t.Error("line start missing")
	}
	if c.Grid[3][7] == 0x2800 {
		t.Error("line end missing")
	}
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(5, 3)
	out := c.String()

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(lines))
	}
	for i, line := range lines {
		if got := len([]rune(line)); got != 5 {
			t.Errorf("row %d has %d runes, want 5", i, got)
		}
	}
}
