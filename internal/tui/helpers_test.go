package tui

import (
	"testing"
	"time"
)

func TestTruncate(t *testing.T) {
	if got := truncate("short", 30); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
	if got := truncate("a very long puzzle name", 10); got != "a very ..." {
		t.Errorf("truncate = %q, want %q", got, "a very ...")
	}
	if got := truncate("abcdef", 3); got != "abc" {
		t.Errorf("truncate small max = %q, want abc", got)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := map[time.Duration]string{
		0:                                  "0s",
		90 * time.Second:                   "1m30s",
		3*time.Hour + 2*time.Minute:        "3h2m0s",
		-5 * time.Second:                   "0s",
		1500 * time.Millisecond:            "2s",
		time.Minute + 499*time.Millisecond: "1m0s",
	}
	for d, want := range cases {
		if got := formatDuration(d); got != want {
			t.Errorf("formatDuration(%v) = %q, want %q", d, got, want)
		}
	}
}

func TestLayoutSplitsUnderHeader(t *testing.T) {
	m := Model{width: 100, height: 42}
	top, bottom := m.layout()
	if top+bottom != 42-headerHeight {
		t.Errorf("top+bottom = %d, want %d", top+bottom, 42-headerHeight)
	}
	if top <= bottom {
		t.Errorf("puzzle row (%d) should be taller than log row (%d)", top, bottom)
	}
}

func TestLogViewSizeHasFloor(t *testing.T) {
	m := Model{width: 10, height: 6}
	w, h := m.logViewSize()
	if w < 20 || h < 3 {
		t.Errorf("log view %dx%d below floor", w, h)
	}
}
