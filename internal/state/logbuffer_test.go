package state

import (
	"fmt"
	"testing"
	"time"

	"roommon/internal/model"
)

func entryWith(msg string) model.LogEntry {
	return model.LogEntry{Timestamp: time.Now(), Message: msg, Stream: "stdout"}
}

func TestLogBufferNeverExceedsCapacity(t *testing.T) {
	buf := NewLogBuffer(5)
	for i := 0; i < 20; i++ {
		buf.Append(entryWith(fmt.Sprintf("line %d", i)))
		if buf.Len() > buf.Cap() {
			t.Fatalf("len %d exceeds capacity %d", buf.Len(), buf.Cap())
		}
	}
	if buf.Len() != 5 {
		t.Errorf("len = %d, want 5", buf.Len())
	}
	if buf.Total() != 20 {
		t.Errorf("total = %d, want 20", buf.Total())
	}
}

func TestLogBufferEvictsOldestFirst(t *testing.T) {
	buf := NewLogBuffer(3)
	for i := 0; i < 5; i++ {
		buf.Append(entryWith(fmt.Sprintf("line %d", i)))
	}

	lines := buf.Lines()
	want := []string{"line 2", "line 3", "line 4"}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d", len(lines), len(want))
	}
	for i, w := range want {
		if lines[i].Message != w {
			t.Errorf("lines[%d] = %q, want %q", i, lines[i].Message, w)
		}
	}
}

func TestLogBufferClear(t *testing.T) {
	buf := NewLogBuffer(3)
	buf.Append(entryWith("a"))
	buf.Append(entryWith("b"))
	buf.Clear()
	if buf.Len() != 0 {
		t.Errorf("len = %d after clear, want 0", buf.Len())
	}
	buf.Append(entryWith("c"))
	lines := buf.Lines()
	if len(lines) != 1 || lines[0].Message != "c" {
		t.Errorf("unexpected lines after clear: %+v", lines)
	}
}
