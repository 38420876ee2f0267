package notify

import (
	"fmt"
	"testing"
)

func TestCenter_Push(t *testing.T) {
	c := NewCenter(10, nil)

	if !c.Push("system", "Export ready", "video.mp4", LevelSuccess) {
		t.Error("first Push returned false")
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
	if c.Unread() != 1 {
		t.Errorf("Unread = %d, want 1", c.Unread())
	}
}

func TestCenter_Dedup(t *testing.T) {
	c := NewCenter(10, nil)

	c.Push("system", "Export ready", "video.mp4", LevelSuccess)
	if c.Push("system", "Export ready", "video.mp4", LevelSuccess) {
		t.Error("duplicate Push returned true")
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1 after duplicate", c.Len())
	}

	// Different message is a different identity
	if !c.Push("system", "Export ready", "other.mp4", LevelSuccess) {
		t.Error("distinct Push returned false")
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
}

func TestCenter_EvictsOldestFirst(t *testing.T) {
	c := NewCenter(3, nil)

	for i := 0; i < 5; i++ {
		c.Push("task", "Task done", fmt.Sprintf("task-%d", i), LevelInfo)
	}

	if c.Len() != 3 {
		t.Fatalf("Len = %d, want 3", c.Len())
	}

	items := c.List()
	// Newest first: task-4, task-3, task-2
	want := []string{"task-4", "task-3", "task-2"}
	for i, w := range want {
		if items[i].Message != w {
			t.Errorf("items[%d].Message = %q, want %q", i, items[i].Message, w)
		}
	}
}

func TestCenter_MarkRead(t *testing.T) {
	c := NewCenter(10, nil)

	c.Push("error", "Render failed", "codec unavailable", LevelError)
	c.Push("system", "Export ready", "video.mp4", LevelSuccess)

	items := c.List()
	if !c.MarkRead(items[0].ID) {
		t.Error("MarkRead returned false for existing notification")
	}
	if c.Unread() != 1 {
		t.Errorf("Unread = %d, want 1", c.Unread())
	}

	c.MarkAllRead()
	if c.Unread() != 0 {
		t.Errorf("Unread = %d, want 0 after MarkAllRead", c.Unread())
	}
}

func TestCenter_MarkReadMissing(t *testing.T) {
	c := NewCenter(10, nil)
	c.Push("system", "a", "b", LevelInfo)

	other := c.List()[0].ID
	c.Clear()

	if c.MarkRead(other) {
		t.Error("MarkRead returned true after Clear")
	}
}
