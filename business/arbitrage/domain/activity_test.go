package domain

import (
	"fmt"
	"testing"
)

func TestActivityLogNewestFirst(t *testing.T) {
	log := NewActivityLog()
	log.Add("info", "first")
	log.Add("found", "second")

	entries := log.Entries()
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	if entries[0].Message != "second" || entries[1].Message != "first" {
		t.Errorf("entries out of order: %q, %q", entries[0].Message, entries[1].Message)
	}
}

func TestActivityLogEvictsOldest(t *testing.T) {
	log := NewActivityLog()
	for i := 0; i < activityCapacity+10; i++ {
		log.Add("info", fmt.Sprintf("entry %d", i))
	}

	entries := log.Entries()
	if len(entries) != activityCapacity {
		t.Fatalf("len = %d, want %d", len(entries), activityCapacity)
	}
	if entries[0].Message != fmt.Sprintf("entry %d", activityCapacity+9) {
		t.Errorf("newest = %q", entries[0].Message)
	}
	if entries[len(entries)-1].Message != "entry 10" {
		t.Errorf("oldest = %q, want entry 10", entries[len(entries)-1].Message)
	}
}

func TestActivityLogNotify(t *testing.T) {
	log := NewActivityLog()
	var seen []ActivityEntry
	log.SetNotify(func(e ActivityEntry) { seen = append(seen, e) })

	log.Add("warning", "observed")

	if len(seen) != 1 {
		t.Fatalf("notified %d times, want 1", len(seen))
	}
	if seen[0].Level != "warning" || seen[0].Message != "observed" {
		t.Errorf("entry = %+v", seen[0])
	}
}

func TestActivityLogClear(t *testing.T) {
	log := NewActivityLog()
	log.Add("info", "entry")
	log.Clear()

	if log.Len() != 0 {
		t.Errorf("Len = %d after Clear", log.Len())
	}
}
