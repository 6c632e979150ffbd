package ops

import (
	"context"
	"testing"
)

func TestPurgeEmptyStore(t *testing.T) {
	out, err := Purge(context.Background(), testDB(t), PurgeInput{})
	if err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if out.Purged != 0 {
		t.Errorf("Purged = %d, want 0", out.Purged)
	}
	if out.Message != "No deleted recaps to purge" {
		t.Errorf("Message = %q", out.Message)
	}
}

func TestPurgeRemovesDeleted(t *testing.T) {
	database := testDB(t)
	storeSample(t, database, "sess-keep")
	storeSample(t, database, "sess-drop")

	if _, err := Delete(context.Background(), database, DeleteInput{SessionID: "sess-drop"}); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	out, err := Purge(context.Background(), database, PurgeInput{})
	if err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if out.Purged != 1 {
		t.Errorf("Purged = %d, want 1", out.Purged)
	}

	list, err := List(context.Background(), database, ListInput{IncludeDeleted: true})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list.Items) != 1 || list.Items[0].SessionID != "sess-keep" {
		t.Errorf("Items = %+v, want only sess-keep", list.Items)
	}
}

func TestPurgeRespectsCutoff(t *testing.T) {
	database := testDB(t)
	storeSample(t, database, "sess-1")
	if _, err := Delete(context.Background(), database, DeleteInput{SessionID: "sess-1"}); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	days := 7
	out, err := Purge(context.Background(), database, PurgeInput{OlderThanDays: &days})
	if err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if out.Purged != 0 {
		t.Errorf("Purged = %d, want 0 for recent delete", out.Purged)
	}
}

func TestFormatPurgeMessage(t *testing.T) {
	days := 30
	tests := []struct {
		count int
		days  *int
		want  string
	}{
		{0, nil, "No deleted recaps to purge"},
		{1, nil, "Permanently deleted 1 recap"},
		{3, nil, "Permanently deleted 3 recaps"},
		{2, &days, "Permanently deleted 2 recaps (deleted more than 30 days ago)"},
	}

	for _, tt := range tests {
		if got := formatPurgeMessage(tt.count, tt.days); got != tt.want {
			t.Errorf("formatPurgeMessage(%d, %v) = %q, want %q", tt.count, tt.days, got, tt.want)
		}
	}
}
