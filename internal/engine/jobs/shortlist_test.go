package jobs

import (
	"context"
	"errors"
	"testing"
)

func newTestShortlist(t *testing.T) *Shortlist {
	t.Helper()
	s, err := OpenShortlist()
	if err != nil {
		t.Fatalf("OpenShortlist: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestShortlistAddList(t *testing.T) {
	s := newTestShortlist(t)
	ctx := context.Background()

	p := Posting{Title: "Analyste ESG", Company: "Amundi", URL: "https://x/1", Location: "Paris", Source: "linkedin"}
	added, err := s.Add(ctx, "s1", p)
	if err != nil || !added {
		t.Fatalf("Add = %v, %v", added, err)
	}
	added, err = s.Add(ctx, "s1", p)
	if err != nil || added {
		t.Errorf("duplicate Add = %v, %v; want false, nil", added, err)
	}
	if _, err := s.Add(ctx, "s1", Posting{Title: "Credit Analyst", URL: "https://x/2"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Add(ctx, "s2", p); err != nil {
		t.Fatal(err)
	}

	list, err := s.List(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("List(s1) = %d entries, want 2", len(list))
	}
	if list[0].Posting != p {
		t.Errorf("entry = %+v, want %+v", list[0].Posting, p)
	}
	if list[0].AddedAt == "" {
		t.Error("AddedAt not set")
	}
}

func TestShortlistAddRequiresURL(t *testing.T) {
	s := newTestShortlist(t)
	if _, err := s.Add(context.Background(), "s1", Posting{Title: "No URL"}); err == nil {
		t.Error("expected error")
	}
}

func TestShortlistRemoveClear(t *testing.T) {
	s := newTestShortlist(t)
	ctx := context.Background()

	for _, u := range []string{"a", "b", "c"} {
		if _, err := s.Add(ctx, "s1", Posting{Title: u, URL: u}); err != nil {
			t.Fatal(err)
		}
	}
	list, _ := s.List(ctx, "s1")
	if err := s.Remove(ctx, "s1", list[1].ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := s.Remove(ctx, "s1", list[1].ID); !errors.Is(err, ErrNotShortlisted) {
		t.Errorf("second Remove err = %v, want ErrNotShortlisted", err)
	}
	if err := s.Remove(ctx, "other", list[0].ID); !errors.Is(err, ErrNotShortlisted) {
		t.Errorf("cross-session Remove err = %v, want ErrNotShortlisted", err)
	}

	list, _ = s.List(ctx, "s1")
	if len(list) != 2 || list[0].Posting.URL != "a" || list[1].Posting.URL != "c" {
		t.Errorf("after remove = %+v", list)
	}

	if err := s.Clear(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
	list, _ = s.List(ctx, "s1")
	if list == nil || len(list) != 0 {
		t.Errorf("after clear = %v, want empty non-nil", list)
	}
}
