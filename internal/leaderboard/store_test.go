package leaderboard

import "testing"

func TestStorePagination(t *testing.T) {
	store, buf := newTestStore(t, generatedCSV(3001), DefaultPageSize)

	if store.Offset() != 2500 || len(buf.Rows) != 2500 {
		t.Fatalf("Expected 2500 rows after the first page, got offset %d and %d rendered", store.Offset(), len(buf.Rows))
	}
	if !store.HasMore() {
		t.Error("Expected more rows to remain")
	}

	if n := store.LoadMore(); n != 501 {
		t.Errorf("Expected 501 rows released, got %d", n)
	}
	if store.Offset() != 3001 || len(buf.Rows) != 3001 {
		t.Errorf("Expected 3001 rows, got offset %d and %d rendered", store.Offset(), len(buf.Rows))
	}

	appends := buf.Appends
	if n := store.LoadMore(); n != 0 {
		t.Errorf("Expected no rows once exhausted, got %d", n)
	}
	if buf.Appends != appends {
		t.Error("Expected no append once exhausted")
	}
	if store.Offset() != 3001 {
		t.Errorf("Expected offset to stay at 3001, got %d", store.Offset())
	}
}

func TestStoreInitialPageSmallerThanPage(t *testing.T) {
	store, buf := newTestStore(t, generatedCSV(10), DefaultPageSize)

	if store.Offset() != 10 {
		t.Errorf("Expected offset 10, got %d", store.Offset())
	}
	if len(buf.Rows) != 10 {
		t.Errorf("Expected 10 rendered rows, got %d", len(buf.Rows))
	}
	if store.HasMore() {
		t.Error("Expected nothing left to release")
	}
}

func TestStoreDisplayedIsPrefix(t *testing.T) {
	store, _ := newTestStore(t, generatedCSV(25), 10)

	for range 4 {
		displayed := store.Displayed()
		all := store.All()
		if len(displayed) != store.Offset() {
			t.Fatalf("Expected %d displayed rows, got %d", store.Offset(), len(displayed))
		}
		for i, r := range displayed {
			if r != all[i] {
				t.Fatalf("Expected displayed row %d to be the same as all[%d]", i, i)
			}
		}
		store.LoadMore()
	}

	if store.Offset() != 25 {
		t.Errorf("Expected all 25 rows released, got %d", store.Offset())
	}
}

func TestStoreEmpty(t *testing.T) {
	store, buf := newTestStore(t, fullHeader+"\n", DefaultPageSize)

	if store.Offset() != 0 || len(buf.Rows) != 0 {
		t.Errorf("Expected an empty store, got offset %d", store.Offset())
	}
	if buf.Renders != 1 {
		t.Errorf("Expected the empty page to be rendered once, got %d", buf.Renders)
	}
	if n := store.LoadMore(); n != 0 {
		t.Errorf("Expected LoadMore to be a no-op, got %d", n)
	}
}

func TestStoreResetKeepsDirections(t *testing.T) {
	store, _ := newTestStore(t, generatedCSV(5), DefaultPageSize)
	if _, err := store.Sort(LabelRating); err != nil {
		t.Fatalf("Sort failed: %v", err)
	}

	store.Reset(buildSnapshot(t, generatedCSV(3)).Rows)

	if store.Sorter().Direction(LabelRating) != Descending {
		t.Error("Expected the rating direction to survive a reset")
	}
	if store.Offset() != 0 || store.Mode() != ModeScrolling {
		t.Errorf("Expected a fresh scrolling store, got offset %d mode %s", store.Offset(), store.Mode())
	}
}
