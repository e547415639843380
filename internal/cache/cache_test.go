package cache

import (
	"path/filepath"
	"testing"

	"github.com/matsen/citeline/internal/reference"
)

func openTestCache(t *testing.T) (*Cache, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache.db")
	c, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c, path
}

func TestPutGetRoundtrip(t *testing.T) {
	c, _ := openTestCache(t)

	res := &reference.Resolution{
		DOI:        "10.1038/nature12373",
		Title:      "Greenland temperature response",
		Year:       2013,
		PDFURL:     "https://example.org/oa.pdf",
		Source:     reference.SourceSemanticScholar,
		Confidence: 1,
	}

	if err := c.Put(DOIKey(res.DOI), res); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, found, err := c.Get(DOIKey(res.DOI))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found {
		t.Fatal("entry not found after Put")
	}
	if got == nil {
		t.Fatal("Get returned nil resolution for positive entry")
	}
	if got.DOI != res.DOI || got.Title != res.Title || got.Year != res.Year {
		t.Errorf("roundtrip mismatch: got %+v", got)
	}
	if got.PDFURL != res.PDFURL || got.Source != res.Source {
		t.Errorf("roundtrip mismatch: got %+v", got)
	}
}

func TestNegativeEntry(t *testing.T) {
	c, _ := openTestCache(t)

	key := CitationKey("Unfindable et al. 2019")
	if err := c.Put(key, nil); err != nil {
		t.Fatalf("Put(nil) failed: %v", err)
	}

	got, found, err := c.Get(key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found {
		t.Fatal("negative entry should be found")
	}
	if got != nil {
		t.Errorf("negative entry should be nil, got %+v", got)
	}
}

func TestMissingKey(t *testing.T) {
	c, _ := openTestCache(t)

	_, found, err := c.Get(DOIKey("10.9999/absent"))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if found {
		t.Error("missing key reported as found")
	}
}

func TestOverwrite(t *testing.T) {
	c, _ := openTestCache(t)

	key := DOIKey("10.1038/nature12373")
	if err := c.Put(key, nil); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := c.Put(key, &reference.Resolution{DOI: "10.1038/nature12373"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, found, err := c.Get(key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found || got == nil {
		t.Fatal("overwritten entry should now be positive")
	}

	n, err := c.Len()
	if err != nil {
		t.Fatalf("Len failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Len = %d, want 1 after overwrite", n)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	c, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := c.Put(DOIKey("10.1038/nature12373"), &reference.Resolution{DOI: "10.1038/nature12373"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	c2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer c2.Close()

	got, found, err := c2.Get(DOIKey("10.1038/nature12373"))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found || got == nil {
		t.Fatal("entry did not survive reopen")
	}
}

func TestClear(t *testing.T) {
	c, _ := openTestCache(t)

	c.Put(DOIKey("10.1/a"), nil)
	c.Put(DOIKey("10.1/b"), nil)

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	n, err := c.Len()
	if err != nil {
		t.Fatalf("Len failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Len = %d after Clear, want 0", n)
	}
}
