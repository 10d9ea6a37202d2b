package entity

import (
	"path/filepath"
	"testing"
)

func TestMemStore(t *testing.T) {
	s := NewMemStore()

	if _, ok := s.Get("b1"); ok {
		t.Error("Get on empty store returned true")
	}

	s.Put(&Record{RID: "b1", Title: "On Test Fixtures"})

	r, ok := s.Get("b1")
	if !ok {
		t.Fatal("Get(b1) returned false after Put")
	}
	if r.Title != "On Test Fixtures" {
		t.Errorf("Title = %q, want %q", r.Title, "On Test Fixtures")
	}
}

func TestSQLStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.db")

	s, err := OpenSQL(path)
	if err != nil {
		t.Fatalf("OpenSQL failed: %v", err)
	}
	defer s.Close()

	want := &Record{
		RID:            "doe2006",
		Type:           "journal-article",
		Title:          "Article Title",
		Authors:        []string{"Doe, J.", "Roe, R."},
		ContainerTitle: "Journal of Examples",
		Year:           2006,
		Volume:         "12",
		Pages:          "100-110",
		DOI:            "10.1000/xyz123",
	}
	if err := s.Put(want); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, ok := s.Get("doe2006")
	if !ok {
		t.Fatal("Get(doe2006) returned false")
	}
	if got.Title != want.Title {
		t.Errorf("Title = %q, want %q", got.Title, want.Title)
	}
	if len(got.Authors) != 2 || got.Authors[0] != "Doe, J." {
		t.Errorf("Authors = %v, want %v", got.Authors, want.Authors)
	}
	if got.Year != want.Year {
		t.Errorf("Year = %d, want %d", got.Year, want.Year)
	}
	if got.DOI != want.DOI {
		t.Errorf("DOI = %q, want %q", got.DOI, want.DOI)
	}
}

func TestSQLStoreAbsence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.db")

	s, err := OpenSQL(path)
	if err != nil {
		t.Fatalf("OpenSQL failed: %v", err)
	}
	defer s.Close()

	// Absence is not an error, just a false.
	if _, ok := s.Get("missing"); ok {
		t.Error("Get(missing) returned true")
	}
}

func TestSQLStoreUpsert(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.db")

	s, err := OpenSQL(path)
	if err != nil {
		t.Fatalf("OpenSQL failed: %v", err)
	}
	defer s.Close()

	if err := s.Put(&Record{RID: "b1", Title: "First"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := s.Put(&Record{RID: "b1", Title: "Second"}); err != nil {
		t.Fatalf("second Put failed: %v", err)
	}

	r, ok := s.Get("b1")
	if !ok {
		t.Fatal("Get(b1) returned false")
	}
	if r.Title != "Second" {
		t.Errorf("Title after upsert = %q, want %q", r.Title, "Second")
	}
}

func TestDriverInfo(t *testing.T) {
	dt := DriverType()
	if dt != "purego" && dt != "cgo" {
		t.Errorf("DriverType() = %q, want purego or cgo", dt)
	}
	if DriverPackage() == "" {
		t.Error("DriverPackage() is empty")
	}
}
