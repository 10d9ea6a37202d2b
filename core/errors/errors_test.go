package errors

import (
	stderrors "errors"
	"testing"
)

func TestConstructionError(t *testing.T) {
	err := NewConstruction("controller", "document")

	want := "cannot construct controller: document is required"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !stderrors.Is(err, ErrMissingCollaborator) {
		t.Error("ConstructionError should unwrap to ErrMissingCollaborator")
	}
}

func TestNotFoundError(t *testing.T) {
	err := NewNotFound("record", "b12")

	want := "record not found: b12"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !stderrors.Is(err, ErrNotFound) {
		t.Error("NotFoundError should unwrap to ErrNotFound")
	}
}

func TestNotFoundErrorNoID(t *testing.T) {
	err := NewNotFound("node", "")

	want := "node not found"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidation("rid", "must not be empty")

	want := "validation failed for rid: must not be empty"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !stderrors.Is(err, ErrInvalidInput) {
		t.Error("ValidationError should unwrap to ErrInvalidInput")
	}
}

func TestCorruptError(t *testing.T) {
	err := NewCorrupt("doc.xml.xz", "blake3 digest mismatch")

	want := "corrupt data at doc.xml.xz: blake3 digest mismatch"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !stderrors.Is(err, ErrCorrupt) {
		t.Error("CorruptError should unwrap to ErrCorrupt")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) should return nil")
	}

	base := stderrors.New("base")
	wrapped := Wrap(base, "loading snapshot")
	if wrapped.Error() != "loading snapshot: base" {
		t.Errorf("Wrap() = %q", wrapped.Error())
	}
	if !stderrors.Is(wrapped, base) {
		t.Error("wrapped error should match base via errors.Is")
	}
}

func TestWrapf(t *testing.T) {
	if Wrapf(nil, "context %d", 1) != nil {
		t.Error("Wrapf(nil) should return nil")
	}

	base := stderrors.New("base")
	wrapped := Wrapf(base, "node %s", "n1")
	if wrapped.Error() != "node n1: base" {
		t.Errorf("Wrapf() = %q", wrapped.Error())
	}
}

func TestIsAs(t *testing.T) {
	err := NewNotFound("record", "b1")
	if !Is(err, ErrNotFound) {
		t.Error("Is() should match ErrNotFound")
	}

	var nf *NotFoundError
	if !As(err, &nf) {
		t.Error("As() should extract *NotFoundError")
	}
	if nf.ID != "b1" {
		t.Errorf("extracted ID = %q, want %q", nf.ID, "b1")
	}
}
