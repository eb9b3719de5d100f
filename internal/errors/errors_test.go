package errors

import (
	"fmt"
	"testing"
)

func TestKeeperError_Error(t *testing.T) {
	err := &KeeperError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "record not found",
	}

	expected := "NOT_FOUND: record not found"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewAmbiguousAddressing(t *testing.T) {
	err := NewAmbiguousAddressing()

	if err.Code != ErrAmbiguousAddressing {
		t.Errorf("Code = %q, want %q", err.Code, ErrAmbiguousAddressing)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
}

func TestNewInvalidRequest(t *testing.T) {
	err := NewInvalidRequest("name is required")

	if err.Code != ErrInvalidRequest {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidRequest)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Message != "name is required" {
		t.Errorf("Message = %q, want %q", err.Message, "name is required")
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("ana")

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Details["identifier"] != "ana" {
		t.Errorf("Details[identifier] = %v, want %q", err.Details["identifier"], "ana")
	}
}

func TestNewAmbiguousMatch(t *testing.T) {
	ids := []string{"01A", "01B"}
	err := NewAmbiguousMatch("ana", ids)

	if err.Code != ErrAmbiguousMatch {
		t.Errorf("Code = %q, want %q", err.Code, ErrAmbiguousMatch)
	}
	if err.Status != 409 {
		t.Errorf("Status = %d, want 409", err.Status)
	}
	if err.Details["predicate"] != "ana" {
		t.Errorf("Details[predicate] = %v, want %q", err.Details["predicate"], "ana")
	}
	got, ok := err.Details["candidate_ids"].([]string)
	if !ok || len(got) != 2 {
		t.Errorf("Details[candidate_ids] = %v, want %v", err.Details["candidate_ids"], ids)
	}
}

func TestNewValidation(t *testing.T) {
	err := NewValidation("email", "does not look like an email address")

	if err.Code != ErrValidation {
		t.Errorf("Code = %q, want %q", err.Code, ErrValidation)
	}
	if err.Status != 422 {
		t.Errorf("Status = %d, want 422", err.Status)
	}
	if err.Details["field"] != "email" {
		t.Errorf("Details[field] = %v, want %q", err.Details["field"], "email")
	}
}

func TestNewInternal(t *testing.T) {
	err := NewInternal(fmt.Errorf("database exploded"))

	if err.Code != ErrInternal {
		t.Errorf("Code = %q, want %q", err.Code, ErrInternal)
	}
	if err.Status != 500 {
		t.Errorf("Status = %d, want 500", err.Status)
	}
	if err.Message != "database exploded" {
		t.Errorf("Message = %q, want %q", err.Message, "database exploded")
	}
}

func TestNewInternal_NilError(t *testing.T) {
	err := NewInternal(nil)

	if err.Message != "internal error" {
		t.Errorf("Message = %q, want %q", err.Message, "internal error")
	}
}

func TestIs(t *testing.T) {
	err := NewNotFound("x")

	if !Is(err, ErrNotFound) {
		t.Error("Is(err, ErrNotFound) = false, want true")
	}
	if Is(err, ErrValidation) {
		t.Error("Is(err, ErrValidation) = true, want false")
	}
	if Is(fmt.Errorf("plain"), ErrNotFound) {
		t.Error("Is(plain error, ErrNotFound) = true, want false")
	}
}
