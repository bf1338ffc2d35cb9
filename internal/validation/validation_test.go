package validation

import (
	"errors"
	"testing"

	"github.com/fastygo/taskwise/domain"
)

type signup struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=8"`
	Confirm  string `json:"confirm_password" validate:"eqfield=Password"`
	Internal string `validate:"required"`
}

func TestStructKeysByJSONName(t *testing.T) {
	err := Struct(signup{Email: "nope", Password: "short", Confirm: "other"})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err=%v, want *domain.ValidationError", err)
	}
	want := map[string]string{
		"email":            "must be a valid email address",
		"password":         "must be at least 8 characters",
		"confirm_password": "does not match",
		"Internal":         "is required",
	}
	for field, msg := range want {
		if verr.Fields[field] != msg {
			t.Errorf("%s: got %q, want %q", field, verr.Fields[field], msg)
		}
	}
}

func TestStructPasses(t *testing.T) {
	if err := Struct(signup{Email: "a@b.co", Password: "12345678", Confirm: "12345678", Internal: "x"}); err != nil {
		t.Fatalf("err=%v", err)
	}
}
