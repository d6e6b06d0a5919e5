package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestIsMatchesByCode(t *testing.T) {
	t.Parallel()

	err := Newf(CodeInsufficientFunds, "balance %s is below %s", "10.00", "25.00")
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("errors.Is(%v, ErrInsufficientFunds) = false, want true", err)
	}
	if errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("errors.Is(%v, ErrInvalidAmount) = true, want false", err)
	}
}

func TestWrappedDomainErrorIsFound(t *testing.T) {
	t.Parallel()

	cause := errors.New("disk full")
	err := fmt.Errorf("debit: %w", Wrap(CodeInternalInvariantViolation, "write failed", cause))

	if got := CodeOf(err); got != CodeInternalInvariantViolation {
		t.Fatalf("CodeOf = %v, want %v", got, CodeInternalInvariantViolation)
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected cause to be reachable through Unwrap")
	}
	if got := CodeOf(cause); got != CodeUnknown {
		t.Fatalf("CodeOf(plain) = %v, want %v", got, CodeUnknown)
	}
}

func TestHTTPStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code Code
		want int
	}{
		{CodeInsufficientFunds, http.StatusUnprocessableEntity},
		{CodeInvalidProfile, http.StatusUnprocessableEntity},
		{CodeStaleLevel, http.StatusConflict},
		{CodeTerminalSession, http.StatusConflict},
		{CodeSessionNotFound, http.StatusNotFound},
		{CodeNotYourSession, http.StatusForbidden},
		{CodeInternalInvariantViolation, http.StatusInternalServerError},
		{CodeUnknown, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := tt.code.HTTPStatus(); got != tt.want {
			t.Fatalf("%s.HTTPStatus() = %d, want %d", tt.code, got, tt.want)
		}
	}
}
