package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	cases := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodePrecondition, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeStateConflict, http.StatusUnprocessableEntity},
		{CodePaymentRequired, http.StatusPaymentRequired},
		{CodeRateLimit, http.StatusTooManyRequests},
		{CodeDependency, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		if got := MetadataFor(tc.code).HTTPStatus; got != tc.status {
			t.Errorf("MetadataFor(%s).HTTPStatus = %d, want %d", tc.code, got, tc.status)
		}
	}
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("BOGUS"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unknown code status = %d, want 500", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("boom")
	err := Wrap(CodeDependency, cause, "load shipment")

	if !stdErrors.Is(err, cause) {
		t.Fatal("wrapped error should match cause via errors.Is")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("code = %s, want %s", err.Code(), CodeDependency)
	}
}

func TestAsFindsTypedErrorThroughChain(t *testing.T) {
	typed := New(CodeNotFound, "stage not found")
	wrapped := fmt.Errorf("while splicing: %w", typed)

	got := As(wrapped)
	if got == nil {
		t.Fatal("As should find typed error through fmt wrapping")
	}
	if got.Code() != CodeNotFound {
		t.Fatalf("code = %s, want %s", got.Code(), CodeNotFound)
	}
}

func TestDumpCollectsChain(t *testing.T) {
	cause := stdErrors.New("socket closed")
	err := Wrap(CodeDependency, cause, "redis ping")

	dump := Dump(err)
	if dump.Code != CodeDependency {
		t.Fatalf("dump code = %s, want %s", dump.Code, CodeDependency)
	}
	if len(dump.Chain) != 2 {
		t.Fatalf("chain length = %d, want 2", len(dump.Chain))
	}
}

func TestNilErrorAccessorsAreSafe(t *testing.T) {
	var err *Error
	if err.Code() != CodeInternal {
		t.Fatal("nil error should report internal code")
	}
	if err.Error() != "" {
		t.Fatal("nil error should render empty string")
	}
}
