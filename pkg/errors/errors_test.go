package errors

import (
	stdErrors "errors"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected"},
		{code: CodeStateConflict, status: http.StatusUnprocessableEntity, publicMsg: "state transition disallowed", detailsOK: true},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
		{code: CodeInsufficientCredit, status: http.StatusUnprocessableEntity, publicMsg: "insufficient credit", detailsOK: true},
		{code: CodeCustomerSuspended, status: http.StatusForbidden, publicMsg: "customer account suspended"},
		{code: CodeProductNotFound, status: http.StatusNotFound, publicMsg: "product not found", detailsOK: true},
		{code: CodeStockShortfall, status: http.StatusUnprocessableEntity, publicMsg: "insufficient stock", detailsOK: true},
		{code: CodeTransactionTimeout, status: http.StatusGatewayTimeout, publicMsg: "operation timed out", retryable: true},
		{code: CodeDeadlockRetriesExhausted, status: http.StatusConflict, publicMsg: "storage contention, please retry", retryable: true},
		{code: CodeStepFailed, status: http.StatusUnprocessableEntity, publicMsg: "checkout step failed", detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("root cause")
	wrapped := Wrap(CodeDependency, cause, "store unavailable")

	if !stdErrors.Is(wrapped, cause) {
		t.Fatal("expected wrapped error to match cause via errors.Is")
	}
	if typed := As(wrapped); typed == nil || typed.Code() != CodeDependency {
		t.Fatalf("expected dependency code, got %v", wrapped)
	}
}

func TestInsufficientCreditDetails(t *testing.T) {
	err := NewInsufficientCredit(CreditShortfallDetails{
		LimitCents:     100_000,
		UsedCents:      80_000,
		AvailableCents: 20_000,
		ShortfallCents: 30_000,
	})

	if !HasCode(err, CodeInsufficientCredit) {
		t.Fatalf("expected INSUFFICIENT_CREDIT, got %v", err)
	}
	details, ok := err.Details().(CreditShortfallDetails)
	if !ok {
		t.Fatalf("expected CreditShortfallDetails, got %T", err.Details())
	}
	if details.ShortfallCents != 30_000 {
		t.Fatalf("unexpected shortfall %d", details.ShortfallCents)
	}
}

func TestHasCodeNilAndMismatch(t *testing.T) {
	if HasCode(nil, CodeValidation) {
		t.Fatal("nil error should not match any code")
	}
	if HasCode(stdErrors.New("plain"), CodeValidation) {
		t.Fatal("plain error should not match platform codes")
	}
	if HasCode(New(CodeConflict, "x"), CodeValidation) {
		t.Fatal("mismatched code should not match")
	}
}
