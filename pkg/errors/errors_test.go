package errors

import (
	stdErrors "errors"
	"fmt"
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
		{code: CodeMissingInput, status: http.StatusBadRequest, publicMsg: "missing search query", detailsOK: true},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeMethodInvalid, status: http.StatusMethodNotAllowed, publicMsg: "method not allowed"},
		{code: CodeNoData, status: http.StatusNotFound, publicMsg: "no usable data returned", detailsOK: true},
		{code: CodeEmptyInput, status: http.StatusUnprocessableEntity, publicMsg: "input set is empty"},
		{code: CodeUpstream, status: http.StatusBadGateway, publicMsg: "failed to fetch data", retryable: true, detailsOK: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
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

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing foo" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	base.WithDetails(map[string]any{"field": "foo"})
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeUpstream, cause, "search request failed")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeUpstream {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
	if wrapped.Error() != "UPSTREAM_FETCH_ERROR: search request failed: boom" {
		t.Fatalf("unexpected error string %q", wrapped.Error())
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeNoData, "no valid prices found"))
	if got := As(err); got == nil || got.Code() != CodeNoData {
		t.Fatalf("As failed to return typed error")
	}
	if !IsCode(err, CodeNoData) {
		t.Fatalf("IsCode should match wrapped code")
	}
	if IsCode(err, CodeUpstream) {
		t.Fatalf("IsCode should not match other codes")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}

	nested := Wrap(CodeUpstream, New(CodeNoData, "no keywords found for this query"), "failed to fetch keyword data")
	if !IsCode(nested, CodeNoData) || !IsCode(nested, CodeUpstream) {
		t.Fatalf("IsCode should match every typed error in the chain")
	}
}

func TestPublicMessage(t *testing.T) {
	if got := PublicMessage(stdErrors.New("secret dsn leaked")); got != "internal server error" {
		t.Fatalf("untyped errors must not leak, got %q", got)
	}
	if got := PublicMessage(New(CodeNoData, "no valid prices found")); got != "no valid prices found" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := PublicMessage(New(CodeInternal, "nil pointer in service")); got != "internal server error" {
		t.Fatalf("internal messages must be replaced, got %q", got)
	}
}

func TestDumpCapturesUpstreamStatus(t *testing.T) {
	err := Wrap(CodeUpstream, &UpstreamError{Upstream: "serpapi", StatusCode: 401, Body: "invalid key"}, "search request failed")
	d := Dump(err)
	if d.Code != CodeUpstream {
		t.Fatalf("unexpected code %s", d.Code)
	}
	if d.Upstream != "serpapi" || d.HTTPStatus != 401 {
		t.Fatalf("unexpected upstream fields %+v", d)
	}
	if len(d.Chain) != 2 {
		t.Fatalf("expected two chain entries, got %v", d.Chain)
	}
}
