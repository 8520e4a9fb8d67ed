package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/pricesnapshot/pkg/errors"
)

type curveBody struct {
	Prices     []float64 `json:"prices" validate:"max=5,dive,gte=0"`
	Resolution int       `json:"resolution" validate:"omitempty,min=2"`
}

func TestDecodeJSONBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"prices":[1,2.5],"resolution":10}`))
	var body curveBody
	if err := DecodeJSONBody(req, &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Prices) != 2 || body.Resolution != 10 {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestDecodeJSONBodyErrors(t *testing.T) {
	tests := map[string]string{
		"empty":         ``,
		"malformed":     `{"prices":`,
		"unknown field": `{"prices":[1],"color":"red"}`,
		"negative":      `{"prices":[1,-2]}`,
		"too many":      `{"prices":[1,2,3,4,5,6]}`,
		"resolution":    `{"prices":[1],"resolution":1}`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(raw))
			var body curveBody
			err := DecodeJSONBody(req, &body)
			if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestValidationDetailsUseJSONNames(t *testing.T) {
	err := ValidateStruct(&curveBody{Prices: []float64{-1}})
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error")
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("unexpected details %T", typed.Details())
	}
	if details["prices[0]"] != "must be 0 or more" {
		t.Fatalf("unexpected details %v", details)
	}
}

func TestRequireQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?q=++dog+bed++&empty=+", nil)

	got, err := RequireQuery(req, "q", 100, "missing search query")
	if err != nil || got != "dog bed" {
		t.Fatalf("unexpected result %q %v", got, err)
	}

	_, err = RequireQuery(req, "empty", 100, "missing search query")
	if !pkgerrors.IsCode(err, pkgerrors.CodeMissingInput) {
		t.Fatalf("expected missing input, got %v", err)
	}
	if pkgerrors.As(err).Message() != "missing search query" {
		t.Fatalf("unexpected message %q", pkgerrors.As(err).Message())
	}
}

func TestSanitizeStringCutsRunes(t *testing.T) {
	if got := SanitizeString("  café crème ", 4); got != "café" {
		t.Fatalf("unexpected %q", got)
	}
	if got := SanitizeString(" hi ", 0); got != "hi" {
		t.Fatalf("unexpected %q", got)
	}
}
