package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Test struct mirroring the ingestion payload's validation tags
type testImportRequest struct {
	URL      string `json:"url" validate:"required,url"`
	Category string `json:"category" validate:"required"`
}

func TestProperty_RequiredFieldValidationWorks(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("missing required fields are rejected", prop.ForAll(
		func(includeURLField bool, includeCategoryField bool) bool {
			reqMap := make(map[string]interface{})

			if includeURLField {
				reqMap["url"] = "https://example.test/listing/1"
			}
			if includeCategoryField {
				reqMap["category"] = "Laptops"
			}

			allFieldsPresent := includeURLField && includeCategoryField

			reqBody, _ := json.Marshal(reqMap)
			req := httptest.NewRequest("POST", "/api/import", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")

			var testReq testImportRequest
			err := DecodeAndValidate(req, &testReq)

			if allFieldsPresent {
				return err == nil
			}
			return err != nil
		},
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestValidationErrorsAreFormatted(t *testing.T) {
	reqBody, _ := json.Marshal(map[string]interface{}{
		"url":      "not a url",
		"category": "Laptops",
	})
	req := httptest.NewRequest("POST", "/api/import", bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")

	var testReq testImportRequest
	err := DecodeAndValidate(req, &testReq)
	if err == nil {
		t.Fatal("expected validation error for malformed url")
	}

	validationErrors := FormatValidationErrors(err)
	if len(validationErrors) == 0 {
		t.Fatal("expected formatted validation errors")
	}
	for _, ve := range validationErrors {
		if ve.Field == "" || ve.Message == "" {
			t.Errorf("incomplete validation error: %+v", ve)
		}
	}
}

func TestDecodeAndValidate_RejectsMalformedJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/import", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")

	var testReq testImportRequest
	if err := DecodeAndValidate(req, &testReq); err == nil {
		t.Fatal("expected decode error")
	}
}
