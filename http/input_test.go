package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"estateprice/estimate"
)

func TestLookupKey(t *testing.T) {
	data := map[string]string{
		"TOTAL_SQFT": "1000",
		"totalSqft":  " 1200 ",
		"Location":   "Hebbal",
		"bhk":        "null",
		"Bedrooms":   "3",
	}
	tests := []struct {
		keys []string
		want string
		ok   bool
	}{
		{areaKeys, "1200", true},
		{locationKeys, "Hebbal", true},
		{bedroomKeys, "3", true},
		{bathroomKeys, "", false},
	}
	for _, tt := range tests {
		got, ok := lookupKey(data, tt.keys)
		if got != tt.want || ok != tt.ok {
			t.Errorf("lookupKey(%v) = %q, %v; want %q, %v", tt.keys, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseQuery(t *testing.T) {
	q, err := parseQuery(map[string]string{"sqft": "950.5", "location": "Whitefield", "bhk": "2.0", "bathrooms": "2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := estimate.Query{Location: "Whitefield", Area: 950.5, Bedrooms: 2, Bathrooms: 2}
	if q != want {
		t.Fatalf("got %+v; want %+v", q, want)
	}

	bad := []map[string]string{
		{"total_sqft": "1000", "bhk": "2", "bath": "2"},
		{"location": "Whitefield", "total_sqft": "abc", "bhk": "2", "bath": "2"},
		{"location": "Whitefield", "total_sqft": "1000", "bhk": "NaN", "bath": "2"},
		{"location": "Whitefield", "total_sqft": "1000", "bhk": "2"},
		{"location": "Whitefield", "total_sqft": "1000", "bhk": "1e20", "bath": "2"},
		{"location": "Whitefield", "total_sqft": "1000", "bhk": "2", "bath": "-1e19"},
	}
	for _, data := range bad {
		if _, err := parseQuery(data); !errors.Is(err, estimate.ErrInvalidInput) {
			t.Errorf("%v: expected ErrInvalidInput, got %v", data, err)
		}
	}
}

func TestExtractInputJSONWithoutContentType(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/predict_home_price", strings.NewReader(`{"bhk": 2, "location": "Hebbal", "extra": null, "flag": true}`))
	data, err := extractInput(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data["bhk"] != "2" || data["location"] != "Hebbal" || data["flag"] != "true" {
		t.Fatalf("unexpected data: %v", data)
	}
	if _, ok := data["extra"]; ok {
		t.Fatal("null values should be dropped")
	}
}

func TestExtractInputMultipart(t *testing.T) {
	body := "--xyz\r\nContent-Disposition: form-data; name=\"location\"\r\n\r\nHebbal\r\n--xyz--\r\n"
	req := httptest.NewRequest(http.MethodPost, "/predict_home_price", strings.NewReader(body))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
	data, err := extractInput(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data["location"] != "Hebbal" {
		t.Fatalf("unexpected data: %v", data)
	}
}

func TestExtractInputEmpty(t *testing.T) {
	for _, body := range []string{"", "[]", "not json"} {
		req := httptest.NewRequest(http.MethodPost, "/predict_home_price", strings.NewReader(body))
		if _, err := extractInput(req); err == nil {
			t.Errorf("body %q: expected error", body)
		}
	}
}
