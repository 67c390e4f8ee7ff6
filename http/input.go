package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"estateprice/estimate"
)

var errNoInput = errors.New("no input data provided in request")

var (
	locationKeys = []string{"location", "loc", "locality"}
	areaKeys     = []string{"total_sqft", "totalSqft", "sqft", "area"}
	bedroomKeys  = []string{"bhk", "bedrooms", "beds", "bedroom"}
	bathroomKeys = []string{"bath", "bathrooms", "baths", "bathroom"}
)

// extractInput reads a form or JSON body into a flat string map. Bodies
// without a form content type are parsed as JSON whatever their header says.
func extractInput(r *http.Request) (map[string]string, error) {
	data := make(map[string]string)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if mediaType == "multipart/form-data" {
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				return nil, fmt.Errorf("%w: %v", estimate.ErrInvalidInput, err)
			}
		} else if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("%w: %v", estimate.ErrInvalidInput, err)
		}
		for key, values := range r.PostForm {
			if len(values) > 0 {
				data[key] = values[0]
			}
		}
	default:
		if r.Body == nil {
			return nil, errNoInput
		}
		var raw map[string]any
		decoder := json.NewDecoder(r.Body)
		decoder.UseNumber()
		if err := decoder.Decode(&raw); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return nil, fmt.Errorf("%w: request body too large", estimate.ErrInvalidInput)
			}
			return nil, errNoInput
		}
		for key, value := range raw {
			if s, ok := stringify(value); ok {
				data[key] = s
			}
		}
	}

	if len(data) == 0 {
		return nil, errNoInput
	}
	return data, nil
}

func stringify(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return fmt.Sprint(v), true
	}
}

// lookupKey resolves the first present, non-empty value among keys. Exact
// key matches win over case-insensitive ones.
func lookupKey(data map[string]string, keys []string) (string, bool) {
	usable := func(v string) bool {
		v = strings.TrimSpace(v)
		return v != "" && v != "null"
	}
	for _, key := range keys {
		if v, ok := data[key]; ok && usable(v) {
			return strings.TrimSpace(v), true
		}
	}
	lowered := make(map[string]string, len(data))
	for k, v := range data {
		lowered[strings.ToLower(k)] = v
	}
	for _, key := range keys {
		if v, ok := lowered[strings.ToLower(key)]; ok && usable(v) {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

// parseQuery converts the flat request map into an estimate query. Every
// failure wraps estimate.ErrInvalidInput.
func parseQuery(data map[string]string) (estimate.Query, error) {
	var q estimate.Query

	location, ok := lookupKey(data, locationKeys)
	if !ok {
		return q, fmt.Errorf("%w: location cannot be empty", estimate.ErrInvalidInput)
	}
	q.Location = location

	area, err := requireFloat(data, areaKeys, "total_sqft")
	if err != nil {
		return q, err
	}
	q.Area = area

	if q.Bedrooms, err = requireInt(data, bedroomKeys, "bhk"); err != nil {
		return q, err
	}
	if q.Bathrooms, err = requireInt(data, bathroomKeys, "bath"); err != nil {
		return q, err
	}
	return q, nil
}

func requireFloat(data map[string]string, keys []string, field string) (float64, error) {
	raw, ok := lookupKey(data, keys)
	if !ok {
		return 0, fmt.Errorf("%w: %s cannot be empty", estimate.ErrInvalidInput, field)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s: %q cannot be converted to float", estimate.ErrInvalidInput, field, raw)
	}
	return v, nil
}

// requireInt accepts integral strings as well as "2.0" style floats, which
// are truncated.
func requireInt(data map[string]string, keys []string, field string) (int, error) {
	raw, ok := lookupKey(data, keys)
	if !ok {
		return 0, fmt.Errorf("%w: %s cannot be empty", estimate.ErrInvalidInput, field)
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: invalid %s: %q cannot be converted to int", estimate.ErrInvalidInput, field, raw)
	}
	// float64(math.MaxInt) rounds up to 2^63 on 64-bit platforms
	if f < math.MinInt || f >= math.MaxInt {
		return 0, fmt.Errorf("%w: invalid %s: %q is out of range", estimate.ErrInvalidInput, field, raw)
	}
	return int(f), nil
}
