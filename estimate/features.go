package estimate

import "estateprice/artifacts"

// LocationIndex scans the location columns of lowered for location and
// returns its absolute column index, or -1. lowered must already be
// normalized with artifacts.NormalizeLocation.
func LocationIndex(lowered []string, location string) int {
	needle := artifacts.NormalizeLocation(location)
	if needle == "" {
		return -1
	}
	for i := artifacts.NumericColumns; i < len(lowered); i++ {
		if lowered[i] == needle {
			return i
		}
	}
	return -1
}

// FeatureVector lays out q over width columns: area, bedrooms and bathrooms
// in the numeric slots and a single 1 at locationIdx when it is >= 0.
func FeatureVector(width int, q Query, locationIdx int) []float64 {
	vector := make([]float64, width)
	vector[0] = q.Area
	vector[1] = float64(q.Bedrooms)
	vector[2] = float64(q.Bathrooms)
	if locationIdx >= artifacts.NumericColumns && locationIdx < width {
		vector[locationIdx] = 1
	}
	return vector
}

// BuildFeatureVector resolves the location of q against lowered and returns
// the model input, the matched column index (-1 when unmatched) and whether
// the location was found.
func BuildFeatureVector(lowered []string, q Query) ([]float64, int, bool) {
	idx := LocationIndex(lowered, q.Location)
	return FeatureVector(len(lowered), q, idx), idx, idx >= 0
}
