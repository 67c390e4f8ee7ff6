// Package estimate turns property attributes into a formatted price estimate
// using the loaded schema and regressor.
package estimate

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"estateprice/artifacts"
)

var ErrInvalidInput = errors.New("invalid input")

// Query is one estimate request. Area is in square feet.
type Query struct {
	Location  string
	Area      float64
	Bedrooms  int
	Bathrooms int
}

type Estimate struct {
	Query     Query
	Price     float64
	Formatted string
	// MatchedLocation is the schema spelling of the location, empty when
	// the location is unknown and all location slots stayed zero.
	MatchedLocation string
	LocationFound   bool
	LocationIndex   int
	Features        []float64
	CreatedAt       time.Time
}

// ArtifactSource hands out the loaded schema and model, loading on demand.
type ArtifactSource interface {
	Artifacts() (*artifacts.Artifacts, error)
}

// Recorder persists completed estimates.
type Recorder interface {
	RecordEstimate(ctx context.Context, e *Estimate) error
}

// Observer receives per prediction measurements.
type Observer interface {
	ObservePrediction(locationFound bool, modelLatency time.Duration)
}

type Service struct {
	source    ArtifactSource
	formatter Formatter
	cache     *lru.Cache[string, int]
	recorder  Recorder
	observer  Observer
	logger    *zap.Logger
}

type Option func(*Service)

func WithFormatter(f Formatter) Option {
	return func(s *Service) { s.formatter = f }
}

// WithLocationCache memoizes up to size location lookups. size <= 0 disables it.
func WithLocationCache(size int) Option {
	return func(s *Service) {
		if size <= 0 {
			s.cache = nil
			return
		}
		cache, err := lru.New[string, int](size)
		if err == nil {
			s.cache = cache
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

func WithObserver(o Observer) Option {
	return func(s *Service) { s.observer = o }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func NewService(source ArtifactSource, opts ...Option) *Service {
	s := &Service{
		source:    source,
		formatter: DefaultFormatter(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Locations returns the known location names in schema order.
func (s *Service) Locations() ([]string, error) {
	snapshot, err := s.source.Artifacts()
	if err != nil {
		return nil, err
	}
	return snapshot.Locations(), nil
}

// Predict estimates the price of q. An unknown location is not an error: the
// estimate is computed with every location slot at zero and LocationFound
// set to false.
func (s *Service) Predict(ctx context.Context, q Query) (*Estimate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validate(q); err != nil {
		return nil, err
	}

	snapshot, err := s.source.Artifacts()
	if err != nil {
		return nil, err
	}

	idx := s.locationIndex(snapshot, q.Location)
	features := FeatureVector(len(snapshot.Columns), q, idx)

	start := time.Now()
	price, err := snapshot.Model.Predict(features)
	latency := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("model predict: %w", err)
	}

	e := &Estimate{
		Query:         q,
		Price:         price,
		Formatted:     s.formatter.Format(price),
		LocationFound: idx >= 0,
		LocationIndex: idx,
		Features:      features,
		CreatedAt:     time.Now(),
	}
	if e.LocationFound {
		e.MatchedLocation = snapshot.Columns[idx]
	} else {
		s.logger.Warn("location not in schema, using zero location vector", zap.String("location", q.Location))
	}

	if s.observer != nil {
		s.observer.ObservePrediction(e.LocationFound, latency)
	}
	if s.recorder != nil {
		if err := s.recorder.RecordEstimate(ctx, e); err != nil {
			s.logger.Error("failed to record estimate", zap.Error(err))
		}
	}
	return e, nil
}

func (s *Service) locationIndex(snapshot *artifacts.Artifacts, location string) int {
	if s.cache == nil {
		return LocationIndex(snapshot.Lowered, location)
	}
	key := artifacts.NormalizeLocation(location)
	if idx, ok := s.cache.Get(key); ok {
		return idx
	}
	idx := LocationIndex(snapshot.Lowered, key)
	s.cache.Add(key, idx)
	return idx
}

func validate(q Query) error {
	if strings.TrimSpace(q.Location) == "" {
		return fmt.Errorf("%w: location cannot be empty", ErrInvalidInput)
	}
	if math.IsNaN(q.Area) || math.IsInf(q.Area, 0) {
		return fmt.Errorf("%w: area must be a finite number", ErrInvalidInput)
	}
	return nil
}
