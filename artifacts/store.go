// Package artifacts loads the feature schema and the trained regressor that
// price estimation depends on.
package artifacts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"estateprice/ml"
)

// NumericColumns is the number of leading numeric columns in the schema:
// area, bedrooms and bathrooms. Every later column is a one-hot location.
const NumericColumns = 3

var (
	ErrArtifactNotFound  = errors.New("artifact not found")
	ErrArtifactMalformed = errors.New("artifact malformed")
	ErrNotLoaded         = errors.New("artifacts not loaded")
)

// ModelLoader reads a regressor of modelType from path.
type ModelLoader func(modelType, path string) (ml.Regressor, error)

// Artifacts is the immutable snapshot produced by a successful load.
type Artifacts struct {
	Columns []string
	// Lowered holds Columns normalized with NormalizeLocation, index aligned.
	Lowered []string
	Model   ml.Regressor
}

// Locations returns the location columns in schema order and casing.
func (a *Artifacts) Locations() []string {
	return a.Columns[NumericColumns:]
}

type schemaFile struct {
	DataColumns []string `json:"data_columns"`
}

// Store owns the schema and model for the lifetime of the process. Load is
// idempotent; a failed load leaves the store empty so the next call retries.
type Store struct {
	columnsPath string
	modelPath   string
	modelType   string
	loadModel   ModelLoader
	logger      *zap.Logger

	mu       sync.Mutex
	snapshot atomic.Pointer[Artifacts]
}

type Option func(*Store)

// WithModelLoader replaces ml.LoadModel, mostly for tests.
func WithModelLoader(loader ModelLoader) Option {
	return func(s *Store) { s.loadModel = loader }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

func NewStore(columnsPath, modelPath, modelType string, opts ...Option) *Store {
	s := &Store{
		columnsPath: columnsPath,
		modelPath:   modelPath,
		modelType:   modelType,
		loadModel:   ml.LoadModel,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewStatic returns an already loaded store holding the given schema and
// model. It applies the same schema validation as Load.
func NewStatic(columns []string, model ml.Regressor) (*Store, error) {
	snapshot, err := newArtifacts(columns, model)
	if err != nil {
		return nil, err
	}
	s := NewStore("", "", "")
	s.snapshot.Store(snapshot)
	return s, nil
}

// Load reads the schema and the model from disk. Calls after a successful
// load return nil without touching the filesystem.
func (s *Store) Load() error {
	if s.snapshot.Load() != nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot.Load() != nil {
		return nil
	}

	s.logger.Info("loading saved artifacts",
		zap.String("columns_path", s.columnsPath),
		zap.String("model_path", s.modelPath),
		zap.String("model_type", s.modelType))

	if err := checkExists("schema", s.columnsPath); err != nil {
		return err
	}
	if err := checkExists("model", s.modelPath); err != nil {
		return err
	}

	columns, err := readSchema(s.columnsPath)
	if err != nil {
		return err
	}

	model, err := s.loadModel(s.modelType, s.modelPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: model %s", ErrArtifactNotFound, s.modelPath)
		}
		return fmt.Errorf("%w: model %s: %v", ErrArtifactMalformed, s.modelPath, err)
	}

	snapshot, err := newArtifacts(columns, model)
	if err != nil {
		return err
	}
	s.snapshot.Store(snapshot)

	s.logger.Info("artifacts loaded",
		zap.Int("columns", len(snapshot.Columns)),
		zap.Int("locations", len(snapshot.Locations())))
	return nil
}

// Artifacts returns the loaded snapshot, loading it first if needed. The
// returned error wraps ErrNotLoaded and the cause of the failed load.
func (s *Store) Artifacts() (*Artifacts, error) {
	if snapshot := s.snapshot.Load(); snapshot != nil {
		return snapshot, nil
	}
	if err := s.Load(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotLoaded, err)
	}
	return s.snapshot.Load(), nil
}

// Locations returns the location names in schema order, loading lazily.
func (s *Store) Locations() ([]string, error) {
	snapshot, err := s.Artifacts()
	if err != nil {
		return nil, err
	}
	return snapshot.Locations(), nil
}

// Loaded reports whether artifacts are in memory, without triggering a load.
func (s *Store) Loaded() bool {
	return s.snapshot.Load() != nil
}

// NormalizeLocation trims surrounding whitespace and lowercases s. It is the
// only normalization applied to lookups; display casing stays untouched.
func NormalizeLocation(s string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(s))
}

func newArtifacts(columns []string, model ml.Regressor) (*Artifacts, error) {
	if len(columns) < NumericColumns+1 {
		return nil, fmt.Errorf("%w: schema has %d columns, need at least %d", ErrArtifactMalformed, len(columns), NumericColumns+1)
	}
	if model == nil {
		return nil, fmt.Errorf("%w: no model", ErrArtifactMalformed)
	}
	n := model.NumFeatures()
	if n > len(columns) {
		return nil, fmt.Errorf("%w: model reads %d features, schema has %d columns", ErrArtifactMalformed, n, len(columns))
	}
	if fw, ok := model.(ml.FixedWidth); ok && fw.ExactWidth() && n != len(columns) {
		return nil, fmt.Errorf("%w: model takes exactly %d features, schema has %d columns", ErrArtifactMalformed, n, len(columns))
	}

	cols := append([]string(nil), columns...)
	lowered := make([]string, len(cols))
	for i, c := range cols {
		lowered[i] = NormalizeLocation(c)
	}
	return &Artifacts{Columns: cols, Lowered: lowered, Model: model}, nil
}

func checkExists(kind, path string) error {
	if path == "" {
		return fmt.Errorf("%w: %s path not configured", ErrArtifactNotFound, kind)
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s file %s", ErrArtifactNotFound, kind, path)
		}
		return fmt.Errorf("stat %s file: %w", kind, err)
	}
	return nil
}

func readSchema(path string) ([]string, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	var schema schemaFile
	if err := json.Unmarshal(payload, &schema); err != nil {
		return nil, fmt.Errorf("%w: schema %s: %v", ErrArtifactMalformed, path, err)
	}
	if schema.DataColumns == nil {
		return nil, fmt.Errorf("%w: schema %s has no data_columns", ErrArtifactMalformed, path)
	}
	return schema.DataColumns, nil
}
