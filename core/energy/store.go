package energy

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
)

// ErrParamsUnavailable wraps every parameter-load failure.
var ErrParamsUnavailable = errors.New("energy: parameters unavailable")

// Store loads a parameter set once per process. A failed load is cached and
// returned on every later call; re-initialisation is not supported.
type Store struct {
	path string
	env  string

	once        sync.Once
	initialized atomic.Bool
	params      *Params
	err         error
}

// NewStore returns a store reading path. An empty path, or a path that does
// not exist, selects the built-in set.
func NewStore(path string) *Store { return &Store{path: path} }

// NewEnvStore returns a store whose path is read from the environment
// variable key when Init first runs, not when the store is built.
func NewEnvStore(key string) *Store { return &Store{env: key} }

// EnvParams names the variable consulted by Default.
const EnvParams = "CPARTY_PARAMS"

// Default is the process-wide store used by the top-level API.
var Default = NewEnvStore(EnvParams)

// Path is the parameter file. For an environment-backed store that has not
// been initialised it is the variable's current value.
func (s *Store) Path() string {
	if s.env != "" && !s.IsInitialized() {
		return os.Getenv(s.env)
	}
	return s.path
}

// Init performs the load if it has not happened yet and reports its outcome.
func (s *Store) Init() error {
	s.once.Do(func() {
		if s.env != "" {
			s.path = os.Getenv(s.env)
		}
		s.params, s.err = s.load()
		s.initialized.Store(true)
		if s.err != nil {
			slog.Debug("energy parameters unavailable", slog.String("path", s.path), slog.Any("err", s.err))
		}
	})
	return s.err
}

// IsInitialized reports whether Init has run, successfully or not.
func (s *Store) IsInitialized() bool { return s.initialized.Load() }

// Get returns the loaded parameters, initialising on first use.
func (s *Store) Get() (*Params, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}
	return s.params, nil
}

func (s *Store) load() (*Params, error) {
	if s.path == "" {
		p, err := Builtin()
		if err != nil {
			return nil, fmt.Errorf("%w: builtin: %v", ErrParamsUnavailable, err)
		}
		return p, nil
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("parameter file not found; using built-in set", slog.String("path", s.path))
		p, berr := Builtin()
		if berr != nil {
			return nil, fmt.Errorf("%w: builtin: %v", ErrParamsUnavailable, berr)
		}
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrParamsUnavailable, s.path, err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParamsUnavailable, s.path, err)
	}
	return p, nil
}
