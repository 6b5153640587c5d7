// internal/config/config.go
// Run configuration: defaults, then a .env file, then CPARTY_* environment
// variables, then command-line flags. Validated once before a run starts.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Environment variables read by ApplyEnv.
const (
	EnvParams  = "CPARTY_PARAMS"
	EnvDangles = "CPARTY_DANGLES"
	EnvThreads = "CPARTY_THREADS"
	EnvDB      = "CPARTY_DB"
)

// Config is everything a CLI run needs besides its inputs.
type Config struct {
	ParamsPath  string
	Dangles     int `validate:"oneof=0 2"`
	Threads     int `validate:"gte=0,lte=4096"`
	PKFree      bool
	PKOnly      bool   `validate:"excluded_with=PKFree"`
	Format      string `validate:"oneof=text tsv json jsonl"`
	Color       string `validate:"oneof=auto always never"`
	LogLevel    string `validate:"oneof=debug info warn error"`
	Slice       string `validate:"oneof=a b c d"`
	DBPath      string
	MetricsFile string
	Quiet       bool
}

// Default is the configuration with nothing overridden. Threads 0 means one
// worker per CPU.
func Default() Config {
	return Config{
		Dangles:  2,
		Format:   "text",
		Color:    "auto",
		LogLevel: "warn",
		Slice:    "d",
	}
}

var validate = validator.New()

// Validate checks field ranges and exclusive options.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, describe(fe))
			}
			return fmt.Errorf("config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %v", fe.Field(), fe.Param(), fe.Value())
	case "excluded_with":
		return fmt.Sprintf("%s cannot be combined with %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s=%s (got %v)", fe.Field(), fe.Tag(), fe.Param(), fe.Value())
	}
}

// LoadDotEnv loads path into the process environment without overriding
// variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides c from the CPARTY_* variables visible through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvParams); ok {
		c.ParamsPath = v
	}
	if v, ok := lookup(EnvDB); ok {
		c.DBPath = v
	}
	if v, ok := lookup(EnvDangles); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDangles, err)
		}
		c.Dangles = n
	}
	if v, ok := lookup(EnvThreads); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvThreads, err)
		}
		c.Threads = n
	}
	return nil
}

// Load builds the pre-flag configuration: defaults, dotenv, environment.
func Load(dotenv string) (Config, error) {
	c := Default()
	if err := LoadDotEnv(dotenv); err != nil {
		return c, err
	}
	if err := c.ApplyEnv(os.LookupEnv); err != nil {
		return c, err
	}
	return c, nil
}
