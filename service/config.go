package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/viant/easymix/assembly"
	"github.com/viant/easymix/logger"
	"github.com/viant/scy/cred/secret"
	"gopkg.in/yaml.v3"
)

// Version code generation modes.
const (
	ModeRandom     = "random"
	ModeSequential = "sequential"
)

const envPrefix = "EASYMIX_"

// Config defines a mix run.
type Config struct {
	Source        string          `yaml:"source" validate:"required"`
	Output        string          `yaml:"output" validate:"required"`
	Versions      []string        `yaml:"versions" validate:"omitempty,dive,len=3,numeric"`
	Generator     GeneratorConfig `yaml:"generator"`
	Info          assembly.Info   `yaml:"mixInfo"`
	ExamTemplate  string          `yaml:"examTemplate"`
	GuideTemplate string          `yaml:"guideTemplate"`
	Concurrency   int             `yaml:"concurrency" validate:"min=0"`
	Seed          uint64          `yaml:"seed"`
	Keystore      KeystoreConfig  `yaml:"keystore"`
	Log           logger.Config   `yaml:"log"`
}

// GeneratorConfig produces version codes when none are listed.
type GeneratorConfig struct {
	Count int    `yaml:"count" validate:"min=0,max=99"`
	Mode  string `yaml:"mode" validate:"omitempty,oneof=random sequential"`
	Start int    `yaml:"start" validate:"min=0,max=9"`
}

// KeystoreConfig defines the answer archive database.
type KeystoreConfig struct {
	Driver string `yaml:"driver" validate:"omitempty,oneof=sqlite postgres mysql"`
	DSN    string `yaml:"dsn"`
	Secret string `yaml:"secret,omitempty"`
}

// LoadConfig reads a YAML config; a .env file next to it and the process
// environment override it (EASYMIX_* keys).
func LoadConfig(path string) (*Config, error) {
	path, err := expandUserPath(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Init(filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Init applies the environment overlay, expands user paths and secrets and
// sets defaults. A zero seed is replaced by a random one; a missing envFile is ignored.
func (c *Config) Init(envFile string) error {
	if err := c.overlay(envFile); err != nil {
		return err
	}
	var err error
	for _, location := range []*string{&c.Source, &c.Output, &c.ExamTemplate, &c.GuideTemplate, &c.Log.Path} {
		if *location, err = expandUserPath(*location); err != nil {
			return err
		}
	}
	if c.Keystore.DSN != "" {
		if c.Keystore.DSN, err = expandStoreDSN(c.Keystore.DSN, c.Keystore.Driver); err != nil {
			return err
		}
	}
	if c.Keystore.Secret != "" {
		if c.Keystore.DSN, err = ExpandDSNWithSecret(context.Background(), c.Keystore.DSN, c.Keystore.Secret); err != nil {
			return err
		}
	}
	if c.Seed == 0 {
		c.Seed = rand.Uint64()
	}
	if c.Generator.Mode == "" {
		c.Generator.Mode = ModeRandom
	}
	if c.Concurrency == 0 {
		c.Concurrency = runtime.NumCPU()
	}
	return nil
}

// Validate checks field constraints and that some version can be produced.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if len(c.Versions) == 0 && c.Generator.Count == 0 {
		return fmt.Errorf("config: versions or generator.count required")
	}
	return nil
}

// Codes returns the configured version codes, generating them when none are listed.
func (c *Config) Codes() []string {
	if len(c.Versions) > 0 {
		return c.Versions
	}
	return GenerateCodes(c.Generator.Count, c.Generator.Mode, c.Generator.Start, c.Seed)
}

func (c *Config) overlay(envFile string) error {
	values := map[string]string{}
	if envFile != "" {
		fileValues, err := godotenv.Read(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("env %s: %w", envFile, err)
		}
		for k, v := range fileValues {
			values[k] = v
		}
	}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(k, envPrefix) {
			values[k] = v
		}
	}
	for k, v := range values {
		switch strings.TrimPrefix(k, envPrefix) {
		case "SOURCE":
			c.Source = v
		case "OUTPUT":
			c.Output = v
		case "VERSIONS":
			c.Versions = strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ' ' })
		case "EXAM_TEMPLATE":
			c.ExamTemplate = v
		case "GUIDE_TEMPLATE":
			c.GuideTemplate = v
		case "KEYSTORE_DRIVER":
			c.Keystore.Driver = v
		case "KEYSTORE_DSN":
			c.Keystore.DSN = v
		case "KEYSTORE_SECRET":
			c.Keystore.Secret = v
		case "LOG_PATH":
			c.Log.Path = v
		case "SEED":
			seed, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("env %s: %w", k, err)
			}
			c.Seed = seed
		case "CONCURRENCY":
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("env %s: %w", k, err)
			}
			c.Concurrency = n
		}
	}
	return nil
}

func expandUserPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(trimmed, "file:") {
		prefix := "file://localhost"
		rest := strings.TrimPrefix(trimmed, prefix)
		if rest == trimmed {
			prefix = "file://"
			rest = strings.TrimPrefix(trimmed, prefix)
		}
		if rest == trimmed {
			prefix = "file:"
			rest = strings.TrimPrefix(trimmed, prefix)
		}
		rest = strings.TrimLeft(rest, "/")
		if !strings.HasPrefix(rest, "~") {
			return path, nil
		}
		abs := filepath.ToSlash(filepath.Join(home, strings.TrimPrefix(rest, "~")))
		return prefix + "/" + strings.TrimLeft(abs, "/"), nil
	}
	if trimmed[0] != '~' {
		return path, nil
	}
	if trimmed == "~" {
		return home, nil
	}
	if !strings.HasPrefix(trimmed, "~/") {
		return "", fmt.Errorf("config: unsupported ~user path: %s", path)
	}
	return filepath.Join(home, trimmed[2:]), nil
}

func expandStoreDSN(dsn, driver string) (string, error) {
	if dsn == "" {
		return dsn, nil
	}
	// user paths only make sense for sqlite files
	if driver == "sqlite" || dsn[0] == '~' || strings.HasPrefix(dsn, "file:") {
		return expandUserPath(dsn)
	}
	return dsn, nil
}

// ExpandDSNWithSecret loads a secret and expands its placeholders in the DSN.
func ExpandDSNWithSecret(ctx context.Context, dsn, secretRef string) (string, error) {
	secretRef = strings.TrimSpace(secretRef)
	if secretRef == "" {
		return dsn, nil
	}
	if strings.TrimSpace(dsn) == "" {
		return "", fmt.Errorf("secret %q provided but dsn is empty", secretRef)
	}
	sec, err := secret.New().Lookup(ctx, secret.Resource(secretRef))
	if err != nil {
		return "", err
	}
	return sec.Expand(dsn), nil
}
