// internal/config/loader.go
//
// Configuration loader and hot-reloader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from four layers (highest
precedence last):

  1. Built-in Defaults().
  2. Optional `.env` file at `<root>/conf/.env`.
  3. Optional `conf/global.yaml`.
  4. Environment variables prefixed `FEEDBACK_`, where `__` maps to “.”
     (e.g., `FEEDBACK_API__BASE_URL → api.base_url`).

After merging, the tree is unmarshalled into strongly-typed structs, any
`vault:` references are resolved, the result is validated, enriched with
the runtime root path, and cached in an `atomic.Pointer` for lock-free
reads.  `Reload()` calls `Load()` again and swaps the pointer only when the
new tree is valid.

Instrumentation
---------------
  • DEBUG spans: root discovery, YAML read, env overlay.
  • ERROR spans: YAML parse, env overlay, unmarshal, secret, validation.
  • INFO  span:  final “config loaded” with key highlights.
  • Logs use the global *sugared* logger (`zap.S()`) so early boot issues
    surface even before the file logger is installed.

Notes
-----
  • `rootDir()` climbs the cwd tree until it finds `conf/global.yaml`;
    this lets `go run ./cmd/web` work from any sub-directory.
  • A missing YAML file is not an error; the service runs on defaults.
*/
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/yanizio/feedback/internal/vault"
)

// EnvPrefix is stripped from overriding environment variables.
const EnvPrefix = "FEEDBACK_"

var current atomic.Pointer[Config]

// SecretResolver turns a `vault:` reference into its value.
type SecretResolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

// NewResolver is called lazily, only when a `vault:` value is present.
var NewResolver = func() (SecretResolver, error) { return vault.New() }

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves FEEDBACK_ROOT or climbs directories until
// conf/global.yaml is found.  Falls back to executable heuristic for
// production layout.
func rootDir() string {
	if r := os.Getenv(EnvPrefix + "ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", "global.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load reads every layer under the discovered root, validates, and caches.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, rootDir())
}

// LoadFrom is Load with an explicit root directory.
func LoadFrom(ctx context.Context, root string) (*Config, error) {
	zap.S().Debugw("config root resolved", "root", root)

	// .env (optional, no error if missing); never overrides the real env.
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	cfg := Defaults()
	k := koanf.New(".")

	yamlPath := filepath.Join(root, "conf", "global.yaml")
	if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
			return nil, fmt.Errorf("load %s: %w", yamlPath, err)
		}
		zap.S().Debugw("config yaml absent, using defaults", "file", yamlPath)
	} else {
		zap.S().Debugw("config yaml loaded", "file", yamlPath)
	}

	// FEEDBACK_API__BASE_URL → api.base_url
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}

	if err := resolveSecrets(ctx, &cfg); err != nil {
		zap.S().Errorw("config secret resolution failed", "err", err)
		return nil, err
	}

	cfg.Paths.Root = root
	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	current.Store(&cfg)
	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"api_base_url", cfg.API.BaseURL,
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ToLower(strings.ReplaceAll(s, "__", "."))
}

/*──────────────────────────── secrets ─────────────────────────────────────*/

// secretFields lists the values that may hold a `vault:` reference.
func secretFields(c *Config) map[string]*string {
	return map[string]*string{
		"api.base_url": &c.API.BaseURL,
		"api.token":    &c.API.Token,
		"ui.csrf_key":  &c.UI.CSRFKey,
	}
}

func resolveSecrets(ctx context.Context, c *Config) error {
	var r SecretResolver
	for key, p := range secretFields(c) {
		if !vault.IsRef(*p) {
			continue
		}
		if r == nil {
			var err error
			if r, err = NewResolver(); err != nil {
				return fmt.Errorf("vault client: %w", err)
			}
		}
		val, err := r.Resolve(ctx, *p)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", key, err)
		}
		*p = val
	}
	return nil
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

// Get returns the last successfully loaded Config, or nil before Load.
func Get() *Config { return current.Load() }

// Reload re-reads the configuration; the cached copy is kept on failure.
func Reload(ctx context.Context) error {
	root := rootDir()
	if c := Get(); c != nil {
		root = c.Paths.Root
	}
	_, err := LoadFrom(ctx, root)
	return err
}
