// internal/config/model.go
//
// Typed configuration model for Feedback Desk.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from four layers (highest precedence
// last):
//
//   • built-in Defaults()                        – safe local values,
//   • optional `conf/.env`                       – dotenv values,
//   • optional `conf/global.yaml`                – primary static file,
//   • `FEEDBACK_`-prefixed environment overrides – highest precedence.
//
// Any secret-bearing string that begins with `vault:` is resolved through the
// Vault client after unmarshalling, so the model never keeps Vault URIs once
// Load returns.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.

package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr   string        `koanf:"listen_addr"   validate:"required,hostname_port"`
	ReadTimeout  time.Duration `koanf:"read_timeout"  validate:"gte=0"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"gte=0"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"  validate:"gte=0"`
	ForceHTTPS   bool          `koanf:"force_https"`
}

//
// API section
//

// API locates the external feedback service.  BaseURL is scheme and host
// only; the client appends /api/feedback.  Token, when set, is sent as a
// bearer token and may be a `vault:` reference.
type API struct {
	BaseURL string `koanf:"base_url" validate:"required,url"`
	Token   string `koanf:"token"`
}

//
// UI section
//

// UI tunes the server-rendered front end.
type UI struct {
	NoticeTTL   time.Duration `koanf:"notice_ttl"   validate:"gte=0"`
	MaxSessions int           `koanf:"max_sessions" validate:"gte=1"`
	CSRFKey     string        `koanf:"csrf_key"`
}

//
// Log section
//

// Log selects verbosity and console tee.
type Log struct {
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
	Tee   bool   `koanf:"tee"`
}

//
// Geo section
//

// Geo points at an optional GeoLite2-City database.  Empty disables lookups.
type Geo struct {
	DBPath string `koanf:"db_path"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // FEEDBACK_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads.
type Config struct {
	HTTP  HTTP  `koanf:"http"`
	API   API   `koanf:"api"`
	UI    UI    `koanf:"ui"`
	Log   Log   `koanf:"log"`
	Geo   Geo   `koanf:"geo"`
	Paths Paths `koanf:"-"`
}

// Defaults returns the configuration used when no file or env overrides it.
func Defaults() Config {
	return Config{
		HTTP: HTTP{
			ListenAddr:   ":3000",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		API: API{BaseURL: "http://localhost:8080"},
		UI: UI{
			NoticeTTL:   2 * time.Second,
			MaxSessions: 10_000,
		},
		Log: Log{Level: "info"},
	}
}
