// internal/config/model.go
//
// Typed configuration model.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   - optional `.env`                        – dotenv values,
//   - `conf/global.yaml`                     – primary static file,
//   - `TRIO_`-prefixed environment overrides – highest precedence.
//
// Fields ending in `Secret` hold Vault KV-v2 references of the form
// `mount/path#key`.  `ResolveSecrets` swaps them for plain values after
// load, so credentials never sit in flat files or git history.
//
// Notes
// -----
//   - Struct tags use `koanf:"…"`, not `yaml:"…"`.
//   - The `Paths` block is filled at runtime; YAML must not try to set it.
//   - Durations accept Go syntax ("15s", "1m").
package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr   string        `koanf:"listen_addr"   validate:"required,hostname_port"`
	ForceHTTPS   bool          `koanf:"force_https"`
	CORSOrigin   string        `koanf:"cors_origin"`
	ReadTimeout  time.Duration `koanf:"read_timeout"  validate:"gte=0"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"gte=0"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"  validate:"gte=0"`
}

//
// Database section
//

// Database holds the DSN template and its secret.
//
// The *template* (`DSN`) is kept in YAML so operators can tweak host, port,
// or flags without touching Vault.  The password comes from `Password` or,
// preferably, from the Vault reference in `PasswordSecret`.
type Database struct {
	DSN            string `koanf:"dsn"             validate:"required"`
	Password       string `koanf:"password"`
	PasswordSecret string `koanf:"password_secret" validate:"omitempty,contains=#"`
	MaxOpen        int    `koanf:"max_open"        validate:"gte=0"`
	MaxIdle        int    `koanf:"max_idle"        validate:"gte=0"`
	Migrate        bool   `koanf:"migrate"`
}

//
// Auth section
//

// Auth configures bearer-token verification.  Tokens are HS256 JWTs issued
// by the account service; `sub` is the user id and `role` is "user" or
// "admin".
type Auth struct {
	JWTSecret       string `koanf:"jwt_secret"        validate:"required_without=JWTSecretSecret"`
	JWTSecretSecret string `koanf:"jwt_secret_secret" validate:"omitempty,contains=#"`
	Issuer          string `koanf:"issuer"`
}

//
// Log section
//

// Log controls the zap logger.  Dir is relative to Paths.Root unless
// absolute.
type Log struct {
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
	Dir   string `koanf:"dir"`
}

//
// Broker section
//

// Broker configures the optional AMQP event fan-out.  An empty URL
// disables publishing.
type Broker struct {
	URL        string `koanf:"url"         validate:"omitempty,url"`
	URLSecret  string `koanf:"url_secret"  validate:"omitempty,contains=#"`
	Exchange   string `koanf:"exchange"`
	RoutingKey string `koanf:"routing_key"`
}

// GeoIP points at an optional MaxMind City database.
type GeoIP struct {
	CityDB string `koanf:"city_db"`
}

// Seed toggles development fixtures.
type Seed struct {
	Artists bool `koanf:"artists"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime and never set in YAML or env.
type Paths struct {
	Root string // TRIO_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Database Database `koanf:"database"`
	Auth     Auth     `koanf:"auth"`
	Log      Log      `koanf:"log"`
	Broker   Broker   `koanf:"broker"`
	GeoIP    GeoIP    `koanf:"geoip"`
	Seed     Seed     `koanf:"seed"`
	Paths    Paths    `koanf:"-"`
}

// applyDefaults fills zero values that have a sensible default.
func (c *Config) applyDefaults() {
	if c.HTTP.ReadTimeout == 0 {
		c.HTTP.ReadTimeout = 10 * time.Second
	}
	if c.HTTP.WriteTimeout == 0 {
		c.HTTP.WriteTimeout = 15 * time.Second
	}
	if c.HTTP.IdleTimeout == 0 {
		c.HTTP.IdleTimeout = 60 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Dir == "" {
		c.Log.Dir = "logs"
	}
	if c.Broker.Exchange == "" {
		c.Broker.Exchange = "trio.pins"
	}
	if c.Broker.RoutingKey == "" {
		c.Broker.RoutingKey = "pin"
	}
}
