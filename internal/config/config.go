package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"

	"github.com/tovald/linkdrop/internal/logging"
	"github.com/tovald/linkdrop/internal/providers"
)

// Environment fallbacks for cloud credentials, consulted when nothing
// has been persisted.
const (
	EnvClientID     = "LINKDROP_CLIENT_ID"
	EnvClientSecret = "LINKDROP_CLIENT_SECRET"
)

// Credentials authorize uploads to the credentialed cloud store.
// Both values are opaque to the engine.
type Credentials struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
}

// Empty reports whether no usable credentials are present
func (c Credentials) Empty() bool {
	return c.ClientID == "" && c.ClientSecret == ""
}

// Config holds the persisted application settings
type Config struct {
	Provider  string      `mapstructure:"provider"`
	AutoCopy  bool        `mapstructure:"auto_copy"`
	AutoStart bool        `mapstructure:"auto_start"`
	Cloud     CloudConfig `mapstructure:"cloud"`
}

// CloudConfig holds settings for the credentialed cloud store
type CloudConfig struct {
	Credentials `mapstructure:",squash"`
	Bucket      string `mapstructure:"bucket"`
	Region      string `mapstructure:"region"`
	Endpoint    string `mapstructure:"endpoint"`
}

// Store owns the persisted settings record. It is the sole reader and
// writer of credentials and flags; a corrupted or missing file degrades
// to defaults and is never fatal.
type Store struct {
	mu   sync.Mutex
	v    *viper.Viper
	path string
}

// NewStore creates a store backed by the given config file path. An
// empty path places linkdrop.yaml under the user config directory.
func NewStore(path string) *Store {
	if path == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			path = filepath.Join(dir, "linkdrop", "linkdrop.yaml")
		} else {
			path = "linkdrop.yaml"
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Missing or unreadable settings are not an error; the engine
		// runs with defaults and no credentials.
		logging.ConfigLoad(path, map[string]interface{}{"defaults": true, "reason": err.Error()})
		v = viper.New()
		v.SetConfigFile(path)
		setDefaults(v)
	} else {
		logging.ConfigLoad(path, nil)
	}

	return &Store{v: v, path: path}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", providers.AnonymousHost.String())
	v.SetDefault("auto_copy", true)
	v.SetDefault("auto_start", false)
	v.SetDefault("cloud.client_id", "")
	v.SetDefault("cloud.client_secret", "")
	v.SetDefault("cloud.bucket", "linkdrop-uploads")
	v.SetDefault("cloud.region", "us-east-1")
	v.SetDefault("cloud.endpoint", "")
}

// Config returns a snapshot of the effective settings. Unmarshal
// failures degrade to defaults.
func (s *Store) Config() *Config {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := &Config{}
	if err := s.v.Unmarshal(cfg); err != nil {
		logging.ErrorContext("config_unmarshal", err, map[string]interface{}{"path": s.path})
		return &Config{
			Provider: providers.AnonymousHost.String(),
			AutoCopy: true,
		}
	}
	return cfg
}

// Credentials resolves cloud credentials: persisted values first, then
// the process environment. The second return value is false when both
// sources are empty.
func (s *Store) Credentials() (Credentials, bool) {
	s.mu.Lock()
	creds := Credentials{
		ClientID:     s.v.GetString("cloud.client_id"),
		ClientSecret: s.v.GetString("cloud.client_secret"),
	}
	s.mu.Unlock()

	if !creds.Empty() {
		logging.CredentialSource("persisted")
		return creds, true
	}

	creds = Credentials{
		ClientID:     os.Getenv(EnvClientID),
		ClientSecret: os.Getenv(EnvClientSecret),
	}
	if !creds.Empty() {
		logging.CredentialSource("environment")
		return creds, true
	}

	return Credentials{}, false
}

// SaveCredentials overwrites the persisted cloud credentials
func (s *Store) SaveCredentials(clientID, clientSecret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.v.Set("cloud.client_id", clientID)
	s.v.Set("cloud.client_secret", clientSecret)
	return s.write()
}

// AutoCopy reports whether successful uploads copy the URL to the
// clipboard
func (s *Store) AutoCopy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.GetBool("auto_copy")
}

// SetAutoCopy persists the auto-copy flag and returns its new value
func (s *Store) SetAutoCopy(enabled bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.v.Set("auto_copy", enabled)
	if err := s.write(); err != nil {
		return enabled, err
	}
	return enabled, nil
}

// AutoStart reports the persisted launch-at-login flag. The engine
// only stores it; registration itself belongs to the shell around us.
func (s *Store) AutoStart() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.GetBool("auto_start")
}

// SetAutoStart persists the launch-at-login flag
func (s *Store) SetAutoStart(enabled bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.v.Set("auto_start", enabled)
	if err := s.write(); err != nil {
		return enabled, err
	}
	return enabled, nil
}

// Provider returns the selected upload backend, falling back to the
// anonymous host when the persisted name is unrecognized.
func (s *Store) Provider() providers.ID {
	s.mu.Lock()
	name := s.v.GetString("provider")
	s.mu.Unlock()

	id, err := providers.ParseID(name)
	if err != nil {
		logging.ErrorContext("provider_setting", err, map[string]interface{}{"value": name})
		return providers.AnonymousHost
	}
	return id
}

// SetProvider persists the selected upload backend
func (s *Store) SetProvider(id providers.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.v.Set("provider", id.String())
	return s.write()
}

// write persists the current settings, creating the parent directory
// on first save. Callers hold s.mu.
func (s *Store) write() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
