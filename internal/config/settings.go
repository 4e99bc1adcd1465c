package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// ConfigPathEnv names the environment variable that points at a settings file.
const ConfigPathEnv = "PEWPEW_CONFIG"

var (
	ErrInvalidPort     = errors.New("invalid port")
	ErrInvalidLogLevel = errors.New("invalid log level")
	ErrInvalidScale    = errors.New("invalid window scale")
)

// Settings holds deployment options for the frontends.
// Gameplay constants are not configurable.
type Settings struct {
	LogLevel string          `yaml:"log_level"`
	SSH      SSHSettings     `yaml:"ssh"`
	Web      WebSettings     `yaml:"web"`
	Desktop  DesktopSettings `yaml:"desktop"`
}

// SSHSettings configures cmd/ssh.
type SSHSettings struct {
	Host        string `yaml:"host"`
	Port        string `yaml:"port"`
	HostKeyPath string `yaml:"host_key"`
}

// WebSettings configures cmd/web.
type WebSettings struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	// PublicURL is encoded in the join QR code. Empty means derive it from
	// the request's Host header.
	PublicURL string `yaml:"public_url"`
}

// DesktopSettings configures cmd/desktop.
type DesktopSettings struct {
	Scale float64 `yaml:"scale"` // Window size relative to the playfield
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		LogLevel: "info",
		SSH: SSHSettings{
			Host:        "::",
			Port:        "2222",
			HostKeyPath: "/app/keys/host_key",
		},
		Web: WebSettings{
			Host: "0.0.0.0",
			Port: "8080",
		},
		Desktop: DesktopSettings{
			Scale: 1,
		},
	}
}

// LoadFile reads a YAML settings file on top of the defaults.
// Keys missing from the file keep their default value.
func LoadFile(path string) (Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("failed to read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	return s, nil
}

// Load builds the effective settings: defaults, then the file named by
// PEWPEW_CONFIG if set, then environment overrides. The result is validated.
func Load() (Settings, error) {
	s := Default()
	if path := GetEnv(ConfigPathEnv, ""); path != "" {
		var err error
		if s, err = LoadFile(path); err != nil {
			return s, err
		}
	}
	s.ApplyEnv()
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// GetEnv returns the value of the environment variable named by key, or
// fallback if it is not set. A variable set to the empty string counts as
// set.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// ApplyEnv overrides fields from the environment.
func (s *Settings) ApplyEnv() {
	s.LogLevel = GetEnv("LOG_LEVEL", s.LogLevel)
	s.SSH.Host = GetEnv("SSH_HOST", s.SSH.Host)
	s.SSH.Port = GetEnv("SSH_PORT", s.SSH.Port)
	s.SSH.HostKeyPath = GetEnv("SSH_HOST_KEY", s.SSH.HostKeyPath)
	s.Web.Host = GetEnv("WEB_HOST", s.Web.Host)
	s.Web.Port = GetEnv("WEB_PORT", s.Web.Port)
	s.Web.PublicURL = GetEnv("WEB_PUBLIC_URL", s.Web.PublicURL)
}

// Validate checks that every field holds a usable value.
func (s Settings) Validate() error {
	if _, err := log.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, s.LogLevel)
	}
	if err := validatePort(s.SSH.Port); err != nil {
		return fmt.Errorf("ssh: %w", err)
	}
	if err := validatePort(s.Web.Port); err != nil {
		return fmt.Errorf("web: %w", err)
	}
	if s.Desktop.Scale <= 0 || s.Desktop.Scale > 4 {
		return fmt.Errorf("%w: %v (must be in (0, 4])", ErrInvalidScale, s.Desktop.Scale)
	}
	return nil
}

// Level returns the parsed log level, falling back to info.
func (s Settings) Level() log.Level {
	lvl, err := log.ParseLevel(s.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

func validatePort(port string) error {
	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("%w: %q", ErrInvalidPort, port)
	}
	return nil
}
