package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/unity-tools/go-cupi-client/core"
)

// Environment overrides applied on top of the profile file.
const (
	envHost      = "CUPI_HOST"
	envPort      = "CUPI_PORT"
	envLogin     = "CUPI_LOGIN"
	envPassword  = "CUPI_PASSWORD"
	envSslVerify = "CUPI_SSL_VERIFY"
)

// Profile is one named connection in the profiles file.
type Profile struct {
	Host         string `yaml:"host"`
	Port         uint64 `yaml:"port"`
	Login        string `yaml:"login"`
	Password     string `yaml:"password"`
	SslVerify    bool   `yaml:"ssl_verify"`
	RespectProxy bool   `yaml:"respect_proxy"`
	Timeout      string `yaml:"timeout"`
	LogFile      string `yaml:"log_file"`
	LogLevel     string `yaml:"log_level"`
}

type profilesFile struct {
	Profiles map[string]Profile `yaml:"profiles"`
}

// loadProfile reads the named profile from path (if any) and applies .env and
// CUPI_* environment overrides.
func loadProfile(path, name string) (Profile, error) {
	var profile Profile
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return profile, fmt.Errorf("failed to read profiles file: %w", err)
		}
		var file profilesFile
		if err = yaml.Unmarshal(data, &file); err != nil {
			return profile, fmt.Errorf("failed to parse YAML: %w", err)
		}
		p, ok := file.Profiles[name]
		if !ok {
			return profile, fmt.Errorf("profile %q not found in %s", name, path)
		}
		profile = p
	}

	// A missing .env file is not an error.
	_ = godotenv.Load()
	if err := profile.applyEnv(); err != nil {
		return profile, err
	}
	if profile.Host == "" {
		return profile, fmt.Errorf("no host configured: use -profiles or %s", envHost)
	}
	return profile, nil
}

func (p *Profile) applyEnv() error {
	if v := os.Getenv(envHost); v != "" {
		p.Host = v
	}
	if v := os.Getenv(envLogin); v != "" {
		p.Login = v
	}
	if v := os.Getenv(envPassword); v != "" {
		p.Password = v
	}
	if v := os.Getenv(envPort); v != "" {
		port, err := strconv.ParseUint(v, 10, 16)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", envPort, err)
		}
		p.Port = port
	}
	if v := os.Getenv(envSslVerify); v != "" {
		verify, err := core.ToBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", envSslVerify, err)
		}
		p.SslVerify = verify
	}
	return nil
}

// config converts the profile into a client Config.
func (p Profile) config() (*core.Config, error) {
	cfg := &core.Config{
		Host:         p.Host,
		Port:         p.Port,
		Login:        p.Login,
		Password:     p.Password,
		SslVerify:    p.SslVerify,
		RespectProxy: p.RespectProxy,
	}
	if p.Timeout != "" {
		timeout, err := time.ParseDuration(p.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout %q: %w", p.Timeout, err)
		}
		cfg.Timeout = &timeout
	}
	return cfg, nil
}

// promptPassword reads a password from in without echo. in must be a terminal.
func promptPassword(in *os.File, login string) (string, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("no password configured: use the profile or %s", envPassword)
	}
	fmt.Fprintf(os.Stderr, "password for %s: ", login)
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(secret), nil
}
