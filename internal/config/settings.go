package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. TPSCTL_URL
const EnvPrefix = "TPSCTL"

// Setting keys. Flags bound through LoadSettings use the same names.
const (
	KeyServer     = "server"
	KeyURL        = "url"
	KeyUsername   = "username"
	KeyPassword   = "password"
	KeyCAFile     = "ca-file"
	KeyClientCert = "client-cert"
	KeyClientKey  = "client-key"
	KeyInsecure   = "insecure"
	KeyTimeout    = "timeout"
	KeyPageSize   = "page-size"
	KeyLogLevel   = "log-level"
	KeyLogFile    = "log-file"
)

// Settings are the effective connection and display options for one run.
type Settings struct {
	Server     string // profile name the settings came from, if any
	URL        string
	Username   string
	Password   string
	CAFile     string
	ClientCert string
	ClientKey  string
	Insecure   bool
	Timeout    time.Duration
	PageSize   int
	LogLevel   string
	LogFile    string
}

// LoadSettings resolves settings from, lowest precedence first: built-in
// defaults, the selected registry profile, TPSCTL_* environment variables and
// flags the user actually set. flags may be nil.
func LoadSettings(reg *Registry, flags *pflag.FlagSet) (Settings, error) {
	if reg == nil {
		reg = NewRegistry()
	}
	prefs := reg.Preferences
	if prefs == nil {
		prefs = defaultPreferences()
	}

	v := viper.New()
	v.SetDefault(KeyServer, prefs.DefaultServer)
	v.SetDefault(KeyTimeout, time.Duration(prefs.Timeout)*time.Second)
	v.SetDefault(KeyPageSize, prefs.PageSize)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Settings{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	name := v.GetString(KeyServer)
	if name != "" {
		profile := reg.GetServer(name)
		switch {
		case profile != nil:
			if err := v.MergeConfigMap(profileMap(profile)); err != nil {
				return Settings{}, fmt.Errorf("merge profile %q: %w", name, err)
			}
		case name == prefs.DefaultServer:
			// stale default, fall through to env and flags
			name = ""
		default:
			return Settings{}, fmt.Errorf("unknown server profile %q (known: %s)", name, strings.Join(reg.ServerNames(), ", "))
		}
	}

	s := Settings{
		Server:     name,
		URL:        strings.TrimRight(v.GetString(KeyURL), "/"),
		Username:   v.GetString(KeyUsername),
		Password:   v.GetString(KeyPassword),
		CAFile:     v.GetString(KeyCAFile),
		ClientCert: v.GetString(KeyClientCert),
		ClientKey:  v.GetString(KeyClientKey),
		Insecure:   v.GetBool(KeyInsecure),
		Timeout:    v.GetDuration(KeyTimeout),
		PageSize:   v.GetInt(KeyPageSize),
		LogLevel:   v.GetString(KeyLogLevel),
		LogFile:    v.GetString(KeyLogFile),
	}
	if s.PageSize <= 0 {
		s.PageSize = DefaultPageSize
	}
	if s.Timeout <= 0 {
		s.Timeout = DefaultTimeout * time.Second
	}
	return s, nil
}

// Validate checks the settings are enough to reach a server.
func (s Settings) Validate() error {
	if s.URL == "" {
		return fmt.Errorf("no TPS server configured: pass --url, set %s_URL or add a profile with 'tpsctl config add'", EnvPrefix)
	}
	if !strings.HasPrefix(s.URL, "http://") && !strings.HasPrefix(s.URL, "https://") {
		return fmt.Errorf("server URL must start with http:// or https://: %s", s.URL)
	}
	if (s.ClientCert == "") != (s.ClientKey == "") {
		return fmt.Errorf("--client-cert and --client-key must be given together")
	}
	return nil
}

func profileMap(p *Server) map[string]any {
	m := map[string]any{KeyURL: p.URL}
	if p.Username != "" {
		m[KeyUsername] = p.Username
	}
	if p.CAFile != "" {
		m[KeyCAFile] = p.CAFile
	}
	if p.ClientCert != "" {
		m[KeyClientCert] = p.ClientCert
	}
	if p.ClientKey != "" {
		m[KeyClientKey] = p.ClientKey
	}
	if p.Insecure {
		m[KeyInsecure] = true
	}
	return m
}
