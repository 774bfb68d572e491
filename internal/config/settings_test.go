package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String(KeyServer, "", "")
	fs.String(KeyURL, "", "")
	fs.String(KeyUsername, "", "")
	fs.Bool(KeyInsecure, false, "")
	fs.Duration(KeyTimeout, 0, "")
	return fs
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"SERVER", "URL", "USERNAME", "PASSWORD", "CA_FILE", "INSECURE", "TIMEOUT", "PAGE_SIZE"} {
		t.Setenv(EnvPrefix+"_"+k, "")
	}
}

func labRegistry() *Registry {
	reg := NewRegistry()
	_ = reg.SetServer("lab", &Server{URL: "https://lab:8443/", Username: "tpsadmin", CAFile: "/ca.pem"})
	_ = reg.SetServer("prod", &Server{URL: "https://prod:8443", Username: "agent"})
	return reg
}

func TestLoadSettings_Defaults(t *testing.T) {
	clearEnv(t)

	s, err := LoadSettings(NewRegistry(), nil)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if s.PageSize != DefaultPageSize {
		t.Errorf("PageSize = %d, want %d", s.PageSize, DefaultPageSize)
	}
	if s.Timeout != DefaultTimeout*time.Second {
		t.Errorf("Timeout = %v", s.Timeout)
	}
	if err := s.Validate(); err == nil {
		t.Error("Validate() should fail without a URL")
	}
}

func TestLoadSettings_DefaultProfile(t *testing.T) {
	clearEnv(t)

	s, err := LoadSettings(labRegistry(), testFlags())
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if s.Server != "lab" || s.URL != "https://lab:8443" || s.Username != "tpsadmin" || s.CAFile != "/ca.pem" {
		t.Errorf("settings = %+v", s)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadSettings_Precedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("TPSCTL_SERVER", "prod")
	t.Setenv("TPSCTL_USERNAME", "envuser")
	t.Setenv("TPSCTL_PASSWORD", "secret")

	fs := testFlags()
	if err := fs.Parse([]string{"--username", "flaguser", "--timeout", "5s"}); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSettings(labRegistry(), fs)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if s.Server != "prod" || s.URL != "https://prod:8443" {
		t.Errorf("profile from env not applied: %+v", s)
	}
	if s.Username != "flaguser" {
		t.Errorf("Username = %q, want flag to win", s.Username)
	}
	if s.Password != "secret" {
		t.Errorf("Password = %q, want value from env", s.Password)
	}
	if s.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", s.Timeout)
	}
}

func TestLoadSettings_EnvOverridesProfile(t *testing.T) {
	clearEnv(t)
	t.Setenv("TPSCTL_CA_FILE", "/other.pem")

	s, err := LoadSettings(labRegistry(), nil)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if s.CAFile != "/other.pem" {
		t.Errorf("CAFile = %q, want env override", s.CAFile)
	}
}

func TestLoadSettings_UnknownProfile(t *testing.T) {
	clearEnv(t)

	fs := testFlags()
	_ = fs.Parse([]string{"--server", "staging"})

	if _, err := LoadSettings(labRegistry(), fs); err == nil {
		t.Error("expected error for unknown profile")
	}
}

func TestLoadSettings_StaleDefaultIgnored(t *testing.T) {
	clearEnv(t)
	reg := NewRegistry()
	reg.Preferences.DefaultServer = "gone"

	fs := testFlags()
	_ = fs.Parse([]string{"--url", "http://localhost:8080"})

	s, err := LoadSettings(reg, fs)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if s.Server != "" || s.URL != "http://localhost:8080" {
		t.Errorf("settings = %+v", s)
	}
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name    string
		s       Settings
		wantErr bool
	}{
		{"ok", Settings{URL: "https://tps:8443"}, false},
		{"no scheme", Settings{URL: "tps:8443"}, true},
		{"cert without key", Settings{URL: "https://tps", ClientCert: "c.pem"}, true},
		{"cert and key", Settings{URL: "https://tps", ClientCert: "c.pem", ClientKey: "k.pem"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.s.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
