package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/tpsctl/internal/config"
	"github.com/muurk/tpsctl/internal/entry"
	"github.com/muurk/tpsctl/internal/logging"
	"github.com/muurk/tpsctl/internal/tpsclient"
)

// consoleLogFile receives console logs when only a level was given, so log
// lines do not draw over the TUI
const consoleLogFile = "console.log"

// Connection flags (persistent on root). The remaining connection settings
// are read back through viper by flag name.
var configPath string

func addConnectionFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/tpsctl/config.yaml)")
	f.StringP(config.KeyServer, "s", "", "Server profile from the config file")
	f.String(config.KeyURL, "", "TPS server URL, e.g. https://tps.example.com:8443")
	f.StringP(config.KeyUsername, "u", "", "Username for HTTP basic auth")
	f.String(config.KeyPassword, "", "Password for HTTP basic auth (prefer TPSCTL_PASSWORD)")
	f.String(config.KeyCAFile, "", "PEM bundle used to verify the server certificate")
	f.String(config.KeyClientCert, "", "Client certificate for TLS authentication")
	f.String(config.KeyClientKey, "", "Private key for --client-cert")
	f.Bool(config.KeyInsecure, false, "Skip server certificate verification")
	f.Duration(config.KeyTimeout, 0, "Request timeout (default 30s)")
	f.Int(config.KeyPageSize, 0, "Property table rows per page (default 10)")
	f.String(config.KeyLogLevel, "", "Log level (debug, info, warn, error); silent when empty")
	f.String(config.KeyLogFile, "", "Write logs to this file instead of stderr")
}

// session is everything a command needs to talk to one TPS server
type session struct {
	registry *config.Registry
	settings config.Settings
	policy   *entry.ActionPolicy
	client   *tpsclient.Client
}

func loadRegistry() (*config.Registry, error) {
	if configPath != "" {
		return config.LoadRegistryFrom(configPath)
	}
	return config.LoadRegistry()
}

func saveRegistry(reg *config.Registry) error {
	if configPath != "" {
		return reg.SaveTo(configPath)
	}
	return reg.Save()
}

// initLogging resolves the settings far enough to start the logger. Commands
// that do not need a server (mock-server, config) stop here.
func initLogging(cmd *cobra.Command, reg *config.Registry) (config.Settings, error) {
	settings, err := config.LoadSettings(reg, cmd.Flags())
	if err != nil {
		return config.Settings{}, err
	}
	if err := logging.Initialize(settings.LogLevel, settings.LogFile); err != nil {
		return config.Settings{}, err
	}
	return settings, nil
}

// openSession loads the config, starts logging and builds the TPS client.
// With tui set, logs go to a file unless --log-file says otherwise.
func openSession(cmd *cobra.Command, tui bool) (*session, error) {
	reg, err := loadRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	settings, err := config.LoadSettings(reg, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if tui && settings.LogLevel != "" && settings.LogFile == "" {
		settings.LogFile = defaultConsoleLogPath()
	}
	if err := logging.Initialize(settings.LogLevel, settings.LogFile); err != nil {
		return nil, err
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	policy, err := reg.Policy()
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	client, err := tpsclient.NewClientWithOptions(tpsclient.Options{
		BaseURL:    settings.URL,
		Username:   settings.Username,
		Password:   settings.Password,
		CAFile:     settings.CAFile,
		ClientCert: settings.ClientCert,
		ClientKey:  settings.ClientKey,
		Insecure:   settings.Insecure,
		Timeout:    settings.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create TPS client: %w", err)
	}

	logging.Debug("Session opened",
		zap.String("server", settings.Server),
		zap.String("url", settings.URL),
		zap.String("username", settings.Username),
		zap.Duration("timeout", settings.Timeout))

	if settings.Server != "" {
		reg.TouchServer(settings.Server)
		if err := saveRegistry(reg); err != nil {
			logging.Warn("Failed to record profile use", zap.Error(err))
		}
	}

	return &session{
		registry: reg,
		settings: settings,
		policy:   policy,
		client:   client,
	}, nil
}

// serverLabel is shown in headers: the profile name when there is one
func (s *session) serverLabel() string {
	if s.settings.Server != "" {
		return fmt.Sprintf("%s (%s)", s.settings.Server, s.settings.URL)
	}
	return s.settings.URL
}

func defaultConsoleLogPath() string {
	if configPath != "" {
		return filepath.Join(filepath.Dir(configPath), consoleLogFile)
	}
	dir, err := config.GetConfigDir()
	if err != nil {
		return consoleLogFile
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return consoleLogFile
	}
	return filepath.Join(dir, consoleLogFile)
}
