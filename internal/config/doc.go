// Package config provides user configuration management for tpsctl.
//
// This package manages a YAML-based configuration file holding named TPS
// server profiles and console preferences, and resolves the effective
// settings of a run from that file, the environment and command-line flags.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/tpsctl/config.yaml or $HOME/.config/tpsctl/config.yaml
//   - macOS: $HOME/.config/tpsctl/config.yaml
//   - Windows: %LOCALAPPDATA%\tpsctl\config.yaml
//
// # Security
//
// IMPORTANT: This package NEVER stores passwords. Supply them through
// TPSCTL_PASSWORD or --password.
//
// # Example File
//
//	version: 1
//	servers:
//	  lab:
//	    url: https://tps.lab.example.com:8443
//	    username: tpsadmin
//	    ca_file: /etc/pki/lab-ca.pem
//	preferences:
//	  default_server: lab
//	  page_size: 10
//	  timeout_seconds: 30
//	  status_actions:
//	    Pending_Approval: [approve, reject]
//
// # Precedence
//
// LoadSettings layers, lowest first: built-in defaults, the selected profile
// (--server, TPSCTL_SERVER or default_server), TPSCTL_* environment variables,
// then flags that were set explicitly.
package config
