package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/muurk/tpsctl/internal/entry"
)

// Registry represents the entire user configuration file.
// This stores named TPS server profiles and application preferences.
type Registry struct {
	Version     int                `yaml:"version"`
	Servers     map[string]*Server `yaml:"servers,omitempty"` // Keyed by profile name
	Preferences *Preferences       `yaml:"preferences,omitempty"`
}

// Server is a named connection profile for a TPS instance.
type Server struct {
	URL        string    `yaml:"url"`
	Username   string    `yaml:"username,omitempty"`
	CAFile     string    `yaml:"ca_file,omitempty"`
	ClientCert string    `yaml:"client_cert,omitempty"`
	ClientKey  string    `yaml:"client_key,omitempty"`
	Insecure   bool      `yaml:"insecure,omitempty"`
	LastUsed   time.Time `yaml:"last_used,omitempty"`
	// Password is NEVER stored in config file for security reasons
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	DefaultServer string `yaml:"default_server,omitempty"`
	PageSize      int    `yaml:"page_size"`       // Property table rows per page
	Timeout       int    `yaml:"timeout_seconds"` // HTTP request timeout
	// StatusActions overrides the controls shown per entry status, e.g.
	// Pending_Approval: [approve, reject]
	StatusActions map[string][]string `yaml:"status_actions,omitempty"`
}

// Default preference values
const (
	DefaultPageSize = 10
	DefaultTimeout  = 30
)

func defaultPreferences() *Preferences {
	return &Preferences{
		PageSize: DefaultPageSize,
		Timeout:  DefaultTimeout,
	}
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     1,
		Servers:     make(map[string]*Server),
		Preferences: defaultPreferences(),
	}
}

// GetServer retrieves a server profile by name.
// Returns nil if the profile doesn't exist in the registry.
func (r *Registry) GetServer(name string) *Server {
	return r.Servers[name]
}

// SetServer adds or replaces a server profile. The first profile added
// becomes the default.
func (r *Registry) SetServer(name string, s *Server) error {
	if name == "" {
		return fmt.Errorf("profile name is required")
	}
	if s.URL == "" {
		return fmt.Errorf("profile %q: url is required", name)
	}
	if r.Servers == nil {
		r.Servers = make(map[string]*Server)
	}
	r.Servers[name] = s

	if r.Preferences == nil {
		r.Preferences = defaultPreferences()
	}
	if r.Preferences.DefaultServer == "" {
		r.Preferences.DefaultServer = name
	}
	return nil
}

// RemoveServer deletes a profile, clearing the default if it pointed at it.
func (r *Registry) RemoveServer(name string) bool {
	if _, ok := r.Servers[name]; !ok {
		return false
	}
	delete(r.Servers, name)
	if r.Preferences != nil && r.Preferences.DefaultServer == name {
		r.Preferences.DefaultServer = ""
	}
	return true
}

// ServerNames returns profile names in sorted order.
func (r *Registry) ServerNames() []string {
	names := make([]string, 0, len(r.Servers))
	for name := range r.Servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TouchServer records that a profile was just used.
func (r *Registry) TouchServer(name string) {
	if s := r.Servers[name]; s != nil {
		s.LastUsed = time.Now()
	}
}

// Policy builds the entry page action policy from the defaults plus any
// status_actions overrides.
func (r *Registry) Policy() (*entry.ActionPolicy, error) {
	policy := entry.DefaultPolicy()
	if r.Preferences == nil {
		return policy, nil
	}

	for statusName, names := range r.Preferences.StatusActions {
		status, err := parseStatus(statusName)
		if err != nil {
			return nil, err
		}

		actions := make([]entry.Action, 0, len(names))
		for _, name := range names {
			if strings.EqualFold(name, string(entry.ActionEdit)) {
				actions = append(actions, entry.ActionEdit)
				continue
			}
			a, err := entry.ParseAction(name)
			if err != nil {
				return nil, fmt.Errorf("status_actions.%s: %w", statusName, err)
			}
			actions = append(actions, a)
		}
		policy.Register(status, actions...)
	}
	return policy, nil
}

var knownStatuses = []entry.Status{
	entry.StatusEnabled,
	entry.StatusDisabled,
	entry.StatusPendingApproval,
}

func parseStatus(name string) (entry.Status, error) {
	for _, s := range knownStatuses {
		if strings.EqualFold(name, string(s)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown status %q in status_actions", name)
}
