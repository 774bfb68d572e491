package entry

import (
	"fmt"
	"strings"
)

// Kind is a TPS configuration collection
type Kind string

const (
	KindProfiles        Kind = "profiles"
	KindProfileMappings Kind = "profile-mappings"
	KindConnectors      Kind = "connectors"
	KindAuthenticators  Kind = "authenticators"
)

// AllKinds lists the collections in menu order
var AllKinds = []Kind{
	KindProfiles,
	KindProfileMappings,
	KindConnectors,
	KindAuthenticators,
}

// Title returns a human-readable collection name
func (k Kind) Title() string {
	switch k {
	case KindProfiles:
		return "Profiles"
	case KindProfileMappings:
		return "Profile Mappings"
	case KindConnectors:
		return "Connectors"
	case KindAuthenticators:
		return "Authenticators"
	default:
		return string(k)
	}
}

// Noun returns the singular name used in messages, e.g. "Profile mapping"
func (k Kind) Noun() string {
	switch k {
	case KindProfiles:
		return "Profile"
	case KindProfileMappings:
		return "Profile mapping"
	case KindConnectors:
		return "Connector"
	case KindAuthenticators:
		return "Authenticator"
	default:
		return "Entry"
	}
}

// ParseKind accepts collection names with or without the trailing "s"
func ParseKind(name string) (Kind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, k := range AllKinds {
		if n == string(k) || n+"s" == string(k) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown entry kind %q (valid: profiles, profile-mappings, connectors, authenticators)", name)
}
