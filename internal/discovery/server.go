package discovery

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Server is a TPS server found on the network
type Server struct {
	// Instance is the advertised instance name, e.g. "tps-lab"
	Instance string

	// Hostname is the mDNS hostname, e.g. "pki.local."
	Hostname string

	// IP is the first address in the answer, IPv4 preferred
	IP string

	Port int

	// Scheme is "http" or "https"
	Scheme string

	// Metadata holds the TXT records
	Metadata map[string]string

	// DiscoveredAt is when the answer arrived
	DiscoveredAt time.Time
}

// String returns a human-readable description
func (s *Server) String() string {
	return fmt.Sprintf("TPS server %s at %s", s.Instance, s.URL())
}

// URL returns the base URL for the TPS client
func (s *Server) URL() string {
	return s.Scheme + "://" + net.JoinHostPort(s.IP, strconv.Itoa(s.Port))
}

// ProfileName turns the instance name into a config profile name
func (s *Server) ProfileName() string {
	name := strings.ToLower(strings.TrimSpace(s.Instance))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, name)
	name = strings.Trim(name, "-")
	if name == "" {
		return "discovered"
	}
	return name
}

// GetMetadata returns a TXT value, or "" when absent
func (s *Server) GetMetadata(key string) string {
	if s.Metadata == nil {
		return ""
	}
	return s.Metadata[key]
}
