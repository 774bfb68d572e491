package discovery

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/tpsctl/internal/logging"
)

const (
	// ServiceType is the mDNS service type TPS servers advertise
	ServiceType = "_tps._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is how long Scan listens for answers
	DefaultScanTimeout = 5 * time.Second

	// TXT record keys
	TxtScheme  = "scheme"
	TxtPath    = "path"
	TxtVersion = "version"
)

// Scanner browses for advertised TPS servers
type Scanner struct {
	// Timeout is the maximum time to wait for answers
	Timeout time.Duration
}

// NewScanner creates a scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// Scan collects every server that answers before the timeout or ctx ends.
// Servers are returned in the order they answered, one per instance name.
func (s *Scanner) Scan(ctx context.Context) ([]*Server, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	var (
		mu      sync.Mutex
		servers []*Server
		seen    = make(map[string]bool)
	)
	err := s.browse(ctx, func(srv *Server) bool {
		mu.Lock()
		defer mu.Unlock()
		if !seen[srv.Instance] {
			seen[srv.Instance] = true
			servers = append(servers, srv)
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	mu.Lock()
	defer mu.Unlock()
	return servers, nil
}

// Find waits for the server advertising the given instance name
func (s *Scanner) Find(ctx context.Context, instance string) (*Server, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	found := make(chan *Server, 1)
	err := s.browse(ctx, func(srv *Server) bool {
		if !strings.EqualFold(srv.Instance, instance) {
			return true
		}
		select {
		case found <- srv:
		default:
		}
		cancel()
		return false
	})
	if err != nil {
		return nil, err
	}

	select {
	case srv := <-found:
		return srv, nil
	default:
		return nil, fmt.Errorf("TPS server %q not found within %s", instance, s.timeout())
	}
}

func (s *Scanner) timeout() time.Duration {
	if s.Timeout <= 0 {
		return DefaultScanTimeout
	}
	return s.Timeout
}

// browse feeds parsed servers to fn until ctx ends or fn returns false, and
// only returns once every answer has been handled
func (s *Scanner) browse(ctx context.Context, fn func(*Server) bool) error {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	done := make(chan struct{})
	go func() {
		defer close(done)
		wanted := true
		for e := range entries {
			if !wanted {
				continue
			}
			if srv := parseServiceEntry(e); srv != nil {
				logging.Debug("Discovered TPS server",
					zap.String("instance", srv.Instance),
					zap.String("url", srv.URL()))
				wanted = fn(srv)
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	// the resolver closes entries once it has stopped
	select {
	case <-done:
	case <-time.After(time.Second):
	}
	return nil
}

// parseServiceEntry converts a zeroconf service entry to a Server.
// Returns nil when the entry has no usable address.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Server {
	if entry == nil || entry.Port == 0 {
		return nil
	}

	// Prefer IPv4
	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	metadata := make(map[string]string, len(entry.Text))
	for _, txt := range entry.Text {
		key, value, _ := strings.Cut(txt, "=")
		metadata[key] = value
	}

	scheme := strings.ToLower(metadata[TxtScheme])
	if scheme != "https" {
		scheme = "http"
	}

	instance := entry.Instance
	if instance == "" {
		instance = strings.TrimSuffix(entry.HostName, ".")
	}

	return &Server{
		Instance:     instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         entry.Port,
		Scheme:       scheme,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// Advertisement is a running mDNS registration
type Advertisement struct {
	server *zeroconf.Server
}

// Advertise publishes a TPS server on the local network until Shutdown
func Advertise(instance string, port int, tls bool, version string) (*Advertisement, error) {
	server, err := zeroconf.Register(instance, ServiceType, ServiceDomain, port, TXTRecords(tls, version), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}
	logging.Info("Advertising TPS server",
		zap.String("instance", instance),
		zap.Int("port", port),
		zap.Bool("tls", tls))
	return &Advertisement{server: server}, nil
}

// Shutdown withdraws the advertisement
func (a *Advertisement) Shutdown() {
	a.server.Shutdown()
}

// TXTRecords builds the TXT records published with the service
func TXTRecords(tls bool, version string) []string {
	scheme := "http"
	if tls {
		scheme = "https"
	}
	records := []string{TxtScheme + "=" + scheme, TxtPath + "=/tps/rest"}
	if version != "" {
		records = append(records, TxtVersion+"="+version)
	}
	return records
}
