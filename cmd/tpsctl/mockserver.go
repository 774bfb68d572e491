package main

import (
	"fmt"
	"net"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/tpsctl/internal/discovery"
	"github.com/muurk/tpsctl/internal/entry"
	"github.com/muurk/tpsctl/internal/mockserver"
	"github.com/muurk/tpsctl/internal/ui"
	"github.com/muurk/tpsctl/internal/version"
)

// Mock server command and flags
var (
	mockHost   string
	mockPort   int
	mockTLS    bool
	mockCert   string
	mockKey    string
	mockUsers  []string
	mockFaults []string
	mockEmpty  bool
	mockName   string
	mockMDNS   bool
)

var mockServerCmd = &cobra.Command{
	Use:   "mock-server",
	Short: "Run a stand-in TPS server for development",
	Long: `Run an in-memory TPS REST server with the TPS workflow rules.

The server is seeded with sample profiles, mappings, connectors and
authenticators in every status. Nothing is persisted; stop it with Ctrl+C.

With --tls and no --cert/--key a self-signed certificate is generated; pass
--insecure (or the certificate as --ca-file) to the client.

--fail makes every request for one workflow action fail, which is useful for
trying out error handling in the console.`,
	Example: `  # Plain HTTP on port 8080 without authentication
  tpsctl mock-server --port 8080

  # HTTPS with basic auth
  tpsctl mock-server --tls --user tpsadmin:secret

  # Make the server discoverable on the local network
  tpsctl mock-server --advertise --name tps-dev

  # Make every enable fail with HTTP 500
  tpsctl mock-server --fail 'enable=500:backend unavailable'`,
	Args: cobra.NoArgs,
	RunE: runMockServer,
}

func init() {
	rootCmd.AddCommand(mockServerCmd)

	mockServerCmd.Flags().StringVar(&mockHost, "host", "localhost", "Listen address (empty = all interfaces)")
	mockServerCmd.Flags().IntVar(&mockPort, "port", 8080, "Listen port (0 picks a free port)")
	mockServerCmd.Flags().BoolVar(&mockTLS, "tls", false, "Serve HTTPS with a generated self-signed certificate")
	mockServerCmd.Flags().StringVar(&mockCert, "cert", "", "TLS certificate file (implies HTTPS)")
	mockServerCmd.Flags().StringVar(&mockKey, "key", "", "TLS private key file")
	mockServerCmd.Flags().StringArrayVar(&mockUsers, "user", nil, "Require basic auth; repeatable, as user:password")
	mockServerCmd.Flags().StringArrayVar(&mockFaults, "fail", nil, "Fail a workflow action; repeatable, as action=code[:message]")
	mockServerCmd.Flags().BoolVar(&mockEmpty, "empty", false, "Start without the sample entries")
	mockServerCmd.Flags().BoolVar(&mockMDNS, "advertise", false, "Advertise the server over mDNS for 'tpsctl discover'")
	mockServerCmd.Flags().StringVar(&mockName, "name", "tps-mock", "Instance name used with --advertise")
}

func runMockServer(cmd *cobra.Command, args []string) error {
	// Validate: Either both cert and key are provided, or neither
	if (mockCert != "") != (mockKey != "") {
		return fmt.Errorf("both --cert and --key must be provided together, or neither")
	}
	if mockCert != "" {
		if _, err := os.Stat(mockCert); os.IsNotExist(err) {
			return fmt.Errorf("certificate file not found: %s", mockCert)
		}
		if _, err := os.Stat(mockKey); os.IsNotExist(err) {
			return fmt.Errorf("private key file not found: %s", mockKey)
		}
	}

	users, err := parseUsers(mockUsers)
	if err != nil {
		return err
	}
	faults, err := parseFaults(mockFaults)
	if err != nil {
		return err
	}

	cmd.SilenceUsage = true

	reg, err := loadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if _, err := initLogging(cmd, reg); err != nil {
		return err
	}

	config := &mockserver.Config{
		Host:         mockHost,
		Port:         mockPort,
		CertPath:     mockCert,
		KeyPath:      mockKey,
		GenerateCert: mockTLS && mockCert == "",
		Users:        users,
		Seed:         !mockEmpty,
	}

	srv, err := mockserver.New(config)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	for action, f := range faults {
		srv.Store().InjectFault(action, f)
	}

	listener, err := net.Listen("tcp", config.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", config.Addr(), err)
	}

	scheme := "http"
	if config.TLS() {
		scheme = "https"
	}
	url := scheme + "://" + listener.Addr().String()

	params := map[string]string{
		"URL":     url,
		"Auth":    "none",
		"Entries": "sample",
	}
	if len(users) > 0 {
		params["Auth"] = strings.Join(sortedKeys(users), ", ")
	}
	if mockEmpty {
		params["Entries"] = "empty"
	}
	for action, f := range faults {
		params["Fail "+string(action)] = fmt.Sprintf("%d %s", f.Code, f.Message)
	}

	if mockMDNS {
		port := listener.Addr().(*net.TCPAddr).Port
		ad, err := discovery.Advertise(mockName, port, config.TLS(), version.Version)
		if err != nil {
			_ = listener.Close()
			return err
		}
		defer ad.Shutdown()
		params["mDNS"] = fmt.Sprintf("%s (%s)", mockName, discovery.ServiceType)
	}

	printer := ui.NewPrinter(cmd.OutOrStdout())
	printer.PrintHeader("Mock TPS Server", "tpsctl mock-server", params)
	hint := clientHint(users)
	if config.GenerateCert {
		hint += " --insecure"
	}
	printer.Println(fmt.Sprintf("Connect with: tpsctl --url %s%s", url, hint))
	printer.Println("Press Ctrl+C to stop.")

	return srv.Serve(cmd.Context(), listener)
}

// parseUsers parses user:password pairs
func parseUsers(pairs []string) (map[string]string, error) {
	users := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, password, ok := strings.Cut(pair, ":")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --user %q: expected user:password", pair)
		}
		users[name] = password
	}
	return users, nil
}

// parseFaults parses action=code[:message] specs
func parseFaults(specs []string) (map[entry.Action]mockserver.Fault, error) {
	faults := make(map[entry.Action]mockserver.Fault, len(specs))
	for _, spec := range specs {
		name, rest, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --fail %q: expected action=code[:message]", spec)
		}
		action, err := entry.ParseAction(name)
		if err != nil {
			return nil, fmt.Errorf("invalid --fail %q: %w", spec, err)
		}

		codeText, message, _ := strings.Cut(rest, ":")
		code, err := strconv.Atoi(codeText)
		if err != nil || code < 400 || code > 599 {
			return nil, fmt.Errorf("invalid --fail %q: code must be an HTTP error status (400-599)", spec)
		}
		if message == "" {
			message = fmt.Sprintf("Unable to %s entry", action)
		}
		faults[action] = mockserver.Fault{Code: code, Message: message}
	}
	return faults, nil
}

func clientHint(users map[string]string) string {
	names := sortedKeys(users)
	if len(names) == 0 {
		return ""
	}
	return fmt.Sprintf(" --username %s --password %s", names[0], users[names[0]])
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
