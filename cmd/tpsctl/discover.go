package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/tpsctl/internal/config"
	"github.com/muurk/tpsctl/internal/discovery"
	"github.com/muurk/tpsctl/internal/ui"
)

// Discover command flags
var (
	scanTimeout  time.Duration
	saveProfiles bool
)

var discoverCmd = &cobra.Command{
	Use:   "discover [instance]",
	Short: "Find TPS servers on the local network",
	Long: `Browse the local network for TPS servers advertised over mDNS
(service type _tps._tcp), such as 'tpsctl mock-server --advertise'.

With --save every server found is stored as a config profile named after its
instance; existing profiles with the same name are left alone.

Given an instance name, discover stops as soon as that server answers.`,
	Example: `  # Look for servers for 5 seconds
  tpsctl discover

  # Scan longer and save what is found
  tpsctl discover --scan-timeout 15s --save

  # Wait for one server and save it as a profile
  tpsctl discover tps-mock --save`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDiscover,
}

func init() {
	rootCmd.AddCommand(discoverCmd)

	discoverCmd.Flags().DurationVar(&scanTimeout, "scan-timeout", discovery.DefaultScanTimeout, "How long to listen for answers")
	discoverCmd.Flags().BoolVar(&saveProfiles, "save", false, "Save discovered servers as config profiles")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	reg, err := loadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if _, err := initLogging(cmd, reg); err != nil {
		return err
	}

	printer := ui.NewPrinter(cmd.OutOrStdout())
	printer.PrintHeader("TPS Discovery", "tpsctl discover", map[string]string{
		"Service": discovery.ServiceType,
		"Timeout": scanTimeout.String(),
	})

	scanner := discovery.NewScanner()
	scanner.Timeout = scanTimeout
	var servers []*discovery.Server
	if len(args) == 1 {
		var srv *discovery.Server
		srv, err = scanner.Find(cmd.Context(), args[0])
		if srv != nil {
			servers = append(servers, srv)
		}
	} else {
		servers, err = scanner.Scan(cmd.Context())
	}
	if err != nil {
		printer.PrintError("Discovery failed", err, []string{
			"Check that multicast is allowed on this network",
			"Allow UDP port 5353 through the firewall",
		})
		return err
	}

	if len(servers) == 0 {
		printer.PrintWarning("No TPS servers found", map[string]string{
			"Hint": "start one with 'tpsctl mock-server --advertise'",
		})
		return nil
	}

	saved := 0
	for _, srv := range servers {
		line := fmt.Sprintf("  %-20s %s", srv.Instance, srv.URL())
		if v := srv.GetMetadata(discovery.TxtVersion); v != "" {
			line += "  " + v
		}
		if saveProfiles {
			name := srv.ProfileName()
			if reg.GetServer(name) != nil {
				line += "  (profile " + name + " exists)"
			} else if err := reg.SetServer(name, &config.Server{URL: srv.URL()}); err == nil {
				line += "  → profile " + name
				saved++
			}
		}
		printer.Println(line)
	}
	printer.Newline()

	if saved > 0 {
		if err := saveRegistry(reg); err != nil {
			return err
		}
	}

	details := map[string]string{"Found": fmt.Sprint(len(servers))}
	if saveProfiles {
		details["Saved"] = fmt.Sprint(saved)
	}
	printer.PrintSuccess("Discovery complete", details)
	return nil
}
