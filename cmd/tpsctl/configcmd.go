package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/tpsctl/internal/config"
	"github.com/muurk/tpsctl/internal/ui"
)

// Flags for 'config add'
var profileDefault bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage server profiles",
	Long: `Manage the named TPS server profiles stored in the config file.

Profiles hold the server URL, username and TLS settings. Passwords are never
stored; supply them with TPSCTL_PASSWORD or --password.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Write a config file with a "local" profile pointing at
http://localhost:8080 (the default mock-server address) and approval
controls enabled for Pending_Approval entries.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List server profiles",
	Args:    cobra.NoArgs,
	RunE:    runConfigList,
}

var configAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add or replace a server profile",
	Example: `  # Add a profile and make it the default
  tpsctl config add prod --url https://tps.example.com:8443 --username admin --default

  # Authenticate with a client certificate
  tpsctl config add lab --url https://tps.lab:8443 --client-cert admin.pem --client-key admin.key`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigAdd,
}

var configRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove a server profile",
	Args:    cobra.ExactArgs(1),
	RunE:    runConfigRemove,
}

var configUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Make a profile the default",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigUse,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configAddCmd)
	configCmd.AddCommand(configRemoveCmd)
	configCmd.AddCommand(configUseCmd)

	configAddCmd.Flags().BoolVar(&profileDefault, "default", false, "Make this the default profile")
}

// profileFromFlags builds a profile from the connection flags (--url,
// --username, --ca-file, ...) given to 'config add'
func profileFromFlags(cmd *cobra.Command) (*config.Server, error) {
	flags := cmd.Flags()
	str := func(name string) string {
		v, _ := flags.GetString(name)
		return v
	}
	insecure, _ := flags.GetBool(config.KeyInsecure)

	s := &config.Server{
		URL:        strings.TrimRight(str(config.KeyURL), "/"),
		Username:   str(config.KeyUsername),
		CAFile:     str(config.KeyCAFile),
		ClientCert: str(config.KeyClientCert),
		ClientKey:  str(config.KeyClientKey),
		Insecure:   insecure,
	}

	if s.URL == "" {
		return nil, fmt.Errorf("--url is required")
	}
	if !strings.HasPrefix(s.URL, "http://") && !strings.HasPrefix(s.URL, "https://") {
		return nil, fmt.Errorf("server URL must start with http:// or https://: %s", s.URL)
	}
	if (s.ClientCert == "") != (s.ClientKey == "") {
		return nil, fmt.Errorf("--client-cert and --client-key must be given together")
	}
	if str(config.KeyPassword) != "" {
		return nil, fmt.Errorf("passwords are not stored in profiles; use TPSCTL_PASSWORD or --password when connecting")
	}
	return s, nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	path := configPath
	if path == "" {
		var err error
		if path, err = config.GetConfigPath(); err != nil {
			return err
		}
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	reg, err := config.DefaultRegistry()
	if err != nil {
		return err
	}
	if err := saveRegistry(reg); err != nil {
		return err
	}

	printer := ui.NewPrinter(cmd.OutOrStdout())
	printer.PrintSuccess("Config file created", map[string]string{
		"File":    path,
		"Profile": "local (http://localhost:8080)",
		"Next":    "tpsctl mock-server, then tpsctl",
	})
	return nil
}

func runConfigList(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	reg, err := loadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	printer := ui.NewPrinter(cmd.OutOrStdout())
	names := reg.ServerNames()
	if len(names) == 0 {
		printer.Println("No server profiles. Add one with 'tpsctl config add <name> --url <url>'.")
		return nil
	}

	def := ""
	if reg.Preferences != nil {
		def = reg.Preferences.DefaultServer
	}

	for _, name := range names {
		s := reg.GetServer(name)
		marker := "  "
		if name == def {
			marker = "* "
		}
		line := fmt.Sprintf("%s%-16s %s", marker, name, s.URL)
		if s.Username != "" {
			line += "  user=" + s.Username
		}
		if s.ClientCert != "" {
			line += "  cert=" + s.ClientCert
		}
		if s.Insecure {
			line += "  insecure"
		}
		if !s.LastUsed.IsZero() {
			line += "  last used " + s.LastUsed.Format("2006-01-02 15:04")
		}
		printer.Println(line)
	}
	return nil
}

func runConfigAdd(cmd *cobra.Command, args []string) error {
	profile, err := profileFromFlags(cmd)
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	reg, err := loadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	name := args[0]
	replaced := reg.GetServer(name) != nil
	if err := reg.SetServer(name, profile); err != nil {
		return err
	}
	if profileDefault {
		reg.Preferences.DefaultServer = name
	}
	if err := saveRegistry(reg); err != nil {
		return err
	}

	title := "Profile added"
	if replaced {
		title = "Profile replaced"
	}
	ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess(title, map[string]string{
		"Name":    name,
		"URL":     profile.URL,
		"Default": fmt.Sprint(reg.Preferences.DefaultServer == name),
	})
	return nil
}

func runConfigRemove(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	reg, err := loadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if !reg.RemoveServer(args[0]) {
		return fmt.Errorf("unknown server profile %q", args[0])
	}
	if err := saveRegistry(reg); err != nil {
		return err
	}

	ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Profile removed", map[string]string{"Name": args[0]})
	return nil
}

func runConfigUse(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	reg, err := loadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if reg.GetServer(args[0]) == nil {
		return fmt.Errorf("unknown server profile %q (known: %s)", args[0], strings.Join(reg.ServerNames(), ", "))
	}
	reg.Preferences.DefaultServer = args[0]
	if err := saveRegistry(reg); err != nil {
		return err
	}

	ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Default profile set", map[string]string{"Name": args[0]})
	return nil
}
