package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/tpsctl/internal/console"
	"github.com/muurk/tpsctl/internal/entry"
	"github.com/muurk/tpsctl/internal/logging"
	"github.com/muurk/tpsctl/internal/property"
	"github.com/muurk/tpsctl/internal/tpsclient"
	"github.com/muurk/tpsctl/internal/ui"
)

// Command flags
var (
	columns      []string
	filterText   string
	statusFilter string
	assumeYes    bool
)

func init() {
	rootCmd.AddCommand(consoleCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(transitionCmd)
	for _, action := range entry.TransitionActions {
		rootCmd.AddCommand(newActionCmd(action))
	}
	rootCmd.AddCommand(setPropertyCmd)
	rootCmd.AddCommand(removePropertyCmd)

	rootCmd.Flags().StringSliceVar(&columns, "columns", nil, "Property table columns, e.g. name,value,parent.status")
	consoleCmd.Flags().StringSliceVar(&columns, "columns", nil, "Property table columns, e.g. name,value,parent.status")
	showCmd.Flags().StringSliceVar(&columns, "columns", nil, "Columns to print, e.g. name,value,parent.status")
	showCmd.Flags().StringVar(&filterText, "filter", "", "Only print properties whose name or value contains this text")
	listCmd.Flags().StringVar(&statusFilter, "status", "", "Only list entries in this status (Enabled, Disabled, Pending_Approval)")
	transitionCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
	removePropertyCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
}

// kindsHelp lists the accepted kind arguments for usage text
var kindsHelp = `Kinds: profiles, profile-mappings, connectors, authenticators
(the singular form is accepted too).`

// consoleCmd implements the 'console' command, also run by bare 'tpsctl'
var consoleCmd = &cobra.Command{
	Use:   "console [kind [id]]",
	Short: "Open the interactive console",
	Long: `Open the interactive TPS console.

With a kind the console starts on that entry list; with a kind and an id it
opens the entry page directly. Escape walks back towards the kind menu.

` + kindsHelp,
	Example: `  # Start on the kind menu
  tpsctl console

  # Start on the connector list
  tpsctl console connectors

  # Open one profile, showing its status next to every property
  tpsctl console profiles caUserCert --columns name,value,parent.status`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConsole,
}

func runConsole(cmd *cobra.Command, args []string) error {
	var opts console.Options
	if len(args) > 0 {
		kind, err := entry.ParseKind(args[0])
		if err != nil {
			return err
		}
		opts.StartKind = kind
	}
	if len(args) > 1 {
		opts.StartID = args[1]
	}

	cmd.SilenceUsage = true
	if !ui.IsTerminal() {
		return fmt.Errorf("the console needs an interactive terminal; use 'tpsctl list', 'show' or 'transition' in scripts")
	}

	s, err := openSession(cmd, true)
	if err != nil {
		return err
	}
	defer logging.Sync()

	opts.Service = s.client
	opts.Policy = s.policy
	opts.Server = s.serverLabel()
	opts.Timeout = s.settings.Timeout
	opts.PageSize = s.settings.PageSize
	opts.Columns = columns

	return console.Run(opts)
}

// listCmd implements the 'list' command
var listCmd = &cobra.Command{
	Use:   "list <kind>",
	Short: "List the entries of one kind",
	Long: `List the entries of one kind with their status and property count.

` + kindsHelp,
	Example: `  # List all profiles
  tpsctl list profiles

  # List connectors waiting for approval
  tpsctl list connectors --status Pending_Approval`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	kind, err := entry.ParseKind(args[0])
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	s, err := openSession(cmd, false)
	if err != nil {
		return err
	}
	defer logging.Sync()

	printer := ui.NewPrinter(cmd.OutOrStdout())

	coll, err := s.client.ListEntries(cmd.Context(), kind)
	if err != nil {
		printer.PrintAPIError("Failed to list "+strings.ToLower(kind.Title()),
			tpsclient.ErrorTitle(err), err, tpsclient.GetTroubleshootingHints(err))
		return err
	}

	if statusFilter != "" {
		coll = filterByStatus(coll, statusFilter)
	}
	printer.PrintEntryList(kind, coll)
	return nil
}

// filterByStatus keeps the entries whose status matches, ignoring case
func filterByStatus(coll *entry.Collection, status string) *entry.Collection {
	out := &entry.Collection{}
	for _, e := range coll.Entries {
		if strings.EqualFold(e.Status.String(), status) {
			out.Entries = append(out.Entries, e)
		}
	}
	out.Total = len(out.Entries)
	return out
}

// showCmd implements the 'show' command
var showCmd = &cobra.Command{
	Use:   "show <kind> <id>",
	Short: "Print one entry and its properties",
	Long: `Print one entry with its status and a name-sorted property table.

Columns are property fields (name, value) or, with the "parent." prefix,
fields of the entry itself (parent.id, parent.status).

` + kindsHelp,
	Example: `  # Show a profile
  tpsctl show profiles caUserCert

  # Only the properties mentioning "keyGen"
  tpsctl show profiles caUserCert --filter keyGen`,
	Args: cobra.ExactArgs(2),
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	kind, err := entry.ParseKind(args[0])
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	s, err := openSession(cmd, false)
	if err != nil {
		return err
	}
	defer logging.Sync()

	printer := ui.NewPrinter(cmd.OutOrStdout())

	e, err := s.client.GetEntry(cmd.Context(), kind, args[1])
	if err != nil {
		printer.PrintAPIError(fmt.Sprintf("Failed to load %s %s", kind.Noun(), args[1]),
			tpsclient.ErrorTitle(err), err, tpsclient.GetTroubleshootingHints(err))
		return err
	}

	printer.PrintEntry(kind, e, ui.EntryView{Columns: columns, Filter: filterText})
	return nil
}

// transitionCmd implements the 'transition' command
var transitionCmd = &cobra.Command{
	Use:   "transition <kind> <action> <id>...",
	Short: "Run a workflow action on one or more entries",
	Long: `Run a workflow action (submit, cancel, approve, reject, enable, disable)
on one or more entries.

Every entry is attempted even when an earlier one fails; the command exits
non-zero if any of them failed. Each action is also available as its own
command, e.g. 'tpsctl approve profiles caUserCert'.

` + kindsHelp,
	Example: `  # Submit a profile for approval
  tpsctl transition profiles submit caUserCert

  # Approve two profiles without prompting
  tpsctl transition profiles approve caUserCert caServerCert --yes`,
	Args: cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := entry.ParseKind(args[0])
		if err != nil {
			return err
		}
		action, err := entry.ParseAction(args[1])
		if err != nil {
			return err
		}
		return runTransition(cmd, kind, action, args[2:])
	},
}

// newActionCmd builds the shortcut command for one workflow action
func newActionCmd(action entry.Action) *cobra.Command {
	cmd := &cobra.Command{
		Use:   fmt.Sprintf("%s <kind> <id>...", action),
		Short: fmt.Sprintf("%s one or more entries", action.Label()),
		Long: fmt.Sprintf(`%s one or more entries. Shortcut for 'tpsctl transition <kind> %s <id>...'.

%s`, action.Label(), action, kindsHelp),
		Example: fmt.Sprintf("  tpsctl %s profiles caUserCert", action),
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := entry.ParseKind(args[0])
			if err != nil {
				return err
			}
			return runTransition(cmd, kind, action, args[1:])
		},
	}
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func runTransition(cmd *cobra.Command, kind entry.Kind, action entry.Action, ids []string) error {
	cmd.SilenceUsage = true

	s, err := openSession(cmd, false)
	if err != nil {
		return err
	}
	defer logging.Sync()

	if !assumeYes && !ui.ConfirmTransition(cmd.InOrStdin(), cmd.OutOrStdout(), action) {
		return nil
	}

	runner := ui.NewRunner(ui.RunnerConfig{
		Title:   fmt.Sprintf("%s %s", action.Label(), kind.Title()),
		Command: fmt.Sprintf("tpsctl %s %s %s", action, kind, strings.Join(ids, " ")),
		Params: map[string]string{
			"Server":  s.serverLabel(),
			"Entries": fmt.Sprint(len(ids)),
		},
		Items:           ids,
		Output:          cmd.OutOrStdout(),
		Troubleshooting: tpsclient.GetTroubleshootingHints,
		Describe:        tpsclient.GetShortErrorMessage,
	})

	err = runner.Run(cmd.Context(), func(ctx context.Context, id string) (string, error) {
		return transitionEntry(ctx, s.client, kind, action, id)
	})
	if err != nil {
		// the runner has already printed every failure
		cmd.SilenceErrors = true
		return err
	}
	return nil
}

// transitionEntry applies action to one entry and describes the status change
func transitionEntry(ctx context.Context, svc console.EntryService, kind entry.Kind, action entry.Action, id string) (string, error) {
	before, err := svc.GetEntry(ctx, kind, id)
	if err != nil {
		return "", err
	}

	after, err := svc.ChangeStatus(ctx, kind, id, action)
	if err != nil {
		return "", err
	}

	logging.LogTransition(string(kind), id, string(action), before.Status.String(), after.Status.String())
	return fmt.Sprintf("%s → %s", before.Status, after.Status), nil
}

// setPropertyCmd implements the 'set-property' command
var setPropertyCmd = &cobra.Command{
	Use:   "set-property <kind> <id> <name>=<value>...",
	Short: "Add or change properties of an entry",
	Long: `Add or change one or more properties of an entry and save it.

Only entries whose status allows editing (Disabled by default) can be changed;
the server rejects the update otherwise.

` + kindsHelp,
	Example: `  # Change one property
  tpsctl set-property profiles caUserCert auth.instance_id=ldap1

  # Set several at once
  tpsctl set-property connectors tks1 host=tks.example.com port=8443`,
	Args: cobra.MinimumNArgs(3),
	RunE: runSetProperty,
}

func runSetProperty(cmd *cobra.Command, args []string) error {
	kind, err := entry.ParseKind(args[0])
	if err != nil {
		return err
	}
	props, err := parseAssignments(args[2:])
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	s, err := openSession(cmd, false)
	if err != nil {
		return err
	}
	defer logging.Sync()

	return editEntry(cmd, s, kind, args[1], "Properties saved", func(t *property.Table) error {
		return setProperties(t, props)
	})
}

// removePropertyCmd implements the 'remove-property' command
var removePropertyCmd = &cobra.Command{
	Use:   "remove-property <kind> <id> <name>...",
	Short: "Remove properties from an entry",
	Long: `Remove one or more properties from an entry and save it.

` + kindsHelp,
	Example: `  tpsctl remove-property profiles caUserCert debug.enable --yes`,
	Args:    cobra.MinimumNArgs(3),
	RunE:    runRemoveProperty,
}

func runRemoveProperty(cmd *cobra.Command, args []string) error {
	kind, err := entry.ParseKind(args[0])
	if err != nil {
		return err
	}
	names := args[2:]
	cmd.SilenceUsage = true

	s, err := openSession(cmd, false)
	if err != nil {
		return err
	}
	defer logging.Sync()

	if !assumeYes && !ui.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(),
		fmt.Sprintf("Remove %s from %s %s?", strings.Join(names, ", "), kind.Noun(), args[1])) {
		return nil
	}

	return editEntry(cmd, s, kind, args[1], "Properties removed", func(t *property.Table) error {
		return removeProperties(t, names)
	})
}

// editEntry loads an entry, stages the change in an edit-mode property table
// and saves the result
func editEntry(cmd *cobra.Command, s *session, kind entry.Kind, id, done string, change func(*property.Table) error) error {
	printer := ui.NewPrinter(cmd.OutOrStdout())
	ctx := cmd.Context()

	fail := func(title string, err error) error {
		printer.PrintAPIError(title, tpsclient.ErrorTitle(err), err, tpsclient.GetTroubleshootingHints(err))
		return err
	}

	current, err := s.client.GetEntry(ctx, kind, id)
	if err != nil {
		return fail(fmt.Sprintf("Failed to load %s %s", kind.Noun(), id), err)
	}

	updated := current.Clone()
	table := property.NewTable(property.Options{Parent: updated})
	table.SetMode(entry.ModeEdit)
	table.SetEntries(updated.Properties)
	if err := change(table); err != nil {
		return err
	}
	updated.Properties = table.Entries()

	saved, err := s.client.UpdateEntry(ctx, kind, updated)
	if err != nil {
		return fail(fmt.Sprintf("Failed to save %s %s", kind.Noun(), id), err)
	}

	printer.PrintSuccess(done, map[string]string{
		kind.Noun():  saved.ID,
		"Status":     saved.Status.String(),
		"Properties": fmt.Sprint(len(saved.Properties)),
	})
	return nil
}

// parseAssignments parses name=value arguments. Values may contain '='.
func parseAssignments(args []string) ([]entry.Property, error) {
	props := make([]entry.Property, 0, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid property %q: expected name=value", arg)
		}
		props = append(props, entry.Property{Name: name, Value: value})
	}
	return props, nil
}

// setProperties changes existing properties in place and adds the rest
func setProperties(t *property.Table, props []entry.Property) error {
	for _, p := range props {
		if existing := t.Lookup(p.Name); existing != nil {
			existing.Value = p.Value
			continue
		}
		if err := t.Add(p); err != nil {
			return err
		}
	}
	t.Render()
	return nil
}

// removeProperties drops the named properties; every name must exist
func removeProperties(t *property.Table, names []string) error {
	var missing []string
	for _, n := range names {
		if t.Lookup(n) == nil {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("no such property: %s", strings.Join(missing, ", "))
	}
	t.Remove(names...)
	return nil
}
