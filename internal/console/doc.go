// Package console implements the interactive terminal console for TPS
// configuration entries.
//
// Built using the Bubble Tea framework, it follows the Elm architecture with a
// Model-Update-View pattern. Remote calls run as tea.Cmd functions and report
// back through messages, so the page's entry is only ever changed inside
// Update.
//
// # Architecture
//
// The console is organized into three screens:
//   - Kinds: pick profiles, profile mappings, connectors or authenticators
//   - List: the entries of one kind in a bubbles/table
//   - Entry: one entry with its property table and workflow actions
//
// All screens use RenderApplicationContainer for a consistent header, content
// area and context-sensitive footer.
//
// # Entry Page
//
// The entry page applies one render rule whenever its entry or mode changes:
// the property table follows the page mode (add and edit are editable, view is
// read-only) and the action bar shows the controls returned by the
// ActionPolicy for the entry's status.
//
// Workflow actions (enable, disable, submit, cancel, approve, reject) ask
// "Are you sure you want to <action> this entry?" before the status change is
// sent. While the request is in flight the action bar is disabled and further
// triggers are ignored. On success the entry is replaced with the server's
// copy; on failure an error dialog titled "HTTP Error <code>" shows the
// server's message and the entry is left unchanged.
//
// Property edits are staged in the table until Save creates or updates the
// entry on the server. Cancel restores the last server copy.
//
// # Usage Example
//
//	client, _ := tpsclient.NewClientWithOptions(opts)
//	err := console.Run(console.Options{
//	    Service: client,
//	    Policy:  policy,
//	    Server:  opts.BaseURL,
//	})
package console
