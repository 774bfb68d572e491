package entry

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Status is the workflow status reported by the server for an entry.
// Only StatusDisabled is distinguished by the default action policy; any other
// value shares the "active" rendering branch.
type Status string

const (
	StatusEnabled         Status = "Enabled"
	StatusDisabled        Status = "Disabled"
	StatusPendingApproval Status = "Pending_Approval"
)

// String returns the status as reported by the server
func (s Status) String() string {
	return string(s)
}

// Mode is the page-level intent, distinct from the entry status.
type Mode string

const (
	ModeAdd  Mode = "add"
	ModeEdit Mode = "edit"
	ModeView Mode = "view"
)

// Editable reports whether properties may be changed in this mode
func (m Mode) Editable() bool {
	return m == ModeAdd || m == ModeEdit
}

// Action names a control on the entry page. All actions except ActionEdit are
// workflow transitions executed on the server.
type Action string

const (
	ActionEdit    Action = "edit"
	ActionSubmit  Action = "submit"
	ActionCancel  Action = "cancel"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionEnable  Action = "enable"
	ActionDisable Action = "disable"
)

// AllActions lists every control in display order
var AllActions = []Action{
	ActionEdit,
	ActionSubmit,
	ActionCancel,
	ActionApprove,
	ActionReject,
	ActionEnable,
	ActionDisable,
}

// TransitionActions lists the actions that change status on the server
var TransitionActions = []Action{
	ActionSubmit,
	ActionCancel,
	ActionApprove,
	ActionReject,
	ActionEnable,
	ActionDisable,
}

// IsTransition reports whether the action is a remote status change
func (a Action) IsTransition() bool {
	for _, t := range TransitionActions {
		if a == t {
			return true
		}
	}
	return false
}

// ConfirmMessage returns the prompt shown before executing the transition
func (a Action) ConfirmMessage() string {
	return fmt.Sprintf("Are you sure you want to %s this entry?", a)
}

// Label returns the capitalised action name for buttons and headers
func (a Action) Label() string {
	if a == "" {
		return ""
	}
	return strings.ToUpper(string(a[:1])) + string(a[1:])
}

// ParseAction parses a transition action name. Unknown names return an error
// that suggests the closest known action when one is near enough.
func ParseAction(name string) (Action, error) {
	normalized := Action(strings.ToLower(strings.TrimSpace(name)))
	if normalized.IsTransition() {
		return normalized, nil
	}

	best := ""
	bestDist := -1
	for _, a := range TransitionActions {
		d := levenshtein.ComputeDistance(string(normalized), string(a))
		if bestDist < 0 || d < bestDist {
			best, bestDist = string(a), d
		}
	}

	if bestDist >= 0 && bestDist <= 2 {
		return "", fmt.Errorf("unknown action %q (did you mean %q?)", name, best)
	}
	return "", fmt.Errorf("unknown action %q (valid: %s)", name, joinActions(TransitionActions))
}

func joinActions(actions []Action) string {
	parts := make([]string, len(actions))
	for i, a := range actions {
		parts[i] = string(a)
	}
	return strings.Join(parts, ", ")
}
