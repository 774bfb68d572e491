package entry

// ActionSet is the set of controls visible on the entry page
type ActionSet map[Action]bool

// Has reports whether the action is in the set
func (s ActionSet) Has(a Action) bool {
	return s[a]
}

// List returns the actions in display order
func (s ActionSet) List() []Action {
	var out []Action
	for _, a := range AllActions {
		if s[a] {
			out = append(out, a)
		}
	}
	return out
}

// ActionPolicy maps entry statuses to the controls shown for them.
//
// The default policy shows edit and enable for disabled entries and disable for
// everything else. Submit, cancel, approve and reject are hidden unless a rule
// for the status registers them.
type ActionPolicy struct {
	rules    map[Status][]Action
	fallback []Action
}

// DefaultPolicy returns the policy used by the TPS console pages
func DefaultPolicy() *ActionPolicy {
	return &ActionPolicy{
		rules: map[Status][]Action{
			StatusDisabled: {ActionEdit, ActionEnable},
		},
		fallback: []Action{ActionDisable},
	}
}

// Register replaces the visible actions for a status. Registering an empty list
// hides every control for that status.
func (p *ActionPolicy) Register(status Status, actions ...Action) {
	if p.rules == nil {
		p.rules = make(map[Status][]Action)
	}
	p.rules[status] = append([]Action(nil), actions...)
}

// Rules returns a copy of the explicit per-status rules
func (p *ActionPolicy) Rules() map[Status][]Action {
	out := make(map[Status][]Action, len(p.rules))
	for s, actions := range p.rules {
		out[s] = append([]Action(nil), actions...)
	}
	return out
}

// VisibleActions computes the controls for an entry status and page mode. The
// result depends only on its inputs, so it can be re-applied on every render.
func (p *ActionPolicy) VisibleActions(status Status, mode Mode) ActionSet {
	set := make(ActionSet)

	// an entry that does not exist yet has no transitions
	if mode == ModeAdd {
		return set
	}

	actions, ok := p.rules[status]
	if !ok {
		actions = p.fallback
	}
	for _, a := range actions {
		set[a] = true
	}

	// already editing
	if mode == ModeEdit {
		delete(set, ActionEdit)
	}
	return set
}
