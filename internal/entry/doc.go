// Package entry defines the TPS configuration entry model shared by the REST
// client, the stand-in server and the console.
//
// An Entry is a profile, profile mapping, connector or authenticator. It has a
// workflow Status and an ordered list of name/value Properties. The console
// decides which workflow controls to show with an ActionPolicy:
//
//	policy := entry.DefaultPolicy()
//	visible := policy.VisibleActions(e.Status, entry.ModeView)
//	if visible.Has(entry.ActionEnable) {
//	    // show the enable control
//	}
//
// Extra per-status rules can be registered at runtime, which is how the
// submit, cancel, approve and reject controls are made available for servers
// that use approval workflows:
//
//	policy.Register(entry.StatusPendingApproval, entry.ActionApprove, entry.ActionReject)
//
// Entries encode to and decode from the TPS REST JSON format:
//
//	{"id": "userKey", "Status": "Enabled",
//	 "Properties": {"Property": [{"name": "a", "value": "1"}]}}
package entry
