// Package mockserver implements a stand-in for the TPS REST configuration API.
//
// It serves the profiles, profile-mappings, connectors and authenticators
// collections from memory and enforces the TPS status workflow:
//
//	enable   Disabled         -> Enabled
//	disable  Enabled          -> Disabled
//	submit   Disabled         -> Pending_Approval
//	cancel   Pending_Approval -> Disabled
//	approve  Pending_Approval -> Enabled
//	reject   Pending_Approval -> Disabled
//
// Any other transition fails with 400 and a {"Code","Message"} error body, as
// does an update or delete of an entry that is not Disabled.
//
// # Fault Injection
//
// Store.InjectFault makes a given action fail with a chosen code and message.
// The console's error dialog can be exercised this way:
//
//	store.InjectFault(entry.ActionEnable, mockserver.Fault{Code: 500, Message: "boom"})
//
// # TLS
//
// The server speaks plain HTTP by default. Config.CertPath/KeyPath load a
// certificate pair; Config.GenerateCert creates a throwaway self-signed
// certificate in memory.
package mockserver
