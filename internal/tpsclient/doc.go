// Package tpsclient provides an HTTP client for the configuration endpoints
// of a TPS (Token Processing System) server.
//
// The client covers the four configuration collections under /tps/rest:
// profiles, profile-mappings, connectors and authenticators. Each supports
// listing, reading, creating, updating, deleting and workflow transitions.
//
// # Usage Example
//
//	client, err := tpsclient.NewClientWithOptions(tpsclient.Options{
//	    BaseURL:  "https://tps.example.com:8443",
//	    Username: "tpsadmin",
//	    Password: os.Getenv("TPSCTL_PASSWORD"),
//	    CAFile:   "/etc/pki/ca.pem",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	e, err := client.ChangeStatus(ctx, entry.KindProfiles, "userKey", entry.ActionEnable)
//	if err != nil {
//	    code, msg := tpsclient.Details(err)
//	    log.Fatalf("HTTP Error %d: %s", code, msg)
//	}
//	fmt.Println(e.Status)
//
// # Retries
//
// GET requests are retried on network failures and 5xx responses with
// exponential backoff. Mutating requests are sent once; the caller decides
// whether to try again.
//
// # Caching
//
// Entries fetched with GetEntry are cached for CacheDuration and refreshed by
// every successful mutation. Use RefreshEntry to bypass the cache.
//
// # Error Handling
//
// Every error is an *APIError. Server failures carry the Code and Message of
// the TPS error document, which is what the console shows in its error dialog.
package tpsclient
