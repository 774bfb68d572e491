package tpsclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/muurk/tpsctl/internal/entry"
)

const mockProfile = `{"id":"userKey","Status":"Disabled","Properties":{"Property":[{"name":"b","value":"2"},{"name":"a","value":"1"}]}}`

const mockEnabledProfile = `{"id":"userKey","Status":"Enabled","Properties":{"Property":[{"name":"b","value":"2"},{"name":"a","value":"1"}]}}`

func newTestClient(url string) *Client {
	c := NewClient(url)
	c.SetRetry(2, time.Millisecond)
	return c
}

func TestNewClient(t *testing.T) {
	client := NewClient("https://tps.example.com:8443/")

	if client.BaseURL != "https://tps.example.com:8443" {
		t.Errorf("BaseURL = %s, want trailing slash trimmed", client.BaseURL)
	}
	if client.HTTPClient == nil {
		t.Fatal("HTTPClient should not be nil")
	}
	if client.HTTPClient.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", client.HTTPClient.Timeout, DefaultTimeout)
	}
	if client.MaxRetries != DefaultMaxRetries {
		t.Errorf("MaxRetries = %d, want %d", client.MaxRetries, DefaultMaxRetries)
	}
}

func TestNewClientWithOptions_RequiresURL(t *testing.T) {
	if _, err := NewClientWithOptions(Options{}); err == nil {
		t.Error("expected error for empty URL")
	}
}

func TestNewClientWithOptions_MismatchedClientCert(t *testing.T) {
	_, err := NewClientWithOptions(Options{BaseURL: "https://tps", ClientCert: "cert.pem"})
	if err == nil {
		t.Error("expected error when client key is missing")
	}
}

func TestSetTimeoutAndAuth(t *testing.T) {
	client := NewClient("http://tps")
	client.SetTimeout(5 * time.Second)
	client.SetAuth("tpsadmin", "secret")

	if client.HTTPClient.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", client.HTTPClient.Timeout)
	}
	if client.Username != "tpsadmin" || client.Password != "secret" {
		t.Errorf("credentials = %s/%s", client.Username, client.Password)
	}
}

func TestListEntries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tps/rest/profiles" {
			t.Errorf("path = %s, want /tps/rest/profiles", r.URL.Path)
		}
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("Accept header = %q", r.Header.Get("Accept"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"total":1,"entries":[` + mockProfile + `]}`))
	}))
	defer server.Close()

	coll, err := newTestClient(server.URL).ListEntries(context.Background(), entry.KindProfiles)
	if err != nil {
		t.Fatalf("ListEntries() error = %v", err)
	}
	if coll.Total != 1 || len(coll.Entries) != 1 {
		t.Fatalf("got total=%d entries=%d, want 1/1", coll.Total, len(coll.Entries))
	}
	if coll.Entries[0].ID != "userKey" {
		t.Errorf("ID = %s, want userKey", coll.Entries[0].ID)
	}
}

func TestListEntries_EmptyCollection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"total":0}`))
	}))
	defer server.Close()

	coll, err := newTestClient(server.URL).ListEntries(context.Background(), entry.KindConnectors)
	if err != nil {
		t.Fatalf("ListEntries() error = %v", err)
	}
	if coll.Entries == nil {
		t.Error("Entries should be an empty slice, not nil")
	}
}

func TestGetEntry_UsesCache(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(mockProfile))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	ctx := context.Background()

	first, err := client.GetEntry(ctx, entry.KindProfiles, "userKey")
	if err != nil {
		t.Fatalf("GetEntry() error = %v", err)
	}
	first.Properties[0].Value = "mutated"

	second, err := client.GetEntry(ctx, entry.KindProfiles, "userKey")
	if err != nil {
		t.Fatalf("GetEntry() error = %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("server hits = %d, want 1", hits.Load())
	}
	if second.Properties[0].Value != "2" {
		t.Error("cached entry was mutated through a returned copy")
	}

	if _, err := client.RefreshEntry(ctx, entry.KindProfiles, "userKey"); err != nil {
		t.Fatalf("RefreshEntry() error = %v", err)
	}
	if hits.Load() != 2 {
		t.Errorf("server hits after refresh = %d, want 2", hits.Load())
	}
}

func TestGetEntry_RetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(mockProfile))
	}))
	defer server.Close()

	e, err := newTestClient(server.URL).GetEntry(context.Background(), entry.KindProfiles, "userKey")
	if err != nil {
		t.Fatalf("GetEntry() error = %v", err)
	}
	if e.ID != "userKey" {
		t.Errorf("ID = %s, want userKey", e.ID)
	}
	if hits.Load() != 3 {
		t.Errorf("server hits = %d, want 3", hits.Load())
	}
}

func TestGetEntry_NotFoundIsNotRetried(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"Code":404,"Message":"Profile missing not found"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetEntry(context.Background(), entry.KindProfiles, "missing")
	if !IsNotFound(err) {
		t.Fatalf("expected not found error, got %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("server hits = %d, want 1", hits.Load())
	}
}

func TestChangeStatus_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/tps/rest/profiles/userKey" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("action"); got != "enable" {
			t.Errorf("action = %q, want enable", got)
		}
		if r.Header.Get(RequestIDHeader) == "" {
			t.Error("request id header missing")
		}
		_, _ = w.Write([]byte(mockEnabledProfile))
	}))
	defer server.Close()

	e, err := newTestClient(server.URL).ChangeStatus(context.Background(), entry.KindProfiles, "userKey", entry.ActionEnable)
	if err != nil {
		t.Fatalf("ChangeStatus() error = %v", err)
	}
	if e.Status != entry.StatusEnabled {
		t.Errorf("Status = %s, want Enabled", e.Status)
	}
}

func TestChangeStatus_FailureCarriesCodeAndMessage(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"Code":500,"Message":"boom"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ChangeStatus(context.Background(), entry.KindProfiles, "userKey", entry.ActionEnable)
	if err == nil {
		t.Fatal("expected error")
	}

	code, msg := Details(err)
	if code != 500 || msg != "boom" {
		t.Errorf("Details() = %d %q, want 500 \"boom\"", code, msg)
	}
	// mutations are never retried
	if hits.Load() != 1 {
		t.Errorf("server hits = %d, want 1", hits.Load())
	}
}

func TestChangeStatus_Conflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"Code":400,"Message":"Unable to enable Profile userKey in Enabled status"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ChangeStatus(context.Background(), entry.KindProfiles, "userKey", entry.ActionEnable)
	if !IsConflict(err) {
		t.Errorf("expected conflict error, got %v", err)
	}
}

func TestChangeStatus_RejectsEdit(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1")
	if _, err := client.ChangeStatus(context.Background(), entry.KindProfiles, "x", entry.ActionEdit); err == nil {
		t.Error("expected error for edit action")
	}
}

func TestChangeStatus_NoContentRefreshes(t *testing.T) {
	var gets atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		gets.Add(1)
		_, _ = w.Write([]byte(mockEnabledProfile))
	}))
	defer server.Close()

	e, err := newTestClient(server.URL).ChangeStatus(context.Background(), entry.KindProfiles, "userKey", entry.ActionEnable)
	if err != nil {
		t.Fatalf("ChangeStatus() error = %v", err)
	}
	if gets.Load() != 1 {
		t.Errorf("follow-up GETs = %d, want 1", gets.Load())
	}
	if e.Status != entry.StatusEnabled {
		t.Errorf("Status = %s, want Enabled", e.Status)
	}
}

func TestUpdateEntry_SendsBodyAndAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "tpsadmin" || pass != "secret" {
			t.Errorf("basic auth = %s/%s/%v", user, pass, ok)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"name":"a","value":"9"`) {
			t.Errorf("body = %s", body)
		}
		_, _ = w.Write(body)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	client.SetAuth("tpsadmin", "secret")

	e := &entry.Entry{ID: "userKey", Status: entry.StatusDisabled, Properties: []entry.Property{{Name: "a", Value: "9"}}}
	updated, err := client.UpdateEntry(context.Background(), entry.KindProfiles, e)
	if err != nil {
		t.Fatalf("UpdateEntry() error = %v", err)
	}
	if v, _ := updated.Property("a"); v != "9" {
		t.Errorf("property a = %q, want 9", v)
	}
}

func TestCreateEntry_PostsToCollection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/tps/rest/connectors" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"ca1","Status":"Disabled","Properties":{"Property":[]}}`))
	}))
	defer server.Close()

	created, err := newTestClient(server.URL).CreateEntry(context.Background(), entry.KindConnectors, &entry.Entry{ID: "ca1"})
	if err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}
	if created.Status != entry.StatusDisabled {
		t.Errorf("Status = %s, want Disabled", created.Status)
	}
}

func TestSend_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>login</html>`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetEntry(context.Background(), entry.KindProfiles, "x")
	if !IsParseError(err) {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestGetWithRetry_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	client.SetRetry(5, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.ListEntries(ctx, entry.KindProfiles)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded in chain, got %v", err)
	}
}

func TestConnectionRefused(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1")
	client.SetRetry(0, time.Millisecond)

	_, err := client.ListEntries(context.Background(), entry.KindProfiles)
	if !IsNetworkError(err) {
		t.Errorf("expected network error, got %v", err)
	}
}
