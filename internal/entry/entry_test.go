package entry

import (
	"encoding/json"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryUnmarshal_WrappedPropertyList(t *testing.T) {
	data := `{"id":"userKey","Status":"Disabled","Properties":{"Property":[{"name":"b","value":"2"},{"name":"a","value":"1"}]}}`

	var e Entry
	require.NoError(t, json.Unmarshal([]byte(data), &e))

	assert.Equal(t, "userKey", e.ID)
	assert.Equal(t, StatusDisabled, e.Status)
	// wire order is preserved; sorting is a display concern
	assert.Equal(t, []Property{{Name: "b", Value: "2"}, {Name: "a", Value: "1"}}, e.Properties)
}

func TestEntryUnmarshal_SingleProperty(t *testing.T) {
	data := `{"id":"x","Status":"Enabled","Properties":{"Property":{"name":"only","value":"v"}}}`

	var e Entry
	require.NoError(t, json.Unmarshal([]byte(data), &e))
	assert.Equal(t, []Property{{Name: "only", Value: "v"}}, e.Properties)
}

func TestEntryUnmarshal_FlatMap(t *testing.T) {
	data := `{"id":"x","Status":"Enabled","Properties":{"k1":"v1","k2":"v2"}}`

	var e Entry
	require.NoError(t, json.Unmarshal([]byte(data), &e))

	sort.Slice(e.Properties, func(i, j int) bool { return e.Properties[i].Name < e.Properties[j].Name })
	assert.Equal(t, []Property{{Name: "k1", Value: "v1"}, {Name: "k2", Value: "v2"}}, e.Properties)
}

func TestEntryUnmarshal_NoProperties(t *testing.T) {
	var e Entry
	require.NoError(t, json.Unmarshal([]byte(`{"id":"x","Status":"Enabled"}`), &e))
	assert.NotNil(t, e.Properties)
	assert.Empty(t, e.Properties)
}

func TestEntryUnmarshal_InvalidProperties(t *testing.T) {
	var e Entry
	err := json.Unmarshal([]byte(`{"id":"x","Properties":[1,2]}`), &e)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `entry "x"`)
}

func TestEntryMarshal_WireShape(t *testing.T) {
	e := Entry{ID: "conn1", Status: StatusEnabled, Properties: []Property{{Name: "host", Value: "ca.example.com"}}}

	data, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"conn1","Status":"Enabled","Properties":{"Property":[{"name":"host","value":"ca.example.com"}]}}`, string(data))

	empty, err := json.Marshal(Entry{ID: "new"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"new","Properties":{"Property":[]}}`, string(empty))
}

func TestEntryClone_IsDeep(t *testing.T) {
	orig := &Entry{ID: "a", Status: StatusDisabled, Properties: []Property{{Name: "n", Value: "1"}}}
	c := orig.Clone()
	c.Properties[0].Value = "changed"
	c.Status = StatusEnabled

	assert.Equal(t, "1", orig.Properties[0].Value)
	assert.Equal(t, StatusDisabled, orig.Status)
	assert.Nil(t, (*Entry)(nil).Clone())
}

func TestEntryField(t *testing.T) {
	e := &Entry{ID: "p1", Status: StatusPendingApproval, Properties: []Property{{Name: "a"}, {Name: "b"}}}

	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{"id", "p1", true},
		{"status", "Pending_Approval", true},
		{"properties", "2", true},
		{"bogus", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := e.Field(tt.name)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Connector")
	require.NoError(t, err)
	assert.Equal(t, KindConnectors, k)

	k, err = ParseKind("profile-mappings")
	require.NoError(t, err)
	assert.Equal(t, KindProfileMappings, k)

	_, err = ParseKind("tokens")
	assert.Error(t, err)
}
