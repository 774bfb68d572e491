package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/tpsctl/internal/entry"
	"github.com/muurk/tpsctl/internal/property"
	"github.com/muurk/tpsctl/internal/tpsclient"
)

func disabledEntry() *entry.Entry {
	return &entry.Entry{
		ID:     "userKey",
		Status: entry.StatusDisabled,
		Properties: []entry.Property{
			{Name: "b", Value: "2"},
			{Name: "a", Value: "1"},
		},
	}
}

func newViewPage(svc EntryService, e *entry.Entry) *EntryPage {
	p := NewEntryPage(PageConfig{
		Service: svc,
		Kind:    entry.KindProfiles,
		Mode:    entry.ModeView,
	})
	p.SetEntry(e)
	return p
}

func rowPairs(p *EntryPage) [][2]string {
	var out [][2]string
	for _, r := range p.Table.Rows() {
		out = append(out, [2]string{r.Property().Name, r.Property().Value})
	}
	return out
}

func TestViewModeRendersSortedReadOnlyTable(t *testing.T) {
	p := newViewPage(newFakeService(), disabledEntry())

	assert.Equal(t, [][2]string{{"a", "1"}, {"b", "2"}}, rowPairs(p))
	assert.False(t, p.Table.Editable())
	assert.Equal(t, []entry.Action{entry.ActionEdit, entry.ActionEnable}, p.VisibleActions().List())

	// every row opens a read-only dialog
	for _, r := range p.Table.Rows() {
		d := r.Open()
		assert.True(t, d.IsReadOnly(property.FieldName))
		assert.True(t, d.IsReadOnly(property.FieldValue))
	}

	var labels []string
	for _, b := range p.buttons() {
		labels = append(labels, b.label)
	}
	assert.Equal(t, []string{"Edit", "Enable"}, labels)

	view := p.View()
	assert.Contains(t, view, "Edit")
	assert.Contains(t, view, "Enable")
}

func TestRenderRuleFollowsStatus(t *testing.T) {
	tests := []struct {
		name   string
		status entry.Status
		mode   entry.Mode
		want   []entry.Action
	}{
		{"disabled view", entry.StatusDisabled, entry.ModeView, []entry.Action{entry.ActionEdit, entry.ActionEnable}},
		{"disabled edit", entry.StatusDisabled, entry.ModeEdit, []entry.Action{entry.ActionEnable}},
		{"enabled view", entry.StatusEnabled, entry.ModeView, []entry.Action{entry.ActionDisable}},
		{"pending view", entry.StatusPendingApproval, entry.ModeView, []entry.Action{entry.ActionDisable}},
		{"unknown status", entry.Status("Archived"), entry.ModeView, []entry.Action{entry.ActionDisable}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := disabledEntry()
			e.Status = tt.status
			p := newViewPage(newFakeService(), e)
			p.SetMode(tt.mode)
			assert.Equal(t, tt.want, p.VisibleActions().List())

			// rendering twice gives the same layout
			first := p.Content()
			p.render()
			assert.Equal(t, first, p.Content())
		})
	}
}

func TestRegisteredRuleShowsApprovalActions(t *testing.T) {
	policy := entry.DefaultPolicy()
	policy.Register(entry.StatusPendingApproval, entry.ActionApprove, entry.ActionReject)

	e := disabledEntry()
	e.Status = entry.StatusPendingApproval
	p := NewEntryPage(PageConfig{Service: newFakeService(e), Kind: entry.KindProfiles, Policy: policy})
	p.SetEntry(e)

	assert.Equal(t, []entry.Action{entry.ActionApprove, entry.ActionReject}, p.VisibleActions().List())
	assert.Contains(t, p.Content(), "Approve")
}

func TestEnableFailureShowsErrorDialog(t *testing.T) {
	svc := newFakeService(disabledEntry())
	svc.statusErr = &tpsclient.APIError{Type: tpsclient.ErrTypeHTTP, Code: 500, Message: "boom"}
	p := newViewPage(svc, disabledEntry())

	require.Nil(t, p.Trigger(entry.ActionEnable))
	require.Equal(t, entry.ActionEnable, p.Confirming())
	assert.Contains(t, p.View(), "Are you sure you want to enable this entry?")

	cmd := p.Confirm(true)
	require.NotNil(t, cmd)
	assert.Equal(t, "enable", p.InFlight())

	settle(t, p, cmd)

	title, message, open := p.ErrorDialog()
	require.True(t, open)
	assert.Contains(t, title, "500")
	assert.Equal(t, "HTTP Error 500", title)
	assert.Equal(t, "boom", message)
	assert.Equal(t, entry.StatusDisabled, p.Entry.Status)
	assert.Empty(t, p.InFlight())
	assert.Equal(t, []entry.Action{entry.ActionEnable}, svc.statusCalls)

	// closing the dialog leaves the view as it was
	p.Update(keyPress("enter"))
	_, _, open = p.ErrorDialog()
	assert.False(t, open)
	assert.Equal(t, []entry.Action{entry.ActionEdit, entry.ActionEnable}, p.VisibleActions().List())
}

func TestDisableSuccessReplacesEntry(t *testing.T) {
	current := disabledEntry()
	current.Status = entry.StatusEnabled

	returned := &entry.Entry{
		ID:         "userKey",
		Status:     entry.StatusEnabled,
		Properties: []entry.Property{{Name: "c", Value: "3"}},
	}
	svc := newFakeService(current)
	svc.statusResult = returned

	p := newViewPage(svc, current)
	require.Equal(t, []entry.Action{entry.ActionDisable}, p.VisibleActions().List())

	p.Trigger(entry.ActionDisable)
	settle(t, p, p.Confirm(true))

	assert.Equal(t, returned, p.Entry)
	assert.NotSame(t, returned, p.Entry)
	assert.Equal(t, [][2]string{{"c", "3"}}, rowPairs(p))
	assert.Equal(t, []entry.Action{entry.ActionDisable}, p.VisibleActions().List())
	_, _, open := p.ErrorDialog()
	assert.False(t, open)
	assert.Contains(t, p.Content(), "userKey")
}

func TestDeclinedConfirmationHasNoSideEffect(t *testing.T) {
	svc := newFakeService(disabledEntry())
	p := newViewPage(svc, disabledEntry())

	p.Trigger(entry.ActionEnable)
	cmd := p.Update(keyPress("n"))

	assert.Nil(t, cmd)
	assert.Empty(t, p.Confirming())
	assert.Empty(t, p.InFlight())
	assert.Empty(t, svc.statusCalls)
	assert.Equal(t, entry.StatusDisabled, p.Entry.Status)
}

func TestInFlightGuardIgnoresFurtherTriggers(t *testing.T) {
	svc := newFakeService(disabledEntry())
	p := newViewPage(svc, disabledEntry())

	p.Trigger(entry.ActionEnable)
	cmd := p.Confirm(true)
	require.NotNil(t, cmd)

	// the request has not answered yet
	assert.Nil(t, p.Trigger(entry.ActionEnable))
	assert.Empty(t, p.Confirming())
	assert.Nil(t, p.Trigger(entry.ActionEdit))
	assert.Equal(t, entry.ModeView, p.Mode)
	assert.Nil(t, p.press(0))

	settle(t, p, cmd)
	assert.Empty(t, p.InFlight())
	assert.Equal(t, entry.StatusEnabled, p.Entry.Status)
	assert.Len(t, svc.statusCalls, 1)
}

func TestHiddenActionIsIgnored(t *testing.T) {
	p := newViewPage(newFakeService(), disabledEntry())

	assert.Nil(t, p.Trigger(entry.ActionDisable))
	assert.Nil(t, p.Trigger(entry.ActionApprove))
	assert.Empty(t, p.Confirming())
}

func TestEditSaveReturnsToView(t *testing.T) {
	svc := newFakeService(disabledEntry())
	p := newViewPage(svc, disabledEntry())

	p.Update(keyPress("e"))
	require.Equal(t, entry.ModeEdit, p.Mode)
	assert.True(t, p.Table.Editable())
	assert.NotContains(t, p.VisibleActions().List(), entry.ActionEdit)

	// edit the value of "a" through its dialog
	p.OpenRow()
	require.NotNil(t, p.Dialog())
	require.NoError(t, p.Dialog().SetValue(property.FieldValue, "10"))
	assert.Error(t, p.Dialog().SetValue(property.FieldName, "z"))
	p.Update(keyPress("ctrl+s"))
	assert.Nil(t, p.Dialog())

	// staged, not yet on the page entry
	assert.Equal(t, [][2]string{{"a", "10"}, {"b", "2"}}, rowPairs(p))
	v, _ := p.Entry.Property("a")
	assert.Equal(t, "1", v)

	settle(t, p, p.SaveFields())

	assert.Equal(t, entry.ModeView, p.Mode)
	assert.False(t, p.Table.Editable())
	v, _ = p.Entry.Property("a")
	assert.Equal(t, "10", v)
	require.Len(t, svc.saved, 1)
	assert.Equal(t, "userKey", svc.saved[0].ID)
	assert.Contains(t, p.Content(), "saved")
}

func TestSaveFailureKeepsEditMode(t *testing.T) {
	svc := newFakeService(disabledEntry())
	svc.saveErr = &tpsclient.APIError{Type: tpsclient.ErrTypeConflict, Code: 400, Message: "Unable to update Profile userKey in Enabled status"}
	p := newViewPage(svc, disabledEntry())
	p.Trigger(entry.ActionEdit)

	settle(t, p, p.SaveFields())

	title, message, open := p.ErrorDialog()
	require.True(t, open)
	assert.Equal(t, "HTTP Error 400", title)
	assert.Contains(t, message, "Unable to update")
	assert.Equal(t, entry.ModeEdit, p.Mode)
}

func TestCancelEditRestoresSnapshot(t *testing.T) {
	p := newViewPage(newFakeService(), disabledEntry())
	p.Trigger(entry.ActionEdit)

	p.Table.Remove("a")
	d, err := p.Table.OpenAdd()
	require.NoError(t, err)
	require.NoError(t, d.Set(property.FieldName, "c"))
	require.NoError(t, d.Add())
	assert.Equal(t, [][2]string{{"b", "2"}, {"c", ""}}, rowPairs(p))

	p.Update(keyPress("esc"))

	assert.Equal(t, entry.ModeView, p.Mode)
	assert.Equal(t, [][2]string{{"a", "1"}, {"b", "2"}}, rowPairs(p))
}

func TestAddPropertyRejectsDuplicate(t *testing.T) {
	p := newViewPage(newFakeService(), disabledEntry())
	p.Trigger(entry.ActionEdit)

	p.Update(keyPress("a"))
	require.NotNil(t, p.Dialog())
	require.NoError(t, p.Dialog().SetValue(property.FieldName, "a"))
	p.Dialog().Run(property.ActionAdd)

	require.NotNil(t, p.Dialog())
	assert.True(t, p.Dialog().IsOpen())
	assert.Contains(t, p.Dialog().Err(), "already exists")
	assert.Equal(t, 2, p.Table.Len())
}

func TestAddModeCreatesEntry(t *testing.T) {
	svc := newFakeService()
	p := NewEntryPage(PageConfig{Service: svc, Kind: entry.KindConnectors, Mode: entry.ModeAdd})

	assert.Empty(t, p.VisibleActions())
	assert.True(t, p.Table.Editable())
	assert.Equal(t, 0, p.Table.Len())

	// id is required
	assert.Nil(t, p.SaveFields())
	assert.Contains(t, p.Content(), "Entry ID is required")

	p.SetID("ca2")
	d, err := p.Table.OpenAdd()
	require.NoError(t, err)
	require.NoError(t, d.Set(property.FieldName, "host"))
	require.NoError(t, d.Set(property.FieldValue, "ca.example.com"))
	require.NoError(t, d.Add())

	settle(t, p, p.SaveFields())

	assert.Equal(t, entry.ModeView, p.Mode)
	assert.Equal(t, "ca2", p.Entry.ID)
	assert.Equal(t, entry.StatusDisabled, p.Entry.Status)
	assert.Equal(t, [][2]string{{"host", "ca.example.com"}}, rowPairs(p))
	assert.Equal(t, []entry.Action{entry.ActionEdit, entry.ActionEnable}, p.VisibleActions().List())
}

func TestParentColumnsReadPageFields(t *testing.T) {
	p := NewEntryPage(PageConfig{
		Service: newFakeService(),
		Kind:    entry.KindProfiles,
		Columns: []string{"name", "parent.status"},
	})
	p.SetEntry(disabledEntry())

	rows := p.Table.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"a", "Disabled"}, rows[0].Cells())
	assert.Contains(t, p.Content(), "PARENT.STATUS")
}

func TestLoadFailureReturnsToList(t *testing.T) {
	p := NewEntryPage(PageConfig{Service: newFakeService(), Kind: entry.KindProfiles})

	settle(t, p, p.Load("missing"))

	title, _, open := p.ErrorDialog()
	require.True(t, open)
	assert.Equal(t, "HTTP Error 404", title)

	cmd := p.Update(keyPress("enter"))
	require.NotNil(t, cmd)
	assert.IsType(t, goBackMsg{}, cmd())
}

func TestFilterNarrowsRows(t *testing.T) {
	p := newViewPage(newFakeService(), disabledEntry())

	p.Update(keyPress("/"))
	p.Update(keyPress("b"))
	p.Update(keyPress("enter"))

	assert.Equal(t, [][2]string{{"b", "2"}}, rowPairs(p))
	assert.Contains(t, p.Content(), `filter: "b"`)
}

func TestRefreshDropsCacheAndReloads(t *testing.T) {
	svc := newFakeService(disabledEntry())
	p := newViewPage(svc, disabledEntry())

	// changed behind the page's back
	svc.entries["userKey"].Status = entry.StatusEnabled

	settle(t, p, p.Update(keyPress("r")))

	assert.Equal(t, 1, svc.invalidations)
	assert.Equal(t, entry.StatusEnabled, p.Entry.Status)
	assert.Equal(t, []entry.Action{entry.ActionDisable}, p.VisibleActions().List())
}
