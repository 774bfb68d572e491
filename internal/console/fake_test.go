package console

import (
	"context"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/tpsctl/internal/entry"
	"github.com/muurk/tpsctl/internal/tpsclient"
)

// fakeService is an in-memory EntryService
type fakeService struct {
	mu      sync.Mutex
	entries map[string]*entry.Entry

	statusResult *entry.Entry // returned by ChangeStatus when set
	statusErr    error
	saveErr      error
	listErr      error

	statusCalls   []entry.Action
	saved         []*entry.Entry
	invalidations int
}

func newFakeService(entries ...*entry.Entry) *fakeService {
	f := &fakeService{entries: make(map[string]*entry.Entry)}
	for _, e := range entries {
		f.entries[e.ID] = e.Clone()
	}
	return f
}

func (f *fakeService) ListEntries(_ context.Context, _ entry.Kind) (*entry.Collection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	coll := &entry.Collection{}
	for _, id := range []string{"a", "b", "c", "userKey", "soKey"} {
		if e, ok := f.entries[id]; ok {
			coll.Entries = append(coll.Entries, *e.Clone())
		}
	}
	coll.Total = len(coll.Entries)
	return coll, nil
}

func (f *fakeService) GetEntry(_ context.Context, _ entry.Kind, id string) (*entry.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[id]
	if !ok {
		return nil, &tpsclient.APIError{Type: tpsclient.ErrTypeNotFound, Code: 404, Message: "Entry " + id + " not found"}
	}
	return e.Clone(), nil
}

func (f *fakeService) CreateEntry(_ context.Context, _ entry.Kind, e *entry.Entry) (*entry.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	created := e.Clone()
	created.Status = entry.StatusDisabled
	f.entries[created.ID] = created
	f.saved = append(f.saved, e.Clone())
	return created.Clone(), nil
}

func (f *fakeService) UpdateEntry(_ context.Context, _ entry.Kind, e *entry.Entry) (*entry.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.entries[e.ID] = e.Clone()
	f.saved = append(f.saved, e.Clone())
	return e.Clone(), nil
}

func (f *fakeService) ChangeStatus(_ context.Context, _ entry.Kind, id string, action entry.Action) (*entry.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls = append(f.statusCalls, action)
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	if f.statusResult != nil {
		return f.statusResult.Clone(), nil
	}
	e := f.entries[id].Clone()
	switch action {
	case entry.ActionEnable, entry.ActionApprove:
		e.Status = entry.StatusEnabled
	case entry.ActionSubmit:
		e.Status = entry.StatusPendingApproval
	default:
		e.Status = entry.StatusDisabled
	}
	f.entries[id] = e.Clone()
	return e, nil
}

func (f *fakeService) InvalidateCache() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidations++
}

// collect runs cmd and every command of a batch, returning the produced
// messages. Spinner ticks are returned like any other message.
func collect(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(t, c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// settle runs cmd and feeds the resulting remote-call messages back into the
// page, as the Bubble Tea runtime would
func settle(t *testing.T, p *EntryPage, cmd tea.Cmd) {
	t.Helper()
	for _, msg := range collect(t, cmd) {
		switch msg.(type) {
		case transitionDoneMsg, saveDoneMsg, entryLoadedMsg:
			p.Update(msg)
		}
	}
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
