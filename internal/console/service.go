package console

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/tpsctl/internal/entry"
)

// EntryService is the subset of the TPS client the console drives.
// *tpsclient.Client satisfies it.
type EntryService interface {
	ListEntries(ctx context.Context, kind entry.Kind) (*entry.Collection, error)
	GetEntry(ctx context.Context, kind entry.Kind, id string) (*entry.Entry, error)
	CreateEntry(ctx context.Context, kind entry.Kind, e *entry.Entry) (*entry.Entry, error)
	UpdateEntry(ctx context.Context, kind entry.Kind, e *entry.Entry) (*entry.Entry, error)
	ChangeStatus(ctx context.Context, kind entry.Kind, id string, action entry.Action) (*entry.Entry, error)
}

// cacheInvalidator is implemented by services that cache entries.
type cacheInvalidator interface {
	InvalidateCache()
}

// dropCache makes the next load of svc go to the server.
func dropCache(svc EntryService) {
	if c, ok := svc.(cacheInvalidator); ok {
		c.InvalidateCache()
	}
}

// DefaultRequestTimeout bounds each remote call made from the console
const DefaultRequestTimeout = 30 * time.Second

// Messages for async operations
type (
	listLoadedMsg struct {
		kind entry.Kind
		coll *entry.Collection
		err  error
	}

	entryLoadedMsg struct {
		kind entry.Kind
		id   string
		e    *entry.Entry
		err  error
	}

	transitionDoneMsg struct {
		action entry.Action
		e      *entry.Entry
		err    error
	}

	saveDoneMsg struct {
		mode entry.Mode
		e    *entry.Entry
		err  error
	}
)

// Messages for screen transitions
type (
	openEntryMsg struct {
		kind entry.Kind
		id   string
	}

	addEntryMsg struct {
		kind entry.Kind
	}

	goBackMsg struct{}
)

func requestContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return context.WithTimeout(context.Background(), timeout)
}

func loadListCmd(svc EntryService, kind entry.Kind, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		coll, err := svc.ListEntries(ctx, kind)
		return listLoadedMsg{kind: kind, coll: coll, err: err}
	}
}

func loadEntryCmd(svc EntryService, kind entry.Kind, id string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		e, err := svc.GetEntry(ctx, kind, id)
		return entryLoadedMsg{kind: kind, id: id, e: e, err: err}
	}
}

func changeStatusCmd(svc EntryService, kind entry.Kind, id string, action entry.Action, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		e, err := svc.ChangeStatus(ctx, kind, id, action)
		return transitionDoneMsg{action: action, e: e, err: err}
	}
}

func saveEntryCmd(svc EntryService, kind entry.Kind, mode entry.Mode, e *entry.Entry, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()

		var (
			saved *entry.Entry
			err   error
		)
		if mode == entry.ModeAdd {
			saved, err = svc.CreateEntry(ctx, kind, e)
		} else {
			saved, err = svc.UpdateEntry(ctx, kind, e)
		}
		return saveDoneMsg{mode: mode, e: saved, err: err}
	}
}
