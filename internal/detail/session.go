package detail

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/rickgao/voldash/internal/model"
)

// Update is one snapshot of an interactive detail session.
type Update struct {
	Code    string
	Mode    model.ChartKind
	Loading bool
	View    View
	Version uint64
}

// Session tracks the selected code and chart mode of one interactive view.
// Selecting either starts a lookup in the background; a result for a code or
// mode that is no longer selected is dropped.
type Session struct {
	fetcher *Fetcher

	mu      sync.Mutex
	code    string
	mode    model.ChartKind
	loading bool
	view    View
	version uint64
	subs    map[string]chan Update
	closed  bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSession creates a session in intraday mode with no code selected.
func NewSession(f *Fetcher) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		fetcher: f,
		mode:    model.ChartIntraday,
		subs:    make(map[string]chan Update),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// SelectCode switches to code, keeping the current mode.
func (s *Session) SelectCode(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.code = code
	s.startLocked()
}

// SetMode switches the chart mode for the current code.
func (s *Session) SetMode(kind model.ChartKind) error {
	if _, err := model.ParseChartKind(string(kind)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = kind
	s.startLocked()
	return nil
}

// Reload repeats the lookup for the current selection.
func (s *Session) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startLocked()
}

// startLocked publishes the loading state for the current selection and
// starts its lookup. Callers hold s.mu.
func (s *Session) startLocked() {
	if s.closed {
		return
	}
	code, kind := s.code, s.mode
	if code == "" {
		s.loading = false
		s.view = View{Found: false}
		s.commitLocked()
		return
	}
	s.loading = true
	s.commitLocked()

	ctx := s.ctx
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		view, err := s.fetcher.Lookup(ctx, code, kind)
		if err != nil {
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.code != code || s.mode != kind || s.closed {
			return
		}
		s.view = view
		s.loading = false
		s.commitLocked()
	}()
}

// Current returns the latest snapshot.
func (s *Session) Current() Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe returns an id and a channel receiving every update. The channel
// keeps only the newest pending update.
func (s *Session) Subscribe() (string, <-chan Update) {
	id := uuid.NewString()
	ch := make(chan Update, 1)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		close(ch)
		return id, ch
	}
	s.subs[id] = ch
	return id, ch
}

// Unsubscribe closes the subscription.
func (s *Session) Unsubscribe(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch, ok := s.subs[id]; ok {
		close(ch)
		delete(s.subs, id)
	}
}

// Close cancels pending lookups and closes all subscriptions.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.cancel()
	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Session) snapshotLocked() Update {
	return Update{
		Code:    s.code,
		Mode:    s.mode,
		Loading: s.loading,
		View:    s.view,
		Version: s.version,
	}
}

func (s *Session) commitLocked() {
	s.version++
	u := s.snapshotLocked()
	for _, ch := range s.subs {
		select {
		case ch <- u:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- u:
			default:
			}
		}
	}
}
