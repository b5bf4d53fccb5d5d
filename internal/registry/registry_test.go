package registry

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/rickgao/voldash/internal/model"
	"github.com/rickgao/voldash/internal/source"
)

type stubSource struct {
	mu      sync.Mutex
	records []model.InstrumentRecord
	err     error
}

func (s *stubSource) RecordsForTag(ctx context.Context, tag model.Tag) ([]model.InstrumentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records, s.err
}

func (s *stubSource) set(records []model.InstrumentRecord) {
	s.mu.Lock()
	s.records = records
	s.err = nil
	s.mu.Unlock()
}

func (s *stubSource) Detail(ctx context.Context, code string, kind model.ChartKind) (model.Detail, error) {
	return model.Detail{}, source.ErrUnknownCode
}

func TestState_ObserveAndGet(t *testing.T) {
	s := newState()
	at := time.Unix(1700000000, 0)

	added := s.observe(model.TagMetals, []model.InstrumentRecord{
		{ID: "metals-0", CategoryCode: "CU", Name: "铜", IconType: model.IconMetals},
		{ID: "metals-1", CategoryCode: "AL", Name: "铝", IconType: model.IconMetals},
	}, at)
	if added != 2 {
		t.Errorf("added = %d, want 2", added)
	}

	got, ok := s.get("CU")
	if !ok {
		t.Fatal("CU not found")
	}
	if got.Name != "铜" || got.Icon != model.IconMetals {
		t.Errorf("entry = %+v", got)
	}
	if !got.FirstSeen.Equal(at) {
		t.Errorf("FirstSeen = %v, want %v", got.FirstSeen, at)
	}

	if _, ok := s.get("ZZ"); ok {
		t.Error("ZZ should not be known")
	}
}

func TestState_ObserveMergesTags(t *testing.T) {
	s := newState()
	rec := model.InstrumentRecord{CategoryCode: "CU", Name: "铜"}

	s.observe(model.TagMetals, []model.InstrumentRecord{rec}, time.Unix(1, 0))
	added := s.observe(model.TagSHFE, []model.InstrumentRecord{rec}, time.Unix(2, 0))
	if added != 0 {
		t.Errorf("added = %d on second observe, want 0", added)
	}
	s.observe(model.TagSHFE, []model.InstrumentRecord{rec}, time.Unix(3, 0))

	got, _ := s.get("CU")
	if !slices.Equal(got.Tags, []model.Tag{model.TagMetals, model.TagSHFE}) {
		t.Errorf("Tags = %v, want [metals shfe]", got.Tags)
	}
	if got.LastSeen.Unix() != 3 {
		t.Errorf("LastSeen = %d, want 3", got.LastSeen.Unix())
	}
}

func TestState_SkipsEmptyCode(t *testing.T) {
	s := newState()
	s.observe(model.TagAll, []model.InstrumentRecord{{ID: "x"}}, time.Now())
	if s.size() != 0 {
		t.Errorf("size = %d, want 0", s.size())
	}
}

func TestState_NotifyDropsOldest(t *testing.T) {
	s := newState()
	for i := 0; i < ChangeBufferSize+10; i++ {
		s.notifyChange(Change{Code: string(rune('A' + i%26)), EventType: "added"})
	}
	if len(s.changes) != ChangeBufferSize {
		t.Errorf("len(changes) = %d, want %d", len(s.changes), ChangeBufferSize)
	}
}

func TestState_GetReturnsCopy(t *testing.T) {
	s := newState()
	s.observe(model.TagAll, []model.InstrumentRecord{{CategoryCode: "CU"}}, time.Now())

	e, _ := s.get("CU")
	e.Tags[0] = model.TagGFEX

	again, _ := s.get("CU")
	if again.Tags[0] != model.TagAll {
		t.Error("mutating a returned entry changed registry state")
	}
}

func TestRegistry_StartSeedsFromSource(t *testing.T) {
	src := source.NewGenerator(source.WithSeed(1))
	r := New(DefaultConfig(), src, nil)

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer r.Stop(context.Background())

	if got, want := len(r.Codes()), len(source.Universe()); got != want {
		t.Errorf("len(Codes()) = %d, want %d", got, want)
	}
	if !r.Known("CU") {
		t.Error("CU should be known after initial sync")
	}
	if r.Known("XYZ") {
		t.Error("XYZ should be unknown")
	}

	select {
	case ch := <-r.SubscribeChanges():
		if ch.EventType != "added" {
			t.Errorf("EventType = %q, want added", ch.EventType)
		}
	default:
		t.Error("expected change notifications after initial sync")
	}
}

func TestRegistry_StartFails(t *testing.T) {
	src := &stubSource{err: errors.New("feed down")}
	r := New(DefaultConfig(), src, nil)

	if err := r.Start(context.Background()); err == nil {
		t.Fatal("Start should fail when the source fails")
	}
	if err := r.Stop(context.Background()); err != nil {
		t.Errorf("Stop after failed Start: %v", err)
	}
}

func TestRegistry_RecoversAfterFailedStart(t *testing.T) {
	src := &stubSource{err: errors.New("feed down")}
	r := New(Config{ReconcileInterval: 5 * time.Millisecond}, src, nil)

	if err := r.Start(context.Background()); err == nil {
		t.Fatal("Start should report the failed initial sync")
	}
	if n := len(r.Codes()); n != 0 {
		t.Errorf("len(Codes()) = %d, want 0 after failed sync", n)
	}

	r.HandleBatch(&model.Batch{
		Tag:     model.TagMetals,
		Records: []model.InstrumentRecord{{ID: "metals-0", CategoryCode: "CU"}},
	})
	if !r.Known("CU") {
		t.Error("batches should still populate the registry")
	}

	src.set([]model.InstrumentRecord{{CategoryCode: "SC"}})
	deadline := time.Now().Add(time.Second)
	for !r.Known("SC") && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	if err := r.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if !r.Known("SC") {
		t.Error("reconcile should recover from a failed initial sync")
	}
}

func TestRegistry_HandleBatch(t *testing.T) {
	r := New(DefaultConfig(), &stubSource{}, nil)
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer r.Stop(context.Background())

	r.HandleBatch(nil)
	r.HandleBatch(&model.Batch{Tag: model.TagAll, Failed: true, Records: []model.InstrumentRecord{{CategoryCode: "NOPE"}}})
	if r.Known("NOPE") {
		t.Error("failed batch should be ignored")
	}

	r.HandleBatch(&model.Batch{
		Tag:     model.TagOils,
		Records: []model.InstrumentRecord{{ID: "oils-0", CategoryCode: "Y", Name: "豆油"}},
	})
	e, ok := r.Get("Y")
	if !ok {
		t.Fatal("Y should be known after HandleBatch")
	}
	if e.FirstSeen.IsZero() {
		t.Error("FirstSeen should fall back to now for batches without FetchedAt")
	}
}

func TestRegistry_Reconcile(t *testing.T) {
	src := &stubSource{}
	r := New(Config{ReconcileInterval: 5 * time.Millisecond}, src, nil)
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	src.set([]model.InstrumentRecord{{CategoryCode: "SC"}})

	deadline := time.Now().Add(time.Second)
	for !r.Known("SC") && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	if err := r.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if !r.Known("SC") {
		t.Error("reconcile should pick up new instruments")
	}
}
