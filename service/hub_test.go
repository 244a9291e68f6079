package service

import (
	"errors"
	"slices"
	"testing"
)

// fakeService records lifecycle calls into a shared log
type fakeService struct {
	name     string
	deps     []string
	log      *[]string
	initErr  error
	startErr error
	stopErr  error
	args     []any
}

func (f *fakeService) Name() string           { return f.name }
func (f *fakeService) Dependencies() []string { return f.deps }

func (f *fakeService) Init(args ...any) error {
	f.args = args
	*f.log = append(*f.log, "init "+f.name)
	return f.initErr
}

func (f *fakeService) Start() error {
	*f.log = append(*f.log, "start "+f.name)
	return f.startErr
}

func (f *fakeService) Stop() error {
	*f.log = append(*f.log, "stop "+f.name)
	return f.stopErr
}

func newHub(t *testing.T, svcs ...*fakeService) *Hub {
	t.Helper()
	h := NewHub()
	for _, s := range svcs {
		if err := h.Register(s); err != nil {
			t.Fatalf("Register %s failed: %v", s.name, err)
		}
	}
	return h
}

// TestHubLifecycleOrder verifies dependency order and reverse stop
func TestHubLifecycleOrder(t *testing.T) {
	var calls []string
	audio := &fakeService{name: "audio", deps: []string{"mixer"}, log: &calls}
	mixer := &fakeService{name: "mixer", log: &calls}
	assets := &fakeService{name: "assets", log: &calls}
	h := newHub(t, audio, mixer, assets)

	if err := h.InitAll("cfg", 7); err != nil {
		t.Fatalf("InitAll failed: %v", err)
	}
	if err := h.StartAll(); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	if err := h.StopAll(); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}

	want := []string{
		"init assets", "init mixer", "init audio",
		"start assets", "start mixer", "start audio",
		"stop audio", "stop mixer", "stop assets",
	}
	if !slices.Equal(calls, want) {
		t.Errorf("Expected %v, got %v", want, calls)
	}
	if !slices.Equal(h.Order(), []string{"assets", "mixer", "audio"}) {
		t.Errorf("Unexpected order %v", h.Order())
	}
	if len(audio.args) != 2 || audio.args[0] != "cfg" {
		t.Errorf("Expected args forwarded, got %v", audio.args)
	}

	// Second StopAll has nothing to stop
	calls = calls[:0]
	h.StopAll()
	if len(calls) != 0 {
		t.Errorf("Expected no calls, got %v", calls)
	}
}

// TestHubRegisterDuplicate verifies names are unique
func TestHubRegisterDuplicate(t *testing.T) {
	var calls []string
	h := newHub(t, &fakeService{name: "mixer", log: &calls})
	if err := h.Register(&fakeService{name: "mixer", log: &calls}); !errors.Is(err, ErrDuplicateService) {
		t.Errorf("Expected ErrDuplicateService, got %v", err)
	}
}

// TestHubDependencyErrors verifies unknown and circular dependencies fail InitAll
func TestHubDependencyErrors(t *testing.T) {
	var calls []string
	h := newHub(t, &fakeService{name: "audio", deps: []string{"mixer"}, log: &calls})
	if err := h.InitAll(); !errors.Is(err, ErrUnknownDependency) {
		t.Errorf("Expected ErrUnknownDependency, got %v", err)
	}

	h = newHub(t,
		&fakeService{name: "a", deps: []string{"b"}, log: &calls},
		&fakeService{name: "b", deps: []string{"a"}, log: &calls},
	)
	if err := h.InitAll(); !errors.Is(err, ErrDependencyCycle) {
		t.Errorf("Expected ErrDependencyCycle, got %v", err)
	}
	if len(calls) != 0 {
		t.Errorf("Expected no Init calls, got %v", calls)
	}
}

// TestHubInitRollback verifies initialized services are stopped on failure
func TestHubInitRollback(t *testing.T) {
	var calls []string
	boom := errors.New("boom")
	h := newHub(t,
		&fakeService{name: "a", log: &calls},
		&fakeService{name: "b", deps: []string{"a"}, log: &calls},
		&fakeService{name: "c", deps: []string{"b"}, log: &calls, initErr: boom},
	)

	if err := h.InitAll(); !errors.Is(err, boom) {
		t.Fatalf("Expected wrapped init error, got %v", err)
	}
	want := []string{"init a", "init b", "init c", "stop b", "stop a"}
	if !slices.Equal(calls, want) {
		t.Errorf("Expected %v, got %v", want, calls)
	}
}

// TestHubStartRollback verifies started services are stopped on failure
func TestHubStartRollback(t *testing.T) {
	var calls []string
	boom := errors.New("boom")
	h := newHub(t,
		&fakeService{name: "a", log: &calls},
		&fakeService{name: "b", deps: []string{"a"}, log: &calls, startErr: boom},
	)

	if err := h.StartAll(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Expected ErrNotInitialized, got %v", err)
	}

	if err := h.InitAll(); err != nil {
		t.Fatalf("InitAll failed: %v", err)
	}
	calls = calls[:0]
	if err := h.StartAll(); !errors.Is(err, boom) {
		t.Fatalf("Expected wrapped start error, got %v", err)
	}
	want := []string{"start a", "start b", "stop a"}
	if !slices.Equal(calls, want) {
		t.Errorf("Expected %v, got %v", want, calls)
	}

	// Nothing left to stop after rollback
	calls = calls[:0]
	h.StopAll()
	if len(calls) != 0 {
		t.Errorf("Expected no calls, got %v", calls)
	}
}

// TestHubStopAllJoinsErrors verifies every service is stopped despite errors
func TestHubStopAllJoinsErrors(t *testing.T) {
	var calls []string
	boom := errors.New("boom")
	h := newHub(t,
		&fakeService{name: "a", log: &calls, stopErr: boom},
		&fakeService{name: "b", log: &calls, stopErr: boom},
	)
	h.InitAll()
	h.StartAll()

	calls = calls[:0]
	if err := h.StopAll(); !errors.Is(err, boom) {
		t.Errorf("Expected joined stop error, got %v", err)
	}
	if !slices.Equal(calls, []string{"stop b", "stop a"}) {
		t.Errorf("Expected both stopped, got %v", calls)
	}
}

// TestHubLookup verifies Get, MustGet and Names
func TestHubLookup(t *testing.T) {
	var calls []string
	mixer := &fakeService{name: "mixer", log: &calls}
	h := newHub(t, mixer, &fakeService{name: "audio", log: &calls})

	if svc, ok := h.Get("mixer"); !ok || svc != mixer {
		t.Error("Expected mixer from Get")
	}
	if _, ok := h.Get("video"); ok {
		t.Error("Expected unknown service missing")
	}
	if got := MustGet[*fakeService](h, "mixer"); got != mixer {
		t.Error("Expected typed mixer from MustGet")
	}
	if !slices.Equal(h.Names(), []string{"audio", "mixer"}) {
		t.Errorf("Expected sorted names, got %v", h.Names())
	}

	defer func() {
		if recover() == nil {
			t.Error("Expected panic for missing service")
		}
	}()
	MustGet[*fakeService](h, "video")
}
