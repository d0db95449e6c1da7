package configurator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/Simplici0/cabkit/internal/cabinet"
	"github.com/Simplici0/cabkit/internal/logger"
	"github.com/Simplici0/cabkit/internal/pricing"
	"github.com/Simplici0/cabkit/internal/validation"
)

var (
	ErrUnknownPreset = errors.New("unknown preset")
	ErrUnknownFix    = errors.New("no fix for rule")
	ErrEmptyName     = errors.New("preset name is empty")
)

// Persister stores the last edited parameters and the named presets.
type Persister interface {
	LastParams(ctx context.Context) (cabinet.Params, bool, error)
	SaveLastParams(ctx context.Context, p cabinet.Params) error
	Presets(ctx context.Context) (map[string]cabinet.Params, error)
	SavePreset(ctx context.Context, name string, p cabinet.Params) error
	DeletePreset(ctx context.Context, name string) error
}

// State is a copy of everything the store holds.
type State struct {
	Params            cabinet.Params            `json:"params"`
	Exploded          float64                   `json:"exploded"`
	Turntable         bool                      `json:"turntable"`
	Blueprint         bool                      `json:"blueprintMode"`
	LowPower          bool                      `json:"lowPowerMode"`
	Presets           map[string]cabinet.Params `json:"presets"`
	Validation        []validation.Finding      `json:"validation"`
	HasBlockingErrors bool                      `json:"hasBlockingErrors"`
}

// PresetNames returns the preset names sorted.
func (s State) PresetNames() []string {
	names := lo.Keys(s.Presets)
	sort.Strings(names)
	return names
}

// Store is the mutable design state. It is safe for concurrent use.
// Persistence failures are logged and never undo an in-memory change.
// Writes reach the persister in mutation order: every mutation takes a
// revision under mu, and a write older than the last one stored for the
// same key is dropped.
type Store struct {
	mu        sync.Mutex
	catalog   pricing.Catalog
	persister Persister
	log       *logger.Logger

	state State
	rev   uint64

	persistMu sync.Mutex
	persisted map[string]uint64
}

const lastParamsKey = "params"

func presetKey(name string) string { return "preset:" + name }

// NewStore returns a store holding the default design. persister may be nil.
func NewStore(catalog pricing.Catalog, persister Persister) *Store {
	s := &Store{
		catalog:   catalog,
		persister: persister,
		log:       logger.With(logger.String("component", "configurator")),
		state:     State{Presets: map[string]cabinet.Params{}},
		persisted: map[string]uint64{},
	}
	s.setParamsLocked(cabinet.Defaults())
	return s
}

// Load restores the last parameters and presets from the persister.
func (s *Store) Load(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	last, ok, err := s.persister.LastParams(ctx)
	if err != nil {
		return fmt.Errorf("load last params: %w", err)
	}
	presets, err := s.persister.Presets(ctx)
	if err != nil {
		return fmt.Errorf("load presets: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ok {
		s.setParamsLocked(last)
	}
	s.state.Presets = make(map[string]cabinet.Params, len(presets))
	for name, p := range presets {
		s.state.Presets[name] = s.normalize(p)
	}
	return nil
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

// Evaluate runs the full pipeline over the current parameters.
func (s *Store) Evaluate() Snapshot {
	st := s.Snapshot()
	return Evaluate(st.Params, st.Exploded, s.catalog)
}

// SetParams overlays patch onto the current parameters. Keys use the JSON
// parameter names; values are coerced like any raw input.
func (s *Store) SetParams(ctx context.Context, patch map[string]any) State {
	s.mu.Lock()
	merged := paramsMap(s.state.Params)
	for k, v := range patch {
		merged[k] = v
	}
	s.setParamsLocked(cabinet.ParseRaw(merged))
	st, rev := s.copyLocked(), s.nextRevLocked()
	s.mu.Unlock()

	s.persistParams(ctx, rev, st.Params)
	return st
}

// Replace swaps in p as the current parameters.
func (s *Store) Replace(ctx context.Context, p cabinet.Params) State {
	s.mu.Lock()
	s.setParamsLocked(p)
	st, rev := s.copyLocked(), s.nextRevLocked()
	s.mu.Unlock()

	s.persistParams(ctx, rev, st.Params)
	return st
}

func (s *Store) SetExploded(v float64) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Exploded = cabinet.ClampExplode(v)
	return s.copyLocked()
}

func (s *Store) SetTurntable(on bool) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Turntable = on
	return s.copyLocked()
}

func (s *Store) SetBlueprint(on bool) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Blueprint = on
	return s.copyLocked()
}

func (s *Store) SetLowPower(on bool) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.LowPower = on
	return s.copyLocked()
}

// SetView updates the view flags in one step. Nil leaves a flag unchanged.
func (s *Store) SetView(turntable, blueprint, lowPower *bool) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if turntable != nil {
		s.state.Turntable = *turntable
	}
	if blueprint != nil {
		s.state.Blueprint = *blueprint
	}
	if lowPower != nil {
		s.state.LowPower = *lowPower
	}
	return s.copyLocked()
}

// SavePreset stores the current parameters under name, replacing any
// existing preset with that name.
func (s *Store) SavePreset(ctx context.Context, name string) (State, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return State{}, ErrEmptyName
	}

	s.mu.Lock()
	p := s.state.Params
	s.state.Presets[name] = p
	st, rev := s.copyLocked(), s.nextRevLocked()
	s.mu.Unlock()

	s.persist(ctx, presetKey(name), rev, func(ctx context.Context) error {
		return s.persister.SavePreset(ctx, name, p)
	}, "persist preset failed", logger.String("preset", name))
	return st, nil
}

// LoadPreset makes the named preset the current parameters.
func (s *Store) LoadPreset(ctx context.Context, name string) (State, error) {
	s.mu.Lock()
	p, ok := s.state.Presets[name]
	if !ok {
		s.mu.Unlock()
		return State{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	s.setParamsLocked(p)
	st, rev := s.copyLocked(), s.nextRevLocked()
	s.mu.Unlock()

	s.persistParams(ctx, rev, st.Params)
	return st, nil
}

func (s *Store) DeletePreset(ctx context.Context, name string) (State, error) {
	s.mu.Lock()
	if _, ok := s.state.Presets[name]; !ok {
		s.mu.Unlock()
		return State{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	delete(s.state.Presets, name)
	st, rev := s.copyLocked(), s.nextRevLocked()
	s.mu.Unlock()

	s.persist(ctx, presetKey(name), rev, func(ctx context.Context) error {
		return s.persister.DeletePreset(ctx, name)
	}, "delete preset failed", logger.String("preset", name))
	return st, nil
}

// ApplyFix applies the auto-fix registered for ruleID to the current
// parameters.
func (s *Store) ApplyFix(ctx context.Context, ruleID string) (State, error) {
	fix, ok := validation.FixFor(ruleID)
	if !ok {
		return State{}, fmt.Errorf("%w: %q", ErrUnknownFix, ruleID)
	}

	s.mu.Lock()
	s.setParamsLocked(fix.Apply(s.state.Params))
	st, rev := s.copyLocked(), s.nextRevLocked()
	s.mu.Unlock()

	s.persistParams(ctx, rev, st.Params)
	return st, nil
}

// Reset restores the default design and view flags. Presets are kept.
func (s *Store) Reset(ctx context.Context) State {
	s.mu.Lock()
	s.state.Exploded = 0
	s.state.Turntable = false
	s.state.Blueprint = false
	s.state.LowPower = false
	s.setParamsLocked(cabinet.Defaults())
	st, rev := s.copyLocked(), s.nextRevLocked()
	s.mu.Unlock()

	s.persistParams(ctx, rev, st.Params)
	return st
}

func (s *Store) normalize(p cabinet.Params) cabinet.Params {
	return cabinet.Normalize(p, s.catalog.Has)
}

func (s *Store) setParamsLocked(p cabinet.Params) {
	s.state.Params = s.normalize(p)
	s.state.Validation = validation.Validate(s.state.Params)
	s.state.HasBlockingErrors = validation.HasBlocking(s.state.Validation)
}

func (s *Store) copyLocked() State {
	st := s.state
	st.Presets = lo.Assign(s.state.Presets)
	st.Validation = make([]validation.Finding, len(s.state.Validation))
	copy(st.Validation, s.state.Validation)
	return st
}

func (s *Store) nextRevLocked() uint64 {
	s.rev++
	return s.rev
}

func (s *Store) persistParams(ctx context.Context, rev uint64, p cabinet.Params) {
	s.persist(ctx, lastParamsKey, rev, func(ctx context.Context) error {
		return s.persister.SaveLastParams(ctx, p)
	}, "persist params failed")
}

// persist runs write unless a newer revision of key was already written.
func (s *Store) persist(ctx context.Context, key string, rev uint64, write func(context.Context) error, msg string, fields ...logger.Field) {
	if s.persister == nil {
		return
	}
	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	if rev <= s.persisted[key] {
		return
	}
	s.persisted[key] = rev
	if err := write(ctx); err != nil {
		s.log.Warn(ctx, msg, append(fields, logger.ErrorF(err))...)
	}
}

func paramsMap(p cabinet.Params) map[string]any {
	data, _ := json.Marshal(p)
	out := map[string]any{}
	_ = json.Unmarshal(data, &out)
	return out
}
