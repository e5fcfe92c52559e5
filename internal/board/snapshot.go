package board

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Snapshot is the persisted form of a Store. OccupantNames is index-aligned
// with SlotNames; nil marks an empty slot.
type Snapshot struct {
	SlotNames     []string  `json:"slotNames"`
	OccupantNames []*string `json:"occupantNames"`
	PoolNames     []string  `json:"poolNames"`
}

// Capture copies the store into a Snapshot.
func Capture(s *Store) Snapshot {
	snap := Snapshot{
		SlotNames:     []string{},
		OccupantNames: []*string{},
		PoolNames:     []string{},
	}
	for _, sl := range s.Slots() {
		snap.SlotNames = append(snap.SlotNames, string(sl.Name))
		if sl.Occupied {
			occ := string(sl.Occupant)
			snap.OccupantNames = append(snap.OccupantNames, &occ)
		} else {
			snap.OccupantNames = append(snap.OccupantNames, nil)
		}
	}
	for _, e := range s.Pool() {
		snap.PoolNames = append(snap.PoolNames, string(e))
	}
	return snap
}

// Encode renders snap as the JSON blob kept in the KV store.
func Encode(snap Snapshot) (string, error) {
	b, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	return string(b), nil
}

// Decode parses a blob written by Encode. Blobs that are not JSON objects,
// or that lack the slot or pool arrays, wrap ErrMalformedState.
func Decode(blob string) (Snapshot, error) {
	var raw struct {
		SlotNames     *[]string `json:"slotNames"`
		OccupantNames []*string `json:"occupantNames"`
		PoolNames     *[]string `json:"poolNames"`
	}
	if err := json.Unmarshal([]byte(blob), &raw); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	if raw.SlotNames == nil || raw.PoolNames == nil {
		return Snapshot{}, fmt.Errorf("%w: missing slotNames or poolNames", ErrMalformedState)
	}
	return Snapshot{
		SlotNames:     *raw.SlotNames,
		OccupantNames: raw.OccupantNames,
		PoolNames:     *raw.PoolNames,
	}, nil
}

// Restore builds a Store from snap, repairing anything that would break the
// store invariants. The first placement of a name wins and occupants are
// placed before the pool, so a name that is both an occupant and in
// PoolNames stays in its slot. Every repair is described in the returned
// list.
func Restore(snap Snapshot) (*Store, []string) {
	s := NewStore()
	var repairs []string
	placed := make(map[Name]bool)

	for i, raw := range snap.SlotNames {
		name, err := ParseName(raw)
		if err != nil {
			repairs = append(repairs, fmt.Sprintf("slot %d: blank name dropped", i))
			continue
		}
		if !s.AddSlot(name) {
			repairs = append(repairs, fmt.Sprintf("slot %d: duplicate slot %q dropped", i, name))
			continue
		}
		if i >= len(snap.OccupantNames) || snap.OccupantNames[i] == nil {
			continue
		}
		occ, err := ParseName(*snap.OccupantNames[i])
		if err != nil {
			repairs = append(repairs, fmt.Sprintf("slot %q: blank occupant dropped", name))
			continue
		}
		if placed[occ] {
			repairs = append(repairs, fmt.Sprintf("slot %q: %q already placed, left empty", name, occ))
			continue
		}
		placed[occ] = true
		_ = s.SetOccupant(name, occ)
	}
	if extra := len(snap.OccupantNames) - len(snap.SlotNames); extra > 0 {
		repairs = append(repairs, fmt.Sprintf("%d occupant(s) without a slot ignored", extra))
	}

	for _, raw := range snap.PoolNames {
		name, err := ParseName(raw)
		if err != nil {
			repairs = append(repairs, "pool: blank name dropped")
			continue
		}
		if !s.AddEntryToPool(name) {
			repairs = append(repairs, fmt.Sprintf("pool: %q already placed, dropped", name))
		}
	}
	return s, repairs
}

// KV is the opaque string store the board is saved into.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// DefaultKey is the KV key used when none is configured. A bump of the
// trailing version makes older blobs invisible rather than misread.
const DefaultKey = "pairboard/assignments/v1"

// Persister saves and loads a Store under one key.
type Persister struct {
	kv  KV
	key string
	log *zap.Logger
}

// NewPersister binds a KV and key. An empty key means DefaultKey.
func NewPersister(kv KV, key string, log *zap.Logger) *Persister {
	if strings.TrimSpace(key) == "" {
		key = DefaultKey
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Persister{kv: kv, key: key, log: log}
}

// Key returns the KV key in use.
func (p *Persister) Key() string { return p.key }

// Save writes the store. Failures are logged and otherwise ignored; the
// in-memory store stays authoritative.
func (p *Persister) Save(ctx context.Context, s *Store) {
	if p.kv == nil {
		return
	}
	blob, err := Encode(Capture(s))
	if err != nil {
		p.log.Error("save: encode", zap.Error(err))
		return
	}
	if err := p.kv.Set(ctx, p.key, blob); err != nil {
		p.log.Error("save: write", zap.String("key", p.key), zap.Error(err))
	}
}

// Load reads the store back. A missing, unreadable or malformed blob gives
// an empty store.
func (p *Persister) Load(ctx context.Context) *Store {
	if p.kv == nil {
		return NewStore()
	}
	blob, ok, err := p.kv.Get(ctx, p.key)
	if err != nil {
		p.log.Warn("load: read failed, starting empty", zap.String("key", p.key), zap.Error(err))
		return NewStore()
	}
	if !ok {
		return NewStore()
	}
	snap, err := Decode(blob)
	if err != nil {
		p.log.Warn("load: starting empty", zap.String("key", p.key), zap.Error(err))
		return NewStore()
	}
	s, repairs := Restore(snap)
	for _, r := range repairs {
		p.log.Warn("load: repaired", zap.String("key", p.key), zap.String("repair", r))
	}
	return s
}

// Clear deletes the persisted blob.
func (p *Persister) Clear(ctx context.Context) {
	if p.kv == nil {
		return
	}
	if err := p.kv.Delete(ctx, p.key); err != nil {
		p.log.Error("clear", zap.String("key", p.key), zap.Error(err))
	}
}
