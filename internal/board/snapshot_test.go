package board

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func strp(s string) *string { return &s }

func TestSnapshotRoundTrip(t *testing.T) {
	stores := map[string]*Store{
		"empty":  NewStore(),
		"mixed":  storeWith(t, [][2]string{{"Ann", "Bob"}, {"Bob", ""}, {"Cat", "Ann"}}, "Cat", "Dan"),
		"pool":   storeWith(t, nil, "Zed", "Ann"),
		"spaces": storeWith(t, [][2]string{{"Mary Jane", "Łukasz"}}),
	}
	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			blob, err := Encode(Capture(s))
			if err != nil {
				t.Fatal(err)
			}
			snap, err := Decode(blob)
			if err != nil {
				t.Fatal(err)
			}
			got, repairs := Restore(snap)
			if len(repairs) != 0 {
				t.Errorf("unexpected repairs: %v", repairs)
			}
			if diff := cmp.Diff(Capture(s), Capture(got)); diff != "" {
				t.Errorf("round trip (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodeLayout(t *testing.T) {
	s := storeWith(t, [][2]string{{"Ann", ""}, {"Bob", "Ann"}}, "Bob")
	blob, err := Encode(Capture(s))
	if err != nil {
		t.Fatal(err)
	}
	want := `{"slotNames":["Ann","Bob"],"occupantNames":[null,"Ann"],"poolNames":["Bob"]}`
	if blob != want {
		t.Errorf("blob = %s\nwant   %s", blob, want)
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, blob := range []string{"", "not json", "[]", "null", `{"slotNames":["A"]}`, `{"poolNames":[]}`, `{"slotNames":"A","poolNames":[]}`} {
		if _, err := Decode(blob); !errors.Is(err, ErrMalformedState) {
			t.Errorf("Decode(%q) err = %v, want ErrMalformedState", blob, err)
		}
	}
}

func TestRestoreRepairs(t *testing.T) {
	snap := Snapshot{
		SlotNames:     []string{"Ann", "Bob", "Ann", " ", "Cat", "Dan"},
		OccupantNames: []*string{strp("Eve"), strp("Eve"), strp("Zed"), nil, strp("  "), nil, strp("Extra")},
		PoolNames:     []string{"Eve", "Bob", "", "Bob", "Fay"},
	}
	s, repairs := Restore(snap)
	want := boardState{
		Slots: []SlotView{occupied("Ann", "Eve"), empty("Bob"), empty("Cat"), empty("Dan")},
		Pool:  names("Bob", "Fay"),
	}
	if diff := cmp.Diff(want, stateOf(s)); diff != "" {
		t.Errorf("restored state (-want +got):\n%s", diff)
	}
	// second Eve, duplicate Ann, blank slot, blank occupant, extra occupant,
	// pooled Eve, blank pool name, second Bob
	if len(repairs) != 8 {
		t.Errorf("repairs = %d %q, want 8", len(repairs), repairs)
	}
	mustCheck(t, s)
}

func TestRestoreShortOccupants(t *testing.T) {
	s, repairs := Restore(Snapshot{SlotNames: []string{"Ann", "Bob"}, OccupantNames: []*string{strp("Cat")}, PoolNames: []string{}})
	want := boardState{Slots: []SlotView{occupied("Ann", "Cat"), empty("Bob")}}
	if diff := cmp.Diff(want, stateOf(s)); diff != "" {
		t.Errorf("state (-want +got):\n%s", diff)
	}
	if len(repairs) != 0 {
		t.Errorf("repairs = %q", repairs)
	}
}

func TestPersisterLoadFallsBackToEmpty(t *testing.T) {
	tests := []struct {
		name string
		kv   *memKV
		warn bool
	}{
		{name: "missing", kv: newMemKV()},
		{name: "garbage", kv: &memKV{data: map[string]string{DefaultKey: "{{{"}}, warn: true},
		{name: "read error", kv: &memKV{data: map[string]string{}, failGet: errDisk}, warn: true},
		{name: "other key only", kv: &memKV{data: map[string]string{"mikolajki-data": `{"people":["Ann"]}`}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.WarnLevel)
			p := NewPersister(tt.kv, "", zap.New(core))
			s := p.Load(context.Background())
			if !s.Empty() {
				t.Errorf("expected empty store, got %+v", stateOf(s))
			}
			if got := logs.Len() > 0; got != tt.warn {
				t.Errorf("warned = %v, want %v", got, tt.warn)
			}
		})
	}
}

func TestPersisterSaveFailureIsLoggedNotReturned(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	kv := newMemKV()
	kv.failSet = errDisk
	p := NewPersister(kv, "k", zap.New(core))
	p.Save(context.Background(), storeWith(t, nil, "Ann"))
	if kv.sets != 1 {
		t.Errorf("sets = %d, want 1", kv.sets)
	}
	if logs.FilterMessage("save: write").Len() != 1 {
		t.Errorf("expected a logged write failure, got %v", logs.All())
	}
}

func TestPersisterLoadLogsRepairs(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	kv := newMemKV()
	kv.data["k"] = `{"slotNames":["Ann"],"occupantNames":["Bob"],"poolNames":["Bob","Cat"]}`
	s := NewPersister(kv, "k", zap.New(core)).Load(context.Background())
	if diff := cmp.Diff(names("Cat"), s.Pool()); diff != "" {
		t.Errorf("pool (-want +got):\n%s", diff)
	}
	if logs.FilterMessage("load: repaired").Len() != 1 {
		t.Errorf("expected one repair log, got %v", logs.All())
	}
}
