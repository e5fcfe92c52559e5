package board

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDeletePoolEntryRemovesCoNamedSlot(t *testing.T) {
	// Ann was dragged onto Bob's slot; deleting Bob from the pool takes Bob's
	// slot with it and returns Ann to the pool.
	s := storeWith(t, [][2]string{{"Ann", ""}, {"Bob", "Ann"}}, "Bob")

	d, err := DeletePoolEntry(s, "Bob")
	if err != nil {
		t.Fatalf("DeletePoolEntry: %v", err)
	}
	want := boardState{Slots: []SlotView{empty("Ann")}, Pool: names("Ann")}
	if diff := cmp.Diff(want, stateOf(s)); diff != "" {
		t.Errorf("state (-want +got):\n%s", diff)
	}
	wantDel := Deletion{RemovedEntries: names("Bob"), RemovedSlots: names("Bob"), Returned: names("Ann")}
	if diff := cmp.Diff(wantDel, d); diff != "" {
		t.Errorf("deletion (-want +got):\n%s", diff)
	}
	mustCheck(t, s)
}

func TestDeletePoolEntryWithoutSlot(t *testing.T) {
	s := storeWith(t, [][2]string{{"Ann", ""}}, "Zed")
	if _, err := DeletePoolEntry(s, "Zed"); err != nil {
		t.Fatal(err)
	}
	want := boardState{Slots: []SlotView{empty("Ann")}, Pool: []Name{}}
	if diff := cmp.Diff(want, stateOf(s)); diff != "" {
		t.Errorf("state (-want +got):\n%s", diff)
	}
}

func TestDeletePoolEntryUnknown(t *testing.T) {
	s := storeWith(t, [][2]string{{"Ann", "Bob"}})
	before := stateOf(s)
	// Bob is on the board but not in the pool.
	if _, err := DeletePoolEntry(s, "Bob"); !errors.Is(err, ErrUnknownEntry) {
		t.Fatalf("err = %v, want ErrUnknownEntry", err)
	}
	if diff := cmp.Diff(before, stateOf(s)); diff != "" {
		t.Errorf("state changed (-want +got):\n%s", diff)
	}
}

func TestDeleteSlotKeepEntry(t *testing.T) {
	s := storeWith(t, [][2]string{{"Ann", "Bob"}, {"Bob", ""}}, "Ann")

	d, err := DeleteSlot(s, "Ann", PolicyKeepEntry)
	if err != nil {
		t.Fatalf("DeleteSlot: %v", err)
	}
	want := boardState{Slots: []SlotView{empty("Bob")}, Pool: names("Ann", "Bob")}
	if diff := cmp.Diff(want, stateOf(s)); diff != "" {
		t.Errorf("state (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Deletion{RemovedSlots: names("Ann"), Returned: names("Bob")}, d); diff != "" {
		t.Errorf("deletion (-want +got):\n%s", diff)
	}
	mustCheck(t, s)
}

func TestDeleteSlotCascade(t *testing.T) {
	tests := []struct {
		name  string
		store func(t *testing.T) *Store
		slot  Name
		want  boardState
	}{
		{
			name:  "co-named entry in pool",
			store: func(t *testing.T) *Store { return storeWith(t, [][2]string{{"Ann", "Bob"}, {"Bob", ""}}, "Ann") },
			slot:  "Ann",
			want:  boardState{Slots: []SlotView{empty("Bob")}, Pool: names("Bob")},
		},
		{
			name:  "co-named entry in another slot",
			store: func(t *testing.T) *Store { return storeWith(t, [][2]string{{"Ann", ""}, {"Bob", "Ann"}}) },
			slot:  "Ann",
			want:  boardState{Slots: []SlotView{empty("Bob")}, Pool: nil},
		},
		{
			name:  "slot holding its own namesake",
			store: func(t *testing.T) *Store { return storeWith(t, [][2]string{{"Ann", "Ann"}}, "Bob") },
			slot:  "Ann",
			want:  boardState{Slots: []SlotView{}, Pool: names("Bob")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.store(t)
			if _, err := DeleteSlot(s, tt.slot, PolicyCascade); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, stateOf(s)); diff != "" {
				t.Errorf("state (-want +got):\n%s", diff)
			}
			mustCheck(t, s)
		})
	}
}

func TestDeleteSlotUnknown(t *testing.T) {
	s := NewStore()
	if _, err := DeleteSlot(s, "Nobody", PolicyKeepEntry); !errors.Is(err, ErrUnknownSlot) {
		t.Fatalf("err = %v, want ErrUnknownSlot", err)
	}
}

func TestParseDeletePolicy(t *testing.T) {
	for in, want := range map[string]DeletePolicy{"": PolicyKeepEntry, "keep-entry": PolicyKeepEntry, " Cascade ": PolicyCascade} {
		got, err := ParseDeletePolicy(in)
		if err != nil || got != want {
			t.Errorf("ParseDeletePolicy(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseDeletePolicy("both-ways"); err == nil {
		t.Error("expected an error for an unknown policy")
	}
}
