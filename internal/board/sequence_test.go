package board

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var sequenceNames = names("Ann", "Bob", "Cat", "Dan", "Eve", "Ghost")

// randomStep applies one random board action and reports whether it should
// have been saved.
func randomStep(r *rand.Rand, b *Board) (string, bool) {
	ctx := context.Background()
	pick := func() Name { return sequenceNames[r.IntN(len(sequenceNames))] }
	dest := func() Region {
		switch r.IntN(4) {
		case 0:
			return NoRegion()
		case 1:
			return PoolRegion()
		default:
			return SlotRegion(pick())
		}
	}

	switch n := r.IntN(20); {
	case n < 5:
		name := pick()
		_, added, _ := b.AddPerson(ctx, string(name))
		return "add " + string(name), added
	case n < 13:
		name, to := pick(), dest()
		out, _ := b.Drop(ctx, name, to)
		return fmt.Sprintf("drop %s on %s", name, to), out.Changed()
	case n < 16:
		name := pick()
		_, err := b.DeletePoolEntry(ctx, name)
		return "delete entry " + string(name), err == nil
	case n < 19:
		name := pick()
		_, err := b.DeleteSlot(ctx, name)
		return "delete slot " + string(name), err == nil
	default:
		b.Load(ctx)
		return "reload", false
	}
}

func TestRandomSequencesKeepInvariants(t *testing.T) {
	for _, policy := range []DeletePolicy{PolicyKeepEntry, PolicyCascade} {
		for seed := uint64(1); seed <= 200; seed++ {
			t.Run(fmt.Sprintf("%s/%d", policy, seed), func(t *testing.T) {
				r := rand.New(rand.NewPCG(seed, 0x9e3779b97f4a7c15))
				kv := newMemKV()
				b := New(Options{KV: kv, Policy: policy})
				c := &checker{b: b}
				b.SetObserver(c)

				for i := 0; i < 150; i++ {
					before := kv.sets
					what, wantSave := randomStep(r, b)
					if err := b.Store().Check(); err != nil {
						t.Fatalf("step %d (%s): %v", i, what, err)
					}
					if len(c.errs) > 0 {
						t.Fatalf("step %d (%s): observer saw %v", i, what, c.errs[0])
					}
					saves := kv.sets - before
					if wantSave && saves != 1 || !wantSave && saves != 0 {
						t.Fatalf("step %d (%s): %d saves", i, what, saves)
					}

					loaded := New(Options{KV: kv})
					loaded.Load(context.Background())
					if diff := cmp.Diff(Capture(b.Store()), Capture(loaded.Store())); diff != "" {
						t.Fatalf("step %d (%s): saved board differs (-live +saved):\n%s", i, what, diff)
					}
				}
			})
		}
	}
}
