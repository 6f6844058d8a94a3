package meta

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/coregx/twinvm/vm"
)

// TestConcurrentFind checks that one Engine serves many goroutines and that
// the shared statistics stay consistent.
func TestConcurrentFind(t *testing.T) {
	for _, kind := range []vm.Kind{vm.KindBacktrack, vm.KindLockStep} {
		t.Run(kind.String(), func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Engine = kind
			engine, err := CompileWithConfig(`(\w+)@(\w+)\.com`, cfg)
			if err != nil {
				t.Fatalf("failed to compile pattern: %v", err)
			}

			inputs := []struct {
				input string
				user  string
			}{
				{"write to bob@example.com today", "bob"},
				{"amy@test.com", "amy"},
				{"no address here", ""},
				{"", ""},
			}

			const numGoroutines = 50
			const numIterations = 50

			var wg sync.WaitGroup
			var failures atomic.Int64
			for i := 0; i < numGoroutines; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for j := 0; j < numIterations; j++ {
						for _, tc := range inputs {
							m := engine.Find(tc.input)
							got := ""
							if m != nil {
								got = m.GroupString(0)
							}
							if got != tc.user {
								failures.Add(1)
							}
						}
					}
				}()
			}
			wg.Wait()

			if failures.Load() > 0 {
				t.Errorf("%d wrong results under concurrent use", failures.Load())
			}
			if got, want := engine.Stats().Searches, uint64(numGoroutines*numIterations*len(inputs)); got != want {
				t.Errorf("Searches = %d, want %d", got, want)
			}
		})
	}
}
