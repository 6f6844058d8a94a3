// Package vm executes a program.Program against input text with one of two
// interchangeable engines.
//
// Backtracker explores alternatives depth-first with a single active thread
// and a LIFO of suspended alternatives. It is fast on common inputs and
// exponential in the worst case. A thread that loops back without
// consuming input fails, so repetitions whose body can match empty
// terminate.
//
// LockStep advances a bale of threads breadth-first, all at one shared
// input position, with an epsilon-closure pass between consuming steps.
// Information about abandoned hypotheses is never revisited, so the running
// time is O(n*m) and the space O(m) as long as the bale stays bounded by the
// program size. Config.Dedup keeps it bounded; without it, repetitions whose
// body can match empty (such as (a*)*) grow the bale without limit.
// LockStep also implements Searcher: it finds the leftmost match at any
// start position in one pass by seeding a thread at every scalar boundary.
//
// Both engines honour the same priority: the fallthrough of a split is
// preferred over its disfavored target, so for a given program, input and
// mode they report the same end position and the same captures.
//
// Engines keep no mutable state between calls. A single engine value may be
// used from many goroutines at once.
package vm
