// Package prefilter skips input positions where no match can start.
//
// A prefilter is built from the literals every match must begin with (see
// package literal). The search driver asks it for the next candidate
// position and runs an engine only there. Candidates are never proof of a
// match; the engine always verifies.
//
// Selection:
//   - one single-byte literal: bytes.IndexByte
//   - one literal: bytes.Index
//   - several literals: an Aho-Corasick automaton
//
// All literals are first cut to the length of the shortest one, so the
// leftmost occurrence of any literal is also the leftmost candidate start.
package prefilter

import (
	"bytes"
	"fmt"

	"github.com/coregx/ahocorasick"

	"github.com/coregx/twinvm/literal"
)

// Prefilter finds candidate match starts.
type Prefilter interface {
	// Find returns the smallest candidate position >= start, or -1 if no
	// match can start at or after start.
	Find(haystack []byte, start int) int

	// LiteralLen returns the length of the literals searched for.
	LiteralLen() int

	// HeapBytes returns the approximate memory held by the prefilter.
	HeapBytes() int

	// String describes the prefilter for diagnostics.
	String() string
}

// Builder selects a prefilter for a set of prefix literals.
type Builder struct {
	prefixes *literal.Seq
}

// NewBuilder creates a Builder for prefixes. The Seq is not modified.
func NewBuilder(prefixes *literal.Seq) *Builder {
	return &Builder{prefixes: prefixes}
}

// Build returns the prefilter, or nil if the literals cannot narrow a
// search.
func (b *Builder) Build() Prefilter {
	if b.prefixes.IsEmpty() {
		return nil
	}
	n := b.prefixes.ShortestLen()
	if n == 0 {
		return nil
	}

	lits := make([]literal.Literal, b.prefixes.Len())
	for i := range lits {
		l := b.prefixes.Get(i)
		lits[i] = literal.NewLiteral(bytes.Clone(l.Bytes), l.Complete)
	}
	seq := literal.NewSeq(lits...)
	seq.KeepFirstBytes(n)
	seq.Minimize()

	if seq.Len() == 1 {
		return newSubstring(seq.Get(0).Bytes)
	}
	if pf, err := newAhoCorasick(seq.Bytes()); err == nil {
		return pf
	}
	if lcp := seq.LongestCommonPrefix(); len(lcp) > 0 {
		return newSubstring(lcp)
	}
	return nil
}

// substring searches for a single literal.
type substring struct {
	needle []byte
}

func newSubstring(needle []byte) Prefilter {
	return &substring{needle: needle}
}

func (p *substring) Find(haystack []byte, start int) int {
	if start > len(haystack) {
		return -1
	}
	var i int
	if len(p.needle) == 1 {
		i = bytes.IndexByte(haystack[start:], p.needle[0])
	} else {
		i = bytes.Index(haystack[start:], p.needle)
	}
	if i < 0 {
		return -1
	}
	return start + i
}

func (p *substring) LiteralLen() int { return len(p.needle) }

func (p *substring) HeapBytes() int { return len(p.needle) }

func (p *substring) String() string {
	if len(p.needle) == 1 {
		return fmt.Sprintf("memchr(%q)", p.needle)
	}
	return fmt.Sprintf("memmem(%q)", p.needle)
}

// ahoCorasickPrefilter searches for several literals of equal length.
type ahoCorasickPrefilter struct {
	auto     *ahocorasick.Automaton
	patterns int
	length   int
}

func newAhoCorasick(patterns [][]byte) (Prefilter, error) {
	builder := ahocorasick.NewBuilder()
	heap := 0
	for _, p := range patterns {
		builder.AddPattern(p)
		heap += len(p)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("prefilter: aho-corasick: %w", err)
	}
	return &ahoCorasickPrefilter{auto: auto, patterns: len(patterns), length: len(patterns[0])}, nil
}

func (p *ahoCorasickPrefilter) Find(haystack []byte, start int) int {
	if start >= len(haystack) {
		return -1
	}
	m := p.auto.Find(haystack, start)
	if m == nil {
		return -1
	}
	return m.Start
}

func (p *ahoCorasickPrefilter) LiteralLen() int { return p.length }

func (p *ahoCorasickPrefilter) HeapBytes() int { return p.patterns * p.length }

func (p *ahoCorasickPrefilter) String() string {
	return fmt.Sprintf("aho-corasick(%d literals)", p.patterns)
}
