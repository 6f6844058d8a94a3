// Package twinvm matches regular expressions with two interchangeable
// virtual machines over one bytecode program.
//
// A pattern is compiled once into a program.Program. Either engine can run
// it: a depth-first backtracker, or a breadth-first lock-step engine that
// advances all threads together and never revisits input. Both follow the
// same leftmost-first priority, so they report the same matches and the
// same captures; they differ only in cost.
//
// Basic usage:
//
//	re := twinvm.MustCompile(`(\w+)@(\w+)\.com`)
//	loc := re.FindStringSubmatchIndex("mail bob@example.com")
//	// loc == [5 20 5 8 9 16]
//
// Matching units are Unicode grapheme clusters: "." consumes "é" as
// a single character. Anchors and word boundaries are not supported.
package twinvm

import (
	"fmt"

	"github.com/coregx/twinvm/meta"
	"github.com/coregx/twinvm/program"
	"github.com/coregx/twinvm/vm"
)

// Regexp is a compiled regular expression. It is safe for concurrent use.
type Regexp struct {
	engine  *meta.Engine
	pattern string
}

// Compile parses pattern and returns a Regexp using the lock-step engine.
func Compile(pattern string) (*Regexp, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// MustCompile is like Compile but panics if the pattern cannot be compiled.
func MustCompile(pattern string) *Regexp {
	re, err := Compile(pattern)
	if err != nil {
		panic(fmt.Sprintf("twinvm: Compile(%q): %v", pattern, err))
	}
	return re
}

// CompileWithConfig compiles pattern with a custom configuration.
//
// Example:
//
//	config := twinvm.DefaultConfig()
//	config.Engine = vm.KindBacktrack
//	re, err := twinvm.CompileWithConfig(`a+b`, config)
func CompileWithConfig(pattern string, config meta.Config) (*Regexp, error) {
	engine, err := meta.CompileWithConfig(pattern, config)
	if err != nil {
		return nil, err
	}
	return &Regexp{engine: engine, pattern: pattern}, nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() meta.Config {
	return meta.DefaultConfig()
}

// String returns the source pattern.
func (r *Regexp) String() string {
	return r.pattern
}

// NumSubexp returns the number of parenthesized subexpressions.
func (r *Regexp) NumSubexp() int {
	return r.engine.NumCaptures()
}

// Program returns the compiled bytecode.
func (r *Regexp) Program() *program.Program {
	return r.engine.Program()
}

// Kind returns the engine the Regexp runs on.
func (r *Regexp) Kind() vm.Kind {
	return r.engine.Kind()
}

// Stats returns the search statistics of the underlying engine.
func (r *Regexp) Stats() meta.Stats {
	return r.engine.Stats()
}

// MatchString reports whether s contains any match of the pattern.
func (r *Regexp) MatchString(s string) bool {
	return r.engine.Find(s) != nil
}

// MatchWhole reports whether the pattern matches all of s.
func (r *Regexp) MatchWhole(s string) bool {
	return r.engine.IsMatch(s)
}

// MatchPrefix returns the location [0, end] of the match that begins at the
// start of s, or nil.
func (r *Regexp) MatchPrefix(s string) []int {
	m := r.engine.MatchPrefix(s)
	if m == nil {
		return nil
	}
	return []int{m.Start(), m.End()}
}

// FindString returns the text of the leftmost match, or "".
func (r *Regexp) FindString(s string) string {
	m := r.engine.Find(s)
	if m == nil {
		return ""
	}
	return m.String()
}

// FindStringIndex returns the location of the leftmost match: s[loc[0]:loc[1]].
// Returns nil if no match is found.
func (r *Regexp) FindStringIndex(s string) []int {
	m := r.engine.Find(s)
	if m == nil {
		return nil
	}
	return []int{m.Start(), m.End()}
}

// FindStringSubmatchIndex returns index pairs for the leftmost match and its
// subexpressions. A subexpression that did not participate yields -1, -1.
// Under repetition a subexpression reports its last iteration.
func (r *Regexp) FindStringSubmatchIndex(s string) []int {
	m := r.engine.Find(s)
	if m == nil {
		return nil
	}
	return submatchIndex(m)
}

// FindStringSubmatch returns the text of the leftmost match and of its
// subexpressions, or nil.
func (r *Regexp) FindStringSubmatch(s string) []string {
	m := r.engine.Find(s)
	if m == nil {
		return nil
	}
	out := make([]string, 1+m.NumGroups())
	out[0] = m.String()
	for i := 0; i < m.NumGroups(); i++ {
		out[i+1] = m.GroupString(i)
	}
	return out
}

// FindAllString returns the text of successive matches. If n >= 0, it
// returns at most n matches.
func (r *Regexp) FindAllString(s string, n int) []string {
	matches := r.engine.FindAll(s, n)
	if len(matches) == 0 {
		return nil
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.String()
	}
	return out
}

// FindAllStringIndex returns the locations of successive matches. If
// n >= 0, it returns at most n matches.
func (r *Regexp) FindAllStringIndex(s string, n int) [][]int {
	matches := r.engine.FindAll(s, n)
	if len(matches) == 0 {
		return nil
	}
	out := make([][]int, len(matches))
	for i, m := range matches {
		out[i] = []int{m.Start(), m.End()}
	}
	return out
}

// FindAllStringSubmatchIndex is the All version of FindStringSubmatchIndex.
func (r *Regexp) FindAllStringSubmatchIndex(s string, n int) [][]int {
	matches := r.engine.FindAll(s, n)
	if len(matches) == 0 {
		return nil
	}
	out := make([][]int, len(matches))
	for i, m := range matches {
		out[i] = submatchIndex(m)
	}
	return out
}

func submatchIndex(m *meta.Match) []int {
	out := make([]int, 0, 2+2*m.NumGroups())
	out = append(out, m.Start(), m.End())
	for i := 0; i < m.NumGroups(); i++ {
		span, _ := m.Group(i)
		out = append(out, span.Start, span.End)
	}
	return out
}
