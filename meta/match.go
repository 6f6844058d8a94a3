package meta

import "github.com/coregx/twinvm/vm"

// Match is a successful search result: the span [Start, End) of the input
// plus the capture stacks of the winning thread.
type Match struct {
	start    int
	end      int
	input    string
	captures []vm.CaptureStack
}

// NewMatch creates a Match over input.
func NewMatch(start, end int, input string, captures []vm.CaptureStack) *Match {
	return &Match{
		start:    start,
		end:      end,
		input:    input,
		captures: captures,
	}
}

// Start returns the byte offset where the match begins.
func (m *Match) Start() int {
	return m.start
}

// End returns the byte offset just past the match.
func (m *Match) End() int {
	return m.end
}

// Len returns the length of the match in bytes.
func (m *Match) Len() int {
	return m.end - m.start
}

// IsEmpty reports whether the match has zero length.
func (m *Match) IsEmpty() bool {
	return m.start == m.end
}

// String returns the matched text.
func (m *Match) String() string {
	return m.input[m.start:m.end]
}

// NumGroups returns the number of capture groups of the program.
func (m *Match) NumGroups() int {
	return len(m.captures)
}

// Group returns the last completed span of capture group id.
func (m *Match) Group(id int) (vm.Span, bool) {
	if id < 0 || id >= len(m.captures) {
		return vm.Span{Start: -1, End: -1}, false
	}
	return m.captures[id].Last()
}

// GroupString returns the text of Group(id), or "" if it did not
// participate.
func (m *Match) GroupString(id int) string {
	span, ok := m.Group(id)
	if !ok {
		return ""
	}
	return m.input[span.Start:span.End]
}

// Captures returns the full capture history, one stack per group.
func (m *Match) Captures() []vm.CaptureStack {
	return m.captures
}
