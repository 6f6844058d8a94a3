package vm

import "github.com/coregx/twinvm/program"

// threadCore is the state shared by the threads of both engines: a program
// counter and one capture stack per group.
type threadCore struct {
	pc       program.Addr
	captures []CaptureStack
}

func newThreadCore(pc program.Addr, numCaptures int) threadCore {
	var caps []CaptureStack
	if numCaptures > 0 {
		caps = make([]CaptureStack, numCaptures)
	}
	return threadCore{pc: pc, captures: caps}
}

func (t *threadCore) advance() {
	t.pc++
}

func (t *threadCore) goTo(pc program.Addr) {
	t.pc = pc
}

func (t *threadCore) beginCapture(id, pos int) {
	t.captures[id].begin(pos)
}

func (t *threadCore) endCapture(id, pos int) {
	t.captures[id].end(pos)
}

// clone deep-copies the capture stacks so the two threads can diverge.
func (t threadCore) clone() threadCore {
	if t.captures == nil {
		return t
	}
	caps := make([]CaptureStack, len(t.captures))
	for i, c := range t.captures {
		caps[i] = c.clone()
	}
	return threadCore{pc: t.pc, captures: caps}
}
