package errorx

import (
	"fmt"
	"runtime"
	"strings"
)

const stackTraceDepth = 32

type Frame struct {
	File     string
	Line     int
	Function string
}

// String renders the frame as "\tat pkg.Func (file:line)".
func (f Frame) String() string {
	name := f.Function
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return fmt.Sprintf("\tat %s (%s:%d)", name, f.File, f.Line)
}

// Callers holds the program counters of a captured stack.
type Callers []uintptr

func (c Callers) Frames() []Frame {
	if len(c) == 0 {
		return nil
	}

	frames := make([]Frame, 0, len(c))
	it := runtime.CallersFrames(c)
	for {
		f, more := it.Next()
		frames = append(frames, Frame{File: f.File, Line: f.Line, Function: f.Function})
		if !more {
			return frames
		}
	}
}

func (c Callers) String() string {
	var b strings.Builder
	for _, f := range c.Frames() {
		b.WriteString(f.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// callers captures the stack of its caller's caller, skipping skip more frames.
func callers(skip int) Callers {
	pcs := make([]uintptr, stackTraceDepth)
	n := runtime.Callers(skip+2, pcs)
	return pcs[:n]
}
