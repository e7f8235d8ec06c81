package job

import (
	"github.com/valerio/go-retrorun/retrorun/retro"
	"github.com/valerio/go-retrorun/retrorun/video"
)

// Result is everything a job produces.
//
// AVInfo and GameHash are plain values and copy cheaply. State and the
// Pixels of every frame are large buffers owned by whoever holds the Result;
// hand them to another execution context with Move, never by sharing.
type Result struct {
	AVInfo   retro.SystemAVInfo
	Frames   []video.Frame
	State    []byte
	GameHash string
}

// Value is the view for a consumer in the same memory space: a shallow copy
// whose buffers alias the receiver's.
func (r *Result) Value() Result {
	return *r
}

// Transferables lists the buffers whose ownership passes to a consumer in a
// separate execution context: the state snapshot first, then the pixels of
// each rendered frame in order. Blank frames have nothing to transfer.
func (r *Result) Transferables() []any {
	out := make([]any, 0, len(r.Frames)+1)
	if r.State != nil {
		out = append(out, r.State)
	}
	for _, f := range r.Frames {
		if !f.Blank() {
			out = append(out, f.Pixels)
		}
	}
	return out
}

// Move transfers ownership of every buffer to the returned Result and
// clears the receiver.
func (r *Result) Move() *Result {
	out := *r
	*r = Result{}
	return &out
}

// BlankFrames counts frames the engine chose not to render.
func (r *Result) BlankFrames() int {
	n := 0
	for _, f := range r.Frames {
		if f.Blank() {
			n++
		}
	}
	return n
}
