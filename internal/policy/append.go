// Package policy implements the engine's pure, stateless decision
// functions: how to append a message, when to finalize the current
// file, when and what to purge, and how to schedule retries. Each type
// is an explicit strategy object injected at construction, the Go
// rendition of spec.md §9's "configuration struct (data) plus small
// strategy objects (behavior)".
package policy

import "github.com/vnykmshr/fsqueue/internal/fs"

// AppendPolicy decides how a message is serialized into the current
// file and how many bytes it contributes to the finalize-by-size check.
type AppendPolicy interface {
	// MessageSizeInBytes returns the number of bytes AppendToFile will
	// write for msg, including any separator or framing.
	MessageSizeInBytes(msg []byte) uint64
	// AppendToFile writes msg (and any separator/framing) to f.
	AppendToFile(f fs.OutputFile, msg []byte) error
}

// SeparatorAppend appends a configurable separator after each message
// (the default is a single newline). This mirrors the original
// implementation's AppendToFileWithSeparator, whose separator was a
// runtime-settable field rather than fixed at compile time — carried
// forward here as the exported Separator field, set through
// NewSeparatorAppend from fsqueue.WithAppendSeparator.
type SeparatorAppend struct {
	Separator []byte
}

// NewSeparatorAppend returns a SeparatorAppend using sep as the
// per-message separator. An empty separator reproduces the
// "JustAppendToFile" behavior of writing raw, unseparated bytes.
func NewSeparatorAppend(sep []byte) *SeparatorAppend {
	return &SeparatorAppend{Separator: sep}
}

// MessageSizeInBytes returns len(msg) plus the separator length, per
// spec.md §4.C ("size must include the separator").
func (p *SeparatorAppend) MessageSizeInBytes(msg []byte) uint64 {
	return uint64(len(msg) + len(p.Separator))
}

// AppendToFile writes msg followed by the separator.
func (p *SeparatorAppend) AppendToFile(f fs.OutputFile, msg []byte) error {
	if _, err := f.Write(msg); err != nil {
		return err
	}
	if len(p.Separator) > 0 {
		if _, err := f.Write(p.Separator); err != nil {
			return err
		}
	}
	return nil
}
