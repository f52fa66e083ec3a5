package logging

import "sync"

// Level of a recorded entry
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Entry is one recorded log call.
type Entry struct {
	Level   Level
	Message string
	Fields  Fields
}

// Recorder keeps every entry in memory and optionally forwards to Next.
type Recorder struct {
	Next Logger

	mu      sync.Mutex
	entries []Entry
}

// NewRecorder returns a Recorder forwarding to next (which may be nil).
func NewRecorder(next Logger) *Recorder {
	return &Recorder{Next: next}
}

func (r *Recorder) record(level Level, msg string, f Fields) {
	r.mu.Lock()
	r.entries = append(r.entries, Entry{Level: level, Message: msg, Fields: f})
	r.mu.Unlock()
}

func (r *Recorder) Debug(msg string, f Fields) {
	r.record(LevelDebug, msg, f)
	if r.Next != nil {
		r.Next.Debug(msg, f)
	}
}

func (r *Recorder) Info(msg string, f Fields) {
	r.record(LevelInfo, msg, f)
	if r.Next != nil {
		r.Next.Info(msg, f)
	}
}

func (r *Recorder) Warn(msg string, f Fields) {
	r.record(LevelWarn, msg, f)
	if r.Next != nil {
		r.Next.Warn(msg, f)
	}
}

func (r *Recorder) Error(msg string, f Fields) {
	r.record(LevelError, msg, f)
	if r.Next != nil {
		r.Next.Error(msg, f)
	}
}

// Entries returns a copy of everything recorded so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Warnings returns the messages of the recorded warnings, in order.
func (r *Recorder) Warnings() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.entries {
		if e.Level == LevelWarn {
			out = append(out, e.Message)
		}
	}
	return out
}
