package audio

import "sync"

// State tracks one chapter's availability probe for a given edition.
type State int

const (
	Unchecked State = iota
	Checking
	Available
	Unavailable
)

func (s State) String() string {
	switch s {
	case Checking:
		return "checking"
	case Available:
		return "available"
	case Unavailable:
		return "unavailable"
	default:
		return "unchecked"
	}
}

// Clickable reports whether the UI may offer playback for a chapter in this
// state. Unchecked chapters are optimistically clickable pending a
// just-in-time check; only a confirmed Unavailable gates the affordance.
func (s State) Clickable() bool {
	return s == Unchecked || s == Available
}

// Availability is the shared per-chapter availability map. Available and
// Unavailable are terminal until the edition selection changes, which
// resets every affected chapter back to Unchecked via ResetEdition.
//
// Each reset bumps a generation counter. Scans stamp themselves with the
// generation they started under and their commits are rejected once a reset
// supersedes them, so a slow scan for a previous selection cannot write
// stale results over a fresh one.
type Availability struct {
	mu     sync.Mutex
	gen    uint64
	states map[string]State
}

func NewAvailability() *Availability {
	return &Availability{states: make(map[string]State)}
}

func key(audioBibleID, chapterID string) string {
	return audioBibleID + "/" + chapterID
}

// State returns the recorded state for a chapter under an edition.
func (a *Availability) State(audioBibleID, chapterID string) State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.states[key(audioBibleID, chapterID)]
}

// Generation returns the stamp a new scan should carry.
func (a *Availability) Generation() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gen
}

// ResetEdition discards all recorded states and invalidates in-flight
// scans. Called when the edition (or book) selection changes.
func (a *Availability) ResetEdition() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.gen++
	a.states = make(map[string]State)
}

// begin marks a chapter as Checking. It refuses when the generation is
// stale or the chapter already reached a terminal state.
func (a *Availability) begin(gen uint64, audioBibleID, chapterID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.gen {
		return false
	}
	k := key(audioBibleID, chapterID)
	if s := a.states[k]; s == Available || s == Unavailable {
		return true // terminal already; re-checking is allowed but a no-op transition
	}
	a.states[k] = Checking
	return true
}

// commit records a probe verdict, unless a reset superseded the scan that
// produced it. Terminal states only change through ResetEdition, so a
// re-check of an already-settled chapter leaves the recorded verdict alone.
func (a *Availability) commit(gen uint64, audioBibleID, chapterID string, available bool) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.gen {
		return false
	}
	k := key(audioBibleID, chapterID)
	if s := a.states[k]; s == Available || s == Unavailable {
		return true
	}
	if available {
		a.states[k] = Available
	} else {
		a.states[k] = Unavailable
	}
	return true
}
