// Package history keeps bounded undo/redo stacks of memory snapshots.
package history

// DefaultLimit is the number of undo steps kept per editing domain.
const DefaultLimit = 50

// Domain tags which editor a snapshot belongs to.
type Domain uint8

const (
	DomainPixels Domain = iota
	DomainTiles
	DomainSound
	DomainPattern
)

// String returns the domain name.
func (d Domain) String() string {
	switch d {
	case DomainPixels:
		return "pixels"
	case DomainTiles:
		return "tiles"
	case DomainSound:
		return "sound"
	case DomainPattern:
		return "pattern"
	default:
		return "unknown"
	}
}

// Snapshot is a copy of a byte range of one domain's memory. Offset locates
// Data inside that domain's backing array; whole-array snapshots use 0.
type Snapshot struct {
	Domain Domain
	Offset int
	Data   []byte
}

// ring is a fixed-capacity LIFO that evicts its oldest entry when full.
type ring struct {
	buf   []Snapshot
	start int
	n     int
}

func newRing(limit int) ring {
	return ring{buf: make([]Snapshot, limit)}
}

func (r *ring) push(s Snapshot) {
	if len(r.buf) == 0 {
		return
	}
	if r.n == len(r.buf) {
		r.buf[r.start] = Snapshot{}
		r.start = (r.start + 1) % len(r.buf)
		r.n--
	}
	r.buf[(r.start+r.n)%len(r.buf)] = s
	r.n++
}

func (r *ring) pop() (Snapshot, bool) {
	if r.n == 0 {
		return Snapshot{}, false
	}
	i := (r.start + r.n - 1) % len(r.buf)
	s := r.buf[i]
	r.buf[i] = Snapshot{}
	r.n--
	return s, true
}

// at returns the i-th entry counting from the oldest.
func (r *ring) at(i int) Snapshot {
	return r.buf[(r.start+i)%len(r.buf)]
}

func (r *ring) clear() {
	for i := range r.buf {
		r.buf[i] = Snapshot{}
	}
	r.start, r.n = 0, 0
}

// Stack is the undo/redo pair for one editing domain.
type Stack struct {
	undo ring
	redo ring
}

// New returns a stack holding at most limit undo (and redo) entries.
// A non-positive limit selects DefaultLimit.
func New(limit int) *Stack {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Stack{undo: newRing(limit), redo: newRing(limit)}
}

// Push records the pre-mutation state. It must be called right before the
// mutation it guards, and it discards any redo history.
func (s *Stack) Push(snap Snapshot) {
	s.undo.push(snap)
	s.redo.clear()
}

// Undo pops the most recent snapshot. capture is called with it and must
// return a snapshot of the same range as it is now, which becomes the redo
// entry. The popped snapshot is returned for the caller to apply.
func (s *Stack) Undo(capture func(Snapshot) Snapshot) (Snapshot, bool) {
	snap, ok := s.undo.pop()
	if !ok {
		return Snapshot{}, false
	}
	s.redo.push(capture(snap))
	return snap, true
}

// Redo is the inverse of Undo.
func (s *Stack) Redo(capture func(Snapshot) Snapshot) (Snapshot, bool) {
	snap, ok := s.redo.pop()
	if !ok {
		return Snapshot{}, false
	}
	s.undo.push(capture(snap))
	return snap, true
}

// Len reports the number of undo entries.
func (s *Stack) Len() int { return s.undo.n }

// RedoLen reports the number of redo entries.
func (s *Stack) RedoLen() int { return s.redo.n }

// Oldest returns the oldest undo entry still held.
func (s *Stack) Oldest() (Snapshot, bool) {
	if s.undo.n == 0 {
		return Snapshot{}, false
	}
	return s.undo.at(0), true
}

// Reset drops all history.
func (s *Stack) Reset() {
	s.undo.clear()
	s.redo.clear()
}
