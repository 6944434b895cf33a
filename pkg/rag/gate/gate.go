package gate

// Position is a reader position on the book's chunk order. Chapter and
// Index are the coarse, unambiguous gate granularity; finer fractional
// offsets are display-only and never consulted here.
type Position struct {
	Chapter int
	Index   int
}

// Admits reports whether a chunk at (chapter, index) is at or before the
// position, i.e. the reader has already reached it. The predicate is
// applied before ranking; a chunk that fails it must never reach the
// model's context.
func (p Position) Admits(chapter, index int) bool {
	if chapter < p.Chapter {
		return true
	}
	return chapter == p.Chapter && index <= p.Index
}

// Less orders positions by (chapter, index).
func (p Position) Less(other Position) bool {
	if p.Chapter != other.Chapter {
		return p.Chapter < other.Chapter
	}
	return p.Index < other.Index
}
