package memory

// sequence hands out identifiers the way a bigserial column does:
// starting at 1, strictly increasing, never reused after a delete.
// Callers hold Store.mu.
type sequence struct {
	last int64
}

func (q *sequence) next() int64 {
	q.last++
	return q.last
}
