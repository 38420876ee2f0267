package router

// cursor records the last accepted (sequence, timestamp) pair for a task.
type cursor struct {
	seq int64
	ts  int64
}

// advances reports whether an envelope carrying (seq, ts) is strictly newer
// than the cursor. Sequence is authoritative: a lower sequence never wins on
// timestamp alone. At equal sequence the timestamp must advance.
func (c cursor) advances(seq, ts int64) bool {
	if seq != c.seq {
		return seq > c.seq
	}
	return ts > c.ts
}
