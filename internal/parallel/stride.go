package parallel

// AlignToDelta returns the least y' >= y with y' mod delta == offset.
//
// Workers partition destination rows into interleaved lattices: worker
// offset out of delta owns exactly the rows congruent to offset modulo
// delta. Every renderer loop starts at AlignToDelta of its top row and
// steps by delta, so two workers never touch the same row.
func AlignToDelta(y, offset, delta int) int {
	if delta <= 1 {
		return y
	}
	r := (y - offset) % delta
	if r < 0 {
		r += delta
	}
	if r == 0 {
		return y
	}
	return y + delta - r
}
