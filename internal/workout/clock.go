package workout

// Clock is a one-second countdown. It has no timer of its own; the caller
// decides when to tick.
type Clock struct {
	remaining int
}

// Tick decrements the counter by one and reports whether it reached zero.
// A clock already at zero stays there and keeps reporting expiry.
func (c *Clock) Tick() bool {
	if c.remaining > 0 {
		c.remaining--
	}
	return c.remaining == 0
}

// Reset overwrites the counter. Negative values load as zero.
func (c *Clock) Reset(v int) {
	if v < 0 {
		v = 0
	}
	c.remaining = v
}

// Remaining is the number of seconds left.
func (c *Clock) Remaining() int {
	return c.remaining
}
