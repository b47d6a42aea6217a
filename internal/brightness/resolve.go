package brightness

// Bounds is the valid brightness range of a monitor model.
type Bounds struct {
	Min int
	Max int
}

// Span returns the width of the range.
func (b Bounds) Span() int {
	return b.Max - b.Min
}

// Clamp saturates v into the range. Values below Min become Min, values
// above Max become Max; clamping never wraps.
func (b Bounds) Clamp(v int) int {
	if v < b.Min {
		return b.Min
	}
	if v > b.Max {
		return b.Max
	}
	return v
}

// Resolve computes the value to write to the device for a classified token.
// current is the brightness previously read from the device and is only
// consulted for relative tokens. Percentage magnitudes are scaled over the
// bounds span with truncating integer division. The result always lies
// within bounds; clamping is the final step.
func Resolve(tok Token, b Bounds, current int) int {
	switch {
	case tok.Kind == Absolute && !tok.Percent:
		return b.Clamp(tok.Magnitude)
	case tok.Kind == Absolute && tok.Percent:
		pct := tok.Magnitude
		if pct < 0 {
			pct = 0
		}
		if pct > 100 {
			pct = 100
		}
		return b.Clamp(b.Min + pct*b.Span()/100)
	case tok.Percent:
		scaled := tok.Magnitude * b.Span() / 100
		return b.Clamp(current + tok.Sign*scaled)
	default:
		return b.Clamp(current + tok.Sign*tok.Magnitude)
	}
}
