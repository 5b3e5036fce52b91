package history

// DecayScale is the multiplier applied to a food's preference weight when it
// was last served daysAgo days before. It is 0 for a same-day repeat and
// approaches 1 as the gap grows.
func DecayScale(daysAgo int) float64 {
	if daysAgo <= 0 {
		return 0
	}
	return float64(daysAgo) / float64(daysAgo+1)
}
