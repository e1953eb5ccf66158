package query

// Window is a skip/take pagination window.
type Window struct {
	Skip uint64
	Take uint64
}

// Bounds returns the [start, end) slice bounds of the window over n items.
func (w Window) Bounds(n int) (int, int) {
	total := uint64(n)
	if w.Skip >= total {
		return n, n
	}
	end := total
	if w.Take > 0 && w.Take < total-w.Skip {
		end = w.Skip + w.Take
	}
	return int(w.Skip), int(end)
}
