package metrics

// window is a fixed-capacity ring of durations. Pushing onto a full window
// overwrites the oldest entry. Not safe for concurrent use; Registry guards it.
type window struct {
	buf   []float64
	start int
	size  int
}

func newWindow(capacity int) *window {
	if capacity < 1 {
		capacity = 1
	}
	return &window{buf: make([]float64, capacity)}
}

func (w *window) push(v float64) {
	if w.size < len(w.buf) {
		w.buf[(w.start+w.size)%len(w.buf)] = v
		w.size++
		return
	}
	w.buf[w.start] = v
	w.start = (w.start + 1) % len(w.buf)
}

func (w *window) len() int { return w.size }

// last copies the newest n entries, oldest first.
func (w *window) last(n int) []float64 {
	if n > w.size {
		n = w.size
	}
	if n < 0 {
		n = 0
	}
	out := make([]float64, n)
	offset := w.size - n
	for i := 0; i < n; i++ {
		out[i] = w.buf[(w.start+offset+i)%len(w.buf)]
	}
	return out
}

func (w *window) sum() float64 {
	var total float64
	for i := 0; i < w.size; i++ {
		total += w.buf[(w.start+i)%len(w.buf)]
	}
	return total
}
