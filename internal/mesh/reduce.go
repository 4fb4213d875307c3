package mesh

// Reduce collapses a magnitude array of arbitrary length into exactly cols
// influence values by block-averaging proportional slices of the input.
//
// Edge cases: cols <= 0 returns an empty slice; an empty spectrum returns
// cols zeros; when the spectrum is shorter than cols, slices that contain
// no bins produce 0.
//
// Reduce is pure and deterministic. It is called from the simulation
// goroutine only and has no threading concerns of its own.
func Reduce(spectrum []float64, cols int) []float64 {
	if cols <= 0 {
		return nil
	}
	out := make([]float64, cols)
	ReduceInto(out, spectrum)
	return out
}

// ReduceInto is Reduce writing into a caller-owned buffer, so the
// simulation loop can reuse its column scratch across frames.
func ReduceInto(dst []float64, spectrum []float64) {
	cols := len(dst)
	if cols == 0 {
		return
	}
	n := len(spectrum)
	if n == 0 {
		for i := range dst {
			dst[i] = 0
		}
		return
	}

	for i := 0; i < cols; i++ {
		// The i-th proportional slice of the input, [lo, hi).
		lo := i * n / cols
		hi := (i + 1) * n / cols
		if hi <= lo {
			dst[i] = 0
			continue
		}
		var sum float64
		for _, m := range spectrum[lo:hi] {
			sum += m
		}
		dst[i] = sum / float64(hi-lo)
	}
}
