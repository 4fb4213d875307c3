package file

import (
	"math"
	"math/cmplx"

	algofft "github.com/cwbudde/algo-fft"
)

const (
	// fftSize samples per analysis window. At 44.1 kHz one window spans
	// ~46 ms of audio with ~21.5 Hz bin resolution.
	fftSize = 2048

	// magBins is how many low-frequency bins each published frame carries.
	// The top of the range sits near sampleRate/4; the octaves above it
	// carry almost no visual information.
	magBins = fftSize / 4
)

// analyzer turns a window of mono samples into a magnitude spectrum.
type analyzer struct {
	plan *algofft.PlanRealT[float64, complex128]
	hann []float64
	buf  []float64
	spec []complex128
}

func newAnalyzer() (*analyzer, error) {
	plan, err := algofft.NewPlanReal64(fftSize)
	if err != nil {
		return nil, err
	}

	hann := make([]float64, fftSize)
	for i := range hann {
		hann[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(fftSize-1))
	}

	return &analyzer{
		plan: plan,
		hann: hann,
		buf:  make([]float64, fftSize),
		spec: make([]complex128, fftSize/2+1),
	}, nil
}

// magnitudes windows the samples, runs the forward transform, and returns a
// freshly allocated magnitude array in [0,1]. The returned slice is handed
// to the event bus, so it is never reused.
func (a *analyzer) magnitudes(samples []float64) ([]float64, error) {
	for i := range a.buf {
		a.buf[i] = samples[i] * a.hann[i]
	}
	if err := a.plan.Forward(a.spec, a.buf); err != nil {
		return nil, err
	}

	// Hann window halves the coherent gain, hence 4/N instead of 2/N.
	norm := 4.0 / float64(fftSize)
	mags := make([]float64, magBins)
	for k := 0; k < magBins; k++ {
		m := cmplx.Abs(a.spec[k+1]) * norm // k+1 skips the DC bin
		if m > 1 {
			m = 1
		}
		mags[k] = m
	}
	return mags, nil
}
