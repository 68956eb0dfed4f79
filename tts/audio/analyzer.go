package audio

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
)

// minWindowSamples is the shortest analysis window worth transforming.
const minWindowSamples = 128

// Bands computes numBands normalized band magnitudes in [0, 1] from a
// window of raw samples, for visualization.
//
// The window is Hann-weighted, transformed with a forward FFT, and the
// magnitudes of the non-redundant half of the spectrum are partitioned into
// logarithmically spaced bands. Each band is the RMS of its magnitudes, the
// result is normalized by the loudest band, and a ^0.7 power curve widens
// the visible dynamic range.
//
// Windows shorter than 128 samples, or with fewer spectrum magnitudes than
// requested bands, yield all-zero output. Bands never fails.
func Bands(samples []float64, numBands int) []float64 {
	if numBands < 0 {
		numBands = 0
	}
	bands := make([]float64, numBands)
	if numBands == 0 || len(samples) < minWindowSamples {
		return bands
	}

	seq := append([]float64(nil), samples...)
	window.Hann(seq)

	fft := fourier.NewFFT(len(seq))
	coeffs := fft.Coefficients(nil, seq)

	half := len(seq) / 2
	mags := make([]float64, half)
	for i := range mags {
		mags[i] = cmplx.Abs(coeffs[i])
	}

	if len(mags) < numBands {
		return bands
	}

	logMax := math.Log10(float64(len(mags)))
	for i := 0; i < numBands; i++ {
		start := int(math.Pow(10, logMax*float64(i)/float64(numBands)))
		end := int(math.Pow(10, logMax*float64(i+1)/float64(numBands)))
		if end > len(mags) {
			end = len(mags)
		}
		if end <= start {
			continue
		}
		var sumSq float64
		for _, m := range mags[start:end] {
			sumSq += m * m
		}
		bands[i] = math.Sqrt(sumSq / float64(end-start))
	}

	var maxBand float64
	for _, b := range bands {
		maxBand = math.Max(maxBand, b)
	}
	if maxBand > 0 {
		for i := range bands {
			bands[i] = math.Pow(bands[i]/maxBand, 0.7)
		}
	}

	return bands
}
