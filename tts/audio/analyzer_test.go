package audio

import (
	"math"
	"testing"
)

// sine returns n samples of a pure tone.
func sine(n int, freq, sampleRate float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
	}
	return s
}

func TestBandsShape(t *testing.T) {
	samples := sine(1024, 440, 22050)
	for _, n := range []int{1, 8, 16, 64} {
		bands := Bands(samples, n)
		if len(bands) != n {
			t.Fatalf("Bands(_, %d) returned %d bands", n, len(bands))
		}
		for i, b := range bands {
			if b < 0 || b > 1 {
				t.Errorf("numBands=%d band %d = %v outside [0, 1]", n, i, b)
			}
		}
	}
}

func TestBandsNormalization(t *testing.T) {
	bands := Bands(sine(2048, 440, 22050), 16)
	var maxBand float64
	for _, b := range bands {
		maxBand = math.Max(maxBand, b)
	}
	if math.Abs(maxBand-1) > 1e-9 {
		t.Errorf("loudest band = %v, want 1", maxBand)
	}
}

func TestBandsToneHasEnergy(t *testing.T) {
	bands := Bands(sine(2048, 440, 22050), 16)
	var total float64
	for _, b := range bands {
		total += b
	}
	if total == 0 {
		t.Error("pure tone produced all-zero bands")
	}
}

func TestBandsShortWindow(t *testing.T) {
	bands := Bands(sine(127, 440, 22050), 16)
	if len(bands) != 16 {
		t.Fatalf("got %d bands, want 16", len(bands))
	}
	for i, b := range bands {
		if b != 0 {
			t.Errorf("band %d = %v, want 0 for short window", i, b)
		}
	}
}

func TestBandsSilence(t *testing.T) {
	for i, b := range Bands(make([]float64, 1024), 16) {
		if b != 0 {
			t.Errorf("band %d = %v, want 0 for silence", i, b)
		}
	}
}

func TestBandsMoreBandsThanMagnitudes(t *testing.T) {
	// 128 samples yield 64 magnitudes; asking for more must yield zeros.
	bands := Bands(sine(128, 440, 22050), 100)
	if len(bands) != 100 {
		t.Fatalf("got %d bands, want 100", len(bands))
	}
	for i, b := range bands {
		if b != 0 {
			t.Errorf("band %d = %v, want 0", i, b)
		}
	}
}

func TestBandsDegenerateCounts(t *testing.T) {
	samples := sine(1024, 440, 22050)
	if got := Bands(samples, 0); len(got) != 0 {
		t.Errorf("Bands(_, 0) returned %d bands", len(got))
	}
	if got := Bands(samples, -3); len(got) != 0 {
		t.Errorf("Bands(_, -3) returned %d bands", len(got))
	}
}

func TestBandsDoesNotMutateInput(t *testing.T) {
	samples := sine(1024, 440, 22050)
	orig := append([]float64(nil), samples...)
	Bands(samples, 16)
	for i := range samples {
		if samples[i] != orig[i] {
			t.Fatal("Bands mutated its input window")
		}
	}
}
