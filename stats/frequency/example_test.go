package frequency_test

import (
	"fmt"

	"github.com/cwbudde/windprobe/stats/frequency"
)

func ExampleCalculate() {
	freqs := []float64{1, 2, 3, 4}
	psd := []float64{1, 3, 1, 1}

	s := frequency.Calculate(freqs, psd)
	fmt.Printf("peak=%g Hz variance=%.1f centroid=%.2f Hz\n", s.PeakFrequency, s.Variance, s.Centroid)
	// Output:
	// peak=2 Hz variance=5.0 centroid=2.33 Hz
}
