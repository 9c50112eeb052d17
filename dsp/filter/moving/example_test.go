package moving_test

import (
	"fmt"

	"github.com/cwbudde/windprobe/dsp/filter/moving"
)

func ExampleCentered() {
	out, _ := moving.Centered([]float64{1, 2, 3, 4, 5, 6, 7, 8}, 3)
	fmt.Println(out)
	// Output:
	// [1.5 2 3 4 5 6 7 7.5]
}
