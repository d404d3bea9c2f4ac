package badge

import "time"

// colorScale maps a numeric value onto a color ramp: the value picks the
// color of the first threshold it falls under, or the last color past every
// threshold. len(colors) must be len(thresholds)+1.
type colorScale struct {
	thresholds []float64
	colors     []string
}

func (s colorScale) pick(v float64) string {
	for i, t := range s.thresholds {
		if v < t {
			return s.colors[i]
		}
	}
	return s.colors[len(s.colors)-1]
}

// commentsScale darkens as discussion volume grows.
var commentsScale = colorScale{
	thresholds: []float64{1, 3, 10, 25, 100},
	colors:     []string{"brightgreen", "green", "yellowgreen", "yellow", "orange", "red"},
}

// ageScale darkens as the resource goes stale: a week, a month, half a
// year, a year, two years.
var ageScale = colorScale{
	thresholds: []float64{7, 30, 180, 365, 730},
	colors:     []string{"brightgreen", "green", "yellowgreen", "yellow", "orange", "red"},
}

func commentsColor(count int) string {
	return commentsScale.pick(float64(count))
}

func ageColor(elapsed time.Duration) string {
	return ageScale.pick(elapsed.Hours() / 24)
}
