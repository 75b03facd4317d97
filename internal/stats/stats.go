package stats

import "math"

// Mean returns the arithmetic mean of data, or 0 for an empty slice.
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

// Max returns the largest sample. The accumulator starts at 0, so the result
// is never negative.
func Max(data []float64) float64 {
	max := 0.0
	for _, v := range data {
		if v > max {
			max = v
		}
	}
	return max
}

// StdDev returns the population standard deviation of data around mean.
func StdDev(mean float64, data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sd := 0.0
	for _, v := range data {
		sd += math.Pow(v-mean, 2)
	}
	return math.Sqrt(sd / float64(len(data)))
}
