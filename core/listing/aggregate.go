package listing

import "math"

func Sum[T any](items []T, f func(T) float64) float64 {
	var total float64
	for _, item := range items {
		total += f(item)
	}
	return total
}

func Count[T any](items []T, pred func(T) bool) int {
	var n int
	for _, item := range items {
		if pred(item) {
			n++
		}
	}
	return n
}

// Average returns 0 for an empty collection.
func Average[T any](items []T, f func(T) float64) float64 {
	if len(items) == 0 {
		return 0
	}
	return Sum(items, f) / float64(len(items))
}

// Ratio returns part/whole, or 0 when whole is 0.
func Ratio(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole
}

// Percent returns part/whole as a percentage, or 0 when whole is 0.
func Percent(part, whole float64) float64 {
	return Ratio(part, whole) * 100
}

// GroupSum sums f per key(item).
func GroupSum[T any](items []T, key func(T) string, f func(T) float64) map[string]float64 {
	groups := make(map[string]float64)
	for _, item := range items {
		groups[key(item)] += f(item)
	}
	return groups
}

// Round rounds x to 2 decimal places.
func Round(x float64) float64 {
	return math.Round(x*100) / 100
}
