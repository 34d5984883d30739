package util

var BoxSizes = []int{32, 24, 16, 8, 4, 2, 1}

func IsBoxSize(size int) bool {
	for _, s := range BoxSizes {
		if s == size {
			return true
		}
	}
	return false
}

// BreakdownIntoBoxes greedily packs quantity into the largest allowed
// container sizes first. A remainder that no allowed size fits is dropped;
// BoxLeftover reports it.
func BreakdownIntoBoxes(quantity, maxBoxSize int) map[int]int {
	out := map[int]int{}
	remaining := quantity
	for _, size := range BoxSizes {
		if size > maxBoxSize || remaining <= 0 {
			continue
		}
		if count := remaining / size; count > 0 {
			out[size] = count
			remaining -= size * count
		}
	}
	return out
}

func BoxLeftover(quantity, maxBoxSize int) int {
	if quantity <= 0 {
		return 0
	}
	packed := 0
	for size, count := range BreakdownIntoBoxes(quantity, maxBoxSize) {
		packed += size * count
	}
	return quantity - packed
}
