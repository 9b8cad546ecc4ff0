package textbook

// Neighbors returns the chapters before and after position i in reading
// order. Either is nil at the boundaries, and both are nil when i is out of
// range.
func Neighbors(chapters []Chapter, i int) (prev, next *Chapter) {
	if i < 0 || i >= len(chapters) {
		return nil, nil
	}
	if i > 0 {
		prev = &chapters[i-1]
	}
	if i < len(chapters)-1 {
		next = &chapters[i+1]
	}
	return prev, next
}
