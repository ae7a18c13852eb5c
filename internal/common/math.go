package common

// Abs returns the absolute value of an integer
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Max returns the maximum of two integers
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// ChebyshevDistance is the number of king moves between two cells
func ChebyshevDistance(r1, c1, r2, c2 int) int {
	return Max(Abs(r1-r2), Abs(c1-c2))
}
