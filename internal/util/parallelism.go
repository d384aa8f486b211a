package util

import "runtime"

// Parallelism returns the worker count the classifier's pool should use:
// the host's available CPUs, with a floor of 1.
func Parallelism() int {
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		return 1
	}
	return n
}
