package main

import (
	"fmt"
	"strconv"
	"strings"
)

// parseProbe reads an "x,y" probe location.
func parseProbe(s string) (x, y float64, err error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("probe %q: expected x,y", s)
	}
	if x, err = strconv.ParseFloat(strings.TrimSpace(xs), 64); err != nil {
		return 0, 0, fmt.Errorf("probe %q: %w", s, err)
	}
	if y, err = strconv.ParseFloat(strings.TrimSpace(ys), 64); err != nil {
		return 0, 0, fmt.Errorf("probe %q: %w", s, err)
	}
	return x, y, nil
}
