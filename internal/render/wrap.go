package render

import "strings"

// WrapLines greedily breaks s into lines whose measured width stays within
// maxWidth. A word is never split: one that alone exceeds maxWidth still
// occupies its own (overflowing) line. The final partial line is always
// committed.
func WrapLines(measure func(string) float64, s string, maxWidth float64) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		candidate := line + " " + word
		if measure(candidate) <= maxWidth {
			line = candidate
			continue
		}
		lines = append(lines, line)
		line = word
	}
	return append(lines, line)
}
