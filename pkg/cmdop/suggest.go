// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdop

import "strings"

// closestMatch returns the candidate closest to target, or "" when none is
// close enough to be a likely typo.
func closestMatch(target string, candidates []string) string {
	if target == "" || len(candidates) == 0 {
		return ""
	}
	low := strings.ToLower(target)
	best, bestDist := "", -1
	for _, c := range candidates {
		lc := strings.ToLower(c)
		if lc == low {
			continue
		}
		if abs(len(lc)-len(low)) > 3 {
			continue
		}
		d := levenshtein(low, lc)
		if isTransposition(low, lc) {
			d = 1
		}
		if bestDist == -1 || d < bestDist {
			best, bestDist = c, d
		}
	}
	threshold := 1
	if len(low) > 4 {
		threshold = 2
	}
	if bestDist == -1 || bestDist > threshold {
		return ""
	}
	return best
}

func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if a == "" {
		return len(b)
	}
	if b == "" {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// isTransposition reports whether a and b differ by one swap of adjacent
// characters.
func isTransposition(a, b string) bool {
	if len(a) != len(b) || len(a) < 2 {
		return false
	}
	i := 0
	for i < len(a) && a[i] == b[i] {
		i++
	}
	if i >= len(a)-1 {
		return false
	}
	return a[i] == b[i+1] && a[i+1] == b[i] && a[i+2:] == b[i+2:]
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
