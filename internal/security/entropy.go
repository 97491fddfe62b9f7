package security

import (
	"math"
	"strings"
)

// Entropy thresholds for classifying a value as a probable secret.
// Random tokens land near 5 bits per character; English prose with its
// large alphabet of letters and spaces can reach 4.1, so the cutoff
// sits above that. Short strings are skipped because entropy estimates
// on a handful of characters are noise.
const (
	entropyThreshold = 4.5
	entropyMinLength = 16
)

// ShannonEntropy computes the Shannon entropy of s in bits per character.
func ShannonEntropy(s string) float64 {
	if s == "" {
		return 0
	}

	freq := make(map[rune]int)
	for _, r := range s {
		freq[r]++
	}

	length := float64(len([]rune(s)))
	var entropy float64
	for _, count := range freq {
		p := float64(count) / length
		entropy -= p * math.Log2(p)
	}
	return entropy
}

// LooksRandom reports whether a value has the statistical profile of a
// generated token: long enough to measure, free of whitespace, and high
// in entropy. Generated tokens never contain spaces, so their presence
// rules a value out regardless of entropy.
func LooksRandom(value string) bool {
	if len(value) < entropyMinLength {
		return false
	}
	if strings.ContainsAny(value, " \t") {
		return false
	}
	return ShannonEntropy(value) >= entropyThreshold
}
