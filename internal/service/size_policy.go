package service

import (
	"fmt"
	"math"
)

const bytesPerMB = 1024 * 1024

// SizeDecision is the outcome of a size check
type SizeDecision struct {
	SizeMB   float64
	LimitMB  int
	Accepted bool
	Message  string
}

// EffectiveBytes picks the exact size when known and non-zero, then the
// approximate size, then zero.
func EffectiveBytes(filesize, approx *int64) int64 {
	if filesize != nil && *filesize != 0 {
		return *filesize
	}
	if approx != nil {
		return *approx
	}
	return 0
}

// EvaluateSize checks a media size against limitMB. Unknown sizes count as
// zero and are accepted.
func EvaluateSize(filesize, approx *int64, limitMB int) SizeDecision {
	sizeMB := float64(EffectiveBytes(filesize, approx)) / bytesPerMB

	decision := SizeDecision{
		SizeMB:   sizeMB,
		LimitMB:  limitMB,
		Accepted: sizeMB <= float64(limitMB),
	}
	if !decision.Accepted {
		decision.Message = fmt.Sprintf("File size (%.2fMB) exceeds limit (%dMB)", sizeMB, limitMB)
	}
	return decision
}

// roundMB rounds a megabyte figure to two decimals.
func roundMB(mb float64) float64 {
	return math.Round(mb*100) / 100
}
