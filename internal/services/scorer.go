package services

import "math"

// CosineSimilarity computes the normalized dot product of two vectors, in
// [-1, 1]. Zero-norm or mismatched-length input yields 0.0 rather than a
// division fault.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// SimilarityPercentage rescales a cosine similarity from [-1, 1] to a
// percentage: identical vectors map to 100, opposite vectors to 0, orthogonal
// to 50.
func SimilarityPercentage(cos float64) float64 {
	return round1(((cos + 1) / 2) * 100)
}

// ATSScore blends the skill-match ratio, keyword coverage, and similarity
// percentage into a single 0-100 score. Ratio and coverage carry the same
// value today (both are matched/total over the job-description skill set) but
// stay separate inputs so the 0.5/0.3 weights remain explicit.
func ATSScore(matchRatio, coverage, similarityPct float64) float64 {
	return round1(0.5*(matchRatio*100) + 0.3*(coverage*100) + 0.2*similarityPct)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
