package scoring

import "sort"

// minMaxNorm scales values to [0,1] by (v-min)/(max-min). A flat group is
// "no signal": every member normalizes to 0.0, not 1.0.
func minMaxNorm(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	minV, maxV := values[0], values[0]
	for _, v := range values[1:] {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	if maxV == minV {
		return out
	}
	for i, v := range values {
		out[i] = (v - minV) / (maxV - minV)
	}
	return out
}

// maxNorm scales values by the population maximum without subtracting the
// minimum. A zero maximum normalizes everything to 0.0.
func maxNorm(values []float64) []float64 {
	out := make([]float64, len(values))
	maxV := 0.0
	for _, v := range values {
		if v > maxV {
			maxV = v
		}
	}
	if maxV == 0 {
		return out
	}
	for i, v := range values {
		out[i] = v / maxV
	}
	return out
}

// rankOverall assigns competition ("min") ranks on overall score
// descending: tied scores share a rank, and the rank of any score is one
// plus the count of strictly better scores.
func rankOverall(rows []*row) {
	scores := make([]float64, len(rows))
	for i, r := range rows {
		scores[i] = r.overallScore
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(scores)))
	for _, r := range rows {
		// First index of the score in the descending order is the
		// number of strictly better scores.
		idx := sort.Search(len(scores), func(i int) bool { return scores[i] <= r.overallScore })
		r.overallRank = idx + 1
	}
}
