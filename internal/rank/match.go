package rank

import "sort"

// Pair holds the two ranks a label received in two orderings
type Pair struct {
	RankA int    `yaml:"rank_a"`
	RankB int    `yaml:"rank_b"`
	Label string `yaml:"label"`
}

// Match joins a and b on label. The shorter list is indexed and the longer
// one is walked, so pairs come out in the walked list's order; when both
// have the same length b is walked. Labels missing from either side are
// dropped and repeated labels yield one pair per combination.
func Match(a, b []Ranked) []Pair {
	walkA := len(a) > len(b)

	indexed, walked := a, b
	if walkA {
		indexed, walked = b, a
	}

	positions := make(map[string][]int, len(indexed))
	for i, r := range indexed {
		positions[r.Label] = append(positions[r.Label], i)
	}

	var pairs []Pair
	for _, w := range walked {
		for _, i := range positions[w.Label] {
			other := indexed[i]
			if walkA {
				pairs = append(pairs, Pair{RankA: w.Rank, RankB: other.Rank, Label: w.Label})
			} else {
				pairs = append(pairs, Pair{RankA: other.Rank, RankB: w.Rank, Label: w.Label})
			}
		}
	}
	return pairs
}

// SortPairs orders pairs by RankA, then RankB, then Label
func SortPairs(pairs []Pair) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].RankA != pairs[j].RankA {
			return pairs[i].RankA < pairs[j].RankA
		}
		if pairs[i].RankB != pairs[j].RankB {
			return pairs[i].RankB < pairs[j].RankB
		}
		return pairs[i].Label < pairs[j].Label
	})
}

// Unmatched returns the labels of a absent from b and of b absent from a
func Unmatched(a, b []Ranked) (onlyA, onlyB []string) {
	inA := make(map[string]struct{}, len(a))
	for _, r := range a {
		inA[r.Label] = struct{}{}
	}
	inB := make(map[string]struct{}, len(b))
	for _, r := range b {
		inB[r.Label] = struct{}{}
	}

	for _, r := range a {
		if _, ok := inB[r.Label]; !ok {
			onlyA = append(onlyA, r.Label)
		}
	}
	for _, r := range b {
		if _, ok := inA[r.Label]; !ok {
			onlyB = append(onlyB, r.Label)
		}
	}
	return onlyA, onlyB
}

// Split returns the A and B ranks of pairs as two parallel slices
func Split(pairs []Pair) (ranksA, ranksB []float64) {
	ranksA = make([]float64, len(pairs))
	ranksB = make([]float64, len(pairs))
	for i, p := range pairs {
		ranksA[i] = float64(p.RankA)
		ranksB[i] = float64(p.RankB)
	}
	return ranksA, ranksB
}
