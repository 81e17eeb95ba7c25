package model

import (
	"math/rand"
	"sort"
)

// node is a single split or leaf of a regression tree. Leaves have feature -1.
type node struct {
	feature   int
	threshold float64
	left      int
	right     int
	value     float64
}

// tree is a CART regressor stored as a flat node slice, root at index 0
type tree struct {
	nodes []node
}

// treeBuilder grows one tree over a bootstrap sample
type treeBuilder struct {
	x           [][]float64
	y           []float64
	params      Params
	rng         *rand.Rand
	importances []float64
	nodes       []node
}

func (b *treeBuilder) build(samples []int) *tree {
	b.grow(samples, 0)
	return &tree{nodes: b.nodes}
}

// grow appends the node for samples at depth and returns its index
func (b *treeBuilder) grow(samples []int, depth int) int {
	mean, sse := b.meanSSE(samples)
	idx := len(b.nodes)
	b.nodes = append(b.nodes, node{feature: -1, value: mean})

	if depth >= b.params.MaxDepth && b.params.MaxDepth > 0 {
		return idx
	}
	if len(samples) < b.params.MinSamplesSplit || sse == 0 {
		return idx
	}

	split, ok := b.bestSplit(samples, sse)
	if !ok {
		return idx
	}

	b.importances[split.feature] += split.gain

	left := b.grow(split.left, depth+1)
	right := b.grow(split.right, depth+1)
	b.nodes[idx] = node{
		feature:   split.feature,
		threshold: split.threshold,
		left:      left,
		right:     right,
		value:     mean,
	}
	return idx
}

func (b *treeBuilder) meanSSE(samples []int) (mean, sse float64) {
	var sum, sumSq float64
	for _, s := range samples {
		sum += b.y[s]
		sumSq += b.y[s] * b.y[s]
	}
	n := float64(len(samples))
	mean = sum / n
	sse = sumSq - sum*sum/n
	if sse < 0 {
		sse = 0
	}
	return mean, sse
}

type split struct {
	feature   int
	threshold float64
	gain      float64
	left      []int
	right     []int
}

// bestSplit scans every candidate threshold of the drawn features and
// returns the one with the largest reduction of squared error.
func (b *treeBuilder) bestSplit(samples []int, parentSSE float64) (split, bool) {
	var (
		best     split
		found    bool
		ordered  = make([]int, len(samples))
		features = b.drawFeatures()
		minLeaf  = max(1, b.params.MinSamplesLeaf)
	)

	for _, f := range features {
		copy(ordered, samples)
		sort.SliceStable(ordered, func(i, j int) bool {
			return b.x[ordered[i]][f] < b.x[ordered[j]][f]
		})

		var totalSum, totalSq float64
		for _, s := range ordered {
			totalSum += b.y[s]
			totalSq += b.y[s] * b.y[s]
		}

		var leftSum, leftSq float64
		for i := 0; i < len(ordered)-1; i++ {
			yi := b.y[ordered[i]]
			leftSum += yi
			leftSq += yi * yi

			cur, next := b.x[ordered[i]][f], b.x[ordered[i+1]][f]
			if cur == next {
				continue
			}

			nl, nr := float64(i+1), float64(len(ordered)-i-1)
			if int(nl) < minLeaf || int(nr) < minLeaf {
				continue
			}

			rightSum, rightSq := totalSum-leftSum, totalSq-leftSq
			sse := (leftSq - leftSum*leftSum/nl) + (rightSq - rightSum*rightSum/nr)
			gain := parentSSE - sse
			if gain > 1e-12 && (!found || gain > best.gain+1e-12) {
				best = split{
					feature:   f,
					threshold: (cur + next) / 2,
					gain:      gain,
					left:      append([]int(nil), ordered[:i+1]...),
					right:     append([]int(nil), ordered[i+1:]...),
				}
				found = true
			}
		}
	}

	return best, found
}

// drawFeatures returns the candidate features for one split
func (b *treeBuilder) drawFeatures() []int {
	p := len(b.importances)
	features := b.rng.Perm(p)
	if b.params.MaxFeatures > 0 && b.params.MaxFeatures < p {
		features = features[:b.params.MaxFeatures]
	}
	return features
}

func (t *tree) predict(row []float64) float64 {
	i := 0
	for {
		n := t.nodes[i]
		if n.feature < 0 {
			return n.value
		}
		if row[n.feature] <= n.threshold {
			i = n.left
		} else {
			i = n.right
		}
	}
}
