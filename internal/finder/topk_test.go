package finder

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopK_KeepsHighestScores(t *testing.T) {
	best := newTopK(3)
	for i, score := range []int{10, 90, 40, 70, 20, 80} {
		best.offer(candidate{score: score, path: fmt.Sprintf("/p%d", i)})
		assert.LessOrEqual(t, best.len(), 3)
	}

	assert.Equal(t, []string{"/p1", "/p5", "/p3"}, best.drain())
	assert.Equal(t, 0, best.len())
}

func TestTopK_FewerThanCapacity(t *testing.T) {
	best := newTopK(8)
	best.offer(candidate{score: 5, path: "/low"})
	best.offer(candidate{score: 9, path: "/high"})

	assert.Equal(t, []string{"/high", "/low"}, best.drain())
}

func TestTopK_Empty(t *testing.T) {
	assert.Empty(t, newTopK(8).drain())
}

func TestTopK_ZeroCapacity(t *testing.T) {
	best := newTopK(0)
	best.offer(candidate{score: 1, path: "/a"})
	assert.Empty(t, best.drain())
}

func TestTopK_EqualScoresEvictByPath(t *testing.T) {
	best := newTopK(2)
	best.offer(candidate{score: 7, path: "/b"})
	best.offer(candidate{score: 7, path: "/a"})
	best.offer(candidate{score: 7, path: "/c"})

	assert.ElementsMatch(t, []string{"/b", "/c"}, best.drain())
}

func TestTopK_MatchesFullSort(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	var all []candidate
	best := newTopK(MaxResults)

	for i := 0; i < 500; i++ {
		c := candidate{score: rng.Intn(scoreScale), path: fmt.Sprintf("/f%03d", i)}
		all = append(all, c)
		best.offer(c)
	}

	sort.Slice(all, func(i, j int) bool { return all[j].less(all[i]) })
	var want []string
	for _, c := range all[:MaxResults] {
		want = append(want, c.path)
	}

	assert.Equal(t, want, best.drain())
}
