package ancestry_test

import (
	"errors"

	"github.com/go-git/go-git/v5/plumbing"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/skaphos/pendector/internal/ancestry"
)

// dag is an in-memory commit graph keyed by hash with parent lists.
type dag struct {
	parents map[plumbing.Hash][]plumbing.Hash
	err     error
}

func (d dag) ancestors(h plumbing.Hash) map[plumbing.Hash]bool {
	seen := map[plumbing.Hash]bool{}
	stack := []plumbing.Hash{h}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		stack = append(stack, d.parents[cur]...)
	}
	return seen
}

// MergeBase returns common ancestors that are not ancestors of another
// common ancestor.
func (d dag) MergeBase(a, b plumbing.Hash) ([]plumbing.Hash, error) {
	if d.err != nil {
		return nil, d.err
	}
	left, right := d.ancestors(a), d.ancestors(b)
	var common []plumbing.Hash
	for h := range left {
		if right[h] {
			common = append(common, h)
		}
	}
	var best []plumbing.Hash
	for _, c := range common {
		dominated := false
		for _, other := range common {
			if other != c && d.ancestors(other)[c] {
				dominated = true
				break
			}
		}
		if !dominated {
			best = append(best, c)
		}
	}
	return best, nil
}

func hash(s string) plumbing.Hash { return plumbing.ComputeHash(plumbing.CommitObject, []byte(s)) }

var _ = Describe("Classify", func() {
	// root <- a <- b (main)
	//           \- c <- d (topic)
	// orphan has no parents
	var (
		root, a, b, c, d, orphan plumbing.Hash
		graph                    dag
	)

	BeforeEach(func() {
		root, a, b, c, d, orphan = hash("root"), hash("a"), hash("b"), hash("c"), hash("d"), hash("orphan")
		graph = dag{parents: map[plumbing.Hash][]plumbing.Hash{
			a: {root},
			b: {a},
			c: {a},
			d: {c},
		}}
	})

	It("reports identical tips as equal without consulting history", func() {
		rel := ancestry.Classify(dag{err: errors.New("unused")}, b, b)
		Expect(rel).To(Equal(ancestry.Equal))
		Expect(rel.NeedsPull()).To(BeFalse())
		Expect(rel.NeedsPush()).To(BeFalse())
	})

	It("reports behind when the remote descends from local", func() {
		rel := ancestry.Classify(graph, a, b)
		Expect(rel).To(Equal(ancestry.Behind))
		Expect(rel.NeedsPull()).To(BeTrue())
		Expect(rel.NeedsPush()).To(BeFalse())
	})

	It("reports ahead when local descends from the remote", func() {
		rel := ancestry.Classify(graph, d, a)
		Expect(rel).To(Equal(ancestry.Ahead))
		Expect(rel.NeedsPull()).To(BeFalse())
		Expect(rel.NeedsPush()).To(BeTrue())
	})

	It("reports diverged when neither tip contains the other", func() {
		rel := ancestry.Classify(graph, b, d)
		Expect(rel).To(Equal(ancestry.Diverged))
		Expect(rel.NeedsPull()).To(BeTrue())
		Expect(rel.NeedsPush()).To(BeTrue())
	})

	It("reports diverged for unrelated histories", func() {
		Expect(ancestry.Classify(graph, b, orphan)).To(Equal(ancestry.Diverged))
	})

	It("reports diverged when history cannot be read", func() {
		Expect(ancestry.Classify(dag{err: errors.New("corrupt")}, a, b)).To(Equal(ancestry.Diverged))
	})

	DescribeTable("String",
		func(rel ancestry.Relation, want string) {
			Expect(rel.String()).To(Equal(want))
		},
		Entry("equal", ancestry.Equal, "equal"),
		Entry("behind", ancestry.Behind, "behind"),
		Entry("ahead", ancestry.Ahead, "ahead"),
		Entry("diverged", ancestry.Diverged, "diverged"),
	)
})
