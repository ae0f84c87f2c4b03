package engine_test

import (
	"context"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/skaphos/pendector/internal/engine"
	"github.com/skaphos/pendector/internal/model"
)

var _ = Describe("FetchAll", func() {
	It("returns an empty result without touching progress", func() {
		fetcher := &fakeFetcher{}
		progress := &countingProgress{}

		outcomes := engine.FetchAll(context.Background(), fetcher, nil, engine.FetchAllOptions{Progress: progress})
		Expect(outcomes).NotTo(BeNil())
		Expect(outcomes).To(BeEmpty())
		Expect(fetcher.Calls()).To(BeEmpty())
		Expect(progress.starts).To(BeEmpty())
		Expect(progress.finishes).To(BeZero())
	})

	It("returns outcomes in input order with their paths", func() {
		paths := []string{"/r/a", "/r/b", "/r/c", "/r/d"}
		fetcher := &fakeFetcher{failures: map[string]model.ErrorKind{"/r/b": model.KindNetworkError}}

		outcomes := engine.FetchAll(context.Background(), fetcher, paths, engine.FetchAllOptions{Concurrency: 2})
		Expect(outcomes).To(HaveLen(4))
		for i, o := range outcomes {
			Expect(o.Path).To(Equal(paths[i]))
		}
		Expect(outcomes[0].Success).To(BeTrue())
		Expect(outcomes[1].Success).To(BeFalse())
		Expect(outcomes[1].Kind).To(Equal(model.KindNetworkError))
		Expect(outcomes[2].Success).To(BeTrue())
		Expect(outcomes[3].Success).To(BeTrue())
	})

	It("drives progress once per repository regardless of outcome", func() {
		paths := []string{"/r/a", "/r/b", "/r/c"}
		fetcher := &fakeFetcher{failures: map[string]model.ErrorKind{
			"/r/a": model.KindTimeout,
			"/r/c": model.KindAuthenticationFailed,
		}}
		progress := &countingProgress{}

		engine.FetchAll(context.Background(), fetcher, paths, engine.FetchAllOptions{Progress: progress})
		Expect(progress.starts).To(Equal([]int{3}))
		Expect(progress.increments).To(Equal(3))
		Expect(progress.finishes).To(Equal(1))
	})

	It("bounds the number of concurrent fetches", func() {
		paths := make([]string, 12)
		for i := range paths {
			paths[i] = fmt.Sprintf("/r/%02d", i)
		}
		fetcher := &fakeFetcher{delay: 20 * time.Millisecond}

		engine.FetchAll(context.Background(), fetcher, paths, engine.FetchAllOptions{Concurrency: 3})
		Expect(fetcher.Calls()).To(HaveLen(12))
		Expect(fetcher.peak.Load()).To(BeNumerically("<=", 3))
	})

	It("lets slow fetches finish while others fail fast", func() {
		paths := []string{"/r/fail", "/r/slow"}
		fetcher := &fakeFetcher{
			delay:    50 * time.Millisecond,
			failures: map[string]model.ErrorKind{"/r/fail": model.KindRepositoryUnreachable},
		}

		outcomes := engine.FetchAll(context.Background(), fetcher, paths, engine.FetchAllOptions{Concurrency: 2})
		Expect(outcomes[0].Kind).To(Equal(model.KindRepositoryUnreachable))
		Expect(outcomes[1].Success).To(BeTrue())
	})
})
