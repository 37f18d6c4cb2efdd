package cooldown

import (
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("durationMap", func() {
	var m *durationMap

	BeforeEach(func() {
		m = newDurationMap(16, 4)
	})

	It("should round the shard count up to a power of two", func() {
		Expect(newDurationMap(0, 5).shards).To(HaveLen(8))
		Expect(newDurationMap(0, 0).shards).To(HaveLen(1))
	})

	It("should keep insertion order within a bucket", func() {
		out := m.scatter()
		out.Insert(1, snap(1, 1))
		out.Insert(2, snap(9, 9))
		out.Insert(1, snap(2, 2))

		in := m.seal()

		Expect(in.Bucket(1)).To(Equal([]DurationSnapshot{snap(1, 1), snap(2, 2)}))
		Expect(in.Bucket(2)).To(Equal([]DurationSnapshot{snap(9, 9)}))
		Expect(in.Bucket(3)).To(BeEmpty())
	})

	It("should not lose concurrent inserts", func() {
		const workers, perWorker, actors = 8, 1000, 37

		out := m.scatter()

		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				for i := 0; i < perWorker; i++ {
					out.Insert(ActorID(i%actors+1), snap(float64(w), float64(i)))
				}
			}(w)
		}
		wg.Wait()

		in := m.seal()

		Expect(m.numEntries()).To(Equal(workers * perWorker))

		total := 0
		for a := 1; a <= actors; a++ {
			total += len(in.Bucket(ActorID(a)))
		}
		Expect(total).To(Equal(workers * perWorker))
	})

	It("should refuse inserts after seal", func() {
		out := m.scatter()
		m.seal()

		Expect(func() { out.Insert(1, ZeroSnapshot()) }).
			To(PanicWith(ContainSubstring("insert on duration map in gather phase")))
	})

	It("should refuse reads after release", func() {
		m.scatter().Insert(1, ZeroSnapshot())
		in := m.seal()
		m.release()

		Expect(func() { in.Bucket(1) }).
			To(PanicWith(ContainSubstring("read on duration map in released phase")))
	})

	It("should refuse a second seal", func() {
		m.seal()

		Expect(func() { m.seal() }).To(Panic())
	})

	It("should panic when released twice", func() {
		m.seal()
		m.release()

		Expect(func() { m.release() }).
			To(PanicWith("cooldown: duration map released twice"))
	})

	It("should allow releasing an unsealed map", func() {
		m.scatter().Insert(1, ZeroSnapshot())

		Expect(func() { m.release() }).NotTo(Panic())
		Expect(m.numEntries()).To(Equal(0))
	})
})
