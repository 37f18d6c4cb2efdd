package ticking

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Freq", func() {
	var freq Freq

	BeforeEach(func() {
		freq = 10 * Hz
	})

	It("should get period", func() {
		Expect(freq.Period()).To(BeNumerically("~", 0.1, 1e-12))
	})

	It("should panic on a zero frequency", func() {
		Expect(func() { Freq(0).Period() }).To(Panic())
	})

	It("should count cycles", func() {
		Expect(freq.Cycle(2.5)).To(Equal(uint64(25)))
	})

	It("should get this tick", func() {
		Expect(freq.ThisTick(1.0)).To(BeNumerically("~", 1.0, 1e-12))
		Expect(freq.ThisTick(1.02)).To(BeNumerically("~", 1.1, 1e-12))
	})

	It("should get next tick", func() {
		Expect(freq.NextTick(1.0)).To(BeNumerically("~", 1.1, 1e-12))
		Expect(freq.NextTick(1.02)).To(BeNumerically("~", 1.1, 1e-12))
	})

	It("should panic on NaN", func() {
		Expect(func() { freq.NextTick(VTimeInSec(math.NaN())) }).To(Panic())
	})
})
