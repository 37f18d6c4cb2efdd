package world

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("denseStore", func() {
	var s *denseStore[string, int]

	BeforeEach(func() {
		s = newDenseStore[string, int]()
		s.set("a", 1)
		s.set("b", 2)
		s.set("c", 3)
	})

	It("should overwrite existing keys in place", func() {
		s.set("b", 20)

		v, ok := s.get("b")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(20))
		Expect(s.len()).To(Equal(3))
	})

	It("should swap the last value into a removed slot", func() {
		Expect(s.remove("a")).To(BeTrue())

		Expect(s.keys).To(Equal([]string{"c", "b"}))
		Expect(s.values).To(Equal([]int{3, 2}))
		Expect(s.index).To(Equal(map[string]int{"c": 0, "b": 1}))
	})

	It("should remove the last value", func() {
		Expect(s.remove("c")).To(BeTrue())
		Expect(s.has("c")).To(BeFalse())
		Expect(s.values).To(Equal([]int{1, 2}))
	})

	It("should report missing keys", func() {
		Expect(s.remove("z")).To(BeFalse())

		_, ok := s.get("z")
		Expect(ok).To(BeFalse())
	})
})
