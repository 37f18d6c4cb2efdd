package monitoring

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/cooldown/ticking"
	"github.com/sarchlab/cooldown/world"
)

var _ = Describe("Monitor", func() {
	var (
		mockCtrl   *gomock.Controller
		controller *MockController
		w          *world.World
		m          *Monitor
		router     http.Handler
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		controller = NewMockController(mockCtrl)
		w = world.New()

		m = NewMonitor()
		m.RegisterController(controller)
		m.RegisterPopulation(w)
		router = m.newRouter()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		router.ServeHTTP(rec, req)

		return rec
	}

	It("should report the current time", func() {
		controller.EXPECT().CurrentTime().Return(ticking.VTimeInSec(0.25))
		controller.EXPECT().TickCount().Return(uint64(5))
		controller.EXPECT().IsPaused().Return(true)

		rec := get("/api/now")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(MatchJSON(
			`{"now":0.25,"tick":5,"paused":true}`))
	})

	It("should pause and continue", func() {
		gomock.InOrder(
			controller.EXPECT().Pause(),
			controller.EXPECT().Continue(),
		)

		Expect(get("/api/pause").Code).To(Equal(http.StatusOK))
		Expect(get("/api/continue").Code).To(Equal(http.StatusOK))
	})

	It("should list abilities and actors", func() {
		a1 := w.SpawnActor()
		a2 := w.SpawnActor()
		_, err := w.Grant(a1, "dash")
		Expect(err).NotTo(HaveOccurred())
		_, err = w.Grant(a2, "dash")
		Expect(err).NotTo(HaveOccurred())
		_, err = w.Grant(a2, "blink")
		Expect(err).NotTo(HaveOccurred())
		_, err = w.ApplyCooldown(a1, "dash", 3)
		Expect(err).NotTo(HaveOccurred())

		rec := get("/api/abilities")
		Expect(rec.Body.String()).To(MatchJSON(`[
			{"ability":"blink","granted":1,"sources":0},
			{"ability":"dash","granted":2,"sources":1}
		]`))

		rec = get("/api/actors")
		Expect(rec.Body.String()).To(MatchJSON(
			fmt.Sprintf("[%d,%d]", a1, a2)))
	})

	It("should serialize an actor", func() {
		a := w.SpawnActor()
		_, err := w.Grant(a, "dash")
		Expect(err).NotTo(HaveOccurred())

		rec := get(fmt.Sprintf("/api/actor/%d", a))

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.Len()).To(BeNumerically(">", 0))
	})

	It("should reject bad actor ids", func() {
		Expect(get("/api/actor/abc").Code).To(Equal(http.StatusBadRequest))
		Expect(get("/api/actor/42").Code).To(Equal(http.StatusNotFound))
	})

	It("should report progress bars", func() {
		bar := m.CreateProgressBar("ticks", 10)
		bar.IncrementInProgress(3)
		bar.MoveInProgressToFinished(2)

		rec := get("/api/progress")

		var bars []map[string]any
		Expect(json.Unmarshal(rec.Body.Bytes(), &bars)).To(Succeed())
		Expect(bars).To(HaveLen(1))
		Expect(bars[0]).To(HaveKeyWithValue("name", "ticks"))
		Expect(bars[0]).To(HaveKeyWithValue("total", 10.0))
		Expect(bars[0]).To(HaveKeyWithValue("finished", 2.0))
		Expect(bars[0]).To(HaveKeyWithValue("in_progress", 1.0))

		m.CompleteProgressBar(bar)
		Expect(get("/api/progress").Body.String()).To(MatchJSON("[]"))
	})

	It("should report resources", func() {
		rec := get("/api/resource")

		var rsp resourceRsp
		Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp.MemorySize).To(BeNumerically(">", 0))
	})

	It("should serve the web page", func() {
		rec := get("/")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("Cooldown Monitor"))
	})

	It("should start and stop a server", func() {
		controller.EXPECT().CurrentTime().Return(ticking.VTimeInSec(0)).AnyTimes()
		controller.EXPECT().TickCount().Return(uint64(0)).AnyTimes()
		controller.EXPECT().IsPaused().Return(false).AnyTimes()

		port := m.StartServer()
		Expect(port).To(BeNumerically(">", 0))

		rsp, err := http.Get(fmt.Sprintf("http://localhost:%d/api/now", port))
		Expect(err).NotTo(HaveOccurred())
		body, err := io.ReadAll(rsp.Body)
		rsp.Body.Close()
		Expect(err).NotTo(HaveOccurred())
		Expect(string(body)).To(MatchJSON(
			`{"now":0,"tick":0,"paused":false}`))

		m.StopServer()
	})
})
