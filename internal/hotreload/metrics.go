package hotreload

import "time"

const latencyWindow = 16

// Metrics — счётчики движка и скользящая средняя задержка последних
// циклов. Снимок значения, безопасно отдавать наружу.
type Metrics struct {
	Cycles     uint64
	Commits    uint64
	Rollbacks  uint64
	AvgLatency time.Duration
}

// latencyRing считает среднее по окну последних коммитов: старые
// выбросы не тянут среднее вечно, свежая производительность видна
// сразу.
type latencyRing struct {
	samples [latencyWindow]time.Duration
	n       int
	next    int
}

func (r *latencyRing) add(d time.Duration) {
	r.samples[r.next] = d
	r.next = (r.next + 1) % latencyWindow
	if r.n < latencyWindow {
		r.n++
	}
}

func (r *latencyRing) average() time.Duration {
	if r.n == 0 {
		return 0
	}
	var sum time.Duration
	for i := 0; i < r.n; i++ {
		sum += r.samples[i]
	}
	return sum / time.Duration(r.n)
}
