package viz

import "time"

// pacer spaces presented frames at a fixed rate. A zero interval disables it.
type pacer struct {
	interval time.Duration
	last     time.Time
}

func newPacer(fps int) pacer {
	if fps <= 0 {
		return pacer{}
	}
	return pacer{interval: time.Second / time.Duration(fps)}
}

func (p *pacer) wait() {
	if p.interval <= 0 {
		return
	}
	if wait := p.interval - time.Since(p.last); wait > 0 {
		time.Sleep(wait)
	}
	p.last = time.Now()
}
