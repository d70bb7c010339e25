package session

import (
	"sync"
	"time"
)

// analyzingCaptions rotate on the analyzing screen while the diagnosis
// request is in flight. Cosmetic only.
var analyzingCaptions = []string{
	"Erkenne Hautstruktur...",
	"Analysiere UV-Schäden...",
	"Prüfe Hydrations-Level...",
	"Berechne Anti-Aging Score...",
	"Finalisiere Routine...",
}

const captionInterval = 2 * time.Second

// captionRotator walks the caption list on a fixed tick and stops when the
// diagnosis resolves. It never blocks the caller.
type captionRotator struct {
	onCaption func(string)
	interval  time.Duration

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

func newCaptionRotator(onCaption func(string), interval time.Duration) *captionRotator {
	if interval <= 0 {
		interval = captionInterval
	}
	return &captionRotator{onCaption: onCaption, interval: interval}
}

func (r *captionRotator) Start() {
	if r == nil || r.onCaption == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stop != nil {
		return
	}
	r.stop = make(chan struct{})
	r.done = make(chan struct{})
	go r.run(r.stop, r.done)
}

func (r *captionRotator) Stop() {
	if r == nil {
		return
	}
	r.mu.Lock()
	stop, done := r.stop, r.done
	r.stop, r.done = nil, nil
	r.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

func (r *captionRotator) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	index := 0
	r.onCaption(analyzingCaptions[index])
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			index++
			if index >= len(analyzingCaptions) {
				return
			}
			r.onCaption(analyzingCaptions[index])
		}
	}
}
