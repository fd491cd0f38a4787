package narration

import "sync"

// StubPlayback is a manually-driven playback handle for development and
// tests: call Finish to simulate natural completion.
type StubPlayback struct {
	once    sync.Once
	done    chan struct{}
	stopped bool
	mu      sync.Mutex
}

// Stop halts the stub playback.
func (p *StubPlayback) Stop() {
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()
	p.once.Do(func() { close(p.done) })
}

// Done reports completion or stop.
func (p *StubPlayback) Done() <-chan struct{} {
	return p.done
}

// Finish simulates the clip reaching its natural end.
func (p *StubPlayback) Finish() {
	p.once.Do(func() { close(p.done) })
}

// Stopped reports whether Stop was called.
func (p *StubPlayback) Stopped() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopped
}

// StubPlayer records playback starts without producing sound. It stands in
// for a platform audio device until one is wired up.
type StubPlayer struct {
	mu        sync.Mutex
	playbacks []*StubPlayback
	speeds    []float64
}

// Play starts a stub playback.
func (p *StubPlayer) Play(audio []byte, speed float64) (Playback, error) {
	pb := &StubPlayback{done: make(chan struct{})}
	p.mu.Lock()
	p.playbacks = append(p.playbacks, pb)
	p.speeds = append(p.speeds, speed)
	p.mu.Unlock()
	return pb, nil
}

// Playbacks returns every handle started so far.
func (p *StubPlayer) Playbacks() []*StubPlayback {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*StubPlayback(nil), p.playbacks...)
}

// Speeds returns the speed multiplier of every started playback.
func (p *StubPlayer) Speeds() []float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]float64(nil), p.speeds...)
}
