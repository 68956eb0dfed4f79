package audio

import (
	"time"

	"github.com/charmbracelet/log"
)

// track advances the playback position at the tick cadence until the buffer
// is exhausted or the tracker is retired. A tracker is bound to a single
// playback cycle: stop, seek, and each new utterance bump the player's
// generation, and a tracker whose generation no longer matches exits on its
// next tick. Pausing keeps the tracker alive but idle, so resume needs no
// handoff.
func (p *Player) track(gen uint64, start int) {
	p.liveTrackers.Add(1)
	defer p.liveTrackers.Add(-1)

	samplesPerTick := int(float64(p.sampleRate) * p.tick.Seconds())
	if samplesPerTick < 1 {
		samplesPerTick = 1
	}

	p.mu.Lock()
	if p.st.gen == gen {
		p.st.position = start
	}
	p.mu.Unlock()

	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()

	for range ticker.C {
		p.mu.Lock()
		if p.st.gen != gen || p.st.state == Stopped {
			p.mu.Unlock()
			return
		}
		if p.st.state == Paused {
			p.mu.Unlock()
			continue
		}

		next := p.st.position + samplesPerTick
		if next >= len(p.st.samples) {
			// End of utterance: the terminal transition.
			p.st.position = len(p.st.samples)
			p.st.state = Stopped
			p.mu.Unlock()
			log.Debug("playback finished", "samples", next)
			return
		}
		p.st.position = next
		p.st.window = append(p.st.window[:0], p.st.samples[next-samplesPerTick:next]...)
		p.mu.Unlock()
	}
}
