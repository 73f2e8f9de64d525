package playback

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// PollInterval is how often embed time/duration are sampled; the embed
	// controller has no push-based time events.
	PollInterval = 250 * time.Millisecond

	// doubleTapWindow is the gap within which two activations on the same
	// zone count as one skip gesture.
	doubleTapWindow = 300 * time.Millisecond

	tapSkipSeconds = 10
)

// Tap zones for the skip gesture.
const (
	ZoneLeft  = "left"
	ZoneRight = "right"
)

// State is the playback state surfaced uniformly regardless of backend.
type State struct {
	Ready        bool    `json:"ready"`
	IsPlaying    bool    `json:"isPlaying"`
	CurrentTime  float64 `json:"currentTime"`
	Duration     float64 `json:"duration"`
	PlaybackRate float64 `json:"playbackRate"`
}

// Options configures a Player. Element is the local playback target (may be
// nil for a poster-only view); Embed constructs controllers for embed URLs.
type Options struct {
	Element MediaElement
	Embed   EmbedFactory
	Loader  *Loader
	Log     *logrus.Logger
	Clock   func() time.Time
}

// Player presents one play/pause/seek/rate control surface over two
// interchangeable backends, selected once per source URL. Local sources
// update state through push callbacks; embed sources are polled while ready.
// Close must be called on teardown or the poll ticker and embed controller
// leak past the view's lifetime.
type Player struct {
	mu      sync.Mutex
	opts    Options
	url     string
	isEmbed bool
	state   State
	embed   EmbedController
	element MediaElement
	lastTap map[string]time.Time
	stop    chan struct{}
	gen     int
}

func New(url string, opts Options) *Player {
	if opts.Loader == nil {
		opts.Loader = &sharedLoader
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}

	p := &Player{opts: opts, lastTap: map[string]time.Time{}}
	p.setSource(url)
	return p
}

// SetSource switches the player to a new URL, resetting all playback state
// before the appropriate backend is reinitialized.
func (p *Player) SetSource(url string) {
	p.setSource(url)
}

func (p *Player) setSource(url string) {
	p.mu.Lock()
	p.teardownLocked()
	p.url = url
	p.state = State{PlaybackRate: 1}
	p.gen++
	gen := p.gen

	var factory EmbedFactory
	if IsEmbedURL(url) {
		p.isEmbed = true
		if err := p.opts.Loader.ensure(); err != nil {
			// No retry path; the player stays not-ready and every
			// control call is a no-op.
			p.opts.Log.WithError(err).Warn("playback: embed script load failed")
		} else {
			factory = p.opts.Embed
		}
	} else {
		p.isEmbed = false
		p.element = p.opts.Element
		p.state.Ready = true
	}
	p.mu.Unlock()

	if factory != nil {
		factory(url, func(ctrl EmbedController) { p.embedReady(gen, ctrl) })
	}
}

func (p *Player) embedReady(gen int, ctrl EmbedController) {
	p.mu.Lock()
	if gen != p.gen {
		// The source changed while the controller was constructing.
		p.mu.Unlock()
		ctrl.Destroy()
		return
	}
	p.embed = ctrl
	p.state.Ready = true
	p.state.Duration = ctrl.GetDuration()
	stop := make(chan struct{})
	p.stop = stop
	p.mu.Unlock()

	go p.poll(gen, ctrl, stop)
}

func (p *Player) poll(gen int, ctrl EmbedController, stop chan struct{}) {
	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			p.mu.Lock()
			if gen == p.gen && p.state.Ready {
				p.state.CurrentTime = ctrl.GetCurrentTime()
				p.state.Duration = ctrl.GetDuration()
			}
			p.mu.Unlock()
		}
	}
}

func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.state.Ready {
		return
	}
	p.state.IsPlaying = true
	p.forwardPlayLocked()
}

func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.state.Ready {
		return
	}
	p.state.IsPlaying = false
	p.forwardPauseLocked()
}

func (p *Player) TogglePlay() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.state.Ready {
		return
	}
	p.state.IsPlaying = !p.state.IsPlaying
	if p.state.IsPlaying {
		p.forwardPlayLocked()
	} else {
		p.forwardPauseLocked()
	}
}

// SeekPercent seeks to a position expressed as a percentage of duration.
func (p *Player) SeekPercent(pct float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.state.Ready {
		return
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	p.seekLocked(p.state.Duration * pct / 100)
}

// SkipBy moves playback by delta seconds, clamped to [0, duration].
func (p *Player) SkipBy(delta float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.state.Ready {
		return
	}
	p.seekLocked(p.state.CurrentTime + delta)
}

// Tap registers one activation on a logical zone. Two activations on the
// same zone within the double-tap window trigger a 10 second skip, backward
// for the left zone and forward for the right.
func (p *Player) Tap(zone string) {
	p.mu.Lock()
	now := p.opts.Clock()
	last, seen := p.lastTap[zone]
	p.lastTap[zone] = now
	p.mu.Unlock()

	if !seen || now.Sub(last) > doubleTapWindow {
		return
	}

	p.mu.Lock()
	delete(p.lastTap, zone)
	p.mu.Unlock()

	if zone == ZoneLeft {
		p.SkipBy(-tapSkipSeconds)
	} else {
		p.SkipBy(tapSkipSeconds)
	}
}

func (p *Player) SetRate(rate float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.state.Ready || rate <= 0 {
		return
	}
	p.state.PlaybackRate = rate
	if p.isEmbed {
		if p.embed != nil {
			p.embed.SetPlaybackRate(rate)
		}
	} else if p.element != nil {
		p.element.SetPlaybackRate(rate)
	}
}

// HandleTimeUpdate records a time update pushed by the local media element.
// Embed sources ignore it; their time comes from the poll loop.
func (p *Player) HandleTimeUpdate(seconds float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.isEmbed {
		return
	}
	p.state.CurrentTime = seconds
}

// HandleDurationChange records the local media element's duration.
func (p *Player) HandleDurationChange(seconds float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.isEmbed {
		return
	}
	p.state.Duration = seconds
}

// HandleEnded marks playback finished for the local media element.
func (p *Player) HandleEnded() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.isEmbed {
		return
	}
	p.state.IsPlaying = false
}

// State returns a snapshot of the current playback state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Player) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

// Close tears the player down: the poll ticker stops and the embed
// controller is destroyed. Skipping this leaks both past the lifetime of
// the view that owned the player.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.teardownLocked()
	p.gen++
	p.state = State{PlaybackRate: 1}
}

func (p *Player) teardownLocked() {
	if p.stop != nil {
		close(p.stop)
		p.stop = nil
	}
	if p.embed != nil {
		p.embed.Destroy()
		p.embed = nil
	}
	p.element = nil
}

func (p *Player) seekLocked(target float64) {
	if target < 0 {
		target = 0
	}
	if target > p.state.Duration {
		target = p.state.Duration
	}
	p.state.CurrentTime = target
	if p.isEmbed {
		if p.embed != nil {
			p.embed.Seek(target)
		}
	} else if p.element != nil {
		p.element.SetCurrentTime(target)
	}
}

func (p *Player) forwardPlayLocked() {
	if p.isEmbed {
		if p.embed != nil {
			p.embed.Play()
		}
	} else if p.element != nil {
		p.element.Play()
	}
}

func (p *Player) forwardPauseLocked() {
	if p.isEmbed {
		if p.embed != nil {
			p.embed.Pause()
		}
	} else if p.element != nil {
		p.element.Pause()
	}
}
