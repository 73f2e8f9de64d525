package playback

import (
	"net/url"
	"strings"
	"sync"
)

// EmbedController is the control surface exposed by the externally loaded
// embed player script.
type EmbedController interface {
	Play()
	Pause()
	Seek(seconds float64)
	GetCurrentTime() float64
	GetDuration() float64
	SetPlaybackRate(rate float64)
	Destroy()
}

// MediaElement is a directly addressable local playback target. Commands
// flow in through this interface; state flows back push-based through the
// Player's Handle* callbacks.
type MediaElement interface {
	Play()
	Pause()
	SetCurrentTime(seconds float64)
	SetPlaybackRate(rate float64)
}

// EmbedFactory constructs a controller for a video URL once the embed script
// is available. onReady fires when the controller signals ready; it may be
// called synchronously or later.
type EmbedFactory func(url string, onReady func(EmbedController))

// Loader memoizes the external embed script load. The zero value is ready to
// use; Fetch runs at most once and its result, success or failure, is shared
// by every player using the loader. There is no retry or timeout on a failed
// load: affected players simply never become ready.
type Loader struct {
	once  sync.Once
	err   error
	Fetch func() error
}

func (l *Loader) ensure() error {
	l.once.Do(func() {
		if l.Fetch != nil {
			l.err = l.Fetch()
		}
	})
	return l.err
}

// sharedLoader is the process-wide memoized load used when no loader is
// injected.
var sharedLoader Loader

// IsEmbedURL reports whether the URL belongs to a recognized external-video
// host and therefore selects the embed backend.
func IsEmbedURL(raw string) bool {
	if raw == "" {
		return false
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return false
	}
	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	return host == "youtube.com" || host == "youtu.be" || strings.HasSuffix(host, ".youtube.com")
}
