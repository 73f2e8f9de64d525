package controllers

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"learnio/backend/playback"
	"learnio/backend/utils"
)

// PlaybackController manages one playback.Player per lecture view. The
// actual media elements and embed widgets live on the client; the remote
// controller/element types below mirror them by queuing outbound commands
// and accepting client-reported events.
type PlaybackController struct {
	Log *logrus.Logger

	mu       sync.Mutex
	sessions map[string]*playbackSession
}

func NewPlaybackController(log *logrus.Logger) *PlaybackController {
	return &PlaybackController{Log: log, sessions: map[string]*playbackSession{}}
}

type playbackSession struct {
	mu      sync.Mutex
	player  *playback.Player
	ctrl    *remoteController
	element *remoteElement
	onReady func(playback.EmbedController)

	// Commands queued by a controller that has since been detached, kept
	// until the client drains them.
	pending []Command
}

// Command is one control operation queued for the client-side player.
type Command struct {
	Action string  `json:"action"`
	Value  float64 `json:"value,omitempty"`
}

// remoteController implements playback.EmbedController against the embed
// widget running on the client.
type remoteController struct {
	mu          sync.Mutex
	commands    []Command
	currentTime float64
	duration    float64
}

func (rc *remoteController) push(action string, value float64) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.commands = append(rc.commands, Command{Action: action, Value: value})
}

func (rc *remoteController) Play()                      { rc.push("play", 0) }
func (rc *remoteController) Pause()                     { rc.push("pause", 0) }
func (rc *remoteController) Seek(seconds float64)       { rc.push("seek", seconds) }
func (rc *remoteController) SetPlaybackRate(r float64)  { rc.push("rate", r) }
func (rc *remoteController) Destroy()                   { rc.push("destroy", 0) }

func (rc *remoteController) GetCurrentTime() float64 {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.currentTime
}

func (rc *remoteController) GetDuration() float64 {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.duration
}

func (rc *remoteController) report(currentTime, duration float64) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if currentTime >= 0 {
		rc.currentTime = currentTime
	}
	if duration > 0 {
		rc.duration = duration
	}
}

func (rc *remoteController) drain() []Command {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	out := rc.commands
	rc.commands = nil
	return out
}

// remoteElement implements playback.MediaElement against the client's
// native video element.
type remoteElement struct {
	mu       sync.Mutex
	commands []Command
}

func (re *remoteElement) push(action string, value float64) {
	re.mu.Lock()
	defer re.mu.Unlock()
	re.commands = append(re.commands, Command{Action: action, Value: value})
}

func (re *remoteElement) Play()                      { re.push("play", 0) }
func (re *remoteElement) Pause()                     { re.push("pause", 0) }
func (re *remoteElement) SetCurrentTime(s float64)   { re.push("seek", s) }
func (re *remoteElement) SetPlaybackRate(r float64)  { re.push("rate", r) }

func (re *remoteElement) drain() []Command {
	re.mu.Lock()
	defer re.mu.Unlock()
	out := re.commands
	re.commands = nil
	return out
}

// CreateSession opens a playback session for a lecture video URL.
func (pc *PlaybackController) CreateSession(c *fiber.Ctx) error {
	var input struct {
		URL string `json:"url"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	s := &playbackSession{element: &remoteElement{}}
	s.player = playback.New(input.URL, playback.Options{
		Element: s.element,
		Embed: func(url string, onReady func(playback.EmbedController)) {
			s.mu.Lock()
			s.onReady = onReady
			s.mu.Unlock()
		},
		Log: pc.Log,
	})

	id := uuid.NewString()
	pc.mu.Lock()
	pc.sessions[id] = s
	pc.mu.Unlock()

	return c.JSON(fiber.Map{
		"id":    id,
		"embed": playback.IsEmbedURL(input.URL),
		"state": s.player.State(),
	})
}

// HandleEvent accepts a client-reported player event: ready, timeupdate,
// durationchange or ended.
func (pc *PlaybackController) HandleEvent(c *fiber.Ctx) error {
	s := pc.session(c.Params("sessionId"))
	if s == nil {
		return utils.NotFound(c, "Playback session not found")
	}

	var input struct {
		Type     string  `json:"type"`
		Time     float64 `json:"time"`
		Duration float64 `json:"duration"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	switch input.Type {
	case "ready":
		s.mu.Lock()
		onReady := s.onReady
		s.onReady = nil
		if onReady != nil {
			s.ctrl = &remoteController{}
			s.ctrl.report(0, input.Duration)
		}
		ctrl := s.ctrl
		s.mu.Unlock()
		if onReady != nil {
			onReady(ctrl)
		}
	case "timeupdate":
		s.mu.Lock()
		ctrl := s.ctrl
		s.mu.Unlock()
		if ctrl != nil {
			ctrl.report(input.Time, input.Duration)
		} else {
			s.player.HandleTimeUpdate(input.Time)
		}
	case "durationchange":
		s.mu.Lock()
		ctrl := s.ctrl
		s.mu.Unlock()
		if ctrl != nil {
			ctrl.report(-1, input.Duration)
		} else {
			s.player.HandleDurationChange(input.Duration)
		}
	case "ended":
		s.player.HandleEnded()
	default:
		return utils.BadRequest(c, "Unknown event type")
	}

	return c.JSON(fiber.Map{
		"state": s.player.State(),
	})
}

// Control applies one control operation: play, pause, toggle, rate, seek,
// skip or tap.
func (pc *PlaybackController) Control(c *fiber.Ctx) error {
	s := pc.session(c.Params("sessionId"))
	if s == nil {
		return utils.NotFound(c, "Playback session not found")
	}

	var input struct {
		Rate    float64 `json:"rate"`
		Percent float64 `json:"percent"`
		Delta   float64 `json:"delta"`
		Zone    string  `json:"zone"`
	}
	// Some operations carry no body.
	_ = c.BodyParser(&input)

	switch c.Params("op") {
	case "play":
		s.player.Play()
	case "pause":
		s.player.Pause()
	case "toggle":
		s.player.TogglePlay()
	case "rate":
		s.player.SetRate(input.Rate)
	case "seek":
		s.player.SeekPercent(input.Percent)
	case "skip":
		s.player.SkipBy(input.Delta)
	case "tap":
		s.player.Tap(input.Zone)
	default:
		return utils.BadRequest(c, "Unknown playback operation")
	}

	return c.JSON(fiber.Map{
		"state": s.player.State(),
	})
}

// SetSource switches the session to another video URL.
func (pc *PlaybackController) SetSource(c *fiber.Ctx) error {
	s := pc.session(c.Params("sessionId"))
	if s == nil {
		return utils.NotFound(c, "Playback session not found")
	}

	var input struct {
		URL string `json:"url"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	s.mu.Lock()
	oldCtrl := s.ctrl
	s.ctrl = nil
	s.onReady = nil
	s.mu.Unlock()

	// Teardown queues a destroy command on the old controller; keep it
	// drainable so the client-side widget actually gets torn down.
	s.player.SetSource(input.URL)
	if oldCtrl != nil {
		s.mu.Lock()
		s.pending = append(s.pending, oldCtrl.drain()...)
		s.mu.Unlock()
	}

	return c.JSON(fiber.Map{
		"embed": playback.IsEmbedURL(input.URL),
		"state": s.player.State(),
	})
}

// GetState returns the playback state plus any pending commands for the
// client-side player to execute.
func (pc *PlaybackController) GetState(c *fiber.Ctx) error {
	s := pc.session(c.Params("sessionId"))
	if s == nil {
		return utils.NotFound(c, "Playback session not found")
	}

	var commands []Command
	s.mu.Lock()
	commands = append(commands, s.pending...)
	s.pending = nil
	ctrl := s.ctrl
	element := s.element
	s.mu.Unlock()
	if ctrl != nil {
		commands = append(commands, ctrl.drain()...)
	}
	if element != nil {
		commands = append(commands, element.drain()...)
	}

	return c.JSON(fiber.Map{
		"state":    s.player.State(),
		"commands": commands,
	})
}

// CloseSession tears the session down, destroying the controller and
// stopping the poll ticker.
func (pc *PlaybackController) CloseSession(c *fiber.Ctx) error {
	id := c.Params("sessionId")

	pc.mu.Lock()
	s, ok := pc.sessions[id]
	delete(pc.sessions, id)
	pc.mu.Unlock()

	if !ok {
		return utils.NotFound(c, "Playback session not found")
	}
	s.player.Close()

	return c.JSON(fiber.Map{
		"message": "Session closed",
	})
}

func (pc *PlaybackController) session(id string) *playbackSession {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.sessions[id]
}
