package player

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
)

// Speaker constants
const (
	DeviceSampleRate   = beep.SampleRate(44100)
	SpeakerBufferSize  = 100 * time.Millisecond
	ResampleQuality    = 4
	PositionTickPeriod = 250 * time.Millisecond
	FetchTimeout       = 30 * time.Second
)

// BeepDevice plays audio through the system speaker using faiface/beep.
// All streamer state is guarded by the global speaker lock, which is how
// beep expects shared mutation to happen.
type BeepDevice struct {
	mu      sync.Mutex
	handler func(Event)

	boundURL string
	stream   beep.StreamSeekCloser
	format   beep.Format
	looper   *loopStreamer
	sampler  *beep.Resampler
	ctrl     *beep.Ctrl
	volume   *effects.Volume

	baseRatio float64 // source rate / device rate, rate multiplier applies on top
	rate      float64
	vol       float64
	loop      bool

	tickerDone chan struct{}
	tmpFiles   []string
}

// NewBeepDevice initializes the system speaker and returns the device.
// Call Close to release the audio output.
func NewBeepDevice() (*BeepDevice, error) {
	if err := speaker.Init(DeviceSampleRate, DeviceSampleRate.N(SpeakerBufferSize)); err != nil {
		return nil, fmt.Errorf("failed to init speaker: %w", err)
	}
	return &BeepDevice{rate: 1.0, vol: 1.0}, nil
}

// SetEventHandler registers the event sink
func (d *BeepDevice) SetEventHandler(fn func(Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handler = fn
}

func (d *BeepDevice) emit(ev Event) {
	d.mu.Lock()
	fn := d.handler
	d.mu.Unlock()
	if fn != nil {
		fn(ev)
	}
}

// Bind loads the resource, builds the streamer chain and parks it paused on
// the speaker. Emits a durationchange event on success.
func (d *BeepDevice) Bind(ctx context.Context, resourceURL string) error {
	if resourceURL == "" {
		return fmt.Errorf("empty resource URL")
	}

	rc, err := d.openResource(ctx, resourceURL)
	if err != nil {
		return err
	}

	stream, format, err := decode(resourceURL, rc)
	if err != nil {
		rc.Close()
		return fmt.Errorf("failed to decode %s: %w", resourceURL, err)
	}

	d.unbind()

	d.mu.Lock()
	d.boundURL = resourceURL
	d.stream = stream
	d.format = format
	d.baseRatio = float64(format.SampleRate) / float64(DeviceSampleRate)

	d.looper = &loopStreamer{stream: stream, enabled: &d.loop}
	d.sampler = beep.ResampleRatio(ResampleQuality, d.baseRatio*d.rate, d.looper)
	d.ctrl = &beep.Ctrl{Streamer: d.sampler, Paused: true}
	d.volume = newVolume(d.ctrl, d.vol)

	d.tickerDone = make(chan struct{})
	go d.tickPosition(d.tickerDone)
	d.mu.Unlock()

	d.park()

	d.emit(Event{Type: EventDurationChange, Duration: d.Duration()})
	return nil
}

// park queues the chain on the speaker. The trailing callback fires when the
// stream drains (loop disabled); the chain is then re-queued paused at zero
// so a later play starts the track over.
func (d *BeepDevice) park() {
	d.mu.Lock()
	chain := d.volume
	d.mu.Unlock()
	if chain == nil {
		return
	}

	speaker.Play(beep.Seq(chain, beep.Callback(func() {
		d.emit(Event{Type: EventEnded})
		// rewinding must happen outside the speaker's own mixing pass
		go d.rearmAfterEnd()
	})))
}

// rearmAfterEnd rewinds a drained stream and parks it paused again
func (d *BeepDevice) rearmAfterEnd() {
	d.mu.Lock()
	stream := d.stream
	ctrl := d.ctrl
	d.mu.Unlock()
	if stream == nil || ctrl == nil {
		return
	}

	speaker.Lock()
	ctrl.Paused = true
	err := stream.Seek(0)
	speaker.Unlock()
	if err != nil {
		log.Printf("rewind after end failed: %v", err)
		return
	}

	d.park()
}

// unbind clears the speaker and releases the previous stream, if any
func (d *BeepDevice) unbind() {
	d.mu.Lock()
	stream := d.stream
	done := d.tickerDone
	d.stream = nil
	d.tickerDone = nil
	d.boundURL = ""
	d.mu.Unlock()

	if done != nil {
		close(done)
	}
	if stream != nil {
		speaker.Clear()
		stream.Close()
	}
}

// BoundURL returns the currently bound resource URL
func (d *BeepDevice) BoundURL() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.boundURL
}

// Play resumes playback of the bound stream
func (d *BeepDevice) Play() error {
	d.mu.Lock()
	ctrl := d.ctrl
	d.mu.Unlock()
	if ctrl == nil {
		return fmt.Errorf("no source bound")
	}

	speaker.Lock()
	ctrl.Paused = false
	speaker.Unlock()

	d.emit(Event{Type: EventPlay, Position: d.Position()})
	return nil
}

// Pause stops audio output, keeping position
func (d *BeepDevice) Pause() {
	d.mu.Lock()
	ctrl := d.ctrl
	d.mu.Unlock()
	if ctrl == nil {
		return
	}

	speaker.Lock()
	ctrl.Paused = true
	speaker.Unlock()

	d.emit(Event{Type: EventPause, Position: d.Position()})
}

// SeekTo moves the playback position
func (d *BeepDevice) SeekTo(seconds float64) {
	d.mu.Lock()
	stream := d.stream
	format := d.format
	d.mu.Unlock()
	if stream == nil {
		return
	}

	n := format.SampleRate.N(time.Duration(seconds * float64(time.Second)))
	if n < 0 {
		n = 0
	}
	if n >= stream.Len() {
		n = stream.Len() - 1
	}

	speaker.Lock()
	err := stream.Seek(n)
	speaker.Unlock()
	if err != nil {
		log.Printf("seek to %.2fs failed: %v", seconds, err)
		return
	}

	d.emit(Event{Type: EventTimeUpdate, Position: seconds})
}

// Position returns the playback position in seconds
func (d *BeepDevice) Position() float64 {
	d.mu.Lock()
	stream := d.stream
	format := d.format
	d.mu.Unlock()
	if stream == nil {
		return 0
	}

	speaker.Lock()
	pos := stream.Position()
	speaker.Unlock()
	return format.SampleRate.D(pos).Seconds()
}

// Duration returns the bound stream duration in seconds
func (d *BeepDevice) Duration() float64 {
	d.mu.Lock()
	stream := d.stream
	format := d.format
	d.mu.Unlock()
	if stream == nil {
		return 0
	}

	speaker.Lock()
	n := stream.Len()
	speaker.Unlock()
	return format.SampleRate.D(n).Seconds()
}

// SetVolume sets the output gain, 0..1
func (d *BeepDevice) SetVolume(v float64) {
	d.mu.Lock()
	d.vol = v
	vol := d.volume
	d.mu.Unlock()
	if vol == nil {
		return
	}

	speaker.Lock()
	applyVolume(vol, v)
	speaker.Unlock()
}

// SetRate sets the playback speed multiplier
func (d *BeepDevice) SetRate(r float64) {
	if r <= 0 {
		return
	}
	d.mu.Lock()
	d.rate = r
	sampler := d.sampler
	ratio := d.baseRatio * r
	d.mu.Unlock()
	if sampler == nil {
		return
	}

	speaker.Lock()
	sampler.SetRatio(ratio)
	speaker.Unlock()
}

// SetLoop toggles restart-on-drain
func (d *BeepDevice) SetLoop(loop bool) {
	speaker.Lock()
	d.loop = loop
	speaker.Unlock()
}

// Close releases the speaker and any temp files downloaded for playback
func (d *BeepDevice) Close() error {
	d.unbind()

	d.mu.Lock()
	tmp := d.tmpFiles
	d.tmpFiles = nil
	d.mu.Unlock()

	for _, f := range tmp {
		if err := os.Remove(f); err != nil {
			log.Printf("failed to remove temp audio file %s: %v", f, err)
		}
	}
	return nil
}

// tickPosition emits periodic timeupdate events while playing
func (d *BeepDevice) tickPosition(done chan struct{}) {
	t := time.NewTicker(PositionTickPeriod)
	defer t.Stop()
	for {
		select {
		case <-done:
			return
		case <-t.C:
			d.mu.Lock()
			ctrl := d.ctrl
			stream := d.stream
			d.mu.Unlock()
			if ctrl == nil || stream == nil {
				continue
			}

			speaker.Lock()
			paused := ctrl.Paused
			streamErr := stream.Err()
			speaker.Unlock()

			if streamErr != nil {
				d.emit(Event{Type: EventError, Err: streamErr})
				return
			}
			if !paused {
				d.emit(Event{Type: EventTimeUpdate, Position: d.Position()})
			}
		}
	}
}

// openResource opens a local file directly; remote resources are fetched to
// a temp file first because decoders need a seekable source.
func (d *BeepDevice) openResource(ctx context.Context, resourceURL string) (io.ReadCloser, error) {
	if !strings.HasPrefix(resourceURL, "http://") && !strings.HasPrefix(resourceURL, "https://") {
		f, err := os.Open(resourceURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", resourceURL, err)
		}
		return f, nil
	}

	ctx, cancel := context.WithTimeout(ctx, FetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", resourceURL, err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", resourceURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s returned status %d", resourceURL, resp.StatusCode)
	}

	tmp, err := os.CreateTemp("", "aigcmusic-*"+extOf(resourceURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to buffer %s: %w", resourceURL, err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, err
	}

	d.mu.Lock()
	d.tmpFiles = append(d.tmpFiles, tmp.Name())
	d.mu.Unlock()

	log.Printf("buffered %s to %s", resourceURL, tmp.Name())
	return tmp, nil
}

// extOf returns the lowercase extension of a URL path or file path
func extOf(resourceURL string) string {
	if u, err := url.Parse(resourceURL); err == nil && u.Path != "" {
		return strings.ToLower(path.Ext(u.Path))
	}
	return strings.ToLower(path.Ext(resourceURL))
}

// decode picks a decoder by extension; mp3 is the default for unknown ones
func decode(resourceURL string, rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	switch extOf(resourceURL) {
	case ".wav":
		return wav.Decode(rc)
	case ".flac":
		return flac.Decode(rc)
	case ".ogg", ".oga":
		return vorbis.Decode(rc)
	default:
		return mp3.Decode(rc)
	}
}

// newVolume builds the gain stage for a 0..1 volume value
func newVolume(s beep.Streamer, v float64) *effects.Volume {
	vol := &effects.Volume{Streamer: s, Base: 2}
	applyVolume(vol, v)
	return vol
}

// applyVolume maps linear 0..1 onto beep's exponential gain.
// Must be called under the speaker lock once the chain is playing.
func applyVolume(vol *effects.Volume, v float64) {
	if v <= 0 {
		vol.Silent = true
		vol.Volume = 0
		return
	}
	if v > 1 {
		v = 1
	}
	vol.Silent = false
	vol.Volume = math.Log2(v)
}

// loopStreamer restarts its source when it drains and looping is enabled.
// The enabled flag is read under the speaker lock, where SetLoop writes it.
type loopStreamer struct {
	stream  beep.StreamSeeker
	enabled *bool
}

func (l *loopStreamer) Stream(samples [][2]float64) (int, bool) {
	filled, ok := l.stream.Stream(samples)
	for filled < len(samples) {
		if !*l.enabled || l.stream.Err() != nil {
			return filled, ok || filled > 0
		}
		if err := l.stream.Seek(0); err != nil {
			return filled, filled > 0
		}
		var n int
		n, ok = l.stream.Stream(samples[filled:])
		if n == 0 && !ok {
			return filled, filled > 0
		}
		filled += n
	}
	return filled, true
}

func (l *loopStreamer) Err() error {
	return l.stream.Err()
}
