// Package sink implements the capture/encode backends: a live frame sampler
// over the drawing surface plus MJPEG/AVI and GIF encoders behind the
// capture.Sink contract.
package sink

import (
	"image"
	"sync"
	"time"

	"newsreel/internal/capture"
)

// liveStream samples a frame source at a fixed rate on its own goroutine.
// The sampler runs independently of the slide loop; when the encoder falls
// behind, frames are dropped rather than delaying the sampler.
type liveStream struct {
	frames chan *image.RGBA
	stop   chan struct{}
	once   sync.Once
}

func openStream(src capture.FrameSource, fps int) *liveStream {
	s := &liveStream{
		frames: make(chan *image.RGBA, fps),
		stop:   make(chan struct{}),
	}

	go func() {
		defer close(s.frames)
		ticker := time.NewTicker(time.Second / time.Duration(fps))
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				select {
				case s.frames <- src.Snapshot():
				default:
				}
			}
		}
	}()
	return s
}

func (s *liveStream) Frames() <-chan *image.RGBA { return s.frames }

func (s *liveStream) Close() {
	s.once.Do(func() { close(s.stop) })
}

// Stack combines encoder backends into one sink. Format support is the
// union of the backends; recording dispatches on the negotiated mime type.
type Stack struct {
	sinks []capture.Sink
}

func NewStack(sinks ...capture.Sink) *Stack {
	return &Stack{sinks: sinks}
}

func (s *Stack) Supports(mimeType string) bool {
	for _, snk := range s.sinks {
		if snk.Supports(mimeType) {
			return true
		}
	}
	return false
}

func (s *Stack) OpenLiveStream(src capture.FrameSource, fps int) (capture.Stream, error) {
	return openStream(src, fps), nil
}

func (s *Stack) StartRecording(st capture.Stream, cfg capture.RecordConfig) (capture.Recorder, error) {
	for _, snk := range s.sinks {
		if snk.Supports(cfg.MimeType) {
			return snk.StartRecording(st, cfg)
		}
	}
	return nil, capture.ErrUnsupportedFormat
}
