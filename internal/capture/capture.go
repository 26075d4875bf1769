// Package capture coordinates slide rendering with a live capture/encode
// sink, turning a slide schedule into a downloadable video artifact.
package capture

import (
	"errors"
	"image"
	"time"

	"newsreel/internal/models"
)

// Fixed capture parameters for every generated video.
const (
	// FrameRate is the live sampling rate of the drawing surface.
	FrameRate = 30

	// BitsPerSecond is the encode bitrate target handed to the sink.
	BitsPerSecond = 4_000_000
)

// Negotiable container/codec pairs, most preferred first.
const (
	MimeMJPEGAVI = "video/x-msvideo;codecs=mjpeg"
	MimeGIF      = "image/gif"
)

var formatPreferences = []string{MimeMJPEGAVI, MimeGIF}

// ErrBusy is returned when a generation request arrives while another run
// holds the surface.
var ErrBusy = errors.New("generation already in progress")

// ErrUnsupportedFormat is returned by a sink asked to record a mime type it
// never claimed to support.
var ErrUnsupportedFormat = errors.New("unsupported recording format")

// FrameSource supplies point-in-time copies of the drawing surface to the
// capture sink. Snapshots must be safe to take while a slide is drawn.
type FrameSource interface {
	Snapshot() *image.RGBA
	Bounds() (int, int)
}

// Canvas is the drawing surface the orchestrator owns for the length of a
// run: it can be sampled, checked for a usable drawing context, and painted.
type Canvas interface {
	FrameSource
	Ready() bool
	Draw(plan models.SlidePlan, now time.Time) error
}

// Stream is a live frame stream opened from a FrameSource. Closing it stops
// the sampler and ends the recorder's frame supply.
type Stream interface {
	Frames() <-chan *image.RGBA
	Close()
}

// RecordConfig parameterizes one recording.
type RecordConfig struct {
	MimeType      string
	BitsPerSecond int
	FrameRate     int
	Path          string
}

// Result is delivered once on Recorder.Done after Stop.
type Result struct {
	Path     string
	MimeType string
	Frames   int
	Err      error
}

// Recorder consumes a Stream and buffers encoded chunks. Stop signals it to
// finalize; the assembled artifact is reported asynchronously on Done.
type Recorder interface {
	Stop()
	Done() <-chan Result
}

// Sink is the black-box capture/encode device. It negotiates a container/
// codec, samples a live stream from the surface, and assembles the buffered
// chunks into one artifact when recording stops.
type Sink interface {
	Supports(mimeType string) bool
	OpenLiveStream(src FrameSource, fps int) (Stream, error)
	StartRecording(s Stream, cfg RecordConfig) (Recorder, error)
}

// ExtensionFor maps a negotiated mime type to the artifact file extension.
func ExtensionFor(mimeType string) string {
	switch mimeType {
	case MimeGIF:
		return ".gif"
	default:
		return ".avi"
	}
}
