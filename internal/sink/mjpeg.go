package sink

import (
	"bytes"
	"fmt"
	"image/jpeg"

	"github.com/icza/mjpeg"

	"newsreel/internal/capture"
)

// MJPEG encodes sampled frames as JPEG chunks and assembles them into an
// AVI container when recording stops. First entry of the format preference
// list.
type MJPEG struct{}

func NewMJPEG() *MJPEG { return &MJPEG{} }

func (*MJPEG) Supports(mimeType string) bool {
	return mimeType == capture.MimeMJPEGAVI
}

func (*MJPEG) OpenLiveStream(src capture.FrameSource, fps int) (capture.Stream, error) {
	if w, h := src.Bounds(); w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid frame source bounds %dx%d", w, h)
	}
	return openStream(src, fps), nil
}

func (m *MJPEG) StartRecording(st capture.Stream, cfg capture.RecordConfig) (capture.Recorder, error) {
	if !m.Supports(cfg.MimeType) {
		return nil, capture.ErrUnsupportedFormat
	}
	r := &mjpegRecorder{
		stream:  st,
		cfg:     cfg,
		quality: qualityFor(cfg.BitsPerSecond),
		done:    make(chan capture.Result, 1),
	}
	go r.run()
	return r, nil
}

type mjpegRecorder struct {
	stream  capture.Stream
	cfg     capture.RecordConfig
	quality int
	done    chan capture.Result

	chunks [][]byte
	width  int
	height int
}

// run consumes the live stream until it closes, then muxes the buffered
// chunks and delivers the stop-completion result. Chunks received before an
// abrupt stream end are still included.
func (r *mjpegRecorder) run() {
	for frame := range r.stream.Frames() {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: r.quality}); err != nil {
			continue
		}
		if r.width == 0 {
			r.width = frame.Bounds().Dx()
			r.height = frame.Bounds().Dy()
		}
		r.chunks = append(r.chunks, buf.Bytes())
	}
	r.done <- r.finalize()
}

func (r *mjpegRecorder) finalize() capture.Result {
	res := capture.Result{Path: r.cfg.Path, MimeType: r.cfg.MimeType, Frames: len(r.chunks)}
	if len(r.chunks) == 0 {
		return res
	}

	aw, err := mjpeg.New(r.cfg.Path, int32(r.width), int32(r.height), int32(r.cfg.FrameRate))
	if err != nil {
		res.Err = fmt.Errorf("create avi: %w", err)
		return res
	}
	for _, chunk := range r.chunks {
		if err := aw.AddFrame(chunk); err != nil {
			aw.Close()
			res.Err = fmt.Errorf("mux frame: %w", err)
			return res
		}
	}
	if err := aw.Close(); err != nil {
		res.Err = fmt.Errorf("close avi: %w", err)
	}
	return res
}

// Stop cuts off the frame supply; the run goroutine then finalizes and
// reports on Done.
func (r *mjpegRecorder) Stop() { r.stream.Close() }

func (r *mjpegRecorder) Done() <-chan capture.Result { return r.done }

// qualityFor derives a JPEG quality from the bitrate target. MJPEG has no
// rate control, so quality is the only knob.
func qualityFor(bitsPerSecond int) int {
	switch {
	case bitsPerSecond >= 8_000_000:
		return 92
	case bitsPerSecond >= 4_000_000:
		return 85
	case bitsPerSecond >= 2_000_000:
		return 75
	default:
		return 65
	}
}

var _ capture.Sink = (*MJPEG)(nil)
