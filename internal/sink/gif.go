package sink

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"os"

	"newsreel/internal/capture"
)

// gifSampleRate is the effective frame rate of the GIF fallback; the live
// stream still runs at the capture rate, the recorder keeps every nth frame.
const gifSampleRate = 5

// GIF is the fallback encoder for when the AVI backend is unavailable.
// Frames are palettized and assembled with the stdlib GIF encoder.
type GIF struct{}

func NewGIF() *GIF { return &GIF{} }

func (*GIF) Supports(mimeType string) bool {
	return mimeType == capture.MimeGIF
}

func (*GIF) OpenLiveStream(src capture.FrameSource, fps int) (capture.Stream, error) {
	if w, h := src.Bounds(); w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid frame source bounds %dx%d", w, h)
	}
	return openStream(src, fps), nil
}

func (g *GIF) StartRecording(st capture.Stream, cfg capture.RecordConfig) (capture.Recorder, error) {
	if !g.Supports(cfg.MimeType) {
		return nil, capture.ErrUnsupportedFormat
	}
	keep := cfg.FrameRate / gifSampleRate
	if keep < 1 {
		keep = 1
	}
	r := &gifRecorder{
		stream: st,
		cfg:    cfg,
		keep:   keep,
		done:   make(chan capture.Result, 1),
	}
	go r.run()
	return r, nil
}

type gifRecorder struct {
	stream capture.Stream
	cfg    capture.RecordConfig
	keep   int
	done   chan capture.Result

	frames []*image.Paletted
}

func (r *gifRecorder) run() {
	n := 0
	for frame := range r.stream.Frames() {
		if n%r.keep == 0 {
			r.frames = append(r.frames, palettize(frame))
		}
		n++
	}
	r.done <- r.finalize()
}

func (r *gifRecorder) finalize() capture.Result {
	res := capture.Result{Path: r.cfg.Path, MimeType: r.cfg.MimeType, Frames: len(r.frames)}
	if len(r.frames) == 0 {
		return res
	}

	out := &gif.GIF{}
	delay := 100 / gifSampleRate // centiseconds per frame
	for _, f := range r.frames {
		out.Image = append(out.Image, f)
		out.Delay = append(out.Delay, delay)
	}

	file, err := os.Create(r.cfg.Path)
	if err != nil {
		res.Err = fmt.Errorf("create gif: %w", err)
		return res
	}
	defer file.Close()
	if err := gif.EncodeAll(file, out); err != nil {
		res.Err = fmt.Errorf("encode gif: %w", err)
	}
	return res
}

func (r *gifRecorder) Stop() { r.stream.Close() }

func (r *gifRecorder) Done() <-chan capture.Result { return r.done }

func palettize(src *image.RGBA) *image.Paletted {
	dst := image.NewPaletted(src.Bounds(), palette.Plan9)
	draw.FloydSteinberg.Draw(dst, dst.Bounds(), src, src.Bounds().Min)
	return dst
}

var _ capture.Sink = (*GIF)(nil)
