package capture

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"newsreel/internal/models"
)

// State is the orchestrator's lifecycle position.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateFinalizing
)

func (s State) String() string {
	switch s {
	case StateRecording:
		return "recording"
	case StateFinalizing:
		return "finalizing"
	default:
		return "idle"
	}
}

// Terminal and progress status messages. StatusNoNews doubles as the
// precondition message when the planner produced zero slides.
const (
	StatusNoCanvas  = "canvas not available"
	StatusNoNews    = "no news available"
	StatusNoContext = "could not acquire drawing context"
	StatusNoFormat  = "no supported recording format"
	StatusReady     = "video ready"
	StatusCancelled = "generation cancelled"
	StatusTimedOut  = "finalize timed out"
)

// Update is published to subscribers whenever observable state changes.
// Final marks the last update of a run.
type Update struct {
	State    State  `json:"state"`
	Progress int    `json:"progress"`
	Status   string `json:"status"`
	Artifact string `json:"artifact,omitempty"`
	Final    bool   `json:"final"`
}

// PlanFunc supplies the slide schedule for a generation request.
type PlanFunc func() []models.SlidePlan

// History records finished runs. Satisfied by the database layer; a nil
// History disables recording.
type History interface {
	RecordGeneration(g models.Generation) (int64, error)
}

// Orchestrator owns the drawing surface and drives render-then-wait steps
// against a live capture sink. One run at a time; a failed or completed run
// settles back to idle and the next request starts fresh.
type Orchestrator struct {
	canvas  Canvas
	plans   PlanFunc
	sink    Sink
	outDir  string
	history History

	// Injection points for tests. sleep is the per-slide suspension,
	// the single cooperative yield of the recording loop.
	sleep           func(ctx context.Context, d time.Duration) error
	now             func() time.Time
	finalizeTimeout time.Duration

	mu       sync.Mutex
	state    State
	progress int
	status   string
	artifact string
	subs     []func(Update)
}

// New builds an orchestrator. canvas and sink may be nil; the corresponding
// precondition then fails each Generate with a terminal status.
func New(canvas Canvas, plans PlanFunc, snk Sink, outputDir string, history History) *Orchestrator {
	return &Orchestrator{
		canvas:          canvas,
		plans:           plans,
		sink:            snk,
		outDir:          outputDir,
		history:         history,
		sleep:           sleepCtx,
		now:             time.Now,
		finalizeTimeout: 15 * time.Second,
		status:          "idle",
	}
}

// Subscribe registers a callback invoked on every observable state change.
// Callbacks run on the generation goroutine and must not block.
func (o *Orchestrator) Subscribe(fn func(Update)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.subs = append(o.subs, fn)
}

// IsRecording reports whether a run currently holds the surface.
func (o *Orchestrator) IsRecording() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state != StateIdle
}

// Progress returns the last published progress percentage (0-100).
func (o *Orchestrator) Progress() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.progress
}

// Status returns the human-readable status of the current or last run.
func (o *Orchestrator) Status() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// ArtifactPath returns the output filename of the last successful run, or "".
func (o *Orchestrator) ArtifactPath() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.artifact
}

// Generate runs one full capture: precondition checks, live recording of
// every planned slide, then finalization into an output artifact. It blocks
// until the run settles and returns ErrBusy if another run is active.
func (o *Orchestrator) Generate(ctx context.Context) error {
	o.mu.Lock()
	if o.state != StateIdle {
		o.mu.Unlock()
		return ErrBusy
	}
	o.state = StateRecording
	o.progress = 0
	o.artifact = ""
	o.status = "preparing"
	o.mu.Unlock()

	started := o.now()
	plans := o.plans()

	// Preconditions, checked in order; each failure is terminal for this
	// request only.
	switch {
	case o.canvas == nil:
		return o.fail(started, plans, StatusNoCanvas)
	case len(plans) == 0:
		return o.fail(started, plans, StatusNoNews)
	case !o.canvas.Ready():
		return o.fail(started, plans, StatusNoContext)
	}
	mime, ok := o.negotiate()
	if !ok {
		return o.fail(started, plans, StatusNoFormat)
	}

	stream, err := o.sink.OpenLiveStream(o.canvas, FrameRate)
	if err != nil {
		slog.Error("Failed to open capture stream", "error", err)
		return o.fail(started, plans, "could not open capture stream")
	}

	filename := fmt.Sprintf("newsreel-%s%s", started.UTC().Format("20060102-150405"), ExtensionFor(mime))
	path := filepath.Join(o.outDir, filename)

	rec, err := o.sink.StartRecording(stream, RecordConfig{
		MimeType:      mime,
		BitsPerSecond: BitsPerSecond,
		FrameRate:     FrameRate,
		Path:          path,
	})
	if err != nil {
		stream.Close()
		slog.Error("Failed to start recorder", "error", err)
		return o.fail(started, plans, "could not start recorder")
	}

	total := totalDuration(plans)
	o.publish(StateRecording, 0, "recording", "")
	slog.Info("Recording started", "slides", len(plans), "mime", mime, "file", filename)

	// Strictly sequential render-then-wait steps. The sink samples the
	// surface on its own cadence during each suspension; correctness only
	// needs the slide to stay drawn for its full duration.
	var elapsed time.Duration
	for i, plan := range plans {
		if err := o.canvas.Draw(plan, o.now()); err != nil {
			slog.Error("Slide render failed", "slide", i, "error", err)
			o.abandonRecorder(rec, path)
			return o.fail(started, plans, "render failed")
		}
		if err := o.sleep(ctx, plan.Duration); err != nil {
			o.abandonRecorder(rec, path)
			return o.fail(started, plans, StatusCancelled)
		}
		elapsed += plan.Duration
		pct := progressFor(elapsed, total)
		o.publish(StateRecording, pct, fmt.Sprintf("recorded slide %d of %d", i+1, len(plans)), "")
	}

	// Finalize strictly after the last slide's wait.
	o.publish(StateFinalizing, progressFor(elapsed, total), "finalizing", "")
	rec.Stop()

	timer := time.NewTimer(o.finalizeTimeout)
	defer timer.Stop()
	select {
	case res := <-rec.Done():
		if res.Err != nil {
			slog.Error("Encoding failed", "error", res.Err)
			return o.fail(started, plans, "encoding failed")
		}
		o.record(started, plans, models.Generation{
			Status:   "completed",
			Progress: 100,
			Filename: filename,
			MimeType: res.MimeType,
		})
		o.publish(StateIdle, 100, StatusReady, filename)
		slog.Info("Recording finished", "file", filename, "frames", res.Frames)
		return nil
	case <-timer.C:
		// The sink never delivered its stop-completion callback; without
		// it the container index cannot be trusted, so the partial file
		// is discarded.
		os.Remove(path)
		return o.fail(started, plans, StatusTimedOut)
	}
}

// negotiate picks the first supported entry of the format preference list.
func (o *Orchestrator) negotiate() (string, bool) {
	if o.sink == nil {
		return "", false
	}
	for _, mime := range formatPreferences {
		if o.sink.Supports(mime) {
			return mime, true
		}
	}
	return "", false
}

// abandonRecorder stops a recorder mid-run and discards whatever partial
// artifact it manages to assemble.
func (o *Orchestrator) abandonRecorder(rec Recorder, path string) {
	rec.Stop()
	timer := time.NewTimer(o.finalizeTimeout)
	defer timer.Stop()
	select {
	case <-rec.Done():
	case <-timer.C:
	}
	os.Remove(path)
}

// fail settles the run back to idle with a terminal status message.
func (o *Orchestrator) fail(started time.Time, plans []models.SlidePlan, status string) error {
	o.mu.Lock()
	progress := o.progress
	o.mu.Unlock()

	o.record(started, plans, models.Generation{
		Status:   "failed",
		Progress: progress,
		Error:    status,
	})
	o.publish(StateIdle, progress, status, "")
	slog.Warn("Generation failed", "status", status)
	return fmt.Errorf("generation failed: %s", status)
}

func (o *Orchestrator) record(started time.Time, plans []models.SlidePlan, g models.Generation) {
	if o.history == nil {
		return
	}
	g.SlideCount = len(plans)
	g.StartedAt = started
	g.FinishedAt = o.now()
	if _, err := o.history.RecordGeneration(g); err != nil {
		slog.Error("Failed to record generation", "error", err)
	}
}

// publish stores the observable state and notifies subscribers.
func (o *Orchestrator) publish(state State, progress int, status, artifact string) {
	o.mu.Lock()
	o.state = state
	o.progress = progress
	o.status = status
	if artifact != "" {
		o.artifact = artifact
	}
	subs := make([]func(Update), len(o.subs))
	copy(subs, o.subs)
	o.mu.Unlock()

	u := Update{State: state, Progress: progress, Status: status, Artifact: artifact, Final: state == StateIdle}
	for _, fn := range subs {
		fn(u)
	}
}

// progressFor caps mid-run progress at 99; only finalization reports 100.
func progressFor(elapsed, total time.Duration) int {
	if total <= 0 {
		return 0
	}
	pct := int(math.Round(float64(elapsed) / float64(total) * 100))
	if pct > 99 {
		pct = 99
	}
	return pct
}

func totalDuration(plans []models.SlidePlan) time.Duration {
	var sum time.Duration
	for _, p := range plans {
		sum += p.Duration
	}
	return sum
}

// sleepCtx waits for d or until ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
