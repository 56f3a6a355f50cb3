package grabber

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/piyush-malaviya/4dvideo/internal/appstate"
	"github.com/piyush-malaviya/4dvideo/internal/cancellation"
	"github.com/piyush-malaviya/4dvideo/internal/frame"
	"github.com/piyush-malaviya/4dvideo/internal/framequeue"
	"github.com/piyush-malaviya/4dvideo/internal/geometry"
	"github.com/piyush-malaviya/4dvideo/internal/metrics"
	"github.com/piyush-malaviya/4dvideo/internal/sensor"
)

// fakeSensor feeds a scripted sequence of samples, then ends the stream.
type fakeSensor struct {
	samples []*sensor.Sample
	next    int
}

func (f *fakeSensor) Start() error { return nil }
func (f *fakeSensor) Stop() error  { return nil }

func (f *fakeSensor) ColorParams() geometry.StreamParams {
	return geometry.StreamParams{Width: 4, Height: 4, Intrinsics: geometry.Intrinsics{Fx: 4, Fy: 4}}
}

func (f *fakeSensor) DepthParams() geometry.StreamParams {
	return f.ColorParams()
}

func (f *fakeSensor) Acquire(time.Duration) (*sensor.Sample, error) {
	if f.next >= len(f.samples) {
		return nil, sensor.ErrStreamEnded
	}
	s := f.samples[f.next]
	f.next++
	return s, nil
}

type fakeColorBuffer struct {
	err      error
	released bool
}

func (b *fakeColorBuffer) AcquireRead() (*frame.ColorImage, error) {
	if b.err != nil {
		return nil, b.err
	}
	return frame.NewColorImage(4, 4), nil
}

func (b *fakeColorBuffer) Release() { b.released = true }

type fakeDepthBuffer struct {
	err      error
	released bool
}

func (b *fakeDepthBuffer) AcquireRead() (*frame.DepthGrid, error) {
	if b.err != nil {
		return nil, b.err
	}
	return frame.NewDepthGrid(4, 4), nil
}

func (b *fakeDepthBuffer) Release() { b.released = true }

func goodSample() *sensor.Sample {
	return &sensor.Sample{Color: &fakeColorBuffer{}, Depth: &fakeDepthBuffer{}, Timestamp: time.Now()}
}

func newTestGrabber(dev sensor.Sensor, queues *framequeue.Set, state *appstate.State) *Grabber {
	return New(dev, queues, state, cancellation.NewToken(), metrics.Nop(), slog.Default())
}

func capturingState() *appstate.State {
	s := appstate.New()
	s.Advance() // idle -> capturing
	return s
}

func TestRunDistributesInProductionOrder(t *testing.T) {
	dev := &fakeSensor{samples: []*sensor.Sample{goodSample(), goodSample(), goodSample()}}
	queues := framequeue.NewSet()
	q := framequeue.NewQueue()
	queues.Register("viewer", q)

	g := newTestGrabber(dev, queues, capturingState())
	g.Run() // terminates on ErrStreamEnded

	for want := uint64(1); want <= 3; want++ {
		f, ok := q.Get()
		if !ok {
			t.Fatalf("queue closed before frame %d", want)
		}
		if f.Seq != want {
			t.Errorf("frame seq %d, want %d", f.Seq, want)
		}
	}
	if _, ok := q.Get(); ok {
		t.Error("queue must be closed after the grabber ends")
	}

	if st := g.Stats(); st.Produced != 3 || st.Skipped != 0 {
		t.Errorf("stats = %+v, want produced=3 skipped=0", st)
	}
}

func TestMissingPlanesAreSkippedNotFatal(t *testing.T) {
	dev := &fakeSensor{samples: []*sensor.Sample{
		{Depth: &fakeDepthBuffer{}}, // color missing
		{Color: &fakeColorBuffer{}}, // depth missing
		goodSample(),
		{Color: &fakeColorBuffer{err: errors.New("locked")}, Depth: &fakeDepthBuffer{}},
		goodSample(),
	}}
	queues := framequeue.NewSet()
	q := framequeue.NewQueue()
	queues.Register("viewer", q)

	g := newTestGrabber(dev, queues, capturingState())
	g.Run()

	st := g.Stats()
	if st.Produced != 2 {
		t.Errorf("produced = %d, want 2", st.Produced)
	}
	if st.Skipped != 3 {
		t.Errorf("skipped = %d, want 3", st.Skipped)
	}
}

func TestBuffersReleasedAfterWrap(t *testing.T) {
	cb := &fakeColorBuffer{}
	db := &fakeDepthBuffer{}
	dev := &fakeSensor{samples: []*sensor.Sample{{Color: cb, Depth: db}}}
	queues := framequeue.NewSet()
	queues.Register("viewer", framequeue.NewQueue())

	newTestGrabber(dev, queues, capturingState()).Run()

	if !cb.released || !db.released {
		t.Error("buffer access must be released promptly after wrapping")
	}
}

func TestFramesGatedWhileNotCapturing(t *testing.T) {
	dev := &fakeSensor{samples: []*sensor.Sample{goodSample(), goodSample()}}
	queues := framequeue.NewSet()
	q := framequeue.NewQueue()
	queues.Register("viewer", q)

	g := newTestGrabber(dev, queues, appstate.New()) // still idle
	g.Run()

	if st := g.Stats(); st.Produced != 0 {
		t.Errorf("produced = %d while idle, want 0", st.Produced)
	}
}

func TestCancellationObservedBetweenIterations(t *testing.T) {
	// Endless supply of good samples; only the token ends the loop.
	dev := &endlessSensor{}
	queues := framequeue.NewSet()
	queues.Register("viewer", framequeue.NewQueue())

	token := cancellation.NewToken()
	g := New(dev, queues, capturingState(), token, metrics.Nop(), slog.Default())

	done := make(chan struct{})
	go func() {
		g.Run()
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	token.Trigger()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("grabber did not observe cancellation")
	}
}

type endlessSensor struct{ fakeSensor }

func (e *endlessSensor) Acquire(time.Duration) (*sensor.Sample, error) {
	return goodSample(), nil
}
