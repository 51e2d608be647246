// Package scanner manages a barcode scan: camera acquisition, the frame
// decode loop and the release of the camera on every exit path.
//
// A scan moves through Idle → Initializing → Scanning → (Decoded | Error |
// Cancelled) → Idle. Frames without a barcode never end a scan.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/reginaldodesouza61/listas-compras/internal/metrics"
)

// DefaultTimeout bounds camera acquisition.
const DefaultTimeout = 10 * time.Second

// State is the scanner lifecycle state.
type State int

const (
	Idle State = iota
	Initializing
	Scanning
	Decoded
	Failed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Initializing:
		return "initializing"
	case Scanning:
		return "scanning"
	case Decoded:
		return "decoded"
	case Failed:
		return "error"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Device is a video input.
type Device struct {
	ID    string
	Label string

	// RearFacing is set when the device is known to face away from the user.
	RearFacing bool
}

// Camera gives access to video inputs.
type Camera interface {
	// Devices lists the available video inputs.
	Devices(ctx context.Context) ([]Device, error)

	// Open acquires exclusive access to a device and starts its frames.
	Open(ctx context.Context, deviceID string) (Stream, error)
}

// Stream is an acquired camera. Stop must be called exactly once for every
// successful Camera.Open.
type Stream interface {
	// Frames delivers video frames. It is closed when the device stops.
	Frames() <-chan image.Image

	// Err reports why Frames was closed, if it was not stopped.
	Err() error

	// Stop releases the device.
	Stop()
}

// Decoder extracts barcode text from a frame.
type Decoder interface {
	// Decode returns ErrNoBarcode when the frame holds no readable barcode.
	Decode(img image.Image) (string, error)

	// Reset clears any state kept between frames.
	Reset()
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithTimeout bounds camera acquisition.
func WithTimeout(d time.Duration) Option {
	return func(s *Scanner) { s.timeout = d }
}

// WithMaxDimension bounds the frame size handed to the decoder.
func WithMaxDimension(px int) Option {
	return func(s *Scanner) { s.maxDim = px }
}

// WithStateFunc registers a callback invoked on every state change.
func WithStateFunc(fn func(State)) Option {
	return func(s *Scanner) { s.onState = fn }
}

// WithMetrics records scan outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scanner) { s.metrics = m }
}

// Scanner runs one scan at a time.
type Scanner struct {
	camera  Camera
	decoder Decoder
	timeout time.Duration
	maxDim  int
	onState func(State)
	metrics *metrics.Metrics

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	done   chan struct{}

	// pending tracks acquisitions that outlived their scan.
	pending sync.WaitGroup
}

// New creates an idle scanner.
func New(camera Camera, decoder Decoder, opts ...Option) *Scanner {
	s := &Scanner{
		camera:  camera,
		decoder: decoder,
		timeout: DefaultTimeout,
		maxDim:  DefaultMaxDimension,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current state.
func (s *Scanner) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Scanner) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	if s.onState != nil {
		s.onState(state)
	}
}

// Scan acquires a camera and blocks until a barcode is decoded, the scan
// fails, or it is cancelled through ctx or Close. The camera is released and
// the scanner is Idle again when Scan returns.
//
// Failures are returned as *Error; cancellation as ErrCancelled.
func (s *Scanner) Scan(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.state != Idle {
		s.mu.Unlock()
		return "", ErrBusy
	}
	// Leaving Idle under the same lock makes concurrent callers see ErrBusy
	s.state = Initializing
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	defer func() {
		cancel()
		close(done)
	}()

	if s.onState != nil {
		s.onState(Initializing)
	}
	code, err := s.run(ctx)

	switch {
	case err == nil:
		s.setState(Decoded)
		s.metrics.ScanSession("decoded")
	case ctx.Err() != nil && !errors.Is(err, context.DeadlineExceeded):
		err = ErrCancelled
		s.setState(Cancelled)
		s.metrics.ScanSession("cancelled")
	default:
		scanErr := classify(err)
		err = scanErr
		slog.Warn("Barcode scan failed", "kind", scanErr.Kind.String(), "error", scanErr.Err)
		s.setState(Failed)
		s.metrics.ScanSession(scanErr.Kind.String())
	}

	s.decoder.Reset()
	s.setState(Idle)
	return code, err
}

// run performs the scan. The stream is stopped before run returns.
func (s *Scanner) run(ctx context.Context) (string, error) {
	devices, err := s.camera.Devices(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list cameras: %w", err)
	}
	device, ok := SelectDevice(devices)
	if !ok {
		return "", &Error{Kind: KindNoCamera, Err: ErrNoCamera}
	}

	stream, err := s.open(ctx, device.ID)
	if err != nil {
		return "", err
	}
	defer stream.Stop()

	s.setState(Scanning)
	slog.Debug("Camera acquired", "device", device.Label)

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case frame, ok := <-stream.Frames():
			if !ok {
				if err := stream.Err(); err != nil {
					return "", fmt.Errorf("camera stopped: %w", err)
				}
				return "", errors.New("camera stopped")
			}

			code, err := s.decoder.Decode(downscale(frame, s.maxDim))
			if err == nil {
				return code, nil
			}
			if !errors.Is(err, ErrNoBarcode) {
				slog.Debug("Frame decode failed", "error", err)
			}
		}
	}
}

type openResult struct {
	stream Stream
	err    error
}

// open acquires the device within the timeout. A camera that is acquired
// after the scan gave up on it is released as soon as it arrives.
func (s *Scanner) open(ctx context.Context, deviceID string) (Stream, error) {
	openCtx, cancel := context.WithCancel(ctx)
	results := make(chan openResult, 1)

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		stream, err := s.camera.Open(openCtx, deviceID)
		results <- openResult{stream: stream, err: err}
	}()

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	var reason error
	select {
	case r := <-results:
		cancel()
		if r.err != nil {
			return nil, fmt.Errorf("failed to open camera: %w", r.err)
		}
		return r.stream, nil
	case <-timer.C:
		reason = &Error{Kind: KindTimeout, Err: fmt.Errorf("camera acquisition exceeded %s: %w", s.timeout, context.DeadlineExceeded)}
	case <-ctx.Done():
		reason = ctx.Err()
	}

	cancel()
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if r := <-results; r.stream != nil {
			slog.Debug("Releasing late camera acquisition", "device", deviceID)
			r.stream.Stop()
		}
	}()
	return nil, reason
}

// Close cancels a running scan from any state and waits until every camera
// acquired for it has been released. It is safe to call more than once.
func (s *Scanner) Close() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	s.pending.Wait()
}

var rearLabels = []string{"back", "rear", "environment", "traseira"}

// SelectDevice prefers a rear-facing camera. Without one the last device is
// used, which is the rear camera on most phones.
func SelectDevice(devices []Device) (Device, bool) {
	if len(devices) == 0 {
		return Device{}, false
	}
	for _, d := range devices {
		if d.RearFacing {
			return d, true
		}
	}
	for _, d := range devices {
		label := strings.ToLower(d.Label)
		for _, hint := range rearLabels {
			if strings.Contains(label, hint) {
				return d, true
			}
		}
	}
	return devices[len(devices)-1], true
}
