package scanner

import (
	"context"
	"errors"
	"image"
	"sync"
)

// RemoteCamera is a Camera whose device lives in a client, typically a
// browser connected over a WebSocket. The client is asked to start and stop
// the device through the request and release callbacks, acknowledges with
// Started and streams frames with PushFrame.
type RemoteCamera struct {
	devices []Device
	request func(deviceID string) error
	release func()

	mu     sync.Mutex
	ack    chan error
	active *remoteStream
}

// NewRemoteCamera creates a camera offering the client's devices.
func NewRemoteCamera(devices []Device, request func(deviceID string) error, release func()) *RemoteCamera {
	return &RemoteCamera{devices: devices, request: request, release: release}
}

// Devices returns the devices reported by the client.
func (c *RemoteCamera) Devices(ctx context.Context) ([]Device, error) {
	return c.devices, nil
}

// Open asks the client to start deviceID and waits for its acknowledgement.
func (c *RemoteCamera) Open(ctx context.Context, deviceID string) (Stream, error) {
	ack := make(chan error, 1)
	c.mu.Lock()
	c.ack = ack
	c.mu.Unlock()

	if err := c.request(deviceID); err != nil {
		return nil, err
	}

	select {
	case err := <-ack:
		if err != nil {
			return nil, err
		}
	case <-ctx.Done():
		// The client may still start the device.
		c.release()
		return nil, ctx.Err()
	}

	s := &remoteStream{camera: c, frames: make(chan image.Image, 1)}
	c.mu.Lock()
	c.active = s
	c.mu.Unlock()
	return s, nil
}

// Started acknowledges an Open request. A nil err means the device is running.
func (c *RemoteCamera) Started(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ack != nil {
		c.ack <- err
		c.ack = nil
	}
}

// PushFrame hands a frame to the running stream. Frames arriving while the
// decoder is busy are dropped. It reports whether the frame was accepted.
func (c *RemoteCamera) PushFrame(img image.Image) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil || c.active.closed {
		return false
	}
	select {
	case c.active.frames <- img:
		return true
	default:
		return false
	}
}

// Fail ends the running stream with err, as when the device is unplugged.
func (c *RemoteCamera) Fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil {
		c.active.closeLocked(err)
	}
}

// ClientError maps an error kind reported by the client to a scanner error.
func ClientError(kind, message string) error {
	switch kind {
	case KindPermissionDenied.String():
		return ErrPermissionDenied
	case KindNoCamera.String():
		return ErrNoCamera
	case KindTimeout.String():
		return &Error{Kind: KindTimeout, Err: errors.New(message)}
	default:
		if message == "" {
			message = "camera error"
		}
		return errors.New(message)
	}
}

type remoteStream struct {
	camera *RemoteCamera
	frames chan image.Image
	closed bool
	err    error
	once   sync.Once
}

func (s *remoteStream) Frames() <-chan image.Image { return s.frames }

func (s *remoteStream) Err() error {
	s.camera.mu.Lock()
	defer s.camera.mu.Unlock()
	return s.err
}

func (s *remoteStream) Stop() {
	s.once.Do(func() {
		s.camera.mu.Lock()
		s.closeLocked(nil)
		if s.camera.active == s {
			s.camera.active = nil
		}
		s.camera.mu.Unlock()
		s.camera.release()
	})
}

func (s *remoteStream) closeLocked(err error) {
	if s.closed {
		return
	}
	s.closed = true
	s.err = err
	close(s.frames)
}
