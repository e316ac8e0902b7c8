// Package session owns the live practice-session pipeline: the lifecycle
// state machine, the video sampling loop and the overlapping audio chunk
// scheduler.
package session

import (
	"context"
	"errors"
)

// ErrDeviceUnavailable is returned by Start when the capture device cannot
// be acquired (missing hardware, denied permissions). Fatal to session
// start and surfaced to the caller.
var ErrDeviceUnavailable = errors.New("capture device unavailable")

// ErrChunkTooSmall marks an audio chunk below the dispatch threshold,
// treated as silence. Expected and benign; never surfaced.
var ErrChunkTooSmall = errors.New("audio chunk below size threshold")

// Recording is one in-progress audio capture. Stop ends the capture and
// returns the recorded bytes; it is the explicit completion that a
// callback-style recorder would deliver asynchronously. Stop is called
// exactly once, either when the chunk duration elapses or when the
// session is stopped mid-chunk.
type Recording interface {
	Stop() ([]byte, error)
}

// Device is the shared camera+microphone handle. The controller owns it
// exclusively; the loops borrow it read-only and never close it.
type Device interface {
	// CaptureFrame grabs one encoded still image from the video stream.
	CaptureFrame(ctx context.Context) ([]byte, error)
	// StartRecording begins capturing a new audio segment.
	StartRecording() (Recording, error)
	Close() error
}

// DeviceOpener acquires the capture device at session start.
type DeviceOpener func(ctx context.Context) (Device, error)
