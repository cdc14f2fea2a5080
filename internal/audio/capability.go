package audio

import "context"

// Stream is an acquired capture device. Its meaning belongs to the capability.
type Stream interface {
	// Active reports whether the stream still holds the device.
	Active() bool
}

// Sink receives audio chunks in arrival order while a recorder runs
type Sink func(chunk []byte)

// Recorder is a running capture on an acquired stream
type Recorder interface {
	// Stop ends capture. Chunks still buffered by the capability are
	// delivered to the sink before Stop returns.
	Stop() error
}

// Capability is the host's microphone access
type Capability interface {
	Acquire(ctx context.Context) (Stream, error)
	Start(stream Stream, sink Sink) (Recorder, error)
	Release(stream Stream) error
	// MIMEType describes the bytes the recorder produces.
	MIMEType() string
}
