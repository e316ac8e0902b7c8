package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// FileDevice replays pre-captured media so a full session can run without
// camera or microphone hardware: frames cycle through the images in a
// directory, and each recording yields the next slab of an audio file,
// wrapping at the end.
type FileDevice struct {
	mu        sync.Mutex
	frames    []string
	frameIdx  int
	audio     []byte
	audioOff  int
	slabBytes int
	closed    bool
}

const defaultSlabBytes = 64 << 10

// OpenFileDevice validates both inputs up front so a broken path fails
// session start the same way denied device permissions would.
func OpenFileDevice(framesDir, audioPath string) (*FileDevice, error) {
	entries, err := os.ReadDir(framesDir)
	if err != nil {
		return nil, fmt.Errorf("frames dir: %w", err)
	}
	var frames []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg", ".png":
			frames = append(frames, filepath.Join(framesDir, e.Name()))
		}
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("frames dir %s: no images", framesDir)
	}
	sort.Strings(frames)

	audio, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, fmt.Errorf("audio file: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("audio file %s: empty", audioPath)
	}

	return &FileDevice{frames: frames, audio: audio, slabBytes: defaultSlabBytes}, nil
}

func (d *FileDevice) CaptureFrame(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil, fmt.Errorf("device closed")
	}
	path := d.frames[d.frameIdx]
	d.frameIdx = (d.frameIdx + 1) % len(d.frames)
	d.mu.Unlock()
	return os.ReadFile(path)
}

func (d *FileDevice) StartRecording() (Recording, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, fmt.Errorf("device closed")
	}
	return &fileRecording{dev: d}, nil
}

func (d *FileDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

type fileRecording struct {
	dev  *FileDevice
	once sync.Once
	data []byte
}

// Stop hands out the next audio slab. A replayed file has no real notion
// of recording length, so every chunk gets one slab regardless of how
// long it ran.
func (r *fileRecording) Stop() ([]byte, error) {
	r.once.Do(func() {
		d := r.dev
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.closed {
			return
		}
		n := d.slabBytes
		if n > len(d.audio) {
			n = len(d.audio)
		}
		slab := make([]byte, 0, n)
		for len(slab) < n {
			take := n - len(slab)
			if rest := len(d.audio) - d.audioOff; take > rest {
				take = rest
			}
			slab = append(slab, d.audio[d.audioOff:d.audioOff+take]...)
			d.audioOff = (d.audioOff + take) % len(d.audio)
		}
		r.data = slab
	})
	return r.data, nil
}
