package products

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/gabriel-vasile/mimetype"

	"github.com/agentstation/catalogadmin/pkg/errors"
)

// AllowedImageTypes lists the MIME types accepted for upload.
var AllowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// Image is a file selected for upload but not yet sent. It holds an open
// handle on the content until Release is called.
type Image struct {
	Filename string `json:"filename" validate:"required"`
	MIMEType string `json:"mimeType" validate:"imagetype"`
	Size     int64  `json:"size" validate:"imagesize"`

	mu       sync.Mutex
	content  io.ReadSeeker
	closer   io.Closer
	released bool
}

// OpenImage opens the file at path and sniffs its content type. The
// returned image keeps the file open until Release.
func OpenImage(path string) (*Image, error) {
	f, err := os.Open(path) //nolint:gosec // path is chosen by the operator
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, errors.WrapIO("stat", path, err)
	}
	img, err := newImage(filepath.Base(path), f, info.Size())
	if err != nil {
		_ = f.Close()
		return nil, errors.WrapIO("read", path, err)
	}
	img.closer = f
	return img, nil
}

// NewImageFromBytes wraps in-memory content as a pending image.
func NewImageFromBytes(filename string, data []byte) (*Image, error) {
	return newImage(filename, bytes.NewReader(data), int64(len(data)))
}

func newImage(filename string, r io.ReadSeeker, size int64) (*Image, error) {
	mtype, err := mimetype.DetectReader(r)
	if err != nil {
		return nil, err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return &Image{
		Filename: filename,
		MIMEType: mtype.String(),
		Size:     size,
		content:  r,
	}, nil
}

// Reader rewinds the content and returns it for streaming.
func (i *Image) Reader() (io.Reader, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.released {
		return nil, errors.NewIOError("read", i.Filename, os.ErrClosed)
	}
	if _, err := i.content.Seek(0, io.SeekStart); err != nil {
		return nil, errors.WrapIO("seek", i.Filename, err)
	}
	return i.content, nil
}

// Release frees the underlying file handle. It is safe to call more than once.
func (i *Image) Release() error {
	if i == nil {
		return nil
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.released {
		return nil
	}
	i.released = true
	if i.closer != nil {
		return i.closer.Close()
	}
	return nil
}

// Released reports whether Release has been called.
func (i *Image) Released() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.released
}
