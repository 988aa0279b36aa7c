package assets

import (
	"bytes"
	"context"
	"io/fs"
	"path"
	"time"
)

// FS returns a read-only file system rooted at dir whose reads go through
// the manager, bound to ctx. It lets format decoders resolve relative URIs
// (external buffers, images) next to a bundle.
func (m *Manager) FS(ctx context.Context, dir string) fs.FS {
	return &managerFS{ctx: ctx, m: m, dir: dir}
}

type managerFS struct {
	ctx context.Context
	m   *Manager
	dir string
}

func (f *managerFS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	full := path.Join(f.dir, name)
	data, err := f.m.Load(f.ctx, full)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	return &memFile{Reader: bytes.NewReader(data), name: path.Base(name), size: int64(len(data))}, nil
}

func (f *managerFS) ReadFile(name string) ([]byte, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: fs.ErrInvalid}
	}
	return f.m.Load(f.ctx, path.Join(f.dir, name))
}

type memFile struct {
	*bytes.Reader
	name string
	size int64
}

func (f *memFile) Stat() (fs.FileInfo, error) { return f, nil }
func (f *memFile) Close() error               { return nil }

func (f *memFile) Name() string       { return f.name }
func (f *memFile) Size() int64        { return f.size }
func (f *memFile) Mode() fs.FileMode  { return 0444 }
func (f *memFile) ModTime() time.Time { return time.Time{} }
func (f *memFile) IsDir() bool        { return false }
func (f *memFile) Sys() any           { return nil }
