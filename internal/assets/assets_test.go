package assets

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"
)

func TestModelPath(t *testing.T) {
	if got := ModelPath("astronaut", "gltf"); got != "models/astronaut/scene.gltf" {
		t.Errorf("ModelPath = %q", got)
	}
	if got := ModelPath("planet", "glb"); got != "models/planet/scene.glb" {
		t.Errorf("ModelPath = %q", got)
	}
}

func TestManagerLoadCaches(t *testing.T) {
	fsys := fstest.MapFS{
		"models/planet/scene.gltf": {Data: []byte("{}")},
	}
	m := NewManager(NewFSSource(fsys))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		data, err := m.Load(ctx, "models/planet/scene.gltf")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if string(data) != "{}" {
			t.Errorf("unexpected data %q", data)
		}
	}

	hits, misses := m.Stats()
	if hits != 2 || misses != 1 {
		t.Errorf("expected 2 hits / 1 miss, got %d / %d", hits, misses)
	}
}

func TestManagerLoadMissing(t *testing.T) {
	m := NewManager(NewFSSource(fstest.MapFS{}))
	_, err := m.Load(context.Background(), "models/nope/scene.gltf")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestManagerLoadInvalidPath(t *testing.T) {
	m := NewManager(NewFSSource(fstest.MapFS{}))
	if _, err := m.Load(context.Background(), "../etc/passwd"); !errors.Is(err, fs.ErrInvalid) {
		t.Errorf("expected fs.ErrInvalid, got %v", err)
	}
}

func TestManagerSourcePriority(t *testing.T) {
	low := NewFSSource(fstest.MapFS{"a.txt": {Data: []byte("low")}, "b.txt": {Data: []byte("only-low")}})
	high := NewFSSource(fstest.MapFS{"a.txt": {Data: []byte("high")}})
	m := NewManager(low)
	m.AddSource(high)
	ctx := context.Background()

	if data, _ := m.Load(ctx, "a.txt"); string(data) != "high" {
		t.Errorf("expected last added source to win, got %q", data)
	}
	if data, _ := m.Load(ctx, "b.txt"); string(data) != "only-low" {
		t.Errorf("expected fallback to lower source, got %q", data)
	}
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.FileServer(http.FS(fstest.MapFS{
		"models/rover/scene.gltf": {Data: []byte(`{"asset":{"version":"2.0"}}`)},
	})))
	defer srv.Close()

	src, err := NewHTTPSource(srv.URL+"/", 0)
	if err != nil {
		t.Fatalf("NewHTTPSource: %v", err)
	}
	ctx := context.Background()

	data, err := src.Fetch(ctx, "models/rover/scene.gltf")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected body")
	}

	_, err = src.Fetch(ctx, "models/missing/scene.gltf")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist for 404, got %v", err)
	}
}

func TestHTTPSourceSubPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	src, err := NewHTTPSource(srv.URL+"/static", 0)
	if err != nil {
		t.Fatalf("NewHTTPSource: %v", err)
	}
	if _, err := src.Fetch(context.Background(), "models/a b/scene.gltf"); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if gotPath != "/static/models/a b/scene.gltf" {
		t.Errorf("unexpected request path %q", gotPath)
	}
}

func TestNewHTTPSourceRejectsScheme(t *testing.T) {
	if _, err := NewHTTPSource("ftp://example.com/", 0); err == nil {
		t.Error("expected error for ftp scheme")
	}
}

func TestManagerFS(t *testing.T) {
	m := NewManager(NewFSSource(fstest.MapFS{
		"models/rover/scene.bin": {Data: []byte{1, 2, 3, 4}},
	}))
	fsys := m.FS(context.Background(), "models/rover")

	data, err := fs.ReadFile(fsys, "scene.bin")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(data) != 4 {
		t.Errorf("expected 4 bytes, got %d", len(data))
	}

	f, err := fsys.Open("scene.bin")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil || info.Size() != 4 || info.Name() != "scene.bin" {
		t.Errorf("unexpected stat %v %v", info, err)
	}

	if _, err := fsys.Open("missing.bin"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}

// gatedSource counts fetches and holds each one until release is closed.
type gatedSource struct {
	fetches atomic.Int32
	release chan struct{}
}

func (s *gatedSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	s.fetches.Add(1)
	select {
	case <-s.release:
		return []byte("skid"), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestManagerConcurrentLoadsShareFetch(t *testing.T) {
	src := &gatedSource{release: make(chan struct{})}
	m := NewManager(src)
	const name = "models/solar_skid/scene.gltf"
	const loaders = 4

	var wg sync.WaitGroup
	errs := make(chan error, loaders)
	for range loaders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := m.Load(context.Background(), name)
			if err == nil && string(data) != "skid" {
				err = errors.New("unexpected data " + string(data))
			}
			errs <- err
		}()
	}

	// Every loader has missed the cache before the fetch is let through.
	deadline := time.Now().Add(5 * time.Second)
	for {
		if _, misses := m.Stats(); misses == loaders {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("loaders did not reach the cache")
		}
		time.Sleep(time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	close(src.release)

	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Errorf("Load: %v", err)
		}
	}
	if n := src.fetches.Load(); n != 1 {
		t.Errorf("source fetched %d times, want 1", n)
	}

	if _, err := m.Load(context.Background(), name); err != nil {
		t.Fatalf("cached Load: %v", err)
	}
	if n := src.fetches.Load(); n != 1 {
		t.Errorf("cached load hit the source again (%d fetches)", n)
	}
}
