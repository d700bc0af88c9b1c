package storage_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/KaduPegasus/Frango-supremo/internal/storage"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestKey(t *testing.T) {
	if got := storage.Key(storage.DefaultNamespace, storage.DocProducts); got != "frango-supremo-app-products" {
		t.Errorf("key: got %q", got)
	}
	if got := storage.Key("", storage.DocCombos); got != "combos" {
		t.Errorf("key without namespace: got %q", got)
	}
}

func TestMemory_ReadMissing(t *testing.T) {
	m := storage.NewMemory()
	_, err := m.Read(context.Background(), "nope")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err: got %v, want ErrNotFound", err)
	}
}

func TestMemory_WriteCopiesInput(t *testing.T) {
	m := storage.NewMemory()
	data := []byte(`{"a":1}`)
	if err := m.Write(context.Background(), "k", data); err != nil {
		t.Fatalf("write: %v", err)
	}
	data[2] = 'b'

	got, err := m.Read(context.Background(), "k")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != `{"a":1}` {
		t.Errorf("stored: got %s", got)
	}
}

func TestFile_RoundTrip(t *testing.T) {
	f, err := storage.NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("new file: %v", err)
	}
	ctx := context.Background()

	if _, err := f.Read(ctx, "frango-supremo-app-products"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("missing read: got %v, want ErrNotFound", err)
	}
	if err := f.Write(ctx, "frango-supremo-app-products", []byte(`[1,2]`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := f.Write(ctx, "frango-supremo-app-products", []byte(`[3]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := f.Read(ctx, "frango-supremo-app-products")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != `[3]` {
		t.Errorf("content: got %s, want [3]", got)
	}
}

func TestFile_CancelledContext(t *testing.T) {
	f, err := storage.NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("new file: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := f.Write(ctx, "k", []byte(`1`)); !errors.Is(err, context.Canceled) {
		t.Errorf("write err: got %v, want context.Canceled", err)
	}
}

type failingPort struct {
	readErr  error
	writeErr error
	writes   int
}

func (p *failingPort) Read(context.Context, string) ([]byte, error) { return nil, p.readErr }
func (p *failingPort) Write(context.Context, string, []byte) error {
	p.writes++
	return p.writeErr
}

type doc struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

func TestDocuments_LoadFallsBackWhenAbsent(t *testing.T) {
	docs := storage.NewDocuments(storage.NewMemory(), "ns", quietLogger())
	dst := doc{Name: "default"}
	if docs.Load(context.Background(), "thing", &dst) {
		t.Fatal("expected Load to report missing document")
	}
	if dst.Name != "default" {
		t.Errorf("name: got %q, want default", dst.Name)
	}
}

func TestDocuments_LoadFallsBackOnGarbage(t *testing.T) {
	mem := storage.NewMemory()
	mem.Write(context.Background(), "ns-thing", []byte(`{"name":"half","items":[1`))
	docs := storage.NewDocuments(mem, "ns", quietLogger())

	dst := doc{Name: "default", Items: []string{"x"}}
	if docs.Load(context.Background(), "thing", &dst) {
		t.Fatal("expected Load to reject unparsable document")
	}
	if dst.Name != "default" || len(dst.Items) != 1 || dst.Items[0] != "x" {
		t.Errorf("dst modified: %+v", dst)
	}
}

func TestDocuments_LoadFallsBackOnReadError(t *testing.T) {
	docs := storage.NewDocuments(&failingPort{readErr: errors.New("disk gone")}, "ns", quietLogger())
	dst := doc{Name: "default"}
	if docs.Load(context.Background(), "thing", &dst) {
		t.Fatal("expected Load to report failure")
	}
	if dst.Name != "default" {
		t.Errorf("name: got %q", dst.Name)
	}
}

func TestDocuments_SaveThenLoad(t *testing.T) {
	docs := storage.NewDocuments(storage.NewMemory(), "ns", quietLogger())
	ctx := context.Background()
	docs.Save(ctx, "thing", doc{Name: "saved", Items: []string{"a", "b"}})

	var got doc
	if !docs.Load(ctx, "thing", &got) {
		t.Fatal("expected saved document to load")
	}
	if got.Name != "saved" || len(got.Items) != 2 {
		t.Errorf("loaded: %+v", got)
	}
}

func TestDocuments_SaveSurvivesCancelledContext(t *testing.T) {
	f, err := storage.NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("new file: %v", err)
	}
	docs := storage.NewDocuments(f, "ns", quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	docs.Save(ctx, "thing", doc{Name: "after disconnect"})

	var got doc
	if !docs.Load(context.Background(), "thing", &got) {
		t.Fatal("document was not written")
	}
	if got.Name != "after disconnect" {
		t.Errorf("name: got %q", got.Name)
	}
}

func TestDocuments_SaveSwallowsWriteError(t *testing.T) {
	port := &failingPort{writeErr: errors.New("quota exceeded")}
	docs := storage.NewDocuments(port, "ns", quietLogger())
	docs.Save(context.Background(), "thing", doc{Name: "x"})
	if port.writes != 1 {
		t.Errorf("writes: got %d, want 1", port.writes)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	port, closeFn, err := storage.Open(ctx, storage.OpenOptions{Backend: storage.BackendMemory}, quietLogger())
	if err != nil {
		t.Fatalf("open memory: %v", err)
	}
	defer closeFn()
	if _, ok := port.(*storage.Memory); !ok {
		t.Errorf("memory backend: got %T", port)
	}

	dir := t.TempDir()
	port, closeFn, err = storage.Open(ctx, storage.OpenOptions{Backend: storage.BackendFile, DataDir: dir}, quietLogger())
	if err != nil {
		t.Fatalf("open file: %v", err)
	}
	defer closeFn()
	if _, ok := port.(*storage.File); !ok {
		t.Errorf("file backend: got %T", port)
	}

	if _, _, err := storage.Open(ctx, storage.OpenOptions{Backend: "sqlite"}, quietLogger()); err == nil {
		t.Error("unknown backend: expected error")
	}
}
