package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/OyamaKema/Hardware-Jack/internal/domain"

	"go.uber.org/zap"
)

func newTestFileStore(t *testing.T) *FileStore[domain.Product] {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inventory.json")
	return NewFileStore[domain.Product](path, zap.NewNop())
}

func sampleProducts() []domain.Product {
	return []domain.Product{
		{
			ID:       "1700000000001",
			Name:     "Dell Latitude 7490",
			Price:    5500,
			Image:    "https://images.yaga.co.za/a/b.jpeg",
			Images:   []string{"https://images.yaga.co.za/a/b.jpeg"},
			URL:      "https://example.test/listing/1",
			Category: "Laptops",
		},
		{
			ID:       "1700000000002",
			Name:     "AirPods Pro",
			Price:    3250,
			Category: "Audio",
		},
	}
}

func TestFileStore_LoadMissingFileIsEmpty(t *testing.T) {
	s := newTestFileStore(t)

	records, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected empty collection, got %d records", len(records))
	}
}

func TestFileStore_LoadMalformedFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewFileStore[domain.Product](path, zap.NewNop())

	records, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected empty collection, got %d records", len(records))
	}
}

func TestFileStore_SaveLoadRoundTrip(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()
	want := sampleProducts()

	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}

	// save(load()) leaves the collection unchanged
	if err := s.Save(ctx, got); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	again, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(again, want) {
		t.Errorf("save(load()) changed collection:\ngot  %+v\nwant %+v", again, want)
	}
}

func TestFileStore_SaveToUnwritableDirFails(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}
	dir := t.TempDir()
	if err := os.Chmod(dir, 0o555); err != nil {
		t.Fatal(err)
	}
	defer os.Chmod(dir, 0o755)

	s := NewFileStore[domain.Product](filepath.Join(dir, "inventory.json"), zap.NewNop())
	err := s.Save(context.Background(), sampleProducts())
	if err == nil {
		t.Fatal("expected save to fail on unwritable directory")
	}
	if !errors.Is(err, ErrWriteFailed) {
		t.Errorf("error %v does not wrap ErrWriteFailed", err)
	}
}

func TestFileStore_ConcurrentAppendsAllSurvive(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	const writers = 16
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := s.Update(ctx, func(all []domain.Product) ([]domain.Product, error) {
				return append(all, domain.Product{ID: string(rune('a' + n))}), nil
			})
			if err != nil {
				t.Errorf("Update failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	records, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != writers {
		t.Errorf("lost updates: got %d records, want %d", len(records), writers)
	}
}
