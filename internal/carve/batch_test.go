package carve

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/steamcarve/steamcarve/internal/model"
)

// TestBatchCarverCarveAll tests bounded concurrent carving.
func TestBatchCarverCarveAll(t *testing.T) {
	t.Parallel()

	t.Run("every image carved once", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		carved := map[string]int{}
		run := func(_ context.Context, imagePath string) *model.CarveReport {
			mu.Lock()
			carved[imagePath]++
			mu.Unlock()
			return model.NewCarveReport(imagePath)
		}

		images := []string{"a.raw", "b.raw", "c.raw"}
		seen := make([]bool, len(images))
		bc := NewBatchCarver(run, WithConcurrency(2))
		err := bc.CarveAll(context.Background(), images, func(r *model.CarveReport, index int) {
			mu.Lock()
			defer mu.Unlock()
			seen[index] = true
			if r.Image != images[index] {
				t.Errorf("callback index %d got report for %q", index, r.Image)
			}
		})
		if err != nil {
			t.Fatal(err)
		}

		for _, img := range images {
			if carved[img] != 1 {
				t.Errorf("image %q carved %d times", img, carved[img])
			}
		}
		for i, ok := range seen {
			if !ok {
				t.Errorf("callback never ran for index %d", i)
			}
		}
	})

	t.Run("concurrency bound respected", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		active, peak := 0, 0
		gate := make(chan struct{})

		run := func(_ context.Context, imagePath string) *model.CarveReport {
			mu.Lock()
			active++
			if active > peak {
				peak = active
			}
			mu.Unlock()

			<-gate

			mu.Lock()
			active--
			mu.Unlock()
			return model.NewCarveReport(imagePath)
		}

		done := make(chan error, 1)
		bc := NewBatchCarver(run, WithConcurrency(2))
		go func() {
			done <- bc.CarveAll(context.Background(),
				[]string{"a", "b", "c", "d"},
				func(*model.CarveReport, int) {})
		}()

		close(gate)
		if err := <-done; err != nil {
			t.Fatal(err)
		}

		if peak > 2 {
			t.Errorf("peak concurrency = %d, want <= 2", peak)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		run := func(context.Context, string) *model.CarveReport {
			t.Error("run called after cancellation")
			return nil
		}
		bc := NewBatchCarver(run)
		err := bc.CarveAll(ctx, []string{"a.raw"}, func(*model.CarveReport, int) {})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("CarveAll() error = %v, want context.Canceled", err)
		}
	})
}
