package registry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/merrydance/logistics/geo"
	"github.com/merrydance/logistics/network"
	"github.com/merrydance/logistics/tour"
	mocktour "github.com/merrydance/logistics/tour/mock"
	"github.com/merrydance/logistics/util"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestRegistry(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := New()

	require.False(t, r.IsActive("a"))
	_, err := r.Get("a")
	require.ErrorIs(t, err, ErrNotFound)

	first := mocktour.NewMockInstance(ctrl)
	second := mocktour.NewMockInstance(ctrl)
	r.Register("a", first)
	r.Register("a", second)
	r.Register("b", first)

	require.True(t, r.IsActive("a"))
	got, err := r.Get("a")
	require.NoError(t, err)
	require.Same(t, second, got)
	require.Equal(t, []string{"a", "b"}, r.Names())
	require.Equal(t, 2, r.Len())
}

func TestRegistryConcurrent(t *testing.T) {
	ctrl := gomock.NewController(t)
	instance := mocktour.NewMockInstance(ctrl)
	r := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		name := fmt.Sprintf("instance-%d", i%5)
		go func() {
			defer wg.Done()
			r.Register(name, instance)
		}()
		go func() {
			defer wg.Done()
			if r.IsActive(name) {
				if _, err := r.Get(name); err != nil {
					t.Error(err)
				}
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 5, r.Len())
}

func TestBootstrapperIsolatesFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	instance := mocktour.NewMockInstance(ctrl)
	r := New()

	release := make(chan struct{})
	loader := func(ctx context.Context, config util.InstanceConfig) (tour.Instance, error) {
		switch config.Name {
		case "broken":
			return nil, errors.New("corrupt file")
		case "panics":
			panic("boom")
		case "slow":
			<-release
		}
		return instance, nil
	}

	configs := []util.InstanceConfig{
		{Name: "fast", Path: "fast.json"},
		{Name: "broken", Path: "broken.json"},
		{Name: "panics", Path: "panics.json"},
		{Name: "slow", Path: "slow.json"},
	}
	outcomes := NewBootstrapper(r, loader).Start(context.Background(), configs)

	// fast is published while slow is still loading
	require.Eventually(t, func() bool { return r.IsActive("fast") }, time.Second, 10*time.Millisecond)
	require.False(t, r.IsActive("slow"))
	close(release)

	results := make(map[string]Outcome)
	for outcome := range outcomes {
		results[outcome.Name] = outcome
	}
	require.Len(t, results, 4)
	require.NoError(t, results["fast"].Err)
	require.NoError(t, results["slow"].Err)
	require.Error(t, results["broken"].Err)
	require.Equal(t, tour.KindConfiguration, tour.KindOf(results["broken"].Err))
	require.Error(t, results["panics"].Err)

	require.Equal(t, []string{"fast", "slow"}, r.Names())
	require.Equal(t, 1.0, testutil.ToFloat64(bootstrapsTotal.WithLabelValues("broken", "failure")))
	require.Equal(t, 1.0, testutil.ToFloat64(bootstrapsTotal.WithLabelValues("panics", "failure")))
	require.Equal(t, 0.0, testutil.ToFloat64(bootstrapsTotal.WithLabelValues("broken", "success")))
}

func writeGrid(t *testing.T, path string) {
	n, err := network.NewGrid("grid", geo.NewCoordinate(51.0, 4.0), 3, 3, 100)
	require.NoError(t, err)
	require.NoError(t, network.Save(path, n))
}

func TestNetworkLoader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "grid.json.gz")
	writeGrid(t, path)

	r := New()
	b := NewBootstrapper(r, NetworkLoader("car.fastest"))
	configs := []util.InstanceConfig{
		{Name: "grid", Path: path},
		{Name: "missing", Path: filepath.Join(dir, "missing.json")},
	}
	for range b.Start(context.Background(), configs) {
	}

	require.True(t, r.IsActive("grid"))
	require.False(t, r.IsActive("missing"))

	instance, err := r.Get("grid")
	require.NoError(t, err)
	require.Equal(t, "grid", instance.Name())
}

func TestReloader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "grid.json")
	writeGrid(t, path)

	r := New()
	b := NewBootstrapper(r, NetworkLoader("car"))
	configs := []util.InstanceConfig{{Name: "grid", Path: path}}
	reloader := NewReloader(b, configs)

	// unchanged since construction
	require.Empty(t, reloader.Reload(context.Background()))

	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))
	outcomes := reloader.Reload(context.Background())
	require.Len(t, outcomes, 1)
	require.NoError(t, outcomes[0].Err)
	require.True(t, r.IsActive("grid"))

	require.Empty(t, reloader.Reload(context.Background()))

	require.Error(t, reloader.Start("not a schedule"))
	require.NoError(t, reloader.Start("@every 1h"))
	reloader.Stop()
}
