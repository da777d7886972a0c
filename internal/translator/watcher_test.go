package translator

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A re-translation writes its ADT into the same directory the input lives in.
// The directory watch sees that write too; it must not schedule another run,
// or a single edit turns into an endless re-translation loop.
func TestWatcherSingleRunPerInputEdit(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "manifests.yaml")
	output := filepath.Join(dir, "adt-micado.yaml")
	require.NoError(t, os.WriteFile(input, []byte("kind: Pod\n"), 0o644))

	var calls atomic.Int32
	w, err := NewWatcher(func(path string) error {
		calls.Add(1)
		return os.WriteFile(output, []byte("topology_template: {}\n"), 0o644)
	})
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.Watch(input))

	require.NoError(t, os.WriteFile(input, []byte("kind: Pod\nmetadata:\n  name: p\n"), 0o644))

	time.Sleep(2 * time.Second)
	assert.EqualValues(t, 1, calls.Load())
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "manifests.yaml")
	require.NoError(t, os.WriteFile(input, []byte("kind: Pod\n"), 0o644))

	var calls atomic.Int32
	w, err := NewWatcher(func(path string) error {
		calls.Add(1)
		return nil
	})
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.Watch(input))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.yaml"), []byte("x\n"), 0o644))

	time.Sleep(time.Second)
	assert.Zero(t, calls.Load())
}
