package handlers

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetadm/fleetadm/internal/config"
	platform "github.com/fleetadm/fleetadm/internal/platform/hcloud"
	"github.com/fleetadm/fleetadm/internal/provisioning"
)

type memStore struct {
	mu      sync.Mutex
	buckets map[string]bool
	objects map[string][]byte
}

func newMemStore(buckets ...string) *memStore {
	s := &memStore{buckets: make(map[string]bool), objects: make(map[string][]byte)}
	for _, b := range buckets {
		s.buckets[b] = true
	}
	return s
}

func (s *memStore) BucketExists(_ context.Context, bucket string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buckets[bucket], nil
}

func (s *memStore) CreateBucket(_ context.Context, bucket string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buckets[bucket] = true
	return nil
}

func (s *memStore) PutObject(_ context.Context, bucket, key string, body io.Reader, _ int64) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[bucket+"/"+key] = data
	return nil
}

func uploadRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("alpha"), 0o644))
	return root
}

func TestUploadTree_UsesConfiguredBucketDefault(t *testing.T) {
	withTestDeps(t, &platform.MockClient{})
	store := newMemStore()
	withTestStore(t, store)

	origConfig := defaultConfig
	t.Cleanup(func() { defaultConfig = origConfig })
	defaultConfig = func() (*config.Config, error) {
		return &config.Config{
			HCloudToken: "test-token",
			Location:    "nbg1",
			Storage:     config.StorageConfig{Bucket: "configured"},
		}, nil
	}

	require.NoError(t, UploadTree(testCtx(), "", UploadParams{Root: uploadRoot(t)}))
	assert.True(t, store.buckets["configured"])
	assert.Contains(t, store.objects, "configured/a.txt")
}

func TestUploadTree_NoBucketAnywhere(t *testing.T) {
	withTestDeps(t, &platform.MockClient{})
	withTestStore(t, newMemStore())

	err := UploadTree(testCtx(), "", UploadParams{Root: uploadRoot(t)})
	require.Error(t, err)
	assert.True(t, provisioning.IsConfigurationError(err))
}

func TestUploadTree_ForceUploadsIntoExistingBucket(t *testing.T) {
	withTestDeps(t, &platform.MockClient{})
	store := newMemStore("taken")
	withTestStore(t, store)

	origTTY := stdoutIsTerminal
	t.Cleanup(func() { stdoutIsTerminal = origTTY })
	stdoutIsTerminal = func() bool { return false }

	require.NoError(t, UploadTree(testCtx(), "", UploadParams{
		Bucket: "taken",
		Root:   uploadRoot(t),
		Force:  true,
	}))
	assert.Contains(t, store.objects, "taken/a.txt")
}

func TestUploadTree_NonInteractiveExistingBucketDeclines(t *testing.T) {
	withTestDeps(t, &platform.MockClient{})
	store := newMemStore("taken")
	withTestStore(t, store)

	origTTY := stdoutIsTerminal
	t.Cleanup(func() { stdoutIsTerminal = origTTY })
	stdoutIsTerminal = func() bool { return false }

	err := UploadTree(testCtx(), "", UploadParams{Bucket: "taken", Root: uploadRoot(t)})
	require.Error(t, err)
	assert.True(t, provisioning.IsConfigurationError(err))
	assert.Empty(t, store.objects)
}
