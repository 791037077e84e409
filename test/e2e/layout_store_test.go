//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DrSkyle/stowage/pkg/engine"
	"github.com/DrSkyle/stowage/pkg/layout"
	"github.com/DrSkyle/stowage/pkg/storage"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pathStyle(o *s3.Options) {
	o.UsePathStyle = true
}

// newBucket creates a fresh bucket and returns a store rooted at prefix.
func newBucket(t *testing.T, prefix string) *storage.S3Store {
	t.Helper()
	ctx := context.Background()

	bucket := fmt.Sprintf("stowage-%d", time.Now().UnixNano())
	_, err := s3.NewFromConfig(awsCfg, pathStyle).CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(bucket),
	})
	require.NoError(t, err)

	s := storage.NewS3Store(awsCfg, bucket, pathStyle)
	s.Prefix = prefix
	return s
}

func TestS3Store_Blobs(t *testing.T) {
	ctx := context.Background()
	s := newBucket(t, "plans")

	require.NoError(t, s.Put(ctx, "a.yaml", []byte("one")))
	require.NoError(t, s.Put(ctx, "nested/b.yaml", []byte("two")))

	data, err := s.Get(ctx, "a.yaml")
	require.NoError(t, err)
	assert.Equal(t, "one", string(data))

	keys, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.yaml", "nested/b.yaml"}, keys)

	_, err = s.Get(ctx, "missing.yaml")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.Delete(ctx, "a.yaml"))
	_, err = s.Get(ctx, "a.yaml")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLayoutStore_S3(t *testing.T) {
	ctx := context.Background()
	store := layout.NewStore(newBucket(t, "layouts"))

	l := layout.Layout{
		Name:     "alpha",
		Sunlight: 150,
		Modules: []layout.Entry{
			{Module: "prod_gen_energycells_01", Count: 2},
			{Module: "storage_arg_m_container_01", Count: 1},
		},
	}
	require.NoError(t, store.Save(ctx, l))

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha"}, names)

	got, err := store.Get(ctx, "alpha")
	require.NoError(t, err)
	assert.Equal(t, l, got)

	require.NoError(t, store.Delete(ctx, "alpha"))
	_, err = store.Get(ctx, "alpha")
	assert.ErrorIs(t, err, layout.ErrNotFound)
}

func TestUploadArtifacts_S3(t *testing.T) {
	ctx := context.Background()
	blobs := newBucket(t, "")

	eng, err := engine.New(ctx, engine.WithConfig(engine.Config{SkipTelemetry: true}))
	require.NoError(t, err)
	require.NoError(t, eng.Station.SetCount("prod_gen_energycells_01", 1))

	plan, err := eng.Plan(ctx)
	require.NoError(t, err)

	keys, err := eng.UploadArtifacts(ctx, blobs, "reports", "alpha", plan)
	require.NoError(t, err)

	listed, err := blobs.List(ctx, "reports/")
	require.NoError(t, err)
	assert.ElementsMatch(t, keys, listed)
}
