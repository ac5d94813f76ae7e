package storage_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"inventory-reconciler/core/storage"
	"inventory-reconciler/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "feeds/daily.csv", storage.FeedKey("daily.csv"))
	assert.Equal(t, "feeds/daily.csv", storage.FeedKey("feeds/daily.csv"))
	assert.Equal(t, "snapshots/abc.json", storage.SnapshotKey("abc"))
	assert.Equal(t, "exports/inventory-20240301-090500.csv",
		storage.ExportKey(time.Date(2024, 3, 1, 9, 5, 0, 0, time.UTC)))
}

func TestEnsureBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("exists", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "inventory").Return(true, nil)
		require.NoError(t, storage.EnsureBucket(ctx, client, "inventory", ""))
		client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("created", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "inventory").Return(false, nil)
		client.On("MakeBucket", ctx, "inventory", minio.MakeBucketOptions{Region: "eu"}).Return(nil)
		require.NoError(t, storage.EnsureBucket(ctx, client, "inventory", "eu"))
		client.AssertExpectations(t)
	})

	t.Run("check fails", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "inventory").Return(false, errors.New("denied"))
		assert.ErrorContains(t, storage.EnsureBucket(ctx, client, "inventory", ""), "denied")
	})
}

func TestPutAndRead(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)

	client.On("PutObject", ctx, "inventory", "exports/a.csv", mock.Anything, int64(5), minio.PutObjectOptions{ContentType: "text/csv"}).
		Return(minio.UploadInfo{Key: "exports/a.csv"}, nil)
	client.On("GetObject", ctx, "inventory", "feeds/b.csv", minio.GetObjectOptions{}).
		Return(io.NopCloser(strings.NewReader("ID,Qty\n")), nil)
	client.On("GetObject", ctx, "inventory", "feeds/missing.csv", minio.GetObjectOptions{}).
		Return(nil, errors.New("NoSuchKey"))

	require.NoError(t, storage.Put(ctx, client, "inventory", "exports/a.csv", []byte("hello"), "text/csv"))

	data, err := storage.Read(ctx, client, "inventory", "feeds/b.csv")
	require.NoError(t, err)
	assert.Equal(t, "ID,Qty\n", string(data))

	_, err = storage.Read(ctx, client, "inventory", "feeds/missing.csv")
	assert.ErrorContains(t, err, "feeds/missing.csv")

	client.AssertExpectations(t)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)

	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ch := make(chan minio.ObjectInfo, 3)
	ch <- minio.ObjectInfo{Key: "feeds/", Size: 0}
	ch <- minio.ObjectInfo{Key: "feeds/a.csv", Size: 10, LastModified: older}
	ch <- minio.ObjectInfo{Key: "feeds/b.csv", Size: 20, LastModified: older.Add(time.Hour)}
	close(ch)

	client.On("ListObjects", ctx, "inventory", minio.ListObjectsOptions{Prefix: storage.FeedPrefix, Recursive: true}).
		Return((<-chan minio.ObjectInfo)(ch))

	objects, err := storage.List(ctx, client, "inventory", storage.FeedPrefix)
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, "b.csv", objects[0].Name)
	assert.Equal(t, "feeds/a.csv", objects[1].Key)
}

func TestList_Error(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)

	ch := make(chan minio.ObjectInfo, 1)
	ch <- minio.ObjectInfo{Err: errors.New("access denied")}
	close(ch)
	client.On("ListObjects", ctx, "inventory", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))

	_, err := storage.List(ctx, client, "inventory", storage.SnapshotPrefix)
	assert.ErrorContains(t, err, "access denied")
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)
	client.On("RemoveObject", ctx, "inventory", "snapshots/x.json", minio.RemoveObjectOptions{}).Return(nil)

	require.NoError(t, storage.Remove(ctx, client, "inventory", "snapshots/x.json"))
	client.AssertExpectations(t)
}
