package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
)

// Object key prefixes inside the bucket.
const (
	FeedPrefix     = "feeds/"
	SnapshotPrefix = "snapshots/"
	ExportPrefix   = "exports/"
)

// FeedKey resolves a feed name to its object key. Names that already carry
// the prefix are kept as is.
func FeedKey(name string) string {
	name = strings.TrimPrefix(name, "/")
	if strings.HasPrefix(name, FeedPrefix) {
		return name
	}
	return FeedPrefix + name
}

// SnapshotKey is the archive key of a snapshot.
func SnapshotKey(id string) string {
	return SnapshotPrefix + id + ".json"
}

// ExportKey is the key of a CSV export taken at t.
func ExportKey(t time.Time) string {
	return ExportPrefix + "inventory-" + t.UTC().Format("20060102-150405") + ".csv"
}

// EnsureBucket creates the bucket when it does not exist.
func EnsureBucket(ctx context.Context, client Client, bucket, region string) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if exists {
		return nil
	}
	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
	}
	return nil
}

// Put uploads data under key.
func Put(ctx context.Context, client Client, bucket, key string, data []byte, contentType string) error {
	_, err := client.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// Read downloads the object at key in full.
func Read(ctx context.Context, client Client, bucket, key string) ([]byte, error) {
	obj, err := client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

// ObjectSummary describes one stored object.
type ObjectSummary struct {
	Key          string    `json:"key"`
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// List returns the objects under prefix, newest first.
func List(ctx context.Context, client Client, bucket, prefix string) ([]ObjectSummary, error) {
	var out []ObjectSummary
	for obj := range client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", prefix, obj.Err)
		}
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		out = append(out, ObjectSummary{
			Key:          obj.Key,
			Name:         path.Base(obj.Key),
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastModified.After(out[j].LastModified)
	})
	return out, nil
}

// Remove deletes the object at key.
func Remove(ctx context.Context, client Client, bucket, key string) error {
	if err := client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}
