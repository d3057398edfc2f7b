package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GCS writes objects to a Google Cloud Storage bucket and returns their public
// storage.googleapis.com URL.
type GCS struct {
	client *gcs.Client
	bucket string
}

// NewGCS opens a client for bucket. keyFile may be empty to use application
// default credentials; extra opts are passed to the client as is.
func NewGCS(ctx context.Context, bucket, keyFile string, opts ...option.ClientOption) (*GCS, error) {
	if keyFile != "" {
		opts = append(opts, option.WithCredentialsFile(keyFile))
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs client: %w", err)
	}
	return &GCS{client: client, bucket: bucket}, nil
}

// Put uploads r in a single request (no resumable session). An existing object
// under name is never replaced; that case fails with an error matching fs.ErrExist.
func (g *GCS) Put(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	obj := g.client.Bucket(g.bucket).Object(name).If(gcs.Conditions{DoesNotExist: true})
	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	w.ChunkSize = 0

	if _, err := io.Copy(w, r); err != nil {
		// Cancelling before Close discards the partial object.
		cancel()
		_ = w.Close()
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed {
			return "", fmt.Errorf("finish %s: %w", name, fs.ErrExist)
		}
		return "", fmt.Errorf("finish %s: %w", name, err)
	}
	return PublicURL(g.bucket, name), nil
}

func (g *GCS) Close() error { return g.client.Close() }

func PublicURL(bucket, name string) string {
	u := url.URL{Scheme: "https", Host: "storage.googleapis.com", Path: "/" + bucket + "/" + name}
	return u.String()
}
