package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"time"
)

var ErrUploadFailed = errors.New("unable to upload the image")

// nameAttempts bounds the retries on an object name collision. Stores signal a
// collision with an error matching fs.ErrExist before reading any bytes.
const nameAttempts = 3

// UploadService relays uploaded files to an ObjectStore under a
// "<field>_<unix millis><ext>" name.
type UploadService struct {
	Store ObjectStore
	Field string
	Now   func() time.Time
}

func NewUploadService(store ObjectStore, field string) *UploadService {
	return &UploadService{Store: store, Field: field, Now: time.Now}
}

// Upload stores r and returns its public URL. When the store already holds an
// object under this millisecond's name, the following milliseconds are tried.
func (s *UploadService) Upload(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	at := s.Now()
	var err error
	for i := 0; i < nameAttempts; i++ {
		var u string
		name := ObjectName(s.Field, at.Add(time.Duration(i)*time.Millisecond), filename)
		u, err = s.Store.Put(ctx, name, contentType, r)
		if err == nil {
			return u, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			break
		}
	}
	return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
}

// ObjectName keeps only the extension of the client's filename.
func ObjectName(field string, at time.Time, filename string) string {
	ext := filepath.Ext(filepath.Base(filename))
	if strings.ContainsAny(ext, `/\`) {
		ext = ""
	}
	return fmt.Sprintf("%s_%d%s", field, at.UnixMilli(), ext)
}
