package backup

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox"
	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/files"
)

// DropboxStore keeps the backup at a fixed Dropbox path, overwriting it on
// every upload.
type DropboxStore struct {
	client files.Client
	path   string
}

var _ Store = (*DropboxStore)(nil)

func NewDropboxStore(token, path string) *DropboxStore {
	cfg := dropbox.Config{Token: token, LogLevel: dropbox.LogOff}
	return &DropboxStore{client: files.New(cfg), path: path}
}

// The SDK has no context support; ctx is only checked before each call.
func (s *DropboxStore) Upload(ctx context.Context, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	arg := files.NewUploadArg(s.path)
	arg.Mode = &files.WriteMode{Tagged: dropbox.Tagged{Tag: files.WriteModeOverwrite}}
	_, err := s.client.Upload(arg, r)
	return err
}

func (s *DropboxStore) Download(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	_, content, err := s.client.Download(files.NewDownloadArg(s.path))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return content, nil
}

func isNotFound(err error) bool {
	var apiErr files.DownloadAPIError
	if errors.As(err, &apiErr) {
		e := apiErr.EndpointError
		if e != nil && e.Tag == files.DownloadErrorPath && e.Path != nil {
			return e.Path.Tag == files.LookupErrorNotFound
		}
	}
	return strings.Contains(err.Error(), "not_found")
}
