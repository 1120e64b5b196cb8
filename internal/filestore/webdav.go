package filestore

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/studio-b12/gowebdav"

	"github.com/arnvold/parts-catalog-service/internal/apperr"
)

type WebDAVConfig struct {
	BaseURL       string
	PublicBaseURL string
	Username      string
	Password      string
	Timeout       time.Duration
}

// WebDAV implements Store on top of a WebDAV endpoint. All paths are flat
// under the configured base URL. The underlying client is safe for
// concurrent use; every operation has a bounded timeout and is retried at
// most once on transient failure.
type WebDAV struct {
	client     *gowebdav.Client
	publicBase string
}

func NewWebDAV(cfg *WebDAVConfig) *WebDAV {
	client := gowebdav.NewClient(cfg.BaseURL, cfg.Username, cfg.Password)
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client.SetTimeout(timeout)

	return &WebDAV{
		client:     client,
		publicBase: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}
}

// Ping verifies the endpoint is reachable and credentials work.
func (s *WebDAV) Ping() error {
	if err := s.client.Connect(); err != nil {
		return apperr.Wrap(apperr.CodeStorageUnavailable, "webdav connect failed", err)
	}
	return nil
}

func (s *WebDAV) URL(name string) string {
	return s.publicBase + "/" + name
}

func (s *WebDAV) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	_, err := s.client.Stat("/" + name)
	if err == nil {
		return true, nil
	}
	if gowebdav.IsErrNotFound(err) {
		return false, nil
	}

	// One retry on transient failure.
	_, err = s.client.Stat("/" + name)
	if err == nil {
		return true, nil
	}
	if gowebdav.IsErrNotFound(err) {
		return false, nil
	}
	return false, apperr.Wrap(apperr.CodeStorageUnavailable, "webdav stat "+name, err)
}

func (s *WebDAV) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	occupied, err := s.Exists(ctx, name)
	if err != nil {
		return "", err
	}
	if occupied {
		return "", apperr.Newf(apperr.CodeNameConflict, "object %q already exists", name)
	}

	// WebDAV PUT needs the full body on retry, so buffer once.
	data, err := io.ReadAll(r)
	if err != nil {
		return "", apperr.Wrap(apperr.CodeValidation, "reading upload payload", err)
	}

	if err := s.client.Write("/"+name, data, 0644); err != nil {
		// Retried exactly once; an upload that landed on the first attempt is
		// simply overwritten with identical bytes.
		if err = s.client.Write("/"+name, data, 0644); err != nil {
			return "", apperr.Wrap(apperr.CodeStorageUnavailable, "webdav put "+name, err)
		}
	}
	return s.URL(name), nil
}

func (s *WebDAV) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// gowebdav's Remove treats a missing object as success, so the NotFound
	// contract needs an explicit existence check.
	there, err := s.Exists(ctx, name)
	if err != nil {
		return err
	}
	if !there {
		return apperr.Newf(apperr.CodeNotFound, "object %q not found", name)
	}

	err = s.client.Remove("/" + name)
	if err == nil {
		return nil
	}

	// Retry once; an object now gone means the retried delete landed.
	err = s.client.Remove("/" + name)
	if err == nil {
		return nil
	}
	if there, perr := s.Exists(ctx, name); perr == nil && !there {
		return nil
	}
	return apperr.Wrap(apperr.CodeStorageUnavailable, "webdav delete "+name, err)
}

func (s *WebDAV) Move(ctx context.Context, oldName, newName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// settle classifies a failed MOVE. A replay of a move that already landed
	// leaves the new name present and the old absent, and servers answer the
	// replay with 412 (destination exists, Overwrite: F) or an error on the
	// missing source, so the completed-state check must run before either
	// error is taken at face value.
	settle := func(err error) (string, error, bool) {
		if done, perr := s.moveCompleted(ctx, oldName, newName); perr == nil && done {
			return s.URL(newName), nil, true
		}
		if gowebdav.IsErrCode(err, http.StatusPreconditionFailed) {
			return "", apperr.Newf(apperr.CodeNameConflict, "move %s -> %s: target occupied", oldName, newName), true
		}
		// A missing source does not reliably surface as 404 (servers also
		// answer 403); ask the server directly.
		if there, perr := s.Exists(ctx, oldName); perr == nil && !there {
			return "", apperr.Newf(apperr.CodeNotFound, "move source %q not found", oldName), true
		}
		return "", err, false
	}

	err := s.client.Rename("/"+oldName, "/"+newName, false)
	if err == nil {
		return s.URL(newName), nil
	}
	if url, ferr, done := settle(err); done {
		return url, ferr
	}

	// Transient failure: retry once.
	err = s.client.Rename("/"+oldName, "/"+newName, false)
	if err == nil {
		return s.URL(newName), nil
	}
	if url, ferr, done := settle(err); done {
		return url, ferr
	}
	return "", apperr.Wrap(apperr.CodeStorageUnavailable, "webdav move "+oldName, err)
}

// moveCompleted reports whether a move already went through: new name
// present, old name absent.
func (s *WebDAV) moveCompleted(ctx context.Context, oldName, newName string) (bool, error) {
	newThere, err := s.Exists(ctx, newName)
	if err != nil || !newThere {
		return false, err
	}
	oldThere, err := s.Exists(ctx, oldName)
	if err != nil {
		return false, err
	}
	return !oldThere, nil
}
