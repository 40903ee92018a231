package httpblob

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/modelvault/modelvault/storage"
)

var _ storage.Backend = (*Backend)(nil)

// Exists reports whether the gateway holds anything at or under the path.
func (b *Backend) Exists(ctx context.Context, p string) (bool, error) {
	resp, err := b.send(ctx, http.MethodHead, p, nil)
	if err != nil {
		return false, err
	}
	switch resp.StatusCode() {
	case http.StatusOK, http.StatusNoContent:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("httpblob: exists %s: unexpected status %s", p, resp.Status())
	}
}

// DeleteRecursive removes the path and everything beneath it. A missing
// path is not an error.
func (b *Backend) DeleteRecursive(ctx context.Context, p string) error {
	resp, err := b.send(ctx, http.MethodDelete, p, func(req *resty.Request) {
		req.SetQueryParam("recursive", "1")
	})
	if err != nil {
		return err
	}
	switch resp.StatusCode() {
	case http.StatusOK, http.StatusAccepted, http.StatusNoContent, http.StatusNotFound:
		return nil
	default:
		return fmt.Errorf("httpblob: delete %s: unexpected status %s", p, resp.Status())
	}
}

// WriteBlob stores one text record at the path.
func (b *Backend) WriteBlob(ctx context.Context, p string, text string) error {
	resp, err := b.send(ctx, http.MethodPut, p, func(req *resty.Request) {
		req.SetHeader("Content-Type", "text/plain; charset=utf-8")
		req.SetBody(text + "\n")
	})
	if err != nil {
		return err
	}
	switch resp.StatusCode() {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return nil
	default:
		return fmt.Errorf("httpblob: write %s: unexpected status %s", p, resp.Status())
	}
}

// ReadFirstBlob returns the first text record stored at the path.
func (b *Backend) ReadFirstBlob(ctx context.Context, p string) (string, error) {
	resp, err := b.send(ctx, http.MethodGet, p, nil)
	if err != nil {
		return "", err
	}
	switch resp.StatusCode() {
	case http.StatusOK:
		line, _, _ := strings.Cut(resp.String(), "\n")
		return line, nil
	case http.StatusNotFound:
		return "", fmt.Errorf("%w: %s", storage.ErrNotExist, p)
	default:
		return "", fmt.Errorf("httpblob: read %s: unexpected status %s", p, resp.Status())
	}
}

// send pushes one request through the rate limiter and circuit breaker.
// Transport errors and 5xx responses count against the breaker; anything
// the gateway answered deliberately does not.
func (b *Backend) send(ctx context.Context, method, p string, build func(*resty.Request)) (*resty.Response, error) {
	cp, err := storage.CleanPath(p)
	if err != nil {
		return nil, err
	}
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("httpblob: rate limit: %w", err)
	}

	var resp *resty.Response
	err = b.breaker.Do(func() error {
		req := b.resty.R().
			SetContext(ctx).
			SetHeader(headerRequestID, requestID())
		if build != nil {
			build(req)
		}
		r, err := req.Execute(method, "/"+escapePath(cp))
		if err != nil {
			return fmt.Errorf("httpblob: %s %s: %w", method, p, err)
		}
		resp = r
		if r.StatusCode() >= http.StatusInternalServerError {
			return fmt.Errorf("httpblob: %s %s: server error %s", method, p, r.Status())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
