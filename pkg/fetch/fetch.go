// Package fetch retrieves remote SoilGrids sources (VRTs, COGs) to local
// paths before GDAL processing. HTTP(S) URLs use the default client; s3://
// URLs support mirrored buckets through the AWS SDK.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ProgressFunc reports transfer progress. total is -1 when unknown.
type ProgressFunc func(downloaded, total int64)

// IsRemote reports whether source is a URL this package can fetch.
func IsRemote(source string) bool {
	u, err := url.Parse(source)
	if err != nil {
		return false
	}
	switch u.Scheme {
	case "http", "https", "s3":
		return true
	default:
		return false
	}
}

// Filename returns the base name of the object a URL refers to.
func Filename(source string) (string, error) {
	u, err := url.Parse(source)
	if err != nil {
		return "", fmt.Errorf("parse source URL: %w", err)
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("source URL %q has no file name", source)
	}
	return name, nil
}

// Fetch downloads sourceURL to destPath.
func Fetch(ctx context.Context, sourceURL, destPath string) error {
	return FetchWithProgress(ctx, sourceURL, destPath, nil)
}

// FetchWithProgress downloads sourceURL to destPath, reporting progress when
// a callback is given. Partially written files are removed on failure.
func FetchWithProgress(ctx context.Context, sourceURL, destPath string, progress ProgressFunc) error {
	u, err := url.Parse(sourceURL)
	if err != nil {
		return fmt.Errorf("parse source URL: %w", err)
	}

	switch u.Scheme {
	case "http", "https":
		return fetchHTTP(ctx, sourceURL, destPath, progress)
	case "s3":
		return fetchS3(ctx, u, destPath, progress)
	default:
		return fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
	}
}

func fetchHTTP(ctx context.Context, sourceURL, destPath string, progress ProgressFunc) (err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", sourceURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: unexpected status code %d", sourceURL, resp.StatusCode)
	}

	return writeBody(ctx, destPath, resp.Body, resp.ContentLength, progress)
}

func fetchS3(ctx context.Context, u *url.URL, destPath string, progress ProgressFunc) (err error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")

	result, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("fetch s3://%s/%s: %w", bucket, key, err)
	}
	defer result.Body.Close()

	total := int64(-1)
	if result.ContentLength != nil {
		total = *result.ContentLength
	}
	return writeBody(ctx, destPath, result.Body, total, progress)
}

func writeBody(ctx context.Context, destPath string, body io.Reader, total int64, progress ProgressFunc) (err error) {
	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create destination file: %w", err)
	}
	defer func() {
		out.Close()
		if err != nil {
			_ = os.Remove(destPath)
		}
	}()

	if progress != nil {
		progress(0, total)
	}

	if _, err = copyWithProgress(ctx, out, body, total, progress); err != nil {
		return fmt.Errorf("write destination file: %w", err)
	}
	return nil
}

func copyWithProgress(ctx context.Context, dst io.Writer, src io.Reader, total int64, progress ProgressFunc) (int64, error) {
	const bufferSize = 32 * 1024
	buf := make([]byte, bufferSize)
	var written int64

	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		n, readErr := src.Read(buf)
		if n > 0 {
			w, writeErr := dst.Write(buf[:n])
			if writeErr != nil {
				return written, writeErr
			}
			if w != n {
				return written, io.ErrShortWrite
			}
			written += int64(w)
			if progress != nil {
				progress(written, total)
			}
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return written, nil
			}
			return written, readErr
		}
	}
}
