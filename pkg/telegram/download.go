package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// FileURL returns the direct download URL for a file path from GetFile. The
// URL embeds the bot token; treat it as a secret.
func (c *Client) FileURL(filePath string) string {
	return c.baseURL + "/file/bot" + c.token + "/" + filePath
}

// DownloadFile streams the file behind f into w and reports the bytes
// written. f must carry the FilePath resolved by a prior GetFile call.
func (c *Client) DownloadFile(ctx context.Context, f *File, w io.Writer) (int64, error) {
	if f == nil || f.FilePath == "" {
		return 0, ErrNoFilePath
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.FileURL(f.FilePath), nil)
	if err != nil {
		return 0, newTransportError("download", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, newTransportError("download", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, &APIError{Code: resp.StatusCode, Description: http.StatusText(resp.StatusCode)}
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, newTransportError("download", err)
	}
	return n, nil
}

// DownloadFileTo downloads f into dir, naming the file after the last element
// of its file path, and returns the destination path. A partial file is
// removed on failure.
func (c *Client) DownloadFileTo(ctx context.Context, f *File, dir string) (string, error) {
	if f == nil || f.FilePath == "" {
		return "", ErrNoFilePath
	}

	dest := filepath.Join(dir, filepath.Base(f.FilePath))
	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("telegram: create %s: %w", dest, err)
	}

	_, err = c.DownloadFile(ctx, f, out)
	cerr := out.Close()
	if err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dest)
		return "", err
	}
	return dest, nil
}
