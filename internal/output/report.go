/*
PURPOSE:
  Saves a backend report (PDF) into a local directory.

ERROR HANDLING:
  - A failed download leaves no partial file behind.

USAGE:
  path, err := output.SaveReport(ctx, client, url, "reports")
*/

package output

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
)

// Fetcher downloads a resource into w.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, w io.Writer) (int64, error)
}

// SaveReport downloads rawURL into dir, named after the URL's last path
// segment. The partial file is removed on failure.
func SaveReport(ctx context.Context, f Fetcher, rawURL, dir string) (string, error) {
	name, err := reportName(rawURL)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory %s: %w", dir, err)
	}

	dest := filepath.Join(dir, name)
	file, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dest, err)
	}

	if _, err := f.Fetch(ctx, rawURL, file); err != nil {
		file.Close()
		os.Remove(dest)
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", err
	}
	Logger.Info("Report saved", "path", dest)
	return dest, nil
}

func reportName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid report URL %q: %w", rawURL, err)
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		name = "report.pdf"
	}
	return name, nil
}
