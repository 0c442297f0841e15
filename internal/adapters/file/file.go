package file

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
)

// DownloadFile fetches the bytes behind an HTTP URL. Any status other than
// 200 is an error.
func DownloadFile(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating download request: %w", err)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error downloading %s: %w", url, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %q downloading %s", res.Status, url)
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading download body: %w", err)
	}

	log.Debug().Str("url", url).Int("bytes", len(data)).Msg("download complete")

	return data, nil
}

// WriteAtomic writes data to path through a uniquely named sibling temp file
// and a rename, so concurrent readers never observe a partial write.
func WriteAtomic(path string, data []byte) error {
	id, err := uuid.NewV4()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		err = fmt.Errorf("error creating directory %w", err)
		log.Error().Err(err).Str("path", path).Send()
		return err
	}

	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), id.String()))

	f, err := os.Create(tmp)
	if err != nil {
		err = fmt.Errorf("error creating temp file %w", err)
		log.Error().Err(err).Send()
		return err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		err = fmt.Errorf("error writing temp file %w", err)
		log.Error().Err(err).Send()
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tmp)
		err = fmt.Errorf("error closing temp file %w", err)
		log.Error().Err(err).Send()
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		err = fmt.Errorf("error replacing file %w", err)
		log.Error().Err(err).Str("path", path).Send()
		return err
	}

	log.Debug().Str("path", path).Int("bytes", len(data)).Msg("file written")

	return nil
}
