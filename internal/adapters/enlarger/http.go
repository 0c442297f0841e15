package enlarger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"reflectup/internal/adapters/raster"
	"reflectup/internal/core/domain"

	"github.com/rs/zerolog/log"
)

// Cloudflare returns 524 when the origin exceeds its proxy timeout.
const statusCloudflareTimeout = 524

// HTTP submits enlargement jobs to the remote service as multipart form
// uploads and decodes the returned image.
type HTTP struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewHTTP(endpoint, apiKey string, timeout time.Duration) *HTTP {
	return &HTTP{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

func (h *HTTP) Enlarge(ctx context.Context, req domain.EnlargeRequest) (*domain.ImageAsset, error) {
	payloadBuf := new(bytes.Buffer)
	form := multipart.NewWriter(payloadBuf)

	part, err := form.CreateFormFile("file", fileName(req.Asset))
	if err != nil {
		return nil, fmt.Errorf("error building multipart body: %w", err)
	}
	if _, err := part.Write(req.Asset.Data); err != nil {
		return nil, fmt.Errorf("error writing image part: %w", err)
	}
	if err := form.WriteField("reflection_actor", string(req.Direction)); err != nil {
		return nil, fmt.Errorf("error writing direction field: %w", err)
	}
	if err := form.WriteField("factor", strconv.Itoa(req.Factor)); err != nil {
		return nil, fmt.Errorf("error writing factor field: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("error closing multipart body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, payloadBuf)
	if err != nil {
		return nil, fmt.Errorf("error creating enlarge request: %w", err)
	}

	httpReq.Header.Add("Content-Type", form.FormDataContentType())
	if h.apiKey != "" {
		httpReq.Header.Add("Authorization", "Key "+h.apiKey)
	}

	log.Debug().Str("endpoint", h.endpoint).Int("factor", req.Factor).
		Int("bytes", req.Asset.ByteSize()).Msg("submitting enlarge request")

	res, err := h.client.Do(httpReq)
	if err != nil {
		return nil, &domain.ProcessingError{Kind: domain.ConnectionError, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, classifyStatus(res.StatusCode, res.Status)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &domain.ProcessingError{
			Kind: domain.ConnectionError,
			Err:  fmt.Errorf("error reading enlarge response: %w", err),
		}
	}

	asset, err := raster.Load(enlargedName(req.Asset.Name), body)
	if err != nil {
		return nil, err
	}

	log.Debug().Int("width", asset.Width).Int("height", asset.Height).
		Msg("enlarge response decoded")

	return asset, nil
}

// classifyStatus maps a non-200 response onto the user-facing error taxonomy.
func classifyStatus(code int, status string) *domain.ProcessingError {
	switch code {
	case http.StatusInternalServerError:
		return &domain.ProcessingError{Kind: domain.ServerError, Err: errors.New(status)}
	case http.StatusGatewayTimeout, statusCloudflareTimeout:
		return &domain.ProcessingError{Kind: domain.TimeoutError, Err: errors.New(status)}
	case http.StatusRequestEntityTooLarge:
		return &domain.ProcessingError{Kind: domain.PayloadTooLarge, Err: errors.New(status)}
	default:
		return &domain.ProcessingError{Kind: domain.UnknownHTTPError, StatusText: status, Err: errors.New(status)}
	}
}

func fileName(asset *domain.ImageAsset) string {
	if asset.Name != "" {
		return asset.Name
	}
	return "image"
}

func enlargedName(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if base == "" {
		base = "image"
	}
	return base + "-enlarged.png"
}
