package host

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"reflectup/internal/adapters/file"
	"reflectup/internal/adapters/storage"
	"reflectup/internal/core/domain"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
)

const designFileName = "design.json"
const assetKeyPrefix = "assets/"
const resolveURLTTL = 15 * time.Minute

// FS is a filesystem rendition of the host design surface: a design.json
// draft plus asset blobs behind a storage backend. It serves the one-shot
// driver and integration tests; a real host exposes the same ports over its
// plugin bridge.
type FS struct {
	root  string
	store storage.Storage

	mu  sync.Mutex
	doc designDoc
}

type designDoc struct {
	Elements  []designElement      `json:"elements"`
	Assets    map[string]assetMeta `json:"assets,omitempty"`
	Selection string               `json:"selection,omitempty"`
}

type designElement struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Asset  string `json:"asset,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

type assetMeta struct {
	MimeType     string `json:"mimeType,omitempty"`
	Thumbnail    string `json:"thumbnail,omitempty"`
	Parent       string `json:"parent,omitempty"`
	AIDisclosure bool   `json:"aiDisclosure,omitempty"`
}

// NewFS loads the draft under root, creating an empty one when the directory
// holds none yet.
func NewFS(root string, store storage.Storage) (*FS, error) {
	f := &FS{root: root, store: store}

	buf, err := os.ReadFile(f.designPath())
	switch {
	case errors.Is(err, os.ErrNotExist):
		f.mu.Lock()
		f.doc = designDoc{Assets: map[string]assetMeta{}}
		err := f.persistLocked()
		f.mu.Unlock()
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("error reading design draft %w", err)
	default:
		if err := json.Unmarshal(buf, &f.doc); err != nil {
			return nil, fmt.Errorf("error parsing design draft %w", err)
		}
		if f.doc.Assets == nil {
			f.doc.Assets = map[string]assetMeta{}
		}
	}

	log.Debug().Str("path", f.designPath()).Int("elements", len(f.doc.Elements)).
		Msg("design draft loaded")

	return f, nil
}

// Subscribe delivers selection changes. The filesystem host has no external
// editor mutating the draft, so the channel stays quiet until ctx ends.
func (f *FS) Subscribe(ctx context.Context) (<-chan domain.SelectionEvent, error) {
	events := make(chan domain.SelectionEvent)

	go func() {
		<-ctx.Done()
		close(events)
	}()

	return events, nil
}

// Current returns the selected element when it is an image element, an empty
// ref otherwise.
func (f *FS) Current(_ context.Context) (domain.ElementRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.doc.Selection == "" {
		return "", nil
	}
	for _, el := range f.doc.Elements {
		if el.ID == f.doc.Selection && el.Type == "image" {
			return domain.ElementRef(el.ID), nil
		}
	}

	return "", nil
}

// Resolve looks up the element's asset, asks the storage backend for a URL
// and materializes the bytes behind it.
func (f *FS) Resolve(ctx context.Context, ref domain.ElementRef) (string, []byte, error) {
	f.mu.Lock()
	var key string
	for _, el := range f.doc.Elements {
		if el.ID == string(ref) {
			key = el.Asset
			break
		}
	}
	f.mu.Unlock()

	if key == "" {
		return "", nil, fmt.Errorf("element %q has no image asset", ref)
	}

	url, err := f.store.URL(ctx, key, resolveURLTTL)
	if err != nil {
		return "", nil, fmt.Errorf("error resolving asset %q: %w", key, err)
	}

	data, err := FetchURL(ctx, url)
	if err != nil {
		return "", nil, err
	}

	return path.Base(key), data, nil
}

// Upload materializes the request payloads, stores them and records the
// asset with its parent and disclosure metadata in the draft.
func (f *FS) Upload(ctx context.Context, req domain.UploadRequest) (domain.AssetRef, error) {
	data, err := FetchURL(ctx, req.URL)
	if err != nil {
		return "", fmt.Errorf("error fetching upload payload: %w", err)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return "", err
	}

	key := assetKeyPrefix + id.String() + extFor(req.MimeType)
	if err := f.store.Put(ctx, key, bytes.NewReader(data), storage.PutOptions{ContentType: req.MimeType}); err != nil {
		return "", fmt.Errorf("error storing asset: %w", err)
	}

	meta := assetMeta{
		MimeType:     req.MimeType,
		Parent:       string(req.ParentRef),
		AIDisclosure: req.AIDisclosure,
	}

	if req.ThumbnailURL != "" {
		if thumbKey, err := f.storeThumbnail(ctx, id.String(), req.ThumbnailURL); err != nil {
			log.Warn().Err(err).Msg("could not store thumbnail")
		} else {
			meta.Thumbnail = thumbKey
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.doc.Assets[key] = meta
	if err := f.persistLocked(); err != nil {
		return "", err
	}

	log.Debug().Str("key", key).Str("parent", meta.Parent).Bool("aiDisclosure", meta.AIDisclosure).
		Msg("asset uploaded")

	return domain.AssetRef(key), nil
}

// ReplaceImage swaps the element's asset reference and persists the draft in
// one step.
func (f *FS) ReplaceImage(_ context.Context, element domain.ElementRef, asset domain.AssetRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.doc.Elements {
		if f.doc.Elements[i].ID == string(element) {
			f.doc.Elements[i].Asset = string(asset)

			log.Debug().Str("element", string(element)).Str("asset", string(asset)).
				Msg("element image replaced")

			return f.persistLocked()
		}
	}

	return fmt.Errorf("element %q not found in draft", element)
}

// AddImage stores the payload and appends a new image element at the end of
// the draft, the default insertion point.
func (f *FS) AddImage(ctx context.Context, payload domain.InsertPayload) error {
	data, err := FetchURL(ctx, payload.URL)
	if err != nil {
		return fmt.Errorf("error fetching insert payload: %w", err)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return err
	}

	key := assetKeyPrefix + id.String() + extFor(payload.MimeType)
	if err := f.store.Put(ctx, key, bytes.NewReader(data), storage.PutOptions{ContentType: payload.MimeType}); err != nil {
		return fmt.Errorf("error storing asset: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.doc.Assets[key] = assetMeta{MimeType: payload.MimeType}
	f.doc.Elements = append(f.doc.Elements, designElement{
		ID:     "el-" + id.String(),
		Type:   "image",
		Asset:  key,
		Width:  payload.Width,
		Height: payload.Height,
	})

	log.Debug().Str("element", "el-"+id.String()).Str("asset", key).Msg("image element added")

	return f.persistLocked()
}

func (f *FS) storeThumbnail(ctx context.Context, id, url string) (string, error) {
	thumb, err := FetchURL(ctx, url)
	if err != nil {
		return "", err
	}

	key := assetKeyPrefix + "thumbs/" + id + ".jpg"
	if err := f.store.Put(ctx, key, bytes.NewReader(thumb), storage.PutOptions{ContentType: "image/jpeg"}); err != nil {
		return "", err
	}

	return key, nil
}

// persistLocked writes the draft atomically. The caller holds mu.
func (f *FS) persistLocked() error {
	buf, err := json.MarshalIndent(f.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding design draft %w", err)
	}

	return file.WriteAtomic(f.designPath(), buf)
}

func (f *FS) designPath() string {
	return filepath.Join(f.root, designFileName)
}

// FetchURL materializes the bytes behind a data, file or http URL.
func FetchURL(ctx context.Context, url string) ([]byte, error) {
	switch {
	case strings.HasPrefix(url, "data:"):
		_, data, err := DecodeDataURL(url)
		return data, err
	case strings.HasPrefix(url, "file://"):
		return os.ReadFile(strings.TrimPrefix(url, "file://"))
	default:
		return file.DownloadFile(ctx, url)
	}
}

// DecodeDataURL splits a base64 data URL into its MIME type and payload.
func DecodeDataURL(url string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(url, "data:")
	if !ok {
		return "", nil, errors.New("not a data URL")
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errors.New("malformed data URL")
	}

	mimeType, enc, _ := strings.Cut(meta, ";")
	if enc != "base64" {
		return "", nil, fmt.Errorf("unsupported data URL encoding %q", enc)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("error decoding data URL %w", err)
	}

	return mimeType, data, nil
}

func extFor(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/tiff":
		return ".tif"
	}
	return ".bin"
}
