package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"reflectup/internal/core/domain"
	"reflectup/internal/core/port"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Session owns the plugin state: the active image and its provenance, the
// reflection parameters, the preview, the single enlargement job and the
// acceptance outcome. Every transition happens under one lock, and
// asynchronous continuations re-check the live state when they resolve
// instead of trusting values captured when they were scheduled.
type Session struct {
	loader    port.Loader
	renderer  port.Renderer
	enlarger  port.Enlarger
	selection port.SelectionSource
	store     port.AssetStore
	design    port.Design
	notifier  port.Notifier

	submitEffect     bool
	progressInterval time.Duration

	mu               sync.Mutex
	provenance       domain.Provenance
	sourceRef        domain.ElementRef
	asset            *domain.ImageAsset
	preview          *domain.ImageAsset
	params           domain.ReflectionParameters
	job              domain.Job
	acceptance       domain.AcceptanceResult
	committing       bool
	processingNotice string
	acceptanceNotice string
}

func NewSession(loader port.Loader, renderer port.Renderer, enlarger port.Enlarger,
	selection port.SelectionSource, store port.AssetStore, design port.Design,
	notifier port.Notifier) *Session {
	interval := viper.GetDuration("enlarge.progress_interval")
	if interval <= 0 {
		interval = defaultProgressInterval
	}

	return &Session{
		loader:           loader,
		renderer:         renderer,
		enlarger:         enlarger,
		selection:        selection,
		store:            store,
		design:           design,
		notifier:         notifier,
		submitEffect:     viper.GetBool("enlarge.submit_effect"),
		progressInterval: interval,
		params:           domain.DefaultParameters(),
	}
}

// HandleUpload replaces the active image with user-provided bytes. Uploads
// always win: a running job is invalidated and a held result or committed
// outcome is discarded, while the reflection parameters survive.
func (s *Session) HandleUpload(name string, data []byte) error {
	asset, err := s.loader.Load(name, data)
	if err != nil {
		s.noteProcessingFailure(err)
		return err
	}

	s.mu.Lock()
	s.provenance = domain.ProvenanceUploaded
	s.sourceRef = ""
	s.asset = asset
	s.preview = nil
	s.job = domain.Job{State: domain.JobIdle}
	s.acceptance = ""
	s.processingNotice = ""
	s.acceptanceNotice = ""
	s.mu.Unlock()

	log.Debug().Str("name", asset.Name).Int("width", asset.Width).Int("height", asset.Height).
		Msg("upload accepted")

	return s.rerender()
}

// HandleSelection applies one host selection event. A selection only takes
// over when no upload owns the image and no job is running or has produced a
// result. The check runs before the fetch and again once the bytes arrive,
// against the state live at that moment.
func (s *Session) HandleSelection(ctx context.Context, ev domain.SelectionEvent) error {
	if ev.Ref == "" {
		s.handleDeselection()
		return nil
	}

	s.mu.Lock()
	eligible := s.selectionEligibleLocked()
	s.mu.Unlock()
	if !eligible {
		log.Debug().Str("ref", string(ev.Ref)).Msg("selection ignored")
		return nil
	}

	name, data, err := s.selection.Resolve(ctx, ev.Ref)
	if err != nil {
		log.Warn().Err(err).Str("ref", string(ev.Ref)).Msg("could not resolve selection")
		return err
	}

	asset, err := s.loader.Load(name, data)
	if err != nil {
		s.noteProcessingFailure(err)
		return err
	}

	s.mu.Lock()
	if !s.selectionEligibleLocked() {
		s.mu.Unlock()
		log.Debug().Str("ref", string(ev.Ref)).Msg("selection resolved stale, dropped")
		return nil
	}
	s.provenance = domain.ProvenanceHostSelected
	s.sourceRef = ev.Ref
	s.asset = asset
	s.preview = nil
	s.mu.Unlock()

	log.Debug().Str("ref", string(ev.Ref)).Msg("selection adopted")

	return s.rerender()
}

// selectionEligibleLocked reports whether a host selection may replace the
// active image. The caller holds mu.
func (s *Session) selectionEligibleLocked() bool {
	return s.provenance != domain.ProvenanceUploaded &&
		s.job.State != domain.JobRunning &&
		s.job.State != domain.JobSucceeded
}

// handleDeselection resets the session when the deselected image was the
// host-selected one and no job is running. Uploads and running jobs are
// never torn down by a deselect.
func (s *Session) handleDeselection() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.provenance != domain.ProvenanceHostSelected || s.job.State == domain.JobRunning {
		return
	}

	log.Debug().Msg("selection cleared, resetting session")
	s.resetLocked()
}

// Watch consumes host selection events until ctx ends, handling them in
// arrival order.
func (s *Session) Watch(ctx context.Context) error {
	events, err := s.selection.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("error subscribing to host selection: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := s.HandleSelection(ctx, ev); err != nil {
				log.Warn().Err(err).Str("ref", string(ev.Ref)).Msg("selection event not applied")
			}
		}
	}
}

// SetDirection changes the reflection edge and re-renders the preview.
func (s *Session) SetDirection(dir domain.Direction) error {
	if _, err := domain.ParseDirection(string(dir)); err != nil {
		return err
	}

	s.mu.Lock()
	s.params.Direction = dir
	s.mu.Unlock()

	return s.rerender()
}

// SetOffsetStop changes the gradient stop, clamped to [0,1], and re-renders.
func (s *Session) SetOffsetStop(v float64) error {
	s.mu.Lock()
	s.params.OffsetStop = v
	s.params = s.params.Clamped()
	s.mu.Unlock()

	return s.rerender()
}

// SetOpacity changes the draw opacity, clamped to [0,1], and re-renders.
func (s *Session) SetOpacity(v float64) error {
	s.mu.Lock()
	s.params.Opacity = v
	s.params = s.params.Clamped()
	s.mu.Unlock()

	return s.rerender()
}

// SetParameters replaces all reflection parameters at once.
func (s *Session) SetParameters(p domain.ReflectionParameters) error {
	if _, err := domain.ParseDirection(string(p.Direction)); err != nil {
		return err
	}

	s.mu.Lock()
	s.params = p.Clamped()
	s.mu.Unlock()

	return s.rerender()
}

// rerender computes the preview outside the lock and stores it only if the
// asset and parameters are still the ones it was computed from.
func (s *Session) rerender() error {
	s.mu.Lock()
	asset := s.asset
	params := s.params
	s.mu.Unlock()

	if asset == nil {
		return nil
	}

	preview, err := s.renderer.Composite(asset, params)
	if err != nil {
		s.noteProcessingFailure(err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.asset != asset || s.params != params {
		log.Debug().Msg("stale preview dropped")
		return nil
	}
	s.preview = preview

	return nil
}

// Reset returns the session to its initial state. An outstanding enlargement
// call keeps running, but its token no longer matches and its result is
// dropped when it lands.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Session) resetLocked() {
	s.provenance = domain.ProvenanceUnknown
	s.sourceRef = ""
	s.asset = nil
	s.preview = nil
	s.params = domain.DefaultParameters()
	s.job = domain.Job{State: domain.JobIdle}
	s.acceptance = ""
	s.processingNotice = ""
	s.acceptanceNotice = ""
}

// Snapshot returns a copy of the live state taken under the lock.
func (s *Session) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := domain.Snapshot{
		Provenance:       s.provenance,
		SourceRef:        s.sourceRef,
		Asset:            s.asset,
		Preview:          s.preview,
		Params:           s.params,
		Job:              s.job,
		Acceptance:       s.acceptance,
		ProcessingNotice: s.processingNotice,
		AcceptanceNotice: s.acceptanceNotice,
	}
	if s.asset != nil {
		snap.Options = domain.EnlargeOptions(s.asset.PixelCount())
	}

	return snap
}

// DismissProcessingNotice clears the enlargement notice without touching the
// image or job state.
func (s *Session) DismissProcessingNotice() {
	s.mu.Lock()
	s.processingNotice = ""
	s.mu.Unlock()
}

// DismissAcceptanceNotice clears the commit notice.
func (s *Session) DismissAcceptanceNotice() {
	s.mu.Lock()
	s.acceptanceNotice = ""
	s.mu.Unlock()
}

// noteProcessingFailure records a classified failure as the one visible
// processing notice and surfaces it.
func (s *Session) noteProcessingFailure(err error) {
	perr := asProcessingError(err)

	s.mu.Lock()
	s.processingNotice = perr.UserMessage()
	s.mu.Unlock()

	s.notifier.NotifyProcessingError(perr.Kind, perr.UserMessage())
}
