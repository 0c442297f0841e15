package service

import (
	"context"
	"errors"
	"time"

	"reflectup/internal/core/domain"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
)

const progressStep = 5
const progressCeiling = 75
const defaultProgressInterval = 500 * time.Millisecond

// Enlarge submits the active asset with the given factor and blocks until
// the job reaches a terminal state. It refuses to start while another job
// runs and validates the ceilings before any network traffic. Progress is
// simulated on a fixed cadence while the call is outstanding; the response
// forces it to 100 on every path, success or failure.
func (s *Session) Enlarge(ctx context.Context, factor int) error {
	s.mu.Lock()
	if s.job.State == domain.JobRunning {
		s.mu.Unlock()
		return domain.ErrJobRunning
	}
	if s.asset == nil {
		s.mu.Unlock()
		return domain.ErrNoAsset
	}

	asset := s.asset
	preview := s.preview
	direction := s.params.Direction

	if err := validateSubmission(asset, factor); err != nil {
		s.mu.Unlock()
		return err
	}

	token, err := uuid.NewV4()
	if err != nil {
		s.mu.Unlock()
		return err
	}

	s.job = domain.Job{State: domain.JobRunning, Token: token}
	s.acceptance = ""
	s.processingNotice = ""
	s.notifier.Progress(0)
	s.mu.Unlock()

	done := make(chan struct{})
	go s.tickProgress(token, done)
	defer close(done)

	submit := asset
	if s.submitEffect && preview != nil {
		submit = preview
	}

	log.Info().Int("factor", factor).Str("direction", string(direction)).
		Int("bytes", submit.ByteSize()).Msg("enlargement started")

	result, err := s.enlarger.Enlarge(ctx, domain.EnlargeRequest{
		Asset:     submit,
		Direction: direction,
		Factor:    factor,
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.job.Token != token {
		// the session moved on while the call was in flight; the late
		// outcome no longer has a home
		log.Debug().Msg("late enlargement response dropped")
		return nil
	}

	s.job.Progress = 100
	s.notifier.Progress(100)

	if err != nil {
		perr := asProcessingError(err)
		s.job.State = domain.JobFailed
		s.job.Failure = perr
		s.processingNotice = perr.UserMessage()
		s.notifier.NotifyProcessingError(perr.Kind, perr.UserMessage())
		log.Warn().Err(perr).Msg("enlargement failed")
		return perr
	}

	s.job.State = domain.JobSucceeded
	s.job.Result = result
	log.Info().Int("width", result.Width).Int("height", result.Height).Msg("enlargement succeeded")

	return nil
}

// tickProgress advances simulated progress toward its ceiling while the call
// is outstanding. It stops on done, on a token change and on any terminal
// state, so a superseded job never ticks again.
func (s *Session) tickProgress(token uuid.UUID, done <-chan struct{}) {
	ticker := time.NewTicker(s.progressInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			s.mu.Lock()
			if s.job.State != domain.JobRunning || s.job.Token != token {
				s.mu.Unlock()
				return
			}
			if s.job.Progress < progressCeiling {
				s.job.Progress = min(s.job.Progress+progressStep, progressCeiling)
				s.notifier.Progress(s.job.Progress)
			}
			s.mu.Unlock()
		}
	}
}

// validateSubmission guards the wire call. The surface disables the action
// in these states, so a failure here never transitions the job.
func validateSubmission(asset *domain.ImageAsset, factor int) error {
	if !asset.WithinSizeLimit() {
		return &domain.ProcessingError{Kind: domain.ValidationError, Err: domain.ErrAssetTooLarge}
	}

	offered := false
	for _, f := range domain.EnlargeFactors {
		if f == factor {
			offered = true
			break
		}
	}
	if !offered || !domain.FactorAllowed(asset.PixelCount(), factor) {
		return &domain.ProcessingError{Kind: domain.ValidationError, Err: domain.ErrFactorNotAllowed}
	}

	return nil
}

// asProcessingError keeps every failure classified. Anything the adapter did
// not label is treated as a connection failure.
func asProcessingError(err error) *domain.ProcessingError {
	var perr *domain.ProcessingError
	if errors.As(err, &perr) {
		return perr
	}
	return &domain.ProcessingError{Kind: domain.ConnectionError, Err: err}
}
