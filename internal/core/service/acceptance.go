package service

import (
	"context"

	"reflectup/internal/core/domain"

	"github.com/rs/zerolog/log"
)

const thumbnailMaxWidth = 360
const thumbnailMaxHeight = 270

const acceptanceFailedNotice = "could not apply the result to your design, please retry"

// Accept commits the held enlargement result to the design, replacing the
// original element when the job came from a still-selected host image and
// adding a new element otherwise. A result is committed at most once and
// commits never overlap; a failed commit leaves the result in place for a
// retry.
func (s *Session) Accept(ctx context.Context) (domain.AcceptanceResult, error) {
	s.mu.Lock()
	if s.job.State != domain.JobSucceeded || s.job.Result == nil {
		s.mu.Unlock()
		return "", domain.ErrNoResult
	}
	if s.acceptance != "" {
		outcome := s.acceptance
		s.mu.Unlock()
		return outcome, domain.ErrAlreadyAccepted
	}
	if s.committing {
		s.mu.Unlock()
		return "", domain.ErrCommitInFlight
	}

	s.committing = true
	token := s.job.Token
	result := s.job.Result
	provenance := s.provenance
	origin := s.sourceRef
	s.mu.Unlock()

	outcome, err := s.commit(ctx, result, provenance, origin)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.committing = false

	if err != nil {
		if s.job.Token == token {
			s.acceptanceNotice = acceptanceFailedNotice
		}
		s.notifier.NotifyAcceptanceError(acceptanceFailedNotice)
		log.Warn().Err(err).Msg("acceptance failed")
		return "", err
	}

	if s.job.Token != token {
		// the session was reset mid-commit; the element landed in the
		// design but no longer belongs to live state
		log.Debug().Str("outcome", string(outcome)).Msg("acceptance landed on a stale session")
		return outcome, nil
	}

	s.acceptance = outcome
	s.acceptanceNotice = ""
	log.Info().Str("outcome", string(outcome)).Msg("result committed")

	return outcome, nil
}

// commit picks the path: replacement needs host provenance and the original
// element still selected at this moment.
func (s *Session) commit(ctx context.Context, result *domain.ImageAsset, provenance domain.Provenance, origin domain.ElementRef) (domain.AcceptanceResult, error) {
	if provenance == domain.ProvenanceHostSelected && origin != "" {
		current, err := s.selection.Current(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("could not read current selection, adding instead")
		} else if current == origin {
			return s.replaceOriginal(ctx, result, origin)
		}
	}

	return s.addAsNew(ctx, result)
}

// replaceOriginal uploads the result as a derivative asset and swaps it into
// the original element.
func (s *Session) replaceOriginal(ctx context.Context, result *domain.ImageAsset, origin domain.ElementRef) (domain.AcceptanceResult, error) {
	thumbURL := result.DataURL()
	if thumb, err := s.loader.Thumbnail(result, thumbnailMaxWidth, thumbnailMaxHeight); err != nil {
		log.Warn().Err(err).Msg("thumbnail failed, using full image")
	} else {
		thumbURL = thumb.DataURL()
	}

	ref, err := s.store.Upload(ctx, domain.UploadRequest{
		URL:          result.DataURL(),
		ThumbnailURL: thumbURL,
		MimeType:     result.MIME,
		ParentRef:    origin,
		AIDisclosure: true,
	})
	if err != nil {
		return "", err
	}

	if err := s.design.ReplaceImage(ctx, origin, ref); err != nil {
		return "", err
	}

	return domain.AcceptanceReplaced, nil
}

// addAsNew inserts the result as a fresh element at the host's default
// insertion point. The asset store is not involved on this path.
func (s *Session) addAsNew(ctx context.Context, result *domain.ImageAsset) (domain.AcceptanceResult, error) {
	err := s.design.AddImage(ctx, domain.InsertPayload{
		URL:      result.DataURL(),
		MimeType: result.MIME,
		Width:    result.Width,
		Height:   result.Height,
	})
	if err != nil {
		return "", err
	}

	return domain.AcceptanceAdded, nil
}
