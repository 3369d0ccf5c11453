package survey

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/moritahr/lecfeed-backend/internal/domain"
)

// SubmitInput holds parameters for one anonymous submission. UserAgent and
// IPAddress come from the transport layer; respondents never supply them.
type SubmitInput struct {
	LectureID     uuid.UUID
	Gender        domain.Gender
	AgeGroup      domain.AgeGroup
	Understanding int
	Satisfaction  int
	Comment       *string
	UserAgent     *string
	IPAddress     *string
}

// Validate validates the submission input.
func (i SubmitInput) Validate(commentMaxLen int) error {
	var errs []domain.FieldError

	if i.LectureID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "lecture_id", Message: "required"})
	}
	if !i.Gender.IsValid() {
		errs = append(errs, domain.FieldError{Field: "gender", Message: "unknown option"})
	}
	if !i.AgeGroup.IsValid() {
		errs = append(errs, domain.FieldError{Field: "age_group", Message: "unknown option"})
	}
	if i.Understanding < domain.RatingMin || i.Understanding > domain.RatingMax {
		errs = append(errs, domain.FieldError{Field: "understanding", Message: "must be between 1 and 5"})
	}
	if i.Satisfaction < domain.RatingMin || i.Satisfaction > domain.RatingMax {
		errs = append(errs, domain.FieldError{Field: "satisfaction", Message: "must be between 1 and 5"})
	}
	if i.Comment != nil && utf8.RuneCountInString(*i.Comment) > commentMaxLen {
		errs = append(errs, domain.FieldError{Field: "comment", Message: "too long"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// Submit records one anonymous response for an active lecture.
//
// Duplicate suppression keys on the submitter's IP address: at most one
// response per non-null IP per lecture. Responses without an IP are
// accepted unconditionally. The fast-path existence check keeps the
// common duplicate out of the insert; the partial unique index backs it
// up under concurrency, so a 23505 from the insert maps to the same
// ErrAlreadyExists.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (*domain.RawResponse, error) {
	if err := input.Validate(s.commentMaxLen); err != nil {
		return nil, err
	}

	lecture, err := s.lectures.GetByID(ctx, input.LectureID)
	if err != nil {
		return nil, fmt.Errorf("submit: get lecture: %w", err)
	}
	if lecture.SurveyStatus != domain.SurveyStatusActive {
		return nil, ErrSurveyNotAccepting
	}

	if input.IPAddress != nil && *input.IPAddress != "" {
		exists, err := s.responses.ExistsByLectureAndIP(ctx, input.LectureID, *input.IPAddress)
		if err != nil {
			return nil, fmt.Errorf("submit: duplicate check: %w", err)
		}
		if exists {
			return nil, fmt.Errorf("response already recorded for this lecture: %w", domain.ErrAlreadyExists)
		}
	}

	resp, err := s.responses.Insert(ctx, &domain.RawResponse{
		LectureID:     input.LectureID,
		Gender:        input.Gender,
		AgeGroup:      input.AgeGroup,
		Understanding: input.Understanding,
		Satisfaction:  input.Satisfaction,
		Comment:       input.Comment,
		UserAgent:     input.UserAgent,
		IPAddress:     input.IPAddress,
	})
	if err != nil {
		return nil, fmt.Errorf("submit: insert response: %w", err)
	}

	s.log.InfoContext(ctx, "response recorded",
		slog.String("lecture_id", lecture.ID.String()),
		slog.String("response_id", resp.ID.String()),
	)
	return resp, nil
}
