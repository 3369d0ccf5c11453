package config

import (
	"fmt"
	"time"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if err := c.Survey.validate(); err != nil {
		return fmt.Errorf("survey: %w", err)
	}

	return nil
}

func (s *SurveyConfig) validate() error {
	loc, err := time.LoadLocation(s.TimezoneRaw)
	if err != nil {
		return fmt.Errorf("timezone %q: %w", s.TimezoneRaw, err)
	}
	s.Timezone = loc

	if s.CommentMaxLen <= 0 {
		return fmt.Errorf("comment_max_len must be > 0 (got %d)", s.CommentMaxLen)
	}
	if s.SweepConcurrency <= 0 {
		return fmt.Errorf("sweep_concurrency must be > 0 (got %d)", s.SweepConcurrency)
	}

	return nil
}
