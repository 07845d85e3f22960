package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("auth.bcrypt_cost must be between 4 and 31 (got %d)", c.Auth.BcryptCost)
	}

	if err := c.Engagement.validate(); err != nil {
		return fmt.Errorf("engagement: %w", err)
	}

	return nil
}

func (e *EngagementConfig) validate() error {
	if e.QuestionsPerDay < 1 {
		return fmt.Errorf("questions_per_day must be >= 1 (got %d)", e.QuestionsPerDay)
	}
	if e.AnswersPerDay < 1 {
		return fmt.Errorf("answers_per_day must be >= 1 (got %d)", e.AnswersPerDay)
	}
	if e.TrendingThreshold < 0 {
		return fmt.Errorf("trending_threshold must be >= 0 (got %v)", e.TrendingThreshold)
	}
	if e.TrendingLimit < 1 {
		return fmt.Errorf("trending_limit must be >= 1 (got %d)", e.TrendingLimit)
	}
	if e.TrendingWindow <= 0 {
		return fmt.Errorf("trending_window must be > 0 (got %v)", e.TrendingWindow)
	}
	if e.TrendingRefresh <= 0 {
		return fmt.Errorf("trending_refresh must be > 0 (got %v)", e.TrendingRefresh)
	}
	if e.LeaderboardSize < 1 {
		return fmt.Errorf("leaderboard_size must be >= 1 (got %d)", e.LeaderboardSize)
	}
	return nil
}
