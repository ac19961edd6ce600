package services

import "errors"

// Shared service errors, mapped to HTTP statuses in handlers.
var (
	ErrNotFound         = errors.New("requested resource not found")
	ErrValidationFailed = errors.New("validation failed")

	// Auth
	ErrAuthInvalidCredentials = errors.New("invalid username or password")
	ErrTelegramAuthInvalid    = errors.New("telegram login data failed verification")
	ErrTelegramAuthExpired    = errors.New("telegram login data is too old")

	// Entity lookups
	ErrFighterNotFound = errors.New("fighter not found")
	ErrEventNotFound   = errors.New("event not found")
	ErrFightNotFound   = errors.New("fight not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrResultNotFound  = errors.New("fight result not found")

	// Conflicts: predictions and scorecards are immutable, one per
	// (user, fight); a fight carries at most one official result.
	ErrPredictionConflict = errors.New("prediction already submitted for this fight")
	ErrScorecardConflict  = errors.New("scorecard already submitted for this fight")
	ErrResultConflict     = errors.New("fight result already exists, update it instead")

	// Prediction/scorecard input rules
	ErrInvalidWinner      = errors.New("invalid winner value")
	ErrInvalidMethod      = errors.New("invalid win method value")
	ErrInvalidConfidence  = errors.New("confidence must be between 1 and 5")
	ErrInvalidRoundCount  = errors.New("round scores must cover every scheduled round exactly once")
	ErrInvalidRoundNumber = errors.New("round number out of range")
	ErrInvalidRoundScore  = errors.New("round scores must be between 7 and 10")
	ErrJudgeNameRequired  = errors.New("judge name is required")
	ErrEventSlugConflict  = errors.New("event slug or url already exists")
	ErrInvalidFinishRound = errors.New("finish round out of range for this fight")
)
