package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Balance data errors
	ErrMsgUpgradeNotFound  = "upgrade not found"
	ErrMsgProjectNotFound  = "project not found"
	ErrMsgBalanceNotLoaded = "balance data not loaded"

	// Purchase errors
	ErrMsgMaxLevelReached   = "upgrade at max level"
	ErrMsgUpgradeLocked     = "upgrade is locked"
	ErrMsgInsufficientFunds = "insufficient funds"

	// Project errors
	ErrMsgProjectLocked = "project is locked"

	// Milestone errors
	ErrMsgDuplicateMilestone = "duplicate milestone id"
	ErrMsgUnknownRequirement = "unknown milestone requirement"

	// Save errors
	ErrMsgSaveNotFound           = "save not found"
	ErrMsgSaveCorrupt            = "save data corrupt"
	ErrMsgUnsupportedSaveVersion = "unsupported save version"

	// Session errors
	ErrMsgSessionNotFound = "session not found"

	// Validation errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Balance data errors
	ErrUpgradeNotFound  = errors.New(ErrMsgUpgradeNotFound)
	ErrProjectNotFound  = errors.New(ErrMsgProjectNotFound)
	ErrBalanceNotLoaded = errors.New(ErrMsgBalanceNotLoaded)

	// Purchase errors
	// Purchase checks run in a fixed order; these sentinels identify the
	// first check that failed.
	ErrMaxLevelReached   = errors.New(ErrMsgMaxLevelReached)
	ErrUpgradeLocked     = errors.New(ErrMsgUpgradeLocked)
	ErrInsufficientFunds = errors.New(ErrMsgInsufficientFunds)

	// Project errors
	ErrProjectLocked = errors.New(ErrMsgProjectLocked)

	// Milestone errors
	ErrDuplicateMilestone = errors.New(ErrMsgDuplicateMilestone)
	ErrUnknownRequirement = errors.New(ErrMsgUnknownRequirement)

	// Save errors
	ErrSaveNotFound           = errors.New(ErrMsgSaveNotFound)
	ErrSaveCorrupt            = errors.New(ErrMsgSaveCorrupt)
	ErrUnsupportedSaveVersion = errors.New(ErrMsgUnsupportedSaveVersion)

	// Session errors
	ErrSessionNotFound = errors.New(ErrMsgSessionNotFound)

	// Validation errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
