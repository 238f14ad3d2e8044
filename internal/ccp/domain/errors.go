package domain

import "errors"

// Exported error variables allow callers to use errors.Is() for error checking.
var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrBackupNotFound     = errors.New("backup not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrAlreadyInitialized = errors.New("profiles already initialized")
	ErrNoCurrentProfile   = errors.New("no current profile selected")
	ErrPathNotFound       = errors.New("key path not found")
	ErrTypeConflict       = errors.New("key path conflicts with a non-object value")
	ErrParse              = errors.New("invalid JSON document")
)

// Name validation errors.
var (
	ErrProfileNameEmpty        = errors.New("profile name cannot be empty")
	ErrProfileNameDot          = errors.New("profile name cannot be '.' or '..'")
	ErrProfileNameNonPrintable = errors.New("profile name contains non-printable characters")
	ErrProfileNameInvalidChars = errors.New("profile name contains invalid characters (<>:\"/|?*)")
	ErrProfileNameReserved     = errors.New("profile name is a reserved filename")
	ErrProfileNameNullByte     = errors.New("profile name contains null byte")
)
