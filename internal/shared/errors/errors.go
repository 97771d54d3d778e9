package errors

import "errors"

// Domain errors
var (
	// Scan errors
	ErrEmptyTarget   = errors.New("target cannot be empty")
	ErrInvalidTarget = errors.New("target must be a bare domain or host[:port]")

	// Rule errors
	ErrEmptyRuleName   = errors.New("fingerprint rule name cannot be empty")
	ErrUnknownRuleKind = errors.New("unknown fingerprint rule kind")
	ErrInvalidPattern  = errors.New("fingerprint rule pattern does not compile")

	// Export errors
	ErrExportDirUnset   = errors.New("export directory is not configured")
	ErrInvalidExportDir = errors.New("export directory path is not usable")
)
