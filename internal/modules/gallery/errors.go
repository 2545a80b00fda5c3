package gallery

import "errors"

var (
	// ErrNoFiles rejects an ingest request carrying no file parts.
	ErrNoFiles = errors.New("no files provided")
	// ErrImageNotFound covers both "does not exist" and "owned by someone
	// else"; the two are deliberately indistinguishable.
	ErrImageNotFound = errors.New("image not found")
	// ErrIngestFailed reports a batch in which at least one insert failed.
	// Inserts that resolved before the failure are already durable: a caller
	// seeing this error must treat the batch as "some images may exist".
	ErrIngestFailed = errors.New("ingest failed")

	// Move-step failures. Each marks a distinct point in the two-write move
	// sequence so callers can tell a clean failure (source unchanged) from
	// an interrupted one (row visible in both tables).
	ErrArchiveWrite  = errors.New("failed to archive photo")
	ErrLiveRemove    = errors.New("failed to remove photo from gallery")
	ErrRecoverWrite  = errors.New("failed to recover photo")
	ErrArchiveRemove = errors.New("failed to remove photo from archive")
)
