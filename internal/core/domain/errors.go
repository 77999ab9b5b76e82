package domain

import "errors"

// ErrValidation is an error thrown when a request is malformed, it is raised before any store call
var ErrValidation = errors.New("validation error")

// ErrStore is an error thrown when the object store call itself failed
var ErrStore = errors.New("store error")

// ErrDeviceUnavailable is an error thrown when the capture device is denied or missing
var ErrDeviceUnavailable = errors.New("capture device unavailable")

// ErrSizeLimitExceeded is reported when a capture was force-stopped by the size ceiling
var ErrSizeLimitExceeded = errors.New("recording size limit exceeded")

// ErrInitiationFailed is an error thrown when no upload session could be opened
var ErrInitiationFailed = errors.New("upload initiation failed")

// ErrChunkUploadFailed is an error thrown when a part exhausted its retries
var ErrChunkUploadFailed = errors.New("chunk upload failed")

// ErrCompletionFailed is an error thrown when the store rejected the final assembly
var ErrCompletionFailed = errors.New("completion failed")

// ErrNoValidParts is an error thrown when a completion request carries no usable part
var ErrNoValidParts = errors.New("no valid parts to complete")

// ErrNonContiguousParts is an error thrown when part numbers are not contiguous from 1
var ErrNonContiguousParts = errors.New("part numbers are not contiguous from 1")

// ErrDuplicatePart is an error thrown when parts are duplicated
var ErrDuplicatePart = errors.New("duplicate part")

// ErrNoPartSlot is an error thrown when no presigned url exists for a part number
var ErrNoPartSlot = errors.New("no presigned url for part")

// ErrMissingPartTag is an error thrown when the store acknowledged a part without a tag
var ErrMissingPartTag = errors.New("missing part tag")

// ErrSessionTerminal is an error thrown when an upload session no longer accepts operations
var ErrSessionTerminal = errors.New("upload session is terminal")

// ErrUploadNotFound is an error thrown when the store does not know the multipart upload
var ErrUploadNotFound = errors.New("multipart upload not found")

// ErrObjectNotFound is an error thrown when an object does not exist
var ErrObjectNotFound = errors.New("object not found")

// ErrRecordingNotFound is an error thrown when a recording does not exist
var ErrRecordingNotFound = errors.New("recording not found")

// ErrInvalidObjectKey is an error thrown when a key is not a recording key
var ErrInvalidObjectKey = errors.New("invalid recording key")

// ErrNotAllowed is an error thrown when a participant may not record
var ErrNotAllowed = errors.New("not allowed to record")

// ErrContentTypeMismatch is an error thrown when content type mismatch
var ErrContentTypeMismatch = errors.New("content type mismatch")
