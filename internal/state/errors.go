// Package state implements the PixelBoard editing core: the sparse canvas,
// selection geometry, checkpoints, the animation timeline, the intent
// translator and the effect log that makes every edit exactly undoable.
package state

import "errors"

// Lookup errors
var (
	// ErrUnknownAnchor indicates that no anchor has the requested name.
	ErrUnknownAnchor = errors.New("unknown anchor")

	// ErrUnknownTag indicates that no tag has the requested name.
	ErrUnknownTag = errors.New("unknown tag")

	// ErrUnknownTarget indicates that a remove target (tag, anchor or frame) does not exist.
	ErrUnknownTarget = errors.New("unknown target")
)

// Palette errors
var (
	// ErrInvalidColorIndex indicates that a color index has no palette entry.
	ErrInvalidColorIndex = errors.New("invalid color index")

	// ErrUnpaintedPixel indicates that a pick was attempted on an empty pixel.
	ErrUnpaintedPixel = errors.New("pixel is not painted")
)

// Marker errors
var (
	// ErrMarkerAlreadyActive indicates that a marking session is already in progress.
	ErrMarkerAlreadyActive = errors.New("marker already active")

	// ErrNoActiveMarker indicates that an intent requires a marker but none is active.
	ErrNoActiveMarker = errors.New("no active marker")
)

// Decoding errors
var (
	// ErrInvalidIntent indicates that an intent could not be decoded.
	ErrInvalidIntent = errors.New("invalid intent")
)
