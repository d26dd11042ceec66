package domain

import "errors"

// ErrInvalidAlgorithm is returned when an algorithm name is not one of the eight supported ones.
// It is always reported before the subject is touched.
var ErrInvalidAlgorithm = errors.New("invalid algorithm")

// ErrInvalidMode is returned when a mode name is neither sorting nor pathfinding.
var ErrInvalidMode = errors.New("invalid mode")

// ErrNoSubject is returned when a run is requested but no sequence or grid is available.
var ErrNoSubject = errors.New("no subject available")

// ErrAlreadyRunning is returned when an operation requires an idle controller.
var ErrAlreadyRunning = errors.New("a run is already in progress")

// ErrNotRunning is returned when pausing or waiting without a run in flight.
var ErrNotRunning = errors.New("no run in progress")

// ErrInvalidGrid is returned when a grid is malformed or its endpoints are blocked.
var ErrInvalidGrid = errors.New("invalid grid")

// ErrSubjectNotFound is returned by a SubjectStore when nothing is stored for a mode.
var ErrSubjectNotFound = errors.New("subject not found")
