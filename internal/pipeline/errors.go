package pipeline

import "errors"

// ErrNotConfigured is returned when a stage is requested whose client was
// not wired into the pipeline.
var ErrNotConfigured = errors.New("pipeline stage not configured")
