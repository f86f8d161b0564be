package engine

import "errors"

var (
	// ErrExtractorRequired is returned when constructing an engine without
	// a criteria extractor.
	ErrExtractorRequired = errors.New("criteria extractor is required")

	// ErrLocationMatcherRequired is returned when constructing an engine
	// without a location matcher.
	ErrLocationMatcherRequired = errors.New("location matcher is required")

	// ErrSectorMatcherRequired is returned when constructing an engine
	// without a sector matcher.
	ErrSectorMatcherRequired = errors.New("sector matcher is required")

	// ErrActivityFinderRequired is returned when constructing an engine
	// without an activity code finder.
	ErrActivityFinderRequired = errors.New("activity code finder is required")

	// ErrCounterRequired is returned when constructing an engine without a
	// company count client.
	ErrCounterRequired = errors.New("company counter is required")
)
