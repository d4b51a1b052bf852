package chrono

import "time"

// API is what anything that timestamps data should depend on instead of
// calling time.Now directly.
type API interface {
	Now() time.Time
}

type StandardImpl struct {
	location *time.Location
}

// NewStandardImpl reports times in `location`, nil means UTC.
func NewStandardImpl(location *time.Location) StandardImpl {
	if location == nil {
		location = time.UTC
	}
	return StandardImpl{location: location}
}

func (s StandardImpl) Now() time.Time {
	return time.Now().In(s.location)
}
