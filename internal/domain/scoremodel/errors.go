package scoremodel

import (
	"errors"
	"fmt"
)

// Sentinel kinds for score model errors. Both wrap ErrDomain so callers
// can test the whole taxonomy with a single errors.Is.
var (
	ErrDomain           = errors.New("value outside model domain")
	ErrScoreOutOfRange  = fmt.Errorf("%w: score out of range", ErrDomain)
	ErrNegativeDistance = fmt.Errorf("%w: negative distance", ErrDomain)
)
