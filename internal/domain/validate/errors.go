package validate

import "errors"

// Sentinel kind for guess validation failures.
var ErrInvalidGuess = errors.New("invalid guess")
