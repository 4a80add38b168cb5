package guessgen

import "time"

// HTTP status code constants.
const (
	StatusOK       = 200
	StatusCreated  = 201
	StatusNotFound = 404
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	SettleDelay          = 2 * time.Second
	PercentageMultiplier = 100
)
