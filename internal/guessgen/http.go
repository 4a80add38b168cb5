package guessgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// submitGuesses submits every scenario guess concurrently using a
// worker pool.
func submitGuesses(ctx context.Context, config *Config, scenarios []Scenario, stats *Stats) error {
	total := 0
	for _, s := range scenarios {
		total += len(s.Guesses)
	}
	log.Printf("Submitting %d guesses with %d workers...", total, config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/guesses"

	var (
		recorded  int64
		skipped   int64
		failed    int64
		submitted int64
	)

	guessChan := make(chan GuessPayload, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for guess := range guessChan {
				select {
				case <-ctx.Done():
					return
				default:
					result := submitSingleGuess(ctx, client, url, guess)

					atomic.AddInt64(&submitted, 1)
					switch result {
					case "recorded":
						atomic.AddInt64(&recorded, 1)
					case "skipped":
						atomic.AddInt64(&skipped, 1)
					case "failed":
						atomic.AddInt64(&failed, 1)
					}
				}
			}
		}()
	}

	go func() {
		defer close(guessChan)
		for _, scenario := range scenarios {
			for _, guess := range scenario.Guesses {
				select {
				case <-ctx.Done():
					return
				case guessChan <- guess:
				}
			}
		}
	}()

	wg.Wait()

	stats.GuessesSubmitted = int(atomic.LoadInt64(&submitted))
	stats.GuessesRecorded = int(atomic.LoadInt64(&recorded))
	stats.GuessesSkipped = int(atomic.LoadInt64(&skipped))
	stats.GuessesFailed = int(atomic.LoadInt64(&failed))

	log.Printf(`Guess submission completed:
   Recorded: %d
   Skipped: %d
   Failed: %d
`, stats.GuessesRecorded, stats.GuessesSkipped, stats.GuessesFailed)

	return nil
}

// submitSingleGuess submits a single guess and returns the result
func submitSingleGuess(ctx context.Context, client *HTTPClient, url string, guess GuessPayload) string {
	resp, err := client.Post(ctx, url, guess)
	if err != nil {
		return "failed"
	}
	if _, err := readResponseBody(resp); err != nil {
		return "failed"
	}

	switch resp.StatusCode {
	case StatusCreated:
		return "recorded"
	case StatusOK:
		// The target is already solved by a perfect guess.
		return "skipped"
	default:
		return "failed"
	}
}
