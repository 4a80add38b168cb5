package guessgen

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/mlahde/locus/internal/domain/model"
	"github.com/mlahde/locus/internal/domain/trilat"
	"github.com/mlahde/locus/internal/domain/types"
	"github.com/mlahde/locus/pkg/logger"
)

// retrieveEstimates fetches the engine's estimate for every scenario
// concurrently and measures its error against the known true location.
func retrieveEstimates(ctx context.Context, config *Config, scenarios []Scenario, stats *Stats) ([]TargetResult, error) {
	logger.Get().Info(ctx, "retrieving estimates", logger.Int("targets", len(scenarios)))

	client := newHTTPClient(config.Timeout)

	var (
		retrieved int64
		missing   int64
	)

	results := make([]TargetResult, len(scenarios))
	indexChan := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for idx := range indexChan {
				select {
				case <-ctx.Done():
					return
				default:
					result := fetchSingleEstimate(ctx, client, config.BaseURL, scenarios[idx])
					results[idx] = result
					if result.Err != nil {
						atomic.AddInt64(&missing, 1)
					} else {
						atomic.AddInt64(&retrieved, 1)
					}
				}
			}
		}()
	}

	go func() {
		defer close(indexChan)
		for i := range scenarios {
			select {
			case <-ctx.Done():
				return
			case indexChan <- i:
			}
		}
	}()

	wg.Wait()

	stats.EstimatesRetrieved = int(atomic.LoadInt64(&retrieved))
	stats.EstimatesMissing = int(atomic.LoadInt64(&missing))
	return results, nil
}

// fetchSingleEstimate fetches one target's estimate and computes the
// error distance.
func fetchSingleEstimate(ctx context.Context, client *HTTPClient, baseURL string, scenario Scenario) TargetResult {
	result := TargetResult{TargetID: scenario.TargetID, True: scenario.True}

	resp, err := client.Get(ctx, baseURL+"/estimate/"+scenario.TargetID)
	if err != nil {
		result.Err = fmt.Errorf("failed to fetch estimate: %w", err)
		return result
	}
	body, err := readResponseBody(resp)
	if err != nil {
		result.Err = fmt.Errorf("failed to read estimate response: %w", err)
		return result
	}
	if resp.StatusCode != StatusOK {
		result.Err = fmt.Errorf("estimate request returned status %d", resp.StatusCode)
		return result
	}

	var est types.Estimate
	if err := json.Unmarshal(body, &est); err != nil {
		result.Err = fmt.Errorf("failed to parse estimate response: %w", err)
		return result
	}

	result.Estimate = model.Location{Lat: est.Lat, Lon: est.Lon}
	result.ErrorMeters = trilat.Distance(result.Estimate, result.True)
	return result
}

// reportAccuracy aggregates per-target error distances into the run
// statistics.
func reportAccuracy(ctx context.Context, config *Config, results []TargetResult, stats *Stats) {
	var sum, worst float64
	count := 0
	for _, r := range results {
		if r.Err != nil {
			logger.Get().Warn(ctx, "no estimate for target",
				logger.String("targetID", r.TargetID),
				logger.Error(r.Err))
			continue
		}
		sum += r.ErrorMeters
		if r.ErrorMeters > worst {
			worst = r.ErrorMeters
		}
		count++

		if config.Verbose {
			logger.Get().Info(ctx, "target estimate",
				logger.String("targetID", r.TargetID),
				logger.Float64("trueLat", r.True.Lat),
				logger.Float64("trueLon", r.True.Lon),
				logger.Float64("estLat", r.Estimate.Lat),
				logger.Float64("estLon", r.Estimate.Lon),
				logger.Float64("errorMeters", r.ErrorMeters))
		}
	}

	if count > 0 {
		stats.MeanErrorMeters = sum / float64(count)
	}
	stats.WorstErrorMeters = worst
}
