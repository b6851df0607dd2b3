package simdata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pitchside/refrank/pkg/logger"
)

// httpClient wraps http.Client with a per-request timeout.
type httpClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *httpClient {
	return &httpClient{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *httpClient) postJSON(ctx context.Context, url string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

func (c *httpClient) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	return json.Unmarshal(data, out)
}

// submitMatches submits matches concurrently using a worker pool.
func submitMatches(ctx context.Context, config *Config, matches []Match, stats *Stats) error {
	log := logger.Get()
	log.Info(ctx, "submitting matches",
		logger.Int("count", len(matches)),
		logger.Int("workers", config.Workers),
	)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/matches"

	var (
		successful int64
		duplicate  int64
		failed     int64
	)

	matchChan := make(chan Match, config.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for match := range matchChan {
				if ctx.Err() != nil {
					return
				}

				resp, err := client.postJSON(ctx, url, match)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					if config.Verbose {
						log.Warn(ctx, "submission failed",
							logger.String("matchID", match.MatchID),
							logger.Error(err),
						)
					}
					continue
				}

				var ack AckResponse
				body, _ := io.ReadAll(resp.Body)
				_ = resp.Body.Close()
				_ = json.Unmarshal(body, &ack)

				switch {
				case resp.StatusCode == http.StatusAccepted:
					atomic.AddInt64(&successful, 1)
				case ack.Duplicate:
					atomic.AddInt64(&duplicate, 1)
				default:
					atomic.AddInt64(&failed, 1)
				}
			}
		}()
	}

	for _, match := range matches {
		select {
		case matchChan <- match:
		case <-ctx.Done():
			close(matchChan)
			wg.Wait()
			return ctx.Err()
		}
	}
	close(matchChan)
	wg.Wait()

	stats.MatchesSubmitted = len(matches)
	stats.MatchesSuccessful = int(successful)
	stats.MatchesDuplicate = int(duplicate)
	stats.MatchesFailed = int(failed)
	return nil
}

// fetchLeaderboard retrieves the top-N entries after seeding.
func fetchLeaderboard(ctx context.Context, config *Config, stats *Stats) ([]Entry, error) {
	client := newHTTPClient(config.Timeout)
	url := fmt.Sprintf("%s/leaderboard?limit=%d", config.BaseURL, config.TopN)

	var entries []Entry
	if err := client.getJSON(ctx, url, &entries); err != nil {
		return nil, err
	}
	stats.LeaderboardEntries = len(entries)
	return entries, nil
}
