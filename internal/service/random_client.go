package service

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/big"
	"net/http"
	"time"
)

// RandomSource yields the number a computer choice is derived from
type RandomSource interface {
	RandomNumber(ctx context.Context) (int, error)
}

// RandomClient fetches random numbers from an external HTTP service that
// answers with {"random_number": n}.
type RandomClient struct {
	url        string
	httpClient *http.Client
}

// NewRandomClient creates a client for the random number service at url
func NewRandomClient(url string, timeout time.Duration) *RandomClient {
	return &RandomClient{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

const maxRandomResponseBytes = 4 << 10

type randomNumberResponse struct {
	RandomNumber *int `json:"random_number"`
}

// RandomNumber implements RandomSource
func (c *RandomClient) RandomNumber(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: build request: %v", ErrRandomSource, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, fmt.Errorf("%w: %v", ErrRandomSource, ctx.Err())
		}
		log.Printf("Random number request failed: %v", err)
		return 0, fmt.Errorf("%w: %v", ErrRandomSource, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRandomResponseBytes))
	if err != nil {
		return 0, fmt.Errorf("%w: read body: %v", ErrRandomSource, err)
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("Random number service returned status %d", resp.StatusCode)
		return 0, fmt.Errorf("%w: status %d", ErrRandomSource, resp.StatusCode)
	}

	var parsed randomNumberResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("%w: parse response: %v", ErrRandomSource, err)
	}
	if parsed.RandomNumber == nil {
		log.Printf("Invalid random number response: %s", body)
		return 0, fmt.Errorf("%w: response has no random_number", ErrRandomSource)
	}
	return *parsed.RandomNumber, nil
}

// LocalRandom draws numbers in [1, 100] from crypto/rand
type LocalRandom struct{}

// RandomNumber implements RandomSource
func (LocalRandom) RandomNumber(ctx context.Context) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(100))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRandomSource, err)
	}
	return int(n.Int64()) + 1, nil
}
