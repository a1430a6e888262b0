// Package provider adapts the generative-model contract: submit one
// system+user instruction pair at a chosen tier, get completion text
// back. Transport, auth and streaming details stay behind this
// boundary.
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"
	"google.golang.org/genai"

	"github.com/recapd/recapd/cmd/server/internal/detection"
	"github.com/recapd/recapd/pkg/metrics"
)

// ErrProvider marks failures of the generative-model leg; the api layer
// maps it to an upstream error.
var ErrProvider = errors.New("provider request failed")

// Submitter is the provider contract the rest of the service consumes.
type Submitter interface {
	Submit(ctx context.Context, systemInstruction, userInstruction string, tier detection.Tier) (string, error)
}

// Default model per tier. Overridable through Options for rollouts of
// newer model generations.
const (
	defaultLightweightModel  = "gemini-2.0-flash-lite"
	defaultStandardModel     = "gemini-2.0-flash"
	defaultLargeContextModel = "gemini-2.5-pro"
)

// Options tune the Gemini client.
type Options struct {
	// Timeout per call; the observed production range is 120-180s.
	Timeout time.Duration
	// MaxConcurrent bounds in-flight provider calls.
	MaxConcurrent int64

	LightweightModel  string
	StandardModel     string
	LargeContextModel string
}

// Gemini implements Submitter on google.golang.org/genai.
type Gemini struct {
	client  *genai.Client
	models  map[detection.Tier]string
	timeout time.Duration
	sem     *semaphore.Weighted
}

// NewGemini creates the provider adapter. The API key comes from
// process config; an empty key leaves auth to Application Default
// Credentials.
func NewGemini(ctx context.Context, apiKey string, opts Options) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("%w: init client: %v", ErrProvider, err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 150 * time.Second
	}
	maxConcurrent := opts.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 8
	}

	models := map[detection.Tier]string{
		detection.TierLightweight:  defaultLightweightModel,
		detection.TierStandard:     defaultStandardModel,
		detection.TierLargeContext: defaultLargeContextModel,
	}
	if opts.LightweightModel != "" {
		models[detection.TierLightweight] = opts.LightweightModel
	}
	if opts.StandardModel != "" {
		models[detection.TierStandard] = opts.StandardModel
	}
	if opts.LargeContextModel != "" {
		models[detection.TierLargeContext] = opts.LargeContextModel
	}

	return &Gemini{
		client:  client,
		models:  models,
		timeout: timeout,
		sem:     semaphore.NewWeighted(maxConcurrent),
	}, nil
}

// Submit sends one instruction pair at the given tier. The call is
// bounded by the configured timeout and aborted on expiry; there is no
// internal retry.
func (g *Gemini) Submit(ctx context.Context, systemInstruction, userInstruction string, tier detection.Tier) (string, error) {
	model, ok := g.models[tier]
	if !ok {
		return "", fmt.Errorf("%w: unknown tier %q", ErrProvider, tier)
	}

	if err := g.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("%w: concurrency slot: %v", ErrProvider, err)
	}
	defer g.sem.Release(1)

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	content := genai.NewContentFromText(userInstruction, genai.RoleUser)
	resp, err := g.client.Models.GenerateContent(callCtx, model, []*genai.Content{content}, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
	})
	metrics.RecordProviderDuration(string(tier), time.Since(start).Seconds())

	if err != nil {
		status := "failed"
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			status = "timeout"
		}
		metrics.RecordProviderRequest(string(tier), status)
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}

	text, err := extractText(resp)
	if err != nil {
		metrics.RecordProviderRequest(string(tier), "failed")
		return "", err
	}
	metrics.RecordProviderRequest(string(tier), "success")
	return text, nil
}

// extractText flattens the first candidate's text parts. An empty
// envelope is a malformed response, surfaced as a provider error.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: empty response envelope", ErrProvider)
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			b.WriteString(part.Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("%w: response contained no text parts", ErrProvider)
	}
	return b.String(), nil
}
