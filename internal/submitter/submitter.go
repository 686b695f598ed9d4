// =============================================================================
// Grocery List Converter - Replay Client
// =============================================================================
//
// This module replays parsed records against the demo form, one submission
// per record, the way a person filling the form in would.
//
// PROCESS:
//   1. CheckServer: the form page must answer before anything is sent
//   2. SubmitAll: for each record, POST the form fields and look for the
//      success banner in the reply
//   3. A failed record is logged and counted; the replay moves on
//   4. Between records the client waits a random delay in [MinDelay, MaxDelay]
//
// =============================================================================

package submitter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ginjaninja78/grocery-list-converter/internal/types"
)

// SuccessMarker is the text an accepted submission page contains.
const SuccessMarker = "Submission Successful"

// ErrNoRecords is returned when there is nothing to replay.
var ErrNoRecords = errors.New("no records to submit")

// Options configures a Client.
type Options struct {
	// FormURL is fetched by CheckServer.
	FormURL string

	// SubmitURL receives one POST per record.
	SubmitURL string

	// MinDelay and MaxDelay bound the pause between two submissions.
	MinDelay time.Duration
	MaxDelay time.Duration

	// Timeout applies to each request. Ignored when HTTPClient is set.
	Timeout time.Duration

	// HTTPClient overrides the default client.
	HTTPClient *http.Client
}

// Failure records one record that could not be submitted.
type Failure struct {
	Index int
	Item  types.GroceryItem
	Err   error
}

// Summary is the outcome of a replay.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Failures  []Failure
}

// Client submits records to the form server.
type Client struct {
	opts  Options
	http  *http.Client
	log   zerolog.Logger
	sleep func(ctx context.Context, d time.Duration) error
	delay func() time.Duration
}

// New creates a client.
func New(opts Options, log zerolog.Logger) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	c := &Client{
		opts:  opts,
		http:  hc,
		log:   log,
		sleep: sleepContext,
	}
	c.delay = c.randomDelay
	return c
}

// CheckServer verifies the form page is reachable.
func (c *Client) CheckServer(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.FormURL, nil)
	if err != nil {
		return fmt.Errorf("invalid form URL: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("form server is not reachable at %s: %w", c.opts.FormURL, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("form server answered %s for %s", resp.Status, c.opts.FormURL)
	}
	return nil
}

// Submit posts a single record.
func (c *Client) Submit(ctx context.Context, item types.GroceryItem) error {
	form := url.Values{
		types.ColumnCategory: {item.Category},
		types.ColumnItem:     {item.Item},
		types.ColumnQuantity: {strconv.Itoa(item.Quantity)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.SubmitURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("invalid submit URL: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("submit request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read submit response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("submission rejected: %s", resp.Status)
	}
	if !strings.Contains(string(body), SuccessMarker) {
		return fmt.Errorf("response did not confirm the submission")
	}
	return nil
}

// SubmitAll replays items in order. Per-record failures end up in the
// summary; only cancellation of ctx stops the replay early, in which case
// the partial summary is returned together with ctx's error.
func (c *Client) SubmitAll(ctx context.Context, items []types.GroceryItem) (Summary, error) {
	summary := Summary{Total: len(items)}
	if len(items) == 0 {
		return summary, ErrNoRecords
	}

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		log := c.log.With().
			Int("record", i+1).
			Int("total", len(items)).
			Str("category", item.Category).
			Str("item", item.Item).
			Int("quantity", item.Quantity).
			Logger()

		if err := c.Submit(ctx, item); err != nil {
			if ctx.Err() != nil {
				return summary, ctx.Err()
			}
			summary.Failed++
			summary.Failures = append(summary.Failures, Failure{Index: i, Item: item, Err: err})
			log.Error().Err(err).Msg("submission failed")
		} else {
			summary.Succeeded++
			log.Info().Msg("submitted")
		}

		if i < len(items)-1 {
			if err := c.sleep(ctx, c.delay()); err != nil {
				return summary, err
			}
		}
	}

	return summary, nil
}

// randomDelay picks a pause in [MinDelay, MaxDelay].
func (c *Client) randomDelay() time.Duration {
	lo, hi := c.opts.MinDelay, c.opts.MaxDelay
	if hi <= lo {
		return lo
	}
	return lo + rand.N(hi-lo+1)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
