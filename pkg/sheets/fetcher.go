package sheets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var ErrSourceUnavailable = errors.New("source unavailable")

// maxWorkbookBytes caps a single download.
var maxWorkbookBytes int64 = 64 << 20

// SourceResult is the outcome of one download. Exactly one of Data or Err is set.
type SourceResult struct {
	URL      string
	Data     []byte
	Err      error
	Duration time.Duration
}

func (r SourceResult) OK() bool {
	return r.Err == nil
}

// FetchResult reports both sources independently.
type FetchResult struct {
	Project SourceResult
	Locate  SourceResult
}

// DefaultLocateGrace is how long the locate download may run on after project data has arrived.
const DefaultLocateGrace = 2 * time.Second

type Fetcher struct {
	Client *http.Client

	// LocateGrace bounds the wait for the locate workbook once the project workbook is done.
	// Zero means the locate result is taken only if it is already in.
	LocateGrace time.Duration
}

func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		Client: &http.Client{
			Timeout: timeout,
		},
		LocateGrace: DefaultLocateGrace,
	}
}

// FetchBoth downloads both workbooks concurrently. A failure of one never cancels or delays
// reporting of the other; both outcomes are always returned. The locate download is cut off
// LocateGrace after the project download finishes and reported as unavailable.
func (f *Fetcher) FetchBoth(ctx context.Context, projectURL, locateURL string) FetchResult {
	locateCtx, cancelLocate := context.WithCancel(ctx)
	defer cancelLocate()

	locateDone := make(chan SourceResult, 1)
	go func() {
		locateDone <- f.Fetch(locateCtx, locateURL)
	}()

	out := FetchResult{Project: f.Fetch(ctx, projectURL)}

	select {
	case out.Locate = <-locateDone:
		return out
	default:
	}

	timer := time.NewTimer(f.LocateGrace)
	defer timer.Stop()
	select {
	case out.Locate = <-locateDone:
	case <-timer.C:
		cancelLocate()
		<-locateDone
		out.Locate = SourceResult{
			URL: locateURL,
			Err: fmt.Errorf("%w: %s still downloading %s after project data", ErrSourceUnavailable, locateURL, f.LocateGrace),
		}
	}
	return out
}

// Fetch downloads one workbook. No retries.
func (f *Fetcher) Fetch(ctx context.Context, url string) (res SourceResult) {
	start := time.Now()
	res.URL = url
	defer func() { res.Duration = time.Since(start) }()

	if url == "" {
		res.Err = fmt.Errorf("%w: no url configured", ErrSourceUnavailable)
		return res
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		res.Err = fmt.Errorf("%w: create request: %v", ErrSourceUnavailable, err)
		return res
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		res.Err = fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
		return res
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		res.Err = fmt.Errorf("%w: status %d from %s", ErrSourceUnavailable, resp.StatusCode, url)
		return res
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxWorkbookBytes+1))
	if err != nil {
		res.Err = fmt.Errorf("%w: read body: %v", ErrSourceUnavailable, err)
		return res
	}
	if int64(len(body)) > maxWorkbookBytes {
		res.Err = fmt.Errorf("%w: workbook from %s larger than %d bytes", ErrSourceUnavailable, url, maxWorkbookBytes)
		return res
	}
	res.Data = body
	return res
}
