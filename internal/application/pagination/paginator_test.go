package pagination

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/diillson/kr-realestate-report/internal/domain/entity"
	"github.com/diillson/kr-realestate-report/internal/shared/types"
)

// fakeFetcher serves pages from a fixed dataset and can inject failures.
type fakeFetcher struct {
	total      int
	reportSize bool // report TotalCount
	failures   map[int][]error
	calls      []int
}

func (f *fakeFetcher) Source() string { return "fake" }

func (f *fakeFetcher) FetchPage(_ context.Context, q entity.PageQuery) (entity.Page, error) {
	f.calls = append(f.calls, q.PageNo)
	if errs := f.failures[q.PageNo]; len(errs) > 0 {
		f.failures[q.PageNo] = errs[1:]
		return entity.Page{}, errs[0]
	}

	start := (q.PageNo - 1) * q.PageSize
	end := min(start+q.PageSize, f.total)
	var records []entity.RawRecord
	for i := start; i < end; i++ {
		records = append(records, entity.RawRecord{"n": fmt.Sprint(i)})
	}
	total := -1
	if f.reportSize {
		total = f.total
	}
	return entity.Page{Records: records, TotalCount: total}, nil
}

func noSleep() RetryPolicy {
	return RetryPolicy{
		Attempts: 3,
		Delay:    time.Second,
		Sleep:    func(context.Context, time.Duration) error { return nil },
	}
}

func TestPaginator_YieldsExactlyTotal(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		pageSize  int
		wantCalls int
	}{
		{"multiple full pages", 30, 10, 3},
		{"partial last page", 25, 10, 3},
		{"single page", 5, 10, 1},
		{"empty", 0, 10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &fakeFetcher{total: tt.total, reportSize: true}
			p := NewPaginator(fetcher, tt.pageSize, noSleep(), nopConsole{})

			records, err := Collect(p.Records(context.Background(), nil))
			if err != nil {
				t.Fatalf("Collect: %v", err)
			}
			if len(records) != tt.total {
				t.Errorf("got %d records, want %d", len(records), tt.total)
			}
			if len(fetcher.calls) != tt.wantCalls {
				t.Errorf("got %d page requests, want %d", len(fetcher.calls), tt.wantCalls)
			}
			for i, rec := range records {
				if rec.Get("n") != fmt.Sprint(i) {
					t.Fatalf("record %d out of order: %v", i, rec)
				}
			}
		})
	}
}

func TestPaginator_ShortPageWithoutTotal(t *testing.T) {
	fetcher := &fakeFetcher{total: 25}
	p := NewPaginator(fetcher, 10, noSleep(), nopConsole{})

	records, err := Collect(p.Records(context.Background(), nil))
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(records) != 25 || len(fetcher.calls) != 3 {
		t.Errorf("got %d records in %d calls, want 25 in 3", len(records), len(fetcher.calls))
	}
}

type recordingStatus struct{ messages []string }

func (s *recordingStatus) Update(message string) { s.messages = append(s.messages, message) }
func (s *recordingStatus) Stop()                 {}

func TestPaginator_UpdatesStatusPerPage(t *testing.T) {
	status := &recordingStatus{}
	p := NewPaginator(&fakeFetcher{total: 25, reportSize: true}, 10, noSleep(), nopConsole{}).WithStatus(status)

	if _, err := Collect(p.Records(context.Background(), nil)); err != nil {
		t.Fatalf("Collect: %v", err)
	}

	want := []string{
		"fake: page 1, 10/25 record(s)",
		"fake: page 2, 20/25 record(s)",
		"fake: page 3, 25/25 record(s)",
	}
	if !slices.Equal(status.messages, want) {
		t.Errorf("status updates = %q, want %q", status.messages, want)
	}
}

func TestPaginator_ExactMultipleWithoutTotal(t *testing.T) {
	fetcher := &fakeFetcher{total: 20}
	p := NewPaginator(fetcher, 10, noSleep(), nopConsole{})

	records, err := Collect(p.Records(context.Background(), nil))
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	// The third page comes back empty and ends the walk.
	if len(records) != 20 || len(fetcher.calls) != 3 {
		t.Errorf("got %d records in %d calls, want 20 in 3", len(records), len(fetcher.calls))
	}
}

func TestPaginator_AuthErrorIsNotRetried(t *testing.T) {
	authErr := &types.AuthError{Source: "fake", Status: 401, Message: "unauthorized"}
	fetcher := &fakeFetcher{total: 30, reportSize: true, failures: map[int][]error{1: {authErr}}}

	sleeps := 0
	retry := noSleep()
	retry.Sleep = func(context.Context, time.Duration) error { sleeps++; return nil }
	p := NewPaginator(fetcher, 10, retry, nopConsole{})

	records, err := Collect(p.Records(context.Background(), nil))

	var got *types.AuthError
	if !errors.As(err, &got) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want none", len(records))
	}
	if len(fetcher.calls) != 1 || sleeps != 0 {
		t.Errorf("got %d calls and %d sleeps, want 1 call and no retry", len(fetcher.calls), sleeps)
	}
}

func TestPaginator_RetriesTransientFailures(t *testing.T) {
	fetcher := &fakeFetcher{
		total:      15,
		reportSize: true,
		failures:   map[int][]error{2: {errors.New("timeout"), errors.New("HTTP 502")}},
	}

	var waits []time.Duration
	retry := noSleep()
	retry.Sleep = func(_ context.Context, d time.Duration) error { waits = append(waits, d); return nil }
	p := NewPaginator(fetcher, 10, retry, nopConsole{})

	records, err := Collect(p.Records(context.Background(), nil))
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(records) != 15 {
		t.Errorf("got %d records, want 15", len(records))
	}
	if len(waits) != 2 || waits[0] != time.Second || waits[1] != 2*time.Second {
		t.Errorf("waits = %v, want [1s 2s]", waits)
	}
}

func TestPaginator_ExhaustedRetries(t *testing.T) {
	boom := errors.New("HTTP 500")
	fetcher := &fakeFetcher{
		total:      15,
		reportSize: true,
		failures:   map[int][]error{1: {boom, boom, boom, boom}},
	}
	p := NewPaginator(fetcher, 10, noSleep(), nopConsole{})

	_, err := Collect(p.Records(context.Background(), nil))

	var upstream *types.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.Attempts != 3 || !errors.Is(err, boom) {
		t.Errorf("unexpected error: %+v", upstream)
	}
	if len(fetcher.calls) != 3 {
		t.Errorf("got %d calls, want 3", len(fetcher.calls))
	}
}

func TestPaginator_StopsWhenConsumerBreaks(t *testing.T) {
	fetcher := &fakeFetcher{total: 100, reportSize: true}
	p := NewPaginator(fetcher, 10, noSleep(), nopConsole{})

	n := 0
	for _, err := range p.Records(context.Background(), nil) {
		if err != nil {
			t.Fatal(err)
		}
		n++
		if n == 5 {
			break
		}
	}
	if len(fetcher.calls) != 1 {
		t.Errorf("got %d page requests, want 1", len(fetcher.calls))
	}
}

func TestPaginator_LastPage(t *testing.T) {
	fetcher := lastPageFetcher{}
	p := NewPaginator(fetcher, 10, noSleep(), nopConsole{})

	records, err := Collect(p.Records(context.Background(), map[string]string{"form_id": "2082"}))
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("got %d records, want 3", len(records))
	}
}

type lastPageFetcher struct{}

func (lastPageFetcher) Source() string { return "single" }

func (lastPageFetcher) FetchPage(_ context.Context, q entity.PageQuery) (entity.Page, error) {
	if q.PageNo > 1 {
		return entity.Page{}, errors.New("requested past the last page")
	}
	return entity.Page{
		Records:    []entity.RawRecord{{"a": "1"}, {"a": "2"}, {"a": "3"}},
		TotalCount: -1,
		Last:       true,
	}, nil
}

func TestRetryPolicy_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := DefaultRetryPolicy().Do(ctx, "fake", nil, func() error {
		calls++
		return errors.New("HTTP 503")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("got %d calls, want 1", calls)
	}
}
