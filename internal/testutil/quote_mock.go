package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/steven6143/stock-profit-calculator/internal/model"
)

// FakeQuoteFetcher is an in-memory stand-in for the quote client.
// Quotes holds the per-code responses; codes listed in Failures return an
// error instead. Both maps may be mutated between refresh cycles.
type FakeQuoteFetcher struct {
	mu       sync.Mutex
	Quotes   map[string]model.Quote
	Failures map[string]bool
	calls    []string
}

// NewFakeQuoteFetcher creates an empty fetcher; every fetch fails until
// quotes are registered.
func NewFakeQuoteFetcher() *FakeQuoteFetcher {
	return &FakeQuoteFetcher{
		Quotes:   map[string]model.Quote{},
		Failures: map[string]bool{},
	}
}

// SetQuote registers a successful response for a code.
func (f *FakeQuoteFetcher) SetQuote(code string, price float64, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Quotes[code] = model.Quote{Code: code, Price: price, Name: name}
}

// FailCode makes fetches for the code return an error.
func (f *FakeQuoteFetcher) FailCode(code string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Failures[code] = true
}

// Calls returns the codes fetched so far, in completion order.
func (f *FakeQuoteFetcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *FakeQuoteFetcher) fetch(code string) (model.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, code)

	if f.Failures[code] {
		return model.Quote{}, fmt.Errorf("provider unreachable for %s", code)
	}
	q, ok := f.Quotes[code]
	if !ok {
		return model.Quote{}, fmt.Errorf("no quote registered for %s", code)
	}
	return q, nil
}

// FetchEquityQuote implements service.QuoteFetcher.
func (f *FakeQuoteFetcher) FetchEquityQuote(_ context.Context, code string) (model.Quote, error) {
	return f.fetch(code)
}

// FetchFundQuote implements service.QuoteFetcher.
func (f *FakeQuoteFetcher) FetchFundQuote(_ context.Context, code string) (model.Quote, error) {
	return f.fetch(code)
}
