// Package quote fetches live prices from external providers: the Tencent
// quote endpoint for exchange-listed stocks and the fundgz estimate
// endpoint for open funds.
package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"

	"github.com/steven6143/stock-profit-calculator/internal/apperrors"
	"github.com/steven6143/stock-profit-calculator/internal/model"
)

const (
	defaultEquityQuoteURL = "https://qt.gtimg.cn/q=%s"
	defaultFundQuoteURL   = "https://fundgz.1234567.com.cn/js/%s.js"

	// requestTimeout bounds every provider call so one unresponsive
	// provider cannot stall a whole refresh cycle.
	requestTimeout = 10 * time.Second
)

// Client provides methods for fetching live security prices.
// It wraps an HTTP client with a fixed per-request timeout and parses the
// provider-specific response formats into model.Quote values.
type Client struct {
	httpClient *http.Client
	token      string

	// URL templates with a %s code placeholder; overridable for tests.
	equityURL string
	fundURL   string
}

// NewClient creates a new quote client with default HTTP settings.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		equityURL:  defaultEquityQuoteURL,
		fundURL:    defaultFundQuoteURL,
	}
}

// NewClientWithEndpoints creates a client against alternate provider URL
// templates. Used by tests to point at local mock servers.
func NewClientWithEndpoints(equityURL, fundURL string) *Client {
	c := NewClient()
	c.equityURL = equityURL
	c.fundURL = fundURL
	return c
}

// WithToken returns a copy of the client that sends the given provider API
// token with every request. An empty token leaves requests unauthenticated,
// which both providers accept at low request rates.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.token = token
	return &clone
}

// FetchQuote routes a code to the matching provider based on its derived
// asset type.
func (c *Client) FetchQuote(ctx context.Context, code string) (model.Quote, error) {
	if model.ClassifyCode(code) == model.AssetTypeFund {
		return c.FetchFundQuote(ctx, code)
	}
	return c.FetchEquityQuote(ctx, code)
}

// FetchEquityQuote fetches the current price for an exchange-listed stock.
//
// The Tencent endpoint returns a GBK-encoded assignment of tilde-separated
// fields, e.g.
//
//	v_sh600519="1~贵州茅台~600519~1650.00~...";
//
// Field 1 is the display name, field 3 the current price. A zero or
// non-numeric price field is treated as "no quote" rather than a price.
func (c *Client) FetchEquityQuote(ctx context.Context, code string) (model.Quote, error) {
	body, err := c.get(ctx, fmt.Sprintf(c.equityURL, code), true)
	if err != nil {
		return model.Quote{}, err
	}

	// Strip the v_<code>="..." wrapper.
	start := strings.IndexByte(body, '"')
	end := strings.LastIndexByte(body, '"')
	if start < 0 || end <= start {
		return model.Quote{}, fmt.Errorf("%w: unexpected equity payload for %s", apperrors.ErrMalformedQuote, code)
	}

	fields := strings.Split(body[start+1:end], "~")
	if len(fields) < 4 {
		return model.Quote{}, fmt.Errorf("%w: %d fields for %s", apperrors.ErrMalformedQuote, len(fields), code)
	}

	price, err := strconv.ParseFloat(fields[3], 64)
	if err != nil || price <= 0 {
		return model.Quote{}, fmt.Errorf("%w: no current price for %s", apperrors.ErrQuoteUnavailable, code)
	}

	return model.Quote{Code: code, Price: price, Name: fields[1]}, nil
}

// FetchFundQuote fetches the intraday estimated NAV for an open fund.
//
// The fundgz endpoint returns a JSONP document:
//
//	jsonpgz({"fundcode":"161725","name":"...","gsz":"1.2345",...});
//
// The estimate (gsz) is preferred; when it is absent the last published
// NAV (dwjz) is used, which happens for funds without intraday estimates.
func (c *Client) FetchFundQuote(ctx context.Context, code string) (model.Quote, error) {
	body, err := c.get(ctx, fmt.Sprintf(c.fundURL, code), false)
	if err != nil {
		return model.Quote{}, err
	}

	start := strings.IndexByte(body, '{')
	end := strings.LastIndexByte(body, '}')
	if start < 0 || end <= start {
		return model.Quote{}, fmt.Errorf("%w: unexpected fund payload for %s", apperrors.ErrMalformedQuote, code)
	}

	var est fundEstimate
	if err := json.Unmarshal([]byte(body[start:end+1]), &est); err != nil {
		return model.Quote{}, fmt.Errorf("%w: %v", apperrors.ErrMalformedQuote, err)
	}

	raw := est.Estimate
	if raw == "" {
		raw = est.NetValue
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil || price <= 0 {
		return model.Quote{}, fmt.Errorf("%w: no NAV for %s", apperrors.ErrQuoteUnavailable, code)
	}

	return model.Quote{Code: code, Price: price, Name: est.Name}, nil
}

// get executes a provider request and returns the response body as a
// string, decoding GBK payloads when the provider requires it.
func (c *Client) get(ctx context.Context, url string, gbk bool) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Referer", "https://finance.qq.com/")
	if c.token != "" {
		req.Header.Set("X-Provider-Token", c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: provider returned status %d", apperrors.ErrQuoteUnavailable, resp.StatusCode)
	}

	var reader io.Reader = resp.Body
	if gbk {
		reader = transform.NewReader(resp.Body, simplifiedchinese.GBK.NewDecoder())
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}

	return string(data), nil
}
