package salesbudget

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
)

const (
	overridesEndpoint  = "/api/discount-rules/overrides/"
	remoteStoreTimeout = 15 * time.Second
)

// RemoteRuleStore persists discount rule overrides against the backend REST
// API. Requests are retried on transient failures.
type RemoteRuleStore struct {
	baseURL     string
	token       string
	retryClient *retryablehttp.Client
}

// RemoteStoreOptions configures a RemoteRuleStore.
type RemoteStoreOptions struct {
	// Token is sent as a bearer token when set.
	Token string

	// HTTPClient allows using a custom HTTP client
	HTTPClient *http.Client

	// MaxRetries caps retry attempts for transient failures.
	MaxRetries int

	// Logger for retry debug logging
	Logger Logger
}

// NewRemoteRuleStore creates a store talking to the backend at baseURL.
func NewRemoteRuleStore(baseURL string, opts *RemoteStoreOptions) *RemoteRuleStore {
	if opts == nil {
		opts = &RemoteStoreOptions{}
	}

	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil
	if opts.HTTPClient != nil {
		retryClient.HTTPClient = opts.HTTPClient
	} else {
		retryClient.HTTPClient = &http.Client{Timeout: remoteStoreTimeout}
	}
	if opts.MaxRetries > 0 {
		retryClient.RetryMax = opts.MaxRetries
	}
	if opts.Logger != nil {
		retryClient.Logger = &retryLogger{logger: opts.Logger}
	}

	return &RemoteRuleStore{
		baseURL:     baseURL,
		token:       opts.Token,
		retryClient: retryClient,
	}
}

// Load reads the persisted overrides. A 404 means nothing has been persisted
// yet and is not an error.
func (s *RemoteRuleStore) Load(ctx context.Context) ([]RuleOverride, error) {
	resp, err := s.do(ctx, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("override fetch failed with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read override response")
	}

	var overrides []RuleOverride
	if err := json.Unmarshal(body, &overrides); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal rule overrides")
	}
	return overrides, nil
}

// Save replaces the persisted overrides.
func (s *RemoteRuleStore) Save(ctx context.Context, overrides []RuleOverride) error {
	body, err := json.Marshal(overrides)
	if err != nil {
		return errors.Wrap(err, "failed to marshal rule overrides")
	}

	resp, err := s.do(ctx, http.MethodPut, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return errors.Errorf("override save failed with status %d", resp.StatusCode)
	}
	return nil
}

// Clear removes the persisted overrides. A 404 means the store was already
// empty.
func (s *RemoteRuleStore) Clear(ctx context.Context) error {
	resp, err := s.do(ctx, http.MethodDelete, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK &&
		resp.StatusCode != http.StatusNoContent &&
		resp.StatusCode != http.StatusNotFound {
		return errors.Errorf("override delete failed with status %d", resp.StatusCode)
	}
	return nil
}

// do executes one request against the overrides endpoint.
func (s *RemoteRuleStore) do(ctx context.Context, method string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+overridesEndpoint, reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create override request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	retryReq, err := retryablehttp.FromRequest(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create retryable request")
	}

	resp, err := s.retryClient.Do(retryReq)
	if err != nil {
		return nil, errors.Wrapf(err, "override %s request failed", method)
	}
	return resp, nil
}

// retryLogger adapts our logger to retryablehttp
type retryLogger struct {
	logger Logger
}

func (l *retryLogger) Printf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
