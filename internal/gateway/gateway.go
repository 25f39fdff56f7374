package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"bitbucket.org/crgw/booking-widget/internal/schema"
	"bitbucket.org/crgw/booking-widget/internal/tools/requesting"
	"github.com/google/go-querystring/query"
	"github.com/rs/zerolog"
)

const (
	defaultTimeout = 10 * time.Second

	unknownError    = "unknown error"
	connectionError = "connection error"
)

// Client is the only path to the remote data store. Reads go through Query,
// the single write goes through Mutate. No retries at this layer, retry
// policy belongs to the caller.
type Client struct {
	baseURL       string
	timeout       time.Duration
	httpTransport *http.Transport
	logger        *zerolog.Logger
}

func New(baseURL string, logger *zerolog.Logger) *Client {
	transport := http.DefaultTransport.(*http.Transport)
	// the store closes idle connections aggressively, keep-alives only add
	// stalled dials
	transport.DisableKeepAlives = true

	return &Client{
		baseURL:       baseURL,
		timeout:       defaultTimeout,
		httpTransport: transport,
		logger:        logger,
	}
}

func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.timeout = timeout
	return c
}

// envelope is the wire shape of every remote store response.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *string         `json:"error"`
}

// Query issues an idempotent read. params may be nil, otherwise it is a
// struct encodable by go-querystring.
func (c *Client) Query(ctx context.Context, action string, params any) (json.RawMessage, error) {
	values, err := query.Values(params)
	if err != nil {
		return nil, NewTransportError(err.Error())
	}
	values.Set("action", action)

	url := fmt.Sprintf("%s?%s", c.baseURL, values.Encode())

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, NewTransportError(err.Error())
	}

	response, remoteErr := requestErrors(c.client().Do(httpRequest))
	if remoteErr != nil {
		return nil, remoteErr
	}
	defer response.Body.Close()

	bodyBytes, _ := io.ReadAll(response.Body)

	var result envelope
	if err := json.Unmarshal(bodyBytes, &result); err != nil {
		return nil, NewTransportError(err.Error())
	}

	if !result.Success {
		reason := unknownError
		if result.Error != nil && *result.Error != "" {
			reason = *result.Error
		}
		return nil, NewServerError(reason)
	}

	return result.Data, nil
}

type mutation struct {
	Action  string `json:"action"`
	Payload any    `json:"payload"`
}

// Mutate issues a non-idempotent write. It always resolves to an Outcome so
// the caller can render a uniform message, a transport failure is an
// unsuccessful Outcome rather than an error.
func (c *Client) Mutate(ctx context.Context, action string, payload any) schema.Outcome {
	body, err := json.Marshal(mutation{Action: action, Payload: payload})
	if err != nil {
		return schema.FailureOutcome(connectionError)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewBuffer(body))
	if err != nil {
		return schema.FailureOutcome(connectionError)
	}
	httpRequest.Header.Set("Content-Type", "application/json")

	response, remoteErr := requestErrors(c.client().Do(httpRequest))
	if remoteErr != nil {
		c.logger.Warn().
			Str("label", "gateway").
			Str("action", action).
			Str("error", remoteErr.Reason).
			Msg("Mutation failed in transport")

		return schema.FailureOutcome(connectionError)
	}
	defer response.Body.Close()

	bodyBytes, _ := io.ReadAll(response.Body)

	var outcome schema.Outcome
	if err := json.Unmarshal(bodyBytes, &outcome); err != nil {
		return schema.FailureOutcome(connectionError)
	}

	return outcome
}

func (c *Client) client() *http.Client {
	return &http.Client{
		Timeout: c.timeout,
		Transport: &requesting.InterceptorTransport{
			Transport: c.httpTransport,
			Middlewares: []requesting.TransportMiddleware{
				requesting.NewLoggingTransportMiddleware(c.logger),
			},
		},
	}
}

func isValidResponse(code int) bool {
	return code >= 200 && code <= 299
}

func requestErrors(response *http.Response, err error) (*http.Response, *RemoteError) {
	if err != nil {
		if os.IsTimeout(err) {
			return nil, NewTransportError("timed out: " + err.Error())
		}

		return nil, NewTransportError(err.Error())
	}

	if !isValidResponse(response.StatusCode) {
		return nil, NewTransportError(fmt.Sprintf("remote store returned status code %d", response.StatusCode))
	}

	return response, nil
}
