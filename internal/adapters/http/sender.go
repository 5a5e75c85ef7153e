// Package http implements the batch transport against the ingestion
// service's HTTP endpoint.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bft-labs/recship/internal/domain"
	"github.com/bft-labs/recship/internal/ports"
	"github.com/bft-labs/recship/pkg/log"
)

// Sender implements ports.BatchSender over HTTP POST.
//
// The service returns a structured JSON body on success and on failure, so
// the response is decoded regardless of status code. A batch is accepted
// when the status is 2xx and the body carries no "error" field; anything
// else is a *domain.RejectionError. Failures before a response could be
// decoded are *domain.TransportError.
type Sender struct {
	client      ports.HTTPClient
	url         string
	token       string
	contentType string
	logger      log.Logger
}

// NewSender creates a batch sender posting to url with bearer-token auth.
func NewSender(client ports.HTTPClient, url, token, contentType string, logger log.Logger) *Sender {
	return &Sender{
		client:      client,
		url:         url,
		token:       token,
		contentType: contentType,
		logger:      logger,
	}
}

// DefaultClient builds an *http.Client with a bounded connection attempt and
// an overall response timeout. A zero responseTimeout means requests are
// bounded only by the caller's context.
func DefaultClient(connectTimeout, responseTimeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: responseTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{Timeout: connectTimeout}).DialContext,
		},
	}
}

// Send posts one serialized batch and interprets the acknowledgement.
func (s *Sender) Send(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return &domain.TransportError{Err: fmt.Errorf("create request: %w", err)}
	}

	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", s.contentType)

	resp, err := s.client.Do(req)
	if err != nil {
		return &domain.TransportError{Err: fmt.Errorf("send request: %w", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.TransportError{Err: fmt.Errorf("read response: %w", err)}
	}

	var decoded map[string]any
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return &domain.TransportError{Err: fmt.Errorf("decode response (%d): %w", resp.StatusCode, err)}
	}

	if resp.StatusCode/100 != 2 || decoded["error"] != nil {
		s.logger.Warn("batch rejected",
			log.Int("status", resp.StatusCode),
			log.Any("body", decoded))
		return &domain.RejectionError{
			StatusCode: resp.StatusCode,
			Reason:     reasonPhrase(resp),
			Body:       decoded,
		}
	}

	return nil
}

// reasonPhrase extracts the reason phrase from the status line, falling back
// to the standard text for the code.
func reasonPhrase(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return reason
}
