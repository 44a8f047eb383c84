package notifiers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/daniacca/fabricate/internal/fabricate"
)

// Headers set on every webhook delivery.
const (
	EventHeader     = "X-Fabricate-Event"
	SignatureHeader = "X-Fabricate-Signature"
)

// WebhookNotifier delivers inventory events as JSON POST requests.
type WebhookNotifier struct {
	id      string
	url     string
	client  *http.Client
	headers http.Header
	secret  []byte
	kinds   []fabricate.EventKind
}

// WebhookOption configures a WebhookNotifier.
type WebhookOption func(*WebhookNotifier)

// WithHeader adds a header sent with every delivery.
func WithHeader(key, value string) WebhookOption {
	return func(wn *WebhookNotifier) {
		wn.headers.Set(key, value)
	}
}

// WithSecret signs each body with HMAC-SHA256 and sends the hex digest as
// "sha256=<digest>" in the X-Fabricate-Signature header.
func WithSecret(secret string) WebhookOption {
	return func(wn *WebhookNotifier) {
		wn.secret = []byte(secret)
	}
}

// WithKinds restricts deliveries to the given event kinds. Other events are
// dropped without error.
func WithKinds(kinds ...fabricate.EventKind) WebhookOption {
	return func(wn *WebhookNotifier) {
		wn.kinds = append(wn.kinds, kinds...)
	}
}

// WithHTTPClient replaces the default client, which times out after 5s.
func WithHTTPClient(client *http.Client) WebhookOption {
	return func(wn *WebhookNotifier) {
		if client != nil {
			wn.client = client
		}
	}
}

// NewWebhookNotifier creates a notifier posting to url.
func NewWebhookNotifier(id, url string, opts ...WebhookOption) *WebhookNotifier {
	wn := &WebhookNotifier{
		id:      id,
		url:     url,
		client:  &http.Client{Timeout: 5 * time.Second},
		headers: make(http.Header),
	}
	for _, opt := range opts {
		opt(wn)
	}
	return wn
}

func (wn *WebhookNotifier) ID() string {
	return wn.id
}

func (wn *WebhookNotifier) Type() string {
	return "webhook"
}

// URL returns the delivery target.
func (wn *WebhookNotifier) URL() string {
	return wn.url
}

// Kinds returns the event kinds delivered, nil meaning all.
func (wn *WebhookNotifier) Kinds() []fabricate.EventKind {
	return slices.Clone(wn.kinds)
}

// Accepts reports whether events of kind are delivered.
func (wn *WebhookNotifier) Accepts(kind fabricate.EventKind) bool {
	return len(wn.kinds) == 0 || slices.Contains(wn.kinds, kind)
}

// Notify posts the event. Any non-2xx answer is an error carrying the start
// of the response body.
func (wn *WebhookNotifier) Notify(ctx context.Context, event fabricate.NotificationEvent) error {
	if !wn.Accepts(event.Kind) {
		return nil
	}
	body, err := event.JSON()
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event.Kind, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, wn.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	for key, values := range wn.headers {
		req.Header[key] = slices.Clone(values)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(EventHeader, string(event.Kind))
	if len(wn.secret) > 0 {
		req.Header.Set(SignatureHeader, Sign(wn.secret, body))
	}

	resp, err := wn.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver to %s: %w", wn.id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		msg := strings.TrimSpace(string(snippet))
		if msg == "" {
			return fmt.Errorf("webhook %s returned status %d", wn.id, resp.StatusCode)
		}
		return fmt.Errorf("webhook %s returned status %d: %s", wn.id, resp.StatusCode, msg)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Close is a no-op; deliveries share no long-lived connection state.
func (wn *WebhookNotifier) Close() error {
	return nil
}

// Sign returns the signature header value for body.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a signature header value produced by Sign.
func VerifySignature(secret, body []byte, signature string) bool {
	return hmac.Equal([]byte(Sign(secret, body)), []byte(signature))
}
