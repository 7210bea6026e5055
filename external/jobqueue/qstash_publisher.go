package jobqueue

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/day-planner/internal/domain/timeline"
	"github.com/riskibarqy/day-planner/internal/platform/logging"
	"github.com/riskibarqy/day-planner/internal/platform/metrics"
	"github.com/riskibarqy/day-planner/internal/platform/resilience"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultQStashBaseURL = "https://qstash.upstash.io"
	// ReminderPath is the internal endpoint QStash calls back when a
	// reminder fires.
	ReminderPath = "/v1/internal/reminders"
)

var errQStashTransient = crerr.New("qstash transient failure")

// ReminderPayload is the body QStash forwards to ReminderPath.
type ReminderPayload struct {
	ItemID    string    `json:"item_id"`
	Title     string    `json:"title"`
	Kind      string    `json:"kind"`
	StartTime time.Time `json:"start_time"`
	Venue     string    `json:"venue,omitempty"`
}

type publishResponse struct {
	MessageID string `json:"messageId"`
}

type QStashConfig struct {
	BaseURL          string
	Token            string
	TargetBaseURL    string
	Retries          int
	InternalJobToken string
	Timeout          time.Duration
	Lead             time.Duration
	CircuitBreaker   resilience.CircuitBreakerConfig
}

// QStashReminderScheduler implements timeline.ReminderScheduler with delayed
// QStash messages. It remembers the message scheduled for each item so a
// reschedule or delete cancels the previous one.
type QStashReminderScheduler struct {
	client           *http.Client
	baseURL          string
	token            string
	targetBaseURL    string
	retries          int
	internalJobToken string
	lead             time.Duration
	logger           *logging.Logger
	breaker          *resilience.CircuitBreaker
	circuitEnabled   bool
	now              func() time.Time

	mu       sync.Mutex
	messages map[string]string
}

func NewQStashReminderScheduler(cfg QStashConfig, logger *logging.Logger) *QStashReminderScheduler {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultQStashBaseURL
	}
	breakerCfg := cfg.CircuitBreaker.Normalized()
	breaker := resilience.NewCircuitBreaker("qstash", breakerCfg)
	breaker.OnStateChange(func(name string, _, to resilience.CircuitState) {
		metrics.SetCircuitState(name, to.Level())
	})

	return &QStashReminderScheduler{
		client:           &http.Client{Timeout: timeout},
		baseURL:          baseURL,
		token:            strings.TrimSpace(cfg.Token),
		targetBaseURL:    strings.TrimRight(strings.TrimSpace(cfg.TargetBaseURL), "/"),
		retries:          cfg.Retries,
		internalJobToken: strings.TrimSpace(cfg.InternalJobToken),
		lead:             max(cfg.Lead, 0),
		logger:           logger.With("component", "qstash_reminders"),
		breaker:          breaker,
		circuitEnabled:   breakerCfg.Enabled,
		now:              time.Now,
		messages:         make(map[string]string),
	}
}

// Schedule publishes a reminder that fires lead before item starts,
// replacing any earlier reminder for the item. Items without a start time or
// whose reminder time has passed only cancel.
func (s *QStashReminderScheduler) Schedule(ctx context.Context, item timeline.Item) error {
	if err := s.Cancel(ctx, item.ID); err != nil {
		return err
	}
	if item.StartTime == nil {
		return nil
	}

	delay := item.StartTime.Add(-s.lead).Sub(s.now())
	if delay <= 0 {
		s.logger.DebugContext(ctx, "reminder time already passed", "item_id", item.ID, "start_time", item.StartTime.UTC())
		return nil
	}

	payload := ReminderPayload{
		ItemID:    item.ID,
		Title:     item.Title,
		Kind:      string(item.Kind),
		StartTime: item.StartTime.UTC(),
		Venue:     item.Venue,
	}
	dedupID := "reminder-" + item.ID + "-" + strconv.FormatInt(item.StartTime.Unix(), 10)

	messageID, err := s.publish(ctx, ReminderPath, payload, delay, dedupID)
	metrics.ObserveReminderPublish(err)
	if err != nil {
		return err
	}

	if messageID != "" {
		s.mu.Lock()
		s.messages[item.ID] = messageID
		s.mu.Unlock()
	}
	return nil
}

// Cancel deletes the pending reminder for itemID, if one was scheduled.
// A message QStash no longer knows about counts as cancelled.
func (s *QStashReminderScheduler) Cancel(ctx context.Context, itemID string) error {
	s.mu.Lock()
	messageID, ok := s.messages[itemID]
	s.mu.Unlock()
	if !ok {
		return nil
	}

	if err := s.deleteMessage(ctx, messageID); err != nil {
		return err
	}

	s.mu.Lock()
	if s.messages[itemID] == messageID {
		delete(s.messages, itemID)
	}
	s.mu.Unlock()
	s.logger.DebugContext(ctx, "reminder cancelled", "item_id", itemID, "message_id", messageID)
	return nil
}

// Pending returns the number of reminders with a known QStash message.
func (s *QStashReminderScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

func (s *QStashReminderScheduler) publish(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) (string, error) {
	if s.circuitEnabled {
		if err := s.breaker.Allow(); err != nil {
			s.logger.WarnContext(ctx, "qstash circuit breaker rejected request", "state", s.breaker.State())
			return "", fmt.Errorf("qstash is temporarily unavailable: %w", err)
		}
	}

	baseURL, err := validateHTTPBaseURL(s.baseURL)
	if err != nil {
		return "", crerr.Wrap(err, "invalid QSTASH_BASE_URL")
	}
	targetBaseURL, err := validateHTTPBaseURL(s.targetBaseURL)
	if err != nil {
		return "", crerr.Wrap(err, "invalid QSTASH_TARGET_BASE_URL")
	}

	targetURL := targetBaseURL + path
	publishURL := baseURL + "/v2/publish/" + targetURL

	body, err := sonic.Marshal(payload)
	if err != nil {
		return "", crerr.Wrap(err, "marshal reminder payload")
	}
	bodyText := truncateForLog(string(body), 4096)
	curlPreview := buildQStashCurlPreview(publishURL, path, normalizeDelay(delay), s.retries, deduplicationID, bodyText, s.internalJobToken != "")

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("qstash.publish_url", publishURL),
			attribute.String("qstash.target_url", targetURL),
			attribute.String("qstash.delay", normalizeDelay(delay)),
			attribute.String("qstash.request_curl_preview", curlPreview),
		)
	}
	s.logger.DebugContext(ctx, "qstash publish request", "path", path, "target_url", targetURL, "curl_preview", curlPreview)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, publishURL, strings.NewReader(string(body)))
	if err != nil {
		return "", crerr.Wrap(err, "create qstash request")
	}
	s.setAuth(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Upstash-Method", http.MethodPost)
	if s.retries > 0 {
		req.Header.Set("Upstash-Retries", strconv.Itoa(s.retries))
	}
	req.Header.Set("Upstash-Delay", normalizeDelay(delay))
	if strings.TrimSpace(deduplicationID) != "" {
		req.Header.Set("Upstash-Deduplication-Id", strings.TrimSpace(deduplicationID))
	}
	if s.internalJobToken != "" {
		req.Header.Set("Upstash-Forward-X-Internal-Job-Token", s.internalJobToken)
	}

	raw, status, err := s.do(req)
	if err != nil {
		callErr := fmt.Errorf("%w: publish qstash job target_url=%s: %v", errQStashTransient, targetURL, err)
		s.recordCircuitResult(callErr)
		return "", callErr
	}
	if status/100 != 2 {
		callErr := statusError("publish qstash job", status, raw)
		s.recordCircuitResult(callErr)
		return "", callErr
	}
	s.recordCircuitResult(nil)

	var decoded publishResponse
	if err := sonic.Unmarshal(raw, &decoded); err != nil {
		s.logger.WarnContext(ctx, "qstash publish response not understood", "body", truncateForLog(string(raw), 512), "error", err)
	}
	s.logger.InfoContext(ctx, "reminder scheduled", "path", path, "delay", normalizeDelay(delay), "message_id", decoded.MessageID, "deduplication_id", deduplicationID)
	return decoded.MessageID, nil
}

func (s *QStashReminderScheduler) deleteMessage(ctx context.Context, messageID string) error {
	baseURL, err := validateHTTPBaseURL(s.baseURL)
	if err != nil {
		return crerr.Wrap(err, "invalid QSTASH_BASE_URL")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, baseURL+"/v2/messages/"+url.PathEscape(messageID), nil)
	if err != nil {
		return crerr.Wrap(err, "create qstash cancel request")
	}
	s.setAuth(req)

	raw, status, err := s.do(req)
	if err != nil {
		return fmt.Errorf("%w: cancel qstash message=%s: %v", errQStashTransient, messageID, err)
	}
	if status == http.StatusNotFound || status/100 == 2 {
		return nil
	}
	return statusError("cancel qstash message "+messageID, status, raw)
}

func (s *QStashReminderScheduler) setAuth(req *http.Request) {
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
}

func (s *QStashReminderScheduler) do(req *http.Request) ([]byte, int, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return raw, resp.StatusCode, nil
}

func statusError(action string, status int, raw []byte) error {
	err := fmt.Errorf("%s status=%d body=%s", action, status, strings.TrimSpace(truncateForLog(string(raw), 4096)))
	if isQStashRetryableStatus(status) {
		return fmt.Errorf("%w: %w", errQStashTransient, err)
	}
	return err
}

func normalizeDelay(delay time.Duration) string {
	if delay <= 0 {
		return "0s"
	}
	return strconv.Itoa(int(delay.Round(time.Second).Seconds())) + "s"
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}

func buildQStashCurlPreview(publishURL, path, delay string, retries int, deduplicationID, body string, hasInternalToken bool) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}
	appendFlagHeader := func(value string) {
		appendPart("-H")
		appendPart(shellQuote(value))
	}

	appendPart("curl")
	appendPart("-X")
	appendPart("POST")
	appendPart(shellQuote(publishURL))
	appendFlagHeader("Authorization: Bearer ***")
	appendFlagHeader("Content-Type: application/json")
	appendFlagHeader("Upstash-Method: POST")
	if retries > 0 {
		appendFlagHeader("Upstash-Retries: " + strconv.Itoa(retries))
	}
	appendFlagHeader("Upstash-Delay: " + delay)
	if strings.TrimSpace(deduplicationID) != "" {
		appendFlagHeader("Upstash-Deduplication-Id: " + strings.TrimSpace(deduplicationID))
	}
	if hasInternalToken {
		appendFlagHeader("Upstash-Forward-X-Internal-Job-Token: ***")
	}
	appendPart("-d")
	appendPart(shellQuote(body))
	appendPart("#")
	appendPart(shellQuote("path=" + path))

	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}

func (s *QStashReminderScheduler) recordCircuitResult(err error) {
	if !s.circuitEnabled {
		return
	}
	s.breaker.Record(err, isQStashCircuitFailure)
}

func isQStashCircuitFailure(err error) bool {
	return stderrors.Is(err, errQStashTransient)
}

func isQStashRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}

// NoopReminderScheduler is used when QStash is not configured.
type NoopReminderScheduler struct{}

func (NoopReminderScheduler) Schedule(context.Context, timeline.Item) error { return nil }
func (NoopReminderScheduler) Cancel(context.Context, string) error          { return nil }
