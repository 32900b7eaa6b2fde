package mailer

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/gridrivals/gridrivals/internal/platform/logging"
	"github.com/gridrivals/gridrivals/internal/platform/resilience"
)

var errMailerTransient = crerr.New("mailer transient failure")

type ClientConfig struct {
	BaseURL        string
	Token          string
	FromAddress    string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client delivers verification emails through an HTTP mail provider.
type Client struct {
	http           *fasthttp.Client
	sendURL        string
	token          string
	fromAddress    string
	timeout        time.Duration
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

type sendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

func NewClient(cfg ClientConfig) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, crerr.New("mailer base URL is required")
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, crerr.Newf("mailer base URL %q must use http or https", baseURL)
	}
	if strings.TrimSpace(cfg.FromAddress) == "" {
		return nil, crerr.New("mailer from address is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		http: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		sendURL:        baseURL + "/emails",
		token:          strings.TrimSpace(cfg.Token),
		fromAddress:    strings.TrimSpace(cfg.FromAddress),
		timeout:        timeout,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}, nil
}

// Send implements usecase.Mailer.
func (c *Client) Send(ctx context.Context, to, subject, body string) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "mailer circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("mail provider is temporarily unavailable: %w", err)
		}
	}

	payload, err := sonic.Marshal(sendRequest{
		From:    c.fromAddress,
		To:      to,
		Subject: subject,
		Text:    body,
	})
	if err != nil {
		return crerr.Wrap(err, "marshal mail payload")
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.SetRequestURI(c.sendURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.SetBody(payload)

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		callErr := fmt.Errorf("%w: send mail to=%s: %v", errMailerTransient, to, err)
		c.recordCircuitResult(callErr)
		return callErr
	}

	status := resp.StatusCode()
	if status/100 != 2 {
		detail := previewBody(resp.Body())
		if isRetryableStatus(status) {
			callErr := fmt.Errorf("%w: send mail status=%d to=%s body=%s", errMailerTransient, status, to, detail)
			c.recordCircuitResult(callErr)
			return callErr
		}

		callErr := fmt.Errorf("send mail status=%d to=%s body=%s", status, to, detail)
		c.recordCircuitResult(callErr)
		return callErr
	}

	c.logger.InfoContext(ctx, "verification mail accepted", "to", to)
	c.recordCircuitResult(nil)
	return nil
}

func (c *Client) recordCircuitResult(err error) {
	if !c.circuitEnabled || c.breaker == nil {
		return
	}
	if err == nil {
		c.breaker.RecordSuccess()
		return
	}
	if stderrors.Is(err, errMailerTransient) {
		c.breaker.RecordFailure()
		return
	}
	c.breaker.RecordSuccess()
}

func isRetryableStatus(status int) bool {
	return status == fasthttp.StatusRequestTimeout ||
		status == fasthttp.StatusTooManyRequests ||
		status >= fasthttp.StatusInternalServerError
}

func previewBody(body []byte) string {
	const maxPreview = 2048

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if len(body) > maxPreview {
		_, _ = buf.Write(body[:maxPreview])
		_, _ = buf.WriteString("...(truncated)")
	} else {
		_, _ = buf.Write(body)
	}

	return strings.TrimSpace(buf.String())
}
