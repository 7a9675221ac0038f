package billinggateway

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// CheckoutRequest asks the billing provider to open a checkout session for
// a company subscription.
type CheckoutRequest struct {
	SubscriptionID string
	CompanyID      string
	Plan           string
	AmountCents    int64
}

func (r *CheckoutRequest) Validate() error {
	if r.SubscriptionID == "" {
		return fmt.Errorf("subscription_id is required")
	}
	if r.CompanyID == "" {
		return fmt.Errorf("company_id is required")
	}
	if r.Plan == "" {
		return fmt.Errorf("plan is required")
	}
	if r.AmountCents <= 0 {
		return fmt.Errorf("amount must be greater than 0")
	}
	return nil
}

// CheckoutResponse carries the provider session the client should be
// redirected to.
type CheckoutResponse struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
	Status      string `json:"status"`
}

const (
	SessionStatusPending = "pending"

	// sessions created offline get this prefix and are re-initiated by a
	// worker
	fallbackSessionPrefix = "local_"

	// CallbackTokenHeader carries the shared secret on provider callbacks.
	CallbackTokenHeader = "X-Callback-Token"
)

type CheckoutJob struct {
	SessionID      string
	SubscriptionID string
	CompanyID      string
	Plan           string
	AmountCents    int64
}

type Worker struct {
	ID         int
	WorkerPool chan chan CheckoutJob
	JobChannel chan CheckoutJob
	Logger     *slog.Logger
}

func NewWorker(id int, workerPool chan chan CheckoutJob, logger *slog.Logger) *Worker {
	return &Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan CheckoutJob),
		Logger:     logger,
	}
}

func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup, processFunc func(CheckoutJob)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			w.WorkerPool <- w.JobChannel

			select {
			case job := <-w.JobChannel:
				w.Logger.Debug("worker processing job", "worker_id", w.ID, "session_id", job.SessionID)
				processFunc(job)
			case <-ctx.Done():
				w.Logger.Debug("worker shutting down", "worker_id", w.ID)
				return
			}
		}
	}()
}

// Client is the async billing provider client: checkout sessions are
// initiated inline when possible and re-initiated by a bounded worker pool
// when the provider is unreachable.
type Client struct {
	apiURL         string
	apiKey         string
	callbackURL    string
	callbackSecret string
	requestTimeout time.Duration
	logger         *slog.Logger

	jobQueue   chan CheckoutJob
	workerPool chan chan CheckoutJob
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

type Config struct {
	APIURL         string
	APIKey         string
	CallbackURL    string
	CallbackSecret string
	RequestTimeout time.Duration
	MaxWorkers     int
	JobQueueSize   int
	WorkerPoolSize int
}

func NewClient(config Config, logger *slog.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 5
	}

	jobQueueSize := config.JobQueueSize
	if jobQueueSize <= 0 {
		jobQueueSize = 100
	}

	workerPoolSize := config.WorkerPoolSize
	if workerPoolSize <= 0 {
		workerPoolSize = maxWorkers
	}

	client := &Client{
		apiURL:         config.APIURL,
		apiKey:         config.APIKey,
		callbackURL:    config.CallbackURL,
		callbackSecret: config.CallbackSecret,
		requestTimeout: config.RequestTimeout,
		logger:         logger,

		maxWorkers: maxWorkers,
		jobQueue:   make(chan CheckoutJob, jobQueueSize),
		workerPool: make(chan chan CheckoutJob, workerPoolSize),
		ctx:        ctx,
		cancel:     cancel,
	}

	client.startWorkerPool()

	return client
}

func (c *Client) startWorkerPool() {
	c.once.Do(func() {
		for i := 0; i < c.maxWorkers; i++ {
			worker := NewWorker(i, c.workerPool, c.logger)
			worker.Start(c.ctx, &c.wg, c.processCheckoutJob)
		}

		go c.dispatch()

		c.logger.Info("billing gateway worker pool started",
			"max_workers", c.maxWorkers,
			"queue_size", cap(c.jobQueue))
	})
}

func (c *Client) dispatch() {
	c.wg.Add(1)
	defer c.wg.Done()

	for {
		select {
		case job := <-c.jobQueue:
			select {
			case jobChannel := <-c.workerPool:
				select {
				case jobChannel <- job:
				case <-c.ctx.Done():
					c.logger.Info("dispatcher shutting down")
					return
				}
			case <-c.ctx.Done():
				c.logger.Info("dispatcher shutting down")
				return
			}
		case <-c.ctx.Done():
			c.logger.Info("dispatcher shutting down")
			return
		}
	}
}

func (c *Client) Shutdown() {
	c.logger.Info("shutting down billing gateway client")
	c.cancel()
	c.wg.Wait()
	c.logger.Info("billing gateway client shutdown complete")
}

// CreateCheckout opens a checkout session with the provider. If the
// provider is unreachable a local session is returned and a worker retries
// the initiation in the background; the subscription stays pending until
// the provider callback arrives either way.
func (c *Client) CreateCheckout(req *CheckoutRequest) (*CheckoutResponse, error) {
	if err := req.Validate(); err != nil {
		c.logger.Error("checkout request validation failed", "error", err)
		return nil, fmt.Errorf("validation error: %w", err)
	}

	c.logger.Info("initiating checkout session",
		"subscription_id", req.SubscriptionID,
		"company_id", req.CompanyID,
		"plan", req.Plan)

	sessionID, checkoutURL, err := c.initiateCheckout(req)
	if err != nil {
		c.logger.Warn("checkout initiation failed, will retry in background worker",
			"subscription_id", req.SubscriptionID,
			"error", err)

		sessionID = fallbackSessionPrefix + req.SubscriptionID
		checkoutURL = ""
	}

	job := CheckoutJob{
		SessionID:      sessionID,
		SubscriptionID: req.SubscriptionID,
		CompanyID:      req.CompanyID,
		Plan:           req.Plan,
		AmountCents:    req.AmountCents,
	}

	select {
	case c.jobQueue <- job:
		c.logger.Info("checkout job queued",
			"subscription_id", req.SubscriptionID,
			"session_id", sessionID,
			"queue_length", len(c.jobQueue))
	default:
		c.logger.Warn("job queue full, rejecting checkout",
			"subscription_id", req.SubscriptionID,
			"queue_capacity", cap(c.jobQueue))
		return nil, fmt.Errorf("checkout queue full, please try again later")
	}

	return &CheckoutResponse{
		SessionID:   sessionID,
		CheckoutURL: checkoutURL,
		Status:      SessionStatusPending,
	}, nil
}

// VerifyCallback checks the shared-secret header on a provider callback.
func (c *Client) VerifyCallback(r *http.Request) bool {
	token := r.Header.Get(CallbackTokenHeader)
	if token == "" || c.callbackSecret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(c.callbackSecret)) == 1
}

func (c *Client) initiateCheckout(req *CheckoutRequest) (sessionID, checkoutURL string, err error) {
	payload := map[string]interface{}{
		"reference_id": req.SubscriptionID,
		"plan":         req.Plan,
		"amount":       req.AmountCents,
		"currency":     "USD",
		"callback_url": c.callbackURL,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal checkout request: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.requestTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/checkout/sessions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", "", fmt.Errorf("failed to create HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	client := &http.Client{Timeout: c.requestTimeout}
	resp, err := client.Do(httpReq)
	if err != nil {
		return "", "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", "", fmt.Errorf("billing provider returned status %d", resp.StatusCode)
	}

	var apiResponse struct {
		Data struct {
			ID          string `json:"id"`
			CheckoutURL string `json:"checkout_url"`
			Status      string `json:"status"`
		} `json:"data"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return "", "", fmt.Errorf("failed to decode response: %w", err)
	}

	c.logger.Info("checkout session created",
		"session_id", apiResponse.Data.ID,
		"reference_id", req.SubscriptionID,
		"status", apiResponse.Data.Status)

	return apiResponse.Data.ID, apiResponse.Data.CheckoutURL, nil
}

func (c *Client) processCheckoutJob(job CheckoutJob) {
	if !strings.HasPrefix(job.SessionID, fallbackSessionPrefix) {
		c.logger.Debug("checkout session already initiated", "session_id", job.SessionID)
		return
	}

	c.logger.Info("retrying checkout initiation", "subscription_id", job.SubscriptionID)

	req := &CheckoutRequest{
		SubscriptionID: job.SubscriptionID,
		CompanyID:      job.CompanyID,
		Plan:           job.Plan,
		AmountCents:    job.AmountCents,
	}

	sessionID, _, err := c.initiateCheckout(req)
	if err != nil {
		c.logger.Error("checkout initiation retry failed",
			"subscription_id", job.SubscriptionID,
			"error", err)
		return
	}

	c.logger.Info("checkout initiation retry successful",
		"subscription_id", job.SubscriptionID,
		"session_id", sessionID)
}
