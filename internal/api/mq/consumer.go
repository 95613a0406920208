package mq

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/condoplex/tickets-service/internal/observability"
	apperrors "github.com/condoplex/tickets-service/pkg/errorutil"
)

// Consumer subscribes to every registered pattern channel and serves
// request/reply traffic. Each message is handled in its own goroutine;
// per-message timeouts bound handler execution.
type Consumer struct {
	client  *redis.Client
	router  *Router
	logger  *zap.Logger
	metrics *observability.Metrics
	timeout time.Duration
}

// NewConsumer constructs a consumer over the given Redis client.
func NewConsumer(client *redis.Client, router *Router, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) *Consumer {
	return &Consumer{
		client:  client,
		router:  router,
		logger:  logger,
		metrics: metrics,
		timeout: timeout,
	}
}

// Run blocks consuming messages until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	patterns := c.router.Patterns()
	sub := c.client.Subscribe(ctx, patterns...)
	defer sub.Close()

	// Fail fast if the subscription could not be established.
	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	c.logger.Info("consuming message patterns", zap.Strings("patterns", patterns))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			go c.handleMessage(ctx, msg)
		}
	}
}

func (c *Consumer) handleMessage(ctx context.Context, msg *redis.Message) {
	var req Request
	if err := json.Unmarshal([]byte(msg.Payload), &req); err != nil {
		c.logger.Warn("malformed request envelope",
			zap.String("pattern", msg.Channel), zap.Error(err))
		c.metrics.RecordError(msg.Channel, "MALFORMED_ENVELOPE")
		return
	}

	handlerCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		handlerCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	data, err := c.router.Dispatch(handlerCtx, msg.Channel, req.Data)
	c.metrics.RecordHandled(msg.Channel, time.Since(start))

	resp := Response{ID: req.ID, Status: 200}
	if err != nil {
		domainErr := apperrors.ToDomainError(err)
		if domainErr.Status >= 500 {
			c.logger.Error("handler failed",
				zap.String("pattern", msg.Channel),
				zap.String("request_id", req.ID),
				zap.Error(domainErr))
		}
		c.metrics.RecordError(msg.Channel, domainErr.Code)
		resp.Status = domainErr.Status
		resp.Error = &ErrorBody{
			Code:    domainErr.Code,
			Message: domainErr.Message,
			Details: domainErr.Details,
		}
	} else {
		resp.Data = data
	}

	if req.ReplyTo == "" {
		return
	}
	payload, err := json.Marshal(resp)
	if err != nil {
		c.logger.Error("marshal reply", zap.String("pattern", msg.Channel), zap.Error(err))
		return
	}
	if err := c.client.Publish(ctx, req.ReplyTo, payload).Err(); err != nil {
		c.logger.Error("publish reply",
			zap.String("pattern", msg.Channel),
			zap.String("reply_to", req.ReplyTo),
			zap.Error(err))
	}
}
