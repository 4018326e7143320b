// internal/services/push.go
package services

import (
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"lostfound/internal/models"
)

// PushService forwards persisted notifications to an external webhook
// (a mobile push gateway or similar). It implements Deliverer. When no
// webhook URL is configured the service stays disabled and Deliver is a
// no-op, so local development needs no push backend.
type PushService struct {
	client     *resty.Client
	webhookURL string
	enabled    atomic.Bool
	log        *logrus.Entry
}

func NewPushService(webhookURL string, log *logrus.Entry) *PushService {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	s := &PushService{
		client:     client,
		webhookURL: webhookURL,
		log:        log,
	}
	s.enabled.Store(webhookURL != "")
	return s
}

func (s *PushService) Enabled() bool {
	return s.enabled.Load()
}

// Deliver posts the notification to the webhook. Failures are logged and
// dropped; the stored notification remains the source of truth. A 4xx
// response means the endpoint rejects our payload outright, so the service
// disables itself instead of hammering it with every future notification.
func (s *PushService) Deliver(n models.Notification) {
	if !s.enabled.Load() {
		return
	}

	resp, err := s.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(n).
		Post(s.webhookURL)
	if err != nil {
		s.log.WithError(err).Warn("Push delivery failed")
		return
	}

	if resp.StatusCode() >= 400 && resp.StatusCode() < 500 {
		s.enabled.Store(false)
		s.log.WithField("status", resp.StatusCode()).
			Error("Push webhook rejected payload, disabling push delivery")
		return
	}
	if resp.IsError() {
		s.log.WithField("status", resp.StatusCode()).Warn("Push delivery failed")
	}
}
