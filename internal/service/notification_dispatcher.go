package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"lab-booking-engine/config"
	"lab-booking-engine/internal/domain/entity"
	"lab-booking-engine/internal/domain/repository"
	"lab-booking-engine/internal/infrastructure/metrics"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
)

// NotificationDispatcher delivers pending notifications after the transition
// that produced them has committed. Delivery is best-effort: failures are
// logged and counted, never returned to the caller.
type NotificationDispatcher interface {
	Dispatch(notifications []entity.PendingNotification)
	// Stop drains queued notifications and waits for in-flight deliveries
	Stop()
}

// NotificationMessage is the JSON body published on the notification channel
type NotificationMessage struct {
	Event       entity.NotificationEvent `json:"event"`
	RecipientID uuid.UUID                `json:"recipient_id"`
	BookingID   *uuid.UUID               `json:"booking_id,omitempty"`
	Payload     entity.JSON              `json:"payload,omitempty"`
}

type notificationDispatcher struct {
	uow              repository.UnitOfWork
	redisClient      *redis.Client
	log              *logrus.Logger
	metrics          *metrics.Recorder
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
	channel          string
	sendTimeout      time.Duration

	mu      sync.RWMutex
	stopped bool
	queue   chan entity.PendingNotification
	done    chan struct{}
}

func NewNotificationDispatcher(
	cfg config.NotificationConfig,
	uow repository.UnitOfWork,
	redisClient *redis.Client,
	log *logrus.Logger,
	recorder *metrics.Recorder,
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
) NotificationDispatcher {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	queueSize := cfg.QueueSize
	if queueSize < 1 {
		queueSize = 1
	}
	sendTimeout := cfg.SendTimeout
	if sendTimeout <= 0 {
		sendTimeout = 5 * time.Second
	}

	d := &notificationDispatcher{
		uow:              uow,
		redisClient:      redisClient,
		log:              log,
		metrics:          recorder,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		channel:          cfg.Channel,
		sendTimeout:      sendTimeout,
		queue:            make(chan entity.PendingNotification, queueSize),
		done:             make(chan struct{}),
	}

	go d.run(workers)

	return d
}

// Dispatch enqueues without blocking. A full queue drops the notification.
func (d *notificationDispatcher) Dispatch(notifications []entity.PendingNotification) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, n := range notifications {
		if d.stopped {
			d.log.Warnf("Notification dispatcher stopped, dropping %s", n.Event)
			d.metrics.NotificationFailed(string(n.Event))
			continue
		}
		select {
		case d.queue <- n:
		default:
			d.log.Warnf("Notification queue full, dropping %s", n.Event)
			d.metrics.NotificationFailed(string(n.Event))
		}
	}
}

func (d *notificationDispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.queue)
	d.mu.Unlock()

	<-d.done
	d.log.Info("Notification dispatcher stopped")
}

func (d *notificationDispatcher) run(workers int) {
	defer close(d.done)

	p := pool.New().WithMaxGoroutines(workers)
	for n := range d.queue {
		n := n
		p.Go(func() {
			d.deliver(n)
		})
	}
	p.Wait()
}

func (d *notificationDispatcher) deliver(n entity.PendingNotification) {
	ctx, cancel := context.WithTimeout(context.Background(), d.sendTimeout)
	defer cancel()

	recipients, err := d.recipients(ctx, n)
	if err != nil {
		d.log.Warnf("Failed to resolve recipients for %s: %+v", n.Event, err)
		d.metrics.NotificationFailed(string(n.Event))
		return
	}

	for _, recipientID := range recipients {
		if err := d.send(ctx, recipientID, n); err != nil {
			d.log.WithFields(logrus.Fields{
				"event":        n.Event,
				"recipient_id": recipientID,
			}).Warnf("Failed to deliver notification: %+v", err)
			d.metrics.NotificationFailed(string(n.Event))
			continue
		}
		d.metrics.NotificationSent(string(n.Event))
	}
}

func (d *notificationDispatcher) recipients(ctx context.Context, n entity.PendingNotification) ([]uuid.UUID, error) {
	if n.Audience == entity.AudienceAdmins {
		return d.userRepo.FindAdminIDs(d.uow.Reader(ctx))
	}
	return []uuid.UUID{n.RecipientID}, nil
}

func (d *notificationDispatcher) send(ctx context.Context, recipientID uuid.UUID, n entity.PendingNotification) error {
	record := &entity.Notification{
		RecipientID: recipientID,
		Event:       n.Event,
		BookingID:   n.BookingID,
		Payload:     n.Payload,
	}
	if err := d.notificationRepo.Create(d.uow.Reader(ctx), record); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}

	body, err := json.Marshal(NotificationMessage{
		Event:       n.Event,
		RecipientID: recipientID,
		BookingID:   n.BookingID,
		Payload:     n.Payload,
	})
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	if err := d.redisClient.Publish(ctx, d.channel, string(body)).Err(); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}
