// Package notify consumes order-placed events and emits the customer
// notification for each one.
package notify

import (
	"context"
	"encoding/json"
	"errors"

	amqp091 "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"storefront-system/internal/connections/rabbitmq"
	"storefront-system/internal/logger"
	"storefront-system/internal/orders/domain/dao"
)

var (
	ErrRequeue = errors.New("requeue")     // nack(requeue=true)
	ErrDLQ     = errors.New("dead_letter") // nack(requeue=false)
)

type Worker struct {
	rmq      *rabbitmq.Client
	log      *logger.Logger
	Prefetch int
}

func NewWorker(rmq *rabbitmq.Client, log *logger.Logger, prefetch int) *Worker {
	if prefetch <= 0 {
		prefetch = 1
	}
	return &Worker{rmq: rmq, log: log, Prefetch: prefetch}
}

// Run consumes the notification queue until ctx is canceled, draining
// in-flight deliveries before returning.
func (w *Worker) Run(ctx context.Context) error {
	ch := w.rmq.Channel()

	closeCh := ch.NotifyClose(make(chan *amqp091.Error, 1))
	go func() {
		if e := <-closeCh; e != nil {
			w.log.Error("amqp channel closed", zap.Int("code", e.Code), zap.String("reason", e.Reason))
		}
	}()

	if err := ch.Qos(w.Prefetch, 0, false); err != nil {
		return err
	}

	const consumerTag = "order-notifier"
	msgs, err := ch.Consume(rabbitmq.NotificationQueue, consumerTag, false, false, false, false, nil)
	if err != nil {
		return err
	}

	w.log.Info("consuming order events",
		zap.String("queue", rabbitmq.NotificationQueue), zap.Int("prefetch", w.Prefetch))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for d := range msgs {
			err := w.processOne(d)
			switch {
			case err == nil:
				_ = d.Ack(false)
			case errors.Is(err, ErrRequeue):
				_ = d.Nack(false, true)
			case errors.Is(err, ErrDLQ):
				_ = d.Nack(false, false)
			default:
				_ = d.Nack(false, true)
			}
		}
	}()

	<-ctx.Done()
	w.log.Info("graceful shutdown")
	_ = ch.Cancel(consumerTag, false)
	<-done
	return nil
}

func (w *Worker) processOne(d amqp091.Delivery) error {
	var msg dao.OrderPlacedMessage
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		return ErrDLQ
	}
	if msg.OrderNumber == "" {
		return ErrDLQ
	}

	// Delivery of the actual SMS/email is out of scope; the event and
	// its payload are logged in its place.
	w.log.Info("order notification",
		zap.String("order_number", msg.OrderNumber),
		zap.String("vertical", string(msg.Vertical)),
		zap.String("customer", msg.CustomerName),
		zap.String("phone", msg.Phone),
		zap.String("payment_method", msg.PaymentMethod),
		zap.String("grand_total", msg.GrandTotal.String()),
	)
	return nil
}
