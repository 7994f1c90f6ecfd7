package notifier

//go:generate go run go.uber.org/mock/mockgen -source=./notifier.go -destination=./mocks/notifier_mock.go -package=mocks

import (
	"context"

	"github.com/rs/zerolog/log"

	"tavolo/config"
	"tavolo/infras/kafka"
	"tavolo/infras/otel"
)

const (
	otelScopeName = "notifier"
)

// Event types emitted by the booking domain.
const (
	EventNewBooking       = "NewBooking"
	EventBookingConfirmed = "BookingConfirmed"
	EventBookingCancelled = "BookingCancelled"
)

// Notifier delivers booking events to interested consumers. Emit is
// fire-and-forget: a delivery failure is logged and never rolls back the
// mutation that triggered it.
type Notifier interface {
	Emit(ctx context.Context, eventType string, payload map[string]any)
}

type kafkaNotifier struct {
	client kafka.Client
	cfg    *config.Config
	otel   otel.Otel
}

func New(client kafka.Client, cfg *config.Config, ot otel.Otel) Notifier {
	return &kafkaNotifier{
		client: client,
		cfg:    cfg,
		otel:   ot,
	}
}

// Emit implements Notifier.
func (n *kafkaNotifier) Emit(ctx context.Context, eventType string, payload map[string]any) {
	ctx, scope := n.otel.NewScope(ctx, otelScopeName, otelScopeName+".Emit")
	defer scope.End()

	scope.SetAttribute("event.type", eventType)

	message := kafka.Message{
		Key:   eventType,
		Value: payload,
	}

	if err := n.client.SendMessages(ctx, n.cfg.Kafka.BookingTopic, message); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("event", eventType).Msg("failed to emit notification event")
	}
}
