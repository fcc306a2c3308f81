package events

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"rentaride-backend/internal/logger"
)

// DirectoryEvent is emitted by the vehicle directory when a vehicle leaves
// service. The booking engine must force-cancel affected bookings.
type DirectoryEvent struct {
	Type      string `json:"type"` // "vehicle.unavailable" | "vehicle.deleted"
	VehicleID int32  `json:"vehicle_id"`
	Reason    string `json:"reason,omitempty"`
}

// VehicleReactor is the slice of the booking engine the consumer drives.
type VehicleReactor interface {
	CancelBookingsForVehicle(ctx context.Context, vehicleID int32, reason string) error
}

type Consumer struct {
	reader  *kafka.Reader
	reactor VehicleReactor
}

func NewConsumer(brokers, topic, groupID string, reactor VehicleReactor) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:     []string{brokers},
			GroupID:     groupID,
			Topic:       topic,
			StartOffset: kafka.LastOffset,
			MinBytes:    1,
			MaxBytes:    10e6,
		}),
		reactor: reactor,
	}
}

// Run consumes directory events until ctx is cancelled. One malformed or
// failing event never stops the loop.
func (c *Consumer) Run(ctx context.Context) {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("Failed to read directory event", "error", err)
			continue
		}

		var event DirectoryEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Error("Failed to decode directory event", "error", err)
			continue
		}

		switch event.Type {
		case "vehicle.unavailable", "vehicle.deleted":
			if err := c.reactor.CancelBookingsForVehicle(ctx, event.VehicleID, event.Reason); err != nil {
				logger.Error("Failed to cancel bookings for vehicle",
					"vehicle_id", event.VehicleID, "error", err)
			}
		default:
			logger.Debug("Ignoring directory event", "type", event.Type)
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
