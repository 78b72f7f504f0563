package device

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/xid"

	"pet_feeder/internal/logger"
	"pet_feeder/internal/models"
	"pet_feeder/internal/mqtt"
	"pet_feeder/internal/repository"
)

// Broker is the slice of *mqtt.Client the channel needs.
type Broker interface {
	PublishJSON(topic string, v any) error
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
}

// Device command types on the wire.
const (
	wireSetAngle = "SET_ANGLE"
	wireTare     = "TARE"
)

type wireCommand struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Angle     float64 `json:"angle"`
	Timestamp int64   `json:"timestamp"` // epoch ms
}

type wireWeight struct {
	Weight float64 `json:"weight"`
}

// MQTTChannel drives a feeder over MQTT and feeds its status, heartbeat and
// weight reports into the StatusFeed and the device repository.
type MQTTChannel struct {
	broker   Broker
	deviceID string
	qos      byte
	topics   mqtt.Topics
	feed     *StatusFeed
	devices  repository.DeviceRepo
	log      *logger.Logger

	// writeTimeout bounds repository writes made from broker callbacks.
	writeTimeout time.Duration
}

func NewMQTTChannel(broker Broker, deviceID string, qos byte, devices repository.DeviceRepo, log *logger.Logger) *MQTTChannel {
	return &MQTTChannel{
		broker:       broker,
		deviceID:     deviceID,
		qos:          qos,
		feed:         NewStatusFeed(),
		devices:      devices,
		log:          log.With("device_id", deviceID),
		writeTimeout: 5 * time.Second,
	}
}

var _ Channel = (*MQTTChannel)(nil)

// Feed exposes the servo status feed.
func (c *MQTTChannel) Feed() *StatusFeed { return c.feed }

// Start subscribes to the device's report topics.
func (c *MQTTChannel) Start() error {
	subs := []struct {
		topic   string
		handler mqtt.MessageHandler
	}{
		{c.topics.Status(c.deviceID), c.handleStatus},
		{c.topics.Heartbeat(c.deviceID), c.handleHeartbeat},
		{c.topics.Weight(c.deviceID), c.handleWeight},
	}
	for _, s := range subs {
		if err := c.broker.Subscribe(s.topic, c.qos, s.handler); err != nil {
			return fmt.Errorf("subscribe %s: %w", s.topic, err)
		}
	}
	return nil
}

func (c *MQTTChannel) SetAngle(ctx context.Context, angle float64) error {
	if err := validAngle(angle); err != nil {
		return err
	}
	c.feed.markMoving(angle)
	return c.send(ctx, wireSetAngle, angle)
}

func (c *MQTTChannel) Tare(ctx context.Context) error {
	return c.send(ctx, wireTare, 0)
}

func (c *MQTTChannel) AwaitIdle(ctx context.Context) error {
	return c.feed.WaitIdle(ctx)
}

func (c *MQTTChannel) SyncSchedule(ctx context.Context, s models.ScheduleSync) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.Timestamp == 0 {
		s.Timestamp = time.Now().UnixMilli()
	}
	return c.broker.PublishJSON(c.topics.Schedule(c.deviceID), s)
}

func (c *MQTTChannel) send(ctx context.Context, kind string, angle float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cmd := wireCommand{
		ID:        xid.New().String(),
		Type:      kind,
		Angle:     angle,
		Timestamp: time.Now().UnixMilli(),
	}
	if err := c.broker.PublishJSON(c.topics.Command(c.deviceID), cmd); err != nil {
		return err
	}
	c.log.Debugw("device_command_sent", "command_id", cmd.ID, "type", kind, "angle", angle)
	return nil
}

func (c *MQTTChannel) handleStatus(_ string, payload []byte) error {
	var s models.ServoStatus
	if err := json.Unmarshal(payload, &s); err != nil {
		return fmt.Errorf("decode status: %w", err)
	}
	switch s.Status {
	case models.ServoIdle, models.ServoMoving:
	default:
		return fmt.Errorf("unknown servo status %q", s.Status)
	}
	c.feed.Publish(s)
	return nil
}

func (c *MQTTChannel) handleHeartbeat(_ string, payload []byte) error {
	var hb models.ConnectivityStatus
	if err := json.Unmarshal(payload, &hb); err != nil {
		return fmt.Errorf("decode heartbeat: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.writeTimeout)
	defer cancel()
	return c.devices.SaveConnectivity(ctx, c.deviceID, hb)
}

func (c *MQTTChannel) handleWeight(_ string, payload []byte) error {
	var w wireWeight
	if err := json.Unmarshal(payload, &w); err != nil {
		return fmt.Errorf("decode weight: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.writeTimeout)
	defer cancel()
	return c.devices.SaveWeight(ctx, c.deviceID, w.Weight)
}
