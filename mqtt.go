package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

var errMissingFields = errors.New("missing to/message")

// MQTTIntake subscribes to a topic and sends every {to,message} payload
// published there.
type MQTTIntake struct {
	Logger *slog.Logger
	Sender SMSSender
	Config MQTTConfig

	client mqtt.Client
}

// handlePayload decodes one publication and sends it. ctx bounds the send.
func (m *MQTTIntake) handlePayload(ctx context.Context, payload []byte) error {
	var req SMSRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("bad payload: %w", err)
	}
	if req.To == "" || req.Message == "" {
		return errMissingFields
	}
	parts, err := deliver(ctx, m.Sender, req)
	if err != nil {
		return err
	}
	m.Logger.Info("SMS sent successfully", "to", req.To, "message_length", len(req.Message), "parts", parts)
	return nil
}

// Start connects to the broker and subscribes on every (re)connect. The
// client is disconnected when ctx is done.
func (m *MQTTIntake) Start(ctx context.Context) error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(m.Config.Broker)
	opts.SetClientID(m.Config.ClientID)
	if m.Config.Username != "" {
		opts.SetUsername(m.Config.Username)
		opts.SetPassword(m.Config.Password)
	}
	// Sends block on the modem; handlers must not hold up the client.
	opts.SetOrderMatters(false)
	opts.SetAutoReconnect(true)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		m.Logger.Warn("MQTT connection lost", "error", err)
	})
	opts.SetOnConnectHandler(func(c mqtt.Client) {
		m.Logger.Info("MQTT connected", "topic", m.Config.Topic)
		token := c.Subscribe(m.Config.Topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
			if err := m.handlePayload(ctx, msg.Payload()); err != nil {
				m.Logger.Error("Failed to send SMS from MQTT", "error", err, "topic", msg.Topic())
			}
		})
		if token.Wait() && token.Error() != nil {
			m.Logger.Error("MQTT subscribe failed", "error", token.Error(), "topic", m.Config.Topic)
		}
	})

	m.client = mqtt.NewClient(opts)
	token := m.client.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connect %s: %w", m.Config.Broker, err)
	}

	go func() {
		<-ctx.Done()
		m.client.Disconnect(500)
	}()
	return nil
}
