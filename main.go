package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"i4.energy/across/smspdu/modem"
)

func main() {
	configFile := flag.String("config", "", "Path to a YAML configuration file")
	to := flag.String("to", "", "Send one message to this number and exit")
	message := flag.String("message", "", "Text of the one-shot message")
	flag.String("serial-port", "/dev/ttyUSB0", "Serial port to connect to the modem")
	flag.Int("baud-rate", 115200, "Baud rate for serial communication")
	flag.Duration("settle-time", 500*time.Millisecond, "Wait after opening the serial port")
	flag.Duration("step-timeout", 30*time.Second, "Timeout for each modem reply")
	flag.String("bind-address", "0.0.0.0:8080", "Bind address for the HTTP server, empty disables it")
	flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Bool("trace", false, "Log all serial traffic")
	flag.String("mqtt-broker", "", "MQTT broker URL, empty disables MQTT")
	flag.String("mqtt-topic", "sms/send", "MQTT topic to receive messages on")
	flag.Parse()

	config, err := LoadConfig(WithDefaults(), WithFile(*configFile), WithEnv(), WithFlags(flag.CommandLine))
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(config.LogLevel)}))

	dialer := modem.SerialDialer{
		PortName: config.SerialPort,
		BaudRate: config.BaudRate,
		Settle:   config.SettleTime,
	}
	if config.Trace {
		dialer.Trace = slog.NewLogLogger(logger.With("component", "trace").Handler(), slog.LevelDebug)
	}

	modemConfig, err := modem.NewConfigBuilder().
		WithDialer(dialer).
		WithLogger(logger.With("component", "modem")).
		WithStepTimeout(config.StepTimeout).
		Build()
	if err != nil {
		logger.Error("Failed to create modem config", "error", err)
		os.Exit(1)
	}

	sender, err := modem.NewSender(modemConfig)
	if err != nil {
		logger.Error("Failed to create modem sender", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *to != "" || *message != "" {
		parts, err := deliver(ctx, sender, SMSRequest{To: *to, Message: *message})
		if err != nil {
			logger.Error("Failed to send SMS", "error", err, "to", *to)
			os.Exit(1)
		}
		logger.Info("SMS sent successfully", "to", *to, "parts", parts)
		return
	}

	logger.Info("Starting SMS Gateway", "serial_port", config.SerialPort, "http", config.BindAddress != "", "mqtt", config.MQTT.Broker != "")

	var httpServer *http.Server
	if config.BindAddress != "" {
		httpServer = &http.Server{
			Addr: config.BindAddress,
			Handler: &Server{
				Logger: logger.With("component", "server"),
				Sender: sender,
				Token:  config.HTTPToken,
			},
		}

		go func() {
			logger.Info("Starting HTTP server", "address", httpServer.Addr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server failed", "error", err)
				os.Exit(1)
			}
		}()
	}

	if config.MQTT.Broker != "" {
		intake := &MQTTIntake{
			Logger: logger.With("component", "mqtt"),
			Sender: sender,
			Config: config.MQTT,
		}
		if err := intake.Start(ctx); err != nil {
			logger.Error("MQTT intake failed", "error", err)
			os.Exit(1)
		}
	}

	// Wait for interrupt signal
	<-ctx.Done()
	logger.Info("Received shutdown signal")

	if httpServer == nil {
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	logger.Info("Closing HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to gracefully shutdown server", "error", err)
		os.Exit(1)
	}
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
