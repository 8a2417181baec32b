package main

import (
	"crypto/tls"
	"flag"
	"os"

	amqp091 "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/ericogr/amqp-json/internal/config"
	"github.com/ericogr/amqp-json/internal/logging"
	"github.com/ericogr/amqp-json/pkg/amqpjson"
	"github.com/ericogr/amqp-json/pkg/document"
)

// consume logs every delivery on a queue with its headers rendered as JSON.
func main() {
	configPath := flag.String("config", "", "TOML config file")
	addr := flag.String("addr", "", "AMQP URL (overrides config)")
	queue := flag.String("queue", "", "queue name (overrides config)")
	autoAck := flag.Bool("auto-ack", false, "auto ack messages")
	flag.Parse()

	bootLogger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	cfg, err := config.Load(*configPath)
	if err != nil {
		bootLogger.Fatal().Err(err).Msg("config")
	}
	if *addr != "" {
		cfg.AMQP.URL = *addr
	}
	if *queue != "" {
		cfg.AMQP.Queue = *queue
	}
	if err := config.Validate(cfg); err != nil {
		bootLogger.Fatal().Err(err).Msg("config")
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogConsole)
	if err != nil {
		bootLogger.Fatal().Err(err).Msg("logger")
	}

	var conn *amqp091.Connection
	if cfg.AMQP.TLS {
		conn, err = amqp091.DialTLS(cfg.AMQP.URL, &tls.Config{InsecureSkipVerify: cfg.AMQP.TLSSkipVerify})
	} else {
		conn, err = amqp091.Dial(cfg.AMQP.URL)
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("dial")
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal().Err(err).Msg("channel")
	}
	defer ch.Close()

	// ensure queue exists
	if _, err := ch.QueueDeclare(cfg.AMQP.Queue, true, false, false, false, nil); err != nil {
		logger.Fatal().Err(err).Msg("queue declare")
	}

	msgs, err := ch.Consume(cfg.AMQP.Queue, "", *autoAck, false, false, false, nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("consume")
	}

	logger.Info().Str("queue", cfg.AMQP.Queue).Bool("autoAck", *autoAck).Msg("consuming from queue")
	for d := range msgs {
		logDelivery(logger, d)
		if !*autoAck {
			if err := d.Ack(false); err != nil {
				logger.Error().Err(err).Msg("ack failed")
			}
		}
	}
}

// logDelivery logs d with its headers as a JSON field, or the reason they
// could not be rendered.
func logDelivery(logger zerolog.Logger, d amqp091.Delivery) {
	ev := logger.Info().Uint64("delivery-tag", d.DeliveryTag).Str("body", string(d.Body))
	if headers, err := amqpjson.HeadersToJSON(d.Headers); err != nil {
		ev = ev.AnErr("headers_err", err)
	} else if b, err := document.Marshal(headers); err != nil {
		ev = ev.AnErr("headers_err", err)
	} else {
		ev = ev.RawJSON("headers", b)
	}
	ev.Msg("received delivery")
}
