package main

import (
	"context"
	"crypto/tls"
	"flag"
	"os"
	"time"

	amqp091 "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/ericogr/amqp-json/internal/config"
	"github.com/ericogr/amqp-json/internal/logging"
	"github.com/ericogr/amqp-json/pkg/amqpjson"
	"github.com/ericogr/amqp-json/pkg/document"
)

// publish sends one message whose headers are given as a JSON object.
func main() {
	configPath := flag.String("config", "", "TOML config file")
	addr := flag.String("addr", "", "AMQP URL (overrides config)")
	exchange := flag.String("exchange", "", "exchange name (overrides config)")
	key := flag.String("key", "", "routing key (overrides config)")
	headersJSON := flag.String("headers", "{}", "message headers as a JSON object")
	body := flag.String("body", "hello", "message body")
	flag.Parse()

	bootLogger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	cfg, err := config.Load(*configPath)
	if err != nil {
		bootLogger.Fatal().Err(err).Msg("config")
	}
	if *addr != "" {
		cfg.AMQP.URL = *addr
	}
	if *exchange != "" {
		cfg.AMQP.Exchange = *exchange
	}
	if *key != "" {
		cfg.AMQP.RoutingKey = *key
	}
	if err := config.Validate(cfg); err != nil {
		bootLogger.Fatal().Err(err).Msg("config")
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogConsole)
	if err != nil {
		bootLogger.Fatal().Err(err).Msg("logger")
	}

	doc, err := document.Parse([]byte(*headersJSON))
	if err != nil {
		logger.Fatal().Err(err).Msg("parse headers")
	}
	headers, err := amqpjson.JSONToHeaders(doc)
	if err != nil {
		logger.Fatal().Err(err).Msg("convert headers")
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
	defer func() {
		logger.Info().Msg("closing connection")
		conn.Close()
	}()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal().Err(err).Msg("channel")
	}
	defer ch.Close()

	if err := ch.Confirm(false); err != nil {
		logger.Fatal().Err(err).Msg("channel could not be put into confirm mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	dConfirm, err := ch.PublishWithDeferredConfirmWithContext(ctx,
		cfg.AMQP.Exchange,
		cfg.AMQP.RoutingKey,
		false,
		false,
		amqp091.Publishing{
			ContentType: "text/plain",
			Headers:     headers,
			Body:        []byte(*body),
		},
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("publish")
	}
	if dConfirm == nil {
		logger.Info().Msg("published (no confirm mode)")
		return
	}
	if ok := dConfirm.Wait(); ok {
		logger.Info().Str("exchange", cfg.AMQP.Exchange).Str("key", cfg.AMQP.RoutingKey).Int("headers", len(headers)).Msg("published and confirmed")
	} else {
		logger.Fatal().Msg("publish was not acknowledged or timed out")
	}
}
