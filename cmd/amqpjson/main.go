package main

import (
	"os"

	"github.com/rs/zerolog"
)

// amqpjson converts message headers between JSON and AMQP content header
// frames:
//
//	echo '{"x":1,"y":"z"}' | amqpjson encode > header.bin
//	amqpjson decode < header.bin
func main() {
	if err := newRootCommand().Execute(); err != nil {
		logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
		logger.Fatal().Err(err).Msg("amqpjson")
	}
}
