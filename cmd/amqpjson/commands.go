package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ericogr/amqp-json/internal/config"
	"github.com/ericogr/amqp-json/internal/logging"
	"github.com/ericogr/amqp-json/pkg/amqp"
	"github.com/ericogr/amqp-json/pkg/amqpjson"
	"github.com/ericogr/amqp-json/pkg/document"
)

type globalOptions struct {
	configPath string
	logLevel   string
	logConsole bool
	pretty     bool
}

func (o *globalOptions) bind(fs *pflag.FlagSet) {
	fs.StringVar(&o.configPath, "config", "", "TOML config file")
	fs.StringVar(&o.logLevel, "log-level", "", "log level (overrides config)")
	fs.BoolVar(&o.logConsole, "log-console", false, "human-readable logs")
	fs.BoolVar(&o.pretty, "pretty", false, "indent JSON output")
}

// load merges the config file with the flags that were set explicitly.
func (o *globalOptions) load(fs *pflag.FlagSet) (config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, zerolog.Nop(), err
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if fs.Changed("log-console") {
		cfg.LogConsole = o.logConsole
	}
	if fs.Changed("pretty") {
		cfg.Pretty = o.pretty
	}
	if err := config.Validate(cfg); err != nil {
		return config.Config{}, zerolog.Nop(), err
	}
	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogConsole)
	if err != nil {
		return config.Config{}, zerolog.Nop(), err
	}
	amqp.SetLogger(logger)
	return cfg, logger, nil
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:           "amqpjson",
		Short:         "Convert AMQP message headers to and from JSON",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	opts.bind(root.PersistentFlags())
	root.AddCommand(newEncodeCommand(opts), newDecodeCommand(opts))
	return root
}

func newEncodeCommand(opts *globalOptions) *cobra.Command {
	var channel uint16
	var bodySize uint64
	cmd := &cobra.Command{
		Use:   "encode [file]",
		Short: "Read a JSON object and write a content header frame carrying it as headers",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load(cmd.Flags())
			if err != nil {
				return err
			}
			in, closeIn, err := openInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			defer closeIn()
			return encode(in, cmd.OutOrStdout(), cfg, logger, channel, bodySize)
		},
	}
	cmd.Flags().Uint16Var(&channel, "channel", 1, "frame channel")
	cmd.Flags().Uint64Var(&bodySize, "body-size", 0, "body size announced by the header")
	return cmd
}

func newDecodeCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "decode [file]",
		Short: "Read a content header frame and print its headers as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load(cmd.Flags())
			if err != nil {
				return err
			}
			in, closeIn, err := openInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			defer closeIn()
			return decode(in, cmd.OutOrStdout(), cfg, logger)
		},
	}
}

func encode(in io.Reader, out io.Writer, cfg config.Config, logger zerolog.Logger, channel uint16, bodySize uint64) error {
	doc, err := document.Decode(in)
	if err != nil {
		return fmt.Errorf("read JSON: %w", err)
	}
	headers, err := amqpjson.JSONToTable(doc)
	if err != nil {
		return fmt.Errorf("convert headers: %w", err)
	}
	h := amqp.ContentHeader{
		ClassID:  amqp.ClassBasic,
		BodySize: bodySize,
		Properties: amqp.BasicProperties{
			ContentType: cfg.AMQP.ContentType,
			Headers:     headers,
		},
	}
	if err := amqp.WriteContentHeader(out, channel, h); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	logger.Debug().Uint16("chan", channel).Int("headers", headers.Len()).Msg("content header written")
	return nil
}

func decode(in io.Reader, out io.Writer, cfg config.Config, logger zerolog.Logger) error {
	channel, h, err := amqp.ReadContentHeader(in)
	if err != nil {
		return fmt.Errorf("read frame: %w", err)
	}
	obj, err := amqpjson.TableToJSON(h.Properties.Headers)
	if err != nil {
		return fmt.Errorf("convert headers: %w", err)
	}
	var b []byte
	if cfg.Pretty {
		b, err = document.MarshalIndent(obj, "", "  ")
	} else {
		b, err = document.Marshal(obj)
	}
	if err != nil {
		return err
	}
	logger.Debug().Uint16("chan", channel).Uint16("class", h.ClassID).Uint64("body_size", h.BodySize).Msg("content header read")
	_, err = fmt.Fprintf(out, "%s\n", b)
	return err
}

// openInput returns stdin when no file (or "-") is named.
func openInput(stdin io.Reader, args []string) (io.Reader, func(), error) {
	if len(args) == 0 || args[0] == "-" {
		return stdin, func() {}, nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
