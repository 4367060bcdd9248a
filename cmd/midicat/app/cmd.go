package app

import (
	"context"
	"fmt"

	"github.com/leandrodaf/midicodec/internal/logger"
	"github.com/leandrodaf/midicodec/sdk/contracts"
	"github.com/leandrodaf/midicodec/sdk/message"
	"github.com/urfave/cli/v2"
)

// state is shared by the subcommands once Before has run.
type state struct {
	cfg    Config
	logger contracts.Logger
}

func Instance() *cli.App {
	st := &state{}
	loglevel := "info"
	configPath := defaultConfigPath
	return &cli.App{
		Name:  "midicat",
		Usage: "Decode and encode MIDI messages",
		Commands: []*cli.Command{
			decodeCmd(st),
			encodeCmd(st),
			statusesCmd(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "Verbosity of log, valid values are: debug, info, warn, error",
				EnvVars:     []string{"MIDICAT_LOG_LEVEL"},
				Destination: &loglevel,
				Value:       loglevel,
			},
			&cli.StringFlag{
				Name:        "config",
				Usage:       "TOML file with defaults for the subcommands",
				EnvVars:     []string{"MIDICAT_CONFIG"},
				Destination: &configPath,
				Value:       configPath,
			},
		},
		Before: func(ctx *cli.Context) error {
			cfg, err := loadConfig(configPath, ctx.IsSet("config"))
			if err != nil {
				return err
			}
			if ctx.IsSet("log-level") {
				cfg.LogLevel = loglevel
			}
			level, err := contracts.ParseLogLevel(cfg.LogLevel)
			if err != nil {
				return err
			}

			l := logger.NewDevelopmentLogger()
			l.SetLevel(level)
			if cfg.LogFile != "" {
				l.SetDestination(contracts.FileLog, cfg.LogFile)
			}
			st.cfg = cfg
			st.logger = l
			return nil
		},
	}
}

func Run(ctx context.Context, args []string) error {
	app := Instance()
	return app.RunContext(ctx, args)
}

func statusesCmd() *cli.Command {
	return &cli.Command{
		Name:  "statuses",
		Usage: "Lists the status bytes midicat understands",
		Action: func(ctx *cli.Context) error {
			for _, s := range message.Statuses() {
				fmt.Fprintf(ctx.App.Writer, "0x%02X\t%s\t%s\n", uint8(s), s, s.DataBytes())
			}
			return nil
		},
	}
}
