package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/hugr-lab/groonga-go"
	"github.com/hugr-lab/groonga-go/codec"
	"github.com/hugr-lab/groonga-go/transport"
)

// app holds the global flags shared by every subcommand.
type app struct {
	configPath string
	address    string
	protocol   string
	outputType string
	timeout    time.Duration
	token      string
	verbose    bool

	// transport replaces the network transport when set.
	transport transport.Transport
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "grnq",
		Short: "Query a Groonga server",
		Long: `grnq sends commands to a Groonga server over GQTP or HTTP.
It can run raw commands, build select queries from flags, and create
tables declared in a TOML schema file.`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", defaultConfigPath(), "configuration file")
	pf.StringVar(&a.address, "address", "", "server address (host:port for gqtp, URL for http)")
	pf.StringVar(&a.protocol, "protocol", "", "protocol: gqtp or http")
	pf.StringVar(&a.outputType, "output-type", "", "output type: json, msgpack or apache-arrow")
	pf.DurationVar(&a.timeout, "timeout", 0, "per command timeout")
	pf.StringVar(&a.token, "token", "", "bearer token for http")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "log every command")

	root.AddCommand(
		newExecCmd(a),
		newSelectCmd(a),
		newSchemaCmd(a),
		newStatusCmd(a),
	)
	return root
}

// config merges the configuration file with the flags set on cmd.
func (a *app) config(cmd *cobra.Command) (groonga.Config, error) {
	flags := cmd.Flags()
	fc, err := loadFileConfig(a.configPath, flags.Changed("config"))
	if err != nil {
		return groonga.Config{}, err
	}
	if flags.Changed("address") {
		fc.Address = a.address
	}
	if flags.Changed("protocol") {
		fc.Protocol = a.protocol
	}
	if flags.Changed("output-type") {
		fc.OutputType = a.outputType
	}
	if flags.Changed("token") {
		fc.Token = a.token
	}

	timeout, err := fc.timeout()
	if err != nil {
		return groonga.Config{}, err
	}
	if flags.Changed("timeout") {
		timeout = a.timeout
	}

	outputType, err := codec.ParseOutputType(fc.OutputType)
	if err != nil {
		return groonga.Config{}, err
	}

	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}

	cfg := groonga.Config{
		Address:    fc.Address,
		Protocol:   transport.Protocol(fc.Protocol),
		Transport:  a.transport,
		OutputType: outputType,
		Timeout:    timeout,
		RateLimit:  fc.RateLimit,
		Logger:     slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})),
	}
	if fc.Token != "" {
		cfg.Credentials = groonga.BearerAuth(fc.Token)
	}
	return cfg, nil
}

// connect returns a connected client. The caller closes it.
func (a *app) connect(cmd *cobra.Command) (*groonga.Client, error) {
	cfg, err := a.config(cmd)
	if err != nil {
		return nil, err
	}
	return groonga.Connect(cmd.Context(), cfg)
}

func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
