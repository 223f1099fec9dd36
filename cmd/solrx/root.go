package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/clinia/solrx/configx"
	"github.com/clinia/solrx/errorx"
	"github.com/clinia/solrx/logrusx"
	"github.com/clinia/solrx/otelx"
	"github.com/clinia/solrx/solrx"
)

const serviceName = "solrx"

// Exit codes returned by the CLI.
const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
	// ExitCodeInvalidArgument indicates invalid arguments, flags or configuration.
	ExitCodeInvalidArgument = 2
	// ExitCodeNotFound indicates the collection or alias does not exist.
	ExitCodeNotFound = 3
	// ExitCodeUnavailable indicates the cluster could not be reached or is not ready.
	ExitCodeUnavailable = 4
)

// app holds what the commands share once the configuration is loaded.
type app struct {
	configFiles []string
	configFlags *pflag.FlagSet

	cfg       *solrx.Config
	l         *logrusx.Logger
	tracer    *otelx.Tracer
	transport *solrx.HTTPTransport
	manager   solrx.CollectionManager
}

func (a *app) setup(ctx context.Context) error {
	cfg, err := solrx.LoadConfig(ctx, configx.WithConfigFiles(a.configFiles...), configx.WithFlags(a.configFlags))
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.l = cfg.NewLogger(serviceName, version)

	if cfg.Tracing.Stdout.Writer == nil {
		cfg.Tracing.Stdout.Writer = os.Stderr
	}
	a.tracer, err = otelx.New(a.l, &cfg.Tracing)
	if err != nil {
		return err
	}

	a.transport, err = cfg.NewTransport(a.l, solrx.WithPropagator(a.tracer.TextMapPropagator()))
	if err != nil {
		return err
	}

	a.manager, err = solrx.NewCollectionManager(a.transport,
		solrx.WithLogger(a.l),
		solrx.WithTracerProvider(a.tracer.Provider()),
	)
	return err
}

func (a *app) teardown(ctx context.Context) error {
	if a.transport != nil {
		a.transport.Close()
	}
	if a.tracer != nil {
		return a.tracer.Shutdown(ctx)
	}
	return nil
}

func newRootCmd() *cobra.Command {
	a := &app{configFlags: pflag.NewFlagSet(serviceName, pflag.ContinueOnError)}
	solrx.RegisterFlags(a.configFlags)

	cmd := &cobra.Command{
		Use:   "solrx",
		Short: "Manage SolrCloud collections and aliases",
		Long: `solrx creates, inspects and deletes SolrCloud collections and points aliases at them
through the Collections API.

Configuration is read from the files given with --config, from SOLRX_ prefixed
environment variables (SOLRX_ENDPOINT_HOST, SOLRX_AUTH_PASSWORD, ...) and from flags.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.teardown(cmd.Context())
		},
	}
	cmd.SetVersionTemplate(`{{printf "solrx version %s\n" .Version}}`)

	cmd.PersistentFlags().StringSliceVarP(&a.configFiles, "config", "c", nil, "Configuration files (.yaml, .yml, .json or .toml), later files win")
	cmd.PersistentFlags().AddFlagSet(a.configFlags)

	cmd.AddCommand(
		newStatusCmd(a),
		newCollectionsCmd(a),
		newCreateCmd(a),
		newDeleteCmd(a),
		newEnsureCmd(a),
		newAliasCmd(a),
		newDeleteAliasCmd(a),
		newAliasesCmd(a),
		newPingCmd(a),
	)

	return cmd
}

func execute(args []string) int {
	return executeWith(context.Background(), args, os.Stdout, os.Stderr)
}

func executeWith(ctx context.Context, args []string, out, errOut io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(errOut, "Error: %s\n", errorMessage(err))
		return exitCode(err)
	}
	return ExitCodeSuccess
}

func errorMessage(err error) string {
	if re, ok := solrx.IsRemoteError(err); ok {
		return re.Error()
	}
	if cErr, ok := errorx.IsCliniaError(err); ok {
		msg := cErr.Message
		for _, d := range cErr.DetailMessages() {
			msg += "\n  - " + d
		}
		return msg
	}
	return err.Error()
}

func exitCode(err error) int {
	switch {
	case errorx.IsInvalidArgumentError(err):
		return ExitCodeInvalidArgument
	case errorx.IsNotFoundError(err):
		return ExitCodeNotFound
	case errorx.IsUnavailableError(err):
		return ExitCodeUnavailable
	case isTransportError(err):
		return ExitCodeUnavailable
	default:
		return ExitCodeError
	}
}

func isTransportError(err error) bool {
	_, ok := solrx.IsTransportError(err)
	return ok
}

// requireConfirmation refuses destructive commands unless --yes is given.
func requireConfirmation(yes bool, what string) error {
	if !yes {
		return errorx.FailedPreconditionErrorf("refusing to %s without --yes", what)
	}
	return nil
}
