package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/varshithab05/CoviScope/config"
	"github.com/varshithab05/CoviScope/internal/sarsvar"
	"github.com/varshithab05/CoviScope/internal/server"
)

// serveCmd is for running the classifier as an HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the classifier over HTTP",
	Long: `Serve the classifier over HTTP

  GET  /                                   health check
  POST /api/sars-variants/predictSarsSequence  {"sequence": "..."}
  POST /api/sars-variants/predictSarsFile      multipart FASTA upload ("file")

The weights and reference are loaded once, before listening. The server
shuts down gracefully on SIGINT or SIGTERM.`,
	RunE:                       serve,
	SuggestionsMinimumDistance: 2,
}

func serve(cmd *cobra.Command, args []string) error {
	conf, err := config.New()
	if err != nil {
		return err
	}

	analyzer, err := sarsvar.Load(conf)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(analyzer, conf, nil).Serve(ctx, fmt.Sprintf(":%d", conf.Port))
}

// set flags
func init() {
	serveCmd.Flags().IntP("port", "p", 8000, "port to listen on")
	viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))

	RootCmd.AddCommand(serveCmd)
}
