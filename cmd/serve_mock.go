package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/stegshare-cli/internal/adapters/mockserver"
	"github.com/kamal-hamza/stegshare-cli/pkg/ui"
)

var (
	mockPort      int
	mockThreshold int
	mockTokenTTL  time.Duration
)

var serveMockCmd = &cobra.Command{
	Use:   "serve-mock",
	Short: "Run an in-memory server for local testing",
	Long: `Run a local server that speaks the same API as the real service.

Accounts, posts and comments live in memory and are lost on exit. Images
containing the marker "STEG:" are reported as carrying hidden data; captions
and comments are scored with a small word list.`,
	RunE: runServeMock,
}

func init() {
	serveMockCmd.Flags().IntVarP(&mockPort, "port", "p", 0, "Port to listen on (default from config)")
	serveMockCmd.Flags().IntVar(&mockThreshold, "threshold", mockserver.DefaultThreshold, "Hash distance below which images count as similar")
	serveMockCmd.Flags().DurationVar(&mockTokenTTL, "token-ttl", 24*time.Hour, "Lifetime of issued tokens")
}

func runServeMock(cmd *cobra.Command, args []string) error {
	port := mockPort
	if port == 0 {
		port = appConfig.MockServerPort
	}

	srv := mockserver.New(mockserver.Options{
		Secret:    appConfig.MockServerSecret,
		Threshold: mockThreshold,
		TokenTTL:  mockTokenTTL,
		Logger:    appLogger,
	})

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)

	errs := make(chan error, 1)
	go func() {
		errs <- srv.Listen(fmt.Sprintf(":%d", port))
	}()

	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Mock server listening on http://localhost:%d", port)))
	fmt.Println(ui.FormatMuted("Press Ctrl+C to stop"))

	select {
	case err := <-errs:
		return err
	case <-sigs:
		fmt.Println()
		fmt.Println(ui.FormatMuted("Shutting down..."))
		return srv.Shutdown()
	}
}
