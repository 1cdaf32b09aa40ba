package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/stegshare-cli/internal/adapters/api"
	"github.com/kamal-hamza/stegshare-cli/internal/adapters/preview"
	"github.com/kamal-hamza/stegshare-cli/internal/adapters/repository"
	"github.com/kamal-hamza/stegshare-cli/internal/core/services"
	"github.com/kamal-hamza/stegshare-cli/pkg/config"
	"github.com/kamal-hamza/stegshare-cli/pkg/logger"
	"github.com/kamal-hamza/stegshare-cli/pkg/ui"
	"github.com/kamal-hamza/stegshare-cli/pkg/vault"
)

var (
	// Global vault, config and logger
	appVault  *vault.Vault
	appConfig *config.Config
	appLogger logger.Logger

	// Adapters
	apiClient   *api.Client
	draftRepo   *repository.FileDraftRepository
	thumbnailer *preview.Thumbnailer
	notifier    *cliNotifier
	navigator   *cliNavigator

	// Services
	sessionCtx        *services.SessionContext
	inFlightGuard     *services.InFlightGuard
	authService       *services.AuthService
	duplicateService  *services.DuplicateCheckService
	submissionService *services.SubmissionService
	commentService    *services.CommentService
	feedService       *services.FeedService
	statsService      *services.StatsService
	uploadForm        *services.UploadFormService

	// Global flags
	flagAPIURL  string
	flagVerbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stegshare",
	Short: "stegshare - share images with hidden messages",
	Long: ui.StyleTitle.Render("stegshare") + " - image sharing from the terminal\n\n" +
		"Upload images with an embedded caption, browse the feed and comment on posts.\n" +
		"Uploads are screened for duplicates and comments for negative sentiment.",
	PersistentPreRunE:  initializeApp,
	PersistentPostRunE: finalizeApp,
	SilenceUsage:       true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.FormatError(err.Error()))
		os.Exit(1)
	}
}

func init() {
	rootCmd.SilenceErrors = true

	// Account
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)

	// Browsing
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(postsCmd)
	rootCmd.AddCommand(commentsCmd)
	rootCmd.AddCommand(commentCmd)
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(statsCmd)

	// Uploading
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(stageCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(watchCmd)

	// Maintenance
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(serveMockCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "Server base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "V", false, "Log to stderr as well as the log file")
}

// initializeApp initializes the application components
func initializeApp(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	v, err := vault.New()
	if err != nil {
		return fmt.Errorf("failed to initialize vault: %w", err)
	}
	if err := v.Initialize(); err != nil {
		return err
	}
	appVault = v

	cfg, err := config.Load(appVault.ConfigPath)
	if err != nil {
		return err
	}
	if flagAPIURL != "" {
		cfg.APIBaseURL = flagAPIURL
	}
	if flagVerbose {
		cfg.Verbose = true
	}
	appConfig = cfg
	ui.SetTheme(cfg.ColorTheme)

	logPath := cfg.LogFile
	if logPath == "" {
		logPath = appVault.LogFile()
	}
	appLogger = logger.New(logPath, cfg.Verbose)

	return wireServices(getContext())
}

// wireServices builds adapters and services from appVault, appConfig and appLogger
func wireServices(ctx context.Context) error {
	apiClient = api.NewClient(appConfig.APIBaseURL, time.Duration(appConfig.RequestTimeoutSeconds)*time.Second, appLogger)
	draftRepo = repository.NewFileDraftRepository(appVault)
	thumbnailer = preview.NewThumbnailer(appVault.PreviewPath, appConfig.ThumbnailSize)
	notifier = newCLINotifier(os.Stdout)
	navigator = newCLINavigator(os.Stdout)

	var err error
	sessionCtx, err = services.NewSessionContext(ctx, repository.NewFileSessionRepository(appVault), navigator, appLogger)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	inFlightGuard = services.NewInFlightGuard(appConfig.InFlightGuard, time.Duration(appConfig.InFlightTTLSeconds)*time.Second)

	authService = services.NewAuthService(apiClient, sessionCtx, appLogger)
	duplicateService = services.NewDuplicateCheckService(apiClient, sessionCtx, notifier, appLogger)
	submissionService = services.NewSubmissionService(apiClient, draftRepo, sessionCtx, notifier, appLogger, services.SubmissionOptions{
		CaptionMaxLength: appConfig.CaptionMaxLength,
		PreviewChars:     appConfig.PreviewChars,
		Guard:            inFlightGuard,
	})
	commentService = services.NewCommentService(apiClient, apiClient, sessionCtx, notifier, appLogger, inFlightGuard)
	feedService = services.NewFeedService(apiClient, sessionCtx)
	statsService = services.NewStatsService(feedService, commentService)
	uploadForm = services.NewUploadFormService(draftRepo, thumbnailer, duplicateService, submissionService, appLogger, appConfig.CaptionMaxLength)

	return nil
}

func finalizeApp(cmd *cobra.Command, args []string) error {
	if appLogger != nil {
		_ = appLogger.Sync()
	}
	return nil
}

// getContext returns a context for operations
func getContext() context.Context {
	return context.Background()
}
