package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/leeineian/maronn/home"
	"github.com/leeineian/maronn/sys"
	"github.com/spf13/cobra"
)

const clientAttempts = 5

var (
	silent   bool
	skipReg  bool
	clearAll bool
)

var rootCmd = &cobra.Command{
	Use:           sys.GetProjectName(),
	Short:         "Voice channel music bot for Discord.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().BoolVar(&silent, "silent", false, "Disable all log output")
	rootCmd.Flags().BoolVar(&skipReg, "skip-reg", false, "Skip command registration")
	rootCmd.Flags().BoolVar(&clearAll, "clear-all", false, "Force clear guild commands (scan all guilds)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		sys.LogFatal("%v", err)
	}
}

func run(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}

	logName := sys.InitLogger(silent, true)
	defer sys.CloseLogger()

	cfg, err := sys.LoadConfig()
	if err != nil {
		return fmt.Errorf(sys.MsgConfigFailedToLoad, err)
	}
	if silent {
		cfg.Silent = true
		sys.SetSilentMode(true)
	}

	botName := sys.GetProjectName()
	sys.LogInfo(sys.MsgBotStarting, botName)
	sys.LogInfo(sys.MsgInitializing, filepath.Base(cfg.DatabasePath))
	if logName != "" {
		sys.LogInfo(sys.MsgInitializing, filepath.Base(logName))
	}

	if err := sys.InitDatabase(parent, cfg.DatabasePath); err != nil {
		return fmt.Errorf(sys.MsgDatabaseInitFail, err)
	}
	defer sys.CloseDatabase()

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()
	sys.SetAppContext(ctx)

	client, err := createClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close(context.Background())

	if !skipReg {
		if err := sys.RegisterCommands(ctx, client, cfg.GuildID, clearAll); err != nil {
			sys.LogError(sys.MsgBotRegisterFail, err)
		}
	} else {
		sys.LogInfo(sys.MsgBotSkipReg)
	}

	if err := client.OpenGateway(ctx); err != nil {
		return fmt.Errorf(sys.MsgBotGatewayFail, err)
	}

	<-ctx.Done()
	if !cfg.Silent {
		fmt.Println()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	sys.LogInfo(sys.MsgDaemonShutdown)
	sys.ShutdownDaemons(shutdownCtx)
	home.ShutdownPlayer()

	sys.LogInfo(sys.MsgBotShutdown, botName)
	return nil
}

// createClient retries client construction for network resilience.
func createClient(ctx context.Context, cfg *sys.Config) (*bot.Client, error) {
	var lastErr error
	for i := 1; i <= clientAttempts; i++ {
		client, err := sys.CreateClient(cfg)
		if err == nil {
			return client, nil
		}
		lastErr = err
		if i == clientAttempts {
			break
		}
		sys.LogWarn(sys.MsgBotClientRetry, i, err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Second):
		}
	}
	return nil, fmt.Errorf(sys.MsgBotClientCreateFail, clientAttempts, lastErr)
}
