package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"charterbot/internal/config"
	"charterbot/internal/knowledge"
	"charterbot/internal/logging"
)

// app is the process-wide wiring shared by every command.
type app struct {
	cfgPath string
	kbDir   string
	verbose bool

	cfg    *config.AppConfig
	logger *zap.Logger
	kb     *knowledge.Loader
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "charterbot",
		Short: "Inara Yachts charter & sales assistant",
		Long: `charterbot is a chat front-end for Inara Yachts.

It loads the charter and sales FAQ knowledge base, splices a few FAQ
entries into the prompt of the selected service mode and forwards the
conversation to a hosted chat completion model.

Run without arguments to start the interactive chat.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runChat(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "Path to YAML config file (optional; uses ./config.yaml or ~/.config/charterbot/config.yaml)")
	root.PersistentFlags().StringVar(&a.kbDir, "kb-dir", "", "Directory holding the FAQ shard files (overrides config)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(a.chatCmd(), a.askCmd(), a.kbCmd())
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	var err error
	if a.cfgPath == "" {
		a.cfg, _, err = config.LoadDefault()
	} else {
		a.cfg, err = config.Load(a.cfgPath)
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.kbDir != "" {
		a.cfg.Knowledge.Dir = a.kbDir
	}

	// the interactive chat owns the terminal, so it logs to a file
	logFile := "stderr"
	if cmd.Name() == "chat" || cmd == cmd.Root() {
		logFile = a.cfg.Logging.File
	}
	a.logger, err = logging.New(a.cfg.Logging.Level, logFile, a.verbose)
	if err != nil {
		return err
	}

	dir := a.cfg.Knowledge.Dir
	layout := knowledge.Layout{Charter: a.cfg.Knowledge.CharterShards, Sales: a.cfg.Knowledge.SalesShards}
	logger := a.logger
	a.kb = knowledge.NewLoader(func() (*knowledge.Store, []knowledge.Warning) {
		return knowledge.Load(dir, layout, logger)
	})
	return nil
}

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
