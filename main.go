package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/chrisuehlinger/tdollar/element"
	"github.com/chrisuehlinger/tdollar/host"
	"github.com/chrisuehlinger/tdollar/markup"
	"github.com/chrisuehlinger/tdollar/script"
	"github.com/chrisuehlinger/tdollar/stack"
	"github.com/chrisuehlinger/tdollar/stylesheet"
)

var (
	verbose    bool
	stylesPath string
	idScheme   string
	markupPath string
	watch      bool

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "tdollar",
	Short: "Build, query and script retained-mode UI trees",
	Long: `tdollar drives a UI toolkit tree through a small chainable API:
selectors over immediate children, namespaced events and tree mutation.

The render and run commands use an in-memory host and print the resulting
tree; preview renders the tree with Fyne.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.Encoding = "console"
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var renderCmd = &cobra.Command{
	Use:   "render [markup]",
	Short: "Build a tree from markup and print it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if watch {
			return watchAndRender(cmd.Context(), args[0], stylesPath, cmd.OutOrStdout())
		}
		return render(args[0], stylesPath, cmd.OutOrStdout())
	},
}

var runCmd = &cobra.Command{
	Use:   "run [script]",
	Short: "Run a JavaScript file against a tree and print the tree",
	Long: `Runs a script with $ bound to a fresh environment. $.root is a Window,
optionally populated from --markup before the script starts.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		env, root, err := buildTree(host.NewMemory(), markupPath, stylesPath)
		if err != nil {
			return err
		}
		rt := script.New(env, root, script.WithOutput(cmd.OutOrStdout()))
		if err := rt.ExecuteScript(string(code), args[0]); err != nil {
			return err
		}
		return markup.Dump(cmd.OutOrStdout(), root)
	},
}

var previewCmd = &cobra.Command{
	Use:   "preview [markup]",
	Short: "Render markup in a Fyne window",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return preview(args[0], stylesPath)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&stylesPath, "styles", "", "YAML stylesheet")
	rootCmd.PersistentFlags().StringVar(&idScheme, "ids", "seq", "Node id scheme: seq or uuid")

	renderCmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-render when the markup or stylesheet changes")
	runCmd.Flags().StringVar(&markupPath, "markup", "", "Markup to load under $.root before running")

	rootCmd.AddCommand(renderCmd, runCmd, previewCmd)
}

// buildTree creates an Env over h with a Window root, loading the
// stylesheet and markup when given.
func buildTree(h host.Host, markupFile, stylesFile string) (*stack.Env, *stack.Stack, error) {
	opts := []stack.Option{stack.WithLogger(logger)}
	if stylesFile != "" {
		sheet, err := stylesheet.LoadFile(stylesFile)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, stack.WithResolver(sheet))
	}
	switch idScheme {
	case "seq", "":
	case "uuid":
		opts = append(opts, stack.WithIDGenerator(element.UUIDGenerator))
	default:
		return nil, nil, fmt.Errorf("unknown id scheme %q", idScheme)
	}

	env := stack.NewEnv(h, opts...)
	root, err := env.Create(host.Window, nil)
	if err != nil {
		return nil, nil, err
	}
	if markupFile == "" {
		return env, root, nil
	}
	f, err := os.Open(markupFile)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	if _, err := markup.Build(env, root, f); err != nil {
		return nil, nil, err
	}
	return env, root, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
