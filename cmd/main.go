package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"
	"text/tabwriter"
	"time"

	"github.com/Akashdeep-Patra/tenant-desk/internal/app"
	"github.com/Akashdeep-Patra/tenant-desk/internal/config"
	"github.com/Akashdeep-Patra/tenant-desk/internal/logging"
	"github.com/Akashdeep-Patra/tenant-desk/internal/persist"
	"github.com/Akashdeep-Patra/tenant-desk/internal/tenant"
	"github.com/Akashdeep-Patra/tenant-desk/internal/watcher"
	"github.com/Akashdeep-Patra/tenant-desk/internal/workspace"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// Build-time variables injected via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const watchDebounce = 300 * time.Millisecond

func init() {
	// A TUI spends its time waiting on terminal input and the data file.
	// Two OS threads cover render and message dispatch; an explicit
	// GOMAXPROCS wins.
	if os.Getenv("GOMAXPROCS") == "" {
		runtime.GOMAXPROCS(min(2, runtime.NumCPU()))
	}

	// Keep RSS low when several instances share the machine.
	debug.SetMemoryLimit(50 * 1024 * 1024) // 50 MiB
}

func main() {
	rootCmd := buildRootCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "tdk:", err)
		os.Exit(1)
	}
}

func buildRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tdk",
		Short: "A keyboard-first tenant workspace for the terminal",
		Long: `tdk lists, filters and selects tenants from a YAML or JSON data file.

Filters, selection, layout and recent searches are kept per user and
restored on the next start. Named saved views can be pinned to the view
bar and recalled with 1-9.`,
		RunE:          runApp,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"tdk %s\n  commit:  %s\n  built:   %s\n  go:      %s\n  os/arch: %s/%s\n",
		version, commit, date, runtime.Version(), runtime.GOOS, runtime.GOARCH,
	))

	rootCmd.PersistentFlags().StringP("data", "d", "", "Tenant data file (overrides data_file)")
	rootCmd.PersistentFlags().StringP("user", "u", "", "Workspace owner (overrides user)")
	rootCmd.Flags().String("theme", "", "Colour theme: dark or light")

	rootCmd.AddCommand(buildVersionCmd())
	rootCmd.AddCommand(buildCompletionCmd())
	rootCmd.AddCommand(buildViewsCmd())

	return rootCmd
}

// loadConfig reads the config and applies command-line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if v, _ := cmd.Flags().GetString("data"); v != "" {
		cfg.DataFile = v
	}
	if v, _ := cmd.Flags().GetString("user"); v != "" {
		cfg.User = v
	}
	if f := cmd.Flags().Lookup("theme"); f != nil && f.Value.String() != "" {
		cfg.Theme = f.Value.String()
	}
	return cfg, nil
}

func openPersister(cfg *config.Config, opts ...persist.Option) (*persist.Persister, error) {
	kv, err := persist.NewFileKV(cfg.StateDir)
	if err != nil {
		return nil, fmt.Errorf("opening state dir: %w", err)
	}
	return persist.New(kv, cfg.User, opts...), nil
}

func runApp(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, closeLog, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer func() { _ = closeLog() }()
	log.Info("starting", "version", version, "user", cfg.User, "data", cfg.DataFile)

	p, err := openPersister(cfg, persist.WithDebounce(cfg.PersistDebounce), persist.WithLogger(log))
	if err != nil {
		return err
	}
	st, ok := p.Load()
	if !ok {
		st.Layout.SplitPercent = workspace.ClampSplit(cfg.SplitPercent)
	}
	store := workspace.NewStore(st, workspace.WithLogger(log))

	fileSrc, err := tenant.NewFileSource(cfg.DataFile)
	if err != nil {
		return fmt.Errorf("opening data file: %w", err)
	}
	// The cache collapses repeated fetches of the same query between
	// file changes.
	src := tenant.NewCachedSource(fileSrc, cfg.CacheTTL)

	opts := []app.Option{app.WithLogger(log)}
	if watchCh, stop, watchErr := watcher.Watch(cfg.DataFile, watchDebounce, log); watchErr == nil {
		defer stop()
		opts = append(opts, app.WithWatch(watchCh))
	} else {
		log.Warn("data file not watched", "err", watchErr)
	}

	model := app.New(cfg, store, p, src, opts...)

	prog := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, runErr := prog.Run()

	if m, ok := final.(app.Model); ok {
		if err := m.Close(); err != nil {
			log.Error("saving workspace", "err", err)
		}
	} else if err := model.Close(); err != nil {
		log.Error("saving workspace", "err", err)
	}
	return runErr
}

// buildViewsCmd creates `tdk views` for managing saved views outside the UI.
func buildViewsCmd() *cobra.Command {
	viewsCmd := &cobra.Command{
		Use:   "views",
		Short: "Manage saved views",
		Long: `List or delete saved views for the current user.

Examples:
  tdk views list
  tdk views list --json
  tdk views delete "Late payers"`,
	}

	viewsCmd.AddCommand(buildViewsListCmd())
	viewsCmd.AddCommand(buildViewsDeleteCmd())

	return viewsCmd
}

func buildViewsListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved views",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			p, err := openPersister(cfg)
			if err != nil {
				return err
			}
			list, err := p.ListSavedViews()
			if err != nil {
				return err
			}
			return printViews(cmd.OutOrStdout(), list, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output saved views as JSON")

	return cmd
}

func printViews(w io.Writer, list []workspace.SavedView, asJSON bool) error {
	if asJSON {
		if list == nil {
			list = []workspace.SavedView{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "no saved views")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPINNED\tFILTERS\tUPDATED")
	for _, v := range list {
		pinned := ""
		if v.Pinned {
			pinned = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			v.ID, v.Name, pinned, v.Filters.ActiveCount(), v.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func buildViewsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id|name>",
		Short: "Delete a saved view by id or name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			p, err := openPersister(cfg)
			if err != nil {
				return err
			}
			v, err := p.FindSavedView(args[0])
			if err != nil {
				return err
			}
			if err := p.DeleteSavedView(v.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted saved view %q (%s)\n", v.Name, v.ID)
			return nil
		},
	}
}

// buildVersionCmd creates the `tdk version` subcommand supporting --json.
func buildVersionCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			info := map[string]string{
				"version": version,
				"commit":  commit,
				"date":    date,
				"go":      runtime.Version(),
				"os":      runtime.GOOS,
				"arch":    runtime.GOARCH,
			}
			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}
			fmt.Fprintf(out, "tdk %s\n", version)
			fmt.Fprintf(out, "  commit:  %s\n", commit)
			fmt.Fprintf(out, "  built:   %s\n", date)
			fmt.Fprintf(out, "  go:      %s\n", runtime.Version())
			fmt.Fprintf(out, "  os/arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")

	return cmd
}

// buildCompletionCmd creates the `tdk completion` subcommand for shell completions.
func buildCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for tdk.

Examples:
  # Bash (add to ~/.bashrc)
  tdk completion bash > /etc/bash_completion.d/tdk

  # Zsh (add to ~/.zshrc before compinit)
  tdk completion zsh > "${fpath[1]}/_tdk"

  # Fish
  tdk completion fish > ~/.config/fish/completions/tdk.fish`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	}
}
