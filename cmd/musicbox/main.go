// Package main is the entry point for the musicbox CLI
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/james-see/musicbox/pkg/config"
	"github.com/james-see/musicbox/pkg/export"
	"github.com/james-see/musicbox/pkg/melody"
	"github.com/james-see/musicbox/pkg/trace"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	configFile string
	verbose    bool
	logFile    string

	backend  string
	headless bool
	autoplay bool

	outputFile string
	volume     uint32
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "musicbox",
	Short: "Two-button melody player for a buzzer and a 1 MHz timer",
	Long: `musicbox plays compiled-in melodies on a PWM buzzer, controlled by two
push buttons. The same core runs on a BBC micro:bit v2 (see cmd/firmware) and
on a host, where the peripherals are simulated, played on the sound card or
wired to GPIO pins.

Button A: click play/pause, double click previous, hold volume down
Button B: click next, double click replay, hold volume up
Three or more clicks on either button stop playback.

Examples:
  musicbox sim
  musicbox sim --backend speaker
  musicbox list
  musicbox export tetris -o tetris.mid
  musicbox render "happy birthday" --volume 60
  musicbox trace clicks.trace`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
}

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run the music box in real time",
	Long: `Runs the music box with the configured backend. With a terminal attached
the simulator UI drives the buttons; otherwise the box runs headless until
interrupted.`,
	Args: cobra.NoArgs,
	RunE: runSim,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the compiled-in melodies",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var exportCmd = &cobra.Command{
	Use:   "export <melody>",
	Short: "Write a melody score as a MIDI file",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

var renderCmd = &cobra.Command{
	Use:   "render <melody>",
	Short: "Play a melody on simulated hardware and write the speaker output as a MIDI file",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

var traceCmd = &cobra.Command{
	Use:   "trace <file>",
	Short: "Replay a button trace and print the recognized events",
	Long: `Replays a button trace through the event recognizer at 100 Hz. Each line
is "<ms> press|release [a|b]"; '#' starts a comment. Use - to read stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runTrace,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to a file instead of stderr")

	// sim command
	simCmd.Flags().StringVarP(&backend, "backend", "b", "", "Output backend: sim, speaker or rpi (overrides the config)")
	simCmd.Flags().BoolVar(&headless, "headless", false, "Run without the terminal UI")
	simCmd.Flags().BoolVar(&autoplay, "autoplay", false, "Start playing immediately")

	// export command
	exportCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output .mid file path")

	// render command
	renderCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output .mid file path")
	renderCmd.Flags().Uint32Var(&volume, "volume", 100, "Player volume (0-100)")

	// Add commands
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(traceCmd)
}

// newLogger returns the process logger. Logs go to stderr unless a log file
// is given or quiet is set, in which case only a file receives them.
func newLogger(quiet bool) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	var w io.Writer = os.Stderr
	closer := func() {}
	switch {
	case logFile != "":
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w, closer = f, func() { f.Close() }
	case quiet:
		w = io.Discard
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closer, nil
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return config.Config{}, err
	}
	if backend != "" {
		cfg.Backend = strings.ToLower(backend)
		if err := cfg.Validate(); err != nil {
			return config.Config{}, err
		}
	}
	return cfg, nil
}

func getOutputPath(m *melody.Melody, suffix string) string {
	if outputFile != "" {
		return outputFile
	}
	name := strings.ToLower(strings.Join(strings.Fields(m.Name()), "-"))
	return name + suffix + ".mid"
}

func interactive() bool {
	return !headless && term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
}

func runSim(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ui := interactive() && cfg.Backend != config.BackendRPi
	log, closeLog, err := newLogger(ui)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return runBox(ctx, cfg, ui, log)
}

func runList(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tNAME\tTEMPO\tNOTES\tLENGTH")
	for i, m := range melody.All() {
		length := time.Duration(m.Duration()) * time.Millisecond
		fmt.Fprintf(w, "%d\t%s\t%d bpm\t%d\t%s\n", i+1, m.Name(), m.Tempo(), m.Len(), length.Round(100*time.Millisecond))
	}
	return w.Flush()
}

func runExport(cmd *cobra.Command, args []string) error {
	m, err := melody.Lookup(args[0])
	if err != nil {
		return err
	}
	output := getOutputPath(m, "")
	if err := writeFile(output, func(w io.Writer) error { return export.Melody(w, m) }); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %s -> %s\n", m.Name(), output)
	return nil
}

func runRender(cmd *cobra.Command, args []string) error {
	m, err := melody.Lookup(args[0])
	if err != nil {
		return err
	}
	if volume > 100 {
		return fmt.Errorf("volume %d out of range (0-100)", volume)
	}
	output := getOutputPath(m, "-render")
	if err := writeFile(output, func(w io.Writer) error { return export.Render(w, m, volume) }); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Rendered %s -> %s\n", m.Name(), output)
	return nil
}

func runTrace(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var r io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	script, err := trace.Parse(r)
	if err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(args[0]), err)
	}
	events, err := script.Replay(cfg.Durations())
	if err != nil {
		return err
	}
	for _, ev := range events {
		fmt.Fprintln(cmd.OutOrStdout(), ev)
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
