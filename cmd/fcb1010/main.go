// Package main is the entry point for the fcb1010 CLI
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fcbtools/fcb1010/pkg/api"
	"github.com/fcbtools/fcb1010/pkg/device"
	"github.com/fcbtools/fcb1010/pkg/preset"
	"github.com/fcbtools/fcb1010/pkg/sheet"
	"github.com/fcbtools/fcb1010/pkg/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	outputFile   string
	presetNumber int
	inPortIndex  int
	outPortIndex int
	serverPort   int
	verbose      bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fcb1010",
	Short: "Edit Behringer FCB1010 presets and exchange them as JSON, CSV, or MIDI",
	Long: `fcb1010 is a preset editor for the Behringer FCB1010 MIDI foot controller.

Presets are stored as JSON documents, exchanged with spreadsheets as CSV,
and transmitted to hardware as MIDI Program/Control Change messages.

Examples:
  fcb1010 edit presets.json
  fcb1010 convert presets.json -o presets.csv
  fcb1010 convert presets.csv -o presets.json
  fcb1010 send presets.json --preset 5
  fcb1010 serve --port 8080`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

var editCmd = &cobra.Command{
	Use:   "edit [presets.json]",
	Short: "Launch the interactive preset editor",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runEdit,
}

var convertCmd = &cobra.Command{
	Use:   "convert <input>",
	Short: "Convert a preset bank between JSON and CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

var sendCmd = &cobra.Command{
	Use:   "send <presets.json>",
	Short: "Transmit a preset's events to the FCB1010 over MIDI",
	Args:  cobra.ExactArgs(1),
	RunE:  runSend,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Connect to the FCB1010 and print observed program changes",
	RunE:  runWatch,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	convertCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (required)")
	_ = convertCmd.MarkFlagRequired("output")

	sendCmd.Flags().IntVarP(&presetNumber, "preset", "n", 0, "Preset number to send")
	sendCmd.Flags().IntVar(&inPortIndex, "in", -1, "MIDI input port index (default: auto)")
	sendCmd.Flags().IntVar(&outPortIndex, "out", -1, "MIDI output port index (default: auto)")

	watchCmd.Flags().IntVar(&inPortIndex, "in", -1, "MIDI input port index (default: auto)")
	watchCmd.Flags().IntVar(&outPortIndex, "out", -1, "MIDI output port index (default: auto)")

	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "Server port")

	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func openDevice() (*device.Device, error) {
	opts := device.DefaultOptions()
	opts.InputPort = inPortIndex
	opts.OutputPort = outPortIndex
	opts.Logger = newLogger()
	return device.Open(opts)
}

func runEdit(cmd *cobra.Command, args []string) error {
	file := ""
	if len(args) > 0 {
		file = args[0]
	}
	return tui.Run(file)
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]

	inFormat := sheet.DetectFormat(input)
	outFormat := sheet.DetectFormat(outputFile)
	if inFormat == sheet.FormatUnknown || outFormat == sheet.FormatUnknown {
		return fmt.Errorf("cannot determine format: use .json or .csv files")
	}

	var bank *preset.Bank
	switch inFormat {
	case sheet.FormatJSON:
		b, err := preset.LoadFile(input)
		if err != nil {
			return err
		}
		bank = b
	case sheet.FormatCSV:
		b, rowErrs, err := sheet.ReadCSVFile(input)
		if err != nil {
			return err
		}
		for _, re := range rowErrs {
			fmt.Fprintf(os.Stderr, "skipped %v\n", re)
		}
		bank = b
	}

	switch outFormat {
	case sheet.FormatJSON:
		if err := bank.SaveFile(outputFile); err != nil {
			return err
		}
	case sheet.FormatCSV:
		if err := sheet.WriteCSVFile(bank, outputFile); err != nil {
			return err
		}
	}

	fmt.Printf("Converted %s -> %s (%d presets)\n", input, outputFile, bank.Len())
	return nil
}

func runSend(cmd *cobra.Command, args []string) error {
	bank, err := preset.LoadFile(args[0])
	if err != nil {
		return err
	}

	p := bank.FindByNumber(presetNumber)
	if p == nil {
		return fmt.Errorf("no preset with number %d in %s", presetNumber, args[0])
	}

	dev, err := openDevice()
	if err != nil {
		return err
	}
	defer dev.Close()

	if err := dev.SendPreset(p); err != nil {
		return err
	}

	fmt.Printf("Sent preset #%d (%s): %d program changes, %d control changes\n",
		p.Number, p.Name, len(p.ProgramChanges), len(p.ControlChanges))
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	dev, err := openDevice()
	if err != nil {
		return err
	}
	defer dev.Close()

	fmt.Println("Watching for program changes, press enter to stop...")
	done := make(chan struct{})
	go func() {
		_, _ = fmt.Scanln()
		close(done)
	}()

	last := -1
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return nil
		case <-ticker.C:
			if current := dev.CurrentProgram(); current != last {
				last = current
				if current >= 0 {
					fmt.Printf("Current program: %d\n", current)
				}
			}
		}
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Printf("Starting API server on port %d...\n", serverPort)
	return api.StartServer(serverPort, preset.NewBank())
}
