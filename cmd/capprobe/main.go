package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"capprobe/analyze"
	"capprobe/capture"
	"capprobe/clipboard"
	"capprobe/config"
	"capprobe/imaging"
	"capprobe/llm"
	"capprobe/logutil"
	"capprobe/winlist"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:           "capprobe",
	Short:         "A command-line screen capture diagnostic tool",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		logutil.Setup(cfg.EnableFileLogging)
		llm.Init(&llm.Config{
			Endpoint: cfg.VisionEndpoint,
			Model:    cfg.VisionModel,
		})
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available screens",
	RunE:  runList,
}

var windowsCmd = &cobra.Command{
	Use:   "windows",
	Short: "List all windows with their capture indices",
	RunE:  runWindows,
}

var (
	captureWindow  bool
	captureOutput  string
	captureFormat  string
	captureQuality int
	captureTimeout time.Duration
	captureOCR     bool
	captureAnalyze bool
	capturePrompt  string
	captureCopy    bool
)

var captureCmd = &cobra.Command{
	Use:   "capture <index>",
	Short: "Capture one frame of a screen (or window) by index",
	Args:  cobra.ExactArgs(1),
	RunE:  runCapture,
}

func init() {
	captureCmd.Flags().BoolVarP(&captureWindow, "window", "w", false, "Treat the index as a window index")
	captureCmd.Flags().StringVarP(&captureOutput, "output", "o", "", "Output filename (defaults to screenshot_<timestamp>)")
	captureCmd.Flags().StringVarP(&captureFormat, "format", "f", "png", "Output format: png or jpeg")
	captureCmd.Flags().IntVarP(&captureQuality, "quality", "q", 0, "JPEG quality 1-100 (default 75)")
	captureCmd.Flags().DurationVarP(&captureTimeout, "timeout", "t", 0, "Frame wait bound (default 5s)")
	captureCmd.Flags().BoolVar(&captureOCR, "ocr", false, "Run OCR on the captured frame")
	captureCmd.Flags().BoolVar(&captureAnalyze, "analyze", false, "Ask the local vision model to describe the frame")
	captureCmd.Flags().StringVar(&capturePrompt, "prompt", "", "Prompt for --analyze")
	captureCmd.Flags().BoolVar(&captureCopy, "copy", false, "Copy recognized text to the clipboard")

	rootCmd.AddCommand(listCmd, windowsCmd, captureCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runList(cmd *cobra.Command, args []string) error {
	engine := capture.NewScreenEngine()
	if !engine.Supported() {
		fmt.Println("Screen capture not supported")
		return nil
	}

	snap, err := capture.Enumerate(engine)
	if err != nil {
		return err
	}

	fmt.Println("Available screens:")
	fmt.Println("==================")
	for _, d := range snap.Displays {
		fmt.Printf("Screen %d: Display ID %d\n", d.Index, d.ID)
		fmt.Printf("          Title: %s\n", d.Title)
		fmt.Println()
	}
	return nil
}

func runWindows(cmd *cobra.Command, args []string) error {
	engine := capture.NewScreenEngine()

	// Capture-side snapshot first; the engine list only covers capturable
	// windows and an unsupported host simply yields no indices.
	indices := map[uint64]int{}
	if engine.Supported() {
		snap, err := capture.Enumerate(engine)
		if err != nil {
			return err
		}
		indices = snap.WindowIndices()
	}

	lister, err := winlist.New(func() (map[uint64]int, error) {
		return indices, nil
	})
	if err != nil {
		return err
	}
	defer lister.Close()

	rows, err := lister.ListCorrelated()
	if err != nil {
		return err
	}

	fmt.Println(" Idx | ID       | PID     | Layer | Visible  | Alpha | Position  | Size      | Owner                | Title")
	fmt.Println("-----|----------|---------|-------|----------|-------|-----------|-----------|----------------------|------")
	for _, row := range rows {
		idx := "   -"
		if row.Capturable() {
			idx = fmt.Sprintf("%4d", row.Index)
		}
		visible := "OnScreen"
		if !row.OnScreen {
			visible = "OffScren"
		}
		title := row.Title
		if title == "" {
			title = fmt.Sprintf("(%dx%d at %d,%d)", row.Width, row.Height, row.X, row.Y)
		}
		fmt.Printf("%s | %8d | %7d | %5d | %8s | %5.2f | %4d,%-4d | %4dx%-4d | %-20s | %s\n",
			idx, row.ID, row.PID, row.Layer, visible, row.Alpha,
			row.X, row.Y, row.Width, row.Height,
			winlist.Truncate(row.Owner, 20), winlist.Truncate(title, 50))
	}

	fmt.Printf("\nShowing %d of %d total windows (%d capturable)\n",
		len(rows), lister.TotalNative(), len(indices))
	return nil
}

func runCapture(cmd *cobra.Command, args []string) error {
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("index must be a number, got %q", args[0])
	}

	format, err := imaging.ParseFormat(captureFormat)
	if err != nil {
		return err
	}

	engine := capture.NewScreenEngine()
	if !engine.Supported() {
		return capture.ErrUnsupported
	}
	if !engine.HasPermission() {
		engine.RequestPermission()
		return fmt.Errorf("screen recording permission not granted; grant it and rerun")
	}

	snap, err := capture.Enumerate(engine)
	if err != nil {
		return err
	}
	kind := capture.KindDisplay
	if captureWindow {
		kind = capture.KindWindow
	}
	target, err := snap.Resolve(kind, index)
	if err != nil {
		return err
	}

	fmt.Printf("Capturing %s %d (ID: %d)...\n", kind, index, target.ID)

	timeout := captureTimeout
	if timeout <= 0 {
		timeout = cfg.CaptureTimeout
	}
	frame, err := capture.NewSession(engine).CaptureOnce(target, timeout)
	if err != nil {
		return err
	}

	img, err := capture.Normalize(frame)
	if err != nil {
		return err
	}

	quality := captureQuality
	if quality <= 0 {
		quality = cfg.JPEGQuality
	}
	encoded, err := imaging.Encode(img, format, quality)
	if err != nil {
		return err
	}

	filename := outputFilename(captureOutput, format)
	if err := os.WriteFile(filename, encoded, 0644); err != nil {
		return fmt.Errorf("failed to save screenshot: %w", err)
	}
	fmt.Printf("Successfully saved screenshot to: %s\n", filename)

	if captureOCR || captureAnalyze {
		runAnalysis(encoded)
	}
	return nil
}

// runAnalysis reports each optional step's outcome on its own; a failed step
// never hides the saved file or the other step's result.
func runAnalysis(encoded []byte) {
	report := analyze.Run(analyze.Request{
		Encoded: encoded,
		RunOCR:  captureOCR,
		RunLLM:  captureAnalyze,
		Prompt:  capturePrompt,
	})

	if captureOCR {
		if report.OCRErr != nil {
			fmt.Fprintf(os.Stderr, "OCR failed: %v\n", report.OCRErr)
		} else {
			fmt.Println("--- OCR ---")
			fmt.Println(report.OCR.Text)
			if captureCopy {
				copyToClipboard(report.OCR.Text)
			}
		}
	}
	if captureAnalyze {
		if report.LLMErr != nil {
			fmt.Fprintf(os.Stderr, "Vision analysis failed: %v\n", report.LLMErr)
		} else {
			fmt.Println("--- Analysis ---")
			fmt.Println(report.LLMText)
		}
	}
}

func copyToClipboard(text string) {
	if err := clipboard.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Clipboard unavailable: %v\n", err)
		return
	}
	if err := clipboard.Write(text); err != nil {
		fmt.Fprintf(os.Stderr, "Clipboard write failed: %v\n", err)
		return
	}
	fmt.Println("Copied OCR text to clipboard")
}

// outputFilename applies the default timestamped name and makes sure the
// caller's name carries the extension of the container actually produced.
func outputFilename(name string, format imaging.Format) string {
	if name == "" {
		return fmt.Sprintf("screenshot_%d%s", time.Now().Unix(), format.Ext())
	}
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, format.Ext()) {
		return name
	}
	if format == imaging.FormatJPEG && strings.HasSuffix(lower, ".jpeg") {
		return name
	}
	return name + format.Ext()
}
