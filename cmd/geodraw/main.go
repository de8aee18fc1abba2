package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"geodraw/internal/config"
	"geodraw/internal/tui"
)

const version = "0.1.0"

var (
	configFile string
	outFile    string
	flagFile   config.File
)

var rootCmd = &cobra.Command{
	Use:   "geodraw [file]",
	Short: "Draw and edit vector geometries in the terminal.",
	Long: `geodraw draws and edits points, lines, polygons, circles and rectangles
on a braille map. A GeoJSON, CSV, KML or WKT file may be given to start from.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         run,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of geodraw",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("geodraw v%s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)

	d := config.Defaults()
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "configuration file location")
	rootCmd.Flags().StringVarP(&outFile, "out", "o", "drawing.geojson", "GeoJSON file written by the save key")
	rootCmd.Flags().StringVar(&flagFile.InitialMode, "mode", d.InitialMode, "initial interaction mode")
	rootCmd.Flags().BoolVar(&flagFile.WarmUp, "warm-up", d.WarmUp, "exercise the renderer once the map is ready")
	rootCmd.Flags().Float64Var(&flagFile.PickRadius, "pick-radius", d.PickRadius, "hit-test radius in braille pixels")
	rootCmd.Flags().IntVar(&flagFile.Circle.Steps, "circle-steps", d.Circle.Steps, "vertices used for drawn circles")
	rootCmd.Flags().StringVar(&flagFile.Log.File, "log-file", d.Log.File, "write logs to this file")
	rootCmd.Flags().StringVar(&flagFile.Log.Level, "log-level", d.Log.Level, "log level")
}

// loadConfig reads the configuration file, if any, and applies the flags
// the user set on top of it.
func loadConfig(cmd *cobra.Command) (config.File, error) {
	f := config.Defaults()
	if configFile != "" {
		var err error
		if f, err = config.Load(configFile); err != nil {
			return config.File{}, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("mode") {
		f.InitialMode = flagFile.InitialMode
	}
	if flags.Changed("warm-up") {
		f.WarmUp = flagFile.WarmUp
	}
	if flags.Changed("pick-radius") {
		f.PickRadius = flagFile.PickRadius
	}
	if flags.Changed("circle-steps") {
		f.Circle.Steps = flagFile.Circle.Steps
	}
	if flags.Changed("log-file") {
		f.Log.File = flagFile.Log.File
	}
	if flags.Changed("log-level") {
		f.Log.Level = flagFile.Log.Level
	}
	return f, f.Validate()
}

func run(cmd *cobra.Command, args []string) error {
	f, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, closer, err := config.NewLogger(f.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	cfg, err := f.DrawConfig(log)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"mode": f.InitialMode, "features": len(cfg.Features)}).Info("starting")

	opts := []tui.Option{tui.WithOutput(outFile)}
	var m tui.Model
	if len(args) > 0 {
		m, err = tui.NewWithPath(cfg, args[0], opts...)
	} else {
		m, err = tui.New(cfg, opts...)
	}
	if err != nil {
		return err
	}
	defer m.Controller().Close()

	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run(); err != nil {
		return err
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
