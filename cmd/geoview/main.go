package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"geoview/internal/logsink"
	"geoview/internal/tui"
)

func main() {
	opts := tui.DefaultOptions()
	flag.StringVar(&opts.Dir, "dir", "", "directory listed in the file sidebar (default: working directory)")
	flag.IntVar(&opts.PointSize, "point-size", opts.PointSize, "point size in micro-pixels, 1 to 3")
	flag.BoolVar(&opts.ShowLogs, "logs", opts.ShowLogs, "show the log panel at startup")
	logPath := flag.String("log", "", "write diagnostics to this file")
	flag.Parse()
	opts.Paths = flag.Args()

	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		logsink.SetLogger(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	p := tea.NewProgram(tui.New(opts), tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}
