package app

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/five82/stockroom/internal/config"
	"github.com/five82/stockroom/internal/logtail"
)

// PrintLog writes the last n lines of the configured log file to w, keeping
// only lines at level or above. It does not start the UI.
func PrintLog(w io.Writer, configPath string, n int, level string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	min, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	lines, err := logtail.Tail(cfg.LogFile, n, min)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		_, err := fmt.Fprintf(w, "no log lines in %s\n", cfg.LogFile)
		return err
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
