// cmd/logs.go
package cmd

import (
	"errors"
	"fmt"

	"github.com/hpcloud/tail"
	"github.com/spf13/cobra"
)

func newLogsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logs",
		Short: "Follow the chaser log file",
		Long: `Logs tails the rotating log file configured under logger.file, starting
from the end and following across rotations. Requires the file sink to be
enabled.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := currentConfig()
			if !cfg.Logger.File.Enabled {
				return errors.New("file logging is disabled; set logger.file.enabled to true")
			}

			t, err := tail.TailFile(cfg.Logger.File.Path, tail.Config{
				Follow:    true,
				ReOpen:    true,
				MustExist: true,
				Location:  &tail.SeekInfo{Offset: 0, Whence: 2},
				Logger:    tail.DiscardingLogger,
			})
			if err != nil {
				return fmt.Errorf("tailing %s: %w", cfg.Logger.File.Path, err)
			}
			defer func() {
				t.Stop()
				t.Cleanup()
			}()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			for {
				select {
				case <-ctx.Done():
					return nil
				case line, ok := <-t.Lines:
					if !ok {
						return nil
					}
					if line.Err != nil {
						return fmt.Errorf("reading log line: %w", line.Err)
					}
					fmt.Fprintln(out, line.Text)
				}
			}
		},
	}
}
