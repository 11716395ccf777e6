package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/viant/qworker"
	"github.com/viant/qworker/model/types"
	"github.com/viant/qworker/service/printer"
	"github.com/viant/qworker/service/sequence"
)

func newDemoCommand(f *flags) *cobra.Command {
	var count int
	var pause time.Duration
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Print a range of integers with a pool of consumers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, f)
			if err != nil {
				return err
			}
			defer a.close()

			var consumers []types.Consumer[int]
			for i := 0; i < a.config.ConsumerCount(); i++ {
				consumers = append(consumers, printer.New[int](fmt.Sprintf("consumer-%d", i),
					printer.WithLogger(a.logger), printer.WithPause(pause)))
			}
			srv, err := qworker.New[int](sequence.New(0, count, a.logger), consumers, append(a.options, qworker.WithName("demo"))...)
			if err != nil {
				return err
			}
			return srv.Start(cmd.Context())
		},
	}
	cmd.Flags().IntVar(&count, "count", 100, "number of integers to produce")
	cmd.Flags().DurationVar(&pause, "pause", 100*time.Millisecond, "pause after each printed task")
	return cmd
}
