package cli

import (
	"github.com/spf13/cobra"

	"firesim/internal/logging"
	"firesim/internal/sims/fire"
)

type exportOptions struct {
	sim    simOptions
	out    string
	fields []string
}

func newExportCmd() *cobra.Command {
	opts := &exportOptions{}
	cmd := &cobra.Command{
		Use:   "export [scenario.hcl]",
		Short: "Write grid fields as JSON.",
		Long: `Export writes the initial grid, or the grid after --ticks ticks, as one ` +
			`row-major array of arrays per field under a {width, height, delta_time} header.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, args)
		},
	}
	fs := cmd.Flags()
	opts.sim.bind(fs)
	fs.StringVarP(&opts.out, "out", "o", "-", "output file, - for stdout")
	fs.StringSliceVar(&opts.fields, "fields", nil, "fields to export, all fields when empty")
	return cmd
}

func (o *exportOptions) run(cmd *cobra.Command, args []string) error {
	fields, err := parseFields(o.fields)
	if err != nil {
		return err
	}
	s, err := o.sim.build(cmd, args)
	if err != nil {
		return err
	}
	clock := fire.NewClock(s.grid, s.cfg)
	ticks := 0
	if cmd.Flags().Changed("ticks") {
		ticks = s.ticks
	}
	if err := advance(cmd.Context(), clock, ticks, s.cfg.DeltaTime); err != nil {
		return err
	}
	logging.FromContext(cmd.Context()).Info("export", "scenario", s.name, "tick", clock.Tick(), "fields", len(fields), "out", o.out)
	return writeExport(cmd.OutOrStdout(), o.out, clock, s.cfg.DeltaTime, fields)
}
