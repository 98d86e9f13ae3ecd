package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/pay-compare/api"
	"github.com/warp/pay-compare/config"
	"github.com/warp/pay-compare/factory"
	"github.com/warp/pay-compare/generic"
	"github.com/warp/pay-compare/payscheme"
)

// compareOptions are the compare command's flags.
type compareOptions struct {
	Weeks        int
	WeeksSet     bool
	From         string
	To           string
	ScenarioFile string
	Preset       string
	JSON         bool
}

func compareCmd() *cobra.Command {
	var opts compareOptions

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run one comparison and print the periods and summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.WeeksSet = cmd.Flags().Changed("weeks")

			res, err := runCompare(cmd.Context(), cfg, opts)
			if err != nil {
				return err
			}
			logger.Debug("Comparison finished",
				zap.String("granularity", string(res.Summary.Granularity)),
				zap.Int("periods", res.Summary.Periods),
				zap.String("winner", string(res.Summary.Winner)))

			if opts.JSON {
				return printJSON(cmd.OutOrStdout(), res)
			}
			return printTable(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().IntVarP(&opts.Weeks, "weeks", "w", factory.DefaultWeeks, "Number of weeks (week mode)")
	cmd.Flags().StringVar(&opts.From, "from", "", "First date YYYY-MM-DD (anchors weeks, or starts a day range with --to)")
	cmd.Flags().StringVar(&opts.To, "to", "", "Last date YYYY-MM-DD, inclusive (selects day mode)")
	cmd.Flags().StringVarP(&opts.ScenarioFile, "scenario", "s", "", "JSON file with scenario overrides")
	cmd.Flags().StringVarP(&opts.Preset, "preset", "p", "", "Start from a named preset")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Print the full result as JSON")

	return cmd
}

func presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the historical variants of the old scheme",
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tDESCRIPTION")
			for _, p := range factory.Presets() {
				fmt.Fprintf(tw, "%s\t%s\n", p.Name, p.Description)
			}
			return tw.Flush()
		},
	}
}

// runCompare resolves the scenario (config base, then preset, then file)
// and the horizon, and runs the engine.
func runCompare(ctx context.Context, cfg *config.Config, opts compareOptions) (*payscheme.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	base, err := cfg.BaseConfiguration()
	if err != nil {
		return nil, err
	}

	var sj factory.ScenarioJSON
	if opts.Preset != "" {
		p, ok := factory.LookupPreset(opts.Preset)
		if !ok {
			return nil, fmt.Errorf("unknown preset %q", opts.Preset)
		}
		sj = p.Scenario
	}
	if opts.ScenarioFile != "" {
		b, err := os.ReadFile(opts.ScenarioFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read scenario: %w", err)
		}
		override, err := factory.DecodeScenario(b)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", opts.ScenarioFile, err)
		}
		sj = sj.Merge(override)
	}

	c, err := factory.NewScenarioFactory(base).FromJSON(sj)
	if err != nil {
		return nil, err
	}

	hj := factory.HorizonJSON{StartDate: opts.From, EndDate: opts.To}
	if opts.WeeksSet || opts.To == "" {
		weeks := opts.Weeks
		hj.Weeks = &weeks
	}
	h, err := factory.ParseHorizon(hj)
	if err != nil {
		return nil, err
	}

	return payscheme.NewEngine(cfg.Workers).Run(ctx, c, h)
}

func printJSON(w io.Writer, res *payscheme.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(api.NewCompareResponse(res))
}

func printTable(w io.Writer, res *payscheme.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintln(tw, "#\tPERIOD\tNEW\tOLD\tOLD-NEW\tCUM NEW\tCUM OLD\tCUM OLD-NEW\t")
	for i, rec := range res.Records {
		p := res.Series.Points[i+1]
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			rec.Index()+1,
			periodLabel(rec),
			money(rec.New.Total),
			money(rec.Old.Total),
			money(rec.Difference()),
			money(p.New),
			money(p.Old),
			money(p.Difference))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if err := printCategories(w, res); err != nil {
		return err
	}

	s := res.Summary
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Periods:     %d %s(s)\n", s.Periods, s.Granularity)
	fmt.Fprintf(w, "Total new:   %s %s (avg %s)\n", money(s.TotalNew), s.TotalNew.Unit, money(s.AverageNew))
	fmt.Fprintf(w, "Total old:   %s %s (avg %s)\n", money(s.TotalOld), s.TotalOld.Unit, money(s.AverageOld))
	fmt.Fprintf(w, "Difference:  %s %s (old - new)\n", money(s.Difference), s.Difference.Unit)
	fmt.Fprintf(w, "Better:      %s\n", s.Winner)
	if s.BreakEven != nil {
		fmt.Fprintf(w, "Break-even:  period %d\n", *s.BreakEven)
	}
	return nil
}

// printCategories prints horizon totals per pay category.
func printCategories(w io.Writer, res *payscheme.Result) error {
	if len(res.Records) == 0 {
		return nil
	}
	totals := map[payscheme.Scheme]payscheme.Breakdown{}
	for _, sc := range payscheme.Schemes {
		b := res.Records[0].Breakdown(sc)
		for _, rec := range res.Records[1:] {
			b = b.Add(rec.Breakdown(sc))
		}
		totals[sc] = b
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "CATEGORY\tNEW\tOLD\t")
	for _, cat := range generic.Categories {
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", cat,
			money(totals[payscheme.SchemeNew].Category(cat)),
			money(totals[payscheme.SchemeOld].Category(cat)))
	}
	return tw.Flush()
}

func periodLabel(rec payscheme.PeriodRecord) string {
	if rec.Granularity() == generic.GranularityDay {
		return fmt.Sprintf("%s %s", rec.Slot.Period.Start, rec.DayType())
	}
	if rec.Slot.Period.Start.IsZero() {
		return fmt.Sprintf("week %d", rec.Index()+1)
	}
	return fmt.Sprintf("%s..%s", rec.Slot.Period.Start, rec.Slot.Period.End)
}

func money(a generic.Amount) string {
	f, _ := a.Round().Value.Float64()
	return humanize.CommafWithDigits(f, 2)
}
