package main

import (
	"fmt"

	"github.com/nettorechner/nettorechner/internal/calculator"
	"github.com/nettorechner/nettorechner/pkg/constants"
	"github.com/nettorechner/nettorechner/pkg/output"
	"github.com/nettorechner/nettorechner/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type calculateOptions struct {
	gross          string
	state          string
	taxClass       string
	church         bool
	children       float64
	noPension      bool
	noHealth       bool
	noCare         bool
	noUnemployment bool
	hours          int
	outputFormat   string
}

func newCalculateCommand(opts *rootOptions) *cobra.Command {
	calc := &calculateOptions{}

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Calculate the net salary for one gross salary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			outputFormat := calc.outputFormat
			if outputFormat == "" {
				outputFormat = a.conf.Output.Format
			}
			if outputFormat == "" {
				outputFormat = constants.OutputFormatPretty
			}
			if err := validation.ValidateOutputFormat(outputFormat); err != nil {
				return err
			}

			gross, err := calculator.ParseGross(calc.gross)
			if err != nil {
				return err
			}

			cfg, err := a.rates.Configuration(cmd.Context())
			if err != nil {
				a.logger.Error("failed to load rates",
					zap.String("op", "main.calculate"),
					zap.Error(err),
				)
				return err
			}

			result, err := calculator.Calculate(calc.input(gross), cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch outputFormat {
			case constants.OutputFormatPretty:
				return output.PrettyFormat(out, result)
			case constants.OutputFormatCSV:
				return output.CsvFormat(out, result)
			default:
				return fmt.Errorf("output format %s is not available for calculations", outputFormat)
			}
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&calc.gross, "gross", "", "monthly gross salary in euro (e.g. 4000 or 4.000,50)")
	flags.StringVar(&calc.state, "state", "", "federal state key (e.g. bayern)")
	flags.StringVar(&calc.taxClass, "class", "1", "tax class (1-6)")
	flags.BoolVar(&calc.church, "church", false, "liable for church tax")
	flags.Float64Var(&calc.children, "children", 0, "child allowance count")
	flags.BoolVar(&calc.noPension, "no-pension", false, "exclude pension insurance")
	flags.BoolVar(&calc.noHealth, "no-health", false, "exclude health insurance")
	flags.BoolVar(&calc.noCare, "no-care", false, "exclude care insurance")
	flags.BoolVar(&calc.noUnemployment, "no-unemployment", false, "exclude unemployment insurance")
	flags.IntVar(&calc.hours, "hours", constants.DefaultWeeklyHours, "weekly working hours")
	flags.StringVar(&calc.outputFormat, "output-format", "", "type of output override: pretty, csv")
	_ = cmd.MarkFlagRequired("gross")

	return cmd
}

func (c *calculateOptions) input(gross float64) calculator.Input {
	return calculator.Input{
		GrossMonthlySalary:  gross,
		StateKey:            c.state,
		TaxClassKey:         c.taxClass,
		ChurchTaxLiable:     c.church,
		ChildAllowanceCount: c.children,
		Pension:             !c.noPension,
		Health:              !c.noHealth,
		Care:                !c.noCare,
		Unemployment:        !c.noUnemployment,
		WeeklyHours:         c.hours,
	}
}
