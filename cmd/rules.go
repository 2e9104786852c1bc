package cmd

import (
	"phpcsutils/internal/adapter/inbound/report"
	"phpcsutils/internal/adapter/outbound/lexer"
	"phpcsutils/internal/application/dto"
	"phpcsutils/internal/application/service"

	"github.com/spf13/cobra"
)

// newRulesCmd implements: phpcsutils rules [--active] [--format text|json|yaml]
func newRulesCmd(c *cli) *cobra.Command {
	var (
		format     string
		activeOnly bool
	)

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the tokenizer compensation rules",
		Long: `List the rows of the compensation table and mark those active for the configured
host version. Without --host-version no row is active.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}

			hostVersion, err := c.cfg.Analysis.Version()
			if err != nil {
				return err
			}
			rules, err := c.rules()
			if err != nil {
				return err
			}

			svc := service.NewAnalysisService(lexer.New(lexer.Options{HostVersion: hostVersion}), nil, service.WithRules(rules))
			views := svc.Rules(hostVersion)
			if activeOnly {
				views = filterActive(views)
			}
			return report.NewWriter(cmd.OutOrStdout(), f).WriteRules(views)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(report.FormatText), "Output format (text, json, yaml)")
	cmd.Flags().BoolVar(&activeOnly, "active", false, "Only list rules active for the host version")
	return cmd
}

func filterActive(views []dto.RuleView) []dto.RuleView {
	active := make([]dto.RuleView, 0, len(views))
	for _, v := range views {
		if v.Active {
			active = append(active, v)
		}
	}
	return active
}
