package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"phishguard/internal/clix"
	"phishguard/internal/models"
)

var predictCmd = &cobra.Command{
	Use:   "predict [url | -]",
	Short: "Score one URL with every model",
	Long: `Runs a single URL through all five classifiers and prints each verdict and
the majority vote. Pass the URL as an argument, with --text, or as "-" to read
it from stdin.`,
	Example: `  phishguard predict http://paypal-login.example.com/verify
  echo "https://github.com" | phishguard predict -`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := clix.ReadInput(cmd.Flags(), args, cmd.InOrStdin())
		if err != nil {
			return err
		}

		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get app instance: %w", err)
		}

		result, err := appInstance.ScoringService.Score(cmd.Context(), text)
		if err != nil {
			return fmt.Errorf("failed to score input: %w", err)
		}

		printResult(cmd.OutOrStdout(), result)
		return nil
	},
}

func printResult(w io.Writer, result *models.PredictionResult) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Key", "Model", "Prediction"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, v := range result.Verdicts {
		table.Append([]string{v.Key, models.ModelName(v.Key), v.Label})
	}
	table.Render()

	overall := color.GreenString(result.Overall)
	if result.IsPhishing() {
		overall = color.RedString(result.Overall)
	}
	fmt.Fprintf(w, "\nOverall: %s (%d of %d models flagged phishing)\n",
		overall, result.PhishingVotes, len(result.Verdicts))
}

func init() {
	rootCmd.AddCommand(predictCmd)
	predictCmd.Flags().String("text", "", "URL to score")
}
