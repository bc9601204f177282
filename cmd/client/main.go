// Command client verifies credentials against a running AcademicVerify server.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/harrylevesque/academicverify/internal/client"
	"github.com/harrylevesque/academicverify/internal/models"
	"github.com/harrylevesque/academicverify/internal/verify"
)

var serverURL string

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#101F38")).
			Background(lipgloss.Color("#8BC34A")).Padding(0, 1)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280")).Width(20)
	stepStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#2196F3"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)

	statusStyles = map[models.Status]lipgloss.Style{
		models.StatusVerified: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A")),
		models.StatusPending:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFC107")),
		models.StatusRejected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#e53935")),
	}
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#e53935"))
)

var rootCmd = &cobra.Command{
	Use:           "client",
	Short:         "AcademicVerify command line client",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var verifyCmd = &cobra.Command{
	Use:   "verify <credential-id>",
	Short: "Run a paced verification and show each step",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		res, err := newClient().Verify(cmd.Context(), args[0], func(s verify.Step) {
			fmt.Fprintf(out, "%s %s\n", stepStyle.Render(fmt.Sprintf("[%d/%d]", s.Index, s.Total)), s.Label)
		})
		if err != nil {
			return err
		}
		printResult(out, res)
		return nil
	},
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <credential-id>",
	Short: "Fetch a credential without pacing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := newClient().Lookup(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printResult(cmd.OutOrStdout(), res)
		return nil
	},
}

var fingerprintCmd = &cobra.Command{
	Use:   "fingerprint <seed>",
	Short: "Ask the server for a fresh fingerprint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fp, err := newClient().Fingerprint(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), fp)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Server base URL (default $ACADEMICVERIFY_SERVER or "+client.DefaultBaseURL+")")
	rootCmd.AddCommand(verifyCmd, lookupCmd, fingerprintCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error:"), describe(err))
		os.Exit(1)
	}
}

func newClient() *client.Client {
	base := serverURL
	if base == "" {
		base = os.Getenv("ACADEMICVERIFY_SERVER")
	}
	return client.New(base)
}

func describe(err error) string {
	if verr, ok := verify.AsError(err); ok {
		return verr.Message
	}
	return err.Error()
}

func printResult(w io.Writer, res models.VerificationResult) {
	status := statusStyles[res.Status]
	seal := "Not confirmed"
	if res.SecuritySealValid {
		seal = "Valid"
	}
	rows := [][2]string{
		{"Credential ID", res.ID},
		{"Student", res.StudentName},
		{"Institution", res.Institution},
		{"Degree", res.Degree},
		{"Issue Date", res.IssueDate.Format(models.DateLayout)},
		{"Status", status.Render(string(res.Status))},
		{"Blockchain Hash", res.Fingerprint},
		{"Verification Date", res.VerificationDate.Format(models.DateLayout)},
		{"Blockchain Seal", seal},
	}
	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(labelStyle.Render(row[0]) + row[1])
	}
	fmt.Fprintln(w, titleStyle.Render("Verification Report"))
	fmt.Fprintln(w, boxStyle.Render(b.String()))
}
