// Package cli is the terminal surface of the assistant. It speaks to
// the API process, so the shell works from any operator machine.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/domain"
)

// NewRootCommand builds the civicctl command tree. Running it without
// a subcommand starts the interactive shell.
func NewRootCommand() *cobra.Command {
	var apiURL string
	var limit int

	root := &cobra.Command{
		Use:   "civicctl",
		Short: "Masvingo City Council assistant CLI",
		Long: `civicctl answers resident questions about Masvingo municipal services
and manages the assistant's knowledge base.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd, NewClient(apiURL), limit)
		},
	}
	root.PersistentFlags().StringVar(&apiURL, "api", "http://localhost:8080", "assistant API base URL")
	root.PersistentFlags().IntVar(&limit, "limit", 5, "retrieved context items per question")

	root.AddCommand(
		newAskCommand(&apiURL, &limit),
		newEvaluateCommand(&apiURL),
		newDomainsCommand(&apiURL),
		newIngestCommand(&apiURL),
		newRefreshCommand(&apiURL),
	)
	return root
}

func newAskCommand(apiURL *string, limit *int) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the assistant one question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return askOnce(cmd, NewClient(*apiURL), strings.Join(args, " "), *limit)
		},
	}
}

func newEvaluateCommand(apiURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate <cases.json>",
		Short: "Run a labeled query batch and print the metric report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := NewClient(*apiURL).Evaluate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
}

func newDomainsCommand(apiURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "domains",
		Short: "List the service domains the assistant understands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			labels, err := NewClient(*apiURL).Domains(cmd.Context())
			if err != nil {
				return err
			}
			for _, label := range labels {
				fmt.Fprintln(cmd.OutOrStdout(), label)
			}
			return nil
		},
	}
}

func newIngestCommand(apiURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <file>...",
		Short: "Upload documents into the knowledge base",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := NewClient(*apiURL)
			for _, path := range args {
				doc, err := client.Upload(cmd.Context(), path)
				if err != nil {
					return fmt.Errorf("upload %s: %w", path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%s)\n", path, doc.ID, doc.Status)
			}
			return nil
		},
	}
}

func newRefreshCommand(apiURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh <url>...",
		Short: "Schedule council web pages for re-ingestion",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := NewClient(*apiURL)
			for _, url := range args {
				if err := client.RefreshPage(cmd.Context(), url); err != nil {
					return fmt.Errorf("refresh %s: %w", url, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "scheduled %s\n", url)
			}
			return nil
		},
	}
}

// runShell reads commands line by line: ask <question>, domains,
// evaluate <file>, quit. Unknown input is treated as a question.
func runShell(cmd *cobra.Command, client *Client, limit int) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Masvingo civic assistant. Type a question, or: domains, evaluate <file>, quit.")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		verb, rest := splitVerb(line)
		switch verb {
		case "quit", "exit":
			return nil
		case "domains":
			labels, err := client.Domains(cmd.Context())
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				continue
			}
			fmt.Fprintln(out, strings.Join(labelsToStrings(labels), ", "))
		case "evaluate":
			if rest == "" {
				fmt.Fprintln(out, "usage: evaluate <cases.json>")
				continue
			}
			report, err := client.Evaluate(cmd.Context(), rest)
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				continue
			}
			printReport(out, report)
		case "ask":
			if err := askOnce(cmd, client, rest, limit); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
		default:
			if err := askOnce(cmd, client, line, limit); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
		}
	}
}

func askOnce(cmd *cobra.Command, client *Client, question string, limit int) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return fmt.Errorf("question is empty")
	}
	resp, err := client.Ask(cmd.Context(), question, limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, resp.Answer)
	note := "domain=" + string(resp.Domain) + " handler=" + resp.Handler
	if resp.FallbackUsed {
		note += " (fallback)"
	}
	fmt.Fprintf(out, "[%s]\n", note)
	return nil
}

func labelsToStrings(labels []domain.DomainLabel) []string {
	out := make([]string, 0, len(labels))
	for _, label := range labels {
		out = append(out, string(label))
	}
	return out
}

func printReport(out io.Writer, report *domain.EvaluationReport) {
	fmt.Fprintf(out, "cases:           %d\n", report.Cases)
	fmt.Fprintf(out, "precision:       %s\n", formatMetric(report.Precision))
	fmt.Fprintf(out, "recall:          %s\n", formatMetric(report.Recall))
	fmt.Fprintf(out, "f1:              %s\n", formatMetric(report.F1))
	fmt.Fprintf(out, "mean relevance:  %s\n", formatMetric(report.MeanRelevance))
	fmt.Fprintf(out, "domain accuracy: %s\n", formatMetric(report.DomainAccuracy))
}

func formatMetric(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func splitVerb(line string) (string, string) {
	parts := strings.SplitN(line, " ", 2)
	verb := strings.ToLower(parts[0])
	rest := ""
	if len(parts) == 2 {
		rest = strings.TrimSpace(parts[1])
	}
	return verb, rest
}
