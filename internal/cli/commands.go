package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/benjiemalinao87/myknowledgebase/internal/appointment"
	"github.com/benjiemalinao87/myknowledgebase/internal/classifier"
	"github.com/benjiemalinao87/myknowledgebase/internal/datetime"
	"github.com/benjiemalinao87/myknowledgebase/internal/models"
	"github.com/benjiemalinao87/myknowledgebase/internal/planner"
	"github.com/benjiemalinao87/myknowledgebase/internal/prompt"
)

const defaultPersona = "home-improvement-expert"

func newParseCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <text>",
		Short: "Resolve a date and time from free text",
		Long: `Resolve the first date and time mentioned in the text relative to now
in the --tz timezone. The result spans one hour.

Examples:
  kbctl parse "next tuesday at 3:30pm"
  kbctl parse --now 2025-01-15T10:00:00-08:00 "tomorrow at noon"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cal, err := opts.calendar()
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), cal.Parse(strings.Join(args, " "), opts.timezone))
		},
	}
}

func newExtractCmd(opts *options) *cobra.Command {
	var (
		reply   string
		message string
		ics     bool
	)
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Settle on an appointment slot from a reply and a message",
		Long: `Try the reply, then the message, then both together, and print the
first slot found. With --ics the slot is rendered as a calendar file instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cal, err := opts.calendar()
			if err != nil {
				return err
			}
			candidate := appointment.NewExtractor(cal).Extract(reply, message, nil, opts.timezone)
			if !ics {
				return writeJSON(cmd.OutOrStdout(), candidate)
			}
			if !candidate.Success {
				return fmt.Errorf("no appointment found")
			}
			out, err := appointment.RenderICS(models.Appointment{
				StartTime:  candidate.StartTime,
				EndTime:    candidate.EndTime,
				Timezone:   opts.timezone,
				Confidence: candidate.Confidence,
				Source:     candidate.Source,
			}, appointment.Event{Summary: "Appointment", Description: message}, cal.Now("UTC"))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVar(&reply, "reply", "", "assistant reply text")
	cmd.Flags().StringVar(&message, "message", "", "user message text")
	cmd.Flags().BoolVar(&ics, "ics", false, "print an iCalendar file")
	return cmd
}

func newClassifyCmd(opts *options) *cobra.Command {
	var personaID string
	cmd := &cobra.Command{
		Use:   "classify <message>",
		Short: "Print the context analysis of a message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.persona(personaID)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), classifier.Analyze(strings.Join(args, " "), p))
		},
	}
	cmd.Flags().StringVar(&personaID, "persona", defaultPersona, "persona id")
	return cmd
}

func newPlanCmd(opts *options) *cobra.Command {
	var personaID string
	cmd := &cobra.Command{
		Use:   "plan <message>",
		Short: "Print the response structure planned for a message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.persona(personaID)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), planner.Plan(classifier.Analyze(strings.Join(args, " "), p)))
		},
	}
	cmd.Flags().StringVar(&personaID, "persona", defaultPersona, "persona id")
	return cmd
}

func newPromptCmd(opts *options) *cobra.Command {
	var (
		personaID     string
		knowledge     []string
		message       string
		businessHours string
	)
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the system prompt for a persona",
		Long: `Print the system prompt assembled for a persona. Each --knowledge value
is "Title=content". With --message the per-turn guidance is appended.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.persona(personaID)
			if err != nil {
				return err
			}
			cal, err := opts.calendar()
			if err != nil {
				return err
			}
			snippets, err := parseKnowledge(knowledge)
			if err != nil {
				return err
			}

			out := prompt.Build(p, cal.Context(opts.timezone, businessHours), snippets)
			if message != "" {
				msgCtx := classifier.Analyze(message, p)
				out += "\n\n" + prompt.Guidance(msgCtx, planner.Plan(msgCtx))
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringVar(&personaID, "persona", defaultPersona, "persona id")
	cmd.Flags().StringArrayVar(&knowledge, "knowledge", nil, `knowledge snippet as "Title=content" (repeatable)`)
	cmd.Flags().StringVar(&message, "message", "", "append guidance for this message")
	cmd.Flags().StringVar(&businessHours, "business-hours", datetime.DefaultBusinessHours, "business hours label")
	return cmd
}

func parseKnowledge(values []string) ([]models.KnowledgeSnippet, error) {
	snippets := make([]models.KnowledgeSnippet, 0, len(values))
	for _, v := range values {
		title, content, ok := strings.Cut(v, "=")
		if !ok || strings.TrimSpace(title) == "" {
			return nil, fmt.Errorf("invalid --knowledge %q, want Title=content", v)
		}
		snippets = append(snippets, models.KnowledgeSnippet{Title: strings.TrimSpace(title), Content: content})
	}
	return snippets, nil
}

func newContextCmd(opts *options) *cobra.Command {
	var businessHours string
	cmd := &cobra.Command{
		Use:   "context",
		Short: "Print the date and time block given to the model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cal, err := opts.calendar()
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), datetime.Instructions(cal.Context(opts.timezone, businessHours)))
			return err
		},
	}
	cmd.Flags().StringVar(&businessHours, "business-hours", datetime.DefaultBusinessHours, "business hours label")
	return cmd
}

func newPersonasCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "personas",
		Short: "List the persona catalogue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := opts.records()
			if err != nil {
				return fmt.Errorf("loading personas: %w", err)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tROLE")
			for _, r := range records {
				fmt.Fprintf(w, "%s\t%s\t%s\n", r.ID, r.Name, r.Role)
			}
			return w.Flush()
		},
	}
}
