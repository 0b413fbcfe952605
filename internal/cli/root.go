// Package cli implements kbctl, an offline tool for exercising the
// classifier, planner, prompt assembly and date parsing without a bot or a
// database.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/benjiemalinao87/myknowledgebase/internal/datetime"
	"github.com/benjiemalinao87/myknowledgebase/internal/models"
	"github.com/benjiemalinao87/myknowledgebase/internal/persona"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

// options shared by every subcommand
type options struct {
	seedFile string
	timezone string
	now      string
}

// NewRootCommand builds the kbctl command tree
func NewRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "kbctl",
		Short: "Inspect how the knowledge base assistant reads a message",
		Long: `kbctl runs the assistant's deterministic pieces offline: message
classification, response planning, system prompt assembly, natural-language
date parsing and appointment extraction.

Personas come from the built-in catalogue unless --seed points at a YAML file.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.seedFile, "seed", "", "persona seed file (YAML)")
	root.PersistentFlags().StringVar(&opts.timezone, "tz", datetime.DefaultTimezone, "IANA timezone")
	root.PersistentFlags().StringVar(&opts.now, "now", "", "pin the current instant (RFC 3339)")

	root.AddCommand(
		newParseCmd(opts),
		newExtractCmd(opts),
		newClassifyCmd(opts),
		newPlanCmd(opts),
		newPromptCmd(opts),
		newContextCmd(opts),
		newPersonasCmd(opts),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "kbctl %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
		},
	}
}

func (o *options) calendar() (*datetime.Calendar, error) {
	if o.now == "" {
		return datetime.NewCalendar(datetime.SystemClock{}), nil
	}
	t, err := time.Parse(time.RFC3339, o.now)
	if err != nil {
		return nil, fmt.Errorf("invalid --now %q: %w", o.now, err)
	}
	return datetime.NewCalendar(datetime.FixedClock{T: t}), nil
}

func (o *options) records() ([]models.PersonaRecord, error) {
	if o.seedFile != "" {
		return persona.LoadSeedFile(o.seedFile)
	}
	return persona.BuiltinRecords()
}

func (o *options) persona(id string) (models.Persona, error) {
	records, err := o.records()
	if err != nil {
		return models.Persona{}, fmt.Errorf("loading personas: %w", err)
	}
	for _, r := range records {
		if r.ID == id {
			return persona.Normalize(r, nil), nil
		}
	}
	return models.Persona{}, fmt.Errorf("unknown persona %q", id)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
