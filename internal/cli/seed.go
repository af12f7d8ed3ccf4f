package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/beeline/internal/puzzle"
	"github.com/roach88/beeline/internal/store"
)

// SeedOptions holds flags for the seed command.
type SeedOptions struct {
	*RootOptions
	Database string
}

// seedFile is the YAML layout for a seed: one or more days, each with
// its letters and an ordered list of word submissions. Words are
// submitted through the normal ledger path so attempts, positions, and
// inspiration edges come out the same as interactive use.
type seedFile struct {
	Days []seedDay `yaml:"days"`
}

type seedDay struct {
	Date    string     `yaml:"date"`
	Letters []string   `yaml:"letters"`
	Words   []seedWord `yaml:"words"`
}

type seedWord struct {
	Word       string   `yaml:"word"`
	Stage      string   `yaml:"stage,omitempty"`
	Status     string   `yaml:"status,omitempty"`
	Notes      string   `yaml:"notes,omitempty"`
	Context    string   `yaml:"context,omitempty"`
	InspiredBy []string `yaml:"inspired_by,omitempty"` // word texts within the same day
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "seed <seed-file>",
		Short: "Load days and words from a YAML file",
		Long: `Load one or more days and their word submissions from a YAML file.

Each word goes through the same submission path as the API, so repeated
words become attempts and inspiration references (by word text) become
graph edges.

Example:
  beeline seed --db ./bee.db ./seed.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runSeed(cmd *cobra.Command, opts *SeedOptions, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read seed file", err)
	}
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return WrapExitError(ExitCommandError, "failed to parse seed file", err)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	dayCount, wordCount, err := applySeed(ctx, st, seed)
	if err != nil {
		return WrapExitError(ExitFailure, "seed failed", err)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return formatter.Success(fmt.Sprintf("seeded %d days, %d word submissions", dayCount, wordCount))
}

func applySeed(ctx context.Context, st *store.Store, seed seedFile) (days, words int, err error) {
	for _, d := range seed.Days {
		if _, err := st.CreateDay(ctx, d.Date, d.Letters); err != nil {
			return days, words, fmt.Errorf("day %s: %w", d.Date, err)
		}
		days++

		// Word text -> id, for resolving inspired_by references.
		ids := make(map[string]int64)

		for _, sw := range d.Words {
			req := puzzle.SubmitWordRequest{Word: sw.Word}
			if sw.Stage != "" {
				req.Stage = puzzle.Stage(sw.Stage)
			}
			if sw.Status != "" {
				req.Status = puzzle.Status(sw.Status)
			}
			if sw.Notes != "" {
				notes := sw.Notes
				req.Notes = &notes
			}
			if sw.Context != "" {
				c := sw.Context
				req.Context = &c
			}
			for _, ref := range sw.InspiredBy {
				id, ok := ids[puzzle.NormalizeWord(ref)]
				if !ok {
					return days, words, fmt.Errorf("day %s: word %q inspired by unknown word %q", d.Date, sw.Word, ref)
				}
				req.InspiredBy = append(req.InspiredBy, id)
			}

			submitted, err := st.SubmitWord(ctx, d.Date, req)
			if err != nil {
				return days, words, fmt.Errorf("day %s: word %q: %w", d.Date, sw.Word, err)
			}
			ids[submitted.Word.Word] = submitted.ID
			words++
		}
		slog.Info("seeded day", "date", d.Date, "words", len(d.Words))
	}
	return days, words, nil
}
