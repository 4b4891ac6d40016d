package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/keyward/internal/app"
	"github.com/dshills/keyward/internal/config"
	"github.com/dshills/keyward/internal/input/key"
	"github.com/dshills/keyward/internal/shortcut"
	"github.com/dshills/keyward/internal/ui"
)

func newCheckCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "check <collection> <command> <keys>...",
		Short: "Report conflicts a shortcut assignment would cause",
		Example: `  keyward check main file_open "Ctrl+O"
  keyward check main file_open "Ctrl+K, Ctrl+O" F3`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.Check(args[0], args[1], args[2:])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if report.Empty() {
				_, _ = fmt.Fprintln(out, "no conflicts")
				return nil
			}
			msg := shortcut.FormatReport(report, shortcut.WithSeparator(a.Config().UI.Separator))
			_, _ = fmt.Fprintln(out, msg.Text())
			return errConflicts
		},
	}
}

func newLookupCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <keys>",
		Short: "Show the commands a key sequence would collide with",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.Lookup(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if report.Empty() {
				_, _ = fmt.Fprintln(out, "unbound")
				return nil
			}
			for _, c := range report.Conflicts() {
				_, _ = fmt.Fprintf(out, "%s\t%s\t%s\n", c.Ref(), c.Command.DisplayName(), strings.Join(key.Strings(c.Sequences()), "; "))
			}
			return nil
		},
	}
}

func newFindCmd(g *globals) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "find [query]",
		Short: "Find commands by name",
		Long: `Find commands whose display name or collection/name reference
matches the query. Characters must appear in order but need not be
adjacent, so "fsa" finds "File Save As".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			out := cmd.OutOrStdout()
			for _, h := range a.Find(query, limit) {
				_, _ = fmt.Fprintf(out, "%s\t%s\t%s\n", h.Command.Ref(), h.Command.DisplayName(), describe(h.Shortcuts))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of results, 0 for all")
	return cmd
}

func newAuditCmd(g *globals) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "List every pair of ambiguous shortcuts",
		Long: `List every pair of ambiguous shortcuts across all collections.

With --watch, keyward keeps running and audits again whenever a settings,
definition or plugin file changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			styles := ui.DefaultStyles(out)
			found := printAudit(out, styles, a.Audit())
			if !watch {
				if found {
					return errConflicts
				}
				return nil
			}

			return a.Watch(cmd.Context(), func(ev app.ReloadEvent) {
				if ev.Err != nil {
					_, _ = fmt.Fprintln(out, styles.Error.Render(fmt.Sprintf("reloading %s: %v", ev.Change.Path, ev.Err)))
					return
				}
				_, _ = fmt.Fprintln(out, styles.Hint.Render(fmt.Sprintf("reloaded after %s of %s", ev.Change.Op, ev.Change.Path)))
				printAudit(out, styles, a.Audit())
			})
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "audit again when files change")
	return cmd
}

// printAudit writes one line per ambiguity and reports whether there
// were any.
func printAudit(w io.Writer, styles ui.Styles, list []shortcut.Ambiguity) bool {
	if len(list) == 0 {
		_, _ = fmt.Fprintln(w, "no ambiguous shortcuts")
		return false
	}
	_, _ = fmt.Fprintln(w, styles.Title.Render(fmt.Sprintf("%d ambiguous shortcut pairs", len(list))))
	for _, amb := range list {
		_, _ = fmt.Fprintln(w, styles.Conflict.Render(amb.String()))
	}
	return true
}

func newEditCmd(g *globals) *cobra.Command {
	var (
		mode      string
		proposals []string
		answers   []string
		save      string
	)

	cmd := &cobra.Command{
		Use:   "edit <collection> <command>",
		Short: "Edit the shortcuts of a command interactively",
		Long: `Edit the shortcuts of a command. Proposed shortcuts are checked for
conflicts; on a conflict you may edit again, with the conflicting
shortcuts removed, or dismiss the edit. Nothing changes unless the final
proposal is free of conflicts.

With --propose the edit runs unattended: each value answers one editing
round and each --answer (edit or dismiss) one conflict report.`,
		Example: `  keyward edit main file_open
  keyward edit main file_open --propose "Ctrl+S; F6" --answer edit --propose "" --save keys.toml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			var surface ui.Surface
			if cmd.Flags().Changed("propose") {
				choices, err := parseAnswers(answers)
				if err != nil {
					return err
				}
				surface = ui.NewScript(proposals, choices...)
			} else {
				if mode == "" {
					mode = a.Config().UI.Mode
				}
				surface, err = ui.Open(mode, os.Stdin, os.Stdout, app.WithComponent(a.Logger(), "ui"))
				if err != nil {
					return err
				}
			}

			outcome, err := a.Edit(cmd.Context(), args[0], args[1], surface)
			// The screen must be released before printing.
			surface.Close()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !outcome.OK() {
				_, _ = fmt.Fprintln(out, "cancelled; shortcuts unchanged")
				return nil
			}
			_, _ = fmt.Fprintf(out, "%s/%s: %s\n", args[0], args[1], describe(outcome.Shortcuts))
			if save != "" {
				if err := a.Save(save); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(out, "saved %s\n", save)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "", "surface: auto, line or screen (default from settings)")
	cmd.Flags().StringArrayVar(&proposals, "propose", nil, "scripted proposal for one editing round")
	cmd.Flags().StringArrayVar(&answers, "answer", nil, "scripted answer to a conflict report: edit or dismiss")
	cmd.Flags().StringVar(&save, "save", "", "write the resulting definitions to this file")
	return cmd
}

func parseAnswers(answers []string) ([]shortcut.Choice, error) {
	out := make([]shortcut.Choice, 0, len(answers))
	for _, a := range answers {
		switch strings.ToLower(a) {
		case "e", "edit", "edit-again":
			out = append(out, shortcut.ChoiceEditAgain)
		case "d", "dismiss":
			out = append(out, shortcut.ChoiceDismiss)
		default:
			return nil, fmt.Errorf("invalid answer %q: want edit or dismiss", a)
		}
	}
	return out, nil
}

func describe(seqs []key.Sequence) string {
	if len(seqs) == 0 {
		return "no shortcuts"
	}
	return strings.Join(key.Strings(seqs), "; ")
}

func newNormalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <keys>...",
		Short: "Print key sequences in canonical form",
		Example: `  keyward normalize "<C-k><C-s>" "C-x C-f"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, spec := range args {
				s, err := key.NormalizeSpec(spec)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of definition files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := config.Schema()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(append(data, '\n'))
			return err
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "keyward %s\n", version)
			_, _ = fmt.Fprintf(out, "Commit: %s\n", commit)
			_, _ = fmt.Fprintf(out, "Built: %s\n", date)
		},
	}
}
