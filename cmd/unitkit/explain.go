// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/unitkit/unitkit/internal/issue"
	"github.com/unitkit/unitkit/pkg/types"
)

func newExplainCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "explain [issue-id]",
		Short: "Explain an error in detail",
		Long: `Every error unitkit reports belongs to an issue in its catalog. Without
arguments, explain lists the catalog. With an issue id, it renders the full
explanation with examples and links.`,
		Example: `  unitkit explain
  unitkit explain 6`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				listIssues(cmd)
				return nil
			}
			return explainIssue(cmd, app, args[0])
		},
	}
}

func listIssues(cmd *cobra.Command) {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, TitleStyle.Render("Issue catalog"))
	fmt.Fprintln(w)
	for _, is := range issue.Values() {
		fmt.Fprintf(w, "  %s %s\n", CmdStyle.Width(4).Render(strconv.Itoa(int(is.Id()))), issueTitle(is))
	}
}

func explainIssue(cmd *cobra.Command, app *App, arg string) error {
	n, err := strconv.Atoi(arg)
	var is *issue.Issue
	if err == nil {
		is = issue.Get(issue.Id(n))
	}
	if is == nil {
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true
		err := fmt.Errorf("unknown issue id %q", arg)
		fmt.Fprintln(cmd.ErrOrStderr(), ErrorStyle.Render("Error: ")+err.Error())
		fmt.Fprintln(cmd.ErrOrStderr(), "Run 'unitkit explain' to list the catalog")
		return &ExitError{Code: types.ExitUsage, Err: err}
	}

	rendered, err := is.Render(app.glamourStyle(cmd.Context()))
	if err != nil {
		slog.Debug("failed to render issue", "issueID", is.Id(), "error", err)
		fmt.Fprint(cmd.OutOrStdout(), is.Markdown())
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), rendered)
	return nil
}

// issueTitle returns the first heading of the issue's message.
func issueTitle(is *issue.Issue) string {
	for line := range strings.Lines(string(is.MarkdownMsg())) {
		line = strings.TrimSpace(line)
		if title, ok := strings.CutPrefix(line, "#"); ok {
			return strings.TrimSpace(strings.TrimLeft(title, "#"))
		}
	}
	return ""
}
