package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/pders01/newshub/internal/bookmarks"
	"github.com/pders01/newshub/internal/view"
	"github.com/spf13/cobra"
)

var (
	flagYes         bool
	flagSearchLimit int
)

var bookmarksCmd = &cobra.Command{
	Use:     "bookmarks",
	Aliases: []string{"saved"},
	Short:   "Manage saved articles",
}

var bookmarksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved articles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices()
		if err != nil {
			return err
		}
		defer svc.Close()

		printBookmarks(cmd.OutOrStdout(), svc.bookmarks.List())
		return nil
	},
}

var bookmarksSearchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Full-text search over saved articles",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices()
		if err != nil {
			return err
		}
		defer svc.Close()

		q := strings.Join(args, " ")
		results, err := svc.searcher.Search(q, flagSearchLimit)
		if err != nil {
			return fmt.Errorf("searching bookmarks: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(results) == 0 {
			fmt.Fprintf(out, "No saved articles match %q.\n", q)
			return nil
		}

		rows := make([]table.Row, 0, len(results))
		for _, r := range results {
			rows = append(rows, table.Row{
				strconv.FormatFloat(r.Score, 'f', 2, 64),
				view.Truncate(r.Bookmark.Title, 58),
				view.Truncate(r.Bookmark.Source, 16),
			})
		}
		fmt.Fprintf(out, "\n%d match(es) for %q\n\n", len(results), q)
		fmt.Fprintln(out, renderTable([]table.Column{
			{Title: "Score", Width: 6},
			{Title: "Title", Width: 60},
			{Title: "Source", Width: 18},
		}, rows))
		return nil
	},
}

var bookmarksRemoveCmd = &cobra.Command{
	Use:   "remove <title>",
	Short: "Remove a saved article by its exact title",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices()
		if err != nil {
			return err
		}
		defer svc.Close()

		title := strings.Join(args, " ")
		if !svc.bookmarks.Remove(title) {
			return fmt.Errorf("no saved article titled %q", title)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %q.\n", title)
		return nil
	},
}

var bookmarksClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all saved articles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices()
		if err != nil {
			return err
		}
		defer svc.Close()

		out := cmd.OutOrStdout()
		count := svc.bookmarks.Len()
		if count == 0 {
			fmt.Fprintln(out, "No saved articles.")
			return nil
		}

		confirm := promptConfirm(cmd.InOrStdin(), out)
		if flagYes {
			confirm = func(int) bool { return true }
		}
		if !svc.bookmarks.ClearAll(confirm) {
			fmt.Fprintln(out, "Canceled.")
			return nil
		}
		fmt.Fprintf(out, "Removed %d saved article(s).\n", count)
		return nil
	},
}

func init() {
	bookmarksSearchCmd.Flags().IntVarP(&flagSearchLimit, "limit", "n", 20, "maximum number of results")
	bookmarksClearCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "do not ask for confirmation")

	bookmarksCmd.AddCommand(bookmarksListCmd)
	bookmarksCmd.AddCommand(bookmarksSearchCmd)
	bookmarksCmd.AddCommand(bookmarksRemoveCmd)
	bookmarksCmd.AddCommand(bookmarksClearCmd)
}

// promptConfirm asks on out and reads a y/yes answer from in.
func promptConfirm(in io.Reader, out io.Writer) bookmarks.Confirmer {
	return func(count int) bool {
		fmt.Fprintf(out, "Remove all %d saved articles? [y/N] ", count)
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		}
		return false
	}
}

func printBookmarks(w io.Writer, marks []bookmarks.Bookmark) {
	if len(marks) == 0 {
		fmt.Fprintln(w, "No saved articles. Press b on a headline to save it.")
		return
	}

	rows := make([]table.Row, 0, len(marks))
	for _, b := range marks {
		rows = append(rows, table.Row{
			view.Truncate(b.Title, 56),
			view.Truncate(b.Source, 16),
			view.FormatDate(b.BookmarkedAt),
		})
	}
	fmt.Fprintf(w, "\n★ Saved articles (%d)\n\n", len(marks))
	fmt.Fprintln(w, renderTable([]table.Column{
		{Title: "Title", Width: 58},
		{Title: "Source", Width: 18},
		{Title: "Saved", Width: 12},
	}, rows))
}
