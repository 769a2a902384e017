// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/AlberthYap/mileapp-task/internal/task"
)

// TaskTable writes tasks as an aligned table.
func TaskTable(w io.Writer, tasks []task.Task, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tPRIORITY\tDUE")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			t.ID,
			normalizeTitle(t.Title),
			FormatStatus(t.Status),
			FormatPriority(t.Priority),
			FormatDue(t.DueDate, now),
		)
	}
	return tw.Flush()
}

// MetaFooter writes the pagination summary line under a task table.
func MetaFooter(w io.Writer, meta task.PaginationMeta) {
	page := meta.Page
	if page < 1 {
		page = 1
	}
	fmt.Fprintf(w, "page %d/%d (%d tasks)\n", page, meta.TotalPages, meta.Total)
}

// TaskDetail writes one task in full.
func TaskDetail(w io.Writer, t task.Task) {
	fmt.Fprintf(w, "ID:          %s\n", t.ID)
	fmt.Fprintf(w, "Title:       %s\n", normalizeTitle(t.Title))
	if t.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", t.Description)
	}
	fmt.Fprintf(w, "Status:      %s\n", FormatStatus(t.Status))
	fmt.Fprintf(w, "Priority:    %s\n", FormatPriority(t.Priority))
	if t.DueDate != nil {
		fmt.Fprintf(w, "Due:         %s\n", t.DueDate.Format("2006-01-02"))
	}
	if len(t.Tags) > 0 {
		fmt.Fprintf(w, "Tags:        %s\n", strings.Join(t.Tags, ", "))
	}
	fmt.Fprintf(w, "Created:     %s\n", t.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "Updated:     %s\n", t.UpdatedAt.Format("2006-01-02 15:04"))
	if t.CompletedAt != nil {
		fmt.Fprintf(w, "Completed:   %s\n", t.CompletedAt.Format("2006-01-02 15:04"))
	}
}

// FormatStatus returns the display label for a status value.
func FormatStatus(status string) string {
	switch status {
	case task.StatusPending:
		return "Pending"
	case task.StatusInProgress:
		return "In Progress"
	case task.StatusCompleted:
		return "Completed"
	case "":
		return "Unknown"
	}
	return status
}

// FormatPriority returns the display label for a priority value.
func FormatPriority(priority string) string {
	if priority == "" {
		return "None"
	}
	return strings.ToUpper(priority[:1]) + priority[1:]
}

// FormatDue humanizes a due date relative to now:
// overdue, today, tomorrow, "N days" within a week, then a short date.
func FormatDue(due *time.Time, now time.Time) string {
	if due == nil {
		return ""
	}
	days := daysBetween(now, *due)
	switch {
	case days < 0:
		return "Overdue"
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days <= 7:
		return fmt.Sprintf("%d days", days)
	}
	return due.Format("Jan 2")
}

// daysBetween counts calendar days from a to b, negative when b is past.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
