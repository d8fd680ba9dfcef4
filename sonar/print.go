package sonar

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"
)

// Summary counts issues by severity and type.
type Summary struct {
	Total      int
	BySeverity map[Severity]int
	ByType     map[Type]int
}

func Summarize(issues []Issue) Summary {
	s := Summary{
		Total:      len(issues),
		BySeverity: make(map[Severity]int),
		ByType:     make(map[Type]int),
	}
	for i := range issues {
		s.BySeverity[issues[i].Severity]++
		s.ByType[issues[i].Type]++
	}
	return s
}

// PrintIssues writes one line per issue: key, severity, location and message.
func PrintIssues(w io.Writer, issues []Issue) error {
	buf := &strings.Builder{}
	for i := range issues {
		is := &issues[i]
		fmt.Fprintf(buf, "%s\t%s\t%s\t%s\n", is.Key, is.Severity, location(is), summarise(is.Message))
	}
	_, err := io.WriteString(w, buf.String())
	return err
}

func location(is *Issue) string {
	file := is.Component
	if _, after, ok := strings.Cut(file, ":"); ok {
		file = after
	}
	if is.Line > 0 {
		return fmt.Sprintf("%s:%d", file, is.Line)
	}
	return file
}

func printIssue(is *Issue) string {
	buf := &strings.Builder{}
	fmt.Fprintln(buf, "Rule:", is.Rule)
	fmt.Fprintln(buf, "Severity:", is.Severity)
	fmt.Fprintln(buf, "Type:", is.Type)
	fmt.Fprintln(buf, "Status:", is.Status)
	fmt.Fprintln(buf, "Location:", location(is))
	if is.Author != "" {
		fmt.Fprintln(buf, "Author:", is.Author)
	}
	if !is.Created.IsZero() {
		fmt.Fprintln(buf, "Date:", is.Created.Format(time.RFC1123Z))
	}
	if !is.Updated.IsZero() {
		fmt.Fprintln(buf, "Updated:", is.Updated.Format(time.RFC1123Z))
	}
	if is.Effort != "" {
		fmt.Fprintln(buf, "Effort:", is.Effort)
	}
	if len(is.Tags) > 0 {
		fmt.Fprintln(buf, "Tags:", strings.Join(is.Tags, ", "))
	}
	fmt.Fprintln(buf)
	fmt.Fprintln(buf, is.Message)
	return buf.String()
}

// PrintIssue writes a header of the issue's fields followed by its message.
func PrintIssue(w io.Writer, is *Issue) error {
	_, err := io.WriteString(w, printIssue(is))
	return err
}

// PrintSummary writes s as a Markdown table,
// suitable for a pull request comment.
func PrintSummary(w io.Writer, s Summary) error {
	buf := &strings.Builder{}
	fmt.Fprintf(buf, "**%d** issues\n\n", s.Total)
	fmt.Fprintln(buf, "| Severity | Issues |")
	fmt.Fprintln(buf, "|---|---|")
	for i := len(Severities) - 1; i >= 0; i-- {
		sev := Severities[i]
		fmt.Fprintf(buf, "| %s | %d |\n", sev, s.BySeverity[sev])
	}
	fmt.Fprintln(buf)
	fmt.Fprintln(buf, "| Type | Issues |")
	fmt.Fprintln(buf, "|---|---|")
	for _, t := range Types {
		fmt.Fprintf(buf, "| %s | %d |\n", t, s.ByType[t])
	}
	_, err := io.WriteString(w, buf.String())
	return err
}

func summarise(msg string) string {
	max := 72
	msg = strings.ReplaceAll(msg, "\r", "")
	msg = strings.ReplaceAll(msg, "\n", " ")
	msg = strings.TrimSpace(msg)
	if len(msg) <= max {
		return msg
	}
	for max > 0 && !utf8.RuneStart(msg[max]) {
		max--
	}
	return strings.TrimSpace(msg[:max]) + "..."
}
