package sonar

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintIssues(t *testing.T) {
	issues := []Issue{
		readIssue(t, "AYk0003x-issue-03.json"),
		readIssue(t, "AYk0009x-issue-09.json"),
	}
	buf := &strings.Builder{}
	require.NoError(t, PrintIssues(buf, issues))
	want := "AYk0003x-issue-03\tCRITICAL\tinternal/server/handler3.go:9\tEither remove or fill this block of code.\n" +
		"AYk0009x-issue-09\tBLOCKER\tinternal/server/handler9.go\t\"password\" detected here, make sure this is not a hard-coded credential.\n"
	assert.Equal(t, want, buf.String())
}

func TestPrintIssue(t *testing.T) {
	is := readIssue(t, "AYk0003x-issue-03.json")
	buf := &strings.Builder{}
	require.NoError(t, PrintIssue(buf, &is))
	s := buf.String()
	for _, line := range []string{
		"Rule: go:S108\n",
		"Severity: CRITICAL\n",
		"Location: internal/server/handler3.go:9\n",
		"Tags: cwe, owasp-a3\n",
		"\n\nEither remove or fill this block of code.\n",
	} {
		assert.Contains(t, s, line)
	}
	assert.Equal(t, int64(len(s)), is.Size())
}

func TestSummarize(t *testing.T) {
	c, _ := testClient(t)
	issues, err := c.AllIssues(t.Context(), StatusOpen)
	require.NoError(t, err)
	s := Summarize(issues)
	assert.Equal(t, 25, s.Total)
	for _, sev := range Severities {
		assert.Equal(t, 5, s.BySeverity[sev], sev)
	}
	assert.Equal(t, 9, s.ByType[TypeBug])
	assert.Equal(t, 8, s.ByType[TypeVulnerability])
	assert.Equal(t, 8, s.ByType[TypeCodeSmell])

	buf := &strings.Builder{}
	require.NoError(t, PrintSummary(buf, s))
	assert.True(t, strings.HasPrefix(buf.String(), "**25** issues\n"))
	assert.Contains(t, buf.String(), "| BLOCKER | 5 |\n")
	assert.Contains(t, buf.String(), "| BUG | 9 |\n")
}

func TestSummarise(t *testing.T) {
	assert.Equal(t, "one two", summarise(" one\r\ntwo "))
	long := strings.Repeat("x", 100)
	assert.Equal(t, strings.Repeat("x", 72)+"...", summarise(long))
}

func TestSummariseMultibyte(t *testing.T) {
	// é straddles the cut at byte 72.
	msg := strings.Repeat("a", 71) + "é remove this"
	got := summarise(msg)
	assert.True(t, utf8.ValidString(got), "%q", got)
	assert.Equal(t, strings.Repeat("a", 71)+"...", got)

	msg = strings.Repeat("日本語", 30)
	got = summarise(msg)
	assert.True(t, utf8.ValidString(got), "%q", got)
	assert.True(t, strings.HasPrefix(msg, strings.TrimSuffix(got, "...")))
}
