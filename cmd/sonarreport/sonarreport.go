// Command sonarreport posts a summary of a project's SonarQube issues
// as a comment on a GitHub pull request or issue.
//
// Usage:
//
//	sonarreport [ -c config ] [ -r owner/repo ] [ -s status ] -pr number
//	sonarreport [ -c config ] [ -r owner/repo ] [ -s status ] -n
//
// The server and project are configured as for sonarq.
// A GitHub token is read from $GITHUB_TOKEN.
//
// The options are:
//
//	-pr number
//		Comment on this pull request or issue of the repository.
//	-n
//		Print the comment instead of posting it.
//	-d
//		Print debug output.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/google/go-github/v63/github"
	"golang.org/x/oauth2"

	"olowe.co/sonar/sonar"
)

var (
	confFlag   = flag.String("c", "", "configuration file")
	repoFlag   = flag.String("r", os.Getenv("GITHUB_REPOSITORY"), "repository as owner/repo")
	statusFlag = flag.String("s", string(sonar.StatusOpen), "issue status")
	prFlag     = flag.Int("pr", 0, "pull request or issue number")
	nFlag      = flag.Bool("n", false, "print comment without posting")
	debug      = flag.Bool("d", false, "debug output")
)

// maxListed bounds the issues listed in a comment; the summary counts them all.
const maxListed = 50

// writeComment writes the Markdown body of a report comment.
func writeComment(w io.Writer, project sonar.Project, host string, issues []sonar.Issue) error {
	buf := &bytes.Buffer{}
	fmt.Fprintf(buf, "### SonarQube: %s\n\n", project.Name)
	if err := sonar.PrintSummary(buf, sonar.Summarize(issues)); err != nil {
		return err
	}
	if len(issues) > 0 {
		fmt.Fprintln(buf)
		fmt.Fprintln(buf, "```")
		listed := issues
		if len(listed) > maxListed {
			listed = listed[:maxListed]
		}
		if err := sonar.PrintIssues(buf, listed); err != nil {
			return err
		}
		fmt.Fprintln(buf, "```")
		if len(issues) > maxListed {
			fmt.Fprintf(buf, "\n%d more not shown.\n", len(issues)-maxListed)
		}
	}
	if host != "" {
		fmt.Fprintf(buf, "\n[View project](%s/dashboard?id=%s)\n", strings.TrimSuffix(host, "/"), project.Key)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func postComment(ctx context.Context, client *github.Client, owner, repo string, number int, body string) (string, error) {
	comment := &github.IssueComment{Body: github.String(body)}
	c, _, err := client.Issues.CreateComment(ctx, owner, repo, number, comment)
	if err != nil {
		return "", fmt.Errorf("comment on %s/%s#%d: %w", owner, repo, number, err)
	}
	return c.GetHTMLURL(), nil
}

func init() {
	log.SetPrefix("sonarreport: ")
	log.SetFlags(0)
}

func main() {
	flag.Parse()
	if *prFlag <= 0 && !*nFlag {
		log.Fatal("need -pr number or -n")
	}

	conf, err := sonar.LoadConfig(*confFlag)
	if err != nil {
		log.Fatalln("read configuration:", err)
	}
	owner, repo, err := sonar.SplitRepository(*repoFlag)
	if err != nil {
		log.Fatal(err)
	}
	logger := sonar.NewLogger(*debug)
	client := sonar.NewClient(owner, repo, conf, logger)

	ctx := context.Background()
	status := sonar.Status(strings.ToUpper(*statusFlag))
	issues, err := client.AllIssues(ctx, status)
	if err != nil {
		log.Fatal(err)
	}
	buf := &strings.Builder{}
	if err := writeComment(buf, client.Project(), client.Host(), issues); err != nil {
		log.Fatal(err)
	}
	if *nFlag {
		fmt.Print(buf.String())
		return
	}

	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		log.Fatal("GITHUB_TOKEN not set")
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	gh := github.NewClient(oauth2.NewClient(ctx, ts))
	u, err := postComment(ctx, gh, owner, repo, *prFlag, buf.String())
	if err != nil {
		log.Fatal(err)
	}
	logger.Info().Str("url", u).Int("issues", len(issues)).Msg("posted report")
}
