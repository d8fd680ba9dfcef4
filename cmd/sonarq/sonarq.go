// Command sonarq lists the issues of a project held by a SonarQube server.
//
// Its usage is:
//
//	sonarq [ -c config ] [ -r owner/repo ] [ -s status ] [ -n pagesize ] [ -x ] [ -a ] [ -d ]
//
// The flags are:
//
//	-c config
//		Read the server and project configuration from the named TOML file.
//		The default is sonar/config.toml in the user configuration directory.
//	-r owner/repo
//		The repository being analysed. The project key and name
//		default to "owner-repo". The default is $GITHUB_REPOSITORY.
//	-s status
//		List issues with this status: OPEN, CONFIRMED, REOPENED, RESOLVED or CLOSED.
//		The default is OPEN.
//	-n pagesize
//		Request this many issues per page. The default is 100.
//	-x
//		Print the sonar-scanner command line for the project instead of listing issues.
//	-a
//		Browse issues in Acme windows instead of printing them.
//	-d
//		Print debug output, including each request made.
//
// Values given as GitHub Actions inputs (INPUT_HOST, INPUT_TOKEN,
// INPUT_PROJECTKEY, INPUT_PROJECTNAME, INPUT_PROJECTBASEDIR)
// override those read from the configuration file.
//
// # Examples
//
// List open issues of the current repository in a workflow step:
//
//	sonarq -r $GITHUB_REPOSITORY
//
// Run the scanner for the same project:
//
//	eval `sonarq -x`
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"olowe.co/sonar/sonar"
)

var (
	confFlag   = flag.String("c", "", "configuration file")
	repoFlag   = flag.String("r", os.Getenv("GITHUB_REPOSITORY"), "repository as owner/repo")
	statusFlag = flag.String("s", string(sonar.StatusOpen), "issue status")
	sizeFlag   = flag.Int("n", sonar.DefaultPageSize, "issues per page")
	xFlag      = flag.Bool("x", false, "print scanner command")
	aFlag      = flag.Bool("a", false, "acme mode")
	debug      = flag.Bool("d", false, "debug output")
)

const usage = "usage: sonarq [-c config] [-r owner/repo] [-s status] [-n pagesize] [-x] [-a] [-d]"

func init() {
	log.SetPrefix("sonarq: ")
	log.SetFlags(0)
}

func main() {
	flag.Usage = func() { log.Println(usage) }
	flag.Parse()
	if flag.NArg() > 0 {
		log.Fatal(usage)
	}

	conf, err := sonar.LoadConfig(*confFlag)
	if err != nil {
		log.Fatalln("read configuration:", err)
	}
	owner, repo, err := sonar.SplitRepository(*repoFlag)
	if err != nil {
		log.Fatal(err)
	}
	client := sonar.NewClient(owner, repo, conf, sonar.NewLogger(*debug))

	if *xFlag {
		os.Stdout.WriteString(client.ScannerCommand() + "\n")
		return
	}
	status := sonar.Status(strings.ToUpper(*statusFlag))
	if *aFlag {
		openProject(client, status)
		return
	}
	issues, err := client.Issues(context.Background(), *sizeFlag, 1, status)
	if err != nil {
		log.Fatal(err)
	}
	if err := sonar.PrintIssues(os.Stdout, issues); err != nil {
		log.Fatal(err)
	}
}
