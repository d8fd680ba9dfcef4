/*
Package sonar is a client for reading issues from a SonarQube server
and for building the command line which runs sonar-scanner against a project.

A Client is bound to a single project.
The project key and name default to "owner-repo",
the naming scheme used when a repository is analysed from CI:

	client := sonar.NewClient("acme", "app", conf, logger)
	issues, err := client.Issues(ctx, 100, 1, sonar.StatusOpen)

Issues pages through the /api/issues/search endpoint until the
server-reported total is reached. ScannerCommand returns the
sonar-scanner invocation for the same project; it is never executed here.

Issues may also be browsed as a read-only filesystem (see FS),
one file per issue, named by issue key.

https://next.sonarqube.com/sonarqube/web_api/api/issues/search
*/
package sonar
