package sonar

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the values needed to reach a server and identify a project.
// Only Host and Token are required to fetch issues;
// the project fields fall back to values derived by NewClient.
type Config struct {
	Host           string `toml:"host"`
	Token          string `toml:"token"`
	ProjectKey     string `toml:"projectKey"`
	ProjectName    string `toml:"projectName"`
	ProjectBaseDir string `toml:"projectBaseDir"`
}

// ReadConfig reads a Config from the TOML file name.
// For example:
//
//	host = "https://sonar.example.com"
//	token = "squ_0123456789"
//	projectKey = "acme-app"
//	projectBaseDir = "src"
//
// Unknown keys are an error.
func ReadConfig(name string) (Config, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return Config{}, err
	}
	return parseConfig(b)
}

// LoadConfig reads the configuration file name and applies
// GitHub Actions inputs from the environment over it.
// If name is empty, sonar/config.toml in the user configuration
// directory is read, and may be absent.
func LoadConfig(name string) (Config, error) {
	explicit := name != ""
	if !explicit {
		dir, err := os.UserConfigDir()
		if err != nil {
			return Config{}, err
		}
		name = filepath.Join(dir, "sonar", "config.toml")
	}
	conf, err := ReadConfig(name)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		err = nil
	}
	if err != nil {
		return Config{}, err
	}
	return conf.Merge(EnvConfig(os.Getenv)), nil
}

func parseConfig(b []byte) (Config, error) {
	var conf Config
	dec := toml.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&conf); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return conf, nil
}

// Merge returns a copy of conf with every non-empty field of o applied over it.
func (conf Config) Merge(o Config) Config {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&conf.Host, o.Host)
	set(&conf.Token, o.Token)
	set(&conf.ProjectKey, o.ProjectKey)
	set(&conf.ProjectName, o.ProjectName)
	set(&conf.ProjectBaseDir, o.ProjectBaseDir)
	return conf
}

// EnvConfig returns the configuration given as GitHub Actions inputs,
// environment variables named INPUT_ followed by the upper-cased option:
// INPUT_HOST, INPUT_TOKEN, INPUT_PROJECTKEY, INPUT_PROJECTNAME and INPUT_PROJECTBASEDIR.
func EnvConfig(getenv func(string) string) Config {
	return Config{
		Host:           getenv("INPUT_HOST"),
		Token:          getenv("INPUT_TOKEN"),
		ProjectKey:     getenv("INPUT_PROJECTKEY"),
		ProjectName:    getenv("INPUT_PROJECTNAME"),
		ProjectBaseDir: getenv("INPUT_PROJECTBASEDIR"),
	}
}

// SplitRepository splits a repository name of the form "owner/repo",
// as found in $GITHUB_REPOSITORY.
func SplitRepository(s string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("repository %q: expected owner/repo", s)
	}
	return owner, repo, nil
}
