package sonar

import (
	"encoding/json"
	"fmt"
	"time"
)

// SonarQube writes timestamps without a colon in the zone offset.
const timestamp = "2006-01-02T15:04:05-0700"

type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityMinor    Severity = "MINOR"
	SeverityMajor    Severity = "MAJOR"
	SeverityCritical Severity = "CRITICAL"
	SeverityBlocker  Severity = "BLOCKER"
)

// Severities lists every severity from least to most severe.
var Severities = []Severity{SeverityInfo, SeverityMinor, SeverityMajor, SeverityCritical, SeverityBlocker}

type Status string

const (
	StatusOpen      Status = "OPEN"
	StatusConfirmed Status = "CONFIRMED"
	StatusReopened  Status = "REOPENED"
	StatusResolved  Status = "RESOLVED"
	StatusClosed    Status = "CLOSED"
)

type Type string

const (
	TypeCodeSmell     Type = "CODE_SMELL"
	TypeBug           Type = "BUG"
	TypeVulnerability Type = "VULNERABILITY"
)

var Types = []Type{TypeBug, TypeVulnerability, TypeCodeSmell}

// Issue is a single finding as reported by the server.
// Issues are never modified once decoded.
type Issue struct {
	Key       string   `json:"key"`
	Rule      string   `json:"rule"`
	Component string   `json:"component"`
	Message   string   `json:"message"`
	Severity  Severity `json:"severity"`
	Project   string   `json:"project"`
	Line      int      `json:"line"`
	Hash      string   `json:"hash"`
	Status    Status   `json:"status"`
	// DisplayMessage is sent by some servers alongside Message.
	DisplayMessage string    `json:"MESSAGE"`
	Effort         string    `json:"effort"`
	Debt           string    `json:"debt"`
	Author         string    `json:"author"`
	Tags           []string  `json:"tags"`
	Created        time.Time `json:"creationDate"`
	Updated        time.Time `json:"updateDate"`
	Type           Type      `json:"type"`
	Organization   string    `json:"organization"`
	Scope          string    `json:"scope"`
	TextRange      TextRange `json:"textRange"`
}

type TextRange struct {
	StartLine   int `json:"startLine"`
	EndLine     int `json:"endLine"`
	StartOffset int `json:"startOffset"`
	EndOffset   int `json:"endOffset"`
}

func (is *Issue) UnmarshalJSON(b []byte) error {
	type alias Issue
	aux := &struct {
		Created string   `json:"creationDate"`
		Updated string   `json:"updateDate"`
		Tag     []string `json:"tag"`
		*alias
	}{
		alias: (*alias)(is),
	}
	if err := json.Unmarshal(b, aux); err != nil {
		return err
	}
	var err error
	is.Created, err = parseTime(aux.Created)
	if err != nil {
		return fmt.Errorf("parse creation time: %w", err)
	}
	is.Updated, err = parseTime(aux.Updated)
	if err != nil {
		return fmt.Errorf("parse update time: %w", err)
	}
	if len(is.Tags) == 0 && len(aux.Tag) > 0 {
		is.Tags = aux.Tag
	}
	return nil
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(timestamp, s)
	if err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// Project identifies the codebase whose issues are queried.
type Project struct {
	Key     string
	Name    string
	BaseDir string
}

type searchResponse struct {
	Total  int `json:"total"`
	P      int `json:"p"`
	PS     int `json:"ps"`
	Paging struct {
		PageIndex int `json:"pageIndex"`
		PageSize  int `json:"pageSize"`
		Total     int `json:"total"`
	} `json:"paging"`
	EffortTotal int     `json:"effortTotal"`
	DebtTotal   int     `json:"debtTotal"`
	Issues      []Issue `json:"issues"`
}

// total returns the number of issues matching the search.
// Older servers omit paging and only report the top-level total.
func (r *searchResponse) total() int {
	if r.Paging.Total > 0 {
		return r.Paging.Total
	}
	return r.Total
}
