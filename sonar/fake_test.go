package sonar

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path"
	"strconv"
	"sync"
)

// fakeServer is a fake SonarQube server which serves the issues
// stored one per file under dir from /api/issues/search.
// Every search matches every issue; only paging is honoured.
type fakeServer struct {
	*httptest.Server
	issues []json.RawMessage

	mu       sync.Mutex
	requests []url.Values
	headers  []http.Header
	// pages answered with a status instead of issues.
	fail map[int]int
	// page answered with a body which is not JSON.
	malformed int
	// reported total, if non-zero, instead of len(issues).
	total int
}

func newFakeServer(dir string) (*fakeServer, error) {
	dirs, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	srv := &fakeServer{fail: make(map[int]int)}
	for _, d := range dirs {
		b, err := os.ReadFile(path.Join(dir, d.Name()))
		if err != nil {
			return nil, err
		}
		srv.issues = append(srv.issues, json.RawMessage(b))
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/issues/search", srv.search)
	srv.Server = httptest.NewServer(mux)
	return srv, nil
}

func (srv *fakeServer) search(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	srv.mu.Lock()
	srv.requests = append(srv.requests, q)
	srv.headers = append(srv.headers, req.Header.Clone())
	total := srv.total
	status, failed := srv.fail[atoi(q.Get("p"))]
	malformed := srv.malformed > 0 && srv.malformed == atoi(q.Get("p"))
	srv.mu.Unlock()

	if failed {
		w.WriteHeader(status)
		return
	}
	if malformed {
		fmt.Fprintln(w, `{"total": 25, "issues": [`)
		return
	}
	if total == 0 {
		total = len(srv.issues)
	}
	ps, p := atoi(q.Get("ps")), atoi(q.Get("p"))
	if ps <= 0 || p <= 0 {
		http.Error(w, `{"errors":[{"msg":"bad paging"}]}`, http.StatusBadRequest)
		return
	}
	start := min(ps*(p-1), len(srv.issues))
	end := min(start+ps, len(srv.issues))

	resp := struct {
		Total  int `json:"total"`
		P      int `json:"p"`
		PS     int `json:"ps"`
		Paging struct {
			PageIndex int `json:"pageIndex"`
			PageSize  int `json:"pageSize"`
			Total     int `json:"total"`
		} `json:"paging"`
		EffortTotal int               `json:"effortTotal"`
		DebtTotal   int               `json:"debtTotal"`
		Issues      []json.RawMessage `json:"issues"`
	}{Total: total, P: p, PS: ps, Issues: srv.issues[start:end]}
	resp.Paging.PageIndex = p
	resp.Paging.PageSize = ps
	resp.Paging.Total = total
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		panic(fmt.Sprintf("encode search response: %v", err))
	}
}

func (srv *fakeServer) pages() []int {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	var p []int
	for _, q := range srv.requests {
		p = append(p, atoi(q.Get("p")))
	}
	return p
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
