package integration

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// fakeIONOS is a minimal in-memory IONOS DNS API for testing.
type fakeIONOS struct {
	mu      sync.Mutex
	zones   []fakeZone
	records map[string][]fakeRecord // zone id → records
	nextID  int
	calls   []string // tracks endpoint calls in order
	apiKey  string

	// failStatus, when set, makes every request fail with failBody.
	failStatus int
	failBody   string
}

type fakeZone struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type fakeRecord struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	RootName string `json:"rootName"`
	Type     string `json:"type"`
	Content  string `json:"content"`
	TTL      int    `json:"ttl"`
	Prio     int    `json:"prio"`
	Disabled bool   `json:"disabled"`
}

func newFakeIONOS(zones ...fakeZone) *fakeIONOS {
	return &fakeIONOS{
		zones:   zones,
		records: map[string][]fakeRecord{},
		apiKey:  "prefix.secret",
	}
}

// seed stores a record as the API would return it, with quoted TXT content.
func (f *fakeIONOS) seed(zoneID string, r fakeRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.ID == "" {
		f.nextID++
		r.ID = fmt.Sprintf("rec-%d", f.nextID)
	}
	f.records[zoneID] = append(f.records[zoneID], r)
}

func (f *fakeIONOS) txt(zoneID, name string) []fakeRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []fakeRecord
	for _, r := range f.records[zoneID] {
		if r.Type == "TXT" && r.Name == name {
			out = append(out, r)
		}
	}
	return out
}

// count returns how many calls used the given HTTP method.
func (f *fakeIONOS) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if strings.HasPrefix(c, method+" ") {
			n++
		}
	}
	return n
}

func (f *fakeIONOS) writes() int {
	return f.count(http.MethodPatch) + f.count(http.MethodPost) + f.count(http.MethodPut) + f.count(http.MethodDelete)
}

func (f *fakeIONOS) resetCalls() {
	f.mu.Lock()
	f.calls = nil
	f.mu.Unlock()
}

func (f *fakeIONOS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
	failStatus, failBody := f.failStatus, f.failBody
	f.mu.Unlock()

	if failStatus != 0 {
		w.WriteHeader(failStatus)
		fmt.Fprint(w, failBody)
		return
	}
	if r.Header.Get("X-API-Key") != f.apiKey {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message":"Missing or invalid API key."}`)
		return
	}

	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/dns/v1/zones"), "/")
	switch {
	case r.URL.Path == "/dns/v1/zones" && r.Method == http.MethodGet:
		f.handleListZones(w)
	case len(parts) == 2 && r.Method == http.MethodGet:
		f.handleGetZone(w, parts[1])
	case len(parts) == 2 && r.Method == http.MethodPatch:
		f.handlePatch(w, r, parts[1])
	case len(parts) == 3 && parts[2] == "records" && r.Method == http.MethodPost:
		f.handleCreate(w, r, parts[1])
	case len(parts) == 4 && parts[2] == "records" && r.Method == http.MethodPut:
		f.handleUpdate(w, r, parts[1], parts[3])
	case len(parts) == 4 && parts[2] == "records" && r.Method == http.MethodDelete:
		f.handleDelete(w, parts[1], parts[3])
	default:
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `[{"code":"NOT_FOUND","message":"Not found."}]`)
	}
}

func (f *fakeIONOS) handleListZones(w http.ResponseWriter) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, f.zones)
}

func (f *fakeIONOS) handleGetZone(w http.ResponseWriter, id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, z := range f.zones {
		if z.ID == id {
			records := f.records[id]
			if records == nil {
				records = []fakeRecord{}
			}
			writeJSON(w, map[string]interface{}{
				"id":      z.ID,
				"name":    z.Name,
				"type":    z.Type,
				"records": records,
			})
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
	fmt.Fprint(w, `[{"code":"NOT_FOUND","message":"Zone not found."}]`)
}

// handlePatch replaces, for every name/type pair in the body, all existing
// records with the submitted ones.
func (f *fakeIONOS) handlePatch(w http.ResponseWriter, r *http.Request, zoneID string) {
	var payload []fakeRecord
	if err := readJSON(r, &payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	replaced := map[string]bool{}
	for _, p := range payload {
		replaced[p.Name+"/"+p.Type] = true
	}
	var kept []fakeRecord
	for _, rec := range f.records[zoneID] {
		if !replaced[rec.Name+"/"+rec.Type] {
			kept = append(kept, rec)
		}
	}
	for _, p := range payload {
		kept = append(kept, f.store(p))
	}
	f.records[zoneID] = kept
}

func (f *fakeIONOS) handleCreate(w http.ResponseWriter, r *http.Request, zoneID string) {
	var payload []fakeRecord
	if err := readJSON(r, &payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	created := make([]fakeRecord, 0, len(payload))
	for _, p := range payload {
		rec := f.store(p)
		f.records[zoneID] = append(f.records[zoneID], rec)
		created = append(created, rec)
	}
	writeJSON(w, created)
}

func (f *fakeIONOS) handleUpdate(w http.ResponseWriter, r *http.Request, zoneID, recordID string) {
	var payload fakeRecord
	if err := readJSON(r, &payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i, rec := range f.records[zoneID] {
		if rec.ID == recordID {
			rec.Content = quote(payload.Content)
			rec.TTL = payload.TTL
			rec.Prio = payload.Prio
			rec.Disabled = payload.Disabled
			f.records[zoneID][i] = rec
			writeJSON(w, rec)
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
	fmt.Fprint(w, `[{"code":"NOT_FOUND","message":"Record not found."}]`)
}

func (f *fakeIONOS) handleDelete(w http.ResponseWriter, zoneID, recordID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, rec := range f.records[zoneID] {
		if rec.ID == recordID {
			f.records[zoneID] = append(f.records[zoneID][:i], f.records[zoneID][i+1:]...)
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
	fmt.Fprint(w, `[{"code":"NOT_FOUND","message":"Record not found."}]`)
}

// store assigns an id and quotes TXT content the way the API reports it.
// Callers hold f.mu.
func (f *fakeIONOS) store(p fakeRecord) fakeRecord {
	f.nextID++
	p.ID = fmt.Sprintf("rec-%d", f.nextID)
	if p.Type == "TXT" {
		p.Content = quote(p.Content)
	}
	return p
}

func quote(s string) string {
	return `"` + s + `"`
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v interface{}) error {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
