package ionos

import "github.com/yuriy-kovalchuk/yk-ionos-dns01/internal/dns"

const typeTXT = "TXT"

// zone is one entry of GET /dns/v1/zones.
type zone struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

func (z zone) toDNSZone() dns.Zone {
	return dns.Zone{ID: z.ID, Name: z.Name}
}

// zoneDetail is the response of GET /dns/v1/zones/{zoneId}.
type zoneDetail struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Records []record `json:"records"`
}

// record is a DNS record as returned by the API. TXT content usually comes
// back wrapped in double quotes.
type record struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	RootName string `json:"rootName,omitempty"`
	Type     string `json:"type"`
	Content  string `json:"content"`
	TTL      int    `json:"ttl"`
	Prio     int    `json:"prio"`
	Disabled bool   `json:"disabled"`
}

func (r record) unquoted() string {
	return dns.Unquote(r.Content)
}

// recordRequest is the body element for PATCH /zones/{id} and POST /zones/{id}/records.
type recordRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Content  string `json:"content"`
	TTL      int    `json:"ttl"`
	Prio     int    `json:"prio"`
	Disabled bool   `json:"disabled"`
}

// toRequest converts an existing record into a write request carrying the
// unquoted content.
func (r record) toRequest() recordRequest {
	return recordRequest{
		Name:     r.Name,
		Type:     r.Type,
		Content:  r.unquoted(),
		TTL:      r.TTL,
		Prio:     r.Prio,
		Disabled: r.Disabled,
	}
}

// recordUpdate is the body of PUT /zones/{id}/records/{recordId}.
type recordUpdate struct {
	Content  string `json:"content"`
	TTL      int    `json:"ttl"`
	Prio     int    `json:"prio"`
	Disabled bool   `json:"disabled"`
}

func newTXTRequest(name, content string, ttl int) recordRequest {
	return recordRequest{
		Name:    name,
		Type:    typeTXT,
		Content: content,
		TTL:     ttl,
	}
}

// filterTXT returns the TXT records named name, in API order.
func filterTXT(records []record, name string) []record {
	want := dns.NormalizeRecordName(name)
	var filtered []record
	for _, r := range records {
		if r.Type == typeTXT && dns.NormalizeRecordName(r.Name) == want {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// findContent returns the first record whose unquoted content equals content.
func findContent(records []record, content string) (record, bool) {
	for _, r := range records {
		if r.unquoted() == content {
			return r, true
		}
	}
	return record{}, false
}
