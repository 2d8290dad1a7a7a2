package ionos

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-logr/logr"
)

// WriteMode selects how new TXT values are written. The two API generations
// disagree on what a write means for records sharing a name, so the mode is
// configured, never guessed from responses.
type WriteMode string

const (
	// WritePatch patches the zone with the full TXT set for the name. Sibling
	// records are resubmitted so they survive the replace.
	WritePatch WriteMode = "patch"
	// WriteRecords addresses records individually: a single existing record is
	// updated in place, otherwise a new one is inserted next to the others.
	WriteRecords WriteMode = "records"
)

// ParseWriteMode converts a setting value into a WriteMode. The empty string
// selects WritePatch.
func ParseWriteMode(s string) (WriteMode, error) {
	switch WriteMode(strings.ToLower(s)) {
	case "", WritePatch:
		return WritePatch, nil
	case WriteRecords:
		return WriteRecords, nil
	default:
		return "", fmt.Errorf("unknown write mode %q (want %q or %q)", s, WritePatch, WriteRecords)
	}
}

// writer issues the single write call that makes desired present in a zone,
// given the TXT records that already exist under its name.
type writer interface {
	add(ctx context.Context, zoneID string, existing []record, desired recordRequest) error
}

func newWriter(mode WriteMode, c *client, log logr.Logger) writer {
	if mode == WriteRecords {
		return &recordWriter{client: c, log: log}
	}
	return &patchWriter{client: c, log: log}
}

type patchWriter struct {
	client *client
	log    logr.Logger
}

func (w *patchWriter) add(ctx context.Context, zoneID string, existing []record, desired recordRequest) error {
	records := make([]recordRequest, 0, len(existing)+1)
	for _, r := range existing {
		records = append(records, r.toRequest())
	}
	records = append(records, desired)

	if len(existing) == 0 {
		w.log.Info("inserting new TXT record", "name", desired.Name)
	} else {
		w.log.Info("adding additional TXT record", "name", desired.Name, "existing", len(existing))
	}
	if err := w.client.patchZone(ctx, zoneID, records); err != nil {
		return fmt.Errorf("patching zone %s: %w", zoneID, err)
	}
	return nil
}

type recordWriter struct {
	client *client
	log    logr.Logger
}

func (w *recordWriter) add(ctx context.Context, zoneID string, existing []record, desired recordRequest) error {
	if len(existing) == 1 {
		id := existing[0].ID
		w.log.Info("updating TXT record", "name", desired.Name, "id", id)
		update := recordUpdate{
			Content:  desired.Content,
			TTL:      desired.TTL,
			Prio:     desired.Prio,
			Disabled: desired.Disabled,
		}
		if err := w.client.updateRecord(ctx, zoneID, id, update); err != nil {
			return fmt.Errorf("updating record %s: %w", id, err)
		}
		return nil
	}

	w.log.Info("inserting new TXT record", "name", desired.Name, "existing", len(existing))
	if err := w.client.createRecords(ctx, zoneID, []recordRequest{desired}); err != nil {
		return fmt.Errorf("creating record in zone %s: %w", zoneID, err)
	}
	return nil
}
