package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

// Documents layers JSON encoding over a Port. Load never fails: absent or
// unreadable documents fall back to the caller's default. Save failures
// are logged and swallowed; in-memory state stays authoritative.
type Documents struct {
	port      Port
	namespace string
	log       logrus.FieldLogger
}

func NewDocuments(port Port, namespace string, log logrus.FieldLogger) *Documents {
	return &Documents{port: port, namespace: namespace, log: log}
}

// Load decodes the named document into dst. It returns false, leaving dst
// untouched, when the document is absent or cannot be parsed.
func (d *Documents) Load(ctx context.Context, name string, dst any) bool {
	key := Key(d.namespace, name)
	data, err := d.port.Read(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			d.log.WithError(err).WithField("key", key).Error("load document, using default")
		}
		return false
	}

	// decode into a scratch value so a parse failure cannot leave dst half-filled
	scratch, err := json.Marshal(dst)
	if err != nil {
		d.log.WithError(err).WithField("key", key).Error("snapshot default document")
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		d.log.WithError(err).WithField("key", key).Error("parse document, using default")
		_ = json.Unmarshal(scratch, dst)
		return false
	}
	return true
}

// saveTimeout bounds a single document write.
const saveTimeout = 10 * time.Second

// Save writes v as the full named document. The write outlives ctx's
// cancellation: once the in-memory change is made it must reach the port.
func (d *Documents) Save(ctx context.Context, name string, v any) {
	key := Key(d.namespace, name)
	data, err := json.Marshal(v)
	if err != nil {
		d.log.WithError(err).WithField("key", key).Error("encode document")
		return
	}
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
	defer cancel()
	if err := d.port.Write(wctx, key, data); err != nil {
		d.log.WithError(err).WithField("key", key).Error("save document")
	}
}
