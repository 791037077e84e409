package engine

import (
	"context"
	"fmt"
	"path"

	"github.com/DrSkyle/stowage/pkg/engine/report"
	"github.com/DrSkyle/stowage/pkg/storage"
)

// UploadArtifacts renders plan in every format and stores the files under
// prefix/name.<ext>. A failed format is logged and skipped; the first error
// is returned once every format was tried.
func (e *Engine) UploadArtifacts(ctx context.Context, store storage.BlobStore, prefix, name string, plan *Plan) ([]string, error) {
	summary := plan.Summary()

	var keys []string
	var firstErr error
	for _, f := range report.Formats {
		key := path.Join(prefix, name+f.Ext())

		data, err := report.Render(f, summary)
		if err == nil {
			err = store.Put(ctx, key, data)
		}
		if err != nil {
			e.Logger.Warn("Failed to upload artifact", "key", key, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to upload %s: %w", key, err)
			}
			continue
		}
		keys = append(keys, key)
	}

	e.Logger.Info("Uploaded plan artifacts", "count", len(keys), "prefix", prefix)
	return keys, firstErr
}
