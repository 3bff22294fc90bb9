package lifecycle

import (
	"context"
	"fmt"

	"github.com/julianstephens/curiosity/internal/logger"
	"github.com/julianstephens/curiosity/internal/mirror"
	"github.com/julianstephens/curiosity/internal/storage"
)

type DeleteOutcome int

const (
	// DeleteFailed means the local phase failed and nothing remote was touched
	DeleteFailed DeleteOutcome = iota
	// DeleteComplete means local data is gone and the mirror was cleared or not in use
	DeleteComplete
	// DeleteLocalOnly means local data is gone but the mirror may still hold a copy
	DeleteLocalOnly
)

func (o DeleteOutcome) String() string {
	switch o {
	case DeleteComplete:
		return "complete"
	case DeleteLocalOnly:
		return "local-only"
	default:
		return "failed"
	}
}

type DeleteResult struct {
	Outcome       DeleteOutcome
	RemoteSkipped bool
	RemoteDeleted int64
	RemoteErr     error
	Message       string
}

// Succeeded reports whether local data was removed
func (r DeleteResult) Succeeded() bool {
	return r.Outcome != DeleteFailed
}

// DeleteAllData clears the local store and credentials, then removes the
// user's mirrored documents. A local failure aborts the call before any remote
// request. A remote failure is logged and reported as DeleteLocalOnly. On
// success the reloader runs after ReloadDelay.
func (c *Controller) DeleteAllData(ctx context.Context) (DeleteResult, error) {
	if err := c.deleteLocal(); err != nil {
		logger.Error("Delete all data failed", "error", err)
		return DeleteResult{
			Outcome: DeleteFailed,
			Message: fmt.Sprintf("Failed to delete local data: %v", err),
		}, err
	}
	logger.Info("Local data deleted")

	result := DeleteResult{Outcome: DeleteComplete, Message: "All data deleted."}

	userID, ok := c.remoteUser()
	if !ok {
		result.RemoteSkipped = true
	} else {
		deleted, err := c.deleteRemote(ctx, userID)
		result.RemoteDeleted = deleted
		if err != nil {
			logger.Warn("Remote data could not be fully deleted", "error", err, "deleted", deleted)
			result.Outcome = DeleteLocalOnly
			result.RemoteErr = err
			result.Message = "Local data deleted. Cloud data could not be fully removed and may need manual cleanup."
		}
	}

	c.scheduleReload()
	return result, nil
}

func (c *Controller) deleteLocal() error {
	for _, collection := range storage.AllCollections {
		if err := c.Store.Clear(collection); err != nil {
			return fmt.Errorf("failed to clear %s: %w", collection, err)
		}
	}
	if c.Credentials != nil {
		if err := c.Credentials.ClearLocalCredentials(); err != nil {
			return fmt.Errorf("failed to clear local credentials: %w", err)
		}
	}
	return nil
}

func (c *Controller) remoteUser() (string, bool) {
	if c.Mirror == nil || c.Session == nil {
		logger.Debug("No mirror configured, skipping remote delete")
		return "", false
	}
	userID, err := c.Session.UserID()
	if err != nil {
		logger.Info("Not signed in, skipping remote delete", "reason", err)
		return "", false
	}
	return userID, true
}

// deleteRemote walks the mirrored collections one after another and stops at
// the first failure.
func (c *Controller) deleteRemote(ctx context.Context, userID string) (int64, error) {
	var total int64
	for _, collection := range storage.MirroredCollections {
		ref := mirror.CollectionRef{UserID: userID, Name: string(collection)}

		docs, err := c.Mirror.ListAll(ctx, ref)
		if err != nil {
			return total, err
		}

		ids := make([]string, len(docs))
		for i, doc := range docs {
			ids[i] = doc.ID
		}
		for _, batch := range mirror.Chunk(ids, mirror.MaxBatchSize) {
			n, err := c.Mirror.BatchDelete(ctx, ref, batch)
			total += n
			if err != nil {
				return total, err
			}
		}
		logger.Debug("Remote collection cleared", "path", ref.Path(), "documents", len(ids))
	}
	return total, nil
}

func (c *Controller) scheduleReload() {
	if c.Reloader == nil {
		return
	}
	c.afterFunc(c.ReloadDelay, func() {
		if err := c.Reloader.Reload(); err != nil {
			logger.Error("Reload after delete failed", "error", err)
		}
	})
}
