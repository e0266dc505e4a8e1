package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paraverse/backend/internal/database"
	"github.com/paraverse/backend/internal/feed"
	"github.com/paraverse/backend/internal/models"
	"github.com/paraverse/backend/internal/util"
)

// UploadEntityImage is the second phase of the create-then-attach image flow:
// the entity is created without an image, then the client posts the file here
// and the stored URL is patched onto the row. Re-uploading replaces the object
// under the same key.
// POST /api/v1/<kind>/:id/image
func (h *Handlers) UploadEntityImage(kind models.EntityKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := util.GetUserIDFromContext(c)
		if !ok {
			return
		}
		if h.uploader == nil {
			util.RespondInternalError(c, "Image uploads are not configured")
			return
		}

		entityID := c.Param("id")
		ownerID, found, err := entityOwner(kind, entityID)
		if err != nil {
			util.RespondInternalError(c, "Failed to verify entity")
			return
		}
		if !found {
			util.RespondNotFound(c, string(kind))
			return
		}
		if !feed.CanManage(ownerID, userID, util.IsAdminFromContext(c)) {
			util.RespondForbidden(c, "only the author or an admin can change this image")
			return
		}

		data, fileHeader, ok := readImageUpload(c)
		if !ok {
			return
		}

		result, err := h.uploader.UploadEntityImage(c.Request.Context(), data, string(kind), entityID, fileHeader.Filename)
		if err != nil {
			util.RespondInternalError(c, "Failed to store image")
			return
		}

		table, ok := entityTables[kind]
		if !ok {
			util.RespondInternalError(c, "Unknown entity kind")
			return
		}
		err = database.DB.Table(table).
			Where("id = ?", entityID).
			Update("image_url", result.URL).Error
		if err != nil {
			util.RespondInternalError(c, "Failed to attach image")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"image_url": result.URL,
			"key":       result.Key,
			"size":      result.Size,
		})
	}
}
