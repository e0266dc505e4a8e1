package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paraverse/backend/internal/auth"
	"github.com/paraverse/backend/internal/database"
	"github.com/paraverse/backend/internal/models"
	"github.com/paraverse/backend/internal/util"
)

// GetAdminRoles returns the roles record, admin only
// GET /api/v1/admin/roles
func (h *Handlers) GetAdminRoles(c *gin.Context) {
	roles, err := auth.LoadAdminRoles()
	if err != nil {
		util.RespondInternalError(c, "Failed to load roles")
		return
	}
	c.JSON(http.StatusOK, roles)
}

// GrantAdminRequest names the user to grant or revoke
type GrantAdminRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// GrantAdmin adds a user to the admin list, admin only
// POST /api/v1/admin/roles
func (h *Handlers) GrantAdmin(c *gin.Context) {
	var req GrantAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", req.UserID).Error; err != nil {
		util.HandleDBError(c, err, "user")
		return
	}

	if err := auth.GrantAdmin(req.UserID); err != nil {
		util.RespondInternalError(c, "Failed to grant admin")
		return
	}

	roles, err := auth.LoadAdminRoles()
	if err != nil {
		util.RespondInternalError(c, "Failed to load roles")
		return
	}
	c.JSON(http.StatusOK, roles)
}

// RevokeAdmin removes a user from the admin list, admin only
// DELETE /api/v1/admin/roles/:userId
func (h *Handlers) RevokeAdmin(c *gin.Context) {
	if err := auth.RevokeAdmin(c.Param("userId")); err != nil {
		util.RespondInternalError(c, "Failed to revoke admin")
		return
	}

	roles, err := auth.LoadAdminRoles()
	if err != nil {
		util.RespondInternalError(c, "Failed to load roles")
		return
	}
	c.JSON(http.StatusOK, roles)
}
