package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/cleantrack/models"
	"github.com/yeremiapane/cleantrack/services"
)

var (
	ErrNoPermission    = errors.New("anda tidak punya izin untuk aksi ini")
	ErrScopeUnresolved = errors.New("scope departemen tidak bisa ditentukan")
)

// sessionScope membangun scope dari context sesi. Untuk master, drill ke
// satu departemen dinyatakan lewat query param department_id.
func sessionScope(c *gin.Context) (string, *services.Scope) {
	role := c.GetString("role")
	identity := services.Identity{
		ActorID:      c.GetString("actor_id"),
		DepartmentID: c.GetString("department_id"),
	}
	if role == models.RoleMaster {
		identity.DepartmentID = c.Query("department_id")
	}
	return role, services.ResolveScope(role, identity)
}

// scopedDepartmentID mengembalikan departemen efektif sesi, atau "" kalau
// sesi tidak ter-scope ke satu departemen.
func scopedDepartmentID(scope *services.Scope) string {
	if scope == nil || scope.DepartmentID == nil {
		return ""
	}
	return *scope.DepartmentID
}
