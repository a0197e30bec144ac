package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/cleantrack/models"
	"github.com/yeremiapane/cleantrack/store"
	"github.com/yeremiapane/cleantrack/utils"
)

// LegacyDepartmentID adalah pemilik data pool lama dari versi sebelum
// multi-tenant. Alat migrasi master memindahkannya ke departemen resmi.
const LegacyDepartmentID = "demo-mgr"

type AdminController struct {
	Store *store.Adapter
}

func NewAdminController(adapter *store.Adapter) *AdminController {
	return &AdminController{Store: adapter}
}

// GetLegacyStats menghitung sisa data pool lama.
func (ac *AdminController) GetLegacyStats(c *gin.Context) {
	var locations, cleaners, logs int64
	ac.Store.DB().Model(&models.Location{}).Where("department_id = ?", LegacyDepartmentID).Count(&locations)
	ac.Store.DB().Model(&models.Cleaner{}).Where("department_id = ?", LegacyDepartmentID).Count(&cleaners)
	ac.Store.DB().Model(&models.CleaningLog{}).Where("department_id = ?", LegacyDepartmentID).Count(&logs)

	utils.RespondJSON(c, http.StatusOK, "Legacy pool stats", gin.H{
		"locations": locations,
		"cleaners":  cleaners,
		"logs":      logs,
	})
}

// MigrateLegacyData memindahkan kepemilikan seluruh data pool lama ke
// departemen target, per potongan 450 baris.
func (ac *AdminController) MigrateLegacyData(c *gin.Context) {
	var req struct {
		TargetDepartmentID string `json:"target_department_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var dept models.Department
	if err := ac.Store.DB().First(&dept, "id = ?", req.TargetDepartmentID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	moved, err := ac.Store.ReassignDepartment(LegacyDepartmentID, dept.ID, 450)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Legacy migration: %d records moved to %s", moved, dept.ID)
	utils.RespondJSON(c, http.StatusOK, "Legacy data migrated", gin.H{"moved": moved})
}
