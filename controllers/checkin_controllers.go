package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yeremiapane/cleantrack/models"
	"github.com/yeremiapane/cleantrack/store"
	"github.com/yeremiapane/cleantrack/utils"
)

type CheckInController struct {
	Store *store.Adapter
}

func NewCheckInController(adapter *store.Adapter) *CheckInController {
	return &CheckInController{Store: adapter}
}

// CreateCheckIn mencatat satu check-in cleaner di sebuah location.
// Integritas referensial divalidasi saat write: departemen location harus
// sama dengan departemen cleaner — field denormalisasi kiriman klien
// tidak dipercaya.
func (cic *CheckInController) CreateCheckIn(c *gin.Context) {
	role := c.GetString("role")
	if role != models.RoleCleaner {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var req struct {
		LocationID string `json:"location_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var cleaner models.Cleaner
	if err := cic.Store.DB().First(&cleaner, "id = ?", c.GetString("actor_id")).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("cleaner tidak ditemukan"))
		return
	}

	var location models.Location
	if err := cic.Store.DB().First(&location, "id = ?", req.LocationID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if location.DepartmentID != cleaner.DepartmentID {
		utils.RespondError(c, http.StatusUnprocessableEntity,
			errors.New("location bukan milik departemen cleaner"))
		return
	}

	logEntry := models.CleaningLog{
		ID:           uuid.NewString(),
		DepartmentID: cleaner.DepartmentID,
		LocationID:   location.ID,
		CleanerID:    cleaner.ID,
		Timestamp:    time.Now().UnixMilli(),
		Status:       models.LogStatusCompleted,
	}
	if err := cic.Store.Create(store.CollectionCleaningLogs, &logEntry); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Check-in: cleaner %s at %s", cleaner.Name, location.NameEn)
	utils.RespondJSON(c, http.StatusCreated, "Check-in recorded", logEntry)
}

// GetAllCheckIns -> seluruh log departemen sesi (manager/master).
func (cic *CheckInController) GetAllCheckIns(c *gin.Context) {
	_, scope := sessionScope(c)
	if scopedDepartmentID(scope) == "" {
		utils.RespondError(c, http.StatusForbidden, ErrScopeUnresolved)
		return
	}

	snapshot, err := cic.Store.Snapshot(store.CollectionCleaningLogs, scope.Filter())
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All check-ins", snapshot)
}

// ResetCheckIns menghapus massal seluruh log satu departemen. Log tidak
// pernah dihapus satuan.
func (cic *CheckInController) ResetCheckIns(c *gin.Context) {
	role := c.GetString("role")
	deptID := c.Param("department_id")

	if role == models.RoleManager && c.GetString("department_id") != deptID {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}
	if role != models.RoleManager && role != models.RoleMaster {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	deleted, err := cic.Store.DeleteWhere(store.CollectionCleaningLogs,
		store.Filter{DepartmentID: &deptID})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Check-in reset for department %s: %d logs removed", deptID, deleted)
	utils.RespondJSON(c, http.StatusOK, "Check-ins reset", gin.H{"deleted": deleted})
}
