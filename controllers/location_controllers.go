package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yeremiapane/cleantrack/models"
	"github.com/yeremiapane/cleantrack/store"
	"github.com/yeremiapane/cleantrack/utils"
)

var errTargetTooLow = errors.New("target_daily_frequency minimal 1")

type LocationController struct {
	Store *store.Adapter
}

func NewLocationController(adapter *store.Adapter) *LocationController {
	return &LocationController{Store: adapter}
}

// GetAllLocations -> location milik departemen sesi (cleaner boleh baca).
func (lc *LocationController) GetAllLocations(c *gin.Context) {
	_, scope := sessionScope(c)
	if scopedDepartmentID(scope) == "" {
		utils.RespondError(c, http.StatusForbidden, ErrScopeUnresolved)
		return
	}

	snapshot, err := lc.Store.Snapshot(store.CollectionLocations, scope.Filter())
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of locations", snapshot)
}

// CreateLocation -> manager/master menambah titik kebersihan baru.
func (lc *LocationController) CreateLocation(c *gin.Context) {
	_, scope := sessionScope(c)
	deptID := scopedDepartmentID(scope)
	if deptID == "" || scope.ReadOnly {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var req struct {
		NameEn               string `json:"name_en"`
		NameZh               string `json:"name_zh" binding:"required"`
		Zone                 string `json:"zone"`
		TargetDailyFrequency int    `json:"target_daily_frequency" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.TargetDailyFrequency < 1 {
		utils.RespondError(c, http.StatusBadRequest, errTargetTooLow)
		return
	}
	if req.NameEn == "" {
		req.NameEn = req.NameZh
	}
	if req.Zone == "" {
		req.Zone = "General"
	}

	location := models.Location{
		ID:                   uuid.NewString(),
		DepartmentID:         deptID,
		NameEn:               req.NameEn,
		NameZh:               req.NameZh,
		Zone:                 req.Zone,
		TargetDailyFrequency: req.TargetDailyFrequency,
	}
	if err := lc.Store.Create(store.CollectionLocations, &location); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Location created", location)
}

// UpdateLocation -> edit nama/zona/target.
func (lc *LocationController) UpdateLocation(c *gin.Context) {
	_, scope := sessionScope(c)
	deptID := scopedDepartmentID(scope)
	if deptID == "" || scope.ReadOnly {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	locationID := c.Param("location_id")
	var req struct {
		NameEn               *string `json:"name_en"`
		NameZh               *string `json:"name_zh"`
		Zone                 *string `json:"zone"`
		TargetDailyFrequency *int    `json:"target_daily_frequency"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var location models.Location
	if err := lc.Store.DB().First(&location, "id = ? AND department_id = ?", locationID, deptID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if req.NameEn != nil {
		location.NameEn = *req.NameEn
	}
	if req.NameZh != nil {
		location.NameZh = *req.NameZh
	}
	if req.Zone != nil {
		location.Zone = *req.Zone
	}
	if req.TargetDailyFrequency != nil {
		if *req.TargetDailyFrequency < 1 {
			utils.RespondError(c, http.StatusBadRequest, errTargetTooLow)
			return
		}
		location.TargetDailyFrequency = *req.TargetDailyFrequency
	}

	if err := lc.Store.Save(store.CollectionLocations, &location); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Location updated", location)
}

// DeleteLocation hanya untuk master yang sedang drill ke departemen.
// Manager diarahkan ke deletion workflow dan tidak pernah menghapus
// langsung.
func (lc *LocationController) DeleteLocation(c *gin.Context) {
	role, scope := sessionScope(c)
	deptID := scopedDepartmentID(scope)
	if deptID == "" {
		utils.RespondError(c, http.StatusForbidden, ErrScopeUnresolved)
		return
	}
	if scope.ReadOnly || !scope.DirectLocationDelete {
		if role == models.RoleManager {
			utils.RespondError(c, http.StatusForbidden,
				errors.New("penghapusan location butuh persetujuan master: buat deletion request"))
			return
		}
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	locationID := c.Param("location_id")
	var location models.Location
	if err := lc.Store.DB().First(&location, "id = ? AND department_id = ?", locationID, deptID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := lc.Store.Delete(store.CollectionLocations, location.ID, location.DepartmentID); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Location %s deleted directly by master", location.ID)
	utils.RespondJSON(c, http.StatusOK, "Location deleted", gin.H{"id": location.ID})
}
