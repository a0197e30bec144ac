package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/cleantrack/models"
	"github.com/yeremiapane/cleantrack/stats"
	"github.com/yeremiapane/cleantrack/store"
	"github.com/yeremiapane/cleantrack/utils"
)

type ReportController struct {
	Store *store.Adapter
}

func NewReportController(adapter *store.Adapter) *ReportController {
	return &ReportController{Store: adapter}
}

// parseRange membaca ?start=YYYY-MM-DD&end=YYYY-MM-DD pada zona waktu
// lokal. Kosong dua-duanya = hari ini.
func parseRange(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now()
	start, end := now, now

	if s := c.Query("start"); s != "" {
		parsed, err := time.ParseInLocation("2006-01-02", s, time.Local)
		if err != nil {
			return start, end, errors.New("format start tidak valid, pakai YYYY-MM-DD")
		}
		start = parsed
	}
	if e := c.Query("end"); e != "" {
		parsed, err := time.ParseInLocation("2006-01-02", e, time.Local)
		if err != nil {
			return start, end, errors.New("format end tidak valid, pakai YYYY-MM-DD")
		}
		end = parsed
	}
	return start, end, nil
}

// GetCompliance -> laporan kepatuhan departemen sesi untuk satu rentang.
// Rentang tidak valid ditolak sebelum ada angka yang dihitung.
func (rc *ReportController) GetCompliance(c *gin.Context) {
	_, scope := sessionScope(c)
	if scopedDepartmentID(scope) == "" {
		utils.RespondError(c, http.StatusForbidden, ErrScopeUnresolved)
		return
	}

	start, end, err := parseRange(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	locSnap, err := rc.Store.Snapshot(store.CollectionLocations, scope.Filter())
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	logSnap, err := rc.Store.Snapshot(store.CollectionCleaningLogs, scope.Filter())
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	report, err := stats.Aggregate(locSnap.([]models.Location), logSnap.([]models.CleaningLog), start, end)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Compliance report", report)
}

// GetLocationDetail -> drill-down aktivitas satu location dalam rentang,
// dengan nama cleaner ter-resolve.
func (rc *ReportController) GetLocationDetail(c *gin.Context) {
	_, scope := sessionScope(c)
	if scopedDepartmentID(scope) == "" {
		utils.RespondError(c, http.StatusForbidden, ErrScopeUnresolved)
		return
	}

	start, end, err := parseRange(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	logSnap, err := rc.Store.Snapshot(store.CollectionCleaningLogs, scope.Filter())
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	cleanerSnap, err := rc.Store.Snapshot(store.CollectionCleaners, scope.Filter())
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	entries, err := stats.LocationDetail(
		logSnap.([]models.CleaningLog),
		cleanerSnap.([]models.Cleaner),
		c.Param("location_id"), start, end)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Location activity", entries)
}
