package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/cleantrack/models"
	"github.com/yeremiapane/cleantrack/realtime"
	"github.com/yeremiapane/cleantrack/services"
	"github.com/yeremiapane/cleantrack/store"
	"github.com/yeremiapane/cleantrack/utils"
)

type DeletionRequestController struct {
	Store    *store.Adapter
	Workflow *services.DeletionWorkflow
	Hub      *realtime.Hub
}

func NewDeletionRequestController(adapter *store.Adapter, workflow *services.DeletionWorkflow, hub *realtime.Hub) *DeletionRequestController {
	return &DeletionRequestController{Store: adapter, Workflow: workflow, Hub: hub}
}

// CreateDeletionRequest -> manager minta persetujuan hapus location.
// Nama location ditangkap sekarang (denormalisasi) supaya tetap tampil
// setelah location-nya hilang.
func (drc *DeletionRequestController) CreateDeletionRequest(c *gin.Context) {
	if c.GetString("role") != models.RoleManager {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}
	deptID := c.GetString("department_id")

	var req struct {
		LocationID string `json:"location_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var location models.Location
	if err := drc.Store.DB().First(&location, "id = ? AND department_id = ?", req.LocationID, deptID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var dept models.Department
	if err := drc.Store.DB().First(&dept, "id = ?", deptID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	request, err := drc.Workflow.Request(location.ID, location.NameEn, deptID, dept.ManagerName, dept.Name)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	// Kabari sesi master yang sedang terbuka; antrean persetujuan mereka
	// bertambah satu.
	drc.Hub.BroadcastNotice(models.RoleMaster,
		fmt.Sprintf("Permintaan hapus location %s dari %s menunggu persetujuan",
			location.NameEn, dept.Name))

	utils.RespondJSON(c, http.StatusCreated, "Deletion request submitted", request)
}

// GetAllDeletionRequests -> antrean global milik master.
func (drc *DeletionRequestController) GetAllDeletionRequests(c *gin.Context) {
	snapshot, err := drc.Store.Snapshot(store.CollectionDeletionRequests, store.Filter{})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Deletion requests", snapshot)
}

// ResolveDeletionRequest -> master setuju/tolak, tepat sekali.
func (drc *DeletionRequestController) ResolveDeletionRequest(c *gin.Context) {
	var req struct {
		Approve *bool `json:"approve" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	request, err := drc.Workflow.Resolve(c.Param("request_id"), *req.Approve)
	if err != nil {
		if errors.Is(err, services.ErrRequestNotFound) {
			utils.RespondError(c, http.StatusNotFound, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Deletion request resolved", request)
}
