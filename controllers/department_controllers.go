package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yeremiapane/cleantrack/models"
	"github.com/yeremiapane/cleantrack/store"
	"github.com/yeremiapane/cleantrack/utils"
)

type DepartmentController struct {
	Store *store.Adapter
}

func NewDepartmentController(adapter *store.Adapter) *DepartmentController {
	return &DepartmentController{Store: adapter}
}

// GetAllDepartments -> daftar departemen (layar master).
func (dc *DepartmentController) GetAllDepartments(c *gin.Context) {
	snapshot, err := dc.Store.Snapshot(store.CollectionDepartments, store.Filter{})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of departments", snapshot)
}

// CreateDepartment -> master membuat tenant baru.
func (dc *DepartmentController) CreateDepartment(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		ManagerName string `json:"manager_name" binding:"required"`
		Password    string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	dept := models.Department{
		ID:          uuid.NewString(),
		Name:        req.Name,
		ManagerName: req.ManagerName,
		Password:    req.Password,
	}
	if err := dc.Store.Create(store.CollectionDepartments, &dept); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Department created: %s (%s)", dept.Name, dept.ID)
	utils.RespondJSON(c, http.StatusCreated, "Department created", dept)
}

// UpdateDepartment -> rename atau reset kredensial oleh master.
func (dc *DepartmentController) UpdateDepartment(c *gin.Context) {
	deptID := c.Param("department_id")

	var req struct {
		Name        *string `json:"name"`
		ManagerName *string `json:"manager_name"`
		Password    *string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var dept models.Department
	if err := dc.Store.DB().First(&dept, "id = ?", deptID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if req.Name != nil {
		dept.Name = *req.Name
	}
	if req.ManagerName != nil {
		dept.ManagerName = *req.ManagerName
	}
	if req.Password != nil {
		dept.Password = *req.Password
	}

	if err := dc.Store.Save(store.CollectionDepartments, &dept); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Department updated", dept)
}

// DeleteDepartment menghapus tenant root TANPA cascade: record anak
// sengaja dibiarkan (keputusan tercatat, lihat DESIGN.md). Jumlah record
// yatim ikut di respons supaya pemanggil tahu apa yang tertinggal.
func (dc *DepartmentController) DeleteDepartment(c *gin.Context) {
	deptID := c.Param("department_id")

	var dept models.Department
	if err := dc.Store.DB().First(&dept, "id = ?", deptID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var orphanCleaners, orphanLocations, orphanLogs int64
	dc.Store.DB().Model(&models.Cleaner{}).Where("department_id = ?", deptID).Count(&orphanCleaners)
	dc.Store.DB().Model(&models.Location{}).Where("department_id = ?", deptID).Count(&orphanLocations)
	dc.Store.DB().Model(&models.CleaningLog{}).Where("department_id = ?", deptID).Count(&orphanLogs)

	if err := dc.Store.Delete(store.CollectionDepartments, deptID, deptID); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Department %s deleted (orphans: %d cleaners, %d locations, %d logs)",
		deptID, orphanCleaners, orphanLocations, orphanLogs)
	utils.RespondJSON(c, http.StatusOK, "Department deleted", gin.H{
		"id": deptID,
		"orphaned": gin.H{
			"cleaners":  orphanCleaners,
			"locations": orphanLocations,
			"logs":      orphanLogs,
		},
	})
}
