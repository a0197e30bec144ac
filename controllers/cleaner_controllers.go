package controllers

import (
	"fmt"
	"math/rand"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yeremiapane/cleantrack/models"
	"github.com/yeremiapane/cleantrack/store"
	"github.com/yeremiapane/cleantrack/utils"
)

type CleanerController struct {
	Store *store.Adapter
}

func NewCleanerController(adapter *store.Adapter) *CleanerController {
	return &CleanerController{Store: adapter}
}

// GetAllCleaners -> cleaner milik departemen sesi.
func (cc *CleanerController) GetAllCleaners(c *gin.Context) {
	_, scope := sessionScope(c)
	if scopedDepartmentID(scope) == "" {
		utils.RespondError(c, http.StatusForbidden, ErrScopeUnresolved)
		return
	}

	snapshot, err := cc.Store.Snapshot(store.CollectionCleaners, scope.Filter())
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of cleaners", snapshot)
}

// CreateCleaner -> manager menambah anggota tim. Departemennya harus
// masih ada saat pembuatan.
func (cc *CleanerController) CreateCleaner(c *gin.Context) {
	_, scope := sessionScope(c)
	deptID := scopedDepartmentID(scope)
	if deptID == "" || scope.ReadOnly {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var req struct {
		Name     string `json:"name" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var dept models.Department
	if err := cc.Store.DB().First(&dept, "id = ?", deptID).Error; err != nil {
		utils.RespondError(c, http.StatusUnprocessableEntity,
			fmt.Errorf("departemen %s tidak ditemukan", deptID))
		return
	}

	cleaner := models.Cleaner{
		ID:           uuid.NewString(),
		DepartmentID: deptID,
		Name:         req.Name,
		Password:     req.Password,
		// Avatar acak seperti perilaku aslinya.
		Avatar: fmt.Sprintf("https://i.pravatar.cc/150?img=%d", rand.Intn(70)+1),
	}
	if err := cc.Store.Create(store.CollectionCleaners, &cleaner); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Cleaner created", cleaner)
}

// UpdateCleaner -> edit nama/password.
func (cc *CleanerController) UpdateCleaner(c *gin.Context) {
	_, scope := sessionScope(c)
	deptID := scopedDepartmentID(scope)
	if deptID == "" || scope.ReadOnly {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	cleanerID := c.Param("cleaner_id")
	var req struct {
		Name     *string `json:"name"`
		Password *string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var cleaner models.Cleaner
	if err := cc.Store.DB().First(&cleaner, "id = ? AND department_id = ?", cleanerID, deptID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if req.Name != nil {
		cleaner.Name = *req.Name
	}
	if req.Password != nil {
		cleaner.Password = *req.Password
	}
	if err := cc.Store.Save(store.CollectionCleaners, &cleaner); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cleaner updated", cleaner)
}

// DeleteCleaner -> hapus anggota tim.
func (cc *CleanerController) DeleteCleaner(c *gin.Context) {
	_, scope := sessionScope(c)
	deptID := scopedDepartmentID(scope)
	if deptID == "" || scope.ReadOnly {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	cleanerID := c.Param("cleaner_id")
	var cleaner models.Cleaner
	if err := cc.Store.DB().First(&cleaner, "id = ? AND department_id = ?", cleanerID, deptID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := cc.Store.Delete(store.CollectionCleaners, cleaner.ID, cleaner.DepartmentID); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cleaner deleted", gin.H{"id": cleaner.ID})
}
