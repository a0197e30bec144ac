package controllers

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/cleantrack/models"
	"github.com/yeremiapane/cleantrack/services"
	"github.com/yeremiapane/cleantrack/store"
	"github.com/yeremiapane/cleantrack/utils"
	"gorm.io/gorm"
)

type AuthController struct {
	Store *store.Adapter
}

func NewAuthController(adapter *store.Adapter) *AuthController {
	return &AuthController{Store: adapter}
}

func masterPassword() string {
	if p := os.Getenv("MASTER_PASSWORD"); p != "" {
		return p
	}
	return "admin123"
}

// Login menukar kredensial dengan token sesi. Perbandingan password
// dilakukan plain, mengikuti sistem sumbernya — pengerasan autentikasi
// di luar cakupan layanan ini.
func (ac *AuthController) Login(c *gin.Context) {
	type request struct {
		Role         string `json:"role" binding:"required"`
		DepartmentID string `json:"department_id"`
		CleanerID    string `json:"cleaner_id"`
		Password     string `json:"password" binding:"required"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	invalid := errors.New("kredensial tidak valid")

	switch req.Role {
	case models.RoleMaster:
		if req.Password != masterPassword() {
			utils.RespondError(c, http.StatusUnauthorized, invalid)
			return
		}
		token, err := utils.GenerateToken("master", models.RoleMaster, "", "Master Admin")
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		utils.RespondJSON(c, http.StatusOK, "Login berhasil", gin.H{"token": token, "role": req.Role})

	case models.RoleManager:
		var dept models.Department
		if err := ac.Store.DB().First(&dept, "id = ?", req.DepartmentID).Error; err != nil {
			utils.RespondError(c, http.StatusUnauthorized, invalid)
			return
		}
		if dept.Password != req.Password {
			utils.RespondError(c, http.StatusUnauthorized, invalid)
			return
		}
		token, err := utils.GenerateToken(dept.ID, models.RoleManager, dept.ID, dept.ManagerName)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		utils.RespondJSON(c, http.StatusOK, "Login berhasil", gin.H{
			"token": token, "role": req.Role, "department": dept,
		})

	case models.RoleCleaner:
		var cleaner models.Cleaner
		if err := ac.Store.DB().First(&cleaner, "id = ?", req.CleanerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondError(c, http.StatusUnauthorized, invalid)
				return
			}
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		if cleaner.Password != req.Password {
			utils.RespondError(c, http.StatusUnauthorized, invalid)
			return
		}
		token, err := utils.GenerateToken(cleaner.ID, models.RoleCleaner, cleaner.DepartmentID, cleaner.Name)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		utils.RespondJSON(c, http.StatusOK, "Login berhasil", gin.H{
			"token": token, "role": req.Role, "cleaner": cleaner,
		})

	default:
		utils.RespondError(c, http.StatusBadRequest, errors.New("role tidak dikenal"))
	}
}

// Directory adalah satu-satunya read unscoped tanpa login: daftar cleaner
// untuk identifikasi diri di layar login. Hanya field publik yang keluar;
// koleksi lain tidak pernah lewat jalur ini.
func (ac *AuthController) Directory(c *gin.Context) {
	scope := services.ResolveScope("", services.Identity{})
	if scope == nil || !scope.Directory {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	snapshot, err := ac.Store.Snapshot(store.CollectionCleaners, scope.Filter())
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	cleaners := snapshot.([]models.Cleaner)

	type entry struct {
		ID           string `json:"id"`
		DepartmentID string `json:"department_id"`
		Name         string `json:"name"`
		Avatar       string `json:"avatar"`
	}
	out := make([]entry, 0, len(cleaners))
	for _, cl := range cleaners {
		out = append(out, entry{ID: cl.ID, DepartmentID: cl.DepartmentID, Name: cl.Name, Avatar: cl.Avatar})
	}
	utils.RespondJSON(c, http.StatusOK, "Cleaner directory", out)
}
