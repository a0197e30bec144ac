package services

import (
	"github.com/yeremiapane/cleantrack/models"
	"github.com/yeremiapane/cleantrack/store"
)

// Identity adalah jati diri sesi hasil decode token. Untuk master,
// DepartmentID berisi departemen yang sedang di-drill (kosong = layar
// daftar departemen).
type Identity struct {
	ActorID      string
	DepartmentID string
}

// Scope menentukan filter tenant dan koleksi yang boleh dibaca sesi ini.
// DepartmentID nil berarti query tanpa filter.
type Scope struct {
	DepartmentID *string
	Collections  []string
	ReadOnly     bool
	// DirectLocationDelete: boleh menghapus location tanpa lewat
	// deletion workflow (hanya master yang sedang drill).
	DirectLocationDelete bool
	// Directory menandai satu-satunya read unscoped yang disengaja:
	// daftar cleaner untuk identifikasi diri saat login.
	Directory bool
}

func (s *Scope) Filter() store.Filter {
	if s == nil {
		return store.Filter{}
	}
	return store.Filter{DepartmentID: s.DepartmentID}
}

// ResolveScope memetakan (role, identity) ke scope akses. Pasangan yang
// tidak valid atau basi menghasilkan nil: tanpa scope, tanpa akses —
// pemanggil wajib memperlakukan nil sebagai "jangan subscribe apa pun".
func ResolveScope(role string, identity Identity) *Scope {
	switch role {
	case models.RoleCleaner:
		if identity.DepartmentID == "" {
			return nil
		}
		dept := identity.DepartmentID
		return &Scope{
			DepartmentID: &dept,
			Collections:  []string{store.CollectionLocations},
			ReadOnly:     true,
		}
	case models.RoleManager:
		if identity.DepartmentID == "" {
			return nil
		}
		dept := identity.DepartmentID
		return &Scope{
			DepartmentID: &dept,
			Collections: []string{
				store.CollectionCleaners,
				store.CollectionLocations,
				store.CollectionCleaningLogs,
			},
		}
	case models.RoleMaster:
		if identity.DepartmentID == "" {
			// Layar daftar departemen: koleksi global saja.
			return &Scope{
				Collections: []string{
					store.CollectionDepartments,
					store.CollectionDeletionRequests,
				},
			}
		}
		dept := identity.DepartmentID
		return &Scope{
			DepartmentID: &dept,
			Collections: []string{
				store.CollectionCleaners,
				store.CollectionLocations,
				store.CollectionCleaningLogs,
			},
			DirectLocationDelete: true,
		}
	case "":
		// Belum login: direktori cleaner untuk layar login. Tidak boleh
		// dipakai ulang untuk koleksi lain.
		return &Scope{
			Collections: []string{store.CollectionCleaners},
			ReadOnly:    true,
			Directory:   true,
		}
	}
	return nil
}
