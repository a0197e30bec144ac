package models

const (
	RoleMaster  = "master"
	RoleManager = "manager"
	RoleCleaner = "cleaner"
)
