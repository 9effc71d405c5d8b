package dto

type UserDTO struct {
	RowIndex    int      `json:"rowIndex"`
	Username    string   `json:"username"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	HasPassword bool     `json:"hasPassword"`
}

// CreateUserDTO: permissions - список флагов или ["all"].
type CreateUserDTO struct {
	SubmitMeta
	Username    string   `json:"username" validate:"required,min=2,max=64"`
	Role        string   `json:"role" validate:"required,oneof=admin user"`
	Permissions []string `json:"permissions" validate:"required,min=1"`
	Password    string   `json:"password" validate:"omitempty,min=6"`
}
