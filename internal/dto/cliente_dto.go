package dto

type CrearClienteRequest struct {
	Nombre    string  `json:"nombre"    validate:"required,max=100"`
	Apellido  *string `json:"apellido"  validate:"omitempty,max=100"`
	Email     *string `json:"email"     validate:"omitempty,email"`
	Telefono  *string `json:"telefono"  validate:"omitempty,max=20"`
	Direccion *string `json:"direccion" validate:"omitempty,max=200"`
}

type ActualizarClienteRequest struct {
	Nombre    *string `json:"nombre"    validate:"omitempty,max=100"`
	Apellido  *string `json:"apellido"  validate:"omitempty,max=100"`
	Email     *string `json:"email"     validate:"omitempty,email"`
	Telefono  *string `json:"telefono"  validate:"omitempty,max=20"`
	Direccion *string `json:"direccion" validate:"omitempty,max=200"`
}

type ClienteFilter struct {
	Nombre string `form:"nombre"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ClienteResponse struct {
	ID        string  `json:"id"`
	Nombre    string  `json:"nombre"`
	Apellido  *string `json:"apellido,omitempty"`
	Email     *string `json:"email,omitempty"`
	Telefono  *string `json:"telefono,omitempty"`
	Direccion *string `json:"direccion,omitempty"`
	CreatedAt string  `json:"created_at"`
}

type ClienteListResponse struct {
	Data  []ClienteResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
