package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// LoginRequest carries the access token issued by the backend's login.
type LoginRequest struct {
	Token string `json:"token" validate:"required,min=10"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type OperadorResponse struct {
	UsuarioID string `json:"usuario_id"`
	Nombre    string `json:"nombre"`
	Rol       string `json:"rol"`
	Terminal  string `json:"terminal"`
	ExpiraEn  string `json:"expira_en,omitempty"`
}
