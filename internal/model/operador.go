package model

import "time"

// Operador is the logged-in user of a terminal. It is hydrated on login from
// the backend-issued token and cleared on logout; services receive it
// explicitly instead of reading ambient state.
// Rol: "cajero" | "supervisor" | "administrador"
type Operador struct {
	UsuarioID   string    `json:"usuario_id"`
	Nombre      string    `json:"nombre"`
	Rol         string    `json:"rol"`
	Token       string    `json:"token"`
	Terminal    string    `json:"terminal"`
	ExpiraEn    time.Time `json:"expira_en"`
	HidratadoEn time.Time `json:"hidratado_en"`
}

// Vigente reports whether the operator's token is still usable at now.
func (o Operador) Vigente(now time.Time) bool {
	return o.ExpiraEn.IsZero() || now.Before(o.ExpiraEn)
}
