package backend

import (
	"encoding/json"
	"net/http"
)

// errorResponse is the unified error document
type errorResponse struct {
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Error messages returned to clients
const (
	msgUnauthenticated   = "Usuario no autenticado o token inválido"
	msgVolunteerNotFound = "Usuario no encontrado"
	msgInvalidBody       = "Cuerpo de la petición inválido"
	msgInvalidUpdate     = "Datos de perfil inválidos"
	msgUnknownCategory   = "Categoría desconocida"
	msgInternal          = "Error interno"
	msgUpdateFailed      = "Error al actualizar perfil"
	msgProfileUpdated    = "Perfil actualizado correctamente"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, details any) {
	writeJSON(w, status, errorResponse{
		Status:  "error",
		Code:    status,
		Message: message,
		Details: details,
	})
}
