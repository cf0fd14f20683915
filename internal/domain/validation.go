package domain

import (
	"fmt"
	"strings"
)

// RootPath es el path usado cuando el fallo no pertenece a ningun campo
// concreto (texto que ni siquiera parsea como JSON).
const RootPath = "<root>"

// Violation describe un constraint incumplido en un campo concreto.
type Violation struct {
	Path       string `json:"path"`
	Value      any    `json:"value"`
	Constraint string `json:"constraint"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s (got %v)", v.Path, v.Constraint, v.Value)
}

// ViolationReport es la lista ordenada de violaciones de un intento de
// validacion. Vacia significa exito; nunca se corta en el primer error
// para que el caller tenga el diagnostico completo.
type ViolationReport []Violation

// OK indica si la validacion paso sin violaciones.
func (r ViolationReport) OK() bool {
	return len(r) == 0
}

// Render produce el listado legible "path: motivo" que consumen el CLI,
// las respuestas HTTP y los prompts correctivos.
func (r ViolationReport) Render() string {
	if len(r) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, v := range r {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("- ")
		sb.WriteString(v.String())
	}
	return sb.String()
}
