package dto

// ListRequest límite de filas para listados recientes.
type ListRequest struct {
	Limit int `query:"limit" validate:"min=0,max=5000"`
}

// DefaultLimit aplica def si Limit es cero o negativo.
func (p *ListRequest) DefaultLimit(def int) {
	if p.Limit <= 0 {
		p.Limit = def
	}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
