package cashdrawer

import (
	"context"

	"github.com/jhoicas/tienda-pos/internal/application/dto"
)

// ClosingPDFGenerator genera el comprobante PDF de un cierre diario.
type ClosingPDFGenerator interface {
	GenerateClosingPDF(ctx context.Context, businessName string, closing *dto.ClosingResponse) ([]byte, error)
}
