package worker

// recibo_worker.go
// Generates the PDF receipt for a completed sale and, when the customer left
// an email, sends it as an attachment. Receipts are a convenience artifact:
// failures are logged, never retried against the sale itself.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/19kjuan/invetario-proyecto/internal/infra"
	"github.com/19kjuan/invetario-proyecto/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type ReciboWorker struct {
	ventaRepo      repository.VentaRepository
	mailer         *infra.Mailer
	pdfStoragePath string
}

func NewReciboWorker(ventaRepo repository.VentaRepository, mailer *infra.Mailer, pdfStoragePath string) *ReciboWorker {
	return &ReciboWorker{ventaRepo: ventaRepo, mailer: mailer, pdfStoragePath: pdfStoragePath}
}

func (w *ReciboWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReciboJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("recibo_worker: invalid payload")
		return
	}

	ventaID, err := uuid.Parse(payload.VentaID)
	if err != nil {
		log.Error().Str("venta_id", payload.VentaID).Msg("recibo_worker: invalid venta_id")
		return
	}

	venta, err := w.ventaRepo.FindByID(ctx, ventaID)
	if err != nil {
		log.Error().Err(err).Str("venta_id", payload.VentaID).Msg("recibo_worker: venta not found")
		return
	}

	pdfPath, err := infra.GenerateReciboPDF(venta, w.pdfStoragePath)
	if err != nil {
		log.Error().Err(err).Int("numero", venta.Numero).Msg("recibo_worker: PDF generation failed")
		return
	}
	log.Info().Int("numero", venta.Numero).Str("pdf", pdfPath).Msg("recibo generado")

	if payload.ClienteEmail == nil || *payload.ClienteEmail == "" || w.mailer == nil {
		return
	}

	subject := fmt.Sprintf("Recibo de compra #%d", venta.Numero)
	body := fmt.Sprintf("Gracias por su compra. Adjuntamos el recibo #%d por $%s.",
		venta.Numero, venta.Total.StringFixed(2))
	if err := w.mailer.Send(*payload.ClienteEmail, subject, body, pdfPath); err != nil {
		log.Error().Err(err).Int("numero", venta.Numero).Msg("recibo_worker: email failed")
	}
}
