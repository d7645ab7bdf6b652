package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeSubscriptionCompleted = "subscription.completed"
	EventTypeInvoicePaid           = "invoice.paid"
	EventTypeManifestDecided       = "manifest.decided"
)

type SubscriptionCompletedEvent struct {
	BaseEvent
	TransaksiID     int64 `json:"transaksi_id"`
	UserID          int64 `json:"user_id"`
	EnvipoinAwarded int64 `json:"envipoin_awarded"`
}

func NewSubscriptionCompletedEvent(transaksiID, userID, envipoinAwarded int64) *SubscriptionCompletedEvent {
	return &SubscriptionCompletedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeSubscriptionCompleted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"transaksi_id":     transaksiID,
				"user_id":          userID,
				"envipoin_awarded": envipoinAwarded,
			},
		},
		TransaksiID:     transaksiID,
		UserID:          userID,
		EnvipoinAwarded: envipoinAwarded,
	}
}

type InvoicePaidEvent struct {
	BaseEvent
	InvoiceID    int64  `json:"invoice_id"`
	TransaksiID  int64  `json:"transaksi_id"`
	UserID       int64  `json:"user_id"`
	NomorInvoice string `json:"nomor_invoice"`
	Jumlah       int64  `json:"jumlah"`
	StatusAkhir  string `json:"status_akhir"`
}

func NewInvoicePaidEvent(invoiceID, transaksiID, userID int64, nomorInvoice string, jumlah int64, statusAkhir string) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeInvoicePaid,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"invoice_id":    invoiceID,
				"transaksi_id":  transaksiID,
				"user_id":       userID,
				"nomor_invoice": nomorInvoice,
				"jumlah":        jumlah,
				"status_akhir":  statusAkhir,
			},
		},
		InvoiceID:    invoiceID,
		TransaksiID:  transaksiID,
		UserID:       userID,
		NomorInvoice: nomorInvoice,
		Jumlah:       jumlah,
		StatusAkhir:  statusAkhir,
	}
}

type ManifestDecidedEvent struct {
	BaseEvent
	ManifestID     int64  `json:"manifest_id"`
	PengangkutanID int64  `json:"pengangkutan_id"`
	UserID         int64  `json:"user_id"`
	Decision       string `json:"decision"`
	DecidedBy      int64  `json:"decided_by"`
}

func NewManifestDecidedEvent(manifestID, pengangkutanID, userID int64, decision string, decidedBy int64) *ManifestDecidedEvent {
	return &ManifestDecidedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeManifestDecided,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"manifest_id":     manifestID,
				"pengangkutan_id": pengangkutanID,
				"user_id":         userID,
				"decision":        decision,
				"decided_by":      decidedBy,
			},
		},
		ManifestID:     manifestID,
		PengangkutanID: pengangkutanID,
		UserID:         userID,
		Decision:       decision,
		DecidedBy:      decidedBy,
	}
}
