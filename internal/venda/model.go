package venda

import (
	"time"

	"gorm.io/gorm"
)

// Status possíveis de uma proposta.
const (
	StatusAberta     string = "aberta"
	StatusConvertida string = "convertida"
	StatusSuspensa   string = "suspensa"
)

// EhStatusValido valida o status recebido da API.
func EhStatusValido(status string) bool {
	switch status {
	case StatusAberta, StatusConvertida, StatusSuspensa:
		return true
	}
	return false
}

// Proposta é o fato de venda agregado pelos painéis e pelo cálculo de
// progresso de metas. Valor em centavos.
type Proposta struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	VendedorID uint      `gorm:"not null;index" json:"vendedorId"`
	Cliente    string    `gorm:"size:150" json:"cliente"`
	Valor      int64     `gorm:"not null;default:0" json:"-"`
	Status     string    `gorm:"size:20;not null;default:'aberta';index" json:"status"`
	Data       time.Time `gorm:"not null;index" json:"data"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`
}

// Migrate cria a tabela de propostas.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Proposta{})
}
