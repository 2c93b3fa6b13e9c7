package meta

import (
	"time"

	"gorm.io/gorm"
)

// Tipos de meta reconhecidos.
const (
	TipoPropostas   string = "propostas"   // quantidade de propostas
	TipoVendas      string = "vendas"      // quantidade de vendas convertidas
	TipoFaturamento string = "faturamento" // soma de receita
	TipoConversao   string = "conversao"   // percentual de conversão
)

// EhTipoValido valida o tipo de meta recebido da API.
func EhTipoValido(tipo string) bool {
	switch tipo {
	case TipoPropostas, TipoVendas, TipoFaturamento, TipoConversao:
		return true
	}
	return false
}

// MetaEquipe é a meta agregada de um líder, distribuída depois em metas
// individuais. ValorAlvo é armazenado em centavos (centi-unidades para tipos
// de contagem e percentual), nunca em ponto flutuante.
type MetaEquipe struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	LiderID     uint      `gorm:"not null;index" json:"liderId"`
	Tipo        string    `gorm:"size:20;not null;index" json:"tipo"`
	ValorAlvo   int64     `gorm:"not null" json:"-"`
	Inicio      time.Time `gorm:"not null" json:"inicio"`
	Fim         time.Time `gorm:"not null" json:"fim"`
	CriadoPorID uint      `gorm:"not null" json:"criadoPorId"`
	Distribuida bool      `gorm:"not null;default:false" json:"distribuida"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`
}

// MetaIndividual é a meta de um membro. SupervisorID aponta o líder cuja
// distribuição a gerou; nulo quando a meta foi definida de forma avulsa.
// O índice único em (membro, supervisor, tipo, início) é o anteparo contra
// corridas entre a checagem de duplicidade e a gravação; é parcial sobre as
// linhas vivas para que metas removidas não bloqueiem uma nova distribuição
// do mesmo período.
type MetaIndividual struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	MembroID     uint      `gorm:"not null;index;uniqueIndex:ux_meta_individual_periodo,where:deleted_at IS NULL" json:"membroId"`
	SupervisorID *uint     `gorm:"index;uniqueIndex:ux_meta_individual_periodo" json:"supervisorId"`
	Tipo         string    `gorm:"size:20;not null;uniqueIndex:ux_meta_individual_periodo" json:"tipo"`
	ValorAlvo    int64     `gorm:"not null" json:"-"`
	Inicio       time.Time `gorm:"not null;uniqueIndex:ux_meta_individual_periodo" json:"inicio"`
	Fim          time.Time `gorm:"not null" json:"fim"`
	CriadoPorID  uint      `gorm:"not null" json:"criadoPorId"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`
}

// Migrate cria as tabelas de metas.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&MetaEquipe{}, &MetaIndividual{})
}
