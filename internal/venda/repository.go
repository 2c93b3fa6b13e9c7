package venda

import (
	"time"

	"gorm.io/gorm"
)

// Métricas agregáveis sobre os fatos de venda.
type Metrica string

const (
	MetricaPropostas   Metrica = "propostas"
	MetricaConvertidas Metrica = "convertidas"
	MetricaFaturamento Metrica = "faturamento"
)

type Repository interface {
	Salvar(db *gorm.DB, p *Proposta) error
	BuscarPorID(db *gorm.DB, id uint) (*Proposta, error)
	ListarPorVendedor(db *gorm.DB, vendedorID uint) ([]Proposta, error)
	Atualizar(db *gorm.DB, p *Proposta) error
	Deletar(db *gorm.DB, id uint) error
	AgregarFatos(db *gorm.DB, membroIDs []uint, inicio, fim time.Time, metrica Metrica) (int64, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Salvar(db *gorm.DB, p *Proposta) error {
	return db.Create(p).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Proposta, error) {
	var p Proposta
	if err := db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repositoryImpl) ListarPorVendedor(db *gorm.DB, vendedorID uint) ([]Proposta, error) {
	var list []Proposta
	err := db.Where("vendedor_id = ?", vendedorID).Order("data").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) Atualizar(db *gorm.DB, p *Proposta) error {
	return db.Save(p).Error
}

func (r *repositoryImpl) Deletar(db *gorm.DB, id uint) error {
	return db.Delete(&Proposta{}, id).Error
}

// AgregarFatos consolida os fatos dos membros no período fechado
// [inicio, fim]. Propostas suspensas nunca contam como convertidas nem
// entram no faturamento. Retorna contagens ×100 e somas em centavos, para a
// aritmética de progresso trabalhar sempre em centi-unidades.
func (r *repositoryImpl) AgregarFatos(db *gorm.DB, membroIDs []uint, inicio, fim time.Time, metrica Metrica) (int64, error) {
	if len(membroIDs) == 0 {
		return 0, nil
	}

	base := db.Model(&Proposta{}).
		Where("vendedor_id IN ?", membroIDs).
		Where("data >= ? AND data <= ?", inicio, fim)

	switch metrica {
	case MetricaPropostas:
		var total int64
		if err := base.Count(&total).Error; err != nil {
			return 0, err
		}
		return total * 100, nil

	case MetricaConvertidas:
		var total int64
		err := base.Where("status = ?", StatusConvertida).Count(&total).Error
		if err != nil {
			return 0, err
		}
		return total * 100, nil

	case MetricaFaturamento:
		var soma *int64
		err := base.Where("status = ?", StatusConvertida).
			Select("SUM(valor)").Scan(&soma).Error
		if err != nil {
			return 0, err
		}
		if soma == nil {
			return 0, nil
		}
		return *soma, nil
	}
	return 0, nil
}
