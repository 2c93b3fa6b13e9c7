package meta

import (
	"strings"
	"time"

	"github.com/VorticeComercial/api-metas/internal/utils"
	"gorm.io/gorm"
)

// Repository encapsula as operações de banco para metas. Todos os métodos
// recebem o handle de banco do chamador, que pode ser uma transação aberta
// pelo serviço de distribuição.
type Repository interface {
	ExisteMetaEquipeSobreposta(db *gorm.DB, liderID uint, tipo string, inicio, fim time.Time, excluirID uint) (bool, error)
	ExisteMetaIndividualSobreposta(db *gorm.DB, membroID uint, supervisorID *uint, tipo string, inicio, fim time.Time, excluirID uint) (bool, error)
	ExisteMetaIndividualNoMes(db *gorm.DB, membroID, supervisorID uint, tipo string, mes time.Time) (bool, error)
	CriarMetaEquipe(db *gorm.DB, m *MetaEquipe) error
	CriarMetaIndividual(db *gorm.DB, m *MetaIndividual) error
	BuscarMetaEquipePorID(db *gorm.DB, id uint) (*MetaEquipe, error)
	BuscarMetaIndividualPorID(db *gorm.DB, id uint) (*MetaIndividual, error)
	AtualizarMetaEquipe(db *gorm.DB, m *MetaEquipe) error
	AtualizarMetaIndividual(db *gorm.DB, m *MetaIndividual) error
	DeletarMetaEquipe(db *gorm.DB, m *MetaEquipe) error
	DeletarMetaIndividual(db *gorm.DB, id uint) error
	ListarMetasEquipePorLider(db *gorm.DB, liderID uint) ([]MetaEquipe, error)
	ListarMetasIndividuaisPorMembro(db *gorm.DB, membroID uint) ([]MetaIndividual, error)
	ListarMetasIndividuaisPorSupervisor(db *gorm.DB, supervisorID uint) ([]MetaIndividual, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

// Sobreposição de intervalos fechados: NOT (fimA < inicioB OR inicioA > fimB).
func (r *repositoryImpl) ExisteMetaEquipeSobreposta(db *gorm.DB, liderID uint, tipo string, inicio, fim time.Time, excluirID uint) (bool, error) {
	var total int64
	q := db.Model(&MetaEquipe{}).
		Where("lider_id = ? AND tipo = ?", liderID, tipo).
		Where("inicio <= ? AND fim >= ?", fim, inicio)
	if excluirID != 0 {
		q = q.Where("id <> ?", excluirID)
	}
	if err := q.Count(&total).Error; err != nil {
		return false, err
	}
	return total > 0, nil
}

func (r *repositoryImpl) ExisteMetaIndividualSobreposta(db *gorm.DB, membroID uint, supervisorID *uint, tipo string, inicio, fim time.Time, excluirID uint) (bool, error) {
	var total int64
	q := db.Model(&MetaIndividual{}).
		Where("membro_id = ? AND tipo = ?", membroID, tipo).
		Where("inicio <= ? AND fim >= ?", fim, inicio)
	if supervisorID != nil {
		q = q.Where("supervisor_id = ?", *supervisorID)
	} else {
		q = q.Where("supervisor_id IS NULL")
	}
	if excluirID != 0 {
		q = q.Where("id <> ?", excluirID)
	}
	if err := q.Count(&total).Error; err != nil {
		return false, err
	}
	return total > 0, nil
}

// ExisteMetaIndividualNoMes aplica a checagem de duplicidade usada na
// distribuição: igualdade no mês-calendário do início da meta, não no
// intervalo exato. Os limites do mês são calculados aqui para a consulta
// permanecer portável entre Postgres e SQLite.
func (r *repositoryImpl) ExisteMetaIndividualNoMes(db *gorm.DB, membroID, supervisorID uint, tipo string, mes time.Time) (bool, error) {
	inicioMes := utils.InicioDoMes(mes)
	proximoMes := utils.ProximoMes(mes)

	var total int64
	err := db.Model(&MetaIndividual{}).
		Where("membro_id = ? AND supervisor_id = ? AND tipo = ?", membroID, supervisorID, tipo).
		Where("inicio >= ? AND inicio < ?", inicioMes, proximoMes).
		Count(&total).Error
	if err != nil {
		return false, err
	}
	return total > 0, nil
}

func (r *repositoryImpl) CriarMetaEquipe(db *gorm.DB, m *MetaEquipe) error {
	return db.Create(m).Error
}

func (r *repositoryImpl) CriarMetaIndividual(db *gorm.DB, m *MetaIndividual) error {
	return db.Create(m).Error
}

func (r *repositoryImpl) BuscarMetaEquipePorID(db *gorm.DB, id uint) (*MetaEquipe, error) {
	var m MetaEquipe
	if err := db.First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repositoryImpl) BuscarMetaIndividualPorID(db *gorm.DB, id uint) (*MetaIndividual, error) {
	var m MetaIndividual
	if err := db.First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repositoryImpl) AtualizarMetaEquipe(db *gorm.DB, m *MetaEquipe) error {
	return db.Save(m).Error
}

func (r *repositoryImpl) AtualizarMetaIndividual(db *gorm.DB, m *MetaIndividual) error {
	return db.Save(m).Error
}

// DeletarMetaEquipe remove a meta do líder e, em cascata, as metas
// individuais geradas por ela: mesmo supervisor, mesmo tipo e exatamente o
// mesmo intervalo de datas. Metas dos mesmos membros em outros períodos não
// são tocadas.
func (r *repositoryImpl) DeletarMetaEquipe(db *gorm.DB, m *MetaEquipe) error {
	return db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("supervisor_id = ? AND tipo = ? AND inicio = ? AND fim = ?",
			m.LiderID, m.Tipo, m.Inicio, m.Fim).
			Delete(&MetaIndividual{}).Error
		if err != nil {
			return err
		}
		return tx.Delete(&MetaEquipe{}, m.ID).Error
	})
}

func (r *repositoryImpl) DeletarMetaIndividual(db *gorm.DB, id uint) error {
	return db.Delete(&MetaIndividual{}, id).Error
}

func (r *repositoryImpl) ListarMetasEquipePorLider(db *gorm.DB, liderID uint) ([]MetaEquipe, error) {
	var list []MetaEquipe
	err := db.Where("lider_id = ?", liderID).Order("inicio").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) ListarMetasIndividuaisPorMembro(db *gorm.DB, membroID uint) ([]MetaIndividual, error) {
	var list []MetaIndividual
	err := db.Where("membro_id = ?", membroID).Order("inicio").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) ListarMetasIndividuaisPorSupervisor(db *gorm.DB, supervisorID uint) ([]MetaIndividual, error) {
	var list []MetaIndividual
	err := db.Where("supervisor_id = ?", supervisorID).Order("membro_id, inicio").Find(&list).Error
	return list, err
}

// EhViolacaoDeUnicidade reconhece a violação do índice único usado como
// anteparo contra corridas, tanto no Postgres quanto no SQLite dos testes.
func EhViolacaoDeUnicidade(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
