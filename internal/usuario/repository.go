package usuario

import (
	"gorm.io/gorm"
)

type Repository interface {
	BuscarPorID(db *gorm.DB, id uint) (*Usuario, error)
	BuscarPorEmail(db *gorm.DB, email string) (*Usuario, error)
	ListarTodos(db *gorm.DB) ([]Usuario, error)
	ListarAtivosPorIDs(db *gorm.DB, ids []uint) ([]Usuario, error)
	ListarMembrosDiretos(db *gorm.DB, liderID uint) ([]Usuario, error)
	ListarAtivosPorSupervisor(db *gorm.DB, liderID uint) ([]Usuario, error)
	Salvar(db *gorm.DB, u *Usuario) error
	Atualizar(db *gorm.DB, id uint, req *AtualizarUsuarioRequest) error
	Deletar(db *gorm.DB, id uint) error
	DefinirEquipe(db *gorm.DB, liderID uint, membroIDs []uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Usuario, error) {
	var u Usuario
	if err := db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repositoryImpl) BuscarPorEmail(db *gorm.DB, email string) (*Usuario, error) {
	var u Usuario
	if err := db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repositoryImpl) ListarTodos(db *gorm.DB) ([]Usuario, error) {
	var list []Usuario
	err := db.Preload("Liderados").Order("id").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) ListarAtivosPorIDs(db *gorm.DB, ids []uint) ([]Usuario, error) {
	var list []Usuario
	if len(ids) == 0 {
		return list, nil
	}
	err := db.Where("id IN ? AND ativo = ?", ids, true).Find(&list).Error
	return list, err
}

// ListarMembrosDiretos retorna os membros ativos vinculados ao líder,
// na ordem de posição definida na equipe.
func (r *repositoryImpl) ListarMembrosDiretos(db *gorm.DB, liderID uint) ([]Usuario, error) {
	var list []Usuario
	err := db.
		Joins("JOIN vinculo_equipes ON vinculo_equipes.membro_id = usuarios.id").
		Where("vinculo_equipes.lider_id = ? AND usuarios.ativo = ?", liderID, true).
		Order("vinculo_equipes.posicao").
		Find(&list).Error
	return list, err
}

// ListarAtivosPorSupervisor é o caminho reverso: membros ativos cujo próprio
// cadastro aponta este líder como supervisor. Usado como fallback quando o
// líder não tem vínculos próprios cadastrados.
func (r *repositoryImpl) ListarAtivosPorSupervisor(db *gorm.DB, liderID uint) ([]Usuario, error) {
	var list []Usuario
	err := db.
		Where("supervisor_id = ? AND ativo = ?", liderID, true).
		Order("id").
		Find(&list).Error
	return list, err
}

func (r *repositoryImpl) Salvar(db *gorm.DB, u *Usuario) error {
	return db.Create(u).Error
}

func (r *repositoryImpl) Atualizar(db *gorm.DB, id uint, req *AtualizarUsuarioRequest) error {
	var u Usuario
	if err := db.First(&u, id).Error; err != nil {
		return err
	}
	if req.Nome != nil {
		u.Nome = *req.Nome
	}
	if req.Sobrenome != nil {
		u.Sobrenome = *req.Sobrenome
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.Perfil != nil {
		u.Perfil = *req.Perfil
	}
	if req.Ativo != nil {
		u.Ativo = *req.Ativo
	}
	if req.SupervisorID != nil {
		u.SupervisorID = req.SupervisorID
	}
	return db.Save(&u).Error
}

func (r *repositoryImpl) Deletar(db *gorm.DB, id uint) error {
	if err := db.Where("lider_id = ? OR membro_id = ?", id, id).
		Delete(&VinculoEquipe{}).Error; err != nil {
		return err
	}
	return db.Delete(&Usuario{}, id).Error
}

// DefinirEquipe substitui os vínculos do líder pela lista informada,
// preservando a ordem recebida como posição.
func (r *repositoryImpl) DefinirEquipe(db *gorm.DB, liderID uint, membroIDs []uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lider_id = ?", liderID).Delete(&VinculoEquipe{}).Error; err != nil {
			return err
		}
		for i, membroID := range membroIDs {
			v := VinculoEquipe{LiderID: liderID, MembroID: membroID, Posicao: i}
			if err := tx.Create(&v).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
