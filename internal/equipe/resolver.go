// Package equipe resolve a hierarquia comercial de um líder: membros diretos
// e, para representantes premium, o desdobramento em seus prepostos.
package equipe

import (
	"errors"

	"github.com/VorticeComercial/api-metas/internal/usuario"
	"gorm.io/gorm"
)

// MembroEquipe é a visão reduzida de um usuário dentro de uma equipe resolvida.
type MembroEquipe struct {
	ID     uint   `json:"id"`
	Nome   string `json:"nome"`
	Email  string `json:"email"`
	Perfil string `json:"perfil"`
}

// Resolver consulta a estrutura de equipes a partir do repositório de usuários.
// O resultado nunca é cacheado entre chamadas: a equipe reflete os vínculos
// vigentes no momento da consulta.
type Resolver struct {
	Usuarios usuario.Repository
}

func NewResolver(repo usuario.Repository) *Resolver {
	return &Resolver{Usuarios: repo}
}

// ResolverEquipeDireta retorna os membros ativos diretamente vinculados ao
// líder. Sem vínculos próprios, vale o cadastro reverso: membros ativos que
// apontam o líder como supervisor. Líder inexistente ou inativo resulta em
// equipe vazia, não em erro.
func (rs *Resolver) ResolverEquipeDireta(db *gorm.DB, liderID uint) ([]MembroEquipe, error) {
	lider, err := rs.Usuarios.BuscarPorID(db, liderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !lider.Ativo {
		return nil, nil
	}

	membros, err := rs.Usuarios.ListarMembrosDiretos(db, liderID)
	if err != nil {
		return nil, err
	}
	if len(membros) == 0 {
		membros, err = rs.Usuarios.ListarAtivosPorSupervisor(db, liderID)
		if err != nil {
			return nil, err
		}
	}

	equipe := make([]MembroEquipe, 0, len(membros))
	for _, m := range membros {
		equipe = append(equipe, MembroEquipe{
			ID:     m.ID,
			Nome:   m.Nome,
			Email:  m.Email,
			Perfil: m.Perfil,
		})
	}
	return equipe, nil
}

// ResolverHierarquiaIDs retorna os IDs da hierarquia do líder: todos os
// membros diretos e, para cada representante premium entre eles, também os
// prepostos da equipe desse representante. A expansão para em um nível extra;
// filhos de prepostos nunca entram, mesmo que existam vínculos cadastrados.
func (rs *Resolver) ResolverHierarquiaIDs(db *gorm.DB, liderID uint) ([]uint, error) {
	diretos, err := rs.ResolverEquipeDireta(db, liderID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(diretos))
	vistos := make(map[uint]bool, len(diretos))
	for _, m := range diretos {
		if !vistos[m.ID] {
			vistos[m.ID] = true
			ids = append(ids, m.ID)
		}
	}

	for _, m := range diretos {
		if m.Perfil != usuario.PerfilRepresentantePremium {
			continue
		}
		subequipe, err := rs.ResolverEquipeDireta(db, m.ID)
		if err != nil {
			return nil, err
		}
		for _, sub := range subequipe {
			if sub.Perfil != usuario.PerfilPreposto {
				continue
			}
			if !vistos[sub.ID] {
				vistos[sub.ID] = true
				ids = append(ids, sub.ID)
			}
		}
	}
	return ids, nil
}

// MembrosPermitidosParaDistribuicao monta o conjunto de membros que podem
// receber parte de uma meta distribuída manualmente: filhos diretos do líder
// e prepostos de representantes premium que sejam filhos diretos.
func (rs *Resolver) MembrosPermitidosParaDistribuicao(db *gorm.DB, liderID uint) (map[uint]MembroEquipe, error) {
	diretos, err := rs.ResolverEquipeDireta(db, liderID)
	if err != nil {
		return nil, err
	}

	permitidos := make(map[uint]MembroEquipe, len(diretos))
	for _, m := range diretos {
		permitidos[m.ID] = m
	}
	for _, m := range diretos {
		if m.Perfil != usuario.PerfilRepresentantePremium {
			continue
		}
		subequipe, err := rs.ResolverEquipeDireta(db, m.ID)
		if err != nil {
			return nil, err
		}
		for _, sub := range subequipe {
			if sub.Perfil == usuario.PerfilPreposto {
				permitidos[sub.ID] = sub
			}
		}
	}
	return permitidos, nil
}
