package usuario

import (
	"time"

	"gorm.io/gorm"
)

// Perfis reconhecidos pelo sistema.
const (
	PerfilAdmin                string = "admin"
	PerfilGerenteComercial     string = "gerente_comercial"
	PerfilGestor               string = "gestor"
	PerfilSupervisor           string = "supervisor"
	PerfilParceiroComercial    string = "parceiro_comercial"
	PerfilRepresentantePremium string = "representante_premium"
	PerfilRepresentante        string = "representante"
	PerfilVendedor             string = "vendedor"
	PerfilPreposto             string = "preposto"
)

// Usuario representa um integrante da força de vendas.
type Usuario struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Nome      string `gorm:"size:100;not null" json:"nome"`
	Sobrenome string `gorm:"size:100" json:"sobrenome"`
	Email     string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Senha     string `gorm:"size:255;not null" json:"-"`
	Perfil    string `gorm:"size:30;not null;index" json:"perfil"`
	// Sem default no banco: com default o gorm omite o zero value no INSERT e
	// um usuário inativo jamais seria gravado. Quem cria define o valor.
	Ativo bool `gorm:"not null" json:"ativo"`

	// Referência reversa informada no cadastro do próprio usuário. Vale como
	// fonte da equipe apenas quando o líder não tem vínculos próprios.
	SupervisorID *uint `gorm:"index" json:"supervisorId,omitempty"`

	// Vínculos nos quais este usuário é o líder, ordenados por posição.
	Liderados []VinculoEquipe `gorm:"foreignKey:LiderID;constraint:OnDelete:CASCADE" json:"liderados,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`
}

// VinculoEquipe liga um líder a um membro direto da sua equipe.
// Substitui a antiga coluna de texto com JSON de "children": a associação é
// tipada e com integridade referencial no banco.
type VinculoEquipe struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	LiderID  uint `gorm:"not null;index;uniqueIndex:ux_vinculo_lider_membro" json:"liderId"`
	MembroID uint `gorm:"not null;index;uniqueIndex:ux_vinculo_lider_membro" json:"membroId"`
	Posicao  int  `gorm:"not null;default:0" json:"posicao"`

	CreatedAt time.Time `json:"createdAt"`
}

// EhPerfilLider informa se o perfil pode possuir equipe e receber metas de equipe.
func EhPerfilLider(perfil string) bool {
	switch perfil {
	case PerfilGerenteComercial, PerfilGestor, PerfilSupervisor,
		PerfilParceiroComercial, PerfilRepresentantePremium, PerfilAdmin:
		return true
	}
	return false
}

// EhPerfilValido valida o valor recebido em cadastros e atualizações.
func EhPerfilValido(perfil string) bool {
	switch perfil {
	case PerfilAdmin, PerfilGerenteComercial, PerfilGestor, PerfilSupervisor,
		PerfilParceiroComercial, PerfilRepresentantePremium,
		PerfilRepresentante, PerfilVendedor, PerfilPreposto:
		return true
	}
	return false
}

// Migrate cria as tabelas de usuários e vínculos de equipe.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Usuario{}, &VinculoEquipe{})
}
