package equipe

import (
	"fmt"
	"testing"

	"github.com/VorticeComercial/api-metas/internal/usuario"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func abrirBanco(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("erro ao abrir banco de teste: %v", err)
	}
	if err := usuario.Migrate(db); err != nil {
		t.Fatalf("erro no migrate: %v", err)
	}
	return db
}

func criarUsuario(t *testing.T, db *gorm.DB, nome, perfil string, ativo bool) *usuario.Usuario {
	t.Helper()
	u := &usuario.Usuario{
		Nome:   nome,
		Email:  nome + "@exemplo.com",
		Senha:  "hash",
		Perfil: perfil,
		Ativo:  ativo,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("erro ao criar usuário %s: %v", nome, err)
	}
	return u
}

func vincular(t *testing.T, db *gorm.DB, liderID uint, membroIDs ...uint) {
	t.Helper()
	for i, m := range membroIDs {
		v := usuario.VinculoEquipe{LiderID: liderID, MembroID: m, Posicao: i}
		if err := db.Create(&v).Error; err != nil {
			t.Fatalf("erro ao vincular %d -> %d: %v", liderID, m, err)
		}
	}
}

func TestResolverEquipeDireta(t *testing.T) {
	db := abrirBanco(t)
	rs := NewResolver(usuario.NewRepository())

	lider := criarUsuario(t, db, "lider", usuario.PerfilSupervisor, true)
	a := criarUsuario(t, db, "ana", usuario.PerfilVendedor, true)
	b := criarUsuario(t, db, "bruno", usuario.PerfilRepresentante, true)
	inativo := criarUsuario(t, db, "carla", usuario.PerfilVendedor, false)
	vincular(t, db, lider.ID, a.ID, b.ID, inativo.ID)

	equipe, err := rs.ResolverEquipeDireta(db, lider.ID)
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if len(equipe) != 2 {
		t.Fatalf("equipe = %d membros, esperados 2 (inativos fora)", len(equipe))
	}
	if equipe[0].ID != a.ID || equipe[1].ID != b.ID {
		t.Errorf("ordem da equipe = [%d %d], esperada [%d %d]", equipe[0].ID, equipe[1].ID, a.ID, b.ID)
	}
}

func TestResolverEquipeDireta_LiderInexistenteOuInativo(t *testing.T) {
	db := abrirBanco(t)
	rs := NewResolver(usuario.NewRepository())

	equipe, err := rs.ResolverEquipeDireta(db, 9999)
	if err != nil {
		t.Fatalf("líder inexistente deve resultar em equipe vazia, não erro: %v", err)
	}
	if len(equipe) != 0 {
		t.Errorf("equipe = %d membros, esperada vazia", len(equipe))
	}

	inativo := criarUsuario(t, db, "desligado", usuario.PerfilSupervisor, false)
	m := criarUsuario(t, db, "membro", usuario.PerfilVendedor, true)
	vincular(t, db, inativo.ID, m.ID)

	equipe, err = rs.ResolverEquipeDireta(db, inativo.ID)
	if err != nil {
		t.Fatalf("líder inativo deve resultar em equipe vazia, não erro: %v", err)
	}
	if len(equipe) != 0 {
		t.Errorf("equipe de líder inativo = %d membros, esperada vazia", len(equipe))
	}
}

func TestResolverEquipeDireta_FallbackSupervisor(t *testing.T) {
	db := abrirBanco(t)
	rs := NewResolver(usuario.NewRepository())

	// Líder sem vínculos próprios: vale o cadastro reverso dos membros.
	lider := criarUsuario(t, db, "lider", usuario.PerfilSupervisor, true)

	a := criarUsuario(t, db, "ana", usuario.PerfilVendedor, true)
	a.SupervisorID = &lider.ID
	if err := db.Save(a).Error; err != nil {
		t.Fatal(err)
	}
	inativo := criarUsuario(t, db, "bruno", usuario.PerfilVendedor, false)
	inativo.SupervisorID = &lider.ID
	if err := db.Save(inativo).Error; err != nil {
		t.Fatal(err)
	}

	equipe, err := rs.ResolverEquipeDireta(db, lider.ID)
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if len(equipe) != 1 || equipe[0].ID != a.ID {
		t.Errorf("fallback deveria retornar apenas o membro ativo %d, veio %v", a.ID, equipe)
	}
}

func TestResolverHierarquiaIDs_PremiumComPreposto(t *testing.T) {
	db := abrirBanco(t)
	rs := NewResolver(usuario.NewRepository())

	lider := criarUsuario(t, db, "lider", usuario.PerfilSupervisor, true)
	direto := criarUsuario(t, db, "direto", usuario.PerfilVendedor, true)
	premium := criarUsuario(t, db, "premium", usuario.PerfilRepresentantePremium, true)
	preposto := criarUsuario(t, db, "preposto", usuario.PerfilPreposto, true)
	outroFilho := criarUsuario(t, db, "outro", usuario.PerfilVendedor, true)

	vincular(t, db, lider.ID, direto.ID, premium.ID)
	vincular(t, db, premium.ID, preposto.ID, outroFilho.ID)

	ids, err := rs.ResolverHierarquiaIDs(db, lider.ID)
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("hierarquia = %v, esperados 3 ids (diretos + preposto)", ids)
	}
	esperados := map[uint]bool{direto.ID: true, premium.ID: true, preposto.ID: true}
	for _, id := range ids {
		if !esperados[id] {
			t.Errorf("id %d não deveria estar na hierarquia (filho não-preposto nunca entra)", id)
		}
	}
}

func TestResolverHierarquiaIDs_NaoExpandePrepostos(t *testing.T) {
	db := abrirBanco(t)
	rs := NewResolver(usuario.NewRepository())

	lider := criarUsuario(t, db, "lider", usuario.PerfilSupervisor, true)
	premium := criarUsuario(t, db, "premium", usuario.PerfilRepresentantePremium, true)
	preposto := criarUsuario(t, db, "preposto", usuario.PerfilPreposto, true)
	// Vínculo abaixo de um preposto é ignorado: a expansão para um nível
	// abaixo do representante premium.
	neto := criarUsuario(t, db, "neto", usuario.PerfilPreposto, true)

	vincular(t, db, lider.ID, premium.ID)
	vincular(t, db, premium.ID, preposto.ID)
	vincular(t, db, preposto.ID, neto.ID)

	ids, err := rs.ResolverHierarquiaIDs(db, lider.ID)
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	for _, id := range ids {
		if id == neto.ID {
			t.Fatal("hierarquia não pode descer além do preposto")
		}
	}
	if len(ids) != 2 {
		t.Errorf("hierarquia = %v, esperados [premium preposto]", ids)
	}
}

func TestMembrosPermitidosParaDistribuicao(t *testing.T) {
	db := abrirBanco(t)
	rs := NewResolver(usuario.NewRepository())

	lider := criarUsuario(t, db, "lider", usuario.PerfilSupervisor, true)
	direto := criarUsuario(t, db, "direto", usuario.PerfilVendedor, true)
	premium := criarUsuario(t, db, "premium", usuario.PerfilRepresentantePremium, true)
	preposto := criarUsuario(t, db, "preposto", usuario.PerfilPreposto, true)
	fora := criarUsuario(t, db, "fora", usuario.PerfilVendedor, true)

	vincular(t, db, lider.ID, direto.ID, premium.ID)
	vincular(t, db, premium.ID, preposto.ID)

	permitidos, err := rs.MembrosPermitidosParaDistribuicao(db, lider.ID)
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	for _, id := range []uint{direto.ID, premium.ID, preposto.ID} {
		if _, ok := permitidos[id]; !ok {
			t.Errorf("membro %d deveria ser permitido", id)
		}
	}
	if _, ok := permitidos[fora.ID]; ok {
		t.Errorf("membro %d está fora da equipe e não pode receber distribuição", fora.ID)
	}
}
