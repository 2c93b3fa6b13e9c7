package main

import (
	"log"
	"net/http"
	"os"

	"github.com/VorticeComercial/api-metas/internal/autenticacao"
	"github.com/VorticeComercial/api-metas/internal/equipe"
	"github.com/VorticeComercial/api-metas/internal/meta"
	"github.com/VorticeComercial/api-metas/internal/usuario"
	"github.com/VorticeComercial/api-metas/internal/utils/db"
	"github.com/VorticeComercial/api-metas/internal/venda"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("arquivo .env não encontrado, usando variáveis do ambiente")
	}
	if err := autenticacao.CarregarSegredo(); err != nil {
		log.Fatal(err)
	}

	database, err := db.GetDB()
	if err != nil {
		log.Fatal("Erro ao conectar no banco:", err)
	}

	// AutoMigrate para todos os modelos
	if err := usuario.Migrate(database); err != nil {
		log.Fatal("Erro no AutoMigrate:", err)
	}
	if err := meta.Migrate(database); err != nil {
		log.Fatal("Erro no AutoMigrate:", err)
	}
	if err := venda.Migrate(database); err != nil {
		log.Fatal("Erro no AutoMigrate:", err)
	}

	// Serviços e handlers
	usuarios := usuario.NewRepository()
	resolver := equipe.NewResolver(usuarios)
	metasServico := meta.NewServico(database, meta.NewRepository(), resolver)
	calculadora := venda.NewCalculadora(venda.NewRepository())

	usuarioHandler := usuario.NewHandler(database)
	metaHandler := meta.NewHandler(database, metasServico, calculadora)
	vendaHandler := venda.NewHandler(database)

	// Router
	r := mux.NewRouter()

	// Rotas públicas
	r.HandleFunc("/login", usuarioHandler.Login).Methods("POST")
	r.HandleFunc("/usuarios", usuarioHandler.CriarUsuario).Methods("POST")

	// Rotas autenticadas
	api := r.NewRoute().Subrouter()
	api.Use(autenticacao.MiddlewareAutenticacao)

	// Usuários e equipes
	api.HandleFunc("/me", usuarioHandler.Me).Methods("GET")
	api.HandleFunc("/usuarios", usuarioHandler.ListarUsuarios).Methods("GET")
	api.HandleFunc("/usuarios/{id}", usuarioHandler.BuscarUsuarioPorID).Methods("GET")
	api.HandleFunc("/usuarios/{id}", usuarioHandler.AtualizarUsuario).Methods("PUT")
	api.HandleFunc("/usuarios/{id}", usuarioHandler.DeletarUsuario).Methods("DELETE")
	api.HandleFunc("/usuarios/{id}/equipe", usuarioHandler.DefinirEquipe).Methods("PUT")

	// Metas: distribuição e gestão de metas de equipe são restritas a perfis
	// de liderança
	somenteLideres := autenticacao.RequirePerfis(
		usuario.PerfilAdmin,
		usuario.PerfilGerenteComercial,
		usuario.PerfilGestor,
		usuario.PerfilSupervisor,
		usuario.PerfilParceiroComercial,
		usuario.PerfilRepresentantePremium,
	)
	api.Handle("/metas/equipe", somenteLideres(http.HandlerFunc(metaHandler.DistribuirMetaEquipe))).Methods("POST")
	api.Handle("/metas/equipe/{id}", somenteLideres(http.HandlerFunc(metaHandler.AtualizarMetaEquipe))).Methods("PUT")
	api.Handle("/metas/equipe/{id}", somenteLideres(http.HandlerFunc(metaHandler.DeletarMetaEquipe))).Methods("DELETE")
	api.HandleFunc("/metas/individuais", metaHandler.CriarMetaIndividual).Methods("POST")
	api.HandleFunc("/metas/individuais/{id}", metaHandler.AtualizarMetaIndividual).Methods("PUT")
	api.HandleFunc("/metas/individuais/{id}", metaHandler.DeletarMetaIndividual).Methods("DELETE")
	api.HandleFunc("/metas/periodos/{id}", metaHandler.ListarPeriodos).Methods("GET")
	api.HandleFunc("/metas/distribuidas/{id}", metaHandler.MetasDistribuidasPorLider).Methods("GET")
	api.HandleFunc("/metas/acompanhamento/{id}", metaHandler.AcompanhamentoMembro).Methods("GET")
	api.HandleFunc("/metas/equipe/{id}/progresso", metaHandler.MetasEquipeComProgresso).Methods("GET")

	// Propostas (fatos de venda)
	api.HandleFunc("/propostas", vendaHandler.CriarProposta).Methods("POST")
	api.HandleFunc("/vendedores/{id}/propostas", vendaHandler.ListarPorVendedor).Methods("GET")
	api.HandleFunc("/propostas/{id}/status", vendaHandler.AtualizarStatus).Methods("PUT")
	api.HandleFunc("/propostas/{id}", vendaHandler.DeletarProposta).Methods("DELETE")

	handler := cors.AllowAll().Handler(r)

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	log.Println("Servidor rodando em", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
