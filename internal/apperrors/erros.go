// Package apperrors define a taxonomia de erros de domínio da API e o
// mapeamento para códigos HTTP.
package apperrors

import (
	"encoding/json"
	"errors"
	"net/http"
)

// ErroValidacao indica entrada malformada (período invertido, equipe vazia,
// membros inválidos em distribuição manual). Nunca chega a gravar nada.
type ErroValidacao struct {
	Mensagem string
}

func (e *ErroValidacao) Error() string { return e.Mensagem }

// ErroConflito indica colisão com estado existente (meta sobreposta, meta
// duplicada no mês, corrida de escrita). Seguro de repetir com outros
// parâmetros.
type ErroConflito struct {
	Mensagem string
}

func (e *ErroConflito) Error() string { return e.Mensagem }

// ErroNaoEncontrado indica que o registro alvo de update/delete não existe.
type ErroNaoEncontrado struct {
	Mensagem string
}

func (e *ErroNaoEncontrado) Error() string { return e.Mensagem }

func Validacao(msg string) error     { return &ErroValidacao{Mensagem: msg} }
func Conflito(msg string) error      { return &ErroConflito{Mensagem: msg} }
func NaoEncontrado(msg string) error { return &ErroNaoEncontrado{Mensagem: msg} }

// Responder escreve o erro como JSON com o status HTTP correspondente:
// 400 para validação, 409 para conflito, 404 para não encontrado e 500
// para qualquer falha de acesso a dados não classificada.
func Responder(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "erro interno"

	var ev *ErroValidacao
	var ec *ErroConflito
	var en *ErroNaoEncontrado
	switch {
	case errors.As(err, &ev):
		status = http.StatusBadRequest
		msg = ev.Mensagem
	case errors.As(err, &ec):
		status = http.StatusConflict
		msg = ec.Mensagem
	case errors.As(err, &en):
		status = http.StatusNotFound
		msg = en.Mensagem
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"erro": msg})
}
