package appointment

import (
	"context"
	"strings"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/validators"
)

type ClientInput struct {
	ID    *uint  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// ClientResult carrega o cliente resolvido e se houve criação.
type ClientResult struct {
	Client     *models.Client
	WasCreated bool
}

type ClientResolver struct {
	repo domain.Repository
}

func NewClientResolver(repo domain.Repository) *ClientResolver {
	return &ClientResolver{repo: repo}
}

// Resolve encontra ou cria o cliente da reserva:
// id informado → precisa existir; senão email já cadastrado → reutiliza;
// senão cria (nome obrigatório, email — se vier — bem formado).
// Só escreve no caminho de criação.
func (r *ClientResolver) Resolve(
	ctx context.Context,
	salonID uint,
	in ClientInput,
) (*ClientResult, error) {

	if in.ID != nil {
		client, err := r.repo.GetClientByID(ctx, salonID, *in.ID)
		if err != nil {
			return nil, httperr.ErrNotFound("client_not_found", "Cliente não encontrado.")
		}
		return &ClientResult{Client: client}, nil
	}

	email := strings.TrimSpace(in.Email)
	if email != "" {
		if client, err := r.repo.FindClientByEmail(ctx, salonID, email); err == nil {
			return &ClientResult{Client: client}, nil
		}
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, httperr.ErrValidation("client_name_required", "Nome do cliente é obrigatório.")
	}
	if email != "" && !validators.IsValidEmailFormat(email) {
		return nil, httperr.ErrValidation("client_email_invalid", "Email do cliente inválido.")
	}

	client := &models.Client{
		SalonID: salonID,
		Name:    name,
		Phone:   strings.TrimSpace(in.Phone),
		Email:   email,
	}

	if err := r.repo.CreateClient(ctx, client); err != nil {
		return nil, err
	}

	return &ClientResult{Client: client, WasCreated: true}, nil
}
