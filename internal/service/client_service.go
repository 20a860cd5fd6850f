package service

import (
	"context"

	"github.com/parisxmas/oxidocs/internal/apperr"
	"github.com/parisxmas/oxidocs/internal/models"
	"github.com/parisxmas/oxidocs/internal/repository"
)

const duplicateIDNumber = "Client with this ID number already exists"

// ClientInput is the body of a client creation request.
type ClientInput struct {
	Name        string  `json:"name"`
	IDNumber    string  `json:"idNumber"`
	IDExpiry    string  `json:"idExpiry"`
	Mobile      string  `json:"mobile"`
	IDImageURL  *string `json:"idImageUrl"`
	Description *string `json:"description"`
}

type ClientService struct {
	clients repository.ClientRepository
}

func NewClientService(clients repository.ClientRepository) *ClientService {
	return &ClientService{clients: clients}
}

func (s *ClientService) List(ctx context.Context) ([]models.Client, error) {
	return s.clients.List(ctx)
}

func (s *ClientService) Get(ctx context.Context, id int64) (*models.Client, error) {
	cl, err := s.clients.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if cl == nil {
		return nil, apperr.NotFound("Client")
	}
	return cl, nil
}

// Create registers a client. The id number must not belong to another client.
func (s *ClientService) Create(ctx context.Context, in ClientInput) (*models.Client, error) {
	cl := &models.Client{
		Name:        in.Name,
		IDNumber:    in.IDNumber,
		IDExpiry:    in.IDExpiry,
		Mobile:      in.Mobile,
		IDImageURL:  in.IDImageURL,
		Description: in.Description,
	}
	if err := checkClient(cl); err != nil {
		return nil, err
	}
	if err := s.checkIDNumber(ctx, cl.IDNumber, 0); err != nil {
		return nil, err
	}

	cl.CreatedAt = now()
	cl.UpdatedAt = cl.CreatedAt
	if err := s.clients.Create(ctx, cl); err != nil {
		if isDuplicate(err) {
			return nil, apperr.Invalid("idNumber", duplicateIDNumber)
		}
		return nil, err
	}
	return cl, nil
}

// Update merges the keys present in patch.
func (s *ClientService) Update(ctx context.Context, id int64, patch models.ClientPatch) (*models.Client, error) {
	cl, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		cl.Name = *patch.Name
	}
	if patch.IDNumber != nil {
		cl.IDNumber = *patch.IDNumber
	}
	if patch.IDExpiry != nil {
		cl.IDExpiry = *patch.IDExpiry
	}
	if patch.Mobile != nil {
		cl.Mobile = *patch.Mobile
	}
	if patch.IDImageURL.Set {
		cl.IDImageURL = patch.IDImageURL.Value
	}
	if patch.Description.Set {
		cl.Description = patch.Description.Value
	}
	if err := checkClient(cl); err != nil {
		return nil, err
	}
	if patch.IDNumber != nil {
		if err := s.checkIDNumber(ctx, cl.IDNumber, cl.ID); err != nil {
			return nil, err
		}
	}

	cl.UpdatedAt = now()
	if err := s.clients.Update(ctx, cl); err != nil {
		if isDuplicate(err) {
			return nil, apperr.Invalid("idNumber", duplicateIDNumber)
		}
		return nil, err
	}
	return cl, nil
}

func (s *ClientService) Delete(ctx context.Context, id int64) error {
	ok, err := s.clients.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("Client")
	}
	return nil
}

func (s *ClientService) checkIDNumber(ctx context.Context, idNumber string, self int64) error {
	existing, err := s.clients.FindByIDNumber(ctx, idNumber)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != self {
		return apperr.Invalid("idNumber", duplicateIDNumber)
	}
	return nil
}

func checkClient(cl *models.Client) error {
	verr := &apperr.ValidationError{}
	if blank(cl.Name) {
		verr.Add("name", "Required")
	}
	if blank(cl.IDNumber) {
		verr.Add("idNumber", "Required")
	}
	if blank(cl.IDExpiry) {
		verr.Add("idExpiry", "Required")
	}
	if blank(cl.Mobile) {
		verr.Add("mobile", "Required")
	}
	return verr.OrNil()
}
