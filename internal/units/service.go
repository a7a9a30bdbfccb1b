package units

import (
	"context"
	"errors"
)

// ErrorNotFound se devuelve cuando el id no existe.
var ErrorNotFound = errors.New("unit of measure not found")

// RepositoryAPI es lo que el service necesita del repositorio.
type RepositoryAPI interface {
	List(ctx context.Context) ([]Unit, error)
	GetByID(ctx context.Context, id int64) (Unit, error)
}

// Service expone la consulta de unidades de medida.
type Service struct {
	repository RepositoryAPI
}

// NewService crea un service de unidades.
func NewService(repository RepositoryAPI) *Service {
	return &Service{repository: repository}
}

func (service *Service) List(ctx context.Context) ([]Unit, error) {
	return service.repository.List(ctx)
}

// Get obtiene una unidad por id; ids no positivos no existen.
func (service *Service) Get(ctx context.Context, id int64) (Unit, error) {
	if id < 1 {
		return Unit{}, ErrorNotFound
	}
	return service.repository.GetByID(ctx, id)
}
