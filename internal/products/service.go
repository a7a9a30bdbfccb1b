package products

import (
	"context"
	"strings"
)

// RepositoryAPI es lo que el service necesita del repositorio.
// InTx entrega un RepositoryAPI atado a la transacción: todo lo que se haga
// con él se confirma o se descarta junto.
type RepositoryAPI interface {
	List(ctx context.Context) ([]Product, error)
	ListDetailed(ctx context.Context) ([]ProductDetail, error)
	GetByID(ctx context.Context, id int64) (Product, error)
	LockByID(ctx context.Context, id int64) (Product, error)
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)
	ExistsByBarcode(ctx context.Context, barcode string, excludeID int64) (bool, error)
	Insert(ctx context.Context, product Product) (Product, error)
	Update(ctx context.Context, product Product) (Product, error)
	Delete(ctx context.Context, id int64) error
	DeleteByName(ctx context.Context, name string) (int64, error)
	InTx(ctx context.Context, fn func(repository RepositoryAPI) error) error
}

// Service contiene reglas de negocio de productos y servicios.
type Service struct {
	repository RepositoryAPI
}

// NewService crea un service de productos.
func NewService(repository RepositoryAPI) *Service {
	return &Service{repository: repository}
}

func (service *Service) List(ctx context.Context) ([]Product, error) {
	return service.repository.List(ctx)
}

func (service *Service) ListDetailed(ctx context.Context) ([]ProductDetail, error) {
	return service.repository.ListDetailed(ctx)
}

// Get obtiene un producto por id; ids no positivos no existen.
func (service *Service) Get(ctx context.Context, id int64) (Product, error) {
	if id < 1 {
		return Product{}, ErrorNotFound
	}
	return service.repository.GetByID(ctx, id)
}

// Create valida el payload y, en una sola transacción, chequea unicidad e inserta.
func (service *Service) Create(ctx context.Context, input ProductInput) (Product, error) {
	product, err := buildProduct(input, true)
	if err != nil {
		return Product{}, err
	}

	var created Product
	err = service.repository.InTx(ctx, func(repository RepositoryAPI) error {
		if err := checkUnique(ctx, repository, product, 0); err != nil {
			return err
		}

		created, err = repository.Insert(ctx, product)
		return err
	})
	if err != nil {
		return Product{}, err
	}

	return created, nil
}

// Update reemplaza todos los campos editables. El id del body se ignora.
func (service *Service) Update(ctx context.Context, id int64, input ProductInput) (Product, error) {
	if id < 1 {
		return Product{}, ErrorNotFound
	}

	product, err := buildProduct(input, false)
	if err != nil {
		return Product{}, err
	}
	product.ID = id

	var updated Product
	err = service.repository.InTx(ctx, func(repository RepositoryAPI) error {
		if _, err := repository.LockByID(ctx, id); err != nil {
			return err
		}
		if err := checkUnique(ctx, repository, product, id); err != nil {
			return err
		}

		updated, err = repository.Update(ctx, product)
		return err
	})
	if err != nil {
		return Product{}, err
	}

	return updated, nil
}

func (service *Service) Delete(ctx context.Context, id int64) error {
	if id < 1 {
		return ErrorNotFound
	}
	return service.repository.Delete(ctx, id)
}

// DeleteByName borra todos los registros cuyo nombre coincide sin distinguir mayúsculas.
func (service *Service) DeleteByName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &ValidationError{Violations: []string{"name is required"}}
	}

	deleted, err := service.repository.DeleteByName(ctx, name)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrorNotFound
	}
	return nil
}

// checkUnique corre dentro de la transacción del alta o la edición.
// El código de barras reservado de servicios queda fuera del chequeo.
func checkUnique(ctx context.Context, repository RepositoryAPI, product Product, excludeID int64) error {
	exists, err := repository.ExistsByName(ctx, product.Name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return ErrorDuplicateName
	}

	if product.Barcode == ServiceBarcode {
		return nil
	}

	exists, err = repository.ExistsByBarcode(ctx, product.Barcode, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return ErrorDuplicateBarcode
	}
	return nil
}
