package products

import "context"

// CreateServiceItem da de alta un servicio: solo nombre y descripción vienen del cliente,
// el resto son los valores fijos de servicio. No se aplican reglas de stock.
func (service *Service) CreateServiceItem(ctx context.Context, input ServiceItemInput) (Product, error) {
	item, err := buildServiceItem(input)
	if err != nil {
		return Product{}, err
	}

	var created Product
	err = service.repository.InTx(ctx, func(repository RepositoryAPI) error {
		if err := checkUnique(ctx, repository, item, 0); err != nil {
			return err
		}

		created, err = repository.Insert(ctx, item)
		return err
	})
	if err != nil {
		return Product{}, err
	}

	return created, nil
}

// UpdateServiceItem pisa nombre y descripción y vuelve a estampar los valores fijos,
// sin importar lo que tuviera guardado el registro.
func (service *Service) UpdateServiceItem(ctx context.Context, id int64, input ServiceItemInput) (Product, error) {
	if id < 1 {
		return Product{}, ErrorNotFound
	}

	item, err := buildServiceItem(input)
	if err != nil {
		return Product{}, err
	}
	item.ID = id

	var updated Product
	err = service.repository.InTx(ctx, func(repository RepositoryAPI) error {
		if _, err := repository.LockByID(ctx, id); err != nil {
			return err
		}
		if err := checkUnique(ctx, repository, item, id); err != nil {
			return err
		}

		updated, err = repository.Update(ctx, item)
		return err
	})
	if err != nil {
		return Product{}, err
	}

	return updated, nil
}
