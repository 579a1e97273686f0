package repository

import (
	"context"
	"time"

	"github.com/jhoicas/tiffin-api/internal/domain/entity"
)

// CustomerFilter filtros de listado. Los archivados se excluyen salvo IncludeArchived.
type CustomerFilter struct {
	Status          string // "" = todos
	IncludeArchived bool
	Query           string // subcadena en nombre, celular o dirección, sin distinguir mayúsculas
}

// CustomerDependents cuenta los registros que referencian a un cliente.
type CustomerDependents struct {
	Invoices int
	Extras   int
	Advances int
}

// Any indica si existe al menos un dependiente.
func (d CustomerDependents) Any() bool {
	return d.Invoices+d.Extras+d.Advances > 0
}

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	// GetByID devuelve (nil, nil) si el cliente no existe.
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	// List ordena por nombre.
	List(ctx context.Context, filter CustomerFilter) ([]*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	Archive(ctx context.Context, id string, at time.Time) error
	Dependents(ctx context.Context, id string) (CustomerDependents, error)
	// Delete borra solo el cliente; las FK impiden borrarlo con dependientes.
	Delete(ctx context.Context, id string) error
}
