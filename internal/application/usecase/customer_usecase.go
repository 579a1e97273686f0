package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/tiffin-api/internal/application/dto"
	"github.com/jhoicas/tiffin-api/internal/domain"
	"github.com/jhoicas/tiffin-api/internal/domain/billing"
	"github.com/jhoicas/tiffin-api/internal/domain/entity"
	"github.com/jhoicas/tiffin-api/internal/domain/repository"
	"github.com/jhoicas/tiffin-api/pkg/logger"
	"github.com/jhoicas/tiffin-api/pkg/money"
)

// TxRunner ejecuta fn en una transacción con los repos que referencian clientes.
type TxRunner interface {
	RunBilling(ctx context.Context, fn func(
		customerRepo repository.CustomerRepository,
		extraRepo repository.DailyExtraRepository,
		advanceRepo repository.AdvancePaymentRepository,
		invoiceRepo repository.InvoiceRepository,
	) error) error
}

// CustomerUseCase casos de uso CRUD para clientes, con baja lógica y borrado protegido.
type CustomerUseCase struct {
	repo        repository.CustomerRepository
	invoiceRepo repository.InvoiceRepository
	tx          TxRunner
	now         func() time.Time
	log         *logger.Logger
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(
	repo repository.CustomerRepository,
	invoiceRepo repository.InvoiceRepository,
	tx TxRunner,
	now func() time.Time,
	log *logger.Logger,
) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, invoiceRepo: invoiceRepo, tx: tx, now: now, log: log}
}

// Create crea un cliente. Status por defecto: active.
func (uc *CustomerUseCase) Create(ctx context.Context, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	now := uc.now()
	customer := &entity.Customer{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := applyCustomerRequest(customer, in); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("crear cliente: %w", err)
	}
	out := dto.FromCustomer(customer)
	return &out, nil
}

// GetByID obtiene un cliente, incluso archivado.
func (uc *CustomerUseCase) GetByID(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	c, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.FromCustomer(c)
	return &out, nil
}

// List lista clientes ordenados por nombre; los archivados solo si se piden.
// q filtra por nombre, celular o dirección.
func (uc *CustomerUseCase) List(ctx context.Context, q dto.CustomerListQuery) ([]dto.CustomerResponse, error) {
	if q.Status != "" && !entity.ValidCustomerStatus(q.Status) {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, q.Status)
	}
	list, err := uc.repo.List(ctx, repository.CustomerFilter{Status: q.Status, IncludeArchived: q.IncludeArchived, Query: q.Q})
	if err != nil {
		return nil, fmt.Errorf("listar clientes: %w", err)
	}
	out := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.FromCustomer(c))
	}
	return out, nil
}

// Update reemplaza los datos del cliente. La fecha de inicio no puede cambiar
// si ya hay facturas de un período igual o posterior a ella.
func (uc *CustomerUseCase) Update(ctx context.Context, id string, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	customer, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	oldStart := customer.StartDate
	if err := applyCustomerRequest(customer, in); err != nil {
		return nil, err
	}
	if !billing.SameDate(oldStart, customer.StartDate) {
		locked, err := uc.startDateLocked(ctx, id, oldStart)
		if err != nil {
			return nil, err
		}
		if locked {
			return nil, fmt.Errorf("%w: la fecha de inicio no puede cambiar, ya hay facturas desde %s",
				domain.ErrInvalidState, billing.PeriodOf(oldStart).Label())
		}
	}
	customer.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("actualizar cliente: %w", err)
	}
	out := dto.FromCustomer(customer)
	return &out, nil
}

func (uc *CustomerUseCase) startDateLocked(ctx context.Context, id string, start time.Time) (bool, error) {
	invoices, err := uc.invoiceRepo.List(ctx, repository.InvoiceFilter{CustomerID: id})
	if err != nil {
		return false, fmt.Errorf("listar facturas: %w", err)
	}
	startPeriod := billing.PeriodOf(start)
	for _, inv := range invoices {
		p := billing.Period{Year: inv.Year, Month: time.Month(inv.Month)}
		if !startPeriod.After(p) {
			return true, nil
		}
	}
	return false, nil
}

// Archive da de baja lógica al cliente: deja de listarse y de facturarse en meses posteriores.
func (uc *CustomerUseCase) Archive(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	if _, err := uc.get(ctx, id); err != nil {
		return nil, err
	}
	if err := uc.repo.Archive(ctx, id, uc.now()); err != nil {
		return nil, fmt.Errorf("archivar cliente: %w", err)
	}
	return uc.GetByID(ctx, id)
}

// Delete borra un cliente sin registros asociados. Con facturas, extras o anticipos
// devuelve domain.ErrConflict: se debe archivar o usar CascadeDelete.
func (uc *CustomerUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	deps, err := uc.repo.Dependents(ctx, id)
	if err != nil {
		return fmt.Errorf("contar dependientes: %w", err)
	}
	if deps.Any() {
		return fmt.Errorf("%w: el cliente tiene %d facturas, %d extras y %d anticipos; archívelo o confirme el borrado en cascada",
			domain.ErrConflict, deps.Invoices, deps.Extras, deps.Advances)
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("borrar cliente: %w", err)
	}
	return nil
}

// CascadeDelete borra el cliente con todas sus facturas, extras y anticipos en una transacción.
// Es irreversible.
func (uc *CustomerUseCase) CascadeDelete(ctx context.Context, id string) (*dto.CascadeDeleteResponse, error) {
	if _, err := uc.get(ctx, id); err != nil {
		return nil, err
	}
	out := &dto.CascadeDeleteResponse{CustomerID: id}
	err := uc.tx.RunBilling(ctx, func(
		customerRepo repository.CustomerRepository,
		extraRepo repository.DailyExtraRepository,
		advanceRepo repository.AdvancePaymentRepository,
		invoiceRepo repository.InvoiceRepository,
	) error {
		var err error
		if out.DeletedInvoices, err = invoiceRepo.DeleteByCustomer(ctx, id); err != nil {
			return fmt.Errorf("borrar facturas: %w", err)
		}
		if out.DeletedExtras, err = extraRepo.DeleteByCustomer(ctx, id); err != nil {
			return fmt.Errorf("borrar extras: %w", err)
		}
		if out.DeletedAdvances, err = advanceRepo.DeleteByCustomer(ctx, id); err != nil {
			return fmt.Errorf("borrar anticipos: %w", err)
		}
		if err := customerRepo.Delete(ctx, id); err != nil {
			return fmt.Errorf("borrar cliente: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Warn().
		Str("customer_id", id).
		Int("invoices", out.DeletedInvoices).
		Int("extras", out.DeletedExtras).
		Int("advances", out.DeletedAdvances).
		Msg("cliente borrado en cascada")
	return out, nil
}

func (uc *CustomerUseCase) get(ctx context.Context, id string) (*entity.Customer, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener cliente: %w", err)
	}
	if c == nil {
		return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, id)
	}
	return c, nil
}

// applyCustomerRequest valida la entrada y la copia sobre c.
func applyCustomerRequest(c *entity.Customer, in dto.CustomerRequest) error {
	name := strings.TrimSpace(in.Name)
	mobile := strings.TrimSpace(in.Mobile)
	if name == "" || mobile == "" {
		return fmt.Errorf("%w: nombre y celular son obligatorios", domain.ErrInvalidInput)
	}
	if !entity.ValidSubscriptionType(in.SubscriptionType) {
		return fmt.Errorf("%w: tipo de suscripción %q (daily | monthly)", domain.ErrInvalidInput, in.SubscriptionType)
	}
	if in.DailyAmount.IsNegative() {
		return fmt.Errorf("%w: la tarifa no puede ser negativa", domain.ErrInvalidInput)
	}
	if !money.Cents(in.DailyAmount) {
		return fmt.Errorf("%w: la tarifa admite como máximo dos decimales", domain.ErrInvalidInput)
	}
	meals, err := normalizeMealTimes(in.MealTimes)
	if err != nil {
		return err
	}
	start, err := billing.ParseDate(in.StartDate)
	if err != nil {
		return err
	}
	status := in.Status
	if status == "" {
		status = entity.CustomerStatusActive
	}
	if !entity.ValidCustomerStatus(status) {
		return fmt.Errorf("%w: estado %q (active | paused)", domain.ErrInvalidInput, status)
	}

	c.Name = name
	c.Mobile = mobile
	c.Address = strings.TrimSpace(in.Address)
	c.SubscriptionType = in.SubscriptionType
	c.DailyAmount = in.DailyAmount
	c.MealTimes = meals
	c.Referral = strings.TrimSpace(in.Referral)
	c.StartDate = start
	c.Status = status
	return nil
}

// normalizeMealTimes exige un subconjunto no vacío de las comidas y lo devuelve en orden canónico.
func normalizeMealTimes(in []string) ([]string, error) {
	seen := make(map[string]bool, len(in))
	for _, m := range in {
		if !entity.ValidMealType(m) {
			return nil, fmt.Errorf("%w: comida %q", domain.ErrInvalidInput, m)
		}
		seen[m] = true
	}
	out := make([]string, 0, len(seen))
	for _, m := range entity.MealTypes {
		if seen[m] {
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: al menos una comida es obligatoria", domain.ErrInvalidInput)
	}
	return out, nil
}
