// Package records contiene los casos de uso de la tabla de embarques: consulta,
// alta de contenedores multi-pack, edición y borrado con recálculo de lCont.
package records

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/shipping-dashboard/internal/application/dto"
	"github.com/jhoicas/shipping-dashboard/internal/domain"
	"github.com/jhoicas/shipping-dashboard/internal/domain/entity"
	"github.com/jhoicas/shipping-dashboard/internal/domain/loadcount"
	"github.com/jhoicas/shipping-dashboard/internal/domain/normalize"
	"github.com/jhoicas/shipping-dashboard/internal/domain/pack"
	"github.com/jhoicas/shipping-dashboard/internal/domain/repository"
)

// UseCase casos de uso de registros de embarque.
type UseCase struct {
	repo     repository.ShippingRecordRepository
	tx       TxRunner
	verifier PasswordVerifier
	now      func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.ShippingRecordRepository, tx TxRunner, verifier PasswordVerifier) *UseCase {
	return &UseCase{repo: repo, tx: tx, verifier: verifier, now: time.Now}
}

// List devuelve una página de registros filtrados.
func (uc *UseCase) List(ctx context.Context, in dto.RecordFilterRequest) (*dto.RecordListResponse, error) {
	in.DefaultPage()
	f, err := ToFilter(in)
	if err != nil {
		return nil, err
	}
	rows, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	out := &dto.RecordListResponse{
		Items: make([]dto.RecordResponse, 0, len(rows)),
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset, Total: total},
	}
	for _, r := range rows {
		out.Items = append(out.Items, ToResponse(r))
	}
	return out, nil
}

// Get devuelve un registro por ID.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.RecordResponse, error) {
	r, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	out := ToResponse(r)
	return &out, nil
}

// Packs devuelve los packs distintos cargados para el producto.
func (uc *UseCase) Packs(ctx context.Context, item string) ([]string, error) {
	return uc.repo.DistinctPacks(ctx, strings.ToUpper(strings.TrimSpace(item)))
}

// Suppliers devuelve los proveedores distintos cargados para el producto.
func (uc *UseCase) Suppliers(ctx context.Context, item string) ([]string, error) {
	return uc.repo.DistinctSuppliers(ctx, strings.ToUpper(strings.TrimSpace(item)))
}

// CheckDuplicate informa si ya hay registros para el contenedor+ETD.
func (uc *UseCase) CheckDuplicate(ctx context.Context, container, etd string) (*dto.DuplicateCheckResponse, error) {
	key, err := containerKey(container, etd)
	if err != nil {
		return nil, err
	}
	existing, err := uc.repo.ListByContainer(ctx, key)
	if err != nil {
		return nil, err
	}
	out := &dto.DuplicateCheckResponse{
		Container: key.Container,
		ETD:       key.ETD,
		Exists:    len(existing) > 0,
		Records:   make([]dto.RecordResponse, 0, len(existing)),
	}
	for _, r := range existing {
		out.Records = append(out.Records, ToResponse(r))
	}
	return out, nil
}

// CreateContainer da de alta todas las líneas de pack de un contenedor y recalcula lCont
// del grupo completo (incluidas líneas ya existentes) en una sola transacción.
// Si el contenedor+ETD ya tiene registros y no viene Force, devuelve ErrDuplicateContainer.
func (uc *UseCase) CreateContainer(ctx context.Context, in dto.ContainerEntryRequest) ([]dto.RecordResponse, error) {
	key, err := containerKey(in.Container, in.ETD)
	if err != nil {
		return nil, err
	}
	if err := validateEntry(in); err != nil {
		return nil, err
	}
	etd, _ := time.Parse(entity.DateLayout, key.ETD)
	year, week := isoDefaults(etd, in.Year, in.Week)
	recType := strings.ToUpper(strings.TrimSpace(in.Type))
	if recType == "" {
		recType = entity.TypeContract
	}

	now := uc.now()
	created := make([]*entity.ShippingRecord, 0, len(in.Lines))
	for _, l := range in.Lines {
		created = append(created, &entity.ShippingRecord{
			ID:          uuid.New().String(),
			Year:        year,
			Week:        week,
			ETD:         etd,
			POL:         strings.ToUpper(strings.TrimSpace(in.POL)),
			Item:        in.Item,
			Destination: strings.ToUpper(strings.TrimSpace(in.Destination)),
			Supplier:    strings.ToUpper(strings.TrimSpace(l.Supplier)),
			SLine:       strings.ToUpper(strings.TrimSpace(in.SLine)),
			Container:   key.Container,
			Pack:        pack.NormalizeCode(l.Pack),
			Cartons:     l.Cartons,
			Price:       l.Price.Round(2),
			Type:        recType,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	err = uc.tx.Run(ctx, func(recs repository.ShippingRecordRepository) error {
		existing, err := recs.ListByContainer(ctx, key)
		if err != nil {
			return err
		}
		if len(existing) > 0 && !in.Force {
			return fmt.Errorf("%w: %s %s (%d líneas)", domain.ErrDuplicateContainer, key.Container, key.ETD, len(existing))
		}
		loadcount.ForGroup(append(append([]*entity.ShippingRecord{}, existing...), created...))
		for _, r := range created {
			if err := recs.Create(ctx, r); err != nil {
				return err
			}
		}
		return recs.UpdateLoadCounts(ctx, existing)
	})
	if err != nil {
		return nil, err
	}

	out := make([]dto.RecordResponse, 0, len(created))
	for _, r := range created {
		out = append(out, ToResponse(r))
	}
	return out, nil
}

// Update edita una línea y recalcula lCont del contenedor de origen y del de destino.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.UpdateRecordRequest) (*dto.RecordResponse, error) {
	key, err := containerKey(in.Container, in.ETD)
	if err != nil {
		return nil, err
	}
	if in.Cartons < 0 {
		return nil, fmt.Errorf("%w: cartons no puede ser negativo", domain.ErrInvalidInput)
	}
	if in.Item != entity.ItemBananas && in.Item != entity.ItemPineapples {
		return nil, fmt.Errorf("%w: item inválido %q", domain.ErrInvalidInput, in.Item)
	}
	var invoiceDate *time.Time
	if strings.TrimSpace(in.InvoiceDate) != "" {
		d, err := normalize.Date(in.InvoiceDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invoice_date: %v", domain.ErrInvalidInput, err)
		}
		invoiceDate = &d
	}

	var updated *entity.ShippingRecord
	err = uc.tx.Run(ctx, func(recs repository.ShippingRecordRepository) error {
		r, err := recs.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if r == nil {
			return domain.ErrNotFound
		}
		oldKey := r.GroupKey()

		r.ETD, _ = time.Parse(entity.DateLayout, key.ETD)
		r.Container = key.Container
		r.Year, r.Week = isoDefaults(r.ETD, in.Year, in.Week)
		r.POL = strings.ToUpper(strings.TrimSpace(in.POL))
		r.Item = in.Item
		r.Destination = strings.ToUpper(strings.TrimSpace(in.Destination))
		r.Supplier = strings.ToUpper(strings.TrimSpace(in.Supplier))
		r.SLine = strings.ToUpper(strings.TrimSpace(in.SLine))
		r.Pack = pack.NormalizeCode(in.Pack)
		r.Cartons = in.Cartons
		r.Price = in.Price.Round(2)
		if t := strings.ToUpper(strings.TrimSpace(in.Type)); t != "" {
			r.Type = t
		}
		r.InvoiceNo = strings.ToUpper(strings.TrimSpace(in.InvoiceNo))
		r.InvoiceDate = invoiceDate
		r.CustomerName = strings.TrimSpace(in.Customer)
		r.BillingNo = strings.TrimSpace(in.BillingNo)
		r.UpdatedAt = uc.now()

		if err := recs.Update(ctx, r); err != nil {
			return err
		}
		if err := recalculate(ctx, recs, r.GroupKey()); err != nil {
			return err
		}
		if oldKey != r.GroupKey() {
			if err := recalculate(ctx, recs, oldKey); err != nil {
				return err
			}
		}
		updated, err = recs.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := ToResponse(updated)
	return &out, nil
}

// Delete re-autentica al usuario y elimina definitivamente la línea; el resto del
// contenedor queda recalculado.
func (uc *UseCase) Delete(ctx context.Context, userID, id, password string) error {
	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("%w: se requiere la contraseña para eliminar", domain.ErrInvalidInput)
	}
	if err := uc.verifier.VerifyPassword(ctx, userID, password); err != nil {
		return err
	}
	return uc.tx.Run(ctx, func(recs repository.ShippingRecordRepository) error {
		r, err := recs.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if r == nil {
			return domain.ErrNotFound
		}
		if err := recs.Delete(ctx, id); err != nil {
			return err
		}
		return recalculate(ctx, recs, r.GroupKey())
	})
}

// recalculate reasigna lCont a todas las líneas del contenedor+ETD.
func recalculate(ctx context.Context, recs repository.ShippingRecordRepository, key entity.ContainerKey) error {
	group, err := recs.ListByContainer(ctx, key)
	if err != nil {
		return err
	}
	if len(group) == 0 {
		return nil
	}
	loadcount.ForGroup(group)
	return recs.UpdateLoadCounts(ctx, group)
}

func containerKey(container, etd string) (entity.ContainerKey, error) {
	c := normalize.Container(container)
	if c == "" {
		return entity.ContainerKey{}, fmt.Errorf("%w: contenedor requerido", domain.ErrInvalidInput)
	}
	d, err := normalize.Date(etd)
	if err != nil {
		return entity.ContainerKey{}, fmt.Errorf("%w: etd: %v", domain.ErrInvalidInput, err)
	}
	return entity.ContainerKey{Container: c, ETD: d.Format(entity.DateLayout)}, nil
}

func validateEntry(in dto.ContainerEntryRequest) error {
	if in.Item != entity.ItemBananas && in.Item != entity.ItemPineapples {
		return fmt.Errorf("%w: item inválido %q", domain.ErrInvalidInput, in.Item)
	}
	if len(in.Lines) == 0 {
		return fmt.Errorf("%w: el contenedor necesita al menos una línea de pack", domain.ErrInvalidInput)
	}
	for i, l := range in.Lines {
		if strings.TrimSpace(l.Supplier) == "" || strings.TrimSpace(l.Pack) == "" {
			return fmt.Errorf("%w: línea %d: proveedor y pack requeridos", domain.ErrInvalidInput, i+1)
		}
		if l.Cartons <= 0 {
			return fmt.Errorf("%w: línea %d: cartons debe ser mayor a 0", domain.ErrInvalidInput, i+1)
		}
	}
	return nil
}

// isoDefaults completa año y semana con los ISO del ETD, campo por campo.
func isoDefaults(etd time.Time, year, week int) (int, int) {
	isoYear, isoWeek := etd.ISOWeek()
	if year == 0 {
		year = isoYear
	}
	if week == 0 {
		week = isoWeek
	}
	return year, week
}

// ToFilter traduce los filtros de la petición al filtro del repositorio.
func ToFilter(in dto.RecordFilterRequest) (repository.RecordFilter, error) {
	f := repository.RecordFilter{
		Item:      strings.ToUpper(strings.TrimSpace(in.Item)),
		Year:      in.Year,
		Week:      in.Week,
		Supplier:  strings.ToUpper(strings.TrimSpace(in.Supplier)),
		Pack:      pack.NormalizeCode(in.Pack),
		Container: normalize.Container(in.Container),
		Type:      strings.ToUpper(strings.TrimSpace(in.Type)),
		InvoiceNo: strings.ToUpper(strings.TrimSpace(in.InvoiceNo)),
		Limit:     in.Limit,
		Offset:    in.Offset,
	}
	for _, p := range []struct {
		raw string
		dst **time.Time
	}{{in.ETDFrom, &f.ETDFrom}, {in.ETDTo, &f.ETDTo}} {
		if strings.TrimSpace(p.raw) == "" {
			continue
		}
		d, err := normalize.Date(p.raw)
		if err != nil {
			return f, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		*p.dst = &d
	}
	return f, nil
}

// ToResponse mapea la entidad al DTO de la tabla.
func ToResponse(r *entity.ShippingRecord) dto.RecordResponse {
	out := dto.RecordResponse{
		ID:           r.ID,
		Year:         r.Year,
		Week:         r.Week,
		ETD:          r.ETD.Format(entity.DateLayout),
		POL:          r.POL,
		Item:         r.Item,
		Destination:  r.Destination,
		Supplier:     r.Supplier,
		SLine:        r.SLine,
		Container:    r.Container,
		Pack:         r.Pack,
		LCont:        r.LCont,
		Cartons:      r.Cartons,
		Price:        r.Price,
		Type:         r.Type,
		InvoiceNo:    r.InvoiceNo,
		CustomerName: r.CustomerName,
		BillingNo:    r.BillingNo,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.InvoiceDate != nil {
		out.InvoiceDate = r.InvoiceDate.Format(entity.DateLayout)
	}
	return out
}
