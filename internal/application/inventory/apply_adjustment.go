package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stock-ledger/internal/application/ports"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
	"github.com/tu-usuario/stock-ledger/pkg/logger"
)

// ApplyAdjustmentUseCase es la única puerta de entrada para cambios de cantidad:
// valida el comando, bloquea la fila (SELECT FOR UPDATE), verifica invariantes,
// muta stock_levels y agrega el ajuste al ledger, todo en una transacción.
// Un comando rechazado no deja rastro en el ledger.
type ApplyAdjustmentUseCase struct {
	txRunner     TxRunner
	locationRepo repository.LocationRepository
	catalog      ports.CatalogService
	publisher    ports.AdjustmentPublisher
	log          *logger.Logger

	defaultMaxBackorder int64
}

// NewApplyAdjustmentUseCase construye el procesador de ajustes.
func NewApplyAdjustmentUseCase(
	txRunner TxRunner,
	locationRepo repository.LocationRepository,
	catalog ports.CatalogService,
	publisher ports.AdjustmentPublisher,
	log *logger.Logger,
	defaultMaxBackorder int64,
) *ApplyAdjustmentUseCase {
	if publisher == nil {
		publisher = ports.NoopPublisher{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ApplyAdjustmentUseCase{
		txRunner:            txRunner,
		locationRepo:        locationRepo,
		catalog:             catalog,
		publisher:           publisher,
		log:                 log,
		defaultMaxBackorder: defaultMaxBackorder,
	}
}

// AdjustmentCommand entrada para aplicar un ajuste de inventario.
// received/sold/transfer: Quantity > 0. adjustment: Quantity es el delta con
// signo. count: Quantity es el conteo observado (>= 0).
// ReleaseCommitted (solo sold): unidades reservadas que se despachan con la venta.
type AdjustmentCommand struct {
	ProductID        string
	LocationID       string
	FromLocationID   string
	Type             string
	Quantity         int64
	ReleaseCommitted int64
	Reason           string
	Actor            string
}

// Apply procesa el comando y devuelve los ajustes persistidos (dos para un
// traslado, uno en el resto de casos). Las lecturas de catálogo y ubicación se
// resuelven antes de tomar cualquier bloqueo de fila.
func (uc *ApplyAdjustmentUseCase) Apply(ctx context.Context, cmd AdjustmentCommand) ([]*entity.Adjustment, error) {
	if err := uc.validate(cmd); err != nil {
		return nil, err
	}

	product, err := uc.catalog.GetProduct(ctx, cmd.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	maxBackorder := product.MaxBackorder
	if maxBackorder == 0 {
		maxBackorder = uc.defaultMaxBackorder
	}

	if err := uc.checkLocations(ctx, cmd); err != nil {
		return nil, err
	}

	now := time.Now()
	var applied []*entity.Adjustment

	// Transacción: Commit si todo ok, Rollback si algo falla (TxRunner.Run lo hace).
	err = uc.txRunner.Run(ctx, func(
		adjRepo repository.AdjustmentRepository,
		levelRepo repository.StockLevelRepository,
	) error {
		var txErr error
		if cmd.Type == entity.AdjustmentTypeTransfer {
			applied, txErr = uc.doTransfer(ctx, adjRepo, levelRepo, product, cmd, maxBackorder, now)
		} else {
			applied, txErr = uc.doSingle(ctx, adjRepo, levelRepo, product, cmd, maxBackorder, now)
		}
		return txErr
	})
	if err != nil {
		return nil, err
	}

	// Publicación post-commit, best-effort: el ledger ya quedó confirmado.
	if pubErr := uc.publisher.PublishApplied(ctx, applied); pubErr != nil {
		uc.log.Warn().Err(pubErr).
			Str("product_id", cmd.ProductID).
			Str("type", cmd.Type).
			Msg("no se pudo publicar el evento de ajuste")
	}

	return applied, nil
}

// validate verifica la forma del comando antes de tocar catálogo o BD.
func (uc *ApplyAdjustmentUseCase) validate(cmd AdjustmentCommand) error {
	if cmd.ProductID == "" || cmd.LocationID == "" || cmd.Actor == "" {
		return domain.ErrInvalidInput
	}
	if !entity.ValidAdjustmentType(cmd.Type) {
		return domain.ErrInvalidInput
	}
	switch cmd.Type {
	case entity.AdjustmentTypeReceived, entity.AdjustmentTypeSold:
		if cmd.Quantity <= 0 {
			return domain.ErrInvalidInput
		}
	case entity.AdjustmentTypeAdjustment:
		if cmd.Quantity == 0 {
			return domain.ErrInvalidInput
		}
	case entity.AdjustmentTypeCount:
		if cmd.Quantity < 0 {
			return domain.ErrInvalidInput
		}
	case entity.AdjustmentTypeTransfer:
		if cmd.Quantity <= 0 || cmd.FromLocationID == "" || cmd.FromLocationID == cmd.LocationID {
			return domain.ErrInvalidInput
		}
	}
	if cmd.Type == entity.AdjustmentTypeSold {
		if cmd.ReleaseCommitted < 0 || cmd.ReleaseCommitted > cmd.Quantity {
			return domain.ErrInvalidInput
		}
	} else if cmd.ReleaseCommitted != 0 {
		return domain.ErrInvalidInput
	}
	return nil
}

// checkLocations valida existencia (y actividad para destinos de entrada) de
// las ubicaciones referenciadas, antes de entrar a la sección bloqueada.
func (uc *ApplyAdjustmentUseCase) checkLocations(ctx context.Context, cmd AdjustmentCommand) error {
	loc, err := uc.locationRepo.GetByID(ctx, cmd.LocationID)
	if err != nil {
		return err
	}
	if loc == nil {
		return domain.ErrLocationNotFound
	}
	// Una ubicación desactivada no recibe stock nuevo; salidas y conteos siguen
	// permitidos para poder vaciarla.
	receiving := cmd.Type == entity.AdjustmentTypeReceived || cmd.Type == entity.AdjustmentTypeTransfer
	if receiving && !loc.Active {
		return domain.ErrInvalidInput
	}
	if cmd.Type == entity.AdjustmentTypeTransfer {
		from, err := uc.locationRepo.GetByID(ctx, cmd.FromLocationID)
		if err != nil {
			return err
		}
		if from == nil {
			return domain.ErrLocationNotFound
		}
	}
	return nil
}

// doSingle aplica received, sold, adjustment o count sobre una sola fila.
func (uc *ApplyAdjustmentUseCase) doSingle(
	ctx context.Context,
	adjRepo repository.AdjustmentRepository,
	levelRepo repository.StockLevelRepository,
	product *ports.ProductInfo,
	cmd AdjustmentCommand,
	maxBackorder int64,
	now time.Time,
) ([]*entity.Adjustment, error) {
	level, err := levelRepo.GetForUpdate(ctx, cmd.ProductID, cmd.LocationID)
	if err != nil {
		return nil, err
	}

	var delta int64
	reason := cmd.Reason
	switch cmd.Type {
	case entity.AdjustmentTypeReceived:
		delta = cmd.Quantity
	case entity.AdjustmentTypeSold:
		delta = -cmd.Quantity
	case entity.AdjustmentTypeAdjustment:
		delta = cmd.Quantity
	case entity.AdjustmentTypeCount:
		delta = cmd.Quantity - level.OnHand
		reason = entity.CycleCountReason
	}

	adj, err := uc.mutate(ctx, adjRepo, levelRepo, level, product, mutation{
		typ:              cmd.Type,
		delta:            delta,
		releaseCommitted: cmd.ReleaseCommitted,
		reason:           reason,
		actor:            cmd.Actor,
		backorderCheck:   cmd.Type == entity.AdjustmentTypeSold || delta < 0,
	}, maxBackorder, now, "")
	if err != nil {
		return nil, err
	}
	return []*entity.Adjustment{adj}, nil
}

// doTransfer aplica el par atómico de un traslado: decremento en origen e
// incremento en destino, ambos ligados por un transfer_ref compartido. Los
// bloqueos se toman en orden lexicográfico por (producto, ubicación) para
// evitar deadlocks entre traslados cruzados.
func (uc *ApplyAdjustmentUseCase) doTransfer(
	ctx context.Context,
	adjRepo repository.AdjustmentRepository,
	levelRepo repository.StockLevelRepository,
	product *ports.ProductInfo,
	cmd AdjustmentCommand,
	maxBackorder int64,
	now time.Time,
) ([]*entity.Adjustment, error) {
	first, second := cmd.FromLocationID, cmd.LocationID
	if second < first {
		first, second = second, first
	}
	firstLevel, err := levelRepo.GetForUpdate(ctx, cmd.ProductID, first)
	if err != nil {
		return nil, err
	}
	secondLevel, err := levelRepo.GetForUpdate(ctx, cmd.ProductID, second)
	if err != nil {
		return nil, err
	}

	source, dest := firstLevel, secondLevel
	if source.LocationID != cmd.FromLocationID {
		source, dest = secondLevel, firstLevel
	}

	transferRef := uuid.New().String()
	fromID := cmd.FromLocationID

	out, err := uc.mutate(ctx, adjRepo, levelRepo, source, product, mutation{
		typ:            entity.AdjustmentTypeTransfer,
		delta:          -cmd.Quantity,
		reason:         cmd.Reason,
		actor:          cmd.Actor,
		fromLocationID: &fromID,
		backorderCheck: true,
	}, maxBackorder, now, transferRef)
	if err != nil {
		return nil, err
	}
	in, err := uc.mutate(ctx, adjRepo, levelRepo, dest, product, mutation{
		typ:            entity.AdjustmentTypeTransfer,
		delta:          cmd.Quantity,
		reason:         cmd.Reason,
		actor:          cmd.Actor,
		fromLocationID: &fromID,
	}, maxBackorder, now, transferRef)
	if err != nil {
		return nil, err
	}
	return []*entity.Adjustment{out, in}, nil
}

// mutation parámetros internos de una mutación ya resuelta (delta calculado).
type mutation struct {
	typ              string
	delta            int64
	releaseCommitted int64
	reason           string
	actor            string
	fromLocationID   *string
	backorderCheck   bool // true si un piso violado es stock insuficiente (recuperable)
}

// mutate computa el nuevo on-hand, verifica invariantes, persiste la fila y
// agrega el ajuste. La fila ya debe estar bloqueada por el caller.
func (uc *ApplyAdjustmentUseCase) mutate(
	ctx context.Context,
	adjRepo repository.AdjustmentRepository,
	levelRepo repository.StockLevelRepository,
	level *entity.StockLevel,
	product *ports.ProductInfo,
	m mutation,
	maxBackorder int64,
	now time.Time,
	transferRef string,
) (*entity.Adjustment, error) {
	previous := level.OnHand
	level.OnHand += m.delta
	level.Committed -= m.releaseCommitted

	if err := level.CheckInvariants(product.AllowBackorder, maxBackorder); err != nil {
		switch {
		case errors.Is(err, entity.ErrOnHandBelowFloor) && m.backorderCheck:
			return nil, domain.ErrInsufficientStock
		default:
			// committed > onHand (o un piso roto fuera de una salida) señala un
			// defecto aguas arriba, no un error de datos del caller.
			return nil, domain.ErrInvariantViolation
		}
	}

	level.UpdatedAt = now
	if err := levelRepo.Upsert(ctx, level); err != nil {
		return nil, err
	}

	qty := decimal.NewFromInt(m.delta)
	adj := &entity.Adjustment{
		TransferRef:    transferRef,
		ProductID:      level.ProductID,
		LocationID:     level.LocationID,
		FromLocationID: m.fromLocationID,
		Type:           m.typ,
		Quantity:       m.delta,
		PreviousOnHand: previous,
		NewOnHand:      level.OnHand,
		UnitCost:       product.Cost,
		TotalCost:      qty.Mul(product.Cost),
		Reason:         m.reason,
		CreatedBy:      m.actor,
		Date:           now,
		CreatedAt:      now,
	}
	if err := adjRepo.Create(ctx, adj); err != nil {
		return nil, err
	}
	return adj, nil
}
