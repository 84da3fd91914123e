package repository

import (
	"context"

	"coaching-checkout/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PlanRepository interface {
	Seed(ctx context.Context) error
	FindByCode(ctx context.Context, code string) (*model.Plan, error)
	ListActive(ctx context.Context) ([]*model.Plan, error)
}

type planRepoImpl struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepoImpl{
		db: db,
	}
}

func (r *planRepoImpl) Seed(ctx context.Context) error {
	plans := []model.Plan{
		{Code: "semanal-3", Name: "Plan Semanal 3 días", Cadence: model.CadenceWeekly, Days: 3, PriceARS: decimal.NewFromInt(26000), Active: true, Benefits: `["Rutina personalizada","Seguimiento semanal"]`},
		{Code: "semanal-5", Name: "Plan Semanal 5 días", Cadence: model.CadenceWeekly, Days: 5, PriceARS: decimal.NewFromInt(32000), Active: true, Benefits: `["Rutina personalizada","Seguimiento semanal","Ajustes de carga"]`},
		{Code: "semanal-7", Name: "Plan Semanal 7 días", Cadence: model.CadenceWeekly, Days: 7, PriceARS: decimal.NewFromInt(38000), Active: true, Benefits: `["Rutina personalizada","Seguimiento diario","Ajustes de carga","Check-in diario"]`},
		{Code: "mensual-4", Name: "Plan Mensual 4 días", Cadence: model.CadenceMonthly, Days: 4, PriceARS: decimal.NewFromInt(95000), Active: true, Benefits: `["Rutina mensual","Revisión de video","Seguimiento 1RM"]`},
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&plans).Error
}

func (r *planRepoImpl) FindByCode(ctx context.Context, code string) (*model.Plan, error) {
	var plan model.Plan
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&plan).Error

	if err != nil {
		return nil, err
	}

	return &plan, nil
}

func (r *planRepoImpl) ListActive(ctx context.Context) ([]*model.Plan, error) {
	var plans []*model.Plan
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("price_ars ASC").
		Find(&plans).
		Error

	if err != nil {
		return nil, err
	}

	return plans, nil
}
