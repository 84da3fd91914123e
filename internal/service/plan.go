package service

import (
	"context"
	"encoding/json"
	"fmt"

	"coaching-checkout/internal/apperror"
	"coaching-checkout/internal/dto"
	"coaching-checkout/internal/repository"

	"github.com/shopspring/decimal"
)

type PlanService interface {
	Catalog(ctx context.Context) (*dto.CatalogResponse, error)
}

type planServiceImpl struct {
	planRepo        repository.PlanRepository
	extraVideoPrice decimal.Decimal
}

func NewPlanService(planRepo repository.PlanRepository, extraVideoPriceARS int64) PlanService {
	return &planServiceImpl{
		planRepo:        planRepo,
		extraVideoPrice: decimal.NewFromInt(extraVideoPriceARS),
	}
}

// Catalog returns the active plans ascending by price, together with the
// extra-video price so the client previews the same total the server will
// charge.
func (s *planServiceImpl) Catalog(ctx context.Context) (*dto.CatalogResponse, error) {
	plans, err := s.planRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list plans: %v", apperror.ErrUpstream, err)
	}

	out := make([]*dto.PlanResponse, len(plans))
	for i, p := range plans {
		var benefits []string
		if p.Benefits != "" {
			if err := json.Unmarshal([]byte(p.Benefits), &benefits); err != nil {
				benefits = nil
			}
		}

		out[i] = &dto.PlanResponse{
			Code:     p.Code,
			Name:     p.Name,
			Cadence:  string(p.Cadence),
			Days:     p.Days,
			PriceARS: p.PriceARS.String(),
			Benefits: benefits,
		}
	}

	return &dto.CatalogResponse{
		Plans:              out,
		ExtraVideoPriceARS: s.extraVideoPrice.String(),
	}, nil
}
