package service

import (
	"context"
	"fmt"
	"strconv"

	"book-companion-be/internal/constant"
	"book-companion-be/internal/dto"
	"book-companion-be/internal/repository/unitofwork"
)

type ISettingsService interface {
	Get(ctx context.Context) (*dto.SettingsResponse, error)
	Update(ctx context.Context, req *dto.UpdateSettingsRequest) (*dto.SettingsResponse, error)
}

type settingsService struct {
	uowFactory   unitofwork.RepositoryFactory
	defaultModel string
}

func NewSettingsService(uowFactory unitofwork.RepositoryFactory, defaultModel string) ISettingsService {
	return &settingsService{
		uowFactory:   uowFactory,
		defaultModel: defaultModel,
	}
}

func (s *settingsService) Get(ctx context.Context) (*dto.SettingsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	res := &dto.SettingsResponse{
		Model:         s.defaultModel,
		TopK:          constant.DefaultTopK,
		ContextBudget: constant.DefaultContextBudget,
		AllowedModels: constant.AllowedModels,
	}

	if value, ok, err := uow.SettingRepository().Get(ctx, constant.SettingKeyModel); err != nil {
		return nil, err
	} else if ok && constant.IsAllowedModel(value) {
		res.Model = value
	}
	if value, ok, err := uow.SettingRepository().Get(ctx, constant.SettingKeyTopK); err != nil {
		return nil, err
	} else if ok {
		if n, convErr := strconv.Atoi(value); convErr == nil && n > 0 {
			res.TopK = n
		}
	}
	if value, ok, err := uow.SettingRepository().Get(ctx, constant.SettingKeyContextBudget); err != nil {
		return nil, err
	} else if ok {
		if n, convErr := strconv.Atoi(value); convErr == nil && n > 0 {
			res.ContextBudget = n
		}
	}

	return res, nil
}

func (s *settingsService) Update(ctx context.Context, req *dto.UpdateSettingsRequest) (*dto.SettingsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if req.Model != nil {
		if !constant.IsAllowedModel(*req.Model) {
			return nil, fmt.Errorf("model %q: %w", *req.Model, ErrModelNotAllowed)
		}
		if err := uow.SettingRepository().Set(ctx, constant.SettingKeyModel, *req.Model); err != nil {
			return nil, err
		}
	}
	if req.TopK != nil {
		if err := uow.SettingRepository().Set(ctx, constant.SettingKeyTopK, strconv.Itoa(*req.TopK)); err != nil {
			return nil, err
		}
	}
	if req.ContextBudget != nil {
		if err := uow.SettingRepository().Set(ctx, constant.SettingKeyContextBudget, strconv.Itoa(*req.ContextBudget)); err != nil {
			return nil, err
		}
	}

	return s.Get(ctx)
}
