package catalog

import (
	"context"
	"errors"

	"brewhouse/internal/structs"
	"brewhouse/pkg/config"
	"brewhouse/pkg/logger"
	"brewhouse/pkg/redis"
	productRepo "brewhouse/pkg/repository/postgres/product_repo"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	Module = fx.Provide(New)
)

const menuCacheKey = "catalog.menu"

type (
	Params struct {
		fx.In
		ProductRepo productRepo.Repo
		Cache       redis.Client
		Config      config.IConfig
		Logger      logger.Logger
	}

	Service interface {
		Menu(ctx context.Context) (structs.Menu, error)
		ListCoffee(ctx context.Context) ([]structs.Coffee, error)
		ListTea(ctx context.Context) ([]structs.Tea, error)
		ListSyrup(ctx context.Context) ([]structs.Syrup, error)
		// Resolve looks a product up by its (type, id) tag pair.
		Resolve(ctx context.Context, productType string, id int64) (structs.Product, error)
	}

	service struct {
		productRepo productRepo.Repo
		cache       redis.Client
		config      config.IConfig
		logger      logger.Logger
	}
)

func New(p Params) Service {
	return &service{
		productRepo: p.ProductRepo,
		cache:       p.Cache,
		config:      p.Config,
		logger:      p.Logger,
	}
}

// Menu assembles the full storefront listing. The catalog is read-only from
// this service's point of view, so a short TTL cache is enough.
func (s *service) Menu(ctx context.Context) (structs.Menu, error) {
	var cached structs.Menu
	if err := s.cache.FindObj(ctx, menuCacheKey, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, redis.ErrNotFound) {
		s.logger.Warn(ctx, "menu cache read failed", zap.Error(err))
	}

	coffees, err := s.productRepo.ListCoffee(ctx)
	if err != nil {
		s.logger.Error(ctx, "->productRepo.ListCoffee", zap.Error(err))
		return structs.Menu{}, err
	}
	teas, err := s.productRepo.ListTea(ctx)
	if err != nil {
		s.logger.Error(ctx, "->productRepo.ListTea", zap.Error(err))
		return structs.Menu{}, err
	}
	syrups, err := s.productRepo.ListSyrup(ctx)
	if err != nil {
		s.logger.Error(ctx, "->productRepo.ListSyrup", zap.Error(err))
		return structs.Menu{}, err
	}

	menu := structs.Menu{Coffees: coffees, Teas: teas, Syrups: syrups}

	if err := s.cache.SaveObj(ctx, menuCacheKey, menu, s.config.GetDuration("catalog.cache_ttl")); err != nil {
		s.logger.Warn(ctx, "menu cache write failed", zap.Error(err))
	}

	return menu, nil
}

func (s *service) ListCoffee(ctx context.Context) ([]structs.Coffee, error) {
	coffees, err := s.productRepo.ListCoffee(ctx)
	if err != nil {
		s.logger.Error(ctx, "->productRepo.ListCoffee", zap.Error(err))
		return nil, err
	}
	return coffees, nil
}

func (s *service) ListTea(ctx context.Context) ([]structs.Tea, error) {
	teas, err := s.productRepo.ListTea(ctx)
	if err != nil {
		s.logger.Error(ctx, "->productRepo.ListTea", zap.Error(err))
		return nil, err
	}
	return teas, nil
}

func (s *service) ListSyrup(ctx context.Context) ([]structs.Syrup, error) {
	syrups, err := s.productRepo.ListSyrup(ctx)
	if err != nil {
		s.logger.Error(ctx, "->productRepo.ListSyrup", zap.Error(err))
		return nil, err
	}
	return syrups, nil
}

func (s *service) Resolve(ctx context.Context, productType string, id int64) (structs.Product, error) {
	ptype, err := structs.NormalizeProductType(productType)
	if err != nil {
		return nil, err
	}

	switch ptype {
	case structs.ProductTypeCoffee:
		c, err := s.productRepo.GetCoffeeByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return c, nil
	case structs.ProductTypeTea:
		t, err := s.productRepo.GetTeaByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return t, nil
	default:
		sy, err := s.productRepo.GetSyrupByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return sy, nil
	}
}
