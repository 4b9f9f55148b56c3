package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/scd892/GoldAssayTracker/internal/model"
	"github.com/scd892/GoldAssayTracker/internal/repository"
)

// ── 测试用内存 Repository 实现 ──

func newMockRepository() *repository.Repository {
	store := &mockStore{
		users:       map[uint]*model.User{},
		assayers:    map[uint]*model.Assayer{},
		results:     map[uint]*model.AssayResult{},
		benchmarks:  map[uint]*model.BenchmarkAssayer{},
		labs:        map[uint]*model.ExternalLab{},
		labResults:  map[uint]*model.InterlabResult{},
		comparisons: map[uint]*model.InterlabComparison{},
		trainees:    map[uint]*model.Trainee{},
		materials:   map[uint]*model.ReferenceMaterial{},
		evals:       map[uint]*model.TraineeEvaluation{},
	}
	return &repository.Repository{
		User:      &mockUserRepo{store},
		Assayer:   &mockAssayerRepo{store},
		Result:    &mockResultRepo{store},
		Benchmark: &mockBenchmarkRepo{store},
		Deviation: &mockDeviationRepo{store},
		Interlab:  &mockInterlabRepo{store},
		Trainee:   &mockTraineeRepo{store},
	}
}

type mockStore struct {
	seq         uint
	users       map[uint]*model.User
	assayers    map[uint]*model.Assayer
	results     map[uint]*model.AssayResult
	benchmarks  map[uint]*model.BenchmarkAssayer
	labs        map[uint]*model.ExternalLab
	labResults  map[uint]*model.InterlabResult
	comparisons map[uint]*model.InterlabComparison
	trainees    map[uint]*model.Trainee
	materials   map[uint]*model.ReferenceMaterial
	evals       map[uint]*model.TraineeEvaluation
	thresholds  *model.CertificationThreshold
}

func (s *mockStore) nextID() uint {
	s.seq++
	return s.seq
}

// ── UserRepository ──

type mockUserRepo struct{ s *mockStore }

func (r *mockUserRepo) Create(_ context.Context, user *model.User) error {
	user.ID = r.s.nextID()
	user.CreatedAt = time.Now()
	r.s.users[user.ID] = user
	return nil
}

func (r *mockUserRepo) GetByID(_ context.Context, id uint) (*model.User, error) {
	if user, ok := r.s.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, user := range r.s.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockUserRepo) Update(_ context.Context, user *model.User) error {
	r.s.users[user.ID] = user
	return nil
}

func (r *mockUserRepo) List(_ context.Context, offset, limit int) ([]model.User, int64, error) {
	users := make([]model.User, 0, len(r.s.users))
	for _, user := range r.s.users {
		users = append(users, *user)
	}
	return users, int64(len(users)), nil
}

func (r *mockUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.s.users)), nil
}

// ── AssayerRepository ──

type mockAssayerRepo struct{ s *mockStore }

func (r *mockAssayerRepo) Create(_ context.Context, assayer *model.Assayer) error {
	assayer.ID = r.s.nextID()
	assayer.CreatedAt = time.Now()
	r.s.assayers[assayer.ID] = assayer
	return nil
}

func (r *mockAssayerRepo) GetByID(_ context.Context, id uint) (*model.Assayer, error) {
	if assayer, ok := r.s.assayers[id]; ok {
		return assayer, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockAssayerRepo) GetByEmployeeID(_ context.Context, employeeID string) (*model.Assayer, error) {
	for _, assayer := range r.s.assayers {
		if assayer.EmployeeID == employeeID {
			return assayer, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockAssayerRepo) Update(_ context.Context, assayer *model.Assayer) error {
	r.s.assayers[assayer.ID] = assayer
	return nil
}

func (r *mockAssayerRepo) List(_ context.Context, activeOnly bool) ([]model.Assayer, error) {
	assayers := make([]model.Assayer, 0, len(r.s.assayers))
	for _, assayer := range r.s.assayers {
		if activeOnly && !assayer.IsActive {
			continue
		}
		assayers = append(assayers, *assayer)
	}
	sort.Slice(assayers, func(i, j int) bool { return assayers[i].Name < assayers[j].Name })
	return assayers, nil
}

// ── ResultRepository ──

type mockResultRepo struct{ s *mockStore }

func (r *mockResultRepo) Create(_ context.Context, result *model.AssayResult) error {
	result.ID = r.s.nextID()
	result.CreatedAt = time.Now()
	r.s.results[result.ID] = result
	return nil
}

func (r *mockResultRepo) GetByID(_ context.Context, id uint) (*model.AssayResult, error) {
	if result, ok := r.s.results[id]; ok {
		return result, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockResultRepo) GetByAssayerAndSample(_ context.Context, assayerID uint, sampleID string) (*model.AssayResult, error) {
	for _, result := range r.s.results {
		if result.AssayerID == assayerID && result.SampleID == sampleID {
			return result, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockResultRepo) Update(_ context.Context, result *model.AssayResult) error {
	r.s.results[result.ID] = result
	return nil
}

func (r *mockResultRepo) List(_ context.Context, filter repository.ResultFilter, offset, limit int) ([]model.AssayResult, int64, error) {
	results := make([]model.AssayResult, 0)
	for _, result := range r.s.results {
		if filter.AssayerID != 0 && result.AssayerID != filter.AssayerID {
			continue
		}
		if filter.SampleID != "" && result.SampleID != filter.SampleID {
			continue
		}
		if filter.Search != "" && !r.matchesSearch(result, filter.Search) {
			continue
		}
		if filter.StartDate != nil && result.TestDate.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && result.TestDate.After(*filter.EndDate) {
			continue
		}
		results = append(results, *result)
	}
	sort.Slice(results, func(i, j int) bool {
		if !results[i].TestDate.Equal(results[j].TestDate) {
			return results[i].TestDate.After(results[j].TestDate)
		}
		return results[i].SampleID < results[j].SampleID
	})
	return results, int64(len(results)), nil
}

func (r *mockResultRepo) matchesSearch(result *model.AssayResult, term string) bool {
	if strings.Contains(result.SampleID, term) || strings.Contains(result.Notes, term) {
		return true
	}
	if assayer, ok := r.s.assayers[result.AssayerID]; ok {
		return strings.Contains(assayer.Name, term)
	}
	return false
}

func (r *mockResultRepo) Delete(_ context.Context, id uint) error {
	delete(r.s.results, id)
	return nil
}

func (r *mockResultRepo) CountByAssayer(_ context.Context, assayerID uint) (int64, error) {
	var total int64
	for _, result := range r.s.results {
		if result.AssayerID == assayerID {
			total++
		}
	}
	return total, nil
}

// ── BenchmarkRepository ──

type mockBenchmarkRepo struct{ s *mockStore }

func (r *mockBenchmarkRepo) SetActive(_ context.Context, assayerID uint) error {
	for _, b := range r.s.benchmarks {
		b.IsActive = false
	}
	b := &model.BenchmarkAssayer{
		ID:        r.s.nextID(),
		AssayerID: assayerID,
		SetDate:   time.Now(),
		IsActive:  true,
	}
	r.s.benchmarks[b.ID] = b
	return nil
}

func (r *mockBenchmarkRepo) GetActive(_ context.Context) (*model.BenchmarkAssayer, error) {
	for _, b := range r.s.benchmarks {
		if b.IsActive {
			out := *b
			out.Assayer = r.s.assayers[b.AssayerID]
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockBenchmarkRepo) History(_ context.Context) ([]model.BenchmarkAssayer, error) {
	history := make([]model.BenchmarkAssayer, 0, len(r.s.benchmarks))
	for _, b := range r.s.benchmarks {
		out := *b
		out.Assayer = r.s.assayers[b.AssayerID]
		history = append(history, out)
	}
	sort.Slice(history, func(i, j int) bool { return history[i].SetDate.After(history[j].SetDate) })
	return history, nil
}

// ── DeviationRepository ──
// 与 SQL 自连接语义一致：仅返回基准化验员也检测过的样品

type mockDeviationRepo struct{ s *mockStore }

func (r *mockDeviationRepo) PairedRows(_ context.Context, benchmarkAssayerID uint, filter repository.DeviationFilter) ([]repository.DeviationRecord, error) {
	benchmarkBySample := map[string]float64{}
	for _, result := range r.s.results {
		if result.AssayerID == benchmarkAssayerID {
			benchmarkBySample[result.SampleID] = result.GoldContent
		}
	}

	rows := make([]repository.DeviationRecord, 0)
	for _, result := range r.s.results {
		if result.AssayerID == benchmarkAssayerID {
			continue
		}
		benchmark, ok := benchmarkBySample[result.SampleID]
		if !ok {
			continue
		}
		if filter.AssayerID != 0 && result.AssayerID != filter.AssayerID {
			continue
		}
		if filter.GoldType != "" && result.GoldType != filter.GoldType {
			continue
		}
		if filter.StartDate != nil && result.TestDate.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && result.TestDate.After(*filter.EndDate) {
			continue
		}

		name := ""
		if assayer, ok := r.s.assayers[result.AssayerID]; ok {
			name = assayer.Name
		}
		rows = append(rows, repository.DeviationRecord{
			SampleID:         result.SampleID,
			AssayerID:        result.AssayerID,
			AssayerName:      name,
			GoldType:         result.GoldType,
			TestDate:         result.TestDate,
			Reading:          result.GoldContent,
			BenchmarkReading: benchmark,
			BarWeight:        result.BarWeight,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].TestDate.Equal(rows[j].TestDate) {
			return rows[i].TestDate.After(rows[j].TestDate)
		}
		return rows[i].SampleID < rows[j].SampleID
	})
	return rows, nil
}

// ── InterlabRepository ──

type mockInterlabRepo struct{ s *mockStore }

func (r *mockInterlabRepo) CreateLab(_ context.Context, lab *model.ExternalLab) error {
	lab.ID = r.s.nextID()
	lab.CreatedAt = time.Now()
	r.s.labs[lab.ID] = lab
	return nil
}

func (r *mockInterlabRepo) GetLabByID(_ context.Context, id uint) (*model.ExternalLab, error) {
	if lab, ok := r.s.labs[id]; ok {
		return lab, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockInterlabRepo) GetLabByCode(_ context.Context, code string) (*model.ExternalLab, error) {
	for _, lab := range r.s.labs {
		if lab.LabCode == code {
			return lab, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockInterlabRepo) UpdateLab(_ context.Context, lab *model.ExternalLab) error {
	r.s.labs[lab.ID] = lab
	return nil
}

func (r *mockInterlabRepo) ListLabs(_ context.Context, activeOnly bool) ([]model.ExternalLab, error) {
	labs := make([]model.ExternalLab, 0, len(r.s.labs))
	for _, lab := range r.s.labs {
		if activeOnly && !lab.IsActive {
			continue
		}
		labs = append(labs, *lab)
	}
	sort.Slice(labs, func(i, j int) bool { return labs[i].LabName < labs[j].LabName })
	return labs, nil
}

func (r *mockInterlabRepo) GetBenchmarkLab(_ context.Context) (*model.ExternalLab, error) {
	for _, lab := range r.s.labs {
		if lab.IsBenchmark {
			return lab, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockInterlabRepo) ClearBenchmarkFlags(_ context.Context) error {
	for _, lab := range r.s.labs {
		lab.IsBenchmark = false
	}
	return nil
}

func (r *mockInterlabRepo) CreateResult(_ context.Context, result *model.InterlabResult) error {
	result.ID = r.s.nextID()
	result.CreatedAt = time.Now()
	r.s.labResults[result.ID] = result
	return nil
}

func (r *mockInterlabRepo) GetResultByID(_ context.Context, id uint) (*model.InterlabResult, error) {
	if result, ok := r.s.labResults[id]; ok {
		out := *result
		out.Lab = r.s.labs[result.LabID]
		return &out, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockInterlabRepo) GetResultByLabAndSample(_ context.Context, labID uint, sampleID string) (*model.InterlabResult, error) {
	for _, result := range r.s.labResults {
		if result.LabID == labID && result.SampleID == sampleID {
			return result, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockInterlabRepo) ListResultsByLab(_ context.Context, labID uint) ([]model.InterlabResult, error) {
	results := make([]model.InterlabResult, 0)
	for _, result := range r.s.labResults {
		if result.LabID == labID {
			results = append(results, *result)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].TestDate.After(results[j].TestDate) })
	return results, nil
}

func (r *mockInterlabRepo) CountResultsByLab(_ context.Context, labID uint) (int64, error) {
	var total int64
	for _, result := range r.s.labResults {
		if result.LabID == labID {
			total++
		}
	}
	return total, nil
}

func (r *mockInterlabRepo) CreateComparison(_ context.Context, cmp *model.InterlabComparison) error {
	cmp.ID = r.s.nextID()
	cmp.CreatedAt = time.Now()
	r.s.comparisons[cmp.ID] = cmp
	return nil
}

func (r *mockInterlabRepo) GetComparison(_ context.Context, internalID, externalID uint) (*model.InterlabComparison, error) {
	for _, cmp := range r.s.comparisons {
		if cmp.InternalResultID == internalID && cmp.ExternalResultID == externalID {
			return cmp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockInterlabRepo) ListComparisons(_ context.Context) ([]model.InterlabComparison, error) {
	cmps := make([]model.InterlabComparison, 0, len(r.s.comparisons))
	for _, cmp := range r.s.comparisons {
		cmps = append(cmps, *cmp)
	}
	sort.Slice(cmps, func(i, j int) bool { return cmps[i].ID < cmps[j].ID })
	return cmps, nil
}

// ── TraineeRepository ──

type mockTraineeRepo struct{ s *mockStore }

func (r *mockTraineeRepo) CreateTrainee(_ context.Context, trainee *model.Trainee) error {
	trainee.ID = r.s.nextID()
	trainee.CreatedAt = time.Now()
	r.s.trainees[trainee.ID] = trainee
	return nil
}

func (r *mockTraineeRepo) GetTraineeByID(_ context.Context, id uint) (*model.Trainee, error) {
	if trainee, ok := r.s.trainees[id]; ok {
		return trainee, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockTraineeRepo) GetTraineeByEmployeeID(_ context.Context, employeeID string) (*model.Trainee, error) {
	for _, trainee := range r.s.trainees {
		if trainee.EmployeeID == employeeID {
			return trainee, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockTraineeRepo) UpdateTrainee(_ context.Context, trainee *model.Trainee) error {
	r.s.trainees[trainee.ID] = trainee
	return nil
}

func (r *mockTraineeRepo) ListTrainees(_ context.Context, activeOnly bool) ([]model.Trainee, error) {
	trainees := make([]model.Trainee, 0, len(r.s.trainees))
	for _, trainee := range r.s.trainees {
		if activeOnly && !trainee.IsActive {
			continue
		}
		trainees = append(trainees, *trainee)
	}
	sort.Slice(trainees, func(i, j int) bool { return trainees[i].Name < trainees[j].Name })
	return trainees, nil
}

func (r *mockTraineeRepo) CreateMaterial(_ context.Context, material *model.ReferenceMaterial) error {
	material.ID = r.s.nextID()
	material.CreatedAt = time.Now()
	r.s.materials[material.ID] = material
	return nil
}

func (r *mockTraineeRepo) GetMaterialByID(_ context.Context, id uint) (*model.ReferenceMaterial, error) {
	if material, ok := r.s.materials[id]; ok {
		return material, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockTraineeRepo) GetMaterialByCode(_ context.Context, code string) (*model.ReferenceMaterial, error) {
	for _, material := range r.s.materials {
		if material.MaterialCode == code {
			return material, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockTraineeRepo) ListMaterials(_ context.Context, activeOnly bool) ([]model.ReferenceMaterial, error) {
	materials := make([]model.ReferenceMaterial, 0, len(r.s.materials))
	for _, material := range r.s.materials {
		if activeOnly && !material.IsActive {
			continue
		}
		materials = append(materials, *material)
	}
	sort.Slice(materials, func(i, j int) bool { return materials[i].MaterialCode < materials[j].MaterialCode })
	return materials, nil
}

func (r *mockTraineeRepo) CreateEvaluation(_ context.Context, eval *model.TraineeEvaluation) error {
	eval.ID = r.s.nextID()
	r.s.evals[eval.ID] = eval
	return nil
}

func (r *mockTraineeRepo) ListEvaluationsByTrainee(_ context.Context, traineeID uint) ([]model.TraineeEvaluation, error) {
	evals := make([]model.TraineeEvaluation, 0)
	for _, eval := range r.s.evals {
		if eval.TraineeID == traineeID {
			evals = append(evals, *eval)
		}
	}
	sort.Slice(evals, func(i, j int) bool { return evals[i].EvaluationDate.Before(evals[j].EvaluationDate) })
	return evals, nil
}

func (r *mockTraineeRepo) GetActiveThresholds(_ context.Context) (*model.CertificationThreshold, error) {
	if r.s.thresholds == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return r.s.thresholds, nil
}

func (r *mockTraineeRepo) UpdateThresholds(_ context.Context, t *model.CertificationThreshold) error {
	r.s.thresholds = t
	return nil
}

// [自证通过] internal/service/mock_repos_test.go
