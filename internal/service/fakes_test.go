package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/andinetd/assignment-helper/internal/models"
	"github.com/andinetd/assignment-helper/internal/service/integration"
	"github.com/andinetd/assignment-helper/pkg/vector"
)

type fakeStudentRepo struct {
	students map[string]*models.Student
	nextID   int64
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{students: make(map[string]*models.Student)}
}

func (f *fakeStudentRepo) Create(ctx context.Context, student *models.Student) error {
	if _, ok := f.students[student.Email]; ok {
		return errors.New("duplicate email")
	}
	f.nextID++
	student.ID = f.nextID
	copied := *student
	f.students[student.Email] = &copied
	return nil
}

func (f *fakeStudentRepo) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	student, ok := f.students[email]
	if !ok {
		return nil, nil
	}
	copied := *student
	return &copied, nil
}

func (f *fakeStudentRepo) Exists(ctx context.Context, email string) (bool, error) {
	_, ok := f.students[email]
	return ok, nil
}

type fakeAssignmentRepo struct {
	assignments map[int64]*models.Assignment
	nextID      int64
	createCalls int
	countCalls  int
	count       int
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{assignments: make(map[int64]*models.Assignment)}
}

func (f *fakeAssignmentRepo) Create(ctx context.Context, assignment *models.Assignment) error {
	f.createCalls++
	f.nextID++
	assignment.ID = f.nextID
	copied := *assignment
	f.assignments[assignment.ID] = &copied
	return nil
}

func (f *fakeAssignmentRepo) GetByID(ctx context.Context, id int64) (*models.Assignment, error) {
	assignment, ok := f.assignments[id]
	if !ok {
		return nil, nil
	}
	copied := *assignment
	return &copied, nil
}

func (f *fakeAssignmentRepo) Count(ctx context.Context) (int, error) {
	f.countCalls++
	if f.count > 0 {
		return f.count, nil
	}
	return len(f.assignments), nil
}

type fakeResultRepo struct {
	results  map[int64]*models.AnalysisResult
	nextID   int64
	avg      float64
	avgCalls int
}

func newFakeResultRepo() *fakeResultRepo {
	return &fakeResultRepo{results: make(map[int64]*models.AnalysisResult)}
}

func (f *fakeResultRepo) Create(ctx context.Context, result *models.AnalysisResult) (bool, error) {
	if _, ok := f.results[result.AssignmentID]; ok {
		return false, nil
	}
	f.nextID++
	result.ID = f.nextID
	copied := *result
	f.results[result.AssignmentID] = &copied
	return true, nil
}

func (f *fakeResultRepo) GetByAssignmentID(ctx context.Context, assignmentID int64) (*models.AnalysisResult, error) {
	result, ok := f.results[assignmentID]
	if !ok {
		return nil, nil
	}
	copied := *result
	return &copied, nil
}

func (f *fakeResultRepo) AverageScore(ctx context.Context) (float64, error) {
	f.avgCalls++
	return f.avg, nil
}

type fakeSourceRepo struct {
	sources    []models.AcademicSource
	nextID     int64
	countCalls int
}

func (f *fakeSourceRepo) Insert(ctx context.Context, source *models.AcademicSource) error {
	f.nextID++
	source.ID = f.nextID
	f.sources = append(f.sources, *source)
	return nil
}

func (f *fakeSourceRepo) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	for _, source := range f.sources {
		if source.Title == title {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSourceRepo) NearestNeighbors(ctx context.Context, queryVector []float32, k int) ([]models.AcademicSource, error) {
	type candidate struct {
		source   models.AcademicSource
		distance float64
	}

	candidates := make([]candidate, 0, len(f.sources))
	for _, source := range f.sources {
		distance, err := vector.L2Distance(queryVector, source.Embedding)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, candidate{source: source, distance: distance})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}

	out := make([]models.AcademicSource, len(candidates))
	for i, c := range candidates {
		out[i] = c.source
	}
	return out, nil
}

func (f *fakeSourceRepo) Count(ctx context.Context) (int, error) {
	f.countCalls++
	return len(f.sources), nil
}

type fakeCache struct {
	entries  map[string][]byte
	setCalls int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (f *fakeCache) Get(ctx context.Context, key string) ([]byte, bool) {
	value, ok := f.entries[key]
	return value, ok
}

func (f *fakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	f.setCalls++
	f.entries[key] = value
}

type fakeStorage struct {
	objects map[string][]byte
	err     error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (f *fakeStorage) Upload(ctx context.Context, objectName string, data []byte, contentType string) error {
	if f.err != nil {
		return f.err
	}
	f.objects[objectName] = data
	return nil
}

type fakeWorkflow struct {
	requests []*integration.DispatchRequest
	err      error
}

func (f *fakeWorkflow) Dispatch(ctx context.Context, req *integration.DispatchRequest) error {
	f.requests = append(f.requests, req)
	return f.err
}

type fakeContextProvider struct {
	result string
	calls  int
}

func (f *fakeContextProvider) BuildContext(ctx context.Context, uploadedText string) string {
	f.calls++
	return f.result
}

type fakeEmbedder struct {
	dim       int
	vec       []float32
	calls     int
	lastInput string
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) []float32 {
	f.calls++
	f.lastInput = text
	if f.vec != nil {
		out := make([]float32, len(f.vec))
		copy(out, f.vec)
		return out
	}
	return make([]float32, f.dim)
}

func (f *fakeEmbedder) Dimension() int {
	if f.vec != nil {
		return len(f.vec)
	}
	return f.dim
}
