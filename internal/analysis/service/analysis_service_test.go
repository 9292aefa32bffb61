package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/studcheck/plagiarism-checker/internal/analysis/models"
	"github.com/studcheck/plagiarism-checker/internal/analysis/service/integration"
	"github.com/studcheck/plagiarism-checker/pkg/hash"
)

type memoryReportRepo struct {
	mu      sync.Mutex
	reports []models.Report
}

func (m *memoryReportRepo) Create(_ context.Context, report *models.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = append(m.reports, *report)
	return nil
}

func (m *memoryReportRepo) GetByWorkID(_ context.Context, workID string) ([]models.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Report, 0)
	for _, r := range m.reports {
		if r.WorkID == workID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memoryReportRepo) GetByFingerprint(_ context.Context, fingerprint string) ([]models.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Report, 0)
	for _, r := range m.reports {
		if r.Fingerprint == fingerprint {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memoryReportRepo) Ping(context.Context) error { return nil }

type fakeStorageClient struct {
	files map[string][]byte
}

func (f *fakeStorageClient) GetFileContent(_ context.Context, workID string) ([]byte, error) {
	content, ok := f.files[workID]
	if !ok {
		return nil, integration.ErrWorkNotFound
	}
	return content, nil
}

type fakeRenderer struct {
	lastSpec string
	png      []byte
}

func (f *fakeRenderer) Render(_ context.Context, spec string) ([]byte, error) {
	f.lastSpec = spec
	return f.png, nil
}

type recordingPublisher struct {
	events []models.AnalysisCompletedEvent
}

func (p *recordingPublisher) PublishAnalysisCompleted(_ context.Context, event models.AnalysisCompletedEvent) error {
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type failingPublisher struct{}

func (failingPublisher) PublishAnalysisCompleted(context.Context, models.AnalysisCompletedEvent) error {
	return errors.New("broker is down")
}

func (failingPublisher) Close() error { return nil }

type fixture struct {
	service   AnalysisService
	repo      *memoryReportRepo
	storage   *fakeStorageClient
	renderer  *fakeRenderer
	publisher *recordingPublisher
}

func newFixture(files map[string][]byte) *fixture {
	f := &fixture{
		repo:      &memoryReportRepo{},
		storage:   &fakeStorageClient{files: files},
		renderer:  &fakeRenderer{png: []byte{0x89, 'P', 'N', 'G', 0, 0, 0, 0}},
		publisher: &recordingPublisher{},
	}

	fp := hash.NewFingerprinter(hash.SHA256)
	f.service = NewAnalysisService(f.repo, f.storage, fp, f.renderer, f.publisher, zerolog.Nop())
	return f
}

func TestAnalyze(t *testing.T) {
	ctx := context.Background()

	t.Run("first work with given content is original", func(t *testing.T) {
		f := newFixture(map[string][]byte{"work-1": []byte("my essay")})

		report, err := f.service.Analyze(ctx, "work-1")
		require.NoError(t, err)

		require.Equal(t, "work-1", report.WorkID)
		require.False(t, report.DuplicateFlag)
		require.Nil(t, report.Detail)
		require.Len(t, report.Fingerprint, 64)
	})

	t.Run("same content from another work is a duplicate", func(t *testing.T) {
		f := newFixture(map[string][]byte{
			"work-1": []byte("my essay"),
			"work-2": []byte("my essay"),
		})

		first, err := f.service.Analyze(ctx, "work-1")
		require.NoError(t, err)

		second, err := f.service.Analyze(ctx, "work-2")
		require.NoError(t, err)

		require.False(t, first.DuplicateFlag)
		require.True(t, second.DuplicateFlag)
		require.NotNil(t, second.Detail)
		require.Equal(t, "duplicate content found in work work-1", *second.Detail)
		require.Equal(t, first.Fingerprint, second.Fingerprint)
	})

	t.Run("reanalyzing the same work stays original", func(t *testing.T) {
		f := newFixture(map[string][]byte{"work-1": []byte("my essay")})

		_, err := f.service.Analyze(ctx, "work-1")
		require.NoError(t, err)

		again, err := f.service.Analyze(ctx, "work-1")
		require.NoError(t, err)
		require.False(t, again.DuplicateFlag)

		reports, err := f.service.ListReports(ctx, "work-1")
		require.NoError(t, err)
		require.Len(t, reports, 2)
	})

	t.Run("different content stays distinct", func(t *testing.T) {
		f := newFixture(map[string][]byte{
			"work-1": []byte("an essay about birds"),
			"work-2": []byte("an essay about fish"),
		})

		first, err := f.service.Analyze(ctx, "work-1")
		require.NoError(t, err)

		second, err := f.service.Analyze(ctx, "work-2")
		require.NoError(t, err)

		require.False(t, second.DuplicateFlag)
		require.NotEqual(t, first.Fingerprint, second.Fingerprint)
	})

	t.Run("A B-dup C, then A again still original", func(t *testing.T) {
		f := newFixture(map[string][]byte{
			"work-a": []byte("shared text"),
			"work-b": []byte("shared text"),
			"work-c": []byte("unrelated text"),
		})

		a, err := f.service.Analyze(ctx, "work-a")
		require.NoError(t, err)
		require.False(t, a.DuplicateFlag)

		b, err := f.service.Analyze(ctx, "work-b")
		require.NoError(t, err)
		require.True(t, b.DuplicateFlag)
		require.Equal(t, "duplicate content found in work work-a", *b.Detail)

		c, err := f.service.Analyze(ctx, "work-c")
		require.NoError(t, err)
		require.False(t, c.DuplicateFlag)

		a2, err := f.service.Analyze(ctx, "work-a")
		require.NoError(t, err)
		require.False(t, a2.DuplicateFlag)
	})

	t.Run("unknown work leaves no report behind", func(t *testing.T) {
		f := newFixture(map[string][]byte{})

		_, err := f.service.Analyze(ctx, "missing")
		require.ErrorIs(t, err, integration.ErrWorkNotFound)

		reports, err := f.service.ListReports(ctx, "missing")
		require.NoError(t, err)
		require.Empty(t, reports)
	})

	t.Run("publish failure does not fail the analysis", func(t *testing.T) {
		f := newFixture(map[string][]byte{"work-1": []byte("my essay")})

		fp := hash.NewFingerprinter(hash.SHA256)
		svc := NewAnalysisService(f.repo, f.storage, fp, f.renderer, failingPublisher{}, zerolog.Nop())

		report, err := svc.Analyze(ctx, "work-1")
		require.NoError(t, err)
		require.NotNil(t, report)

		// the report is persisted even though the event was lost
		reports, err := svc.ListReports(ctx, "work-1")
		require.NoError(t, err)
		require.Len(t, reports, 1)
		require.Equal(t, report.ID, reports[0].ID)
	})

	t.Run("publishes completion event", func(t *testing.T) {
		f := newFixture(map[string][]byte{"work-1": []byte("my essay")})

		report, err := f.service.Analyze(ctx, "work-1")
		require.NoError(t, err)

		require.Len(t, f.publisher.events, 1)
		event := f.publisher.events[0]
		require.Equal(t, report.ID, event.ReportID)
		require.Equal(t, "work-1", event.WorkID)
		require.Equal(t, report.Fingerprint, event.Fingerprint)
	})
}

func TestListReports(t *testing.T) {
	ctx := context.Background()
	f := newFixture(map[string][]byte{"work-1": []byte("text one")})

	reports, err := f.service.ListReports(ctx, "work-1")
	require.NoError(t, err)
	require.NotNil(t, reports)
	require.Empty(t, reports)

	_, err = f.service.Analyze(ctx, "work-1")
	require.NoError(t, err)

	reports, err = f.service.ListReports(ctx, "work-1")
	require.NoError(t, err)
	require.Len(t, reports, 1)
}

func TestWordCloudPNG(t *testing.T) {
	ctx := context.Background()

	t.Run("renders spec from word frequencies", func(t *testing.T) {
		f := newFixture(map[string][]byte{"work-1": []byte("apple apple banana")})

		img, err := f.service.WordCloudPNG(ctx, "work-1")
		require.NoError(t, err)
		require.Equal(t, f.renderer.png, img)
		require.Equal(t, "apple:2,banana:1", f.renderer.lastSpec)
	})

	t.Run("no usable words", func(t *testing.T) {
		f := newFixture(map[string][]byte{"work-1": []byte("a an 42 ... и")})

		_, err := f.service.WordCloudPNG(ctx, "work-1")
		require.ErrorIs(t, err, ErrNotEnoughWords)
		require.Empty(t, f.renderer.lastSpec)
	})

	t.Run("unknown work", func(t *testing.T) {
		f := newFixture(map[string][]byte{})

		_, err := f.service.WordCloudPNG(ctx, "missing")
		require.ErrorIs(t, err, integration.ErrWorkNotFound)
	})
}
