package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nbd-crr/internal/authz"
	"nbd-crr/internal/dto"
	"nbd-crr/internal/entities"
	"nbd-crr/internal/events"
	"nbd-crr/internal/integrations"
	"nbd-crr/internal/integrations/mock"
	"nbd-crr/internal/pipeline"
	"nbd-crr/internal/repositories"
	"nbd-crr/internal/sheet"
	"nbd-crr/pkg/config"
	apperrors "nbd-crr/pkg/errors"
	"nbd-crr/pkg/eventbus"
	"nbd-crr/pkg/utils"
	"nbd-crr/pkg/validation"
)

type fakeWriter struct {
	mu      sync.Mutex
	reqs    []integrations.InsertRequest
	outcome integrations.WriteOutcome
	err     error
}

func (w *fakeWriter) Insert(_ context.Context, req integrations.InsertRequest) (integrations.WriteOutcome, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reqs = append(w.reqs, req)
	if w.err != nil {
		return "", w.err
	}
	if w.outcome == "" {
		return integrations.OutcomeConfirmed, nil
	}
	return w.outcome, nil
}

func (w *fakeWriter) calls() []integrations.InsertRequest {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]integrations.InsertRequest(nil), w.reqs...)
}

type fixture struct {
	provider  *mock.MockProvider
	sheets    repositories.SheetRepositoryInterface
	cache     *repositories.MemoryCacheRepository
	writer    *fakeWriter
	bus       *eventbus.Bus
	sequences SequenceServiceInterface
	submit    *SubmissionService
}

var fixedNow = time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zap.NewNop()

	provider := mock.NewMockProvider()
	registry := integrations.NewRegistry()
	require.NoError(t, registry.Register(provider))
	require.NoError(t, registry.SetActive(mock.ProviderName))

	f := &fixture{
		provider: provider,
		sheets:   repositories.NewSheetRepository(registry, logger),
		cache:    repositories.NewMemoryCacheRepository(),
		writer:   &fakeWriter{},
		bus:      eventbus.New(logger),
	}
	f.sequences = NewSequenceService(f.sheets, f.cache, config.SequenceConfig{ReservationTTL: time.Minute, MaxAttempts: 3}, logger)

	svc := NewSubmissionService(f.writer, repositories.NewNopSubmissionRepository(), f.cache, f.sequences, validation.New(), f.bus, logger).(*SubmissionService)
	svc.now = func() time.Time { return fixedNow }
	f.submit = svc
	return f
}

const testReportWidth = 70

func reportTable(rows ...map[int]any) *sheet.Table {
	labels := make([]string, testReportWidth)
	for i := range labels {
		labels[i] = "Col " + sheet.ColumnLetters(i)
	}
	t := sheet.NewTable(pipeline.SheetReport, labels)
	for _, r := range rows {
		values := make([]any, testReportWidth)
		for col, v := range r {
			values[col] = v
		}
		t.Rows = append(t.Rows, sheet.NewTable("", nil, values).Rows[0])
	}
	return t
}

func orderStatusTable() *sheet.Table {
	row := func(status, lost, hold string) []any {
		values := make([]any, 16)
		values[pipeline.ColOrderReceived] = status
		values[pipeline.ColOrderLostReason] = lost
		values[pipeline.ColOrderHoldReason] = hold
		return values
	}
	return sheet.NewTable(pipeline.SheetOrderStatus, make([]string, 16),
		row("Is Order Received", "Reason", "Hold Reason"),
		row("YES", "", ""),
		row("no", "Price", ""),
		row("hold", "", "Budget"),
	)
}

func dropdownTable(users ...[]string) *sheet.Table {
	rows := [][]any{make([]any, 20)}
	rows[0][pipeline.ColUserName] = "Username"
	for _, u := range users {
		values := make([]any, 20)
		for i, v := range u {
			values[pipeline.ColUserName+i] = v
		}
		rows = append(rows, values)
	}
	return sheet.NewTable(pipeline.SheetDropdown, make([]string, 20), rows...)
}

func TestDashboardService_GetStats(t *testing.T) {
	f := newFixture(t)
	onCall, _ := pipeline.LayoutOf(pipeline.StageOnCallFollowup)
	update, _ := pipeline.LayoutOf(pipeline.StageUpdateQuotation)

	f.provider.SetTable(reportTable(
		map[int]any{pipeline.ColEnquiryNo: "SN-001", pipeline.ColApproximateValue: "1,000", onCall.Planned: "Date(2024,0,1)", onCall.Delay: 5},
		map[int]any{pipeline.ColEnquiryNo: "SN-002", pipeline.ColApproximateValue: "₹2500.5", update.Planned: "Date(2024,0,2)", onCall.Delay: 2},
		map[int]any{pipeline.ColEnquiryNo: "", pipeline.ColApproximateValue: "abc"},
	))
	f.provider.SetTable(sheet.NewTable(pipeline.SheetMakeQuotation, []string{"Timestamp", "Quotation No"},
		[]any{"t", "IN-NBD-001"},
		[]any{"t", ""},
	))
	f.provider.SetTable(orderStatusTable())

	stats, err := NewDashboardService(f.sheets, zap.NewNop()).GetStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalEnquiries)
	assert.Equal(t, 1, stats.TotalQuotations)
	assert.InDelta(t, 3500.5, stats.Revenue, 1e-9)
	assert.Equal(t, 3, stats.TotalOrders)
	assert.Equal(t, 150, stats.ConversionRate)
	assert.Equal(t, pipeline.OrderBreakdown{Received: 1, Lost: 1, Hold: 1}, stats.OrderStatus)
	assert.Equal(t, 1, stats.StageBreakdown["onCallFollowup"])
	assert.Equal(t, 1, stats.StageBreakdown["updateQuotation"])
	require.Equal(t, 2, stats.PendingTasks)
	assert.Len(t, stats.PendingList, stats.PendingTasks)
	assert.Equal(t, "SN-001", stats.PendingList[0].EnquiryNo)
	assert.Equal(t, "Price", stats.LostReasons[0].Reason)
	assert.Equal(t, "Budget", stats.HoldReasons[0].Reason)
	assert.Empty(t, stats.Failed)
}

func TestDashboardService_BranchesFallBackIndependently(t *testing.T) {
	f := newFixture(t)
	f.provider.SetTable(reportTable(map[int]any{pipeline.ColEnquiryNo: "SN-001"}))
	f.provider.SetTable(sheet.NewTable(pipeline.SheetMakeQuotation, []string{"a", "b"}, []any{"t", "IN-NBD-001"}))
	f.provider.Fail(pipeline.SheetOrderStatus, &apperrors.NetworkError{Sheet: pipeline.SheetOrderStatus, StatusCode: 500})

	stats, err := NewDashboardService(f.sheets, zap.NewNop()).GetStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.TotalEnquiries)
	assert.Equal(t, 1, stats.TotalQuotations)
	assert.Zero(t, stats.TotalOrders)
	assert.Zero(t, stats.ConversionRate)
	assert.Equal(t, pipeline.OrderBreakdown{}, stats.OrderStatus)
	assert.NotNil(t, stats.LostReasons)
	assert.ElementsMatch(t, []string{"totalOrders", "orderStatus", "orderReasons"}, stats.Failed)
}

func TestStageService(t *testing.T) {
	f := newFixture(t)
	svc := NewStageService(f.sheets, zap.NewNop())
	l, _ := pipeline.LayoutOf(pipeline.StageFollowupSteps)

	f.provider.SetTable(reportTable(
		map[int]any{pipeline.ColEnquiryNo: "SN-001", l.Planned: "Date(2024,0,1)"},
		map[int]any{pipeline.ColEnquiryNo: "SN-002", l.Planned: "Date(2024,0,1)", l.Actual: "Date(2024,0,2)"},
	))
	f.provider.SetTable(sheet.NewTable(pipeline.SheetFollowupLog, []string{"Timestamp", "Enquiry No"},
		[]any{"Date(2024,1,3)", "SN-002"},
	))

	view, err := svc.Pending(context.Background(), pipeline.StageFollowupSteps)
	require.NoError(t, err)
	require.Equal(t, 1, view.Count)
	assert.Equal(t, "SN-001", view.Pending[0].EnquiryNo)

	hist, err := svc.History(context.Background(), pipeline.StageFollowupSteps)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"2024-02-03", "SN-002"}}, hist.Table.Rows)

	_, err = svc.Pending(context.Background(), pipeline.Stage("nope"))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDropdownService_FallsBackToDefaults(t *testing.T) {
	f := newFixture(t)
	f.provider.Fail(pipeline.SheetDropdown, errors.New("boom"))

	opts := NewDropdownService(f.sheets, zap.NewNop()).Options(context.Background())
	assert.Equal(t, pipeline.DefaultDropdownOptions(), opts)
}

func TestSequenceService_ReserveSkipsTakenNumbers(t *testing.T) {
	f := newFixture(t)
	f.provider.SetTable(reportTable(
		map[int]any{pipeline.ColEnquiryNo: "SN-001"},
		map[int]any{pipeline.ColEnquiryNo: "SN-002"},
	))
	ctx := context.Background()

	preview, err := f.sequences.Preview(ctx, SequenceEnquiry)
	require.NoError(t, err)
	assert.Equal(t, "SN-003", preview)

	first, err := f.sequences.Reserve(ctx, SequenceEnquiry)
	require.NoError(t, err)
	second, err := f.sequences.Reserve(ctx, SequenceEnquiry)
	require.NoError(t, err)
	assert.Equal(t, "SN-003", first)
	assert.Equal(t, "SN-004", second)

	_, err = f.sequences.Preview(ctx, "invoice")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSequenceService_Exhausted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewSequenceService(f.sheets, f.cache, config.SequenceConfig{ReservationTTL: time.Minute, MaxAttempts: 2}, zap.NewNop())

	// Лист "Make Quotation" недоступен: нумерация с первого номера.
	for _, v := range []string{"IN-NBD-001", "IN-NBD-002"} {
		ok, err := f.cache.SetNX(ctx, reservationKey(v), "x", time.Minute)
		require.NoError(t, err)
		require.True(t, ok)
	}

	_, err := svc.Reserve(ctx, SequenceQuotation)
	assert.ErrorIs(t, err, apperrors.ErrSequenceExhausted)
}

func newAuthService(t *testing.T, f *fixture, cfg config.AuthConfig) *AuthService {
	t.Helper()
	sessions := repositories.NewSessionRepository(f.cache, zap.NewNop())
	return NewAuthService(f.sheets, sessions, cfg, zap.NewNop()).(*AuthService)
}

func TestAuthService_UserLoginAndHydrate(t *testing.T) {
	f := newFixture(t)
	hash, err := utils.HashPassword("secret1")
	require.NoError(t, err)
	f.provider.SetTable(dropdownTable([]string{"Rahul", "user", "dashboard, newEnquiry", hash}))

	svc := newAuthService(t, f, config.AuthConfig{AdminUsername: "admin", SessionTTL: time.Hour})
	ctx := context.Background()

	_, err = svc.Login(ctx, dto.LoginDTO{Username: "rahul", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	session, err := svc.Login(ctx, dto.LoginDTO{Username: " rahul ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "Rahul", session.UserName)
	assert.Equal(t, authz.RoleUser, session.Role)
	assert.True(t, session.Access.Permissions[authz.NewEnquiry])

	// Права меняются в листе - следующий запрос видит новые.
	f.provider.SetTable(dropdownTable([]string{"Rahul", "user", "orderStatus", hash}))
	hydrated, err := svc.Hydrate(ctx, session.ID)
	require.NoError(t, err)
	assert.False(t, hydrated.Access.Permissions[authz.NewEnquiry])
	assert.True(t, hydrated.Access.Permissions[authz.OrderStatus])

	require.NoError(t, svc.Logout(ctx, session.ID))
	_, err = svc.Hydrate(ctx, session.ID)
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestAuthService_AdminAndSharedPassword(t *testing.T) {
	f := newFixture(t)
	adminHash, err := utils.HashPassword("admin-pass")
	require.NoError(t, err)
	sharedHash, err := utils.HashPassword("team-pass")
	require.NoError(t, err)
	f.provider.SetTable(dropdownTable([]string{"Priya", "", "all", ""}))

	svc := newAuthService(t, f, config.AuthConfig{
		AdminUsername:      "admin",
		AdminPasswordHash:  adminHash,
		SharedPasswordHash: sharedHash,
		SessionTTL:         time.Hour,
	})
	ctx := context.Background()

	admin, err := svc.Login(ctx, dto.LoginDTO{Username: "Admin", Password: "admin-pass"})
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())
	hydrated, err := svc.Hydrate(ctx, admin.ID)
	require.NoError(t, err)
	assert.True(t, hydrated.Access.Permissions[authz.UserManagement])

	priya, err := svc.Login(ctx, dto.LoginDTO{Username: "priya", Password: "team-pass"})
	require.NoError(t, err)
	assert.Equal(t, authz.RoleUser, priya.Role)
	assert.Len(t, priya.Access.Permissions, len(authz.KnownFlags()))
}

func TestAuthService_LookupDeniesOnFailure(t *testing.T) {
	f := newFixture(t)
	svc := newAuthService(t, f, config.AuthConfig{})

	f.provider.Fail(pipeline.SheetDropdown, errors.New("offline"))
	access := svc.Lookup(context.Background(), "rahul")
	assert.Empty(t, access.Role)
	assert.Empty(t, access.Permissions)
}

func newEnquiryPayload() dto.NewEnquiryDTO {
	return dto.NewEnquiryDTO{
		ReceivedBy:       "Front desk",
		SalesCoordinator: "Default Coordinator",
		EnquiryForState:  "Delhi",
		EnquiryType:      "Direct",
		CompanyName:      "Acme",
		ContactPerson:    "Ravi",
		ContactPhone:     "9999999999",
		ContactEmail:     "ravi@acme.in",
		SalesSource:      "web",
		SalesType:        "new_sale",
		IndustryType:     "retail",
		EnquirySource:    "website",
		Priority:         "High",
	}
}

func TestSubmissionService_NewEnquiry(t *testing.T) {
	f := newFixture(t)
	f.provider.SetTable(reportTable(map[int]any{pipeline.ColEnquiryNo: "SN-009"}))

	sent := make(chan events.SubmissionSentEvent, 1)
	f.bus.Subscribe(events.SubmissionSentName, func(_ context.Context, e eventbus.Event) error {
		sent <- e.(events.SubmissionSentEvent)
		return nil
	})

	res, err := f.submit.SubmitNewEnquiry(context.Background(), newEnquiryPayload())
	require.NoError(t, err)
	assert.Equal(t, "SN-010", res.Serial)
	assert.Equal(t, string(integrations.OutcomeConfirmed), res.Outcome)

	calls := f.writer.calls()
	require.Len(t, calls, 1)
	cells := calls[0].RowData
	require.Len(t, cells, 21)
	assert.Equal(t, pipeline.SheetReport, calls[0].SheetName)
	assert.Equal(t, "3/5/2024", cells[0])
	assert.Equal(t, "SN-010", cells[1])
	assert.Equal(t, "Acme", cells[6])
	assert.Equal(t, "High", cells[19])

	select {
	case e := <-sent:
		assert.Equal(t, "SN-010", e.EnquiryNo)
		assert.Equal(t, FormNewEnquiry, e.Form)
	case <-time.After(time.Second):
		t.Fatal("событие не опубликовано")
	}
}

func TestSubmissionService_ValidationStopsBeforeNetwork(t *testing.T) {
	f := newFixture(t)
	payload := newEnquiryPayload()
	payload.CompanyName = ""
	payload.Priority = "urgent"

	_, err := f.submit.SubmitNewEnquiry(context.Background(), payload)
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "companyName")
	assert.Contains(t, verr.Fields, "priority")
	assert.Empty(t, f.writer.calls())
}

func TestSubmissionService_DuplicateKeyReturnsEarlierOutcome(t *testing.T) {
	f := newFixture(t)
	f.writer.outcome = integrations.OutcomeUnconfirmed
	payload := dto.OnCallFollowupDTO{
		SubmitMeta:        dto.SubmitMeta{IdempotencyKey: "k-1"},
		EnquiryNo:         "SN-001",
		CompanyName:       "Acme",
		Reason:            "Call",
		DiscussionStatus:  "Open",
		ResponsiblePerson: "Rahul",
		NextDate:          "2024-03-10",
	}
	ctx := context.Background()

	first, err := f.submit.SubmitOnCallFollowup(ctx, payload)
	require.NoError(t, err)
	assert.False(t, first.Duplicate)

	second, err := f.submit.SubmitOnCallFollowup(ctx, payload)
	require.NoError(t, err)
	assert.True(t, second.Duplicate)
	assert.Equal(t, string(integrations.OutcomeUnconfirmed), second.Outcome)
	assert.Len(t, f.writer.calls(), 1)
	assert.Len(t, f.writer.calls()[0].RowData, 9)
}

func TestSubmissionService_InFlightKeyIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.cache.SetNX(ctx, idempotencyKey("k-2"), submissionInFlight, time.Minute)
	require.NoError(t, err)

	_, err = f.submit.SubmitScreenshotUpdate(ctx, dto.ScreenshotUpdateDTO{
		SubmitMeta:      dto.SubmitMeta{IdempotencyKey: "k-2"},
		EnquiryNo:       "SN-001",
		QuotationNumber: "IN-NBD-001",
	})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateSubmit)
}

func TestSubmissionService_WriteFailureReleasesKey(t *testing.T) {
	f := newFixture(t)
	f.writer.err = errors.New("dial tcp: timeout")
	payload := dto.ScreenshotUpdateDTO{
		SubmitMeta:      dto.SubmitMeta{IdempotencyKey: "k-3"},
		EnquiryNo:       "SN-001",
		QuotationNumber: "IN-NBD-001",
	}
	ctx := context.Background()

	_, err := f.submit.SubmitScreenshotUpdate(ctx, payload)
	var netErr *apperrors.NetworkError
	require.ErrorAs(t, err, &netErr)

	f.writer.err = nil
	res, err := f.submit.SubmitScreenshotUpdate(ctx, payload)
	require.NoError(t, err)
	assert.False(t, res.Duplicate)
	assert.Len(t, f.writer.calls(), 2)
}

// keyedJournal - журнал, в котором ключ уже есть: Create всегда отвечает
// нарушением уникальности, как Postgres.
type keyedJournal struct {
	mu        sync.Mutex
	stored    entities.Submission
	completed []uuid.UUID
}

func (j *keyedJournal) Create(_ context.Context, s *entities.Submission) error {
	return fmt.Errorf("ключ %s уже в журнале: %w", s.IdempotencyKey, apperrors.ErrDuplicateSubmit)
}

func (j *keyedJournal) Complete(_ context.Context, id uuid.UUID, _ entities.SubmissionStatus, _ null.String) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.completed = append(j.completed, id)
	return nil
}

func (j *keyedJournal) FindByIdempotencyKey(_ context.Context, key string) (*entities.Submission, error) {
	if key != j.stored.IdempotencyKey {
		return nil, apperrors.ErrNotFound
	}
	s := j.stored
	return &s, nil
}

func (j *keyedJournal) ListRecent(context.Context, string, uint64) ([]entities.Submission, error) {
	return []entities.Submission{j.stored}, nil
}

func withJournal(f *fixture, journal repositories.SubmissionRepositoryInterface) *SubmissionService {
	svc := NewSubmissionService(f.writer, journal, f.cache, f.sequences, validation.New(), f.bus, zap.NewNop()).(*SubmissionService)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func screenshotPayload(key string) dto.ScreenshotUpdateDTO {
	return dto.ScreenshotUpdateDTO{
		SubmitMeta:      dto.SubmitMeta{IdempotencyKey: key},
		EnquiryNo:       "SN-001",
		QuotationNumber: "IN-NBD-001",
	}
}

func TestSubmissionService_JournalKeyReturnsStoredOutcome(t *testing.T) {
	f := newFixture(t)
	journal := &keyedJournal{stored: entities.Submission{
		ID:             uuid.New(),
		IdempotencyKey: "k-4",
		SheetName:      pipeline.SheetScreenshotLog,
		Status:         entities.SubmissionUnconfirmed,
	}}
	svc := withJournal(f, journal)
	ctx := context.Background()

	res, err := svc.SubmitScreenshotUpdate(ctx, screenshotPayload("k-4"))
	require.NoError(t, err)
	assert.True(t, res.Duplicate)
	assert.Equal(t, string(integrations.OutcomeUnconfirmed), res.Outcome)
	assert.Equal(t, journal.stored.ID.String(), res.SubmissionID)
	assert.Empty(t, f.writer.calls())

	cached, err := f.cache.Get(ctx, idempotencyKey("k-4"))
	require.NoError(t, err)
	assert.Equal(t, string(integrations.OutcomeUnconfirmed), cached)

	res, err = svc.SubmitScreenshotUpdate(ctx, screenshotPayload("k-4"))
	require.NoError(t, err)
	assert.True(t, res.Duplicate)
	assert.Empty(t, f.writer.calls())
}

func TestSubmissionService_JournalPendingKeyIsReleased(t *testing.T) {
	f := newFixture(t)
	journal := &keyedJournal{stored: entities.Submission{
		ID:             uuid.New(),
		IdempotencyKey: "k-5",
		Status:         entities.SubmissionPending,
	}}
	svc := withJournal(f, journal)
	ctx := context.Background()

	_, err := svc.SubmitScreenshotUpdate(ctx, screenshotPayload("k-5"))
	assert.ErrorIs(t, err, apperrors.ErrDuplicateSubmit)
	assert.Empty(t, f.writer.calls())

	// ключ в кеше не остаётся висеть в "pending"
	_, err = f.cache.Get(ctx, idempotencyKey("k-5"))
	assert.Error(t, err)

	_, err = svc.SubmitScreenshotUpdate(ctx, screenshotPayload("k-5"))
	assert.ErrorIs(t, err, apperrors.ErrDuplicateSubmit)
}

func TestSubmissionService_JournalFailedKeyIsRetried(t *testing.T) {
	f := newFixture(t)
	journal := &keyedJournal{stored: entities.Submission{
		ID:             uuid.New(),
		IdempotencyKey: "k-6",
		Status:         entities.SubmissionFailed,
	}}
	svc := withJournal(f, journal)

	res, err := svc.SubmitScreenshotUpdate(context.Background(), screenshotPayload("k-6"))
	require.NoError(t, err)
	assert.False(t, res.Duplicate)
	assert.Equal(t, journal.stored.ID.String(), res.SubmissionID)
	assert.Len(t, f.writer.calls(), 1)
	assert.Equal(t, []uuid.UUID{journal.stored.ID}, journal.completed)
}

func TestSubmissionService_WriteFailureReleasesSerial(t *testing.T) {
	f := newFixture(t)
	f.provider.SetTable(reportTable(map[int]any{pipeline.ColEnquiryNo: "SN-009"}))
	f.writer.err = errors.New("dial tcp: timeout")
	ctx := context.Background()

	_, err := f.submit.SubmitNewEnquiry(ctx, newEnquiryPayload())
	require.Error(t, err)

	_, err = f.cache.Get(ctx, reservationKey("SN-010"))
	assert.Error(t, err, "резерв номера должен быть снят")

	f.writer.err = nil
	res, err := f.submit.SubmitNewEnquiry(ctx, newEnquiryPayload())
	require.NoError(t, err)
	assert.Equal(t, "SN-010", res.Serial)
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func TestSubmissionService_Attachments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.submit.SubmitScreenshotUpdate(ctx, dto.ScreenshotUpdateDTO{
		EnquiryNo:       "SN-001",
		QuotationNumber: "IN-NBD-001",
		Screenshot:      &dto.AttachmentDTO{FileName: "s.png", DataURI: validation.EncodeDataURI("application/octet-stream", pngHeader)},
	})
	require.NoError(t, err)
	req := f.writer.calls()[0]
	require.Len(t, req.Files, 1)
	assert.False(t, req.MultiFile)
	assert.Equal(t, "image/png", req.Files[0].MimeType)
	assert.Equal(t, validation.EncodeDataURI("image/png", pngHeader), req.Files[0].DataURI)

	_, err = f.submit.SubmitScreenshotUpdate(ctx, dto.ScreenshotUpdateDTO{
		EnquiryNo:       "SN-001",
		QuotationNumber: "IN-NBD-001",
		Screenshot:      &dto.AttachmentDTO{FileName: "s.txt", DataURI: validation.EncodeDataURI("text/plain", []byte("hello"))},
	})
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "screenshot")
	assert.Len(t, f.writer.calls(), 1)
}

func TestOrderStatusRow_BlanksOtherBranches(t *testing.T) {
	row := orderStatusRow(dto.OrderStatusDTO{
		EnquiryNo:           "SN-001",
		QuotationNumber:     "IN-NBD-001",
		OrderReceivedStatus: "HOLD",
		AcceptanceVia:       "email",
		OrderLostReason:     "Price",
		HoldReasonCategory:  "Budget",
		HoldingDate:         "2024-04-01",
		HoldRemark:          "next quarter",
		OrderVideo:          &dto.AttachmentDTO{FileName: "v.mp4", DataURI: "data:video/mp4;base64,AA=="},
	})

	cells := row.Build("", fixedNow)
	require.Len(t, cells, 16)
	assert.Equal(t, "05/03/2024", cells[0])
	assert.Equal(t, "HOLD", cells[3])
	assert.Empty(t, cells[4])
	assert.Empty(t, cells[11])
	assert.Equal(t, "Budget", cells[13])
	assert.Equal(t, "01/04/2024", cells[14])
	assert.Equal(t, "next quarter", cells[15])
	assert.True(t, row.MultiFile)
	assert.Empty(t, row.Files)
}

func TestFollowupStepsRow_MapsCodes(t *testing.T) {
	cells := followupStepsRow(dto.FollowupStepsDTO{
		EnquiryNo:            "SN-001",
		QuotationNumber:      "IN-NBD-001",
		ResponsiblePerson:    "priya",
		Status:               "in_progress",
		FollowupStage:        "site_visit",
		NextFollowupPlanDate: "2024-03-20",
	}).Build("", fixedNow)

	assert.Equal(t, []string{"05/03/2024", "SN-001", "IN-NBD-001", "Priya Patel", "In Progress", "site_visit", "20/03/2024", ""}, cells)
}

func TestQuotationValidationRow(t *testing.T) {
	cells := quotationValidationRow(dto.QuotationValidationDTO{
		QuotationNumber: "IN-NBD-001",
		ValidatorName:   "Amit",
		SendStatus:      "Sent",
		FAQVideo:        true,
		ProductImage:    true,
	}).Build("", fixedNow)

	require.Len(t, cells, 11)
	assert.Equal(t, []string{"FAQ Video", "", "", "", "Product Image"}, cells[6:])
}

func TestSubmissionService_MakeQuotation(t *testing.T) {
	f := newFixture(t)
	f.provider.SetTable(sheet.NewTable(pipeline.SheetMakeQuotation, []string{"Timestamp", "Quotation No"},
		[]any{"t", "IN-NBD-007"},
		[]any{"t", "IN-NBD-003"},
	))

	res, err := f.submit.SubmitMakeQuotation(context.Background(), dto.MakeQuotationDTO{
		ConsigneeName: "Acme",
		Items: []dto.QuotationItemDTO{
			{Name: "Pump", Qty: 2, Rate: 100},
			{Name: "Valve", Qty: 1, Rate: 50},
		},
		CGSTRate: 9,
		SGSTRate: 9,
	})
	require.NoError(t, err)

	// Номер считается от последней записи, а не от максимальной.
	assert.Equal(t, "IN-NBD-004", res.Serial)
	require.NotNil(t, res.Totals)
	assert.Equal(t, dto.QuotationTotalsDTO{Subtotal: 250, CGSTAmount: 22.5, SGSTAmount: 22.5, Total: 295}, *res.Totals)

	cells := f.writer.calls()[0].RowData
	require.Len(t, cells, 26)
	assert.Equal(t, "05/03/2024 14:07:09", cells[0])
	assert.Equal(t, "IN-NBD-004", cells[1])
	assert.Equal(t, "05/03/2024", cells[2])
	assert.Equal(t, "295.00", cells[17])
}

func TestUserService(t *testing.T) {
	f := newFixture(t)
	f.provider.SetTable(dropdownTable(
		[]string{"Rahul", "user", "dashboard,newEnquiry", ""},
		[]string{"Boss", "admin", "", "hash"},
	))
	svc := NewUserService(f.sheets, f.submit, validation.New(), zap.NewNop())
	ctx := context.Background()

	users, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, []string{authz.Dashboard, authz.NewEnquiry}, users[0].Permissions)
	assert.False(t, users[0].HasPassword)
	assert.Equal(t, authz.RoleAdmin, users[1].Role)
	assert.Len(t, users[1].Permissions, len(authz.KnownFlags()))

	_, err = svc.Add(ctx, dto.CreateUserDTO{Username: "rahul", Role: "user", Permissions: []string{"dashboard"}})
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 409, httpErr.Code)

	_, err = svc.Add(ctx, dto.CreateUserDTO{Username: "neha", Role: "user", Permissions: []string{"reports"}})
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)

	res, err := svc.Add(ctx, dto.CreateUserDTO{Username: "neha", Role: "user", Permissions: []string{"dashboard", "orderStatus"}, Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.SubmissionID)
	_, err = uuid.Parse(res.SubmissionID)
	assert.NoError(t, err)

	cells := f.writer.calls()[0].RowData
	require.Len(t, cells, 20)
	assert.Empty(t, cells[0])
	assert.Equal(t, "neha", cells[pipeline.ColUserName])
	assert.Equal(t, "dashboard,orderStatus", cells[pipeline.ColUserPermissions])
	assert.NoError(t, utils.ComparePasswords(cells[pipeline.ColUserPassword], "secret1"))
}
