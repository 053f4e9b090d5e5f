package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/mailotp/internal/otp/entity"
	"github.com/shandysiswandi/mailotp/internal/otp/outbound/cache"
	"github.com/shandysiswandi/mailotp/internal/pkg/clock"
	"github.com/shandysiswandi/mailotp/internal/pkg/goroutine"
	"github.com/shandysiswandi/mailotp/internal/pkg/instrument"
	"github.com/shandysiswandi/mailotp/internal/pkg/kvstore"
	"github.com/shandysiswandi/mailotp/internal/pkg/mail"
	"github.com/shandysiswandi/mailotp/internal/pkg/validator"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

type fakeMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeMailer) last() mail.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[len(f.sent)-1]
}

type fakeMessaging struct {
	mu       sync.Mutex
	sent     []OTPSentEvent
	verified []EmailVerifiedEvent
}

func (f *fakeMessaging) PublishOTPSent(_ context.Context, msg OTPSentEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeMessaging) PublishEmailVerified(_ context.Context, msg EmailVerifiedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verified = append(f.verified, msg)
	return nil
}

type fakeDB struct {
	mu   sync.Mutex
	rows []entity.DeliveryLog
}

func (f *fakeDB) CreateDeliveryLog(_ context.Context, in entity.DeliveryLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, in)
	return nil
}

// seqGenerator hands out codes in order: 000001, 000002, ...
type seqGenerator struct {
	mu sync.Mutex
	n  int
}

func (g *seqGenerator) Generate(length int) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%0*d", length, g.n), nil
}

type seqID struct {
	mu sync.Mutex
	n  int64
}

func (s *seqID) Generate() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return s.n
}

// failingStore fails the operations listed in failOn.
type failingStore struct {
	*kvstore.Memory
	failOn map[string]bool
}

func (f *failingStore) Incr(ctx context.Context, key string) (int64, error) {
	if f.failOn["incr"] {
		return 0, errBoom
	}
	return f.Memory.Incr(ctx, key)
}

func (f *failingStore) Get(ctx context.Context, key string) (string, error) {
	if f.failOn["get"] {
		return "", errBoom
	}
	return f.Memory.Get(ctx, key)
}

func (f *failingStore) SetEX(ctx context.Context, key, value string, ttl time.Duration) error {
	if f.failOn["setex"] {
		return errBoom
	}
	return f.Memory.SetEX(ctx, key, value, ttl)
}

type harness struct {
	uc    *Usecase
	store *failingStore
	clock *clock.Fake
	mail  *fakeMailer
	mq    *fakeMessaging
	db    *fakeDB
	gm    *goroutine.Manager
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	clk := clock.NewFake(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	store := &failingStore{Memory: kvstore.NewMemory(clk), failOn: map[string]bool{}}
	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	h := &harness{
		store: store,
		clock: clk,
		mail:  &fakeMailer{},
		mq:    &fakeMessaging{},
		db:    &fakeDB{},
		gm:    goroutine.NewManager(10),
	}
	h.uc = New(Dependency{
		RepoCache:     cache.New(store, instrument.NewNoop()),
		RepoEmail:     h.mail,
		RepoMessaging: h.mq,
		RepoDB:        h.db,
		Generator:     &seqGenerator{},
		Validator:     v,
		Policy:        entity.DefaultPolicy(),
		UID:           &seqID{},
		Clock:         clk,
		Instrument:    instrument.NewNoop(),
		Goroutine:     h.gm,
	})
	return h
}

func (h *harness) request(t *testing.T, email string) entity.IssueResult {
	t.Helper()

	out, err := h.uc.RequestOTP(context.Background(), RequestOTPInput{Email: email})
	require.NoError(t, err)
	return out.Result
}

func (h *harness) verify(t *testing.T, email, code string) entity.VerifyStatus {
	t.Helper()

	out, err := h.uc.VerifyOTP(context.Background(), VerifyOTPInput{Email: email, OTP: code})
	require.NoError(t, err)
	return out.Result.Status
}

func (h *harness) exists(t *testing.T, key string) bool {
	t.Helper()

	ok, err := h.store.Exists(context.Background(), key)
	require.NoError(t, err)
	return ok
}
