package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cineghar/cineghar-api/internal/model"
	"github.com/cineghar/cineghar-api/internal/payment"
	"github.com/cineghar/cineghar-api/internal/repository"
	"github.com/cineghar/cineghar-api/internal/utils"
)

// ---------- request helpers ----------

// newJSONContext builds an Echo context carrying a JSON body, ready to be
// handed to a handler under test.
func newJSONContext(t *testing.T, method, target string, body any) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

// envelope mirrors the response shape for assertions.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Errors  []string        `json:"errors"`
	Data    json.RawMessage `json:"data"`

	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int64 `json:"totalPages"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, rec.Body.String())
	}
	return env
}

// ---------- user / reset store mocks ----------

type mockUserStore struct {
	nextID  uint64
	byID    map[uint64]model.User
	listErr error
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{nextID: 1, byID: map[uint64]model.User{}}
}

// seed registers a user directly and returns its id.
func (m *mockUserStore) seed(t *testing.T, name, email, password, role string) uint64 {
	t.Helper()
	hash, err := utils.HashPassword(password, 4)
	if err != nil {
		t.Fatalf("hash seed password: %v", err)
	}
	id := m.nextID
	m.nextID++
	m.byID[id] = model.User{ID: id, Name: name, Email: email, PasswordHash: hash, Role: role, CreatedAt: time.Now()}
	return id
}

func (m *mockUserStore) Create(_ context.Context, name, email, password, role string, cost int) (uint64, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return 0, repository.ErrEmailExists
		}
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	id := m.nextID
	m.nextID++
	m.byID[id] = model.User{ID: id, Name: name, Email: email, PasswordHash: hash, Role: role, CreatedAt: time.Now()}
	return id, nil
}

func (m *mockUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrUserNotFound
}

func (m *mockUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserStore) List(_ context.Context, page, limit int) ([]model.User, int64, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	all := make([]model.User, 0, len(m.byID))
	for id := uint64(1); id < m.nextID; id++ {
		if u, ok := m.byID[id]; ok {
			all = append(all, u)
		}
	}
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return []model.User{}, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (m *mockUserStore) Update(_ context.Context, id uint64, p repository.UserPatch) error {
	u, ok := m.byID[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	if p.Email != nil {
		for other, ou := range m.byID {
			if other != id && ou.Email == *p.Email {
				return repository.ErrEmailExists
			}
		}
		u.Email = *p.Email
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	m.byID[id] = u
	return nil
}

func (m *mockUserStore) UpdateProfile(_ context.Context, id uint64, name *string, dob *time.Time, imagePath *string) error {
	u, ok := m.byID[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	if name != nil {
		u.Name = *name
	}
	if dob != nil {
		u.DateOfBirth = dob
	}
	if imagePath != nil {
		u.ImagePath = imagePath
	}
	m.byID[id] = u
	return nil
}

func (m *mockUserStore) UpdatePassword(_ context.Context, id uint64, passwordHash string) error {
	u, ok := m.byID[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	m.byID[id] = u
	return nil
}

func (m *mockUserStore) Delete(_ context.Context, id uint64) error {
	if _, ok := m.byID[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(m.byID, id)
	return nil
}

type mockResetStore struct {
	byHash map[string]struct {
		userID uint64
		exp    time.Time
	}
}

func newMockResetStore() *mockResetStore {
	return &mockResetStore{byHash: map[string]struct {
		userID uint64
		exp    time.Time
	}{}}
}

func (m *mockResetStore) Store(_ context.Context, userID uint64, tokenHash string, exp time.Time) error {
	m.byHash[tokenHash] = struct {
		userID uint64
		exp    time.Time
	}{userID, exp}
	return nil
}

func (m *mockResetStore) Consume(_ context.Context, tokenHash string) (uint64, error) {
	entry, ok := m.byHash[tokenHash]
	if !ok || time.Now().After(entry.exp) {
		return 0, repository.ErrResetInvalid
	}
	delete(m.byHash, tokenHash)
	return entry.userID, nil
}

type mockMailer struct {
	lastTo   string
	lastLink string
	sent     int
	sendErr  error
}

func (m *mockMailer) SendPasswordReset(toEmail, toName, link string) error {
	m.lastTo = toEmail
	m.lastLink = link
	m.sent++
	return m.sendErr
}

// ---------- catalogue store mocks ----------

type mockMovieStore struct {
	nextID uint64
	byID   map[uint64]model.Movie
}

func newMockMovieStore() *mockMovieStore {
	return &mockMovieStore{nextID: 1, byID: map[uint64]model.Movie{}}
}

func (m *mockMovieStore) Create(_ context.Context, mv *model.Movie) error {
	mv.ID = m.nextID
	m.nextID++
	mv.CreatedAt = time.Now()
	m.byID[mv.ID] = *mv
	return nil
}

func (m *mockMovieStore) GetByID(_ context.Context, id uint64) (model.Movie, error) {
	mv, ok := m.byID[id]
	if !ok {
		return model.Movie{}, repository.ErrMovieNotFound
	}
	return mv, nil
}

func (m *mockMovieStore) List(_ context.Context, page, limit int) ([]model.Movie, int64, error) {
	all := make([]model.Movie, 0, len(m.byID))
	for id := uint64(1); id < m.nextID; id++ {
		if mv, ok := m.byID[id]; ok {
			all = append(all, mv)
		}
	}
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return []model.Movie{}, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (m *mockMovieStore) Update(_ context.Context, id uint64, p repository.MoviePatch) error {
	mv, ok := m.byID[id]
	if !ok {
		return repository.ErrMovieNotFound
	}
	if p.Title != nil {
		mv.Title = *p.Title
	}
	if p.Description != nil {
		mv.Description = *p.Description
	}
	if p.Genres != nil {
		mv.Genres = p.Genres
	}
	if p.DurationMin != nil {
		mv.DurationMin = *p.DurationMin
	}
	if p.Rating != nil {
		mv.Rating = *p.Rating
	}
	if p.ReleaseDate != nil {
		mv.ReleaseDate = p.ReleaseDate
	}
	m.byID[id] = mv
	return nil
}

func (m *mockMovieStore) Delete(_ context.Context, id uint64) error {
	if _, ok := m.byID[id]; !ok {
		return repository.ErrMovieNotFound
	}
	delete(m.byID, id)
	return nil
}

type mockHallStore struct {
	nextID uint64
	byID   map[uint64]model.CinemaHall
}

func newMockHallStore() *mockHallStore {
	return &mockHallStore{nextID: 1, byID: map[uint64]model.CinemaHall{}}
}

func (m *mockHallStore) Create(_ context.Context, h *model.CinemaHall) error {
	h.ID = m.nextID
	m.nextID++
	m.byID[h.ID] = *h
	return nil
}

func (m *mockHallStore) GetByID(_ context.Context, id uint64) (model.CinemaHall, error) {
	h, ok := m.byID[id]
	if !ok {
		return model.CinemaHall{}, repository.ErrHallNotFound
	}
	return h, nil
}

func (m *mockHallStore) List(_ context.Context, page, limit int) ([]model.CinemaHall, int64, error) {
	all := make([]model.CinemaHall, 0, len(m.byID))
	for id := uint64(1); id < m.nextID; id++ {
		if h, ok := m.byID[id]; ok {
			all = append(all, h)
		}
	}
	return all, int64(len(all)), nil
}

func (m *mockHallStore) Update(_ context.Context, id uint64, p repository.HallPatch) error {
	h, ok := m.byID[id]
	if !ok {
		return repository.ErrHallNotFound
	}
	if p.Name != nil {
		h.Name = *p.Name
	}
	if p.City != nil {
		h.City = *p.City
	}
	if p.Location != nil {
		h.Location = *p.Location
	}
	if p.Facilities != nil {
		h.Facilities = p.Facilities
	}
	if p.Rating != nil {
		h.Rating = p.Rating
	}
	m.byID[id] = h
	return nil
}

func (m *mockHallStore) Delete(_ context.Context, id uint64) error {
	if _, ok := m.byID[id]; !ok {
		return repository.ErrHallNotFound
	}
	delete(m.byID, id)
	return nil
}

type mockShowtimeStore struct {
	nextID  uint64
	byID    map[uint64]model.Showtime
	details []model.ShowtimeDetail
}

func newMockShowtimeStore() *mockShowtimeStore {
	return &mockShowtimeStore{nextID: 1, byID: map[uint64]model.Showtime{}}
}

func (m *mockShowtimeStore) Create(_ context.Context, s *model.Showtime) error {
	s.ID = m.nextID
	m.nextID++
	m.byID[s.ID] = *s
	return nil
}

func (m *mockShowtimeStore) GetByID(_ context.Context, id uint64) (model.Showtime, error) {
	s, ok := m.byID[id]
	if !ok {
		return model.Showtime{}, repository.ErrShowtimeNotFound
	}
	return s, nil
}

func (m *mockShowtimeStore) List(_ context.Context, page, limit int) ([]model.Showtime, int64, error) {
	all := make([]model.Showtime, 0, len(m.byID))
	for id := uint64(1); id < m.nextID; id++ {
		if s, ok := m.byID[id]; ok {
			all = append(all, s)
		}
	}
	return all, int64(len(all)), nil
}

func (m *mockShowtimeStore) ListDetail(_ context.Context, movieID, hallID uint64) ([]model.ShowtimeDetail, error) {
	out := []model.ShowtimeDetail{}
	for _, d := range m.details {
		if movieID != 0 && d.MovieID != movieID {
			continue
		}
		if hallID != 0 && d.HallID != hallID {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (m *mockShowtimeStore) Update(_ context.Context, id uint64, p repository.ShowtimePatch) error {
	s, ok := m.byID[id]
	if !ok {
		return repository.ErrShowtimeNotFound
	}
	if p.MovieID != nil {
		s.MovieID = *p.MovieID
	}
	if p.HallID != nil {
		s.HallID = *p.HallID
	}
	if p.StartsAt != nil {
		s.StartsAt = *p.StartsAt
	}
	m.byID[id] = s
	return nil
}

func (m *mockShowtimeStore) Delete(_ context.Context, id uint64) error {
	if _, ok := m.byID[id]; !ok {
		return repository.ErrShowtimeNotFound
	}
	delete(m.byID, id)
	return nil
}

type mockOfferStore struct {
	nextID uint64
	byID   map[uint64]model.Offer
}

func newMockOfferStore() *mockOfferStore {
	return &mockOfferStore{nextID: 1, byID: map[uint64]model.Offer{}}
}

func (m *mockOfferStore) Create(_ context.Context, o *model.Offer) error {
	for _, e := range m.byID {
		if e.Code == o.Code {
			return repository.ErrOfferCodeExists
		}
	}
	o.ID = m.nextID
	m.nextID++
	m.byID[o.ID] = *o
	return nil
}

func (m *mockOfferStore) GetByID(_ context.Context, id uint64) (model.Offer, error) {
	o, ok := m.byID[id]
	if !ok {
		return model.Offer{}, repository.ErrOfferNotFound
	}
	return o, nil
}

func (m *mockOfferStore) GetByCode(_ context.Context, code string) (model.Offer, error) {
	for _, o := range m.byID {
		if o.Code == code {
			return o, nil
		}
	}
	return model.Offer{}, repository.ErrOfferNotFound
}

func (m *mockOfferStore) List(_ context.Context, page, limit int) ([]model.Offer, int64, error) {
	all := make([]model.Offer, 0, len(m.byID))
	for id := uint64(1); id < m.nextID; id++ {
		if o, ok := m.byID[id]; ok {
			all = append(all, o)
		}
	}
	return all, int64(len(all)), nil
}

func (m *mockOfferStore) Update(_ context.Context, id uint64, p repository.OfferPatch) error {
	o, ok := m.byID[id]
	if !ok {
		return repository.ErrOfferNotFound
	}
	if p.Name != nil {
		o.Name = *p.Name
	}
	if p.Code != nil {
		o.Code = *p.Code
	}
	if p.IsActive != nil {
		o.IsActive = *p.IsActive
	}
	m.byID[id] = o
	return nil
}

func (m *mockOfferStore) Delete(_ context.Context, id uint64) error {
	if _, ok := m.byID[id]; !ok {
		return repository.ErrOfferNotFound
	}
	delete(m.byID, id)
	return nil
}

// ---------- payment mocks ----------

type mockPaymentStore struct {
	nextID uint64
	byPidx map[string]model.Payment
}

func newMockPaymentStore() *mockPaymentStore {
	return &mockPaymentStore{nextID: 1, byPidx: map[string]model.Payment{}}
}

func (m *mockPaymentStore) Create(_ context.Context, p *model.Payment) error {
	p.ID = m.nextID
	m.nextID++
	m.byPidx[p.Pidx] = *p
	return nil
}

func (m *mockPaymentStore) GetByPidx(_ context.Context, pidx string) (model.Payment, error) {
	p, ok := m.byPidx[pidx]
	if !ok {
		return model.Payment{}, repository.ErrPaymentNotFound
	}
	return p, nil
}

func (m *mockPaymentStore) UpdateStatus(_ context.Context, pidx, status string) error {
	p, ok := m.byPidx[pidx]
	if !ok {
		return nil
	}
	p.Status = status
	m.byPidx[pidx] = p
	return nil
}

type mockGateway struct {
	initiateRes payment.InitiateResponse
	initiateErr error
	lookupRes   payment.LookupResponse
	lookupErr   error
	lastLookup  string
}

func (m *mockGateway) Initiate(_ context.Context, _ payment.InitiateRequest) (payment.InitiateResponse, error) {
	return m.initiateRes, m.initiateErr
}

func (m *mockGateway) Lookup(_ context.Context, pidx string) (payment.LookupResponse, error) {
	m.lastLookup = pidx
	return m.lookupRes, m.lookupErr
}
